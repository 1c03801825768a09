// Command admin runs maintenance tasks against a StudBuds deployment.
//
// Usage:
//
//	admin [-config path] migrate up|down|version
//	admin [-config path] seed
//	admin [-config path] create-class -code CS101 -name "Intro" [-description text]
//	admin [-config path] reset-password -email someone@school.edu
package main

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/term"

	"github.com/yigit/studbuds/internal/app/migrations"
	"github.com/yigit/studbuds/internal/app/models/dto"
	"github.com/yigit/studbuds/internal/app/repositories"
	"github.com/yigit/studbuds/internal/app/services"
	"github.com/yigit/studbuds/internal/bootstrap"
	"github.com/yigit/studbuds/internal/config"
	"github.com/yigit/studbuds/internal/pkg/logger"
	"github.com/yigit/studbuds/internal/seed"
)

func main() {
	configPath := flag.String("config", "configs/config.yaml", "path to the YAML config file")
	flag.Usage = usage
	flag.Parse()

	if flag.NArg() == 0 {
		usage()
		os.Exit(2)
	}

	cfg, lgr, err := bootstrap.LoadConfigAndSetupLogger(*configPath)
	if err != nil {
		os.Exit(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	if err := run(ctx, cfg, lgr, flag.Arg(0), flag.Args()[1:]); err != nil {
		logger.Error().Err(err).Str("command", flag.Arg(0)).Msg("Admin command failed")
		os.Exit(1)
	}
}

func usage() {
	fmt.Fprintf(os.Stderr, "usage: %s [-config path] <migrate up|down|version | seed | create-class | reset-password>\n", os.Args[0])
	flag.PrintDefaults()
}

func run(ctx context.Context, cfg *config.Config, lgr zerolog.Logger, cmd string, args []string) error {
	switch cmd {
	case "migrate":
		return migrate(cfg, lgr, args)
	case "seed", "create-class", "reset-password":
	default:
		return fmt.Errorf("unknown command %q", cmd)
	}

	store, err := bootstrap.SetupStore(ctx, cfg, lgr)
	if err != nil {
		return err
	}
	defer func() {
		if err := store.Close(context.Background()); err != nil {
			lgr.Warn().Err(err).Msg("Failed to close store")
		}
	}()

	switch cmd {
	case "seed":
		return seed.CreateDefaultData(ctx, services.NewClassService(store.Repos(), services.SystemClock, lgr), lgr)
	case "create-class":
		return createClass(ctx, store.Repos(), lgr, args)
	default:
		return resetPassword(ctx, cfg, store.Repos(), lgr, args)
	}
}

func migrate(cfg *config.Config, lgr zerolog.Logger, args []string) error {
	if cfg.Database.Driver != config.DriverPostgres {
		return fmt.Errorf("migrations only apply to the %s driver", config.DriverPostgres)
	}
	if len(args) != 1 {
		return errors.New("migrate expects one of: up, down, version")
	}

	migrator, err := migrations.NewMigrator(cfg.Database.URL, lgr)
	if err != nil {
		return err
	}
	defer migrator.Close()

	switch args[0] {
	case "up":
		return migrator.Up()
	case "down":
		return migrator.Down()
	case "version":
		version, dirty, err := migrator.Version()
		if err != nil {
			return err
		}
		fmt.Printf("version %d (dirty: %t)\n", version, dirty)
		return nil
	}
	return fmt.Errorf("unknown migrate direction %q", args[0])
}

func createClass(ctx context.Context, repos *repositories.Repositories, lgr zerolog.Logger, args []string) error {
	fs := flag.NewFlagSet("create-class", flag.ContinueOnError)
	code := fs.String("code", "", "class code, stored upper-case")
	name := fs.String("name", "", "class name")
	description := fs.String("description", "", "optional description")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if strings.TrimSpace(*code) == "" || strings.TrimSpace(*name) == "" {
		return errors.New("-code and -name are required")
	}

	class, err := services.NewClassService(repos, services.SystemClock, lgr).CreateClass(ctx, "", dto.CreateClassRequest{
		Name:        *name,
		Code:        *code,
		Description: *description,
	})
	if err != nil {
		return err
	}
	fmt.Printf("created class %s (%s)\n", class.Code, class.ID)
	return nil
}

func resetPassword(ctx context.Context, cfg *config.Config, repos *repositories.Repositories, lgr zerolog.Logger, args []string) error {
	fs := flag.NewFlagSet("reset-password", flag.ContinueOnError)
	email := fs.String("email", "", "account email")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *email == "" {
		return errors.New("-email is required")
	}

	password, err := readPassword("New password: ")
	if err != nil {
		return err
	}

	users := services.NewUserService(repos, bootstrap.NewJWTService(cfg), cfg.App.EmailSuffix, services.SystemClock, lgr)
	if err := users.ResetPassword(ctx, *email, password); err != nil {
		return err
	}
	fmt.Println("password updated")
	return nil
}

// readPassword prompts without echo on a terminal and reads one line otherwise
func readPassword(prompt string) (string, error) {
	fd := int(os.Stdin.Fd())
	if term.IsTerminal(fd) {
		fmt.Fprint(os.Stderr, prompt)
		b, err := term.ReadPassword(fd)
		fmt.Fprintln(os.Stderr)
		if err != nil {
			return "", err
		}
		return string(b), nil
	}

	line, err := bufio.NewReader(os.Stdin).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", err
	}
	return strings.TrimRight(line, "\r\n"), nil
}
