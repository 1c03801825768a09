package logger

import (
	"os"
	"sync/atomic"

	"github.com/rollbar/rollbar-go"
)

var rollbarEnabled atomic.Bool

// ConfigureRollbar enables error reporting to Rollbar. An empty token leaves it disabled.
func ConfigureRollbar(token, environment, codeVersion string) {
	if token == "" {
		rollbarEnabled.Store(false)
		return
	}

	host, _ := os.Hostname()
	rollbar.SetToken(token)
	rollbar.SetEnvironment(environment)
	rollbar.SetServerHost(host)
	rollbar.SetCodeVersion(codeVersion)
	rollbar.SetServerRoot("github.com/yigit/studbuds")
	rollbarEnabled.Store(true)

	Info().Str("environment", environment).Msg("Rollbar error reporting enabled")
}

// Report sends an unexpected error to Rollbar when it is configured
func Report(err error, fields map[string]interface{}) {
	if err == nil || !rollbarEnabled.Load() {
		return
	}
	rollbar.Error(err, fields)
}

// CloseRollbar flushes queued reports
func CloseRollbar() {
	if rollbarEnabled.Load() {
		rollbar.Close()
	}
}
