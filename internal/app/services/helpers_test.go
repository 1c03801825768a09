package services

import (
	"bytes"
	"context"
	"mime/multipart"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
	authz "github.com/yigit/studbuds/internal/app/auth"
	"github.com/yigit/studbuds/internal/app/models/dto"
	"github.com/yigit/studbuds/internal/app/repositories"
	"github.com/yigit/studbuds/internal/app/repositories/memory"
	"github.com/yigit/studbuds/internal/pkg/auth"
	"github.com/yigit/studbuds/internal/pkg/filestorage"
	"golang.org/x/crypto/bcrypt"
)

func init() {
	auth.BcryptCost = bcrypt.MinCost
}

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

type publishedEvent struct {
	room, eventType string
	data            interface{}
}

type recordingNotifier struct {
	mu     sync.Mutex
	events []publishedEvent
}

func (n *recordingNotifier) Publish(room, eventType string, data interface{}) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.events = append(n.events, publishedEvent{room, eventType, data})
}

func (n *recordingNotifier) last() publishedEvent {
	n.mu.Lock()
	defer n.mu.Unlock()
	if len(n.events) == 0 {
		return publishedEvent{}
	}
	return n.events[len(n.events)-1]
}

type fixture struct {
	ctx      context.Context
	repos    *repositories.Repositories
	clock    *fakeClock
	notifier *recordingNotifier
	storage  *filestorage.LocalStorage

	users    UserService
	classes  ClassService
	posts    PostService
	notes    NoteService
	sessions StudySessionService
	groups   StudyGroupService
	messages MessageService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	log := zerolog.Nop()
	repos := memory.NewStore().Repos()
	clock := &fakeClock{now: time.Date(2024, 3, 10, 15, 0, 0, 0, time.UTC)}
	notifier := &recordingNotifier{}
	storage, err := filestorage.NewLocalStorage(t.TempDir(), "/uploads", log)
	require.NoError(t, err)

	jwtService := auth.NewJWTService(auth.JWTConfig{SecretKey: "test-secret", TokenExp: time.Hour, TokenIssuer: "studbuds"})
	authzService := authz.NewAuthorizationService(repos.Classes)

	return &fixture{
		ctx:      context.Background(),
		repos:    repos,
		clock:    clock,
		notifier: notifier,
		storage:  storage,
		users:    NewUserService(repos, jwtService, ".edu", clock.Now, log),
		classes:  NewClassService(repos, clock.Now, log),
		posts:    NewPostService(repos, authzService, notifier, clock.Now, log),
		notes:    NewNoteService(repos, authzService, storage, 10<<20, clock.Now, log),
		sessions: NewStudySessionService(repos, authzService, clock.Now, log),
		groups:   NewStudyGroupService(repos, clock.Now, log),
		messages: NewMessageService(repos, notifier, clock.Now, log),
	}
}

func (f *fixture) register(t *testing.T, name string) dto.UserResponse {
	t.Helper()
	resp, err := f.users.Register(f.ctx, dto.RegisterRequest{
		Name:     name,
		Email:    name + "@school.edu",
		Password: "pw123456",
		Major:    "CS",
	})
	require.NoError(t, err)
	return resp.User
}

func (f *fixture) class(t *testing.T, code string, members ...string) dto.ClassResponse {
	t.Helper()
	class, err := f.classes.CreateClass(f.ctx, "", dto.CreateClassRequest{Name: "Class " + code, Code: code})
	require.NoError(t, err)
	for _, m := range members {
		_, err := f.classes.JoinClass(f.ctx, m, class.ID)
		require.NoError(t, err)
	}
	return *class
}

// upload builds a multipart file header the way net/http would
func upload(t *testing.T, name string, content []byte) *multipart.FileHeader {
	t.Helper()
	body := &bytes.Buffer{}
	w := multipart.NewWriter(body)
	part, err := w.CreateFormFile("file", name)
	require.NoError(t, err)
	_, err = part.Write(content)
	require.NoError(t, err)
	require.NoError(t, w.Close())

	req := httptest.NewRequest("POST", "/", body)
	req.Header.Set("Content-Type", w.FormDataContentType())
	require.NoError(t, req.ParseMultipartForm(1<<20))
	return req.MultipartForm.File["file"][0]
}

var (
	pdfBytes = []byte("%PDF-1.4\n1 0 obj\n<< /Type /Catalog >>\nendobj\ntrailer\n<< /Root 1 0 R >>\n%%EOF\n")
	pngBytes = []byte{0x89, 'P', 'N', 'G', '\r', '\n', 0x1a, '\n', 0, 0, 0, 13, 'I', 'H', 'D', 'R', 0, 0, 0, 1, 0, 0, 0, 1, 8, 6, 0, 0, 0}
)
