package service

import (
	"context"
	"net/url"
	"sync"
	"testing"
	"time"

	"github.com/pensao-tracker/internal/database"
	"github.com/pensao-tracker/internal/models"
	"github.com/pensao-tracker/internal/repository"
	"github.com/pensao-tracker/internal/session"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// recordingMailer keeps the links it was asked to send
type recordingMailer struct {
	mu    sync.Mutex
	links []string
}

func (m *recordingMailer) SendPasswordReset(_ context.Context, _, _, link string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.links = append(m.links, link)
	return nil
}

func (m *recordingMailer) lastToken(t *testing.T) string {
	t.Helper()
	m.mu.Lock()
	defer m.mu.Unlock()
	require.NotEmpty(t, m.links)
	u, err := url.Parse(m.links[len(m.links)-1])
	require.NoError(t, err)
	return u.Query().Get("token")
}

type testEnv struct {
	db       *gorm.DB
	users    *repository.UserRepository
	children *repository.ChildRepository
	payments *repository.PaymentRepository
	tokens   *repository.ResetTokenRepository
	mailer   *recordingMailer

	auth     *AuthService
	password *PasswordService
	childSvc *ChildService
	paySvc   *PaymentService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	db, err := database.OpenMemory()
	require.NoError(t, err)
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	})

	env := &testEnv{
		db:       db,
		users:    repository.NewUserRepository(db),
		children: repository.NewChildRepository(db),
		payments: repository.NewPaymentRepository(db),
		tokens:   repository.NewResetTokenRepository(db),
		mailer:   &recordingMailer{},
	}
	sessions := session.NewManager(session.NewMemoryStore(100, time.Hour), "test-secret", "session", time.Hour)
	env.auth = NewAuthService(env.users, sessions)
	env.password = NewPasswordService(env.users, env.tokens, env.mailer, "http://front.test/", time.Hour)
	env.childSvc = NewChildService(env.children)
	env.paySvc = NewPaymentService(env.payments, env.children)
	return env
}

func (e *testEnv) register(t *testing.T, email, password string) *models.User {
	t.Helper()
	user, err := e.auth.Register(&RegisterRequest{Name: "Ana", Surname: "Silva", Email: email, Password: password})
	require.NoError(t, err)
	return user
}

func (e *testEnv) addChild(t *testing.T, userID uint) *models.Child {
	t.Helper()
	child, err := e.childSvc.Create(userID, &ChildRequest{
		FullName:            strPtr("Sam"),
		Gender:              strPtr("M"),
		DateOfBirth:         "2015-05-01",
		MonthlyAlimonyValue: 300.0,
	})
	require.NoError(t, err)
	return child
}

func strPtr(s string) *string { return &s }

func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

func requireKind(t *testing.T, err error, kind error, message string) {
	t.Helper()
	require.Error(t, err)
	require.ErrorIs(t, err, kind)
	require.Equal(t, message, AsError(err).Message)
}
