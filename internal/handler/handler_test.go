package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strconv"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/pensao-tracker/internal/database"
	"github.com/pensao-tracker/internal/models"
	"github.com/pensao-tracker/internal/repository"
	"github.com/pensao-tracker/internal/service"
	"github.com/pensao-tracker/internal/session"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type linkRecorder struct {
	mu    sync.Mutex
	links []string
}

func (m *linkRecorder) SendPasswordReset(_ context.Context, _, _, link string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.links = append(m.links, link)
	return nil
}

type testServer struct {
	db       *gorm.DB
	router   *gin.Engine
	password *service.PasswordService
	mailer   *linkRecorder
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	db, err := database.OpenMemory()
	require.NoError(t, err)
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	})

	userRepo := repository.NewUserRepository(db)
	childRepo := repository.NewChildRepository(db)
	paymentRepo := repository.NewPaymentRepository(db)
	tokenRepo := repository.NewResetTokenRepository(db)

	sessions := session.NewManager(session.NewMemoryStore(100, time.Hour), "test-secret", "session", time.Hour)
	mailer := &linkRecorder{}

	svc := Services{
		Auth:     service.NewAuthService(userRepo, sessions),
		Password: service.NewPasswordService(userRepo, tokenRepo, mailer, "http://front.test", time.Hour),
		Children: service.NewChildService(childRepo),
		Payments: service.NewPaymentService(paymentRepo, childRepo),
		Sessions: sessions,
	}

	return &testServer{
		db:       db,
		router:   NewRouter(svc, BuildInfo{Version: "test"}),
		password: svc.Password,
		mailer:   mailer,
	}
}

// client keeps the cookies set by earlier responses
type client struct {
	t       *testing.T
	srv     *testServer
	cookies map[string]*http.Cookie
}

func (s *testServer) client(t *testing.T) *client {
	return &client{t: t, srv: s, cookies: map[string]*http.Cookie{}}
}

func (c *client) do(method, path string, body interface{}) *httptest.ResponseRecorder {
	c.t.Helper()

	var buf bytes.Buffer
	switch b := body.(type) {
	case nil:
	case string:
		buf.WriteString(b)
	default:
		require.NoError(c.t, json.NewEncoder(&buf).Encode(b))
	}

	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	for _, cookie := range c.cookies {
		req.AddCookie(cookie)
	}

	w := httptest.NewRecorder()
	c.srv.router.ServeHTTP(w, req)

	for _, cookie := range w.Result().Cookies() {
		if cookie.MaxAge < 0 {
			delete(c.cookies, cookie.Name)
			continue
		}
		c.cookies[cookie.Name] = cookie
	}
	return w
}

func (c *client) registerAndLogin(email, password string) {
	c.t.Helper()
	w := c.do(http.MethodPost, "/api/register", gin.H{"name": "Ana", "surname": "Silva", "email": email, "password": password})
	require.Equal(c.t, http.StatusCreated, w.Code, w.Body.String())
	w = c.do(http.MethodPost, "/api/login", gin.H{"email": email, "password": password})
	require.Equal(c.t, http.StatusOK, w.Code, w.Body.String())
}

func (c *client) createChild(name string) uint {
	c.t.Helper()
	w := c.do(http.MethodPost, "/api/children", gin.H{
		"full_name":             name,
		"gender":                "M",
		"date_of_birth":         "2015-05-01",
		"monthly_alimony_value": 300.0,
	})
	require.Equal(c.t, http.StatusCreated, w.Code, w.Body.String())
	body := decode(c.t, w)
	child := body["child"].(map[string]interface{})
	return uint(child["id"].(float64))
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body), w.Body.String())
	return body
}

func idPath(prefix string, id uint) string {
	return prefix + strconv.FormatUint(uint64(id), 10)
}

func TestHealth(t *testing.T) {
	srv := newTestServer(t)
	w := srv.client(t).do(http.MethodGet, "/health", nil)

	assert.Equal(t, http.StatusOK, w.Code)
	body := decode(t, w)
	assert.Equal(t, "ok", body["status"])
	assert.Equal(t, "test", body["version"])
}

func TestRegisterAndLogin(t *testing.T) {
	srv := newTestServer(t)
	c := srv.client(t)

	w := c.do(http.MethodPost, "/api/register", gin.H{"name": "Alice", "surname": "A", "email": "alice@x.com", "password": "pw1"})
	require.Equal(t, http.StatusCreated, w.Code)
	body := decode(t, w)
	assert.Equal(t, service.MsgRegistered, body["message"])
	user := body["user"].(map[string]interface{})
	assert.Equal(t, "alice@x.com", user["email"])
	assert.NotContains(t, user, "password_hash")

	w = c.do(http.MethodPost, "/api/register", gin.H{"name": "Alice", "surname": "A", "email": "alice@x.com", "password": "pw1"})
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, service.MsgEmailTaken, decode(t, w)["message"])

	w = c.do(http.MethodPost, "/api/register", gin.H{"email": "b@x.com"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, service.MsgRegisterMissing, decode(t, w)["message"])

	wrong := c.do(http.MethodPost, "/api/login", gin.H{"email": "alice@x.com", "password": "bad"})
	unknown := c.do(http.MethodPost, "/api/login", gin.H{"email": "nobody@x.com", "password": "pw1"})
	assert.Equal(t, http.StatusUnauthorized, wrong.Code)
	assert.Equal(t, http.StatusUnauthorized, unknown.Code)
	assert.Equal(t, wrong.Body.String(), unknown.Body.String())

	w = c.do(http.MethodPost, "/api/login", gin.H{"email": "alice@x.com", "password": "pw1"})
	require.Equal(t, http.StatusOK, w.Code)
	body = decode(t, w)
	assert.Equal(t, service.MsgLoggedIn, body["message"])
	assert.Equal(t, "Alice", body["user_name"])
	assert.Equal(t, "alice@x.com", body["user_email"])

	cookie := c.cookies["session"]
	require.NotNil(t, cookie)
	assert.True(t, cookie.HttpOnly)
	assert.Equal(t, http.SameSiteLaxMode, cookie.SameSite)
}

func TestProtectedRoutesRequireSession(t *testing.T) {
	srv := newTestServer(t)
	c := srv.client(t)

	w := c.do(http.MethodGet, "/api/children", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	body := decode(t, w)
	assert.Equal(t, service.MsgUnauthorized, body["message"])
	assert.Equal(t, "index.html", body["redirect"])

	w = c.do(http.MethodPost, "/api/logout", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	c.registerAndLogin("alice@x.com", "pw1")
	stolen := *c.cookies["session"]

	w = c.do(http.MethodGet, "/api/children", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, "[]", w.Body.String())

	w = c.do(http.MethodPost, "/api/logout", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, service.MsgLoggedOut, decode(t, w)["message"])
	assert.Empty(t, c.cookies)

	// The old cookie no longer names a live session
	c.cookies["session"] = &stolen
	w = c.do(http.MethodGet, "/api/children", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestChildrenAreScopedToOwner(t *testing.T) {
	srv := newTestServer(t)
	alice := srv.client(t)
	bob := srv.client(t)
	alice.registerAndLogin("alice@x.com", "pw1")
	bob.registerAndLogin("bob@x.com", "pw2")

	samID := alice.createChild("Sam")

	w := bob.do(http.MethodGet, idPath("/api/children/", samID), nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, service.MsgChildNotFound, decode(t, w)["message"])

	w = alice.do(http.MethodGet, idPath("/api/children/", samID), nil)
	require.Equal(t, http.StatusOK, w.Code)
	child := decode(t, w)
	assert.Equal(t, "Sam", child["full_name"])
	assert.Equal(t, "2015-05-01", child["date_of_birth"])
	assert.Equal(t, 300.0, child["monthly_alimony_value"])
	assert.Len(t, child["enabled_years"], 1)

	w = bob.do(http.MethodPut, idPath("/api/children/", samID), gin.H{"full_name": "Hacked"})
	assert.Equal(t, http.StatusNotFound, w.Code)
	w = bob.do(http.MethodDelete, idPath("/api/children/", samID), nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = alice.do(http.MethodGet, "/api/children/abc", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = alice.do(http.MethodPut, idPath("/api/children/", samID), gin.H{"monthly_alimony_value": "320"})
	require.Equal(t, http.StatusOK, w.Code)
	body := decode(t, w)
	assert.Equal(t, service.MsgChildUpdated, body["message"])
	assert.Equal(t, 320.0, body["child"].(map[string]interface{})["monthly_alimony_value"])

	w = alice.do(http.MethodPut, idPath("/api/children/", samID), gin.H{"enabled_years": 2024})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, service.MsgInvalidYears, decode(t, w)["message"])

	w = alice.do(http.MethodGet, "/api/children", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var list []map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &list))
	require.Len(t, list, 1)

	w = alice.do(http.MethodDelete, idPath("/api/children/", samID), nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, service.MsgChildDeleted, decode(t, w)["message"])
}

func TestPaymentsFlow(t *testing.T) {
	srv := newTestServer(t)
	alice := srv.client(t)
	bob := srv.client(t)
	alice.registerAndLogin("alice@x.com", "pw1")
	bob.registerAndLogin("bob@x.com", "pw2")
	samID := alice.createChild("Sam")

	w := alice.do(http.MethodPost, "/api/payments", gin.H{"child_id": samID, "amount": 300.0, "payment_date": "2024-01-15"})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	body := decode(t, w)
	assert.Equal(t, service.MsgPaymentCreated, body["message"])
	payment := body["payment"].(map[string]interface{})
	paymentID := uint(payment["id"].(float64))
	assert.Equal(t, 300.0, payment["amount"])
	assert.Equal(t, "2024-01-15", payment["payment_date"])

	w = alice.do(http.MethodGet, idPath("/api/payments/", samID), nil)
	require.Equal(t, http.StatusOK, w.Code)
	var list []map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &list))
	require.Len(t, list, 1)
	assert.Equal(t, 300.0, list[0]["amount"])

	w = bob.do(http.MethodPut, idPath("/api/payments/", paymentID), gin.H{"amount": 1.0})
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Equal(t, service.MsgPaymentForbidden, decode(t, w)["message"])

	w = bob.do(http.MethodGet, idPath("/api/payments/", samID), nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = bob.do(http.MethodPost, "/api/payments", gin.H{"child_id": samID, "amount": 1.0, "payment_date": "2024-01-15"})
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, service.MsgPaymentChildNotFound, decode(t, w)["message"])

	future := time.Now().UTC().AddDate(0, 0, 2).Format("2006-01-02")
	w = alice.do(http.MethodPost, "/api/payments", gin.H{"child_id": samID, "amount": 1.0, "payment_date": future})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, service.MsgPaymentFutureDate, decode(t, w)["message"])

	w = alice.do(http.MethodPut, idPath("/api/payments/", paymentID), gin.H{"amount": 310.0, "month_reference": 1})
	require.Equal(t, http.StatusOK, w.Code)
	body = decode(t, w)
	assert.Equal(t, service.MsgPaymentUpdated, body["message"])
	assert.Equal(t, 310.0, body["payment"].(map[string]interface{})["amount"])

	w = alice.do(http.MethodDelete, idPath("/api/payments/", paymentID+100), nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, service.MsgPaymentNotFound, decode(t, w)["message"])

	w = alice.do(http.MethodDelete, idPath("/api/payments/", paymentID), nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, service.MsgPaymentDeleted, decode(t, w)["message"])
}

func TestForgotPasswordDoesNotRevealAccounts(t *testing.T) {
	srv := newTestServer(t)
	c := srv.client(t)
	c.registerAndLogin("alice@x.com", "pw1")

	known := c.do(http.MethodPost, "/api/forgot-password", gin.H{"email": "alice@x.com"})
	unknown := c.do(http.MethodPost, "/api/forgot-password", gin.H{"email": "nobody@x.com"})

	assert.Equal(t, http.StatusOK, known.Code)
	assert.Equal(t, http.StatusOK, unknown.Code)
	assert.Equal(t, known.Body.String(), unknown.Body.String())
	assert.Equal(t, service.MsgResetRequested, decode(t, known)["message"])
	assert.Len(t, srv.mailer.links, 1)

	w := c.do(http.MethodPost, "/api/forgot-password", gin.H{})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, service.MsgForgotMissing, decode(t, w)["message"])

	w = c.do(http.MethodPost, "/api/forgot-password", "{not json")
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, service.MsgBadRequestBody, decode(t, w)["message"])
}

func TestResetPasswordFlow(t *testing.T) {
	srv := newTestServer(t)
	c := srv.client(t)
	c.registerAndLogin("alice@x.com", "pw1")

	issued := time.Now().UTC()
	srv.password.SetClock(func() time.Time { return issued })

	w := c.do(http.MethodPost, "/api/forgot-password", gin.H{"email": "alice@x.com"})
	require.Equal(t, http.StatusOK, w.Code)
	require.Len(t, srv.mailer.links, 1)
	link, err := url.Parse(srv.mailer.links[0])
	require.NoError(t, err)
	token := link.Query().Get("token")

	// Two hours later the token has expired
	srv.password.SetClock(func() time.Time { return issued.Add(2 * time.Hour) })
	w = c.do(http.MethodPost, "/api/reset-password", gin.H{"token": token, "new_password": "new", "confirm_password": "new"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, service.MsgTokenExpired, decode(t, w)["message"])

	srv.password.SetClock(func() time.Time { return issued.Add(time.Minute) })
	w = c.do(http.MethodPost, "/api/reset-password", gin.H{"token": token, "new_password": "new", "confirm_password": "other"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, service.MsgPasswordsMismatch, decode(t, w)["message"])

	w = c.do(http.MethodPost, "/api/reset-password", gin.H{"token": token, "new_password": "new", "confirm_password": "new"})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, service.MsgPasswordReset, decode(t, w)["message"])

	w = c.do(http.MethodPost, "/api/reset-password", gin.H{"token": token, "new_password": "x", "confirm_password": "x"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, service.MsgTokenInvalid, decode(t, w)["message"])

	w = c.do(http.MethodPost, "/api/reset-password", "[")
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, service.MsgBadRequestBody, decode(t, w)["message"])

	w = c.do(http.MethodPost, "/api/login", gin.H{"email": "alice@x.com", "password": "pw1"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	w = c.do(http.MethodPost, "/api/login", gin.H{"email": "alice@x.com", "password": "new"})
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestListPaymentsStoreFailure(t *testing.T) {
	srv := newTestServer(t)
	alice := srv.client(t)
	alice.registerAndLogin("alice@x.com", "pw1")
	samID := alice.createChild("Sam")

	require.NoError(t, srv.db.Migrator().DropTable(&models.Payment{}))

	w := alice.do(http.MethodGet, idPath("/api/payments/", samID), nil)
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	body := decode(t, w)
	assert.Equal(t, service.MsgPaymentsListFailed, body["message"])
	assert.NotEmpty(t, body["error"])
}
