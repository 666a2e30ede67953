package auth

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/locagest/locagest/internal/agents"
	"github.com/locagest/locagest/internal/authz"
	"github.com/locagest/locagest/internal/platform/httpx"
	"github.com/locagest/locagest/internal/shared"
)

type stubAccounts struct {
	byEmail map[string]agents.Account
}

func (s *stubAccounts) List(ctx context.Context) ([]agents.Account, error) { return nil, nil }

func (s *stubAccounts) Get(ctx context.Context, id int64) (agents.Account, error) {
	for _, a := range s.byEmail {
		if a.ID == id {
			return a, nil
		}
	}
	return agents.Account{}, httpx.ErrNotFound
}

func (s *stubAccounts) FindByEmail(ctx context.Context, email string) (agents.Account, error) {
	if a, ok := s.byEmail[email]; ok {
		return a, nil
	}
	return agents.Account{}, httpx.ErrNotFound
}

func (s *stubAccounts) Create(ctx context.Context, account agents.Account) (agents.Account, error) {
	account.ID = int64(len(s.byEmail) + 1)
	account.IsActive = true
	s.byEmail[account.Email] = account
	return account, nil
}

func (s *stubAccounts) UpdateProfile(ctx context.Context, id int64, firstName, lastName, phone string) error {
	return nil
}

func (s *stubAccounts) SetRole(ctx context.Context, id int64, role authz.Role) error { return nil }

func (s *stubAccounts) SetPermissions(ctx context.Context, id int64, permissions []string) error {
	return nil
}

func (s *stubAccounts) SetActive(ctx context.Context, id int64, active bool) error { return nil }

func (s *stubAccounts) GrantFor(ctx context.Context, userID int64) (*authz.Grant, error) {
	return nil, httpx.ErrNotFound
}

func (s *stubAccounts) AdminIDs(ctx context.Context) ([]int64, error) { return nil, nil }

type stubSessions struct {
	registered []string
	removed    []string
}

func (s *stubSessions) CreateSession(ctx context.Context, id string, userID int64, expiresAt time.Time, ip, ua string) error {
	s.registered = append(s.registered, id)
	return nil
}

func (s *stubSessions) DeleteSession(ctx context.Context, id string) error {
	s.removed = append(s.removed, id)
	return nil
}

func testAccount(t *testing.T) agents.Account {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte("motdepasse123"), bcrypt.MinCost)
	require.NoError(t, err)
	return agents.Account{
		ID:           1,
		FirstName:    "Amira",
		LastName:     "Ben Salah",
		Email:        "amira@locagest.tn",
		Role:         authz.RoleAdministrator,
		IsActive:     true,
		PasswordHash: string(hash),
	}
}

func newTestHandler(t *testing.T, accounts agents.Repository, sessionStore SessionStore) (*Handler, *shared.SessionManager) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	sessions := shared.NewSessionManager(client, "test_session", "secret", time.Hour, false)
	csrf := shared.NewCSRFManager("csrfsecret")
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	service := NewService(accounts, sessionStore)
	return NewHandler(logger, service, agents.NewService(accounts), sessions, csrf), sessions
}

func requestWithSession(t *testing.T, sessions *shared.SessionManager, method, target, body string) (*http.Request, *shared.Session) {
	t.Helper()
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	sess, err := sessions.Load(req.Context(), req)
	require.NoError(t, err)
	return req.WithContext(shared.ContextWithSession(req.Context(), sess)), sess
}

func TestLoginSuccess(t *testing.T) {
	account := testAccount(t)
	accounts := &stubAccounts{byEmail: map[string]agents.Account{account.Email: account}}
	sessionStore := &stubSessions{}
	h, sessions := newTestHandler(t, accounts, sessionStore)

	req, sess := requestWithSession(t, sessions, http.MethodPost, "/auth/login",
		`{"email":"amira@locagest.tn","password":"motdepasse123"}`)
	rec := httptest.NewRecorder()

	h.Login(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "1", sess.User())
	require.Equal(t, []string{sess.ID}, sessionStore.registered)

	var body struct {
		Account   agents.Account `json:"account"`
		CSRFToken string         `json:"csrfToken"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Equal(t, "amira@locagest.tn", body.Account.Email)
	require.NotEmpty(t, body.CSRFToken)
	require.NotContains(t, rec.Body.String(), account.PasswordHash)
}

func TestLoginWrongPassword(t *testing.T) {
	account := testAccount(t)
	accounts := &stubAccounts{byEmail: map[string]agents.Account{account.Email: account}}
	h, sessions := newTestHandler(t, accounts, &stubSessions{})

	req, sess := requestWithSession(t, sessions, http.MethodPost, "/auth/login",
		`{"email":"amira@locagest.tn","password":"mauvais"}`)
	rec := httptest.NewRecorder()

	h.Login(rec, req)

	require.Equal(t, http.StatusUnauthorized, rec.Code)
	require.Empty(t, sess.User())
}

func TestLoginDeactivatedAccount(t *testing.T) {
	account := testAccount(t)
	account.IsActive = false
	accounts := &stubAccounts{byEmail: map[string]agents.Account{account.Email: account}}
	h, sessions := newTestHandler(t, accounts, &stubSessions{})

	req, _ := requestWithSession(t, sessions, http.MethodPost, "/auth/login",
		`{"email":"amira@locagest.tn","password":"motdepasse123"}`)
	rec := httptest.NewRecorder()

	h.Login(rec, req)

	require.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestSignupCreatesStandardAccount(t *testing.T) {
	accounts := &stubAccounts{byEmail: map[string]agents.Account{}}
	h, sessions := newTestHandler(t, accounts, &stubSessions{})

	req, _ := requestWithSession(t, sessions, http.MethodPost, "/auth/signup",
		`{"firstName":"Karim","lastName":"Haddad","email":"karim@locagest.tn","password":"motdepasse123"}`)
	rec := httptest.NewRecorder()

	h.Signup(rec, req)

	require.Equal(t, http.StatusCreated, rec.Code)
	created := accounts.byEmail["karim@locagest.tn"]
	require.Equal(t, authz.RoleStandard, created.Role)
	require.Empty(t, created.Permissions)
}

func TestLogoutDestroysSession(t *testing.T) {
	account := testAccount(t)
	accounts := &stubAccounts{byEmail: map[string]agents.Account{account.Email: account}}
	sessionStore := &stubSessions{}
	h, sessions := newTestHandler(t, accounts, sessionStore)

	req, sess := requestWithSession(t, sessions, http.MethodPost, "/auth/logout", "")
	sess.SetUser("1")
	rec := httptest.NewRecorder()

	h.Logout(rec, req)

	require.Equal(t, http.StatusNoContent, rec.Code)
	require.Equal(t, []string{sess.ID}, sessionStore.removed)
}

func TestProfileRequiresUser(t *testing.T) {
	accounts := &stubAccounts{byEmail: map[string]agents.Account{}}
	h, sessions := newTestHandler(t, accounts, &stubSessions{})

	req, _ := requestWithSession(t, sessions, http.MethodGet, "/auth/profile", "")
	rec := httptest.NewRecorder()

	h.Profile(rec, req)

	require.Equal(t, http.StatusUnauthorized, rec.Code)
}
