package auth

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cityportal/backend/internal/middleware"
	"github.com/cityportal/backend/internal/user"
)

const testSecret = "test-secret-123"

type account struct {
	user *user.User
	hash string
}

// fakeUsers keeps accounts in memory, keyed by email.
type fakeUsers struct {
	mu       sync.Mutex
	accounts map[string]account
}

func newFakeUsers() *fakeUsers {
	return &fakeUsers{accounts: make(map[string]account)}
}

func (f *fakeUsers) Create(_ context.Context, email, passwordHash string, name *string) (*user.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.accounts[email]; ok {
		return nil, user.ErrAlreadyExists
	}
	u := &user.User{ID: "id-" + email, Email: email, Name: name, Role: "user", CreatedAt: time.Now()}
	f.accounts[email] = account{user: u, hash: passwordHash}
	return u, nil
}

func (f *fakeUsers) GetCredentials(_ context.Context, email string) (*user.User, string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	a, ok := f.accounts[email]
	if !ok {
		return nil, "", user.ErrNotFound
	}
	return a.user, a.hash, nil
}

func TestPassword_RoundTrip(t *testing.T) {
	hash, err := HashPassword("correct horse")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(hash, "$argon2id$v=19$m=65536,t=3,p=4$"))

	ok, err := VerifyPassword("correct horse", hash)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = VerifyPassword("wrong horse", hash)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestPassword_SaltedHashesDiffer(t *testing.T) {
	a, err := HashPassword("pw")
	require.NoError(t, err)
	b, err := HashPassword("pw")
	require.NoError(t, err)
	assert.NotEqual(t, a, b)
}

func TestVerifyPassword_Malformed(t *testing.T) {
	for _, enc := range []string{
		"",
		"plain",
		"$2a$10$bcrypthashbcrypthashbcrypthashbcrypthashbcrypthash",
		"$argon2id$v=19$m=65536,t=3,p=4$!!!$abc",
		"$argon2id$v=18$m=65536,t=3,p=4$c2FsdA$a2V5",
	} {
		_, err := VerifyPassword("pw", enc)
		assert.ErrorIs(t, err, errMalformedHash, enc)
	}
}

func TestService_RegisterAndLogin(t *testing.T) {
	svc := NewService(newFakeUsers(), testSecret, zerolog.Nop())
	ctx := context.Background()

	u, err := svc.Register(ctx, "  Jane@Example.com ", "secret1", nil)
	require.NoError(t, err)
	assert.Equal(t, "jane@example.com", u.Email)

	_, err = svc.Register(ctx, "jane@example.com", "other", nil)
	assert.ErrorIs(t, err, user.ErrAlreadyExists)

	token, got, err := svc.Login(ctx, "JANE@example.com", "secret1")
	require.NoError(t, err)
	assert.Equal(t, u.ID, got.ID)

	claims := jwt.MapClaims{}
	_, err = jwt.ParseWithClaims(token, claims, func(*jwt.Token) (interface{}, error) {
		return []byte(testSecret), nil
	})
	require.NoError(t, err)
	assert.Equal(t, u.ID, claims["sub"])
	assert.Equal(t, "jane@example.com", claims["email"])
	assert.Equal(t, "user", claims["role"])

	iat, _ := claims["iat"].(float64)
	exp, _ := claims["exp"].(float64)
	assert.InDelta(t, SessionTTL.Seconds(), exp-iat, 1)
}

func TestService_Login_Invalid(t *testing.T) {
	users := newFakeUsers()
	svc := NewService(users, testSecret, zerolog.Nop())
	_, err := svc.Register(context.Background(), "a@b.co", "secret1", nil)
	require.NoError(t, err)

	_, _, err = svc.Login(context.Background(), "a@b.co", "wrong")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, _, err = svc.Login(context.Background(), "nobody@b.co", "secret1")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	users.accounts["a@b.co"] = account{user: users.accounts["a@b.co"].user, hash: "garbage"}
	_, _, err = svc.Login(context.Background(), "a@b.co", "secret1")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func newHandler(secure bool) *Handler {
	return NewHandler(NewService(newFakeUsers(), testSecret, zerolog.Nop()), secure)
}

func post(h http.HandlerFunc, path, body string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	h(w, httptest.NewRequest(http.MethodPost, path, strings.NewReader(body)))
	return w
}

func TestHandler_Register(t *testing.T) {
	h := newHandler(false)

	w := post(h.Register, "/api/v1/auth/register", `{"email":"a@b.co","password":"secret1","name":"Ann"}`)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	assert.Contains(t, w.Body.String(), `"email":"a@b.co"`)
	assert.NotContains(t, w.Body.String(), "argon2")
	assert.Empty(t, w.Result().Cookies())

	w = post(h.Register, "/api/v1/auth/register", `{"email":"a@b.co","password":"secret1"}`)
	assert.Equal(t, http.StatusConflict, w.Code)

	w = post(h.Register, "/api/v1/auth/register", `{"email":"not-an-email","password":"123"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "email must be a valid email address")
	assert.Contains(t, w.Body.String(), "password must be at least 6 characters")

	w = post(h.Register, "/api/v1/auth/register", `{`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestHandler_LoginSetsSessionCookie(t *testing.T) {
	h := newHandler(true)
	require.Equal(t, http.StatusCreated, post(h.Register, "/api/v1/auth/register", `{"email":"a@b.co","password":"secret1"}`).Code)

	w := post(h.Login, "/api/v1/auth/login", `{"email":"a@b.co","password":"secret1"}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	cookies := w.Result().Cookies()
	require.Len(t, cookies, 1)
	c := cookies[0]
	assert.Equal(t, middleware.SessionCookie, c.Name)
	assert.NotEmpty(t, c.Value)
	assert.True(t, c.HttpOnly)
	assert.True(t, c.Secure)
	assert.Equal(t, http.SameSiteLaxMode, c.SameSite)
	assert.Equal(t, "/", c.Path)
	assert.Equal(t, 7*24*60*60, c.MaxAge)

	// The issued cookie is accepted by the session middleware.
	req := httptest.NewRequest(http.MethodGet, "/api/v1/auth/me", nil)
	req.AddCookie(c)
	rec := httptest.NewRecorder()
	middleware.RequireAuth(testSecret)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id, _ := middleware.UserID(r.Context())
		_, _ = w.Write([]byte(id))
	})).ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "id-a@b.co", rec.Body.String())
}

func TestHandler_Login_BadCredentials(t *testing.T) {
	h := newHandler(false)
	require.Equal(t, http.StatusCreated, post(h.Register, "/api/v1/auth/register", `{"email":"a@b.co","password":"secret1"}`).Code)

	w := post(h.Login, "/api/v1/auth/login", `{"email":"a@b.co","password":"nope"}`)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Empty(t, w.Result().Cookies())
}

func TestHandler_Logout(t *testing.T) {
	h := newHandler(false)

	w := post(h.Logout, "/api/v1/auth/logout", "")
	require.Equal(t, http.StatusOK, w.Code)
	cookies := w.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, middleware.SessionCookie, cookies[0].Name)
	assert.Empty(t, cookies[0].Value)
	assert.Less(t, cookies[0].MaxAge, 0)
	assert.False(t, cookies[0].Secure)
}
