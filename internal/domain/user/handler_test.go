package user

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"foodgram/internal/middleware"
	"foodgram/internal/pkg/jwt"
	"foodgram/internal/pkg/testdb"
)

type stubSubscriptions map[[2]int64]bool

func (s stubSubscriptions) IsSubscribed(_ context.Context, follower, author int64) (bool, error) {
	return s[[2]int64{follower, author}], nil
}

func (s stubSubscriptions) SubscribedAmong(_ context.Context, follower int64, authors []int64) (map[int64]bool, error) {
	out := make(map[int64]bool)
	for _, a := range authors {
		if s[[2]int64{follower, a}] {
			out[a] = true
		}
	}
	return out, nil
}

type testEnv struct {
	router *gin.Engine
	svc    *Service
	tokens *jwt.Service
}

func newTestEnv(t *testing.T, subs SubscriptionChecker) *testEnv {
	gin.SetMode(gin.TestMode)
	db := testdb.New(t, &User{})
	tokens := jwt.New("test-secret", time.Hour)
	svc := NewService(NewRepository(db), tokens)

	router := gin.New()
	api := router.Group("/api", middleware.Authenticate(tokens))
	NewHandler(svc, subs, 6, 100).RegisterRoutes(api)
	return &testEnv{router: router, svc: svc, tokens: tokens}
}

func (e *testEnv) do(method, path string, body any, token string) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Token "+token)
	}
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

func (e *testEnv) register(t *testing.T, username string) (*User, string) {
	u, err := e.svc.Register(context.Background(), RegisterInput{
		Email:     username + "@example.com",
		Username:  username,
		FirstName: "First",
		LastName:  "Last",
		Password:  "pass-" + username,
	})
	require.NoError(t, err)
	token, err := e.tokens.GenerateToken(u.ID)
	require.NoError(t, err)
	return u, token
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	var out map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	return out
}

func TestHandler_Register(t *testing.T) {
	env := newTestEnv(t, nil)

	w := env.do(http.MethodPost, "/api/users/", map[string]string{
		"email":      "Chef@Example.com",
		"username":   "chef",
		"first_name": "Ann",
		"last_name":  "Chef",
		"password":   "very-secret",
	}, "")
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	data := decode(t, w)["data"].(map[string]any)
	assert.Equal(t, "chef@example.com", data["email"])
	assert.Equal(t, "chef", data["username"])
	assert.NotContains(t, w.Body.String(), "password")

	w = env.do(http.MethodPost, "/api/users/", map[string]string{
		"email":      "chef@example.com",
		"username":   "other",
		"first_name": "A",
		"last_name":  "B",
		"password":   "x",
	}, "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "email")
}

func TestHandler_Register_Invalid(t *testing.T) {
	env := newTestEnv(t, nil)

	w := env.do(http.MethodPost, "/api/users/", map[string]string{
		"email":      "not-an-email",
		"username":   "me",
		"first_name": "A",
		"last_name":  "B",
		"password":   "x",
	}, "")
	require.Equal(t, http.StatusBadRequest, w.Code)

	details := decode(t, w)["error"].(map[string]any)["details"].(map[string]any)
	assert.Contains(t, details, "email")
	assert.Contains(t, details, "username")
}

func TestHandler_LoginAndMe(t *testing.T) {
	env := newTestEnv(t, nil)
	env.register(t, "alice")

	w := env.do(http.MethodPost, "/api/auth/token/login/", map[string]string{
		"email":    "alice@example.com",
		"password": "pass-alice",
	}, "")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	token := decode(t, w)["data"].(map[string]any)["auth_token"].(string)
	require.NotEmpty(t, token)

	w = env.do(http.MethodGet, "/api/users/me/", nil, token)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "alice", decode(t, w)["data"].(map[string]any)["username"])

	w = env.do(http.MethodPost, "/api/auth/token/login/", map[string]string{
		"email":    "alice@example.com",
		"password": "wrong",
	}, "")
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = env.do(http.MethodPost, "/api/auth/token/logout/", nil, token)
	assert.Equal(t, http.StatusNoContent, w.Code)
}

func TestHandler_MeRequiresAuth(t *testing.T) {
	env := newTestEnv(t, nil)

	w := env.do(http.MethodGet, "/api/users/me/", nil, "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestHandler_ProfileSubscriptionFlag(t *testing.T) {
	env := newTestEnv(t, nil)
	alice, aliceToken := env.register(t, "alice")
	bob, _ := env.register(t, "bob")

	subs := stubSubscriptions{{alice.ID, bob.ID}: true}
	env = &testEnv{svc: env.svc, tokens: env.tokens, router: gin.New()}
	api := env.router.Group("/api", middleware.Authenticate(env.tokens))
	NewHandler(env.svc, subs, 6, 100).RegisterRoutes(api)

	bobPath := fmt.Sprintf("/api/users/%d/", bob.ID)
	w := env.do(http.MethodGet, bobPath, nil, aliceToken)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, true, decode(t, w)["data"].(map[string]any)["is_subscribed"])

	w = env.do(http.MethodGet, bobPath, nil, "")
	assert.Equal(t, false, decode(t, w)["data"].(map[string]any)["is_subscribed"])

	w = env.do(http.MethodGet, "/api/users/?limit=1", nil, aliceToken)
	require.Equal(t, http.StatusOK, w.Code)
	page := decode(t, w)["data"].(map[string]any)
	assert.Equal(t, float64(2), page["count"])
	assert.NotNil(t, page["next"])
	assert.Len(t, page["results"], 1)

	w = env.do(http.MethodGet, "/api/users/99/", nil, "")
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = env.do(http.MethodGet, "/api/users/abc/", nil, "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestHandler_SetPassword(t *testing.T) {
	env := newTestEnv(t, nil)
	_, token := env.register(t, "alice")

	w := env.do(http.MethodPost, "/api/users/set_password/", map[string]string{
		"current_password": "bad",
		"new_password":     "fresh-pass",
	}, token)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = env.do(http.MethodPost, "/api/users/set_password/", map[string]string{
		"current_password": "pass-alice",
		"new_password":     "fresh-pass",
	}, token)
	require.Equal(t, http.StatusNoContent, w.Code)

	_, err := env.svc.Login(context.Background(), "alice@example.com", "fresh-pass")
	assert.NoError(t, err)
}

func TestHandler_PasswordTooLong(t *testing.T) {
	env := newTestEnv(t, nil)
	_, token := env.register(t, "alice")

	// 100 ASCII bytes fail the tag; 30 three-byte runes pass it but exceed
	// bcrypt's 72 byte input.
	for _, password := range []string{strings.Repeat("a", 100), strings.Repeat("€", 30)} {
		w := env.do(http.MethodPost, "/api/users/", map[string]string{
			"email":      "long@example.com",
			"username":   "long",
			"first_name": "A",
			"last_name":  "B",
			"password":   password,
		}, "")
		require.Equal(t, http.StatusBadRequest, w.Code, w.Body.String())
		details := decode(t, w)["error"].(map[string]any)["details"].(map[string]any)
		assert.Contains(t, details, "password")

		w = env.do(http.MethodPost, "/api/users/set_password/", map[string]string{
			"current_password": "pass-alice",
			"new_password":     password,
		}, token)
		require.Equal(t, http.StatusBadRequest, w.Code, w.Body.String())
		details = decode(t, w)["error"].(map[string]any)["details"].(map[string]any)
		assert.Contains(t, details, "new_password")
	}

	_, err := env.svc.Login(context.Background(), "alice@example.com", "pass-alice")
	assert.NoError(t, err)
}
