package recipe

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"foodgram/internal/middleware"
	"foodgram/internal/pkg/jwt"
)

type api struct {
	router *gin.Engine
	tokens *jwt.Service
}

func newAPI(t *testing.T, f *fixture) *api {
	gin.SetMode(gin.TestMode)
	tokens := jwt.New("test-secret", time.Hour)
	router := gin.New()
	group := router.Group("/api", middleware.Authenticate(tokens))
	NewHandler(f.svc, f.follows, 6, 100).RegisterRoutes(group)
	return &api{router: router, tokens: tokens}
}

func (a *api) do(t *testing.T, method, path string, body any, userID int64) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if userID != 0 {
		token, err := a.tokens.GenerateToken(userID)
		require.NoError(t, err)
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	a.router.ServeHTTP(w, req)
	return w
}

func data(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	var out struct {
		Data map[string]any `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	return out.Data
}

func errorCode(t *testing.T, w *httptest.ResponseRecorder) string {
	var out struct {
		Error struct {
			Code string `json:"code"`
		} `json:"error"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	return out.Error.Code
}

func TestHandler_CreateAndGet(t *testing.T) {
	f := newFixture(t)
	a := newAPI(t, f)

	body := map[string]any{
		"ingredients":  []map[string]any{{"id": f.salt, "amount": 8}, {"id": f.potato, "amount": 200}},
		"tags":         []int64{f.breakfast},
		"image":        pixelURI,
		"name":         "Fries",
		"text":         "Fry them.",
		"cooking_time": 20,
	}
	assert.Equal(t, http.StatusUnauthorized, a.do(t, http.MethodPost, "/api/recipes/", body, 0).Code)

	w := a.do(t, http.MethodPost, "/api/recipes/", body, f.alice)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	created := data(t, w)
	assert.Equal(t, "Fries", created["name"])
	assert.Equal(t, false, created["is_favorited"])
	assert.Len(t, created["ingredients"], 2)
	assert.Equal(t, "alice", created["author"].(map[string]any)["username"])

	id := int64(created["id"].(float64))
	_, err := f.follows.Subscribe(t.Context(), f.bob, f.alice, 0)
	require.NoError(t, err)
	_, err = f.svc.AddToCart(t.Context(), f.bob, id)
	require.NoError(t, err)

	w = a.do(t, http.MethodGet, fmt.Sprintf("/api/recipes/%d/", id), nil, f.bob)
	require.Equal(t, http.StatusOK, w.Code)
	got := data(t, w)
	assert.Equal(t, true, got["is_in_shopping_cart"])
	assert.Equal(t, false, got["is_favorited"])
	assert.Equal(t, true, got["author"].(map[string]any)["is_subscribed"])

	w = a.do(t, http.MethodGet, fmt.Sprintf("/api/recipes/%d/", id), nil, 0)
	assert.Equal(t, false, data(t, w)["is_in_shopping_cart"])

	assert.Equal(t, http.StatusNotFound, a.do(t, http.MethodGet, "/api/recipes/999/", nil, 0).Code)
}

func TestHandler_CreateValidation(t *testing.T) {
	f := newFixture(t)
	a := newAPI(t, f)

	w := a.do(t, http.MethodPost, "/api/recipes/", map[string]any{
		"ingredients":  []map[string]any{{"id": f.salt, "amount": 1}, {"id": f.salt, "amount": 3}},
		"image":        pixelURI,
		"name":         "Salty",
		"text":         "x",
		"cooking_time": 1,
	}, f.alice)
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "salt")

	w = a.do(t, http.MethodPost, "/api/recipes/", map[string]any{
		"ingredients": []map[string]any{{"id": f.salt, "amount": 1}},
		"name":        "No image",
		"text":        "x",
	}, f.alice)
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "image")
	assert.Contains(t, w.Body.String(), "cooking_time")
}

func TestHandler_OnlyAuthorMayChange(t *testing.T) {
	f := newFixture(t)
	a := newAPI(t, f)
	rec := f.soup(t, f.alice)
	path := fmt.Sprintf("/api/recipes/%d/", rec.ID)

	patch := map[string]any{"name": "Mine now"}
	assert.Equal(t, http.StatusForbidden, a.do(t, http.MethodPatch, path, patch, f.bob).Code)
	assert.Equal(t, http.StatusUnauthorized, a.do(t, http.MethodPatch, path, patch, 0).Code)
	assert.Equal(t, http.StatusNotFound, a.do(t, http.MethodPatch, "/api/recipes/999/", patch, f.alice).Code)

	w := a.do(t, http.MethodPatch, path, map[string]any{
		"name":        "Clear soup",
		"ingredients": []map[string]any{{"id": f.water, "amount": 1000}},
	}, f.alice)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	updated := data(t, w)
	assert.Equal(t, "Clear soup", updated["name"])
	assert.Len(t, updated["ingredients"], 1)
	assert.Len(t, updated["tags"], 1)

	assert.Equal(t, http.StatusForbidden, a.do(t, http.MethodDelete, path, nil, f.bob).Code)
	assert.Equal(t, http.StatusNoContent, a.do(t, http.MethodDelete, path, nil, f.alice).Code)
	assert.Equal(t, http.StatusNotFound, a.do(t, http.MethodGet, path, nil, 0).Code)
}

func TestHandler_FavoriteAndCartCodes(t *testing.T) {
	f := newFixture(t)
	a := newAPI(t, f)
	rec := f.soup(t, f.alice)
	favorite := fmt.Sprintf("/api/recipes/%d/favorite/", rec.ID)
	cart := fmt.Sprintf("/api/recipes/%d/shopping_cart/", rec.ID)

	assert.Equal(t, http.StatusUnauthorized, a.do(t, http.MethodPost, favorite, nil, 0).Code)

	w := a.do(t, http.MethodPost, favorite, nil, f.bob)
	require.Equal(t, http.StatusCreated, w.Code)
	brief := data(t, w)
	assert.Equal(t, "Soup", brief["name"])
	assert.Contains(t, brief, "image")
	assert.Contains(t, brief, "cooking_time")

	w = a.do(t, http.MethodPost, favorite, nil, f.bob)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "ALREADY_IN_FAVORITES", errorCode(t, w))

	assert.Equal(t, http.StatusNoContent, a.do(t, http.MethodDelete, favorite, nil, f.bob).Code)
	w = a.do(t, http.MethodDelete, favorite, nil, f.bob)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "NOT_IN_FAVORITES", errorCode(t, w))

	assert.Equal(t, http.StatusCreated, a.do(t, http.MethodPost, cart, nil, f.bob).Code)
	w = a.do(t, http.MethodPost, cart, nil, f.bob)
	assert.Equal(t, "ALREADY_IN_SHOPPING_CART", errorCode(t, w))
	assert.Equal(t, http.StatusNoContent, a.do(t, http.MethodDelete, cart, nil, f.bob).Code)
	w = a.do(t, http.MethodDelete, cart, nil, f.bob)
	assert.Equal(t, "NOT_IN_SHOPPING_CART", errorCode(t, w))

	assert.Equal(t, http.StatusNotFound, a.do(t, http.MethodPost, "/api/recipes/999/favorite/", nil, f.bob).Code)
}

func TestHandler_ListFlags(t *testing.T) {
	f := newFixture(t)
	a := newAPI(t, f)
	rec := f.soup(t, f.alice)
	f.soup(t, f.bob)
	_, err := f.svc.AddFavorite(t.Context(), f.bob, rec.ID)
	require.NoError(t, err)

	w := a.do(t, http.MethodGet, "/api/recipes/?is_favorited=1", nil, f.bob)
	require.Equal(t, http.StatusOK, w.Code)
	page := data(t, w)
	assert.Equal(t, float64(1), page["count"])
	results := page["results"].([]any)
	require.Len(t, results, 1)
	assert.Equal(t, true, results[0].(map[string]any)["is_favorited"])

	w = a.do(t, http.MethodGet, "/api/recipes/?is_favorited=1", nil, 0)
	assert.Equal(t, float64(2), data(t, w)["count"])

	w = a.do(t, http.MethodGet, fmt.Sprintf("/api/recipes/?author=%d&limit=1", f.bob), nil, 0)
	page = data(t, w)
	assert.Equal(t, float64(1), page["count"])
	assert.Nil(t, page["next"])

	w = a.do(t, http.MethodGet, "/api/recipes/?tags=breakfast", nil, 0)
	assert.Equal(t, float64(0), data(t, w)["count"])

	assert.Equal(t, http.StatusBadRequest, a.do(t, http.MethodGet, "/api/recipes/?author=x", nil, 0).Code)
}
