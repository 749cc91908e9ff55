package tag

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"foodgram/internal/pkg/testdb"
)

const tagsCSV = `Breakfast,#E26C2D,breakfast
Lunch,#49B64E,lunch
Dinner,,dinner
`

func TestParseCSV(t *testing.T) {
	tags, err := ParseCSV(strings.NewReader(tagsCSV))
	require.NoError(t, err)
	require.Len(t, tags, 3)

	assert.Equal(t, "Breakfast", tags[0].Name)
	require.NotNil(t, tags[0].Color)
	assert.Equal(t, "#E26C2D", *tags[0].Color)
	assert.Nil(t, tags[2].Color)
}

func TestParseCSV_RejectsBadRows(t *testing.T) {
	cases := map[string]string{
		"bad slug":    "Brunch,#FFFFFF,not a slug\n",
		"bad color":   "Brunch,blue,brunch\n",
		"short row":   "Brunch,brunch\n",
		"empty name":  ",#FFFFFF,brunch\n",
		"short color": "Brunch,#FFF,brunch\n",
	}
	for name, input := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := ParseCSV(strings.NewReader(input))
			assert.ErrorIs(t, err, ErrInvalidRow)
		})
	}
}

func TestRepository_InsertSkipsExisting(t *testing.T) {
	ctx := context.Background()
	repo := NewRepository(testdb.New(t, &Tag{}))

	tags, err := ParseCSV(strings.NewReader(tagsCSV))
	require.NoError(t, err)

	n, err := repo.Insert(ctx, tags)
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	again, err := ParseCSV(strings.NewReader(tagsCSV))
	require.NoError(t, err)
	n, err = repo.Insert(ctx, again)
	require.NoError(t, err)
	assert.Equal(t, 0, n)

	found, err := repo.GetByIDs(ctx, []int64{1, 3, 42})
	require.NoError(t, err)
	assert.Len(t, found, 2)
}

func TestHandler(t *testing.T) {
	gin.SetMode(gin.TestMode)
	repo := NewRepository(testdb.New(t, &Tag{}))
	tags, err := ParseCSV(strings.NewReader(tagsCSV))
	require.NoError(t, err)
	_, err = repo.Insert(context.Background(), tags)
	require.NoError(t, err)

	router := gin.New()
	NewHandler(repo).RegisterRoutes(router.Group("/api"))

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/tags/", nil))
	require.Equal(t, http.StatusOK, w.Code)

	var body struct {
		Data []Tag `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	require.Len(t, body.Data, 3)
	assert.Equal(t, "dinner", body.Data[0].Slug)

	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/tags/1/", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "breakfast")

	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/tags/77/", nil))
	assert.Equal(t, http.StatusNotFound, w.Code)
}
