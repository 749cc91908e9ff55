package ingredient

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"foodgram/internal/pkg/testdb"
)

const ingredientsCSV = `salt,g
Sugar,g
sugar syrup,ml
water,ml
"potato, young",g
`

func seeded(t *testing.T) *Repository {
	repo := NewRepository(testdb.New(t, &Ingredient{}))
	items, err := ParseCSV(strings.NewReader(ingredientsCSV))
	require.NoError(t, err)
	n, err := repo.Import(context.Background(), items)
	require.NoError(t, err)
	require.Equal(t, 5, n)
	return repo
}

func names(items []Ingredient) []string {
	out := make([]string, len(items))
	for i := range items {
		out[i] = items[i].Name
	}
	return out
}

func TestParseCSV(t *testing.T) {
	items, err := ParseCSV(strings.NewReader(ingredientsCSV))
	require.NoError(t, err)
	require.Len(t, items, 5)
	assert.Equal(t, Ingredient{Name: "potato, young", MeasurementUnit: "g"}, items[4])

	_, err = ParseCSV(strings.NewReader("salt\n"))
	assert.ErrorIs(t, err, ErrInvalidRow)

	_, err = ParseCSV(strings.NewReader("salt,\n"))
	assert.ErrorIs(t, err, ErrInvalidRow)
}

func TestSearch_PrefixIgnoresCase(t *testing.T) {
	repo := seeded(t)
	ctx := context.Background()

	got, err := repo.Search(ctx, "SU")
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"Sugar", "sugar syrup"}, names(got))

	got, err = repo.Search(ctx, "syrup")
	require.NoError(t, err)
	assert.Empty(t, got)

	got, err = repo.Search(ctx, "")
	require.NoError(t, err)
	assert.Len(t, got, 5)

	got, err = repo.Search(ctx, "%")
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestGetByIDs(t *testing.T) {
	repo := seeded(t)

	got, err := repo.GetByIDs(context.Background(), []int64{1, 2, 100})
	require.NoError(t, err)
	assert.Len(t, got, 2)

	_, err = repo.GetByID(context.Background(), 100)
	assert.ErrorIs(t, err, ErrIngredientNotFound)
}

func TestHandler(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	NewHandler(seeded(t)).RegisterRoutes(router.Group("/api"))

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/ingredients/?name=wat", nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"measurement_unit":"ml"`)
	assert.NotContains(t, w.Body.String(), "salt")

	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/ingredients/1/", nil))
	assert.Equal(t, http.StatusOK, w.Code)

	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/ingredients/x/", nil))
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
