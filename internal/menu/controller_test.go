package menu

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"cafe/internal/domain"
)

type mockCatalogReader struct {
	ListAllFunc    func(ctx context.Context) ([]domain.MenuItem, error)
	FindByNameFunc func(ctx context.Context, name string) ([]domain.MenuItem, error)
	FindByTypeFunc func(ctx context.Context, itemType string) ([]domain.MenuItem, error)
}

func (m *mockCatalogReader) ListAll(ctx context.Context) ([]domain.MenuItem, error) {
	return m.ListAllFunc(ctx)
}

func (m *mockCatalogReader) FindByName(ctx context.Context, name string) ([]domain.MenuItem, error) {
	return m.FindByNameFunc(ctx, name)
}

func (m *mockCatalogReader) FindByType(ctx context.Context, itemType string) ([]domain.MenuItem, error) {
	return m.FindByTypeFunc(ctx, itemType)
}

var testMenu = []domain.MenuItem{
	{Name: "Coffee", Type: "Drinks", Price: decimal.RequireFromString("3"), Description: "House blend"},
	{Name: "Bagel", Type: "Bakery", Price: decimal.RequireFromString("2.5")},
}

func newTestRouter(reader CatalogReader) http.Handler {
	ctrl := NewController(reader, zap.NewNop())
	r := chi.NewRouter()
	r.Get("/menu", ctrl.HandleListMenu)
	r.Get("/menu/{name}", ctrl.HandleGetMenuItem)
	return r
}

func TestHandleListMenu(t *testing.T) {
	reader := &mockCatalogReader{
		ListAllFunc: func(ctx context.Context) ([]domain.MenuItem, error) { return testMenu, nil },
	}

	rec := httptest.NewRecorder()
	newTestRouter(reader).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/menu", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var resp MenuResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.NotEmpty(t, resp.TraceID)
	require.Len(t, resp.Items, 2)
	assert.Equal(t, "3.00", resp.Items[0].Price)
	assert.Equal(t, "2.50", resp.Items[1].Price)
}

func TestHandleListMenu_ByType(t *testing.T) {
	var gotType string
	reader := &mockCatalogReader{
		FindByTypeFunc: func(ctx context.Context, itemType string) ([]domain.MenuItem, error) {
			gotType = itemType
			return testMenu[:1], nil
		},
	}

	rec := httptest.NewRecorder()
	newTestRouter(reader).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/menu?type=Drinks", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Drinks", gotType)
}

func TestHandleListMenu_StoreError(t *testing.T) {
	reader := &mockCatalogReader{
		ListAllFunc: func(ctx context.Context) ([]domain.MenuItem, error) { return nil, errors.New("down") },
	}

	rec := httptest.NewRecorder()
	newTestRouter(reader).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/menu", nil))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestHandleGetMenuItem(t *testing.T) {
	reader := &mockCatalogReader{
		FindByNameFunc: func(ctx context.Context, name string) ([]domain.MenuItem, error) {
			for _, it := range testMenu {
				if it.Name == name {
					return []domain.MenuItem{it}, nil
				}
			}
			return []domain.MenuItem{}, nil
		},
	}
	router := newTestRouter(reader)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/menu/Bagel", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var resp MenuResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	require.Len(t, resp.Items, 1)
	assert.Equal(t, "Bagel", resp.Items[0].Name)

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/menu/Burger", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestHandleGetMenuItem_DecodesName(t *testing.T) {
	var asked []string
	reader := &mockCatalogReader{
		FindByNameFunc: func(ctx context.Context, name string) ([]domain.MenuItem, error) {
			asked = append(asked, name)
			return []domain.MenuItem{{Name: name, Type: "Drinks", Price: decimal.RequireFromString("2")}}, nil
		},
	}
	router := newTestRouter(reader)

	for _, path := range []string{"/menu/Iced%2FTea", "/menu/Iced%20Tea", "/menu/100%25"} {
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
		assert.Equal(t, http.StatusOK, rec.Code, path)
	}

	assert.Equal(t, []string{"Iced/Tea", "Iced Tea", "100%"}, asked)
}
