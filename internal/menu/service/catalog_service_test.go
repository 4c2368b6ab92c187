package service

import (
	"context"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"cafe/internal/domain"
	apperrors "cafe/internal/errors"
	"cafe/internal/session"
)

// memoryMenu is an in-memory Repository keeping insertion order.
type memoryMenu struct {
	items []domain.MenuItem
}

func (m *memoryMenu) ListAll(ctx context.Context) ([]domain.MenuItem, error) {
	return append([]domain.MenuItem{}, m.items...), nil
}

func (m *memoryMenu) FindByName(ctx context.Context, name string) ([]domain.MenuItem, error) {
	found := []domain.MenuItem{}
	for _, it := range m.items {
		if it.Name == name {
			found = append(found, it)
		}
	}
	return found, nil
}

func (m *memoryMenu) FindByType(ctx context.Context, itemType string) ([]domain.MenuItem, error) {
	found := []domain.MenuItem{}
	for _, it := range m.items {
		if it.Type == itemType {
			found = append(found, it)
		}
	}
	return found, nil
}

func (m *memoryMenu) Insert(ctx context.Context, item domain.MenuItem) error {
	for _, it := range m.items {
		if it.Name == item.Name {
			return apperrors.NewStoreError("inserting menu item: duplicate entry", nil)
		}
	}
	m.items = append(m.items, item)
	return nil
}

func (m *memoryMenu) Update(ctx context.Context, item domain.MenuItem) error {
	for i, it := range m.items {
		if it.Name == item.Name {
			m.items[i].Price = item.Price
			m.items[i].Description = item.Description
			m.items[i].ImageURL = item.ImageURL
			return nil
		}
	}
	return apperrors.NewNotFoundError("menu item " + item.Name + " not found")
}

func (m *memoryMenu) Delete(ctx context.Context, name string) error {
	for i, it := range m.items {
		if it.Name == name {
			m.items = append(m.items[:i], m.items[i+1:]...)
			return nil
		}
	}
	return apperrors.NewNotFoundError("menu item " + name + " not found")
}

type mockGate struct {
	managers map[string]bool
}

func (g *mockGate) Authorize(ctx context.Context, sess *session.Session) error {
	if !g.managers[sess.Login()] {
		return apperrors.NewAuthError("unauthorized: you are not a manager")
	}
	return nil
}

func newTestCatalog() (*CatalogService, *memoryMenu) {
	repo := &memoryMenu{}
	gate := &mockGate{managers: map[string]bool{"boss": true}}
	return NewCatalogService(repo, gate, zap.NewNop()), repo
}

func loggedIn(login string) *session.Session {
	s := session.New()
	s.Authenticate(login)
	return s
}

func TestCatalog_AddFindDeleteRoundTrip(t *testing.T) {
	items := []domain.MenuItem{
		{Name: "Coffee", Type: "Drinks", Price: decimal.RequireFromString("3.00"), Description: "House blend"},
		{Name: "Bagel", Type: "Bakery", Price: decimal.RequireFromString("2.50"), Description: "Plain"},
		{Name: "Water", Type: "Drinks", Price: decimal.Zero, Description: ""},
	}

	for _, item := range items {
		t.Run(item.Name, func(t *testing.T) {
			svc, _ := newTestCatalog()
			ctx := context.Background()
			boss := loggedIn("boss")

			require.NoError(t, svc.Add(ctx, boss, item))

			found, err := svc.FindByName(ctx, item.Name)
			require.NoError(t, err)
			require.Len(t, found, 1)
			assert.Equal(t, item, found[0])

			require.NoError(t, svc.Delete(ctx, boss, item.Name))

			found, err = svc.FindByName(ctx, item.Name)
			require.NoError(t, err)
			assert.Empty(t, found)
		})
	}
}

func TestCatalog_ListAll_EmptyIsNotAnError(t *testing.T) {
	svc, _ := newTestCatalog()

	items, err := svc.ListAll(context.Background())
	require.NoError(t, err)
	assert.Empty(t, items)
}

func TestCatalog_FindByType(t *testing.T) {
	svc, repo := newTestCatalog()
	repo.items = []domain.MenuItem{
		{Name: "Coffee", Type: "Drinks"},
		{Name: "Bagel", Type: "Bakery"},
		{Name: "Tea", Type: "Drinks"},
	}

	drinks, err := svc.FindByType(context.Background(), " Drinks ")
	require.NoError(t, err)
	assert.Len(t, drinks, 2)

	none, err := svc.FindByType(context.Background(), "Soup")
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestCatalog_MutationsRequireManager(t *testing.T) {
	svc, repo := newTestCatalog()
	repo.items = []domain.MenuItem{{Name: "Coffee", Type: "Drinks", Price: decimal.RequireFromString("3")}}
	ctx := context.Background()
	alice := loggedIn("alice")

	err := svc.Add(ctx, alice, domain.MenuItem{Name: "Tea", Type: "Drinks"})
	_, ok := apperrors.IsAuthError(err)
	assert.True(t, ok)

	err = svc.Update(ctx, alice, "Coffee", decimal.RequireFromString("1"), "", "")
	_, ok = apperrors.IsAuthError(err)
	assert.True(t, ok)

	err = svc.Delete(ctx, alice, "Coffee")
	_, ok = apperrors.IsAuthError(err)
	assert.True(t, ok)

	require.Len(t, repo.items, 1)
	assert.True(t, repo.items[0].Price.Equal(decimal.RequireFromString("3")))
}

func TestCatalog_AddDuplicateReportsAddFailed(t *testing.T) {
	svc, _ := newTestCatalog()
	ctx := context.Background()
	item := domain.MenuItem{Name: "Coffee", Type: "Drinks", Price: decimal.RequireFromString("3")}

	require.NoError(t, svc.Add(ctx, loggedIn("boss"), item))
	err := svc.Add(ctx, loggedIn("boss"), item)

	se, ok := apperrors.IsStoreError(err)
	require.True(t, ok)
	assert.Equal(t, "add failed", se.Message)
}

func TestCatalog_AddValidation(t *testing.T) {
	svc, repo := newTestCatalog()

	err := svc.Add(context.Background(), loggedIn("boss"), domain.MenuItem{
		Name:  " ",
		Type:  "",
		Price: decimal.RequireFromString("-1"),
	})

	ve, ok := apperrors.IsValidationError(err)
	require.True(t, ok)
	assert.Len(t, ve.Details, 3)
	assert.Empty(t, repo.items)
}

func TestCatalog_AddLengthLimits(t *testing.T) {
	svc, repo := newTestCatalog()

	err := svc.Add(context.Background(), loggedIn("boss"), domain.MenuItem{
		Name:        strings.Repeat("x", 51),
		Type:        strings.Repeat("t", 21),
		Price:       decimal.RequireFromString("1"),
		Description: strings.Repeat("d", 401),
		ImageURL:    strings.Repeat("u", 257),
	})

	ve, ok := apperrors.IsValidationError(err)
	require.True(t, ok)
	fields := make([]string, 0, len(ve.Details))
	for _, d := range ve.Details {
		fields = append(fields, d.Field)
	}
	assert.ElementsMatch(t, []string{"itemName", "type", "description", "imageURL"}, fields)
	assert.Empty(t, repo.items)
}

func TestCatalog_AddCountsCharactersNotBytes(t *testing.T) {
	svc, repo := newTestCatalog()

	err := svc.Add(context.Background(), loggedIn("boss"), domain.MenuItem{
		Name:  strings.Repeat("é", 50),
		Type:  "Drinks",
		Price: decimal.RequireFromString("1"),
	})

	require.NoError(t, err)
	assert.Len(t, repo.items, 1)
}

func TestCatalog_UpdateDescriptionTooLong(t *testing.T) {
	svc, repo := newTestCatalog()
	repo.items = []domain.MenuItem{{Name: "Coffee", Type: "Drinks", Price: decimal.RequireFromString("3")}}

	err := svc.Update(context.Background(), loggedIn("boss"), "Coffee", decimal.RequireFromString("3"), strings.Repeat("d", 401), "")

	_, ok := apperrors.IsValidationError(err)
	assert.True(t, ok)
	assert.Empty(t, repo.items[0].Description)
}

func TestCatalog_Update(t *testing.T) {
	svc, repo := newTestCatalog()
	repo.items = []domain.MenuItem{{Name: "Coffee", Type: "Drinks", Price: decimal.RequireFromString("3")}}

	err := svc.Update(context.Background(), loggedIn("boss"), "Coffee", decimal.RequireFromString("3.25"), "Single origin", "img")
	require.NoError(t, err)

	assert.True(t, repo.items[0].Price.Equal(decimal.RequireFromString("3.25")))
	assert.Equal(t, "Single origin", repo.items[0].Description)
	assert.Equal(t, "Drinks", repo.items[0].Type)
}

func TestCatalog_UpdateAndDeleteMissingAreReported(t *testing.T) {
	svc, _ := newTestCatalog()
	ctx := context.Background()

	err := svc.Update(ctx, loggedIn("boss"), "Burger", decimal.RequireFromString("5"), "", "")
	_, ok := apperrors.IsNotFoundError(err)
	assert.True(t, ok)

	err = svc.Delete(ctx, loggedIn("boss"), "Burger")
	_, ok = apperrors.IsNotFoundError(err)
	assert.True(t, ok)
}

func TestParsePrice(t *testing.T) {
	tests := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{"3", "3", false},
		{"2.50", "2.5", false},
		{" $4.75 ", "4.75", false},
		{"2.500", "2.5", false},
		{"0", "0", false},
		{"-1", "", true},
		{"1.005", "", true},
		{"abc", "", true},
		{"", "", true},
	}

	for _, tt := range tests {
		got, err := ParsePrice(tt.in)
		if tt.wantErr {
			_, ok := apperrors.IsValidationError(err)
			assert.True(t, ok, tt.in)
			continue
		}
		require.NoError(t, err, tt.in)
		assert.True(t, got.Equal(decimal.RequireFromString(tt.want)), tt.in)
	}
}
