package repository

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cafe/internal/domain"
	"cafe/internal/errors"
	"cafe/internal/infrastructure/mysql"
	"cafe/internal/testutil"
)

// Unit Tests

func TestNewMySQLOrderRepository(t *testing.T) {
	db := &sql.DB{}
	repo := NewMySQLOrderRepository(db)

	assert.NotNil(t, repo)
	assert.Equal(t, db, repo.db)
}

// Integration Tests

func insertOrder(t *testing.T, txm *mysql.TxManager, repo *MySQLOrderRepository, login string) uint {
	t.Helper()
	var id uint
	err := txm.WithinTx(context.Background(), func(ctx context.Context, tx *sql.Tx) error {
		var err error
		id, err = repo.Insert(ctx, tx, domain.Order{
			Login:      login,
			ReceivedAt: time.Now().UTC().Truncate(time.Second),
			Total:      decimal.Zero,
		})
		return err
	})
	require.NoError(t, err)
	return id
}

func TestOrderRepository_InsertAndFind(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.CleanupTestDB(t, db)

	testutil.InsertUser(t, db, "alice", "hash", "Customer")
	repo := NewMySQLOrderRepository(db)
	txm := mysql.NewTxManager(db, 5*time.Second)

	id := insertOrder(t, txm, repo, "alice")
	assert.NotZero(t, id)

	order, err := repo.FindByID(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, id, order.ID)
	assert.Equal(t, "alice", order.Login)
	assert.False(t, order.Paid)
	assert.True(t, order.Total.IsZero())
	assert.False(t, order.ReceivedAt.IsZero())
}

func TestOrderRepository_InsertUnknownOwner(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.CleanupTestDB(t, db)

	repo := NewMySQLOrderRepository(db)
	txm := mysql.NewTxManager(db, 5*time.Second)

	err := txm.WithinTx(context.Background(), func(ctx context.Context, tx *sql.Tx) error {
		_, err := repo.Insert(ctx, tx, domain.Order{Login: "ghost", ReceivedAt: time.Now().UTC()})
		return err
	})

	_, ok := errors.IsStoreError(err)
	assert.True(t, ok)
}

func TestOrderRepository_FindByID_NotFound(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.CleanupTestDB(t, db)

	repo := NewMySQLOrderRepository(db)

	order, err := repo.FindByID(context.Background(), 999999)
	assert.Nil(t, order)
	_, ok := errors.IsNotFoundError(err)
	assert.True(t, ok)
}

func TestOrderRepository_UpdateTotalAndMarkPaid(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.CleanupTestDB(t, db)

	testutil.InsertUser(t, db, "alice", "hash", "Customer")
	repo := NewMySQLOrderRepository(db)
	txm := mysql.NewTxManager(db, 5*time.Second)
	ctx := context.Background()

	id := insertOrder(t, txm, repo, "alice")

	err := txm.WithinTx(ctx, func(ctx context.Context, tx *sql.Tx) error {
		locked, err := repo.FindByIDForUpdate(ctx, tx, id)
		require.NoError(t, err)
		assert.Equal(t, id, locked.ID)
		return repo.UpdateTotal(ctx, tx, id, decimal.RequireFromString("5.50"))
	})
	require.NoError(t, err)

	require.NoError(t, repo.MarkPaid(ctx, id))
	// paying twice is not an error
	require.NoError(t, repo.MarkPaid(ctx, id))

	order, err := repo.FindByID(ctx, id)
	require.NoError(t, err)
	assert.True(t, order.Total.Equal(decimal.RequireFromString("5.5")))
	assert.True(t, order.Paid)

	err = repo.MarkPaid(ctx, id+1000)
	_, ok := errors.IsNotFoundError(err)
	assert.True(t, ok)
}

func TestOrderRepository_ListRecentByLogin(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.CleanupTestDB(t, db)

	testutil.InsertUser(t, db, "alice", "hash", "Customer")
	testutil.InsertUser(t, db, "bob", "hash", "Customer")
	repo := NewMySQLOrderRepository(db)
	txm := mysql.NewTxManager(db, 5*time.Second)

	var ids []uint
	for i := 0; i < 7; i++ {
		ids = append(ids, insertOrder(t, txm, repo, "alice"))
		insertOrder(t, txm, repo, "bob")
	}

	orders, err := repo.ListRecentByLogin(context.Background(), "alice", 5)
	require.NoError(t, err)
	require.Len(t, orders, 5)

	for i, o := range orders {
		assert.Equal(t, ids[6-i], o.ID)
		assert.Equal(t, "alice", o.Login)
	}

	none, err := repo.ListRecentByLogin(context.Background(), "carol", 5)
	require.NoError(t, err)
	assert.NotNil(t, none)
	assert.Empty(t, none)
}
