package repo

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/angelmondragon/stockroom-backend/pkg/db/dbtest"
	"github.com/angelmondragon/stockroom-backend/pkg/db/models"
	pkgerrors "github.com/angelmondragon/stockroom-backend/pkg/errors"
	"github.com/angelmondragon/stockroom-backend/pkg/pagination"
)

type ctxKey struct{}

func TestNewBaseStoresConnection(t *testing.T) {
	db := dbtest.OpenEmpty(t)
	base := NewBase(db)

	if base.db != db {
		t.Fatalf("expected base db to match provided connection")
	}
}

func TestBaseDB_BindsContext(t *testing.T) {
	db := dbtest.OpenEmpty(t)
	base := NewBase(db)

	ctx := context.WithValue(context.Background(), ctxKey{}, "value")
	withCtx := base.DB(ctx)

	if withCtx == nil {
		t.Fatalf("expected non-nil DB when context provided")
	}
	if withCtx.Statement == nil {
		t.Fatalf("expected statement created after WithContext")
	}
	if withCtx.Statement.Context != ctx {
		t.Fatalf("expected context to flow through, got %v", withCtx.Statement.Context)
	}

	withoutCtx := base.DB(nil)
	if withoutCtx != db {
		t.Fatalf("expected nil context to return raw connection")
	}
}

func TestBaseWithTxKeepsConnectionOnNil(t *testing.T) {
	db := dbtest.OpenEmpty(t)
	base := NewBase(db)
	assert.Same(t, db, base.WithTx(nil).db)
}

func TestMapError(t *testing.T) {
	assert.NoError(t, MapError(nil, "supplier", "load supplier"))
	assert.True(t, pkgerrors.IsCode(MapError(gorm.ErrRecordNotFound, "supplier", "load supplier"), pkgerrors.CodeNotFound))
	assert.True(t, pkgerrors.IsCode(MapError(errors.New("UNIQUE constraint failed: categories.name"), "category", "create"), pkgerrors.CodeConflict))
	assert.True(t, pkgerrors.IsCode(MapError(errors.New("connection reset"), "category", "create"), pkgerrors.CodeDependency))
}

func TestStoreCRUD(t *testing.T) {
	conn := dbtest.Open(t)
	store := NewStore[models.Supplier](conn)
	ctx := context.Background()

	supplier := &models.Supplier{Name: "Acme", CreatedBy: "alice"}
	require.NoError(t, store.Create(ctx, supplier))
	require.NotEqual(t, uuid.Nil, supplier.ID)

	require.NoError(t, store.Update(ctx, supplier.ID, map[string]any{"name": "Acme Ltd"}))
	found, err := store.Find(ctx, supplier.ID)
	require.NoError(t, err)
	assert.Equal(t, "Acme Ltd", found.Name)

	assert.ErrorIs(t, store.Update(ctx, uuid.New(), map[string]any{"name": "x"}), gorm.ErrRecordNotFound)

	require.NoError(t, store.Delete(ctx, supplier.ID))
	_, err = store.Find(ctx, supplier.ID)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
	assert.ErrorIs(t, store.Delete(ctx, supplier.ID), gorm.ErrRecordNotFound)
}

func TestStoreNullifyAndPreload(t *testing.T) {
	conn := dbtest.Open(t)
	ctx := context.Background()
	supplier := dbtest.MustCreateSupplier(t, conn, "Acme")
	product := dbtest.MustCreateProduct(t, conn, 1, "1.00", dbtest.WithSupplier(supplier.ID))

	products := NewStore[models.Product](conn, "Supplier")
	loaded, err := products.Find(ctx, product.ID)
	require.NoError(t, err)
	require.NotNil(t, loaded.Supplier)
	assert.Equal(t, "Acme", loaded.Supplier.Name)

	require.NoError(t, products.Nullify(ctx, &models.Product{}, "supplier_id", supplier.ID))
	assert.Nil(t, dbtest.ReloadProduct(t, conn, product.ID).SupplierID)
}

func TestStoreListAndPage(t *testing.T) {
	conn := dbtest.Open(t)
	ctx := context.Background()
	store := NewStore[models.Category](conn)
	for _, name := range []string{"a", "b", "c"} {
		require.NoError(t, store.Create(ctx, &models.Category{Name: name}))
	}

	rows, err := store.List(ctx, 3, nil)
	require.NoError(t, err)
	require.Len(t, rows, 3)

	key := func(c models.Category) pagination.Cursor { return pagination.Cursor{CreatedAt: c.CreatedAt, ID: c.ID} }
	kept, next := Page(rows, 2, key)
	assert.Len(t, kept, 2)
	assert.NotEmpty(t, next)

	kept, next = Page(rows, 5, key)
	assert.Len(t, kept, 3)
	assert.Empty(t, next)
}
