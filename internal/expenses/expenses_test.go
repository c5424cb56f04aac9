package expenses

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/angelmondragon/stockroom-backend/pkg/db/dbtest"
	pkgerrors "github.com/angelmondragon/stockroom-backend/pkg/errors"
	"github.com/angelmondragon/stockroom-backend/pkg/pagination"
)

func decPtr(v string) *decimal.Decimal {
	d := decimal.RequireFromString(v)
	return &d
}

func TestOtherExpenseLifecycle(t *testing.T) {
	conn := dbtest.Open(t)
	types, err := NewTypeService(conn, dbtest.Client(conn))
	require.NoError(t, err)
	others, err := NewOtherService(conn)
	require.NoError(t, err)
	ctx := context.Background()

	rent, err := types.Create(ctx, "alice", "Rent")
	require.NoError(t, err)

	expense, err := others.Create(ctx, "alice", OtherInput{ExpenseTypeID: &rent.ID, Cost: decPtr("1200.50")})
	require.NoError(t, err)
	require.NotNil(t, expense.ExpenseType)
	assert.Equal(t, "Rent", expense.ExpenseType.Name)
	assert.True(t, expense.Cost.Equal(decimal.RequireFromString("1200.50")))

	updated, err := others.Update(ctx, expense.ID, OtherInput{Cost: decPtr("1000")})
	require.NoError(t, err)
	assert.True(t, updated.Cost.Equal(decimal.NewFromInt(1000)))
	require.NotNil(t, updated.ExpenseTypeID)

	require.NoError(t, types.Delete(ctx, rent.ID))
	orphan, err := others.Get(ctx, expense.ID)
	require.NoError(t, err)
	assert.Nil(t, orphan.ExpenseTypeID)
	assert.True(t, orphan.Cost.Equal(decimal.NewFromInt(1000)))

	list, err := others.List(ctx, pagination.Params{})
	require.NoError(t, err)
	assert.Len(t, list.Expenses, 1)

	require.NoError(t, others.Delete(ctx, expense.ID))
	assert.True(t, pkgerrors.IsCode(others.Delete(ctx, expense.ID), pkgerrors.CodeNotFound))
}

func TestOtherExpenseValidation(t *testing.T) {
	conn := dbtest.Open(t)
	others, err := NewOtherService(conn)
	require.NoError(t, err)
	ctx := context.Background()

	_, err = others.Create(ctx, "alice", OtherInput{Cost: decPtr("-1")})
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeValidation))

	_, err = others.Create(ctx, "alice", OtherInput{})
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeValidation))

	missing := uuid.New()
	_, err = others.Create(ctx, "alice", OtherInput{ExpenseTypeID: &missing, Cost: decPtr("5")})
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeNotFound))

	free, err := others.Create(ctx, "alice", OtherInput{Cost: decPtr("0")})
	require.NoError(t, err)
	assert.Nil(t, free.ExpenseType)
}

func TestExpenseTypeRename(t *testing.T) {
	conn := dbtest.Open(t)
	types, err := NewTypeService(conn, dbtest.Client(conn))
	require.NoError(t, err)
	ctx := context.Background()

	utilities, err := types.Create(ctx, "alice", "Utility")
	require.NoError(t, err)
	renamed, err := types.Rename(ctx, utilities.ID, "Utilities")
	require.NoError(t, err)
	assert.Equal(t, "Utilities", renamed.Name)

	_, err = types.Rename(ctx, utilities.ID, " ")
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeValidation))
}
