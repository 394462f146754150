package tables_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/balcao-digital-api/internal/application/apptest"
	"github.com/jhoicas/balcao-digital-api/internal/application/dto"
	"github.com/jhoicas/balcao-digital-api/internal/application/tables"
	"github.com/jhoicas/balcao-digital-api/internal/domain"
	"github.com/jhoicas/balcao-digital-api/internal/domain/entity"
)

const userID = "user-1"

func TestConfigure_ReemplazaMesas(t *testing.T) {
	store := apptest.NewStore()
	uc := tables.NewUseCase(store, store.Tables(), nil)
	ctx := context.Background()

	_, err := uc.Configure(ctx, userID, 5)
	require.NoError(t, err)
	list, err := uc.Configure(ctx, userID, 3)
	require.NoError(t, err)
	require.Len(t, list, 3)

	stored, err := uc.List(ctx, userID)
	require.NoError(t, err)
	require.Len(t, stored, 3)
	for i, tb := range stored {
		assert.Equal(t, i+1, tb.Number)
		assert.Equal(t, entity.DefaultTableCapacity, tb.Capacity)
		assert.Equal(t, entity.TableFree, tb.Status)
	}

	summary := dto.FromTables(stored).Summary
	assert.Equal(t, dto.TableSummary{Total: 3, Free: 3}, summary)
}

func TestConfigure_Limites(t *testing.T) {
	store := apptest.NewStore()
	uc := tables.NewUseCase(store, store.Tables(), nil)
	_, err := uc.Configure(context.Background(), userID, 0)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	_, err = uc.Configure(context.Background(), userID, 101)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestSetStatus(t *testing.T) {
	store := apptest.NewStore()
	uc := tables.NewUseCase(store, store.Tables(), nil)
	ctx := context.Background()
	store.PutTable(entity.Table{ID: "a", UserID: userID, Number: 1, Status: entity.TableFree})
	store.PutTable(entity.Table{ID: "b", UserID: userID, Number: 2, Status: entity.TableOccupied})

	tb, err := uc.SetStatus(ctx, userID, "a", entity.TableReserved)
	require.NoError(t, err)
	assert.Equal(t, entity.TableReserved, tb.Status)

	_, err = uc.SetStatus(ctx, userID, "b", entity.TableFree)
	assert.ErrorIs(t, err, domain.ErrTableOccupied)

	_, err = uc.SetStatus(ctx, userID, "a", entity.TableOccupied)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = uc.SetStatus(ctx, "otro", "a", entity.TableFree)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestDeleteAll(t *testing.T) {
	store := apptest.NewStore()
	uc := tables.NewUseCase(store, store.Tables(), nil)
	ctx := context.Background()
	_, err := uc.Configure(ctx, userID, 2)
	require.NoError(t, err)
	require.NoError(t, uc.DeleteAll(ctx, userID))
	list, err := uc.List(ctx, userID)
	require.NoError(t, err)
	assert.Empty(t, list)
}
