package sqlite

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/slateworks/matbook/internal/domain/item"
	"github.com/slateworks/matbook/internal/repository"
	"github.com/stretchr/testify/require"
)

func TestItemRepository_NullableRoundtrip(t *testing.T) {
	db := NewTestDB(t)
	ctx := context.Background()
	repo := NewItemRepository(db)
	jobID := insertJob(t, db, "Smith residence")
	v := seedWorkingVersion(t, db, jobID, 1)
	sh := seedSheet(t, db, v.ID, "Lumber")

	now := time.Now().UTC().Truncate(time.Second)
	qty, cost, markup, price := 10.0, 5.0, 0.4, 7.0
	extCost, extPrice := 50.0, 70.0
	full := &item.Item{
		ID:            uuid.NewString(),
		SheetID:       sh.ID,
		Category:      "Framing",
		Name:          "2x4 stud",
		Quantity:      &qty,
		UnitLength:    "8 ft",
		UnitCost:      &cost,
		Markup:        &markup,
		UnitPrice:     &price,
		ExtendedCost:  &extCost,
		ExtendedPrice: &extPrice,
		Taxable:       true,
		Status:        item.StatusNotOrdered,
		Notes:         "kiln dried",
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	require.NoError(t, repo.Create(ctx, full))

	got, err := repo.Get(ctx, full.ID)
	require.NoError(t, err)
	require.Equal(t, 10.0, *got.Quantity)
	require.Equal(t, 0.4, *got.Markup)
	require.Equal(t, 70.0, *got.ExtendedPrice)
	require.True(t, got.Taxable)
	require.Equal(t, "kiln dried", got.Notes)

	// A bare placeholder row keeps every numeric null.
	bare := &item.Item{
		ID:        uuid.NewString(),
		SheetID:   sh.ID,
		Name:      "TBD hardware",
		Status:    item.StatusNotOrdered,
		CreatedAt: now,
		UpdatedAt: now,
	}
	require.NoError(t, repo.Create(ctx, bare))

	got, err = repo.Get(ctx, bare.ID)
	require.NoError(t, err)
	require.Nil(t, got.Quantity)
	require.Nil(t, got.UnitCost)
	require.Nil(t, got.Markup)
	require.Nil(t, got.ExtendedCost)
	require.Nil(t, got.ExtendedPrice)

	_, err = repo.Get(ctx, "missing")
	require.ErrorIs(t, err, repository.ErrNotFound)
}

func TestItemRepository_Update(t *testing.T) {
	db := NewTestDB(t)
	ctx := context.Background()
	repo := NewItemRepository(db)
	jobID := insertJob(t, db, "Smith residence")
	v := seedWorkingVersion(t, db, jobID, 1)
	sh := seedSheet(t, db, v.ID, "Lumber")
	it := seedItem(t, db, sh.ID, "2x4 stud", 50)

	qty := 12.0
	it.Quantity = &qty
	it.Notes = "recount after delivery"
	it.UpdatedAt = time.Now().UTC().Truncate(time.Second)
	require.NoError(t, repo.Update(ctx, it))

	got, err := repo.Get(ctx, it.ID)
	require.NoError(t, err)
	require.Equal(t, 12.0, *got.Quantity)
	require.Equal(t, "recount after delivery", got.Notes)

	missing := *it
	missing.ID = "missing"
	require.ErrorIs(t, repo.Update(ctx, &missing), repository.ErrNotFound)
}

func TestItemRepository_ListBySheet_Order(t *testing.T) {
	db := NewTestDB(t)
	ctx := context.Background()
	repo := NewItemRepository(db)
	jobID := insertJob(t, db, "Smith residence")
	v := seedWorkingVersion(t, db, jobID, 1)
	sh := seedSheet(t, db, v.ID, "Lumber")

	now := time.Now().UTC().Truncate(time.Second)
	mk := func(category, name string, sortOrder int) {
		it := &item.Item{
			ID: uuid.NewString(), SheetID: sh.ID, Category: category, Name: name,
			SortOrder: sortOrder, Status: item.StatusNotOrdered, CreatedAt: now, UpdatedAt: now,
		}
		require.NoError(t, repo.Create(ctx, it))
	}
	mk("Framing", "2x6 joist", 2)
	mk("Framing", "2x4 stud", 1)
	mk("Decking", "5/4 board", 1)

	items, err := repo.ListBySheet(ctx, sh.ID)
	require.NoError(t, err)
	require.Len(t, items, 3)
	require.Equal(t, "5/4 board", items[0].Name)
	require.Equal(t, "2x4 stud", items[1].Name)
	require.Equal(t, "2x6 joist", items[2].Name)
}

func TestItemRepository_UpdateStatusBulk(t *testing.T) {
	db := NewTestDB(t)
	ctx := context.Background()
	repo := NewItemRepository(db)
	jobID := insertJob(t, db, "Smith residence")
	v := seedWorkingVersion(t, db, jobID, 1)
	sh := seedSheet(t, db, v.ID, "Lumber")

	first := seedItem(t, db, sh.ID, "2x4 stud", 50)
	second := seedItem(t, db, sh.ID, "2x6 joist", 80)
	untouched := seedItem(t, db, sh.ID, "post base", 12)

	now := time.Now().UTC().Truncate(time.Second)
	require.NoError(t, repo.UpdateStatusBulk(ctx, []string{first.ID, second.ID}, item.StatusOrdered, now))

	for _, id := range []string{first.ID, second.ID} {
		got, err := repo.Get(ctx, id)
		require.NoError(t, err)
		require.Equal(t, item.StatusOrdered, got.Status)
	}

	got, err := repo.Get(ctx, untouched.ID)
	require.NoError(t, err)
	require.Equal(t, item.StatusNotOrdered, got.Status)

	require.NoError(t, repo.UpdateStatusBulk(ctx, nil, item.StatusOrdered, now))
}

func TestItemRepository_Delete(t *testing.T) {
	db := NewTestDB(t)
	ctx := context.Background()
	repo := NewItemRepository(db)
	jobID := insertJob(t, db, "Smith residence")
	v := seedWorkingVersion(t, db, jobID, 1)
	sh := seedSheet(t, db, v.ID, "Lumber")
	it := seedItem(t, db, sh.ID, "2x4 stud", 50)

	require.NoError(t, repo.Delete(ctx, it.ID))

	_, err := repo.Get(ctx, it.ID)
	require.ErrorIs(t, err, repository.ErrNotFound)

	require.ErrorIs(t, repo.Delete(ctx, it.ID), repository.ErrNotFound)
}
