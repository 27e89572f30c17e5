package item_test

import (
	"context"
	"testing"

	"github.com/slateworks/matbook/internal/domain/item"
	"github.com/slateworks/matbook/internal/repository/mocks"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestItemService_EditField_Quantity(t *testing.T) {
	ctx := context.Background()

	itemsRepo := &mocks.ItemRepository{}
	versionsRepo := &mocks.WorkbookRepository{}

	stored := &item.Item{
		ID:        "i1",
		SheetID:   "s1",
		Name:      "2x4 stud",
		Quantity:  floatPtr(10),
		UnitCost:  floatPtr(5),
		UnitPrice: floatPtr(7),
	}
	itemsRepo.On("Get", ctx, "i1").Return(stored, nil)
	versionsRepo.On("IsSheetLocked", ctx, "s1").Return(false, nil)
	itemsRepo.On("Update", ctx, mock.Anything).Return(nil)

	svc := item.NewService(itemsRepo, versionsRepo, nil)
	updated, err := svc.EditField(ctx, item.EditFieldRequest{
		ItemID: "i1",
		Field:  item.FieldQuantity,
		Value:  "12",
	})
	require.NoError(t, err)
	require.Equal(t, 12.0, *updated.Quantity)
	require.Equal(t, 60.0, *updated.ExtendedCost)
	require.Equal(t, 84.0, *updated.ExtendedPrice)
	require.False(t, updated.UpdatedAt.IsZero())
	itemsRepo.AssertCalled(t, "Update", ctx, mock.Anything)
}

func TestItemService_EditField_InvalidNumber(t *testing.T) {
	ctx := context.Background()

	itemsRepo := &mocks.ItemRepository{}
	versionsRepo := &mocks.WorkbookRepository{}

	itemsRepo.On("Get", ctx, "i1").Return(&item.Item{ID: "i1", SheetID: "s1"}, nil)
	versionsRepo.On("IsSheetLocked", ctx, "s1").Return(false, nil)

	svc := item.NewService(itemsRepo, versionsRepo, nil)
	_, err := svc.EditField(ctx, item.EditFieldRequest{
		ItemID: "i1",
		Field:  item.FieldUnitCost,
		Value:  "not a number",
	})
	require.ErrorIs(t, err, item.ErrInvalidNumber)
	itemsRepo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
}

func TestItemService_EditField_MarkupOutOfRange(t *testing.T) {
	ctx := context.Background()

	itemsRepo := &mocks.ItemRepository{}
	versionsRepo := &mocks.WorkbookRepository{}

	stored := &item.Item{ID: "i1", SheetID: "s1", Markup: floatPtr(0.35)}
	itemsRepo.On("Get", ctx, "i1").Return(stored, nil)
	versionsRepo.On("IsSheetLocked", ctx, "s1").Return(false, nil)

	svc := item.NewService(itemsRepo, versionsRepo, nil)
	_, err := svc.EditField(ctx, item.EditFieldRequest{
		ItemID: "i1",
		Field:  item.FieldMarkup,
		Value:  "99999",
	})
	require.ErrorIs(t, err, item.ErrMarkupOutOfRange)
	require.Equal(t, 0.35, *stored.Markup, "stored markup must be untouched")
	itemsRepo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
}

func TestItemService_EditField_LockedVersion(t *testing.T) {
	ctx := context.Background()

	itemsRepo := &mocks.ItemRepository{}
	versionsRepo := &mocks.WorkbookRepository{}

	itemsRepo.On("Get", ctx, "i1").Return(&item.Item{ID: "i1", SheetID: "s1"}, nil)
	versionsRepo.On("IsSheetLocked", ctx, "s1").Return(true, nil)

	svc := item.NewService(itemsRepo, versionsRepo, nil)
	_, err := svc.EditField(ctx, item.EditFieldRequest{
		ItemID: "i1",
		Field:  item.FieldQuantity,
		Value:  "3",
	})
	require.ErrorIs(t, err, item.ErrVersionLocked)
	itemsRepo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
}

func TestItemService_Create_DerivesFields(t *testing.T) {
	ctx := context.Background()

	itemsRepo := &mocks.ItemRepository{}
	versionsRepo := &mocks.WorkbookRepository{}

	versionsRepo.On("IsSheetLocked", ctx, "s1").Return(false, nil)
	itemsRepo.On("Create", ctx, mock.Anything).Return(nil)

	svc := item.NewService(itemsRepo, versionsRepo, nil)
	created, err := svc.Create(ctx, item.CreateRequest{
		SheetID:  "s1",
		Category: "Framing",
		Name:     "2x4 stud",
		Quantity: "10",
		UnitCost: "5",
		Markup:   "40",
	})
	require.NoError(t, err)
	require.Equal(t, item.StatusNotOrdered, created.Status)
	require.Equal(t, 50.0, *created.ExtendedCost)
	require.InDelta(t, 7.0, *created.UnitPrice, 1e-9)
	require.InDelta(t, 70.0, *created.ExtendedPrice, 1e-9)
}

func TestItemService_SetStatus_Invalid(t *testing.T) {
	ctx := context.Background()

	svc := item.NewService(&mocks.ItemRepository{}, &mocks.WorkbookRepository{}, nil)
	_, err := svc.SetStatus(ctx, "i1", item.Status("shipped"))
	require.ErrorIs(t, err, item.ErrInvalidStatus)
}
