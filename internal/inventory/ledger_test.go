package inventory

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.uber.org/zap"

	"github.com/hariansyahfajrin/mart-api/internal/catalog"
)

type MockProductStore struct {
	mock.Mock
}

func (m *MockProductStore) Get(ctx context.Context, id string) (*catalog.Product, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalog.Product), args.Error(1)
}

func (m *MockProductStore) SetQuantity(ctx context.Context, id string, qty int) error {
	args := m.Called(ctx, id, qty)
	return args.Error(0)
}

func TestLedger_Reserve_DecrementsStock(t *testing.T) {
	store := new(MockProductStore)
	ledger := &Ledger{Products: store, Log: zap.NewNop()}
	ctx := context.Background()

	store.On("Get", ctx, "p1").Return(&catalog.Product{ID: "p1", Quantity: 10}, nil)
	store.On("Get", ctx, "p2").Return(&catalog.Product{ID: "p2", Quantity: 3}, nil)
	store.On("SetQuantity", ctx, "p1", 6).Return(nil)
	store.On("SetQuantity", ctx, "p2", 1).Return(nil)

	err := ledger.Reserve(ctx, []Item{
		{ProductID: "p1", Quantity: 4},
		{ProductID: "p2", Quantity: 2},
	})

	assert.NoError(t, err)
	store.AssertExpectations(t)
}

func TestLedger_Reserve_DuplicateLines_SumDemand(t *testing.T) {
	store := new(MockProductStore)
	ledger := &Ledger{Products: store, Log: zap.NewNop()}
	ctx := context.Background()

	store.On("Get", ctx, "p1").Return(&catalog.Product{ID: "p1", Quantity: 10}, nil).Once()
	store.On("SetQuantity", ctx, "p1", 2).Return(nil).Once()

	err := ledger.Reserve(ctx, []Item{
		{ProductID: "p1", Quantity: 4},
		{ProductID: "p1", Quantity: 4},
	})

	assert.NoError(t, err)
	store.AssertExpectations(t)
}

func TestLedger_Reserve_DuplicateLines_InsufficientCombined(t *testing.T) {
	store := new(MockProductStore)
	ledger := &Ledger{Products: store, Log: zap.NewNop()}
	ctx := context.Background()

	// each line fits on its own, together they exceed stock
	store.On("Get", ctx, "p1").Return(&catalog.Product{ID: "p1", Quantity: 6}, nil)

	err := ledger.Reserve(ctx, []Item{
		{ProductID: "p1", Quantity: 4},
		{ProductID: "p1", Quantity: 4},
	})

	assert.ErrorIs(t, err, ErrInsufficientStock)
	store.AssertNotCalled(t, "SetQuantity", mock.Anything, mock.Anything, mock.Anything)
}

func TestLedger_Reserve_InsufficientStock_NoPartialDecrement(t *testing.T) {
	store := new(MockProductStore)
	ledger := &Ledger{Products: store, Log: zap.NewNop()}
	ctx := context.Background()

	store.On("Get", ctx, "p1").Return(&catalog.Product{ID: "p1", Quantity: 10}, nil)
	store.On("Get", ctx, "p2").Return(&catalog.Product{ID: "p2", Quantity: 1}, nil)

	err := ledger.Reserve(ctx, []Item{
		{ProductID: "p1", Quantity: 4},
		{ProductID: "p2", Quantity: 2},
	})

	assert.ErrorIs(t, err, ErrInsufficientStock)
	// validation happens before any write, so p1 keeps its stock
	store.AssertNotCalled(t, "SetQuantity", mock.Anything, mock.Anything, mock.Anything)
}

func TestLedger_Reserve_ProductMissing(t *testing.T) {
	store := new(MockProductStore)
	ledger := &Ledger{Products: store, Log: zap.NewNop()}
	ctx := context.Background()

	store.On("Get", ctx, "gone").Return(nil, catalog.ErrNotFound)

	err := ledger.Reserve(ctx, []Item{{ProductID: "gone", Quantity: 1}})

	assert.ErrorIs(t, err, ErrProductNotFound)
	store.AssertNotCalled(t, "SetQuantity", mock.Anything, mock.Anything, mock.Anything)
}

func TestLedger_Reserve_StoreError(t *testing.T) {
	store := new(MockProductStore)
	ledger := &Ledger{Products: store, Log: zap.NewNop()}
	ctx := context.Background()

	boom := errors.New("connection reset")
	store.On("Get", ctx, "p1").Return(nil, boom)

	err := ledger.Reserve(ctx, []Item{{ProductID: "p1", Quantity: 1}})

	assert.ErrorIs(t, err, boom)
}

func TestLedger_Release_IncrementsStock(t *testing.T) {
	store := new(MockProductStore)
	ledger := &Ledger{Products: store, Log: zap.NewNop()}
	ctx := context.Background()

	store.On("Get", ctx, "p1").Return(&catalog.Product{ID: "p1", Quantity: 6}, nil)
	store.On("SetQuantity", ctx, "p1", 10).Return(nil)

	err := ledger.Release(ctx, []Item{{ProductID: "p1", Quantity: 4}})

	assert.NoError(t, err)
	store.AssertExpectations(t)
}

func TestLedger_Release_SkipsMissingProducts(t *testing.T) {
	store := new(MockProductStore)
	ledger := &Ledger{Products: store, Log: zap.NewNop()}
	ctx := context.Background()

	store.On("Get", ctx, "gone").Return(nil, catalog.ErrNotFound)
	store.On("Get", ctx, "p2").Return(&catalog.Product{ID: "p2", Quantity: 1}, nil)
	store.On("SetQuantity", ctx, "p2", 3).Return(nil)

	err := ledger.Release(ctx, []Item{
		{ProductID: "gone", Quantity: 5},
		{ProductID: "p2", Quantity: 2},
	})

	assert.NoError(t, err)
	store.AssertExpectations(t)
	store.AssertNotCalled(t, "SetQuantity", mock.Anything, "gone", mock.Anything)
}
