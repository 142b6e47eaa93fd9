package usecase

import (
	"context"
	"strings"
	"testing"

	"movie-storefront/internal/data/entity"
	"movie-storefront/internal/data/repository"
	"movie-storefront/pkg/kvstore"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newOrderFixture(t *testing.T) OrderService {
	t.Helper()

	store := kvstore.NewMemoryStore()
	t.Cleanup(func() { store.Close() })

	repo := repository.NewRepository(store, zap.NewNop())
	return NewOrderService(repo, zap.NewNop())
}

func sampleCheckoutData() *entity.CheckoutData {
	return &entity.CheckoutData{
		MovieID:     42,
		MovieTitle:  "Blade Runner",
		TheaterName: "CGV Grand",
		Showtime:    "19:30",
		SelectedSeats: []entity.Seat{
			entity.NewSeat("D", 5, entity.SeatAvailable),
			entity.NewSeat("D", 6, entity.SeatAvailable),
		},
		TicketSelections: []entity.TicketSelection{
			{Category: entity.CategoryAdult, Quantity: 2},
		},
		Pricing: entity.Pricing{Subtotal: 20, Tax: 1.6, Total: 21.6},
	}
}

func TestCreate_GeneratesIDAndTimestamp(t *testing.T) {
	svc := newOrderFixture(t)

	order, err := svc.Create(context.Background(), sampleCheckoutData(), nil)
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(order.ID, "ORD-"), "got id %s", order.ID)
	assert.False(t, order.CreatedAt.IsZero())
	assert.Equal(t, 42, order.MovieID)
	assert.ElementsMatch(t, []string{"D5", "D6"}, order.SeatIDs)
	assert.Empty(t, order.UserID)
}

func TestCreate_AttributesToUser(t *testing.T) {
	svc := newOrderFixture(t)
	userID := uuid.New()

	order, err := svc.Create(context.Background(), sampleCheckoutData(), &userID)
	require.NoError(t, err)

	assert.Equal(t, userID.String(), order.UserID)
}

func TestList_InsertionOrder(t *testing.T) {
	svc := newOrderFixture(t)

	first, err := svc.Create(context.Background(), sampleCheckoutData(), nil)
	require.NoError(t, err)
	data := sampleCheckoutData()
	data.MovieTitle = "Stalker"
	second, err := svc.Create(context.Background(), data, nil)
	require.NoError(t, err)

	orders, err := svc.List(context.Background())
	require.NoError(t, err)
	require.Len(t, orders, 2)
	assert.Equal(t, first.ID, orders[0].ID)
	assert.Equal(t, second.ID, orders[1].ID)
}

func TestRemove_ReturnsRemaining(t *testing.T) {
	svc := newOrderFixture(t)

	first, err := svc.Create(context.Background(), sampleCheckoutData(), nil)
	require.NoError(t, err)
	second, err := svc.Create(context.Background(), sampleCheckoutData(), nil)
	require.NoError(t, err)

	remaining, err := svc.Remove(context.Background(), first.ID)
	require.NoError(t, err)
	require.Len(t, remaining, 1)
	assert.Equal(t, second.ID, remaining[0].ID)
}

func TestRemove_UnknownIsNoOp(t *testing.T) {
	svc := newOrderFixture(t)

	order, err := svc.Create(context.Background(), sampleCheckoutData(), nil)
	require.NoError(t, err)

	remaining, err := svc.Remove(context.Background(), "ORD-never-existed")
	require.NoError(t, err)
	require.Len(t, remaining, 1)
	assert.Equal(t, order.ID, remaining[0].ID)
}

func TestClear_EmptiesQueue(t *testing.T) {
	svc := newOrderFixture(t)

	_, err := svc.Create(context.Background(), sampleCheckoutData(), nil)
	require.NoError(t, err)

	require.NoError(t, svc.Clear(context.Background()))

	orders, err := svc.List(context.Background())
	require.NoError(t, err)
	assert.Empty(t, orders)
}

func TestWatch_SignalsOnQueueWrite(t *testing.T) {
	svc := newOrderFixture(t)

	ch, cancel := svc.Watch()
	defer cancel()

	_, err := svc.Create(context.Background(), sampleCheckoutData(), nil)
	require.NoError(t, err)

	select {
	case <-ch:
	default:
		t.Fatal("expected a change signal after queue write")
	}
}
