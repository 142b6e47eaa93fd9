package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"movie-storefront/internal/apperr"
	"movie-storefront/internal/data/entity"
	"movie-storefront/internal/data/repository"
	"movie-storefront/internal/dto/request"
	"movie-storefront/internal/dto/response"
	"movie-storefront/pkg/kvstore"
	"movie-storefront/pkg/utils"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newSeatMapFixture(t *testing.T) (SeatMapService, *repository.Repository) {
	t.Helper()

	store := kvstore.NewMemoryStore()
	t.Cleanup(func() { store.Close() })

	repo := repository.NewRepository(store, zap.NewNop())

	table := entity.PricingTable{
		Prices: map[entity.TicketCategory]float64{
			entity.CategoryAdult:      10,
			entity.CategoryTeenSenior: 8.5,
			entity.CategoryChild:      6,
		},
		TaxRate: 0.08,
	}
	cfg := &utils.Config{Pricing: utils.PricingConfig{DefaultQuantityCap: 4}}

	svc := NewSeatMapService(repo, NewFixedPriceProvider(table), cfg, zap.NewNop())
	return svc, repo
}

func openSession(t *testing.T, svc SeatMapService) *response.SeatMapResponse {
	t.Helper()

	resp, err := svc.CreateSession(context.Background(), &request.CreateSeatMapRequest{
		MovieID:    7,
		MovieTitle: "Arrival",
	})
	require.NoError(t, err)
	require.NotEmpty(t, resp.SessionID)
	return resp
}

func seatStatus(t *testing.T, resp *response.SeatMapResponse, seatID string) response.SeatResponse {
	t.Helper()

	for _, row := range resp.Rows {
		for _, seat := range row.Seats {
			if seat.ID == seatID {
				return seat
			}
		}
	}
	t.Fatalf("seat %s not in response", seatID)
	return response.SeatResponse{}
}

func quantityOf(resp *response.SeatMapResponse, category string) int {
	for _, sel := range resp.TicketSelections {
		if sel.Category == category {
			return sel.Quantity
		}
	}
	return 0
}

func TestCreateSession_SampleGrid(t *testing.T) {
	svc, _ := newSeatMapFixture(t)

	resp := openSession(t, svc)

	total := 0
	for _, row := range resp.Rows {
		total += len(row.Seats)
	}
	assert.Equal(t, 96, total)
	assert.Equal(t, "viewer", resp.Mode)
	assert.Empty(t, resp.LayoutID)

	// The demo grid ships with F6/F7 pre-selected and reconciled.
	assert.ElementsMatch(t, []string{"F6", "F7"}, resp.SelectedSeatIDs)
	assert.Equal(t, 2, quantityOf(resp, "adult"))
	assert.Equal(t, 0, quantityOf(resp, "child"))
	assert.Equal(t, 0, resp.CountDelta)

	assert.InDelta(t, 20.0, resp.Pricing.Subtotal, 1e-9)
	assert.InDelta(t, 1.6, resp.Pricing.Tax, 1e-9)
	assert.InDelta(t, 21.6, resp.Pricing.Total, 1e-9)
}

func TestCreateSession_RequiresMovie(t *testing.T) {
	svc, _ := newSeatMapFixture(t)

	_, err := svc.CreateSession(context.Background(), &request.CreateSeatMapRequest{MovieID: 7})

	var validationErr *apperr.ValidationError
	require.ErrorAs(t, err, &validationErr)
}

func TestGetSession_Unknown(t *testing.T) {
	svc, _ := newSeatMapFixture(t)

	_, err := svc.GetSession("nope")

	var notFound *apperr.NotFoundError
	require.ErrorAs(t, err, &notFound)
}

func TestSelectSeat_RoundTripKeepsOriginalStatus(t *testing.T) {
	svc, _ := newSeatMapFixture(t)
	sess := openSession(t, svc)

	resp, err := svc.SelectSeat(sess.SessionID, "A1")
	require.NoError(t, err)
	assert.Equal(t, "selected", seatStatus(t, resp, "A1").Status)
	assert.Contains(t, resp.SelectedSeatIDs, "A1")

	// Deselecting restores the accessible classification, not plain available.
	resp, err = svc.SelectSeat(sess.SessionID, "A1")
	require.NoError(t, err)
	assert.Equal(t, "accessible", seatStatus(t, resp, "A1").Status)
	assert.NotContains(t, resp.SelectedSeatIDs, "A1")
}

func TestSelectSeat_EmptySeatIsNoOp(t *testing.T) {
	svc, _ := newSeatMapFixture(t)
	sess := openSession(t, svc)

	resp, err := svc.SelectSeat(sess.SessionID, "H1")
	require.NoError(t, err)
	assert.Equal(t, "empty", seatStatus(t, resp, "H1").Status)
	assert.ElementsMatch(t, []string{"F6", "F7"}, resp.SelectedSeatIDs)
}

func TestSelectSeat_OccupiedSeatIsNoOp(t *testing.T) {
	svc, repo := newSeatMapFixture(t)

	seats := []entity.Seat{
		entity.NewSeat("A", 1, entity.SeatAvailable),
		entity.NewSeat("A", 2, entity.SeatOccupied),
	}
	layout := &entity.SeatLayout{
		Base:  entity.Base{ID: uuid.New(), CreatedAt: time.Now(), UpdatedAt: time.Now()},
		Name:  "tiny",
		Seats: seats,
	}
	require.NoError(t, repo.Layout.Save(context.Background(), layout))

	layoutID := layout.ID.String()
	resp, err := svc.CreateSession(context.Background(), &request.CreateSeatMapRequest{
		MovieID:    7,
		MovieTitle: "Arrival",
		LayoutID:   &layoutID,
	})
	require.NoError(t, err)

	resp, err = svc.SelectSeat(resp.SessionID, "A2")
	require.NoError(t, err)
	assert.Equal(t, "occupied", seatStatus(t, resp, "A2").Status)
	assert.Empty(t, resp.SelectedSeatIDs)
}

func TestSelectSeat_RejectedInEditor(t *testing.T) {
	svc, _ := newSeatMapFixture(t)
	sess := openSession(t, svc)

	_, err := svc.SetMode(sess.SessionID, &request.SetModeRequest{Mode: "editor"})
	require.NoError(t, err)

	_, err = svc.SelectSeat(sess.SessionID, "A3")

	var validationErr *apperr.ValidationError
	require.ErrorAs(t, err, &validationErr)
}

func TestSelectSeat_UnknownSeat(t *testing.T) {
	svc, _ := newSeatMapFixture(t)
	sess := openSession(t, svc)

	_, err := svc.SelectSeat(sess.SessionID, "Z99")

	var notFound *apperr.NotFoundError
	require.ErrorAs(t, err, &notFound)
}

func TestReconcile_CapsDefaultQuantity(t *testing.T) {
	svc, _ := newSeatMapFixture(t)
	sess := openSession(t, svc)

	var (
		resp *response.SeatMapResponse
		err  error
	)
	for _, id := range []string{"A3", "A4", "A5"} {
		resp, err = svc.SelectSeat(sess.SessionID, id)
		require.NoError(t, err)
	}

	// Five seats selected, but the first category only absorbs the cap.
	assert.Len(t, resp.SelectedSeatIDs, 5)
	assert.Equal(t, 4, quantityOf(resp, "adult"))
	assert.Equal(t, -1, resp.CountDelta)
}

func TestAdjustQuantity_IncrementBeyondSeatsRefused(t *testing.T) {
	svc, _ := newSeatMapFixture(t)
	sess := openSession(t, svc)

	// Two seats, two adult tickets: any further increment is a silent no-op.
	resp, err := svc.AdjustQuantity(sess.SessionID, &request.AdjustQuantityRequest{Category: "child", Delta: 1})
	require.NoError(t, err)
	assert.Equal(t, 2, quantityOf(resp, "adult"))
	assert.Equal(t, 0, quantityOf(resp, "child"))
}

func TestAdjustQuantity_DecrementFloorsAtZero(t *testing.T) {
	svc, _ := newSeatMapFixture(t)
	sess := openSession(t, svc)

	resp, err := svc.AdjustQuantity(sess.SessionID, &request.AdjustQuantityRequest{Category: "adult", Delta: -5})
	require.NoError(t, err)
	assert.Equal(t, 0, quantityOf(resp, "adult"))
	assert.Equal(t, -2, resp.CountDelta)
}

func TestAdjustQuantity_ShiftBetweenCategories(t *testing.T) {
	svc, _ := newSeatMapFixture(t)
	sess := openSession(t, svc)

	_, err := svc.AdjustQuantity(sess.SessionID, &request.AdjustQuantityRequest{Category: "adult", Delta: -1})
	require.NoError(t, err)
	resp, err := svc.AdjustQuantity(sess.SessionID, &request.AdjustQuantityRequest{Category: "child", Delta: 1})
	require.NoError(t, err)

	assert.Equal(t, 1, quantityOf(resp, "adult"))
	assert.Equal(t, 1, quantityOf(resp, "child"))
	assert.Equal(t, 0, resp.CountDelta)
	assert.InDelta(t, 16.0, resp.Pricing.Subtotal, 1e-9)
}

func TestPaintSeat_EditorOnly(t *testing.T) {
	svc, _ := newSeatMapFixture(t)
	sess := openSession(t, svc)

	_, err := svc.PaintSeat(sess.SessionID, "A3")
	var validationErr *apperr.ValidationError
	require.ErrorAs(t, err, &validationErr)

	_, err = svc.SetMode(sess.SessionID, &request.SetModeRequest{Mode: "editor", EditStatus: "empty"})
	require.NoError(t, err)

	resp, err := svc.PaintSeat(sess.SessionID, "A3")
	require.NoError(t, err)
	seat := seatStatus(t, resp, "A3")
	assert.Equal(t, "empty", seat.Status)
	assert.Equal(t, "empty", seat.OriginalStatus)
}

func TestSetMode_BackToViewerReconciles(t *testing.T) {
	svc, _ := newSeatMapFixture(t)
	sess := openSession(t, svc)

	_, err := svc.SetMode(sess.SessionID, &request.SetModeRequest{Mode: "editor", EditStatus: "empty"})
	require.NoError(t, err)

	// Painting over a selected seat removes it from the grid.
	_, err = svc.PaintSeat(sess.SessionID, "F6")
	require.NoError(t, err)

	resp, err := svc.SetMode(sess.SessionID, &request.SetModeRequest{Mode: "viewer"})
	require.NoError(t, err)
	assert.Equal(t, "viewer", resp.Mode)
	assert.Empty(t, resp.EditStatus)
	assert.ElementsMatch(t, []string{"F7"}, resp.SelectedSeatIDs)
	assert.Equal(t, 1, quantityOf(resp, "adult"))
}

func TestSaveLayout_PersistsNormalizedGrid(t *testing.T) {
	svc, repo := newSeatMapFixture(t)
	sess := openSession(t, svc)

	_, err := svc.SetMode(sess.SessionID, &request.SetModeRequest{Mode: "editor"})
	require.NoError(t, err)

	resp, err := svc.SaveLayout(context.Background(), sess.SessionID, &request.SaveLayoutRequest{Name: "Main Hall"})
	require.NoError(t, err)
	assert.Equal(t, "viewer", resp.Mode)
	assert.NotEmpty(t, resp.LayoutID)

	layouts, err := repo.Layout.List(context.Background())
	require.NoError(t, err)
	require.Len(t, layouts, 1)
	assert.Equal(t, "Main Hall", layouts[0].Name)
	assert.Len(t, layouts[0].Seats, 96)

	// Transient selections are stored at their original status.
	for _, seat := range layouts[0].Seats {
		assert.NotEqual(t, entity.SeatSelected, seat.Status, "seat %s", seat.ID)
	}
}

func TestSaveLayout_BlankNameRejected(t *testing.T) {
	svc, _ := newSeatMapFixture(t)
	sess := openSession(t, svc)

	_, err := svc.SetMode(sess.SessionID, &request.SetModeRequest{Mode: "editor"})
	require.NoError(t, err)

	_, err = svc.SaveLayout(context.Background(), sess.SessionID, &request.SaveLayoutRequest{Name: "   "})

	var validationErr *apperr.ValidationError
	require.ErrorAs(t, err, &validationErr)
}

func TestSaveLayout_ViewerRejected(t *testing.T) {
	svc, _ := newSeatMapFixture(t)
	sess := openSession(t, svc)

	_, err := svc.SaveLayout(context.Background(), sess.SessionID, &request.SaveLayoutRequest{Name: "Main Hall"})

	var validationErr *apperr.ValidationError
	require.ErrorAs(t, err, &validationErr)
}

func TestSaveLayout_EditKeepsIdentity(t *testing.T) {
	svc, repo := newSeatMapFixture(t)
	sess := openSession(t, svc)

	_, err := svc.SetMode(sess.SessionID, &request.SetModeRequest{Mode: "editor"})
	require.NoError(t, err)
	first, err := svc.SaveLayout(context.Background(), sess.SessionID, &request.SaveLayoutRequest{Name: "Main Hall"})
	require.NoError(t, err)

	_, err = svc.SetMode(sess.SessionID, &request.SetModeRequest{Mode: "editor", EditStatus: "accessible"})
	require.NoError(t, err)
	_, err = svc.PaintSeat(sess.SessionID, "B1")
	require.NoError(t, err)
	second, err := svc.SaveLayout(context.Background(), sess.SessionID, &request.SaveLayoutRequest{Name: "Main Hall v2"})
	require.NoError(t, err)

	assert.Equal(t, first.LayoutID, second.LayoutID)

	layouts, err := repo.Layout.List(context.Background())
	require.NoError(t, err)
	require.Len(t, layouts, 1)
	assert.Equal(t, "Main Hall v2", layouts[0].Name)
}

func TestCancelEdit_RestoresPreEditGrid(t *testing.T) {
	svc, _ := newSeatMapFixture(t)
	sess := openSession(t, svc)

	_, err := svc.SetMode(sess.SessionID, &request.SetModeRequest{Mode: "editor", EditStatus: "empty"})
	require.NoError(t, err)
	_, err = svc.PaintSeat(sess.SessionID, "A5")
	require.NoError(t, err)

	resp, err := svc.CancelEdit(sess.SessionID)
	require.NoError(t, err)
	assert.Equal(t, "viewer", resp.Mode)
	assert.Equal(t, "available", seatStatus(t, resp, "A5").Status)
	assert.ElementsMatch(t, []string{"F6", "F7"}, resp.SelectedSeatIDs)
}

func TestCancelEdit_NoEditInProgress(t *testing.T) {
	svc, _ := newSeatMapFixture(t)
	sess := openSession(t, svc)

	_, err := svc.CancelEdit(sess.SessionID)

	var validationErr *apperr.ValidationError
	require.ErrorAs(t, err, &validationErr)
}

func TestLoadLayout_ReplacesGridAndClearsSelection(t *testing.T) {
	svc, _ := newSeatMapFixture(t)
	sess := openSession(t, svc)

	_, err := svc.SetMode(sess.SessionID, &request.SetModeRequest{Mode: "editor"})
	require.NoError(t, err)
	saved, err := svc.SaveLayout(context.Background(), sess.SessionID, &request.SaveLayoutRequest{Name: "Main Hall"})
	require.NoError(t, err)

	// Build up some viewer state, then load the saved layout over it.
	_, err = svc.SelectSeat(sess.SessionID, "A3")
	require.NoError(t, err)

	resp, err := svc.LoadLayout(context.Background(), sess.SessionID, saved.LayoutID)
	require.NoError(t, err)
	assert.Empty(t, resp.SelectedSeatIDs)
	assert.Equal(t, 0, quantityOf(resp, "adult"))
	assert.Equal(t, saved.LayoutID, resp.LayoutID)
}

func TestLoadLayout_Unknown(t *testing.T) {
	svc, _ := newSeatMapFixture(t)
	sess := openSession(t, svc)

	_, err := svc.LoadLayout(context.Background(), sess.SessionID, uuid.NewString())
	var notFound *apperr.NotFoundError
	require.ErrorAs(t, err, &notFound)

	_, err = svc.LoadLayout(context.Background(), sess.SessionID, "not-a-uuid")
	var validationErr *apperr.ValidationError
	require.ErrorAs(t, err, &validationErr)
}

func TestCreateSession_UsesLatestSavedLayout(t *testing.T) {
	svc, _ := newSeatMapFixture(t)
	sess := openSession(t, svc)

	_, err := svc.SetMode(sess.SessionID, &request.SetModeRequest{Mode: "editor"})
	require.NoError(t, err)
	saved, err := svc.SaveLayout(context.Background(), sess.SessionID, &request.SaveLayoutRequest{Name: "Main Hall"})
	require.NoError(t, err)

	fresh := openSession(t, svc)
	assert.Equal(t, saved.LayoutID, fresh.LayoutID)
	assert.Empty(t, fresh.SelectedSeatIDs)
}

func TestCheckout_ProducesOrderData(t *testing.T) {
	svc, _ := newSeatMapFixture(t)
	sess := openSession(t, svc)

	data, err := svc.Checkout(context.Background(), sess.SessionID)
	require.NoError(t, err)

	assert.Equal(t, 7, data.MovieID)
	assert.Equal(t, "Arrival", data.MovieTitle)
	require.Len(t, data.SelectedSeats, 2)
	assert.InDelta(t, 20.0, data.Pricing.Subtotal, 1e-9)
	assert.InDelta(t, 21.6, data.Pricing.Total, 1e-9)

	// Checkout is read-only: the session keeps its selection.
	after, err := svc.GetSession(sess.SessionID)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"F6", "F7"}, after.SelectedSeatIDs)
}

func TestCheckout_CountMismatch(t *testing.T) {
	svc, _ := newSeatMapFixture(t)
	sess := openSession(t, svc)

	_, err := svc.AdjustQuantity(sess.SessionID, &request.AdjustQuantityRequest{Category: "adult", Delta: -1})
	require.NoError(t, err)

	_, err = svc.Checkout(context.Background(), sess.SessionID)

	var mismatch *apperr.CountMismatchError
	require.ErrorAs(t, err, &mismatch)
	assert.Equal(t, 1, mismatch.Tickets)
	assert.Equal(t, 2, mismatch.Seats)
	assert.Equal(t, -1, mismatch.Delta())
}

func TestCheckout_NothingSelected(t *testing.T) {
	svc, _ := newSeatMapFixture(t)
	sess := openSession(t, svc)

	_, err := svc.SelectSeat(sess.SessionID, "F6")
	require.NoError(t, err)
	_, err = svc.SelectSeat(sess.SessionID, "F7")
	require.NoError(t, err)

	_, err = svc.Checkout(context.Background(), sess.SessionID)

	var validationErr *apperr.ValidationError
	require.ErrorAs(t, err, &validationErr)
}

func TestGetAndDeleteLayout(t *testing.T) {
	svc, _ := newSeatMapFixture(t)
	sess := openSession(t, svc)

	_, err := svc.SetMode(sess.SessionID, &request.SetModeRequest{Mode: "editor"})
	require.NoError(t, err)
	saved, err := svc.SaveLayout(context.Background(), sess.SessionID, &request.SaveLayoutRequest{Name: "Main Hall"})
	require.NoError(t, err)

	layout, err := svc.GetLayout(context.Background(), saved.LayoutID)
	require.NoError(t, err)
	assert.Equal(t, "Main Hall", layout.Name)
	assert.Equal(t, 96, layout.SeatCount)

	require.NoError(t, svc.DeleteLayout(context.Background(), saved.LayoutID))

	_, err = svc.GetLayout(context.Background(), saved.LayoutID)
	var notFound *apperr.NotFoundError
	require.ErrorAs(t, err, &notFound)

	// Deleting again stays silent.
	require.NoError(t, svc.DeleteLayout(context.Background(), saved.LayoutID))
}

func TestCloseSession(t *testing.T) {
	svc, _ := newSeatMapFixture(t)
	sess := openSession(t, svc)

	svc.CloseSession(sess.SessionID)

	_, err := svc.GetSession(sess.SessionID)
	var notFound *apperr.NotFoundError
	require.ErrorAs(t, err, &notFound)
}

func TestCheckout_StoreFailureSurfacesPersistenceError(t *testing.T) {
	// A corrupt layouts document must surface as a typed persistence failure,
	// not a raw json error.
	store := kvstore.NewMemoryStore()
	t.Cleanup(func() { store.Close() })
	require.NoError(t, store.Set(context.Background(), repository.LayoutsKey, []byte("{broken")))

	repo := repository.NewRepository(store, zap.NewNop())
	cfg := &utils.Config{Pricing: utils.PricingConfig{DefaultQuantityCap: 4}}
	svc := NewSeatMapService(repo, NewPriceProvider(cfg.Pricing), cfg, zap.NewNop())

	_, err := svc.CreateSession(context.Background(), &request.CreateSeatMapRequest{
		MovieID:    7,
		MovieTitle: "Arrival",
	})

	var persistErr *apperr.PersistenceError
	require.True(t, errors.As(err, &persistErr))
	assert.Equal(t, repository.LayoutsKey, persistErr.Key)
}
