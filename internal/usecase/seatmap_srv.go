package usecase

import (
	"context"
	"fmt"
	"sync"
	"time"

	"movie-storefront/internal/apperr"
	"movie-storefront/internal/data/entity"
	"movie-storefront/internal/data/repository"
	"movie-storefront/internal/dto/request"
	"movie-storefront/internal/dto/response"
	"movie-storefront/pkg/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type SeatMapMode string

const (
	ModeViewer SeatMapMode = "viewer"
	ModeEditor SeatMapMode = "editor"
)

// SeatMapService owns the seat-selection sessions: the viewer/editor state
// machine over a seat grid plus the ticket reconciler bound to it. Session
// state lives in memory for the lifetime of the interaction; only SaveLayout
// touches the layout store.
type SeatMapService interface {
	CreateSession(ctx context.Context, req *request.CreateSeatMapRequest) (*response.SeatMapResponse, error)
	GetSession(sessionID string) (*response.SeatMapResponse, error)
	CloseSession(sessionID string)

	SelectSeat(sessionID, seatID string) (*response.SeatMapResponse, error)
	PaintSeat(sessionID, seatID string) (*response.SeatMapResponse, error)
	SetMode(sessionID string, req *request.SetModeRequest) (*response.SeatMapResponse, error)
	SaveLayout(ctx context.Context, sessionID string, req *request.SaveLayoutRequest) (*response.SeatMapResponse, error)
	CancelEdit(sessionID string) (*response.SeatMapResponse, error)
	LoadLayout(ctx context.Context, sessionID, layoutID string) (*response.SeatMapResponse, error)

	AdjustQuantity(sessionID string, req *request.AdjustQuantityRequest) (*response.SeatMapResponse, error)
	Checkout(ctx context.Context, sessionID string) (*entity.CheckoutData, error)

	ListLayouts(ctx context.Context) ([]response.LayoutResponse, error)
	GetLayout(ctx context.Context, layoutID string) (*response.LayoutResponse, error)
	DeleteLayout(ctx context.Context, layoutID string) error
}

type seatMapSession struct {
	id          string
	movieID     int
	movieTitle  string
	theaterName string
	showtime    string

	mode       SeatMapMode
	editStatus entity.SeatStatus
	seats      []entity.Seat
	preEdit    []entity.Seat // snapshot for CancelEdit
	layoutID   *uuid.UUID    // set when seats came from a saved layout

	table      entity.PricingTable
	quantities map[entity.TicketCategory]int
}

type seatMapService struct {
	repo     *repository.Repository
	prices   PriceProvider
	cap      int
	log      *zap.Logger
	mu       sync.Mutex
	sessions map[string]*seatMapSession
}

func NewSeatMapService(repo *repository.Repository, prices PriceProvider, cfg *utils.Config, log *zap.Logger) SeatMapService {
	quantityCap := cfg.Pricing.DefaultQuantityCap
	if quantityCap <= 0 {
		quantityCap = 4
	}

	return &seatMapService{
		repo:     repo,
		prices:   prices,
		cap:      quantityCap,
		log:      log.With(zap.String("service", "seatmap")),
		sessions: make(map[string]*seatMapSession),
	}
}

func (s *seatMapService) CreateSession(ctx context.Context, req *request.CreateSeatMapRequest) (*response.SeatMapResponse, error) {
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		s.log.Warn("Create seat map validation failed", zap.Any("errors", errs))
		return nil, &apperr.ValidationError{Reason: utils.FormatValidationErrors(errs)}
	}

	sess := &seatMapSession{
		id:          utils.GenerateUUIDString(),
		movieID:     req.MovieID,
		movieTitle:  req.MovieTitle,
		theaterName: req.TheaterName,
		showtime:    req.Showtime,
		mode:        ModeViewer,
		editStatus:  entity.SeatAvailable,
		table:       s.prices.TableFor(req.MovieID),
		quantities:  make(map[entity.TicketCategory]int),
	}

	if req.LayoutID != nil {
		layoutID, err := uuid.Parse(*req.LayoutID)
		if err != nil {
			return nil, &apperr.ValidationError{Field: "layout_id", Reason: "must be a valid UUID"}
		}
		layout, err := s.repo.Layout.FindByID(ctx, layoutID)
		if err != nil {
			return nil, fmt.Errorf("create seat map session: %w", err)
		}
		if layout == nil {
			return nil, &apperr.NotFoundError{Resource: "layout", ID: *req.LayoutID}
		}
		sess.seats = copySeats(layout.Seats)
		sess.layoutID = &layout.ID
	} else {
		layout, err := s.repo.Layout.FindLatest(ctx)
		if err != nil {
			return nil, fmt.Errorf("create seat map session: %w", err)
		}
		if layout != nil {
			sess.seats = copySeats(layout.Seats)
			id := layout.ID
			sess.layoutID = &id
		} else {
			sess.seats = sampleSeats()
		}
	}

	s.reconcile(sess)

	s.mu.Lock()
	s.sessions[sess.id] = sess
	s.mu.Unlock()

	s.log.Info("Seat map session created",
		zap.String("session_id", sess.id),
		zap.Int("movie_id", sess.movieID),
		zap.Int("seats", len(sess.seats)),
	)

	return s.buildResponse(sess), nil
}

func (s *seatMapService) GetSession(sessionID string) (*response.SeatMapResponse, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.session(sessionID)
	if err != nil {
		return nil, err
	}
	return s.buildResponse(sess), nil
}

func (s *seatMapService) CloseSession(sessionID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, sessionID)
}

// SelectSeat toggles a seat in viewer mode. Occupied and empty seats are
// never selectable: the call is a no-op, not an error, so the grid UI can
// treat every click the same way. Every toggle re-emits the selection to the
// reconciler, including when it becomes empty.
func (s *seatMapService) SelectSeat(sessionID, seatID string) (*response.SeatMapResponse, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.session(sessionID)
	if err != nil {
		return nil, err
	}
	if sess.mode != ModeViewer {
		return nil, &apperr.ValidationError{Reason: "seat selection is a viewer action"}
	}

	seat := findSeat(sess.seats, seatID)
	if seat == nil {
		return nil, &apperr.NotFoundError{Resource: "seat", ID: seatID}
	}

	if !seat.Selectable() {
		return s.buildResponse(sess), nil
	}

	if seat.Status == entity.SeatSelected {
		seat.Status = seat.OriginalStatus
	} else {
		seat.Status = entity.SeatSelected
	}

	s.reconcile(sess)

	return s.buildResponse(sess), nil
}

// PaintSeat repaints a seat in editor mode with the current palette status.
// The editor is the only writer of OriginalStatus.
func (s *seatMapService) PaintSeat(sessionID, seatID string) (*response.SeatMapResponse, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.session(sessionID)
	if err != nil {
		return nil, err
	}
	if sess.mode != ModeEditor {
		return nil, &apperr.ValidationError{Reason: "seat painting is an editor action"}
	}

	seat := findSeat(sess.seats, seatID)
	if seat == nil {
		return nil, &apperr.NotFoundError{Resource: "seat", ID: seatID}
	}

	seat.Status = sess.editStatus
	seat.OriginalStatus = sess.editStatus

	return s.buildResponse(sess), nil
}

func (s *seatMapService) SetMode(sessionID string, req *request.SetModeRequest) (*response.SeatMapResponse, error) {
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		return nil, &apperr.ValidationError{Reason: utils.FormatValidationErrors(errs)}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.session(sessionID)
	if err != nil {
		return nil, err
	}

	switch SeatMapMode(req.Mode) {
	case ModeEditor:
		if sess.mode != ModeEditor {
			sess.preEdit = copySeats(sess.seats)
			sess.mode = ModeEditor
		}
		if req.EditStatus != "" {
			if !entity.Paintable(entity.SeatStatus(req.EditStatus)) {
				return nil, &apperr.ValidationError{Field: "edit_status", Reason: "not a paintable status"}
			}
			sess.editStatus = entity.SeatStatus(req.EditStatus)
		}
	case ModeViewer:
		sess.mode = ModeViewer
		sess.preEdit = nil
		// Externally driven edits get reconciled into the selection here.
		s.reconcile(sess)
	}

	return s.buildResponse(sess), nil
}

// SaveLayout persists the edited grid under a name and exits editor mode.
// Transient viewer selections are stored at their original status; selection
// is not part of a venue layout.
func (s *seatMapService) SaveLayout(ctx context.Context, sessionID string, req *request.SaveLayoutRequest) (*response.SeatMapResponse, error) {
	if req == nil || utils.IsBlank(req.Name) {
		return nil, &apperr.ValidationError{Field: "name", Reason: "layout name must not be blank"}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.session(sessionID)
	if err != nil {
		return nil, err
	}
	if sess.mode != ModeEditor {
		return nil, &apperr.ValidationError{Reason: "saving a layout is an editor action"}
	}

	now := time.Now()
	layout := &entity.SeatLayout{
		Base: entity.Base{
			ID:        uuid.New(),
			CreatedAt: now,
			UpdatedAt: now,
		},
		Name:  req.Name,
		Seats: normalizeSeats(sess.seats),
	}

	// Editing an existing layout keeps its identity and creation time.
	if sess.layoutID != nil {
		existing, err := s.repo.Layout.FindByID(ctx, *sess.layoutID)
		if err != nil {
			return nil, fmt.Errorf("save layout: %w", err)
		}
		if existing != nil {
			layout.ID = existing.ID
			layout.CreatedAt = existing.CreatedAt
		}
	}

	if err := s.repo.Layout.Save(ctx, layout); err != nil {
		return nil, fmt.Errorf("save layout: %w", err)
	}

	id := layout.ID
	sess.layoutID = &id
	sess.mode = ModeViewer
	sess.preEdit = nil
	s.reconcile(sess)

	s.log.Info("Layout saved from session",
		zap.String("session_id", sess.id),
		zap.String("layout_id", layout.ID.String()),
		zap.String("name", layout.Name),
	)

	return s.buildResponse(sess), nil
}

// CancelEdit discards in-memory seat mutations and restores the grid that was
// active before editor mode was entered.
func (s *seatMapService) CancelEdit(sessionID string) (*response.SeatMapResponse, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.session(sessionID)
	if err != nil {
		return nil, err
	}
	if sess.mode != ModeEditor {
		return nil, &apperr.ValidationError{Reason: "no edit in progress"}
	}

	sess.seats = sess.preEdit
	sess.preEdit = nil
	sess.mode = ModeViewer
	s.reconcile(sess)

	return s.buildResponse(sess), nil
}

// LoadLayout replaces the active grid wholesale with the named layout and
// clears the selection. A missing layout is fatal to the operation.
func (s *seatMapService) LoadLayout(ctx context.Context, sessionID, layoutID string) (*response.SeatMapResponse, error) {
	id, err := uuid.Parse(layoutID)
	if err != nil {
		return nil, &apperr.ValidationError{Field: "layout_id", Reason: "must be a valid UUID"}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.session(sessionID)
	if err != nil {
		return nil, err
	}

	layout, err := s.repo.Layout.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("load layout: %w", err)
	}
	if layout == nil {
		return nil, &apperr.NotFoundError{Resource: "layout", ID: layoutID}
	}

	sess.seats = copySeats(layout.Seats)
	sess.layoutID = &layout.ID
	sess.mode = ModeViewer
	sess.preEdit = nil
	s.reconcile(sess)

	return s.buildResponse(sess), nil
}

// AdjustQuantity bumps one category count. The floor is zero and an increment
// that would push total tickets above the selected seat count is refused as a
// no-op; decrements always go through.
func (s *seatMapService) AdjustQuantity(sessionID string, req *request.AdjustQuantityRequest) (*response.SeatMapResponse, error) {
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		return nil, &apperr.ValidationError{Reason: utils.FormatValidationErrors(errs)}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.session(sessionID)
	if err != nil {
		return nil, err
	}

	category := entity.TicketCategory(req.Category)

	if req.Delta > 0 {
		if totalQuantity(sess.quantities)+req.Delta > len(selectedSeats(sess.seats)) {
			return s.buildResponse(sess), nil
		}
		sess.quantities[category] += req.Delta
	} else {
		next := sess.quantities[category] + req.Delta
		if next < 0 {
			next = 0
		}
		sess.quantities[category] = next
	}

	return s.buildResponse(sess), nil
}

// Checkout validates that ticket counts are congruent with the selection and
// hands back the data for order-queue insertion. It persists nothing and
// leaves session state untouched either way.
func (s *seatMapService) Checkout(ctx context.Context, sessionID string) (*entity.CheckoutData, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.session(sessionID)
	if err != nil {
		return nil, err
	}

	selected := selectedSeats(sess.seats)
	total := totalQuantity(sess.quantities)

	if total == 0 && len(selected) == 0 {
		return nil, &apperr.ValidationError{Reason: "nothing selected to check out"}
	}
	if total != len(selected) {
		return nil, &apperr.CountMismatchError{Tickets: total, Seats: len(selected)}
	}

	data := &entity.CheckoutData{
		MovieID:          sess.movieID,
		MovieTitle:       sess.movieTitle,
		TheaterName:      sess.theaterName,
		Showtime:         sess.showtime,
		SelectedSeats:    copySeats(selected),
		TicketSelections: selectionList(sess.quantities),
		Pricing:          entity.ComputePricing(sess.table, selectionList(sess.quantities)),
	}

	s.log.Info("Checkout data produced",
		zap.String("session_id", sess.id),
		zap.Int("movie_id", sess.movieID),
		zap.Int("seats", len(data.SelectedSeats)),
		zap.Float64("total", data.Pricing.Total),
	)

	return data, nil
}

func (s *seatMapService) ListLayouts(ctx context.Context) ([]response.LayoutResponse, error) {
	layouts, err := s.repo.Layout.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list layouts: %w", err)
	}

	out := make([]response.LayoutResponse, len(layouts))
	for i, layout := range layouts {
		out[i] = response.LayoutToResponse(layout)
	}
	return out, nil
}

func (s *seatMapService) GetLayout(ctx context.Context, layoutID string) (*response.LayoutResponse, error) {
	id, err := uuid.Parse(layoutID)
	if err != nil {
		return nil, &apperr.ValidationError{Field: "layout_id", Reason: "must be a valid UUID"}
	}

	layout, err := s.repo.Layout.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get layout: %w", err)
	}
	if layout == nil {
		return nil, &apperr.NotFoundError{Resource: "layout", ID: layoutID}
	}

	resp := response.LayoutToResponse(layout)
	return &resp, nil
}

// DeleteLayout removes a stored layout. Open sessions keep their working copy
// of the grid; only future loads are affected.
func (s *seatMapService) DeleteLayout(ctx context.Context, layoutID string) error {
	id, err := uuid.Parse(layoutID)
	if err != nil {
		return &apperr.ValidationError{Field: "layout_id", Reason: "must be a valid UUID"}
	}

	if err := s.repo.Layout.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete layout: %w", err)
	}
	return nil
}

// ==================== internals ====================

// session must be called with s.mu held.
func (s *seatMapService) session(sessionID string) (*seatMapSession, error) {
	sess, ok := s.sessions[sessionID]
	if !ok {
		return nil, &apperr.NotFoundError{Resource: "seat map session", ID: sessionID}
	}
	return sess, nil
}

// reconcile resets the ticket quantities after a selection change: the first
// category absorbs the new seat count up to the configured cap, the rest drop
// to zero. Larger selections therefore start in a visible counts-don't-match
// state on purpose.
func (s *seatMapService) reconcile(sess *seatMapSession) {
	count := len(selectedSeats(sess.seats))
	if count > s.cap {
		count = s.cap
	}

	sess.quantities = make(map[entity.TicketCategory]int)
	sess.quantities[entity.Categories()[0]] = count
}

func (s *seatMapService) buildResponse(sess *seatMapSession) *response.SeatMapResponse {
	selected := selectedSeats(sess.seats)
	selectedIDs := make([]string, len(selected))
	for i, seat := range selected {
		selectedIDs[i] = seat.ID
	}

	selections := selectionList(sess.quantities)
	selectionResponses := make([]response.TicketSelectionResponse, len(selections))
	for i, sel := range selections {
		selectionResponses[i] = response.TicketSelectionResponse{
			Category:  string(sel.Category),
			Quantity:  sel.Quantity,
			UnitPrice: sess.table.Prices[sel.Category],
		}
	}

	resp := &response.SeatMapResponse{
		SessionID:        sess.id,
		MovieID:          sess.movieID,
		MovieTitle:       sess.movieTitle,
		TheaterName:      sess.theaterName,
		Showtime:         sess.showtime,
		Mode:             string(sess.mode),
		Rows:             response.SeatsToRows(sess.seats),
		SelectedSeatIDs:  selectedIDs,
		TicketSelections: selectionResponses,
		Pricing:          response.PricingToResponse(entity.ComputePricing(sess.table, selections)),
		CountDelta:       totalQuantity(sess.quantities) - len(selected),
	}
	if sess.mode == ModeEditor {
		resp.EditStatus = string(sess.editStatus)
	}
	if sess.layoutID != nil {
		resp.LayoutID = sess.layoutID.String()
	}
	return resp
}

func findSeat(seats []entity.Seat, seatID string) *entity.Seat {
	for i := range seats {
		if seats[i].ID == seatID {
			return &seats[i]
		}
	}
	return nil
}

func selectedSeats(seats []entity.Seat) []entity.Seat {
	var out []entity.Seat
	for _, seat := range seats {
		if seat.Status == entity.SeatSelected {
			out = append(out, seat)
		}
	}
	return out
}

func copySeats(seats []entity.Seat) []entity.Seat {
	out := make([]entity.Seat, len(seats))
	copy(out, seats)
	return out
}

// normalizeSeats stores transiently selected seats at their original status.
func normalizeSeats(seats []entity.Seat) []entity.Seat {
	out := copySeats(seats)
	for i := range out {
		if out[i].Status == entity.SeatSelected {
			out[i].Status = out[i].OriginalStatus
		}
	}
	return out
}

func totalQuantity(quantities map[entity.TicketCategory]int) int {
	total := 0
	for _, q := range quantities {
		total += q
	}
	return total
}

// selectionList orders the quantity map by category for stable output.
func selectionList(quantities map[entity.TicketCategory]int) []entity.TicketSelection {
	out := make([]entity.TicketSelection, 0, len(entity.Categories()))
	for _, category := range entity.Categories() {
		out = append(out, entity.TicketSelection{
			Category: category,
			Quantity: quantities[category],
		})
	}
	return out
}

// sampleSeats builds the default 8x12 demo grid shown before any layout has
// been saved: a couple of accessible seats in the front row, a pre-selected
// pair mid-hall and two removed corner positions in the back.
func sampleSeats() []entity.Seat {
	rows := []string{"A", "B", "C", "D", "E", "F", "G", "H"}
	seats := make([]entity.Seat, 0, len(rows)*12)

	for _, row := range rows {
		for number := 1; number <= 12; number++ {
			seats = append(seats, entity.NewSeat(row, number, entity.SeatAvailable))
		}
	}

	seed := func(id string, status entity.SeatStatus, original entity.SeatStatus) {
		if seat := findSeat(seats, id); seat != nil {
			seat.Status = status
			seat.OriginalStatus = original
		}
	}

	seed("A1", entity.SeatAccessible, entity.SeatAccessible)
	seed("A2", entity.SeatAccessible, entity.SeatAccessible)
	seed("F6", entity.SeatSelected, entity.SeatAvailable)
	seed("F7", entity.SeatSelected, entity.SeatAvailable)
	seed("H1", entity.SeatEmpty, entity.SeatEmpty)
	seed("H12", entity.SeatEmpty, entity.SeatEmpty)

	return seats
}
