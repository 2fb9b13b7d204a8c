package service

import (
	"context"
	"strings"
	"time"

	"github.com/dumu-tech/duka-pos/internal/core"
	"github.com/dumu-tech/duka-pos/internal/events"
	"github.com/google/uuid"
)

// TillService manages cash-drawer session lifecycle: open, suspend, resume,
// close. Every transition is a single atomic conditional write in the
// repository, so concurrent calls on the same till cannot double-apply.
type TillService struct {
	tillRepo  core.TillRepository
	staffRepo core.StaffRepository
	eventBus  *events.EventBus
	storeID   string

	// singleOpenPolicy rejects opening a second OPEN till for the same
	// (location, staff) pair. Configurable because some shops intentionally
	// share one login across registers.
	singleOpenPolicy bool
}

// NewTillService creates a new till service
func NewTillService(tillRepo core.TillRepository, staffRepo core.StaffRepository, eventBus *events.EventBus, storeID string, singleOpenPolicy bool) *TillService {
	if storeID == "" {
		storeID = "main-store"
	}
	return &TillService{
		tillRepo:         tillRepo,
		staffRepo:        staffRepo,
		eventBus:         eventBus,
		storeID:          storeID,
		singleOpenPolicy: singleOpenPolicy,
	}
}

// OpenTillInput carries the parameters for opening a till
type OpenTillInput struct {
	LocationID     string  `json:"location_id"`
	StaffID        string  `json:"staff_id"`
	OpeningBalance float64 `json:"opening_balance"`
	Device         string  `json:"device"`
	Notes          string  `json:"notes"`
}

// Open creates a new OPEN till session for a staff member at a location.
func (s *TillService) Open(ctx context.Context, input OpenTillInput) (*core.Till, error) {
	input.LocationID = strings.TrimSpace(input.LocationID)
	input.StaffID = strings.TrimSpace(input.StaffID)

	if input.LocationID == "" {
		return nil, core.Validationf("location reference is required")
	}
	if input.StaffID == "" {
		return nil, core.Validationf("staff reference is required")
	}
	if input.OpeningBalance < 0 {
		return nil, core.Validationf("opening balance cannot be negative")
	}

	staff, err := s.staffRepo.GetByID(ctx, input.StaffID)
	if err != nil {
		if core.IsKind(err, core.ErrKindNotFound) {
			return nil, core.Validationf("staff %s does not exist", input.StaffID)
		}
		return nil, err
	}

	if s.singleOpenPolicy {
		open, err := s.tillRepo.FindOpen(ctx, input.LocationID, input.StaffID)
		if err != nil {
			return nil, err
		}
		if open != nil {
			return nil, core.Conflictf("staff %s already has an open till at location %s", input.StaffID, input.LocationID)
		}
	}

	till := &core.Till{
		ID:             uuid.New().String(),
		StoreID:        s.storeID,
		LocationID:     input.LocationID,
		StaffID:        staff.ID,
		StaffName:      staff.Name,
		Status:         core.TillStatusOpen,
		OpeningBalance: input.OpeningBalance,
		Device:         strings.TrimSpace(input.Device),
		Notes:          strings.TrimSpace(input.Notes),
		OpenedAt:       time.Now().UTC(),
	}

	if err := s.tillRepo.Create(ctx, till); err != nil {
		return nil, err
	}

	s.eventBus.PublishTillOpened(till)

	return till, nil
}

// Suspend pauses an OPEN till without closing it.
func (s *TillService) Suspend(ctx context.Context, tillID string) (*core.Till, error) {
	return s.tillRepo.TransitionStatus(ctx, tillID,
		[]core.TillStatus{core.TillStatusOpen}, core.TillStatusSuspended)
}

// Resume reopens a SUSPENDED till.
func (s *TillService) Resume(ctx context.Context, tillID string) (*core.Till, error) {
	return s.tillRepo.TransitionStatus(ctx, tillID,
		[]core.TillStatus{core.TillStatusSuspended}, core.TillStatusOpen)
}

// Close finishes an OPEN or SUSPENDED till, recording the counted closing
// balance and stamping the close time. A till cannot be mutated after CLOSED.
func (s *TillService) Close(ctx context.Context, tillID string, closingBalance float64) (*core.Till, error) {
	if closingBalance < 0 {
		return nil, core.Validationf("closing balance cannot be negative")
	}

	till, err := s.tillRepo.Close(ctx, tillID, closingBalance, time.Now().UTC())
	if err != nil {
		return nil, err
	}

	s.eventBus.PublishTillClosed(till.ID, closingBalance)

	return till, nil
}

// Get returns a till by id.
func (s *TillService) Get(ctx context.Context, tillID string) (*core.Till, error) {
	return s.tillRepo.GetByID(ctx, tillID)
}
