package service

import (
	"context"
	"strings"
	"time"

	"github.com/dumu-tech/duka-pos/internal/core"
	"github.com/google/uuid"
)

// TenderService manages payment-method definitions and the per-device
// button ordering used by the till UI.
type TenderService struct {
	tenderRepo     core.TenderRepository
	assignmentRepo core.TenderAssignmentRepository
}

// NewTenderService creates a new tender service
func NewTenderService(tenderRepo core.TenderRepository, assignmentRepo core.TenderAssignmentRepository) *TenderService {
	return &TenderService{
		tenderRepo:     tenderRepo,
		assignmentRepo: assignmentRepo,
	}
}

// CreateTenderInput carries the parameters for registering a payment method
type CreateTenderInput struct {
	Name           string `json:"name"`
	Description    string `json:"description"`
	Color          string `json:"color"`
	TillOrder      int    `json:"till_order"`
	Classification string `json:"classification"`
}

// Create registers a new payment method. Tender names are unique; a
// duplicate fails with a conflict.
func (s *TenderService) Create(ctx context.Context, input CreateTenderInput) (*core.Tender, error) {
	input.Name = strings.TrimSpace(input.Name)
	if input.Name == "" {
		return nil, core.Validationf("tender name is required")
	}

	existing, err := s.tenderRepo.GetByName(ctx, input.Name)
	if err != nil && !core.IsKind(err, core.ErrKindNotFound) {
		return nil, err
	}
	if existing != nil {
		return nil, core.Conflictf("tender %q already exists", input.Name)
	}

	tender := &core.Tender{
		ID:             uuid.New().String(),
		Name:           input.Name,
		Description:    strings.TrimSpace(input.Description),
		Color:          strings.TrimSpace(input.Color),
		TillOrder:      input.TillOrder,
		Classification: strings.TrimSpace(input.Classification),
		CreatedAt:      time.Now().UTC(),
	}

	if err := s.tenderRepo.Create(ctx, tender); err != nil {
		return nil, err
	}

	return tender, nil
}

// List returns all tenders sorted ascending by till order.
func (s *TenderService) List(ctx context.Context) ([]*core.Tender, error) {
	return s.tenderRepo.List(ctx)
}

// GetDeviceAssignments returns the ordered tender ranks assigned to a device.
func (s *TenderService) GetDeviceAssignments(ctx context.Context, deviceID string) ([]int, error) {
	deviceID = strings.TrimSpace(deviceID)
	if deviceID == "" {
		return nil, core.Validationf("device id is required")
	}
	return s.assignmentRepo.Get(ctx, deviceID)
}

// SetDeviceAssignments persists the ordered tender ranks for a device.
func (s *TenderService) SetDeviceAssignments(ctx context.Context, deviceID string, ranks []int) error {
	deviceID = strings.TrimSpace(deviceID)
	if deviceID == "" {
		return core.Validationf("device id is required")
	}
	if ranks == nil {
		ranks = []int{}
	}
	return s.assignmentRepo.Set(ctx, deviceID, ranks)
}
