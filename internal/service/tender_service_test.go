package service

import (
	"context"
	"testing"

	"github.com/dumu-tech/duka-pos/internal/adapters/memory"
	"github.com/dumu-tech/duka-pos/internal/core"
)

func newTenderService(t *testing.T) *TenderService {
	t.Helper()
	repo := memory.NewRepository()
	return NewTenderService(repo.TenderRepository(), repo.TenderAssignmentRepository())
}

func TestCreateDuplicateTenderConflicts(t *testing.T) {
	svc := newTenderService(t)
	ctx := context.Background()

	if _, err := svc.Create(ctx, CreateTenderInput{Name: "M-Pesa", TillOrder: 1}); err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if _, err := svc.Create(ctx, CreateTenderInput{Name: "M-Pesa", TillOrder: 5}); !core.IsKind(err, core.ErrKindConflict) {
		t.Fatalf("expected conflict on duplicate name, got %v", err)
	}
}

func TestCreateTenderRequiresName(t *testing.T) {
	svc := newTenderService(t)

	if _, err := svc.Create(context.Background(), CreateTenderInput{Name: "   "}); !core.IsKind(err, core.ErrKindValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestListTendersSortedByTillOrder(t *testing.T) {
	svc := newTenderService(t)
	ctx := context.Background()

	seed := []CreateTenderInput{
		{Name: "Voucher", TillOrder: 5},
		{Name: "Cash", TillOrder: 1},
		{Name: "Card", TillOrder: 3},
	}
	for _, input := range seed {
		if _, err := svc.Create(ctx, input); err != nil {
			t.Fatalf("create %s failed: %v", input.Name, err)
		}
	}

	tenders, err := svc.List(ctx)
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}

	want := []string{"Cash", "Card", "Voucher"}
	if len(tenders) != len(want) {
		t.Fatalf("expected %d tenders, got %d", len(want), len(tenders))
	}
	for i, name := range want {
		if tenders[i].Name != name {
			t.Fatalf("position %d: expected %s, got %s", i, name, tenders[i].Name)
		}
	}
}

func TestDeviceAssignmentsRoundTrip(t *testing.T) {
	svc := newTenderService(t)
	ctx := context.Background()

	// A device with no stored layout gets an empty list
	ranks, err := svc.GetDeviceAssignments(ctx, "TILL-01")
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}
	if len(ranks) != 0 {
		t.Fatalf("expected empty layout, got %v", ranks)
	}

	if err := svc.SetDeviceAssignments(ctx, "TILL-01", []int{3, 1, 2}); err != nil {
		t.Fatalf("set failed: %v", err)
	}

	ranks, err = svc.GetDeviceAssignments(ctx, "TILL-01")
	if err != nil {
		t.Fatalf("get after set failed: %v", err)
	}
	if len(ranks) != 3 || ranks[0] != 3 || ranks[1] != 1 || ranks[2] != 2 {
		t.Fatalf("expected [3 1 2], got %v", ranks)
	}
}

func TestDeviceAssignmentsRequireDevice(t *testing.T) {
	svc := newTenderService(t)
	ctx := context.Background()

	if _, err := svc.GetDeviceAssignments(ctx, "  "); !core.IsKind(err, core.ErrKindValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if err := svc.SetDeviceAssignments(ctx, "", []int{1}); !core.IsKind(err, core.ErrKindValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}
