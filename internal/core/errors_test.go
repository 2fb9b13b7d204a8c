package core

import (
	"errors"
	"fmt"
	"testing"
)

func TestKindOf(t *testing.T) {
	cases := []struct {
		err  error
		want ErrorKind
	}{
		{Validationf("bad input"), ErrKindValidation},
		{NotFoundf("missing"), ErrKindNotFound},
		{Conflictf("duplicate"), ErrKindConflict},
		{InvalidStatef("wrong state"), ErrKindInvalidState},
		{Internalf(errors.New("boom"), "query failed"), ErrKindInternal},
		{errors.New("plain"), ErrKindInternal},
	}
	for _, tc := range cases {
		if got := KindOf(tc.err); got != tc.want {
			t.Errorf("KindOf(%v) = %s, want %s", tc.err, got, tc.want)
		}
	}
}

func TestKindSurvivesWrapping(t *testing.T) {
	err := fmt.Errorf("closing till: %w", InvalidStatef("till is CLOSED"))
	if !IsKind(err, ErrKindInvalidState) {
		t.Fatalf("expected invalid_state through wrapping, got %s", KindOf(err))
	}
}

func TestInternalfKeepsCause(t *testing.T) {
	cause := errors.New("connection reset")
	err := Internalf(cause, "failed to list tills")
	if !errors.Is(err, cause) {
		t.Fatalf("expected cause to be reachable via errors.Is")
	}
}
