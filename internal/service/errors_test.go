package service

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"connectrpc.com/connect"

	"github.com/mmynk/freightledger/internal/apperr"
)

func TestToConnectError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want connect.Code
	}{
		{"not found", apperr.NotFound("settlement %s not found", "s-1"), connect.CodeNotFound},
		{"invalid state", apperr.InvalidState("Only DRAFT settlements can be finalized"), connect.CodeFailedPrecondition},
		{"conflict", apperr.Conflict("settlement number taken"), connect.CodeAborted},
		{"validation", apperr.Validation("amount is required"), connect.CodeInvalidArgument},
		{"permission", apperr.PermissionDenied("role %q may not approve", "CARRIER"), connect.CodePermissionDenied},
		{"wrapped", fmt.Errorf("create settlement: %w", apperr.Conflict("busy")), connect.CodeAborted},
		{"deadline", context.DeadlineExceeded, connect.CodeDeadlineExceeded},
		{"unclassified", errors.New("disk on fire"), connect.CodeInternal},
		{"already connect", connect.NewError(connect.CodeUnauthenticated, errors.New("no token")), connect.CodeUnauthenticated},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := connect.CodeOf(toConnectError(tt.err)); got != tt.want {
				t.Errorf("expected %v, got %v", tt.want, got)
			}
		})
	}
}

func TestParseAmount(t *testing.T) {
	tests := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{"1250", "1250.00", false},
		{" 19.90 ", "19.90", false},
		{"-3.5", "-3.50", false},
		{"", "", true},
		{"abc", "", true},
		{"0.001", "", true},
	}

	for _, tt := range tests {
		got, err := parseAmount("amount", tt.in)
		if tt.wantErr {
			if !errors.Is(err, apperr.ErrValidation) {
				t.Errorf("parseAmount(%q): expected validation error, got %v", tt.in, err)
			}
			continue
		}
		if err != nil {
			t.Errorf("parseAmount(%q) failed: %v", tt.in, err)
			continue
		}
		if got.StringFixed(2) != tt.want {
			t.Errorf("parseAmount(%q): expected %s, got %s", tt.in, tt.want, got.StringFixed(2))
		}
	}
}
