package audit_test

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/archis17/AI-KYC/internal/audit"
)

// Action values are read by the workflow automation consuming the audit
// trail; renaming one breaks that contract.
func TestActionValues(t *testing.T) {
	tests := []struct {
		action audit.Action
		want   string
	}{
		{audit.ActionUpload, "upload"},
		{audit.ActionManualApprove, "manual_approve"},
		{audit.ActionManualReject, "manual_reject"},
		{audit.ActionAutoApprove, "auto_approve"},
		{audit.ActionAutoReject, "auto_reject"},
		{audit.ActionDelete, "delete"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			if string(tt.action) != tt.want {
				t.Errorf("action = %q, want %q", tt.action, tt.want)
			}
		})
	}

	if audit.ActorSystem != "system" {
		t.Errorf("ActorSystem = %q, want system", audit.ActorSystem)
	}
}

func TestMapHTTPStatus(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"not found", audit.ErrNotFound, http.StatusNotFound},
		{"case not found", audit.ErrCaseNotFound, http.StatusNotFound},
		{"wrapped case not found", fmt.Errorf("append failed: %w", audit.ErrCaseNotFound), http.StatusNotFound},
		{"unknown error", errors.New("something else"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := audit.MapHTTPStatus(tt.err)
			if got != tt.want {
				t.Errorf("MapHTTPStatus(%v) = %d, want %d", tt.err, got, tt.want)
			}
		})
	}
}
