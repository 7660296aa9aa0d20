package models

import "testing"

func TestIsValidRequestTransition(t *testing.T) {
	tests := []struct {
		from     string
		to       string
		expected bool
	}{
		// Happy path
		{RequestStatusPending, RequestStatusApproved, true},
		{RequestStatusPending, RequestStatusRejected, true},

		// Decided requests are final
		{RequestStatusApproved, RequestStatusRejected, false},
		{RequestStatusApproved, RequestStatusPending, false},
		{RequestStatusRejected, RequestStatusApproved, false},
		{RequestStatusRejected, RequestStatusPending, false},
		{RequestStatusApproved, RequestStatusApproved, false},
		{RequestStatusRejected, RequestStatusRejected, false},

		// Unknown statuses
		{"nonexistent", RequestStatusApproved, false},
		{RequestStatusPending, "nonexistent", false},
		{RequestStatusPending, RequestStatusPending, false},
	}

	for _, tt := range tests {
		t.Run(tt.from+"->"+tt.to, func(t *testing.T) {
			result := IsValidRequestTransition(tt.from, tt.to)
			if result != tt.expected {
				t.Errorf("IsValidRequestTransition(%q, %q) = %v, want %v", tt.from, tt.to, result, tt.expected)
			}
		})
	}
}

func TestAllRequestStatusesHaveTransitionEntry(t *testing.T) {
	allStatuses := []string{RequestStatusPending, RequestStatusApproved, RequestStatusRejected}

	for _, status := range allStatuses {
		if _, ok := ValidRequestTransitions[status]; !ok {
			t.Errorf("status %q missing from ValidRequestTransitions map", status)
		}
	}
}

func TestTerminalRequestStatusesHaveNoTransitions(t *testing.T) {
	terminal := []string{RequestStatusApproved, RequestStatusRejected}
	for _, status := range terminal {
		if !IsTerminalRequestStatus(status) {
			t.Errorf("status %q should be terminal", status)
		}
		if transitions := ValidRequestTransitions[status]; len(transitions) != 0 {
			t.Errorf("terminal status %q should have no transitions, got %v", status, transitions)
		}
	}

	if IsTerminalRequestStatus(RequestStatusPending) {
		t.Error("pending should not be terminal")
	}
	if IsTerminalRequestStatus("nonexistent") {
		t.Error("unknown status should not be terminal")
	}
}

func TestIsRequestTargetField(t *testing.T) {
	for _, f := range RequestTargetFields {
		if !IsRequestTargetField(f) {
			t.Errorf("field %q should be a valid request target", f)
		}
	}

	for _, f := range []string{"matricule", "departement_id", "is_active", "", "salary"} {
		if IsRequestTargetField(f) {
			t.Errorf("field %q should not be a valid request target", f)
		}
	}
}
