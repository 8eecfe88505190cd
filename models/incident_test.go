package models

import "testing"

func TestCanTransition(t *testing.T) {
	tests := []struct {
		from IncidentStatus
		to   IncidentStatus
		want bool
	}{
		{IncidentOpen, IncidentInProgress, true},
		{IncidentOpen, IncidentResolved, true},
		{IncidentOpen, IncidentClosed, true},
		{IncidentInProgress, IncidentResolved, true},
		{IncidentInProgress, IncidentClosed, true},
		{IncidentInProgress, IncidentOpen, false},
		{IncidentResolved, IncidentClosed, true},
		{IncidentResolved, IncidentOpen, false},
		{IncidentResolved, IncidentInProgress, false},
		{IncidentClosed, IncidentOpen, false},
		{IncidentClosed, IncidentResolved, false},
		{IncidentOpen, IncidentOpen, false},
	}

	for _, tt := range tests {
		inc := Incident{Status: tt.from}
		if got := inc.CanTransition(tt.to); got != tt.want {
			t.Errorf("CanTransition(%s -> %s) = %v, want %v", tt.from, tt.to, got, tt.want)
		}
	}
}

func TestIsActive(t *testing.T) {
	tests := []struct {
		status IncidentStatus
		want   bool
	}{
		{IncidentOpen, true},
		{IncidentInProgress, true},
		{IncidentResolved, false},
		{IncidentClosed, false},
	}

	for _, tt := range tests {
		inc := Incident{Status: tt.status}
		if got := inc.IsActive(); got != tt.want {
			t.Errorf("IsActive(%s) = %v, want %v", tt.status, got, tt.want)
		}
	}
}
