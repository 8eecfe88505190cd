package models

import (
	"errors"
	"testing"
	"time"
)

func flags(a *Ambulance) [4]bool {
	return [4]bool{
		a.DailyCheckCompleted,
		a.MechanicalReviewCompleted,
		a.CleaningCompleted,
		a.InventoryCompleted,
	}
}

// prefixOK verifies the completion flags form a prefix of WorkflowOrder.
func prefixOK(a *Ambulance) bool {
	seenFalse := false
	for _, s := range WorkflowOrder {
		done := a.StageCompleted(s)
		if seenFalse && done {
			return false
		}
		if !done {
			seenFalse = true
		}
	}
	return true
}

func TestApplyStageAdvancesInOrder(t *testing.T) {
	now := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)
	a := &Ambulance{}

	steps := []struct {
		stage WorkflowStage
		want  [4]bool
		next  WorkflowStage
	}{
		{StageDailyCheck, [4]bool{true, false, false, false}, StageMechanical},
		{StageMechanical, [4]bool{true, true, false, false}, StageCleaning},
		{StageCleaning, [4]bool{true, true, true, false}, StageInventory},
	}

	for _, step := range steps {
		if err := a.ApplyStage(step.stage, true, now); err != nil {
			t.Fatalf("ApplyStage(%s): %v", step.stage, err)
		}
		if flags(a) != step.want {
			t.Errorf("after %s: flags = %v, want %v", step.stage, flags(a), step.want)
		}
		if got := a.NextPendingStage(); got != step.next {
			t.Errorf("after %s: NextPendingStage = %s, want %s", step.stage, got, step.next)
		}
		if !prefixOK(a) {
			t.Errorf("after %s: flags are not a prefix of the stage order", step.stage)
		}
	}
}

func TestApplyStageInventoryResetsCycle(t *testing.T) {
	now := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)
	a := &Ambulance{
		DailyCheckCompleted:       true,
		MechanicalReviewCompleted: true,
		CleaningCompleted:         true,
	}

	if err := a.ApplyStage(StageInventory, true, now); err != nil {
		t.Fatalf("ApplyStage(inventory): %v", err)
	}

	if flags(a) != [4]bool{false, false, false, false} {
		t.Errorf("flags after cycle completion = %v, want all false", flags(a))
	}
	if a.LastInventoryCheck == nil || !a.LastInventoryCheck.Equal(now) {
		t.Errorf("LastInventoryCheck = %v, want %v", a.LastInventoryCheck, now)
	}
	if got := a.NextPendingStage(); got != StageDailyCheck {
		t.Errorf("NextPendingStage after reset = %s, want %s", got, StageDailyCheck)
	}
}

func TestApplyStageRegressionClearsDownstream(t *testing.T) {
	tests := []struct {
		name    string
		cleared WorkflowStage
		want    [4]bool
	}{
		{"clear daily_check wipes everything", StageDailyCheck, [4]bool{false, false, false, false}},
		{"clear mechanical keeps daily_check", StageMechanical, [4]bool{true, false, false, false}},
		{"clear cleaning keeps earlier stages", StageCleaning, [4]bool{true, true, false, false}},
	}

	now := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := &Ambulance{
				DailyCheckCompleted:       true,
				MechanicalReviewCompleted: true,
				CleaningCompleted:         true,
			}
			if err := a.ApplyStage(tt.cleared, false, now); err != nil {
				t.Fatalf("ApplyStage(%s, false): %v", tt.cleared, err)
			}
			if flags(a) != tt.want {
				t.Errorf("flags = %v, want %v", flags(a), tt.want)
			}
			if !prefixOK(a) {
				t.Errorf("flags are not a prefix of the stage order")
			}
		})
	}
}

func TestApplyStageUnknownStage(t *testing.T) {
	a := &Ambulance{}
	err := a.ApplyStage("detailing", true, time.Now())
	if !errors.Is(err, ErrUnknownStage) {
		t.Fatalf("ApplyStage(detailing) error = %v, want ErrUnknownStage", err)
	}
}

// Completing stages out of order is allowed by the model; the handlers gate
// it. But clearing a middle stage after skipping must still cascade.
func TestApplyStageFalseIsIdempotent(t *testing.T) {
	now := time.Now()
	a := &Ambulance{DailyCheckCompleted: true}

	for i := 0; i < 2; i++ {
		if err := a.ApplyStage(StageMechanical, false, now); err != nil {
			t.Fatalf("ApplyStage: %v", err)
		}
	}
	if flags(a) != [4]bool{true, false, false, false} {
		t.Errorf("flags = %v, want daily_check only", flags(a))
	}
}
