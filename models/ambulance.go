package models

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// WorkflowStage is one of the four ordered checkpoints an ambulance passes
// through every review cycle.
type WorkflowStage string

const (
	StageDailyCheck WorkflowStage = "daily_check"
	StageMechanical WorkflowStage = "mechanical"
	StageCleaning   WorkflowStage = "cleaning"
	StageInventory  WorkflowStage = "inventory"

	// StageComplete is not a real stage; NextPendingStage returns it when
	// all four flags are set (which only happens transiently, because
	// completing inventory resets the cycle).
	StageComplete WorkflowStage = "complete"
)

// WorkflowOrder is the strict stage sequence. The completion flags must
// always form a prefix of this order.
var WorkflowOrder = []WorkflowStage{StageDailyCheck, StageMechanical, StageCleaning, StageInventory}

// ErrUnknownStage is returned by ApplyStage for stage names outside WorkflowOrder.
var ErrUnknownStage = fmt.Errorf("unknown workflow stage")

type Ambulance struct {
	ID    uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	Code  string    `gorm:"size:30;uniqueIndex;not null" json:"code"`
	Plate string    `gorm:"size:15;uniqueIndex;not null" json:"plate"`
	Model string    `gorm:"size:100" json:"model,omitempty"`
	Type  string    `gorm:"size:30" json:"type,omitempty"` // SVB, SVA, A1...

	LastKnownKilometers int `gorm:"default:0" json:"lastKnownKilometers"`

	// Review-cycle flags. Invariant: true flags are always a prefix of
	// WorkflowOrder; ApplyStage is the only write path.
	DailyCheckCompleted       bool `gorm:"default:false" json:"dailyCheckCompleted"`
	MechanicalReviewCompleted bool `gorm:"default:false" json:"mechanicalReviewCompleted"`
	CleaningCompleted         bool `gorm:"default:false" json:"cleaningCompleted"`
	InventoryCompleted        bool `gorm:"default:false" json:"inventoryCompleted"`

	LastDailyCheck       *time.Time `json:"lastDailyCheck,omitempty"`
	LastMechanicalReview *time.Time `json:"lastMechanicalReview,omitempty"`
	LastCleaning         *time.Time `json:"lastCleaning,omitempty"`
	LastInventoryCheck   *time.Time `json:"lastInventoryCheck,omitempty"`

	AssignedUserID *uuid.UUID `gorm:"type:uuid;index" json:"assignedUserId,omitempty"`
	AssignedUser   *User      `gorm:"foreignKey:AssignedUserID" json:"assignedUser,omitempty"`

	CreatedAt time.Time      `gorm:"autoCreateTime" json:"createdAt"`
	UpdatedAt time.Time      `gorm:"autoUpdateTime" json:"updatedAt"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

// stageIndex returns the position of a stage in WorkflowOrder, or -1.
func stageIndex(stage WorkflowStage) int {
	for i, s := range WorkflowOrder {
		if s == stage {
			return i
		}
	}
	return -1
}

// stageFlag returns a pointer to the completion flag backing the stage.
func (a *Ambulance) stageFlag(stage WorkflowStage) *bool {
	switch stage {
	case StageDailyCheck:
		return &a.DailyCheckCompleted
	case StageMechanical:
		return &a.MechanicalReviewCompleted
	case StageCleaning:
		return &a.CleaningCompleted
	case StageInventory:
		return &a.InventoryCompleted
	}
	return nil
}

func (a *Ambulance) stageTimestamp(stage WorkflowStage) **time.Time {
	switch stage {
	case StageDailyCheck:
		return &a.LastDailyCheck
	case StageMechanical:
		return &a.LastMechanicalReview
	case StageCleaning:
		return &a.LastCleaning
	case StageInventory:
		return &a.LastInventoryCheck
	}
	return nil
}

// ApplyStage mutates the workflow flags for a single stage change.
//
// Setting a stage to false also clears every later stage: invalidating an
// earlier checkpoint invalidates trust in everything downstream. Setting
// inventory to true records lastInventoryCheck and then clears all four
// flags, closing the cycle and reopening a fresh one at daily_check.
func (a *Ambulance) ApplyStage(stage WorkflowStage, value bool, now time.Time) error {
	idx := stageIndex(stage)
	if idx < 0 {
		return fmt.Errorf("%w: %q", ErrUnknownStage, stage)
	}

	if !value {
		for _, s := range WorkflowOrder[idx:] {
			*a.stageFlag(s) = false
		}
		return nil
	}

	ts := now
	*a.stageTimestamp(stage) = &ts

	if stage == StageInventory {
		// Cycle complete: reopen at daily_check.
		for _, s := range WorkflowOrder {
			*a.stageFlag(s) = false
		}
		return nil
	}

	*a.stageFlag(stage) = true
	return nil
}

// NextPendingStage returns the first stage whose flag is still false, or
// StageComplete when the whole cycle is done. The caller uses this to gate
// which review screen is unlocked.
func (a *Ambulance) NextPendingStage() WorkflowStage {
	for _, s := range WorkflowOrder {
		if !*a.stageFlag(s) {
			return s
		}
	}
	return StageComplete
}

// StageCompleted reports the flag for one stage (false for unknown names).
func (a *Ambulance) StageCompleted(stage WorkflowStage) bool {
	if f := a.stageFlag(stage); f != nil {
		return *f
	}
	return false
}
