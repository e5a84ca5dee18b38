package domain

import (
	"context"
	"time"
)

// Step identifies which chain operation produced an event.
type Step string

const (
	StepCreate          Step = "create"
	StepCreateRelated   Step = "create_related"
	StepCreateFromValue Step = "create_related_from_value"
	StepAssert          Step = "assert"
	StepConditional     Step = "conditional"
	StepAct             Step = "act"
	StepActOnRoot       Step = "act_on_root"
	StepDelay           Step = "delay"
	StepReassignRoot    Step = "reassign_root"
	StepCleanup         Step = "cleanup"
)

// StepEvent describes one chain step execution.
type StepEvent struct {
	Timestamp time.Time     `json:"timestamp"`
	Step      Step          `json:"step"`
	RecordID  any           `json:"record_id,omitempty"` // identifier the step touched, if any
	Duration  time.Duration `json:"duration,omitempty"`  // set on step end
}

// LifecycleHooks defines callbacks for session observability.
// Nil callbacks are skipped; hooks must not mutate session state.
type LifecycleHooks struct {
	OnStepStart     func(context.Context, *StepEvent)
	OnStepEnd       func(context.Context, *StepEvent)
	OnRecordCreated func(context.Context, *StepEvent)
}
