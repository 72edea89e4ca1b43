package model

import "time"

type ActionStatus string

const (
	ActionSucceeded ActionStatus = "succeeded"
	ActionFailed    ActionStatus = "failed"
)

// ActionResult is the outcome of an operation crossing the async boundary
// (submission, media processing, outbound messages)
type ActionResult struct {
	Action     string       `json:"action"`
	TargetID   string       `json:"targetId"`
	Status     ActionStatus `json:"status"`
	Error      string       `json:"error,omitempty"`
	Output     *FileRef     `json:"output,omitempty"`
	FinishedAt time.Time    `json:"finishedAt"`
}

// OK reports whether the action succeeded
func (r ActionResult) OK() bool {
	return r.Status == ActionSucceeded
}

// Succeeded builds a successful result
func Succeeded(action, targetID string) ActionResult {
	return ActionResult{Action: action, TargetID: targetID, Status: ActionSucceeded, FinishedAt: time.Now()}
}

// Failed builds a failed result from err
func Failed(action, targetID string, err error) ActionResult {
	return ActionResult{Action: action, TargetID: targetID, Status: ActionFailed, Error: err.Error(), FinishedAt: time.Now()}
}
