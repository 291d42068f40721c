package deploy

import (
	"strings"
)

// Coarse deployment states derived from a CloudFormation stack status.
const (
	StateDeployed   = "deployed"
	StateInProgress = "in_progress"
	StateFailed     = "failed"
	StateDeleted    = "deleted"
	StateUnknown    = "unknown"
)

// StackStatus is the raw CloudFormation status of a use-case stack and its
// coarse classification.
type StackStatus struct {
	StackID string `json:"stackId,omitempty"`
	Status  string `json:"status"`
	State   string `json:"state"`
	Reason  string `json:"reason,omitempty"`
	// Outputs are the stack outputs once the stack is deployed.
	Outputs map[string]string `json:"outputs,omitempty"`
}

// ClassifyStackStatus maps a raw CloudFormation stack status such as
// CREATE_IN_PROGRESS or UPDATE_ROLLBACK_COMPLETE onto a coarse state.
func ClassifyStackStatus(raw string) string {
	switch {
	case raw == "":
		return StateUnknown
	case raw == "DELETE_COMPLETE":
		return StateDeleted
	case strings.HasSuffix(raw, "_IN_PROGRESS"):
		return StateInProgress
	case strings.HasSuffix(raw, "_FAILED"),
		strings.Contains(raw, "ROLLBACK"):
		// A completed rollback leaves the stack up but not at the requested
		// revision.
		return StateFailed
	case strings.HasSuffix(raw, "_COMPLETE"):
		return StateDeployed
	default:
		return StateUnknown
	}
}

func newStackStatus(id, raw, reason string, outputs map[string]string) *StackStatus {
	return &StackStatus{
		StackID: id,
		Status:  raw,
		State:   ClassifyStackStatus(raw),
		Reason:  reason,
		Outputs: outputs,
	}
}
