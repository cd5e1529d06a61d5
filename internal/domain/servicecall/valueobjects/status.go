package valueobjects

import "fmt"

type CallStatus string

const (
	StatusNew            CallStatus = "new"
	StatusInProgress     CallStatus = "in_progress"
	StatusWaitingForPart CallStatus = "waiting_for_part"
	StatusResolved       CallStatus = "resolved"
	StatusClosed         CallStatus = "closed"
)

var validCallStatuses = map[CallStatus]bool{
	StatusNew:            true,
	StatusInProgress:     true,
	StatusWaitingForPart: true,
	StatusResolved:       true,
	StatusClosed:         true,
}

// callStatusTransitions is the nominal workflow. Transitions outside it are
// still possible but are flagged in the audit trail.
var callStatusTransitions = map[CallStatus][]CallStatus{
	StatusNew: {
		StatusInProgress,
		StatusClosed,
	},
	StatusInProgress: {
		StatusWaitingForPart,
		StatusResolved,
		StatusClosed,
	},
	StatusWaitingForPart: {
		StatusInProgress,
		StatusResolved,
		StatusClosed,
	},
	StatusResolved: {
		StatusClosed,
		StatusInProgress,
	},
	StatusClosed: {
		StatusInProgress,
	},
}

func (s CallStatus) String() string {
	return string(s)
}

func (s CallStatus) IsValid() bool {
	return validCallStatuses[s]
}

// IsOnGraph reports whether s -> next is part of the nominal workflow.
func (s CallStatus) IsOnGraph(next CallStatus) bool {
	for _, allowed := range callStatusTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// IsOpen is true until the call has been resolved or closed.
func (s CallStatus) IsOpen() bool {
	return s != StatusResolved && s != StatusClosed
}

func (s CallStatus) IsResolved() bool {
	return s == StatusResolved
}

func (s CallStatus) IsClosed() bool {
	return s == StatusClosed
}

func NewCallStatus(s string) (CallStatus, error) {
	cs := CallStatus(s)
	if !cs.IsValid() {
		return "", fmt.Errorf("invalid call status: %s", s)
	}
	return cs, nil
}

// AllStatuses lists statuses in workflow order.
func AllStatuses() []CallStatus {
	return []CallStatus{StatusNew, StatusInProgress, StatusWaitingForPart, StatusResolved, StatusClosed}
}
