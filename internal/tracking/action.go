package tracking

import "github.com/oagunth/oagunth-cli/internal/model"

// ActionRule is the user-facing permission derived from a week's status and
// completeness.
type ActionRule int

const (
	NoActionToTake ActionRule = iota
	CanBeSaved
	CanBeSubmitted
	IsLocked
)

func (a ActionRule) String() string {
	switch a {
	case NoActionToTake:
		return "no action"
	case CanBeSaved:
		return "can be saved"
	case CanBeSubmitted:
		return "can be submitted"
	case IsLocked:
		return "locked"
	}
	return "unknown"
}

// ActionRuleFor maps (status, complete) to the action rule:
//
//	New        any    CanBeSaved
//	Saved      true   CanBeSubmitted
//	Saved      false  NoActionToTake
//	Submitted  any    IsLocked
func ActionRuleFor(status model.WeekStatus, complete bool) ActionRule {
	switch status {
	case model.StatusNew:
		return CanBeSaved
	case model.StatusSaved:
		if complete {
			return CanBeSubmitted
		}
		return NoActionToTake
	case model.StatusSubmitted:
		return IsLocked
	}
	return NoActionToTake
}
