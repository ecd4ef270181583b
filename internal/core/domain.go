package core

import (
	"fmt"
	"strings"
	"time"
)

const (
	High   Priority = "High"
	Medium Priority = "Medium"
	Low    Priority = "Low"
)

type (
	Priority string

	// Activity is a named, dated, categorized task record. ID and CreatedAt
	// are assigned once at creation and never touched by edits. Category is
	// a soft reference: a name that no longer exists in the category set is
	// tolerated and resolves to the fallback color at read time.
	Activity struct {
		ID          string
		Name        string
		Start       Date
		End         Date
		Category    string
		Priority    Priority
		Description string
		CreatedAt   time.Time
	}
)

// String implements fmt.Stringer
func (p Priority) String() string {
	return string(p)
}

// IsValid returns true if the priority is one of the enumerated values.
func (p Priority) IsValid() bool {
	switch p {
	case High, Medium, Low:
		return true
	default:
		return false
	}
}

// Validate checks the fields a caller may set on add or update. It does not
// check ID or CreatedAt, which are owned by the service, and it does not
// check that Category exists (soft reference).
func (a Activity) Validate() error {
	if strings.TrimSpace(a.Name) == "" {
		return fmt.Errorf("%w: activity name is empty", ErrInvalidInput)
	}
	if a.Start.IsZero() || a.End.IsZero() {
		return fmt.Errorf("%w: activity dates are not set", ErrInvalidInput)
	}
	if a.Start.After(a.End) {
		return fmt.Errorf("%w: start date %s is after end date %s", ErrInvalidInput, a.Start, a.End)
	}
	if !a.Priority.IsValid() {
		return fmt.Errorf("%w: priority %q (want High, Medium or Low)", ErrInvalidInput, a.Priority)
	}
	return nil
}
