package models

import (
	"errors"
	"strings"
	"time"
)

// WorkSession is a single logged-time record against an issue.
//
// Deleting an issue cascades to its work sessions; the reverse does not
// hold. Date is the day the work was performed, independent of when the
// record was created.
type WorkSession struct {
	ID          string    `json:"id"`
	IssueID     string    `json:"issueId"`
	UserID      string    `json:"userId"`
	Hours       float64   `json:"hours"`
	Description string    `json:"description"`
	Date        time.Time `json:"date"`
}

// MaxSessionHours caps a single logged session at one day.
const MaxSessionHours = 24

// ValidateWorkSessionInput checks caller-supplied fields for a new work
// session: hours in (0, 24] and a non-empty description.
func ValidateWorkSessionInput(hours float64, description string) error {
	if hours <= 0 || hours > MaxSessionHours {
		return errors.New("hours must be greater than 0 and at most 24")
	}
	if strings.TrimSpace(description) == "" {
		return errors.New("description is required")
	}
	return nil
}
