package services

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound       = errors.New("not found")
	ErrInvalidInput   = errors.New("invalid input")
	ErrDuplicateTaxID = errors.New("a client with this tax id already exists")
	ErrSlotTaken      = errors.New("a session is already booked for this time")
	ErrNoSessions     = errors.New("no realized sessions in this period")
)

// Axis names the part of an edit that produced a derived slot.
type Axis string

const (
	AxisFrequency Axis = "frequency"
	AxisDate      Axis = "date"
	AxisTime      Axis = "time"
)

// ConflictError reports a derived occurrence that would overlap another
// session. Nothing is written when it is returned.
type ConflictError struct {
	Axis Axis
	Date string
	Time string
}

func (e *ConflictError) Error() string {
	switch e.Axis {
	case AxisFrequency:
		return fmt.Sprintf("with the selected frequency the occurrence on %s at %s conflicts with another session", e.Date, e.Time)
	case AxisDate:
		return fmt.Sprintf("with the new date the occurrence on %s at %s conflicts with another session", e.Date, e.Time)
	default:
		return fmt.Sprintf("with the new time the occurrence on %s at %s conflicts with another session", e.Date, e.Time)
	}
}

func invalidf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidInput, fmt.Sprintf(format, args...))
}
