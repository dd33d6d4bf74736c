package rtcchip

import (
	"errors"
	"fmt"
)

// ErrCenturyUnsupported is returned when the chip reports a date beyond the
// year range this driver handles (the century bit in the month register is
// set, meaning the year counter rolled past 2099).
var ErrCenturyUnsupported = errors.New("rtcchip: century bit set, stored date is out of range")

// ErrNoAck is returned when the chip did not acknowledge a transfer within
// the retry window.
var ErrNoAck = errors.New("rtcchip: no ACK received")

// FieldError indicates a calendar field outside its legal range.
type FieldError struct {
	Field string
	Value int
	Min   int
	Max   int
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("rtcchip: %s %d out of range [%d, %d]", e.Field, e.Value, e.Min, e.Max)
}

// MonthError indicates a month index outside 0-11.
type MonthError struct {
	Month int
}

func (e *MonthError) Error() string {
	return fmt.Sprintf("rtcchip: invalid month index %d", e.Month)
}
