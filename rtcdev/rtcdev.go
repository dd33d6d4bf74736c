// Package rtcdev exposes an rtcchip device with the read/write/control
// semantics of a clock device file: reads produce a formatted timestamp,
// writes accept a fixed-layout date string, and control operations move
// structured calendar values in and out.
package rtcdev

import (
	"errors"
	"fmt"
	"io"
	"sync"

	"github.com/rs/zerolog"

	"github.com/mkrtc/rtc3231/rtcchip"
)

// MaxInput is the longest accepted write payload. "YYYY-MM-DD HH:MM:SS" is
// 19 bytes, one more is allowed for a trailing newline or NUL.
const MaxInput = 20

// inputLen is the number of bytes the fixed-field scan consumes.
const inputLen = 19

var (
	// ErrFormat is returned when a written date string does not match the
	// YYYY-MM-DD HH:MM:SS layout exactly.
	ErrFormat = errors.New("rtcdev: malformed date string")

	// ErrTooLong is returned when a write payload exceeds MaxInput bytes.
	ErrTooLong = errors.New("rtcdev: input too long")

	// ErrUnknownOp is returned by Control for an unrecognized operation.
	ErrUnknownOp = errors.New("rtcdev: unknown control operation")

	// ErrNilValue is returned by Control when an operation that moves a
	// calendar value is called without one.
	ErrNilValue = errors.New("rtcdev: nil calendar value")
)

// ControlOp selects a Control operation.
type ControlOp uint

const (
	// OpReadTime reads the current time into the caller's DateTime.
	OpReadTime ControlOp = iota

	// OpSetTime writes the caller's DateTime as the current time.
	OpSetTime

	// OpUpdateOn and OpUpdateOff acknowledge periodic update interrupt
	// requests without doing anything. The interrupt source is never
	// enabled on this chip, but clock tools expect the operations to
	// succeed.
	OpUpdateOn
	OpUpdateOff
)

// Clock adapts a Device to device-file read/write/control semantics. Clock
// is safe for concurrent use; the position state of Read is guarded
// separately from the chip lock inside the driver.
type Clock struct {
	dev *rtcchip.Device
	log zerolog.Logger

	mu       sync.Mutex
	consumed bool
}

func New(dev *rtcchip.Device, log zerolog.Logger) *Clock {
	return &Clock{
		dev: dev,
		log: log,
	}
}

// Read fills p with the current time formatted as "DD.MM.YYYY HH:MM:SS\n".
// If p is smaller than the formatted string the result is truncated to
// len(p) bytes and no error is reported. A second Read returns io.EOF and
// rearms, so the next call reads the clock again.
func (c *Clock) Read(p []byte) (int, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.consumed {
		c.consumed = false
		return 0, io.EOF
	}

	dt, err := c.dev.ReadDate()
	if err != nil {
		c.log.Error().Err(err).Msg("failed to read clock")
		return 0, err
	}

	formatted := dt.String() + "\n"

	n := len(formatted)
	if n > len(p) {
		c.log.Warn().Int("need", n).Int("have", len(p)).Msg("output truncated to buffer size")
		n = len(p)
	}

	copy(p, formatted[:n])
	c.consumed = true

	return n, nil
}

// Write parses p as "YYYY-MM-DD HH:MM:SS" and sets the clock. The delimiter
// positions are fixed: any deviation rejects the input before the chip is
// touched.
func (c *Clock) Write(p []byte) (int, error) {
	if len(p) > MaxInput {
		c.log.Error().Int("len", len(p)).Msg("input too long")
		return 0, ErrTooLong
	}

	dt, err := parseDate(p)
	if err != nil {
		c.log.Error().Err(err).Str("input", string(p)).Msg("malformed date string")
		return 0, err
	}

	if err := c.dev.WriteDate(dt); err != nil {
		c.log.Error().Err(err).Str("date", dt.String()).Msg("failed to set clock")
		return 0, err
	}

	return len(p), nil
}

// ReadTime returns the current time as a structured calendar value.
func (c *Clock) ReadTime() (rtcchip.DateTime, error) {
	dt, err := c.dev.ReadDate()
	if err != nil {
		c.log.Error().Err(err).Msg("failed to read clock")
	}
	return dt, err
}

// SetTime writes a structured calendar value as the current time.
func (c *Clock) SetTime(dt rtcchip.DateTime) error {
	err := c.dev.WriteDate(dt)
	if err != nil {
		c.log.Error().Err(err).Str("date", dt.String()).Msg("failed to set clock")
	}
	return err
}

// UpdateInterrupt acknowledges a periodic update interrupt enable or
// disable request. The request is accepted but has no effect.
func (c *Clock) UpdateInterrupt(enable bool) error {
	c.log.Info().Bool("enable", enable).Msg("update interrupt request acknowledged")
	return nil
}

// Control dispatches a structured operation. dt must be non-nil for
// OpReadTime (written) and OpSetTime (read); the other operations ignore it.
func (c *Clock) Control(op ControlOp, dt *rtcchip.DateTime) error {
	switch op {
	case OpReadTime:
		if dt == nil {
			return ErrNilValue
		}
		cur, err := c.ReadTime()
		if err != nil {
			return err
		}
		*dt = cur
		return nil

	case OpSetTime:
		if dt == nil {
			return ErrNilValue
		}
		return c.SetTime(*dt)

	case OpUpdateOn:
		return c.UpdateInterrupt(true)

	case OpUpdateOff:
		return c.UpdateInterrupt(false)

	default:
		c.log.Error().Uint("op", uint(op)).Msg("unknown control operation")
		return ErrUnknownOp
	}
}

// parseDate runs the fixed-field scan over "YYYY-MM-DD HH:MM:SS".
func parseDate(p []byte) (rtcchip.DateTime, error) {
	if len(p) < inputLen {
		return rtcchip.DateTime{}, ErrFormat
	}

	if !(p[4] == '-' && p[7] == '-' && p[10] == ' ' && p[13] == ':' && p[16] == ':') {
		return rtcchip.DateTime{}, ErrFormat
	}

	year, err := parseField(p[0:4])
	if err != nil {
		return rtcchip.DateTime{}, err
	}
	month, err := parseField(p[5:7])
	if err != nil {
		return rtcchip.DateTime{}, err
	}
	day, err := parseField(p[8:10])
	if err != nil {
		return rtcchip.DateTime{}, err
	}
	hour, err := parseField(p[11:13])
	if err != nil {
		return rtcchip.DateTime{}, err
	}
	min, err := parseField(p[14:16])
	if err != nil {
		return rtcchip.DateTime{}, err
	}
	sec, err := parseField(p[17:19])
	if err != nil {
		return rtcchip.DateTime{}, err
	}

	return rtcchip.DateTime{
		Seconds: sec,
		Minutes: min,
		Hours:   hour,
		Day:     day,
		Month:   month - 1,
		Year:    year - 1900,
	}, nil
}

func parseField(p []byte) (int, error) {
	v := 0
	for _, c := range p {
		if c < '0' || c > '9' {
			return 0, fmt.Errorf("%w: %q is not a number", ErrFormat, string(p))
		}
		v = v*10 + int(c-'0')
	}
	return v, nil
}
