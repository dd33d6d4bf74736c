// Package rtcchip implements a host-side driver for the Maxim DS3231
// battery-backed real-time clock. It converts between the chip's packed BCD
// register image and a normalized calendar value, validates candidate dates
// before they are written, and serializes all multi-register access through
// a per-device lock.
//
// Datasheet: https://www.analog.com/media/en/technical-documentation/data-sheets/DS3231.pdf
package rtcchip

import (
	"encoding/hex"
	"fmt"
	"sync"
	"time"
)

type LogFunc func(format string, params ...interface{})

// TransferFunc performs one I2C transaction against the chip: tx is written
// first (if non-empty), then rx is filled (if non-empty). The bool result
// reports whether the chip acknowledged the transfer.
type TransferFunc func(tx []byte, rx []byte) (bool, error)

// DateTime is a normalized calendar value. The hour is always in 24-hour
// form regardless of the hour mode configured on the chip.
type DateTime struct {
	Seconds int // 0-59
	Minutes int // 0-59
	Hours   int // 0-23
	Day     int // day of month, 1-31
	Month   int // 0-indexed, January = 0
	Year    int // years since 1900
}

// FromTime converts a time.Time to the driver's calendar representation.
func FromTime(t time.Time) DateTime {
	return DateTime{
		Seconds: t.Second(),
		Minutes: t.Minute(),
		Hours:   t.Hour(),
		Day:     t.Day(),
		Month:   int(t.Month()) - 1,
		Year:    t.Year() - 1900,
	}
}

// Time converts dt to a time.Time in UTC.
func (dt DateTime) Time() time.Time {
	return time.Date(dt.Year+1900, time.Month(dt.Month+1), dt.Day,
		dt.Hours, dt.Minutes, dt.Seconds, 0, time.UTC)
}

func (dt DateTime) String() string {
	return fmt.Sprintf("%02d.%02d.%04d %02d:%02d:%02d",
		dt.Day, dt.Month+1, dt.Year+1900, dt.Hours, dt.Minutes, dt.Seconds)
}

// Device drives a single DS3231. All multi-register sequences hold busMutex
// so that concurrent callers never interleave within a register image; the
// chip has no multi-register latch at this level, so without the lock a
// reader could see a torn image across a rollover boundary.
type Device struct {
	transfer TransferFunc

	busMutex sync.Mutex

	logFunc LogFunc
}

func (d *Device) log(format string, params ...interface{}) {
	if d.logFunc != nil {
		d.logFunc(" * "+format, params...)
	}
}

// New prepares the chip for timekeeping and returns a ready Device. The
// bring-up sequence runs once: the oscillator is enabled if it was disabled,
// the interrupt and alarm enables are cleared, and a pending oscillator stop
// flag is reset.
func New(transfer TransferFunc, logFunc LogFunc) (*Device, error) {
	d := &Device{
		transfer: transfer,
		logFunc:  logFunc,
	}

	if err := d.setup(); err != nil {
		return nil, err
	}

	return d, nil
}

func (d *Device) setup() error {
	var ctrl, status [1]byte

	if err := d.regRead(regControl, ctrl[:]); err != nil {
		return err
	}
	if err := d.regRead(regStatus, status[:]); err != nil {
		return err
	}

	d.log("Control: 0x%02X, Status: 0x%02X", ctrl[0], status[0])

	if ctrl[0]&bitEOSC != 0 {
		d.log("Enabling oscillator")
		ctrl[0] &^= bitEOSC
	}

	// run as a plain clock, no interrupt or alarm output
	ctrl[0] &^= bitINTCN | bitA2IE | bitA1IE

	if err := d.regWrite(regControl, ctrl[:]); err != nil {
		return err
	}

	if status[0]&bitOSF != 0 {
		status[0] &^= bitOSF
		if err := d.regWrite(regStatus, status[:]); err != nil {
			return err
		}
		d.log("Cleared oscillator stop flag")
	}

	return nil
}

func (d *Device) transferRetry(tx []byte, rx []byte) error {
	timeout := time.Now().Add(time.Second)

	for time.Now().Before(timeout) {
		ack, err := d.transfer(tx, rx)

		if err != nil {
			return err
		}

		if ack {
			return nil
		}
	}

	return ErrNoAck
}

// regRead fetches len(buf) consecutive registers starting at addr, one
// register per transaction.
func (d *Device) regRead(addr chipRegister, buf []byte) error {
	for i := range buf {
		tx := [1]byte{byte(int(addr) + i)}

		if err := d.transferRetry(tx[:], buf[i:i+1]); err != nil {
			return fmt.Errorf("register 0x%02x: %w", int(addr)+i, err)
		}
	}

	d.log("Read    0x%02x: %s", addr, hex.EncodeToString(buf))

	return nil
}

// regWrite stores len(buf) consecutive registers starting at addr, one
// register per transaction.
func (d *Device) regWrite(addr chipRegister, buf []byte) error {
	d.log("Writing 0x%02x: %s", addr, hex.EncodeToString(buf))

	for i := range buf {
		tx := [2]byte{byte(int(addr) + i), buf[i]}

		if err := d.transferRetry(tx[:], nil); err != nil {
			return fmt.Errorf("register 0x%02x: %w", int(addr)+i, err)
		}
	}

	return nil
}

// ReadDate returns the current date and time held by the chip, normalized to
// 24-hour form.
func (d *Device) ReadDate() (DateTime, error) {
	var regs [timeRegCount]byte

	d.busMutex.Lock()
	err := d.regRead(regSeconds, regs[:])
	d.busMutex.Unlock()
	if err != nil {
		return DateTime{}, err
	}

	dt, err := decodeRegs(regs)
	if err != nil {
		d.log("Decode failed: %v", err)
		return DateTime{}, err
	}

	return dt, nil
}

// WriteDate validates dt and stores it on the chip. The current register
// image is fetched first so the configured hour mode and reserved bits are
// preserved; the whole read-modify-write cycle runs under one lock so no
// other caller can change the hour mode in between.
func (d *Device) WriteDate(dt DateTime) error {
	if err := Validate(dt); err != nil {
		d.log("Rejecting date %s: %v", dt, err)
		return err
	}

	var regs [timeRegCount]byte

	d.busMutex.Lock()
	defer d.busMutex.Unlock()

	if err := d.regRead(regSeconds, regs[:]); err != nil {
		return err
	}

	regs = encodeRegs(regs, dt)

	return d.regWrite(regSeconds, regs[:])
}

// Now is a convenience wrapper around ReadDate for callers that work with
// time.Time.
func (d *Device) Now() (time.Time, error) {
	dt, err := d.ReadDate()
	if err != nil {
		return time.Time{}, err
	}
	return dt.Time(), nil
}

// Set is a convenience wrapper around WriteDate.
func (d *Device) Set(t time.Time) error {
	return d.WriteDate(FromTime(t))
}

// Status returns the raw control and status registers.
func (d *Device) Status() (control byte, status byte, err error) {
	var buf [2]byte

	d.busMutex.Lock()
	err = d.regRead(regControl, buf[:])
	d.busMutex.Unlock()
	if err != nil {
		return 0, 0, err
	}

	return buf[0], buf[1], nil
}

// LostPower reports whether the oscillator stopped since the flag was last
// cleared, which usually means the backup battery ran out and the stored
// time is stale.
func (d *Device) LostPower() (bool, error) {
	_, status, err := d.Status()
	if err != nil {
		return false, err
	}
	return status&bitOSF != 0, nil
}
