// Package chipopen constructs rtcchip devices on top of a concrete I2C
// transport: either a platform bus exposed by the operating system or an
// MCP2221A USB-to-I2C bridge.
package chipopen

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	mcp2221a "github.com/ardnew/mcp2221a"
	"periph.io/x/conn/v3"
	"periph.io/x/conn/v3/i2c"
	"periph.io/x/conn/v3/i2c/i2creg"
	"periph.io/x/host/v3"

	"github.com/mkrtc/rtc3231/rtcchip"
)

// DefaultAddr is the fixed I2C address of the DS3231.
const DefaultAddr = 0x68

// OpenUSB attaches to a DS3231 behind an MCP2221A bridge. An empty serial
// selects the first bridge found.
func OpenUSB(serial string, addr uint, logFunc rtcchip.LogFunc) (*rtcchip.Device, error) {
	findDevice := func(serial string) (*mcp2221a.MCP2221A, error) {
		devices := mcp2221a.AttachedDevices(mcp2221a.VID, mcp2221a.PID)

		for i, m := range devices {
			if m.Serial == serial || serial == "" {
				return mcp2221a.New(byte(i), mcp2221a.VID, mcp2221a.PID)
			}
		}

		return nil, errors.New("no bridge device found")
	}

	dev, err := findDevice(serial)
	if err != nil {
		return nil, fmt.Errorf("failed to open USB bridge: %v", err)
	}

	transfer := func(tx []byte, rx []byte) (bool, error) {
		fixNack := func(err error) error {
			if strings.Contains(err.Error(), "NACK") {
				return nil
			}
			return err
		}

		if len(tx) > 0 {
			err := dev.I2C.Write(true, uint8(addr), tx, uint16(len(tx)))
			if err != nil {
				return false, fixNack(err)
			}
		}

		if len(rx) > 0 {
			rxData, err := dev.I2C.Read(false, uint8(addr), uint16(len(rx)))
			if err != nil {
				return false, fixNack(err)
			}

			copy(rx, rxData)
		}

		return true, nil
	}

	m, err := rtcchip.New(transfer, logFunc)
	if err != nil {
		dev.Close()
		return nil, fmt.Errorf("failed to initialize clock via USB: %v", err)
	}

	return m, nil
}

// OpenPlatform attaches to a DS3231 on a platform I2C bus ("1", "/dev/i2c-1",
// ...).
func OpenPlatform(busID string, addr uint, logFunc rtcchip.LogFunc) (*rtcchip.Device, error) {
	if _, err := host.Init(); err != nil {
		return nil, fmt.Errorf("could not init host: %v", err)
	}

	bus, err := i2creg.Open(busID)
	if err != nil {
		return nil, fmt.Errorf("could not open bus: %v", err)
	}

	dev := conn.Conn(&i2c.Dev{Bus: bus, Addr: uint16(addr)})

	m, err := rtcchip.New(platformTransfer(dev), logFunc)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize clock: %v", err)
	}

	return m, nil
}

// nackError reports whether err is the platform bus driver's way of saying
// the chip did not acknowledge. Those transfers are retried instead of
// aborted.
func nackError(err error) bool {
	return strings.Contains(err.Error(), "input/output") ||
		strings.Contains(err.Error(), "no such device")
}

// platformTransfer wraps a platform bus connection as a TransferFunc.
func platformTransfer(dev conn.Conn) rtcchip.TransferFunc {
	return func(tx []byte, rx []byte) (bool, error) {
		err := dev.Tx(tx, rx)

		if err != nil {
			if nackError(err) {
				err = nil
			}
			return false, err
		}

		return true, nil
	}
}

func getPart(parts []string, index int, def string) string {
	if index >= len(parts) || parts[index] == "" {
		return def
	}
	return parts[index]
}

// parseAddr reads the I2C address component of a device path, falling back
// to DefaultAddr when it is absent.
func parseAddr(parts []string, index int) (uint, error) {
	str := getPart(parts, index, "")
	if str == "" {
		return DefaultAddr, nil
	}

	addr, err := strconv.ParseUint(str, 0, 8)
	if err != nil {
		return 0, err
	}

	return uint(addr), nil
}

// Open attaches to a clock described by path. Supported forms are
// "platform:<bus>:<addr>" and "usb:<serial>:<addr>"; the bus defaults to
// /dev/i2c-1 and the address to DefaultAddr.
func Open(path string, logFunc rtcchip.LogFunc) (*rtcchip.Device, error) {
	parts := strings.Split(path, ":")

	if parts[0] == "usb" {
		serial := getPart(parts, 1, "")
		addr, err := parseAddr(parts, 2)
		if err != nil {
			return nil, err
		}
		return OpenUSB(serial, addr, logFunc)
	} else if parts[0] == "platform" {
		bus := getPart(parts, 1, "/dev/i2c-1")
		addr, err := parseAddr(parts, 2)
		if err != nil {
			return nil, err
		}
		return OpenPlatform(bus, addr, logFunc)
	}

	return nil, errors.New("device type not supported, use 'usb' or 'platform'")
}
