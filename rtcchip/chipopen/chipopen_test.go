package chipopen

import (
	"errors"
	"strings"
	"testing"

	"periph.io/x/conn/v3"
)

type fakeConn struct {
	err error
}

func (c *fakeConn) String() string       { return "fake" }
func (c *fakeConn) Tx(w, r []byte) error { return c.err }
func (c *fakeConn) Duplex() conn.Duplex  { return conn.Half }

func TestPlatformTransferNACK(t *testing.T) {
	tests := []struct {
		name string
		err  error
	}{
		{"io error", errors.New("i2c-dev: remote I/O error: input/output error")},
		{"device gone", errors.New("i2c-dev: no such device or address")},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			transfer := platformTransfer(&fakeConn{err: tc.err})

			ack, err := transfer([]byte{0x00}, nil)
			if err != nil {
				t.Fatalf("NACK reported as error: %v", err)
			}
			if ack {
				t.Fatalf("NACK reported as ACK")
			}
		})
	}
}

func TestPlatformTransferError(t *testing.T) {
	busErr := errors.New("bus stuck")
	transfer := platformTransfer(&fakeConn{err: busErr})

	ack, err := transfer([]byte{0x00}, nil)
	if ack || err != busErr {
		t.Fatalf("got ack=%v err=%v, want bus error", ack, err)
	}
}

func TestPlatformTransferOK(t *testing.T) {
	transfer := platformTransfer(&fakeConn{})

	ack, err := transfer([]byte{0x00}, make([]byte, 1))
	if !ack || err != nil {
		t.Fatalf("got ack=%v err=%v", ack, err)
	}
}

func TestParseAddr(t *testing.T) {
	tests := []struct {
		name    string
		path    string
		want    uint
		wantErr bool
	}{
		{"absent", "platform:/dev/i2c-1", DefaultAddr, false},
		{"empty", "platform:/dev/i2c-1:", DefaultAddr, false},
		{"hex", "platform:/dev/i2c-1:0x69", 0x69, false},
		{"decimal", "platform:/dev/i2c-1:104", 104, false},
		{"garbage", "platform:/dev/i2c-1:zz", 0, true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			addr, err := parseAddr(strings.Split(tc.path, ":"), 2)
			if tc.wantErr {
				if err == nil {
					t.Fatalf("expected error")
				}
				return
			}
			if err != nil {
				t.Fatalf("parseAddr: %v", err)
			}
			if addr != tc.want {
				t.Fatalf("got 0x%02x, want 0x%02x", addr, tc.want)
			}
		})
	}
}

func TestOpenRejectsBadPath(t *testing.T) {
	if _, err := Open("serial:/dev/ttyUSB0", nil); err == nil {
		t.Fatalf("expected error for unsupported device type")
	}

	// the address is parsed before any hardware is touched
	if _, err := Open("platform:/dev/i2c-1:bogus", nil); err == nil {
		t.Fatalf("expected error for malformed address")
	}
}
