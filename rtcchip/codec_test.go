package rtcchip

import (
	"errors"
	"testing"
)

func TestDecodeRegs24Hour(t *testing.T) {
	regs := [timeRegCount]byte{0x00, 0x30, 0x10, 0x02, 0x15, 0x01, 0x24}

	dt, err := decodeRegs(regs)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}

	want := DateTime{Seconds: 0, Minutes: 30, Hours: 10, Day: 15, Month: 0, Year: 124}
	if dt != want {
		t.Fatalf("got %+v, want %+v", dt, want)
	}
}

func TestDecodeRegs12Hour(t *testing.T) {
	tests := []struct {
		name    string
		hourReg byte
		want    int
	}{
		{"12h 9 AM", 0x40 | 0x09, 9},
		{"12h 11 PM", 0x40 | 0x20 | 0x11, 23},
		{"12h noon", 0x40 | 0x20 | 0x00, 12}, // noon is stored as 0 with PM set
		{"24h 23", 0x23, 23},
		{"24h 0", 0x00, 0},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			regs := [timeRegCount]byte{0x09, 0x45, tc.hourReg, 0x01, 0x01, 0x01, 0x24}

			dt, err := decodeRegs(regs)
			if err != nil {
				t.Fatalf("decode: %v", err)
			}
			if dt.Hours != tc.want {
				t.Fatalf("hours: got %d, want %d", dt.Hours, tc.want)
			}
		})
	}
}

func TestDecodeRegsCenturyBit(t *testing.T) {
	regs := [timeRegCount]byte{0x00, 0x00, 0x00, 0x01, 0x01, 0x01 | bitCentury, 0x00}

	dt, err := decodeRegs(regs)
	if !errors.Is(err, ErrCenturyUnsupported) {
		t.Fatalf("expected ErrCenturyUnsupported, got %v", err)
	}
	if dt != (DateTime{}) {
		t.Fatalf("expected zero value on decode failure, got %+v", dt)
	}
}

func TestEncodeRegsPreservesHourMode(t *testing.T) {
	existing := [timeRegCount]byte{}
	existing[regHours] = bit12Hour | 0x09 // chip configured for 12-hour mode

	dt := DateTime{Seconds: 1, Minutes: 2, Hours: 15, Day: 3, Month: 4, Year: 124}
	regs := encodeRegs(existing, dt)

	if regs[regHours]&bit12Hour == 0 {
		t.Fatalf("12-hour mode bit lost: 0x%02x", regs[regHours])
	}
	if regs[regHours]&bitPM == 0 {
		t.Fatalf("PM bit not set for hour 15: 0x%02x", regs[regHours])
	}
	if got := bcd2bin(regs[regHours] & 0x1F); got != 3 {
		t.Fatalf("12-hour value: got %d, want 3", got)
	}
}

func TestEncodeRegsPreservesReservedMonthBits(t *testing.T) {
	existing := [timeRegCount]byte{}
	existing[regMonth] = 0x60 // reserved bits must survive the merge

	regs := encodeRegs(existing, DateTime{Day: 1, Month: 9, Year: 124})

	if regs[regMonth]&0x60 != 0x60 {
		t.Fatalf("reserved month bits lost: 0x%02x", regs[regMonth])
	}
	if got := bcd2bin(regs[regMonth] & 0x1F); got != 10 {
		t.Fatalf("month: got %d, want 10", got)
	}
}

func TestEncodeRegsCenturyBit(t *testing.T) {
	regs := encodeRegs([timeRegCount]byte{}, DateTime{Day: 1, Month: 0, Year: 205})

	if regs[regMonth]&bitCentury == 0 {
		t.Fatalf("century bit not set for year %d", 205)
	}
	if got := bcd2bin(regs[regYear]); got != 5 {
		t.Fatalf("year register: got %d, want 5", got)
	}
}

func TestCodecRoundTrip(t *testing.T) {
	dates := []DateTime{
		{Seconds: 0, Minutes: 0, Hours: 0, Day: 1, Month: 0, Year: 100},
		{Seconds: 59, Minutes: 59, Hours: 23, Day: 31, Month: 11, Year: 199},
		{Seconds: 0, Minutes: 30, Hours: 10, Day: 15, Month: 0, Year: 124},
		{Seconds: 1, Minutes: 2, Hours: 12, Day: 29, Month: 1, Year: 100},
		{Seconds: 30, Minutes: 45, Hours: 11, Day: 28, Month: 1, Year: 123},
	}

	modes := []struct {
		name    string
		hourReg byte
	}{
		{"24h", 0x00},
		{"12h", bit12Hour},
	}

	for _, mode := range modes {
		for _, want := range dates {
			var existing [timeRegCount]byte
			existing[regHours] = mode.hourReg

			got, err := decodeRegs(encodeRegs(existing, want))
			if err != nil {
				t.Fatalf("%s %s: decode: %v", mode.name, want, err)
			}
			if got != want {
				t.Fatalf("%s: round trip got %+v, want %+v", mode.name, got, want)
			}
		}
	}
}

func TestBCDHelpers(t *testing.T) {
	for v := uint8(0); v < 100; v++ {
		bcd := bin2bcd(v)
		if bcd>>4 != v/10 || bcd&0x0F != v%10 {
			t.Fatalf("bin2bcd(%d) = 0x%02x", v, bcd)
		}
		if got := bcd2bin(bcd); got != v {
			t.Fatalf("bcd2bin(bin2bcd(%d)) = %d", v, got)
		}
	}
}
