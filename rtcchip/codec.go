package rtcchip

// The time-keeping registers hold two-digit BCD values with mode and flag
// bits overlaid on the hour and month registers. Both converters below are
// pure transforms over a register image already fetched from the chip.

func bin2bcd(v uint8) uint8 {
	return v + 6*(v/10)
}

func bcd2bin(v uint8) uint8 {
	return v - 6*(v>>4)
}

// decodeRegs converts a raw register image to a DateTime. The hour is always
// returned in 24-hour form, also when the chip runs in 12-hour mode. The
// weekday register is not used.
func decodeRegs(regs [timeRegCount]byte) (DateTime, error) {
	if regs[regMonth]&bitCentury != 0 {
		return DateTime{}, ErrCenturyUnsupported
	}

	hour := regs[regHours]
	pm := 0
	if hour&bit12Hour != 0 {
		hour &^= bit12Hour
		if hour&bitPM != 0 {
			pm = 12
			hour &^= bitPM
		}
	}

	return DateTime{
		Seconds: int(bcd2bin(regs[regSeconds])),
		Minutes: int(bcd2bin(regs[regMinutes])),
		Hours:   int(bcd2bin(hour)) + pm,
		Day:     int(bcd2bin(regs[regDate])),
		Month:   int(bcd2bin(regs[regMonth])) - 1,
		Year:    int(bcd2bin(regs[regYear])) + 100,
	}, nil
}

// encodeRegs merges dt into the current register image. The image must be the
// one most recently read from the chip: the configured hour mode and all
// reserved bits are carried over unchanged, only the value bits owned by the
// codec are rewritten. Values are masked to their bit width before BCD
// packing so the overlaid flags cannot be corrupted.
func encodeRegs(regs [timeRegCount]byte, dt DateTime) [timeRegCount]byte {
	regs[regDate] = bin2bcd(uint8(dt.Day) & 0x3F)

	regs[regMonth] &^= 0x9F
	regs[regMonth] |= bin2bcd(uint8(dt.Month+1) & 0x1F)
	if dt.Year > 199 {
		regs[regMonth] |= bitCentury
	}
	regs[regYear] = bin2bcd(uint8(dt.Year % 100))

	hour := dt.Hours
	if regs[regHours]&bit12Hour != 0 {
		if hour >= 12 {
			regs[regHours] |= bitPM
			hour -= 12
		} else {
			regs[regHours] &^= bitPM
		}
		regs[regHours] &^= 0x1F
		regs[regHours] |= bin2bcd(uint8(hour) & 0x1F)
	} else {
		regs[regHours] &^= 0x3F
		regs[regHours] |= bin2bcd(uint8(hour) & 0x3F)
	}

	regs[regMinutes] = bin2bcd(uint8(dt.Minutes))
	regs[regSeconds] = bin2bcd(uint8(dt.Seconds))

	return regs
}
