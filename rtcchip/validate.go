package rtcchip

// Validate checks that dt describes a date the chip can store and a day that
// exists in the calendar. The first failing field is reported, nothing is
// written to the chip.
func Validate(dt DateTime) error {
	if dt.Seconds < 0 || dt.Seconds > 59 {
		return &FieldError{Field: "seconds", Value: dt.Seconds, Min: 0, Max: 59}
	}
	if dt.Minutes < 0 || dt.Minutes > 59 {
		return &FieldError{Field: "minutes", Value: dt.Minutes, Min: 0, Max: 59}
	}
	if dt.Hours < 0 || dt.Hours > 23 {
		return &FieldError{Field: "hours", Value: dt.Hours, Min: 0, Max: 23}
	}
	if dt.Year < 100 || dt.Year > 299 {
		return &FieldError{Field: "year", Value: dt.Year, Min: 100, Max: 299}
	}

	maxDay := 0
	switch dt.Month {
	case 0, 2, 4, 6, 7, 9, 11:
		maxDay = 31
	case 3, 5, 8, 10:
		maxDay = 30
	case 1:
		if isLeapYear(dt.Year + 1900) {
			maxDay = 29
		} else {
			maxDay = 28
		}
	default:
		return &MonthError{Month: dt.Month}
	}

	if dt.Day < 1 || dt.Day > maxDay {
		return &FieldError{Field: "day", Value: dt.Day, Min: 1, Max: maxDay}
	}

	return nil
}

func isLeapYear(year int) bool {
	return (year%4 == 0 && year%100 != 0) || year%400 == 0
}
