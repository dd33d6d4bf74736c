package rtcchip

type chipRegister int

// Register map of the DS3231. The seven time-keeping registers start at 0x00
// and are laid out so that a block read starting at regSeconds can be indexed
// directly with these constants.
const (
	regSeconds chipRegister = 0x00
	regMinutes chipRegister = 0x01
	regHours   chipRegister = 0x02
	regWeekday chipRegister = 0x03
	regDate    chipRegister = 0x04
	regMonth   chipRegister = 0x05
	regYear    chipRegister = 0x06

	regControl chipRegister = 0x0E
	regStatus  chipRegister = 0x0F
)

// Flag bits overlaid on the time-keeping registers.
const (
	bit12Hour  = 0x40 // hours: 12-hour mode selected
	bitPM      = 0x20 // hours: PM in 12-hour mode
	bitCentury = 0x80 // month: year counter rolled past 2099
)

// Control register bits.
const (
	bitEOSC  = 0x80 // oscillator disabled on battery
	bitINTCN = 0x04 // interrupt output instead of square wave
	bitA2IE  = 0x02 // alarm 2 interrupt enable
	bitA1IE  = 0x01 // alarm 1 interrupt enable
)

// Status register bits.
const (
	bitOSF = 0x80 // oscillator stop flag
)

// timeRegCount is the number of time-keeping registers in one image.
const timeRegCount = 7
