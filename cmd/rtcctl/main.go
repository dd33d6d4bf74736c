// Command rtcctl reads and sets a DS3231 real-time clock from the command
// line.
//
//	rtcctl get                          print the current time
//	rtcctl set "YYYY-MM-DD HH:MM:SS"    set the clock
//	rtcctl status                       show control/status registers
package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/rs/zerolog"

	"github.com/mkrtc/rtc3231/rtcchip"
	"github.com/mkrtc/rtc3231/rtcchip/chipopen"
	"github.com/mkrtc/rtc3231/rtcdev"
)

func main() {
	configPath := flag.String("config", "", "Path to a TOML configuration file")
	device := flag.String("device", "", "Device path (platform:<bus>:<addr> or usb:<serial>:<addr>)")
	verbose := flag.Bool("verbose", false, "Enable register-level logging")

	flag.Parse()

	cfg := defaultConfig()
	if *configPath != "" {
		var err error
		cfg, err = loadConfig(*configPath)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
	}
	if *device != "" {
		cfg.Device = *device
	}
	if *verbose {
		cfg.LogLevel = zerolog.DebugLevel
	}

	output := zerolog.ConsoleWriter{
		Out:        os.Stderr,
		TimeFormat: time.RFC3339,
	}
	logger := zerolog.New(output).Level(cfg.LogLevel).With().Timestamp().Str("app", "rtcctl").Logger()

	var logOut rtcchip.LogFunc
	if cfg.LogLevel <= zerolog.DebugLevel {
		logOut = func(format string, params ...interface{}) {
			logger.Debug().Msgf(format, params...)
		}
	}

	dev, err := chipopen.Open(cfg.Device, logOut)
	if err != nil {
		logger.Fatal().Err(err).Str("device", cfg.Device).Msg("failed to open clock")
	}

	clock := rtcdev.New(dev, logger)

	if err := run(clock, dev, flag.Args()); err != nil {
		logger.Fatal().Err(err).Msg("command failed")
	}
}

func run(clock *rtcdev.Clock, dev *rtcchip.Device, args []string) error {
	cmd := "get"
	if len(args) > 0 {
		cmd = args[0]
	}

	switch cmd {
	case "get":
		dt, err := clock.ReadTime()
		if err != nil {
			return err
		}
		fmt.Println(dt)
		return nil

	case "set":
		if len(args) < 2 {
			return fmt.Errorf("usage: rtcctl set \"YYYY-MM-DD HH:MM:SS\"")
		}
		_, err := clock.Write([]byte(args[1]))
		return err

	case "status":
		control, status, err := dev.Status()
		if err != nil {
			return err
		}
		lost, err := dev.LostPower()
		if err != nil {
			return err
		}
		fmt.Printf("Control: 0x%02X Status: 0x%02X LostPower: %v\n", control, status, lost)
		return nil

	default:
		return fmt.Errorf("unknown command %q, use 'get', 'set' or 'status'", cmd)
	}
}
