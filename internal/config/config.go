// Package config reads the emulator settings from the environment.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"

	"github.com/joho/godotenv"
	log "github.com/sirupsen/logrus"
)

// Config holds the emulator settings.
type Config struct {
	RegistryCapacity int
	Port             int
	Instance         int
	PIN              string
	PUK              string
	SerialPort       string
	SerialBaud       uint
	SerialMatch      string
	LogLevel         log.Level
	Reader           int
}

// Default returns the settings used when no variable is set.
func Default() Config {
	return Config{
		RegistryCapacity: 4,
		Port:             5554,
		SerialBaud:       115200,
		SerialMatch:      "modem",
		LogLevel:         log.InfoLevel,
	}
}

// Load reads an optional env file, then the SIM_* variables. Missing files
// are ignored; malformed values are errors.
func Load(envFile string) (Config, error) {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return Config{}, fmt.Errorf("load %s: %w", envFile, err)
		}
	}
	return FromEnv()
}

// FromEnv reads the SIM_* variables over Default.
func FromEnv() (Config, error) {
	c := Default()
	var err error

	if c.RegistryCapacity, err = intVar("SIM_REGISTRY_CAPACITY", c.RegistryCapacity); err != nil {
		return Config{}, err
	}
	if c.RegistryCapacity <= 0 {
		return Config{}, fmt.Errorf("SIM_REGISTRY_CAPACITY: must be positive, got %d", c.RegistryCapacity)
	}
	if c.Port, err = intVar("SIM_PORT", c.Port); err != nil {
		return Config{}, err
	}
	if c.Instance, err = intVar("SIM_INSTANCE", c.Instance); err != nil {
		return Config{}, err
	}
	if c.Instance < 0 || c.Instance >= c.RegistryCapacity {
		return Config{}, fmt.Errorf("SIM_INSTANCE: %d outside [0, %d)", c.Instance, c.RegistryCapacity)
	}
	if c.Reader, err = intVar("SIM_PCSC_READER", c.Reader); err != nil {
		return Config{}, err
	}

	baud, err := intVar("SIM_SERIAL_BAUD", int(c.SerialBaud))
	if err != nil {
		return Config{}, err
	}
	if baud <= 0 {
		return Config{}, fmt.Errorf("SIM_SERIAL_BAUD: must be positive, got %d", baud)
	}
	c.SerialBaud = uint(baud)

	if v, ok := os.LookupEnv("SIM_LOG_LEVEL"); ok && v != "" {
		if c.LogLevel, err = log.ParseLevel(v); err != nil {
			return Config{}, fmt.Errorf("SIM_LOG_LEVEL: %w", err)
		}
	}

	c.PIN = os.Getenv("SIM_PIN")
	c.PUK = os.Getenv("SIM_PUK")
	c.SerialPort = os.Getenv("SIM_SERIAL_PORT")
	if v := os.Getenv("SIM_SERIAL_MATCH"); v != "" {
		c.SerialMatch = v
	}

	return c, nil
}

func intVar(name string, def int) (int, error) {
	v, ok := os.LookupEnv(name)
	if !ok || v == "" {
		return def, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", name, err)
	}
	return n, nil
}
