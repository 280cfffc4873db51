package controller

import (
	"errors"
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"go.bug.st/serial/enumerator"
)

const (
	// SerialPortNone runs the controller in-process on the simulator instead of a board
	SerialPortNone = "none"

	defaultBaudRate    = "115200"
	defaultSessionName = "autolift"
)

var ErrNoUSBSerial = errors.New("no USB serial ports found")

// Config has the host-side settings. Every field has an environment variable
type Config struct {
	SerialPort  string
	BaudRate    string
	MetricsAddr string
	JournalAddr string
	SessionName string
	ConfigFile  string
	LogLevel    string
}

// ConfigFromEnv reads Config from the environment, loading a .env file first if there is one
func ConfigFromEnv() (Config, error) {
	err := godotenv.Load()
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return Config{}, fmt.Errorf("error loading .env file: %w", err)
	}

	cfg := Config{
		SerialPort:  os.Getenv("SERIAL_PORT"),
		BaudRate:    os.Getenv("BAUD_RATE"),
		MetricsAddr: os.Getenv("METRICS_ADDR"),
		JournalAddr: os.Getenv("JOURNAL_ADDR"),
		SessionName: os.Getenv("SESSION_NAME"),
		ConfigFile:  os.Getenv("CONFIG_FILE"),
		LogLevel:    os.Getenv("LOG_LEVEL"),
	}

	return cfg, nil
}

func (c *Config) setDefaults() error {
	if c.BaudRate == "" {
		c.BaudRate = defaultBaudRate
	}
	if c.SessionName == "" {
		c.SessionName = defaultSessionName
	}

	if c.SerialPort != "" {
		return nil
	}

	ports, err := GetSerialPorts()
	if err != nil {
		return fmt.Errorf("error finding serial port: %w", err)
	}
	c.SerialPort = ports[0]
	return nil
}

func (c Config) baudRate() (int, error) {
	baudRate, err := strconv.Atoi(c.BaudRate)
	if err != nil || baudRate <= 0 {
		return 0, fmt.Errorf("invalid baud rate %q", c.BaudRate)
	}
	return baudRate, nil
}

// GetSerialPorts lists the USB serial ports, which is where a board shows up
func GetSerialPorts() ([]string, error) {
	ports, err := enumerator.GetDetailedPortsList()
	if err != nil {
		return nil, fmt.Errorf("error listing serial ports: %w", err)
	}

	var result []string
	for _, port := range ports {
		if port.IsUSB {
			result = append(result, port.Name)
		}
	}

	if len(result) == 0 {
		return nil, ErrNoUSBSerial
	}

	return result, nil
}
