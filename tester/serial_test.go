package main_test

import (
	"os"
	"strings"
	"testing"
	"time"

	"go.bug.st/serial"
)

// portEnv names the board's serial port. The tests are skipped without it
const portEnv = "AUTOLIFT_TEST_PORT"

func sendSerial(t *testing.T, in string, expectedLen int) string {
	t.Helper()

	portName := os.Getenv(portEnv)
	if portName == "" {
		t.Skipf("%s is not set", portEnv)
	}

	mode := &serial.Mode{
		BaudRate: 115200,
	}

	port, err := serial.Open(portName, mode)
	if err != nil {
		t.Errorf("unexpected error opening serial connection: %v", err)
		return ""
	}
	defer port.Close()

	_, err = port.Write([]byte(in))
	if err != nil {
		t.Errorf("unexpected error writing serial: %v", err)
		return ""
	}
	time.Sleep(100 * time.Millisecond)

	buf := make([]byte, expectedLen)
	total := 0
	err = port.SetReadTimeout(1 * time.Second)
	if err != nil {
		t.Errorf("unexpected error setting read timeout: %v", err)
		return ""
	}
	deadline := time.Now().Add(1 * time.Second)
	for total < expectedLen && time.Now().Before(deadline) {
		n, err := port.Read(buf[total:])
		if err != nil {
			t.Errorf("unexpected error reading serial: %v", err)
			return ""
		}
		total += n
	}
	return string(buf[:total])
}

// TestSerial runs against a board parked at floor 1 with nothing pending
func TestSerial(t *testing.T) {
	tests := []struct {
		name     string
		in       string
		expected string
	}{
		{
			"InvalidCall",
			"CALL 4\n",
			"ERR: CALL 1|2|3\n",
		},
		{
			"UnknownCommand",
			"LIFT\n",
			"ERR: UNKNOWN CMD (HELP)\n",
		},
		{
			"Status",
			"status\n",
			`RAW=100 FLOOR=1
FLOOR=1
STATE=IDLE
DOOR=CLOSE
QUEUE=[ ]
`,
		},
		{
			"Resume",
			"RESUME\n",
			"RESUME OK\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			expected := strings.ReplaceAll(tt.expected, "\n", "\r\n")
			out := sendSerial(t, tt.in, len(expected))
			clean := strings.Trim(out, "\x00")
			if clean != expected {
				t.Errorf("expected=%q, got=%q", expected, clean)
			}
		})
	}
}
