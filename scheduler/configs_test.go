package scheduler

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/calvinmclean/autolift/actuator"
)

func TestParseConfig(t *testing.T) {
	tests := []struct {
		name        string
		input       string
		expected    func() Config
		expectedErr string
	}{
		{
			"Empty",
			"",
			DefaultConfig,
			"",
		},
		{
			"Overrides",
			"door_wait: 3s\nbutton_debounce: 80ms\nhalf_step: true\ndoor_open_position: 180\n",
			func() Config {
				cfg := DefaultConfig()
				cfg.DoorWait = 3 * time.Second
				cfg.ButtonDebounce = 80 * time.Millisecond
				cfg.HalfStep = true
				cfg.DoorOpenPosition = 180
				return cfg
			},
			"",
		},
		{
			"SameDoorPositions",
			"door_closed_position: 50\ndoor_open_position: 50\n",
			nil,
			"invalid door positions: open and closed are both 50",
		},
		{
			"InvalidYAML",
			"door_wait: [",
			nil,
			"error parsing config",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := ParseConfig([]byte(tt.input))
			if tt.expectedErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.expectedErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected(), cfg)
		})
	}
}

func TestLoadConfig(t *testing.T) {
	t.Run("NoPath", func(t *testing.T) {
		cfg, err := LoadConfig("")
		require.NoError(t, err)
		assert.Equal(t, DefaultConfig(), cfg)
	})

	t.Run("MissingFile", func(t *testing.T) {
		_, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
		require.Error(t, err)
	})

	t.Run("File", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "autolift.yaml")
		require.NoError(t, os.WriteFile(path, []byte("move_timeout: 15s\nreverse_motor: true\n"), 0o600))

		cfg, err := LoadConfig(path)
		require.NoError(t, err)
		assert.Equal(t, 15*time.Second, cfg.MoveTimeout)
		assert.True(t, cfg.ReverseMotor)
		assert.Equal(t, actuator.StepModeFull, cfg.StepMode())
	})
}
