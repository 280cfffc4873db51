package scheduler

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/calvinmclean/autolift/actuator"
	"github.com/calvinmclean/autolift/button"
	"github.com/calvinmclean/autolift/dispatch"
	"github.com/calvinmclean/autolift/display"
	"github.com/calvinmclean/autolift/photo"
)

// DefaultTickInterval is the control loop period
const DefaultTickInterval = time.Millisecond

// Config has every tunable of the controller. Zero values use the component defaults
type Config struct {
	ButtonDebounce time.Duration `yaml:"button_debounce"`

	PhotoDebounce     time.Duration `yaml:"photo_debounce"`
	PhotoPollInterval time.Duration `yaml:"photo_poll_interval"`
	// PhotoBootGuard is negative to disable the guard
	PhotoBootGuard time.Duration `yaml:"photo_boot_guard"`

	DoorWait    time.Duration `yaml:"door_wait"`
	MoveTimeout time.Duration `yaml:"move_timeout"`

	StepPeriod   time.Duration `yaml:"step_period"`
	HalfStep     bool          `yaml:"half_step"`
	ReverseMotor bool          `yaml:"reverse_motor"`

	DoorStepPeriod     time.Duration `yaml:"door_step_period"`
	DoorClosedPosition int           `yaml:"door_closed_position"`
	DoorOpenPosition   int           `yaml:"door_open_position"`

	IndicatorPeriod time.Duration `yaml:"indicator_period"`
	TickInterval    time.Duration `yaml:"tick_interval"`
}

// DefaultConfig returns the Config with every default filled in
func DefaultConfig() Config {
	return Config{
		ButtonDebounce:     button.DefaultDebounce,
		PhotoDebounce:      photo.DefaultDebounce,
		PhotoPollInterval:  photo.DefaultPollInterval,
		PhotoBootGuard:     photo.DefaultBootGuard,
		DoorWait:           dispatch.DefaultDoorWait,
		MoveTimeout:        dispatch.DefaultMoveTimeout,
		StepPeriod:         2 * time.Millisecond,
		DoorStepPeriod:     20 * time.Millisecond,
		DoorClosedPosition: actuator.DefaultDoorClosed,
		DoorOpenPosition:   actuator.DefaultDoorOpen,
		IndicatorPeriod:    display.DefaultIndicatorPeriod,
		TickInterval:       DefaultTickInterval,
	}
}

// ParseConfig reads YAML on top of DefaultConfig
func ParseConfig(data []byte) (Config, error) {
	cfg := DefaultConfig()
	err := yaml.Unmarshal(data, &cfg)
	if err != nil {
		return Config{}, fmt.Errorf("error parsing config: %w", err)
	}

	err = cfg.Validate()
	if err != nil {
		return Config{}, err
	}

	return cfg, nil
}

// LoadConfig reads a YAML config file. An empty path returns DefaultConfig
func LoadConfig(path string) (Config, error) {
	if path == "" {
		return DefaultConfig(), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("error reading config file: %w", err)
	}

	return ParseConfig(data)
}

// Validate rejects values no component could run with
func (c Config) Validate() error {
	if c.DoorClosedPosition != 0 && c.DoorClosedPosition == c.DoorOpenPosition {
		return fmt.Errorf("invalid door positions: open and closed are both %d", c.DoorOpenPosition)
	}
	if c.TickInterval < 0 {
		return fmt.Errorf("invalid tick_interval: %s", c.TickInterval)
	}
	return nil
}

func (c Config) stepperConfig() actuator.StepperConfig {
	mode := actuator.StepModeFull
	if c.HalfStep {
		mode = actuator.StepModeHalf
	}
	return actuator.StepperConfig{
		StepMode:   mode,
		StepPeriod: c.StepPeriod,
		Reverse:    c.ReverseMotor,
	}
}

func (c Config) doorConfig() actuator.DoorConfig {
	return actuator.DoorConfig{
		ClosedPosition: c.DoorClosedPosition,
		OpenPosition:   c.DoorOpenPosition,
		StepPeriod:     c.DoorStepPeriod,
	}
}

func (c Config) photoConfig() photo.Config {
	return photo.Config{
		Debounce:     c.PhotoDebounce,
		PollInterval: c.PhotoPollInterval,
		BootGuard:    c.PhotoBootGuard,
	}
}

// StepMode returns the motor step mode, for backends that decode the coil phases
func (c Config) StepMode() actuator.StepMode {
	return c.stepperConfig().StepMode
}
