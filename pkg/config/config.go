package config

import (
	"fmt"
	"os"
	"time"

	"github.com/itohio/goxpt/pkg/xpt2046"
	"gopkg.in/yaml.v3"
)

// Config represents the application configuration.
type Config struct {
	Serial   SerialConfig   `yaml:"serial"`
	Screen   ScreenConfig   `yaml:"screen"`
	Mapping  MappingConfig  `yaml:"mapping"`
	Sampling SamplingConfig `yaml:"sampling"`
	Remote   RemoteConfig   `yaml:"remote"`
	Mock     MockConfig     `yaml:"mock"`
}

// SerialConfig contains serial port configuration of the SPI bridge.
type SerialConfig struct {
	Port     string        `yaml:"port"`
	BaudRate int           `yaml:"baud_rate"`
	Timeout  time.Duration `yaml:"timeout"` // per request/reply exchange
}

// ScreenConfig contains the display geometry in pixels.
type ScreenConfig struct {
	Width  int `yaml:"width"`
	Height int `yaml:"height"`
}

// MappingConfig contains the raw-to-screen transform, usually written by
// a calibration run.
type MappingConfig struct {
	XScale   float32 `yaml:"x_scale"`
	YScale   float32 `yaml:"y_scale"`
	XOffset  int     `yaml:"x_offset"`
	YOffset  int     `yaml:"y_offset"`
	Rotation int     `yaml:"rotation"`
}

// SamplingConfig contains acquisition parameters.
type SamplingConfig struct {
	SampleSize int           `yaml:"sample_size"` // raw pairs per pass
	Interval   time.Duration `yaml:"interval"`    // time between passes
}

// RemoteConfig contains the touch event WebSocket settings.
type RemoteConfig struct {
	Listen string `yaml:"listen"` // empty disables the server
	Path   string `yaml:"path"`
}

// MockConfig contains simulated panel configuration.
type MockConfig struct {
	NoiseLevel int `yaml:"noise_level"` // peak deviation in ADC units
	RawMin     int `yaml:"raw_min"`     // reading at the panel's low edge
	RawMax     int `yaml:"raw_max"`     // reading at the panel's high edge
}

// Default returns a default configuration with sensible values.
func Default() *Config {
	return &Config{
		Serial: SerialConfig{
			Port:     "/dev/ttyACM0",
			BaudRate: 115200,
			Timeout:  100 * time.Millisecond,
		},
		Screen: ScreenConfig{
			Width:  240,
			Height: 320,
		},
		Mapping: MappingConfig{
			XScale:   1,
			YScale:   1,
			XOffset:  0,
			YOffset:  0,
			Rotation: 0,
		},
		Sampling: SamplingConfig{
			SampleSize: xpt2046.DefaultSampleSize,
			Interval:   20 * time.Millisecond,
		},
		Remote: RemoteConfig{
			Listen: "",
			Path:   "/touch",
		},
		Mock: MockConfig{
			NoiseLevel: 15,
			RawMin:     200,
			RawMax:     3900,
		},
	}
}

// Load loads configuration from a YAML file. If the file doesn't exist or
// fields are missing, it uses default values.
func Load(filename string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(filename)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	cfg.ensureDefaults()

	return cfg, nil
}

// Save saves the configuration to a YAML file.
func (c *Config) Save(filename string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(filename, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// Device returns the driver construction parameters.
func (c *Config) Device() xpt2046.Config {
	return xpt2046.Config{
		Width:      c.Screen.Width,
		Height:     c.Screen.Height,
		Mapping:    c.Mapping.Mapping(),
		SampleSize: c.Sampling.SampleSize,
	}
}

// Mapping converts the stored transform.
func (m MappingConfig) Mapping() xpt2046.Mapping {
	return xpt2046.Mapping{
		XScale:  m.XScale,
		YScale:  m.YScale,
		XOffset: m.XOffset,
		YOffset: m.YOffset,
	}
}

// SetMapping stores a transform, e.g. the result of a calibration run.
func (m *MappingConfig) SetMapping(v xpt2046.Mapping) {
	m.XScale = v.XScale
	m.YScale = v.YScale
	m.XOffset = v.XOffset
	m.YOffset = v.YOffset
}

// ensureDefaults ensures that all required fields have default values if missing.
func (c *Config) ensureDefaults() {
	def := Default()

	if c.Serial.Port == "" {
		c.Serial.Port = def.Serial.Port
	}
	if c.Serial.BaudRate == 0 {
		c.Serial.BaudRate = def.Serial.BaudRate
	}
	if c.Serial.Timeout == 0 {
		c.Serial.Timeout = def.Serial.Timeout
	}

	if c.Screen.Width <= 0 {
		c.Screen.Width = def.Screen.Width
	}
	if c.Screen.Height <= 0 {
		c.Screen.Height = def.Screen.Height
	}

	// A partial or corrupt mapping is replaced as a whole.
	if !c.Mapping.Mapping().Valid() {
		rot := c.Mapping.Rotation
		c.Mapping = def.Mapping
		c.Mapping.Rotation = rot
	}
	c.Mapping.Rotation = ((c.Mapping.Rotation % 4) + 4) % 4

	if c.Sampling.SampleSize < 2 {
		c.Sampling.SampleSize = def.Sampling.SampleSize
	}
	if c.Sampling.Interval <= 0 {
		c.Sampling.Interval = def.Sampling.Interval
	}

	if c.Remote.Path == "" {
		c.Remote.Path = def.Remote.Path
	}

	if c.Mock.RawMax <= c.Mock.RawMin {
		c.Mock.RawMin = def.Mock.RawMin
		c.Mock.RawMax = def.Mock.RawMax
	}
}
