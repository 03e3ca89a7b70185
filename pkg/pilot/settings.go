package pilot

import (
	"encoding/json"
	"os"

	"github.com/jwiersma/telehand/pkg/filter"
)

const DefaultSettingsFile = "telehand.json"

// Settings is the on-disk configuration written by `telehand setup` and
// consumed by `telehand run`. Command-line flags override these values.
type Settings struct {
	SerialPort   string  `json:"serial_port"`
	EnableSerial bool    `json:"enable_serial"`
	Rate         int     `json:"serial_fps"`
	Alpha        float64 `json:"lpf_value"`
	Listen       string  `json:"listen,omitempty"`
}

// DefaultSettings returns the values used when no file or flags are set.
func DefaultSettings() Settings {
	return Settings{
		EnableSerial: false,
		Rate:         20,
		Alpha:        filter.DefaultAlpha,
		Listen:       "127.0.0.1:9901",
	}
}

// LoadSettings loads settings from the default file.
func LoadSettings() (*Settings, error) {
	return LoadSettingsFrom(DefaultSettingsFile)
}

// LoadSettingsFrom loads settings from a specific file.
func LoadSettingsFrom(path string) (*Settings, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	s := DefaultSettings()
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, err
	}
	return &s, nil
}

// Save writes settings to the default file.
func (s *Settings) Save() error {
	return s.SaveTo(DefaultSettingsFile)
}

// SaveTo writes settings to a specific file.
func (s *Settings) SaveTo(path string) error {
	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// SettingsExist reports whether the default settings file is present.
func SettingsExist() bool {
	_, err := os.Stat(DefaultSettingsFile)
	return err == nil
}
