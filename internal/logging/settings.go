package logging

import (
	_ "embed"
	"fmt"
	"os"
	"strconv"

	"github.com/BurntSushi/toml"

	"github.com/redhatinsights/confkit/internal/conf"
)

// SettingsFile is the default location of the logger's own settings.
const SettingsFile = "config/logger.json"

//go:embed defaults.toml
var defaultSettings string

// Settings configures the shared log file. It is itself loaded through a
// conf.Store, so it has to be usable before any log file exists.
type Settings struct {
	LogsPath string
	LogLevel Level
	FileMode os.FileMode
}

// Schema describes Settings for a conf.Store.
func (s *Settings) Schema() *conf.Schema {
	return conf.MustSchema("logger", s.SetDefaults,
		conf.Field("LogsPath", &s.LogsPath),
		conf.Field("LogLevel", &s.LogLevel),
		conf.Field("FileMode", &s.FileMode, conf.Convert("octal")),
	)
}

// SetDefaults resets s to the embedded defaults.
func (s *Settings) SetDefaults() {
	dto, err := parseSettingsDTO(defaultSettings)
	if err != nil {
		panic(fmt.Sprintf("failed to parse embedded defaults: %v", err))
	}
	*s = Settings{}
	if err := s.Update(dto); err != nil {
		panic(fmt.Sprintf("invalid embedded defaults: %v", err))
	}
}

// DefaultSettings returns the embedded defaults.
func DefaultSettings() Settings {
	var s Settings
	s.SetDefaults()
	return s
}

type settingsDTO struct {
	LogsPath *string `toml:"logs-path"`
	LogLevel *string `toml:"log-level"`
	FileMode *string `toml:"file-mode"`
}

// Update applies non-nil values from a settingsDTO.
func (s *Settings) Update(dto settingsDTO) error {
	if dto.LogsPath != nil {
		s.LogsPath = *dto.LogsPath
	}
	if dto.LogLevel != nil {
		level, err := ParseLevel(*dto.LogLevel)
		if err != nil {
			return err
		}
		s.LogLevel = level
	}
	if dto.FileMode != nil {
		mode, err := strconv.ParseUint(*dto.FileMode, 8, 32)
		if err != nil {
			return fmt.Errorf("invalid file-mode %q: %w", *dto.FileMode, err)
		}
		s.FileMode = os.FileMode(mode).Perm()
	}
	return nil
}

func parseSettingsDTO(data string) (settingsDTO, error) {
	var dto settingsDTO

	if err := toml.Unmarshal([]byte(data), &dto); err != nil {
		return dto, fmt.Errorf("failed to parse TOML: %w", err)
	}

	return dto, nil
}
