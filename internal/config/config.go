// Package config loads the application configuration from defaults, an
// optional TOML file and RASPORED_-prefixed environment variables, in that
// order of precedence.
package config

import (
	"fmt"
	"reflect"
	"strconv"
	"strings"

	"github.com/go-viper/mapstructure/v2"
	"github.com/knadh/koanf/parsers/toml/v2"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env/v2"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"github.com/raspored-app/raspored/internal/calgrid"
	"github.com/raspored-app/raspored/internal/constants"
)

// envPrefix is the prefix for environment overrides. Section and key are
// separated by a double underscore: RASPORED_SERVICE__PORT=9000.
const envPrefix = "RASPORED_"

// Weekday is a first-weekday setting, 0 = Monday through 6 = Sunday. The
// configuration also accepts weekday names ("monday" .. "sunday").
type Weekday int

var weekdayNames = map[string]Weekday{
	"monday":    0,
	"tuesday":   1,
	"wednesday": 2,
	"thursday":  3,
	"friday":    4,
	"saturday":  5,
	"sunday":    6,
}

// Config holds the application configuration
type Config struct {
	Calendar CalendarConfig `koanf:"calendar"`
	Service  ServiceConfig  `koanf:"service"`
	Export   ExportConfig   `koanf:"export"`
}

// CalendarConfig holds the calendar display settings
type CalendarConfig struct {
	FirstWeekday Weekday  `koanf:"first_weekday"`
	WeekLabels   []string `koanf:"week_labels"`
}

// ServiceConfig holds the service configuration
type ServiceConfig struct {
	Port      int    `koanf:"port"`
	StateFile string `koanf:"state_file"`
	LogLevel  string `koanf:"log_level"`
}

// ExportConfig holds the iCalendar export settings
type ExportConfig struct {
	CalendarName string `koanf:"calendar_name"`
}

// Build constructs the calgrid.Calendar described by the calendar section.
func (c CalendarConfig) Build() (calgrid.Calendar, error) {
	var labels [7]string
	copy(labels[:], c.WeekLabels)
	return calgrid.New(int(c.FirstWeekday), labels)
}

func defaults() map[string]interface{} {
	return map[string]interface{}{
		"calendar.first_weekday": 0,
		"calendar.week_labels":   constants.DefaultWeekLabels[:],
		"service.port":           8080,
		"service.state_file":     "data/raspored.db",
		"service.log_level":      "info",
		"export.calendar_name":   constants.AppIdentifier,
	}
}

// Load reads the configuration. path may be empty, in which case only
// defaults and environment variables apply; a named file must exist.
func Load(path string) (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(confmap.Provider(defaults(), "."), nil); err != nil {
		return nil, fmt.Errorf("failed to load default configuration: %w", err)
	}

	if path != "" {
		if err := k.Load(file.Provider(path), toml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load configuration file %s: %w", path, err)
		}
	}

	if err := k.Load(env.Provider(".", env.Opt{
		Prefix: envPrefix,
		TransformFunc: func(key, value string) (string, any) {
			key = strings.ToLower(strings.TrimPrefix(key, envPrefix))
			return strings.ReplaceAll(key, "__", "."), value
		},
	}), nil); err != nil {
		return nil, fmt.Errorf("failed to load environment overrides: %w", err)
	}

	var cfg Config
	err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{
		Tag: "koanf",
		DecoderConfig: &mapstructure.DecoderConfig{
			DecodeHook:       weekdayDecodeHook(),
			Result:           &cfg,
			WeaklyTypedInput: true,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}

	if err := validate(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// weekdayDecodeHook accepts weekday names or numbers for Weekday fields.
func weekdayDecodeHook() mapstructure.DecodeHookFuncType {
	weekdayType := reflect.TypeOf(Weekday(0))
	return func(from reflect.Type, to reflect.Type, data interface{}) (interface{}, error) {
		if to != weekdayType {
			return data, nil
		}

		switch v := data.(type) {
		case string:
			if day, ok := weekdayNames[strings.ToLower(v)]; ok {
				return day, nil
			}
			n, err := strconv.Atoi(v)
			if err != nil {
				return nil, fmt.Errorf("invalid first weekday %q", v)
			}
			return Weekday(n), nil
		case int:
			return Weekday(v), nil
		case int64:
			return Weekday(v), nil
		case float64:
			return Weekday(v), nil
		default:
			return data, nil
		}
	}
}

// validate checks if the configuration is valid
func validate(cfg *Config) error {
	if cfg.Calendar.FirstWeekday < 0 || cfg.Calendar.FirstWeekday > 6 {
		return fmt.Errorf("calendar.first_weekday must be in 0..6, got %d", cfg.Calendar.FirstWeekday)
	}

	if len(cfg.Calendar.WeekLabels) != 7 {
		return fmt.Errorf("calendar.week_labels must have exactly 7 entries, got %d", len(cfg.Calendar.WeekLabels))
	}

	if cfg.Service.Port < 1 || cfg.Service.Port > 65535 {
		return fmt.Errorf("service.port must be in 1..65535, got %d", cfg.Service.Port)
	}

	if cfg.Service.StateFile == "" {
		return fmt.Errorf("service.state_file is required")
	}

	return nil
}
