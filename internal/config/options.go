package config

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// Options holds the resolved runtime configuration.
// Precedence is flags, then CONTACT_SYNC_* environment variables, then the config file.
type Options struct {
	Device     string        `mapstructure:"device"`
	DeviceUser string        `mapstructure:"device-user"`
	Source     string        `mapstructure:"source"`
	LocalPath  string        `mapstructure:"local-path"`
	WebURL     string        `mapstructure:"web-url"`
	WebUser    string        `mapstructure:"web-user"`
	WebPass    string        `mapstructure:"web-pass"`
	MySQLDSN   string        `mapstructure:"mysql-dsn"`
	ChunkSize  int           `mapstructure:"chunk-size"`
	Debug      bool          `mapstructure:"debug"`
	Dump       bool          `mapstructure:"dump"`
	Lang       string        `mapstructure:"lang"`
	WipeDelay  time.Duration `mapstructure:"wipe-delay"`
}

// DefaultOptions returns the built-in defaults.
func DefaultOptions() Options {
	return Options{
		Device:    DefaultDevice,
		Source:    SourceModeLocal,
		ChunkSize: DefaultChunkSize,
		Lang:      DefaultLanguage,
		WipeDelay: DefaultWipeDelay,
	}
}

// Load resolves Options from the optional config file, the environment and the given flag set.
// Only flags that exist in the set are bound.
func Load(configFile string, flags *pflag.FlagSet) (Options, error) {
	v := viper.New()

	defaults := DefaultOptions()
	v.SetDefault(FlagDevice, defaults.Device)
	v.SetDefault(FlagSource, defaults.Source)
	v.SetDefault(FlagChunkSize, defaults.ChunkSize)
	v.SetDefault(FlagLang, defaults.Lang)
	v.SetDefault(FlagWipeDelay, defaults.WipeDelay)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	if flags != nil {
		if err := v.BindPFlags(flags); err != nil {
			return Options{}, err
		}
	}

	if configFile != "" {
		v.SetConfigFile(configFile)
		if err := v.ReadInConfig(); err != nil {
			return Options{}, fmt.Errorf("%s: %w", ErrConfigRead, err)
		}
		slog.Debug(MsgConfigLoaded, LogKeyComponent, CompCLI, LogKeyFile, v.ConfigFileUsed())
	}

	var opts Options
	if err := v.Unmarshal(&opts); err != nil {
		return Options{}, fmt.Errorf("%s: %w", ErrConfigRead, err)
	}
	return opts, nil
}

// Validate checks the fields the selected source and device require.
func (o Options) Validate() error {
	if o.Device == "" {
		return errors.New(ErrDeviceEmpty)
	}
	switch o.Source {
	case SourceModeLocal:
		if o.LocalPath == "" {
			return errors.New(ErrLocalPathEmpty)
		}
	case SourceModeWeb:
		if o.WebURL == "" {
			return errors.New(ErrWebURLEmpty)
		}
	case SourceModeSQL:
		if o.MySQLDSN == "" {
			return errors.New(ErrDSNEmpty)
		}
	default:
		return fmt.Errorf("%s: %q", ErrModeUnsupport, o.Source)
	}
	return nil
}

// IsSupportedLanguage reports whether lang has an embedded translation.
func IsSupportedLanguage(lang string) bool {
	for _, l := range SupportedLanguages {
		if l == lang {
			return true
		}
	}
	return false
}
