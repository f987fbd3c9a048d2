// Package config loads ambient, optional defaults that a host
// application (such as cmd/pvadapterctl) passes to a manager pair and
// its PVs; the pvadapter packages themselves never read it. None of this
// is part of the core's required surface — every value it supplies can
// be overridden per call site.
package config

import (
	"strings"
	"time"

	"github.com/mitchellh/mapstructure"
	"github.com/spf13/viper"
)

// ChannelDefaults are the process-wide fallbacks for channel
// construction options left up to the implementer to default.
type ChannelDefaults struct {
	// NumberOfBuffers is the default buffer count a caller passes to
	// CreateProcessScalar/CreateProcessArray, which take it as a
	// mandatory argument. Scalars clamp it up to 1, arrays up to 2,
	// regardless of what's configured here.
	NumberOfBuffers int `mapstructure:"number_of_buffers"`

	// DebugLogging toggles the default logger's debug level.
	DebugLogging bool `mapstructure:"debug_logging"`

	// NotificationDrainInterval is the check interval a caller passes to
	// a notification drain loop (cmd/pvadapterctl passes it to
	// WaitForNotificationsUntilCanceled); exposed here so a deployment
	// can tune it without recompiling the harness.
	NotificationDrainInterval time.Duration `mapstructure:"notification_drain_interval"`
}

// defaults returns the hard-coded fallback used when no environment
// variable, file, or override supplies a value.
func defaults() ChannelDefaults {
	return ChannelDefaults{
		NumberOfBuffers:           2,
		DebugLogging:              false,
		NotificationDrainInterval: 5 * time.Millisecond,
	}
}

// Load builds a ChannelDefaults from, in increasing priority: the
// hard-coded defaults, an optional config file (if configFile is
// non-empty), and PVADAPTER_*-prefixed environment variables.
func Load(configFile string) (ChannelDefaults, error) {
	v := viper.New()
	v.SetEnvPrefix("PVADAPTER")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	base := defaults()
	v.SetDefault("number_of_buffers", base.NumberOfBuffers)
	v.SetDefault("debug_logging", base.DebugLogging)
	v.SetDefault("notification_drain_interval", base.NotificationDrainInterval)

	if configFile != "" {
		v.SetConfigFile(configFile)
		if err := v.ReadInConfig(); err != nil {
			return ChannelDefaults{}, err
		}
	}

	var out ChannelDefaults
	decodeHook := mapstructure.ComposeDecodeHookFunc(
		mapstructure.StringToTimeDurationHookFunc(),
	)
	if err := v.Unmarshal(&out, viper.DecodeHook(decodeHook)); err != nil {
		return ChannelDefaults{}, err
	}
	return out, nil
}
