package config

import (
	"github.com/wayneeseguin/arbor/pkg/appenders"
	"github.com/wayneeseguin/arbor/pkg/types"
)

const (
	// DefaultConfigurationName names the fallback configuration.
	DefaultConfigurationName = "Default"
	// DefaultAppenderName names the fallback console appender.
	DefaultAppenderName = "console"
)

// NewDefault builds the fallback configuration substituted whenever no
// declarative source exists or loading one fails: a single stderr
// console appender with the default pattern layout, referenced without
// restriction by a root logger at LevelError. It consults nothing
// outside its arguments, in particular no environment variables.
func NewDefault() *Configuration {
	cfg := NewConfiguration(DefaultConfigurationName)
	cfg.setSource("default")

	// The inputs are constants, so construction cannot fail.
	console, _ := appenders.NewConsole(appenders.ConsoleConfig{Name: DefaultAppenderName})
	_ = cfg.AddAppender(console)
	_ = cfg.Root().AddAppenderRef(console, types.LevelAll, nil)
	return cfg
}
