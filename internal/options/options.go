// Package options resolves runtime options from defaults, GTHEME_*
// environment variables, the user's environment and command-line flags.
package options

import (
	"os"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/gtheme/gtheme/internal/paths"
)

const (
	KeyHome     = "home"
	KeyLogLevel = "log-level"
	KeyEditor   = "editor"
	KeyExplorer = "file-explorer"
	KeyDesktop  = "desktop"

	// DefaultEditor is used when neither GTHEME_EDITOR nor EDITOR is set.
	DefaultEditor = "nano"
	// DefaultExplorer is used when neither GTHEME_FILE_EXPLORER nor
	// FILE_EXPLORER is set.
	DefaultExplorer = "ranger"

	envPrefix = "GTHEME"
)

// Options is a resolved view over the runtime options.
type Options struct {
	v *viper.Viper
}

// New builds options with precedence defaults < environment < flags. Flags
// that were not changed on the command line do not override the environment.
func New(flags *pflag.FlagSet) *Options {
	v := viper.New()
	setDefaults(v)
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	if flags != nil {
		for _, key := range []string{KeyHome, KeyLogLevel, KeyDesktop} {
			if f := flags.Lookup(key); f != nil {
				_ = v.BindPFlag(key, f)
			}
		}
	}
	return &Options{v: v}
}

func setDefaults(v *viper.Viper) {
	v.SetDefault(KeyHome, "")
	v.SetDefault(KeyLogLevel, "info")
	v.SetDefault(KeyEditor, envOr("EDITOR", DefaultEditor))
	v.SetDefault(KeyExplorer, envOr("FILE_EXPLORER", DefaultExplorer))
	v.SetDefault(KeyDesktop, "")
}

func envOr(key, fallback string) string {
	if val := strings.TrimSpace(os.Getenv(key)); val != "" {
		return val
	}
	return fallback
}

// Home returns the expanded gtheme root directory.
func (o *Options) Home() string {
	home := strings.TrimSpace(o.v.GetString(KeyHome))
	if home == "" {
		home = paths.DefaultRoot
	}
	return paths.Expand(home)
}

// Layout returns the layout of Home.
func (o *Options) Layout() paths.Layout {
	return paths.NewLayout(o.Home())
}

// LogLevel returns the configured log level name.
func (o *Options) LogLevel() string {
	return o.v.GetString(KeyLogLevel)
}

// Editor returns the command used to edit files.
func (o *Options) Editor() string {
	return o.v.GetString(KeyEditor)
}

// Explorer returns the command used to browse directories.
func (o *Options) Explorer() string {
	return o.v.GetString(KeyExplorer)
}

// Desktop returns the desktop selected with --desktop, if any.
func (o *Options) Desktop() string {
	return strings.TrimSpace(o.v.GetString(KeyDesktop))
}

// Set overrides a key for the rest of the process.
func (o *Options) Set(key string, value any) {
	o.v.Set(key, value)
}
