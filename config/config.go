// Package config is for app wide settings that are unmarshalled
// from Viper (see: /cmd)
package config

import (
	"log"
	"os"
	"path/filepath"

	"github.com/pkg/errors"
	"github.com/spf13/viper"
)

// SettingsFile is the settings file looked up when --settings is not given
const SettingsFile = "settings.json"

// PhysX are the relaxation settings, named as in the settings file
type PhysX struct {
	// density of the helix bodies
	Density float64 `mapstructure:"density"`

	// stiffness of the springs between connected strand ends
	SpringStiffness float64 `mapstructure:"spring_stiffness"`

	// stiffness of the springs holding helices at their initial position
	FixedSpringStiffness float64 `mapstructure:"fixed_spring_stiffness"`

	// damping of every spring
	SpringDamping float64 `mapstructure:"spring_damping"`

	StaticFriction  float64 `mapstructure:"static_friction"`
	DynamicFriction float64 `mapstructure:"dynamic_friction"`
	Restitution     float64 `mapstructure:"restitution"`

	// kinetic energy per mass below which a helix is at rest
	SleepThreshold float64 `mapstructure:"rigid_body_sleep_threshold"`

	// round helix lengths to half turns
	DiscretizeLengths bool `mapstructure:"discretize_lengths"`

	// pin helices to their initial position with a spring
	AttachFixed bool `mapstructure:"attach_fixed"`

	VisualDebugger bool `mapstructure:"visual_debugger"`

	// maximum number of settle rounds of the gradient descent
	Iterations int `mapstructure:"iterations"`

	// relaxation time limit in seconds, none when zero
	Timeout int `mapstructure:"timeout"`
}

// Config is the root-level settings struct and is a mix
// of settings available in settings.json and those
// available from the command line
type Config struct {
	// relaxation settings
	PhysX PhysX `mapstructure:"physX"`

	// scaling of the mesh before relaxing, from --scaling
	Scaling float64 `mapstructure:"scaling"`

	// directory of the route cache, no cache when empty
	Cache string `mapstructure:"cache"`
}

// SetDefaults registers the default of every setting on v.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("physX.density", 10.0)
	v.SetDefault("physX.spring_stiffness", 100.0)
	v.SetDefault("physX.fixed_spring_stiffness", 1000.0)
	v.SetDefault("physX.spring_damping", 100.0)
	v.SetDefault("physX.static_friction", 0.5)
	v.SetDefault("physX.dynamic_friction", 0.5)
	v.SetDefault("physX.restitution", 1.0)
	v.SetDefault("physX.rigid_body_sleep_threshold", 0.001)
	v.SetDefault("physX.discretize_lengths", true)
	v.SetDefault("physX.attach_fixed", true)
	v.SetDefault("physX.visual_debugger", false)
	v.SetDefault("physX.iterations", 50)
	v.SetDefault("physX.timeout", 300)
	v.SetDefault("scaling", 1.0)
}

// Load reads the settings file named by the "settings" key of v, if any,
// and unmarshals v into a Config. A missing default settings file is not an
// error, a missing file the user asked for is.
func Load(v *viper.Viper) (*Config, error) {
	SetDefaults(v)

	settings := v.GetString("settings")
	explicit := settings != ""
	if !explicit {
		settings = defaultSettingsFile()
	}
	if settings != "" {
		v.SetConfigFile(settings)
		if err := v.MergeInConfig(); err != nil {
			if explicit {
				return nil, errors.Wrapf(err, "reading settings %s", settings)
			}
		}
	}

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return nil, errors.Wrap(err, "unable to decode settings")
	}
	return &c, nil
}

// New returns a new Config struct populated by
// Viper settings (either from the local settings.json)
// and/or command line arguments
func New() *Config {
	c, err := Load(viper.GetViper())
	if err != nil {
		log.Fatalf("%v", err)
	}
	return c
}

// defaultSettingsFile looks for settings.json in the working directory, then
// next to the executable.
func defaultSettingsFile() string {
	if _, err := os.Stat(SettingsFile); err == nil {
		return SettingsFile
	}
	if exe, err := os.Executable(); err == nil {
		p := filepath.Join(filepath.Dir(exe), SettingsFile)
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}
	return ""
}
