package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/viper"
)

func TestLoad_defaults(t *testing.T) {
	dir := t.TempDir()
	wd, _ := os.Getwd()
	if err := os.Chdir(dir); err != nil {
		t.Fatal(err)
	}
	defer os.Chdir(wd)

	c, err := Load(viper.New())
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	want := PhysX{
		Density:              10,
		SpringStiffness:      100,
		FixedSpringStiffness: 1000,
		SpringDamping:        100,
		StaticFriction:       0.5,
		DynamicFriction:      0.5,
		Restitution:          1,
		SleepThreshold:       0.001,
		DiscretizeLengths:    true,
		AttachFixed:          true,
		Iterations:           50,
		Timeout:              300,
	}
	if c.PhysX != want {
		t.Errorf("Load().PhysX = %+v, want %+v", c.PhysX, want)
	}
	if c.Scaling != 1 {
		t.Errorf("Load().Scaling = %v, want 1", c.Scaling)
	}
}

func TestLoad_settingsFile(t *testing.T) {
	settings := filepath.Join(t.TempDir(), "relax.json")
	body := `{
  "physX": {
    "density": 5,
    "spring_damping": 20,
    "discretize_lengths": false,
    "iterations": 3
  }
}`
	if err := os.WriteFile(settings, []byte(body), 0644); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name    string
		file    string
		wantErr bool
	}{
		{"explicit file", settings, false},
		{"missing explicit file", settings + ".missing", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := viper.New()
			v.Set("settings", tt.file)
			c, err := Load(v)
			if (err != nil) != tt.wantErr {
				t.Fatalf("Load() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr {
				return
			}

			if c.PhysX.Density != 5 || c.PhysX.SpringDamping != 20 || c.PhysX.Iterations != 3 {
				t.Errorf("Load().PhysX = %+v", c.PhysX)
			}
			if c.PhysX.DiscretizeLengths {
				t.Error("discretize_lengths should be read as false")
			}
			// untouched keys keep their defaults
			if c.PhysX.SpringStiffness != 100 || !c.PhysX.AttachFixed {
				t.Errorf("Load().PhysX = %+v, defaults lost", c.PhysX)
			}
		})
	}
}
