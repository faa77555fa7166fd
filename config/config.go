// Package config loads the resource bounds and version gates that govern a
// save/load cycle, the way game/nakama/config.go loads its own settings:
// struct tags plus github.com/JeremyLoy/config.FromEnv, rather than a
// hand-rolled os.LookupEnv reader.
package config

import (
	"github.com/JeremyLoy/config"
	"github.com/rotisserie/eris"
)

// Config bounds and version-gates a save/load cycle.
type Config struct {
	// MaxStringBytes caps the length of a single string or byte-slice field.
	MaxStringBytes uint32 `config:"SERIALIZATION_MAX_STRING_BYTES"`
	// MaxArrayElements caps the element count of a single dynamic array field.
	MaxArrayElements uint32 `config:"SERIALIZATION_MAX_ARRAY_ELEMENTS"`
	// MaxFileBytes caps the total size of a save blob accepted for loading.
	MaxFileBytes int64 `config:"SERIALIZATION_MAX_FILE_BYTES"`
	// MinLoadableVersion is the oldest schema version this build will still
	// migrate forward; anything older is rejected outright.
	MinLoadableVersion int `config:"SERIALIZATION_MIN_LOADABLE_VERSION"`
	// MaxAcceptedVersion is the newest schema version this build understands;
	// a save stamped with a newer version is rejected rather than guessed at.
	MaxAcceptedVersion int `config:"SERIALIZATION_MAX_ACCEPTED_VERSION"`
}

// Default returns the resource bounds named in the expanded spec's
// configuration section.
func Default() Config {
	return Config{
		MaxStringBytes:     10 * 1024 * 1024,
		MaxArrayElements:   10_000_000,
		MaxFileBytes:       100 * 1024 * 1024,
		MinLoadableVersion: 1,
		MaxAcceptedVersion: 1,
	}
}

// FromEnv loads a Config from the environment, starting from Default for
// any variable left unset.
func FromEnv() (Config, error) {
	cfg := Default()
	if err := config.FromEnv().To(&cfg); err != nil {
		return Config{}, eris.Wrap(err, "config: failed to load from environment")
	}
	return cfg, nil
}
