// -- internal/cli/config.go --
package cli

import (
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v2"

	"github.com/BlackVectorOps/faultseed/pkg/models"
)

// FileConfig is the optional YAML configuration for the inject command.
// Reducer harnesses run the same injection over and over with different
// targets; a checked-in config beats retyping the flag triple every time.
// Flags given on the command line win over file values.
type FileConfig struct {
	TargetFunc  string `yaml:"target_func"`
	FailureKind string `yaml:"failure_kind"`
	DB          string `yaml:"db"`
}

// LoadConfigFile reads and strictly parses a YAML config. Unknown keys are an
// error: a typo in "failure_kind" silently disabling injection would send
// someone down a long debugging detour.
func LoadConfigFile(path string) (*FileConfig, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open config: %w", err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return nil, fmt.Errorf("stat config: %w", err)
	}
	if info.Size() > models.MaxConfigFileSize {
		return nil, fmt.Errorf("config file exceeds maximum size of %d bytes", models.MaxConfigFileSize)
	}

	data, err := io.ReadAll(io.LimitReader(f, models.MaxConfigFileSize))
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	var cfg FileConfig
	if err := yaml.UnmarshalStrict(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	return &cfg, nil
}

// mergeConfig overlays file values under explicit flag values.
func mergeConfig(flagTargetFunc, flagKind, flagDB string, file *FileConfig) (targetFunc, kind, db string) {
	targetFunc, kind, db = flagTargetFunc, flagKind, flagDB
	if file == nil {
		return
	}
	if targetFunc == "" {
		targetFunc = file.TargetFunc
	}
	if kind == "" {
		kind = file.FailureKind
	}
	if db == "" {
		db = file.DB
	}
	return
}
