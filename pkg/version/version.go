package version

import (
	"fmt"
	"runtime/debug"
)

const featureFlags = "SIL/Pebble+JSONHist"

// EngineVersion automatically detects the version from the Git tag.
func EngineVersion() string {
	version := "(devel)" // fallback for local testing (go run .)

	// info.Main.Version is filled in by 'go install' from the build tag.
	if info, ok := debug.ReadBuildInfo(); ok {
		if info.Main.Version != "" {
			version = info.Main.Version
		}
	}

	return fmt.Sprintf("%s (%s)", version, featureFlags)
}
