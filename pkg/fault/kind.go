// Package fault implements the deterministic fault-injection core: locating
// the first direct call to a configured target function and mutating the
// graph with one of three known failure behaviors. It exists to hand
// bug-reduction tooling a reproducible defect instead of waiting for a real,
// intermittent one.
package fault

import "fmt"

// FailureKind selects which failure behavior the injector performs at the
// matched call site.
type FailureKind int

const (
	// FailureNone disables injection entirely.
	FailureNone FailureKind = iota
	// OptimizerCrash aborts the compiler process the moment the target call
	// is visited, before any mutation.
	OptimizerCrash
	// RuntimeMiscompile silently deletes the target call, changing behavior
	// without any crash signal.
	RuntimeMiscompile
	// RuntimeCrash replaces the target call with a call to a stub that
	// unconditionally traps at runtime.
	RuntimeCrash
)

var kindNames = map[FailureKind]string{
	FailureNone:       "none",
	OptimizerCrash:    "opt-crasher",
	RuntimeMiscompile: "miscompile",
	RuntimeCrash:      "runtime-crasher",
}

func (k FailureKind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("FailureKind(%d)", int(k))
}

// ParseFailureKind maps the configuration spelling to a kind. Unknown
// spellings are a configuration error and are rejected here, before the core
// ever runs; the injector itself assumes its kind is legal.
func ParseFailureKind(s string) (FailureKind, error) {
	for k, name := range kindNames {
		if s == name {
			return k, nil
		}
	}
	return FailureNone, fmt.Errorf("unknown failure kind %q (want none, opt-crasher, miscompile, or runtime-crasher)", s)
}

// Config is the immutable per-run configuration: which function to hunt and
// what to do when it is found. An empty target name disables the system no
// matter the kind.
type Config struct {
	TargetFunc string
	Kind       FailureKind
}

// Enabled reports whether this configuration can ever inject.
func (c Config) Enabled() bool {
	return c.TargetFunc != "" && c.Kind != FailureNone
}
