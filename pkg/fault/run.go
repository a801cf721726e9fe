package fault

import (
	"fmt"
	"io"
	"os"

	"github.com/BlackVectorOps/faultseed/pkg/sil"
)

// Run is the explicit state of one injection run. The original design buried
// the at-most-once guarantee in a mutable flag on a shared pass object; here
// the guard lives on a value the scheduler visibly threads through every
// function visit. One Run spans one whole walk of a module, so exactly-once
// holds across all functions, not per function; constructing a fresh Run is
// the only way to inject again.
type Run struct {
	cfg      Config
	sink     io.Writer
	abort    func(msg string)
	injected bool
}

// RunOption tweaks a Run at construction time.
type RunOption func(*Run)

// WithSink redirects the diagnostic dump stream (default os.Stderr). The
// sink is debugging visibility only, never correctness-relevant transport.
func WithSink(w io.Writer) RunOption {
	return func(r *Run) { r.sink = w }
}

// WithAbort replaces the process-terminating abort used by the
// optimizer-crash path. Tests install a recording hook here; the default
// prints the diagnostic and exits non-zero, which is this tool doing its job.
func WithAbort(fn func(msg string)) RunOption {
	return func(r *Run) { r.abort = fn }
}

func NewRun(cfg Config, opts ...RunOption) *Run {
	r := &Run{
		cfg:  cfg,
		sink: os.Stderr,
	}
	r.abort = func(msg string) {
		fmt.Fprintf(r.sink, "fatal: %s\n", msg)
		os.Exit(2)
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

func (r *Run) Config() Config { return r.cfg }

// Injected reports whether this run has already performed its one mutation.
// The flag transitions to true at most once and is never reset.
func (r *Run) Injected() bool { return r.injected }

// Function visits a single function, the unit of work the external scheduler
// hands us. A disabled configuration or a spent guard returns immediately
// without scanning. On a match the configured failure is injected and the
// visit stops; nothing past the matched site is scanned or mutated.
func (r *Run) Function(fn *sil.Function) Outcome {
	if !r.cfg.Enabled() || r.injected {
		return OutcomeNone
	}
	site, ok := FindTargetCall(fn, r.cfg.TargetFunc)
	if !ok {
		// Not an error: the run simply proceeds to the next function.
		return OutcomeNone
	}
	return r.inject(fn.Module(), site)
}

// Module walks every function in definition order, feeding each to Function.
// It returns the first (and only possible) non-trivial outcome together with
// the function it landed in.
func (r *Run) Module(m *sil.Module) (Outcome, *sil.Function) {
	for _, fn := range m.Functions() {
		if out := r.Function(fn); out != OutcomeNone {
			return out, fn
		}
		if r.injected {
			break
		}
	}
	return OutcomeNone, nil
}
