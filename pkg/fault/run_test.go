package fault_test

import (
	"strings"
	"testing"

	"github.com/BlackVectorOps/faultseed/pkg/fault"
	"github.com/BlackVectorOps/faultseed/pkg/testutil"
)

func TestRunInjectsExactlyOncePerModule(t *testing.T) {
	t.Parallel()
	// Several functions call the target; a run must mutate only the first
	// match across the whole walk, not one per function.
	m := testutil.NewCallerModule("target", 3)
	run := fault.NewRun(fault.Config{TargetFunc: "target", Kind: fault.RuntimeMiscompile})

	outcome, fn := run.Module(m)
	if outcome != fault.OutcomeMiscompiled {
		t.Fatalf("outcome = %v, want miscompiled", outcome)
	}
	if fn == nil || fn.Name() != "caller0" {
		t.Fatalf("expected the first caller in module order, got %v", fn)
	}
	if n := testutil.CountCallsTo(m, "target"); n != 2 {
		t.Errorf("expected 2 surviving calls, got %d", n)
	}
}

func TestSpentRunNeverInjectsAgain(t *testing.T) {
	t.Parallel()
	m := testutil.NewCallerModule("target", 2)
	run := fault.NewRun(fault.Config{TargetFunc: "target", Kind: fault.RuntimeMiscompile})

	if outcome, _ := run.Module(m); outcome != fault.OutcomeMiscompiled {
		t.Fatalf("first walk did not inject: %v", outcome)
	}
	// The same run walked again is a no-op even though a matching call
	// survives in caller1.
	if outcome, fn := run.Module(m); outcome != fault.OutcomeNone || fn != nil {
		t.Fatalf("spent run injected again: %v in %v", outcome, fn)
	}
	if n := testutil.CountCallsTo(m, "target"); n != 1 {
		t.Errorf("expected 1 surviving call, got %d", n)
	}

	// A fresh run picks up the remaining site.
	fresh := fault.NewRun(fault.Config{TargetFunc: "target", Kind: fault.RuntimeMiscompile})
	if outcome, fn := fresh.Module(m); outcome != fault.OutcomeMiscompiled || fn.Name() != "caller1" {
		t.Fatalf("fresh run: outcome=%v fn=%v", outcome, fn)
	}
}

func TestSpentRunSkipsFunctionVisits(t *testing.T) {
	t.Parallel()
	m := testutil.NewCallerModule("target", 2)
	run := fault.NewRun(fault.Config{TargetFunc: "target", Kind: fault.RuntimeMiscompile})
	run.Module(m)

	fn := testutil.FindFunction(m, "caller1")
	if outcome := run.Function(fn); outcome != fault.OutcomeNone {
		t.Fatalf("spent run visited a function and injected: %v", outcome)
	}
}

func TestDisabledRunIsNoOp(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name string
		cfg  fault.Config
	}{
		{"empty config", fault.Config{}},
		{"kind none", fault.Config{TargetFunc: "target", Kind: fault.FailureNone}},
		{"no target", fault.Config{Kind: fault.RuntimeCrash}},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			m := testutil.NewCallerModule("target", 1)
			run := fault.NewRun(tt.cfg)
			if outcome, fn := run.Module(m); outcome != fault.OutcomeNone || fn != nil {
				t.Fatalf("disabled run acted: %v in %v", outcome, fn)
			}
			if run.Injected() {
				t.Error("disabled run claims an injection")
			}
			if n := testutil.CountCallsTo(m, "target"); n != 1 {
				t.Errorf("disabled run mutated the module: %d calls left", n)
			}
		})
	}
}

func TestRunWithMissingTarget(t *testing.T) {
	t.Parallel()
	m := testutil.NewCallerModule("target", 1)
	run := fault.NewRun(
		fault.Config{TargetFunc: "neverDefined", Kind: fault.RuntimeCrash},
		fault.WithSink(&strings.Builder{}),
	)
	if outcome, fn := run.Module(m); outcome != fault.OutcomeNone || fn != nil {
		t.Fatalf("run without a matching call acted: %v in %v", outcome, fn)
	}
	if run.Injected() {
		t.Error("run without a match claims an injection")
	}
}
