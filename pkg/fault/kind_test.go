package fault_test

import (
	"testing"

	"github.com/BlackVectorOps/faultseed/pkg/fault"
)

func TestParseFailureKind(t *testing.T) {
	t.Parallel()
	tests := []struct {
		in      string
		want    fault.FailureKind
		wantErr bool
	}{
		{"none", fault.FailureNone, false},
		{"opt-crasher", fault.OptimizerCrash, false},
		{"miscompile", fault.RuntimeMiscompile, false},
		{"runtime-crasher", fault.RuntimeCrash, false},
		{"", fault.FailureNone, true},
		{"crash", fault.FailureNone, true},
		{"OPT-CRASHER", fault.FailureNone, true}, // spellings are case sensitive
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.in, func(t *testing.T) {
			t.Parallel()
			got, err := fault.ParseFailureKind(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseFailureKind(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("ParseFailureKind(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestKindRoundTrip(t *testing.T) {
	t.Parallel()
	kinds := []fault.FailureKind{
		fault.FailureNone,
		fault.OptimizerCrash,
		fault.RuntimeMiscompile,
		fault.RuntimeCrash,
	}
	for _, k := range kinds {
		parsed, err := fault.ParseFailureKind(k.String())
		if err != nil {
			t.Errorf("String %q did not parse back: %v", k.String(), err)
		}
		if parsed != k {
			t.Errorf("round trip %v -> %q -> %v", k, k.String(), parsed)
		}
	}
}

func TestConfigEnabled(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name string
		cfg  fault.Config
		want bool
	}{
		{"empty", fault.Config{}, false},
		{"target only", fault.Config{TargetFunc: "f"}, false},
		{"kind only", fault.Config{Kind: fault.RuntimeCrash}, false},
		{"both", fault.Config{TargetFunc: "f", Kind: fault.RuntimeCrash}, true},
		{"explicit none", fault.Config{TargetFunc: "f", Kind: fault.FailureNone}, false},
	}
	for _, tt := range tests {
		if got := tt.cfg.Enabled(); got != tt.want {
			t.Errorf("%s: Enabled() = %v, want %v", tt.name, got, tt.want)
		}
	}
}
