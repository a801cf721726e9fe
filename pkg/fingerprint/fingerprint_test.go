package fingerprint_test

import (
	"testing"

	"github.com/BlackVectorOps/faultseed/pkg/fingerprint"
	"github.com/BlackVectorOps/faultseed/pkg/sil"
	"github.com/BlackVectorOps/faultseed/pkg/testutil"
)

func TestFunctionDigestStable(t *testing.T) {
	t.Parallel()
	build := func() *sil.Function {
		m := testutil.NewCallerModule("target", 1)
		return testutil.FindFunction(m, "caller0")
	}
	a := fingerprint.Function(build())
	b := fingerprint.Function(build())
	if a != b {
		t.Errorf("identical graphs digested differently: %s vs %s", a, b)
	}
	if len(a) != 64 {
		t.Errorf("expected a hex sha256, got %d chars", len(a))
	}
}

func TestFunctionDigestSensitive(t *testing.T) {
	t.Parallel()
	m := testutil.NewCallerModule("target", 1)
	fn := testutil.FindFunction(m, "caller0")
	before := fingerprint.Function(fn)

	// Any graph mutation must move the digest.
	fn.Entry().InsertBefore(fn.Entry().Instrs[0], sil.NewOp("marker", nil, sil.Unit))
	if after := fingerprint.Function(fn); after == before {
		t.Error("digest unchanged after mutation")
	}
}

func TestSnapshotOrderAndCompleteness(t *testing.T) {
	t.Parallel()
	m := testutil.NewCallerModule("target", 3)
	entries, err := fingerprint.Snapshot(m)
	if err != nil {
		t.Fatalf("Snapshot: %v", err)
	}
	funcs := m.Functions()
	if len(entries) != len(funcs) {
		t.Fatalf("snapshot has %d entries for %d functions", len(entries), len(funcs))
	}
	for i, fn := range funcs {
		if entries[i].Function != fn.Name() {
			t.Errorf("entry %d = %q, want %q (definition order must survive the fan-out)", i, entries[i].Function, fn.Name())
		}
		if entries[i].Digest != fingerprint.Function(fn) {
			t.Errorf("entry %d digest mismatch for %q", i, fn.Name())
		}
	}
}

func TestDiff(t *testing.T) {
	t.Parallel()
	before := []fingerprint.Entry{
		{Function: "a", Digest: "1"},
		{Function: "b", Digest: "2"},
		{Function: "gone", Digest: "3"},
	}
	after := []fingerprint.Entry{
		{Function: "a", Digest: "1"},
		{Function: "b", Digest: "changed"},
		{Function: "new", Digest: "4"},
	}

	changed := fingerprint.Diff(before, after)
	want := map[string]bool{"b": true, "new": true, "gone": true}
	if len(changed) != len(want) {
		t.Fatalf("Diff = %v, want keys %v", changed, want)
	}
	for _, name := range changed {
		if !want[name] {
			t.Errorf("unexpected changed function %q", name)
		}
	}
}

func TestDiffIdentical(t *testing.T) {
	t.Parallel()
	m := testutil.NewCallerModule("target", 2)
	a, err := fingerprint.Snapshot(m)
	if err != nil {
		t.Fatalf("Snapshot: %v", err)
	}
	b, err := fingerprint.Snapshot(m)
	if err != nil {
		t.Fatalf("Snapshot: %v", err)
	}
	if changed := fingerprint.Diff(a, b); len(changed) != 0 {
		t.Errorf("unchanged module diffed as %v", changed)
	}
}
