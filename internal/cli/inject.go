// -- internal/cli/inject.go --
package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/BlackVectorOps/faultseed/pkg/fault"
	"github.com/BlackVectorOps/faultseed/pkg/fingerprint"
	"github.com/BlackVectorOps/faultseed/pkg/lower"
	"github.com/BlackVectorOps/faultseed/pkg/models"
	"github.com/BlackVectorOps/faultseed/pkg/sil"
)

// InjectOptions carries the inject command's inputs after flag parsing.
type InjectOptions struct {
	Target      string
	TargetFunc  string
	FailureKind string
	DBPath      string
	ConfigPath  string
	NoHistory   bool
}

// RunInject lowers the target, performs at most one fault injection, reports
// the result as JSON on stdout, and records the run in the history store.
// History failures degrade to a warning: an unwritable database must never
// mask the injection result a reducer is waiting on.
func RunInject(opts InjectOptions) error {
	var fileCfg *FileConfig
	if opts.ConfigPath != "" {
		cfg, err := LoadConfigFile(opts.ConfigPath)
		if err != nil {
			return err
		}
		fileCfg = cfg
	}
	targetFunc, kindStr, dbPath := mergeConfig(opts.TargetFunc, opts.FailureKind, opts.DBPath, fileCfg)

	if kindStr == "" {
		kindStr = "none"
	}
	kind, err := fault.ParseFailureKind(kindStr)
	if err != nil {
		return err
	}

	cleanTarget := filepath.Clean(opts.Target)
	mod, err := lower.Target(cleanTarget)
	if err != nil {
		return fmt.Errorf("lower %s: %w", cleanTarget, err)
	}

	before, err := fingerprint.Snapshot(mod)
	if err != nil {
		return fmt.Errorf("fingerprint module: %w", err)
	}

	run := fault.NewRun(fault.Config{TargetFunc: targetFunc, Kind: kind})
	outcome, injectedFn := run.Module(mod)

	after, err := fingerprint.Snapshot(mod)
	if err != nil {
		return fmt.Errorf("fingerprint module: %w", err)
	}

	record := models.RunRecord{
		Target:           cleanTarget,
		TargetFunc:       targetFunc,
		FailureKind:      kind.String(),
		Outcome:          outcome.String(),
		ChangedFunctions: fingerprint.Diff(before, after),
	}
	if injectedFn != nil {
		record.InjectedFunction = injectedFn.Name()
		record.InjectedBlock = injectedBlockLabel(injectedFn, outcome)
	}
	if stub := mod.Lookup(fault.CrashStubName); stub != nil && stub.IsDefinition() {
		record.StubDefined = true
	}

	out := models.InjectOutput{
		Record:          record,
		ModuleFunctions: len(mod.Functions()),
		Mutated:         run.Injected(),
	}

	if !opts.NoHistory {
		if err := saveRecord(ResolveDBPath(dbPath), &out.Record); err != nil {
			fmt.Fprintf(os.Stderr, "warning: could not record run history: %v\n", err)
		}
	}

	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(out); err != nil {
		return fmt.Errorf("json encode failed: %w", err)
	}
	return nil
}

func saveRecord(dbPath string, rec *models.RunRecord) error {
	store, _, err := OpenStore(dbPath, false)
	if err != nil {
		return err
	}
	defer store.Close()
	return store.AddRun(rec)
}

// injectedBlockLabel locates the block the mutation landed in. For a trap
// injection that is the block now calling the crash stub; a deleted call
// leaves no marker behind, so miscompiles report no block.
func injectedBlockLabel(fn *sil.Function, outcome fault.Outcome) string {
	if outcome != fault.OutcomeTrapped {
		return ""
	}
	for _, b := range fn.Blocks {
		for _, in := range b.Instrs {
			call, ok := in.(*sil.Call)
			if !ok {
				continue
			}
			if callee := call.StaticCallee(); callee != nil && callee.Name() == fault.CrashStubName {
				return b.Label
			}
		}
	}
	return ""
}
