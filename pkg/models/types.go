package models

import "time"

// -- Injection runs --

// RunRecord is one persisted injection run. Records are written by the inject
// command and read back by history, so every field a reducer debugging
// session needs is captured here rather than re-derived later.
type RunRecord struct {
	ID          string    `json:"id"`
	Timestamp   time.Time `json:"timestamp"`
	Target      string    `json:"target"`
	TargetFunc  string    `json:"target_func"`
	FailureKind string    `json:"failure_kind"`
	Outcome     string    `json:"outcome"`

	InjectedFunction string   `json:"injected_function,omitempty"`
	InjectedBlock    string   `json:"injected_block,omitempty"`
	StubDefined      bool     `json:"stub_defined,omitempty"`
	ChangedFunctions []string `json:"changed_functions,omitempty"`
}

// InjectOutput is the JSON the inject command prints to stdout.
type InjectOutput struct {
	Record          RunRecord `json:"record"`
	ModuleFunctions int       `json:"module_functions"`
	Mutated         bool      `json:"mutated"`
	Error           string    `json:"error,omitempty"`
}

// -- History --

type HistoryOutput struct {
	Database string      `json:"database"`
	Backend  string      `json:"backend"`
	Runs     []RunRecord `json:"runs"`
	Error    string      `json:"error,omitempty"`
}

// -- Limits --

// MaxConfigFileSize bounds YAML config reads. Nobody's injection config is a
// megabyte; anything bigger is a mistake or a payload.
const MaxConfigFileSize = 1 * 1024 * 1024
