package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/BlackVectorOps/faultseed/internal/cli"
	version "github.com/BlackVectorOps/faultseed/pkg/version"
)

// Package main provides the fseed CLI tool for deterministic fault injection
// into lowered Go programs, used to validate bug-reduction pipelines.

// -- Main Entry Point --

func main() {
	// Configure help text
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, `fseed - Fault Seeder CLI

A deterministic fault injector for validating bug-reduction tooling.

Usage:
  fseed inject --target-func <name> --failure-kind <kind> <file.go|directory>   Seed one fault at the first call to <name>
  fseed dump [--func <name>] <file.go|directory>                                Print the lowered IR
  fseed history [--target-func <name>] [--limit N] --db <path>                  List recorded injection runs
  fseed version                                                                 Display CLI and Engine version

Commands:
  inject  Lower the target and seed at most one artificial failure.
          Kinds:
            none             Scan without mutating (dry run)
            opt-crasher      Abort the tool at the matched call site
            miscompile       Silently delete the matched call
            runtime-crasher  Replace the matched call with a trap stub
          Flags:
            --target-func   Name of the called function to match (required unless --config)
            --failure-kind  Failure kind to seed (default: none)
            --config        YAML file supplying target_func, failure_kind, db
            --db            Run history path (.json for flat file, else PebbleDB)
            --no-history    Skip recording the run

  dump    Print the IR the injector operates on
  history List past injection runs, newest first
  version Display CLI and Engine version
Examples:
  fseed inject --target-func compute --failure-kind runtime-crasher ./cmd/app
  fseed inject --config fseed.yaml main.go
  fseed dump --func main main.go
  fseed history --target-func compute --limit 10 --db runs.json
  fseed version
`)
	}

	if len(os.Args) < 2 {
		flag.Usage()
		os.Exit(1)
	}

	cmd := os.Args[1]

	// -- Flag Definitions --

	injectCmd := flag.NewFlagSet("inject", flag.ExitOnError)
	injectFunc := injectCmd.String("target-func", "", "Name of the called function to match")
	injectKind := injectCmd.String("failure-kind", "", "Failure kind: none, opt-crasher, miscompile, runtime-crasher")
	injectConfig := injectCmd.String("config", "", "Path to YAML config file")
	injectDB := injectCmd.String("db", "", "Path to run history database")
	injectNoHistory := injectCmd.Bool("no-history", false, "Do not record this run")

	dumpCmd := flag.NewFlagSet("dump", flag.ExitOnError)
	dumpFunc := dumpCmd.String("func", "", "Dump only this function")

	historyCmd := flag.NewFlagSet("history", flag.ExitOnError)
	historyFunc := historyCmd.String("target-func", "", "Filter by target function")
	historyLimit := historyCmd.Int("limit", 0, "Maximum runs to list (0 = all)")
	historyDB := historyCmd.String("db", "", "Path to run history database")

	// -- Command Routing --

	switch cmd {
	case "inject":
		if err := injectCmd.Parse(os.Args[2:]); err != nil {
			cli.ExitError(err)
		}
		if injectCmd.NArg() < 1 {
			injectCmd.Usage()
			os.Exit(1)
		}
		opts := cli.InjectOptions{
			Target:      injectCmd.Arg(0),
			TargetFunc:  *injectFunc,
			FailureKind: *injectKind,
			DBPath:      *injectDB,
			ConfigPath:  *injectConfig,
			NoHistory:   *injectNoHistory,
		}
		if err := cli.RunInject(opts); err != nil {
			cli.ExitError(err)
		}

	case "dump":
		if err := dumpCmd.Parse(os.Args[2:]); err != nil {
			cli.ExitError(err)
		}
		if dumpCmd.NArg() < 1 {
			dumpCmd.Usage()
			os.Exit(1)
		}
		if err := cli.RunDump(dumpCmd.Arg(0), *dumpFunc); err != nil {
			cli.ExitError(err)
		}

	case "history":
		if err := historyCmd.Parse(os.Args[2:]); err != nil {
			cli.ExitError(err)
		}
		if err := cli.RunHistory(*historyDB, *historyFunc, *historyLimit); err != nil {
			cli.ExitError(err)
		}

	case "version":
		fmt.Println("Fault Seeder CLI")
		// Automatically pulls the tag from build info, or "(devel)" if running locally
		fmt.Printf("Build: %s\n", version.EngineVersion())

	default:
		fmt.Fprintf(os.Stderr, "unknown command: %s\n", cmd)
		if suggestion := cli.SuggestCommand(cmd); suggestion != "" {
			fmt.Fprintf(os.Stderr, "Did you mean '%s'?\n", suggestion)
		}
		flag.Usage()
		os.Exit(1)
	}
}
