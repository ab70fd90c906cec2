package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"go.uber.org/automaxprocs/maxprocs"
)

// Version is set at build time via ldflags.
var Version = "dev"

func main() {
	// Configure GOMAXPROCS with conditional logging
	// Error ignored: maxprocs.Set only fails if GOMAXPROCS env is invalid,
	// in which case Go runtime defaults apply and the program continues safely.
	if verboseRequested(os.Args[1:]) {
		_, _ = maxprocs.Set(maxprocs.Logger(func(format string, args ...interface{}) {
			fmt.Fprintf(os.Stderr, format+"\n", args...)
		}))
	} else {
		_, _ = maxprocs.Set(maxprocs.Logger(func(string, ...interface{}) {}))
	}

	os.Exit(runMain(os.Args, DefaultEnv()))
}

// runMain dispatches the command line and returns the process exit code.
func runMain(args []string, env *Environment) int {
	if len(args) < 2 {
		printUsage(env.Stderr)
		return ExitFailure
	}

	ctx, stop := notifyContext(context.Background())
	defer stop()

	switch args[1] {
	case "version", "--version":
		fmt.Fprintf(env.Stdout, "gosling-screenshot %s\n", Version)
		return ExitSuccess
	case "help", "-h", "--help":
		return runHelp(args[2:], env)
	case "doctor":
		return runDoctorCmd(args[2:], env)
	case "config":
		return runConfigCmd(args[2:], env)
	default:
		return runScreenshotCmd(ctx, args[1:], env)
	}
}

// verboseRequested scans raw arguments for -v/--verbose before flag parsing.
func verboseRequested(args []string) bool {
	for _, a := range args {
		if a == "--" {
			return false
		}
		if a == "--verbose" || a == "-v" {
			return true
		}
		// Combined short flags like -qv.
		if len(a) > 2 && a[0] == '-' && a[1] != '-' && strings.ContainsRune(a[1:], 'v') {
			return true
		}
	}
	return false
}
