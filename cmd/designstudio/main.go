package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"

	"github.com/joho/godotenv"
	"go.uber.org/automaxprocs/maxprocs"
)

// Version is set at build time via ldflags.
var Version = "dev"

func main() {
	// A missing .env is the normal case; anything else is worth a line.
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		fmt.Fprintf(os.Stderr, "warning: loading .env: %v\n", err)
	}

	// Error ignored: maxprocs.Set only fails if GOMAXPROCS env is invalid,
	// in which case Go runtime defaults apply and the program continues safely.
	if hasFlag(os.Args[1:], "-v", "--verbose") {
		_, _ = maxprocs.Set(maxprocs.Logger(func(format string, args ...interface{}) {
			fmt.Fprintf(os.Stderr, format+"\n", args...)
		}))
	} else {
		_, _ = maxprocs.Set(maxprocs.Logger(func(string, ...interface{}) {}))
	}

	ctx, stop := notifyContext(context.Background())
	code := runMain(ctx, os.Args, DefaultEnv())
	stop()
	os.Exit(code)
}

// runMain dispatches to a command and maps its outcome to an exit code.
func runMain(ctx context.Context, args []string, env *Environment) int {
	if len(args) < 2 {
		printUsage(env.Stderr)
		return ExitUsage
	}

	cmd, rest := args[1], args[2:]
	switch cmd {
	case "render":
		return report(env.Stderr, runRender(ctx, rest, env))
	case "generate":
		return report(env.Stderr, runGenerate(ctx, rest, env))
	case "assets":
		return report(env.Stderr, runAssets(ctx, rest, env))
	case "formats":
		return report(env.Stderr, runFormats(rest, env))
	case "serve":
		return report(env.Stderr, runServe(ctx, rest, env))
	case "doctor":
		return runDoctorCmd(rest, env)
	case "completion":
		return report(env.Stderr, runCompletion(rest, env))
	case "version", "--version":
		fmt.Fprintf(env.Stdout, "designstudio %s\n", Version)
		return ExitSuccess
	case "help", "-h", "--help":
		runHelp(rest, env)
		return ExitSuccess
	default:
		fmt.Fprintf(env.Stderr, "Unknown command: %s\n\n", cmd)
		printUsage(env.Stderr)
		return ExitUsage
	}
}

// report prints err with any matching hint and returns its exit code.
func report(w io.Writer, err error) int {
	if err == nil {
		return ExitSuccess
	}
	if errors.Is(err, errBatchFailed) {
		// Each failure was already printed.
		return exitCodeFor(err)
	}
	fmt.Fprintf(w, "error: %v%s\n", err, hintFor(err))
	return exitCodeFor(err)
}

// hasFlag reports whether any of names appears in args.
func hasFlag(args []string, names ...string) bool {
	for _, arg := range args {
		for _, name := range names {
			if arg == name {
				return true
			}
		}
	}
	return false
}
