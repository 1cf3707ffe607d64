package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"
	"github.com/wizzomafizzo/jmp/internal/config"
	"github.com/wizzomafizzo/jmp/internal/dispatch"
)

func main() {
	os.Exit(int(run(defaultRuntime(), os.Args[1:], os.Stdout, os.Stderr)))
}

// run executes one invocation and returns the process exit code. Errors are
// reported on stderr only, so stdout never carries anything but protocol
// output.
func run(rt runtimeEnv, args []string, stdout, stderr io.Writer) dispatch.ExitCode {
	cmd := createRootCommand(rt)
	cmd.SetArgs(args)
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)

	err := cmd.Execute()
	if err == nil {
		return dispatch.ExitSuccess
	}

	printError(stderr, err, rt.getenv)
	return dispatch.MapExitCode(err)
}

func printError(w io.Writer, err error, getenv func(string) string) {
	prefix := color.New(color.FgRed, color.Bold)
	if dispatch.ColorEnabled(colorMode(getenv), w, getenv) {
		prefix.EnableColor()
	} else {
		prefix.DisableColor()
	}

	_, _ = fmt.Fprintf(w, "%s %v\n", prefix.Sprint("jmp:"), err)
	if errors.Is(err, dispatch.ErrUsage) {
		_, _ = fmt.Fprintln(w, "run 'jmp --help' for usage")
	}
}

// colorMode reads the color override from the environment. The config file
// may be the reason for the error, so it is not consulted here.
func colorMode(getenv func(string) string) string {
	switch mode := getenv("JMP_COLOR"); mode {
	case config.ColorAlways, config.ColorNever:
		return mode
	default:
		return config.ColorAuto
	}
}
