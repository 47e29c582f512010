package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"slices"

	"go.uber.org/automaxprocs/maxprocs"
)

// Version is set at build time via ldflags.
var Version = "dev"

// Sentinel errors for command dispatch.
var (
	ErrUnknownCommand = errors.New("unknown command")
	ErrInvalidFlags   = errors.New("invalid flags")
)

// command is a subcommand with its one-line summary.
type command struct {
	name    string
	summary string
}

// commands lists the subcommands; anything else is handed to convert.
var commands = []command{
	{"convert", "Convert transcripts (default command)"},
	{"preview", "Show messages before and after cleaning"},
	{"init", "Write a default config file"},
	{"doctor", "Check PDF prerequisites"},
	{"completion", "Generate a shell completion script"},
	{"version", "Show version information"},
	{"help", "Show help for a command"},
}

func isCommand(name string) bool {
	return slices.ContainsFunc(commands, func(c command) bool { return c.name == name })
}

func main() {
	env := DefaultEnv()
	verbose := slices.Contains(os.Args, "-v") || slices.Contains(os.Args, "--verbose")
	env.Logger = newLogger(env.Stderr, false, verbose)

	loadDotEnv(env.Logger)

	// Error ignored: maxprocs.Set only fails if GOMAXPROCS env is invalid,
	// in which case Go runtime defaults apply and the program continues safely.
	_, _ = maxprocs.Set(maxprocs.Logger(func(format string, args ...any) {
		env.Logger.Debug(fmt.Sprintf(format, args...))
	}))

	ctx, stop := notifyContext(context.Background())
	code := run(ctx, os.Args[1:], env)
	stop()
	os.Exit(code)
}

// run dispatches a command and returns the process exit code.
func run(ctx context.Context, args []string, env *Environment) int {
	cmd, rest := splitCommand(args)

	var err error
	switch cmd {
	case "convert":
		err = runConvert(ctx, rest, env)
	case "preview":
		err = runPreview(ctx, rest, env)
	case "init":
		err = runInit(rest, env)
	case "doctor":
		return runDoctorCmd(rest, env)
	case "completion":
		err = runCompletion(rest, env)
	case "version":
		fmt.Fprintf(env.Stdout, "chatlog %s\n", Version)
	case "help":
		err = runHelp(rest, env)
	}

	if err != nil {
		printError(env.Stderr, err)
	}
	return exitCodeFor(err)
}

// splitCommand returns the command and its arguments. Without a known
// command the arguments go to convert, so "chatlog chat.txt" works.
func splitCommand(args []string) (string, []string) {
	if len(args) == 0 {
		return "help", nil
	}
	switch args[0] {
	case "-h", "--help":
		return "help", nil
	case "--version":
		return "version", nil
	}
	if isCommand(args[0]) {
		return args[0], args[1:]
	}
	return "convert", args
}
