package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	flag "github.com/spf13/pflag"

	"github.com/alnah/go-chatlog/internal/config"
	"github.com/alnah/go-chatlog/internal/fileutil"
	"github.com/alnah/go-chatlog/internal/yamlutil"
)

// defaultConfigFile is written by "chatlog init" without a path argument and
// found by "--config chatlog".
const defaultConfigFile = "chatlog.yaml"

// configHeader precedes the generated YAML.
const configHeader = `# chatlog configuration
# Precedence: flags > CHATLOG_* environment > this file > built-in defaults.
# Formats: txt, epub, html, pdf. Chapter modes: batch, per-message, user-start.

`

// ErrConfigExists is returned when init would overwrite a file without --force.
var ErrConfigExists = errors.New("config file already exists")

// runInit writes the default configuration as YAML.
func runInit(args []string, env *Environment) error {
	var force bool
	fs := newInitFlagSet(&force)
	fs.SetOutput(env.Stderr)
	fs.Usage = func() { printInitUsage(env.Stderr) }

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return nil
		}
		return fmt.Errorf("%w: %v", ErrInvalidFlags, err)
	}

	path := defaultConfigFile
	if fs.NArg() > 0 {
		path = fs.Arg(0)
	}

	if !force && fileutil.FileExists(path) {
		return fmt.Errorf("%w: %s (use --force to overwrite)", ErrConfigExists, path)
	}

	data, err := yamlutil.Marshal(config.DefaultConfig())
	if err != nil {
		return fmt.Errorf("encoding config: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(path), dirPermissions); err != nil {
		return fmt.Errorf("%w: %v", ErrWriteOutput, err)
	}
	// #nosec G306 -- config files are meant to be readable
	if err := os.WriteFile(path, append([]byte(configHeader), data...), filePermissions); err != nil {
		return fmt.Errorf("%w: %v", ErrWriteOutput, err)
	}

	fmt.Fprintf(env.Stdout, "Created %s\n", path)
	return nil
}
