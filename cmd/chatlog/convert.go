package main

import (
	"context"
	"errors"
	"fmt"

	flag "github.com/spf13/pflag"

	chatlog "github.com/alnah/go-chatlog"
	"github.com/alnah/go-chatlog/internal/config"
	"github.com/alnah/go-chatlog/internal/hints"
)

// runConvert orchestrates the conversion process.
func runConvert(ctx context.Context, args []string, env *Environment) error {
	flags, positional, err := parseConvertFlags(args, env.Stderr)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return nil
		}
		return fmt.Errorf("%w: %v", ErrInvalidFlags, err)
	}

	logger := newLogger(env.Stderr, flags.common.quiet, flags.common.verbose)
	env.Logger = logger
	warnUnknownEnvVars(logger)
	envCfg := loadEnvConfig(logger)

	// Validate worker count early
	if err := validateWorkers(flags.workers); err != nil {
		return err
	}
	workers := flags.workers
	if workers == 0 {
		workers = envCfg.Workers
	}

	timeout, err := resolveTimeout(flags.timeout, envCfg.Timeout)
	if err != nil {
		return err
	}

	// Load configuration, then layer env and flags on top
	cfg, err := loadConfig(flags.common.config, envCfg)
	if err != nil {
		return err
	}
	applyEnvConfig(envCfg, cfg)
	if err := loadRolesFile(&flags.roles); err != nil {
		return err
	}
	mergeFlags(flags, cfg)
	if err := cfg.Validate(); err != nil {
		return err
	}

	params, err := buildConversionParams(cfg, env.Now())
	if err != nil {
		return err
	}
	params.stdin = env.Stdin

	inputPath, err := resolveInputPath(positional, cfg)
	if err != nil {
		return err
	}
	outputDir := resolveOutputDir(flags.output, cfg)

	files, err := discoverFiles(inputPath, outputDir, params.format, env.Now())
	if err != nil {
		return fmt.Errorf("discovering files: %w", err)
	}
	if len(files) == 0 {
		return fmt.Errorf("%w: no %s transcripts found in %s", ErrNoInput, transcriptExt, inputPath)
	}

	size := min(chatlog.ResolvePoolSize(workers), len(files))
	logger.Debug("starting conversion", "files", len(files), "workers", size, "format", string(params.format))

	pool := newConverterPool(size, converterOptions(cfg, timeout, logger)...)
	defer func() { _ = pool.Close() }()

	// A bad style or template fails here, before any file is read.
	conv, err := pool.Acquire()
	if err != nil {
		return err
	}
	pool.Release(conv)

	results := convertBatch(ctx, pool, files, params)

	failed := printResultsWithWriter(results, flags.common.quiet, flags.common.verbose, cfg.Roles.Prefixes, env)
	if failed > 0 {
		return newBatchError(results, failed)
	}

	return nil
}

// loadConfig loads the config named by --config or CHATLOG_CONFIG, falling
// back to the built-in defaults.
func loadConfig(name string, envCfg *envConfig) (*config.Config, error) {
	if name == "" && envCfg != nil {
		name = envCfg.ConfigPath
	}
	if name == "" {
		return config.DefaultConfig(), nil
	}

	cfg, err := config.LoadConfig(name)
	if err != nil {
		if errors.Is(err, config.ErrConfigNotFound) {
			return nil, fmt.Errorf("loading config: %w%s", err, hints.ForConfigNotFound(config.SearchPaths(name)))
		}
		return nil, fmt.Errorf("loading config: %w", err)
	}
	return cfg, nil
}

// resolveInputPath determines the input path from args or config.
func resolveInputPath(args []string, cfg *config.Config) (string, error) {
	if len(args) > 0 {
		return args[0], nil
	}
	if cfg.Input.DefaultDir != "" {
		return cfg.Input.DefaultDir, nil
	}
	return "", ErrNoInput
}

// resolveOutputDir determines the output directory from flag or config.
func resolveOutputDir(flagOutput string, cfg *config.Config) string {
	if flagOutput != "" {
		return flagOutput
	}
	return cfg.Output.DefaultDir
}
