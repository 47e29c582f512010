package main

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"
	flag "github.com/spf13/pflag"

	chatlog "github.com/alnah/go-chatlog"
)

// defaultPreviewCount is the number of messages shown per section.
const defaultPreviewCount = 10

// previewWrap is the word wrap width of styled previews.
const previewWrap = 100

var bannerStyle = lipgloss.NewStyle().
	Bold(true).
	Foreground(lipgloss.Color("86")).
	BorderStyle(lipgloss.RoundedBorder()).
	Padding(0, 1)

// runPreview shows the first messages of a transcript as segmented and
// after the filter chain.
func runPreview(ctx context.Context, args []string, env *Environment) error {
	flags, positional, err := parsePreviewFlags(args, env.Stderr)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return nil
		}
		return fmt.Errorf("%w: %v", ErrInvalidFlags, err)
	}
	if flags.count < 1 {
		return fmt.Errorf("%w: --count must be positive, got %d", ErrInvalidFlags, flags.count)
	}
	if len(positional) == 0 {
		return ErrNoInput
	}

	logger := newLogger(env.Stderr, flags.common.quiet, flags.common.verbose)
	env.Logger = logger
	envCfg := loadEnvConfig(logger)

	cfg, err := loadConfig(flags.common.config, envCfg)
	if err != nil {
		return err
	}
	applyEnvConfig(envCfg, cfg)
	if err := loadRolesFile(&flags.roles); err != nil {
		return err
	}
	mergeRoleFlags(&flags.roles, cfg)
	mergeFilterFlags(&flags.filters, flags.changed, cfg)
	if err := cfg.Validate(); err != nil {
		return err
	}

	path := positional[0]
	raw, err := readTranscript(path, env.Stdin)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrReadTranscript, err)
	}

	conv, err := chatlog.NewConverter(chatlog.WithLogger(logger))
	if err != nil {
		return err
	}
	defer func() { _ = conv.Close() }()

	tr, err := conv.Prepare(ctx, chatlog.Input{
		Raw:          raw,
		RolePrefixes: cfg.Roles.Prefixes,
		Filters:      buildFilters(cfg),
	})
	if err != nil {
		return &hintedError{err: err, hint: errorHint(err, cfg.Roles.Prefixes)}
	}

	banner := fmt.Sprintf("%s · %s · %d messages · %s", path, tr.Encoding, len(tr.Original), strings.Join(tr.Roles, ", "))
	md := previewMarkdown(tr, flags.count)

	if flags.plain {
		fmt.Fprintln(env.Stdout, banner)
		fmt.Fprintln(env.Stdout)
		fmt.Fprint(env.Stdout, md)
		return nil
	}

	rendered, err := renderMarkdown(md)
	if err != nil {
		return err
	}
	fmt.Fprintln(env.Stdout, bannerStyle.Render(banner))
	fmt.Fprint(env.Stdout, rendered)
	return nil
}

// renderMarkdown styles md for the terminal, falling back to plain styles
// when stdout is not a terminal.
func renderMarkdown(md string) (string, error) {
	r, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(previewWrap),
	)
	if err != nil {
		return "", fmt.Errorf("creating markdown renderer: %w", err)
	}
	return r.Render(md)
}

// previewMarkdown lays out the first n original and cleaned messages.
func previewMarkdown(tr *chatlog.Transcript, n int) string {
	var b strings.Builder
	writeSection(&b, "Original", tr.Original, n)
	writeSection(&b, "Cleaned", tr.Cleaned, n)
	return b.String()
}

func writeSection(b *strings.Builder, title string, messages []chatlog.Message, n int) {
	shown := min(n, len(messages))
	fmt.Fprintf(b, "## %s (%d of %d)\n\n", title, shown, len(messages))
	for i, m := range messages[:shown] {
		fence := codeFence(m.Content)
		fmt.Fprintf(b, "**%d. %s**\n\n%stext\n%s\n%s\n\n", i+1, m.Role, fence, m.Content, fence)
	}
}

// codeFence returns a backtick fence longer than any backtick run in s, so
// message content is shown verbatim.
func codeFence(s string) string {
	longest, run := 0, 0
	for _, r := range s {
		if r == '`' {
			run++
			longest = max(longest, run)
			continue
		}
		run = 0
	}
	return strings.Repeat("`", max(3, longest+1))
}
