package main

import (
	"fmt"
	"io"
)

// printUsage prints the main usage message.
func printUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: chatlog <command> [flags] [args]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Turn chat transcripts into clean text, EPUB, HTML or PDF.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Commands:")
	for _, c := range commands {
		fmt.Fprintf(w, "  %-10s %s\n", c.name, c.summary)
	}
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Run 'chatlog help <command>' for details on a specific command.")
}

// printConvertUsage prints usage for the convert command.
func printConvertUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: chatlog convert <input> [flags]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Convert a transcript, a directory of .txt transcripts, or stdin (-).")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Arguments:")
	fmt.Fprintln(w, "  input    .txt file, directory or - (optional if config has input.defaultDir)")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Input/Output:")
	fmt.Fprintln(w, "  -o, --output <path>       Output file or directory")
	fmt.Fprintln(w, "  -f, --format <s>          Output format: txt, epub, html, pdf (default: epub)")
	fmt.Fprintln(w, "  -c, --config <name>       Config file name or path")
	fmt.Fprintln(w, "  -w, --workers <n>         Parallel workers (0 = auto)")
	fmt.Fprintln(w, "  -t, --timeout <d>         PDF generation timeout (e.g., 30s, 2m)")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Roles:")
	fmt.Fprintln(w, "  -r, --role <s>            Role prefix, e.g. \"您：\" (repeatable)")
	fmt.Fprintln(w, "      --roles-file <path>   File with one role prefix per line")
	fmt.Fprintln(w, "      --user-marker <s>     Text identifying user roles")
	fmt.Fprintln(w, "      --user-tokens <list>  Comma-separated user role tokens")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Cleaning:")
	fmt.Fprintln(w, "      --keep-comments       Keep <!-- --> comments")
	fmt.Fprintln(w, "      --keep-details        Keep <details> blocks")
	fmt.Fprintln(w, "      --strip-tags          Remove remaining HTML tags")
	fmt.Fprintln(w, "      --html-to-markdown    Convert HTML markup to Markdown")
	fmt.Fprintln(w, "      --max-newlines <n>    Cap consecutive newlines (0 = off)")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Text output:")
	fmt.Fprintln(w, "      --no-separators       Omit the --- line between messages")
	fmt.Fprintln(w, "      --text-max-newlines <n>  Cap consecutive newlines (0 = off)")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Book (epub, html, pdf):")
	fmt.Fprintln(w, "      --title <s>           Book title")
	fmt.Fprintln(w, "      --author <s>          Book author")
	fmt.Fprintln(w, "      --language <s>        Language tag (default: zh-TW)")
	fmt.Fprintln(w, "      --description <s>     Book description")
	fmt.Fprintln(w, "      --date <s>            Date: \"auto\", \"auto:FORMAT\", or literal")
	fmt.Fprintln(w, "                            Tokens: YYYY, YY, MMMM, MMM, MM, M, DD, D, HH, mm, ss")
	fmt.Fprintln(w, "                            Presets: iso, datetime, european, us, long, zh")
	fmt.Fprintln(w, "      --chapter-mode <s>    batch, per-message, user-start")
	fmt.Fprintln(w, "      --chapter-size <n>    Messages per chapter in batch mode (default: 50)")
	fmt.Fprintln(w, "      --book-max-newlines <n>  Cap consecutive newlines in chapters")
	fmt.Fprintln(w, "      --markdown            Render message content as Markdown")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Page (pdf):")
	fmt.Fprintln(w, "  -p, --page-size <s>       Page size: letter, a4, legal")
	fmt.Fprintln(w, "      --orientation <s>     Orientation: portrait, landscape")
	fmt.Fprintln(w, "      --margin <f>          Margin in inches (0.25-3.0)")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Footer (pdf):")
	fmt.Fprintln(w, "      --footer-position <s> Position: left, center, right")
	fmt.Fprintln(w, "      --footer-text <s>     Custom footer text")
	fmt.Fprintln(w, "      --footer-page-number  Show page numbers")
	fmt.Fprintln(w, "      --no-footer           Disable footer")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Styling:")
	fmt.Fprintln(w, "      --style <s>           Style name or CSS file path")
	fmt.Fprintln(w, "      --template <s>        Template set name")
	fmt.Fprintln(w, "      --asset-path <dir>    Custom styles/ and templates/ directory")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Output Control:")
	fmt.Fprintln(w, "  -q, --quiet               Only show errors")
	fmt.Fprintln(w, "  -v, --verbose             Show detailed timing")
}

// printPreviewUsage prints usage for the preview command.
func printPreviewUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: chatlog preview <input> [flags]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Show the first messages of a transcript before and after cleaning.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Flags:")
	fmt.Fprintln(w, "  -n, --count <n>           Messages to show (default: 10)")
	fmt.Fprintln(w, "      --plain               Print Markdown without terminal styling")
	fmt.Fprintln(w, "  -c, --config <name>       Config file name or path")
	fmt.Fprintln(w, "  -r, --role <s>            Role prefix (repeatable)")
	fmt.Fprintln(w, "      --roles-file <path>   File with one role prefix per line")
	fmt.Fprintln(w, "      --keep-comments, --keep-details, --strip-tags,")
	fmt.Fprintln(w, "      --html-to-markdown, --max-newlines <n>  Same as convert")
}

// printInitUsage prints usage for the init command.
func printInitUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: chatlog init [path] [--force]")
	fmt.Fprintln(w)
	fmt.Fprintf(w, "Write the default configuration to path (default: %s).\n", defaultConfigFile)
	fmt.Fprintln(w, "Use it with 'chatlog convert --config <path>'.")
}

// runHelp prints help for a specific command.
func runHelp(args []string, env *Environment) error {
	if len(args) == 0 {
		printUsage(env.Stdout)
		return nil
	}

	switch args[0] {
	case "convert":
		printConvertUsage(env.Stdout)
	case "preview":
		printPreviewUsage(env.Stdout)
	case "init":
		printInitUsage(env.Stdout)
	case "doctor":
		fmt.Fprintln(env.Stdout, "Usage: chatlog doctor [--json]")
		fmt.Fprintln(env.Stdout)
		fmt.Fprintln(env.Stdout, "Check Chrome, sandbox and temp directory for PDF output.")
	case "completion":
		printCompletionUsage(env.Stdout)
	case "version":
		fmt.Fprintln(env.Stdout, "Usage: chatlog version")
		fmt.Fprintln(env.Stdout)
		fmt.Fprintln(env.Stdout, "Show version information.")
	case "help":
		fmt.Fprintln(env.Stdout, "Usage: chatlog help [command]")
		fmt.Fprintln(env.Stdout)
		fmt.Fprintln(env.Stdout, "Show help for a command.")
	default:
		printUsage(env.Stderr)
		return fmt.Errorf("%w: %s", ErrUnknownCommand, args[0])
	}
	return nil
}
