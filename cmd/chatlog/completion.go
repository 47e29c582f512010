package main

import (
	"errors"
	"fmt"
	"io"
	"strings"

	flag "github.com/spf13/pflag"

	chatlog "github.com/alnah/go-chatlog"
	"github.com/alnah/go-chatlog/internal/chapter"
)

// Shell is a shell chatlog can generate a completion script for.
type Shell string

// Supported shells.
const (
	ShellBash Shell = "bash"
	ShellZsh  Shell = "zsh"
	ShellFish Shell = "fish"
)

// Shells lists the supported shells.
var Shells = []Shell{ShellBash, ShellZsh, ShellFish}

// ErrUnsupportedShell is returned when no generator exists for a shell.
var ErrUnsupportedShell = errors.New("unsupported shell")

// valueKind tells a shell what to offer after a flag.
type valueKind int

const (
	valueNone  valueKind = iota // boolean flag
	valueFree                   // any text
	valueEnum                   // one of compFlag.values
	valueFile                   // file, filtered by compFlag.exts when set
	valueDir                    // directory
)

// compFlag is a flag as the completion scripts see it.
type compFlag struct {
	long       string
	short      string
	usage      string
	kind       valueKind
	values     []string
	exts       []string
	repeatable bool
}

// compCommand is a subcommand as the completion scripts see it.
type compCommand struct {
	name    string
	summary string
	flags   []compFlag
	args    []string // completions for positional arguments
	exts    []string // transcript extensions for file arguments
}

// flagHint overrides the value kind pflag reports for a flag.
type flagHint struct {
	kind   valueKind
	values func() []string
	exts   []string
}

var flagHints = map[string]flagHint{
	"format":          {kind: valueEnum, values: formatValues},
	"chapter-mode":    {kind: valueEnum, values: chapterModeValues},
	"style":           {kind: valueEnum, values: chatlog.Styles},
	"page-size":       {kind: valueEnum, values: constValues(chatlog.PageSizeLetter, chatlog.PageSizeA4, chatlog.PageSizeLegal)},
	"orientation":     {kind: valueEnum, values: constValues(chatlog.OrientationPortrait, chatlog.OrientationLandscape)},
	"footer-position": {kind: valueEnum, values: constValues("left", "center", "right")},
	"config":          {kind: valueFile, exts: []string{"yaml", "yml"}},
	"roles-file":      {kind: valueFile},
	"output":          {kind: valueDir},
	"asset-path":      {kind: valueDir},
}

func constValues(v ...string) func() []string {
	return func() []string { return v }
}

func formatValues() []string {
	var names []string
	for _, f := range chatlog.Formats() {
		names = append(names, string(f))
	}
	return names
}

func chapterModeValues() []string {
	var names []string
	for _, m := range chapter.Modes() {
		names = append(names, string(m))
	}
	return names
}

// completionFlags reads the flags registered on fs.
func completionFlags(fs *flag.FlagSet) []compFlag {
	var flags []compFlag
	fs.VisitAll(func(f *flag.Flag) {
		cf := compFlag{long: f.Name, short: f.Shorthand, usage: f.Usage, kind: valueFree}
		switch f.Value.Type() {
		case "bool":
			cf.kind = valueNone
		case "stringArray", "stringSlice":
			cf.repeatable = true
		}
		if hint, ok := flagHints[f.Name]; ok {
			cf.kind = hint.kind
			cf.exts = hint.exts
			if hint.values != nil {
				cf.values = hint.values()
			}
		}
		flags = append(flags, cf)
	})
	return flags
}

// completionCommands builds the command table from the real flag sets, so
// the scripts follow any flag change.
func completionCommands() []compCommand {
	var (
		force, jsonOutput bool
		shells            []string
		names             []string
	)
	for _, s := range Shells {
		shells = append(shells, string(s))
	}
	for _, c := range commands {
		names = append(names, c.name)
	}

	flagSets := map[string]*flag.FlagSet{
		"convert": newConvertFlagSet(&convertFlags{}),
		"preview": newPreviewFlagSet(&previewFlags{}),
		"init":    newInitFlagSet(&force),
		"doctor":  newDoctorFlagSet(&jsonOutput),
	}

	out := make([]compCommand, 0, len(commands))
	for _, c := range commands {
		cc := compCommand{name: c.name, summary: c.summary}
		if fs, ok := flagSets[c.name]; ok {
			cc.flags = completionFlags(fs)
		}
		switch c.name {
		case "convert", "preview":
			cc.exts = []string{strings.TrimPrefix(transcriptExt, ".")}
		case "completion":
			cc.args = shells
		case "help":
			cc.args = names
		}
		out = append(out, cc)
	}
	return out
}

// GenerateCompletion writes the completion script for shell to w.
func GenerateCompletion(w io.Writer, shell Shell) error {
	var script string
	switch shell {
	case ShellBash:
		script = bashScript(completionCommands())
	case ShellZsh:
		script = zshScript(completionCommands())
	case ShellFish:
		script = fishScript(completionCommands())
	default:
		return fmt.Errorf("%w: %q (supported: bash, zsh, fish)", ErrUnsupportedShell, shell)
	}
	_, err := io.WriteString(w, script)
	return err
}

// runCompletion handles "chatlog completion <shell>".
func runCompletion(args []string, env *Environment) error {
	if len(args) == 0 {
		printCompletionUsage(env.Stdout)
		return nil
	}
	if err := GenerateCompletion(env.Stdout, Shell(args[0])); err != nil {
		if errors.Is(err, ErrUnsupportedShell) {
			return fmt.Errorf("%w: %w", ErrInvalidFlags, err)
		}
		return err
	}
	return nil
}

func printCompletionUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: chatlog completion <shell>")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Print a completion script for bash, zsh or fish.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Installation:")
	fmt.Fprintln(w, "  bash   eval \"$(chatlog completion bash)\"          # in ~/.bashrc")
	fmt.Fprintln(w, "  zsh    eval \"$(chatlog completion zsh)\"           # in ~/.zshrc, after compinit")
	fmt.Fprintln(w, "  fish   chatlog completion fish > ~/.config/fish/completions/chatlog.fish")
}

// ---------------------------------------------------------------------------
// bash
// ---------------------------------------------------------------------------

func bashScript(cmds []compCommand) string {
	var b strings.Builder
	names := commandNames(cmds)

	b.WriteString("# bash completion for chatlog\n\n")
	b.WriteString("_chatlog_completions() {\n")
	b.WriteString("    local cur prev cmd=\"\" i\n")
	b.WriteString("    cur=\"${COMP_WORDS[COMP_CWORD]}\"\n")
	b.WriteString("    prev=\"${COMP_WORDS[COMP_CWORD-1]}\"\n")
	b.WriteString("    for ((i = 1; i < COMP_CWORD; i++)); do\n")
	fmt.Fprintf(&b, "        case \"${COMP_WORDS[i]}\" in\n            %s) cmd=\"${COMP_WORDS[i]}\"; break ;;\n        esac\n", strings.Join(names, "|"))
	b.WriteString("    done\n")
	b.WriteString("    if [[ -z \"$cmd\" ]]; then\n")
	b.WriteString("        if [[ $COMP_CWORD -eq 1 && \"$cur\" != -* ]]; then\n")
	fmt.Fprintf(&b, "            COMPREPLY=($(compgen -W %q -- \"$cur\") $(compgen -f -X '!*%s' -- \"$cur\") $(compgen -d -- \"$cur\"))\n", strings.Join(names, " "), transcriptExt)
	b.WriteString("            return\n")
	b.WriteString("        fi\n")
	b.WriteString("        cmd=convert\n")
	b.WriteString("    fi\n\n")
	b.WriteString("    case \"$cmd\" in\n")

	for _, c := range cmds {
		fmt.Fprintf(&b, "    %s)\n", c.name)
		if values := bashFlagValues(c.flags); values != "" {
			b.WriteString("        case \"$prev\" in\n")
			b.WriteString(values)
			b.WriteString("        esac\n")
		}
		if len(c.flags) > 0 {
			fmt.Fprintf(&b, "        if [[ \"$cur\" == -* ]]; then\n            COMPREPLY=($(compgen -W %q -- \"$cur\"))\n            return\n        fi\n", strings.Join(flagWords(c.flags), " "))
		}
		switch {
		case len(c.exts) > 0:
			fmt.Fprintf(&b, "        COMPREPLY=($(compgen -f -X %s -- \"$cur\") $(compgen -d -- \"$cur\"))\n", bashGlob(c.exts))
		case len(c.args) > 0:
			fmt.Fprintf(&b, "        COMPREPLY=($(compgen -W %q -- \"$cur\"))\n", strings.Join(c.args, " "))
		}
		b.WriteString("        ;;\n")
	}

	b.WriteString("    esac\n")
	b.WriteString("}\n\n")
	b.WriteString("complete -o filenames -F _chatlog_completions chatlog\n")
	return b.String()
}

// bashFlagValues renders the case arms completing flag values.
func bashFlagValues(flags []compFlag) string {
	var b strings.Builder
	for _, f := range flags {
		if f.kind == valueNone {
			continue
		}
		fmt.Fprintf(&b, "            %s)\n", strings.Join(flagSpellings(f), "|"))
		switch f.kind {
		case valueEnum:
			fmt.Fprintf(&b, "                COMPREPLY=($(compgen -W %q -- \"$cur\"))\n", strings.Join(f.values, " "))
		case valueFile:
			if len(f.exts) > 0 {
				fmt.Fprintf(&b, "                COMPREPLY=($(compgen -f -X %s -- \"$cur\") $(compgen -d -- \"$cur\"))\n", bashGlob(f.exts))
			} else {
				b.WriteString("                COMPREPLY=($(compgen -f -- \"$cur\"))\n")
			}
		case valueDir:
			b.WriteString("                COMPREPLY=($(compgen -d -- \"$cur\"))\n")
		}
		b.WriteString("                return ;;\n")
	}
	return b.String()
}

// bashGlob builds the compgen -X exclusion for the given extensions.
func bashGlob(exts []string) string {
	if len(exts) == 1 {
		return "'!*." + exts[0] + "'"
	}
	return "'!*.@(" + strings.Join(exts, "|") + ")'"
}

// ---------------------------------------------------------------------------
// zsh
// ---------------------------------------------------------------------------

func zshScript(cmds []compCommand) string {
	var b strings.Builder

	b.WriteString("#compdef chatlog\n\n")
	b.WriteString("_chatlog() {\n")
	b.WriteString("    local -a commands\n")
	b.WriteString("    commands=(\n")
	for _, c := range cmds {
		fmt.Fprintf(&b, "        '%s:%s'\n", c.name, zshQuote(c.summary))
	}
	b.WriteString("    )\n\n")
	b.WriteString("    local cmd=convert\n")
	fmt.Fprintf(&b, "    case $words[2] in\n        %s)\n", strings.Join(commandNames(cmds), "|"))
	b.WriteString("            cmd=$words[2]\n")
	b.WriteString("            shift words\n")
	b.WriteString("            (( CURRENT-- ))\n")
	b.WriteString("            ;;\n")
	b.WriteString("        *)\n")
	b.WriteString("            if (( CURRENT == 2 )) && [[ $words[2] != -* ]]; then\n")
	b.WriteString("                _describe -t commands 'chatlog command' commands\n")
	fmt.Fprintf(&b, "                _files -g '*%s'\n", transcriptExt)
	b.WriteString("                return\n")
	b.WriteString("            fi\n")
	b.WriteString("            ;;\n")
	b.WriteString("    esac\n\n")
	b.WriteString("    case $cmd in\n")

	for _, c := range cmds {
		specs := make([]string, 0, len(c.flags)+1)
		for _, f := range c.flags {
			specs = append(specs, zshFlagSpec(f))
		}
		switch {
		case len(c.exts) > 0:
			specs = append(specs, "'*:transcript:_files -g \"*.("+strings.Join(c.exts, "|")+")\"'")
		case len(c.args) > 0:
			specs = append(specs, "'1:argument:("+strings.Join(c.args, " ")+")'")
		}
		if len(specs) == 0 {
			continue
		}
		fmt.Fprintf(&b, "        %s)\n", c.name)
		b.WriteString("            _arguments -s \\\n                ")
		b.WriteString(strings.Join(specs, " \\\n                "))
		b.WriteString("\n            ;;\n")
	}

	b.WriteString("    esac\n")
	b.WriteString("}\n\n")
	b.WriteString("if [ \"$funcstack[1]\" = \"_chatlog\" ]; then\n")
	b.WriteString("    _chatlog \"$@\"\n")
	b.WriteString("else\n")
	b.WriteString("    compdef _chatlog chatlog\n")
	b.WriteString("fi\n")
	return b.String()
}

// zshFlagSpec renders one _arguments spec, e.g.
// '(-f --format)'{-f,--format}'[output format]:value:(txt epub)'.
func zshFlagSpec(f compFlag) string {
	desc := "[" + zshQuote(f.usage) + "]"
	action := ""
	switch f.kind {
	case valueFree:
		action = ":value: "
	case valueEnum:
		action = ":value:(" + strings.Join(f.values, " ") + ")"
	case valueFile:
		if len(f.exts) > 0 {
			action = ":file:_files -g \"*.(" + strings.Join(f.exts, "|") + ")\""
		} else {
			action = ":file:_files"
		}
	case valueDir:
		action = ":directory:_files -/"
	}

	repeat := ""
	if f.repeatable {
		repeat = "*"
	}
	if f.short == "" {
		return "'" + repeat + "--" + f.long + desc + action + "'"
	}
	exclusion := "(-" + f.short + " --" + f.long + ")"
	if f.repeatable {
		exclusion = ""
	}
	return "'" + exclusion + repeat + "'{-" + f.short + ",--" + f.long + "}'" + desc + action + "'"
}

// zshQuote escapes text for a single-quoted _arguments description.
func zshQuote(s string) string {
	return strings.NewReplacer(
		"'", `'\''`,
		"[", `\[`,
		"]", `\]`,
		":", `\:`,
	).Replace(s)
}

// ---------------------------------------------------------------------------
// fish
// ---------------------------------------------------------------------------

func fishScript(cmds []compCommand) string {
	var b strings.Builder
	names := strings.Join(commandNames(cmds), " ")

	b.WriteString("# fish completion for chatlog\n\n")
	b.WriteString("function __fish_chatlog_needs_command\n")
	b.WriteString("    set -l words (commandline -opc)\n")
	b.WriteString("    test (count $words) -eq 1\n")
	b.WriteString("end\n\n")
	b.WriteString("# Without a known command, arguments belong to convert.\n")
	b.WriteString("function __fish_chatlog_using_command\n")
	b.WriteString("    set -l words (commandline -opc)\n")
	b.WriteString("    if test (count $words) -lt 2\n")
	b.WriteString("        test \"$argv[1]\" = convert\n")
	b.WriteString("        return\n")
	b.WriteString("    end\n")
	fmt.Fprintf(&b, "    if contains -- $words[2] %s\n", names)
	b.WriteString("        test \"$words[2]\" = \"$argv[1]\"\n")
	b.WriteString("    else\n")
	b.WriteString("        test \"$argv[1]\" = convert\n")
	b.WriteString("    end\n")
	b.WriteString("end\n\n")
	b.WriteString("complete -c chatlog -f\n")

	for _, c := range cmds {
		fmt.Fprintf(&b, "complete -c chatlog -n __fish_chatlog_needs_command -a %s -d %s\n", c.name, fishQuote(c.summary))
	}

	for _, c := range cmds {
		b.WriteString("\n")
		cond := fishQuote("__fish_chatlog_using_command " + c.name)
		for _, f := range c.flags {
			line := "complete -c chatlog -n " + cond
			if f.short != "" {
				line += " -s " + f.short
			}
			line += " -l " + f.long + " -d " + fishQuote(f.usage)
			switch f.kind {
			case valueFree:
				line += " -x"
			case valueEnum:
				line += " -x -a " + fishQuote(strings.Join(f.values, " "))
			case valueFile:
				line += " -r -F"
			case valueDir:
				line += " -x -a '(__fish_complete_directories)'"
			}
			b.WriteString(line + "\n")
		}
		switch {
		case len(c.exts) > 0:
			fmt.Fprintf(&b, "complete -c chatlog -n %s -F\n", cond)
		case len(c.args) > 0:
			fmt.Fprintf(&b, "complete -c chatlog -n %s -a %s\n", cond, fishQuote(strings.Join(c.args, " ")))
		}
	}
	return b.String()
}

// fishQuote single-quotes s for fish.
func fishQuote(s string) string {
	return "'" + strings.NewReplacer(`\`, `\\`, "'", `\'`).Replace(s) + "'"
}

// ---------------------------------------------------------------------------
// shared
// ---------------------------------------------------------------------------

func commandNames(cmds []compCommand) []string {
	names := make([]string, 0, len(cmds))
	for _, c := range cmds {
		names = append(names, c.name)
	}
	return names
}

// flagSpellings returns "--long" and, when set, "-s".
func flagSpellings(f compFlag) []string {
	if f.short == "" {
		return []string{"--" + f.long}
	}
	return []string{"-" + f.short, "--" + f.long}
}

func flagWords(flags []compFlag) []string {
	var words []string
	for _, f := range flags {
		words = append(words, flagSpellings(f)...)
	}
	return words
}
