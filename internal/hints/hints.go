// Package hints builds actionable suffixes for CLI error messages.
// Every hint is formatted as "\n  hint: <text>".
package hints

import (
	"os"
	"strings"

	"github.com/alnah/go-chatlog/internal/fileutil"
)

// IsInContainer detects Docker-like environments through /.dockerenv.
var IsInContainer = func() bool {
	return fileutil.FileExists("/.dockerenv")
}

// ForBrowserConnect returns hints for Chrome launch failures during PDF
// output, suggesting the environment variables go-rod reads.
func ForBrowserConnect() string {
	var hints []string

	inCI := os.Getenv("CI") != "" ||
		os.Getenv("GITHUB_ACTIONS") != "" ||
		os.Getenv("GITLAB_CI") != ""

	if (inCI || IsInContainer()) && os.Getenv("ROD_NO_SANDBOX") != "1" {
		hints = append(hints, "set ROD_NO_SANDBOX=1 for Docker/CI")
	}
	if os.Getenv("ROD_BROWSER_BIN") == "" {
		hints = append(hints, "set ROD_BROWSER_BIN to use an installed Chrome")
	}
	hints = append(hints, "or pick --format epub, html or txt, which need no browser")

	return formatHints(hints)
}

// ForTimeout suggests a longer timeout.
func ForTimeout() string {
	return format("for long transcripts, raise --timeout")
}

// ForConfigNotFound suggests --config or the user config location.
func ForConfigNotFound(searchedPaths []string) string {
	hint := "use --config /path/to/file.yaml or run 'chatlog init'"
	for _, p := range searchedPaths {
		if strings.Contains(p, ".config/go-chatlog") || strings.Contains(p, "go-chatlog") {
			hint += " or create " + p
			break
		}
	}
	return format(hint)
}

// ForOutputDirectory returns hints for output directory creation errors.
func ForOutputDirectory() string {
	return format("check parent directory exists and is writable")
}

// ForStyleNotFound lists the available styles.
func ForStyleNotFound(available []string) string {
	if len(available) == 0 {
		return ""
	}
	return format("available: " + strings.Join(available, ", "))
}

// ForFormatNotRecognized shows the prefixes that were tried and how to
// change them.
func ForFormatNotRecognized(prefixes []string) string {
	if len(prefixes) == 0 {
		return format("configure role prefixes with --role or roles.prefixes")
	}
	quoted := make([]string, len(prefixes))
	for i, p := range prefixes {
		quoted[i] = "\"" + p + "\""
	}
	return format("no line starts with " + strings.Join(quoted, ", ") +
		"; set the prefixes your transcript uses with --role (repeatable)")
}

func format(hint string) string {
	if hint == "" {
		return ""
	}
	return "\n  hint: " + hint
}

func formatHints(hints []string) string {
	if len(hints) == 0 {
		return ""
	}
	return format(strings.Join(hints, "; "))
}
