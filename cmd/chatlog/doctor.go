package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/go-rod/rod/lib/launcher"
	flag "github.com/spf13/pflag"

	chatlog "github.com/alnah/go-chatlog"
	"github.com/alnah/go-chatlog/internal/config"
	"github.com/alnah/go-chatlog/internal/fileutil"
)

// Report status values.
const (
	statusReady    = "ready"
	statusWarnings = "warnings"
	statusErrors   = "errors"
)

// level grades a single check.
type level string

const (
	levelOK    level = "ok"
	levelWarn  level = "warn"
	levelError level = "error"
)

// Report sections, in print order.
const (
	sectionBrowser = "PDF browser"
	sectionRuntime = "Runtime"
	sectionOutput  = "Output"
	sectionConfig  = "Config"
)

var sections = []string{sectionBrowser, sectionRuntime, sectionOutput, sectionConfig}

// check is one line of the doctor report.
type check struct {
	Section string `json:"section"`
	Name    string `json:"name"`
	Level   level  `json:"level"`
	Detail  string `json:"detail"`
}

// doctorReport collects the checks run by "chatlog doctor".
type doctorReport struct {
	Status string  `json:"status"`
	Checks []check `json:"checks"`
}

func (r *doctorReport) add(section, name string, lvl level, detail string) {
	r.Checks = append(r.Checks, check{Section: section, Name: name, Level: lvl, Detail: detail})
}

// settle derives the overall status from the worst check.
func (r *doctorReport) settle() {
	r.Status = statusReady
	for _, c := range r.Checks {
		switch c.Level {
		case levelError:
			r.Status = statusErrors
			return
		case levelWarn:
			r.Status = statusWarnings
		}
	}
}

// runDoctorCmd executes the doctor command and returns an exit code:
// 0 when ready (warnings included), 1 when a check failed.
func runDoctorCmd(args []string, env *Environment) int {
	var jsonOutput bool
	fs := newDoctorFlagSet(&jsonOutput)
	fs.SetOutput(env.Stderr)
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return ExitSuccess
		}
		printError(env.Stderr, fmt.Errorf("%w: %v", ErrInvalidFlags, err))
		return ExitUsage
	}

	report := runDoctor()

	if jsonOutput {
		enc := json.NewEncoder(env.Stdout)
		enc.SetIndent("", "  ")
		_ = enc.Encode(report)
	} else {
		printDoctorReport(env.Stdout, report)
	}

	if report.Status == statusErrors {
		return ExitGeneral
	}
	return ExitSuccess
}

func runDoctor() *doctorReport {
	r := &doctorReport{}
	noSandbox := os.Getenv("ROD_NO_SANDBOX") == "1"

	checkBrowser(r, os.Getenv("ROD_BROWSER_BIN"), noSandbox)
	checkRuntime(r, noSandbox)
	checkOutput(r)
	checkConfig(r)

	r.settle()
	return r
}

// checkBrowser looks for the Chrome binary used by PDF output. Only PDF
// needs it, so problems are warnings.
func checkBrowser(r *doctorReport, bin string, noSandbox bool) {
	if bin == "" {
		var found bool
		if bin, found = launcher.LookPath(); !found {
			r.add(sectionBrowser, "chrome", levelWarn, "not found, PDF output unavailable (install Chrome or set ROD_BROWSER_BIN)")
			return
		}
	}
	if !fileutil.FileExists(bin) {
		r.add(sectionBrowser, "chrome", levelWarn, bin+" does not exist, PDF output unavailable")
		return
	}
	r.add(sectionBrowser, "chrome", levelOK, bin)

	out, err := exec.Command(bin, "--version").Output() // #nosec G204 -- detected browser path
	if err != nil {
		r.add(sectionBrowser, "version", levelWarn, err.Error())
	} else {
		r.add(sectionBrowser, "version", levelOK, strings.TrimSpace(string(out)))
	}

	if noSandbox {
		r.add(sectionBrowser, "sandbox", levelOK, "disabled (ROD_NO_SANDBOX=1)")
	} else {
		r.add(sectionBrowser, "sandbox", levelOK, "enabled")
	}
}

// checkRuntime reports the platform and warns when a container or CI run
// keeps the Chrome sandbox, which usually fails there.
func checkRuntime(r *doctorReport, noSandbox bool) {
	r.add(sectionRuntime, "platform", levelOK, runtime.GOOS+"/"+runtime.GOARCH)

	container, hint := isContainer()
	if container {
		r.add(sectionRuntime, "container", levelOK, hint)
	}
	ci := detectCI()
	if ci != "" {
		r.add(sectionRuntime, "ci", levelOK, ci)
	}
	if (container || ci != "") && !noSandbox {
		r.add(sectionRuntime, "sandbox", levelWarn, "container or CI detected, set ROD_NO_SANDBOX=1 for PDF output")
	}
}

// detectCI returns the first CI marker variable that is set.
func detectCI() string {
	for _, name := range []string{"CI", "GITHUB_ACTIONS", "GITLAB_CI", "JENKINS_URL", "CIRCLECI"} {
		if os.Getenv(name) != "" {
			return name
		}
	}
	return ""
}

// isContainer returns whether chatlog runs in a container and the signal
// that gave it away.
func isContainer() (bool, string) {
	switch {
	case os.Getenv("CHATLOG_CONTAINER") == "1":
		return true, "CHATLOG_CONTAINER=1"
	case fileutil.FileExists("/.dockerenv"):
		return true, "/.dockerenv"
	case os.Getenv("container") != "":
		return true, "container=" + os.Getenv("container")
	case os.Getenv("KUBERNETES_SERVICE_HOST") != "":
		return true, "KUBERNETES_SERVICE_HOST"
	}
	return false, ""
}

// checkOutput covers what every format needs: a writable temp directory for
// atomic writes and the embedded styles.
func checkOutput(r *doctorReport) {
	formats := make([]string, 0, len(chatlog.Formats()))
	for _, f := range chatlog.Formats() {
		formats = append(formats, string(f))
	}
	r.add(sectionOutput, "formats", levelOK, strings.Join(formats, ", "))

	tmp := os.TempDir()
	f, err := os.CreateTemp(tmp, "chatlog-doctor-*")
	if err != nil {
		r.add(sectionOutput, "temp", levelError, tmp+" is not writable")
	} else {
		_ = f.Close()
		_ = os.Remove(f.Name())
		r.add(sectionOutput, "temp", levelOK, tmp)
	}

	if styles := chatlog.Styles(); len(styles) > 0 {
		r.add(sectionOutput, "styles", levelOK, strings.Join(styles, ", "))
	} else {
		r.add(sectionOutput, "styles", levelError, "no embedded styles")
	}
}

// checkConfig validates the config file "--config chatlog" would load.
func checkConfig(r *doctorReport) {
	name := strings.TrimSuffix(defaultConfigFile, filepath.Ext(defaultConfigFile))
	for _, p := range config.SearchPaths(name) {
		if !fileutil.FileExists(p) {
			continue
		}
		if _, err := config.LoadConfig(p); err != nil {
			r.add(sectionConfig, "file", levelError, fmt.Sprintf("%s: %v", p, err))
		} else {
			r.add(sectionConfig, "file", levelOK, p)
		}
		return
	}
	r.add(sectionConfig, "file", levelOK, "none, using defaults")
}

var levelTags = map[level]string{levelOK: "[OK]", levelWarn: "[WARN]", levelError: "[ERROR]"}

// printDoctorReport prints the checks grouped by section.
func printDoctorReport(w io.Writer, r *doctorReport) {
	fmt.Fprintln(w, "chatlog doctor")
	for _, section := range sections {
		header := false
		for _, c := range r.Checks {
			if c.Section != section {
				continue
			}
			if !header {
				fmt.Fprintf(w, "\n%s\n", section)
				header = true
			}
			fmt.Fprintf(w, "  %-7s %s: %s\n", levelTags[c.Level], c.Name, c.Detail)
		}
	}
	fmt.Fprintln(w)

	switch r.Status {
	case statusReady:
		fmt.Fprintln(w, "Status: Ready to convert")
	case statusWarnings:
		fmt.Fprintln(w, "Status: Ready with warnings")
	case statusErrors:
		fmt.Fprintln(w, "Status: Not ready (see errors above)")
	}
}
