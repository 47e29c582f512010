package main

import (
	"io"

	flag "github.com/spf13/pflag"
)

// commonFlags holds flags shared across commands.
type commonFlags struct {
	config  string
	quiet   bool
	verbose bool
}

// roleFlags holds transcript segmentation flags.
type roleFlags struct {
	prefixes   []string
	file       string // one prefix per line
	userMarker string
	userTokens []string
}

// filterFlags holds cleaning stage flags.
type filterFlags struct {
	keepComments   bool
	keepDetails    bool
	stripTags      bool
	htmlToMarkdown bool
	maxNewlines    int
}

// textFlags holds flat text output flags.
type textFlags struct {
	noSeparators bool
	maxNewlines  int
}

// bookFlags holds e-book metadata and chapter flags.
type bookFlags struct {
	title       string
	author      string
	language    string
	description string
	date        string
	chapterMode string
	chapterSize int
	maxNewlines int
	markdown    bool
}

// pageFlags holds PDF page layout flags.
type pageFlags struct {
	size        string
	orientation string
	margin      float64
}

// footerFlags holds PDF footer flags.
type footerFlags struct {
	position   string
	text       string
	pageNumber bool
	disabled   bool
}

// assetFlags holds style and template flags.
type assetFlags struct {
	style     string // name or path of a CSS file
	template  string // template set name
	assetPath string // custom asset directory
}

// convertFlags holds all flags for the convert command.
type convertFlags struct {
	common  commonFlags
	output  string
	format  string
	workers int
	timeout string
	roles   roleFlags
	filters filterFlags
	text    textFlags
	book    bookFlags
	page    pageFlags
	footer  footerFlags
	assets  assetFlags

	// changed reports whether a flag was set on the command line, so that
	// zero values (--max-newlines 0) can override config.
	changed func(name string) bool
}

// addCommonFlags adds common flags to a FlagSet.
func addCommonFlags(fs *flag.FlagSet, f *commonFlags) {
	fs.StringVarP(&f.config, "config", "c", "", "config file name or path")
	fs.BoolVarP(&f.quiet, "quiet", "q", false, "only show errors")
	fs.BoolVarP(&f.verbose, "verbose", "v", false, "show detailed timing")
}

// addRoleFlags adds segmentation flags to a FlagSet.
func addRoleFlags(fs *flag.FlagSet, f *roleFlags) {
	fs.StringArrayVarP(&f.prefixes, "role", "r", nil, "role prefix, e.g. \"您：\" (repeatable)")
	fs.StringVar(&f.file, "roles-file", "", "file with one role prefix per line")
	fs.StringVar(&f.userMarker, "user-marker", "", "text identifying user roles")
	fs.StringSliceVar(&f.userTokens, "user-tokens", nil, "comma-separated user role tokens")
}

// addFilterFlags adds cleaning stage flags to a FlagSet.
func addFilterFlags(fs *flag.FlagSet, f *filterFlags) {
	fs.BoolVar(&f.keepComments, "keep-comments", false, "keep <!-- --> comments")
	fs.BoolVar(&f.keepDetails, "keep-details", false, "keep <details> blocks")
	fs.BoolVar(&f.stripTags, "strip-tags", false, "remove remaining HTML tags")
	fs.BoolVar(&f.htmlToMarkdown, "html-to-markdown", false, "convert HTML markup to Markdown")
	fs.IntVar(&f.maxNewlines, "max-newlines", 0, "cap consecutive newlines in messages (0 = off)")
}

// addTextFlags adds flat text output flags to a FlagSet.
func addTextFlags(fs *flag.FlagSet, f *textFlags) {
	fs.BoolVar(&f.noSeparators, "no-separators", false, "omit the --- line between messages")
	fs.IntVar(&f.maxNewlines, "text-max-newlines", 0, "cap consecutive newlines in text output (0 = off)")
}

// addBookFlags adds e-book flags to a FlagSet.
func addBookFlags(fs *flag.FlagSet, f *bookFlags) {
	fs.StringVar(&f.title, "title", "", "book title")
	fs.StringVar(&f.author, "author", "", "book author")
	fs.StringVar(&f.language, "language", "", "book language tag, e.g. zh-TW")
	fs.StringVar(&f.description, "description", "", "book description")
	fs.StringVar(&f.date, "date", "", "cover date (\"auto\" = now)")
	fs.StringVar(&f.chapterMode, "chapter-mode", "", "chapter mode: batch, per-message, user-start")
	fs.IntVar(&f.chapterSize, "chapter-size", 0, "messages per chapter in batch mode")
	fs.IntVar(&f.maxNewlines, "book-max-newlines", 0, "cap consecutive newlines in chapters (0 = off)")
	fs.BoolVar(&f.markdown, "markdown", false, "render message content as Markdown")
}

// addPageFlags adds PDF page layout flags to a FlagSet.
func addPageFlags(fs *flag.FlagSet, f *pageFlags) {
	fs.StringVarP(&f.size, "page-size", "p", "", "page size: letter, a4, legal")
	fs.StringVar(&f.orientation, "orientation", "", "page orientation: portrait, landscape")
	fs.Float64Var(&f.margin, "margin", 0, "page margin in inches (0.25-3.0)")
}

// addFooterFlags adds PDF footer flags to a FlagSet.
func addFooterFlags(fs *flag.FlagSet, f *footerFlags) {
	fs.StringVar(&f.position, "footer-position", "", "footer position: left, center, right")
	fs.StringVar(&f.text, "footer-text", "", "custom footer text")
	fs.BoolVar(&f.pageNumber, "footer-page-number", false, "show page numbers in footer")
	fs.BoolVar(&f.disabled, "no-footer", false, "disable footer")
}

// addAssetFlags adds style and template flags to a FlagSet.
func addAssetFlags(fs *flag.FlagSet, f *assetFlags) {
	fs.StringVar(&f.style, "style", "", "CSS style name or file path")
	fs.StringVar(&f.template, "template", "", "template set name")
	fs.StringVar(&f.assetPath, "asset-path", "", "custom asset directory")
}

// newConvertFlagSet registers the convert flags, bound to f. Parsing and
// shell completion share it.
func newConvertFlagSet(f *convertFlags) *flag.FlagSet {
	fs := flag.NewFlagSet("convert", flag.ContinueOnError)

	// I/O flags
	fs.StringVarP(&f.output, "output", "o", "", "output file or directory")
	fs.StringVarP(&f.format, "format", "f", "", "output format: txt, epub, html, pdf")
	fs.IntVarP(&f.workers, "workers", "w", 0, "parallel workers (0 = auto)")
	fs.StringVarP(&f.timeout, "timeout", "t", "", "PDF generation timeout (e.g., 30s, 2m)")

	// Flag groups
	addCommonFlags(fs, &f.common)
	addRoleFlags(fs, &f.roles)
	addFilterFlags(fs, &f.filters)
	addTextFlags(fs, &f.text)
	addBookFlags(fs, &f.book)
	addPageFlags(fs, &f.page)
	addFooterFlags(fs, &f.footer)
	addAssetFlags(fs, &f.assets)

	return fs
}

// parseConvertFlags parses convert command flags and returns positional args.
func parseConvertFlags(args []string, usage io.Writer) (*convertFlags, []string, error) {
	f := &convertFlags{}
	fs := newConvertFlagSet(f)
	fs.SetOutput(usage)
	fs.Usage = func() { printConvertUsage(usage) }
	f.changed = fs.Changed

	if err := fs.Parse(args); err != nil {
		return nil, nil, err
	}

	return f, fs.Args(), nil
}


// previewFlags holds flags for the preview command.
type previewFlags struct {
	common  commonFlags
	roles   roleFlags
	filters filterFlags
	count   int
	plain   bool
	changed func(name string) bool
}

func newPreviewFlagSet(f *previewFlags) *flag.FlagSet {
	fs := flag.NewFlagSet("preview", flag.ContinueOnError)
	fs.IntVarP(&f.count, "count", "n", defaultPreviewCount, "messages to show")
	fs.BoolVar(&f.plain, "plain", false, "print Markdown without terminal styling")
	addCommonFlags(fs, &f.common)
	addRoleFlags(fs, &f.roles)
	addFilterFlags(fs, &f.filters)
	return fs
}

// parsePreviewFlags parses preview command flags and returns positional args.
func parsePreviewFlags(args []string, usage io.Writer) (*previewFlags, []string, error) {
	f := &previewFlags{}
	fs := newPreviewFlagSet(f)
	fs.SetOutput(usage)
	fs.Usage = func() { printPreviewUsage(usage) }
	f.changed = fs.Changed

	if err := fs.Parse(args); err != nil {
		return nil, nil, err
	}
	return f, fs.Args(), nil
}

func newInitFlagSet(force *bool) *flag.FlagSet {
	fs := flag.NewFlagSet("init", flag.ContinueOnError)
	fs.BoolVar(force, "force", false, "overwrite an existing file")
	return fs
}

func newDoctorFlagSet(jsonOutput *bool) *flag.FlagSet {
	fs := flag.NewFlagSet("doctor", flag.ContinueOnError)
	fs.BoolVar(jsonOutput, "json", false, "print the report as JSON")
	return fs
}
