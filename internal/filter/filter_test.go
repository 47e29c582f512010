package filter

import (
	"reflect"
	"strings"
	"testing"

	"github.com/alnah/go-chatlog/internal/transcript"
)

// Notes:
// - MarkdownFilter output depends on html-to-markdown formatting; tests assert
//   on fragments rather than full output.
// These are acceptable gaps: we test observable behavior, not implementation details.

func msgs(contents ...string) []transcript.Message {
	out := make([]transcript.Message, len(contents))
	for i, c := range contents {
		out[i] = transcript.Message{Role: "User", Content: c}
	}
	return out
}

func contents(messages []transcript.Message) []string {
	out := make([]string, len(messages))
	for i, m := range messages {
		out[i] = m.Content
	}
	return out
}

// ---------------------------------------------------------------------------
// TestFilters - Content transforms
// ---------------------------------------------------------------------------

func TestFilters(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		filter Filter
		input  string
		want   string
	}{
		// CommentFilter
		{name: "comment removed", filter: CommentFilter{}, input: "a<!-- c -->b", want: "ab"},
		{name: "multi-line comment", filter: CommentFilter{}, input: "a<!--\nx\n-->b", want: "ab"},
		{name: "comments are non-greedy", filter: CommentFilter{}, input: "<!--1-->keep<!--2-->", want: "keep"},
		{name: "unclosed comment kept", filter: CommentFilter{}, input: "a<!-- b", want: "a<!-- b"},

		// DetailsFilter
		{name: "details block removed", filter: DetailsFilter{}, input: "x<details>\n<summary>s</summary>y</details>z", want: "xz"},
		{name: "details match is case-sensitive", filter: DetailsFilter{}, input: "<DETAILS>x</DETAILS>", want: "<DETAILS>x</DETAILS>"},

		// TagFilter
		{name: "br variants become newline", filter: TagFilter{}, input: "a<br>b<BR/>c<br />d", want: "a\nb\nc\nd"},
		{name: "closing p becomes newline", filter: TagFilter{}, input: "<p>a</p><P>b</P>", want: "a\nb\n"},
		{name: "other tags stripped", filter: TagFilter{}, input: `<b>bold</b> <a href="x">link</a>`, want: "bold link"},
		{name: "text without tags unchanged", filter: TagFilter{}, input: "1 < 2", want: "1 < 2"},

		// NewlineCapFilter
		{name: "five newlines capped at two", filter: NewlineCapFilter{Max: 2}, input: "a\n\n\n\n\nb", want: "a\n\nb"},
		{name: "runs at the cap untouched", filter: NewlineCapFilter{Max: 2}, input: "a\n\nb\nc", want: "a\n\nb\nc"},
		{name: "cap of one", filter: NewlineCapFilter{Max: 1}, input: "a\n\n\nb\n\nc", want: "a\nb\nc"},
		{name: "zero value caps at default", filter: NewlineCapFilter{}, input: "a\n\n\n\nb\n\n\nc", want: "a\n\nb\n\nc"},
		{name: "negative disables", filter: NewlineCapFilter{Max: -1}, input: "a\n\n\nb", want: "a\n\n\nb"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := tt.filter.Apply(msgs(tt.input))
			if len(got) != 1 {
				t.Fatalf("Apply() returned %d messages, want 1", len(got))
			}
			if got[0].Content != tt.want {
				t.Errorf("%s.Apply(%q) = %q, want %q", tt.filter.Name(), tt.input, got[0].Content, tt.want)
			}
			if got[0].Role != "User" {
				t.Errorf("role changed to %q", got[0].Role)
			}
		})
	}
}

func TestNewlineCapFilter_Idempotent(t *testing.T) {
	t.Parallel()

	inputs := []string{"a\n\n\n\n\nb", "\n\n\n", "x\n\ny\n\n\n\nz\n", "plain"}
	for _, max := range []int{1, 2, 3} {
		f := NewlineCapFilter{Max: max}
		for _, in := range inputs {
			once := f.Apply(msgs(in))
			twice := f.Apply(once)
			if !reflect.DeepEqual(once, twice) {
				t.Errorf("Max=%d input %q: second pass changed %q to %q", max, in, once[0].Content, twice[0].Content)
			}
			if strings.Contains(once[0].Content, strings.Repeat("\n", max+1)) {
				t.Errorf("Max=%d input %q: output %q still has a run above the cap", max, in, once[0].Content)
			}
		}
	}
}

// ---------------------------------------------------------------------------
// TestChain - Ordering and immutability
// ---------------------------------------------------------------------------

func TestChain_AppliesInOrder(t *testing.T) {
	t.Parallel()

	input := msgs("keep<!-- <details>x</details> --><details>drop</details><b>b</b>\n\n\n\nend")
	chain := Chain{CommentFilter{}, DetailsFilter{}, TagFilter{}, NewlineCapFilter{Max: 2}}

	got := contents(chain.Apply(input))
	want := []string{"keepb\n\nend"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Chain.Apply() = %q, want %q", got, want)
	}
}

func TestChain_DoesNotMutateInput(t *testing.T) {
	t.Parallel()

	input := msgs("a<!-- c -->b", "<br>")
	snapshot := append([]transcript.Message(nil), input...)

	Chain{CommentFilter{}, TagFilter{}}.Apply(input)
	Chain{}.Apply(input)

	if !reflect.DeepEqual(input, snapshot) {
		t.Errorf("input mutated: %v, want %v", input, snapshot)
	}
}

func TestChain_EmptyReturnsCopy(t *testing.T) {
	t.Parallel()

	input := msgs("a")
	got := Chain{}.Apply(input)
	got[0].Content = "changed"

	if input[0].Content != "a" {
		t.Error("empty chain should return a new slice")
	}
}

func TestChain_Names(t *testing.T) {
	t.Parallel()

	got := Chain{CommentFilter{}, DetailsFilter{}, NewMarkdownFilter(), TagFilter{}, NewlineCapFilter{}}.Names()
	want := []string{"html-comments", "details", "html-to-markdown", "html-tags", "newline-cap"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Names() = %v, want %v", got, want)
	}
}

// ---------------------------------------------------------------------------
// TestMarkdownFilter - HTML to Markdown rewriting
// ---------------------------------------------------------------------------

func TestMarkdownFilter(t *testing.T) {
	t.Parallel()

	f := NewMarkdownFilter()

	tests := []struct {
		name     string
		input    string
		contains []string
		exact    string
	}{
		{name: "bold becomes double asterisks", input: "<strong>hi</strong> there", contains: []string{"**hi**", "there"}},
		{name: "list items become dashes", input: "<ul><li>one</li><li>two</li></ul>", contains: []string{"- one", "- two"}},
		{name: "heading uses atx style", input: "<h2>Title</h2>", contains: []string{"## Title"}},
		{name: "plain text untouched", input: "no *tags* here\n\nreally", exact: "no *tags* here\n\nreally"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := f.Apply(msgs(tt.input))[0].Content
			if tt.exact != "" && got != tt.exact {
				t.Errorf("Apply(%q) = %q, want %q", tt.input, got, tt.exact)
			}
			for _, want := range tt.contains {
				if !strings.Contains(got, want) {
					t.Errorf("Apply(%q) = %q, should contain %q", tt.input, got, want)
				}
			}
		})
	}
}
