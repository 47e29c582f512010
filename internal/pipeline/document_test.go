package pipeline

import (
	"context"
	"errors"
	"strings"
	"testing"
)

func TestRenderDocument(t *testing.T) {
	t.Parallel()

	doc := Document{
		Title: "對話記錄 & more",
		Lang:  "zh-TW",
		Cover: "<section class=\"cover\">C</section>",
		Chapters: []DocumentChapter{
			{Number: 1, Title: "第 1 章", Body: "<section id=\"chapter-1\">one</section>"},
			{Number: 2, Title: "第 2 章", Body: "<section id=\"chapter-2\">two</section>"},
		},
		CSS: ".message{color:red}",
	}

	got, err := RenderDocument(context.Background(), doc)
	if err != nil {
		t.Fatalf("RenderDocument() unexpected error: %v", err)
	}

	wantInOrder := []string{
		`<html lang="zh-TW">`,
		"<title>對話記錄 &amp; more</title>",
		"<style>.message{color:red}</style></head>",
		`<section class="cover">C</section>`,
		`<nav class="toc">`,
		`<a href="#chapter-1">第 1 章</a>`,
		`<a href="#chapter-2">第 2 章</a>`,
		`<section id="chapter-1">one</section>`,
		`<section id="chapter-2">two</section>`,
	}
	pos := 0
	for _, want := range wantInOrder {
		idx := strings.Index(got[pos:], want)
		if idx == -1 {
			t.Fatalf("RenderDocument() missing %q after offset %d:\n%s", want, pos, got)
		}
		pos += idx + len(want)
	}
}

func TestRenderDocument_SingleChapterHasNoTOC(t *testing.T) {
	t.Parallel()

	got, err := RenderDocument(context.Background(), Document{
		Chapters: []DocumentChapter{{Number: 1, Title: "only", Body: "<p>x</p>"}},
	})
	if err != nil {
		t.Fatalf("RenderDocument() unexpected error: %v", err)
	}
	if strings.Contains(got, `class="toc"`) {
		t.Error("single chapter document should not have a table of contents")
	}
	if !strings.Contains(got, `<html lang="en">`) {
		t.Error("missing default language")
	}
	if strings.Contains(got, "<style>") {
		t.Error("empty CSS should not inject a style block")
	}
}

func TestRenderDocument_CanceledContext(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := RenderDocument(ctx, Document{}); !errors.Is(err, context.Canceled) {
		t.Errorf("RenderDocument() error = %v, want context.Canceled", err)
	}
}

func TestRoleClassifier_Classify(t *testing.T) {
	t.Parallel()

	c := DefaultRoleClassifier()
	tests := []struct {
		role string
		want string
	}{
		{role: "您", want: RoleClassUser},
		{role: "User", want: RoleClassUser},
		{role: "玩家", want: RoleClassUser},
		{role: "AI", want: RoleClassAssistant},
		{role: "Assistant", want: RoleClassAssistant},
		{role: "助理", want: RoleClassAssistant},
		{role: "系統", want: RoleClassOther},
		{role: "System", want: RoleClassOther},
		{role: "", want: RoleClassOther},
	}

	for _, tt := range tests {
		if got := c.Classify(tt.role); got != tt.want {
			t.Errorf("Classify(%q) = %q, want %q", tt.role, got, tt.want)
		}
	}
}

func TestRoleClassifier_UserTokensWin(t *testing.T) {
	t.Parallel()

	c := RoleClassifier{UserTokens: []string{"x"}, AssistantTokens: []string{"x"}}
	if got := c.Classify("x"); got != RoleClassUser {
		t.Errorf("Classify() = %q, want %q", got, RoleClassUser)
	}
}
