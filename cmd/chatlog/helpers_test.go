package main

// Notes:
// - Test helpers shared by the command tests: a buffered Environment, a
//   mock converter pool and transcript fixtures.
// No coverage gaps: this is test infrastructure, not production code.

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	chatlog "github.com/alnah/go-chatlog"
)

// ---------------------------------------------------------------------------
// Fixtures
// ---------------------------------------------------------------------------

var fixedNow = time.Date(2024, 3, 15, 9, 5, 7, 0, time.UTC)

const chatTranscript = "您：今天天氣如何？\nAI：晴朗。\n適合散步。\n"

// ---------------------------------------------------------------------------
// Environment
// ---------------------------------------------------------------------------

type testEnv struct {
	*Environment
	stdout *bytes.Buffer
	stderr *bytes.Buffer
}

func newTestEnv(stdin string) *testEnv {
	stdout, stderr := &bytes.Buffer{}, &bytes.Buffer{}
	return &testEnv{
		Environment: &Environment{
			Now:    func() time.Time { return fixedNow },
			Stdin:  strings.NewReader(stdin),
			Stdout: stdout,
			Stderr: stderr,
			Logger: newLogger(stderr, false, false),
		},
		stdout: stdout,
		stderr: stderr,
	}
}

// ---------------------------------------------------------------------------
// Mock Pool
// ---------------------------------------------------------------------------

type mockConverter struct {
	mu     sync.Mutex
	inputs []chatlog.Input
	err    error
	data   []byte
}

func (m *mockConverter) Convert(_ context.Context, input chatlog.Input) (*chatlog.ConvertResult, error) {
	m.mu.Lock()
	m.inputs = append(m.inputs, input)
	m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	data := m.data
	if data == nil {
		data = append([]byte("converted:"), input.Raw...)
	}
	return &chatlog.ConvertResult{
		Format:   input.Format,
		Data:     data,
		Encoding: "utf-8",
		Messages: 2,
		Chapters: 1,
	}, nil
}

func (m *mockConverter) calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.inputs)
}

type mockPool struct {
	conv       *mockConverter
	size       int
	acquireErr error

	mu       sync.Mutex
	acquired int
	released int
}

var _ Pool = (*mockPool)(nil)

func newMockPool(size int) *mockPool {
	return &mockPool{conv: &mockConverter{}, size: size}
}

func (p *mockPool) Acquire() (CLIConverter, error) {
	if p.acquireErr != nil {
		return nil, p.acquireErr
	}
	p.mu.Lock()
	p.acquired++
	p.mu.Unlock()
	return p.conv, nil
}

func (p *mockPool) Release(CLIConverter) {
	p.mu.Lock()
	p.released++
	p.mu.Unlock()
}

func (p *mockPool) Size() int { return p.size }

var errMockConvert = errors.New("mock conversion failed")

// ---------------------------------------------------------------------------
// Files
// ---------------------------------------------------------------------------

// setupTestDir creates files (relative path -> content) under a temp dir.
func setupTestDir(t *testing.T, files map[string]string) string {
	t.Helper()
	dir := t.TempDir()
	for name, content := range files {
		path := filepath.Join(dir, name)
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			t.Fatalf("mkdir: %v", err)
		}
		if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
			t.Fatalf("write %s: %v", name, err)
		}
	}
	return dir
}

func readFile(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read %s: %v", path, err)
	}
	return string(data)
}
