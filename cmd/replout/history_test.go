package main

import (
	"bufio"
	"io"
	"os"
	"path/filepath"
	"strings"
	"syscall"
	"testing"
)

// lines is an in-memory history.
type lines struct {
	entries []string
	closed  bool
}

func (l *lines) ReadHistory(r io.Reader) (int, error) {
	sc := bufio.NewScanner(r)
	n := 0
	for sc.Scan() {
		l.entries = append(l.entries, sc.Text())
		n++
	}
	return n, sc.Err()
}

func (l *lines) WriteHistory(w io.Writer) (int, error) {
	for _, e := range l.entries {
		if _, err := io.WriteString(w, e+"\n"); err != nil {
			return 0, err
		}
	}
	return len(l.entries), nil
}

func (l *lines) Close() error {
	l.closed = true
	return nil
}

func TestExitOnSignalSavesHistory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history")
	h := &lines{entries: []string{"42", `:type buffer "ab"`}}

	sigc := make(chan os.Signal, 1)
	sigc <- syscall.SIGTERM
	code := -1
	exitOnSignal(sigc, h, path, func(c int) { code = c })

	if code != 130 {
		t.Fatalf("expected exit code 130, got %d", code)
	}
	if !h.closed {
		t.Fatal("expected the line editor to be closed before exit")
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("history not written: %v", err)
	}
	if got := strings.Split(strings.TrimSpace(string(data)), "\n"); len(got) != 2 || got[0] != "42" {
		t.Fatalf("unexpected history %q", data)
	}

	reloaded := &lines{}
	loadHistory(reloaded, path)
	if len(reloaded.entries) != 2 || reloaded.entries[1] != `:type buffer "ab"` {
		t.Fatalf("unexpected reloaded history %v", reloaded.entries)
	}
}

func TestExitOnSignalIgnoresClosedChannel(t *testing.T) {
	sigc := make(chan os.Signal)
	close(sigc)
	exited := false
	exitOnSignal(sigc, &lines{}, filepath.Join(t.TempDir(), "history"), func(int) { exited = true })
	if exited {
		t.Fatal("a closed signal channel must not exit")
	}
}
