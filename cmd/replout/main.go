// Command replout is an interactive console that parses each line as a JSON
// value and prints its display tree.
package main

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/peterh/liner"

	"github.com/dgallion1/replout/internal/config"
	"github.com/dgallion1/replout/internal/highlight"
	"github.com/dgallion1/replout/internal/render"
	"github.com/dgallion1/replout/internal/transform"
)

const (
	historyFile = ".replout_history"
	promptMain  = "> "
	promptCont  = "... "
	banner      = "replout: enter a JSON value, :help for commands"
)

func main() {
	os.Exit(run())
}

func run() int {
	cfg := config.Load()
	log := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: cfg.LogLevel}))
	if err := cfg.Validate(); err != nil {
		log.Error("invalid configuration", "error", err)
		return 1
	}

	color := liner.TerminalSupported()
	var hl highlight.Highlighter = highlight.Plain
	if color {
		chroma, err := highlight.NewChroma(cfg.HighlightLanguage, cfg.HighlightStyle, "terminal256", log)
		if err != nil {
			log.Error("invalid highlighter settings", "error", err)
			return 1
		}
		if hl, err = highlight.NewCached(chroma, cfg.HighlightCacheSize); err != nil {
			log.Error("highlight cache", "error", err)
			return 1
		}
	}

	tr := transform.New(transform.Config{
		Highlighter: hl,
		Resolver:    transform.FileResolver{Extensions: cfg.SourceExtensions},
		Log:         log,
	})
	c := &console{
		tr:    tr,
		text:  render.Text{Expander: tr, Color: color},
		paths: cfg.ModulePaths,
	}

	fmt.Println(banner)

	home, _ := os.UserHomeDir()
	histPath := filepath.Join(home, historyFile)

	ln := liner.NewLiner()
	defer ln.Close()
	ln.SetCtrlCAborts(true)

	defer saveHistory(ln, histPath)

	sigc := make(chan os.Signal, 1)
	signal.Notify(sigc, syscall.SIGTERM, syscall.SIGHUP)
	defer signal.Stop(sigc)
	go exitOnSignal(sigc, ln, histPath, os.Exit)

	loadHistory(ln, histPath)

	for {
		line, ok := readValue(ln)
		if !ok {
			fmt.Println()
			return 0
		}
		if strings.TrimSpace(line) == "" {
			continue
		}
		ln.AppendHistory(strings.ReplaceAll(line, "\n", " "))

		out, quit := c.eval(line)
		if quit {
			return 0
		}
		fmt.Println(out)
	}
}

// readValue reads lines until they form a complete JSON text or a command.
func readValue(ln *liner.State) (string, bool) {
	var b strings.Builder
	for {
		prompt := promptMain
		if b.Len() > 0 {
			prompt = promptCont
		}
		line, err := ln.Prompt(prompt)
		if errors.Is(err, io.EOF) {
			return "", false
		}
		if errors.Is(err, liner.ErrPromptAborted) {
			return "", true
		}
		if err != nil {
			return "", false
		}

		if b.Len() > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(line)

		src := b.String()
		if strings.HasPrefix(strings.TrimSpace(src), ":") || !incomplete(src) {
			return src, true
		}
	}
}

// history is the part of *liner.State the history helpers need.
type history interface {
	ReadHistory(r io.Reader) (int, error)
	WriteHistory(w io.Writer) (int, error)
	Close() error
}

func loadHistory(h history, path string) {
	if f, err := os.Open(path); err == nil {
		_, _ = h.ReadHistory(f)
		_ = f.Close()
	}
}

func saveHistory(h history, path string) {
	if f, err := os.Create(path); err == nil {
		_, _ = h.WriteHistory(f)
		_ = f.Close()
	}
}

// exitOnSignal waits for a termination signal, then saves history and
// restores the terminal before exiting, since exit skips deferred calls.
func exitOnSignal(sigc <-chan os.Signal, h history, path string, exit func(int)) {
	if _, ok := <-sigc; !ok {
		return
	}
	saveHistory(h, path)
	_ = h.Close()
	exit(130)
}
