// Package repl is the terminal chat surface. It reads user messages from
// stdin and prints the assistant's replies, including export file paths.
package repl

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/oguzhantopcu/tyasistan/internal/assistant"
)

// REPL runs an interactive chat loop against the assistant.
type REPL struct {
	assistant *assistant.Assistant
	logger    *slog.Logger
	in        io.Reader
	out       io.Writer
}

// New creates a REPL reading from stdin and writing to stdout.
func New(as *assistant.Assistant, logger *slog.Logger) *REPL {
	return &REPL{
		assistant: as,
		logger:    logger.With("component", "repl"),
		in:        os.Stdin,
		out:       os.Stdout,
	}
}

// Run starts the chat loop. It returns when the input ends, the user
// types an exit command, or ctx is cancelled.
func (r *REPL) Run(ctx context.Context) error {
	fmt.Fprintln(r.out, assistant.WelcomeMessage)
	fmt.Fprintln(r.out)
	fmt.Fprintln(r.out, "Çıkmak için 'çıkış' yazın.")
	fmt.Fprintln(r.out)

	sess := assistant.NewSession()
	scanner := bufio.NewScanner(r.in)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	for {
		fmt.Fprint(r.out, "siz> ")
		if !scanner.Scan() {
			fmt.Fprintln(r.out)
			return scanner.Err()
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		if isExit(line) {
			fmt.Fprintln(r.out, "Görüşmek üzere!")
			return nil
		}

		turn, err := r.assistant.HandleMessage(ctx, sess, line)
		if err != nil {
			if errors.Is(err, context.Canceled) {
				return nil
			}
			r.logger.Error("chat turn failed", "error", err)
			fmt.Fprintf(r.out, "\nHata: %v\n\n", err)
			continue
		}

		fmt.Fprintf(r.out, "\n%s\n", turn.Reply)
		if turn.File != nil {
			fmt.Fprintf(r.out, "\n📁 Dosya: %s\n", turn.File.Path)
		}
		fmt.Fprintln(r.out)
	}
}

func isExit(line string) bool {
	switch strings.ToLower(line) {
	case "çıkış", "cikis", "exit", "quit", "q":
		return true
	}
	return false
}
