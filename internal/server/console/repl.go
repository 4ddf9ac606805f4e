package console

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
)

// Prompt is printed before every command.
const Prompt = "> "

// REPL represents the admin Read-Eval-Print Loop.
type REPL struct {
	input    io.Reader
	output   io.Writer
	executor *Executor
	history  *History
	logger   *slog.Logger
}

// NewREPL creates a REPL reading commands from in and writing to out.
func NewREPL(in io.Reader, out io.Writer, executor *Executor, history *History, logger *slog.Logger) *REPL {
	if history == nil {
		history = NewHistory("")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &REPL{
		input:    in,
		output:   out,
		executor: executor,
		history:  history,
		logger:   logger,
	}
}

// Run starts the REPL loop.
//
// It returns nil after exit or at end of input. End of input stops only the
// console; the server keeps running.
func (r *REPL) Run(ctx context.Context) error {
	lines := make(chan string)
	readErr := make(chan error, 1)
	done := make(chan struct{})
	defer close(done)
	go func() {
		reader := bufio.NewReader(r.input)
		for {
			line, err := reader.ReadString('\n')
			if line != "" {
				select {
				case lines <- line:
				case <-done:
					return
				}
			}
			if err != nil {
				readErr <- err
				return
			}
		}
	}()

	for {
		fmt.Fprint(r.output, Prompt)

		var line string
		select {
		case <-ctx.Done():
			return nil
		case err := <-readErr:
			fmt.Fprintln(r.output)
			if errors.Is(err, io.EOF) {
				r.logger.Info("console input closed, server keeps running")
				return nil
			}
			return err
		case line = <-lines:
		}

		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		r.history.Add(line)

		if err := r.executor.Execute(ctx, r.output, line); err != nil {
			if errors.Is(err, ErrExit) {
				return nil
			}
			fmt.Fprintf(r.output, "Error: %v\n", err)
		}
	}
}
