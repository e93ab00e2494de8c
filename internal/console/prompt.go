package console

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"sync"

	"github.com/tartampluch/go-contacts/internal/config"
)

var (
	// ErrInterrupted is returned by Prompt when an interrupt arrives while
	// waiting for input.
	ErrInterrupted = errors.New(config.ErrInterrupted)

	// ErrInputClosed is returned by Prompt once the input reaches EOF.
	ErrInputClosed = errors.New(config.ErrInputClosed)
)

type lineResult struct {
	line string
	err  error
}

// Prompter prints a prompt and waits for one line of input.
type Prompter struct {
	in         io.Reader
	out        io.Writer
	interrupts <-chan os.Signal

	once  sync.Once
	lines chan lineResult
}

// NewPrompter reads lines from in and writes prompts to out. A value received
// on interrupts aborts the pending Prompt call only; nil disables that.
func NewPrompter(in io.Reader, out io.Writer, interrupts <-chan os.Signal) *Prompter {
	return &Prompter{
		in:         in,
		out:        out,
		interrupts: interrupts,
		lines:      make(chan lineResult),
	}
}

// start launches the goroutine that owns the input reader. It is the only
// reader of in, so a line typed after an interrupt is delivered to the next
// Prompt call.
func (p *Prompter) start() {
	go func() {
		defer close(p.lines)
		scanner := bufio.NewScanner(p.in)
		for scanner.Scan() {
			p.lines <- lineResult{line: scanner.Text()}
		}
		if err := scanner.Err(); err != nil {
			p.lines <- lineResult{err: err}
		}
	}()
}

// Prompt writes text and returns the next input line without its newline.
func (p *Prompter) Prompt(ctx context.Context, text string) (string, error) {
	p.once.Do(p.start)

	if text != "" {
		_, _ = fmt.Fprint(p.out, text)
	}

	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case <-p.interrupts:
		_, _ = fmt.Fprintln(p.out)
		slog.Debug(config.MsgInterrupted, config.LogKeyComponent, config.CompConsole)
		return "", ErrInterrupted
	case res, ok := <-p.lines:
		if !ok {
			return "", ErrInputClosed
		}
		return res.line, res.err
	}
}
