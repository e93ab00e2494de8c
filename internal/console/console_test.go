package console_test

import (
	"bytes"
	"context"
	"io"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tartampluch/go-contacts/internal/console"
)

func TestRenderer_PlainWhenColorDisabled(t *testing.T) {
	var buf bytes.Buffer
	r := console.NewRenderer(&buf, false)

	r.Render("Contact added successfully", console.Success)
	r.Render("", console.Error)
	r.Render("Contact not found", console.Error)

	assert.Equal(t, "Contact added successfully\nContact not found\n", buf.String())
}

func TestRenderer_NonTerminalOutputIsUnstyled(t *testing.T) {
	// lipgloss detects that a bytes.Buffer is not a terminal and drops colour codes.
	var buf bytes.Buffer
	r := console.NewRenderer(&buf, true)

	r.Render("How can I help you?", console.Info)
	assert.Equal(t, "How can I help you?\n", buf.String())
}

func TestSeverity_String(t *testing.T) {
	tests := map[console.Severity]string{
		console.Plain:     "plain",
		console.Success:   "success",
		console.Error:     "error",
		console.Info:      "info",
		console.Warning:   "warning",
		console.Highlight: "highlight",
	}
	for sev, want := range tests {
		assert.Equal(t, want, sev.String())
	}
}

func TestPrompter_ReadsLines(t *testing.T) {
	var out bytes.Buffer
	p := console.NewPrompter(strings.NewReader("hello\nadd ann\n"), &out, nil)
	ctx := context.Background()

	line, err := p.Prompt(ctx, "> ")
	require.NoError(t, err)
	assert.Equal(t, "hello", line)

	line, err = p.Prompt(ctx, "> ")
	require.NoError(t, err)
	assert.Equal(t, "add ann", line)

	_, err = p.Prompt(ctx, "> ")
	assert.ErrorIs(t, err, console.ErrInputClosed)

	assert.Equal(t, "> > > ", out.String())
}

func TestPrompter_Interrupt(t *testing.T) {
	pr, pw := io.Pipe()
	defer func() { _ = pw.Close() }()

	interrupts := make(chan os.Signal, 1)
	p := console.NewPrompter(pr, io.Discard, interrupts)

	interrupts <- os.Interrupt
	_, err := p.Prompt(context.Background(), "")
	assert.ErrorIs(t, err, console.ErrInterrupted)

	// The session continues: the next line is still delivered.
	go func() { _, _ = pw.Write([]byte("phone ann\n")) }()
	line, err := p.Prompt(context.Background(), "")
	require.NoError(t, err)
	assert.Equal(t, "phone ann", line)
}

func TestPrompter_ContextCancel(t *testing.T) {
	pr, pw := io.Pipe()
	defer func() { _ = pw.Close() }()

	p := console.NewPrompter(pr, io.Discard, nil)
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	_, err := p.Prompt(ctx, "")
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}
