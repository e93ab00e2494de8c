// Package session runs the interactive loop: it reads a line, ends the
// session on a stop word, and hands every other line to the dispatcher.
package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"time"

	"github.com/tartampluch/go-contacts/internal/command"
	"github.com/tartampluch/go-contacts/internal/config"
	"github.com/tartampluch/go-contacts/internal/console"
	"github.com/tartampluch/go-contacts/internal/contact"
	"github.com/tartampluch/go-contacts/internal/i18n"
)

// Snapshot persists the whole address book.
type Snapshot interface {
	// Load replaces the book content and reports whether a snapshot existed.
	Load(ctx context.Context, book *contact.AddressBook) (bool, error)
	Save(ctx context.Context, book *contact.AddressBook) error
}

// Dispatcher runs one tokenized command line.
type Dispatcher interface {
	Dispatch(ctx context.Context, tokens []string) (command.Outcome, error)
}

// Session wires the collaborators of one interactive run.
type Session struct {
	Book       *contact.AddressBook
	Snapshot   Snapshot
	Dispatcher Dispatcher
	Prompter   command.Prompter
	Renderer   command.Renderer
	Translator *i18n.Translator
}

// Run loads the snapshot, serves commands until a stop word, end of input or
// ctx cancellation, then saves the book. A command failing with an unexpected
// error ends the run with that error and nothing is saved.
func (s *Session) Run(ctx context.Context) error {
	log := slog.With(config.LogKeyComponent, config.CompSession)

	found, err := s.Snapshot.Load(ctx, s.Book)
	if err != nil {
		return fmt.Errorf("%s: %w", config.ErrSessionFailed, err)
	}
	if !found {
		log.Info(config.MsgSnapshotNone)
	}
	log.Info(config.MsgSessionStart, config.LogKeyCount, s.Book.Len())
	s.Renderer.Render(s.Translator.Msg(config.TKeyWelcome), console.Info)

	if err := s.loop(ctx, log); err != nil {
		return err
	}
	return s.save(ctx, log)
}

func (s *Session) loop(ctx context.Context, log *slog.Logger) error {
	for {
		line, err := s.Prompter.Prompt(ctx, s.Translator.Msg(config.TKeyInputPrompt))
		switch {
		case errors.Is(err, console.ErrInterrupted):
			continue
		case errors.Is(err, console.ErrInputClosed):
			log.Info(config.MsgInputClosed)
			return nil
		case cancelled(ctx, err):
			log.Info(config.MsgCtxCancel)
			return nil
		case err != nil:
			return fmt.Errorf("%s: %w", config.ErrSessionFailed, err)
		}

		if slices.Contains(config.StopWords, strings.ToLower(strings.TrimSpace(line))) {
			s.Renderer.Render(s.Translator.Msg(config.TKeyGoodbye), console.Info)
			return nil
		}

		// The dispatcher lower-cases the tokens it does not treat as file paths.
		out, err := s.Dispatcher.Dispatch(ctx, strings.Fields(line))
		if cancelled(ctx, err) {
			log.Info(config.MsgCtxCancel)
			return nil
		}
		if err != nil {
			return fmt.Errorf("%s: %w", config.ErrSessionFailed, err)
		}
		s.Renderer.Render(out.Text, out.Severity)
	}
}

func cancelled(ctx context.Context, err error) bool {
	return ctx.Err() != nil || errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}

// save runs even when ctx was cancelled by a termination signal.
func (s *Session) save(ctx context.Context, log *slog.Logger) error {
	start := time.Now()
	if err := s.Snapshot.Save(context.WithoutCancel(ctx), s.Book); err != nil {
		return fmt.Errorf("%s: %w", config.ErrSessionFailed, err)
	}
	log.Info(config.MsgSessionEnd,
		config.LogKeyCount, s.Book.Len(),
		config.LogKeyDuration, time.Since(start).Milliseconds(),
	)
	return nil
}
