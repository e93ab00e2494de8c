// Package command maps command words to handlers operating on the address
// book and turns the expected failure kinds into rendered outcomes.
package command

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/tartampluch/go-contacts/internal/config"
	"github.com/tartampluch/go-contacts/internal/console"
	"github.com/tartampluch/go-contacts/internal/contact"
	"github.com/tartampluch/go-contacts/internal/i18n"
	"golang.org/x/text/cases"
)

// ErrInsufficientArguments is returned by handlers when the command line has
// fewer tokens than they need.
var ErrInsufficientArguments = errors.New(config.ErrInsufficient)

// Outcome is the text a command produced and how it should be rendered.
// A zero Outcome renders nothing.
type Outcome struct {
	Text     string
	Severity console.Severity
}

// Prompter asks the operator for a line of input.
type Prompter interface {
	Prompt(ctx context.Context, text string) (string, error)
}

// Renderer displays text with a severity.
type Renderer interface {
	Render(text string, sev console.Severity)
}

// HandlerFunc runs one command. tokens[0] is the command word.
type HandlerFunc func(ctx context.Context, tokens []string) (Outcome, error)

// Deps are the collaborators of a Dispatcher.
type Deps struct {
	Translator *i18n.Translator
	Clock      contact.Clock
	Prompter   Prompter
	Renderer   Renderer

	// PageSize is the number of contacts per show_all page.
	PageSize int
}

// Dispatcher routes commands to handlers.
type Dispatcher struct {
	book     *contact.AddressBook
	tr       *i18n.Translator
	clock    contact.Clock
	prompter Prompter
	renderer Renderer
	pageSize int
	title    cases.Caser
	handlers map[string]HandlerFunc

	// pathArgs lists the commands whose arguments are file paths and keep
	// the case they were typed with.
	pathArgs map[string]bool
}

// New returns a dispatcher with every command registered.
func New(book *contact.AddressBook, deps Deps) *Dispatcher {
	if deps.Clock == nil {
		deps.Clock = contact.RealClock{}
	}
	if deps.Translator == nil {
		deps.Translator = i18n.New(config.DefaultLanguage)
	}
	if deps.PageSize < 1 {
		deps.PageSize = config.DefaultPageSize
	}

	d := &Dispatcher{
		book:     book,
		tr:       deps.Translator,
		clock:    deps.Clock,
		prompter: deps.Prompter,
		renderer: deps.Renderer,
		pageSize: deps.PageSize,
		title:    cases.Title(deps.Translator.Tag()),
	}
	d.handlers = map[string]HandlerFunc{
		config.CmdHello:     d.hello,
		config.CmdAdd:       d.add,
		config.CmdChange:    d.change,
		config.CmdPhone:     d.phone,
		config.CmdShowAll:   d.showAll,
		config.CmdFind:      d.find,
		config.CmdDel:       d.del,
		config.CmdHelp:      d.help,
		config.CmdEdit:      d.edit,
		config.CmdDelPhone:  d.delPhone,
		config.CmdImport:    d.importVCard,
		config.CmdExport:    d.exportVCard,
		config.CmdCalendar:  d.exportCalendar,
		config.CmdBirthdays: d.birthdays,
	}
	d.pathArgs = map[string]bool{
		config.CmdImport:   true,
		config.CmdExport:   true,
		config.CmdCalendar: true,
	}
	return d
}

// Dispatch runs the command named by tokens[0]. Tokens are lower-cased,
// except the file paths given to import, export and calendar. Unknown commands
// produce a warning outcome. The failure kinds an operator can cause (missing
// contact, invalid value, missing argument, interrupted input) become
// outcomes; any other error is returned.
func (d *Dispatcher) Dispatch(ctx context.Context, tokens []string) (Outcome, error) {
	tokens = d.normalize(tokens)
	name := ""
	if len(tokens) > 0 {
		name = tokens[0]
	}

	h, ok := d.handlers[name]
	if !ok {
		return Outcome{Text: d.tr.Msg(config.TKeyUnknownCommand), Severity: console.Warning}, nil
	}

	slog.Debug(config.MsgCommand,
		config.LogKeyComponent, config.CompCommand,
		config.LogKeyCommand, name,
		config.LogKeyArgs, len(tokens)-1,
	)

	out, err := h(ctx, tokens)
	if err == nil {
		return out, nil
	}
	return d.translateFailure(name, err)
}

func (d *Dispatcher) translateFailure(name string, err error) (Outcome, error) {
	log := slog.With(
		config.LogKeyComponent, config.CompCommand,
		config.LogKeyCommand, name,
	)

	var verr *contact.ValidationError
	switch {
	case errors.Is(err, contact.ErrNotFound):
		log.Debug(config.MsgCommandFailed, config.LogKeyError, err)
		return Outcome{Text: d.tr.Msg(config.TKeyNotFound), Severity: console.Error}, nil

	case errors.As(err, &verr):
		log.Debug(config.MsgCommandFailed, config.LogKeyError, err)
		msg := d.tr.Msg(verr.MessageID)
		if msg == verr.MessageID {
			msg = verr.Message
		}
		return Outcome{Text: msg, Severity: console.Error}, nil

	case errors.Is(err, ErrInsufficientArguments):
		log.Debug(config.MsgCommandFailed, config.LogKeyError, err)
		return Outcome{Text: d.tr.Msg(config.TKeyInsufficient), Severity: console.Error}, nil

	case errors.Is(err, console.ErrInterrupted):
		return Outcome{}, nil
	}

	return Outcome{}, fmt.Errorf("%s %q: %w", config.ErrUnhandled, name, err)
}

func (d *Dispatcher) normalize(tokens []string) []string {
	out := make([]string, len(tokens))
	for i, t := range tokens {
		out[i] = strings.ToLower(t)
	}
	if len(out) > 0 && d.pathArgs[out[0]] {
		copy(out[1:], tokens[1:])
	}
	return out
}

// arg returns tokens[i] or ErrInsufficientArguments.
func arg(tokens []string, i int) (string, error) {
	if i >= len(tokens) {
		return "", fmt.Errorf("%w: want argument %d, got %d", ErrInsufficientArguments, i, len(tokens)-1)
	}
	return tokens[i], nil
}
