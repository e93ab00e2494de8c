package command

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/tartampluch/go-contacts/internal/config"
	"github.com/tartampluch/go-contacts/internal/console"
	"github.com/tartampluch/go-contacts/internal/contact"
	"github.com/tartampluch/go-contacts/internal/exchange"
)

func (d *Dispatcher) hello(context.Context, []string) (Outcome, error) {
	return Outcome{Text: d.tr.Msg(config.TKeyGreeting), Severity: console.Info}, nil
}

func (d *Dispatcher) help(context.Context, []string) (Outcome, error) {
	return Outcome{Text: d.tr.Msg(config.TKeyHelp), Severity: console.Info}, nil
}

// add <name> [phone...] [birth=DD.MM.YYYY]
func (d *Dispatcher) add(_ context.Context, tokens []string) (Outcome, error) {
	raw, err := arg(tokens, 1)
	if err != nil {
		return Outcome{}, err
	}
	name, err := contact.NewName(raw)
	if err != nil {
		return Outcome{}, err
	}

	record := contact.NewRecord(name)
	for _, item := range tokens[2:] {
		if value, ok := strings.CutPrefix(item, config.BirthTokenPrefix); ok {
			b, err := contact.NewBirthday(value)
			if err != nil {
				return Outcome{}, err
			}
			record.SetBirthday(b)
			continue
		}
		p, err := contact.NewPhone(item)
		if err != nil {
			return Outcome{}, err
		}
		record.AddPhone(p)
	}

	if d.book.Has(name.Value()) {
		return Outcome{Text: d.tr.Msg(config.TKeyContactExists), Severity: console.Error}, nil
	}
	d.book.AddRecord(record)
	return Outcome{Text: d.tr.Msg(config.TKeyContactAdded), Severity: console.Success}, nil
}

// change <name> <phone...> replaces the i-th phone with the i-th argument.
// Nothing is modified unless every argument is valid and has a phone to
// replace.
func (d *Dispatcher) change(_ context.Context, tokens []string) (Outcome, error) {
	name, err := arg(tokens, 1)
	if err != nil {
		return Outcome{}, err
	}
	record, err := d.book.Get(name)
	if err != nil {
		return Outcome{}, err
	}

	values := tokens[2:]
	if len(values) > len(record.Phones()) {
		return Outcome{}, fmt.Errorf("%w: %d phones given, contact has %d",
			ErrInsufficientArguments, len(values), len(record.Phones()))
	}

	phones := make([]contact.Phone, len(values))
	for i, v := range values {
		if phones[i], err = contact.NewPhone(v); err != nil {
			return Outcome{}, err
		}
	}
	for i, p := range phones {
		if err := record.ReplacePhoneAt(i, p); err != nil {
			return Outcome{}, err
		}
	}
	return Outcome{Text: d.tr.Msg(config.TKeyContactUpdated), Severity: console.Success}, nil
}

// phone <name>
func (d *Dispatcher) phone(_ context.Context, tokens []string) (Outcome, error) {
	name, err := arg(tokens, 1)
	if err != nil {
		return Outcome{}, err
	}
	record, err := d.book.Get(name)
	if err != nil {
		return Outcome{}, err
	}
	phones := record.PhoneValues()
	if len(phones) == 0 {
		return Outcome{Text: d.tr.Msg(config.TKeyNoPhones), Severity: console.Error}, nil
	}
	return Outcome{Text: strings.Join(phones, config.ListSeparator), Severity: console.Plain}, nil
}

// showAll renders the book page by page and asks before each next page.
// The pages are rendered directly, so the returned outcome is empty.
func (d *Dispatcher) showAll(ctx context.Context, _ []string) (Outcome, error) {
	if d.book.Len() == 0 {
		return Outcome{Text: d.tr.Msg(config.TKeyNoContacts), Severity: console.Error}, nil
	}

	now := d.clock.Now()
	for page := range d.book.Batches(d.pageSize) {
		for _, r := range page {
			d.render(d.pageRow(r, now), console.Highlight)
		}
		d.render(config.PageSeparator, console.Plain)

		if d.prompter == nil {
			continue
		}
		answer, err := d.prompter.Prompt(ctx, d.tr.Msg(config.TKeyPagePrompt))
		if errors.Is(err, console.ErrInputClosed) || isCancellation(err) {
			break
		}
		if err != nil {
			return Outcome{}, err
		}
		if strings.EqualFold(strings.TrimSpace(answer), config.PageQuitAnswer) {
			break
		}
	}
	return Outcome{}, nil
}

// isCancellation reports whether err comes from a cancelled or expired
// context. The session decides what to do with it.
func isCancellation(err error) bool {
	return errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}

func (d *Dispatcher) pageRow(r *contact.Record, now time.Time) string {
	days := config.NoBirthday
	if n, ok := r.DaysToBirthday(now); ok {
		days = strconv.Itoa(n)
	}
	return d.tr.MsgData(config.TKeyPageRow, map[string]any{
		"Name":   d.title.String(r.Name().Value()),
		"Days":   days,
		"Phones": strings.Join(r.PhoneValues(), config.ListSeparator),
	})
}

// find <term>
func (d *Dispatcher) find(_ context.Context, tokens []string) (Outcome, error) {
	term, err := arg(tokens, 1)
	if err != nil {
		return Outcome{}, err
	}
	names := d.book.Find(term)
	if len(names) == 0 {
		return Outcome{Text: d.tr.Msg(config.TKeyNothingFound), Severity: console.Error}, nil
	}
	return Outcome{Text: strings.Join(names, config.ListSeparator), Severity: console.Plain}, nil
}

// del <name>
func (d *Dispatcher) del(_ context.Context, tokens []string) (Outcome, error) {
	name, err := arg(tokens, 1)
	if err != nil {
		return Outcome{}, err
	}
	if err := d.book.DeleteContact(name); err != nil {
		return Outcome{}, err
	}
	return Outcome{Text: d.tr.Msg(config.TKeyContactDeleted), Severity: console.Success}, nil
}

// edit <name>
func (d *Dispatcher) edit(_ context.Context, tokens []string) (Outcome, error) {
	name, err := arg(tokens, 1)
	if err != nil {
		return Outcome{}, err
	}
	if err := d.book.UpdateContact(name); err != nil {
		return Outcome{}, err
	}
	return Outcome{Text: d.tr.Msg(config.TKeyContactUpdated), Severity: console.Success}, nil
}

// del_phone <name> <phone>
func (d *Dispatcher) delPhone(_ context.Context, tokens []string) (Outcome, error) {
	name, err := arg(tokens, 1)
	if err != nil {
		return Outcome{}, err
	}
	raw, err := arg(tokens, 2)
	if err != nil {
		return Outcome{}, err
	}
	p, err := contact.NewPhone(raw)
	if err != nil {
		return Outcome{}, err
	}
	record, err := d.book.Get(name)
	if err != nil {
		return Outcome{}, err
	}
	if err := record.DeletePhone(p); err != nil {
		return Outcome{}, err
	}
	return Outcome{Text: d.tr.Msg(config.TKeyPhoneDeleted), Severity: console.Success}, nil
}

// birthdays [days] lists the contacts whose birthday falls within the window,
// nearest first.
func (d *Dispatcher) birthdays(_ context.Context, tokens []string) (Outcome, error) {
	window := config.DefaultUpcomingDays
	if len(tokens) > 1 {
		n, err := strconv.Atoi(tokens[1])
		if err != nil || n < 0 {
			return Outcome{}, &contact.ValidationError{
				Field:     "days",
				Value:     tokens[1],
				MessageID: config.TKeyErrDaysNumber,
				Message:   config.ErrDaysNumber,
			}
		}
		window = n
	}

	type upcoming struct {
		name string
		date time.Time
		days int
	}
	now := d.clock.Now()
	var found []upcoming
	for _, r := range d.book.Records() {
		days, ok := r.DaysToBirthday(now)
		if !ok || days > window {
			continue
		}
		date, _ := r.NextBirthday(now)
		found = append(found, upcoming{name: r.Name().Value(), date: date, days: days})
	}

	if len(found) == 0 {
		return Outcome{
			Text:     d.tr.MsgData(config.TKeyNoUpcoming, map[string]any{"Days": window}),
			Severity: console.Info,
		}, nil
	}

	slices.SortStableFunc(found, func(a, b upcoming) int {
		if a.days != b.days {
			return a.days - b.days
		}
		return strings.Compare(a.name, b.name)
	})

	lines := make([]string, len(found))
	for i, u := range found {
		lines[i] = d.tr.MsgData(config.TKeyUpcomingRow, map[string]any{
			"Name": d.title.String(u.name),
			"Date": u.date.Format(config.DateFormatBirthday),
			"Days": u.days,
		})
	}
	return Outcome{Text: strings.Join(lines, "\n"), Severity: console.Highlight}, nil
}

// import <file.vcf>
func (d *Dispatcher) importVCard(ctx context.Context, tokens []string) (Outcome, error) {
	path, err := arg(tokens, 1)
	if err != nil {
		return Outcome{}, err
	}
	f, err := os.Open(path)
	if err != nil {
		return d.fileFailure(config.ErrOpenFile, path, err), nil
	}
	defer f.Close()

	res, err := exchange.ImportVCard(ctx, f, d.book)
	if err != nil {
		return d.fileFailure(config.ErrVCardDecode, path, err), nil
	}
	return Outcome{
		Text:     d.tr.MsgData(config.TKeyImported, map[string]any{"Added": res.Added, "Skipped": res.Skipped}),
		Severity: console.Success,
	}, nil
}

// export <file.vcf>
func (d *Dispatcher) exportVCard(_ context.Context, tokens []string) (Outcome, error) {
	path, err := arg(tokens, 1)
	if err != nil {
		return Outcome{}, err
	}
	return d.writeFile(path, config.TKeyExported, func(f *os.File) (int, error) {
		return exchange.ExportVCard(f, d.book)
	})
}

// calendar <file.ics>
func (d *Dispatcher) exportCalendar(_ context.Context, tokens []string) (Outcome, error) {
	path, err := arg(tokens, 1)
	if err != nil {
		return Outcome{}, err
	}
	exporter := &exchange.CalendarExporter{
		Clock: d.clock,
		FormatSummary: func(name string) string {
			return d.tr.MsgData(config.TKeyEvtSummary, map[string]any{"Name": d.title.String(name)})
		},
	}
	return d.writeFile(path, config.TKeyCalendar, func(f *os.File) (int, error) {
		return exporter.Export(f, d.book)
	})
}

func (d *Dispatcher) writeFile(path, doneKey string, write func(*os.File) (int, error)) (Outcome, error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, config.FilePermUserRW)
	if err != nil {
		return d.fileFailure(config.ErrCreateFile, path, err), nil
	}

	count, err := write(f)
	if closeErr := f.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		return d.fileFailure(config.ErrCreateFile, path, err), nil
	}
	return Outcome{
		Text:     d.tr.MsgData(doneKey, map[string]any{"Count": count, "Path": path}),
		Severity: console.Success,
	}, nil
}

// fileFailure reports an operator-supplied path that could not be used.
// The error text already names the path or the failing format.
func (d *Dispatcher) fileFailure(msg, path string, err error) Outcome {
	slog.Warn(msg,
		config.LogKeyComponent, config.CompCommand,
		config.LogKeyPath, path,
		config.LogKeyError, err,
	)
	return Outcome{Text: err.Error(), Severity: console.Error}
}

func (d *Dispatcher) render(text string, sev console.Severity) {
	if d.renderer != nil {
		d.renderer.Render(text, sev)
	}
}
