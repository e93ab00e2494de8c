// Package exchange moves contacts between the address book and standard
// formats: vCard for contacts and iCalendar for birthdays.
package exchange

import (
	"context"
	"crypto/sha256"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/emersion/go-vcard"
	"github.com/tartampluch/go-contacts/internal/config"
	"github.com/tartampluch/go-contacts/internal/contact"
)

// ImportResult counts the cards handled by ImportVCard.
type ImportResult struct {
	Added   int
	Skipped int
}

// readErrRecorder remembers the first error of the underlying reader so the
// decode loop can tell I/O failures from malformed cards.
type readErrRecorder struct {
	r   io.Reader
	err error
}

func (e *readErrRecorder) Read(p []byte) (int, error) {
	n, err := e.r.Read(p)
	if err != nil && !errors.Is(err, io.EOF) && e.err == nil {
		e.err = err
	}
	return n, err
}

// ImportVCard adds every card of r whose name is not in book yet. Names are
// lower-cased with inner whitespace replaced by "_" so they can be typed as a
// single command token. Invalid phones and dates are dropped from the card.
func ImportVCard(ctx context.Context, r io.Reader, book *contact.AddressBook) (ImportResult, error) {
	start := time.Now()
	log := slog.With(config.LogKeyComponent, config.CompExchange)

	src := &readErrRecorder{r: r}
	decoder := vcard.NewDecoder(src)
	var res ImportResult

	for {
		if err := ctx.Err(); err != nil {
			return res, err
		}

		card, err := decoder.Decode()
		if src.err != nil {
			return res, fmt.Errorf("%s: %w", config.ErrVCardDecode, src.err)
		}
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			// Malformed card: skip it, keep decoding.
			log.Warn(config.MsgSkippedCard, config.LogKeyError, err)
			res.Skipped++
			continue
		}

		record, ok := recordFromCard(card, log)
		if !ok || book.Has(record.Name().Value()) {
			res.Skipped++
			continue
		}
		book.AddRecord(record)
		res.Added++
	}

	log.Info(config.MsgImportDone,
		config.LogKeyAdded, res.Added,
		config.LogKeySkipped, res.Skipped,
		config.LogKeyDuration, time.Since(start).Milliseconds(),
	)
	return res, nil
}

func recordFromCard(card vcard.Card, log *slog.Logger) (*contact.Record, bool) {
	// Name Strategy: FN (Formatted) > N (Structured)
	raw := card.PreferredValue(vcard.FieldFormattedName)
	if raw == "" {
		if n := card.Name(); n != nil {
			raw = strings.TrimSpace(n.GivenName + " " + n.FamilyName)
		}
	}
	name, err := contact.NewName(tokenName(raw))
	if err != nil {
		return nil, false
	}
	record := contact.NewRecord(name)

	for _, tel := range card.Values(vcard.FieldTelephone) {
		p, err := contact.NewPhone(digitsOnly(tel))
		if err != nil {
			log.Debug(config.MsgSkippedPhone, config.LogKeyName, name.Value(), config.LogKeyValue, tel)
			continue
		}
		record.AddPhone(p)
	}

	if bday := card.Value(vcard.FieldBirthday); bday != "" {
		date, err := parseDate(bday)
		if err != nil {
			log.Debug(config.MsgSkippedDate, config.LogKeyName, name.Value(), config.LogKeyValue, bday)
		} else {
			record.SetBirthday(contact.BirthdayFromDate(date))
		}
	}
	return record, true
}

// ExportVCard writes one vCard 4.0 per record to w in listing order.
func ExportVCard(w io.Writer, book *contact.AddressBook) (int, error) {
	enc := vcard.NewEncoder(w)
	count := 0
	for _, r := range book.Records() {
		if err := enc.Encode(cardFromRecord(r)); err != nil {
			return count, fmt.Errorf("%s: %w", config.ErrVCardEncode, err)
		}
		count++
	}

	slog.Info(config.MsgExportDone,
		config.LogKeyComponent, config.CompExchange,
		config.LogKeyCount, count,
	)
	return count, nil
}

func cardFromRecord(r *contact.Record) vcard.Card {
	name := r.Name().Value()
	card := make(vcard.Card)
	card.SetValue(vcard.FieldVersion, config.VCardVersion)
	card.SetValue(vcard.FieldFormattedName, name)
	card.SetName(&vcard.Name{GivenName: name})
	card.SetValue(vcard.FieldUID, recordUID(r))

	for _, phone := range r.PhoneValues() {
		card.Add(vcard.FieldTelephone, &vcard.Field{
			Value:  phone,
			Params: vcard.Params{vcard.ParamType: {config.VCardTypeCel}},
		})
	}
	if b, ok := r.Birthday(); ok {
		card.SetValue(vcard.FieldBirthday, b.Date().Format(config.DateFormatVCard))
	}
	return card
}

// recordUID derives a stable identifier from the contact name, so repeated
// exports of the same contact produce the same UID.
func recordUID(r *contact.Record) string {
	input := fmt.Sprintf(config.FormatHashInput, config.UIDSalt, r.Name().Value())
	hash := sha256.Sum256([]byte(input))
	return fmt.Sprintf("%x", hash[:config.UIDHashLength])
}

func tokenName(raw string) string {
	return strings.Join(strings.Fields(strings.ToLower(raw)), "_")
}

func digitsOnly(s string) string {
	var b strings.Builder
	for _, c := range s {
		if c >= '0' && c <= '9' {
			b.WriteRune(c)
		}
	}
	return b.String()
}

// parseDate handles various vCard date formats.
func parseDate(value string) (time.Time, error) {
	// Full dates (Year known)
	formatsWithYear := []string{
		config.DateFormatVCard,
		config.DateFormatVCardBasic,
		time.RFC3339,
		config.DateFormatBirthday,
	}
	for _, f := range formatsWithYear {
		if t, err := time.Parse(f, value); err == nil {
			return t, nil
		}
	}

	// Truncated dates (Year unknown) - vCard specific
	for _, f := range []string{config.DateFormatNoYearD, config.DateFormatNoYearB} {
		if t, err := time.Parse(f, value); err == nil {
			return time.Date(config.DefaultLeapYear, t.Month(), t.Day(), 0, 0, 0, 0, time.UTC), nil
		}
	}

	return time.Time{}, errors.New(config.ErrDateFormat)
}
