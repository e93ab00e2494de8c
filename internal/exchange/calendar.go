package exchange

import (
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/emersion/go-ical"
	"github.com/tartampluch/go-contacts/internal/config"
	"github.com/tartampluch/go-contacts/internal/contact"
)

// StubVCalendar is the minimal valid iCalendar object written when no contact
// has a birthday.
const StubVCalendar = "BEGIN:VCALENDAR\r\nVERSION:2.0\r\nPRODID:" + config.ICalProdid + "\r\nEND:VCALENDAR\r\n"

// CalendarExporter writes birthdays as a yearly recurring iCalendar feed.
type CalendarExporter struct {
	Clock contact.Clock

	// FormatSummary lets the caller inject localized event titles.
	FormatSummary func(name string) string
}

// Export writes one all-day VEVENT per contact with a birthday and returns
// how many events were written.
func (e *CalendarExporter) Export(w io.Writer, book *contact.AddressBook) (int, error) {
	cal := ical.NewCalendar()
	cal.Props.SetText(config.PropVersion, config.ICalVersion)
	cal.Props.SetText(config.PropProdid, config.ICalProdid)
	cal.Props.SetText(config.PropXWRCalName, config.ICalCalName)
	cal.Props.SetText(config.PropCalScale, config.ICalScale)
	cal.Props.SetText(config.PropMethod, config.ICalMethod)

	now := time.Now()
	if e.Clock != nil {
		now = e.Clock.Now()
	}
	dtStamp := ical.NewProp(config.PropDTStamp)
	dtStamp.SetDateTime(now.UTC())

	for _, r := range book.Records() {
		b, ok := r.Birthday()
		if !ok {
			continue
		}
		event := e.birthdayEvent(r.Name().Value(), b.Date(), recordUID(r))
		event.Props.Set(dtStamp)
		cal.Children = append(cal.Children, event.Component)
	}

	count := len(cal.Children)
	if count == 0 {
		// A calendar without components is rejected by the encoder.
		if _, err := io.WriteString(w, StubVCalendar); err != nil {
			return 0, fmt.Errorf("%s: %w", config.ErrICalEncode, err)
		}
		return 0, nil
	}

	if err := ical.NewEncoder(w).Encode(cal); err != nil {
		return 0, fmt.Errorf("%s: %w", config.ErrICalEncode, err)
	}

	slog.Info(config.MsgCalendarDone,
		config.LogKeyComponent, config.CompExchange,
		config.LogKeyCount, count,
	)
	return count, nil
}

func (e *CalendarExporter) birthdayEvent(name string, birthDate time.Time, uid string) *ical.Event {
	event := ical.NewEvent()
	event.Props.SetText(config.PropUID, fmt.Sprintf(config.FormatUID, uid, config.ICalDomain))

	summary := name
	if e.FormatSummary != nil {
		summary = e.FormatSummary(name)
	}
	event.Props.SetText(config.PropSummary, summary)

	dtStart := ical.NewProp(config.PropDTStart)
	dtStart.SetDate(birthDate)
	event.Props.Set(dtStart)

	// Raw value, without a VALUE=TEXT param.
	rrule := ical.NewProp(config.PropRRule)
	rrule.Value = config.ICalRRule
	event.Props.Set(rrule)

	return event
}
