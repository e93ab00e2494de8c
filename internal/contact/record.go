package contact

import (
	"fmt"
	"slices"
	"time"

	"github.com/tartampluch/go-contacts/internal/config"
)

// Record is one contact of the address book.
type Record struct {
	name     Name
	phones   []Phone
	birthday *Birthday
}

// NewRecord creates a record without phones or birthday.
func NewRecord(name Name) *Record {
	return &Record{name: name}
}

// Name returns the contact name.
func (r *Record) Name() Name { return r.name }

// Phones returns a copy of the phone list in insertion order.
func (r *Record) Phones() []Phone {
	return slices.Clone(r.phones)
}

// PhoneValues returns the phone digits in insertion order.
func (r *Record) PhoneValues() []string {
	values := make([]string, len(r.phones))
	for i, p := range r.phones {
		values[i] = p.Value()
	}
	return values
}

// Birthday returns the birthday and whether one is set.
func (r *Record) Birthday() (Birthday, bool) {
	if r.birthday == nil {
		return Birthday{}, false
	}
	return *r.birthday, true
}

// SetBirthday replaces the birthday.
func (r *Record) SetBirthday(b Birthday) {
	r.birthday = &b
}

// AddPhone appends p. Duplicates are kept.
func (r *Record) AddPhone(p Phone) {
	r.phones = append(r.phones, p)
}

// DeletePhone removes the first phone equal to p.
func (r *Record) DeletePhone(p Phone) error {
	i := slices.Index(r.phones, p)
	if i < 0 {
		return notFound(p.Value())
	}
	r.phones = slices.Delete(r.phones, i, i+1)
	return nil
}

// EditPhone replaces the first phone equal to old with replacement.
func (r *Record) EditPhone(old, replacement Phone) error {
	i := slices.Index(r.phones, old)
	if i < 0 {
		return notFound(old.Value())
	}
	r.phones[i] = replacement
	return nil
}

// ReplacePhoneAt overwrites the i-th phone.
func (r *Record) ReplacePhoneAt(i int, p Phone) error {
	if i < 0 || i >= len(r.phones) {
		return fmt.Errorf("%w: phone #%d", ErrNotFound, i+1)
	}
	r.phones[i] = p
	return nil
}

// Edit is the record-level hook run by AddressBook.UpdateContact.
// Records carry no editable state beyond phones and birthday yet.
func (r *Record) Edit() {}

// DaysToBirthday returns the number of days from now's calendar date to the
// next occurrence of the birthday, today counting as zero. The boolean is
// false when no birthday is set.
func (r *Record) DaysToBirthday(now time.Time) (int, bool) {
	if r.birthday == nil {
		return 0, false
	}
	next := nextOccurrence(now, r.birthday.Date())
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	return int(next.Sub(today) / config.HoursPerDay), true
}

// nextOccurrence returns the birthday in now's year, or the next year if that
// date is already behind. Both are computed in UTC so DST never shifts the
// day count. time.Date normalizes Feb 29 to Mar 1 in non-leap years.
func nextOccurrence(now, birthDate time.Time) time.Time {
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	candidate := time.Date(now.Year(), birthDate.Month(), birthDate.Day(), 0, 0, 0, 0, time.UTC)
	if candidate.Before(today) {
		candidate = time.Date(now.Year()+1, birthDate.Month(), birthDate.Day(), 0, 0, 0, 0, time.UTC)
	}
	return candidate
}

// NextBirthday returns the date of the next birthday occurrence.
func (r *Record) NextBirthday(now time.Time) (time.Time, bool) {
	if r.birthday == nil {
		return time.Time{}, false
	}
	return nextOccurrence(now, r.birthday.Date()), true
}
