// Package contact holds the address book domain: validated field values,
// contact records and the in-memory store keyed by contact name.
package contact

import (
	"iter"
	"slices"
)

// AddressBook maps contact names to records. It keeps insertion order so
// paginated listings are stable for the lifetime of the process.
// An AddressBook is not safe for concurrent use.
type AddressBook struct {
	records map[string]*Record
	order   []string
}

// NewAddressBook returns an empty address book.
func NewAddressBook() *AddressBook {
	return &AddressBook{records: make(map[string]*Record)}
}

// AddRecord stores r under its name, replacing any record with the same name.
// A replaced record keeps its position in the listing order.
func (b *AddressBook) AddRecord(r *Record) {
	key := r.Name().Value()
	if _, exists := b.records[key]; !exists {
		b.order = append(b.order, key)
	}
	b.records[key] = r
}

// Get returns the record stored under name.
func (b *AddressBook) Get(name string) (*Record, error) {
	r, ok := b.records[name]
	if !ok {
		return nil, notFound(name)
	}
	return r, nil
}

// Has reports whether a record is stored under name.
func (b *AddressBook) Has(name string) bool {
	_, ok := b.records[name]
	return ok
}

// Len returns the number of records.
func (b *AddressBook) Len() int { return len(b.records) }

// DeleteContact removes the record stored under name.
func (b *AddressBook) DeleteContact(name string) error {
	if _, ok := b.records[name]; !ok {
		return notFound(name)
	}
	delete(b.records, name)
	b.order = slices.DeleteFunc(b.order, func(k string) bool { return k == name })
	return nil
}

// UpdateContact runs the record edit hook for name.
func (b *AddressBook) UpdateContact(name string) error {
	r, err := b.Get(name)
	if err != nil {
		return err
	}
	r.Edit()
	return nil
}

// Find returns the names whose record matches term either by name or by its
// first phone number. The result is sorted and empty when nothing matches.
func (b *AddressBook) Find(term string) []string {
	matches := []string{}
	for _, key := range b.order {
		r := b.records[key]
		if key == term || (len(r.phones) > 0 && r.phones[0].Value() == term) {
			matches = append(matches, key)
		}
	}
	slices.Sort(matches)
	return matches
}

// Records returns the records in listing order.
func (b *AddressBook) Records() []*Record {
	out := make([]*Record, 0, len(b.order))
	for _, key := range b.order {
		out = append(out, b.records[key])
	}
	return out
}

// Clear removes every record.
func (b *AddressBook) Clear() {
	b.records = make(map[string]*Record)
	b.order = nil
}

// Batches yields the records in listing order, size at a time. The records
// are captured when iteration starts; ranging again takes a new snapshot.
// A size below 1 is treated as 1.
func (b *AddressBook) Batches(size int) iter.Seq[[]*Record] {
	if size < 1 {
		size = 1
	}
	return func(yield func([]*Record) bool) {
		records := b.Records()
		for chunk := range slices.Chunk(records, size) {
			if !yield(chunk) {
				return
			}
		}
	}
}
