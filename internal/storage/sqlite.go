// Package storage persists the address book as a snapshot file.
package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"math/rand"
	"os"
	"path/filepath"
	"time"

	"github.com/oklog/ulid/v2"
	_ "modernc.org/sqlite"

	"github.com/tartampluch/go-contacts/internal/config"
	"github.com/tartampluch/go-contacts/internal/contact"
)

const schema = `
CREATE TABLE snapshot (
	id        TEXT PRIMARY KEY,
	saved_at  TEXT NOT NULL,
	version   TEXT NOT NULL
);

CREATE TABLE contacts (
	position  INTEGER PRIMARY KEY,
	name      TEXT NOT NULL UNIQUE,
	birthday  TEXT
);

CREATE TABLE phones (
	contact_position INTEGER NOT NULL REFERENCES contacts(position),
	seq              INTEGER NOT NULL,
	value            TEXT NOT NULL,
	PRIMARY KEY (contact_position, seq)
);
`

// SQLiteSnapshot stores the whole address book in a single SQLite file.
// Every Save writes a new database next to the target and renames it over
// the previous one, so a crash mid-write leaves the old file intact.
type SQLiteSnapshot struct {
	path    string
	clock   contact.Clock
	entropy *rand.Rand
}

// NewSQLiteSnapshot returns a snapshot stored at path.
func NewSQLiteSnapshot(path string) *SQLiteSnapshot {
	return &SQLiteSnapshot{
		path:    path,
		clock:   contact.RealClock{},
		entropy: rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// Load replaces the content of book with the snapshot. It reports false and
// leaves book untouched when no snapshot file exists yet.
func (s *SQLiteSnapshot) Load(ctx context.Context, book *contact.AddressBook) (bool, error) {
	log := slog.With(config.LogKeyComponent, config.CompStorage, config.LogKeyPath, s.path)

	if _, err := os.Stat(s.path); errors.Is(err, fs.ErrNotExist) {
		log.Info(config.MsgSnapshotNone)
		return false, nil
	}

	db, err := sql.Open(config.SQLiteDriver, s.path+config.SQLiteDSNOptions)
	if err != nil {
		return false, fmt.Errorf("%s: %w", config.ErrOpenSnapshot, err)
	}
	defer func() { _ = db.Close() }()

	var id string
	if err := db.QueryRowContext(ctx, `SELECT id FROM snapshot LIMIT 1`).Scan(&id); err != nil {
		return false, fmt.Errorf("%s: %w", config.ErrReadSnapshot, err)
	}

	records, err := readRecords(ctx, db)
	if err != nil {
		return false, err
	}

	book.Clear()
	for _, r := range records {
		book.AddRecord(r)
	}

	log.Info(config.MsgSnapshotLoaded,
		config.LogKeySnapshot, id,
		config.LogKeyCount, len(records),
	)
	return true, nil
}

func readRecords(ctx context.Context, db *sql.DB) ([]*contact.Record, error) {
	rows, err := db.QueryContext(ctx, `SELECT position, name, birthday FROM contacts ORDER BY position`)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", config.ErrReadSnapshot, err)
	}
	defer rows.Close()

	var records []*contact.Record
	byPosition := make(map[int64]*contact.Record)

	for rows.Next() {
		var (
			position int64
			name     string
			birthday sql.NullString
		)
		if err := rows.Scan(&position, &name, &birthday); err != nil {
			return nil, fmt.Errorf("%s: %w", config.ErrReadSnapshot, err)
		}

		n, err := contact.NewName(name)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", config.ErrInvalidSnapshot, err)
		}
		r := contact.NewRecord(n)
		if birthday.Valid {
			b, err := contact.NewBirthday(birthday.String)
			if err != nil {
				return nil, fmt.Errorf("%s: %w", config.ErrInvalidSnapshot, err)
			}
			r.SetBirthday(b)
		}
		records = append(records, r)
		byPosition[position] = r
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", config.ErrReadSnapshot, err)
	}

	phoneRows, err := db.QueryContext(ctx, `SELECT contact_position, value FROM phones ORDER BY contact_position, seq`)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", config.ErrReadSnapshot, err)
	}
	defer phoneRows.Close()

	for phoneRows.Next() {
		var (
			position int64
			value    string
		)
		if err := phoneRows.Scan(&position, &value); err != nil {
			return nil, fmt.Errorf("%s: %w", config.ErrReadSnapshot, err)
		}
		r, ok := byPosition[position]
		if !ok {
			return nil, fmt.Errorf("%s: phone for unknown contact %d", config.ErrInvalidSnapshot, position)
		}
		p, err := contact.NewPhone(value)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", config.ErrInvalidSnapshot, err)
		}
		r.AddPhone(p)
	}
	if err := phoneRows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", config.ErrReadSnapshot, err)
	}

	return records, nil
}

// Save writes every record of book to the snapshot file.
func (s *SQLiteSnapshot) Save(ctx context.Context, book *contact.AddressBook) (err error) {
	start := time.Now()
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, config.DirPermUserRWX); err != nil {
		return fmt.Errorf("%s: %w", config.ErrCreateDir, err)
	}

	tmp, err := os.CreateTemp(dir, config.TempFilePattern)
	if err != nil {
		return fmt.Errorf("%s: %w", config.ErrWriteSnapshot, err)
	}
	tmpPath := tmp.Name()
	_ = tmp.Close()

	defer func() {
		if err != nil {
			_ = os.Remove(tmpPath)
		}
	}()

	id := ulid.MustNew(ulid.Timestamp(s.clock.Now()), s.entropy).String()
	if err := s.writeDatabase(ctx, tmpPath, id, book); err != nil {
		return err
	}

	if err := os.Chmod(tmpPath, config.FilePermUserRW); err != nil {
		return fmt.Errorf("%s: %w", config.ErrWriteSnapshot, err)
	}
	if err := os.Rename(tmpPath, s.path); err != nil {
		return fmt.Errorf("%s: %w", config.ErrRename, err)
	}

	slog.Info(config.MsgSnapshotSaved,
		config.LogKeyComponent, config.CompStorage,
		config.LogKeyPath, s.path,
		config.LogKeySnapshot, id,
		config.LogKeyCount, book.Len(),
		config.LogKeyDuration, time.Since(start).Milliseconds(),
	)
	return nil
}

func (s *SQLiteSnapshot) writeDatabase(ctx context.Context, path, id string, book *contact.AddressBook) error {
	db, err := sql.Open(config.SQLiteDriver, path+config.SQLiteDSNOptions)
	if err != nil {
		return fmt.Errorf("%s: %w", config.ErrOpenSnapshot, err)
	}
	defer func() { _ = db.Close() }()

	if _, err := db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("%s: %w", config.ErrMigrate, err)
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("%s: %w", config.ErrWriteSnapshot, err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx,
		`INSERT INTO snapshot (id, saved_at, version) VALUES (?, ?, ?)`,
		id, s.clock.Now().UTC().Format(time.RFC3339), config.Version); err != nil {
		return fmt.Errorf("%s: %w", config.ErrWriteSnapshot, err)
	}

	for position, r := range book.Records() {
		var birthday *string
		if b, ok := r.Birthday(); ok {
			v := b.Value()
			birthday = &v
		}
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO contacts (position, name, birthday) VALUES (?, ?, ?)`,
			position, r.Name().Value(), birthday); err != nil {
			return fmt.Errorf("%s: %w", config.ErrWriteSnapshot, err)
		}
		for seq, phone := range r.PhoneValues() {
			if _, err := tx.ExecContext(ctx,
				`INSERT INTO phones (contact_position, seq, value) VALUES (?, ?, ?)`,
				position, seq, phone); err != nil {
				return fmt.Errorf("%s: %w", config.ErrWriteSnapshot, err)
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("%s: %w", config.ErrWriteSnapshot, err)
	}
	return db.Close()
}
