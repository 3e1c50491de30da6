// Package ledger implements the durable attendance record store: an
// append-only CSV file with at-most-one-record-per-name-per-day semantics.
//
// The file is the source of truth. An in-memory index (date -> set of
// names) is rebuilt from the file on open and updated under the same lock
// as every durable append, so the check-then-append sequence in TryMark is
// atomic with respect to concurrent callers.
package ledger

import (
	"bufio"
	"crypto/subtle"
	"errors"
	"fmt"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/google/renameio"

	"github.com/kozaktomas/attendance-kiosk/internal/constants"
)

var (
	// ErrUnauthorized is returned when the supplied admin secret is wrong.
	ErrUnauthorized = errors.New("wrong password")

	// ErrNoRecords is returned by Export when no ledger file exists yet.
	ErrNoRecords = errors.New("no records found")
)

// Record is one attendance row. Date is YYYY-MM-DD, Time is HH:MM:SS.
type Record struct {
	Name string
	Date string
	Time string
}

// Ledger is the attendance store. Safe for concurrent use; TryMark and
// Reset serialize on the write lock, CountToday and Export share the read
// lock.
type Ledger struct {
	path   string
	secret string

	mu   sync.RWMutex
	seen map[string]map[string]struct{} // date -> names marked that day
}

// Open creates a ledger backed by the file at path, rebuilding the
// in-memory index from any existing records. A missing file is not an
// error; it is created on the first mark. Malformed lines are skipped.
func Open(path, adminSecret string) (*Ledger, error) {
	l := &Ledger{
		path:   path,
		secret: adminSecret,
		seen:   make(map[string]map[string]struct{}),
	}

	f, err := os.Open(path)
	if errors.Is(err, os.ErrNotExist) {
		return l, nil
	}
	if err != nil {
		return nil, fmt.Errorf("opening ledger file: %w", err)
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	first := true
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if first {
			first = false
			if line == constants.LedgerHeader {
				continue
			}
		}
		rec, ok := parseLine(line)
		if !ok {
			continue
		}
		l.index(rec.Name, rec.Date)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading ledger file: %w", err)
	}

	return l, nil
}

// Path returns the backing file path.
func (l *Ledger) Path() string {
	return l.path
}

// parseLine parses one data row. Tolerant of short lines: a row needs at
// least a name and a date to count. Names containing commas are a known
// limitation of the format and are not handled.
func parseLine(line string) (Record, bool) {
	if line == "" {
		return Record{}, false
	}
	parts := strings.Split(line, ",")
	if len(parts) < 2 {
		return Record{}, false
	}
	rec := Record{Name: parts[0], Date: parts[1]}
	if len(parts) >= 3 {
		rec.Time = parts[2]
	}
	return rec, true
}

// index adds (name, date) to the in-memory index. Caller holds the write
// lock (or has exclusive access during Open).
func (l *Ledger) index(name, date string) {
	names, ok := l.seen[date]
	if !ok {
		names = make(map[string]struct{})
		l.seen[date] = names
	}
	names[name] = struct{}{}
}

// TryMark records attendance for name at now, unless a record for the same
// name and calendar day already exists. Returns true when a new record was
// appended. The check and the append happen under one exclusive lock, so
// two concurrent calls for the same name on the same day can never both
// succeed.
func (l *Ledger) TryMark(name string, now time.Time) (bool, error) {
	date := now.Format(constants.LedgerDateFormat)

	l.mu.Lock()
	defer l.mu.Unlock()

	if names, ok := l.seen[date]; ok {
		if _, marked := names[name]; marked {
			return false, nil
		}
	}

	if err := l.appendLocked(Record{
		Name: name,
		Date: date,
		Time: now.Format(constants.LedgerTimeFormat),
	}); err != nil {
		return false, err
	}

	l.index(name, date)
	return true, nil
}

// appendLocked durably appends one record, creating the file with its
// header first if needed. Caller holds the write lock.
func (l *Ledger) appendLocked(rec Record) error {
	f, err := os.OpenFile(l.path, os.O_WRONLY|os.O_CREATE|os.O_APPEND, 0o644)
	if err != nil {
		return fmt.Errorf("opening ledger file: %w", err)
	}
	defer f.Close()

	stat, err := f.Stat()
	if err != nil {
		return fmt.Errorf("stat ledger file: %w", err)
	}

	var b strings.Builder
	if stat.Size() == 0 {
		b.WriteString(constants.LedgerHeader)
		b.WriteString("\n")
	}
	fmt.Fprintf(&b, "%s,%s,%s\n", rec.Name, rec.Date, rec.Time)

	if _, err := f.WriteString(b.String()); err != nil {
		return fmt.Errorf("appending record: %w", err)
	}
	if err := f.Sync(); err != nil {
		return fmt.Errorf("syncing ledger file: %w", err)
	}
	return nil
}

// CountToday returns the number of distinct names marked on now's calendar
// day. The index is a set per day, so repeated records for one name (a
// hand-edited file, say) cannot inflate the count.
func (l *Ledger) CountToday(now time.Time) int {
	date := now.Format(constants.LedgerDateFormat)

	l.mu.RLock()
	defer l.mu.RUnlock()

	return len(l.seen[date])
}

// Reset clears the ledger after verifying the admin secret. The secret is
// compared in constant time. On success the file is atomically replaced
// with a header-only file and the index is cleared; on failure nothing
// changes and ErrUnauthorized is returned.
func (l *Ledger) Reset(password string) error {
	if subtle.ConstantTimeCompare([]byte(password), []byte(l.secret)) != 1 {
		return ErrUnauthorized
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	if err := renameio.WriteFile(l.path, []byte(constants.LedgerHeader+"\n"), 0o644); err != nil {
		return fmt.Errorf("resetting ledger file: %w", err)
	}

	l.seen = make(map[string]map[string]struct{})
	return nil
}

// Export returns the full durable representation of the ledger, byte for
// byte. ErrNoRecords when no file exists yet.
func (l *Ledger) Export() ([]byte, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	data, err := os.ReadFile(l.path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, ErrNoRecords
	}
	if err != nil {
		return nil, fmt.Errorf("reading ledger file: %w", err)
	}
	return data, nil
}

// Rows returns the parsed records in file order. ErrNoRecords when no file
// exists yet. Malformed lines are skipped, matching the index rebuild.
func (l *Ledger) Rows() ([]Record, error) {
	data, err := l.Export()
	if err != nil {
		return nil, err
	}

	var rows []Record
	first := true
	for _, line := range strings.Split(string(data), "\n") {
		line = strings.TrimSpace(line)
		if first {
			first = false
			if line == constants.LedgerHeader {
				continue
			}
		}
		if rec, ok := parseLine(line); ok {
			rows = append(rows, rec)
		}
	}
	return rows, nil
}
