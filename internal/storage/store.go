package storage

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/san-kum/backlight/internal/sequence"
)

// ModeMarquee is the only animation mode records carry today.
const ModeMarquee = "marquee"

const recordFile = "record.json"

type Store struct {
	baseDir string
	now     func() time.Time
}

func New(baseDir string) *Store {
	return &Store{baseDir: baseDir, now: time.Now}
}

func (s *Store) Init() error {
	return os.MkdirAll(s.baseDir, 0755)
}

func (s *Store) Dir() string { return s.baseDir }

// Record is one saved marquee export.
type Record struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Mode      string    `json:"mode"`
	Frames    [][][]int `json:"frames"`
	DelayMs   int       `json:"delay_ms"`
	MediaPath string    `json:"media_path"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Sequence decodes the persisted frames.
func (r Record) Sequence() (sequence.Sequence, error) {
	return sequence.Decode(r.Frames, r.DelayMs)
}

func (r Record) validate() error {
	if strings.TrimSpace(r.Name) == "" {
		return ErrEmptyName
	}
	if r.Mode != ModeMarquee {
		return fmt.Errorf("mode %q: %w", r.Mode, ErrCorruptRecord)
	}
	if _, err := r.Sequence(); err != nil {
		return err
	}
	return nil
}

// Save assigns an ID and timestamps and persists rec.
func (s *Store) Save(rec Record) (Record, error) {
	if rec.Mode == "" {
		rec.Mode = ModeMarquee
	}
	if err := rec.validate(); err != nil {
		return Record{}, err
	}

	now := s.now()
	rec.ID = fmt.Sprintf("%s_%d", Slug(rec.Name), now.UnixNano())
	rec.CreatedAt = now
	rec.UpdatedAt = now

	if err := os.MkdirAll(filepath.Join(s.baseDir, rec.ID), 0755); err != nil {
		return Record{}, err
	}
	if err := s.write(rec); err != nil {
		os.RemoveAll(filepath.Join(s.baseDir, rec.ID))
		return Record{}, err
	}
	return rec, nil
}

// write replaces record.json atomically.
func (s *Store) write(rec Record) error {
	dir := filepath.Join(s.baseDir, rec.ID)
	tmp, err := os.CreateTemp(dir, recordFile+".*")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())

	enc := json.NewEncoder(tmp)
	enc.SetIndent("", "  ")
	if err := enc.Encode(rec); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), filepath.Join(dir, recordFile))
}

// Load reads one record. A missing record wraps ErrNotFound; an unreadable
// one is a *LoadError.
func (s *Store) Load(id string) (Record, error) {
	if id == "" || strings.ContainsAny(id, `/\`) {
		return Record{}, fmt.Errorf("record %q: %w", id, ErrNotFound)
	}
	data, err := os.ReadFile(filepath.Join(s.baseDir, id, recordFile))
	if err != nil {
		if os.IsNotExist(err) {
			return Record{}, fmt.Errorf("record %q: %w", id, ErrNotFound)
		}
		return Record{}, &LoadError{ID: id, Err: err}
	}

	var rec Record
	if err := json.Unmarshal(data, &rec); err != nil {
		return Record{}, &LoadError{ID: id, Err: fmt.Errorf("%w: %v", ErrCorruptRecord, err)}
	}
	if err := rec.validate(); err != nil {
		if !errors.Is(err, ErrCorruptRecord) {
			err = fmt.Errorf("%w: %v", ErrCorruptRecord, err)
		}
		return Record{}, &LoadError{ID: id, Err: err}
	}
	rec.ID = id
	return rec, nil
}

// List returns every readable record, oldest first. Records that fail to
// load are reported together in the returned error while the rest still
// come back.
func (s *Store) List() ([]Record, error) {
	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		if os.IsNotExist(err) {
			return []Record{}, nil
		}
		return nil, err
	}

	records := make([]Record, 0, len(entries))
	var errs []error
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		rec, err := s.Load(entry.Name())
		if err != nil {
			if errors.Is(err, ErrNotFound) {
				continue
			}
			errs = append(errs, err)
			continue
		}
		records = append(records, rec)
	}

	sort.SliceStable(records, func(i, j int) bool {
		return records[i].CreatedAt.Before(records[j].CreatedAt)
	})
	return records, errors.Join(errs...)
}

// FindByName returns the oldest record with the given name.
func (s *Store) FindByName(name string) (Record, error) {
	records, err := s.List()
	for _, rec := range records {
		if rec.Name == name {
			return rec, nil
		}
	}
	if err != nil {
		return Record{}, fmt.Errorf("record named %q: %w", name, errors.Join(ErrNotFound, err))
	}
	return Record{}, fmt.Errorf("record named %q: %w", name, ErrNotFound)
}

// Update loads the record, applies fn and writes it back. ID, Mode and
// CreatedAt are preserved.
func (s *Store) Update(id string, fn func(*Record) error) (Record, error) {
	rec, err := s.Load(id)
	if err != nil {
		return Record{}, err
	}
	next := rec
	if err := fn(&next); err != nil {
		return Record{}, err
	}
	next.ID, next.Mode, next.CreatedAt = rec.ID, rec.Mode, rec.CreatedAt
	if err := next.validate(); err != nil {
		return Record{}, err
	}
	next.UpdatedAt = s.now()
	if err := s.write(next); err != nil {
		return Record{}, err
	}
	return next, nil
}

func (s *Store) Rename(id, name string) (Record, error) {
	return s.Update(id, func(r *Record) error {
		r.Name = strings.TrimSpace(name)
		return nil
	})
}

func (s *Store) SetDelay(id string, delayMs int) (Record, error) {
	if delayMs <= 0 {
		return Record{}, fmt.Errorf("delay %d: %w", delayMs, sequence.ErrInvalidDelay)
	}
	return s.Update(id, func(r *Record) error {
		r.DelayMs = delayMs
		return nil
	})
}

// Delete removes the record and its media file.
func (s *Store) Delete(id string) error {
	rec, err := s.Load(id)
	if err != nil && errors.Is(err, ErrNotFound) {
		return err
	}
	if err == nil && rec.MediaPath != "" {
		if rmErr := os.Remove(rec.MediaPath); rmErr != nil && !os.IsNotExist(rmErr) {
			return rmErr
		}
	}
	return os.RemoveAll(filepath.Join(s.baseDir, id))
}

// Slug maps a record name to a lowercase file-name-safe token.
func Slug(name string) string {
	s := strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			return r
		case r >= 'A' && r <= 'Z':
			return r + ('a' - 'A')
		default:
			return '-'
		}
	}, strings.TrimSpace(name))
	s = strings.Trim(s, "-")
	if s == "" {
		return "record"
	}
	return s
}
