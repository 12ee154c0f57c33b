package repository

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	apperrors "github.com/ientropic/ClassCodex/errors"
	"github.com/ientropic/ClassCodex/internal/domain/entities"
)

// unknownCollection is the on-disk collection for recordings no schedule
// claimed. Prefixed so it can never collide with a real course slug.
const unknownCollection = "_unknown"

// RecordingRepository persists RecordingRecords, one JSON collection file
// per course. Writes are all-or-nothing (temp file + rename) so a crash
// mid-write never corrupts previously stored records, and records are kept
// in chronological order by recording timestamp regardless of processing
// order. Writes to a given course are serialized with a per-course lock.
type RecordingRepository struct {
	dir string

	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

// NewRecordingRepository creates a repository rooted at dir.
func NewRecordingRepository(dir string) *RecordingRepository {
	return &RecordingRepository{
		dir:   dir,
		locks: make(map[string]*sync.Mutex),
	}
}

// Append inserts the record into its course collection at the position its
// timestamp dictates.
func (r *RecordingRepository) Append(rec *entities.RecordingRecord) error {
	key := collectionKey(rec.Course)
	lock := r.courseLock(key)
	lock.Lock()
	defer lock.Unlock()

	records, err := r.load(key)
	if err != nil {
		return err
	}

	records = append(records, *rec)
	sort.SliceStable(records, func(i, j int) bool {
		if !records[i].RecordedAt.Equal(records[j].RecordedAt) {
			return records[i].RecordedAt.Before(records[j].RecordedAt)
		}
		if records[i].Ordinal != records[j].Ordinal {
			return records[i].Ordinal < records[j].Ordinal
		}
		return records[i].SegmentStart < records[j].SegmentStart
	})

	return r.store(key, records)
}

// ListAll returns the course's records in chronological order. courseName
// empty means the Unknown Course collection.
func (r *RecordingRepository) ListAll(courseName string) ([]entities.RecordingRecord, error) {
	key := keyFor(courseName)
	lock := r.courseLock(key)
	lock.Lock()
	defer lock.Unlock()
	return r.load(key)
}

// FindByFilename returns the records produced from one source file (a split
// recording yields one per segment).
func (r *RecordingRepository) FindByFilename(courseName, filename string) ([]entities.RecordingRecord, error) {
	records, err := r.ListAll(courseName)
	if err != nil {
		return nil, err
	}
	var out []entities.RecordingRecord
	for _, rec := range records {
		if rec.SourceFile == filename {
			out = append(out, rec)
		}
	}
	return out, nil
}

// UpdateSpeakerLabels replaces the display-name overlay on every record for
// the given source file. The stored raw-id transcript is untouched.
func (r *RecordingRepository) UpdateSpeakerLabels(courseName, filename string, labels entities.SpeakerLabelMap) error {
	key := keyFor(courseName)
	lock := r.courseLock(key)
	lock.Lock()
	defer lock.Unlock()

	records, err := r.load(key)
	if err != nil {
		return err
	}

	found := false
	for i := range records {
		if records[i].SourceFile == filename {
			records[i].SpeakerLabels = labels
			found = true
		}
	}
	if !found {
		return apperrors.ErrInvalidArgument(
			fmt.Sprintf("no record for %s in collection %s", filename, key))
	}

	return r.store(key, records)
}

func (r *RecordingRepository) courseLock(key string) *sync.Mutex {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.locks[key]; !ok {
		r.locks[key] = &sync.Mutex{}
	}
	return r.locks[key]
}

func (r *RecordingRepository) path(key string) string {
	return filepath.Join(r.dir, key+".json")
}

func (r *RecordingRepository) load(key string) ([]entities.RecordingRecord, error) {
	data, err := os.ReadFile(r.path(key))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, apperrors.ErrPersistenceWrite(r.path(key), err)
	}
	var records []entities.RecordingRecord
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, apperrors.ErrPersistenceWrite(r.path(key), err)
	}
	return records, nil
}

func (r *RecordingRepository) store(key string, records []entities.RecordingRecord) error {
	if err := os.MkdirAll(r.dir, 0o755); err != nil {
		return apperrors.ErrPersistenceWrite(r.dir, err)
	}

	data, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return apperrors.ErrPersistenceWrite(r.path(key), err)
	}

	tmp, err := os.CreateTemp(r.dir, "."+key+"-*.tmp")
	if err != nil {
		return apperrors.ErrPersistenceWrite(r.path(key), err)
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return apperrors.ErrPersistenceWrite(r.path(key), err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return apperrors.ErrPersistenceWrite(r.path(key), err)
	}
	if err := os.Rename(tmpName, r.path(key)); err != nil {
		os.Remove(tmpName)
		return apperrors.ErrPersistenceWrite(r.path(key), err)
	}
	return nil
}

func collectionKey(course *string) string {
	if course == nil {
		return unknownCollection
	}
	return slugify(*course)
}

func keyFor(courseName string) string {
	if courseName == "" {
		return unknownCollection
	}
	return slugify(courseName)
}

func slugify(name string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(name) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == ' ', r == '-', r == '_':
			b.WriteByte('-')
		}
	}
	slug := strings.Trim(b.String(), "-")
	if slug == "" {
		return unknownCollection
	}
	return slug
}
