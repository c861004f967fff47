package reportstore

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

const indexFilename = "report_index.json"

// timestampLayout sorts lexicographically, which keeps the string sort in
// ListByPatient date-correct.
const timestampLayout = "20060102_150405"

type DateRange struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

// Metadata is one entry of the report index. PatientID is a string to match
// the historical index format.
type Metadata struct {
	PatientID   string    `json:"patient_id"`
	Filename    string    `json:"filename"`
	ReportType  string    `json:"report_type"`
	Format      string    `json:"format"`
	Renderer    string    `json:"renderer,omitempty"`
	GeneratedAt string    `json:"generated_at"`
	DateRange   DateRange `json:"date_range"`
}

type index struct {
	Reports []Metadata `json:"reports"`
}

// Store owns the artifact directory and its JSON index. The mutex guards
// the read-modify-write of the index; writes go through a temp file and
// rename so a crashed writer cannot leave a torn index behind.
type Store struct {
	dir    string
	mu     sync.Mutex
	logger zerolog.Logger
	now    func() time.Time
}

func New(dir string, logger zerolog.Logger) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create reports directory %s: %w", dir, err)
	}
	return &Store{
		dir:    dir,
		logger: logger.With().Str("component", "reportstore").Logger(),
		now:    time.Now,
	}, nil
}

// Dir returns the artifact directory.
func (s *Store) Dir() string { return s.dir }

// Filename builds `<patient>_<type>_<timestamp>.<ext>`.
func (s *Store) Filename(patientID, reportType, ext string) string {
	return fmt.Sprintf("%s_%s_%s.%s", patientID, reportType, s.now().Format(timestampLayout), ext)
}

// Timestamp returns the current index timestamp string.
func (s *Store) Timestamp() string {
	return s.now().Format(timestampLayout)
}

// WriteArtifact stores a report file under the artifact directory and
// returns its full path.
func (s *Store) WriteArtifact(filename string, content []byte) (string, error) {
	path := filepath.Join(s.dir, filename)
	if err := os.WriteFile(path, content, 0o644); err != nil {
		return "", fmt.Errorf("write report artifact %s: %w", filename, err)
	}
	return path, nil
}

// ArtifactPath returns the path a named artifact would live at.
func (s *Store) ArtifactPath(filename string) string {
	return filepath.Join(s.dir, filename)
}

// Append adds one metadata record to the index.
func (s *Store) Append(meta Metadata) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.readIndex()
	idx.Reports = append(idx.Reports, meta)

	data, err := json.MarshalIndent(idx, "", "  ")
	if err != nil {
		return fmt.Errorf("encode report index: %w", err)
	}

	indexPath := filepath.Join(s.dir, indexFilename)
	tmp, err := os.CreateTemp(s.dir, indexFilename+".*")
	if err != nil {
		return fmt.Errorf("create temp index: %w", err)
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("write temp index: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("close temp index: %w", err)
	}
	if err := os.Rename(tmpName, indexPath); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("replace report index: %w", err)
	}
	return nil
}

// ListByPatient returns the patient's records newest-first by generated_at.
func (s *Store) ListByPatient(patientID string) []Metadata {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.readIndex()
	out := []Metadata{}
	for _, m := range idx.Reports {
		if m.PatientID == patientID {
			out = append(out, m)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].GeneratedAt > out[j].GeneratedAt
	})
	return out
}

// ListAll returns a page of all records, newest-first.
func (s *Store) ListAll(limit, offset int) ([]Metadata, int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.readIndex()
	all := append([]Metadata{}, idx.Reports...)
	sort.SliceStable(all, func(i, j int) bool {
		return all[i].GeneratedAt > all[j].GeneratedAt
	})
	total := len(all)
	if offset >= total {
		return []Metadata{}, total
	}
	end := offset + limit
	if end > total {
		end = total
	}
	return all[offset:end], total
}

// readIndex loads the index file; a missing or corrupt file is treated as
// an empty index.
func (s *Store) readIndex() index {
	data, err := os.ReadFile(filepath.Join(s.dir, indexFilename))
	if err != nil {
		if !os.IsNotExist(err) {
			s.logger.Error().Err(err).Msg("failed to read report index")
		}
		return index{Reports: []Metadata{}}
	}
	var idx index
	if err := json.Unmarshal(data, &idx); err != nil {
		s.logger.Error().Err(err).Msg("report index is corrupt, starting empty")
		return index{Reports: []Metadata{}}
	}
	if idx.Reports == nil {
		idx.Reports = []Metadata{}
	}
	return idx
}
