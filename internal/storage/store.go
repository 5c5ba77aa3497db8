package storage

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/san-kum/primeviz/internal/engine"
	"github.com/san-kum/primeviz/internal/scene"
)

const (
	metadataFile = "metadata.json"
	framesFile   = "frames.csv"
)

// Store keeps one directory per captured run under baseDir.
type Store struct {
	baseDir string
}

func New(baseDir string) *Store {
	return &Store{baseDir: baseDir}
}

func (s *Store) Init() error {
	return os.MkdirAll(s.baseDir, 0755)
}

func (s *Store) Dir() string { return s.baseDir }

type RunMetadata struct {
	ID         string             `json:"id"`
	Mode       string             `json:"mode"`
	Timestamp  time.Time          `json:"timestamp"`
	Frames     int                `json:"frames"`
	Dt         float64            `json:"dt"`
	Duration   float64            `json:"duration"`
	Width      int                `json:"width"`
	Height     int                `json:"height"`
	SieveMax   int                `json:"sieve_max"`
	Params     scene.Params       `json:"params"`
	ModeParams map[string]float64 `json:"mode_params,omitempty"`
	Stats      map[string]float64 `json:"stats,omitempty"`
	Halted     string             `json:"halted,omitempty"`
}

// Recorder is an engine observer that buffers every frame for Save.
type Recorder struct {
	Frames []engine.Frame
}

func (r *Recorder) OnFrame(f engine.Frame) {
	r.Frames = append(r.Frames, f)
}

// Save writes metadata.json and frames.csv for a run and returns its ID.
// Duration and the final stats are derived from frames when present.
func (s *Store) Save(meta RunMetadata, frames []engine.Frame) (string, error) {
	if meta.ID == "" {
		meta.ID = uuid.NewString()
	}
	if meta.Timestamp.IsZero() {
		meta.Timestamp = time.Now()
	}
	meta.Frames = len(frames)
	if n := len(frames); n > 0 {
		meta.Duration = frames[n-1].T
		if meta.Stats == nil {
			meta.Stats = frames[n-1].Stats
		}
	}

	runDir := filepath.Join(s.baseDir, meta.ID)
	if err := os.MkdirAll(runDir, 0755); err != nil {
		return "", err
	}

	metaFile, err := os.Create(filepath.Join(runDir, metadataFile))
	if err != nil {
		return "", err
	}
	defer metaFile.Close()

	enc := json.NewEncoder(metaFile)
	enc.SetIndent("", "  ")
	if err := enc.Encode(meta); err != nil {
		return "", err
	}

	if err := writeFrames(filepath.Join(runDir, framesFile), frames); err != nil {
		return "", err
	}
	return meta.ID, nil
}

var kindColumns = []scene.Kind{
	scene.KindFillRect, scene.KindStrokeRect, scene.KindLine,
	scene.KindPoint, scene.KindCircle, scene.KindText,
}

func writeFrames(path string, frames []engine.Frame) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)

	header := []string{"frame", "t", "dt", "commands", "elapsed_us"}
	for _, k := range kindColumns {
		header = append(header, k.String())
	}
	var statKeys []string
	if len(frames) > 0 {
		for k := range frames[0].Stats {
			statKeys = append(statKeys, k)
		}
		sort.Strings(statKeys)
	}
	header = append(header, statKeys...)
	if err := w.Write(header); err != nil {
		return err
	}

	format := func(v float64) string { return strconv.FormatFloat(v, 'f', 6, 64) }
	for _, fr := range frames {
		row := []string{
			strconv.Itoa(fr.Index),
			format(fr.T),
			format(fr.Dt),
			strconv.Itoa(fr.Commands),
			strconv.FormatInt(fr.Elapsed.Microseconds(), 10),
		}
		for _, k := range kindColumns {
			row = append(row, strconv.Itoa(fr.Census[k]))
		}
		for _, k := range statKeys {
			row = append(row, format(fr.Stats[k]))
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}

	w.Flush()
	return w.Error()
}

// List returns every readable run, newest first.
func (s *Store) List() ([]RunMetadata, error) {
	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		if os.IsNotExist(err) {
			return []RunMetadata{}, nil
		}
		return nil, err
	}

	runs := make([]RunMetadata, 0)
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		meta, err := s.Load(entry.Name())
		if err != nil {
			continue
		}
		runs = append(runs, *meta)
	}

	sort.Slice(runs, func(i, j int) bool { return runs[i].Timestamp.After(runs[j].Timestamp) })
	return runs, nil
}

func (s *Store) Load(runID string) (*RunMetadata, error) {
	data, err := os.ReadFile(filepath.Join(s.baseDir, runID, metadataFile))
	if err != nil {
		return nil, err
	}

	var meta RunMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, fmt.Errorf("run %s: %w", runID, err)
	}
	return &meta, nil
}

// Table is a loaded frames.csv: the header plus numeric rows.
type Table struct {
	Columns []string
	Rows    [][]float64
}

// Column returns the named column, or nil when absent.
func (t *Table) Column(name string) []float64 {
	idx := -1
	for i, c := range t.Columns {
		if c == name {
			idx = i
			break
		}
	}
	if idx < 0 {
		return nil
	}
	out := make([]float64, 0, len(t.Rows))
	for _, row := range t.Rows {
		if idx < len(row) {
			out = append(out, row[idx])
		}
	}
	return out
}

func (s *Store) LoadFrames(runID string) (*Table, error) {
	file, err := os.Open(filepath.Join(s.baseDir, runID, framesFile))
	if err != nil {
		return nil, err
	}
	defer file.Close()

	r := csv.NewReader(file)
	r.FieldsPerRecord = -1

	records, err := r.ReadAll()
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return &Table{}, nil
	}

	t := &Table{Columns: records[0], Rows: make([][]float64, 0, len(records)-1)}
	for _, record := range records[1:] {
		row := make([]float64, 0, len(record))
		for _, field := range record {
			v, err := strconv.ParseFloat(field, 64)
			if err != nil {
				v = 0
			}
			row = append(row, v)
		}
		t.Rows = append(t.Rows, row)
	}
	return t, nil
}
