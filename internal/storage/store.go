package storage

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"time"

	"github.com/san-kum/erosion/internal/config"
	"github.com/san-kum/erosion/internal/dynamo"
)

const (
	metadataFile = "metadata.json"
	samplesFile  = "samples.csv"
)

type Store struct {
	baseDir string
}

func New(baseDir string) *Store {
	return &Store{baseDir: baseDir}
}

func (s *Store) Init() error {
	return os.MkdirAll(s.baseDir, 0755)
}

type RunMetadata struct {
	ID        string             `json:"id"`
	Preset    string             `json:"preset"`
	Timestamp time.Time          `json:"timestamp"`
	Seed      int64              `json:"seed"`
	Cols      int                `json:"cols"`
	Rows      int                `json:"rows"`
	Width     float64            `json:"width"`
	Height    float64            `json:"height"`
	Bodies    int                `json:"bodies"`
	FrameDt   float64            `json:"frame_dt"`
	Frames    int                `json:"frames"`
	SimTime   float64            `json:"sim_time"`
	Cleared   bool               `json:"cleared"`
	Metrics   map[string]float64 `json:"metrics"`
}

// Save writes the run metadata and its samples under a fresh run id.
func (s *Store) Save(cfg *config.Config, result *dynamo.Result) (string, error) {
	now := time.Now()
	name := cfg.Name
	if name == "" {
		name = "run"
	}
	runID := fmt.Sprintf("%s_%d", name, now.UnixNano())
	runDir := filepath.Join(s.baseDir, runID)

	if err := os.MkdirAll(runDir, 0755); err != nil {
		return "", err
	}

	meta := RunMetadata{
		ID:        runID,
		Preset:    cfg.Name,
		Timestamp: now,
		Seed:      cfg.Seed,
		Cols:      cfg.Grid.Cols,
		Rows:      cfg.Grid.Rows,
		Width:     cfg.Canvas.Width,
		Height:    cfg.Canvas.Height,
		Bodies:    cfg.Bodies.Initial,
		FrameDt:   cfg.FrameDt,
		Frames:    result.Frames,
		SimTime:   result.Time,
		Cleared:   result.Cleared,
		Metrics:   result.Metrics,
	}

	if err := writeMetadata(filepath.Join(runDir, metadataFile), meta); err != nil {
		return "", err
	}

	csvFile, err := os.Create(filepath.Join(runDir, samplesFile))
	if err != nil {
		return "", err
	}
	defer csvFile.Close()

	if err := WriteSamplesCSV(csvFile, result.Samples); err != nil {
		return "", err
	}
	return runID, nil
}

func writeMetadata(path string, meta RunMetadata) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	return enc.Encode(meta)
}

// List returns every readable run, oldest first. Directories without valid
// metadata are skipped.
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

	sort.SliceStable(runs, func(i, j int) bool {
		return runs[i].Timestamp.Before(runs[j].Timestamp)
	})
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

// LoadSamples reads the samples of a run. A run without samples returns
// dynamo.ErrNoSamples.
func (s *Store) LoadSamples(runID string) ([]dynamo.Sample, error) {
	file, err := os.Open(filepath.Join(s.baseDir, runID, samplesFile))
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

	if len(records) < 2 {
		return nil, fmt.Errorf("run %s: %w", runID, dynamo.ErrNoSamples)
	}

	samples := make([]dynamo.Sample, 0, len(records)-1)
	for i := 1; i < len(records); i++ {
		sample, err := parseSample(records[i])
		if err != nil {
			return nil, fmt.Errorf("run %s line %d: %w", runID, i+1, err)
		}
		samples = append(samples, sample)
	}

	return samples, nil
}

// LoadResult rebuilds a result from stored metadata and samples.
func (s *Store) LoadResult(runID string) (*RunMetadata, *dynamo.Result, error) {
	meta, err := s.Load(runID)
	if err != nil {
		return nil, nil, err
	}
	samples, err := s.LoadSamples(runID)
	if err != nil {
		return nil, nil, err
	}
	return meta, &dynamo.Result{
		Samples: samples,
		Metrics: meta.Metrics,
		Frames:  meta.Frames,
		Time:    meta.SimTime,
		Cleared: meta.Cleared,
	}, nil
}

var csvHeader = append([]string{"frame"}, dynamo.SeriesNames...)

// WriteSamplesCSV writes a header row followed by one row per sample.
func WriteSamplesCSV(out io.Writer, samples []dynamo.Sample) error {
	w := csv.NewWriter(out)

	if err := w.Write(csvHeader); err != nil {
		return err
	}
	for _, s := range samples {
		row := []string{
			strconv.Itoa(s.Frame),
			formatFloat(s.Time),
			strconv.Itoa(s.Bodies),
			strconv.Itoa(s.Painted),
			formatFloat(s.Coverage),
			formatFloat(s.Energy),
			formatFloat(s.MaxSpeed),
			strconv.Itoa(s.Substeps),
			strconv.Itoa(s.Eroded),
			strconv.Itoa(s.Contacts),
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}

	w.Flush()
	return w.Error()
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}

func parseSample(record []string) (dynamo.Sample, error) {
	var s dynamo.Sample
	if len(record) != len(csvHeader) {
		return s, fmt.Errorf("expected %d fields, got %d", len(csvHeader), len(record))
	}

	ints := []*int{&s.Frame, nil, &s.Bodies, &s.Painted, nil, nil, nil, &s.Substeps, &s.Eroded, &s.Contacts}
	floats := []*float64{nil, &s.Time, nil, nil, &s.Coverage, &s.Energy, &s.MaxSpeed, nil, nil, nil}

	for i, field := range record {
		switch {
		case ints[i] != nil:
			v, err := strconv.Atoi(field)
			if err != nil {
				return s, fmt.Errorf("%s: %w", csvHeader[i], err)
			}
			*ints[i] = v
		case floats[i] != nil:
			v, err := strconv.ParseFloat(field, 64)
			if err != nil {
				return s, fmt.Errorf("%s: %w", csvHeader[i], err)
			}
			*floats[i] = v
		}
	}
	return s, nil
}
