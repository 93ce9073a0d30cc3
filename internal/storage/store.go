// Package storage persists finished runs: a metadata.json summary, the
// config that produced the run, the sampled trajectory and the final rod
// shape, one directory per run.
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

	"github.com/san-kum/rodsim/internal/config"
	"github.com/san-kum/rodsim/internal/linalg"
	"github.com/san-kum/rodsim/internal/sim"
	"gonum.org/v1/gonum/spatial/r3"
)

const (
	metadataFile   = "metadata.json"
	configFile     = "config.yaml"
	trajectoryFile = "trajectory.csv"
	finalFile      = "final.csv"
)

var trajectoryHeader = []string{
	"time",
	"com_x", "com_y", "com_z",
	"vel_x", "vel_y", "vel_z",
	"kinetic_energy",
}

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
	ID         string             `json:"id"`
	Name       string             `json:"name"`
	Timestamp  time.Time          `json:"timestamp"`
	Dt         float64            `json:"dt"`
	Duration   float64            `json:"duration"`
	Integrator string             `json:"integrator"`
	Backend    string             `json:"backend"`
	Elements   int                `json:"elements"`
	Steps      int                `json:"steps"`
	Metrics    map[string]float64 `json:"metrics"`
}

// Save writes a run and returns its ID.
func (s *Store) Save(cfg *config.Config, result *sim.Result) (string, error) {
	now := time.Now()
	runID := fmt.Sprintf("%s_%d", cfg.Name, now.UnixNano())
	runDir := filepath.Join(s.baseDir, runID)

	if err := os.MkdirAll(runDir, 0755); err != nil {
		return "", err
	}

	meta := RunMetadata{
		ID:         runID,
		Name:       cfg.Name,
		Timestamp:  now,
		Dt:         cfg.Sim.Dt,
		Duration:   cfg.Sim.Duration,
		Integrator: cfg.Sim.Integrator,
		Backend:    cfg.Sim.Backend,
		Elements:   cfg.Rod.Elements,
		Steps:      result.StepsTaken,
		Metrics:    result.Metrics,
	}
	if err := writeJSON(filepath.Join(runDir, metadataFile), meta); err != nil {
		return "", err
	}
	if err := config.Save(filepath.Join(runDir, configFile), cfg); err != nil {
		return "", err
	}
	if err := writeTrajectory(filepath.Join(runDir, trajectoryFile), result.Samples); err != nil {
		return "", err
	}
	if result.Final != nil {
		if err := writeNodes(filepath.Join(runDir, finalFile), result.Final.Positions); err != nil {
			return "", err
		}
	}

	return runID, nil
}

func writeJSON(path string, v any) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func writeTrajectory(path string, samples []sim.Sample) error {
	rows := make([][]float64, len(samples))
	for i, smp := range samples {
		rows[i] = []float64{
			smp.Time,
			smp.CenterOfMass.X, smp.CenterOfMass.Y, smp.CenterOfMass.Z,
			smp.Velocity.X, smp.Velocity.Y, smp.Velocity.Z,
			smp.KineticEnergy,
		}
	}
	return writeCSV(path, trajectoryHeader, rows)
}

func writeNodes(path string, nodes linalg.Vectors) error {
	rows := make([][]float64, len(nodes))
	for i, p := range nodes {
		rows[i] = []float64{p.X, p.Y, p.Z}
	}
	return writeCSV(path, []string{"x", "y", "z"}, rows)
}

func writeCSV(path string, header []string, rows [][]float64) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(header); err != nil {
		return err
	}
	record := make([]string, len(header))
	for _, row := range rows {
		for j, v := range row {
			record[j] = strconv.FormatFloat(v, 'g', -1, 64)
		}
		if err := w.Write(record); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}

// List returns the stored runs, newest first. Directories without readable
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

	sort.Slice(runs, func(i, j int) bool {
		return runs[i].Timestamp.After(runs[j].Timestamp)
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
		return nil, err
	}
	return &meta, nil
}

func (s *Store) LoadConfig(runID string) (*config.Config, error) {
	return config.Load(filepath.Join(s.baseDir, runID, configFile))
}

func (s *Store) LoadTrajectory(runID string) ([]sim.Sample, error) {
	rows, err := readCSV(filepath.Join(s.baseDir, runID, trajectoryFile), len(trajectoryHeader))
	if err != nil {
		return nil, err
	}

	samples := make([]sim.Sample, len(rows))
	for i, row := range rows {
		samples[i] = sim.Sample{
			Time:          row[0],
			CenterOfMass:  r3.Vec{X: row[1], Y: row[2], Z: row[3]},
			Velocity:      r3.Vec{X: row[4], Y: row[5], Z: row[6]},
			KineticEnergy: row[7],
		}
	}
	return samples, nil
}

// LoadFinal returns the node positions at the end of the run.
func (s *Store) LoadFinal(runID string) (linalg.Vectors, error) {
	rows, err := readCSV(filepath.Join(s.baseDir, runID, finalFile), 3)
	if err != nil {
		return nil, err
	}

	nodes := linalg.NewVectors(len(rows))
	for i, row := range rows {
		nodes[i] = r3.Vec{X: row[0], Y: row[1], Z: row[2]}
	}
	return nodes, nil
}

func readCSV(path string, width int) ([][]float64, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = width

	records, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("storage: %s: %w", filepath.Base(path), err)
	}
	if len(records) < 2 {
		return [][]float64{}, nil
	}

	rows := make([][]float64, 0, len(records)-1)
	for line, record := range records[1:] {
		row := make([]float64, width)
		for j, field := range record {
			v, err := strconv.ParseFloat(field, 64)
			if err != nil {
				return nil, fmt.Errorf("storage: %s line %d: %w", filepath.Base(path), line+2, err)
			}
			row[j] = v
		}
		rows = append(rows, row)
	}
	return rows, nil
}
