package store

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

// Format selects the export serialization.
type Format string

const (
	FormatJSON Format = "json"
	FormatCSV  Format = "csv"
)

// exportEnvelope is the JSON export document. Settings is marshaled
// verbatim so the envelope round-trips whatever settings struct the caller
// is running with.
type exportEnvelope struct {
	Version   int              `json:"version"`
	Timestamp string           `json:"timestamp"`
	Settings  any              `json:"settings"`
	Signals   []exportedSignal `json:"signals"`
}

type exportedSignal struct {
	ID          string           `json:"id"`
	DisplayName string           `json:"displayName"`
	Color       string           `json:"color"`
	Enabled     bool             `json:"enabled"`
	LineStyle   LineStyle        `json:"lineStyle"`
	Opacity     float64          `json:"opacity"`
	LineWidth   float64          `json:"lineWidth"`
	Samples     []exportedSample `json:"samples"`
}

type exportedSample struct {
	TimestampMs int64   `json:"timestampMs"`
	Value       float64 `json:"value"`
}

const exportVersion = 1

// Export serializes all signals and their buffers. settings is included
// verbatim in the JSON envelope and ignored for CSV.
//
// CSV rows are aligned by sample index, not by timestamp: row i carries the
// first signal's i-th timestamp and every signal's i-th value, with empty
// cells where a signal has fewer samples. Signals sampling at different
// effective rates therefore shear against each other; this matches the
// historical export format and is kept as a known limitation.
func (s *Store) Export(format Format, settings any) (string, error) {
	snaps := s.SnapshotAll()

	switch format {
	case FormatJSON:
		return exportJSON(snaps, settings)
	case FormatCSV:
		return exportCSV(snaps)
	default:
		return "", fmt.Errorf("store: unknown export format %q", format)
	}
}

// ExportToFile writes an export atomically: the document is staged in a
// temp file in the target directory and renamed into place, so a failed
// export never leaves a partial file.
func (s *Store) ExportToFile(path string, format Format, settings any) error {
	doc, err := s.Export(format, settings)
	if err != nil {
		return err
	}

	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, ".pulse-scope-export-*")
	if err != nil {
		return fmt.Errorf("store: export: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.WriteString(doc); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("store: export write: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("store: export close: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("store: export rename: %w", err)
	}
	return nil
}

func exportJSON(snaps []*Snapshot, settings any) (string, error) {
	env := exportEnvelope{
		Version:   exportVersion,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Settings:  settings,
		Signals:   make([]exportedSignal, 0, len(snaps)),
	}

	for _, snap := range snaps {
		es := exportedSignal{
			ID:          snap.Signal.ID,
			DisplayName: snap.Signal.DisplayName,
			Color:       snap.Signal.Color,
			Enabled:     snap.Signal.Enabled,
			LineStyle:   snap.Signal.LineStyle,
			Opacity:     snap.Signal.Opacity,
			LineWidth:   snap.Signal.LineWidth,
			Samples:     make([]exportedSample, 0, snap.Len()),
		}
		for i := range snap.TimesMs {
			es.Samples = append(es.Samples, exportedSample{
				TimestampMs: snap.TimesMs[i],
				Value:       snap.Values[i],
			})
		}
		env.Signals = append(env.Signals, es)
	}

	out, err := json.MarshalIndent(env, "", "  ")
	if err != nil {
		return "", fmt.Errorf("store: export json: %w", err)
	}
	return string(out), nil
}

func exportCSV(snaps []*Snapshot) (string, error) {
	header := make([]string, 0, len(snaps)+1)
	header = append(header, "timestamp")
	longest := 0
	for _, snap := range snaps {
		header = append(header, snap.Signal.DisplayName)
		if snap.Len() > longest {
			longest = snap.Len()
		}
	}

	var sb strings.Builder
	w := csv.NewWriter(&sb)
	if err := w.Write(header); err != nil {
		return "", fmt.Errorf("store: export csv: %w", err)
	}

	for i := 0; i < longest; i++ {
		row := make([]string, 0, len(snaps)+1)

		// Row timestamp comes from the first signal when it has an i-th
		// sample, else from the first signal that does.
		ts := ""
		for _, snap := range snaps {
			if i < snap.Len() {
				ts = strconv.FormatInt(snap.TimesMs[i], 10)
				break
			}
		}
		row = append(row, ts)

		for _, snap := range snaps {
			if i < snap.Len() {
				row = append(row, strconv.FormatFloat(snap.Values[i], 'g', -1, 64))
			} else {
				row = append(row, "")
			}
		}
		if err := w.Write(row); err != nil {
			return "", fmt.Errorf("store: export csv: %w", err)
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return "", fmt.Errorf("store: export csv: %w", err)
	}
	return sb.String(), nil
}
