// Package artifact reads and writes the files exchanged between pipeline
// stages. Every write goes to a temporary file in the destination directory
// and is renamed into place, so a failed stage never leaves a partial file.
package artifact

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/exp/mmap"
)

// Artifact file names inside the output directory.
const (
	MembersFile         = "members.json"
	EdgeListFile        = "edge_list.csv"
	TotalFollowingFile  = "total_following.csv"
	AdjacencyFile       = "adjacency_matrix.csv"
	ReciprocityFile     = "reciprocity_matrix.csv"
	MetricsReportFile   = "metrics_report.csv"
	ZeroDegreeFile      = "zero_degree.json"
	GlobalStatsFile     = "global_stats.json"
	CommunityMasterFile = "community_master.json"
	SummaryFile         = "network_summary.json"
)

const (
	dirPermissions  = 0o755
	filePermissions = 0o644
)

var (
	// ErrNotFound is returned when an artifact or input file does not exist.
	ErrNotFound = errors.New("artifact not found")
	// ErrMalformed is returned when a file cannot be parsed.
	ErrMalformed = errors.New("malformed artifact")
)

// utf8BOM prefixes CSV outputs so spreadsheet tools detect the encoding.
const utf8BOM = "\ufeff"

// GroupingFile names the grouping report of one algorithm.
func GroupingFile(algorithm string) string {
	return "community_grouping_" + algorithm + ".csv"
}

// GraphExportFile names the node/link export of one algorithm.
func GraphExportFile(algorithm string) string {
	return "nodes_edges_" + algorithm + ".json"
}

// writeAtomic writes through fn into a temporary sibling of path and renames
// it into place.
func writeAtomic(path string, fn func(w io.Writer) error) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, dirPermissions); err != nil {
		return fmt.Errorf("failed to create directory %s: %w", dir, err)
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("failed to create temporary file: %w", err)
	}
	tmpPath := tmp.Name()
	defer os.Remove(tmpPath) // no-op after a successful rename

	if err := fn(tmp); err != nil {
		_ = tmp.Close()
		return err
	}
	if err := tmp.Chmod(filePermissions); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("failed to set permissions: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to close %s: %w", tmpPath, err)
	}

	// Atomic rename
	if err := os.Rename(tmpPath, path); err != nil {
		return fmt.Errorf("failed to rename %s: %w", path, err)
	}
	return nil
}

func writeJSON(path string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal %s: %w", filepath.Base(path), err)
	}
	return writeAtomic(path, func(w io.Writer) error {
		_, err := w.Write(append(data, '\n'))
		return err
	})
}

func readJSON(path string, v any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return notFound(path, err)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("%w: %s: %v", ErrMalformed, path, err)
	}
	return nil
}

func writeCSV(path string, header []string, rows [][]string) error {
	return writeAtomic(path, func(w io.Writer) error {
		if _, err := io.WriteString(w, utf8BOM); err != nil {
			return err
		}
		cw := csv.NewWriter(w)
		if err := cw.Write(header); err != nil {
			return err
		}
		if err := cw.WriteAll(rows); err != nil {
			return fmt.Errorf("failed to write %s: %w", filepath.Base(path), err)
		}
		return nil
	})
}

// readCSV memory-maps path and returns the trimmed header and the records.
func readCSV(path string) ([]string, [][]string, error) {
	r, err := mmap.Open(path)
	if err != nil {
		return nil, nil, notFound(path, err)
	}
	defer r.Close()

	cr := csv.NewReader(io.NewSectionReader(r, 0, int64(r.Len())))
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return nil, nil, fmt.Errorf("%w: %s: empty file", ErrMalformed, path)
	}
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %s: %v", ErrMalformed, path, err)
	}
	for i := range header {
		header[i] = strings.TrimSpace(strings.TrimPrefix(header[i], utf8BOM))
	}

	records, err := cr.ReadAll()
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %s: %v", ErrMalformed, path, err)
	}
	return header, records, nil
}

func notFound(path string, err error) error {
	if errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("%w: %s", ErrNotFound, path)
	}
	return fmt.Errorf("failed to read %s: %w", path, err)
}

// columns maps accepted header names to column positions.
type columns map[string]int

func indexColumns(header []string) columns {
	c := make(columns, len(header))
	for i, h := range header {
		key := strings.ToLower(h)
		if _, dup := c[key]; !dup {
			c[key] = i
		}
	}
	return c
}

// find returns the position of the first present alias, or -1.
func (c columns) find(aliases ...string) int {
	for _, a := range aliases {
		if i, ok := c[a]; ok {
			return i
		}
	}
	return -1
}

func cell(record []string, i int) string {
	if i < 0 || i >= len(record) {
		return ""
	}
	return strings.TrimSpace(record[i])
}
