package artifact

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/golang/snappy"
)

// Archive bundles the artifacts of one run.
type Archive struct {
	RunID     string            `json:"run_id"`
	CreatedAt time.Time         `json:"created_at"`
	Files     map[string][]byte `json:"files"`
}

// Names lists archived file names in order.
func (a *Archive) Names() []string {
	names := make([]string, 0, len(a.Files))
	for name := range a.Files {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// WriteArchive snappy-compresses the named files of dir into path. Missing
// files are skipped so partial runs can still be archived.
func WriteArchive(path, runID, dir string, names []string) (*Archive, error) {
	a := &Archive{
		RunID:     runID,
		CreatedAt: time.Now().UTC(),
		Files:     make(map[string][]byte, len(names)),
	}
	for _, name := range names {
		data, err := os.ReadFile(filepath.Join(dir, name))
		if os.IsNotExist(err) {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read %s: %w", name, err)
		}
		a.Files[name] = data
	}

	data, err := json.Marshal(a)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal archive: %w", err)
	}
	compressed := snappy.Encode(nil, data)

	err = writeAtomic(path, func(w io.Writer) error {
		_, err := w.Write(compressed)
		return err
	})
	if err != nil {
		return nil, err
	}
	return a, nil
}

// ReadArchive reads a file written by WriteArchive.
func ReadArchive(path string) (*Archive, error) {
	compressed, err := os.ReadFile(path)
	if err != nil {
		return nil, notFound(path, err)
	}
	data, err := snappy.Decode(nil, compressed)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrMalformed, path, err)
	}
	var a Archive
	if err := json.Unmarshal(data, &a); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrMalformed, path, err)
	}
	return &a, nil
}
