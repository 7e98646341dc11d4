package boxoffice

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/renameio/v2"
	"github.com/xuri/excelize/v2"

	"github.com/amaumene/dvmovies/internal/constants"
)

// snapshotFile is the JSON form written by WriteJSON.
type snapshotFile struct {
	Titles      []string  `json:"titles"`
	Source      string    `json:"source,omitempty"`
	GeneratedAt time.Time `json:"generatedAt"`
}

// Load reads a snapshot from an .xlsx export of the daily box office or from
// a .json file produced by WriteJSON.
func Load(path string) (*Snapshot, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".xlsx", ".xlsm":
		titles, err := readWorkbook(path)
		if err != nil {
			return nil, err
		}
		return NewSnapshot(titles, path, time.Now()), nil
	case ".json":
		return readJSON(path)
	default:
		return nil, fmt.Errorf("unsupported snapshot format %q", filepath.Ext(path))
	}
}

// readWorkbook takes the title column of the first sheet, below the banner
// and header rows of the export.
func readWorkbook(path string) ([]string, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook %s: %w", path, err)
	}
	defer func() { _ = f.Close() }()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("workbook %s has no sheets", path)
	}

	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet %q: %w", sheets[0], err)
	}

	var titles []string
	for i, row := range rows {
		if i < constants.BoxOfficeHeaderRows {
			continue
		}
		if len(row) <= constants.BoxOfficeTitleColumn {
			continue
		}
		if title := strings.TrimSpace(row[constants.BoxOfficeTitleColumn]); title != "" {
			titles = append(titles, title)
		}
	}
	return titles, nil
}

func readJSON(path string) (*Snapshot, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read snapshot %s: %w", path, err)
	}

	var file snapshotFile
	if err := json.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to decode snapshot %s: %w", path, err)
	}

	loadedAt := file.GeneratedAt
	if loadedAt.IsZero() {
		loadedAt = time.Now()
	}
	return NewSnapshot(file.Titles, path, loadedAt), nil
}

// WriteJSON atomically replaces path with the JSON form of snap.
func WriteJSON(path string, snap *Snapshot) error {
	data, err := json.MarshalIndent(snapshotFile{
		Titles:      snap.Titles(),
		Source:      snap.Source(),
		GeneratedAt: time.Now().UTC(),
	}, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode snapshot: %w", err)
	}

	pending, err := renameio.NewPendingFile(path, renameio.WithPermissions(0o644))
	if err != nil {
		return fmt.Errorf("create pending snapshot file: %w", err)
	}
	defer func() { _ = pending.Cleanup() }()

	if _, err := pending.Write(append(data, '\n')); err != nil {
		return fmt.Errorf("write snapshot data: %w", err)
	}
	if err := pending.CloseAtomicallyReplace(); err != nil {
		return fmt.Errorf("replace snapshot file: %w", err)
	}
	return nil
}
