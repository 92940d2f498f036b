// Package store persists the catalog and order history as JSON files.
//
// The catalog file is a single document holding the dishes, the known
// categories, the id counter, and the order history as a side channel.
// Saving is atomic: the new document is written to a temp file in the
// destination directory first, the previous file is renamed to a
// timestamped backup, and only then is the temp file renamed into
// place. No failure point leaves the directory without a complete copy
// of the previous state.
//
// Individual finalized orders can also be written to and read from
// standalone order files, the same JSON shape as one history entry.
package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/tablerun/go-pos-core/internal/catalog"
	"github.com/tablerun/go-pos-core/internal/domain"
	"github.com/tablerun/go-pos-core/internal/history"
	"github.com/tablerun/go-pos-core/internal/metrics"
)

var (
	// ErrCatalogNotFound is returned by LoadCatalog when the file does
	// not exist.
	ErrCatalogNotFound = errors.New("catalog file not found")

	// ErrBadCatalogFile is returned when the catalog file is malformed
	// or missing the required dishes array.
	ErrBadCatalogFile = errors.New("malformed catalog file")

	// ErrBadOrderFile is returned when an order file is malformed.
	ErrBadOrderFile = errors.New("malformed order file")
)

// catalogFile is the on-disk document. Field names are fixed; files
// written by earlier versions of the system must keep loading.
type catalogFile struct {
	Dishes       []domain.Dish         `json:"dishes"`
	Categories   []string              `json:"categories"`
	NextID       int                   `json:"next_id"`
	CurrentFile  string                `json:"current_file"`
	OrderHistory []domain.HistoryEntry `json:"order_history"`
}

// BackupName returns the timestamped backup path for path, in the same
// directory: <stem>_backup_<YYYYMMDDHHMMSS>.json.
func BackupName(path string, t time.Time) string {
	ext := filepath.Ext(path)
	stem := strings.TrimSuffix(path, ext)
	if ext == "" {
		ext = ".json"
	}
	return fmt.Sprintf("%s_backup_%s%s", stem, t.Format("20060102150405"), ext)
}

// SaveCatalog writes the catalog and history log to path, rotating any
// existing file to a timestamped backup first. On success the
// catalog's dirty flag is cleared and its current-file pointer updated.
// On failure the in-memory state is untouched and the previous file
// survives (at path, or as the backup if the final rename failed).
func SaveCatalog(path string, c *catalog.Catalog, hist *history.Log) error {
	doc := catalogFile{
		Dishes:      make([]domain.Dish, 0, c.Count()),
		Categories:  c.Categories(),
		NextID:      c.NextID(),
		CurrentFile: path,
	}
	for _, d := range c.Dishes() {
		doc.Dishes = append(doc.Dishes, *d)
	}
	if hist != nil {
		doc.OrderHistory = hist.Entries()
	}

	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return err
	}

	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return err
	}

	if _, err := os.Stat(path); err == nil {
		backup := BackupName(path, time.Now())
		if err := os.Rename(path, backup); err != nil {
			os.Remove(tmp)
			return err
		}
		log.Debug().Str("backup", backup).Msg("rotated previous catalog file")
	}

	if err := os.Rename(tmp, path); err != nil {
		return err
	}

	c.MarkSaved(path)
	metrics.CatalogSaves.Inc()
	log.Info().Str("path", path).Int("dishes", c.Count()).Msg("catalog saved")
	return nil
}

// LoadCatalog reads the catalog document at path and rebuilds the
// catalog and history log. Optional fields take their documented
// defaults; a missing file maps to ErrCatalogNotFound and a malformed
// document (bad JSON, or no dishes array) to ErrBadCatalogFile.
func LoadCatalog(path string) (*catalog.Catalog, *history.Log, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil, fmt.Errorf("%w: %s", ErrCatalogNotFound, path)
		}
		return nil, nil, err
	}

	var probe map[string]json.RawMessage
	if err := json.Unmarshal(data, &probe); err != nil {
		return nil, nil, fmt.Errorf("%w: %v", ErrBadCatalogFile, err)
	}
	if _, ok := probe["dishes"]; !ok {
		return nil, nil, fmt.Errorf("%w: missing dishes array", ErrBadCatalogFile)
	}

	var doc catalogFile
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, nil, fmt.Errorf("%w: %v", ErrBadCatalogFile, err)
	}

	c := catalog.Rehydrate(doc.Dishes, doc.Categories, doc.NextID, path)
	hist := history.NewLog(doc.OrderHistory)
	metrics.CatalogLoads.Inc()
	log.Info().Str("path", path).Int("dishes", c.Count()).Int("history", hist.Len()).Msg("catalog loaded")
	return c, hist, nil
}

// SaveOrder writes a single finalized entry to path as a standalone
// order file, atomically.
func SaveOrder(path string, entry domain.HistoryEntry) error {
	data, err := json.MarshalIndent(entry, "", "  ")
	if err != nil {
		return err
	}
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return err
	}
	if err := os.Rename(tmp, path); err != nil {
		return err
	}
	log.Debug().Str("path", path).Str("table", entry.Table).Msg("order saved")
	return nil
}

// LoadOrder reads a standalone order file written by SaveOrder.
func LoadOrder(path string) (domain.HistoryEntry, error) {
	var entry domain.HistoryEntry
	data, err := os.ReadFile(path)
	if err != nil {
		return entry, err
	}
	if err := json.Unmarshal(data, &entry); err != nil {
		return entry, fmt.Errorf("%w: %v", ErrBadOrderFile, err)
	}
	if entry.Orders == nil {
		return entry, fmt.Errorf("%w: missing orders", ErrBadOrderFile)
	}
	return entry, nil
}

// PruneBackups removes all but the newest keep backup files for path
// and returns how many were deleted. The backup timestamp format sorts
// lexicographically, so name order is age order.
func PruneBackups(path string, keep int) (int, error) {
	if keep < 0 {
		keep = 0
	}
	ext := filepath.Ext(path)
	stem := strings.TrimSuffix(path, ext)
	if ext == "" {
		ext = ".json"
	}
	matches, err := filepath.Glob(stem + "_backup_*" + ext)
	if err != nil {
		return 0, err
	}
	if len(matches) <= keep {
		return 0, nil
	}
	sort.Sort(sort.Reverse(sort.StringSlice(matches)))
	removed := 0
	for _, old := range matches[keep:] {
		if err := os.Remove(old); err != nil {
			return removed, err
		}
		removed++
	}
	if removed > 0 {
		log.Debug().Str("path", path).Int("removed", removed).Msg("pruned old backups")
	}
	return removed, nil
}
