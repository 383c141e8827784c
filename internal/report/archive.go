package report

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/geneai/bddctl/internal/fs"
)

const isoMillis = "2006-01-02T15:04:05.000Z07:00"

var tsReplacer = strings.NewReplacer(":", "-", ".", "-")

// ArchiveName turns now into a directory name: the UTC ISO timestamp with
// ':' and '.' replaced by '-'.
func ArchiveName(now time.Time) string {
	return tsReplacer.Replace(now.UTC().Format(isoMillis))
}

// Archive copies reportDir into a timestamped directory under root and
// returns its path.
func Archive(reportDir, root string, now time.Time) (string, error) {
	if !fs.IsDir(reportDir) {
		return "", fmt.Errorf("report directory %s not found", reportDir)
	}

	if err := fs.Mkdir(root); err != nil {
		return "", err
	}

	dest := filepath.Join(root, ArchiveName(now))
	if err := fs.CopyDir(reportDir, dest); err != nil {
		return "", fmt.Errorf("fs.CopyDir: %w", err)
	}

	return dest, nil
}

// Prune keeps the limit most recently modified directories under root and
// removes the rest. A limit of zero or less keeps everything.
func Prune(root string, limit int) ([]string, error) {
	if limit <= 0 {
		return nil, nil
	}

	entries, err := os.ReadDir(root)
	if err != nil {
		return nil, fmt.Errorf("os.ReadDir: %w", err)
	}

	type snapshot struct {
		pth     string
		modTime time.Time
	}

	snapshots := make([]snapshot, 0, len(entries))
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}

		info, err := entry.Info()
		if err != nil {
			continue
		}

		snapshots = append(snapshots, snapshot{pth: filepath.Join(root, entry.Name()), modTime: info.ModTime()})
	}

	if len(snapshots) <= limit {
		return nil, nil
	}

	sort.SliceStable(
		snapshots, func(i, j int) bool {
			if snapshots[i].modTime.Equal(snapshots[j].modTime) {
				return snapshots[i].pth > snapshots[j].pth
			}

			return snapshots[i].modTime.After(snapshots[j].modTime)
		},
	)

	var (
		removed []string
		errs    []error
	)

	for _, s := range snapshots[limit:] {
		if err := os.RemoveAll(s.pth); err != nil {
			errs = append(errs, fmt.Errorf("os.RemoveAll: %w", err))
			continue
		}

		removed = append(removed, s.pth)
	}

	return removed, errors.Join(errs...)
}
