package report

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"

	"github.com/geneai/bddctl/internal/allure"
)

var normalizedPaths = []string{"status", "testStage.status"}

// NormalizeStatuses rewrites broken to failed in every result file of dir.
// Files are rewritten only when a status changed and every other byte is
// kept, so running it again is a no-op. A bad file does not stop the rest.
func NormalizeStatuses(dir string) (int, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return 0, fmt.Errorf("os.ReadDir: %w", err)
	}

	var (
		changed int
		errs    []error
	)

	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), allure.ResultSuffix) {
			continue
		}

		pth := filepath.Join(dir, entry.Name())

		raw, err := os.ReadFile(pth)
		if err != nil {
			errs = append(errs, fmt.Errorf("os.ReadFile: %w", err))
			continue
		}

		out, ok, err := normalizeResult(raw)
		if err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", entry.Name(), err))
			continue
		}

		if !ok {
			continue
		}

		if err = os.WriteFile(pth, out, 0o644); err != nil {
			errs = append(errs, fmt.Errorf("os.WriteFile: %w", err))
			continue
		}

		changed++
	}

	return changed, errors.Join(errs...)
}

func normalizeResult(raw []byte) ([]byte, bool, error) {
	if !gjson.ValidBytes(raw) {
		return nil, false, errors.New("invalid json")
	}

	out := raw
	changed := false

	for _, pth := range normalizedPaths {
		v := gjson.GetBytes(out, pth)
		if v.Type != gjson.String || v.Str != allure.StatusBroken {
			continue
		}

		updated, err := sjson.SetBytes(out, pth, allure.StatusFail)
		if err != nil {
			return nil, false, fmt.Errorf("sjson.SetBytes %s: %w", pth, err)
		}

		out = updated
		changed = true
	}

	return out, changed, nil
}
