package report

import (
	"bytes"
	"encoding/json"
	"fmt"
	"path/filepath"

	"github.com/geneai/bddctl/internal/allure"
	"github.com/geneai/bddctl/internal/fs"
)

var emptyObject = json.RawMessage(`{}`)

// RebuildWidgets patches the generated dashboard widgets so the landing page
// lists the run and its tests: one launch synthesized from summary.json goes
// to launch.json and summary testRuns, and data/packages.json is flattened
// into suites.json.
func RebuildWidgets(reportDir, launchUID string) error {
	widgetsDir := filepath.Join(reportDir, allure.WidgetsDir)
	summaryPth := filepath.Join(widgetsDir, allure.SummaryWidget)

	summary := map[string]json.RawMessage{
		"reportName": json.RawMessage(`"Report"`),
		"testRuns":   json.RawMessage(`[]`),
		"statistic":  emptyObject,
		"time":       emptyObject,
	}

	if fs.Exists(summaryPth) {
		summary = make(map[string]json.RawMessage)
		if err := fs.ReadJSON(summaryPth, &summary); err != nil {
			return err
		}
	}

	launch := allure.Launch{
		UID:       launchUID,
		Name:      "Run",
		Time:      objectOrEmpty(summary["time"]),
		Statistic: objectOrEmpty(summary["statistic"]),
	}

	var reportName string
	if err := json.Unmarshal(summary["reportName"], &reportName); err == nil && reportName != "" {
		launch.Name = reportName
	}

	if err := fs.Mkdir(widgetsDir); err != nil {
		return err
	}

	launches := []allure.Launch{launch}
	if err := fs.WriteJSON(filepath.Join(widgetsDir, allure.LaunchWidget), launches); err != nil {
		return fmt.Errorf("write launch widget: %w", err)
	}

	runs, err := json.Marshal(launches)
	if err != nil {
		return fmt.Errorf("json.Marshal: %w", err)
	}

	summary["testRuns"] = runs
	if err = fs.WriteJSON(summaryPth, summary); err != nil {
		return fmt.Errorf("write summary widget: %w", err)
	}

	packagesPth := filepath.Join(reportDir, allure.DataDir, allure.PackagesFile)
	if !fs.Exists(packagesPth) {
		return nil
	}

	var root allure.PackageNode
	if err = fs.ReadJSON(packagesPth, &root); err != nil {
		return err
	}

	items := FlattenPackages(root)
	suites := allure.Suites{Total: len(items), Items: items}

	if err = fs.WriteJSON(filepath.Join(widgetsDir, allure.SuitesWidget), suites); err != nil {
		return fmt.Errorf("write suites widget: %w", err)
	}

	return nil
}

// FlattenPackages walks the container nodes under root and returns their
// leaf test entries in tree order.
func FlattenPackages(root allure.PackageNode) []allure.SuiteItem {
	items := make([]allure.SuiteItem, 0)

	var walk func(node allure.PackageNode)
	walk = func(node allure.PackageNode) {
		for _, child := range node.Children {
			if child.IsContainer() {
				walk(child)
				continue
			}

			item := allure.SuiteItem{
				Name:   child.Name,
				UID:    child.UID,
				Status: child.Status,
				Time:   objectOrEmpty(child.Time),
			}

			if item.UID == "" {
				item.UID = child.Name
			}

			if item.Status == "" {
				item.Status = allure.StatusUnknown
			}

			items = append(items, item)
		}
	}

	walk(root)

	return items
}

func objectOrEmpty(raw json.RawMessage) json.RawMessage {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return emptyObject
	}

	return raw
}
