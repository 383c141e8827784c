package report

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"os"
	"path"
	"path/filepath"
	"runtime"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/geneai/bddctl/internal/allure"
	"github.com/geneai/bddctl/internal/fs"
	"github.com/geneai/bddctl/internal/slice"
)

const QuickSummaryFile = "latest-summary.html"

var quickSummaryTmpl = template.Must(
	template.New("summary").Parse(
		`<!doctype html><html><head><meta charset="utf-8"><title>GeneAI Regression Quick Summary</title></head>` +
			`<body><h1>GeneAI Regression Quick Summary</h1><table border="1" cellpadding="6">` +
			`<tr><th>Test</th><th>Status</th><th>Duration</th><th>Attachments</th></tr>` +
			`{{range .}}<tr><td>{{.Name}}</td><td>{{.Status}}</td><td>{{.Duration}}ms</td>` +
			`<td>{{range .Attachments}}<a href="{{.Href}}">{{.Source}}</a> {{end}}</td></tr>{{end}}` +
			`</table></body></html>`,
	),
)

type SummaryRow struct {
	Name        string
	Status      string
	Duration    int64
	Attachments []AttachmentLink
}

type AttachmentLink struct {
	Source string
	Href   string
}

// WriteQuickSummary renders latest-summary.html in reportDir from the
// generated data/test-cases files, one row per readable file in name order.
func WriteQuickSummary(ctx context.Context, reportDir string) error {
	rows, err := ReadSummaryRows(ctx, reportDir)
	if err != nil {
		return err
	}

	var buf bytes.Buffer
	if err = quickSummaryTmpl.Execute(&buf, rows); err != nil {
		return fmt.Errorf("template Execute: %w", err)
	}

	if err = os.WriteFile(filepath.Join(reportDir, QuickSummaryFile), buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("os.WriteFile: %w", err)
	}

	return nil
}

// ReadSummaryRows parses the test-case files concurrently. Malformed files
// are left out.
func ReadSummaryRows(ctx context.Context, reportDir string) ([]SummaryRow, error) {
	tcDir := filepath.Join(reportDir, allure.DataDir, allure.TestCasesDir)
	if !fs.IsDir(tcDir) {
		return []SummaryRow{}, nil
	}

	entries, err := os.ReadDir(tcDir)
	if err != nil {
		return nil, fmt.Errorf("os.ReadDir: %w", err)
	}

	names := make([]string, 0, len(entries))
	for _, entry := range entries {
		if !entry.IsDir() && strings.HasSuffix(entry.Name(), ".json") {
			names = append(names, entry.Name())
		}
	}

	rows := make([]SummaryRow, len(names))
	parsed := make([]bool, len(names))

	wg, grpCtx := errgroup.WithContext(ctx)
	wg.SetLimit(runtime.NumCPU())

	for idx, name := range names {
		wg.Go(
			func() error {
				if err := grpCtx.Err(); err != nil {
					return err
				}

				row, err := readSummaryRow(reportDir, filepath.Join(tcDir, name))
				if err != nil {
					return nil
				}

				rows[idx] = row
				parsed[idx] = true

				return nil
			},
		)
	}

	if err = wg.Wait(); err != nil {
		return nil, err
	}

	output := make([]SummaryRow, 0, len(rows))
	for idx := range rows {
		if parsed[idx] {
			output = append(output, rows[idx])
		}
	}

	return output, nil
}

func readSummaryRow(reportDir, pth string) (SummaryRow, error) {
	var tc allure.TestCase
	if err := fs.ReadJSON(pth, &tc); err != nil {
		return SummaryRow{}, err
	}

	row := SummaryRow{
		Name:        tc.Name,
		Status:      tc.Status,
		Duration:    tc.Time.Duration,
		Attachments: make([]AttachmentLink, 0),
	}

	if row.Name == "" {
		row.Name = filepath.Base(pth)
	}

	if row.Status == "" {
		row.Status = allure.StatusUnknown
	}

	for _, src := range slice.Uniq(attachmentSources(tc)) {
		href := path.Join(allure.DataDir, allure.AttachmentsDir, src)
		if fs.Exists(filepath.Join(reportDir, filepath.FromSlash(href))) {
			row.Attachments = append(row.Attachments, AttachmentLink{Source: src, Href: href})
		}
	}

	return row, nil
}

func attachmentSources(tc allure.TestCase) []string {
	stages := make([]allure.Stage, 0, len(tc.BeforeStages)+len(tc.AfterStages)+1)
	stages = append(stages, tc.BeforeStages...)
	if tc.TestStage != nil {
		stages = append(stages, *tc.TestStage)
	}
	stages = append(stages, tc.AfterStages...)

	var collect func(s allure.Stage) []string
	collect = func(s allure.Stage) []string {
		sources := slice.Map(s.Attachments, func(a allure.Attachment) string { return a.Source })
		for _, step := range s.Steps {
			sources = append(sources, collect(step)...)
		}

		return sources
	}

	sources := make([]string, 0)
	for _, s := range stages {
		sources = append(sources, collect(s)...)
	}

	return slice.Filter(sources, func(s string) bool { return s != "" && !strings.Contains(s, "..") })
}
