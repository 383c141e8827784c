package allure

import "encoding/json"

const (
	StatusPass    = "passed"
	StatusFail    = "failed"
	StatusSkip    = "skipped"
	StatusBroken  = "broken"
	StatusUnknown = "unknown"
)

// ResultSuffix marks the raw per-test files written by the runner's reporter.
const ResultSuffix = "-result.json"

const (
	EnvironmentFile = "environment.properties"
	ExecutorFile    = "executor.json"
	CategoriesFile  = "categories.json"
	HistoryDir      = "history"
)

// Report directory layout produced by the report generator.
const (
	WidgetsDir     = "widgets"
	DataDir        = "data"
	SummaryWidget  = "summary.json"
	LaunchWidget   = "launch.json"
	SuitesWidget   = "suites.json"
	PackagesFile   = "packages.json"
	TestCasesDir   = "test-cases"
	AttachmentsDir = "attachments"
)

type Executor struct {
	Name       string `json:"name"`
	Type       string `json:"type"`
	BuildName  string `json:"buildName"`
	BuildOrder int64  `json:"buildOrder"`
	ReportName string `json:"reportName"`
}

type Category struct {
	Name            string   `json:"name"`
	MatchedStatuses []string `json:"matchedStatuses"`
	MessageRegex    string   `json:"messageRegex,omitempty"`
}

type Statistic struct {
	Failed  int `json:"failed"`
	Broken  int `json:"broken"`
	Skipped int `json:"skipped"`
	Passed  int `json:"passed"`
	Unknown int `json:"unknown"`
	Total   int `json:"total"`
}

type Time struct {
	Start    int64 `json:"start,omitempty"`
	Stop     int64 `json:"stop,omitempty"`
	Duration int64 `json:"duration,omitempty"`
}

// Launch is one entry of widgets/launch.json and of summary.json testRuns.
// Time and Statistic are carried verbatim from the summary widget.
type Launch struct {
	UID       string          `json:"uid"`
	Name      string          `json:"name"`
	Time      json.RawMessage `json:"time"`
	Statistic json.RawMessage `json:"statistic"`
}

type Suites struct {
	Total int         `json:"total"`
	Items []SuiteItem `json:"items"`
}

type SuiteItem struct {
	Name   string          `json:"name"`
	UID    string          `json:"uid"`
	Status string          `json:"status"`
	Time   json.RawMessage `json:"time"`
}

// PackageNode is a node of data/packages.json. Nodes with children are
// containers, the others are test entries.
type PackageNode struct {
	Name     string          `json:"name"`
	UID      string          `json:"uid"`
	Status   string          `json:"status"`
	Time     json.RawMessage `json:"time"`
	Children []PackageNode   `json:"children"`
}

// IsContainer reports whether the node was serialized with a children key.
func (p PackageNode) IsContainer() bool {
	return p.Children != nil
}

// TestCase is the subset of data/test-cases/*.json the quick summary reads.
type TestCase struct {
	Name         string  `json:"name"`
	Status       string  `json:"status"`
	Time         Time    `json:"time"`
	BeforeStages []Stage `json:"beforeStages"`
	TestStage    *Stage  `json:"testStage"`
	AfterStages  []Stage `json:"afterStages"`
}

type Stage struct {
	Name        string       `json:"name"`
	Status      string       `json:"status"`
	Steps       []Stage      `json:"steps"`
	Attachments []Attachment `json:"attachments"`
}

type Attachment struct {
	Name   string `json:"name"`
	Source string `json:"source"`
	Type   string `json:"type"`
}
