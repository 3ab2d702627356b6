package mcp

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"caseeval/internal/batch"
	"caseeval/internal/caseio"
	"caseeval/internal/config"
	"caseeval/internal/display"
	"caseeval/internal/logging"
	"caseeval/internal/record"
	"caseeval/internal/report"
	"caseeval/internal/rubric"
	"caseeval/internal/scoring"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
)

// Server wraps the MCP SDK server and a scoring engine built from one
// rule set.
type Server struct {
	MCPServer *sdkmcp.Server
	// Root resolves relative file paths given to score_file.
	Root string
	// Parallel bounds the score_file worker pool.
	Parallel int

	engine *scoring.Engine
	rules  config.Rules
	source string
}

// NewServer creates an MCP server exposing the scoring tools. It captures
// the current working directory as Root.
func NewServer(rules config.Rules, source, version string) (*Server, error) {
	engine, err := scoring.New(rules)
	if err != nil {
		return nil, err
	}
	cwd, _ := os.Getwd()
	s := &Server{Root: cwd, Parallel: 1, engine: engine, rules: rules, source: source}
	s.MCPServer = sdkmcp.NewServer(
		&sdkmcp.Implementation{Name: "caseeval", Version: version},
		nil,
	)
	s.registerTools()
	return s, nil
}

// Run serves over stdio until ctx is canceled or the client disconnects.
func (s *Server) Run(ctx context.Context) error {
	return s.MCPServer.Run(ctx, &sdkmcp.StdioTransport{})
}

func (s *Server) registerTools() {
	sdkmcp.AddTool(s.MCPServer, &sdkmcp.Tool{
		Name:        "score_case",
		Description: "Score one test case. Returns the selected rubric with the rule behind it, per-criterion scores, total, percentage, grade and the explanation trail.",
	}, s.handleScoreCase)

	sdkmcp.AddTool(s.MCPServer, &sdkmcp.Tool{
		Name:        "score_file",
		Description: "Score every record of a delimited test case export, optionally on a seeded sample. Returns per-record results and a batch summary.",
	}, s.handleScoreFile)

	sdkmcp.AddTool(s.MCPServer, &sdkmcp.Tool{
		Name:        "list_rubrics",
		Description: "List the rubrics with their base weight, maximum score and active criteria, optionally just one.",
	}, s.handleListRubrics)
}

// --- Tool input/output types ---

type scoreCaseInput struct {
	Key           string `json:"key,omitempty" jsonschema:"issue key used to label the result"`
	Summary       string `json:"summary,omitempty" jsonschema:"test case title"`
	Priority      string `json:"priority,omitempty" jsonschema:"priority value, blank if unset"`
	Labels        string `json:"labels,omitempty" jsonschema:"labels, space or comma separated"`
	Steps         string `json:"steps,omitempty" jsonschema:"raw step content: a JSON array of steps or labelled text"`
	Precondition1 string `json:"precondition_1,omitempty" jsonschema:"first precondition association"`
	Precondition2 string `json:"precondition_2,omitempty" jsonschema:"second precondition association"`
}

type caseOutput struct {
	Key                 string         `json:"key"`
	Rubric              string         `json:"rubric"`
	RuleID              string         `json:"rule_id"`
	Reason              string         `json:"reason"`
	DataSignals         []string       `json:"data_signals"`
	PreconditionSignals []string       `json:"precondition_signals"`
	Scores              map[string]int `json:"scores"`
	Total               int            `json:"total"`
	Max                 int            `json:"max"`
	Percentage          float64        `json:"percentage"`
	Grade               string         `json:"grade"`
	Trail               []string       `json:"trail"`
}

type scoreFileInput struct {
	Path      string `json:"path" jsonschema:"path of the export, relative to the server's working directory or absolute"`
	Delimiter string `json:"delimiter,omitempty" jsonschema:"column delimiter; empty or auto sniffs ; , and tab"`
	Sample    int    `json:"sample,omitempty" jsonschema:"score a seeded sample of this many records (0 = all)"`
	Seed      uint64 `json:"seed,omitempty" jsonschema:"sampling seed (0 = 42)"`
}

type scoreFileOutput struct {
	RunID   string         `json:"run_id"`
	Source  string         `json:"source"`
	Rules   string         `json:"rules"`
	Results []caseOutput   `json:"results"`
	Summary report.Summary `json:"summary"`
}

type listRubricsInput struct {
	Rubric string `json:"rubric,omitempty" jsonschema:"only this rubric (A, B, C or D)"`
}

type rubricOutput struct {
	Rubric     string   `json:"rubric"`
	Name       string   `json:"name"`
	BaseWeight int      `json:"base_weight"`
	Max        int      `json:"max"`
	Criteria   []string `json:"criteria"`
}

type listRubricsOutput struct {
	Rubrics []rubricOutput `json:"rubrics"`
}

// --- Tool handlers ---

func (s *Server) handleScoreCase(ctx context.Context, _ *sdkmcp.CallToolRequest, input scoreCaseInput) (*sdkmcp.CallToolResult, caseOutput, error) {
	tc := record.TestCase{
		Key:                input.Key,
		Summary:            input.Summary,
		Priority:           input.Priority,
		Labels:             input.Labels,
		StepsRaw:           input.Steps,
		PreconditionAssoc1: input.Precondition1,
		PreconditionAssoc2: input.Precondition2,
	}
	res := s.engine.Evaluate(tc)
	res.Key = tc.DisplayKey(1)
	logging.New("mcp").Info("case scored", "key", res.Key, "rubric", res.Rubric(), "total", res.Total, "max", res.Max)
	return nil, caseResult(res), nil
}

func (s *Server) handleScoreFile(ctx context.Context, _ *sdkmcp.CallToolRequest, input scoreFileInput) (*sdkmcp.CallToolResult, scoreFileOutput, error) {
	logger := logging.New("mcp")
	if strings.TrimSpace(input.Path) == "" {
		logger.Warn("score_file rejected: empty path")
		return nil, scoreFileOutput{}, fmt.Errorf("path is required")
	}
	delim, err := caseio.ParseDelimiter(input.Delimiter)
	if err != nil {
		return nil, scoreFileOutput{}, err
	}
	path := input.Path
	if !filepath.IsAbs(path) {
		path = filepath.Join(s.Root, path)
	}

	f, err := caseio.ReadFile(path, caseio.Options{Delimiter: delim, Columns: s.rules.Columns})
	if err != nil {
		return nil, scoreFileOutput{}, err
	}
	seed := input.Seed
	if seed == 0 {
		seed = batch.DefaultSeed
	}
	records, err := batch.Sample(f.Records, input.Sample, seed)
	if err != nil {
		return nil, scoreFileOutput{}, err
	}
	results, err := batch.Run(ctx, s.engine, records, s.Parallel)
	if err != nil {
		return nil, scoreFileOutput{}, err
	}

	rep := report.New(input.Path, s.source, results)
	out := scoreFileOutput{
		RunID:   rep.RunID,
		Source:  rep.Source,
		Rules:   rep.Rules,
		Results: make([]caseOutput, len(results)),
		Summary: rep.Summary,
	}
	for i, res := range results {
		out.Results[i] = caseResult(res)
	}
	logger.Info("file scored", "path", input.Path, "records", len(results), "run_id", rep.RunID)
	return nil, out, nil
}

func (s *Server) handleListRubrics(ctx context.Context, _ *sdkmcp.CallToolRequest, input listRubricsInput) (*sdkmcp.CallToolResult, listRubricsOutput, error) {
	tables := rubric.All()
	if input.Rubric != "" {
		r, err := rubric.Parse(input.Rubric)
		if err != nil {
			return nil, listRubricsOutput{}, err
		}
		tables = []rubric.Table{rubric.TableFor(r)}
	}
	var out listRubricsOutput
	for _, t := range tables {
		ro := rubricOutput{
			Rubric:     string(t.Rubric),
			Name:       display.Rubric(string(t.Rubric)),
			BaseWeight: t.BaseWeight,
			Max:        t.Max(),
		}
		for _, c := range t.Active {
			ro.Criteria = append(ro.Criteria, string(c))
		}
		out.Rubrics = append(out.Rubrics, ro)
	}
	return nil, out, nil
}

// caseResult flattens a result into plain strings and numbers.
func caseResult(res scoring.Result) caseOutput {
	cls := res.Classification
	out := caseOutput{
		Key:                 res.Key,
		Rubric:              string(cls.Rubric),
		RuleID:              cls.RuleID,
		Reason:              cls.Reason,
		DataSignals:         cls.DataNeed.Signals.Names(),
		PreconditionSignals: cls.PreconditionNeed.Signals.Names(),
		Scores:              make(map[string]int, len(res.Scores)),
		Total:               res.Total,
		Max:                 res.Max,
		Percentage:          res.Percentage,
		Grade:               res.Grade,
		Trail:               make([]string, len(res.Trail)),
	}
	for c, v := range res.Scores {
		out.Scores[string(c)] = v
	}
	for i, n := range res.Trail {
		out.Trail[i] = n.String()
	}
	return out
}
