package main

import (
	"context"
	"errors"
	"io"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/spec-kit/orgchart-viewer/internal/chart"
	"github.com/spec-kit/orgchart-viewer/internal/config"
	"github.com/spec-kit/orgchart-viewer/internal/domain"
	"github.com/spec-kit/orgchart-viewer/internal/roster"
)

type viewFlags struct {
	file        string
	url         string
	strict      bool
	noInterns   bool
	search      string
	departments []string
	expandAll   bool
	sentinel    string
}

type viewOutput struct {
	Source   string                   `json:"source"`
	Total    int                      `json:"total"`
	Visible  int                      `json:"visible"`
	State    domain.ViewState         `json:"state"`
	Palette  []domain.DepartmentColor `json:"palette"`
	Warnings []string                 `json:"warnings,omitempty"`
	Nodes    []domain.ChartNode       `json:"nodes"`
}

func newViewCmd(root *rootOptions) *cobra.Command {
	flags := viewFlags{}

	cmd := &cobra.Command{
		Use:   "view",
		Short: "Load a roster and print the visible chart nodes as JSON",
		RunE: func(cmd *cobra.Command, args []string) error {
			if flags.sentinel == "" {
				flags.sentinel = root.cfg.Roster.InternSentinel
			}
			loader, err := csvLoader(root, flags.file, flags.url, flags.strict)
			if err != nil {
				return err
			}
			out, err := buildView(cmd.Context(), loader, flags)
			if err != nil {
				return err
			}
			return writeJSON(cmd.OutOrStdout(), out)
		},
	}

	cmd.Flags().StringVar(&flags.file, "file", "", "Read the roster from a local CSV file")
	cmd.Flags().StringVar(&flags.url, "url", "", "Fetch the roster CSV from a URL (default from ROSTER_SOURCE)")
	cmd.Flags().BoolVar(&flags.strict, "strict", false, "Fail on the first invalid row instead of skipping it")
	cmd.Flags().BoolVar(&flags.noInterns, "no-interns", false, "Hide employees classified as interns")
	cmd.Flags().StringVar(&flags.search, "search", "", "Highlight and expand employees whose name contains this text")
	cmd.Flags().StringArrayVar(&flags.departments, "department", nil, "Highlight a department (repeatable)")
	cmd.Flags().BoolVar(&flags.expandAll, "expand-all", false, "Mark every visible node expanded")
	cmd.Flags().StringVar(&flags.sentinel, "intern-classification", "", "Job classification that marks interns (default ROSTER_INTERN_CLASSIFICATION)")
	cmd.MarkFlagsMutuallyExclusive("file", "url")
	return cmd
}

// buildView runs the same pipeline a view session does, without a session.
func buildView(ctx context.Context, loader roster.Loader, flags viewFlags) (*viewOutput, error) {
	result, err := loader.Load(ctx)
	if err != nil {
		return nil, err
	}

	palette := chart.AllocatePalette(result.Employees)
	known := map[string]bool{}
	for _, d := range palette.Departments() {
		known[d] = true
	}

	state := domain.NewViewState()
	state = chart.SetIncludeInterns(state, !flags.noInterns)
	state = chart.SetSearch(state, flags.search)
	for _, d := range flags.departments {
		if !known[d] {
			return nil, withCode(exitUsage, errors.New("unknown department "+d))
		}
		if !state.SelectedDepartments.Has(d) {
			state = chart.ToggleDepartment(state, result.Employees, d)
		}
	}
	if flags.expandAll {
		visible := chart.FilterInterns(result.Employees, state.IncludeInterns, flags.sentinel)
		state = chart.ExpandAll(state, visible)
	}

	nodes := chart.Visible(result.Employees, state, palette, flags.sentinel)
	return &viewOutput{
		Source:   result.Source,
		Total:    len(result.Employees),
		Visible:  len(nodes),
		State:    state,
		Palette:  palette.Entries,
		Warnings: result.Warnings(),
		Nodes:    nodes,
	}, nil
}

// csvLoader prefers --url, then --file, then the configured roster source.
func csvLoader(root *rootOptions, file, url string, strict bool) (roster.Loader, error) {
	cfg := root.cfg.Roster
	cfg.Strict = strict || cfg.Strict
	switch {
	case url != "":
		cfg.Source, cfg.URL = config.RosterSourceHTTP, url
	case file != "":
		cfg.Source, cfg.File = config.RosterSourceFile, file
	case cfg.Source == config.RosterSourcePostgres:
		return nil, withCode(exitUsage, errors.New("ROSTER_SOURCE=postgres has no CSV to read; pass --file or --url"))
	}
	return roster.NewLoader(cfg, nil, loggerOrNop(root.logger))
}

func loggerOrNop(logger *zap.Logger) *zap.Logger {
	if logger == nil {
		return zap.NewNop()
	}
	return logger
}

func readAllLimited(r io.Reader, limit int) ([]byte, error) {
	data, err := io.ReadAll(io.LimitReader(r, int64(limit)+1))
	if err != nil {
		return nil, err
	}
	if len(data) > limit {
		return nil, withCode(exitValidation, errors.New("input exceeds size limit"))
	}
	return data, nil
}
