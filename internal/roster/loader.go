package roster

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/spec-kit/orgchart-viewer/internal/config"
	"github.com/spec-kit/orgchart-viewer/internal/domain"
)

// Result is a loaded roster plus the non-fatal problems found in it.
type Result struct {
	Employees []domain.Employee
	Rejected  []RowError
	Issues    []HierarchyIssue
	Source    string
}

// Warnings flattens rejected rows and hierarchy issues into messages.
func (r *Result) Warnings() []string {
	out := make([]string, 0, len(r.Rejected)+len(r.Issues))
	for _, re := range r.Rejected {
		out = append(out, "rejected row: "+re.Error())
	}
	for _, is := range r.Issues {
		out = append(out, is.String())
	}
	return out
}

// Loader produces a roster.
type Loader interface {
	Load(ctx context.Context) (*Result, error)
}

// CSVLoader fetches CSV text from a Source and decodes it.
type CSVLoader struct {
	source  Source
	decoder *Decoder
	opts    DecodeOptions
	logger  *zap.Logger
}

// NewCSVLoader builds a loader over source.
func NewCSVLoader(source Source, opts DecodeOptions, logger *zap.Logger) *CSVLoader {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CSVLoader{source: source, decoder: NewDecoder(), opts: opts, logger: logger}
}

// Load fetches and decodes the roster once.
func (l *CSVLoader) Load(ctx context.Context) (*Result, error) {
	body, err := l.source.Open(ctx)
	if err != nil {
		l.logger.Warn("roster fetch failed", zap.String("source", l.source.String()), zap.Error(err))
		return nil, err
	}
	defer body.Close()

	decoded, err := l.decoder.Decode(body, l.opts)
	if err != nil {
		l.logger.Warn("roster decode failed", zap.String("source", l.source.String()), zap.Error(err))
		var fe *FetchError
		if errors.As(err, &fe) {
			return nil, fe
		}
		return nil, &FetchError{Reason: ReasonDecode, Source: l.source.String(), Err: err}
	}

	result := &Result{
		Employees: decoded.Employees,
		Rejected:  decoded.Rejected,
		Issues:    CheckHierarchy(decoded.Employees),
		Source:    l.source.String(),
	}
	l.logger.Info("roster loaded",
		zap.String("source", result.Source),
		zap.Int("rows", len(result.Employees)),
		zap.Int("rejected", len(result.Rejected)),
		zap.Int("issues", len(result.Issues)))
	return result, nil
}

// EmployeeLister lists stored employees in roster order.
type EmployeeLister interface {
	List(ctx context.Context) ([]domain.Employee, error)
}

// RepositoryLoader reads an already imported roster from storage.
type RepositoryLoader struct {
	repo   EmployeeLister
	name   string
	logger *zap.Logger
}

// NewRepositoryLoader builds a loader over repo.
func NewRepositoryLoader(repo EmployeeLister, name string, logger *zap.Logger) *RepositoryLoader {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RepositoryLoader{repo: repo, name: name, logger: logger}
}

// Load reads all employees.
func (l *RepositoryLoader) Load(ctx context.Context) (*Result, error) {
	employees, err := l.repo.List(ctx)
	if err != nil {
		l.logger.Warn("roster query failed", zap.String("source", l.name), zap.Error(err))
		return nil, &FetchError{Reason: ReasonStorage, Source: l.name, Err: fmt.Errorf("list employees: %w", err)}
	}
	if employees == nil {
		employees = []domain.Employee{}
	}
	return &Result{
		Employees: employees,
		Issues:    CheckHierarchy(employees),
		Source:    l.name,
	}, nil
}

// NewLoader picks the loader for the configured roster source. employees is
// only consulted for the postgres source.
func NewLoader(cfg config.RosterConfig, employees EmployeeLister, logger *zap.Logger) (Loader, error) {
	opts := DecodeOptions{Strict: cfg.Strict}
	switch cfg.Source {
	case config.RosterSourceHTTP:
		return NewCSVLoader(NewHTTPSource(cfg.URL, cfg.FetchTimeout()), opts, logger), nil
	case config.RosterSourceFile:
		return NewCSVLoader(&FileSource{Path: cfg.File}, opts, logger), nil
	case config.RosterSourcePostgres:
		if employees == nil {
			return nil, fmt.Errorf("roster source postgres requires a database")
		}
		return NewRepositoryLoader(employees, "postgres:employees", logger), nil
	default:
		return nil, fmt.Errorf("unknown roster source %q", cfg.Source)
	}
}
