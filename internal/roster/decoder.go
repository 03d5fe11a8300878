package roster

import (
	"bufio"
	"encoding/csv"
	"errors"
	"fmt"
	"html"
	"io"
	"reflect"
	"strings"
	"unicode/utf8"

	"github.com/go-playground/validator/v10"
	"github.com/microcosm-cc/bluemonday"

	"github.com/spec-kit/orgchart-viewer/internal/domain"
)

// Column names of the normalized roster.
const (
	ColumnID                = "id"
	ColumnManagerID         = "manager_id"
	ColumnName              = "name"
	ColumnPosition          = "position"
	ColumnDepartment        = "department"
	ColumnJobClassification = "job_classification"
	ColumnImage             = "image"
	ColumnEmail             = "email"
)

// headerAliases maps normalized header spellings to roster columns.
var headerAliases = map[string]string{
	"id":                ColumnID,
	"employeeid":        ColumnID,
	"managerid":         ColumnManagerID,
	"parentid":          ColumnManagerID,
	"manager":           ColumnManagerID,
	"parent":            ColumnManagerID,
	"name":              ColumnName,
	"fullname":          ColumnName,
	"position":          ColumnPosition,
	"positionname":      ColumnPosition,
	"title":             ColumnPosition,
	"department":        ColumnDepartment,
	"dept":              ColumnDepartment,
	"area":              ColumnDepartment,
	"jobclassification": ColumnJobClassification,
	"classification":    ColumnJobClassification,
	"jobclass":          ColumnJobClassification,
	"tags":              ColumnJobClassification,
	"image":             ColumnImage,
	"imageurl":          ColumnImage,
	"avatar":            ColumnImage,
	"email":             ColumnEmail,
	"mail":              ColumnEmail,
}

// ErrMissingHeader is returned when the input has no header row.
var ErrMissingHeader = errors.New("roster: missing header row")

// RowError describes one rejected roster row.
type RowError struct {
	Line   int    `json:"line"`
	Column string `json:"column,omitempty"`
	Reason string `json:"reason"`
}

func (e RowError) Error() string {
	if e.Column != "" {
		return fmt.Sprintf("line %d: %s: %s", e.Line, e.Column, e.Reason)
	}
	return fmt.Sprintf("line %d: %s", e.Line, e.Reason)
}

// DecodeError aggregates the row errors of a strict decode.
type DecodeError struct {
	Rows []RowError
}

func (e *DecodeError) Error() string {
	if len(e.Rows) == 1 {
		return "roster: " + e.Rows[0].Error()
	}
	return fmt.Sprintf("roster: %d invalid rows (first: %s)", len(e.Rows), e.Rows[0].Error())
}

// DecodeOptions tunes decoding.
type DecodeOptions struct {
	// Strict fails the whole decode on the first batch of invalid rows
	// instead of dropping them.
	Strict bool
}

// Decoded is the outcome of a successful decode.
type Decoded struct {
	Employees []domain.Employee
	Rejected  []RowError
}

// Decoder converts CSV roster text into validated employees.
type Decoder struct {
	validate *validator.Validate
	policy   *bluemonday.Policy
}

// NewDecoder builds a decoder.
func NewDecoder() *Decoder {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		if col, ok := fieldColumns[f.Name]; ok {
			return col
		}
		return f.Name
	})
	return &Decoder{validate: v, policy: bluemonday.StrictPolicy()}
}

var fieldColumns = map[string]string{
	"ID":                ColumnID,
	"ManagerID":         ColumnManagerID,
	"Name":              ColumnName,
	"Position":          ColumnPosition,
	"Department":        ColumnDepartment,
	"JobClassification": ColumnJobClassification,
	"Image":             ColumnImage,
	"Email":             ColumnEmail,
}

// Decode reads a CSV document with a header row.
func (d *Decoder) Decode(r io.Reader, opts DecodeOptions) (*Decoded, error) {
	br := stripUTF8BOM(bufio.NewReader(r))
	cr := csv.NewReader(br)
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, ErrMissingHeader
		}
		return nil, fmt.Errorf("roster: read header: %w", err)
	}
	index, err := resolveHeader(header)
	if err != nil {
		return nil, err
	}

	out := &Decoded{Employees: []domain.Employee{}}
	seen := make(map[string]int)
	for {
		record, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			var parseErr *csv.ParseError
			if errors.As(err, &parseErr) {
				out.Rejected = append(out.Rejected, RowError{Line: parseErr.StartLine, Reason: parseErr.Err.Error()})
				continue
			}
			return nil, fmt.Errorf("roster: read row: %w", err)
		}
		if isBlank(record) {
			continue
		}
		line, _ := cr.FieldPos(0)
		if len(record) < len(header) {
			out.Rejected = append(out.Rejected, RowError{
				Line:   line,
				Reason: fmt.Sprintf("expected %d fields, got %d", len(header), len(record)),
			})
			continue
		}

		emp := d.rowToEmployee(record, index)
		if rowErrs := d.check(emp, line); len(rowErrs) > 0 {
			out.Rejected = append(out.Rejected, rowErrs...)
			continue
		}
		if first, dup := seen[emp.ID]; dup {
			out.Rejected = append(out.Rejected, RowError{
				Line:   line,
				Column: ColumnID,
				Reason: fmt.Sprintf("duplicate id %q (first seen on line %d)", emp.ID, first),
			})
			continue
		}
		seen[emp.ID] = line
		out.Employees = append(out.Employees, emp)
	}

	if opts.Strict && len(out.Rejected) > 0 {
		return nil, &DecodeError{Rows: out.Rejected}
	}
	return out, nil
}

func (d *Decoder) rowToEmployee(record []string, index map[string]int) domain.Employee {
	get := func(col string) string {
		i, ok := index[col]
		if !ok || i >= len(record) {
			return ""
		}
		return strings.TrimSpace(record[i])
	}
	return domain.Employee{
		ID:                get(ColumnID),
		ManagerID:         get(ColumnManagerID),
		Name:              d.plain(get(ColumnName)),
		Position:          d.plain(get(ColumnPosition)),
		Department:        d.plain(get(ColumnDepartment)),
		JobClassification: d.plain(get(ColumnJobClassification)),
		Image:             get(ColumnImage),
		Email:             get(ColumnEmail),
	}
}

// plain strips any markup from a display field.
func (d *Decoder) plain(v string) string {
	if v == "" || !strings.ContainsAny(v, "<>&") {
		return v
	}
	return strings.TrimSpace(html.UnescapeString(d.policy.Sanitize(v)))
}

func (d *Decoder) check(emp domain.Employee, line int) []RowError {
	err := d.validate.Struct(emp)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return []RowError{{Line: line, Reason: err.Error()}}
	}
	out := make([]RowError, 0, len(verrs))
	for _, fe := range verrs {
		out = append(out, RowError{Line: line, Column: fe.Field(), Reason: describeTag(fe.Tag())})
	}
	return out
}

func describeTag(tag string) string {
	switch tag {
	case "required":
		return "value is required"
	case "email":
		return "not a valid email address"
	case "url":
		return "not a valid URL"
	default:
		return "failed " + tag + " check"
	}
}

func resolveHeader(header []string) (map[string]int, error) {
	index := make(map[string]int, len(header))
	for i, raw := range header {
		name := strings.TrimSpace(raw)
		if !utf8.ValidString(name) {
			return nil, fmt.Errorf("roster: invalid header encoding in column %d", i+1)
		}
		col, ok := headerAliases[normalizeHeader(name)]
		if !ok {
			continue
		}
		if _, dup := index[col]; dup {
			continue
		}
		index[col] = i
	}
	for _, required := range []string{ColumnID, ColumnName} {
		if _, ok := index[required]; !ok {
			return nil, fmt.Errorf("roster: missing required header column %q", required)
		}
	}
	return index, nil
}

func normalizeHeader(name string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(name) {
		switch r {
		case '_', '-', ' ', '.':
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

func stripUTF8BOM(r *bufio.Reader) *bufio.Reader {
	b, err := r.Peek(3)
	if err == nil && len(b) == 3 && b[0] == 0xEF && b[1] == 0xBB && b[2] == 0xBF {
		_, _ = r.Discard(3)
	}
	return r
}

func isBlank(record []string) bool {
	for _, f := range record {
		if strings.TrimSpace(f) != "" {
			return false
		}
	}
	return true
}
