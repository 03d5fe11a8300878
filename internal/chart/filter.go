package chart

import (
	"strings"

	"github.com/spec-kit/orgchart-viewer/internal/domain"
)

// FilterInterns returns a new slice holding rows in their original order,
// without interns unless includeInterns is set. rows is never modified.
func FilterInterns(rows []domain.Employee, includeInterns bool, sentinel string) []domain.Employee {
	out := make([]domain.Employee, 0, len(rows))
	if includeInterns {
		return append(out, rows...)
	}
	for _, r := range rows {
		if IsIntern(r, sentinel) {
			continue
		}
		out = append(out, r)
	}
	return out
}

// IsIntern reports whether the row's job classification is the intern sentinel.
func IsIntern(r domain.Employee, sentinel string) bool {
	sentinel = strings.TrimSpace(sentinel)
	if sentinel == "" {
		return false
	}
	return strings.EqualFold(strings.TrimSpace(r.JobClassification), sentinel)
}
