package roster

import (
	"fmt"

	"github.com/spec-kit/orgchart-viewer/internal/domain"
)

// IssueKind names a structural problem in the hierarchy.
type IssueKind string

const (
	IssueNoRoot         IssueKind = "no_root"
	IssueMultipleRoots  IssueKind = "multiple_roots"
	IssueDanglingParent IssueKind = "dangling_parent"
)

// HierarchyIssue is reported, not repaired: the chart library owns how it
// renders such rosters.
type HierarchyIssue struct {
	Kind       IssueKind `json:"kind"`
	EmployeeID string    `json:"employee_id,omitempty"`
	ManagerID  string    `json:"manager_id,omitempty"`
	Count      int       `json:"count,omitempty"`
}

func (i HierarchyIssue) String() string {
	switch i.Kind {
	case IssueNoRoot:
		return "hierarchy has no root row"
	case IssueMultipleRoots:
		return fmt.Sprintf("hierarchy has %d root rows", i.Count)
	case IssueDanglingParent:
		return fmt.Sprintf("row %q references missing manager %q", i.EmployeeID, i.ManagerID)
	default:
		return string(i.Kind)
	}
}

// CheckHierarchy verifies a single root and that every manager reference
// resolves within rows.
func CheckHierarchy(rows []domain.Employee) []HierarchyIssue {
	if len(rows) == 0 {
		return nil
	}
	ids := make(map[string]struct{}, len(rows))
	for _, r := range rows {
		ids[r.ID] = struct{}{}
	}

	var issues []HierarchyIssue
	roots := 0
	for _, r := range rows {
		if r.IsRoot() {
			roots++
			continue
		}
		if _, ok := ids[r.ManagerID]; !ok {
			issues = append(issues, HierarchyIssue{Kind: IssueDanglingParent, EmployeeID: r.ID, ManagerID: r.ManagerID})
		}
	}
	switch {
	case roots == 0:
		issues = append(issues, HierarchyIssue{Kind: IssueNoRoot})
	case roots > 1:
		issues = append(issues, HierarchyIssue{Kind: IssueMultipleRoots, Count: roots})
	}
	return issues
}
