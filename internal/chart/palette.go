package chart

import "github.com/spec-kit/orgchart-viewer/internal/domain"

// DepartmentPalette is the fixed color cycle for department highlights.
var DepartmentPalette = [10]string{
	"#1f77b4",
	"#ff7f0e",
	"#2ca02c",
	"#d62728",
	"#9467bd",
	"#8c564b",
	"#e377c2",
	"#7f7f7f",
	"#bcbd22",
	"#17becf",
}

// AllocatePalette assigns each distinct department, in first-seen order, the
// palette slot k mod 10. Rows without a department are skipped.
func AllocatePalette(rows []domain.Employee) domain.Palette {
	seen := make(map[string]struct{})
	entries := []domain.DepartmentColor{}
	for _, r := range rows {
		if r.Department == "" {
			continue
		}
		if _, ok := seen[r.Department]; ok {
			continue
		}
		seen[r.Department] = struct{}{}
		entries = append(entries, domain.DepartmentColor{
			Department: r.Department,
			Color:      DepartmentPalette[len(entries)%len(DepartmentPalette)],
		})
	}
	return domain.Palette{Entries: entries}
}
