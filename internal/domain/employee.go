package domain

// Employee is one validated roster row.
type Employee struct {
	ID                string `json:"id" validate:"required"`
	ManagerID         string `json:"parentId"`
	Name              string `json:"name" validate:"required"`
	Position          string `json:"position"`
	Department        string `json:"department"`
	Email             string `json:"email" validate:"omitempty,email"`
	Image             string `json:"image" validate:"omitempty,url"`
	JobClassification string `json:"jobClassification"`
}

// IsRoot reports whether the row sits at the top of the hierarchy.
func (e Employee) IsRoot() bool {
	return e.ManagerID == ""
}

// ChartNode is a roster row annotated for a single render pass.
// Field names follow what the browser chart library reads from its data.
type ChartNode struct {
	Employee
	Highlighted    bool   `json:"_highlighted"`
	HighlightColor string `json:"highlightColor,omitempty"`
	Expanded       bool   `json:"_expanded"`
	Content        string `json:"content,omitempty"`
}

// DepartmentColor pairs a department with its palette color.
type DepartmentColor struct {
	Department string `json:"department"`
	Color      string `json:"color"`
}

// Palette maps departments to colors in first-seen order.
type Palette struct {
	Entries []DepartmentColor `json:"entries"`
}

// Color returns the color allocated to department.
func (p Palette) Color(department string) (string, bool) {
	for _, e := range p.Entries {
		if e.Department == department {
			return e.Color, true
		}
	}
	return "", false
}

// Departments returns the department names in first-seen order.
func (p Palette) Departments() []string {
	out := make([]string, 0, len(p.Entries))
	for _, e := range p.Entries {
		out = append(out, e.Department)
	}
	return out
}
