package domain

import "time"

// Session is one viewer's loaded roster and view state. It plays the role of a
// page load: the roster is fetched once when the session is created.
type Session struct {
	ID        string     `json:"id"`
	Roster    []Employee `json:"roster"`
	Palette   Palette    `json:"palette"`
	State     ViewState  `json:"state"`
	Warnings  []string   `json:"warnings,omitempty"`
	Rendered  bool       `json:"rendered"`
	Source    string     `json:"source"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}
