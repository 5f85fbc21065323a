package model

// Framework is an external compliance standard such as ISO 27001 or SOC 2
type Framework struct {
	ID            string `json:"id"`
	Name          string `json:"name"`
	Version       string `json:"version,omitempty"`
	Description   string `json:"description,omitempty"`
	Category      string `json:"category,omitempty"`
	Enabled       bool   `json:"enabled"`
	TotalControls int    `json:"total_controls"`
}

// FrameworkControl is a single requirement defined by one framework
type FrameworkControl struct {
	ID          string `json:"id"`
	FrameworkID string `json:"framework_id,omitempty"`
	ControlID   string `json:"control_id"`
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
	Category    string `json:"category,omitempty"`
}
