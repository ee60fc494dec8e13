// Package display holds the results the CLI hands to renderers
package display

// PluginRow describes one plugin of a phase
type PluginRow struct {
	ID      string `json:"id"`
	Version string `json:"version,omitempty"`
	Path    string `json:"path,omitempty"`
}

// PhaseResult is the resolved pipeline of one phase
type PhaseResult struct {
	Phase   string      `json:"phase"`
	Target  string      `json:"target,omitempty"`
	Plugins []PluginRow `json:"plugins"`
}

// Check is the outcome of loading one declared plugin
type Check struct {
	ID      string `json:"id"`
	OK      bool   `json:"ok"`
	Version string `json:"version,omitempty"`
	Error   string `json:"error,omitempty"`
}

// ValidationReport collects the checks of every plugin a configuration declares
type ValidationReport struct {
	ConfigPath string  `json:"configPath"`
	Checks     []Check `json:"checks"`
}

// Failed counts the checks that did not pass
func (r *ValidationReport) Failed() int {
	n := 0
	for _, c := range r.Checks {
		if !c.OK {
			n++
		}
	}
	return n
}

// Document is preformatted content such as a rendered configuration
type Document struct {
	Title    string `json:"title,omitempty"`
	Language string `json:"language,omitempty"`
	Content  string `json:"content"`
}
