package mcp

// ListProcessesInput is the input for the list_processes tool.
type ListProcessesInput struct{}

// ProcessInfo describes a process with a titled main window.
type ProcessInfo struct {
	PID   int    `json:"pid"`
	Name  string `json:"name"`
	Title string `json:"title"`
}

// ListProcessesOutput is the output for the list_processes tool.
type ListProcessesOutput struct {
	Processes []ProcessInfo `json:"processes"`
}

// ListWindowsInput is the input for the list_windows tool.
type ListWindowsInput struct {
	Process string `json:"process" jsonschema:"required,Exact process name (case-sensitive, without .exe on Windows)"`
}

// WindowInfo describes one top-level window.
type WindowInfo struct {
	Handle   int64  `json:"handle"`
	Title    string `json:"title"`
	Untitled bool   `json:"untitled"`
}

// ProcessWindowsInfo groups a process with its windows.
type ProcessWindowsInfo struct {
	PID     int          `json:"pid"`
	Name    string       `json:"name"`
	Title   string       `json:"title"`
	Windows []WindowInfo `json:"windows"`
}

// ListWindowsOutput is the output for the list_windows tool.
type ListWindowsOutput struct {
	Processes []ProcessWindowsInfo `json:"processes"`
}

// SwitchToWindowInput is the input for the switch_to_window tool.
type SwitchToWindowInput struct {
	Process string `json:"process" jsonschema:"required,Exact process name whose main window should be activated"`
}

// SwitchToHandleInput is the input for the switch_to_handle tool.
type SwitchToHandleInput struct {
	Handle string `json:"handle" jsonschema:"required,Decimal window handle as printed by list_windows or resolve_handle"`
}

// ResolveHandleInput is the input for the resolve_handle tool.
type ResolveHandleInput struct {
	Process string `json:"process" jsonschema:"required,Exact process name"`
	Title   string `json:"title" jsonschema:"required,Case-sensitive substring of the window title"`
}

// ActivationOutput is the output for the switch_to_window and
// switch_to_handle tools.
type ActivationOutput struct {
	Handle int64 `json:"handle"`
	// PID is 0 when the handle was given literally.
	PID int `json:"pid,omitempty"`
	// Candidates is how many processes matched the name.
	Candidates int `json:"candidates,omitempty"`
}

// ResolveHandleOutput is the output for the resolve_handle tool.
type ResolveHandleOutput struct {
	Handle     int64  `json:"handle"`
	PID        int    `json:"pid"`
	Title      string `json:"title"`
	Candidates int    `json:"candidates"`
}
