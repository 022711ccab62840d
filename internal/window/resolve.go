package window

import (
	"fmt"
	"strings"

	"github.com/1broseidon/wmctrl/internal/logging"
	"github.com/1broseidon/wmctrl/internal/platform"
	"github.com/1broseidon/wmctrl/internal/process"
)

// Criterion selects a window. It is one of ByID, ByProcessName or
// ByProcessAndTitle.
type Criterion interface {
	criterion()
}

// ByID trusts a literal numeric handle.
type ByID struct {
	Literal string
}

// ByProcessName selects the main window of the first process named Name.
type ByProcessName struct {
	Name string
}

// ByProcessAndTitle selects the first window of the first process named
// Name whose title contains Fragment (case-sensitive, unanchored).
type ByProcessAndTitle struct {
	Name     string
	Fragment string
}

func (ByID) criterion()              {}
func (ByProcessName) criterion()     {}
func (ByProcessAndTitle) criterion() {}

// Resolution is the outcome of a successful Resolve.
type Resolution struct {
	Handle platform.Handle
	// Process is the process the handle was found in; nil for ByID.
	Process *process.Record
	// Candidates is how many processes matched the name.
	Candidates int
	// Title is the matched title for ByProcessAndTitle.
	Title string
}

// Ambiguous reports whether several processes matched and the first one
// in snapshot order was used.
func (r Resolution) Ambiguous() bool {
	return r.Candidates > 1
}

// Entry is one window in listing mode.
type Entry struct {
	Handle platform.Handle
	Title  string
}

// Untitled reports whether the window had no readable text.
func (e Entry) Untitled() bool {
	return strings.TrimSpace(e.Title) == ""
}

// ProcessWindows groups a process with all of its windows.
type ProcessWindows struct {
	Process process.Record
	Windows []Entry
}

// ProcessTitle pairs a process with its main window title.
type ProcessTitle struct {
	Process process.Record
	Title   string
}

// Resolver applies selection policies to a process snapshot.
type Resolver struct {
	sys      OS
	log      *logging.Logger
	capacity int
}

type Option func(*Resolver)

// WithLogger routes ambiguity warnings and debug traces to log.
func WithLogger(log *logging.Logger) Option {
	return func(r *Resolver) { r.log = log }
}

// WithTitleCapacity overrides DefaultTitleCapacity.
func WithTitleCapacity(capacity int) Option {
	return func(r *Resolver) {
		if capacity > 0 {
			r.capacity = capacity
		}
	}
}

// NewResolver creates a resolver over sys.
func NewResolver(sys OS, opts ...Option) *Resolver {
	r := &Resolver{sys: sys, capacity: DefaultTitleCapacity}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Resolve picks the window selected by c from snap.
func (r *Resolver) Resolve(snap process.Snapshot, c Criterion) (Resolution, error) {
	switch c := c.(type) {
	case ByID:
		h, err := ParseHandle(c.Literal)
		if err != nil {
			return Resolution{}, err
		}
		return Resolution{Handle: h}, nil

	case ByProcessName:
		rec, n, err := r.pickProcess(snap, c.Name)
		if err != nil {
			return Resolution{}, err
		}
		if rec.MainWindow == platform.NoWindow {
			return Resolution{}, fmt.Errorf("%w: process %q (pid %d) has no main window", ErrWindowNotFound, rec.Name, rec.PID)
		}
		return Resolution{Handle: rec.MainWindow, Process: &rec, Candidates: n}, nil

	case ByProcessAndTitle:
		if c.Fragment == "" {
			return Resolution{}, fmt.Errorf("%w: title fragment is required", ErrInvalidArgument)
		}
		rec, n, err := r.pickProcess(snap, c.Name)
		if err != nil {
			return Resolution{}, err
		}
		for h := range Enumerate(r.sys, rec) {
			title := ReadTitle(r.sys, h, r.capacity)
			if title != "" && strings.Contains(title, c.Fragment) {
				r.log.Debug("Matched window", "pid", rec.PID, "handle", FormatHandle(h), "title", title)
				return Resolution{Handle: h, Process: &rec, Candidates: n, Title: title}, nil
			}
		}
		return Resolution{}, fmt.Errorf("%w: no window of %q has a title containing %q", ErrWindowNotFound, c.Name, c.Fragment)

	default:
		return Resolution{}, fmt.Errorf("%w: unsupported criterion %T", ErrInvalidArgument, c)
	}
}

// pickProcess returns the first process named name and how many matched.
func (r *Resolver) pickProcess(snap process.Snapshot, name string) (process.Record, int, error) {
	if name == "" {
		return process.Record{}, 0, fmt.Errorf("%w: process name is required", ErrInvalidArgument)
	}
	matches := snap.ByName(name)
	if len(matches) == 0 {
		return process.Record{}, 0, fmt.Errorf("%w: no process named %q", ErrProcessNotFound, name)
	}
	first := matches[0]
	if len(matches) > 1 {
		r.log.Warn("Ambiguous process name, using first process",
			"name", name,
			"matches", len(matches),
			"pid", first.PID)
	}
	return first, len(matches), nil
}

// List reads every window of every process named name. Untitled windows
// are kept so callers can tell "exists without text" from "absent";
// whitespace-only titles are reported as "".
func (r *Resolver) List(snap process.Snapshot, name string) ([]ProcessWindows, error) {
	if name == "" {
		return nil, fmt.Errorf("%w: process name is required", ErrInvalidArgument)
	}
	matches := snap.ByName(name)
	if len(matches) == 0 {
		return nil, fmt.Errorf("%w: no process named %q", ErrProcessNotFound, name)
	}

	out := make([]ProcessWindows, 0, len(matches))
	for _, rec := range matches {
		group := ProcessWindows{Process: rec, Windows: []Entry{}}
		for h := range Enumerate(r.sys, rec) {
			title := ReadTitle(r.sys, h, r.capacity)
			if strings.TrimSpace(title) == "" {
				title = ""
			}
			group.Windows = append(group.Windows, Entry{Handle: h, Title: title})
		}
		r.log.Debug("Enumerated windows", "pid", rec.PID, "count", len(group.Windows))
		out = append(out, group)
	}
	return out, nil
}

// MainTitle reads the title of rec's main window.
func (r *Resolver) MainTitle(rec process.Record) string {
	return ReadTitle(r.sys, rec.MainWindow, r.capacity)
}

// Processes returns the processes whose main window has a non-empty title,
// in snapshot order.
func (r *Resolver) Processes(snap process.Snapshot) []ProcessTitle {
	var out []ProcessTitle
	for _, rec := range snap {
		if title := r.MainTitle(rec); title != "" {
			out = append(out, ProcessTitle{Process: rec, Title: title})
		}
	}
	return out
}

// Activate brings h to the foreground. See the package-level Activate.
func (r *Resolver) Activate(h platform.Handle) error {
	r.log.Debug("Requesting foreground", "handle", FormatHandle(h))
	return Activate(r.sys, h)
}
