// Package process takes read-only snapshots of the OS process table.
package process

import (
	"context"
	"fmt"
	"path/filepath"
	"runtime"
	"strings"

	gops "github.com/shirou/gopsutil/v4/process"

	"github.com/1broseidon/wmctrl/internal/logging"
	"github.com/1broseidon/wmctrl/internal/platform"
)

// Record describes one process at the time of the snapshot.
type Record struct {
	PID        int
	Name       string
	ThreadIDs  []int
	MainWindow platform.Handle
}

// Snapshot is the process table in the order the OS reported it.
type Snapshot []Record

// ByName returns every record whose name equals name exactly, in snapshot
// order.
func (s Snapshot) ByName(name string) []Record {
	var out []Record
	for _, rec := range s {
		if rec.Name == name {
			out = append(out, rec)
		}
	}
	return out
}

// Lookup takes process snapshots. With names, only processes carrying one
// of those names are included; otherwise every process is.
type Lookup interface {
	Snapshot(ctx context.Context, names ...string) (Snapshot, error)
}

// Source supplies the window-system facts a snapshot records per process.
type Source interface {
	ProcessThreads(pid int) ([]int, error)
	MainWindow(pid int) platform.Handle
}

// SystemLookup reads the live process table through gopsutil.
type SystemLookup struct {
	source Source
	goos   string
	log    *logging.Logger
}

var _ Lookup = (*SystemLookup)(nil)

// NewSystemLookup creates a lookup that enriches gopsutil records with
// thread ids and main windows from source.
func NewSystemLookup(source Source, log *logging.Logger) *SystemLookup {
	return &SystemLookup{source: source, goos: runtime.GOOS, log: log}
}

func (l *SystemLookup) Snapshot(ctx context.Context, names ...string) (Snapshot, error) {
	procs, err := gops.ProcessesWithContext(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list processes: %w", err)
	}

	wanted := make(map[string]bool, len(names))
	for _, n := range names {
		wanted[n] = true
	}

	idx := &sourceIndex{source: l.source, log: l.log}
	snap := make(Snapshot, 0, len(procs))
	for _, p := range procs {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		raw, err := p.NameWithContext(ctx)
		if err != nil {
			// Exited since the listing, or not readable by this user.
			l.log.Debug("Skipping process", "pid", p.Pid, "error", err.Error())
			continue
		}
		name := NormalizeName(l.goos, raw)
		if len(wanted) > 0 && !wanted[name] {
			continue
		}

		pid := int(p.Pid)
		snap = append(snap, Record{
			PID:        pid,
			Name:       name,
			ThreadIDs:  idx.threads(pid),
			MainWindow: idx.mainWindow(pid),
		})
	}
	return snap, nil
}

// sourceIndex answers per-process queries for one snapshot. Sources that
// implement the platform indexers are asked once, on first use; the rest
// are queried per process.
type sourceIndex struct {
	source Source
	log    *logging.Logger

	threadsLoaded bool
	threadIndex   map[int][]int
	windowsLoaded bool
	windowIndex   map[int]platform.Handle
}

func (x *sourceIndex) threads(pid int) []int {
	if !x.threadsLoaded {
		x.threadsLoaded = true
		if ti, ok := x.source.(platform.ThreadIndexer); ok {
			index, err := ti.ThreadIndex()
			if err != nil {
				x.log.Debug("Thread index unavailable", "error", err.Error())
			} else {
				x.threadIndex = index
			}
		}
	}
	if x.threadIndex != nil {
		return x.threadIndex[pid]
	}
	tids, err := x.source.ProcessThreads(pid)
	if err != nil {
		x.log.Debug("Failed to enumerate threads", "pid", pid, "error", err.Error())
		return nil
	}
	return tids
}

func (x *sourceIndex) mainWindow(pid int) platform.Handle {
	if !x.windowsLoaded {
		x.windowsLoaded = true
		if wi, ok := x.source.(platform.MainWindowIndexer); ok {
			index, err := wi.MainWindowIndex()
			if err != nil {
				x.log.Debug("Main window index unavailable", "error", err.Error())
			} else {
				x.windowIndex = index
			}
		}
	}
	if x.windowIndex != nil {
		return x.windowIndex[pid]
	}
	return x.source.MainWindow(pid)
}

// NormalizeName maps an OS image name to the name users type. Windows
// image names lose their extension (notepad.exe -> notepad); elsewhere the
// name is used as reported.
func NormalizeName(goos, name string) string {
	if goos != "windows" {
		return name
	}
	ext := filepath.Ext(name)
	if ext == "" || ext == name {
		return name
	}
	return strings.TrimSuffix(name, ext)
}

// Static is a Lookup over a fixed snapshot.
type Static Snapshot

func (s Static) Snapshot(ctx context.Context, names ...string) (Snapshot, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if len(names) == 0 {
		return append(Snapshot(nil), s...), nil
	}
	var out Snapshot
	for _, rec := range s {
		for _, n := range names {
			if rec.Name == n {
				out = append(out, rec)
				break
			}
		}
	}
	return out, nil
}
