package mcp

import (
	"context"
	"fmt"

	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/1broseidon/wmctrl/internal/process"
	"github.com/1broseidon/wmctrl/internal/window"
)

// toolError prefixes err with its window.Kind so clients can branch on it.
func toolError(err error) error {
	if kind := window.Kind(err); kind != "" {
		return fmt.Errorf("%s: %w", kind, err)
	}
	return err
}

func (s *Server) snapshot(ctx context.Context, names ...string) (process.Snapshot, error) {
	snap, err := s.lookup.Snapshot(ctx, names...)
	if err != nil {
		s.log.Error("Process snapshot failed", err)
		return nil, err
	}
	return snap, nil
}

func (s *Server) handleListProcesses(ctx context.Context, _ *mcpsdk.CallToolRequest, _ ListProcessesInput) (*mcpsdk.CallToolResult, ListProcessesOutput, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	snap, err := s.snapshot(ctx)
	if err != nil {
		return nil, ListProcessesOutput{}, err
	}
	out := ListProcessesOutput{Processes: []ProcessInfo{}}
	for _, p := range s.resolver.Processes(snap) {
		out.Processes = append(out.Processes, ProcessInfo{
			PID:   p.Process.PID,
			Name:  p.Process.Name,
			Title: p.Title,
		})
	}
	return nil, out, nil
}

func (s *Server) handleListWindows(ctx context.Context, _ *mcpsdk.CallToolRequest, args ListWindowsInput) (*mcpsdk.CallToolResult, ListWindowsOutput, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	snap, err := s.snapshot(ctx, args.Process)
	if err != nil {
		return nil, ListWindowsOutput{}, err
	}
	groups, err := s.resolver.List(snap, args.Process)
	if err != nil {
		return nil, ListWindowsOutput{}, toolError(err)
	}

	out := ListWindowsOutput{Processes: make([]ProcessWindowsInfo, 0, len(groups))}
	for _, g := range groups {
		info := ProcessWindowsInfo{
			PID:     g.Process.PID,
			Name:    g.Process.Name,
			Title:   s.resolver.MainTitle(g.Process),
			Windows: make([]WindowInfo, 0, len(g.Windows)),
		}
		for _, w := range g.Windows {
			info.Windows = append(info.Windows, WindowInfo{
				Handle:   int64(w.Handle),
				Title:    w.Title,
				Untitled: w.Untitled(),
			})
		}
		out.Processes = append(out.Processes, info)
	}
	return nil, out, nil
}

func (s *Server) handleSwitchToWindow(ctx context.Context, _ *mcpsdk.CallToolRequest, args SwitchToWindowInput) (*mcpsdk.CallToolResult, ActivationOutput, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	snap, err := s.snapshot(ctx, args.Process)
	if err != nil {
		return nil, ActivationOutput{}, err
	}
	res, err := s.resolver.Resolve(snap, window.ByProcessName{Name: args.Process})
	if err != nil {
		return nil, ActivationOutput{}, toolError(err)
	}
	if err := s.resolver.Activate(res.Handle); err != nil {
		return nil, ActivationOutput{}, fmt.Errorf("failed to activate window %s: %w", window.FormatHandle(res.Handle), err)
	}
	return nil, ActivationOutput{
		Handle:     int64(res.Handle),
		PID:        res.Process.PID,
		Candidates: res.Candidates,
	}, nil
}

func (s *Server) handleSwitchToHandle(_ context.Context, _ *mcpsdk.CallToolRequest, args SwitchToHandleInput) (*mcpsdk.CallToolResult, ActivationOutput, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.resolver.Resolve(nil, window.ByID{Literal: args.Handle})
	if err != nil {
		return nil, ActivationOutput{}, toolError(err)
	}
	if err := s.resolver.Activate(res.Handle); err != nil {
		return nil, ActivationOutput{}, fmt.Errorf("failed to activate window %s: %w", window.FormatHandle(res.Handle), err)
	}
	return nil, ActivationOutput{Handle: int64(res.Handle)}, nil
}

func (s *Server) handleResolveHandle(ctx context.Context, _ *mcpsdk.CallToolRequest, args ResolveHandleInput) (*mcpsdk.CallToolResult, ResolveHandleOutput, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	snap, err := s.snapshot(ctx, args.Process)
	if err != nil {
		return nil, ResolveHandleOutput{}, err
	}
	res, err := s.resolver.Resolve(snap, window.ByProcessAndTitle{Name: args.Process, Fragment: args.Title})
	if err != nil {
		return nil, ResolveHandleOutput{}, toolError(err)
	}
	return nil, ResolveHandleOutput{
		Handle:     int64(res.Handle),
		PID:        res.Process.PID,
		Title:      res.Title,
		Candidates: res.Candidates,
	}, nil
}
