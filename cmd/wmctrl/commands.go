package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"strings"

	"github.com/1broseidon/wmctrl/internal/window"
)

// Sentinels printed by resolve-handle in place of a handle.
const (
	resolveMissingArgs  = "-1" // also printed when the lookup itself fails
	resolveNoTitleMatch = "-2"
	resolveNoProcess    = "-3"
)

// newCommandFlags builds the flag set shared by the window commands.
func (a *app) newCommandFlags(name, usage, help string) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(a.stderr)
	fs.Usage = func() {
		fmt.Fprintf(a.stderr, "Usage: wmctrl %s\n", usage)
		fmt.Fprintln(a.stderr, "")
		fmt.Fprintln(a.stderr, help)
	}
	return fs
}

func parseCommandFlags(fs *flag.FlagSet, args []string) (int, bool) {
	if err := fs.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return 0, false
		}
		return 2, false
	}
	return 0, true
}

func (a *app) runListProcesses(args []string) int {
	fs := a.newCommandFlags("list-processes", "list-processes",
		"List running processes whose main window has a title.")
	if status, ok := parseCommandFlags(fs, args); !ok {
		return status
	}
	if fs.NArg() != 0 {
		fmt.Fprintln(a.stderr, "list-processes takes no arguments")
		fs.Usage()
		return 2
	}

	s, status := a.openSession()
	if s == nil {
		return status
	}
	defer s.Close()
	return a.listProcesses(s)
}

func (a *app) runListWindows(args []string) int {
	fs := a.newCommandFlags("list-windows", "list-windows <process>",
		"List every top-level window of every process named <process>, with its title and handle.")
	if status, ok := parseCommandFlags(fs, args); !ok {
		return status
	}
	if fs.NArg() != 1 {
		fmt.Fprintln(a.stderr, "list-windows requires exactly one <process>")
		fs.Usage()
		return 2
	}

	s, status := a.openSession()
	if s == nil {
		return status
	}
	defer s.Close()
	return a.listWindows(s, fs.Arg(0))
}

func (a *app) runSwitchToWindow(args []string) int {
	fs := a.newCommandFlags("switch-to-window", "switch-to-window <process>",
		"Bring the main window of the first process named <process> to the foreground.\n"+
			"Exits -1 without activating anything when no process matches or the first\n"+
			"matching process has no main window.")
	if status, ok := parseCommandFlags(fs, args); !ok {
		return status
	}
	if fs.NArg() != 1 {
		fmt.Fprintln(a.stderr, "switch-to-window requires exactly one <process>")
		fs.Usage()
		return 2
	}

	s, status := a.openSession()
	if s == nil {
		return status
	}
	defer s.Close()
	return a.switchToWindow(s, fs.Arg(0))
}

func (a *app) runSwitchToHandle(args []string) int {
	fs := a.newCommandFlags("switch-to-handle", "switch-to-handle <handle>",
		"Bring the window with the given decimal handle to the foreground.")
	if status, ok := parseCommandFlags(fs, args); !ok {
		return status
	}
	if fs.NArg() != 1 {
		fmt.Fprintln(a.stderr, "switch-to-handle requires exactly one <handle>")
		fs.Usage()
		return 2
	}

	s, status := a.openSession()
	if s == nil {
		return status
	}
	defer s.Close()
	return a.switchToHandle(s, fs.Arg(0))
}

// runResolveHandle always exits 0 and always prints exactly one line on
// stdout, so scripts can capture it. Arguments are positional: a process
// name may start with "-". Failures that are not resolution outcomes are
// reported on stderr and print -1.
func (a *app) runResolveHandle(args []string) int {
	if len(args) == 1 && (args[0] == "-h" || args[0] == "--help" || args[0] == "help") {
		fmt.Fprintln(a.stdout, "Usage: wmctrl resolve-handle <process> <title>")
		fmt.Fprintln(a.stdout, "")
		fmt.Fprintln(a.stdout, "Print the handle of the first window of <process> whose title contains <title>.")
		fmt.Fprintln(a.stdout, "Prints -1 for missing arguments or a failed lookup, -2 when no title matches,")
		fmt.Fprintln(a.stdout, "-3 when no process matches. The exit status is always 0.")
		return 0
	}
	if len(args) > 0 && args[0] == "--" {
		args = args[1:]
	}
	if len(args) != 2 {
		fmt.Fprintln(a.stdout, resolveMissingArgs)
		return 0
	}
	name, fragment := args[0], args[1]

	s, _ := a.openSession()
	if s == nil {
		fmt.Fprintln(a.stdout, resolveMissingArgs)
		return 0
	}
	defer s.Close()

	snap, err := s.lookup.Snapshot(context.Background(), name)
	if err != nil {
		fmt.Fprintln(a.stderr, err)
		fmt.Fprintln(a.stdout, resolveMissingArgs)
		return 0
	}
	res, err := s.resolver.Resolve(snap, window.ByProcessAndTitle{Name: name, Fragment: fragment})
	switch {
	case err == nil:
		fmt.Fprintln(a.stdout, window.FormatHandle(res.Handle))
	case errors.Is(err, window.ErrProcessNotFound):
		fmt.Fprintln(a.stdout, resolveNoProcess)
	case errors.Is(err, window.ErrWindowNotFound):
		fmt.Fprintln(a.stdout, resolveNoTitleMatch)
	default:
		if !errors.Is(err, window.ErrInvalidArgument) {
			fmt.Fprintln(a.stderr, err)
		}
		fmt.Fprintln(a.stdout, resolveMissingArgs)
	}
	return 0
}

func (a *app) listProcesses(s *session) int {
	snap, err := s.lookup.Snapshot(context.Background())
	if err != nil {
		return a.statusFor(err)
	}
	fmt.Fprintln(a.stdout, a.header("ID: \t Name:\t Title:"))
	fmt.Fprintln(a.stdout, strings.Repeat("-", 49))
	for _, p := range s.resolver.Processes(snap) {
		fmt.Fprintf(a.stdout, "%d\t %s\t %s\n", p.Process.PID, p.Process.Name, p.Title)
	}
	return 0
}

func (a *app) listWindows(s *session, name string) int {
	snap, err := s.lookup.Snapshot(context.Background(), name)
	if err != nil {
		return a.statusFor(err)
	}
	groups, err := s.resolver.List(snap, name)
	if err != nil {
		return a.statusFor(err)
	}
	for _, g := range groups {
		fmt.Fprintln(a.stdout, a.header(processLine(g.Process.Name, g.Process.PID, s.resolver.MainTitle(g.Process))))
		for _, w := range g.Windows {
			title := w.Title
			if w.Untitled() {
				title = s.cfg.EmptyTitlePlaceholder
			}
			fmt.Fprintln(a.stdout, title)
			fmt.Fprintf(a.stdout, "    %s\n", window.FormatHandle(w.Handle))
		}
		fmt.Fprintln(a.stdout, "")
	}
	return 0
}

func (a *app) switchToWindow(s *session, name string) int {
	snap, err := s.lookup.Snapshot(context.Background(), name)
	if err != nil {
		return a.statusFor(err)
	}
	res, err := s.resolver.Resolve(snap, window.ByProcessName{Name: name})
	if err != nil {
		return a.statusFor(err)
	}
	if res.Ambiguous() {
		fmt.Fprintf(a.stdout, "%d processes found with name: %s\n", res.Candidates, name)
		fmt.Fprintln(a.stdout, "Using first process:")
		fmt.Fprintln(a.stdout, processLine(res.Process.Name, res.Process.PID, s.resolver.MainTitle(*res.Process)))
	}
	if err := s.resolver.Activate(res.Handle); err != nil {
		fmt.Fprintf(a.stderr, "Failed to activate window %s: %v\n", window.FormatHandle(res.Handle), err)
		return 1
	}
	return 0
}

func (a *app) switchToHandle(s *session, literal string) int {
	res, err := s.resolver.Resolve(nil, window.ByID{Literal: literal})
	if err != nil {
		return a.statusFor(err)
	}
	if err := s.resolver.Activate(res.Handle); err != nil {
		fmt.Fprintf(a.stderr, "Failed to activate window %s: %v\n", window.FormatHandle(res.Handle), err)
		return 1
	}
	return 0
}

func processLine(name string, pid int, title string) string {
	return fmt.Sprintf("Process Name: %s ID: %d Title: %s", name, pid, title)
}
