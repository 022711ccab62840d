package main

import (
	"fmt"
	"io"
)

// isLegacyOption reports whether arg is one of the single-dash options
// (-h, -l, -a, -ia, -ai) that predate the subcommands.
func isLegacyOption(arg string) bool {
	switch arg {
	case "-h", "-l", "-a", "-ia", "-ai":
		return true
	}
	return false
}

// runLegacy processes options left to right. The first failing option
// prints usage and ends the run with its status.
func (a *app) runLegacy(args []string) int {
	var s *session
	defer func() {
		if s != nil {
			s.Close()
		}
	}()
	open := func() (*session, int) {
		if s != nil {
			return s, 0
		}
		var status int
		s, status = a.openSession()
		return s, status
	}

	status := 0
	for i := 0; i < len(args) && status == 0; {
		arg := args[i]
		switch arg {
		case "-h":
			a.printLegacyUsage(a.stdout)
			i++

		case "-l":
			sess, st := open()
			if sess == nil {
				return st
			}
			if i+1 < len(args) {
				status = a.listWindows(sess, args[i+1])
				i += 2
			} else {
				status = a.listProcesses(sess)
				i++
			}

		case "-a":
			if i+1 >= len(args) {
				fmt.Fprintln(a.stderr, "Error: command line option -a needs to be followed by a process name.")
				status = exitNotFound
				break
			}
			sess, st := open()
			if sess == nil {
				return st
			}
			status = a.switchToWindow(sess, args[i+1])
			i += 2

		case "-ia", "-ai":
			if i+1 >= len(args) {
				fmt.Fprintf(a.stderr, "Error: command line option %s needs to be followed by a window handle.\n", arg)
				status = exitNotFound
				break
			}
			sess, st := open()
			if sess == nil {
				return st
			}
			status = a.switchToHandle(sess, args[i+1])
			i += 2

		default:
			fmt.Fprintf(a.stdout, "Skipped argument: %s\n", arg)
			i++
		}
	}

	if status != 0 {
		a.printLegacyUsage(a.stdout)
	}
	return status
}

func (a *app) printLegacyUsage(w io.Writer) {
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "usage: wmctrl [options] [args]")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "options:")
	fmt.Fprintln(w, "  -h              : show this help")
	fmt.Fprintln(w, "  -l <opt:PNAME>  : list processes, or windows if a process name is given")
	fmt.Fprintln(w, "  -a <PNAME>      : switch to the window of the process name <PNAME>")
	fmt.Fprintln(w, "  -ia <HANDLE>    : switch to the window with handle <HANDLE>")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "Run 'wmctrl help' for the subcommand interface.")
}
