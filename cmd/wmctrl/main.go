package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/rs/zerolog"
	"golang.org/x/term"

	"github.com/1broseidon/wmctrl/internal/config"
	"github.com/1broseidon/wmctrl/internal/logging"
	"github.com/1broseidon/wmctrl/internal/platform"
	"github.com/1broseidon/wmctrl/internal/process"
	"github.com/1broseidon/wmctrl/internal/window"
)

// exitNotFound is the status of an operation that found nothing to act on.
const exitNotFound = -1

func main() {
	os.Exit(newApp().run(os.Args[1:]))
}

// app carries process-wide settings and the seams tests replace.
type app struct {
	stdout io.Writer
	stderr io.Writer
	styled bool

	configPath string
	debug      bool

	openBackend func() (platform.Backend, error)
	newLookup   func(process.Source, *logging.Logger) process.Lookup
}

func newApp() *app {
	return &app{
		stdout:      os.Stdout,
		stderr:      os.Stderr,
		styled:      term.IsTerminal(int(os.Stdout.Fd())),
		openBackend: platform.New,
		newLookup: func(src process.Source, log *logging.Logger) process.Lookup {
			return process.NewSystemLookup(src, log)
		},
	}
}

func (a *app) run(args []string) int {
	if len(args) == 0 {
		fmt.Fprintln(a.stdout, "Error: insufficient command line arguments")
		a.printMainUsage(a.stdout)
		return 0
	}

	global, rest := splitGlobalArgs(args)
	fs := flag.NewFlagSet("wmctrl", flag.ContinueOnError)
	fs.SetOutput(a.stderr)
	fs.StringVar(&a.configPath, "config", "", "Config file path (default: $WMCTRL_CONFIG or ~/.config/wmctrl/config.yaml)")
	fs.BoolVar(&a.debug, "debug", false, "Log debug events to stderr")
	fs.Usage = func() { a.printMainUsage(a.stderr) }
	if err := fs.Parse(global); err != nil {
		if err == flag.ErrHelp {
			return 0
		}
		return 2
	}
	rest = append(fs.Args(), rest...)
	if len(rest) == 0 {
		a.printMainUsage(a.stderr)
		return 2
	}

	if isLegacyOption(rest[0]) {
		return a.runLegacy(rest)
	}

	switch rest[0] {
	case "list-processes", "ps":
		return a.runListProcesses(rest[1:])
	case "list-windows", "ls":
		return a.runListWindows(rest[1:])
	case "switch-to-window", "activate":
		return a.runSwitchToWindow(rest[1:])
	case "switch-to-handle":
		return a.runSwitchToHandle(rest[1:])
	case "resolve-handle":
		return a.runResolveHandle(rest[1:])
	case "config":
		return a.runConfig(rest[1:])
	case "mcp":
		return a.runMCP(rest[1:])
	case "help":
		a.printMainUsage(a.stdout)
		return 0
	default:
		fmt.Fprintf(a.stderr, "Unknown command: %s\n\n", rest[0])
		a.printMainUsage(a.stderr)
		return 2
	}
}

// splitGlobalArgs separates leading global flags from the command and its
// arguments. Legacy options end the global section.
func splitGlobalArgs(args []string) (global, rest []string) {
	i := 0
	for i < len(args) {
		arg := args[i]
		if arg == "--" {
			i++
			break
		}
		if !strings.HasPrefix(arg, "-") || isLegacyOption(arg) {
			break
		}
		if (arg == "--config" || arg == "-config") && i+1 < len(args) {
			i += 2
			continue
		}
		i++
	}
	return args[:i], args[i:]
}

func (a *app) printMainUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: wmctrl [--config PATH] [--debug] <command> [args]")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "Commands:")
	fmt.Fprintln(w, "  list-processes (ps)            List processes with a titled main window")
	fmt.Fprintln(w, "  list-windows (ls) <process>    List the windows of every process named <process>")
	fmt.Fprintln(w, "  switch-to-window <process>     Activate the main window of <process> (fails without one)")
	fmt.Fprintln(w, "  switch-to-handle <handle>      Activate the window with the given handle")
	fmt.Fprintln(w, "  resolve-handle <process> <title>")
	fmt.Fprintln(w, "                                 Print the handle of the first window whose title contains <title>")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "  config validate                Validate configuration")
	fmt.Fprintln(w, "  config print                   Print effective configuration")
	fmt.Fprintln(w, "  mcp serve                      Start MCP server (stdio transport)")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "Options:")
	fmt.Fprintln(w, "  -h                             Show this help")
	fmt.Fprintln(w, "  -l [process]                   List processes, or windows if a process name is given")
	fmt.Fprintln(w, "  -a <process>                   Switch to the window of <process>")
	fmt.Fprintln(w, "  -ia <handle>                   Switch to the window with the given handle")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "Run 'wmctrl <command> --help' for command-specific options.")
}

// session holds everything a window operation needs. Close releases the
// backend and log file.
type session struct {
	cfg      *config.Config
	log      *logging.Logger
	backend  platform.Backend
	lookup   process.Lookup
	resolver *window.Resolver
}

func (s *session) Close() {
	if s.backend != nil {
		if err := s.backend.Close(); err != nil {
			s.log.Error("Failed to close window backend", err)
		}
	}
	s.log.Close()
}

func (a *app) loadConfig() (*config.Config, error) {
	if a.configPath != "" {
		res, err := config.LoadFromPath(a.configPath)
		if err != nil {
			return nil, err
		}
		return res.Config, nil
	}
	return config.Load()
}

func (a *app) newLogger(cfg *config.Config) (*logging.Logger, error) {
	level, err := logging.ParseLevel(cfg.Logging.Level)
	if err != nil {
		return nil, err
	}
	if a.debug {
		level = zerolog.DebugLevel
	}
	opts := []logging.Option{logging.WithLevel(level), logging.WithWriter(a.stderr)}
	if cfg.Logging.File != "" {
		opts = append(opts, logging.WithFile(cfg.Logging.File))
	}
	return logging.New(opts...)
}

// openSession loads config, sets up logging and connects to the window
// system. Failures are printed; the returned status is non-zero.
func (a *app) openSession() (*session, int) {
	cfg, err := a.loadConfig()
	if err != nil {
		fmt.Fprintf(a.stderr, "Failed to load config: %v\n", err)
		return nil, 1
	}
	log, err := a.newLogger(cfg)
	if err != nil {
		fmt.Fprintf(a.stderr, "Failed to initialize logging: %v\n", err)
		return nil, 1
	}

	backend, err := a.openBackend()
	if err != nil {
		fmt.Fprintf(a.stderr, "Failed to open window backend: %v\n", err)
		log.Close()
		return nil, 1
	}

	return &session{
		cfg:     cfg,
		log:     log,
		backend: backend,
		lookup:  a.newLookup(backend, log),
		resolver: window.NewResolver(backend,
			window.WithLogger(log),
			window.WithTitleCapacity(cfg.TitleCapacity)),
	}, 0
}

// statusFor maps a resolution failure to an exit status, printing it.
func (a *app) statusFor(err error) int {
	switch {
	case errors.Is(err, window.ErrProcessNotFound),
		errors.Is(err, window.ErrWindowNotFound),
		errors.Is(err, window.ErrInvalidArgument):
		fmt.Fprintf(a.stderr, "Error: %v\n", err)
		return exitNotFound
	default:
		fmt.Fprintln(a.stderr, err)
		return 1
	}
}
