package main

import (
	"flag"
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/1broseidon/wmctrl/internal/config"
)

func (a *app) runConfig(args []string) int {
	if len(args) == 0 || args[0] == "help" || args[0] == "-h" || args[0] == "--help" {
		fmt.Fprintln(a.stderr, "Usage:")
		fmt.Fprintln(a.stderr, "  wmctrl config validate [--path PATH]")
		fmt.Fprintln(a.stderr, "  wmctrl config print [--path PATH] [--defaults]")
		return 2
	}

	switch args[0] {
	case "validate":
		fs := flag.NewFlagSet("validate", flag.ContinueOnError)
		fs.SetOutput(a.stderr)
		path := fs.String("path", "", "Config file path (default: ~/.config/wmctrl/config.yaml)")
		if err := fs.Parse(args[1:]); err != nil {
			return 2
		}

		res, err := a.loadConfigFrom(*path)
		if err != nil {
			fmt.Fprintln(a.stderr, err)
			return 1
		}
		if len(res.Files) == 0 {
			fmt.Fprintln(a.stdout, "config: ok (defaults, no file)")
			return 0
		}
		fmt.Fprintln(a.stdout, "config: ok")
		return 0

	case "print":
		fs := flag.NewFlagSet("print", flag.ContinueOnError)
		fs.SetOutput(a.stderr)
		path := fs.String("path", "", "Config file path (default: ~/.config/wmctrl/config.yaml)")
		printDefaults := fs.Bool("defaults", false, "Print built-in defaults (no files)")
		if err := fs.Parse(args[1:]); err != nil {
			return 2
		}

		cfg := config.DefaultConfig()
		if !*printDefaults {
			res, err := a.loadConfigFrom(*path)
			if err != nil {
				fmt.Fprintln(a.stderr, err)
				return 1
			}
			for _, f := range res.Files {
				fmt.Fprintf(a.stdout, "# source: %s\n", f)
			}
			cfg = res.Config
		}
		data, err := yaml.Marshal(cfg)
		if err != nil {
			fmt.Fprintln(a.stderr, err)
			return 1
		}
		fmt.Fprint(a.stdout, string(data))
		return 0

	default:
		fmt.Fprintf(a.stderr, "Unknown config subcommand: %s\n", args[0])
		return 2
	}
}

// loadConfigFrom loads path, falling back to --config and then the default
// location.
func (a *app) loadConfigFrom(path string) (*config.LoadResult, error) {
	if path == "" {
		path = a.configPath
	}
	if path == "" {
		return config.LoadWithSources()
	}
	return config.LoadFromPath(path)
}
