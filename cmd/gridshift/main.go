package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/1broseidon/gridshift/internal/command"
	"github.com/1broseidon/gridshift/internal/config"
	"github.com/1broseidon/gridshift/internal/daemon"
	"github.com/1broseidon/gridshift/internal/ipc"
	"github.com/1broseidon/gridshift/internal/tui"
)

const version = "0.1.0"

func main() {
	if len(os.Args) < 2 {
		printMainUsage(os.Stdout)
		os.Exit(0)
	}

	switch os.Args[1] {
	case "daemon":
		os.Exit(runDaemon(os.Args[2:]))
	case "go":
		os.Exit(runGo(os.Args[2:]))
	case "switch":
		os.Exit(runSwitch(os.Args[2:]))
	case "movego":
		os.Exit(runMoveGo(os.Args[2:]))
	case "monitor":
		os.Exit(runMonitor(os.Args[2:]))
	case "toggle":
		os.Exit(runToggle(os.Args[2:]))
	case "status":
		os.Exit(runStatus(os.Args[2:]))
	case "watch":
		os.Exit(runWatch(os.Args[2:]))
	case "config":
		os.Exit(runConfig(os.Args[2:]))
	case "mcp":
		os.Exit(runMCP(os.Args[2:]))
	case "help", "-h", "--help":
		printMainUsage(os.Stdout)
		os.Exit(0)
	case "version", "--version":
		fmt.Println("gridshift " + version)
		os.Exit(0)
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", os.Args[1])
		printMainUsage(os.Stderr)
		os.Exit(2)
	}
}

func printMainUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: gridshift <command> [options]")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "Commands:")
	fmt.Fprintln(w, "  daemon              Start the gridshift daemon (foreground)")
	fmt.Fprintln(w, "  status              Show daemon status")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "  go <direction>      Move one cell on the grid (Left, Right, Up, Down)")
	fmt.Fprintln(w, "  switch <x> <y>      Jump to the workspace at grid coordinate (x, y)")
	fmt.Fprintln(w, "  movego <direction>  Move the focused window one cell and follow it")
	fmt.Fprintln(w, "  monitor <selector>  Move the focused window to another monitor")
	fmt.Fprintln(w, "                      (a direction, or an index with --index N)")
	fmt.Fprintln(w, "  toggle              Pin or unpin the grid overlay")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "  watch               Live terminal view of the grid")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "  config validate     Validate configuration")
	fmt.Fprintln(w, "  config print        Print configuration")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "  mcp serve           Start MCP server (stdio transport)")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "Run 'gridshift <command> --help' for command-specific options.")
}

func slogLevel(name string) slog.Level {
	switch name {
	case "debug":
		return slog.LevelDebug
	case "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	}
	return slog.LevelInfo
}

func runDaemon(args []string) int {
	fs := flag.NewFlagSet("daemon", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	fs.Usage = func() {
		fmt.Fprintln(os.Stderr, "Usage: gridshift daemon [--config PATH]")
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, "Run the daemon in the foreground: owns the IPC socket, drives the")
		fmt.Fprintln(os.Stderr, "window-manager backend and listens for touchpad gestures.")
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, "Flags:")
		fs.PrintDefaults()
	}
	configPath := fs.String("config", "", "Config file path (default: ~/.config/gridshift/config.yaml)")
	if err := fs.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return 0
		}
		return 2
	}
	if fs.NArg() != 0 {
		fmt.Fprintln(os.Stderr, "daemon takes no arguments")
		fs.Usage()
		return 2
	}

	cfg, err := loadConfig(*configPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slogLevel(cfg.LogLevel),
	}))

	d, err := daemon.New(cfg, version, logger)
	if err != nil {
		logger.Error("failed to start daemon", "error", err)
		return 1
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigCh
		cancel()
	}()

	if err := d.Run(ctx); err != nil {
		logger.Error("daemon error", "error", err)
		return 1
	}
	return 0
}

func loadConfig(path string) (*config.Config, error) {
	if path != "" {
		return config.LoadFromPath(path)
	}
	return config.Load()
}

// send parses a direction argument, builds a command and submits it.
func sendDirectional(name string, build func(command.Direction) command.Command, args []string, usage string) int {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	fs.Usage = func() {
		fmt.Fprintln(os.Stderr, usage)
	}
	if err := fs.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return 0
		}
		return 2
	}
	if fs.NArg() != 1 {
		fs.Usage()
		return 2
	}

	dir := command.Direction(fs.Arg(0))
	if !dir.Valid() {
		fmt.Fprintf(os.Stderr, "invalid direction %q; expected Left, Right, Up or Down\n", fs.Arg(0))
		return 2
	}

	if err := ipc.NewClient().Send(build(dir)); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	return 0
}

func runGo(args []string) int {
	return sendDirectional("go", command.Go, args,
		"Usage: gridshift go <Left|Right|Up|Down>")
}

func runMoveGo(args []string) int {
	return sendDirectional("movego", command.MoveWindowAndGo, args,
		"Usage: gridshift movego <Left|Right|Up|Down>")
}

func runSwitch(args []string) int {
	fs := flag.NewFlagSet("switch", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	fs.Usage = func() {
		fmt.Fprintln(os.Stderr, "Usage: gridshift switch <x> <y>")
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, "Jump to the workspace at grid coordinate (x, y). Coordinates are")
		fmt.Fprintln(os.Stderr, "zero-based and non-negative.")
	}
	if err := fs.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return 0
		}
		return 2
	}
	if fs.NArg() != 2 {
		fs.Usage()
		return 2
	}

	x, errX := strconv.Atoi(fs.Arg(0))
	y, errY := strconv.Atoi(fs.Arg(1))
	if errX != nil || errY != nil || x < 0 || y < 0 {
		fmt.Fprintln(os.Stderr, "coordinates must be non-negative integers")
		return 2
	}

	if err := ipc.NewClient().Send(command.SwitchTo(x, y)); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	return 0
}

func runMonitor(args []string) int {
	fs := flag.NewFlagSet("monitor", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	fs.Usage = func() {
		fmt.Fprintln(os.Stderr, "Usage: gridshift monitor <Left|Right|Up|Down>")
		fmt.Fprintln(os.Stderr, "       gridshift monitor --index N")
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, "Move the focused window to another monitor, selected spatially by")
		fmt.Fprintln(os.Stderr, "direction or by zero-based index.")
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, "Flags:")
		fs.PrintDefaults()
	}
	index := fs.Int("index", -1, "Zero-based monitor index")
	if err := fs.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return 0
		}
		return 2
	}

	var cmd command.Command
	switch {
	case *index >= 0 && fs.NArg() == 0:
		cmd = command.MoveWindowToMonitorIndex(*index)
	case *index < 0 && fs.NArg() == 1:
		dir := command.Direction(fs.Arg(0))
		if !dir.Valid() {
			fmt.Fprintf(os.Stderr, "invalid direction %q; expected Left, Right, Up or Down\n", fs.Arg(0))
			return 2
		}
		cmd = command.MoveWindowToMonitor(dir)
	default:
		fs.Usage()
		return 2
	}

	if err := ipc.NewClient().Send(cmd); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	return 0
}

func runToggle(args []string) int {
	fs := flag.NewFlagSet("toggle", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	fs.Usage = func() {
		fmt.Fprintln(os.Stderr, "Usage: gridshift toggle")
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, "Pin or unpin the grid overlay.")
	}
	if err := fs.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return 0
		}
		return 2
	}
	if fs.NArg() != 0 {
		fmt.Fprintln(os.Stderr, "toggle takes no arguments")
		fs.Usage()
		return 2
	}

	if err := ipc.NewClient().Send(command.ToggleVisualizer()); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	return 0
}

func runStatus(args []string) int {
	fs := flag.NewFlagSet("status", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	fs.Usage = func() {
		fmt.Fprintln(os.Stderr, "Usage: gridshift status [--json]")
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, "Show daemon status via IPC.")
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, "Flags:")
		fs.PrintDefaults()
	}
	jsonOut := fs.Bool("json", false, "Output status as JSON")
	if err := fs.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return 0
		}
		return 2
	}
	if fs.NArg() != 0 {
		fmt.Fprintln(os.Stderr, "status takes no arguments")
		fs.Usage()
		return 2
	}

	status, err := ipc.NewClient().Status()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}

	if *jsonOut {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(status); err != nil {
			fmt.Fprintln(os.Stderr, err)
			return 1
		}
		return 0
	}

	fmt.Printf("instance_id:    %s\n", status.InstanceID)
	fmt.Printf("version:        %s\n", status.Version)
	fmt.Printf("backend:        %s\n", status.Backend)
	fmt.Printf("uptime_seconds: %d\n", status.UptimeSeconds)
	fmt.Printf("position:       (%d, %d)\n", status.Current.X, status.Current.Y)
	fmt.Printf("workspace:      %d\n", status.Workspace)
	fmt.Printf("grid:           %dx%d\n", status.Cols, status.Rows)
	fmt.Printf("visited:        %d\n", len(status.Visited))
	fmt.Printf("gesture_active: %v\n", status.GestureActive)
	fmt.Printf("pinned:         %v\n", status.Pinned)
	return 0
}

func runWatch(args []string) int {
	fs := flag.NewFlagSet("watch", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	fs.Usage = func() {
		fmt.Fprintln(os.Stderr, "Usage: gridshift watch")
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, "Subscribe to the daemon and render a live grid view in the terminal.")
	}
	if err := fs.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return 0
		}
		return 2
	}
	if fs.NArg() != 0 {
		fmt.Fprintln(os.Stderr, "watch takes no arguments")
		fs.Usage()
		return 2
	}

	if err := tui.RunWatch(ipc.NewClient()); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	return 0
}

func runConfig(args []string) int {
	if len(args) == 0 || args[0] == "help" || args[0] == "-h" || args[0] == "--help" {
		fmt.Fprintln(os.Stderr, "Usage:")
		fmt.Fprintln(os.Stderr, "  gridshift config validate [--path PATH]")
		fmt.Fprintln(os.Stderr, "  gridshift config print [--path PATH] [--defaults]")
		return 2
	}

	switch args[0] {
	case "validate":
		fs := flag.NewFlagSet("validate", flag.ContinueOnError)
		fs.SetOutput(os.Stderr)
		path := fs.String("path", "", "Config file path")
		if err := fs.Parse(args[1:]); err != nil {
			if err == flag.ErrHelp {
				return 0
			}
			return 2
		}
		if _, err := loadConfig(*path); err != nil {
			fmt.Fprintln(os.Stderr, err)
			return 1
		}
		fmt.Println("configuration is valid")
		return 0

	case "print":
		fs := flag.NewFlagSet("print", flag.ContinueOnError)
		fs.SetOutput(os.Stderr)
		path := fs.String("path", "", "Config file path")
		defaults := fs.Bool("defaults", false, "Print built-in defaults instead of the loaded config")
		if err := fs.Parse(args[1:]); err != nil {
			if err == flag.ErrHelp {
				return 0
			}
			return 2
		}

		var cfg *config.Config
		if *defaults {
			cfg = config.DefaultConfig()
		} else {
			var err error
			cfg, err = loadConfig(*path)
			if err != nil {
				fmt.Fprintln(os.Stderr, err)
				return 1
			}
		}
		if err := cfg.Print(os.Stdout); err != nil {
			fmt.Fprintln(os.Stderr, err)
			return 1
		}
		return 0

	default:
		fmt.Fprintf(os.Stderr, "Unknown config command: %s\n", args[0])
		return 2
	}
}
