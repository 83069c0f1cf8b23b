// Package main is the entry point for the sidenote viewer.
package main

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/dshills/sidenote/internal/app"
	"github.com/dshills/sidenote/internal/config"
	"github.com/dshills/sidenote/internal/staticrender"
)

// Version information (set via ldflags during build).
var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

func main() {
	os.Exit(run())
}

func run() int {
	opts, render := parseFlags()

	if render {
		if err := renderStatic(opts); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return 1
		}
		return 0
	}

	application, err := app.New(opts)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: failed to initialize: %v\n", err)
		return 1
	}

	// Ensure cleanup on all exit paths
	defer application.Shutdown()

	signals := make(chan os.Signal, 1)
	signal.Notify(signals, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-signals
		application.Shutdown()
	}()

	if err := application.Run(); err != nil {
		if errors.Is(err, app.ErrQuit) {
			return 0
		}
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}

	return 0
}

// renderStatic post-processes a file into annotated HTML on stdout.
func renderStatic(opts app.Options) error {
	if opts.File == "" {
		return errors.New("-render requires a file argument")
	}
	data, err := os.ReadFile(opts.File)
	if err != nil {
		return err
	}
	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: %v\n", err)
	}

	root := &staticrender.Element{Tag: "div"}
	for _, line := range strings.Split(string(data), "\n") {
		root.Children = append(root.Children, &staticrender.Element{
			Tag:      "p",
			Children: []staticrender.Node{&staticrender.Text{Value: line}},
		})
	}
	staticrender.Process(root, nil)

	sheet := cfg.Sheet()
	fmt.Printf("<style>.%s{background:%s}.%s{filter:blur(%dpx)}</style>\n",
		"annotation-comment", sheet.Highlight.Background.Hex(),
		"annotation-mask", sheet.BlurRadius)
	fmt.Println(staticrender.HTML(root))
	return nil
}

func parseFlags() (app.Options, bool) {
	var opts app.Options
	var render bool
	var showVersion bool
	var showHelp bool

	flag.StringVar(&opts.ConfigPath, "config", "", "Path to configuration file")
	flag.StringVar(&opts.ConfigPath, "c", "", "Path to configuration file (shorthand)")
	flag.BoolVar(&opts.ReadOnly, "readonly", false, "Open the file in read-only mode")
	flag.BoolVar(&opts.ReadOnly, "R", false, "Open the file in read-only mode (shorthand)")
	flag.BoolVar(&render, "render", false, "Render the file to annotated HTML on stdout and exit")
	flag.BoolVar(&showVersion, "version", false, "Show version information")
	flag.BoolVar(&showVersion, "v", false, "Show version information (shorthand)")
	flag.BoolVar(&showHelp, "help", false, "Show help message")
	flag.BoolVar(&showHelp, "h", false, "Show help message (shorthand)")

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Sidenote - inline annotation viewer\n\n")
		fmt.Fprintf(os.Stderr, "Usage: sidenote [options] [file]\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nKeys:\n")
		fmt.Fprintf(os.Stderr, "  arrows      Move cursor\n")
		fmt.Fprintf(os.Stderr, "  v           Start/stop selecting\n")
		fmt.Fprintf(os.Stderr, "  m           Wrap selection in a mask\n")
		fmt.Fprintf(os.Stderr, "  c           Wrap selection in a comment\n")
		fmt.Fprintf(os.Stderr, "  e           Edit the hovered comment\n")
		fmt.Fprintf(os.Stderr, "  Tab         Toggle preview/source mode\n")
		fmt.Fprintf(os.Stderr, "  Ctrl+S      Save\n")
		fmt.Fprintf(os.Stderr, "  q           Quit\n")
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  sidenote notes.txt            View and annotate a file\n")
		fmt.Fprintf(os.Stderr, "  sidenote -render notes.txt    Emit annotated HTML\n")
	}

	flag.Parse()

	if showHelp {
		flag.Usage()
		os.Exit(0)
	}

	if showVersion {
		fmt.Printf("Sidenote %s\n", version)
		fmt.Printf("Commit: %s\n", commit)
		fmt.Printf("Built: %s\n", date)
		os.Exit(0)
	}

	if args := flag.Args(); len(args) > 0 {
		opts.File = args[0]
	}

	return opts, render
}
