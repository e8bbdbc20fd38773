package main

import (
	"flag"
	"fmt"
	"os"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/term"

	spiceruntime "github.com/spicelab/spice-runtime"
	"github.com/spicelab/spice-runtime/runtime"
	"github.com/spicelab/spice-runtime/store"
	"github.com/spicelab/spice-runtime/vector"
)

func main() {
	var (
		libPath     = flag.String("lib", "", "Path to the shared engine library (default: probe)")
		circuit     = flag.String("circuit", "", "Netlist file to load")
		cmdStr      = flag.String("cmd", "", "Engine commands to run (semicolon-separated)")
		silent      = flag.Bool("silent", false, "Discard engine console output")
		list        = flag.Bool("list", false, "List plots and vectors and exit")
		plotName    = flag.String("plot", "", "Plot to print (default: current)")
		saveName    = flag.String("save", "", "Archive the result table under this name")
		archivePath = flag.String("archive", "", "Archive database path")
		interactive = flag.Bool("i", false, "Interactive mode with TUI")
		noProgress  = flag.Bool("no-progress", false, "Disable the progress display")
		debug       = flag.Bool("debug", false, "Verbose runtime logging")
	)
	flag.Parse()

	cfg, err := LoadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	if *libPath == "" {
		*libPath = cfg.Engine.Library
	}
	if *archivePath == "" {
		*archivePath = cfg.Archive.Path
	}
	if !cfg.UI.Progress {
		*noProgress = true
	}

	if !*interactive && *circuit == "" && *cmdStr == "" {
		fmt.Fprintln(os.Stderr, "Usage: spicerun -circuit <file.cir> [-cmd \"...\"] [-plot name] [-save name]")
		fmt.Fprintln(os.Stderr, "       spicerun -cmd \"<command>[; <command>...]\"")
		fmt.Fprintln(os.Stderr, "       spicerun -i  (interactive mode)")
		os.Exit(1)
	}

	logger := zap.NewNop()
	if *debug || cfg.Debug {
		logger, _ = zap.NewDevelopment()
	}

	if *interactive {
		if err := runInteractive(*libPath, *circuit, logger); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		return
	}

	if err := run(*libPath, *circuit, *cmdStr, *plotName, *saveName, *archivePath, logger, *silent, *list, *noProgress); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(libPath, circuitFile, cmdStr, plotName, saveName, archivePath string, logger *zap.Logger, silent, listOnly, noProgress bool) error {
	opts := []runtime.Option{runtime.WithLogger(logger)}
	if libPath != "" {
		opts = append(opts, runtime.WithLibraryPath(libPath))
	}
	if silent {
		opts = append(opts, runtime.WithMessageSink(nil))
	} else {
		opts = append(opts, runtime.WithMessageSink(spiceruntime.WriterSink{W: os.Stdout}))
	}
	if !silent && !noProgress && term.IsTerminal(int(os.Stdout.Fd())) {
		opts = append(opts, runtime.WithProgress(&runtime.WriterRenderer{W: os.Stdout}))
	}

	rt, err := runtime.Open(opts...)
	if err != nil {
		return fmt.Errorf("open engine: %w", err)
	}
	defer rt.Close()

	if circuitFile != "" {
		if err := rt.Source(circuitFile); err != nil {
			return fmt.Errorf("load circuit: %w", err)
		}
	}

	if cmdStr != "" {
		for _, cmd := range strings.Split(cmdStr, ";") {
			cmd = strings.TrimSpace(cmd)
			if cmd == "" {
				continue
			}
			if err := rt.Command(cmd); err != nil {
				return fmt.Errorf("command %q: %w", cmd, err)
			}
		}
	} else if circuitFile != "" {
		if err := rt.Run(); err != nil {
			return fmt.Errorf("run: %w", err)
		}
	}

	if listOnly {
		return printPlots(rt)
	}

	table, err := rt.Table(plotName)
	if err != nil {
		return fmt.Errorf("fetch results: %w", err)
	}
	if table.Len() == 0 {
		fmt.Println("No result vectors.")
		return nil
	}
	printTable(table)

	if saveName != "" {
		plot := plotName
		if plot == "" {
			if plot, err = rt.CurrentPlot(); err != nil {
				return fmt.Errorf("resolve plot: %w", err)
			}
		}
		arch, err := store.Open(archivePath)
		if err != nil {
			return fmt.Errorf("open archive: %w", err)
		}
		defer arch.Close()
		if err := arch.SaveRun(saveName, store.RecordFromTable(plot, table)); err != nil {
			return fmt.Errorf("archive run: %w", err)
		}
		fmt.Printf("\nArchived as %q in %s\n", saveName, archivePath)
	}
	return nil
}

func printPlots(rt *runtime.Runtime) error {
	plots, err := rt.Plots()
	if err != nil {
		return err
	}
	current, err := rt.CurrentPlot()
	if err != nil {
		return err
	}
	if len(plots) == 0 {
		fmt.Println("No plots.")
		return nil
	}
	for _, plot := range plots {
		marker := "  "
		if plot == current {
			marker = "* "
		}
		fmt.Printf("%s%s\n", marker, plot)
		vectors, err := rt.Vectors(plot)
		if err != nil {
			return err
		}
		for _, name := range vectors {
			fmt.Printf("    %s\n", name)
		}
	}
	return nil
}

func printTable(t *vector.Table) {
	names := t.Columns()
	for _, name := range names {
		fmt.Printf("%-18s", name)
	}
	fmt.Println()
	for row := 0; row < t.NumRows(); row++ {
		for _, name := range names {
			data, _ := t.Column(name)
			if row < len(data) {
				fmt.Printf("%-18.6g", data[row])
			} else {
				fmt.Printf("%-18s", "")
			}
		}
		fmt.Println()
	}
}
