package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"

	"github.com/andareed/markwrite/config"
	"github.com/andareed/markwrite/logging"
	"github.com/andareed/markwrite/pendata"
	"github.com/andareed/markwrite/report"
	"github.com/andareed/markwrite/session"
)

const usage = "Usage: markwrite [flags] <samples.csv|samples.tsv>"

type options struct {
	logFile     string
	showVersion bool
	configPath  string
	planPath    string
	savePlan    string
	reportPath  string
	samplesPath string
	sqlitePath  string
	tree        bool
	table       bool
	copy        bool
	noTrim      bool
	input       string
}

func parseOptions(args []string, errOut io.Writer) (options, error) {
	var o options
	fs := flag.NewFlagSet("markwrite", flag.ContinueOnError)
	fs.SetOutput(errOut)
	fs.Usage = func() {
		fmt.Fprintln(errOut, usage)
		fs.PrintDefaults()
	}

	fs.StringVar(&o.logFile, "debug", "", "Write Debug Logs to file")
	fs.BoolVar(&o.showVersion, "version", false, "print version and exit")
	fs.StringVar(&o.configPath, "config", "", "JSON settings file")
	fs.StringVar(&o.planPath, "plan", "", "JSON segmentation plan to apply")
	fs.StringVar(&o.savePlan, "save-plan", "", "write the resulting segmentation as a plan")
	fs.StringVar(&o.reportPath, "report", "", "write the segment report (TSV) to file")
	fs.StringVar(&o.samplesPath, "samples", "", "write the sample report (TSV) to file")
	fs.StringVar(&o.sqlitePath, "sqlite", "", "store the segment report in a SQLite database")
	fs.BoolVar(&o.tree, "tree", false, "print the segment tree")
	fs.BoolVar(&o.table, "table", false, "print the segment report as a table")
	fs.BoolVar(&o.copy, "copy", false, "copy the segment report to the clipboard")
	fs.BoolVar(&o.noTrim, "no-trim", false, "keep pen-up samples at segment ends")

	if err := fs.Parse(args); err != nil {
		return o, err
	}
	if fs.NArg() > 0 {
		o.input = fs.Arg(0)
	}
	return o, nil
}

// buildConfig layers defaults, the --config file and the flags.
func buildConfig(o options) (config.Config, error) {
	cfg := config.Defaults()
	if o.configPath != "" {
		over, err := config.LoadJSON(o.configPath, nil)
		if err != nil {
			return cfg, err
		}
		cfg = config.Merge(cfg, over)
	}

	flags := config.Config{
		Logging: config.Logging{File: o.logFile},
		Report: config.Report{
			Segments: o.reportPath,
			Samples:  o.samplesPath,
			SQLite:   o.sqlitePath,
		},
	}
	if o.noTrim {
		off := false
		flags.TrimZeroPressure = &off
	}
	cfg = config.Merge(cfg, flags)
	return cfg, config.Validate(cfg)
}

func main() {
	opts, err := parseOptions(os.Args[1:], os.Stderr)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			os.Exit(0)
		}
		os.Exit(2)
	}

	// --- EARLY EXIT ---
	if opts.showVersion {
		fmt.Println("Version:", Version)
		os.Exit(0)
	}

	cfg, err := buildConfig(opts)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	cleanup, err := logging.SetupLogging(cfg.Logging.File)
	if err != nil {
		log.Fatalf("Failed to setup logging %v", err)
	}

	log.Println("markwrite: Started")

	if opts.input == "" {
		fmt.Println(usage)
		cleanup()
		os.Exit(1)
	}

	if err := run(opts, cfg, os.Stdout, os.Stderr); err != nil {
		logging.Errorf("markwrite: %v", err)
		fmt.Fprintln(os.Stderr, errorStyle.Render("Error: "+err.Error()))
		cleanup()
		os.Exit(1)
	}
	cleanup()
}

// openProject loads the sample file and builds a project over it.
func openProject(path string, cfg config.Config) (*session.Project, error) {
	sf, err := loadSamples(path)
	if err != nil {
		return nil, err
	}
	opts := cfg.SeriesOptions()
	opts.SeriesRuns = sf.series
	s, err := pendata.New(sf.rows, opts)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return session.New(filepath.Base(path), s, cfg.Trim()), nil
}

func run(o options, cfg config.Config, stdout, stderr io.Writer) error {
	p, err := openProject(o.input, cfg)
	if err != nil {
		return err
	}

	if o.planPath != "" {
		plan, err := LoadPlan(o.planPath)
		if err != nil {
			return err
		}
		if err := ApplyPlan(p, plan); err != nil {
			// partial plans still produce reports for what was created
			logging.Warnf("markwrite: plan %s: %v", o.planPath, err)
			fmt.Fprintln(stderr, errorStyle.Render("Warning: "+err.Error()))
		}
	}
	if o.savePlan != "" {
		if err := SavePlan(p, o.savePlan); err != nil {
			return fmt.Errorf("save plan: %w", err)
		}
	}

	wrote := false
	if o.tree {
		fmt.Fprintln(stdout, renderTree(p))
		wrote = true
	}
	if o.table {
		fmt.Fprintln(stdout, report.RenderTable(report.SegmentColumns, report.SegmentRows(p)))
		wrote = true
	}
	if path := cfg.Report.Segments; path != "" {
		if err := report.ExportTSV(path, report.SegmentColumns, report.SegmentRows(p), newProgress("segments")); err != nil {
			return err
		}
		wrote = true
	}
	if path := cfg.Report.Samples; path != "" {
		if err := report.ExportTSV(path, report.SampleColumns, report.SampleRows(p), newProgress("samples")); err != nil {
			return err
		}
		wrote = true
	}
	if path := cfg.Report.SQLite; path != "" {
		if err := exportSQLite(p, path, stdout); err != nil {
			return err
		}
		wrote = true
	}
	if o.copy {
		if err := report.Copy(report.SegmentColumns, report.SegmentRows(p)); err != nil {
			return err
		}
		wrote = true
	}
	if !wrote {
		fmt.Fprintln(stdout, renderTree(p))
	}
	return nil
}

func exportSQLite(p *session.Project, path string, stdout io.Writer) error {
	sink, err := report.OpenSQLite(path)
	if err != nil {
		return err
	}
	defer sink.Close()

	runID, err := sink.WriteSegments(p.Name, p.ID, report.SegmentRecords(p), newProgress("sqlite"))
	if err != nil {
		return err
	}
	fmt.Fprintf(stdout, "sqlite: %s run %s\n", path, runID)
	return nil
}
