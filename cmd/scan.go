package cmd

import (
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"strings"
	"sync"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/FritscheLab/whiteRRabbit/internal/connectors"
	"github.com/FritscheLab/whiteRRabbit/internal/profiler"
	"github.com/FritscheLab/whiteRRabbit/internal/report"
)

var (
	scanDir        string
	scanFile       string
	scanFormats    []string
	scanRecursive  bool
	scanMinSize    int64
	scanMaxSize    int64
	rowsPerTable   int
	maxDistinct    int
	minCellCount   int
	excludeColumns []string
	shiftDates     bool
	noRandomSample bool
	scanSeed       int64
	scanDelimiter  string
	scanOut        string
	scanWorkers    int
)

var scanCmd = &cobra.Command{
	Use:   "scan",
	Short: "Profile delimited files and write a scan report",
	Long: `Scan one file or a directory of delimited files, infer each
column's type, and write per-column statistics and value
frequencies to an xlsx workbook or a set of TSV tables.

Examples:
  whiterabbit scan --dir ./data --out ScanReport.xlsx
  whiterabbit scan --dir ./data --file visits.csv --rows-per-table -1
  whiterabbit scan --dir ./data --shift-dates --seed 42 --out report.tsv`,
	Run: func(cmd *cobra.Command, args []string) {
		if scanDir == "" {
			log.Printf("You must specify a directory with --dir")
			return
		}

		opts := profiler.Options{
			RowBudget:         rowsPerTable,
			MaxDistinctValues: maxDistinct,
			MinCellCount:      minCellCount,
			ExcludedColumns:   excludeColumns,
			ShiftDates:        shiftDates,
			RandomSample:      !noRandomSample,
			Seed:              scanSeed,
		}
		if scanDelimiter != "" {
			opts.Delimiter = rune(scanDelimiter[0])
		}
		if err := opts.Validate(); err != nil {
			log.Fatalf("Invalid options: %v", err)
		}

		files, err := discoverScanFiles()
		if err != nil {
			log.Fatalf("Scan failed: %v", err)
		}

		bar := progressbar.NewOptions(len(files),
			progressbar.OptionSetWriter(os.Stderr),
			progressbar.OptionEnableColorCodes(true),
			progressbar.OptionSetDescription("[cyan][reset] Profiling files..."),
			progressbar.OptionShowCount(),
			progressbar.OptionOnCompletion(func() {
				fmt.Println()
			}),
		)

		reports := profileAll(files, opts, bar)
		bar.Finish()

		if len(reports) == 0 {
			log.Fatalf("No files could be profiled")
		}

		if err := writeReports(scanOut, reports); err != nil {
			log.Fatalf("Failed to write report: %v", err)
		}
		fmt.Printf("Scan report written to %s (%d files)\n", scanOut, len(reports))
	},
}

func init() {
	rootCmd.AddCommand(scanCmd)
	scanCmd.Flags().StringVarP(&scanDir, "dir", "d", "",
		"Directory to scan (required)")
	scanCmd.Flags().StringVarP(&scanFile, "file", "n", "",
		"Profile only this file inside --dir")
	scanCmd.Flags().StringSliceVarP(&scanFormats, "format", "f", []string{"csv", "tsv"},
		"File extensions to profile")
	scanCmd.Flags().BoolVarP(&scanRecursive, "recursive", "r", false,
		"Search directories recursively")
	scanCmd.Flags().Int64Var(&scanMinSize, "min-size", 0,
		"Minimum file size in bytes")
	scanCmd.Flags().Int64Var(&scanMaxSize, "max-size", 0,
		"Maximum file size in bytes")
	scanCmd.Flags().IntVar(&rowsPerTable, "rows-per-table", 100000,
		"Maximum data rows to examine per file (-1 for all rows)")
	scanCmd.Flags().IntVar(&maxDistinct, "max-distinct-values", 1000,
		"Maximum entries kept per value-frequency table")
	scanCmd.Flags().IntVar(&minCellCount, "min-cell-count", 5,
		"Hide values seen fewer times than this (1 shows everything)")
	scanCmd.Flags().StringSliceVar(&excludeColumns, "exclude-columns", nil,
		"Column names to leave out of summaries and frequencies")
	scanCmd.Flags().BoolVar(&shiftDates, "shift-dates", false,
		"Shift date values by a random offset of up to 5 days per cell")
	scanCmd.Flags().BoolVar(&noRandomSample, "no-random-sample", false,
		"Take the first rows instead of a uniform random subset")
	scanCmd.Flags().Int64Var(&scanSeed, "seed", 0,
		"Seed for sampling and date shifting (reproducible runs)")
	scanCmd.Flags().StringVar(&scanDelimiter, "delimiter", "",
		"Field delimiter (default: detected per file)")
	scanCmd.Flags().StringVarP(&scanOut, "out", "o", "ScanReport.xlsx",
		"Report path: .xlsx for a workbook, anything else for TSV tables")
	scanCmd.Flags().IntVar(&scanWorkers, "workers", 0,
		"Files profiled in parallel (default: CPU count)")

	scanCmd.MarkFlagRequired("dir")
}

func discoverScanFiles() ([]connectors.FileMeta, error) {
	if scanFile != "" {
		path := filepath.Join(scanDir, scanFile)
		info, err := os.Stat(path)
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("file not found: %s", path)
		}
		if err != nil {
			return nil, err
		}
		return []connectors.FileMeta{{Path: path, Size: info.Size(), Modified: info.ModTime()}}, nil
	}

	options := connectors.DiscoveryOptions{
		Recursive: scanRecursive,
		MinSize:   scanMinSize,
		MaxSize:   scanMaxSize,
		Verbose:   verbose,
	}
	return connectors.DiscoverFiles(scanDir, scanFormats, options)
}

// profileAll runs the per-file profiler across a bounded worker pool. Files
// are independent once read, so the only join is collecting the finished
// reports, which are re-ordered to match the input order.
func profileAll(files []connectors.FileMeta, opts profiler.Options, bar *progressbar.ProgressBar) []*profiler.FileReport {
	workers := scanWorkers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}

	var mu sync.Mutex
	indexed := make(map[string]int, len(files))
	for i, f := range files {
		indexed[f.Path] = i
	}
	reports := make([]*profiler.FileReport, 0, len(files))

	var g errgroup.Group
	g.SetLimit(workers)
	for _, file := range files {
		file := file
		g.Go(func() error {
			rep, err := profiler.ProfileFile(file.Path, opts)
			bar.Add(1)
			switch {
			case errors.Is(err, profiler.ErrEmptyFile):
				log.Printf("[WARN] %s has no data rows, keeping empty report", file.Path)
			case err != nil:
				// A single unreadable file never aborts the run.
				log.Printf("[WARN] skipping %s: %v", file.Path, err)
				return nil
			}
			mu.Lock()
			reports = append(reports, rep)
			mu.Unlock()
			return nil
		})
	}
	g.Wait()

	sort.Slice(reports, func(i, j int) bool {
		return indexed[reports[i].Path] < indexed[reports[j].Path]
	})
	return reports
}

func writeReports(out string, reports []*profiler.FileReport) error {
	if strings.EqualFold(filepath.Ext(out), ".xlsx") {
		return report.WriteWorkbook(out, reports)
	}
	// Non-xlsx targets get a directory of TSV tables named after the base.
	dir := strings.TrimSuffix(out, filepath.Ext(out))
	return report.WriteTSV(dir, reports)
}
