package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"runtime"
	"sync"

	"github.com/spf13/cobra"
	"go.lsp.dev/uri"
	"gopkg.in/yaml.v3"

	"github.com/phobologic/sectionfold/internal/analyzer"
	"github.com/phobologic/sectionfold/internal/config"
	"github.com/phobologic/sectionfold/internal/discover"
	"github.com/phobologic/sectionfold/internal/model"
	"github.com/phobologic/sectionfold/internal/toon"
)

var errNoFiles = errors.New("no files found")

type scanOptions struct {
	format    string
	cachePath string
	skipTests bool
}

// target is a file to scan. display is the path shown in the report and
// matched against exclusion patterns.
type target struct {
	abs     string
	display string
}

func (a *app) scanCmd() *cobra.Command {
	var opts scanOptions
	cmd := &cobra.Command{
		Use:   "scan [path...]",
		Short: "Print sections, folds and outlines for files",
		Long: `Scan files and directories (default ".") and print a report of the
sections, folding ranges and outline of every matching file. Directories are
walked honoring .gitignore; files given directly are always scanned.`,
		Example: `  sectionfold scan
  sectionfold scan --format json src/
  sectionfold scan --indent-aware=false --exclude 'gen/' .`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runScan(cmd, args, opts)
		},
	}

	f := cmd.Flags()
	f.StringVarP(&opts.format, "format", "f", "toon", "output format: toon, json or yaml")
	f.StringVar(&opts.cachePath, "cache", "", "cache file path; reused while no input is newer")
	f.BoolVar(&opts.skipTests, "skip-tests", false, "skip test files when walking directories")
	f.Bool("indent-aware", true, "end sections at the first line indented less than the header")
	f.Int64("max-file-size", config.Default().Scan.MaxFileSize, "skip files larger than this many bytes (0 for no limit)")
	f.Bool("fallback", true, "outline files without structural symbols using tree-sitter")
	f.StringSlice("exclude", nil, "gitignore-style pattern to exclude (repeatable)")
	return cmd
}

func (a *app) runScan(cmd *cobra.Command, args []string, opts scanOptions) error {
	encode, err := encoder(opts.format)
	if err != nil {
		return err
	}
	logger := a.logger()
	cfg := a.loadConfig(cmd.Flags())

	if len(args) == 0 {
		args = []string{"."}
	}
	targets, root, err := collect(args, cfg, opts.skipTests)
	if err != nil {
		return err
	}
	if len(targets) == 0 {
		return errNoFiles
	}

	if opts.cachePath != "" && cacheIsFresh(opts.cachePath, targets) {
		data, err := os.ReadFile(opts.cachePath)
		if err == nil {
			_, err = a.stdout.Write(data)
			return err
		}
	}

	targets = filterBySize(targets, cfg.Scan.MaxFileSize, logger)
	if len(targets) == 0 {
		return fmt.Errorf("%w (all exceeded size limit)", errNoFiles)
	}

	if a.verbose {
		logger.Printf("scanning %d files", len(targets))
	}
	report := &model.Report{Root: root, Files: scanConcurrent(targets, cfg, logger)}
	if len(report.Files) == 0 {
		return fmt.Errorf("no files could be read")
	}

	out, err := encode(report)
	if err != nil {
		return fmt.Errorf("encoding report: %w", err)
	}
	if opts.cachePath != "" {
		_ = os.WriteFile(opts.cachePath, out, 0o644)
	}
	_, err = a.stdout.Write(out)
	return err
}

type encodeFunc func(*model.Report) ([]byte, error)

func encoder(format string) (encodeFunc, error) {
	switch format {
	case "toon":
		return func(r *model.Report) ([]byte, error) {
			return []byte(toon.Encode(r) + "\n"), nil
		}, nil
	case "json":
		return func(r *model.Report) ([]byte, error) {
			data, err := json.MarshalIndent(r, "", "  ")
			if err != nil {
				return nil, err
			}
			return append(data, '\n'), nil
		}, nil
	case "yaml":
		return func(r *model.Report) ([]byte, error) {
			return yaml.Marshal(r)
		}, nil
	}
	return nil, fmt.Errorf("unknown format %q (want toon, json or yaml)", format)
}

// collect expands args into scan targets. Directory arguments are walked;
// file arguments are taken as given. The report root is the base name of a
// lone directory argument, "." otherwise.
func collect(args []string, cfg config.Config, skipTests bool) ([]target, string, error) {
	single := len(args) == 1
	root := "."
	var targets []target

	for _, arg := range args {
		abs, err := filepath.Abs(arg)
		if err != nil {
			return nil, "", fmt.Errorf("resolving %s: %w", arg, err)
		}
		info, err := os.Stat(abs)
		if err != nil {
			return nil, "", fmt.Errorf("scan path: %w", err)
		}
		if !info.IsDir() {
			targets = append(targets, target{abs: abs, display: filepath.ToSlash(arg)})
			continue
		}

		if single {
			root = filepath.Base(abs)
		}
		files, err := discover.Files(abs, discover.Options{
			Extensions: cfg.Scan.Extensions,
			Exclude:    cfg.Exclude,
			SkipTests:  skipTests,
		})
		if err != nil {
			return nil, "", fmt.Errorf("discovering files: %w", err)
		}
		for _, f := range files {
			display := f.Path
			if !single {
				display = filepath.ToSlash(filepath.Join(arg, f.Path))
			}
			targets = append(targets, target{abs: filepath.Join(abs, f.Path), display: display})
		}
	}
	return targets, root, nil
}

func cacheIsFresh(cachePath string, targets []target) bool {
	cacheInfo, err := os.Stat(cachePath)
	if err != nil {
		return false
	}
	cacheMtime := cacheInfo.ModTime()

	for _, t := range targets {
		fi, err := os.Stat(t.abs)
		if err != nil {
			return false
		}
		if !fi.ModTime().Before(cacheMtime) {
			return false
		}
	}
	return true
}

func filterBySize(targets []target, maxSize int64, logger *log.Logger) []target {
	if maxSize <= 0 {
		return targets
	}
	var kept []target
	for _, t := range targets {
		fi, err := os.Stat(t.abs)
		if err != nil {
			kept = append(kept, t) // the read reports it
			continue
		}
		if fi.Size() > maxSize {
			logger.Printf("warning: %s: skipped (>%d bytes)", t.display, maxSize)
			continue
		}
		kept = append(kept, t)
	}
	return kept
}

// scanConcurrent reports on targets with one analyzer per worker, keeping
// the input order. Unreadable files are logged and left out.
func scanConcurrent(targets []target, cfg config.Config, logger *log.Logger) []model.FileReport {
	type result struct {
		index  int
		report model.FileReport
	}

	numWorkers := min(runtime.GOMAXPROCS(0), len(targets))
	work := make(chan int, len(targets))
	results := make(chan result, len(targets))

	var wg sync.WaitGroup
	for range numWorkers {
		wg.Add(1)
		go func() {
			defer wg.Done()

			// Analyzers hold tree-sitter parsers and are not shared.
			an := analyzer.New(cfg, logger)
			defer an.Shutdown()

			for idx := range work {
				t := targets[idx]
				source, err := os.ReadFile(t.abs)
				if err != nil {
					logger.Printf("warning: failed to read %s: %v", t.display, err)
					continue
				}
				doc := analyzer.Document{
					URI:  string(uri.File(t.abs)),
					Path: t.display,
					Text: string(source),
				}
				results <- result{index: idx, report: an.Report(doc)}
				an.Close(doc.URI)
			}
		}()
	}

	for i := range targets {
		work <- i
	}
	close(work)

	go func() {
		wg.Wait()
		close(results)
	}()

	indexed := make([]*model.FileReport, len(targets))
	for r := range results {
		indexed[r.index] = &r.report
	}

	var reports []model.FileReport
	for _, r := range indexed {
		if r != nil {
			reports = append(reports, *r)
		}
	}
	return reports
}
