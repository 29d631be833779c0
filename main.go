// noelse reports, and optionally removes, `else` blocks that follow a branch
// ending in return, throw, break or continue in JavaScript and TypeScript.
package main

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"strings"
	"sync"

	"github.com/hashicorp/go-multierror"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"golang.org/x/sync/errgroup"
	"golang.org/x/term"

	"github.com/phobologic/noelse/internal/config"
	"github.com/phobologic/noelse/internal/discover"
	"github.com/phobologic/noelse/internal/lang"
	"github.com/phobologic/noelse/internal/lint"
	"github.com/phobologic/noelse/internal/model"
	"github.com/phobologic/noelse/internal/patch"
	"github.com/phobologic/noelse/internal/render"
	"github.com/phobologic/noelse/internal/rule"
	"github.com/phobologic/noelse/internal/toon"
)

var version = "dev"

const defaultMaxFileSize = 1_000_000 // 1 MB

// errProblems is returned by a run that completed but left diagnostics.
var errProblems = errors.New("problems found")

func main() {
	err := run(os.Args[1:], os.Stdout, os.Stderr)
	if err != nil && !errors.Is(err, errProblems) {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
	}
	os.Exit(exitCode(err))
}

// exitCode maps a run error to the process status: 0 clean, 1 when
// problems remain, 2 when the run itself failed.
func exitCode(err error) int {
	switch {
	case err == nil:
		return 0
	case errors.Is(err, errProblems):
		return 1
	default:
		return 2
	}
}

type options struct {
	langs         string
	configPath    string
	maxFileSize   int
	fix           bool
	diff          bool
	format        string
	color         string
	preserveScope bool
	cachePath     string
	jobs          int
	debug         bool
	showVersion   bool
}

func run(args []string, stdout, stderr io.Writer) error {
	cmd := newRootCmd(stdout, stderr)
	cmd.SetArgs(args)
	return cmd.Execute()
}

func newRootCmd(stdout, stderr io.Writer) *cobra.Command {
	var opts options

	cmd := &cobra.Command{
		Use:   "noelse [flags] [path]",
		Short: "Report else blocks made redundant by return, throw, break or continue",
		Long: `noelse finds if/else chains in JavaScript and TypeScript where every branch
before the final else always exits, so the else wrapper can be dropped.
With --fix the wrapper is removed in place whenever that cannot change what
the code does under automatic semicolon insertion.

path is a directory (default ".") or a single file.`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return lintCmd(cmd, args, &opts, stdout, stderr)
		},
	}
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)

	flags := cmd.Flags()
	flags.StringVarP(&opts.langs, "langs", "l", "", "comma-separated languages to lint ("+strings.Join(lang.Names(), ", ")+")")
	flags.StringVar(&opts.configPath, "config", "", "config file (default <root>/"+config.FileName+")")
	flags.IntVar(&opts.maxFileSize, "max-file-size", defaultMaxFileSize, "skip files larger than this many bytes")
	flags.BoolVar(&opts.fix, "fix", false, "rewrite files in place")
	flags.BoolVar(&opts.diff, "diff", false, "print the fixes as a unified diff")
	flags.StringVarP(&opts.format, "format", "f", "text", "output format: text or toon")
	flags.StringVar(&opts.color, "color", "auto", "colorize text output: auto, always or never")
	flags.BoolVar(&opts.preserveScope, "preserve-scope", false, "do not fix when hoisting else-block declarations could clash with other names")
	flags.StringVar(&opts.cachePath, "cache", "", "cache file path")
	flags.IntVarP(&opts.jobs, "jobs", "j", 0, "files linted in parallel (default GOMAXPROCS)")
	flags.BoolVar(&opts.debug, "debug", false, "print debugging information")
	flags.BoolVarP(&opts.showVersion, "version", "V", false, "show version and exit")

	cmd.AddCommand(newInitCmd(stdout, stderr, flags))
	return cmd
}

func newLogger(w io.Writer, debug bool) *logrus.Logger {
	log := logrus.New()
	log.SetOutput(w)
	log.SetFormatter(&logrus.TextFormatter{DisableTimestamp: true})
	log.SetLevel(logrus.WarnLevel)
	if debug {
		log.SetLevel(logrus.DebugLevel)
	}
	return log
}

func lintCmd(cmd *cobra.Command, args []string, opts *options, stdout, stderr io.Writer) error {
	if opts.showVersion {
		_, _ = fmt.Fprintf(stdout, "noelse %s\n", version)
		return nil
	}

	log := newLogger(stderr, opts.debug)

	if opts.format != "text" && opts.format != "toon" {
		return fmt.Errorf("unknown format %q (want text or toon)", opts.format)
	}
	colored, err := useColor(opts.color, stdout)
	if err != nil {
		return err
	}

	target := "."
	if len(args) > 0 {
		target = args[0]
	}
	target, err = filepath.Abs(target)
	if err != nil {
		return fmt.Errorf("resolving root: %w", err)
	}
	info, err := os.Stat(target)
	if err != nil {
		return fmt.Errorf("root path: %w", err)
	}

	root := target
	if !info.IsDir() {
		root = filepath.Dir(target)
	}

	cfg, err := loadConfig(opts.configPath, root)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	if err := mergeFlags(cmd.Flags(), opts, cfg); err != nil {
		return err
	}

	var files []discover.FileEntry
	if info.IsDir() {
		files, err = discover.Files(root, discover.Options{Languages: cfg.Languages, Ignore: cfg.Ignore})
		if err != nil {
			return fmt.Errorf("discovering files: %w", err)
		}
	} else {
		name := filepath.Base(target)
		langName := discover.Language(name)
		if langName == "" {
			return fmt.Errorf("%s: not a JavaScript or TypeScript file", target)
		}
		files = []discover.FileEntry{{Path: name, Language: langName}}
	}
	if len(files) == 0 {
		return fmt.Errorf("no lintable files found")
	}
	log.WithField("root", root).Debugf("discovered %d files", len(files))

	// The cache only stands in for a read-only run.
	readOnly := !opts.fix && !opts.diff
	key := cacheKey(target, opts.format, colored, cfg)
	configFile := opts.configPath
	if configFile == "" {
		configFile = filepath.Join(root, config.FileName)
	}
	if readOnly && opts.cachePath != "" && cacheIsFresh(opts.cachePath, root, files, configFile) {
		if problems, ok := replayCache(opts.cachePath, key, stdout); ok {
			log.WithField("cache", opts.cachePath).Debug("output served from cache")
			if problems > 0 {
				return errProblems
			}
			return nil
		}
	}

	files = filterBySize(root, files, cfg.MaxFileSize, log)
	if len(files) == 0 {
		return fmt.Errorf("no lintable files found (all exceeded size limit)")
	}

	mode := checkOnly
	switch {
	case opts.fix:
		mode = fixInPlace
	case opts.diff:
		mode = previewFixes
	}
	results := lintFilesConcurrent(root, files, mode, rule.Options{PreserveScope: cfg.PreserveScope}, opts.jobs, log)

	if opts.diff {
		for i := range results {
			if results[i].Changed() {
				_, _ = fmt.Fprint(stdout, patch.Diff(results[i].Path, results[i].Original, results[i].Fixed))
			}
		}
	}

	if opts.fix {
		if err := writeFixes(root, results, opts.jobs, log); err != nil {
			return err
		}
	}

	rep := &model.Report{Root: filepath.Base(root), Files: results}
	var out bytes.Buffer
	switch opts.format {
	case "toon":
		out.WriteString(toon.Encode(rep))
		out.WriteByte('\n')
	default:
		if err := render.NewPrinter(colored).Report(&out, rep); err != nil {
			return fmt.Errorf("rendering report: %w", err)
		}
	}

	problems, _ := rep.Counts()
	if readOnly && opts.cachePath != "" {
		header := fmt.Sprintf("%s problems=%d\n", key, problems)
		if err := os.WriteFile(opts.cachePath, append([]byte(header), out.Bytes()...), 0o644); err != nil {
			log.WithField("cache", opts.cachePath).Warnf("writing cache: %v", err)
		}
	}

	_, _ = stdout.Write(out.Bytes())
	if problems > 0 {
		return errProblems
	}
	return nil
}

func loadConfig(path, root string) (*config.Config, error) {
	if path != "" {
		return config.Load(path)
	}
	return config.Find(root)
}

// mergeFlags lays explicitly set flags over cfg and fills in defaults.
func mergeFlags(flags *pflag.FlagSet, opts *options, cfg *config.Config) error {
	if flags.Changed("langs") {
		cfg.Languages = nil
		for _, name := range strings.Split(opts.langs, ",") {
			name = strings.TrimSpace(name)
			if _, ok := lang.Languages[name]; !ok {
				return fmt.Errorf("unsupported language %q", name)
			}
			cfg.Languages = append(cfg.Languages, name)
		}
	}
	if flags.Changed("max-file-size") || cfg.MaxFileSize == 0 {
		cfg.MaxFileSize = opts.maxFileSize
	}
	if flags.Changed("preserve-scope") {
		cfg.PreserveScope = opts.preserveScope
	}
	return nil
}

func useColor(mode string, stdout io.Writer) (bool, error) {
	switch mode {
	case "always":
		return true, nil
	case "never":
		return false, nil
	case "auto":
		if _, ok := os.LookupEnv("NO_COLOR"); ok {
			return false, nil
		}
		f, ok := stdout.(*os.File)
		return ok && term.IsTerminal(int(f.Fd())), nil
	}
	return false, fmt.Errorf("unknown color mode %q (want auto, always or never)", mode)
}

// cacheKey identifies everything besides file contents that shapes the
// report. It must stay on one line.
func cacheKey(target, format string, colored bool, cfg *config.Config) string {
	langs := append([]string(nil), cfg.Languages...)
	sort.Strings(langs)
	return fmt.Sprintf("# noelse %s target=%q format=%s color=%t preserve-scope=%t langs=%q ignore=%q max-file-size=%d",
		version, target, format, colored, cfg.PreserveScope, langs, cfg.Ignore, cfg.MaxFileSize)
}

// cacheIsFresh reports whether the cache is newer than every file and
// the config file, when there is one.
func cacheIsFresh(cachePath, root string, files []discover.FileEntry, configFile string) bool {
	cacheInfo, err := os.Stat(cachePath)
	if err != nil {
		return false
	}
	cacheMtime := cacheInfo.ModTime()

	if fi, err := os.Stat(configFile); err == nil && !fi.ModTime().Before(cacheMtime) {
		return false
	}

	for _, f := range files {
		fi, err := os.Stat(filepath.Join(root, f.Path))
		if err != nil {
			return false
		}
		if !fi.ModTime().Before(cacheMtime) {
			return false
		}
	}
	return true
}

// replayCache copies a cached report to stdout when it was produced with
// the same key, and returns the number of problems it recorded.
func replayCache(cachePath, key string, stdout io.Writer) (int, bool) {
	data, err := os.ReadFile(cachePath)
	if err != nil {
		return 0, false
	}
	header, body, ok := bytes.Cut(data, []byte("\n"))
	if !ok || !strings.HasPrefix(string(header), key+" ") {
		return 0, false
	}
	var problems int
	if _, err := fmt.Sscanf(strings.TrimPrefix(string(header), key+" "), "problems=%d", &problems); err != nil {
		return 0, false
	}
	_, _ = stdout.Write(body)
	return problems, true
}

func filterBySize(root string, files []discover.FileEntry, maxSize int, log *logrus.Logger) []discover.FileEntry {
	var kept []discover.FileEntry
	for _, f := range files {
		fi, err := os.Stat(filepath.Join(root, f.Path))
		if err != nil {
			kept = append(kept, f) // keep if can't stat
			continue
		}
		if fi.Size() > int64(maxSize) {
			log.WithField("file", f.Path).Warnf("skipped (>%d bytes)", maxSize)
			continue
		}
		kept = append(kept, f)
	}
	return kept
}

type lintMode int

const (
	checkOnly lintMode = iota
	previewFixes
	fixInPlace
)

func lintFilesConcurrent(root string, files []discover.FileEntry, mode lintMode, ruleOpts rule.Options, jobs int, log *logrus.Logger) []model.FileResult {
	type result struct {
		index int
		res   model.FileResult
	}

	numWorkers := jobs
	if numWorkers <= 0 {
		numWorkers = runtime.GOMAXPROCS(0)
	}
	if numWorkers > len(files) {
		numWorkers = len(files)
	}

	work := make(chan int, len(files))
	results := make(chan result, len(files))

	var wg sync.WaitGroup

	for range numWorkers {
		wg.Add(1)
		go func() {
			defer wg.Done()

			// Each goroutine gets its own parsers
			linters := make(map[string]*lint.Linter)

			for idx := range work {
				f := files[idx]
				flog := log.WithField("file", f.Path)

				l, ok := linters[f.Language]
				if !ok {
					var err error
					l, err = lint.New(lang.Languages[f.Language], ruleOpts)
					if err != nil {
						flog.Warnf("failed to set up linter: %v", err)
						continue
					}
					linters[f.Language] = l
				}

				source, err := os.ReadFile(filepath.Join(root, f.Path))
				if err != nil {
					flog.Warnf("failed to read: %v", err)
					continue
				}

				res, err := lintFile(l, f.Path, source, mode)
				if err != nil {
					flog.Warnf("not linted: %v", err)
					continue
				}
				if res.Passes > 0 {
					flog.Debugf("fixed in %d passes", res.Passes)
				}
				results <- result{index: idx, res: res}
			}
		}()
	}

	for i := range files {
		work <- i
	}
	close(work)

	go func() {
		wg.Wait()
		close(results)
	}()

	// Collect results in original order
	indexed := make([]model.FileResult, len(files))
	valid := make([]bool, len(files))
	for r := range results {
		indexed[r.index] = r.res
		valid[r.index] = true
	}

	var out []model.FileResult
	for i, v := range valid {
		if v {
			out = append(out, indexed[i])
		}
	}
	return out
}

func lintFile(l *lint.Linter, path string, source []byte, mode lintMode) (model.FileResult, error) {
	if mode == checkOnly {
		diags, err := l.Check(path, source)
		if err != nil {
			return model.FileResult{}, err
		}
		return model.FileResult{Path: path, Language: l.Language(), Original: source, Diagnostics: diags}, nil
	}

	res, err := l.Fix(path, source)
	if err != nil {
		return res, err
	}
	if mode == previewFixes {
		// Nothing is written, so the original problems still stand.
		diags, err := l.Check(path, source)
		if err != nil {
			return res, err
		}
		res.Diagnostics = diags
	}
	return res, nil
}

// writeFixes writes every changed file back. Failures are collected so
// one unwritable file does not stop the others.
func writeFixes(root string, results []model.FileResult, jobs int, log *logrus.Logger) error {
	if jobs <= 0 {
		jobs = runtime.GOMAXPROCS(0)
	}

	var (
		mu   sync.Mutex
		errs *multierror.Error
		g    errgroup.Group
	)
	g.SetLimit(jobs)

	for i := range results {
		res := &results[i]
		if !res.Changed() {
			continue
		}
		g.Go(func() error {
			path := filepath.Join(root, res.Path)
			// The file exists, so its permissions are kept.
			if err := os.WriteFile(path, res.Fixed, 0o644); err != nil {
				mu.Lock()
				errs = multierror.Append(errs, fmt.Errorf("writing %s: %w", res.Path, err))
				mu.Unlock()
				return nil
			}
			log.WithField("file", res.Path).Debug("fixed")
			return nil
		})
	}
	_ = g.Wait()
	return errs.ErrorOrNil()
}
