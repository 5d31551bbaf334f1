// Command glossify replaces a sampled subset of dictionary-recognized
// words in HTML or Markdown documents with short English glosses.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"math/rand"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/ZaguanLabs/glossify"
	"github.com/ZaguanLabs/glossify/debug"
	"github.com/ZaguanLabs/glossify/dict"
	"github.com/ZaguanLabs/glossify/processor"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/ilyakaznacheev/cleanenv"
)

// fileConfig is the cleanenv-loaded configuration (yaml file and/or env).
// Explicit flags override it.
type fileConfig struct {
	Enabled         bool     `yaml:"enabled" env:"GLOSSIFY_ENABLED" env-default:"true"`
	Ratio           float64  `yaml:"ratio" env:"GLOSSIFY_RATIO" env-default:"0.1"`
	OnlyNouns       bool     `yaml:"onlyNouns" env:"GLOSSIFY_ONLY_NOUNS"`
	URLBlacklist    []string `yaml:"urlBlacklist" env:"GLOSSIFY_URL_BLACKLIST"`
	MinRunLength    int      `yaml:"minRunLength" env:"GLOSSIFY_MIN_RUN_LENGTH" env-default:"4"`
	MinForeignRatio float64  `yaml:"minForeignRatio" env:"GLOSSIFY_MIN_FOREIGN_RATIO" env-default:"0.5"`
	DictDir         string   `yaml:"dictDir" env:"GLOSSIFY_DICT_DIR"`
	DictURL         string   `yaml:"dictURL" env:"GLOSSIFY_DICT_URL"`
	RedisURL        string   `yaml:"redisURL" env:"GLOSSIFY_REDIS_URL"`
}

func main() {
	if err := run(os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string, stdout, stderr io.Writer) error {
	fs := flag.NewFlagSet("glossify", flag.ContinueOnError)
	fs.SetOutput(stderr)

	// Flags
	configPath := fs.String("config", "", "YAML config file (env vars also apply)")
	dictDir := fs.String("dict", "", "Dictionary artifact directory")
	dictURL := fs.String("dict-url", "", "Dictionary artifact base URL")
	redisURL := fs.String("redis", "", "Redis URL holding dictionary artifacts")
	ratio := fs.Float64("ratio", 0.1, "Fraction of eligible tokens to replace, in [0,1]")
	onlyNouns := fs.Bool("only-nouns", false, "Replace only noun-like glosses")
	minRun := fs.Int("min-run", 4, "Minimum run length to process")
	minCJK := fs.Float64("min-cjk", 0.5, "Minimum CJK share of a run, in [0,1]")
	pageURL := fs.String("url", "", "Page address checked against the blacklist")
	markdown := fs.Bool("markdown", false, "Treat input as Markdown")
	output := fs.String("output", "", "Output file (default: stdout)")
	outputShort := fs.String("o", "", "Output file (short for --output)")
	seed := fs.Int64("seed", 0, "Sampling seed (0 = time-based)")
	jsonOutput := fs.Bool("json", false, "Output result as JSON")
	revertMode := fs.Bool("revert", false, "Revert previously glossed content")
	dryRun := fs.Bool("dry-run", false, "Show segmentation without transforming")
	diffFile := fs.String("diff", "", "Compare with a previous version and show changed runs")
	serveAddr := fs.String("serve", "", "Serve the document with a debug surface at this address")
	showVersion := fs.Bool("version", false, "Show version")
	quiet := fs.Bool("quiet", false, "Suppress progress output")

	if err := fs.Parse(args); err != nil {
		return err
	}

	if *showVersion {
		fmt.Fprintf(stdout, "%s %s\n", glossify.Name, glossify.FullVersion())
		if glossify.BuildDate != "unknown" && glossify.BuildDate != "" {
			fmt.Fprintf(stdout, "  built:   %s\n", glossify.BuildDate)
		}
		return nil
	}

	// Handle -o alias for --output
	if *outputShort != "" && *output == "" {
		*output = *outputShort
	}

	// Load file/env config, then let explicitly set flags override it.
	cfg := fileConfig{}
	var err error
	if *configPath != "" {
		err = cleanenv.ReadConfig(*configPath, &cfg)
	} else {
		err = cleanenv.ReadEnv(&cfg)
	}
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	explicit := map[string]bool{}
	fs.Visit(func(f *flag.Flag) { explicit[f.Name] = true })
	if explicit["ratio"] {
		cfg.Ratio = *ratio
	}
	if explicit["only-nouns"] {
		cfg.OnlyNouns = *onlyNouns
	}
	if explicit["min-run"] {
		cfg.MinRunLength = *minRun
	}
	if explicit["min-cjk"] {
		cfg.MinForeignRatio = *minCJK
	}
	if explicit["dict"] {
		cfg.DictDir = *dictDir
	}
	if explicit["dict-url"] {
		cfg.DictURL = *dictURL
	}
	if explicit["redis"] {
		cfg.RedisURL = *redisURL
	}

	// Get input
	var input string
	var inputName string

	if fs.NArg() == 0 {
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			return fmt.Errorf("reading stdin: %w", err)
		}
		input = string(data)
		inputName = "stdin"
	} else {
		inputPath := fs.Arg(0)
		data, err := os.ReadFile(inputPath) // #nosec G304 - CLI tool reads user-specified files
		if err != nil {
			return fmt.Errorf("reading file: %w", err)
		}
		input = string(data)
		inputName = filepath.Base(inputPath)
	}

	htmlProc := processor.NewHTMLProcessor()

	// Revert needs no dictionary.
	if *revertMode {
		restored, err := htmlProc.Revert(input)
		if err != nil {
			return err
		}
		return writeOutput(stdout, *output, restored)
	}

	// Diff needs no dictionary either.
	if *diffFile != "" {
		return runDiff(htmlProc, input, *diffFile, inputName, stdout, *jsonOutput)
	}

	fetcher, closeFetcher, err := buildFetcher(cfg)
	if err != nil {
		return err
	}
	if closeFetcher != nil {
		defer closeFetcher()
	}

	store := dict.NewStore(fetcher)
	opts := []glossify.Option{
		glossify.WithConfig(glossify.Config{
			Enabled:         cfg.Enabled,
			Ratio:           cfg.Ratio,
			OnlyNouns:       cfg.OnlyNouns,
			URLBlacklist:    cfg.URLBlacklist,
			MinRunLength:    cfg.MinRunLength,
			MinForeignRatio: cfg.MinForeignRatio,
		}),
	}
	if *seed != 0 {
		opts = append(opts, glossify.WithRandSource(rand.NewSource(*seed)))
	}
	engine := glossify.NewEngine(store, opts...)

	if *dryRun {
		return runDryRun(htmlProc, engine, input, inputName, stdout)
	}

	if *serveAddr != "" {
		return runServe(htmlProc, engine, input, *pageURL, *serveAddr, stderr)
	}

	var proc processor.ContentProcessor = htmlProc
	if *markdown {
		proc = processor.NewMarkdownProcessor()
	}

	if engine.URLBlocked(*pageURL) {
		if !*quiet {
			fmt.Fprintf(stderr, "address %q is blacklisted; passing input through\n", *pageURL)
		}
		return writeOutput(stdout, *output, input)
	}

	if !*quiet {
		fmt.Fprintf(stderr, "Glossing %s...\n", inputName)
	}

	start := time.Now()
	result, err := proc.Gloss(context.Background(), input, engine)
	if err != nil {
		return fmt.Errorf("glossing failed: %w", err)
	}
	elapsed := time.Since(start)

	if *jsonOutput {
		var out io.Writer = stdout
		if *output != "" {
			f, err := os.Create(*output)
			if err != nil {
				return fmt.Errorf("creating output file: %w", err)
			}
			defer f.Close()
			out = f
		}
		return outputJSON(out, result, elapsed)
	}

	if err := writeOutput(stdout, *output, result.Content); err != nil {
		return err
	}

	if !*quiet {
		fmt.Fprintf(stderr, "\nDone in %v\n", elapsed.Round(time.Millisecond))
		fmt.Fprintf(stderr, "  Runs processed: %d\n", result.RunsProcessed)
		fmt.Fprintf(stderr, "  Runs skipped:   %d\n", result.RunsSkipped)
		fmt.Fprintf(stderr, "  Units emitted:  %d\n", result.UnitsEmitted)
	}
	return nil
}

func buildFetcher(cfg fileConfig) (dict.Fetcher, func() error, error) {
	switch {
	case cfg.RedisURL != "":
		f, err := dict.NewRedisFetcher(dict.RedisConfig{URL: cfg.RedisURL})
		if err != nil {
			return nil, nil, fmt.Errorf("connecting to redis: %w", err)
		}
		return f, f.Close, nil
	case cfg.DictURL != "":
		return &dict.HTTPFetcher{BaseURL: cfg.DictURL, UserAgent: glossify.UserAgent()}, nil, nil
	case cfg.DictDir != "":
		return &dict.FileFetcher{Dir: cfg.DictDir}, nil, nil
	default:
		return nil, nil, fmt.Errorf("a dictionary source is required (--dict, --dict-url, or --redis)")
	}
}

func writeOutput(stdout io.Writer, path, content string) error {
	if path == "" {
		fmt.Fprint(stdout, content)
		return nil
	}
	return os.WriteFile(path, []byte(content), 0o644)
}

// runDryRun prints per-run segmentation without transforming anything.
func runDryRun(proc *processor.HTMLProcessor, engine *glossify.Engine, input, inputName string, stdout io.Writer) error {
	runs, err := proc.ExtractRuns(input)
	if err != nil {
		return err
	}

	fmt.Fprintf(stdout, "Dry run: %s\n", inputName)
	fmt.Fprintf(stdout, "Found %d text runs:\n\n", len(runs))

	ctx := context.Background()
	for i, run := range runs {
		text := run.Text
		if len(text) > 60 {
			text = text[:57] + "..."
		}
		if !engine.RunEligible(run.Text) {
			fmt.Fprintf(stdout, "%3d. %q (skipped by pre-filters)\n", i+1, text)
			continue
		}
		engine.Store().EnsureLoadedFor(ctx, run.Text)
		var tokens []string
		for _, seg := range engine.SegmentText(run.Text) {
			if seg.Kind == glossify.SegmentToken {
				tokens = append(tokens, fmt.Sprintf("%s=%s", seg.Text, seg.Entry.ShortestSense()))
			}
		}
		fmt.Fprintf(stdout, "%3d. %q\n", i+1, text)
		if len(tokens) > 0 {
			fmt.Fprintf(stdout, "     Tokens: %s\n", strings.Join(tokens, ", "))
		}
	}
	return nil
}

// runDiff compares the glossable runs of two document versions.
func runDiff(proc *processor.HTMLProcessor, newContent, oldPath, inputName string, stdout io.Writer, jsonOut bool) error {
	oldData, err := os.ReadFile(oldPath) // #nosec G304 - CLI tool reads user-specified files
	if err != nil {
		return fmt.Errorf("reading previous version: %w", err)
	}

	oldRuns, err := proc.ExtractRuns(string(oldData))
	if err != nil {
		return fmt.Errorf("parsing previous version: %w", err)
	}
	newRuns, err := proc.ExtractRuns(newContent)
	if err != nil {
		return fmt.Errorf("parsing new version: %w", err)
	}

	diff := glossify.DiffRunsWithPath(oldRuns, newRuns)
	stats := diff.Stats()

	if jsonOut {
		type diffOutput struct {
			InputFile    string   `json:"input_file"`
			PreviousFile string   `json:"previous_file"`
			Added        int      `json:"added"`
			Removed      int      `json:"removed"`
			Modified     int      `json:"modified"`
			Unchanged    int      `json:"unchanged"`
			NeedsGloss   []string `json:"needs_gloss"`
		}
		out := diffOutput{
			InputFile:    inputName,
			PreviousFile: filepath.Base(oldPath),
			Added:        stats.Added,
			Removed:      stats.Removed,
			Modified:     stats.Modified,
			Unchanged:    stats.Unchanged,
		}
		for _, r := range diff.NeedsProcessing() {
			out.NeedsGloss = append(out.NeedsGloss, r.Text)
		}
		enc := json.NewEncoder(stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(out)
	}

	fmt.Fprintf(stdout, "Diff: %s vs %s\n\n", inputName, filepath.Base(oldPath))
	fmt.Fprintf(stdout, "Summary:\n")
	fmt.Fprintf(stdout, "  Unchanged: %d\n", stats.Unchanged)
	fmt.Fprintf(stdout, "  Added:     %d\n", stats.Added)
	fmt.Fprintf(stdout, "  Removed:   %d\n", stats.Removed)
	fmt.Fprintf(stdout, "  Modified:  %d\n\n", stats.Modified)

	if !diff.HasChanges() {
		fmt.Fprintf(stdout, "No changes detected.\n")
		return nil
	}
	for _, r := range diff.NeedsProcessing() {
		text := r.Text
		if len(text) > 50 {
			text = text[:47] + "..."
		}
		fmt.Fprintf(stdout, "  + %q\n", text)
	}
	return nil
}

// runServe binds the document to a tracker and serves it alongside the
// debug surface.
func runServe(proc *processor.HTMLProcessor, engine *glossify.Engine, input, pageURL, addr string, stderr io.Writer) error {
	log := slog.New(slog.NewTextHandler(stderr, nil))

	doc, err := proc.Bind(engine, input, pageURL)
	if err != nil {
		return err
	}
	tracker := glossify.NewTracker(doc, 150*time.Millisecond)
	defer tracker.Stop()

	if err := tracker.ProcessNow(context.Background()); err != nil {
		return err
	}

	ctrl := glossify.NewController(engine, tracker, doc)

	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Mount("/debug", debug.NewHandler(ctrl, log))
	r.Get("/document", func(w http.ResponseWriter, req *http.Request) {
		out, err := doc.HTML()
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_, _ = io.WriteString(w, out)
	})
	r.Post("/notify", func(w http.ResponseWriter, req *http.Request) {
		tracker.Notify()
		w.WriteHeader(http.StatusAccepted)
	})

	log.Info("serving", "addr", addr)
	return http.ListenAndServe(addr, r) // #nosec G114 - operational debug server
}

// outputJSON writes the result as JSON.
func outputJSON(w io.Writer, result *glossify.Result, elapsed time.Duration) error {
	out := struct {
		Content       string `json:"content"`
		RunsProcessed int    `json:"runs_processed"`
		RunsSkipped   int    `json:"runs_skipped"`
		UnitsEmitted  int    `json:"units_emitted"`
		ElapsedMs     int64  `json:"elapsed_ms"`
	}{
		Content:       result.Content,
		RunsProcessed: result.RunsProcessed,
		RunsSkipped:   result.RunsSkipped,
		UnitsEmitted:  result.UnitsEmitted,
		ElapsedMs:     elapsed.Milliseconds(),
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}
