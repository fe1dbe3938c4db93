package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/nao1215/pwforge/internal/collector"
	"github.com/nao1215/pwforge/internal/config"
	"github.com/nao1215/pwforge/internal/crawler"
	"github.com/nao1215/pwforge/internal/database"
	pwlog "github.com/nao1215/pwforge/internal/log"
	"github.com/nao1215/pwforge/internal/model"
	"github.com/nao1215/pwforge/internal/pipeline"
	"github.com/nao1215/pwforge/internal/report"
	"github.com/nao1215/pwforge/internal/transport"
	"github.com/nao1215/pwforge/internal/wordsource"
)

// historySaveTimeout bounds the history write after the run context is done.
const historySaveTimeout = 10 * time.Second

// errUnsupportedLanguage is returned for a --lang code the detector does not know.
var errUnsupportedLanguage = errors.New("unsupported language code")

// NewGenerateCmd creates the generate command.
func NewGenerateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "generate [base-words...]",
		Aliases: []string{"gen"},
		Short:   "Generate a password candidate wordlist",
		Long: `Generate builds a wordlist from base words and, optionally, from words
harvested by crawling websites.

Seed words are expanded by four stages, run in order until the target count
is reached:
  basic_variation    lower, Capitalized and UPPER forms
  word_merging       Capitalize(w1) + separator + w2 for every ordered pair
  number_mixing      numeric suffixes with a random symbol before or after
  advanced_patterns  long random numbers, years and symbol wrapping

Crawled words must be detected as one of the target languages (--lang) and
must not appear in the slang or breach exclusion lists.

Examples:
  # Generate from base words
  pwforge generate jambo pesa simba

  # Crawl a site two levels deep and keep 50,000 candidates
  pwforge generate -u https://habari.co.ke -d 2 -m 50000 -o habari.txt

  # Resume a previous run without writing duplicates
  pwforge generate -b nairobi --append -o passwords.txt

  # Custom symbols and similar character replacement
  pwforge generate -b moto --symbols '!,@,#' --no-similar

  # Crawl through the embedded Tor daemon, Markdown report to a file
  pwforge generate -u http://example.onion --tor --report markdown --report-file run.md`,
		Args: cobra.ArbitraryArgs,
		RunE: runGenerateCmd,
	}

	// Generation flags
	cmd.Flags().StringP("output", "o", config.DefaultOutputPath,
		"Wordlist output file")
	cmd.Flags().IntP("max", "m", config.DefaultMaxCombos,
		"Maximum number of candidates in the wordlist")
	cmd.Flags().StringSliceP("base-words", "b", nil,
		"Base words (repeatable or comma separated)")
	cmd.Flags().Int("min-length", config.DefaultMinLength,
		"Minimum candidate length in characters")
	cmd.Flags().Bool("no-similar", false,
		"Replace i, o and s with 1, 0 and $ in basic variations and merged words")
	cmd.Flags().String("symbols", "",
		"Custom symbols, comma separated (replaces default symbols and separators)")
	cmd.Flags().Bool("append", false,
		"Keep existing output lines and never write them again")

	// Word source flags
	cmd.Flags().StringSliceP("url", "u", nil,
		"Seed URLs to crawl (repeatable or comma separated)")
	cmd.Flags().IntP("depth", "d", config.DefaultCrawlDepth,
		"Crawl depth; 1 fetches only the seed pages")
	cmd.Flags().StringSlice("lang", []string{config.DefaultLanguage},
		"ISO 639-1 codes crawled words must be detected as")
	cmd.Flags().String("slang-list", config.DefaultSlangList,
		"Slang exclusion list, one word per line")
	cmd.Flags().String("breach-list", config.DefaultBreachList,
		"Breach pattern exclusion list, one word per line")
	cmd.Flags().Bool("exif", false,
		"Also harvest words from image metadata on crawled pages")

	// Crawl behavior flags
	cmd.Flags().DurationP("timeout", "t", config.DefaultTimeout,
		"Timeout for each request")
	cmd.Flags().Duration("crawl-delay", config.DefaultCrawlDelay,
		"Minimum interval between requests")
	cmd.Flags().IntP("max-pages", "p", config.DefaultMaxPages,
		"Maximum number of pages fetched across the crawl")
	cmd.Flags().IntP("workers", "w", config.DefaultWorkers,
		"Number of seed URLs crawled concurrently")
	cmd.Flags().String("user-agent", config.DefaultUserAgent,
		"User-Agent header sent with every request")

	// Proxy flags
	cmd.Flags().Bool("tor", false,
		"Crawl through an embedded Tor daemon")
	cmd.Flags().Duration("tor-timeout", config.DefaultTorStartupTimeout,
		"Timeout for embedded Tor startup")
	cmd.Flags().String("proxy", "",
		"Crawl through an external SOCKS5 proxy (host:port)")

	// Configuration file
	cmd.Flags().StringP("config", "c", "",
		"Configuration file path (default: .pwforge in current or home directory)")

	// Report flags
	cmd.Flags().String("report", config.ReportText,
		"Report format: text, json or markdown")
	cmd.Flags().String("report-file", "",
		"Write the report to a file instead of stdout")
	cmd.Flags().Bool("no-history", false,
		"Do not record the run in the history database")
	cmd.Flags().String("db-dir", config.XDGDataDir(),
		"Directory of the history database")

	return cmd
}

func runGenerateCmd(cmd *cobra.Command, args []string) error {
	cfg, err := buildConfig(cmd, args)
	if err != nil {
		return err
	}

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("configuration error: %w (see --help)", err)
	}
	if err := validateLanguages(cfg); err != nil {
		return fmt.Errorf("configuration error: %w (see --help)", err)
	}

	logger := pwlog.New(cmd.ErrOrStderr(),
		pwlog.WithVerbose(cfg.Verbose),
		pwlog.WithJSON(cfg.LogJSON),
	)
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return runGenerate(ctx, cfg, logger, cmd.OutOrStdout(), cmd.ErrOrStderr())
}

// buildConfig layers built-in defaults, the configuration file and the
// flags the user actually set, in that order.
func buildConfig(cmd *cobra.Command, args []string) (*config.Config, error) {
	cfg := config.NewConfig()
	flags := cmd.Flags()

	var err error
	cfg.ConfigFilePath, err = flags.GetString("config")
	if err != nil {
		return nil, err
	}

	explicitConfigPath := cfg.ConfigFilePath != ""
	if configPath := config.FindConfigFile(cfg.ConfigFilePath); configPath != "" {
		file, err := config.LoadConfigFile(configPath)
		if err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", configPath, err)
		}
		file.Apply(cfg)
	} else if explicitConfigPath {
		return nil, fmt.Errorf("%w: %s", config.ErrConfigNotFound, cfg.ConfigFilePath)
	}

	cfg.Verbose = getBoolFlag(cmd, "verbose")
	cfg.LogJSON = getBoolFlag(cmd, "log-json")

	baseWords, err := flags.GetStringSlice("base-words")
	if err != nil {
		return nil, err
	}
	cfg.BaseWords = append(splitArgs(args), baseWords...)

	cfg.URLs, err = flags.GetStringSlice("url")
	if err != nil {
		return nil, err
	}

	if err := errors.Join(
		changedString(flags, "output", &cfg.OutputPath),
		changedInt(flags, "max", &cfg.MaxCombos),
		changedInt(flags, "min-length", &cfg.MinLength),
		changedBool(flags, "no-similar", &cfg.NoSimilar),
		changedBool(flags, "append", &cfg.Append),
		changedInt(flags, "depth", &cfg.CrawlDepth),
		changedString(flags, "slang-list", &cfg.SlangListPath),
		changedString(flags, "breach-list", &cfg.BreachListPath),
		changedBool(flags, "exif", &cfg.HarvestEXIF),
		changedDuration(flags, "timeout", &cfg.Timeout),
		changedDuration(flags, "crawl-delay", &cfg.CrawlDelay),
		changedInt(flags, "max-pages", &cfg.MaxPages),
		changedInt(flags, "workers", &cfg.Workers),
		changedString(flags, "user-agent", &cfg.UserAgent),
		changedBool(flags, "tor", &cfg.UseTor),
		changedDuration(flags, "tor-timeout", &cfg.TorStartupTimeout),
		changedString(flags, "proxy", &cfg.ProxyAddress),
		changedString(flags, "report", &cfg.ReportFormat),
		changedString(flags, "report-file", &cfg.ReportFile),
		changedString(flags, "db-dir", &cfg.DBDir),
	); err != nil {
		return nil, err
	}

	if flags.Changed("symbols") {
		raw, err := flags.GetString("symbols")
		if err != nil {
			return nil, err
		}
		cfg.Symbols = config.SplitSymbols(raw)
	}
	if flags.Changed("lang") {
		langs, err := flags.GetStringSlice("lang")
		if err != nil {
			return nil, err
		}
		cfg.Languages = normalizeLanguages(langs)
	}
	if flags.Changed("no-history") {
		off, err := flags.GetBool("no-history")
		if err != nil {
			return nil, err
		}
		cfg.SaveHistory = !off
	}

	return cfg, nil
}

// The changed* helpers copy a flag value into dst only when the user set
// the flag, so configuration file values survive flag defaults.

func changedString(flags *pflag.FlagSet, name string, dst *string) error {
	if !flags.Changed(name) {
		return nil
	}
	v, err := flags.GetString(name)
	if err != nil {
		return err
	}
	*dst = v
	return nil
}

func changedInt(flags *pflag.FlagSet, name string, dst *int) error {
	if !flags.Changed(name) {
		return nil
	}
	v, err := flags.GetInt(name)
	if err != nil {
		return err
	}
	*dst = v
	return nil
}

func changedBool(flags *pflag.FlagSet, name string, dst *bool) error {
	if !flags.Changed(name) {
		return nil
	}
	v, err := flags.GetBool(name)
	if err != nil {
		return err
	}
	*dst = v
	return nil
}

func changedDuration(flags *pflag.FlagSet, name string, dst *time.Duration) error {
	if !flags.Changed(name) {
		return nil
	}
	v, err := flags.GetDuration(name)
	if err != nil {
		return err
	}
	*dst = v
	return nil
}

// splitArgs returns the positional base words, splitting comma lists.
func splitArgs(args []string) []string {
	var words []string
	for _, a := range args {
		words = append(words, config.SplitList(a)...)
	}
	return words
}

func normalizeLanguages(langs []string) []string {
	out := make([]string, 0, len(langs))
	for _, l := range langs {
		if l = strings.ToLower(strings.TrimSpace(l)); l != "" {
			out = append(out, l)
		}
	}
	return out
}

func validateLanguages(cfg *config.Config) error {
	if !cfg.CrawlEnabled() {
		return nil
	}
	for _, code := range cfg.Languages {
		if !wordsource.IsSupportedLanguage(code) {
			return fmt.Errorf("%w: %q", errUnsupportedLanguage, code)
		}
	}
	return nil
}

// runGenerate executes one generation run and records its report.
func runGenerate(ctx context.Context, cfg *config.Config, logger *slog.Logger, stdout, stderr io.Writer) error {
	runReport := model.NewRunReport(time.Now())
	runReport.Options = runOptions(cfg)

	logger.Info("starting generation",
		"run_id", runReport.ID,
		"output", cfg.OutputPath,
		"max", cfg.MaxCombos,
		"min_length", cfg.MinLength,
		"urls", len(cfg.URLs),
	)

	var existing []string
	if cfg.Append {
		var err error
		existing, err = collector.LoadExisting(cfg.OutputPath)
		if err != nil {
			return err
		}
	}

	// Opened before crawling so an unwritable path fails fast.
	sink, err := collector.OpenFileSink(cfg.OutputPath, cfg.Append)
	if err != nil {
		return err
	}
	defer func() {
		if err := sink.Close(); err != nil {
			logger.Warn("failed to close output", "output", cfg.OutputPath, "error", err)
		}
	}()

	slang, err := wordsource.LoadWordlist(cfg.SlangListPath)
	if err != nil {
		return fmt.Errorf("failed to load slang list: %w", err)
	}
	breach, err := wordsource.LoadWordlist(cfg.BreachListPath)
	if err != nil {
		return fmt.Errorf("failed to load breach list: %w", err)
	}
	runReport.Options.SlangWords = len(slang)
	runReport.Options.BreachWords = len(breach)

	fmt.Fprintf(stderr, "Local dictionary: %d terms, breach patterns: %d entries\n", len(slang), len(breach))
	fmt.Fprintf(stderr, "Target count: %d, min length: %d\n", cfg.MaxCombos, cfg.MinLength)

	var (
		detector   wordsource.Detector
		sourceOpts = []wordsource.Option{wordsource.WithLogger(logger)}
	)
	if cfg.CrawlEnabled() {
		spider, cleanup, err := newSpider(ctx, cfg, logger, stderr)
		if err != nil {
			return err
		}
		defer cleanup()

		detector = wordsource.NewLinguaDetector()
		sourceOpts = append(sourceOpts, wordsource.WithCrawler(spider))
		fmt.Fprintf(stderr, "Crawling %d URL(s), depth %d...\n", len(cfg.URLs), cfg.CrawlDepth)
	}

	classifier := wordsource.NewClassifier(detector, cfg.Languages, slang, breach)
	seeds, crawlStats, err := wordsource.NewCollector(classifier, sourceOpts...).
		Collect(ctx, cfg.BaseWords, cfg.URLs)
	runReport.Crawl = crawlStats
	if err != nil {
		return finishRun(ctx, cfg, logger, stdout, runReport, err)
	}

	runReport.Seeds = model.SeedStats{
		BaseWords:    seeds.BaseCount(),
		CrawledWords: seeds.CrawledCount(),
		Total:        seeds.Len(),
	}
	if seeds.Len() == 0 {
		logger.Warn("no seed words survived filtering; nothing to generate")
	}

	controller := collector.NewController(sink,
		collector.WithMaxCombos(cfg.MaxCombos),
		collector.WithMinLength(cfg.MinLength),
		collector.WithExisting(existing),
		collector.WithLogger(logger),
	)
	result, runErr := controller.Run(ctx, seeds.Words(), pipeline.Default(cfg, nil))

	runReport.Stages = result.Stages
	runReport.Preexisting = result.Preexisting
	runReport.Accepted = result.Accepted
	runReport.TargetReached = result.TargetReached
	runReport.Examples = result.Examples

	return finishRun(ctx, cfg, logger, stdout, runReport, runErr)
}

// finishRun stamps the outcome, renders the report and records it in the
// history database. It returns runErr, so an interrupted or failed run
// still exits non-zero after its partial report is written.
func finishRun(ctx context.Context, cfg *config.Config, logger *slog.Logger, stdout io.Writer, r *model.RunReport, runErr error) error {
	r.FinishedAt = time.Now()
	switch {
	case runErr == nil:
		r.Status = model.RunCompleted
	case errors.Is(runErr, context.Canceled) || errors.Is(runErr, context.DeadlineExceeded):
		r.Status = model.RunInterrupted
		r.Error = runErr.Error()
	default:
		r.Status = model.RunFailed
		r.Error = runErr.Error()
	}

	logger.Info("generation finished",
		"run_id", r.ID,
		"status", r.Status,
		"accepted", r.Accepted,
		"total", r.Total(),
		"duration", r.Duration().Round(time.Millisecond),
	)

	if err := outputReport(cfg, stdout, r); err != nil {
		logger.Error("report failed", "error", err)
	}

	if cfg.SaveHistory {
		saveCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), historySaveTimeout)
		defer cancel()
		if err := saveRun(saveCtx, cfg.DBDir, r); err != nil {
			logger.Warn("failed to record run history", "error", err)
		}
	}

	if runErr != nil {
		return fmt.Errorf("generation %s: %w", r.Status, runErr)
	}
	return nil
}

func runOptions(cfg *config.Config) model.RunOptions {
	return model.RunOptions{
		Output:        cfg.OutputPath,
		MaxCombos:     cfg.MaxCombos,
		MinLength:     cfg.MinLength,
		NoSimilar:     cfg.NoSimilar,
		CustomSymbols: len(cfg.Symbols) > 0,
		Append:        cfg.Append,
		URLs:          cfg.URLs,
		CrawlDepth:    cfg.CrawlDepth,
		Languages:     cfg.Languages,
	}
}

// newSpider builds the crawl transport (direct, SOCKS5 proxy or embedded
// Tor) and the spider using it. cleanup stops the embedded daemon, if any.
func newSpider(ctx context.Context, cfg *config.Config, logger *slog.Logger, stderr io.Writer) (*crawler.Spider, func(), error) {
	clientOpts := []transport.Option{
		transport.WithTimeout(cfg.Timeout),
		transport.WithUserAgent(cfg.UserAgent),
	}
	cleanup := func() {}

	var (
		client *transport.Client
		err    error
	)
	switch {
	case cfg.UseTor:
		fmt.Fprintln(stderr, "Starting embedded Tor daemon...")
		fmt.Fprintln(stderr, "This may take 1-3 minutes while Tor bootstraps and connects to the network.")

		tor := transport.NewEmbeddedTor(transport.WithStartupTimeout(cfg.TorStartupTimeout))
		if err := tor.Start(ctx); err != nil {
			return nil, nil, fmt.Errorf("failed to start embedded Tor: %w", err)
		}
		cleanup = func() {
			logger.Info("stopping embedded Tor daemon")
			if err := tor.Stop(); err != nil {
				logger.Error("failed to stop embedded Tor", "error", err)
			}
		}

		client, err = tor.NewClient(clientOpts...)
		if err != nil {
			cleanup()
			return nil, nil, fmt.Errorf("failed to create Tor client: %w", err)
		}
		logger.Info("embedded Tor daemon started", "socks_addr", tor.SocksAddr())

	case cfg.ProxyAddress != "":
		client, err = transport.New(append(clientOpts, transport.WithProxy(cfg.ProxyAddress))...)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to create proxy client: %w", err)
		}

	default:
		client, err = transport.New(clientOpts...)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to create HTTP client: %w", err)
		}
	}

	if client.ProxyAddress() != "" {
		if err := client.CheckProxy(ctx); err != nil {
			cleanup()
			return nil, nil, fmt.Errorf("proxy check failed for %s: %w", client.ProxyAddress(), err)
		}
		logger.Info("SOCKS5 proxy verified", "address", client.ProxyAddress())
	}

	spider := crawler.NewSpider(client,
		crawler.WithMaxDepth(cfg.CrawlDepth),
		crawler.WithMaxPages(cfg.MaxPages),
		crawler.WithWorkers(cfg.Workers),
		crawler.WithDelay(cfg.CrawlDelay),
		crawler.WithMaxBodySize(cfg.MaxBodySize),
		crawler.WithEXIF(cfg.HarvestEXIF),
		crawler.WithSites(cfg.SiteConfigs),
		crawler.WithLogger(logger),
	)
	return spider, cleanup, nil
}

// outputReport renders r to the report file, or to stdout when none is set.
func outputReport(cfg *config.Config, stdout io.Writer, r *model.RunReport) error {
	output := stdout
	if cfg.ReportFile != "" {
		if dir := filepath.Dir(cfg.ReportFile); dir != "" && dir != "." {
			if err := os.MkdirAll(dir, 0750); err != nil {
				return fmt.Errorf("failed to create report directory: %w", err)
			}
		}

		// Reports list example candidates, so only the owner may read them.
		f, err := os.OpenFile(cfg.ReportFile, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0600)
		if err != nil {
			return fmt.Errorf("failed to create report file: %w", err)
		}
		defer f.Close()
		output = f
	}

	w, err := report.NewWriter(cfg.ReportFormat, output)
	if err != nil {
		return err
	}
	_, err = w.Write(r)
	return err
}

func saveRun(ctx context.Context, dbDir string, r *model.RunReport) error {
	db, err := database.Open(dbDir, database.DefaultOptions())
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer db.Close()

	return db.SaveRun(ctx, r)
}
