package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"strconv"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/fragmede/hnstories/internal/aggregator"
	"github.com/fragmede/hnstories/internal/api"
	"github.com/fragmede/hnstories/internal/config"
	"github.com/fragmede/hnstories/internal/display"
)

var version = "1.0.0"

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

// flags holds command-line values. Only flags the user actually set
// override the loaded config.
type flags struct {
	configPath  string
	baseURL     string
	concurrency int
	timeout     time.Duration
	failFast    bool
	logLevel    string
	amount      int
	categories  []string
}

func newRootCmd() *cobra.Command {
	f := &flags{}

	rootCmd := &cobra.Command{
		Use:           "hnstories",
		Short:         "Print Hacker News stories from every feed",
		Long:          "hnstories fetches the top, new, best, ask, show and job feeds from the Hacker News API and prints the leading stories of each.",
		Version:       version,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, f, func(ctx context.Context, a *app) error {
				cats, err := a.cfg.ListCategories()
				if err != nil {
					return err
				}
				return a.printStories(ctx, cats, a.cfg.Amount)
			})
		},
	}
	rootCmd.SetVersionTemplate("hnstories version {{.Version}}\n")

	pf := rootCmd.PersistentFlags()
	pf.StringVar(&f.configPath, "config", "", "Path to a YAML config file")
	pf.StringVar(&f.baseURL, "base-url", "", "API base URL")
	pf.IntVar(&f.concurrency, "concurrency", api.DefaultMaxConcurrent, "Maximum concurrent requests")
	pf.DurationVar(&f.timeout, "timeout", api.DefaultRequestTimeout, "Per-request timeout")
	pf.BoolVar(&f.failFast, "fail-fast", false, "Abort on the first feed that fails")
	pf.StringVar(&f.logLevel, "log-level", "", "Log level (debug, info, warn, error)")

	rootCmd.Flags().IntVarP(&f.amount, "amount", "n", config.Default().Amount, "Stories to print per feed")
	rootCmd.Flags().StringSliceVarP(&f.categories, "category", "c", nil, "Feeds to print (top, new, best, ask, show, job)")

	rootCmd.AddCommand(newIDsCmd(f))
	rootCmd.AddCommand(newItemCmd(f))

	return rootCmd
}

func newIDsCmd(f *flags) *cobra.Command {
	var preview int

	cmd := &cobra.Command{
		Use:   "ids",
		Short: "Print the story ID lists of every feed",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, f, func(ctx context.Context, a *app) error {
				resp, err := a.agg.CollectAll(ctx)
				if resp != nil {
					if perr := a.printer.PrintSummary(resp, preview); perr != nil {
						return perr
					}
				}
				return err
			})
		},
	}
	cmd.Flags().IntVarP(&preview, "preview", "p", 10, "IDs to show per feed (-1 for all)")
	return cmd
}

func newItemCmd(f *flags) *cobra.Command {
	return &cobra.Command{
		Use:   "item <id>",
		Short: "Print a single story",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.ParseUint(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid item id %q: %w", args[0], err)
			}
			return withApp(cmd, f, func(ctx context.Context, a *app) error {
				story, err := a.client.GetStory(ctx, id)
				if err != nil {
					return err
				}
				return a.printer.PrintDetail(story)
			})
		},
	}
}

// app is the wiring shared by every command.
type app struct {
	cfg     config.Config
	client  *api.Client
	agg     *aggregator.Aggregator
	printer *display.Printer
}

func withApp(cmd *cobra.Command, f *flags, run func(context.Context, *app) error) error {
	log := newLogger(cmd.ErrOrStderr())

	a, err := newApp(cmd, f, log)
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	if a.cfg.RunTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, a.cfg.RunTimeout)
		defer cancel()
	}

	return run(ctx, a)
}

func newApp(cmd *cobra.Command, f *flags, log *logrus.Logger) (*app, error) {
	cfg, err := config.Load(f.configPath)
	if err != nil {
		return nil, err
	}
	applyFlags(cmd, f, &cfg)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	level, err := logrus.ParseLevel(cfg.LogLevel)
	if err != nil {
		return nil, fmt.Errorf("log level: %w", err)
	}
	log.SetLevel(level)

	client := api.NewClient(
		api.WithBaseURL(cfg.BaseURL),
		api.WithTimeout(cfg.RequestTimeout),
		api.WithMaxConcurrent(cfg.MaxConcurrent),
		api.WithUserAgent(cfg.UserAgent),
		api.WithLogger(log),
	)

	policy := aggregator.PolicyBestEffort
	if cfg.FailFast {
		policy = aggregator.PolicyFailFast
	}
	agg := aggregator.New(client,
		aggregator.WithPolicy(policy),
		aggregator.WithMaxConcurrent(cfg.MaxConcurrent),
		aggregator.WithLogger(log),
	)

	return &app{
		cfg:     cfg,
		client:  client,
		agg:     agg,
		printer: display.NewPrinter(cmd.OutOrStdout()),
	}, nil
}

func applyFlags(cmd *cobra.Command, f *flags, cfg *config.Config) {
	changed := func(name string) bool {
		fl := cmd.Flags().Lookup(name)
		return fl != nil && fl.Changed
	}
	if changed("base-url") {
		cfg.BaseURL = f.baseURL
	}
	if changed("concurrency") {
		cfg.MaxConcurrent = f.concurrency
	}
	if changed("timeout") {
		cfg.RequestTimeout = f.timeout
	}
	if changed("fail-fast") {
		cfg.FailFast = f.failFast
	}
	if changed("log-level") {
		cfg.LogLevel = f.logLevel
	}
	if changed("amount") {
		cfg.Amount = f.amount
	}
	if changed("category") {
		cfg.Categories = f.categories
	}
}

func newLogger(w io.Writer) *logrus.Logger {
	log := logrus.New()
	log.SetOutput(w)
	log.SetFormatter(&logrus.TextFormatter{DisableTimestamp: true})
	log.SetLevel(logrus.InfoLevel)
	return log
}

// printStories collects every feed, then prints amount stories from each of
// cats. Feeds that failed to load are skipped; their errors are returned
// after everything else has been printed.
func (a *app) printStories(ctx context.Context, cats []api.Category, amount int) error {
	resp, collectErr := a.agg.CollectAll(ctx)
	if resp == nil {
		return collectErr
	}

	for _, cat := range cats {
		if resp.CategoryErr(cat) != nil {
			continue
		}
		entries, err := a.agg.Resolve(ctx, resp, cat, amount)
		if err != nil {
			return err
		}
		if err := a.printer.PrintHeader(cat); err != nil {
			return err
		}
		if err := a.printer.PrintEntries(entries); err != nil {
			return err
		}
	}
	return collectErr
}
