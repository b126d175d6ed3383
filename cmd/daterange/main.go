package main

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/njt/daterange/internal/batch"
	"github.com/njt/daterange/internal/dateparse"
	"github.com/njt/daterange/internal/output"
	"github.com/njt/daterange/internal/plugin"
	"github.com/njt/daterange/internal/query"
	"github.com/njt/daterange/libdaterange"
)

var (
	configMgr *libdaterange.ConfigManager
	config    *libdaterange.Config
	logger    *zap.Logger
	verbose   bool

	rootCmd = &cobra.Command{
		Use:   "daterange",
		Short: "Resolve informal date references in queries",
		Long: `daterange turns the temporal part of a natural-language query ("sales last quarter",
"revenue before 2013", "orders in August") into a YYYY-MM-DD date or date range.`,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			var err error
			config, err = configMgr.Load()
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}

			zapConfig := zap.NewProductionConfig()
			level, err := zapcore.ParseLevel(config.LogLevel)
			if err != nil {
				return fmt.Errorf("invalid log_level %q: %w", config.LogLevel, err)
			}
			if verbose {
				level = zapcore.DebugLevel
			}
			zapConfig.Level = zap.NewAtomicLevelAt(level)
			logger, err = zapConfig.Build()
			if err != nil {
				return fmt.Errorf("failed to initialize logger: %w", err)
			}
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if logger != nil {
				_ = logger.Sync()
			}
		},
		SilenceUsage: true,
	}
)

func init() {
	var err error
	configMgr, err = libdaterange.NewConfigManager()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error initializing config manager: %v\n", err)
		os.Exit(1)
	}

	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Log strategy decisions at debug level")

	rootCmd.AddCommand(resolveCmd)
	rootCmd.AddCommand(batchCmd)
	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(pluginsCmd)
}

// newResolver builds a resolver from the loaded config, with flag overrides applied.
func newResolver(cmd *cobra.Command) (*libdaterange.Resolver, error) {
	monthFirst := config.MonthFirst
	if cmd.Flags().Changed("month-first") {
		monthFirst, _ = cmd.Flags().GetBool("month-first")
	}
	name := config.Extractor
	if cmd.Flags().Changed("extractor") {
		name, _ = cmd.Flags().GetString("extractor")
	}

	var extractor libdaterange.Extractor
	switch name {
	case "", libdaterange.ExtractorNatural:
		extractor = libdaterange.NaturalExtractor{}
	case libdaterange.ExtractorRemote:
		if config.RemoteURL == "" {
			return nil, fmt.Errorf("extractor %q requires remote_url. Use 'daterange config set --remote-url'", name)
		}
		extractor = libdaterange.NewRemoteExtractor(config.RemoteURL, config.Timeout)
	default:
		if _, err := plugin.FindPlugin(name); err != nil {
			return nil, err
		}
		extractor = &plugin.Extractor{Name: name, Timeout: config.Timeout}
	}

	now := time.Now
	if t, ok, err := fixedNow(cmd); err != nil {
		return nil, err
	} else if ok {
		now = func() time.Time { return t }
	}

	return libdaterange.NewResolver(libdaterange.Options{
		MonthFirst: monthFirst,
		Extractor:  extractor,
		Logger:     logger,
		Now:        now,
	}), nil
}

// fixedNow returns the reference date given with --now, if any.
func fixedNow(cmd *cobra.Command) (time.Time, bool, error) {
	s, _ := cmd.Flags().GetString("now")
	if s == "" {
		return time.Time{}, false, nil
	}
	t, err := dateparse.ParseWithPast(s, time.Now())
	if err != nil {
		return time.Time{}, false, fmt.Errorf("invalid --now: %w", err)
	}
	return t, true, nil
}

func outputFormat(cmd *cobra.Command) string {
	if cmd.Flags().Changed("format") {
		format, _ := cmd.Flags().GetString("format")
		return format
	}
	return config.Format
}

func addResolverFlags(cmd *cobra.Command) {
	cmd.Flags().String("now", "", "Resolve as if today were this date (YYYY-MM-DD or natural language)")
	cmd.Flags().Bool("month-first", false, "Read short numeric dates such as 10/12 as month/day")
	cmd.Flags().String("extractor", "", "Fallback extractor: natural, remote or a plugin name")
	cmd.Flags().String("format", "text", "Output format: text, json or yaml")
}

var resolveCmd = &cobra.Command{
	Use:   "resolve [query...]",
	Short: "Resolve the date reference in a query",
	Long: `Resolve the date reference in a query and print it as one date or a start/end pair.

Examples:
  daterange resolve "show me sales between 2013 and 2017"
  daterange resolve --now 2024-05-15 --format json "revenue last quarter"`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		resolver, err := newResolver(cmd)
		if err != nil {
			return err
		}

		text := strings.Join(args, " ")
		if isHTML, _ := cmd.Flags().GetBool("html"); isHTML {
			text = query.FromHTML(text)
		}

		dr, _ := resolver.Resolve(text)
		return output.Write(os.Stdout, outputFormat(cmd), []*output.ResolveResponse{
			output.FormatResolveResponse(text, dr),
		})
	},
}

var batchCmd = &cobra.Command{
	Use:   "batch [file]",
	Short: "Resolve one query per line",
	Long:  `Resolve every line of a file (or stdin when no file is given) against the same reference date.`,
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		resolver, err := newResolver(cmd)
		if err != nil {
			return err
		}

		in := os.Stdin
		if len(args) == 1 {
			f, err := os.Open(args[0])
			if err != nil {
				return fmt.Errorf("failed to open queries: %w", err)
			}
			defer f.Close()
			in = f
		}

		queries, err := batch.ReadQueries(in)
		if err != nil {
			return err
		}

		workers := config.Workers
		if cmd.Flags().Changed("workers") {
			workers, _ = cmd.Flags().GetInt("workers")
		}
		runner, err := batch.New(resolver, workers, logger)
		if err != nil {
			return err
		}

		now := time.Now()
		if t, ok, err := fixedNow(cmd); err != nil {
			return err
		} else if ok {
			now = t
		}

		results, err := runner.Run(cmd.Context(), queries, now)
		if err != nil {
			return fmt.Errorf("batch failed: %w", err)
		}

		responses := make([]*output.ResolveResponse, len(results))
		for i, r := range results {
			responses[i] = &output.ResolveResponse{Query: r.Query, Dates: r.Dates}
		}
		return output.Write(os.Stdout, outputFormat(cmd), responses)
	},
}

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage configuration",
	Long:  `Manage daterange configuration settings`,
}

var configSetCmd = &cobra.Command{
	Use:   "set",
	Short: "Set configuration values",
	Long:  `Set configuration values like the fallback extractor, output format and numeric date order.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		flags := cmd.Flags()
		if flags.Changed("month-first") {
			config.MonthFirst, _ = flags.GetBool("month-first")
		}
		if flags.Changed("extractor") {
			config.Extractor, _ = flags.GetString("extractor")
		}
		if flags.Changed("remote-url") {
			config.RemoteURL, _ = flags.GetString("remote-url")
		}
		if flags.Changed("timeout") {
			config.Timeout, _ = flags.GetDuration("timeout")
		}
		if flags.Changed("format") {
			config.Format, _ = flags.GetString("format")
		}
		if flags.Changed("workers") {
			config.Workers, _ = flags.GetInt("workers")
		}
		if flags.Changed("log-level") {
			config.LogLevel, _ = flags.GetString("log-level")
		}

		if err := config.Validate(); err != nil {
			return err
		}
		if err := configMgr.Save(config); err != nil {
			return fmt.Errorf("failed to save config: %w", err)
		}

		fmt.Println("Configuration saved successfully!")
		return nil
	},
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current configuration",
	Long:  `Display current configuration settings`,
	RunE: func(cmd *cobra.Command, args []string) error {
		fmt.Printf("Config file: %s\n", configMgr.Path())
		fmt.Printf("Month first: %t\n", config.MonthFirst)
		fmt.Printf("Extractor: %s\n", config.Extractor)
		fmt.Printf("Remote URL: %s\n", config.RemoteURL)
		fmt.Printf("Timeout: %s\n", config.Timeout)
		fmt.Printf("Format: %s\n", config.Format)
		fmt.Printf("Workers: %d\n", config.Workers)
		fmt.Printf("Log level: %s\n", config.LogLevel)
		return nil
	},
}

var pluginsCmd = &cobra.Command{
	Use:   "plugins",
	Short: "List available extractor plugins",
	Long:  `List all available ` + plugin.Prefix + `* plugins in PATH`,
	RunE: func(cmd *cobra.Command, args []string) error {
		plugins, err := plugin.ListPlugins()
		if err != nil {
			return fmt.Errorf("failed to list plugins: %w", err)
		}

		if len(plugins) == 0 {
			fmt.Println("No plugins found in PATH")
			return nil
		}

		fmt.Println("Available plugins:")
		for _, p := range plugins {
			fmt.Printf("  - %s\n", p)
		}

		return nil
	},
}

func init() {
	addResolverFlags(resolveCmd)
	resolveCmd.Flags().Bool("html", false, "Treat the query as an HTML fragment")

	addResolverFlags(batchCmd)
	batchCmd.Flags().Int("workers", 4, "Number of queries resolved concurrently")

	configSetCmd.Flags().Bool("month-first", false, "Read short numeric dates as month/day")
	configSetCmd.Flags().String("extractor", "", "Fallback extractor: natural, remote or a plugin name")
	configSetCmd.Flags().String("remote-url", "", "Base URL of the remote extractor service")
	configSetCmd.Flags().Duration("timeout", libdaterange.DefaultRemoteTimeout, "Timeout for remote and plugin extractors")
	configSetCmd.Flags().String("format", "", "Default output format: text, json or yaml")
	configSetCmd.Flags().Int("workers", 0, "Default number of batch workers")
	configSetCmd.Flags().String("log-level", "", "Log level: debug, info, warn or error")

	configCmd.AddCommand(configSetCmd)
	configCmd.AddCommand(configShowCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
