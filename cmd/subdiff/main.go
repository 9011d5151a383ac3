// cmd/subdiff/main.go
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"subdiff/internal/cache"
	"subdiff/internal/config"
	"subdiff/internal/driver"
	"subdiff/internal/logging"
	"subdiff/internal/render"
	"subdiff/internal/subdifferr"
	"subdiff/internal/watch"
)

// pendingExitCode carries the process exit status a successful run
// decided on (0 = identical, 1 = differs) out of runRoot and into
// main, once cobra's Execute has returned and every deferred cleanup
// (cache close, logger sync) inside runRoot has already run — calling
// os.Exit from inside RunE itself would skip those defers entirely.
var pendingExitCode int

var (
	flagContext         int
	flagRegexes         []string
	flagIgnore          string
	flagContextFormat   string
	flagTokenization    string
	flagMarkChanged     bool
	flagDisplaySelected bool
	flagDebug           bool
	flagConfigPath      string
	flagColor           bool
	flagWatch           bool
	flagNoCache         bool
	flagCacheDir        string
)

var rootCmd = &cobra.Command{
	Use:   "subdiff <old> <new>",
	Short: "Line-oriented unified diff with selector and character-class rendering",
	Long: `subdiff compares two files line by line, optionally projecting each line
through a regular expression before comparison. Context lines that
compare equal after projection but differ in their raw bytes are
rendered via word-diff or character-class notation; other changed
lines are shown as full removed/added lines.`,
	Args: cobra.ExactArgs(2),
	RunE: runRoot,
}

var cacheCmd = &cobra.Command{
	Use:   "cache",
	Short: "Inspect or manage the persistent diff cache",
}

var cacheClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Remove every entry from the persistent diff cache",
	RunE: func(cmd *cobra.Command, args []string) error {
		dir, err := cacheDir()
		if err != nil {
			return err
		}
		c, err := cache.Open(dir, 1)
		if err != nil {
			return err
		}
		defer c.Close()
		if err := c.Clear(); err != nil {
			return err
		}
		fmt.Println("cache cleared:", dir)
		return nil
	},
}

func init() {
	rootCmd.Flags().IntVar(&flagContext, "context", 3, "number of context lines around each change")
	rootCmd.Flags().StringArrayVar(&flagRegexes, "regex", nil, "selector regular expression (repeatable, each needs >=1 capture group)")
	rootCmd.Flags().StringVar(&flagIgnore, "ignore", "", "regular expression whose matches are stripped before comparison")
	rootCmd.Flags().StringVar(&flagContextFormat, "context-format", "wdiff", "rendering for changed context lines: wdiff, cc, ccwide, old, new")
	rootCmd.Flags().StringVar(&flagTokenization, "context-tokenization", "char", "intra-line tokenization for context rendering: char, word")
	rootCmd.Flags().BoolVar(&flagMarkChanged, "mark-changed-context", false, "prefix changed-but-selector-equal context lines with !")
	rootCmd.Flags().BoolVar(&flagDisplaySelected, "display-selected", false, "display the projected line content instead of the raw line")
	rootCmd.Flags().BoolVar(&flagDebug, "debug", false, "enable debug logging")
	rootCmd.Flags().StringVar(&flagConfigPath, "config", "", "JSON file of default configuration values")
	rootCmd.Flags().BoolVar(&flagColor, "color", false, "colorize output")
	rootCmd.Flags().BoolVar(&flagWatch, "watch", false, "rerun the comparison whenever either input file changes")
	rootCmd.Flags().BoolVar(&flagNoCache, "no-cache", false, "bypass the persistent diff cache")
	rootCmd.Flags().StringVar(&flagCacheDir, "cache-dir", "", "directory for the persistent diff cache (default: XDG cache dir)")

	rootCmd.AddCommand(cacheCmd)
	cacheCmd.AddCommand(cacheClearCmd)
}

// resolveContextFormat translates the CLI's short flag spellings
// ("cc", "ccwide") into config.ContextFormat's values, per spec.md §6.
func resolveContextFormat(s string) (config.ContextFormat, error) {
	switch s {
	case "wdiff":
		return config.FormatWdiff, nil
	case "cc":
		return config.FormatCCNarrow, nil
	case "ccwide":
		return config.FormatCCWide, nil
	case "old":
		return config.FormatOld, nil
	case "new":
		return config.FormatNew, nil
	default:
		return "", subdifferr.Configurationf("unrecognized --context-format: %s", s)
	}
}

func buildConf(cmd *cobra.Command) (config.Conf, error) {
	conf := config.Default()
	if flagConfigPath != "" {
		var err error
		conf, err = config.Load(flagConfigPath)
		if err != nil {
			return config.Conf{}, err
		}
	}

	if cmd.Flags().Changed("context") {
		conf.Context = flagContext
	}
	if cmd.Flags().Changed("context-format") {
		cf, err := resolveContextFormat(flagContextFormat)
		if err != nil {
			return config.Conf{}, err
		}
		conf.ContextFormat = cf
	}
	if cmd.Flags().Changed("context-tokenization") {
		switch flagTokenization {
		case "char":
			conf.ContextTokenization = config.TokenChar
		case "word":
			conf.ContextTokenization = config.TokenWord
		default:
			return config.Conf{}, subdifferr.Configurationf("unrecognized --context-tokenization: %s", flagTokenization)
		}
	}
	if cmd.Flags().Changed("mark-changed-context") {
		conf.MarkChangedContext = flagMarkChanged
	}
	if cmd.Flags().Changed("display-selected") {
		conf.DisplaySelected = flagDisplaySelected
	}
	if cmd.Flags().Changed("debug") {
		conf.Debug = flagDebug
	}
	return conf, nil
}

func cacheDir() (string, error) {
	if flagCacheDir != "" {
		return flagCacheDir, nil
	}
	return cache.DefaultDir()
}

func runRoot(cmd *cobra.Command, args []string) error {
	oldPath, newPath := args[0], args[1]

	conf, err := buildConf(cmd)
	if err != nil {
		return err
	}

	logger, err := logging.NewLogger(logging.ForDebug(conf.Debug))
	if err != nil {
		return fmt.Errorf("initializing logger: %w", err)
	}
	defer logger.Sync()

	runID := uuid.New().String()
	ctx := logging.WithRunID(context.Background(), runID)
	log := logger.WithRunID(ctx)

	opts := driver.Options{
		OldPath: oldPath,
		NewPath: newPath,
		Conf:    conf,
		Regexes: flagRegexes,
		Ignore:  flagIgnore,
	}

	var c *cache.Cache
	if !flagNoCache {
		dir, err := cacheDir()
		if err != nil {
			return err
		}
		c, err = cache.Open(dir, 64)
		if err != nil {
			log.Warn("disabling cache for this run", zap.Error(err))
			c = nil
		} else {
			defer c.Close()
		}
	}

	exitCode, err := runOnce(log, c, opts)
	if err != nil {
		return err
	}

	if flagWatch {
		log.Info("watch mode enabled, waiting for file changes", zap.String("old", oldPath), zap.String("new", newPath))
		w, err := watch.New(oldPath, newPath, log, func() {
			fmt.Println("\x0c")
			if _, err := runOnce(log, c, opts); err != nil {
				log.Error("rerun failed", zap.Error(err))
			}
		})
		if err != nil {
			return err
		}
		defer w.Close()
		select {}
	}

	pendingExitCode = exitCode
	return nil
}

func runOnce(log *zap.Logger, c *cache.Cache, opts driver.Options) (int, error) {
	key, cacheable := cacheKeyFor(opts)

	if c != nil && cacheable {
		if cached, ok, err := c.Get(key); err == nil && ok {
			log.Debug("cache hit")
			render.NewColorWriter(os.Stdout, flagColor).Write(cached)
			return 1, nil
		}
	}

	res, err := driver.Run(opts)
	if err != nil {
		return 2, err
	}

	if res.Differs {
		cw := render.NewColorWriter(os.Stdout, flagColor)
		cw.Write(res.Output)
		if c != nil && cacheable {
			if err := c.Put(key, res.Output); err != nil {
				log.Warn("could not write cache entry", zap.Error(err))
			}
		}
	}
	return res.ExitCode(), nil
}

// cacheKeyFor hashes both files' content plus the active configuration
// into a cache.Key; cacheable is false when the inputs can't be read
// (the driver will surface that as a normal I/O error).
func cacheKeyFor(opts driver.Options) (cache.Key, bool) {
	oldContent, err1 := os.ReadFile(opts.OldPath)
	newContent, err2 := os.ReadFile(opts.NewPath)
	if err1 != nil || err2 != nil {
		return cache.Key{}, false
	}
	return cache.Key{
		OldHash: cache.HashContent(oldContent),
		NewHash: cache.HashContent(newContent),
		Conf: struct {
			Conf    config.Conf
			Regexes []string
			Ignore  string
		}{opts.Conf, opts.Regexes, opts.Ignore},
	}, true
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		if sderr, ok := err.(*subdifferr.Error); ok {
			fmt.Fprintln(os.Stderr, sderr.Error())
			os.Exit(sderr.ExitCode())
		}
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
	os.Exit(pendingExitCode)
}
