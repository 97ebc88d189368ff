// Command swipe is a terminal client for the recipe backend: it keeps a
// stack of generated recipe cards and lets you swipe through them.
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/recipeswipers/recipeswipe/internal/client"
	"github.com/recipeswipers/recipeswipe/internal/logging"
	"github.com/recipeswipers/recipeswipe/internal/swipe"
	"github.com/recipeswipers/recipeswipe/internal/types"
)

type options struct {
	backend   string
	username  string
	password  string
	register  bool
	prefsFile string
	maxCards  int
	filters   []string
	logLevel  string
	timeout   time.Duration
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	opts := options{}
	cmd := &cobra.Command{
		Use:   "swipe",
		Short: "Swipe through generated recipes in the terminal",
		Long: `swipe keeps a stack of recipe cards generated by the backend.
Drag or swipe the front card right to save it, left to pass.

Liked recipes are stored on the backend when --username is set, otherwise in
a local JSON file.`,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return runInteractive(ctx, opts, cmd)
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&opts.backend, "backend", "http://localhost:5000", "recipe backend URL")
	flags.StringVarP(&opts.username, "username", "u", "", "log in to keep liked recipes on the backend")
	flags.StringVarP(&opts.password, "password", "p", "", "password for --username (or SWIPE_PASSWORD)")
	flags.BoolVar(&opts.register, "register", false, "create the account before logging in")
	flags.StringVar(&opts.prefsFile, "prefs-file", "recipeswipe-saved.json", "local file for liked recipes when not logged in")
	flags.IntVarP(&opts.maxCards, "cards", "n", swipe.DefaultMaxCards, "number of cards kept in the stack")
	flags.StringArrayVarP(&opts.filters, "filter", "f", nil, "initial filter as key=value (repeatable)")
	flags.StringVar(&opts.logLevel, "log-level", "warn", "log level for engine diagnostics on stderr")
	flags.DurationVar(&opts.timeout, "timeout", 60*time.Second, "timeout for each backend request")
	return cmd
}

func runInteractive(ctx context.Context, opts options, cmd *cobra.Command) error {
	logger, err := logging.New(logging.Config{
		Level:   opts.logLevel,
		Format:  "console",
		Output:  "stderr",
		Service: "recipeswipe-cli",
	})
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	filters, err := parseFilters(opts.filters)
	if err != nil {
		return err
	}

	c := client.New(opts.backend, &http.Client{Timeout: opts.timeout})

	var (
		prefs  swipe.PreferenceStore
		stored filterStore
	)
	if opts.username != "" {
		password := opts.password
		if password == "" {
			password = os.Getenv("SWIPE_PASSWORD")
		}
		if opts.register {
			if err := c.Register(ctx, opts.username, password); err != nil {
				return fmt.Errorf("register: %w", err)
			}
		} else if err := c.Login(ctx, opts.username, password); err != nil {
			return fmt.Errorf("login: %w", err)
		}
		pc := client.NewPreferenceClient(c)
		prefs, stored = pc, pc
		filters = initialFilters(ctx, pc, filters, logger)
	} else {
		prefs = swipe.NewFilePreferences(opts.prefsFile, logger)
	}

	return run(ctx, session{
		source:  client.NewRecipeClient(c),
		prefs:   prefs,
		filters: stored,
		in:      cmd.InOrStdin(),
		out:     cmd.OutOrStdout(),
		logger:  logger,
		options: swipe.Options{MaxCards: opts.maxCards, Filters: filters, Logger: logger.Named("engine")},
	})
}

// initialFilters starts from the user's stored filters; values given with
// --filter win. A failed lookup is logged and the flags are used alone.
func initialFilters(ctx context.Context, store filterStore, flags types.Filters, logger *zap.Logger) types.Filters {
	filters, err := store.Preferences(ctx)
	if err != nil {
		logger.Warn("could not load stored filters", zap.Error(err))
		return flags
	}
	filters = filters.Clone()
	for k, v := range flags {
		filters[k] = v
	}
	return filters
}
