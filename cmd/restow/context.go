package main

import (
	"log/slog"
	"os"
	"strings"
	"sync"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"restow/internal/catalog"
	"restow/internal/config"
	"restow/internal/logging"
	"restow/internal/objectstore"
	"restow/internal/relocate"
	"restow/internal/resolve"
)

type commandContext struct {
	configFlag *string

	configOnce sync.Once
	config     *config.Config
	configErr  error

	// openStore is swapped for an in-memory store in tests.
	openStore func(config.Store) (objectstore.Store, error)
}

func newCommandContext(configFlag *string) *commandContext {
	return &commandContext{
		configFlag: configFlag,
		openStore:  objectstore.NewS3,
	}
}

func (c *commandContext) ensureConfig() (*config.Config, error) {
	c.configOnce.Do(func() {
		var path string
		if c.configFlag != nil {
			path = strings.TrimSpace(*c.configFlag)
		}
		cfg, _, _, err := config.Load(path)
		if err != nil {
			c.configErr = err
			return
		}
		if err := cfg.EnsureDirectories(); err != nil {
			c.configErr = err
			return
		}
		c.config = cfg
	})
	return c.config, c.configErr
}

// cliServices bundles the dependencies a subcommand needs for one invocation.
type cliServices struct {
	cfg      *config.Config
	logger   *slog.Logger
	catalog  *catalog.Store
	store    objectstore.Store
	resolver *resolve.Resolver
	executor *relocate.Executor
}

func (c *commandContext) withServices(fn func(*cliServices) error) error {
	cfg, err := c.ensureConfig()
	if err != nil {
		return err
	}

	logger, err := newCLILogger(cfg)
	if err != nil {
		return err
	}

	cat, err := catalog.Open(cfg.Catalog.DBPath)
	if err != nil {
		return err
	}
	defer cat.Close()

	store, err := c.openStore(cfg.Store)
	if err != nil {
		return err
	}

	resolver := resolve.New(store, logger, resolve.Options{
		PublicBaseURL:  cfg.Store.PublicBaseURL,
		ListPageSize:   cfg.Reconciler.ListPageSize,
		ListingScanCap: cfg.Reconciler.ListingScanCap,
	})
	executor := relocate.NewExecutor(store, logger, cfg.Store.VerifyDestination)

	return fn(&cliServices{
		cfg:      cfg,
		logger:   logger,
		catalog:  cat,
		store:    store,
		resolver: resolver,
		executor: executor,
	})
}

// newCLILogger builds the shared logger. Console format degrades to JSON when
// stderr is not a terminal so piped output stays machine-readable.
func newCLILogger(cfg *config.Config) (*slog.Logger, error) {
	format := cfg.Logging.Format
	if format == "console" && !stderrIsTerminal() {
		format = "json"
	}
	return logging.NewFileLogger(cfg.Logging.Level, format, cfg.Paths.LogDir)
}

func stderrIsTerminal() bool {
	fd := os.Stderr.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

func shouldSkipConfig(cmd *cobra.Command) bool {
	for c := cmd; c != nil; c = c.Parent() {
		if c.Annotations != nil && c.Annotations["skipConfigLoad"] == "true" {
			return true
		}
	}
	return false
}
