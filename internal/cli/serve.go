package cli

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/matzehuels/filtergraph/internal/api"
	"github.com/matzehuels/filtergraph/pkg/archive"
	"github.com/matzehuels/filtergraph/pkg/cache"
	"github.com/matzehuels/filtergraph/pkg/pipeline"
)

// serveOpts holds the flags of the serve command.
type serveOpts struct {
	addr     string
	redisURL string
	mongoURI string
	mongoDB  string
	prefix   string
	noCache  bool
	timeout  time.Duration
	maxBody  int64
}

// serveCommand creates the serve command running the HTTP API.
func (c *CLI) serveCommand() *cobra.Command {
	opts := serveOpts{
		addr:    ":8080",
		mongoDB: archive.DefaultDatabase,
		timeout: api.DefaultTimeout,
		maxBody: api.DefaultMaxBodyBytes,
	}

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		Long: `Run the HTTP API.

Reports are cached in Redis when --redis is set and in the local cache
directory otherwise. They are archived in MongoDB when --mongo is set and in
the local report directory otherwise.

Deployments sharing one Redis keep their reports apart with --cache-prefix.

Examples:
  filtergraph serve --addr :9000
  filtergraph serve --redis redis://localhost:6379/0 --mongo mongodb://localhost:27017
  filtergraph serve --redis redis://cache:6379/0 --cache-prefix staging`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runServe(cmd.Context(), opts)
		},
	}

	cmd.Flags().StringVar(&opts.addr, "addr", opts.addr, "listen address")
	cmd.Flags().StringVar(&opts.redisURL, "redis", "", "Redis URL for the report cache")
	cmd.Flags().StringVar(&opts.mongoURI, "mongo", "", "MongoDB URI for the report archive")
	cmd.Flags().StringVar(&opts.mongoDB, "mongo-db", opts.mongoDB, "MongoDB database name")
	cmd.Flags().StringVar(&opts.prefix, "cache-prefix", "", "namespace for cache keys")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "disable caching")
	cmd.Flags().DurationVar(&opts.timeout, "timeout", opts.timeout, "per-request timeout")
	cmd.Flags().Int64Var(&opts.maxBody, "max-body", opts.maxBody, "maximum request body size in bytes")

	return cmd
}

func (c *CLI) runServe(ctx context.Context, opts serveOpts) error {
	runner, err := c.newServeRunner(ctx, opts)
	if err != nil {
		return err
	}
	defer runner.Close()

	srv := api.NewServer(runner, api.Config{
		Addr:         opts.addr,
		MaxBodyBytes: opts.maxBody,
		Timeout:      opts.timeout,
		Logger:       c.Logger,
	})
	printInfo("Serving on %s", StyleLink.Render("http://"+listenHost(opts.addr)))
	return srv.ListenAndServe(ctx)
}

// newServeRunner picks the cache and archive backends from opts.
func (c *CLI) newServeRunner(ctx context.Context, opts serveOpts) (*pipeline.Runner, error) {
	var (
		rc  cache.Cache
		err error
	)
	switch {
	case opts.noCache:
		rc = cache.NewNullCache()
	case opts.redisURL != "":
		rc, err = cache.NewRedisCache(opts.redisURL)
		if err != nil {
			return nil, fmt.Errorf("redis cache: %w", err)
		}
		c.Logger.Info("using redis cache")
	default:
		rc, err = newCache(false)
		if err != nil {
			return nil, err
		}
	}
	runner := pipeline.NewRunner(rc, serveKeyer(opts.prefix), c.Logger)

	if opts.mongoURI != "" {
		store, err := archive.NewMongoStore(ctx, opts.mongoURI, opts.mongoDB)
		if err != nil {
			runner.Close()
			return nil, fmt.Errorf("mongo archive: %w", err)
		}
		c.Logger.Info("using mongo archive", "database", opts.mongoDB)
		runner.Store = store
		return runner, nil
	}

	store, err := newStore()
	if err != nil {
		runner.Close()
		return nil, fmt.Errorf("report archive: %w", err)
	}
	runner.Store = store
	return runner, nil
}

// serveKeyer scopes cache keys under prefix ("staging" becomes
// "staging:report:<hash>"). An empty prefix keeps the default keys.
func serveKeyer(prefix string) cache.Keyer {
	prefix = strings.TrimSuffix(strings.TrimSpace(prefix), ":")
	if prefix == "" {
		return cache.NewDefaultKeyer()
	}
	return cache.NewScopedKeyer(cache.NewDefaultKeyer(), prefix+":")
}

// listenHost turns ":8080" into "localhost:8080" for display.
func listenHost(addr string) string {
	if len(addr) > 0 && addr[0] == ':' {
		return "localhost" + addr
	}
	return addr
}
