package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/graphkit/marquee/internal/server"
	"github.com/graphkit/marquee/pkg/cache"
	"github.com/graphkit/marquee/pkg/pipeline"
	"github.com/graphkit/marquee/pkg/store"
)

// serveCommand creates the serve command.
func (c *CLI) serveCommand() *cobra.Command {
	var (
		addr     string
		backend  string
		storeDir string
		mongoURI string
		mongoDB  string
		redisURL string
		noCache  bool
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the marquee HTTP API",
		Long: `Serve exposes the graph store and selection pipeline over HTTP.

Storage backends:
  memory  in-process, lost on restart (default)
  file    JSON files under --store-dir
  mongo   MongoDB via --mongo-uri

With --redis the layout cache is shared across instances; otherwise a
local file cache is used.`,
		Example: `  marquee serve
  marquee serve --addr :9000 --store file --store-dir ./graphs
  marquee serve --store mongo --mongo-uri mongodb://localhost:27017 --redis redis://localhost:6379/0`,
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := loggerFromContext(cmd.Context())
			ctx := cmd.Context()

			var (
				st  store.Store
				err error
			)
			switch backend {
			case "memory":
				st = store.NewMemoryStore()
			case "file":
				st, err = store.NewFileStore(storeDir)
			case "mongo":
				st, err = store.NewMongoStore(ctx, mongoURI, mongoDB)
			default:
				return fmt.Errorf("unknown store backend %q (memory, file, mongo)", backend)
			}
			if err != nil {
				return err
			}
			defer st.Close()

			var lc cache.Cache
			switch {
			case noCache:
				lc = cache.NewNullCache()
			case redisURL != "":
				lc, err = cache.NewRedisCache(ctx, redisURL)
				if err != nil {
					return err
				}
				lc = cache.Instrumented(lc, "layout")
			default:
				lc, err = newCache(false)
				if err != nil {
					return err
				}
			}
			defer lc.Close()

			srv := server.New(server.Config{
				Addr:   addr,
				Store:  st,
				Runner: pipeline.NewRunner(lc, nil, logger),
				Logger: logger,
			})
			return srv.ListenAndServe()
		},
	}

	cmd.Flags().StringVar(&addr, "addr", ":8080", "listen address")
	cmd.Flags().StringVar(&backend, "store", "memory", "storage backend: memory, file, or mongo")
	cmd.Flags().StringVar(&storeDir, "store-dir", "", "directory for the file backend (default ~/.config/marquee/graphs)")
	cmd.Flags().StringVar(&mongoURI, "mongo-uri", "mongodb://localhost:27017", "MongoDB connection URI")
	cmd.Flags().StringVar(&mongoDB, "mongo-db", "marquee", "MongoDB database name")
	cmd.Flags().StringVar(&redisURL, "redis", "", "Redis URL for a shared layout cache")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable the layout cache")

	return cmd
}
