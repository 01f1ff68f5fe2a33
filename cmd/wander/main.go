package main

import (
	"context"
	"os"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"

	"github.com/mycok/wander/httpfetch"
	"github.com/mycok/wander/httpfetch/privnet"
	"github.com/mycok/wander/pagerank"
	"github.com/mycok/wander/service"
	crawlersvc "github.com/mycok/wander/service/crawler"
	frontendsvc "github.com/mycok/wander/service/frontend"
	indexersvc "github.com/mycok/wander/service/indexer"
	"github.com/mycok/wander/service/pprof"
	"github.com/mycok/wander/textproc"
)

var (
	appName = "wander"
	appSHA  = "latest-app-git-sha" // Populated by the compiler at the linking stage.
	logger  *logrus.Entry
)

func main() {
	host, _ := os.Hostname()
	rootLogger := logrus.New()
	rootLogger.SetFormatter(new(logrus.JSONFormatter))
	logger = rootLogger.WithFields(logrus.Fields{
		"app":  appName,
		"sha":  appSHA,
		"host": host,
	})

	// Values from .env never override variables already set.
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		logger.WithField("err", err).Warn("ignoring unreadable .env file")
	}

	if err := newApp().Run(os.Args); err != nil {
		logger.WithField("err", err).Error("shutting down due to an error")
		_ = os.Stderr.Sync()

		os.Exit(1)
	}
}

func newApp() *cli.App {
	app := cli.NewApp()
	app.Name = appName
	app.Usage = "crawl, index and search a corner of the web"
	app.Version = appSHA
	app.Flags = []cli.Flag{
		&cli.StringFlag{
			Name:    "store-uri",
			Value:   "file://data",
			EnvVars: []string{"STORE_URI"},
			Usage:   "URI of the dataset store [supported URI's: file:///path/to/dir, postgresql://user@host:26257/wander?sslmode=disable]",
		},
		&cli.StringFlag{
			Name:    "lemmatizer",
			Value:   "dictionary",
			EnvVars: []string{"LEMMATIZER"},
			Usage:   "Keyword normalisation: dictionary, snowball, porter or none. Crawl and serve must agree",
		},
		&cli.StringFlag{
			Name:    "pprof-addr",
			EnvVars: []string{"PPROF_ADDR"},
			Usage:   "Address for exposing pprof endpoints; disabled when empty",
		},
		&cli.StringFlag{
			Name:    "log-level",
			Value:   "info",
			EnvVars: []string{"LOG_LEVEL"},
			Usage:   "Minimum level of logged events",
		},
	}
	app.Before = func(appCtx *cli.Context) error {
		level, err := logrus.ParseLevel(appCtx.String("log-level"))
		if err != nil {
			return err
		}

		logger.Logger.SetLevel(level)

		return nil
	}
	app.Commands = []*cli.Command{
		crawlCommand(),
		indexCommand(),
		serveCommand(),
	}

	return app
}

func crawlCommand() *cli.Command {
	return &cli.Command{
		Name:  "crawl",
		Usage: "Crawl breadth-first from a seed URL and store the keyword index and link graph",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:     "seed",
				EnvVars:  []string{"CRAWL_SEED"},
				Required: true,
				Usage:    "URL the crawl starts from",
			},
			&cli.IntFlag{
				Name:    "max-pages",
				EnvVars: []string{"CRAWL_MAX_PAGES"},
				Usage:   "Stop after this many fetched pages; 0 means no limit",
			},
			&cli.DurationFlag{
				Name:    "update-interval",
				EnvVars: []string{"CRAWL_UPDATE_INTERVAL"},
				Usage:   "Time between subsequent crawl passes; 0 runs a single pass",
			},
			&cli.StringFlag{
				Name:    "user-agent",
				Value:   httpfetch.DefaultUserAgent,
				EnvVars: []string{"CRAWL_USER_AGENT"},
				Usage:   "User-Agent header sent with every request",
			},
			&cli.DurationFlag{
				Name:    "fetch-timeout",
				Value:   httpfetch.DefaultTimeout,
				EnvVars: []string{"CRAWL_FETCH_TIMEOUT"},
				Usage:   "Timeout of a single page fetch",
			},
			&cli.BoolFlag{
				Name:    "block-private-networks",
				EnvVars: []string{"CRAWL_BLOCK_PRIVATE_NETWORKS"},
				Usage:   "Refuse to fetch hosts that resolve to private network addresses",
			},
		},
		Action: func(appCtx *cli.Context) error {
			store, closeStore, err := openStore(appCtx.String("store-uri"), logger)
			if err != nil {
				return err
			}
			defer func() { _ = closeStore() }()

			fetcher, err := newFetcher(appCtx)
			if err != nil {
				return err
			}

			lem, err := textproc.LemmatizerByName(appCtx.String("lemmatizer"))
			if err != nil {
				return err
			}

			svc, err := crawlersvc.New(crawlersvc.Config{
				Fetcher:        fetcher,
				Store:          store,
				Lemmatizer:     lem,
				Seed:           appCtx.String("seed"),
				MaxPages:       appCtx.Int("max-pages"),
				UpdateInterval: appCtx.Duration("update-interval"),
				Logger:         logger.WithField("service", "crawler"),
			})
			if err != nil {
				return err
			}

			return runServices(appCtx, svc)
		},
	}
}

func indexCommand() *cli.Command {
	return &cli.Command{
		Name:  "index",
		Usage: "Compute TF-IDF weights and PageRank scores from the stored crawl",
		Flags: []cli.Flag{
			&cli.IntFlag{
				Name:    "tfidf-workers",
				Value:   runtime.NumCPU(),
				EnvVars: []string{"TFIDF_WORKERS"},
				Usage:   "Number of workers computing TF-IDF weights",
			},
			&cli.IntFlag{
				Name:    "pagerank-workers",
				Value:   runtime.NumCPU(),
				EnvVars: []string{"PAGERANK_WORKERS"},
				Usage:   "Number of workers computing page ranks",
			},
			&cli.Float64Flag{
				Name:    "damping-factor",
				Value:   0.85,
				EnvVars: []string{"PAGERANK_DAMPING_FACTOR"},
				Usage:   "Probability of following a link instead of jumping to a random page",
			},
			&cli.IntFlag{
				Name:    "max-iterations",
				Value:   1000,
				EnvVars: []string{"PAGERANK_MAX_ITERATIONS"},
				Usage:   "Upper bound on PageRank score update rounds",
			},
			&cli.DurationFlag{
				Name:    "update-interval",
				EnvVars: []string{"INDEX_UPDATE_INTERVAL"},
				Usage:   "Time between subsequent index passes; 0 runs a single pass",
			},
		},
		Action: func(appCtx *cli.Context) error {
			store, closeStore, err := openStore(appCtx.String("store-uri"), logger)
			if err != nil {
				return err
			}
			defer func() { _ = closeStore() }()

			svc, err := indexersvc.New(indexersvc.Config{
				CrawlStore:   store,
				RankedStore:  store,
				TFIDFWorkers: appCtx.Int("tfidf-workers"),
				PageRank: pagerank.Config{
					DampingFactor:  appCtx.Float64("damping-factor"),
					MaxIterations:  appCtx.Int("max-iterations"),
					ComputeWorkers: appCtx.Int("pagerank-workers"),
				},
				UpdateInterval: appCtx.Duration("update-interval"),
				Logger:         logger.WithField("service", "indexer"),
			})
			if err != nil {
				return err
			}
			defer func() { _ = svc.Close() }()

			return runServices(appCtx, svc)
		},
	}
}

func serveCommand() *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "Answer POST /search queries against the stored rankings",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "listen-addr",
				Value:   ":8080",
				EnvVars: []string{"LISTEN_ADDR"},
				Usage:   "Address to listen on for incoming search requests",
			},
			&cli.IntFlag{
				Name:    "max-results",
				Value:   10,
				EnvVars: []string{"MAX_RESULTS"},
				Usage:   "Number of results returned per query",
			},
			&cli.IntFlag{
				Name:    "max-description-length",
				Value:   256,
				EnvVars: []string{"MAX_DESCRIPTION_LENGTH"},
				Usage:   "The maximum length of result descriptions in characters",
			},
			&cli.DurationFlag{
				Name:    "fetch-timeout",
				Value:   httpfetch.DefaultTimeout,
				EnvVars: []string{"SERVE_FETCH_TIMEOUT"},
				Usage:   "Timeout of a single result page fetch",
			},
		},
		Action: func(appCtx *cli.Context) error {
			store, closeStore, err := openStore(appCtx.String("store-uri"), logger)
			if err != nil {
				return err
			}
			defer func() { _ = closeStore() }()

			lem, err := textproc.LemmatizerByName(appCtx.String("lemmatizer"))
			if err != nil {
				return err
			}

			svc, err := frontendsvc.New(appCtx.Context, frontendsvc.Config{
				RankedStore: store,
				Fetcher: httpfetch.New(httpfetch.Config{
					Timeout: appCtx.Duration("fetch-timeout"),
				}),
				Lemmatizer:           lem,
				ListenAddr:           appCtx.String("listen-addr"),
				MaxResults:           appCtx.Int("max-results"),
				MaxDescriptionLength: appCtx.Int("max-description-length"),
				Logger:               logger.WithField("service", "frontend"),
			})
			if err != nil {
				return err
			}

			return runServices(appCtx, svc)
		},
	}
}

func newFetcher(appCtx *cli.Context) (*httpfetch.Fetcher, error) {
	cfg := httpfetch.Config{
		UserAgent: appCtx.String("user-agent"),
		Timeout:   appCtx.Duration("fetch-timeout"),
	}

	if appCtx.Bool("block-private-networks") {
		detector, err := privnet.NewDetector()
		if err != nil {
			return nil, err
		}

		cfg.NetDetector = detector
	}

	return httpfetch.New(cfg), nil
}

// runServices executes svc, plus the pprof service when enabled, until
// svc returns or the process receives SIGINT or SIGHUP.
func runServices(appCtx *cli.Context, svc service.Service) error {
	ctx, cancel := context.WithCancel(appCtx.Context)
	defer cancel()

	grp := service.Group{stopOnExit{Service: svc, cancel: cancel}}
	if addr := appCtx.String("pprof-addr"); addr != "" {
		pprofSvc, err := pprof.New(addr, logger.WithField("service", "pprof"))
		if err != nil {
			return err
		}

		grp = append(grp, pprofSvc)
	}

	go func() {
		signalChan := make(chan os.Signal, 1)
		signal.Notify(signalChan, syscall.SIGINT, syscall.SIGHUP)
		defer signal.Stop(signalChan)

		select {
		case s := <-signalChan:
			logger.WithField("signal", s.String()).Info("shutting down due to signal")
			cancel()
		case <-ctx.Done():
		}
	}()

	startedAt := time.Now()
	if err := grp.Execute(ctx); err != nil {
		return err
	}

	logger.WithField("elapsed_time", time.Since(startedAt).String()).Info("shutdown complete")

	return nil
}

// stopOnExit cancels the shared context once the wrapped service returns so
// the pprof service shuts down with it.
type stopOnExit struct {
	service.Service
	cancel context.CancelFunc
}

func (s stopOnExit) Run(ctx context.Context) error {
	defer s.cancel()

	return s.Service.Run(ctx)
}
