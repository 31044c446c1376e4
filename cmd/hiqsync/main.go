// Command hiqsync is the one-shot CLI: run a single sync pass or rebuild a
// destination's indices, then exit. Ported from data/src/main.rs's argh CLI
// (version flag, "sync"/"build" subcommands, repeatable -d/-f options) onto
// stdlib flag, since the original CLI surface is itself minimal and nothing
// in the example pack justifies a third-party CLI framework for two
// subcommands.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"hiqsync/internal/cache"
	"hiqsync/internal/config"
	"hiqsync/internal/fetch"
	"hiqsync/internal/hiqerr"
	"hiqsync/internal/logging"
	"hiqsync/internal/model"
	"hiqsync/internal/orchestrator"
	"hiqsync/internal/store"
)

// version is stamped at build time with -ldflags, matching CARGO_PKG_VERSION.
var version = "dev"

// repeatedFlag collects every occurrence of a flag passed more than once,
// e.g. -d mongodb=... -d file=...
type repeatedFlag []string

func (r *repeatedFlag) String() string { return strings.Join(*r, ",") }
func (r *repeatedFlag) Set(v string) error {
	*r = append(*r, v)
	return nil
}

func main() {
	versionFlag := flag.Bool("v", false, "print version and exit")
	level := flag.String("l", "info", "log level")
	flag.Parse()

	if *versionFlag {
		fmt.Println(version)
		return
	}

	args := flag.Args()
	if len(args) == 0 {
		fmt.Fprintln(os.Stderr, "usage: hiqsync [-v] [-l level] <sync|build> [flags]")
		os.Exit(2)
	}

	log := logging.New(*level)
	log.Info().Msg("logger is ready")

	ctx, cancel := withInterruptShutdown(context.Background(), log)
	defer cancel()

	var err error
	switch args[0] {
	case "sync":
		err = runSync(ctx, args[1:], log)
	case "build":
		err = runBuild(ctx, args[1:], log)
	default:
		fmt.Fprintf(os.Stderr, "unknown subcommand %q\n", args[0])
		os.Exit(2)
	}

	if err != nil {
		log.Error().Err(err).Msg("run cmd error")
		os.Exit(1)
	}
}

// withInterruptShutdown turns SIGINT/SIGTERM into a two-level stop: the
// first signal cancels ctx (a soft stop: in-flight fetch/save work may
// finish, no new work starts), and a further signal arriving within 3
// seconds of the previous one exits the process immediately.
func withInterruptShutdown(parent context.Context, log zerolog.Logger) (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(parent)

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)

	go func() {
		const hardStopWindow = 3 * time.Second
		var last time.Time
		for range sigCh {
			now := time.Now()
			if !last.IsZero() && now.Sub(last) <= hardStopWindow {
				log.Warn().Msg("second ctrl-c, exiting immediately")
				os.Exit(1)
			}
			if last.IsZero() {
				log.Info().Msg("capture ctrl-c, shutting down; press again within 3s to exit immediately")
				cancel()
			}
			last = now
		}
	}()

	return ctx, cancel
}

func runSync(ctx context.Context, args []string, log zerolog.Logger) error {
	fs := flag.NewFlagSet("sync", flag.ExitOnError)
	skipBasic := fs.Bool("s", false, "skip syncing basic reference data")
	concurrent := fs.Int("c", 4, "concurrent fetch task count")
	splitCount := fs.Int("split", 5, "stock population split count for heavy syncers")
	var dests repeatedFlag
	var funcs repeatedFlag
	fs.Var(&dests, "d", "destination, '<kind>=<url>', repeatable")
	fs.Var(&funcs, "f", "dataset name to sync, repeatable; omit to sync everything")
	if err := fs.Parse(args); err != nil {
		return err
	}

	cfg := config.Load()
	cfg.TaskCount = *concurrent
	cfg.SplitCount = *splitCount

	for _, name := range funcs {
		if _, err := model.ParseDataType(name); err != nil {
			return err
		}
	}
	var funcNames []string
	if len(funcs) > 0 {
		funcNames = []string(funcs)
	}

	stores, closeAll, err := buildStores(ctx, cfg, dests, funcNames, *skipBasic, log)
	if err != nil {
		return err
	}
	defer closeAll(ctx)

	orch := orchestrator.New(stores, cfg.TaskCount, log)
	res := orch.Run(ctx, *skipBasic)
	log.Info().Err(res).Msg("sync done")
	return res
}

func runBuild(ctx context.Context, args []string, log zerolog.Logger) error {
	fs := flag.NewFlagSet("build", flag.ExitOnError)
	var dests repeatedFlag
	fs.Var(&dests, "d", "destination, '<kind>=<url>', repeatable")
	if err := fs.Parse(args); err != nil {
		return err
	}

	log.Info().Strs("dest", []string(dests)).Msg("build index")

	cfg := config.Load()
	stores, closeAll, err := buildStores(ctx, cfg, dests, nil, true, log)
	if err != nil {
		return err
	}
	defer closeAll(ctx)

	for typ, st := range stores {
		if err := st.BuildIndex(ctx); err != nil {
			return fmt.Errorf("build index for %s: %w", typ, err)
		}
	}
	return nil
}

// buildStores parses each "<kind>=<url>" dest spec, constructs and
// initializes one store per destination, and returns a cleanup func that
// closes them all.
func buildStores(ctx context.Context, cfg *config.Config, destSpecs []string, funcNames []string, skipBasic bool, log zerolog.Logger) (map[model.DestType]store.Store, func(context.Context), error) {
	if len(destSpecs) == 0 {
		return nil, nil, fmt.Errorf("hiqsync: at least one -d destination is required")
	}

	f := fetch.New(cfg.FetchBaseURL, cfg.FetchTimeout)

	var warm *cache.WarmPopulator
	if cfg.RedisURL != "" || cfg.RedisHost != "" {
		redisStore, err := cache.NewRedisStore(cache.RedisOptions{
			URL:      cfg.RedisURL,
			Host:     cfg.RedisHost,
			Port:     cfg.RedisPort,
			Password: cfg.RedisPassword,
		}, log)
		if err != nil {
			log.Warn().Err(err).Msg("redis warm cache unavailable, falling back to live population every run")
		} else {
			warm = &cache.WarmPopulator{Redis: redisStore, TTL: cfg.CacheTTL, Log: log}
		}
	}
	if warm == nil {
		warm = &cache.WarmPopulator{Log: log}
	}

	stores := make(map[model.DestType]store.Store, len(destSpecs))
	for _, spec := range destSpecs {
		parts := strings.SplitN(spec, "=", 2)
		if len(parts) != 2 {
			return nil, nil, fmt.Errorf("hiqsync: invalid dest format %q, want <kind>=<url>", spec)
		}
		kind, url := parts[0], parts[1]

		dt, err := model.ParseDestKind(kind)
		if err != nil {
			return nil, nil, err
		}

		st, err := store.NewStore(dt, url, cfg, f, warm, funcNames, logging.Component(log, dt.String()))
		if err != nil {
			return nil, nil, fmt.Errorf("build store %s: %w", kind, err)
		}
		if err := st.Init(ctx, skipBasic); err != nil {
			if err == hiqerr.ErrNotImplemented {
				return nil, nil, fmt.Errorf("destination %q is not implemented yet", kind)
			}
			return nil, nil, fmt.Errorf("init store %s: %w", kind, err)
		}
		stores[dt] = st
	}

	closeAll := func(ctx context.Context) {
		for typ, st := range stores {
			if err := st.Close(ctx); err != nil {
				log.Warn().Err(err).Str("dest", typ.String()).Msg("error closing store")
			}
		}
	}
	return stores, closeAll, nil
}
