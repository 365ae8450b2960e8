// Command lensctl drives a real Chromium page through a BrowserLens session
// and prints successive Observations as JSON — a thin demo harness, the
// analogue of the teacher's cmd/agent without its LLM planning loop.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/mkrivchun/browserlens/internal/browser"
	"github.com/mkrivchun/browserlens/internal/page"
	"github.com/mkrivchun/browserlens/internal/session"
)

type cliOptions struct {
	url       string
	steps     int
	interval  time.Duration
	headless  bool
	forceFull bool
}

func main() {
	_ = godotenv.Load()
	opts := parseFlags()

	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	if opts.url == "" {
		log.Fatal().Msg("-url is required")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	launcher, err := browser.NewLauncher(ctx, &opts.headless)
	if err != nil {
		log.Fatal().Err(err).Msg("browser init")
	}
	defer launcher.Close()

	pg, err := launcher.NewPage("")
	if err != nil {
		log.Fatal().Err(err).Msg("new page")
	}
	if _, err := pg.Goto(opts.url); err != nil {
		log.Fatal().Err(err).Str("url", opts.url).Msg("navigate")
	}

	handle := page.NewPlaywrightHandle(pg)

	cfg := session.DefaultConfig()
	cfg.Logger = log.With().Str("comp", "session").Logger()
	sess, err := session.New(cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("session config")
	}

	for i := 0; i < opts.steps; i++ {
		if err := ctx.Err(); err != nil {
			break
		}
		obs, err := sess.Observe(ctx, handle, session.ObserveOptions{ForceFull: opts.forceFull && i == 0})
		if err != nil {
			log.Error().Err(err).Int("step", i).Str("state", string(sess.State())).Msg("observe failed")
			time.Sleep(opts.interval)
			continue
		}
		out, err := json.Marshal(obs)
		if err != nil {
			log.Error().Err(err).Msg("marshal observation")
			continue
		}
		fmt.Println(string(out))
		time.Sleep(opts.interval)
	}
}

func parseFlags() cliOptions {
	url := flag.String("url", "", "Page URL to observe")
	steps := flag.Int("steps", 5, "Number of observe() calls to make")
	interval := flag.Duration("interval", 2*time.Second, "Delay between observations")
	headless := flag.Bool("headless", true, "Run Chromium headless")
	forceFull := flag.Bool("force-full", false, "Force a full emission on the first observation")
	flag.Parse()
	return cliOptions{
		url:       strings.TrimSpace(*url),
		steps:     *steps,
		interval:  *interval,
		headless:  *headless,
		forceFull: *forceFull,
	}
}
