// Command discover browses the discover feed from a terminal.
//
// It reads commands from stdin:
//
//	more              load the next page
//	filter <a, b>     show profiles with one of the interests
//	clear             remove the filter
//	follow <id>       follow a profile
//	unfollow <id>     unfollow a profile
//	retry             fetch the page which failed last
//	me                show your profile
//	quit              log out and exit
package main

import (
	"bufio"
	"context"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/davidnwogucodes/sadaora/client"
	"github.com/davidnwogucodes/sadaora/config"
	"github.com/davidnwogucodes/sadaora/feed"
	"github.com/davidnwogucodes/sadaora/helpers"
	"github.com/davidnwogucodes/sadaora/session"
	"github.com/joho/godotenv"
)

func main() {
	// Get key-value in .env file
	godotenv.Load()
	cfg := config.ClientFromEnv()

	sess, err := session.New(cfg.Token)
	if err != nil {
		log.Fatalf("Cannot open session, set DISCOVER_TOKEN: %v", err)
	}
	// logging out
	defer sess.Close()

	tracing, err := helpers.NewTracing("discover-cli", "localhost:0", helpers.NewReporter(cfg.ZipkinAddress))
	if err != nil {
		log.Fatalf("Cannot create tracer: %v", err)
	}
	defer tracing.Close()

	transport, err := tracing.Transport(http.DefaultTransport)
	if err != nil {
		log.Fatalf("Cannot create traced transport: %v", err)
	}

	api, err := client.New(cfg.APIURL, sess, client.WithTransport(transport), client.WithTimeout(cfg.Timeout))
	if err != nil {
		log.Fatalf("Invalid DISCOVER_API_URL: %v", err)
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn}))
	engine := feed.New(api, feed.Options{
		Lookups: cfg.Lookups,
		Timeout: cfg.Timeout,
		Logger:  logger,
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		if err := engine.Run(ctx); err != nil && ctx.Err() == nil {
			log.Printf("Feed engine stopped: %v", err)
		}
	}()

	term := newTerminal(engine, api, os.Stdout)
	go engine.Watch(ctx, term.viewport)
	go term.render(ctx, engine.Changes())

	log.Println("Signed in as", sess.Subject())

	lines := make(chan string)
	go func() {
		defer close(lines)
		scanner := bufio.NewScanner(os.Stdin)
		for scanner.Scan() {
			lines <- scanner.Text()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return
		case line, ok := <-lines:
			if !ok || term.handle(ctx, line) {
				return
			}
		}
	}
}
