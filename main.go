package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/davidnwogucodes/sadaora/config"
	"github.com/davidnwogucodes/sadaora/database"
	"github.com/davidnwogucodes/sadaora/helpers"
	"github.com/davidnwogucodes/sadaora/model"
	"github.com/davidnwogucodes/sadaora/router"
	"github.com/joho/godotenv"
)

func main() {
	mint := flag.String("mint", "", "print a development token for the given profile id and exit")
	seed := flag.String("seed", "", "create the profiles listed in a JSON file before serving")
	flag.Parse()

	// Get key-value in .env file
	godotenv.Load()
	cfg := config.ServerFromEnv()

	auth := helpers.NewAuth(cfg.JWTSecret)
	if *mint != "" {
		token, err := auth.CreateToken(*mint, 24*time.Hour)
		if err != nil {
			log.Fatalf("Cannot create token: %v", err)
		}
		fmt.Println(token)
		return
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Init database
	graph, err := database.Init(ctx, cfg.GraphURL, cfg.GraphUsername, cfg.GraphPassword)
	if err != nil {
		log.Fatalf("Cannot connect to graph database: %v", err)
	}
	defer graph.Close(context.Background())

	if *seed != "" {
		n, err := seedProfiles(ctx, graph, *seed)
		if err != nil {
			log.Fatalf("Cannot seed profiles: %v", err)
		}
		log.Println("Seeded", n, "profiles")
	}

	// Init every helpers
	publisher := helpers.InitNATS(cfg.NatsURL, slog.Default())
	defer publisher.Close()

	metrics := helpers.NewMetrics()

	tracing, err := helpers.NewTracing("discover", "localhost:"+cfg.Port, helpers.NewReporter(cfg.ZipkinAddress))
	if err != nil {
		log.Fatalf("Cannot create tracer: %v", err)
	}
	defer tracing.Close()

	// Start ranking job
	ranking, err := helpers.StartRanking(graph, cfg.RankSchedule, time.Minute, slog.Default())
	if err != nil {
		log.Fatalf("Invalid ranking schedule %q: %v", cfg.RankSchedule, err)
	}
	defer ranking.Stop()

	if cfg.GRPCPort != "" {
		grpcServer, _ := helpers.NewHealthServer()
		lis, err := net.Listen("tcp", ":"+cfg.GRPCPort)
		if err != nil {
			log.Fatalf("Cannot listen on gRPC port: %v", err)
		}

		go func() {
			log.Println("gRPC health service is starting on port", cfg.GRPCPort)
			if err := grpcServer.Serve(lis); err != nil {
				log.Printf("gRPC server stopped: %v", err)
			}
		}()
		defer grpcServer.GracefulStop()
	}

	// Create routes
	routes := router.NewRouter(&router.Handler{
		Store:     graph,
		Auth:      auth,
		Cache:     database.NewCache(cfg.MemURL, cfg.FeedCacheTTL),
		Publisher: publisher,
		Metrics:   metrics,
		PageSize:  cfg.PageSize,
		Logger:    slog.Default(),
	})
	routes.Handle("/metrics", metrics.Handler()).Methods(http.MethodGet)

	log.Println("Server is starting on port", cfg.Port)

	// Create web server
	server := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           tracing.Middleware()(metrics.Middleware(routes)),
		ReadHeaderTimeout: 3 * time.Second,
	}

	go func() {
		<-ctx.Done()

		shutdown, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdown); err != nil {
			log.Printf("Shutdown did not complete: %v", err)
		}
	}()

	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		panic(err)
	}
}

type profileCreator interface {
	CreateProfile(ctx context.Context, profile model.Profile) error
}

// seedProfiles creates the profiles of a JSON array file, assigning
// an id to those without one
func seedProfiles(ctx context.Context, graph profileCreator, path string) (int, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return 0, err
	}

	var profiles []model.Profile
	if err := json.Unmarshal(data, &profiles); err != nil {
		return 0, err
	}

	for i, profile := range profiles {
		raw := model.ProfileUpdate{
			Name:      profile.Name,
			Headline:  profile.Headline,
			Bio:       profile.Bio,
			Interests: profile.Interests,
		}
		if profile.PhotoUrl != nil {
			raw.PhotoUrl = *profile.PhotoUrl
		}

		update, ok := router.NormalizeUpdate(raw)
		if !ok {
			return i, fmt.Errorf("profile %d: %s", i, router.ErrorNameRequired)
		}

		id := profile.Id
		if id == "" {
			id = helpers.Generate()
		}

		if err := graph.CreateProfile(ctx, router.ProfileFromUpdate(id, update)); err != nil {
			return i, err
		}
	}

	return len(profiles), nil
}
