// Package config gathers the environment variables read by the
// reference feed service and by the terminal client.
package config

import (
	"os"
	"strconv"
	"time"
)

// Server holds the settings of the reference feed service
type Server struct {
	Port     string // e.g. "3000"
	GRPCPort string // empty disables the gRPC health service

	GraphURL      string
	GraphUsername string
	GraphPassword string

	MemURL        string
	NatsURL       string
	ZipkinAddress string
	JWTSecret     string

	PageSize     int
	FeedCacheTTL time.Duration
	RankSchedule string
}

// Client holds the settings of the terminal client
type Client struct {
	APIURL        string
	Token         string
	Timeout       time.Duration
	Lookups       int
	ZipkinAddress string
}

// ServerFromEnv reads the service configuration.
// godotenv.Load is expected to have run before.
func ServerFromEnv() Server {
	return Server{
		Port:          getenv("PORT", "3000"),
		GRPCPort:      os.Getenv("GRPC_PORT"),
		GraphURL:      getenv("GRAPH_URL", "bolt://localhost:7687"),
		GraphUsername: os.Getenv("GRAPH_USERNAME"),
		GraphPassword: os.Getenv("GRAPH_PASSWORD"),
		MemURL:        getenv("MEM_URL", "127.0.0.1:11211"),
		NatsURL:       os.Getenv("NATS_URL"),
		ZipkinAddress: os.Getenv("ZIPKIN_ADDRESS"),
		JWTSecret:     os.Getenv("JWT_SECRET"),
		PageSize:      getenvi("PAGE_SIZE", 10),
		FeedCacheTTL:  getenvd("FEED_CACHE_TTL", 30*time.Second),
		RankSchedule:  getenv("RANK_SCHEDULE", "@hourly"),
	}
}

// ClientFromEnv reads the terminal client configuration
func ClientFromEnv() Client {
	return Client{
		APIURL:        getenv("DISCOVER_API_URL", "http://localhost:3000/api"),
		Token:         os.Getenv("DISCOVER_TOKEN"),
		Timeout:       getenvd("DISCOVER_TIMEOUT", 10*time.Second),
		Lookups:       getenvi("DISCOVER_LOOKUPS", 8),
		ZipkinAddress: os.Getenv("ZIPKIN_ADDRESS"),
	}
}

func getenv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

func getenvi(k string, def int) int {
	if v := os.Getenv(k); v != "" {
		if iv, err := strconv.Atoi(v); err == nil && iv > 0 {
			return iv
		}
	}
	return def
}

func getenvd(k string, def time.Duration) time.Duration {
	if v := os.Getenv(k); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return def
}
