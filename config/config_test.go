package config

import (
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
)

func TestServerFromEnvDefaults(t *testing.T) {
	for _, k := range []string{"PORT", "GRPC_PORT", "GRAPH_URL", "MEM_URL", "PAGE_SIZE", "FEED_CACHE_TTL", "RANK_SCHEDULE"} {
		t.Setenv(k, "")
	}

	got := ServerFromEnv()
	if got.Port != "3000" || got.GRPCPort != "" {
		t.Fatalf("ports = %q/%q, want 3000 and empty", got.Port, got.GRPCPort)
	}
	if got.PageSize != 10 || got.FeedCacheTTL != 30*time.Second || got.RankSchedule != "@hourly" {
		t.Fatalf("unexpected defaults: %+v", got)
	}
}

func TestClientFromEnv(t *testing.T) {
	t.Setenv("DISCOVER_API_URL", "http://api.test")
	t.Setenv("DISCOVER_TOKEN", "tok")
	t.Setenv("DISCOVER_TIMEOUT", "2s")
	t.Setenv("DISCOVER_LOOKUPS", "not-a-number")
	t.Setenv("ZIPKIN_ADDRESS", "")

	want := Client{
		APIURL:  "http://api.test",
		Token:   "tok",
		Timeout: 2 * time.Second,
		Lookups: 8,
	}
	if diff := cmp.Diff(want, ClientFromEnv()); diff != "" {
		t.Errorf("ClientFromEnv() mismatch (-want +got):\n%s", diff)
	}
}
