package helpers

import (
	"context"
	"encoding/json"
	"net"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/davidnwogucodes/sadaora/model"
	"github.com/google/uuid"
	natsserver "github.com/nats-io/nats-server/v2/test"
	"github.com/nats-io/nats.go"
	"github.com/openzipkin/zipkin-go/reporter/recorder"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/test/bufconn"
)

func TestGenerate(t *testing.T) {
	a, b := Generate(), Generate()
	require.NotEqual(t, a, b)
	_, err := uuid.Parse(a)
	require.NoError(t, err)
}

func TestPublisherSendsFollowEvents(t *testing.T) {
	srv := natsserver.RunRandClientPortServer()
	defer srv.Shutdown()

	sub, err := nats.Connect(srv.ClientURL())
	require.NoError(t, err)
	defer sub.Close()

	received := make(chan *nats.Msg, 1)
	_, err = sub.ChanSubscribe(SubjectFollow, received)
	require.NoError(t, err)
	require.NoError(t, sub.Flush())

	p := InitNATS(srv.ClientURL(), nil)
	defer p.Close()
	p.Publish(SubjectFollow, model.Message{Type: "follow", From: "a", To: "b"})
	require.NoError(t, p.conn.Flush())

	select {
	case msg := <-received:
		var got model.Message
		require.NoError(t, json.Unmarshal(msg.Data, &got))
		require.Equal(t, model.Message{Type: "follow", From: "a", To: "b"}, got)
	case <-time.After(2 * time.Second):
		t.Fatal("no message received")
	}
}

func TestPublisherWithoutConnection(t *testing.T) {
	p := InitNATS("", nil)
	p.Publish(SubjectUnfollow, model.Message{Type: "unfollow"})
	p.Close()

	var nilPublisher *Publisher
	nilPublisher.Publish(SubjectUnfollow, model.Message{})
}

func TestTracingRecordsServerAndClientSpans(t *testing.T) {
	rec := recorder.NewReporter()
	tracing, err := NewTracing("test", "localhost:0", rec)
	require.NoError(t, err)
	defer tracing.Close()

	handler := tracing.Middleware()(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))
	srv := httptest.NewServer(handler)
	defer srv.Close()

	transport, err := tracing.Transport(nil)
	require.NoError(t, err)

	res, err := (&http.Client{Transport: transport}).Get(srv.URL)
	require.NoError(t, err)
	res.Body.Close()
	require.Equal(t, http.StatusNoContent, res.StatusCode)

	require.Eventually(t, func() bool {
		return len(rec.Flush()) > 0
	}, time.Second, 10*time.Millisecond)
}

func TestMetricsMiddleware(t *testing.T) {
	m := NewMetrics()
	handler := m.Middleware(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	for _, path := range []string{"/feed", "/feed", "/metrics"} {
		handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, path, nil))
	}
	m.IncrementFollow("follow")

	require.Equal(t, 2.0, testutil.ToFloat64(m.requestsTotal))
	require.Equal(t, 1.0, testutil.ToFloat64(m.followActions.WithLabelValues("follow")))

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Contains(t, rec.Body.String(), "follow_actions_total")
}

func TestHealthServer(t *testing.T) {
	lis := bufconn.Listen(1 << 20)
	server, _ := NewHealthServer()
	go server.Serve(lis)
	defer server.Stop()

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	conn, err := grpc.DialContext(ctx, "bufnet",
		grpc.WithContextDialer(func(context.Context, string) (net.Conn, error) { return lis.Dial() }),
		grpc.WithTransportCredentials(insecure.NewCredentials()),
	)
	require.NoError(t, err)
	defer conn.Close()

	res, err := healthpb.NewHealthClient(conn).Check(ctx, &healthpb.HealthCheckRequest{})
	require.NoError(t, err)
	require.Equal(t, healthpb.HealthCheckResponse_SERVING, res.GetStatus())
}

type countingRanker struct{ calls atomic.Int32 }

func (r *countingRanker) RankProfiles(context.Context) (int64, error) {
	r.calls.Add(1)
	return 0, nil
}

func TestStartRanking(t *testing.T) {
	ranker := &countingRanker{}
	c, err := StartRanking(ranker, "@every 1s", time.Second, nil)
	require.NoError(t, err)
	defer c.Stop()

	require.Eventually(t, func() bool { return ranker.calls.Load() > 0 }, 3*time.Second, 50*time.Millisecond)

	_, err = StartRanking(ranker, "not a spec", time.Second, nil)
	require.Error(t, err)
}
