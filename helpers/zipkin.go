package helpers

import (
	"log"
	"net/http"
	"os"

	"github.com/openzipkin/zipkin-go"
	zipkinhttp "github.com/openzipkin/zipkin-go/middleware/http"
	"github.com/openzipkin/zipkin-go/reporter"
	httpreporter "github.com/openzipkin/zipkin-go/reporter/http"
	logreporter "github.com/openzipkin/zipkin-go/reporter/log"
)

// Tracing bundles a zipkin tracer with the reporter
// its spans are sent to
type Tracing struct {
	Tracer   *zipkin.Tracer
	reporter reporter.Reporter
}

// NewReporter chooses where spans go: nowhere when address is empty,
// stderr when address is "log", a zipkin collector otherwise
func NewReporter(address string) reporter.Reporter {
	switch address {
	case "":
		return reporter.NewNoopReporter()
	case "log":
		return logreporter.NewReporter(log.New(os.Stderr, "", log.LstdFlags))
	default:
		return httpreporter.NewReporter("http://" + address + "/api/v2/spans")
	}
}

// NewTracing allows to create a Zipkin tracer
// for the service listening on hostPort
func NewTracing(service, hostPort string, rep reporter.Reporter) (*Tracing, error) {
	// create our local service endpoint
	endpoint, err := zipkin.NewEndpoint(service, hostPort)
	if err != nil {
		return nil, err
	}

	// initialize our tracer
	tracer, err := zipkin.NewTracer(rep, zipkin.WithLocalEndpoint(endpoint))
	if err != nil {
		return nil, err
	}

	return &Tracing{Tracer: tracer, reporter: rep}, nil
}

// Middleware creates the zipkin http server middleware
func (t *Tracing) Middleware() func(http.Handler) http.Handler {
	return zipkinhttp.NewServerMiddleware(
		t.Tracer, zipkinhttp.TagResponseSize(true),
	)
}

// Transport wraps base so every outgoing request is traced
func (t *Tracing) Transport(base http.RoundTripper) (http.RoundTripper, error) {
	if base == nil {
		base = http.DefaultTransport
	}

	return zipkinhttp.NewTransport(t.Tracer, zipkinhttp.RoundTripper(base))
}

// Close flushes and closes the reporter
func (t *Tracing) Close() error {
	return t.reporter.Close()
}
