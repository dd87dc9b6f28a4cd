package observability

import (
	"context"
	"strconv"
	"strings"
	"sync"
	"testing"

	"github.com/DataDog/datadog-go/v5/statsd"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ubie-oss/nslog/core"
	"gopkg.in/DataDog/dd-trace-go.v1/ddtrace/mocktracer"
	"gopkg.in/DataDog/dd-trace-go.v1/ddtrace/tracer"
)

type incrCall struct {
	name string
	tags []string
}

// fakeStatsd registra as chamadas de Incr; o resto vem do NoOpClient
type fakeStatsd struct {
	*statsd.NoOpClient
	mu    sync.Mutex
	incrs []incrCall
}

func newFakeStatsd() *fakeStatsd {
	return &fakeStatsd{NoOpClient: &statsd.NoOpClient{}}
}

func (f *fakeStatsd) Incr(name string, tags []string, rate float64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.incrs = append(f.incrs, incrCall{name: name, tags: tags})
	return nil
}

func TestStatsdObserver_Observe(t *testing.T) {
	tests := []struct {
		severity core.Severity
		metrics  []string
	}{
		{core.VERBOSE, []string{LinesMetric}},
		{core.INFO, []string{LinesMetric}},
		{core.WARN, []string{LinesMetric}},
		{core.ERROR, []string{LinesMetric, ErrorsMetric}},
		{core.FATAL, []string{LinesMetric, ErrorsMetric}},
	}

	for _, tt := range tests {
		t.Run(tt.severity.String(), func(t *testing.T) {
			client := newFakeStatsd()
			observer := NewStatsdObserver(client, "team:core")

			observer.Observe(tt.severity)

			require.Len(t, client.incrs, len(tt.metrics))
			for i, metric := range tt.metrics {
				assert.Equal(t, metric, client.incrs[i].name)
				assert.Equal(t, []string{"team:core", "severity:" + strings.ToLower(tt.severity.String())}, client.incrs[i].tags)
			}
		})
	}
}

func TestStatsdObserver_TagsAreNotShared(t *testing.T) {
	client := newFakeStatsd()
	base := make([]string, 1, 4)
	base[0] = "team:core"
	observer := NewStatsdObserver(client, base...)

	observer.Observe(core.INFO)
	observer.Observe(core.WARN)

	require.Len(t, client.incrs, 2)
	assert.Equal(t, []string{"team:core", "severity:info"}, client.incrs[0].tags)
	assert.Equal(t, []string{"team:core", "severity:warn"}, client.incrs[1].tags)
}

func TestStatsdObserver_NilClient(t *testing.T) {
	observer := NewStatsdObserver(nil)

	assert.NotPanics(t, func() { observer.Observe(core.ERROR) })
}

func TestTraceFields(t *testing.T) {
	mt := mocktracer.Start()
	defer mt.Stop()

	span, ctx := tracer.StartSpanFromContext(context.Background(), "checkout")
	defer span.Finish()

	fields := TraceFields(ctx)

	expected := core.F(
		TraceIDKey, strconv.FormatUint(span.Context().TraceID(), 10),
		SpanIDKey, strconv.FormatUint(span.Context().SpanID(), 10),
	)
	assert.Equal(t, expected, fields)
}

func TestTraceFields_NoSpan(t *testing.T) {
	assert.Empty(t, TraceFields(context.Background()))
	assert.Empty(t, TraceFields(nil))
}

func TestDefaultDatadogConfig(t *testing.T) {
	t.Setenv("DD_DOGSTATSD_URL", "statsd:8125")
	t.Setenv("DD_SERVICE", "billing")
	t.Setenv("DD_ENV", "prod")
	t.Setenv("DD_VERSION", "2.1.0")
	t.Setenv("DD_TAGS", "team:core, region:br ,")

	config := DefaultDatadogConfig()

	assert.Equal(t, "statsd:8125", config.AgentHost)
	assert.Equal(t, []string{"team:core", "region:br"}, config.GlobalTags)
	assert.Equal(t, []string{
		"service:billing", "env:prod", "version:2.1.0", "team:core", "region:br",
	}, config.Tags())
}

func TestDefaultDatadogConfig_Defaults(t *testing.T) {
	for _, key := range []string{"DD_DOGSTATSD_URL", "DD_SERVICE", "DD_ENV", "DD_VERSION", "DD_TAGS"} {
		t.Setenv(key, "")
	}

	config := DefaultDatadogConfig()

	assert.Equal(t, "localhost:8125", config.AgentHost)
	assert.Equal(t, "unknown-service", config.ServiceName)
	assert.Equal(t, "development", config.Environment)
	assert.Equal(t, "1.0.0", config.Version)
	assert.Nil(t, config.GlobalTags)
}

func TestNewStatsdClient(t *testing.T) {
	config := DefaultDatadogConfig()
	config.AgentHost = "127.0.0.1:8125"

	client, err := NewStatsdClient(config)
	require.NoError(t, err)
	defer client.Close()

	observer := NewStatsdObserver(client)
	assert.NotPanics(t, func() { observer.Observe(core.INFO) })
}
