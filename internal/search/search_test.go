package search

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/api/option"

	"github.com/ppiankov/veritas/internal/model"
)

type stubProvider struct {
	name       string
	configured bool
	items      []model.EvidenceItem
	err        error
	delay      time.Duration
	calls      int32
	lastQuery  Query
}

func (s *stubProvider) Name() string     { return s.name }
func (s *stubProvider) Configured() bool { return s.configured }

func (s *stubProvider) Search(ctx context.Context, q Query) ([]model.EvidenceItem, error) {
	atomic.AddInt32(&s.calls, 1)
	s.lastQuery = q
	if s.delay > 0 {
		select {
		case <-time.After(s.delay):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	return s.items, s.err
}

func TestSerpAPI_Search(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Narendra Modi", r.URL.Query().Get("q"))
		assert.Equal(t, "test-key", r.URL.Query().Get("api_key"))
		assert.Equal(t, "5", r.URL.Query().Get("num"))
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"organic_results":[
			{"title":"Modi addresses rally","link":"https://www.reuters.com/world/india/x","snippet":"Prime Minister spoke"},
			{"title":"Profile","link":"https://en.wikipedia.org/wiki/Narendra_Modi","snippet":"Indian politician"}
		]}`))
	}))
	defer server.Close()

	provider := NewSerpAPI("test-key", server.URL, server.Client())
	require.True(t, provider.Configured())

	items, err := provider.Search(context.Background(), Query{Claim: "Narendra Modi is alive", Text: "Narendra Modi", Limit: 5})
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, "Modi addresses rally", items[0].Title)
	assert.Equal(t, "https://www.reuters.com/world/india/x", items[0].URL)
}

func TestSerpAPI_ErrorStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "quota exceeded", http.StatusTooManyRequests)
	}))
	defer server.Close()

	provider := NewSerpAPI("test-key", server.URL, server.Client())
	_, err := provider.Search(context.Background(), Query{Text: "x", Limit: 5})
	assert.Error(t, err)
}

func TestSerpAPI_NotConfigured(t *testing.T) {
	for _, key := range []string{"", "YOUR_SERPAPI_KEY", "demo"} {
		assert.False(t, NewSerpAPI(key, "", nil).Configured(), "key %q", key)
	}
}

func TestGoogleCSE_Search(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "engine-1", r.URL.Query().Get("cx"))
		assert.Equal(t, "Paris capital France", r.URL.Query().Get("q"))
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"items":[{"title":"Paris","link":"https://www.britannica.com/place/Paris","snippet":"Paris is the capital of France."}]}`))
	}))
	defer server.Close()

	provider := NewGoogleCSE("google-key", "engine-1",
		option.WithEndpoint(server.URL+"/"),
		option.WithHTTPClient(server.Client()))
	require.True(t, provider.Configured())

	items, err := provider.Search(context.Background(), Query{Text: "Paris capital France", Limit: 5})
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "Paris is the capital of France.", items[0].Snippet)
}

func TestGoogleCSE_NeedsEngineID(t *testing.T) {
	assert.False(t, NewGoogleCSE("google-key", "").Configured())
}

func TestGateway_SimulatedWhenUnconfigured(t *testing.T) {
	gw := NewGateway([]Provider{
		&stubProvider{name: "serpapi"},
		&stubProvider{name: "google_cse"},
	}, nil)

	assert.False(t, gw.Configured())

	items := gw.Search(context.Background(), "Narendra Modi is alive and well in the capital")
	require.Len(t, items, 1)
	assert.Equal(t, "Search result for: Narendra Modi is alive and well in the capital...", items[0].Title)
	assert.Equal(t, "example.com", items[0].Domain)
	assert.Equal(t, "simulated", items[0].Provider)
}

func TestGateway_FirstConfiguredWins(t *testing.T) {
	first := &stubProvider{name: "serpapi", configured: false}
	second := &stubProvider{name: "google_cse", configured: true, items: []model.EvidenceItem{
		{Title: "<b>Bold</b> &amp; title", Snippet: "a  <i>snippet</i>", URL: "https://www.apnews.com/article/1"},
	}}
	third := &stubProvider{name: "other", configured: true}

	gw := NewGateway([]Provider{first, second, third}, nil)
	items := gw.Search(context.Background(), "President announced new tariffs")

	require.Len(t, items, 1)
	assert.Equal(t, "Bold & title", items[0].Title)
	assert.Equal(t, "a snippet", items[0].Snippet)
	assert.Equal(t, "www.apnews.com", items[0].Domain)
	assert.Equal(t, model.TierPrimary, items[0].Authority)
	assert.Equal(t, "google_cse", items[0].Provider)
	assert.Equal(t, int32(0), atomic.LoadInt32(&first.calls))
	assert.Equal(t, int32(0), atomic.LoadInt32(&third.calls))
	assert.Equal(t, "President announced", second.lastQuery.Text)
}

func TestGateway_TruncatesResults(t *testing.T) {
	var items []model.EvidenceItem
	for i := 0; i < 9; i++ {
		items = append(items, model.EvidenceItem{Title: "t", URL: "https://example.org"})
	}
	gw := NewGateway([]Provider{&stubProvider{name: "p", configured: true, items: items}}, nil)

	assert.Len(t, gw.Search(context.Background(), "Claim text"), model.MaxEvidenceItems)
}

func TestGateway_FailureDegradesToEmpty(t *testing.T) {
	failing := &stubProvider{name: "serpapi", configured: true, err: errors.New("connection refused")}
	backup := &stubProvider{name: "google_cse", configured: true, items: []model.EvidenceItem{{Title: "x"}}}

	gw := NewGateway([]Provider{failing, backup}, nil)
	items := gw.Search(context.Background(), "Some claim")

	assert.Empty(t, items)
	assert.Equal(t, int32(0), atomic.LoadInt32(&backup.calls))
}

func TestGateway_Timeout(t *testing.T) {
	slow := &stubProvider{name: "serpapi", configured: true, delay: time.Second, items: []model.EvidenceItem{{Title: "late"}}}
	gw := NewGateway([]Provider{slow}, nil, WithTimeout(20*time.Millisecond))

	start := time.Now()
	items := gw.Search(context.Background(), "Slow claim")
	assert.Empty(t, items)
	assert.Less(t, time.Since(start), 500*time.Millisecond)
}

type countingPacer struct{ calls map[string]int }

func (p *countingPacer) Wait(_ context.Context, provider string) error {
	p.calls[provider]++
	return nil
}

func TestGateway_PacesExternalProvidersOnly(t *testing.T) {
	pacer := &countingPacer{calls: map[string]int{}}

	gw := NewGateway(nil, nil, WithPacer(pacer))
	gw.Search(context.Background(), "Claim one")
	assert.Empty(t, pacer.calls)

	gw = NewGateway([]Provider{&stubProvider{name: "serpapi", configured: true}}, nil, WithPacer(pacer))
	gw.Search(context.Background(), "Claim one")
	gw.Search(context.Background(), "Claim two")
	assert.Equal(t, 2, pacer.calls["serpapi"])
}

func TestQueryBuilder_Build(t *testing.T) {
	clock := func() time.Time { return time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC) }
	builder := NewQueryBuilder(clock, nil)

	tests := []struct {
		claim    string
		expected string
	}{
		{"Narendra Modi is alive", "Narendra Modi"},
		{"The president announced 300 new jobs", "president announced 300"},
		{"the cat sat on the mat", ""},
		{"Yesterday the mayor of Springfield died", "Yesterday Springfield died 2026"},
		{"prices rose recently", "2026"},
		{"A B C D E F G H I J", "B C D E F G H I"},
	}

	for _, tt := range tests {
		t.Run(tt.claim, func(t *testing.T) {
			assert.Equal(t, tt.expected, builder.Build(tt.claim))
		})
	}
}

type fixedEntities []string

func (f fixedEntities) Entities(string) []string { return f }

func TestQueryBuilder_EntityEnrichment(t *testing.T) {
	builder := NewQueryBuilder(nil, fixedEntities{"new delhi"})
	assert.Equal(t, "new delhi", builder.Build("flooding hit new delhi"))
}
