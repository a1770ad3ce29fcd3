package search

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"healthfinder-go/pkg/models"
)

func testLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetLevel(logrus.WarnLevel)
	return logger
}

// stubProvider returns canned results or a canned error.
type stubProvider struct {
	results map[string][]models.SearchResult
	err     error
	calls   []string
}

func (p *stubProvider) Name() string { return "StubSearchTool" }

func (p *stubProvider) Search(ctx context.Context, query string, maxResults int, searchType string) ([]models.SearchResult, error) {
	p.calls = append(p.calls, query)
	if p.err != nil {
		return nil, p.err
	}
	return p.results[query], nil
}

func (p *stubProvider) HealthCheck(ctx context.Context) error { return p.err }

func stubResult(query, title, url, snippet string) models.SearchResult {
	return models.SearchResult{
		Query:          query,
		Title:          title,
		URL:            url,
		Snippet:        snippet,
		RelevanceScore: 0.5,
		Timestamp:      time.Now().UTC(),
		SourceType:     "general",
		AgentName:      "StubSearchTool",
	}
}

func TestScoreRelevance(t *testing.T) {
	t.Run("high credibility domain adds 0.15", func(t *testing.T) {
		// no term overlap, credibility only
		score := ScoreRelevance("quantum mechanics", "unrelated", "nothing here", "https://cdc.gov/page")
		assert.InDelta(t, 0.15, score, 1e-9)
	})

	t.Run("medium credibility domain adds 0.10", func(t *testing.T) {
		score := ScoreRelevance("quantum mechanics", "unrelated", "nothing here", "https://nytimes.com/article")
		assert.InDelta(t, 0.10, score, 1e-9)
	})

	t.Run("org domains rank as high credibility", func(t *testing.T) {
		score := ScoreRelevance("quantum mechanics", "unrelated", "nothing here", "https://en.wikipedia.org/wiki/Page")
		assert.InDelta(t, 0.15, score, 1e-9, ".org outranks the wikipedia medium entry")
	})

	t.Run("low credibility indicator subtracts 0.05", func(t *testing.T) {
		score := ScoreRelevance("quantum mechanics", "unrelated", "nothing here", "https://someblog.example.com/post")
		assert.InDelta(t, 0.0, score, 1e-9, "negative scores clamp to zero")

		score = ScoreRelevance("quantum", "quantum physics", "nothing here", "https://someblog.example.com/post")
		assert.InDelta(t, 0.35, score, 1e-9, "0.4 title overlap minus 0.05")
	})

	t.Run("unknown domain gets neutral 0.05", func(t *testing.T) {
		score := ScoreRelevance("quantum mechanics", "unrelated", "nothing here", "https://example.com/page")
		assert.InDelta(t, 0.05, score, 1e-9)
	})

	t.Run("full overlap with high credibility", func(t *testing.T) {
		score := ScoreRelevance("diabetes treatment", "diabetes treatment guide", "diabetes treatment overview", "https://cdc.gov/diabetes")
		assert.InDelta(t, 0.85, score, 1e-9, "0.4 + 0.3 + 0.15")
	})

	t.Run("score stays within bounds", func(t *testing.T) {
		score := ScoreRelevance("a b", "a b a b", "a b a b", "https://cdc.gov/a-b")
		assert.LessOrEqual(t, score, 1.0)
		assert.GreaterOrEqual(t, score, 0.0)
	})
}

func TestClassifySourceType(t *testing.T) {
	assert.Equal(t, "academic", ClassifySourceType("https://arxiv.org/abs/1234"))
	assert.Equal(t, "medical", ClassifySourceType("https://pubmed.ncbi.nlm.nih.gov/123"))
	assert.Equal(t, "medical", ClassifySourceType("https://www.who.int/topics"))
	assert.Equal(t, "news", ClassifySourceType("https://reuters.com/article"))
	assert.Equal(t, "academic", ClassifySourceType("https://nature.com/articles/1"))
	assert.Equal(t, "general", ClassifySourceType("https://example.com/page"))
}

func TestDedupeByURL(t *testing.T) {
	first := stubResult("q", "first seen", "https://example.com/a", "s1")
	duplicate := stubResult("q", "second seen", "https://example.com/a", "s2")
	other := stubResult("q", "other", "https://example.com/b", "s3")

	unique := dedupeByURL([]models.SearchResult{first, duplicate, other})

	require.Len(t, unique, 2)
	assert.Equal(t, "first seen", unique[0].Title, "first occurrence wins")
	assert.Equal(t, "https://example.com/b", unique[1].URL)
}

func TestGenerateSearchQueries(t *testing.T) {
	t.Run("healthcare variants", func(t *testing.T) {
		queries := GenerateSearchQueries("diabetes", "healthcare")
		require.Len(t, queries, 3)
		assert.Equal(t, "diabetes", queries[0])
		assert.Equal(t, "diabetes clinical guidelines", queries[1])
		assert.Equal(t, "diabetes recent research 2024", queries[2])
	})

	t.Run("news variants", func(t *testing.T) {
		queries := GenerateSearchQueries("election", "news")
		require.Len(t, queries, 3)
		assert.Equal(t, "election", queries[0])
		assert.Equal(t, "election news today", queries[1])
		assert.Equal(t, "recent election developments", queries[2])
	})

	t.Run("academic variants", func(t *testing.T) {
		queries := GenerateSearchQueries("graph theory", "academic")
		require.Len(t, queries, 3)
		assert.Equal(t, "graph theory research paper", queries[1])
	})

	t.Run("general variants", func(t *testing.T) {
		queries := GenerateSearchQueries("chess", "general")
		require.Len(t, queries, 3)
		assert.Equal(t, "chess overview", queries[1])
		assert.Equal(t, "chess comprehensive guide", queries[2])
	})
}

func TestSimulatedResults(t *testing.T) {
	t.Run("healthcare templates", func(t *testing.T) {
		results := simulatedResults("diabetes care", 10, "healthcare", "DuckDuckGoSearchTool")
		require.Len(t, results, 6, "three templates plus three fillers")

		assert.Equal(t, "Medical Information: diabetes care - Mayo Clinic", results[0].Title)
		assert.Equal(t, "https://mayoclinic.org/conditions/diabetes-care", results[0].URL)
		assert.Equal(t, "medical", results[0].SourceType)
		assert.InDelta(t, 0.95, results[0].RelevanceScore, 1e-9)

		assert.Equal(t, "diabetes care Research - PubMed Central", results[1].Title)
		assert.Equal(t, "https://pubmed.ncbi.nlm.nih.gov/search/diabetes+care", results[1].URL)
		assert.InDelta(t, 0.85, results[1].RelevanceScore, 1e-9)

		assert.Equal(t, "CDC Guidelines: diabetes care", results[2].Title)
		assert.Equal(t, "government", results[2].SourceType)
		assert.InDelta(t, 0.75, results[2].RelevanceScore, 1e-9)

		assert.Equal(t, "diabetes care - Additional Resource 4", results[3].Title)
		assert.Equal(t, "https://example-source-4.com/diabetes-care", results[3].URL)
		assert.Equal(t, "DuckDuckGoSearchTool", results[3].AgentName)
	})

	t.Run("general templates", func(t *testing.T) {
		results := simulatedResults("chess", 3, "general", "DuckDuckGoSearchTool")
		require.Len(t, results, 3)
		assert.Equal(t, "chess - Wikipedia", results[0].Title)
		assert.Equal(t, "https://en.wikipedia.org/wiki/chess", results[0].URL)
		assert.Equal(t, "reference", results[0].SourceType)
		assert.Equal(t, "analysis", results[2].SourceType)
	})

	t.Run("news templates respect max results", func(t *testing.T) {
		results := simulatedResults("elections", 1, "news", "DuckDuckGoSearchTool")
		require.Len(t, results, 1)
		assert.Equal(t, "Latest News: elections - Reuters", results[0].Title)
	})

	t.Run("relevance floors at 0.3", func(t *testing.T) {
		results := simulatedResults("chess", 10, "general", "DuckDuckGoSearchTool")
		for _, r := range results {
			assert.GreaterOrEqual(t, r.RelevanceScore, 0.3)
		}
	})
}

func TestAgentExecuteRanksAndTruncates(t *testing.T) {
	provider := &stubProvider{
		results: map[string][]models.SearchResult{
			"diabetes": {
				stubResult("diabetes", "diabetes overview", "https://cdc.gov/diabetes", "diabetes information"),
				stubResult("diabetes", "unrelated page", "https://example.com/x", "nothing"),
			},
			"diabetes clinical guidelines": {
				// duplicate URL, first seen must win
				stubResult("diabetes clinical guidelines", "diabetes repeat", "https://cdc.gov/diabetes", "diabetes"),
				stubResult("diabetes clinical guidelines", "diabetes research", "https://pubmed.ncbi.nlm.nih.gov/1", "diabetes study"),
			},
			"diabetes recent research 2024": {},
		},
	}
	agent := NewWebSearchAgent(provider, false, 0, testLogger())

	results := agent.Execute(context.Background(), "diabetes", 2, "healthcare")

	require.Len(t, results, 2, "truncated to max results")
	assert.Equal(t, []string{"diabetes", "diabetes clinical guidelines", "diabetes recent research 2024"}, provider.calls)

	// ranking is non-increasing
	for i := 1; i < len(results); i++ {
		assert.GreaterOrEqual(t, results[i-1].RelevanceScore, results[i].RelevanceScore)
	}

	// the duplicate cdc.gov entry kept its first-seen title
	for _, r := range results {
		if r.URL == "https://cdc.gov/diabetes" {
			assert.Equal(t, "diabetes overview", r.Title)
		}
	}
}

func TestAgentStrictModeYieldsEmpty(t *testing.T) {
	provider := &stubProvider{err: fmt.Errorf("provider down")}
	agent := NewWebSearchAgent(provider, false, 0, testLogger())

	results := agent.Execute(context.Background(), "diabetes", 5, "healthcare")

	assert.Empty(t, results, "strict mode returns no results on provider failure")
}

func TestAgentFallbackOnProviderFailure(t *testing.T) {
	provider := &stubProvider{err: fmt.Errorf("provider down")}
	agent := NewWebSearchAgent(provider, true, 0, testLogger())

	results := agent.Execute(context.Background(), "diabetes", 5, "healthcare")

	require.NotEmpty(t, results)
	// fallback entries are re-scored and ranked like provider results
	for i := 1; i < len(results); i++ {
		assert.GreaterOrEqual(t, results[i-1].RelevanceScore, results[i].RelevanceScore)
	}
	// templates for each executed variant collapse into unique URLs
	seen := make(map[string]bool)
	for _, r := range results {
		assert.False(t, seen[r.URL], "URLs must be unique after dedup")
		seen[r.URL] = true
		assert.Equal(t, "StubSearchTool", r.AgentName)
	}
}

func TestAgentCancelledContext(t *testing.T) {
	provider := &stubProvider{}
	agent := NewWebSearchAgent(provider, true, 0, testLogger())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	results := agent.Execute(ctx, "diabetes", 5, "healthcare")

	require.Len(t, results, 1)
	assert.Equal(t, "Search Error", results[0].Title)
	assert.Equal(t, 0.0, results[0].RelevanceScore)
}

func TestRateLimiterEnforcesInterval(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping rate limiter timing test in short mode")
	}

	limiter := &rateLimiter{interval: 50 * time.Millisecond}
	ctx := context.Background()

	start := time.Now()
	require.NoError(t, limiter.wait(ctx))
	require.NoError(t, limiter.wait(ctx))
	require.NoError(t, limiter.wait(ctx))
	elapsed := time.Since(start)

	assert.GreaterOrEqual(t, elapsed, 100*time.Millisecond, "three calls need two full intervals")
}
