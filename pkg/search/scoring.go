package search

import (
	"sort"
	"strings"

	"healthfinder-go/pkg/models"
)

var highCredibilityDomains = []string{
	".gov", ".edu", ".org",
	"pubmed", "who.int", "cdc.gov", "fda.gov",
	"nature.com", "science.org", "nejm.org",
	"bbc.com", "reuters.com", "apnews.com",
}

var mediumCredibilityDomains = []string{
	"wikipedia.org", "mayo clinic", "cleveland clinic",
	"nytimes.com", "washingtonpost.com", "guardian.com",
}

var lowCredibilityIndicators = []string{"blog", "personal", "forum", "social"}

// ScoreRelevance recomputes a result's relevance against the original query:
// title term overlap weighted 0.4, snippet overlap 0.3, plus a credibility
// adjustment from the URL. Clamped to [0,1] and rounded to three decimals.
func ScoreRelevance(query, title, snippet, url string) float64 {
	score := 0.0

	queryTerms := strings.Fields(strings.ToLower(query))
	if len(queryTerms) > 0 {
		titleLower := strings.ToLower(title)
		titleMatches := 0
		for _, term := range queryTerms {
			if strings.Contains(titleLower, term) {
				titleMatches++
			}
		}
		score += float64(titleMatches) / float64(len(queryTerms)) * 0.4

		snippetLower := strings.ToLower(snippet)
		snippetMatches := 0
		for _, term := range queryTerms {
			if strings.Contains(snippetLower, term) {
				snippetMatches++
			}
		}
		score += float64(snippetMatches) / float64(len(queryTerms)) * 0.3
	}

	score += assessCredibility(url)

	if score < 0 {
		score = 0
	}
	if score > 1 {
		score = 1
	}
	return models.Round3(score)
}

// assessCredibility maps a URL to a credibility adjustment.
func assessCredibility(url string) float64 {
	urlLower := strings.ToLower(url)

	switch {
	case countContains(urlLower, highCredibilityDomains) > 0:
		return 0.15
	case countContains(urlLower, mediumCredibilityDomains) > 0:
		return 0.1
	case countContains(urlLower, lowCredibilityIndicators) > 0:
		return -0.05
	default:
		return 0.05
	}
}

// ClassifySourceType buckets a URL by domain, most specific first.
func ClassifySourceType(url string) string {
	urlLower := strings.ToLower(url)

	switch {
	case strings.Contains(urlLower, "arxiv.org"):
		return "academic"
	case countContains(urlLower, []string{".gov", "nih.gov", "ncbi.nlm.nih.gov", "pubmed", "who.int", "nejm.org", "thelancet.com", "bmj.com"}) > 0:
		return "medical"
	case countContains(urlLower, []string{"cnn.com", "bbc.com", "nytimes.com", "reuters.com", "apnews.com", "news"}) > 0:
		return "news"
	case countContains(urlLower, []string{".edu", "acm.org", "ieee.org", "nature.com", "sciencedirect.com", "springer.com"}) > 0:
		return "academic"
	default:
		return "general"
	}
}

// dedupeByURL keeps the first occurrence of each URL, preserving input order.
func dedupeByURL(results []models.SearchResult) []models.SearchResult {
	seen := make(map[string]bool, len(results))
	unique := make([]models.SearchResult, 0, len(results))
	for _, r := range results {
		if seen[r.URL] {
			continue
		}
		seen[r.URL] = true
		unique = append(unique, r)
	}
	return unique
}

// rankByRelevance sorts descending by relevance, stable for equal scores.
func rankByRelevance(results []models.SearchResult) {
	sort.SliceStable(results, func(i, j int) bool {
		return results[i].RelevanceScore > results[j].RelevanceScore
	})
}

// countContains counts how many of the terms occur in the text (case-insensitive).
func countContains(text string, terms []string) int {
	lower := strings.ToLower(text)
	count := 0
	for _, term := range terms {
		if strings.Contains(lower, term) {
			count++
		}
	}
	return count
}
