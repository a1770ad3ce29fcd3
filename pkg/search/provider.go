package search

import (
	"context"

	"healthfinder-go/pkg/models"
)

// Provider executes one query against a search backend.
type Provider interface {
	Name() string
	Search(ctx context.Context, query string, maxResults int, searchType string) ([]models.SearchResult, error)
	HealthCheck(ctx context.Context) error
}

// enhanceQueryForType widens a query with type-specific terms before it hits
// the provider. Result fields keep the caller's original query.
func enhanceQueryForType(query, searchType string) string {
	switch searchType {
	case "healthcare":
		if countContains(query, []string{"medical", "health", "clinical", "treatment"}) == 0 {
			return query + " medical health information"
		}
	case "news":
		if countContains(query, []string{"news", "latest", "recent"}) == 0 {
			return query + " latest news recent"
		}
	}
	return query
}
