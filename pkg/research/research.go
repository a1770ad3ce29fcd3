package research

import (
	"context"
	"strings"

	"healthfinder-go/pkg/models"
)

// Tool executes domain research for a query at a given depth.
type Tool interface {
	Name() string
	Research(ctx context.Context, query string, depth int, focusAreas []string) models.ResearchFinding
}

// countTermMatches counts how many of the terms occur in the text (case-insensitive).
func countTermMatches(text string, terms []string) int {
	lower := strings.ToLower(text)
	count := 0
	for _, term := range terms {
		if strings.Contains(lower, strings.ToLower(term)) {
			count++
		}
	}
	return count
}

// clampDepth keeps research depth inside the supported 1-5 range.
func clampDepth(depth int) int {
	if depth < 1 {
		return 1
	}
	if depth > 5 {
		return 5
	}
	return depth
}
