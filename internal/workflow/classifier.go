package workflow

import (
	"strings"

	"healthfinder-go/pkg/models"
)

// Query domains recognized by the classifier.
const (
	DomainHealthcare = "healthcare"
	DomainGeneral    = "general"
)

// healthcareKeywords route a query to the healthcare research path.
var healthcareKeywords = []string{
	"health", "medical", "disease", "treatment", "therapy",
	"drug", "medication", "diagnosis", "symptoms", "clinical",
	"patient", "hospital", "doctor", "medicine",
}

// generalKeywords route a query to the general research path.
var generalKeywords = []string{
	"technology", "science", "business", "education", "environment",
	"politics", "economics", "social", "culture", "history",
}

// healthcareIndicators is the narrower fallback checked when neither primary
// keyword list matches.
var healthcareIndicators = []string{
	"treatment", "symptoms", "diagnosis", "therapy", "medication",
	"health", "medical", "clinical", "patient", "disease",
}

// currentInfoIndicators signal that the query wants recent information.
var currentInfoIndicators = []string{
	"latest", "recent", "current", "new", "2024",
	"today", "now", "breakthrough", "development", "update",
}

// depthTiers map query phrasing to a suggested research depth, checked in
// order with the first match winning.
var depthTiers = []struct {
	depth int
	terms []string
}{
	{1, []string{"simple", "quick", "brief", "summary"}},
	{2, []string{"detailed", "explain", "describe"}},
	{3, []string{"comprehensive", "complete", "thorough"}},
	{4, []string{"in-depth", "extensive", "detailed analysis"}},
	{5, []string{"exhaustive", "complete analysis", "research paper"}},
}

// Classification is the query analysis outcome that drives stage selection.
type Classification struct {
	Domain           string `json:"domain"`
	NeedsResearch    bool   `json:"needs_research"`
	NeedsCurrentInfo bool   `json:"needs_current_info"`
	SuggestedDepth   int    `json:"suggested_depth"`
}

// IsHealthcare reports whether the healthcare research path applies.
func (c Classification) IsHealthcare() bool {
	return c.Domain == DomainHealthcare
}

// ClassifyQuery analyzes a query against the active configuration to decide
// the research domain, the research depth, and whether current information
// from the web is needed. It never fails; unmatched input falls through to
// the configured defaults.
func ClassifyQuery(query string, cfg models.WorkflowConfig) Classification {
	lower := strings.ToLower(query)

	return Classification{
		Domain:           classifyDomain(lower),
		NeedsResearch:    true,
		NeedsCurrentInfo: containsAny(lower, currentInfoIndicators) || cfg.EnableWebSearch,
		SuggestedDepth:   suggestDepth(lower, cfg.ResearchDepth),
	}
}

// classifyDomain checks the primary keyword lists first; any healthcare
// keyword wins over a general one.
func classifyDomain(lower string) string {
	if containsAny(lower, healthcareKeywords) {
		return DomainHealthcare
	}
	if containsAny(lower, generalKeywords) {
		return DomainGeneral
	}
	if containsAny(lower, healthcareIndicators) {
		return DomainHealthcare
	}
	return DomainGeneral
}

// suggestDepth returns the first matching tier's depth, or the configured
// depth when no tier matches.
func suggestDepth(lower string, configured int) int {
	for _, tier := range depthTiers {
		if containsAny(lower, tier.terms) {
			return tier.depth
		}
	}
	return configured
}

func containsAny(text string, terms []string) bool {
	for _, term := range terms {
		if strings.Contains(text, term) {
			return true
		}
	}
	return false
}
