package synthesis

import (
	"fmt"
	"math"
	"strings"

	"github.com/sirupsen/logrus"

	"healthfinder-go/pkg/models"
)

// Synthesis strategies. DetermineType picks one per request; unknown values
// fall back to the general strategy.
const (
	TypeHealthcare  = "healthcare"
	TypeGeneral     = "general"
	TypeComparative = "comparative"
	TypeAnalytical  = "analytical"
)

// qualityIndicators raise the content quality factor of the confidence score
var qualityIndicators = []string{
	"evidence", "research", "study", "analysis", "comprehensive",
	"multiple sources", "expert", "clinical", "peer-reviewed",
}

// Synthesizer merges research findings and web search results into one
// structured answer with key insights and recommendations.
type Synthesizer struct {
	logger *logrus.Logger
}

// NewSynthesizer creates a synthesizer
func NewSynthesizer(logger *logrus.Logger) *Synthesizer {
	return &Synthesizer{logger: logger}
}

// DetermineType selects the synthesis strategy for the collected results.
// Healthcare findings always win. A pool of four or more sources gets a
// comparative pass, and high aggregate research confidence an analytical one.
func DetermineType(findings []models.ResearchFinding, results []models.SearchResult, configured string) string {
	for _, f := range findings {
		if strings.Contains(strings.ToLower(f.AgentName), "healthcare") {
			return TypeHealthcare
		}
	}

	if len(findings)+len(results) >= 4 {
		return TypeComparative
	}

	totalConfidence := 0.0
	for _, f := range findings {
		totalConfidence += f.Confidence
	}
	if totalConfidence >= 2.0 {
		return TypeAnalytical
	}

	switch configured {
	case TypeHealthcare, TypeGeneral, TypeComparative, TypeAnalytical:
		return configured
	default:
		return TypeGeneral
	}
}

// Synthesize builds a structured answer from the stage results. It never
// fails: with no sources it returns the placeholder result, and an internal
// panic is converted into a zero-confidence error result.
func (s *Synthesizer) Synthesize(query string, findings []models.ResearchFinding, results []models.SearchResult, synthesisType string) (out models.SynthesisResult) {
	defer func() {
		if r := recover(); r != nil {
			s.logger.WithFields(logrus.Fields{
				"query": query,
				"panic": r,
			}).Error("Synthesis failed")
			out = errorResult(fmt.Sprintf("%v", r))
		}
	}()

	s.logger.WithFields(logrus.Fields{
		"query":          query,
		"synthesis_type": synthesisType,
		"research_count": len(findings),
		"search_count":   len(results),
	}).Info("Starting synthesis")

	if len(findings) == 0 && len(results) == 0 {
		s.logger.Warn("No source data provided for synthesis")
		return emptyResult(query)
	}

	content := buildContent(query, findings, results, synthesisType)
	insights := extractKeyInsights(content, findings, results)
	recommendations := generateRecommendations(content, synthesisType)
	confidence := calculateConfidence(findings, results, content)

	sources := make([]interface{}, 0, len(findings)+len(results))
	for _, f := range findings {
		sources = append(sources, f)
	}
	for _, r := range results {
		sources = append(sources, r)
	}

	s.logger.WithFields(logrus.Fields{
		"query":      query,
		"confidence": confidence,
	}).Info("Synthesis completed")

	return models.SynthesisResult{
		SynthesizedContent: content,
		SourceResults:      sources,
		Confidence:         confidence,
		KeyInsights:        insights,
		Recommendations:    recommendations,
	}
}

func buildContent(query string, findings []models.ResearchFinding, results []models.SearchResult, synthesisType string) string {
	switch synthesisType {
	case TypeHealthcare:
		return buildHealthcareContent(query, findings, results)
	case TypeComparative:
		return buildComparativeContent(query, findings, results)
	case TypeAnalytical:
		return buildAnalyticalContent(query, findings, results)
	default:
		return buildGeneralContent(query, findings, results)
	}
}

func emptyResult(query string) models.SynthesisResult {
	return models.SynthesisResult{
		SynthesizedContent: fmt.Sprintf("No information sources were available to synthesize a response to: %s", query),
		SourceResults:      []interface{}{},
		Confidence:         0.1,
		KeyInsights:        []string{"No data available for analysis"},
		Recommendations:    []string{"Please try a different query or check data sources"},
	}
}

func errorResult(reason string) models.SynthesisResult {
	return models.SynthesisResult{
		SynthesizedContent: fmt.Sprintf("Synthesis failed due to error: %s", reason),
		SourceResults:      []interface{}{},
		Confidence:         0.0,
		KeyInsights:        []string{},
		Recommendations:    []string{},
	}
}

// calculateConfidence blends average research confidence, average search
// relevance, source count and content quality into one capped score.
func calculateConfidence(findings []models.ResearchFinding, results []models.SearchResult, content string) float64 {
	confidence := 0.0

	if len(findings) > 0 {
		total := 0.0
		for _, f := range findings {
			total += f.Confidence
		}
		confidence += total / float64(len(findings)) * 0.4
	}

	if len(results) > 0 {
		total := 0.0
		for _, r := range results {
			total += r.RelevanceScore
		}
		confidence += total / float64(len(results)) * 0.3
	}

	totalSources := len(findings) + len(results)
	confidence += math.Min(0.2, float64(totalSources)*0.02)

	confidence += assessContentQuality(content) * 0.1

	return models.Round3(math.Min(0.95, confidence))
}

func assessContentQuality(content string) float64 {
	lower := strings.ToLower(content)

	matches := 0
	for _, indicator := range qualityIndicators {
		if strings.Contains(lower, indicator) {
			matches++
		}
	}
	score := math.Min(1.0, float64(matches)/float64(len(qualityIndicators)))

	if len(content) > 500 {
		score += 0.1
	}
	if strings.Contains(content, "##") {
		score += 0.1
	}

	return math.Min(1.0, score)
}

// extractKeyInsights derives up to five insights from source quality counts,
// content keywords and research domain coverage.
func extractKeyInsights(content string, findings []models.ResearchFinding, results []models.SearchResult) []string {
	insights := []string{}

	if len(findings) > 0 {
		highConfidence := 0
		for _, f := range findings {
			if f.Confidence >= 0.7 {
				highConfidence++
			}
		}
		if highConfidence > 0 {
			insights = append(insights, fmt.Sprintf("Strong research evidence available (%d high-confidence sources)", highConfidence))
		}
	}

	if len(results) > 0 {
		highRelevance := 0
		for _, r := range results {
			if r.RelevanceScore >= 0.7 {
				highRelevance++
			}
		}
		if highRelevance > 0 {
			insights = append(insights, fmt.Sprintf("Current, relevant information available (%d highly relevant sources)", highRelevance))
		}
	}

	lower := strings.ToLower(content)

	if strings.Contains(lower, "clinical trial") || strings.Contains(lower, "study") {
		insights = append(insights, "Evidence-based information with clinical research support")
	}
	if strings.Contains(lower, "recent") || strings.Contains(lower, "2024") {
		insights = append(insights, "Includes current and up-to-date information")
	}
	if strings.Contains(lower, "multiple") && strings.Contains(lower, "sources") {
		insights = append(insights, "Multiple independent sources corroborate key findings")
	}

	healthcareDomain := false
	generalDomain := false
	for _, f := range findings {
		if strings.Contains(strings.ToLower(f.AgentName), "healthcare") {
			healthcareDomain = true
		} else {
			generalDomain = true
		}
	}
	if healthcareDomain && generalDomain {
		insights = append(insights, "Cross-domain research provides comprehensive perspective")
	}

	if len(insights) > 5 {
		insights = insights[:5]
	}
	return insights
}

// generateRecommendations returns up to five recommendations: a fixed base
// list per synthesis type plus content-conditional additions.
func generateRecommendations(content string, synthesisType string) []string {
	recommendations := []string{}
	lower := strings.ToLower(content)

	switch synthesisType {
	case TypeHealthcare:
		recommendations = append(recommendations,
			"Consult with healthcare professionals for personalized advice",
			"Consider evidence-based treatment options with proven efficacy",
			"Stay informed about latest research developments",
		)
		if strings.Contains(lower, "clinical trial") {
			recommendations = append(recommendations, "Explore participation in relevant clinical trials if appropriate")
		}
	case TypeGeneral:
		recommendations = append(recommendations,
			"Consider multiple perspectives before making decisions",
			"Stay updated with current developments in this area",
			"Seek expert advice for complex implementation",
		)
	case TypeComparative:
		recommendations = append(recommendations,
			"Evaluate different options based on specific needs and circumstances",
			"Consider the trade-offs and benefits of each approach",
			"Seek additional expert opinions for important decisions",
		)
	case TypeAnalytical:
		recommendations = append(recommendations,
			"Apply analytical insights to specific use cases",
			"Monitor ongoing developments for strategic planning",
			"Consider long-term implications of current trends",
		)
	}

	if strings.Contains(lower, "uncertainty") || strings.Contains(lower, "unclear") {
		recommendations = append(recommendations, "Exercise caution due to uncertainties in available information")
	}
	if strings.Contains(lower, "research") && strings.Contains(lower, "ongoing") {
		recommendations = append(recommendations, "Follow ongoing research for updated information")
	}

	if len(recommendations) > 5 {
		recommendations = recommendations[:5]
	}
	return recommendations
}
