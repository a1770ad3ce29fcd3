package synthesis

import (
	"fmt"
	"sort"
	"strings"

	"healthfinder-go/pkg/models"
)

// buildHealthcareContent groups research by confidence and web results by
// relevance, then closes with the medical disclaimer and evidence summary.
func buildHealthcareContent(query string, findings []models.ResearchFinding, results []models.SearchResult) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# Comprehensive Analysis: %s\n\n", query)

	if len(findings) > 0 {
		b.WriteString("## Research Findings\n\n")

		var high, medium []models.ResearchFinding
		for _, f := range findings {
			switch {
			case f.Confidence >= 0.7:
				high = append(high, f)
			case f.Confidence >= 0.4:
				medium = append(medium, f)
			}
		}

		if len(high) > 0 {
			b.WriteString("### High-Confidence Research\n")
			for _, f := range high {
				fmt.Fprintf(&b, "- **%s**: %s\n", f.AgentName, f.Findings)
				fmt.Fprintf(&b, "  *Confidence: %s*\n\n", models.Percent(f.Confidence))
			}
		}
		if len(medium) > 0 {
			b.WriteString("### Supporting Research\n")
			for _, f := range medium {
				fmt.Fprintf(&b, "- %s\n", f.Findings)
				fmt.Fprintf(&b, "  *Confidence: %s*\n\n", models.Percent(f.Confidence))
			}
		}
	}

	if len(results) > 0 {
		b.WriteString("## Current Information\n\n")

		var high, medium []models.SearchResult
		for _, r := range results {
			switch {
			case r.RelevanceScore >= 0.7:
				high = append(high, r)
			case r.RelevanceScore >= 0.4:
				medium = append(medium, r)
			}
		}

		if len(high) > 0 {
			b.WriteString("### Recent Developments\n")
			for _, r := range high[:min(3, len(high))] {
				fmt.Fprintf(&b, "- **%s**: %s\n", r.Title, r.Snippet)
				fmt.Fprintf(&b, "  *Source: %s*\n\n", r.URL)
			}
		}
		if len(medium) > 0 {
			b.WriteString("### Additional Sources\n")
			for _, r := range medium[:min(2, len(medium))] {
				fmt.Fprintf(&b, "- %s: %s\n\n", r.Title, r.Snippet)
			}
		}
	}

	b.WriteString("\n## Important Healthcare Information\n\n")
	b.WriteString("**Medical Disclaimer**: This information is for educational purposes only. ")
	b.WriteString("Always consult with qualified healthcare professionals for medical advice, ")
	b.WriteString("diagnosis, or treatment decisions. Individual cases may vary significantly.\n\n")

	if len(findings) > 0 {
		total := 0.0
		for _, f := range findings {
			total += f.Confidence
		}
		avgConfidence := total / float64(len(findings))
		fmt.Fprintf(&b, "**Evidence Quality**: Based on analysis of %d research sources ", len(findings))
		fmt.Fprintf(&b, "with average confidence of %s.\n\n", models.Percent(avgConfidence))
	}

	return b.String()
}

// buildGeneralContent opens with the strongest research finding, lists the
// top web results by relevance and ends with a summary of source counts.
func buildGeneralContent(query string, findings []models.ResearchFinding, results []models.SearchResult) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# Comprehensive Analysis: %s\n\n", query)

	b.WriteString("## Overview\n\n")
	if len(findings) > 0 {
		best := findings[0]
		for _, f := range findings[1:] {
			if f.Confidence > best.Confidence {
				best = f
			}
		}
		fmt.Fprintf(&b, "%s\n\n", best.Findings)
	}

	if len(results) > 0 {
		b.WriteString("## Current Information and Developments\n\n")

		ranked := make([]models.SearchResult, len(results))
		copy(ranked, results)
		sort.SliceStable(ranked, func(i, j int) bool {
			return ranked[i].RelevanceScore > ranked[j].RelevanceScore
		})

		for i, r := range ranked[:min(4, len(ranked))] {
			fmt.Fprintf(&b, "### %d. %s\n", i+1, r.Title)
			fmt.Fprintf(&b, "%s\n", r.Snippet)
			fmt.Fprintf(&b, "*Source: %s*\n\n", r.URL)
		}
	}

	if len(findings) > 1 {
		b.WriteString("## Additional Research Perspectives\n\n")
		for _, f := range findings[1:] {
			if f.Confidence >= 0.5 {
				fmt.Fprintf(&b, "- %s\n\n", f.Findings)
			}
		}
	}

	b.WriteString("## Summary\n\n")
	fmt.Fprintf(&b, "This analysis of '%s' draws from %d research sources ", query, len(findings))
	fmt.Fprintf(&b, "and %d current information sources. ", len(results))
	b.WriteString("The information presented reflects current understanding and may evolve ")
	b.WriteString("with new developments and research.\n\n")

	return b.String()
}

// buildComparativeContent presents up to four sources as numbered
// perspectives, research findings first.
func buildComparativeContent(query string, findings []models.ResearchFinding, results []models.SearchResult) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# Comparative Analysis: %s\n\n", query)

	if len(findings)+len(results) >= 2 {
		b.WriteString("## Different Perspectives and Approaches\n\n")

		perspective := 0
		for _, f := range findings {
			if perspective >= 4 {
				break
			}
			perspective++
			fmt.Fprintf(&b, "### Perspective %d: Research-Based\n", perspective)
			fmt.Fprintf(&b, "%s\n", f.Findings)
			fmt.Fprintf(&b, "*Confidence: %s*\n\n", models.Percent(f.Confidence))
		}
		for _, r := range results {
			if perspective >= 4 {
				break
			}
			perspective++
			fmt.Fprintf(&b, "### Perspective %d: Current Information\n", perspective)
			fmt.Fprintf(&b, "**%s**: %s\n", r.Title, r.Snippet)
			fmt.Fprintf(&b, "*Relevance: %s*\n\n", models.Percent(r.RelevanceScore))
		}
	}

	b.WriteString("## Comparative Summary\n\n")
	b.WriteString("Based on the analysis of multiple sources, key points of agreement and ")
	b.WriteString("difference have been identified. This comparative view helps understand ")
	b.WriteString("the complexity and various aspects of the topic.\n\n")

	return b.String()
}

// buildAnalyticalContent keeps only strong research evidence and the top
// current results, framed as a problem analysis.
func buildAnalyticalContent(query string, findings []models.ResearchFinding, results []models.SearchResult) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# Analytical Deep Dive: %s\n\n", query)

	b.WriteString("## Problem Analysis\n\n")

	if len(findings) > 0 {
		b.WriteString("### Research-Based Analysis\n")
		for _, f := range findings {
			if f.Confidence >= 0.6 {
				fmt.Fprintf(&b, "- %s\n", f.Findings)
				fmt.Fprintf(&b, "  *Evidence Quality: %s*\n\n", models.Percent(f.Confidence))
			}
		}
	}

	b.WriteString("### Current Context and Developments\n")
	for _, r := range results[:min(3, len(results))] {
		fmt.Fprintf(&b, "- **%s**: %s\n\n", r.Title, r.Snippet)
	}

	b.WriteString("## Implications and Analysis\n\n")
	b.WriteString("The synthesized information reveals several key implications ")
	b.WriteString("and analytical insights that warrant deeper consideration.\n\n")

	return b.String()
}
