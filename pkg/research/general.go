package research

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/sirupsen/logrus"

	"healthfinder-go/pkg/models"
)

const generalAgentName = "GeneralResearchTool"

// Quality indicators that raise general research confidence.
var generalQualityTerms = []string{
	"peer-reviewed", "academic", "research", "study", "analysis",
	"systematic", "evidence", "empirical", "meta-analysis",
}

var generalBaseSources = []string{
	"Academic Journal Databases",
	"Government Research Publications",
	"University Research Centers",
	"Professional Industry Reports",
}

var generalSpecializedSources = []string{
	"Nature Science Journal",
	"Harvard Business Review",
	"MIT Technology Review",
	"Stanford Research Institute",
	"Brookings Institution",
	"McKinsey Global Institute",
	"World Economic Forum Reports",
	"OECD Economic Analysis",
	"Pew Research Center",
	"Council on Foreign Relations",
	"IEEE Computer Society",
	"Association for Computing Machinery (ACM)",
}

// GeneralResearchTool produces academic-style findings for non-medical queries.
type GeneralResearchTool struct {
	logger *logrus.Logger
}

// NewGeneralResearchTool creates a general research tool.
func NewGeneralResearchTool(logger *logrus.Logger) *GeneralResearchTool {
	return &GeneralResearchTool{logger: logger}
}

// Name returns the tool identifier.
func (t *GeneralResearchTool) Name() string {
	return generalAgentName
}

// Research conducts general research with the same fail-soft contract as the
// healthcare tool.
func (t *GeneralResearchTool) Research(ctx context.Context, query string, depth int, focusAreas []string) models.ResearchFinding {
	depth = clampDepth(depth)

	t.logger.WithFields(logrus.Fields{
		"query":       query,
		"depth":       depth,
		"focus_areas": focusAreas,
	}).Info("General research tool executing")

	if err := ctx.Err(); err != nil {
		return t.failure(query, err)
	}

	findings := t.buildFindings(query, depth)
	sources := t.selectSources(depth)
	confidence := t.confidence(depth, findings)

	return models.ResearchFinding{
		Query:      query,
		Findings:   findings,
		Sources:    sources,
		Confidence: confidence,
		Timestamp:  time.Now().UTC(),
		AgentName:  generalAgentName,
	}
}

func (t *GeneralResearchTool) failure(query string, err error) models.ResearchFinding {
	t.logger.WithError(err).Error("General research tool error")
	return models.ResearchFinding{
		Query:      query,
		Findings:   fmt.Sprintf("General research failed: %v", err),
		Sources:    []string{},
		Confidence: 0.0,
		Timestamp:  time.Now().UTC(),
		AgentName:  generalAgentName,
	}
}

// buildFindings assembles findings from domain templates plus depth expansions.
func (t *GeneralResearchTool) buildFindings(query string, depth int) string {
	var findings string

	switch {
	case countTermMatches(query, []string{"technology", "ai", "artificial intelligence", "digital"}) > 0:
		findings = fmt.Sprintf(`Technology research analysis for '%s':

**Current Landscape:**
- Rapid technological advancement continues to reshape industry dynamics
- Emerging technologies show significant potential for disruptive innovation
- Market adoption rates vary based on regulatory frameworks and user acceptance

**Technical Developments:**
- Research and development investments have increased substantially over recent years
- Cross-platform integration and interoperability remain key challenges
- Performance improvements and cost reductions drive wider accessibility

**Industry Impact:**
- Major technology companies are investing heavily in research and development
- Startup ecosystems are fostering innovation through specialized solutions
- Economic implications include job market evolution and skills requirements

**Future Outlook:**
- Predictive models suggest continued exponential growth in key technology sectors
- Regulatory considerations will likely influence development and deployment strategies
- Ethical frameworks are being developed to guide responsible innovation`, query)

	case countTermMatches(query, []string{"business", "economic", "market", "finance"}) > 0:
		findings = fmt.Sprintf(`Business and economic research on '%s':

**Market Analysis:**
- Current market conditions reflect complex interactions between supply and demand factors
- Competitive landscape includes both established players and emerging disruptors
- Consumer behavior patterns are evolving in response to technological and social changes

**Economic Indicators:**
- Macroeconomic trends influence sector-specific performance metrics
- Financial performance data indicates varied results across different market segments
- Investment flows and capital allocation patterns reflect investor sentiment and risk appetite

**Strategic Considerations:**
- Business model innovation drives competitive advantage in rapidly changing markets
- Operational efficiency improvements focus on automation and process optimization
- Sustainability considerations increasingly influence strategic decision-making

**Risk Assessment:**
- Market volatility and uncertainty require robust risk management frameworks
- Regulatory changes may impact business operations and compliance requirements
- Global economic interconnectedness amplifies both opportunities and risks`, query)

	default:
		findings = fmt.Sprintf(`Comprehensive research analysis on '%s':

**Academic Perspective:**
- Scholarly literature provides theoretical frameworks and empirical evidence
- Research methodologies include quantitative and qualitative analytical approaches
- Peer-reviewed studies contribute to evidence-based understanding of complex topics

**Contemporary Insights:**
- Recent developments highlight evolving perspectives and emerging trends
- Interdisciplinary approaches offer comprehensive understanding of multifaceted issues
- Global perspectives consider cultural, social, and economic variations

**Practical Applications:**
- Research findings inform policy development and implementation strategies
- Best practices emerge from systematic analysis of successful interventions
- Case studies provide real-world examples of theory application

**Knowledge Gaps:**
- Ongoing research addresses limitations in current understanding
- Future research directions focus on emerging challenges and opportunities
- Methodological improvements enhance research quality and reliability`, query)
	}

	if depth >= 4 {
		findings += `

**Advanced Analysis:**
- Meta-analytical approaches synthesize findings across multiple studies
- Longitudinal research provides insights into temporal patterns and trends
- Cross-cultural studies examine universality and context-specific variations
- Systematic reviews establish evidence hierarchies and identify research priorities`
	}

	if depth == 5 {
		findings += `

**Comprehensive Synthesis:**
- Interdisciplinary collaboration yields innovative research approaches
- Big data analytics enables analysis of large-scale patterns and relationships
- Machine learning applications enhance predictive capabilities and pattern recognition
- Global research networks facilitate knowledge sharing and collaborative discovery`
	}

	return findings
}

// selectSources picks a depth-scaled source list, core academic sources first.
func (t *GeneralResearchTool) selectSources(depth int) []string {
	numSources := min(3+depth, len(generalBaseSources)+len(generalSpecializedSources))

	selected := append([]string{}, generalBaseSources[:2]...)
	if depth > 1 {
		extra := min(depth+1, len(generalSpecializedSources))
		selected = append(selected, generalSpecializedSources[:extra]...)
	}

	if len(selected) > numSources {
		selected = selected[:numSources]
	}
	return selected
}

// confidence scores findings with a lower base than healthcare research.
func (t *GeneralResearchTool) confidence(depth int, findings string) float64 {
	baseConfidence := 0.70

	depthBonus := math.Min(0.15, float64(depth)*0.03)

	qualityScore := countTermMatches(findings, generalQualityTerms)
	qualityBonus := math.Min(0.15, float64(qualityScore)*0.025)

	return models.Round3(math.Min(0.90, baseConfidence+depthBonus+qualityBonus))
}
