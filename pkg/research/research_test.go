package research

import (
	"context"
	"strings"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetLevel(logrus.WarnLevel)
	return logger
}

func TestHealthcareResearchDeterministic(t *testing.T) {
	tool := NewHealthcareResearchTool(testLogger())
	ctx := context.Background()

	first := tool.Research(ctx, "diabetes treatment options", 3, nil)
	second := tool.Research(ctx, "diabetes treatment options", 3, nil)

	assert.Equal(t, first.Findings, second.Findings, "findings should be reproducible")
	assert.Equal(t, first.Sources, second.Sources, "sources should be reproducible")
	assert.Equal(t, first.Confidence, second.Confidence, "confidence should be reproducible")
	assert.Equal(t, "HealthcareResearchTool", first.AgentName)
}

func TestHealthcareResearchConfidence(t *testing.T) {
	tool := NewHealthcareResearchTool(testLogger())
	ctx := context.Background()

	t.Run("treatment query at default depth", func(t *testing.T) {
		finding := tool.Research(ctx, "diabetes treatment options", 3, nil)
		// base 0.75 + depth 0.09 + three quality indicators 0.06
		assert.InDelta(t, 0.90, finding.Confidence, 1e-9)
	})

	t.Run("depth five hits the healthcare cap", func(t *testing.T) {
		finding := tool.Research(ctx, "cancer therapy", 5, nil)
		assert.InDelta(t, 0.95, finding.Confidence, 1e-9)
	})

	t.Run("confidence never exceeds cap", func(t *testing.T) {
		for depth := 1; depth <= 5; depth++ {
			finding := tool.Research(ctx, "hypertension medication and treatment", depth, nil)
			assert.LessOrEqual(t, finding.Confidence, 0.95)
			assert.Greater(t, finding.Confidence, 0.0)
		}
	})
}

func TestHealthcareFindingsTemplates(t *testing.T) {
	tool := NewHealthcareResearchTool(testLogger())
	ctx := context.Background()

	t.Run("treatment template", func(t *testing.T) {
		finding := tool.Research(ctx, "diabetes treatment", 3, nil)
		assert.Contains(t, finding.Findings, "Based on current medical literature and clinical guidelines for 'diabetes treatment':")
		assert.Contains(t, finding.Findings, "**Current Treatment Approaches:**")
		assert.Contains(t, finding.Findings, "**Clinical Evidence:**")
		assert.NotContains(t, finding.Findings, "**Advanced Research Considerations:**")
	})

	t.Run("diagnosis template", func(t *testing.T) {
		finding := tool.Research(ctx, "flu symptoms", 2, nil)
		assert.Contains(t, finding.Findings, "Medical research findings for 'flu symptoms':")
		assert.Contains(t, finding.Findings, "**Diagnostic Criteria:**")
	})

	t.Run("default template", func(t *testing.T) {
		finding := tool.Research(ctx, "telehealth adoption", 3, nil)
		assert.Contains(t, finding.Findings, "Comprehensive healthcare research on 'telehealth adoption':")
		assert.Contains(t, finding.Findings, "**Future Directions:**")
	})

	t.Run("depth expansions", func(t *testing.T) {
		depthFour := tool.Research(ctx, "diabetes treatment", 4, nil)
		assert.Contains(t, depthFour.Findings, "**Advanced Research Considerations:**")
		assert.NotContains(t, depthFour.Findings, "**Comprehensive Analysis:**")

		depthFive := tool.Research(ctx, "diabetes treatment", 5, nil)
		assert.Contains(t, depthFive.Findings, "**Advanced Research Considerations:**")
		assert.Contains(t, depthFive.Findings, "**Comprehensive Analysis:**")
	})
}

func TestHealthcareSourceSelection(t *testing.T) {
	tool := NewHealthcareResearchTool(testLogger())
	ctx := context.Background()

	t.Run("shallow depth keeps core sources only", func(t *testing.T) {
		finding := tool.Research(ctx, "diabetes treatment", 1, nil)
		require.Len(t, finding.Sources, 3)
		assert.Equal(t, "PubMed Medical Literature Database", finding.Sources[0])
		assert.Equal(t, "Cochrane Library Systematic Reviews", finding.Sources[1])
		assert.Equal(t, "FDA Clinical Guidelines and Approvals", finding.Sources[2])
	})

	t.Run("deeper research adds specialized sources", func(t *testing.T) {
		finding := tool.Research(ctx, "diabetes treatment", 3, nil)
		require.Len(t, finding.Sources, 5)
		assert.Equal(t, "New England Journal of Medicine (NEJM)", finding.Sources[3])
		assert.Equal(t, "The Lancet Medical Journal", finding.Sources[4])
	})
}

func TestHealthcareResearchCancelled(t *testing.T) {
	tool := NewHealthcareResearchTool(testLogger())
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	finding := tool.Research(ctx, "diabetes treatment", 3, nil)
	assert.Equal(t, 0.0, finding.Confidence)
	assert.True(t, strings.HasPrefix(finding.Findings, "Healthcare research failed:"))
	assert.Empty(t, finding.Sources)
	assert.Equal(t, "HealthcareResearchTool", finding.AgentName)
}

func TestGeneralResearchConfidence(t *testing.T) {
	tool := NewGeneralResearchTool(testLogger())
	ctx := context.Background()

	t.Run("depth five hits the general cap", func(t *testing.T) {
		finding := tool.Research(ctx, "renewable energy economics", 5, nil)
		assert.InDelta(t, 0.90, finding.Confidence, 1e-9)
	})

	t.Run("general confidence stays below healthcare cap", func(t *testing.T) {
		for depth := 1; depth <= 5; depth++ {
			finding := tool.Research(ctx, "quantum computing trends", depth, nil)
			assert.LessOrEqual(t, finding.Confidence, 0.90)
			assert.Greater(t, finding.Confidence, 0.0)
		}
	})
}

func TestGeneralFindingsTemplates(t *testing.T) {
	tool := NewGeneralResearchTool(testLogger())
	ctx := context.Background()

	t.Run("technology template", func(t *testing.T) {
		finding := tool.Research(ctx, "artificial intelligence regulation", 3, nil)
		assert.Contains(t, finding.Findings, "Technology research analysis for 'artificial intelligence regulation':")
		assert.Contains(t, finding.Findings, "**Current Landscape:**")
	})

	t.Run("business template", func(t *testing.T) {
		finding := tool.Research(ctx, "housing market outlook", 3, nil)
		assert.Contains(t, finding.Findings, "Business and economic research on 'housing market outlook':")
		assert.Contains(t, finding.Findings, "**Market Analysis:**")
	})

	t.Run("academic default template", func(t *testing.T) {
		finding := tool.Research(ctx, "urban planning", 3, nil)
		assert.Contains(t, finding.Findings, "Comprehensive research analysis on 'urban planning':")
		assert.Contains(t, finding.Findings, "**Academic Perspective:**")
	})
}

func TestGeneralSourceSelection(t *testing.T) {
	tool := NewGeneralResearchTool(testLogger())
	ctx := context.Background()

	t.Run("shallow depth keeps core sources only", func(t *testing.T) {
		finding := tool.Research(ctx, "urban planning", 1, nil)
		require.Len(t, finding.Sources, 2)
		assert.Equal(t, "Academic Journal Databases", finding.Sources[0])
		assert.Equal(t, "Government Research Publications", finding.Sources[1])
	})

	t.Run("deeper research adds specialized sources", func(t *testing.T) {
		finding := tool.Research(ctx, "urban planning", 3, nil)
		require.Len(t, finding.Sources, 6)
		assert.Equal(t, "Nature Science Journal", finding.Sources[2])
	})
}

func TestGeneralResearchCancelled(t *testing.T) {
	tool := NewGeneralResearchTool(testLogger())
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	finding := tool.Research(ctx, "urban planning", 3, nil)
	assert.Equal(t, 0.0, finding.Confidence)
	assert.True(t, strings.HasPrefix(finding.Findings, "General research failed:"))
}

func TestDepthClamping(t *testing.T) {
	tool := NewHealthcareResearchTool(testLogger())
	ctx := context.Background()

	low := tool.Research(ctx, "diabetes treatment", 0, nil)
	one := tool.Research(ctx, "diabetes treatment", 1, nil)
	assert.Equal(t, one.Confidence, low.Confidence)

	high := tool.Research(ctx, "diabetes treatment", 9, nil)
	five := tool.Research(ctx, "diabetes treatment", 5, nil)
	assert.Equal(t, five.Confidence, high.Confidence)
}
