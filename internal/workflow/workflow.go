package workflow

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"healthfinder-go/pkg/config"
	"healthfinder-go/pkg/metrics"
	"healthfinder-go/pkg/models"
	"healthfinder-go/pkg/research"
	"healthfinder-go/pkg/search"
	"healthfinder-go/pkg/synthesis"
)

// Composer rewrites a synthesized draft into polished prose. A nil Composer
// keeps the deterministic template output.
type Composer interface {
	ComposeSynthesis(ctx context.Context, query, draft string) (string, error)
}

// ConciergeWorkflow coordinates the research pipeline: query analysis,
// parallel research and web search, synthesis, and response assembly.
// One instance serves all requests; per-request state lives in a workflowRun
// created for each call, so nothing leaks across requests.
type ConciergeWorkflow struct {
	id string

	mu     sync.RWMutex
	config models.WorkflowConfig

	healthcareTool research.Tool
	generalTool    research.Tool
	searchAgent    *search.WebSearchAgent
	synthesizer    *synthesis.Synthesizer
	composer       Composer

	stats  *executionStats
	logger *logrus.Logger
}

// workflowRun is the execution of one request: a config snapshot with the
// request's overrides applied, plus fresh pipeline state.
type workflowRun struct {
	id     string
	config models.WorkflowConfig
	state  *models.WorkflowState
}

// NewConciergeWorkflow wires the pipeline stages from application
// configuration. The composer may be nil, which disables LLM narrative
// composition.
func NewConciergeWorkflow(cfg *config.Config, composer Composer, logger *logrus.Logger) *ConciergeWorkflow {
	wfConfig, ok := PresetByName(cfg.WorkflowPreset)
	if !ok {
		logger.WithField("preset", cfg.WorkflowPreset).Warn("Unknown workflow preset, using default")
		wfConfig = DefaultWorkflowConfig()
	}

	var provider search.Provider
	switch cfg.Search.Provider {
	case "tavily":
		provider = search.NewTavilyClient(&cfg.Search, logger)
		wfConfig.SearchEngine = "tavily"
	default:
		provider = search.NewDuckDuckGoClient(&cfg.Search, logger)
		wfConfig.SearchEngine = "duckduckgo"
	}

	rateLimit := time.Duration(cfg.Search.RateLimitMS) * time.Millisecond
	searchAgent := search.NewWebSearchAgent(provider, cfg.Search.FallbackEnabled, rateLimit, logger)

	return &ConciergeWorkflow{
		id:             "healthfinder-" + uuid.New().String(),
		config:         wfConfig,
		healthcareTool: research.NewHealthcareResearchTool(logger),
		generalTool:    research.NewGeneralResearchTool(logger),
		searchAgent:    searchAgent,
		synthesizer:    synthesis.NewSynthesizer(logger),
		composer:       composer,
		stats:          &executionStats{},
		logger:         logger,
	}
}

// ID returns the stable identifier assigned at construction.
func (w *ConciergeWorkflow) ID() string {
	return w.id
}

// Config returns a copy of the active workflow configuration.
func (w *ConciergeWorkflow) Config() models.WorkflowConfig {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.config
}

// UpdateConfig replaces the active workflow configuration. Callers validate
// before swapping.
func (w *ConciergeWorkflow) UpdateConfig(cfg models.WorkflowConfig) {
	w.mu.Lock()
	w.config = cfg
	w.mu.Unlock()

	w.logger.WithFields(logrus.Fields{
		"name":           cfg.Name,
		"research_depth": cfg.ResearchDepth,
		"web_search":     cfg.EnableWebSearch,
		"synthesis_type": cfg.SynthesisType,
		"max_results":    cfg.MaxSearchResults,
	}).Info("Workflow configuration updated")
}

// ProcessRequest executes the full pipeline for one request. Pipeline
// failures are recovered into an apologetic completion; the error return
// stays nil so infrastructure layers only see transport-level failures.
func (w *ConciergeWorkflow) ProcessRequest(ctx context.Context, req *models.ChatCompletionRequest) (resp *models.ChatCompletionResponse, err error) {
	start := time.Now()
	run := w.newRun(req)

	defer func() {
		if r := recover(); r != nil {
			w.logger.WithFields(logrus.Fields{
				"workflow_id": run.id,
				"panic":       r,
			}).Error("Workflow execution failed")
			w.stats.record(time.Since(start), len(run.state.CompletedSteps), false)
			metrics.RecordWorkflow(false)
			resp = buildErrorResponse(run.id, req, fmt.Sprintf("%v", r), time.Since(start).Seconds())
			err = nil
		}
	}()

	w.logger.WithFields(logrus.Fields{
		"workflow_id":   run.id,
		"message_count": len(req.Messages),
	}).Info("Starting concierge workflow")

	req.ApplyDefaults()
	if validateErr := req.Validate(); validateErr != nil {
		w.logger.WithError(validateErr).Warn("Rejecting malformed completion request")
		w.stats.record(time.Since(start), 0, false)
		metrics.RecordWorkflow(false)
		return buildErrorResponse(run.id, req, "Invalid request format", time.Since(start).Seconds()), nil
	}

	query := req.UserQuery()

	// Step 1: analyze the query to pick domain, depth, and stages.
	w.logger.Debug("Step 1: Analyzing query")
	run.advance("query_analysis")
	classification := ClassifyQuery(query, run.config)

	w.logger.WithFields(logrus.Fields{
		"workflow_id":        run.id,
		"domain":             classification.Domain,
		"needs_current_info": classification.NeedsCurrentInfo,
		"suggested_depth":    classification.SuggestedDepth,
	}).Debug("Query analysis complete")

	// Step 2: run research and web search concurrently.
	w.logger.Debug("Step 2: Executing research and web search")
	run.advance("parallel_execution")
	findings, results, stageAgents := w.executeParallelStages(ctx, run, query, classification)
	run.state.ResearchResults = findings
	run.state.WebSearchResults = results
	for _, agent := range stageAgents {
		run.activate(agent.Name)
	}

	// Step 3: synthesize everything into one draft.
	w.logger.Debug("Step 3: Synthesizing results")
	run.advance("synthesis", "SynthesisAgent")
	synthesisStart := time.Now()
	synthesisType := synthesis.DetermineType(findings, results, run.config.SynthesisType)
	result := w.synthesizer.Synthesize(query, findings, results, synthesisType)
	result = w.composeNarrative(ctx, query, result)
	run.state.SynthesisResult = &result
	metrics.RecordStage("synthesis", time.Since(synthesisStart))

	agents := append(stageAgents, models.AgentInfo{
		Name:         "SynthesisAgent",
		Role:         "synthesis",
		Contribution: "Synthesized information from multiple sources",
		Confidence:   result.Confidence,
		SourcesUsed:  []string{fmt.Sprintf("%d total sources", len(result.SourceResults))},
	})

	// Step 4: format the assistant message and assemble the completion.
	w.logger.Debug("Step 4: Generating final response")
	run.advance("response_generation")
	content := formatFinalResponse(result)

	run.state.ProcessingTime = time.Since(start).Seconds()
	run.state.CurrentStep = "completed"
	w.stats.record(time.Since(start), len(run.state.CompletedSteps), true)
	metrics.RecordWorkflow(true)

	w.logger.WithFields(logrus.Fields{
		"workflow_id":     run.id,
		"processing_time": run.state.ProcessingTime,
		"response_length": len(content),
	}).Info("Concierge workflow completed successfully")

	resp = buildCompletionResponse(run.id, req, content, result, run.state, agents)
	metrics.RecordTokens(resp.Usage.PromptTokens, resp.Usage.CompletionTokens)
	return resp, nil
}

// newRun snapshots the active configuration, applies the request's
// overrides, and creates fresh pipeline state. Omitted request fields keep
// the configured values.
func (w *ConciergeWorkflow) newRun(req *models.ChatCompletionRequest) *workflowRun {
	cfg := w.Config()

	if req.EnableDeepResearch != nil {
		cfg.EnableResearch = *req.EnableDeepResearch
	}
	if req.EnableWebSearch != nil {
		cfg.EnableWebSearch = *req.EnableWebSearch
	}
	if req.ResearchDepth != nil {
		cfg.ResearchDepth = *req.ResearchDepth
	}
	if req.MaxSearchResults != nil {
		cfg.MaxSearchResults = *req.MaxSearchResults
	}

	return &workflowRun{
		id:     "healthfinder-" + uuid.New().String(),
		config: cfg,
		state: &models.WorkflowState{
			CurrentStep:      "initialization",
			CompletedSteps:   []string{},
			ResearchResults:  []models.ResearchFinding{},
			WebSearchResults: []models.SearchResult{},
			ActiveAgents:     []string{},
		},
	}
}

// executeParallelStages runs the enabled research and web-search stages
// concurrently and joins before returning. Contributing agents come back in
// a fixed order (research first) regardless of completion order.
func (w *ConciergeWorkflow) executeParallelStages(ctx context.Context, run *workflowRun, query string, classification Classification) ([]models.ResearchFinding, []models.SearchResult, []models.AgentInfo) {
	var (
		wg       sync.WaitGroup
		findings []models.ResearchFinding
		results  []models.SearchResult
	)

	if run.config.EnableResearch && classification.NeedsResearch {
		wg.Add(1)
		go func() {
			defer wg.Done()
			defer w.recoverStage("research", run.id)
			findings = w.runResearchStage(ctx, run, query, classification)
		}()
	}

	if run.config.EnableWebSearch && classification.NeedsCurrentInfo {
		wg.Add(1)
		go func() {
			defer wg.Done()
			defer w.recoverStage("web_search", run.id)
			results = w.runSearchStage(ctx, run, query, classification)
		}()
	}

	wg.Wait()

	var agents []models.AgentInfo
	if len(findings) > 0 {
		finding := findings[0]
		agents = append(agents, models.AgentInfo{
			Name:         finding.AgentName,
			Role:         "research",
			Contribution: "Conducted comprehensive research",
			Confidence:   finding.Confidence,
			SourcesUsed:  finding.Sources,
		})
	}
	if results != nil {
		agents = append(agents, models.AgentInfo{
			Name:         "WebSearchAgent",
			Role:         "web_search",
			Contribution: "Found current information through web search",
			Confidence:   averageRelevance(results),
			SourcesUsed:  topSourceURLs(results, 3),
		})
	}

	return findings, results, agents
}

// runResearchStage executes the domain research tool under the per-agent
// time budget.
func (w *ConciergeWorkflow) runResearchStage(ctx context.Context, run *workflowRun, query string, classification Classification) []models.ResearchFinding {
	stageCtx, cancel := context.WithTimeout(ctx, time.Duration(run.config.TimeoutPerAgent)*time.Second)
	defer cancel()

	stageStart := time.Now()
	defer func() { metrics.RecordStage("research", time.Since(stageStart)) }()

	tool := w.generalTool
	if classification.IsHealthcare() {
		tool = w.healthcareTool
	}

	finding := tool.Research(stageCtx, query, classification.SuggestedDepth, nil)
	if stageCtx.Err() != nil {
		w.logger.WithFields(logrus.Fields{
			"workflow_id": run.id,
			"agent":       tool.Name(),
			"budget":      run.config.TimeoutPerAgent,
		}).Warn("Research stage exceeded its time budget")
	}
	return []models.ResearchFinding{finding}
}

// runSearchStage executes the web search agent under the per-agent time
// budget, with the search type following the query domain.
func (w *ConciergeWorkflow) runSearchStage(ctx context.Context, run *workflowRun, query string, classification Classification) []models.SearchResult {
	stageCtx, cancel := context.WithTimeout(ctx, time.Duration(run.config.TimeoutPerAgent)*time.Second)
	defer cancel()

	stageStart := time.Now()
	defer func() { metrics.RecordStage("web_search", time.Since(stageStart)) }()

	searchType := "general"
	if classification.IsHealthcare() {
		searchType = "healthcare"
	}

	results := w.searchAgent.Execute(stageCtx, query, run.config.MaxSearchResults, searchType)
	if stageCtx.Err() != nil {
		w.logger.WithFields(logrus.Fields{
			"workflow_id": run.id,
			"agent":       "WebSearchAgent",
			"budget":      run.config.TimeoutPerAgent,
		}).Warn("Web search stage exceeded its time budget")
	}
	return results
}

// recoverStage converts a stage panic into an empty stage result so the
// pipeline continues with reduced input.
func (w *ConciergeWorkflow) recoverStage(stage, runID string) {
	if r := recover(); r != nil {
		w.logger.WithFields(logrus.Fields{
			"workflow_id": runID,
			"stage":       stage,
			"panic":       r,
		}).Error("Pipeline stage panicked")
	}
}

// composeNarrative optionally rewrites the synthesized draft through the
// configured composer. The deterministic draft survives any failure.
func (w *ConciergeWorkflow) composeNarrative(ctx context.Context, query string, result models.SynthesisResult) models.SynthesisResult {
	if w.composer == nil {
		return result
	}

	composed, err := w.composer.ComposeSynthesis(ctx, query, result.SynthesizedContent)
	if err != nil {
		w.logger.WithError(err).Warn("Narrative composition failed, keeping deterministic draft")
		return result
	}
	if strings.TrimSpace(composed) != "" {
		result.SynthesizedContent = composed
	}
	return result
}

// ValidateWorkflow verifies that the search provider is reachable.
func (w *ConciergeWorkflow) ValidateWorkflow(ctx context.Context) error {
	w.logger.Debug("Validating workflow configuration")

	if err := w.searchAgent.HealthCheck(ctx); err != nil {
		return fmt.Errorf("search provider validation failed: %w", err)
	}

	w.logger.Info("Workflow validation completed successfully")
	return nil
}

// WorkflowInfo reports identity and configuration for the status endpoint.
func (w *ConciergeWorkflow) WorkflowInfo() map[string]interface{} {
	cfg := w.Config()
	return map[string]interface{}{
		"workflow_id": w.id,
		"name":        cfg.Name,
		"description": cfg.Description,
		"agents": []string{
			w.healthcareTool.Name(),
			w.generalTool.Name(),
			"WebSearchAgent",
			"SynthesisAgent",
		},
		"config":          cfg,
		"execution_count": w.stats.requests(),
	}
}

// AgentStatus reports each pipeline agent and its tooling.
func (w *ConciergeWorkflow) AgentStatus() map[string]interface{} {
	cfg := w.Config()
	return map[string]interface{}{
		"research_agent": map[string]interface{}{
			"name":        "ResearchAgent",
			"role":        "research",
			"description": "Conducts comprehensive research on healthcare and general topics",
			"tools":       []string{w.healthcareTool.Name(), w.generalTool.Name()},
			"enabled":     cfg.EnableResearch,
		},
		"web_search_agent": map[string]interface{}{
			"name":         "WebSearchAgent",
			"role":         "web_search",
			"description":  "Performs web searches to find current information",
			"capabilities": w.searchAgent.Capabilities(),
			"enabled":      cfg.EnableWebSearch,
		},
		"synthesis_agent": map[string]interface{}{
			"name":           "SynthesisAgent",
			"role":           "synthesis",
			"description":    "Synthesizes information from multiple sources into coherent responses",
			"synthesis_type": cfg.SynthesisType,
			"enabled":        true,
		},
		"workflow_stats": w.ExecutionStats(),
	}
}

// ExecutionStats reports cumulative step counters for the status and
// metrics endpoints.
func (w *ConciergeWorkflow) ExecutionStats() map[string]interface{} {
	return w.stats.snapshot()
}

// PerformanceStats reports request-level latency and success counters.
func (w *ConciergeWorkflow) PerformanceStats() map[string]interface{} {
	return w.stats.performance()
}

// advance moves the run to the next pipeline step, recording it as entered
// and activating any agents bound to the step.
func (r *workflowRun) advance(step string, agents ...string) {
	r.state.CurrentStep = step
	r.state.CompletedSteps = append(r.state.CompletedSteps, step)
	for _, agent := range agents {
		r.activate(agent)
	}
}

// activate records an agent as participating in this run, once.
func (r *workflowRun) activate(agent string) {
	for _, existing := range r.state.ActiveAgents {
		if existing == agent {
			return
		}
	}
	r.state.ActiveAgents = append(r.state.ActiveAgents, agent)
}

// averageRelevance is the mean relevance score, 0.0 for an empty set.
func averageRelevance(results []models.SearchResult) float64 {
	if len(results) == 0 {
		return 0.0
	}
	total := 0.0
	for _, r := range results {
		total += r.RelevanceScore
	}
	return total / float64(len(results))
}

// topSourceURLs returns the URLs of the first n results.
func topSourceURLs(results []models.SearchResult, n int) []string {
	if len(results) < n {
		n = len(results)
	}
	urls := make([]string, 0, n)
	for _, r := range results[:n] {
		urls = append(urls, r.URL)
	}
	return urls
}
