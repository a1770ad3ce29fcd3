package workflow

import "healthfinder-go/pkg/models"

// DefaultWorkflowConfig is the balanced configuration for mixed query loads.
func DefaultWorkflowConfig() models.WorkflowConfig {
	return models.WorkflowConfig{
		Name:             "HealthFinder Concierge",
		Description:      "Multi-agent research and synthesis workflow for healthcare and general queries",
		EnableResearch:   true,
		ResearchDepth:    3,
		EnableWebSearch:  true,
		MaxSearchResults: 10,
		SearchEngine:     "duckduckgo",
		SynthesisType:    "auto",
		LLMModel:         "gpt-4",
		LLMTemperature:   0.7,
		MaxTokens:        2000,
		MaxExecutionTime: 120,
		TimeoutPerAgent:  60,
	}
}

// HealthcareWorkflowConfig deepens research and lowers temperature for
// medical queries.
func HealthcareWorkflowConfig() models.WorkflowConfig {
	cfg := DefaultWorkflowConfig()
	cfg.Name = "HealthFinder Healthcare Workflow"
	cfg.Description = "Specialized workflow for healthcare and medical queries"
	cfg.ResearchDepth = 4
	cfg.MaxSearchResults = 15
	cfg.SynthesisType = "healthcare"
	cfg.LLMTemperature = 0.3
	return cfg
}

// GeneralWorkflowConfig targets general research and information queries.
func GeneralWorkflowConfig() models.WorkflowConfig {
	cfg := DefaultWorkflowConfig()
	cfg.Name = "HealthFinder General Workflow"
	cfg.Description = "Workflow for general research and information queries"
	cfg.ResearchDepth = 3
	cfg.MaxSearchResults = 10
	cfg.SynthesisType = "general"
	return cfg
}

// FastWorkflowConfig trades coverage for latency.
func FastWorkflowConfig() models.WorkflowConfig {
	cfg := DefaultWorkflowConfig()
	cfg.Name = "HealthFinder Fast Workflow"
	cfg.Description = "Optimized workflow for quick responses"
	cfg.ResearchDepth = 2
	cfg.EnableWebSearch = false
	cfg.MaxSearchResults = 5
	cfg.MaxExecutionTime = 60
	cfg.TimeoutPerAgent = 30
	return cfg
}

// ConfigPresets returns the named configurations exposed by the API.
func ConfigPresets() map[string]models.WorkflowConfig {
	return map[string]models.WorkflowConfig{
		"default":    DefaultWorkflowConfig(),
		"healthcare": HealthcareWorkflowConfig(),
		"general":    GeneralWorkflowConfig(),
		"fast":       FastWorkflowConfig(),
	}
}

// PresetByName resolves a preset name, reporting whether it exists.
func PresetByName(name string) (models.WorkflowConfig, bool) {
	cfg, ok := ConfigPresets()[name]
	return cfg, ok
}
