package compaction

import "go.yaml.in/yaml/v2"

type policyConfig struct {
	MaxMessages   *int     `yaml:"max_messages"`
	MaxTokens     *int     `yaml:"max_tokens"`
	TokenRatio    *float64 `yaml:"token_ratio"`
	ContextWindow *int     `yaml:"context_window"`
	Enabled       bool     `yaml:"enabled"`
}

// LoadPolicyYAML parses a compaction policy, e.g.:
//
//	enabled: true
//	max_messages: 200
//	context_window: 128000
//	token_ratio: 0.8
func LoadPolicyYAML(data []byte) (Policy, error) {
	var cfg policyConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Policy{}, err
	}
	return Policy{
		MaxMessages:   cfg.MaxMessages,
		MaxTokens:     cfg.MaxTokens,
		TokenRatio:    cfg.TokenRatio,
		ContextWindow: cfg.ContextWindow,
		Enabled:       cfg.Enabled,
	}, nil
}
