package sweep

import (
	"context"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/san-kum/grayscott/internal/config"
	"github.com/san-kum/grayscott/internal/experiment"
	"github.com/san-kum/grayscott/internal/sim"
)

// Scenario is a scripted sequence of runs sharing a base configuration.
type Scenario struct {
	Name        string         `yaml:"name"`
	Description string         `yaml:"description"`
	Steps       []ScenarioStep `yaml:"steps"`
}

// ScenarioStep overrides parts of the base configuration for one run.
// Params keys are the names accepted by model.Params.WithParam.
type ScenarioStep struct {
	Preset   string             `yaml:"preset"`
	Params   map[string]float64 `yaml:"params"`
	Steps    int                `yaml:"steps"`
	Strategy string             `yaml:"strategy"`
	SaveAs   string             `yaml:"save_as"`
}

func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var scenario Scenario
	if err := yaml.Unmarshal(data, &scenario); err != nil {
		return nil, err
	}

	return &scenario, nil
}

// StepResult pairs a scenario step with its run.
type StepResult struct {
	Step   ScenarioStep
	Config *config.Config
	Result *sim.Result
	Final  sim.Snapshot
}

// Apply builds the configuration of one step on top of base.
func (st ScenarioStep) Apply(base *config.Config) (*config.Config, error) {
	cfg := base.Clone()
	if st.Preset != "" {
		if err := cfg.ApplyPreset(st.Preset); err != nil {
			return nil, err
		}
	}
	for name, v := range st.Params {
		p, err := cfg.Params.WithParam(name, v)
		if err != nil {
			return nil, err
		}
		cfg.Params = p
	}
	if st.Steps > 0 {
		cfg.Steps = st.Steps
	}
	if st.Strategy != "" {
		cfg.Strategy = st.Strategy
	}
	return cfg, nil
}

// RunScenario executes the steps in order and stops at the first failure.
func RunScenario(ctx context.Context, scenario *Scenario, base *config.Config) ([]StepResult, error) {
	results := make([]StepResult, 0, len(scenario.Steps))

	for i, step := range scenario.Steps {
		cfg, err := step.Apply(base)
		if err != nil {
			return results, fmt.Errorf("step %d: %w", i+1, err)
		}

		exp, err := experiment.New(cfg)
		if err != nil {
			return results, fmt.Errorf("step %d setup: %w", i+1, err)
		}

		result, err := exp.Run(ctx)
		if err != nil {
			return results, fmt.Errorf("step %d run: %w", i+1, err)
		}

		results = append(results, StepResult{
			Step:   step,
			Config: cfg,
			Result: result,
			Final:  exp.GetSimulator().Snapshot(),
		})
	}

	return results, nil
}
