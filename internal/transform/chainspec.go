package transform

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// StepSpec is one declared transform in a chain file
type StepSpec struct {
	Name   string         `yaml:"name"`
	Params map[string]any `yaml:"params"`
}

// ChainSpec is the YAML description of a transform chain. Transforms
// run in listed order.
type ChainSpec struct {
	Transforms []StepSpec `yaml:"transforms"`
}

// Compile parses a YAML chain description and builds the chain. Unknown
// transform names and bad parameters fail here, not at apply time.
func Compile(data []byte) (*Chain, error) {
	var spec ChainSpec
	if err := yaml.Unmarshal(data, &spec); err != nil {
		return nil, fmt.Errorf("failed to parse chain spec: %w", err)
	}
	if len(spec.Transforms) == 0 {
		return nil, fmt.Errorf("chain spec declares no transforms")
	}

	steps := make([]Transform, 0, len(spec.Transforms))
	for i, step := range spec.Transforms {
		t, err := New(step.Name, step.Params)
		if err != nil {
			return nil, fmt.Errorf("chain step %d: %w", i, err)
		}
		steps = append(steps, t)
	}
	return NewChain(steps...), nil
}

// CompileFile reads and compiles a chain spec from a YAML file
func CompileFile(path string) (*Chain, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read chain spec: %w", err)
	}
	return Compile(data)
}
