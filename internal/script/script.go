// Package script replays recorded gesture sequences through the interaction controller.
//
// A script is a YAML (or JSON) document:
//
//	name: Lead intake
//	steps:
//	  - kind: palette_select
//	    node_type: trigger
//	    as: start
//	  - kind: canvas_double_click
//	    x: 650
//	    y: 300
//	  - kind: menu_select
//	    node_type: email
//	    as: notify
//	  - kind: connection_start
//	    node: start
//	  - kind: connection_complete
//	    node: notify
//
// Node and connection ids are generated at replay time, so steps refer to earlier results
// by the alias given in "as".
package script

import (
	"fmt"
	"os"

	"github.com/aretw0/flowcanvas/internal/interaction"
	"gopkg.in/yaml.v3"
)

// Script is a named sequence of steps.
type Script struct {
	Name    string           `yaml:"name"`
	AgentID string           `yaml:"agent_id"`
	Steps   []map[string]any `yaml:"steps"`
}

// Step is one decoded gesture plus its alias bookkeeping.
type Step struct {
	Gesture    interaction.Gesture
	As         string
	Node       string
	Connection string
}

// Dispatcher applies gestures. It is implemented by interaction.Controller and the editor.
type Dispatcher interface {
	Dispatch(g interaction.Gesture) (interaction.Result, error)
}

// Parse decodes a script. YAML is a superset of JSON, so both are accepted.
func Parse(data []byte) (Script, error) {
	var s Script
	if err := yaml.Unmarshal(data, &s); err != nil {
		return Script{}, fmt.Errorf("failed to parse script: %w", err)
	}
	return s, nil
}

// Load reads and parses a script file.
func Load(path string) (Script, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Script{}, fmt.Errorf("failed to read script: %w", err)
	}
	return Parse(data)
}

// Compile decodes every step, failing on the first malformed one.
func (s Script) Compile() ([]Step, error) {
	steps := make([]Step, 0, len(s.Steps))
	for i, raw := range s.Steps {
		step, err := decodeStep(raw)
		if err != nil {
			return nil, fmt.Errorf("step %d: %w", i+1, err)
		}
		steps = append(steps, step)
	}
	return steps, nil
}

func decodeStep(raw map[string]any) (Step, error) {
	fields := make(map[string]any, len(raw))
	var step Step
	for k, v := range raw {
		switch k {
		case "as", "node", "connection":
			str, ok := v.(string)
			if !ok {
				return Step{}, fmt.Errorf("%q must be a string", k)
			}
			switch k {
			case "as":
				step.As = str
			case "node":
				step.Node = str
			case "connection":
				step.Connection = str
			}
		default:
			fields[k] = v
		}
	}

	g, err := interaction.DecodeGesture(fields)
	if err != nil {
		return Step{}, err
	}
	step.Gesture = g
	return step, nil
}
