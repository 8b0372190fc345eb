package config

import (
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/sarchlab/splitbus/sim"
)

// Duration is a simulated time written as a string such as "50ns".
type Duration sim.VTime

// VTime returns the duration as simulated time.
func (d Duration) VTime() sim.VTime {
	return sim.VTime(d)
}

func (d Duration) String() string {
	return sim.VTime(d).String()
}

// UnmarshalYAML parses a duration string.
func (d *Duration) UnmarshalYAML(node *yaml.Node) error {
	var s string
	if err := node.Decode(&s); err != nil {
		return fmt.Errorf("line %d: duration must be a string: %w", node.Line, err)
	}

	t, err := sim.ParseVTime(s)
	if err != nil {
		return fmt.Errorf("line %d: %w", node.Line, err)
	}

	*d = Duration(t)

	return nil
}

// MarshalYAML writes the duration as a string.
func (d Duration) MarshalYAML() (interface{}, error) {
	return d.String(), nil
}
