package sim

import (
	"sort"

	log "github.com/sirupsen/logrus"
)

// A Simulation keeps the engine and the named components of a simulated
// system so that tools can find them by name.
type Simulation struct {
	engine        Engine
	components    []Named
	compNameIndex map[string]int
}

// NewSimulation creates a new simulation.
func NewSimulation() *Simulation {
	return &Simulation{
		compNameIndex: make(map[string]int),
	}
}

// RegisterEngine registers the engine used in the simulation.
func (s *Simulation) RegisterEngine(e Engine) {
	s.engine = e
}

// GetEngine returns the engine used in the simulation.
func (s *Simulation) GetEngine() Engine {
	return s.engine
}

// RegisterComponent registers a component with the simulation. Names must be
// unique.
func (s *Simulation) RegisterComponent(c Named) {
	compName := c.Name()
	if _, found := s.compNameIndex[compName]; found {
		log.Panicf("component %s already registered", compName)
	}

	s.components = append(s.components, c)
	s.compNameIndex[compName] = len(s.components) - 1
}

// GetComponentByName returns the component with the given name, or nil.
func (s *Simulation) GetComponentByName(name string) Named {
	i, found := s.compNameIndex[name]
	if !found {
		return nil
	}

	return s.components[i]
}

// Components returns the registered components in registration order.
func (s *Simulation) Components() []Named {
	return s.components
}

// ComponentNames returns the sorted names of all components.
func (s *Simulation) ComponentNames() []string {
	names := make([]string, 0, len(s.components))
	for _, c := range s.components {
		names = append(names, c.Name())
	}

	sort.Strings(names)

	return names
}
