// Package scenario loads and replays YAML mutation scripts against a
// tracked entity graph. A scenario declares entities by symbolic name and
// a sequence of steps; running it produces a live graph plus the commit
// history the steps created. The first declared entity becomes the graph
// root.
package scenario

import (
	"fmt"
	"os"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"

	"github.com/Mistobaan/Abstractions/ecs"
	"github.com/Mistobaan/Abstractions/history"
)

// Scenario is a named sequence of mutation steps.
type Scenario struct {
	Name  string `yaml:"name"`
	Steps []Step `yaml:"steps"`
}

// Step holds exactly one action. The YAML key selects the action.
type Step struct {
	AddEntity       *AddEntityStep `yaml:"add_entity,omitempty"`
	RemoveEntity    *EntityRef     `yaml:"remove_entity,omitempty"`
	AddEdge         *AddEdgeStep   `yaml:"add_edge,omitempty"`
	RemoveEdge      *EdgeRef       `yaml:"remove_edge,omitempty"`
	SetComponent    *ComponentStep `yaml:"set_component,omitempty"`
	RemoveComponent *ComponentRef  `yaml:"remove_component,omitempty"`
	Commit          *CommitStep    `yaml:"commit,omitempty"`
	Branch          *BranchStep    `yaml:"branch,omitempty"`
}

// AddEntityStep attaches a new entity. Components listed here travel with
// the entity, so they arrive as part of the node addition rather than as
// separate component events.
type AddEntityStep struct {
	Name       string         `yaml:"name"`
	Components map[string]any `yaml:"components,omitempty"`
}

// EntityRef names an entity declared earlier in the scenario.
type EntityRef struct {
	Name string `yaml:"name"`
}

// AddEdgeStep connects two declared entities.
type AddEdgeStep struct {
	From  string  `yaml:"from"`
	To    string  `yaml:"to"`
	Type  string  `yaml:"type"`
	Field string  `yaml:"field"`
	Index *int    `yaml:"index,omitempty"`
	Key   *string `yaml:"key,omitempty"`
}

// EdgeRef names an edge by its endpoints.
type EdgeRef struct {
	From string `yaml:"from"`
	To   string `yaml:"to"`
}

// ComponentStep sets a component payload, creating or replacing it.
type ComponentStep struct {
	Entity    string `yaml:"entity"`
	Component string `yaml:"component"`
	Value     any    `yaml:"value"`
}

// ComponentRef names a component on a declared entity.
type ComponentRef struct {
	Entity    string `yaml:"entity"`
	Component string `yaml:"component"`
}

// CommitStep commits the current graph state.
type CommitStep struct {
	Message string `yaml:"message"`
	Branch  string `yaml:"branch,omitempty"`
}

// BranchStep creates a branch at the current head.
type BranchStep struct {
	Name string `yaml:"name"`
}

// Result is what running a scenario leaves behind.
type Result struct {
	Graph   *ecs.Graph
	Root    uuid.UUID
	Names   map[string]uuid.UUID // symbolic name -> entity id
	Commits []string             // commit ids in creation order, initial commit first
}

// Load reads and parses a scenario file.
func Load(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario: %w", err)
	}
	return Parse(data)
}

// Parse decodes and validates a YAML scenario.
func Parse(data []byte) (*Scenario, error) {
	var s Scenario
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("failed to parse scenario: %w", err)
	}
	if len(s.Steps) == 0 {
		return nil, fmt.Errorf("scenario has no steps")
	}
	for i, step := range s.Steps {
		if n := step.actionCount(); n != 1 {
			return nil, fmt.Errorf("step %d: expected exactly one action, found %d", i+1, n)
		}
	}
	return &s, nil
}

func (st Step) actionCount() int {
	n := 0
	for _, set := range []bool{
		st.AddEntity != nil,
		st.RemoveEntity != nil,
		st.AddEdge != nil,
		st.RemoveEdge != nil,
		st.SetComponent != nil,
		st.RemoveComponent != nil,
		st.Commit != nil,
		st.Branch != nil,
	} {
		if set {
			n++
		}
	}
	return n
}

// Run replays the scenario against a tracker. The graph produced by the
// first add_entity step is registered with the tracker, which creates the
// initial commit; later commit steps extend that history.
func (s *Scenario) Run(tracker *history.Tracker) (*Result, error) {
	result := &Result{Names: make(map[string]uuid.UUID)}

	for i, step := range s.Steps {
		var err error
		switch {
		case step.AddEntity != nil:
			err = s.addEntity(tracker, result, step.AddEntity)
		case step.RemoveEntity != nil:
			err = s.removeEntity(result, step.RemoveEntity)
		case step.AddEdge != nil:
			err = s.addEdge(result, step.AddEdge)
		case step.RemoveEdge != nil:
			err = s.removeEdge(result, step.RemoveEdge)
		case step.SetComponent != nil:
			err = s.setComponent(result, step.SetComponent)
		case step.RemoveComponent != nil:
			err = s.removeComponent(result, step.RemoveComponent)
		case step.Commit != nil:
			err = s.commit(tracker, result, step.Commit)
		case step.Branch != nil:
			err = s.branch(tracker, result, step.Branch)
		}
		if err != nil {
			return nil, fmt.Errorf("step %d: %w", i+1, err)
		}
	}
	return result, nil
}

func (s *Scenario) addEntity(tracker *history.Tracker, result *Result, step *AddEntityStep) error {
	if step.Name == "" {
		return fmt.Errorf("add_entity requires a name")
	}
	if _, taken := result.Names[step.Name]; taken {
		return fmt.Errorf("entity name %q already in use", step.Name)
	}

	e := ecs.NewEntity()
	for name, value := range step.Components {
		e.Components[name] = value
	}
	result.Names[step.Name] = e.ID

	if result.Graph == nil {
		// The first entity roots the graph and starts its history.
		result.Graph = ecs.NewGraph(e.ID, e.LineageID)
		result.Root = e.ID
		result.Graph.AddNode(e)
		result.Graph.AddObserver(tracker)
		tracker.Register(result.Graph)
		if head, ok := tracker.History.Head(result.Root); ok {
			result.Commits = append(result.Commits, head)
		}
		return nil
	}

	result.Graph.AddNode(e)
	return nil
}

func (s *Scenario) removeEntity(result *Result, step *EntityRef) error {
	id, err := s.resolve(result, step.Name)
	if err != nil {
		return err
	}
	if _, ok := result.Graph.RemoveNode(id); !ok {
		return fmt.Errorf("entity %q is not in the graph", step.Name)
	}
	delete(result.Names, step.Name)
	return nil
}

func (s *Scenario) addEdge(result *Result, step *AddEdgeStep) error {
	source, err := s.resolve(result, step.From)
	if err != nil {
		return err
	}
	target, err := s.resolve(result, step.To)
	if err != nil {
		return err
	}
	edgeType, err := ecs.ParseEdgeType(step.Type)
	if err != nil {
		return err
	}
	result.Graph.AddEdge(&ecs.Edge{
		Source:         source,
		Target:         target,
		Type:           edgeType,
		FieldName:      step.Field,
		ContainerIndex: step.Index,
		ContainerKey:   step.Key,
	})
	return nil
}

func (s *Scenario) removeEdge(result *Result, step *EdgeRef) error {
	source, err := s.resolve(result, step.From)
	if err != nil {
		return err
	}
	target, err := s.resolve(result, step.To)
	if err != nil {
		return err
	}
	if _, ok := result.Graph.RemoveEdge(source, target); !ok {
		return fmt.Errorf("no edge from %q to %q", step.From, step.To)
	}
	return nil
}

func (s *Scenario) setComponent(result *Result, step *ComponentStep) error {
	id, err := s.resolve(result, step.Entity)
	if err != nil {
		return err
	}
	if !result.Graph.UpdateComponent(id, step.Component, step.Value) {
		return fmt.Errorf("entity %q is not in the graph", step.Entity)
	}
	return nil
}

func (s *Scenario) removeComponent(result *Result, step *ComponentRef) error {
	id, err := s.resolve(result, step.Entity)
	if err != nil {
		return err
	}
	if _, ok := result.Graph.RemoveComponent(id, step.Component); !ok {
		return fmt.Errorf("entity %q has no component %q", step.Entity, step.Component)
	}
	return nil
}

func (s *Scenario) commit(tracker *history.Tracker, result *Result, step *CommitStep) error {
	if result.Graph == nil {
		return fmt.Errorf("cannot commit before any entity exists")
	}
	commitID, ok := tracker.CommitNow(result.Root, step.Message, step.Branch)
	if !ok {
		return fmt.Errorf("commit failed: root is not registered")
	}
	result.Commits = append(result.Commits, commitID)
	return nil
}

func (s *Scenario) branch(tracker *history.Tracker, result *Result, step *BranchStep) error {
	if result.Graph == nil {
		return fmt.Errorf("cannot branch before any entity exists")
	}
	if !tracker.BranchFromCurrent(result.Root, step.Name) {
		return fmt.Errorf("branch %q could not be created", step.Name)
	}
	return nil
}

func (s *Scenario) resolve(result *Result, name string) (uuid.UUID, error) {
	if result.Graph == nil {
		return uuid.Nil, fmt.Errorf("no entities declared yet")
	}
	id, ok := result.Names[name]
	if !ok {
		return uuid.Nil, fmt.Errorf("unknown entity %q", name)
	}
	return id, nil
}
