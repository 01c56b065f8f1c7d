package harness

import (
	"bytes"
	"fmt"
	"os"
	"slices"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/roach88/critterkeep/internal/engine"
)

// Scenario is a scripted sequence of operations with expected outcomes.
type Scenario struct {
	// Name uniquely identifies the scenario and names its golden file.
	Name string `yaml:"name"`

	// Description explains what the scenario exercises.
	Description string `yaml:"description"`

	// Seed seeds the random factory. Zero is a valid seed.
	Seed int64 `yaml:"seed"`

	// Steps run in order.
	Steps []Step `yaml:"steps"`

	// Assertions run after the last step.
	Assertions []Assertion `yaml:"assertions,omitempty"`
}

// Step invokes one operation.
type Step struct {
	// Caller is the account invoking the operation.
	Caller string `yaml:"caller"`

	// At is the offset from the scenario epoch, e.g. "2h30m".
	// Offsets must not decrease from one step to the next.
	At time.Duration `yaml:"at"`

	// Op is the operation name, e.g. "createPet".
	Op string `yaml:"op"`

	// Args are the operation arguments, using journal field names.
	Args map[string]any `yaml:"args,omitempty"`

	// Expect defaults to success with no result check.
	Expect *Expect `yaml:"expect,omitempty"`
}

// Expect is the expected outcome of a step.
type Expect struct {
	// Code is "OK" or a rejection code such as "NO_PET".
	Code string `yaml:"code"`

	// Result is matched as a subset of the operation result's JSON form.
	Result map[string]any `yaml:"result,omitempty"`
}

// Assertion checks the trace or the final state.
type Assertion struct {
	// Type is one of trace_count, trace_order or final_state.
	Type string `yaml:"type"`

	// Op is the operation counted by trace_count.
	Op string `yaml:"op,omitempty"`

	// Code restricts trace_count to steps with this outcome.
	Code string `yaml:"code,omitempty"`

	// Count is the expected number of matching steps.
	Count int `yaml:"count,omitempty"`

	// Ops must first succeed in this order (trace_order).
	Ops []string `yaml:"ops,omitempty"`

	// View names the state read by final_state.
	View string `yaml:"view,omitempty"`

	// Account is the account whose state is read.
	Account string `yaml:"account,omitempty"`

	// ID is the battle id for the battle view.
	ID int64 `yaml:"id,omitempty"`

	// Expect is matched as a subset of the view's JSON form.
	Expect any `yaml:"expect,omitempty"`
}

// Assertion types.
const (
	AssertTraceCount = "trace_count"
	AssertTraceOrder = "trace_order"
	AssertFinalState = "final_state"
)

// Views readable by final_state.
const (
	ViewPet       = "pet"
	ViewInventory = "inventory"
	ViewAccount   = "account"
	ViewEquipment = "equipment"
	ViewEffects   = "effects"
	ViewBattle    = "battle"
	ViewListings  = "listings"
)

var accountViews = []string{ViewPet, ViewInventory, ViewAccount, ViewEquipment, ViewEffects}

// LoadScenario reads and validates a scenario file. Unknown fields are
// rejected so typos fail loudly.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario file: %w", err)
	}
	return ParseScenario(data)
}

// ParseScenario decodes and validates scenario YAML.
func ParseScenario(data []byte) (*Scenario, error) {
	var scenario Scenario
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&scenario); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if err := validateScenario(&scenario); err != nil {
		return nil, fmt.Errorf("invalid scenario: %w", err)
	}
	return &scenario, nil
}

func validateScenario(s *Scenario) error {
	if s.Name == "" {
		return fmt.Errorf("name is required")
	}
	if s.Description == "" {
		return fmt.Errorf("description is required")
	}
	if len(s.Steps) == 0 {
		return fmt.Errorf("steps list is required and must be non-empty")
	}

	ops := engine.Ops()
	var last time.Duration
	for i, step := range s.Steps {
		if step.Caller == "" {
			return fmt.Errorf("steps[%d]: caller is required", i)
		}
		if !slices.Contains(ops, step.Op) {
			return fmt.Errorf("steps[%d]: unknown op %q", i, step.Op)
		}
		if step.At < 0 {
			return fmt.Errorf("steps[%d]: at must be non-negative", i)
		}
		if step.At < last {
			return fmt.Errorf("steps[%d]: at %s is before the previous step (%s)", i, step.At, last)
		}
		last = step.At
		if step.Expect != nil && step.Expect.Code == "" {
			return fmt.Errorf("steps[%d].expect: code is required", i)
		}
	}

	for i := range s.Assertions {
		if err := validateAssertion(i, &s.Assertions[i], ops); err != nil {
			return err
		}
	}
	return nil
}

func validateAssertion(index int, a *Assertion, ops []string) error {
	switch a.Type {
	case "":
		return fmt.Errorf("assertions[%d]: type is required", index)
	case AssertTraceCount:
		if !slices.Contains(ops, a.Op) {
			return fmt.Errorf("assertions[%d]: unknown op %q for trace_count", index, a.Op)
		}
		if a.Count < 0 {
			return fmt.Errorf("assertions[%d]: count must be non-negative for trace_count", index)
		}
	case AssertTraceOrder:
		if len(a.Ops) == 0 {
			return fmt.Errorf("assertions[%d]: ops list is required for trace_order", index)
		}
		for _, op := range a.Ops {
			if !slices.Contains(ops, op) {
				return fmt.Errorf("assertions[%d]: unknown op %q for trace_order", index, op)
			}
		}
	case AssertFinalState:
		switch {
		case slices.Contains(accountViews, a.View):
			if a.Account == "" {
				return fmt.Errorf("assertions[%d]: account is required for the %s view", index, a.View)
			}
		case a.View == ViewBattle:
			if a.ID <= 0 {
				return fmt.Errorf("assertions[%d]: id is required for the battle view", index)
			}
		case a.View == ViewListings:
		default:
			return fmt.Errorf("assertions[%d]: unknown view %q", index, a.View)
		}
		if a.Expect == nil {
			return fmt.Errorf("assertions[%d]: expect is required for final_state", index)
		}
	default:
		return fmt.Errorf("assertions[%d]: unknown assertion type %q", index, a.Type)
	}
	return nil
}
