package harness

import (
	"bytes"
	"fmt"
	"net/http"
	"os"
	"slices"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/dechi99991/cooking-sim/internal/script"
	"github.com/dechi99991/cooking-sim/internal/testutil"
)

// Scenario defines a store test scenario.
// Scenarios drive a session.Store through a flow of actions against a
// scripted authority and assert on the resulting trace and final view.
type Scenario struct {
	// Name uniquely identifies this scenario. It also names the golden file.
	Name string `yaml:"name"`

	// Description explains what this scenario validates.
	Description string `yaml:"description"`

	// RunID fixes the journal run id. Defaults to testutil.DefaultRunID.
	RunID string `yaml:"run_id,omitempty"`

	// Remote lists canned authority replies. Replies for the same route are
	// served in order; the last one repeats.
	Remote []RouteReply `yaml:"remote"`

	// Flow contains the store actions to perform, in order.
	Flow []FlowStep `yaml:"flow"`

	// Assertions validate the final trace, view and requests.
	// Supported types: trace_contains, trace_order, trace_count, final_view,
	// request_count
	Assertions []Assertion `yaml:"assertions"`
}

// RouteReply is one canned authority reply.
type RouteReply struct {
	Method string `yaml:"method"`
	Path   string `yaml:"path"`

	// Status defaults to 200.
	Status int `yaml:"status,omitempty"`

	// Body is sent as JSON. Ignored when Raw is set.
	Body any `yaml:"body,omitempty"`

	// Raw is sent verbatim.
	Raw string `yaml:"raw,omitempty"`
}

func (r RouteReply) reply() testutil.Reply {
	return testutil.Reply{Status: r.Status, Body: r.Body, Raw: r.Raw}
}

// FlowStep is one store action.
type FlowStep struct {
	// Action is a dispatcher action name (e.g. "cook_confirm").
	Action string `yaml:"action"`

	// Args are the action's arguments, as in a play script.
	Args map[string]any `yaml:"args,omitempty"`

	// Expect checks how the action finished.
	// If nil, no validation is performed.
	Expect *ExpectClause `yaml:"expect,omitempty"`
}

// ExpectClause specifies expected action behaviour.
type ExpectClause struct {
	// OK is whether the store's error slot is empty after the action.
	OK *bool `yaml:"ok,omitempty"`

	// ErrorContains must be a substring of the store's error slot.
	ErrorContains string `yaml:"error_contains,omitempty"`

	// Skipped is whether the action was skipped for lack of a session.
	Skipped *bool `yaml:"skipped,omitempty"`
}

// Assertion validates trace, view or remote traffic.
type Assertion struct {
	// Type specifies the assertion type:
	// - "trace_contains": an invocation of Action with Args (subset) exists,
	//   optionally completed with Outcome
	// - "trace_order": Actions were first invoked in this order
	// - "trace_count": Action was invoked exactly Count times
	// - "final_view": dotted paths of the final view have the Expect values
	// - "request_count": the authority saw Method Path exactly Count times
	Type string `yaml:"type"`

	// Action is the action name (trace_contains, trace_count).
	Action string `yaml:"action,omitempty"`

	// Args are the expected action arguments (trace_contains).
	// Subset match - only specified fields are validated.
	Args map[string]any `yaml:"args,omitempty"`

	// Outcome is the expected completion outcome (trace_contains).
	Outcome string `yaml:"outcome,omitempty"`

	// Actions is the expected action order (trace_order).
	Actions []string `yaml:"actions,omitempty"`

	// Count is the expected number of occurrences (trace_count, request_count).
	Count int `yaml:"count,omitempty"`

	// Expect maps dotted view paths to values (final_view).
	// Path segments that are integers index into lists.
	Expect map[string]any `yaml:"expect,omitempty"`

	// Method and Path name an authority route (request_count).
	Method string `yaml:"method,omitempty"`
	Path   string `yaml:"path,omitempty"`
}

// Assertion type constants.
const (
	AssertTraceContains = "trace_contains"
	AssertTraceOrder    = "trace_order"
	AssertTraceCount    = "trace_count"
	AssertFinalView     = "final_view"
	AssertRequestCount  = "request_count"
)

// LoadScenario reads and parses a scenario YAML file.
// Returns an error if the file doesn't exist, is malformed,
// contains unknown fields (typos), or is missing required fields.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario file: %w", err)
	}
	return ParseScenario(data)
}

// ParseScenario parses scenario YAML.
func ParseScenario(data []byte) (*Scenario, error) {
	// Strict field validation catches typos like "assertion:" vs "assertions:"
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

// validateScenario checks that required fields are present and valid.
func validateScenario(s *Scenario) error {
	if s.Name == "" {
		return fmt.Errorf("name is required")
	}
	if s.Description == "" {
		return fmt.Errorf("description is required")
	}
	if len(s.Flow) == 0 {
		return fmt.Errorf("flow list is required and must be non-empty")
	}
	if len(s.Assertions) == 0 {
		return fmt.Errorf("assertions list is required and must be non-empty")
	}

	for i, r := range s.Remote {
		if err := validateRoute(fmt.Sprintf("remote[%d]", i), r.Method, r.Path); err != nil {
			return err
		}
		if r.Status != 0 && (r.Status < 100 || r.Status > 599) {
			return fmt.Errorf("remote[%d]: status %d out of range", i, r.Status)
		}
	}

	actions := script.Actions()
	for i, step := range s.Flow {
		if step.Action == "" {
			return fmt.Errorf("flow[%d]: action is required", i)
		}
		if !slices.Contains(actions, step.Action) {
			return fmt.Errorf("flow[%d]: unknown action %q", i, step.Action)
		}
		if step.Expect != nil && step.Expect.OK == nil && step.Expect.ErrorContains == "" && step.Expect.Skipped == nil {
			return fmt.Errorf("flow[%d].expect: ok, error_contains or skipped is required", i)
		}
	}

	for i := range s.Assertions {
		if err := validateAssertion(i, &s.Assertions[i]); err != nil {
			return err
		}
	}
	return nil
}

func validateRoute(where, method, path string) error {
	switch strings.ToUpper(method) {
	case http.MethodGet, http.MethodPost:
	case "":
		return fmt.Errorf("%s: method is required", where)
	default:
		return fmt.Errorf("%s: unsupported method %q", where, method)
	}
	if !strings.HasPrefix(path, "/") {
		return fmt.Errorf("%s: path must start with /", where)
	}
	return nil
}

// validateAssertion validates a single assertion based on its type.
func validateAssertion(index int, a *Assertion) error {
	if a.Type == "" {
		return fmt.Errorf("assertions[%d]: type is required", index)
	}

	switch a.Type {
	case AssertTraceContains:
		if a.Action == "" {
			return fmt.Errorf("assertions[%d]: action is required for trace_contains", index)
		}
	case AssertTraceOrder:
		if len(a.Actions) == 0 {
			return fmt.Errorf("assertions[%d]: actions list is required for trace_order", index)
		}
	case AssertTraceCount:
		if a.Action == "" {
			return fmt.Errorf("assertions[%d]: action is required for trace_count", index)
		}
		if a.Count < 0 {
			return fmt.Errorf("assertions[%d]: count must be non-negative for trace_count", index)
		}
	case AssertFinalView:
		if len(a.Expect) == 0 {
			return fmt.Errorf("assertions[%d]: expect is required for final_view", index)
		}
	case AssertRequestCount:
		if err := validateRoute(fmt.Sprintf("assertions[%d]", index), a.Method, a.Path); err != nil {
			return err
		}
		if a.Count < 0 {
			return fmt.Errorf("assertions[%d]: count must be non-negative for request_count", index)
		}
	default:
		return fmt.Errorf("assertions[%d]: unknown assertion type %q", index, a.Type)
	}
	return nil
}
