package harness

import (
	"encoding/json"
	"fmt"
	"reflect"
	"slices"
	"strconv"
	"strings"
)

// AssertionError is returned when an assertion fails.
// It includes detailed context to help debug the failure.
type AssertionError struct {
	Type     string       // Assertion type for categorization
	Expected string       // Human-readable expected outcome
	Actual   string       // Human-readable actual outcome
	Trace    []TraceEvent // Full trace for debugging context
}

// Error implements the error interface.
func (e *AssertionError) Error() string {
	var buf strings.Builder

	fmt.Fprintf(&buf, "Assertion failed: %s\n", e.Type)
	fmt.Fprintf(&buf, "  Expected: %s\n", e.Expected)
	fmt.Fprintf(&buf, "  Actual: %s\n", e.Actual)

	if len(e.Trace) > 0 {
		fmt.Fprintf(&buf, "\nFull trace:\n")
		for _, event := range e.Trace {
			switch event.Type {
			case EventInvocation:
				fmt.Fprintf(&buf, "  [%d] %s %v\n", event.Seq, event.Action, event.Args)
			case EventCompletion:
				fmt.Fprintf(&buf, "  [%d]   -> %s %s\n", event.Seq, event.Outcome, event.Message)
			}
		}
	}

	return buf.String()
}

// assertTraceContains checks if the trace contains an invocation matching
// the specified action and args (subset match), and optionally that it
// completed with the given outcome.
func assertTraceContains(trace []TraceEvent, assertion Assertion) error {
	outcomes := make(map[int64]string)
	for _, event := range trace {
		if event.Type == EventCompletion {
			outcomes[event.InvocationSeq] = event.Outcome
		}
	}

	for _, event := range trace {
		if event.Type != EventInvocation || event.Action != assertion.Action {
			continue
		}
		if !matchArgs(event.Args, assertion.Args) {
			continue
		}
		if assertion.Outcome != "" && outcomes[event.Seq] != assertion.Outcome {
			continue
		}
		return nil
	}

	expected := fmt.Sprintf("action %s with args %v", assertion.Action, assertion.Args)
	if assertion.Outcome != "" {
		expected += " completing " + assertion.Outcome
	}
	return &AssertionError{
		Type:     AssertTraceContains,
		Expected: expected,
		Actual:   "not found in trace",
		Trace:    trace,
	}
}

// assertTraceOrder checks if actions were first invoked in the specified
// order. Intervening actions are allowed.
func assertTraceOrder(trace []TraceEvent, assertion Assertion) error {
	positions := make(map[string]int)
	for i, event := range trace {
		if event.Type != EventInvocation {
			continue
		}
		if _, seen := positions[event.Action]; !seen {
			positions[event.Action] = i + 1 // 1-indexed for readability
		}
	}

	for _, action := range assertion.Actions {
		if positions[action] == 0 {
			return &AssertionError{
				Type:     AssertTraceOrder,
				Expected: fmt.Sprintf("all actions present: %v", assertion.Actions),
				Actual:   fmt.Sprintf("missing action: %s", action),
				Trace:    trace,
			}
		}
	}

	for i := 1; i < len(assertion.Actions); i++ {
		prev := assertion.Actions[i-1]
		curr := assertion.Actions[i]
		if positions[prev] >= positions[curr] {
			return &AssertionError{
				Type:     AssertTraceOrder,
				Expected: fmt.Sprintf("actions in order: %v", assertion.Actions),
				Actual: fmt.Sprintf("%s (pos %d) should be before %s (pos %d)",
					prev, positions[prev], curr, positions[curr]),
				Trace: trace,
			}
		}
	}
	return nil
}

// assertTraceCount checks if the action was invoked exactly Count times.
func assertTraceCount(trace []TraceEvent, assertion Assertion) error {
	count := 0
	for _, event := range trace {
		if event.Type == EventInvocation && event.Action == assertion.Action {
			count++
		}
	}

	if count != assertion.Count {
		return &AssertionError{
			Type:     AssertTraceCount,
			Expected: fmt.Sprintf("%d occurrences of %s", assertion.Count, assertion.Action),
			Actual:   fmt.Sprintf("%d occurrences", count),
			Trace:    trace,
		}
	}
	return nil
}

// assertFinalView checks dotted paths of the final view against expected
// values. Keys are visited in sorted order so the first reported mismatch is
// stable.
func assertFinalView(view map[string]any, assertion Assertion) error {
	paths := make([]string, 0, len(assertion.Expect))
	for p := range assertion.Expect {
		paths = append(paths, p)
	}
	slices.Sort(paths)

	for _, path := range paths {
		actual, ok := lookupPath(view, path)
		if !ok {
			return &AssertionError{
				Type:     AssertFinalView,
				Expected: fmt.Sprintf("path %q to exist", path),
				Actual:   "path not present in view",
			}
		}
		expected, err := normalize(assertion.Expect[path])
		if err != nil {
			return fmt.Errorf("final_view %q: %w", path, err)
		}
		if !valuesEqual(actual, expected) {
			return &AssertionError{
				Type:     AssertFinalView,
				Expected: fmt.Sprintf("%s = %v", path, expected),
				Actual:   fmt.Sprintf("%s = %v", path, actual),
			}
		}
	}
	return nil
}

// assertRequestCount checks how often the authority saw a route.
func assertRequestCount(result *Result, assertion Assertion) error {
	method := strings.ToUpper(assertion.Method)
	count := 0
	for _, req := range result.Requests {
		if req.Method == method && req.Path == assertion.Path {
			count++
		}
	}
	if count != assertion.Count {
		return &AssertionError{
			Type:     AssertRequestCount,
			Expected: fmt.Sprintf("%d requests to %s %s", assertion.Count, method, assertion.Path),
			Actual:   fmt.Sprintf("%d requests", count),
		}
	}
	return nil
}

// lookupPath walks a dotted path through decoded JSON. Integer segments
// index into lists. A present JSON null is found with a nil value.
func lookupPath(root any, path string) (any, bool) {
	cur := root
	for _, seg := range strings.Split(path, ".") {
		switch node := cur.(type) {
		case map[string]any:
			next, ok := node[seg]
			if !ok {
				return nil, false
			}
			cur = next
		case []any:
			i, err := strconv.Atoi(seg)
			if err != nil || i < 0 || i >= len(node) {
				return nil, false
			}
			cur = node[i]
		default:
			return nil, false
		}
	}
	return cur, true
}

// normalize puts a YAML-decoded value into the shape encoding/json decodes
// to, so ints compare equal to float64s.
func normalize(v any) (any, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	var out any
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// matchArgs checks if actual args contain all expected args (subset match).
// Extra keys in actual are ignored.
func matchArgs(actual map[string]any, expected map[string]any) bool {
	if len(expected) == 0 {
		return true
	}

	for key, expectedVal := range expected {
		actualVal, exists := actual[key]
		if !exists {
			return false
		}
		want, err := normalize(expectedVal)
		if err != nil || !valuesEqual(actualVal, want) {
			return false
		}
	}
	return true
}

func valuesEqual(actual, expected any) bool {
	if actual == nil || expected == nil {
		return actual == nil && expected == nil
	}
	return reflect.DeepEqual(actual, expected)
}

// EvaluateAssertions evaluates all assertions against the result.
// Returns a slice of error messages for failed assertions.
func EvaluateAssertions(result *Result, assertions []Assertion) []string {
	var errors []string

	for i, assertion := range assertions {
		var err error

		switch assertion.Type {
		case AssertTraceContains:
			err = assertTraceContains(result.Trace, assertion)
		case AssertTraceOrder:
			err = assertTraceOrder(result.Trace, assertion)
		case AssertTraceCount:
			err = assertTraceCount(result.Trace, assertion)
		case AssertFinalView:
			err = assertFinalView(result.View, assertion)
		case AssertRequestCount:
			err = assertRequestCount(result, assertion)
		default:
			err = fmt.Errorf("assertion[%d]: unknown assertion type %q", i, assertion.Type)
		}

		if err != nil {
			errors = append(errors, err.Error())
		}
	}

	return errors
}
