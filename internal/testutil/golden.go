// Package testutil provides shared test helpers for lpi Go tests.
package testutil

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/pkg/errors"
)

// ScenariosDir is the relative path from the module root to the conformance scenarios.
const ScenariosDir = "testdata/scenarios"

// Scenario represents a test scenario loaded from a scenario.json file.
type Scenario struct {
	// Cmd is the lpi subcommand followed by its arguments, e.g.
	// ["run", "--pretty", "program.lpi"]. The last argument names the program.
	Cmd      []string       `json:"cmd"`
	MaxSteps int64          `json:"maxSteps,omitempty"`
	Meta     *ScenarioMeta  `json:"meta,omitempty"`
	Expect   ExpectedResult `json:"expect"`
}

// ScenarioMeta holds optional scenario metadata.
type ScenarioMeta struct {
	Tags []string `json:"tags,omitempty"`
}

// ExpectedResult describes the expected outcome of running a scenario.
// A nil StdoutText is not checked; a pointer to "" requires empty output.
type ExpectedResult struct {
	ExitCode         int             `json:"exitCode"`
	StdoutText       *string         `json:"stdoutText,omitempty"`
	StdoutContains   string          `json:"stdoutContains,omitempty"`
	StderrContains   string          `json:"stderrContains,omitempty"`
	StderrJSONSubset json.RawMessage `json:"stderrJsonSubset,omitempty"`
	EnvJSONSubset    json.RawMessage `json:"envJsonSubset,omitempty"`
}

// LoadScenario loads a scenario from a directory containing scenario.json.
func LoadScenario(dir string) (*Scenario, error) {
	path := filepath.Join(dir, "scenario.json")
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "reading %s", path)
	}
	var s Scenario
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, errors.Wrapf(err, "decoding %s", path)
	}
	if len(s.Cmd) < 2 {
		return nil, fmt.Errorf("%s: cmd needs a subcommand and a program file", path)
	}
	return &s, nil
}

// ListScenarios returns all scenario directories under the given root, sorted.
func ListScenarios(root string) ([]string, error) {
	entries, err := os.ReadDir(root)
	if err != nil {
		return nil, err
	}
	var dirs []string
	for _, e := range entries {
		if e.IsDir() {
			scenarioPath := filepath.Join(root, e.Name(), "scenario.json")
			if _, err := os.Stat(scenarioPath); err == nil {
				dirs = append(dirs, filepath.Join(root, e.Name()))
			}
		}
	}
	sort.Strings(dirs)
	return dirs, nil
}

// ReadProgramFile reads the program file named by the last element of cmd.
func ReadProgramFile(scenarioDir string, cmd []string) (source, filename string, err error) {
	filename = cmd[len(cmd)-1]
	data, err := os.ReadFile(filepath.Join(scenarioDir, filename))
	if err != nil {
		return "", "", errors.Wrap(err, "reading program")
	}
	return string(data), filename, nil
}

// HasFlag reports whether flag appears among the scenario arguments.
func HasFlag(cmd []string, flag string) bool {
	for _, arg := range cmd[1:] {
		if arg == flag {
			return true
		}
	}
	return false
}

// IsSubset checks if expected is a subset of actual, both being decoded JSON.
// Objects match when every expected key matches; arrays match element-wise
// on the expected prefix.
func IsSubset(expected, actual interface{}) bool {
	switch e := expected.(type) {
	case map[string]interface{}:
		a, ok := actual.(map[string]interface{})
		if !ok {
			return false
		}
		for k, ev := range e {
			av, exists := a[k]
			if !exists || !IsSubset(ev, av) {
				return false
			}
		}
		return true

	case []interface{}:
		a, ok := actual.([]interface{})
		if !ok || len(e) > len(a) {
			return false
		}
		for i, ev := range e {
			if !IsSubset(ev, a[i]) {
				return false
			}
		}
		return true

	case nil:
		return actual == nil

	default:
		return fmt.Sprintf("%v", expected) == fmt.Sprintf("%v", actual)
	}
}
