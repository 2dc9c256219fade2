package scenarios

import (
	"context"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/snow-ghost/evalbench/core"
)

// QuestionsPerScenario is the fixed scenario length in the default set.
// The run-level max score derives from it.
const QuestionsPerScenario = 4

// Source loads the scenario set from a YAML file, falling back to the
// embedded default set when no file is configured.
type Source struct {
	path string
}

// NewSource creates a scenario source. path may be empty, in which case
// the default set is served.
func NewSource(path string) *Source {
	return &Source{path: path}
}

// Load returns the scenario set. The set is static for the lifetime of
// a run: callers load once at run start.
func (s *Source) Load(ctx context.Context) ([]core.Scenario, error) {
	if s.path == "" {
		return Defaults(), nil
	}

	data, err := os.ReadFile(s.path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario file %s: %w", s.path, err)
	}
	return LoadFromBytes(data)
}

// LoadFromBytes parses a scenario set from YAML data.
func LoadFromBytes(data []byte) ([]core.Scenario, error) {
	var doc struct {
		Scenarios []core.Scenario `yaml:"scenarios"`
	}
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse scenario YAML: %w", err)
	}
	if err := validate(doc.Scenarios); err != nil {
		return nil, err
	}
	return doc.Scenarios, nil
}

// Filter returns the scenarios matching ids, preserving source order.
// An empty ids list selects everything. Unknown ids are ignored.
func Filter(all []core.Scenario, ids []string) []core.Scenario {
	if len(ids) == 0 {
		return all
	}
	wanted := make(map[string]bool, len(ids))
	for _, id := range ids {
		wanted[id] = true
	}
	var out []core.Scenario
	for _, sc := range all {
		if wanted[sc.ID] {
			out = append(out, sc)
		}
	}
	return out
}

// validate rejects scenario sets the runner cannot execute.
func validate(set []core.Scenario) error {
	seen := make(map[string]bool, len(set))
	for _, sc := range set {
		if sc.ID == "" {
			return fmt.Errorf("scenario with empty id")
		}
		if seen[sc.ID] {
			return fmt.Errorf("duplicate scenario id %q", sc.ID)
		}
		seen[sc.ID] = true
		// The run-level max score assumes the fixed length.
		if len(sc.Questions) != QuestionsPerScenario {
			return fmt.Errorf("scenario %s has %d questions, want %d", sc.ID, len(sc.Questions), QuestionsPerScenario)
		}
		for i, q := range sc.Questions {
			if q.Number != i+1 {
				return fmt.Errorf("scenario %s question %d has number %d", sc.ID, i+1, q.Number)
			}
			if q.Text == "" {
				return fmt.Errorf("scenario %s question %d is empty", sc.ID, q.Number)
			}
		}
	}
	return nil
}
