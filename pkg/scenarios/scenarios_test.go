package scenarios

import (
	"context"
	"testing"

	"github.com/snow-ghost/evalbench/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaults(t *testing.T) {
	set := Defaults()
	require.NotEmpty(t, set)

	seen := map[string]bool{}
	for _, sc := range set {
		assert.NotEmpty(t, sc.ID)
		assert.NotEmpty(t, sc.Title)
		assert.False(t, seen[sc.ID], "duplicate id %s", sc.ID)
		seen[sc.ID] = true

		require.Len(t, sc.Questions, QuestionsPerScenario)
		for i, q := range sc.Questions {
			assert.Equal(t, i+1, q.Number, "scenario %s", sc.ID)
			assert.NotEmpty(t, q.Text)
		}
	}
}

func TestSource_LoadWithoutPathServesDefaults(t *testing.T) {
	src := NewSource("")
	set, err := src.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, Defaults(), set)
}

func TestSource_LoadMissingFile(t *testing.T) {
	src := NewSource("/nonexistent/scenarios.yaml")
	_, err := src.Load(context.Background())
	require.Error(t, err)
}

func TestLoadFromBytes(t *testing.T) {
	data := []byte(`
scenarios:
  - id: s1
    title: First
    questions:
      - number: 1
        text: one
      - number: 2
        text: two
      - number: 3
        text: three
      - number: 4
        text: four
`)
	set, err := LoadFromBytes(data)
	require.NoError(t, err)
	require.Len(t, set, 1)
	assert.Equal(t, "s1", set[0].ID)
	assert.Equal(t, "two", set[0].Questions[1].Text)
}

func TestLoadFromBytes_Invalid(t *testing.T) {
	tests := []struct {
		name string
		yaml string
	}{
		{"bad yaml", ":\n  - :"},
		{"empty id", "scenarios:\n  - title: x\n    questions:\n      - {number: 1, text: a}\n      - {number: 2, text: b}\n      - {number: 3, text: c}\n      - {number: 4, text: d}"},
		{"no questions", "scenarios:\n  - id: s1\n    title: x"},
		{"wrong length", "scenarios:\n  - id: s1\n    title: x\n    questions:\n      - {number: 1, text: q}"},
		{"bad numbering", "scenarios:\n  - id: s1\n    title: x\n    questions:\n      - {number: 1, text: a}\n      - {number: 3, text: b}\n      - {number: 2, text: c}\n      - {number: 4, text: d}"},
		{"empty text", "scenarios:\n  - id: s1\n    title: x\n    questions:\n      - {number: 1, text: a}\n      - {number: 2, text: \"\"}\n      - {number: 3, text: c}\n      - {number: 4, text: d}"},
		{"duplicate id", "scenarios:\n  - id: s1\n    title: x\n    questions:\n      - {number: 1, text: a}\n      - {number: 2, text: b}\n      - {number: 3, text: c}\n      - {number: 4, text: d}\n  - id: s1\n    title: y\n    questions:\n      - {number: 1, text: a}\n      - {number: 2, text: b}\n      - {number: 3, text: c}\n      - {number: 4, text: d}"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadFromBytes([]byte(tt.yaml))
			assert.Error(t, err)
		})
	}
}

func TestFilter(t *testing.T) {
	all := []core.Scenario{
		{ID: "s1", Questions: []core.Question{{Number: 1, Text: "q"}}},
		{ID: "s2", Questions: []core.Question{{Number: 1, Text: "q"}}},
		{ID: "s3", Questions: []core.Question{{Number: 1, Text: "q"}}},
	}

	t.Run("empty selects all", func(t *testing.T) {
		assert.Len(t, Filter(all, nil), 3)
	})

	t.Run("single id", func(t *testing.T) {
		got := Filter(all, []string{"s2"})
		require.Len(t, got, 1)
		assert.Equal(t, "s2", got[0].ID)
	})

	t.Run("source order preserved", func(t *testing.T) {
		got := Filter(all, []string{"s3", "s1"})
		require.Len(t, got, 2)
		assert.Equal(t, "s1", got[0].ID)
		assert.Equal(t, "s3", got[1].ID)
	})

	t.Run("unknown id ignored", func(t *testing.T) {
		assert.Empty(t, Filter(all, []string{"nope"}))
	})
}
