package yaml_test

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/macropower/flip/pkg/yaml"
)

type sample struct {
	Wait *yaml.Duration `json:"wait,omitempty"`
	Name string         `json:"name"`
}

func TestUnmarshal(t *testing.T) {
	t.Parallel()

	var s sample
	require.NoError(t, yaml.Unmarshal([]byte("name: a\nwait: 1.5s\n"), &s))
	assert.Equal(t, "a", s.Name)
	require.NotNil(t, s.Wait)
	assert.Equal(t, 1500*time.Millisecond, s.Wait.Std())
}

func TestUnmarshal_Errors(t *testing.T) {
	t.Parallel()

	tcs := map[string]struct {
		input    string
		contains []string
	}{
		"bad duration": {
			input:    "name: a\nwait: soon\n",
			contains: []string{"parse duration"},
		},
		"unknown field": {
			input:    "name: a\nextra: 1\n",
			contains: []string{"[2:1]", "> 2 | extra: 1"},
		},
		"syntax": {
			input: "name: [a\n",
		},
	}

	for name, tc := range tcs {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			var s sample

			err := yaml.Unmarshal([]byte(tc.input), &s)
			require.Error(t, err)

			for _, c := range tc.contains {
				assert.Contains(t, err.Error(), c)
			}
		})
	}
}

func TestMarshal(t *testing.T) {
	t.Parallel()

	d := yaml.Duration(300 * time.Millisecond)

	out, err := yaml.Marshal(sample{Name: "a", Wait: &d})
	require.NoError(t, err)
	assert.Equal(t, "wait: 300ms\nname: a\n", string(out))
}

func TestError(t *testing.T) {
	t.Parallel()

	source := []byte("a: 1\nb:\n  c: 2\n  d: 3\ne: 4\n")
	path := yaml.NewPathBuilder().Root().Child("b").Child("d").Build()

	tcs := map[string]struct {
		err  *yaml.Error
		want string
	}{
		"plain": {
			err:  yaml.NewError(errors.New("boom")),
			want: "boom",
		},
		"path without source": {
			err:  yaml.NewError(errors.New("boom"), yaml.WithPath(path)),
			want: "error at $.b.d: boom",
		},
		"path with source": {
			err: yaml.NewError(errors.New("boom"),
				yaml.WithPath(path),
				yaml.WithSource(source),
				yaml.WithSourceLines(1),
			),
			want: "[4:3] boom\n  3 |   c: 2\n> 4 |   d: 3\n  5 | e: 4",
		},
		"nil error": {
			err:  &yaml.Error{},
			want: "",
		},
	}

	for name, tc := range tcs {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			assert.Equal(t, tc.want, tc.err.Error())
		})
	}
}

func TestValidator(t *testing.T) {
	t.Parallel()

	schema := map[string]any{
		"type": "object",
		"properties": map[string]any{
			"name": map[string]any{"type": "string"},
			"items": map[string]any{
				"type":  "array",
				"items": map[string]any{"type": "integer", "minimum": 0},
			},
		},
		"additionalProperties": false,
	}

	v, err := yaml.NewValidator("https://example.test/schema.json", schema)
	require.NoError(t, err)

	require.NoError(t, v.Validate(map[string]any{"name": "a", "items": []any{1, 2}}))

	err = v.Validate(map[string]any{"name": "a", "items": []any{1, -2}})

	var yamlErr *yaml.Error
	require.ErrorAs(t, err, &yamlErr)
	require.NotNil(t, yamlErr.Path)
	assert.Equal(t, "$.items[1]", yamlErr.Path.String())

	err = v.Validate(map[string]any{"name": 3})
	require.ErrorAs(t, err, &yamlErr)
	assert.Equal(t, "$.name", yamlErr.Path.String())
}
