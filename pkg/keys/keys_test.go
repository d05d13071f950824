package keys_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/macropower/flip/pkg/keys"
)

func TestKeyBind_String(t *testing.T) {
	t.Parallel()

	tcs := map[string]struct {
		kb   keys.KeyBind
		want string
	}{
		"codes": {
			kb:   keys.NewBind("next", keys.New("right"), keys.New("l")),
			want: "right/l",
		},
		"alias": {
			kb:   keys.NewBind("next", keys.New("right", keys.WithAlias("→"))),
			want: "→",
		},
		"hidden": {
			kb:   keys.NewBind("quit", keys.New("q"), keys.New("ctrl+c", keys.Hidden())),
			want: "q",
		},
		"all hidden": {
			kb:   keys.NewBind("quit", keys.New("ctrl+c", keys.Hidden())),
			want: "",
		},
	}

	for name, tc := range tcs {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			assert.Equal(t, tc.want, tc.kb.String())
		})
	}
}

func TestKeyBind_Match(t *testing.T) {
	t.Parallel()

	kb := keys.NewBind("quit", keys.New("q"), keys.New("ctrl+c", keys.Hidden()))

	assert.True(t, kb.Match("q"))
	assert.True(t, kb.Match("ctrl+c"))
	assert.False(t, kb.Match("Q"))

	var nilBind *keys.KeyBind
	assert.False(t, nilBind.Match("q"))
}

func TestKeyBind_AddKey(t *testing.T) {
	t.Parallel()

	kb := keys.NewBind("next", keys.New("right"))
	kb.AddKey(keys.New("l"))
	kb.AddKey(keys.New("right", keys.WithAlias("→")))

	assert.Equal(t, []keys.Key{keys.New("right"), keys.New("l")}, kb.Keys)

	var nilBind *keys.KeyBind
	nilBind.AddKey(keys.New("x"))
}

func TestValidateBinds(t *testing.T) {
	t.Parallel()

	next := keys.NewBind("next", keys.New("right"), keys.New("down"))
	prev := keys.NewBind("prev", keys.New("left"), keys.New("up"))
	clash := keys.NewBind("help", keys.New("down"), keys.New("left"))

	require.NoError(t, keys.ValidateBinds(&next, &prev, nil))

	err := keys.ValidateBinds(&next, &prev, &clash)
	require.ErrorIs(t, err, keys.ErrDuplicateKey)
	assert.Contains(t, err.Error(), `"down" used by "next" and "help"`)
	assert.Contains(t, err.Error(), `"left" used by "prev" and "help"`)
}

func TestSetDefaultBind(t *testing.T) {
	t.Parallel()

	def := keys.NewBind("next page", keys.New("right"))

	var unset *keys.KeyBind
	keys.SetDefaultBind(&unset, def)
	require.NotNil(t, unset)
	assert.Equal(t, def, *unset)

	unset.AddKey(keys.New("l"))
	assert.Len(t, def.Keys, 1, "default must not be aliased")

	partial := &keys.KeyBind{Keys: []keys.Key{keys.New("n")}}
	keys.SetDefaultBind(&partial, def)
	assert.Equal(t, "next page", partial.Description)
	assert.Equal(t, []keys.Key{keys.New("n")}, partial.Keys)

	empty := &keys.KeyBind{Description: "custom"}
	keys.SetDefaultBind(&empty, def)
	assert.Equal(t, "custom", empty.Description)
	assert.Equal(t, def.Keys, empty.Keys)
}

func TestRenderer(t *testing.T) {
	t.Parallel()

	next := keys.NewBind("next page", keys.New("right"), keys.New("down"))
	prev := keys.NewBind("previous page", keys.New("left"))
	quit := keys.NewBind("quit", keys.New("q"), keys.New("ctrl+c", keys.Hidden()))
	hidden := keys.NewBind("secret", keys.New("x", keys.Hidden()))

	var r keys.Renderer
	assert.Empty(t, r.Render(80))

	r.AddColumn(&next, &prev, &hidden)
	r.AddColumn(&quit)
	r.AddColumn()

	out := r.Render(60)
	lines := strings.Split(out, "\n")
	require.Len(t, lines, 2)

	assert.Contains(t, lines[0], "right/down  next page")
	assert.Contains(t, lines[0], "q  quit")
	assert.Contains(t, lines[1], "left        previous page")
	assert.NotContains(t, out, "secret")
}

func TestRenderer_Truncates(t *testing.T) {
	t.Parallel()

	kb := keys.NewBind("a very long description that cannot fit", keys.New("k"))

	var r keys.Renderer
	r.AddColumn(&kb)

	out := r.Render(20)
	assert.Contains(t, out, "…")
	assert.NotContains(t, out, "cannot fit")
}
