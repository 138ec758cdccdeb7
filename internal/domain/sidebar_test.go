package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseVariant(t *testing.T) {
	tests := []struct {
		input    string
		expected Variant
		wantErr  bool
	}{
		{"", VariantDefault, false},
		{"default", VariantDefault, false},
		{"Floating", VariantFloating, false},
		{" inset ", VariantInset, false},
		{"sidebar", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			v, err := ParseVariant(tt.input)
			if tt.wantErr {
				require.ErrorIs(t, err, ErrInvalidVariant)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, v)
		})
	}
}

func TestParseSide(t *testing.T) {
	side, err := ParseSide("RIGHT")
	require.NoError(t, err)
	assert.Equal(t, SideRight, side)

	side, err = ParseSide("")
	require.NoError(t, err)
	assert.Equal(t, SideLeft, side)

	_, err = ParseSide("top")
	assert.ErrorIs(t, err, ErrInvalidSide)
}

func TestVariantNext(t *testing.T) {
	assert.Equal(t, VariantFloating, VariantDefault.Next())
	assert.Equal(t, VariantInset, VariantFloating.Next())
	assert.Equal(t, VariantDefault, VariantInset.Next())
	assert.Equal(t, VariantDefault, Variant("bogus").Next())
}

func TestSidebarIsOpen(t *testing.T) {
	sb := Sidebar{Open: true, OpenMobile: false}
	assert.True(t, sb.IsOpen(false))
	assert.False(t, sb.IsOpen(true))
}

func TestStateListSortedByID(t *testing.T) {
	st := Register(NewState(), "zeta", SidebarOptions{})
	st = Register(st, "alpha", SidebarOptions{})

	assert.Equal(t, []string{"alpha", "zeta"}, st.IDs())
	list := st.List()
	require.Len(t, list, 2)
	assert.Equal(t, "alpha", list[0].ID)
}

func TestStateOwnerNormalizes(t *testing.T) {
	st := Register(NewState(), "main", SidebarOptions{KeyboardShortcut: "mod+b"})

	id, ok := st.Owner("Cmd+B")
	assert.True(t, ok)
	assert.Equal(t, "main", id)
}
