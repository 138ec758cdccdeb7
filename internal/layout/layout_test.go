package layout

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sidebarkit/internal/adapters/storage"
	"sidebarkit/internal/domain"
)

const key = "sidebar-state"

func TestVars_FromStorage(t *testing.T) {
	ctx := context.Background()
	mem := storage.NewMemoryStorage()
	require.NoError(t, mem.Set(ctx, key, `{"version":1,"sidebars":{"tools":{"open":false},"main":{"open":true},"bad id":{"open":true}}}`))

	vars := Vars(ctx, mem, key, DefaultWidths())

	assert.Equal(t, []Var{
		{Name: "--sidebar-main-width", Value: "16rem"},
		{Name: "--sidebar-tools-width", Value: "3.5rem"},
	}, vars)
}

func TestVars_FailsSilently(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name  string
		value string
		set   bool
	}{
		{name: "missing key"},
		{name: "malformed json", value: "not-json", set: true},
		{name: "wrong shape", value: `{"sidebars":[1,2]}`, set: true},
		{name: "no sidebars", value: `{}`, set: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mem := storage.NewMemoryStorage()
			if tt.set {
				require.NoError(t, mem.Set(ctx, key, tt.value))
			}
			assert.Empty(t, Vars(ctx, mem, key, DefaultWidths()))
		})
	}

	assert.Nil(t, Vars(ctx, nil, key, DefaultWidths()))
}

func TestVarsForState(t *testing.T) {
	st := domain.Register(domain.NewState(), "main", domain.SidebarOptions{})
	st = domain.Register(st, "files", domain.SidebarOptions{})
	st = domain.Toggle(st, "files", false)

	vars := VarsForState(st, Widths{Expanded: "20rem", Collapsed: "0"})

	assert.Equal(t, []Var{
		{Name: "--sidebar-files-width", Value: "0"},
		{Name: "--sidebar-main-width", Value: "20rem"},
	}, vars)
}

func TestCSS(t *testing.T) {
	assert.Empty(t, CSS(nil))
	assert.Equal(t,
		":root{--sidebar-a-width:16rem;--sidebar-b-width:3.5rem;}",
		CSS([]Var{{Name: VarName("a"), Value: "16rem"}, {Name: VarName("b"), Value: "3.5rem"}}))
}

func TestScript(t *testing.T) {
	script := Script("my-key", DefaultWidths())

	assert.Contains(t, script, `localStorage.getItem("my-key")`)
	assert.Contains(t, script, `?"16rem":"3.5rem"`)
	assert.Contains(t, script, "--sidebar-")
	assert.Contains(t, script, "catch(e){}")
	assert.Contains(t, script, `if(!/^[A-Za-z0-9_-]+$/.test(id))return;`, "the script skips ids Vars skips")
	assert.True(t, validID.MatchString("nav_main-2"))
	assert.False(t, validID.MatchString("nav.main"))

	injected := Script("</script><script>alert(1)", DefaultWidths())
	assert.NotContains(t, injected, "</script>")
}

func TestColumns(t *testing.T) {
	st := domain.Register(domain.NewState(), "main", domain.SidebarOptions{})
	st = domain.Register(st, "tools", domain.SidebarOptions{Open: boolPtr(false)})

	assert.Equal(t, map[string]int{"main": 28, "tools": 4}, Columns(st, 28, 4))
	assert.Empty(t, Columns(domain.NewState(), 28, 4))
}

func boolPtr(b bool) *bool { return &b }
