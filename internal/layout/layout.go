// Package layout computes sidebar widths before the first frame is drawn.
// Vars and CSS serve HTML hosts, Script is the equivalent browser bootstrap,
// and Columns serves the terminal shell.
package layout

import (
	"context"
	"encoding/json"
	"fmt"
	"regexp"
	"sort"
	"strings"

	"sidebarkit/internal/domain"
	"sidebarkit/internal/logging"
	"sidebarkit/internal/ports"
)

const (
	DefaultCollapsedWidth = "3.5rem"
	DefaultExpandedWidth  = "16rem"
)

// idPattern matches ids that are safe inside a CSS custom property name.
// Vars and the browser script both use it.
const idPattern = `^[A-Za-z0-9_-]+$`

var validID = regexp.MustCompile(idPattern)

// Widths are the CSS widths of an open and a closed sidebar
type Widths struct {
	Collapsed string
	Expanded  string
}

// DefaultWidths returns the stock widths
func DefaultWidths() Widths {
	return Widths{
		Collapsed: DefaultCollapsedWidth,
		Expanded:  DefaultExpandedWidth,
	}
}

// Var is one CSS custom property
type Var struct {
	Name  string
	Value string
}

// VarName returns the custom property holding the width of sidebar id
func VarName(id string) string {
	return "--sidebar-" + id + "-width"
}

// storedState is the subset of the persisted record the bootstrap reads.
// It ignores the version so it keeps working across schema upgrades.
type storedState struct {
	Sidebars map[string]struct {
		Open bool `json:"open"`
	} `json:"sidebars"`
}

// Vars reads key from storage and returns one width variable per stored
// sidebar, sorted by id. Every failure yields no variables.
func Vars(ctx context.Context, storage ports.StorageReader, key string, widths Widths) []Var {
	if storage == nil {
		return nil
	}

	raw, err := storage.Get(ctx, key)
	if err != nil {
		logging.Logger.Debug("No layout vars, storage read failed", "key", key, "error", err)
		return nil
	}

	var st storedState
	if err := json.Unmarshal([]byte(raw), &st); err != nil {
		logging.Logger.Debug("No layout vars, stored state is not valid JSON", "key", key, "error", err)
		return nil
	}

	open := make(map[string]bool, len(st.Sidebars))
	for id, sb := range st.Sidebars {
		open[id] = sb.Open
	}
	return varsFor(open, widths)
}

// VarsForState returns the width variables for an in-memory state
func VarsForState(st domain.State, widths Widths) []Var {
	open := make(map[string]bool, len(st.Sidebars))
	for id, sb := range st.Sidebars {
		open[id] = sb.Open
	}
	return varsFor(open, widths)
}

func varsFor(open map[string]bool, widths Widths) []Var {
	ids := make([]string, 0, len(open))
	for id := range open {
		if !validID.MatchString(id) {
			logging.Logger.Debug("Skipping sidebar id unusable in CSS", "id", id)
			continue
		}
		ids = append(ids, id)
	}
	sort.Strings(ids)

	vars := make([]Var, 0, len(ids))
	for _, id := range ids {
		value := widths.Collapsed
		if open[id] {
			value = widths.Expanded
		}
		vars = append(vars, Var{Name: VarName(id), Value: value})
	}
	return vars
}

// CSS renders vars as a :root rule. No vars renders an empty string.
func CSS(vars []Var) string {
	if len(vars) == 0 {
		return ""
	}

	var b strings.Builder
	b.WriteString(":root{")
	for _, v := range vars {
		fmt.Fprintf(&b, "%s:%s;", v.Name, v.Value)
	}
	b.WriteString("}")
	return b.String()
}

// Script returns the inline script that sets the width variables from
// localStorage before the page is hydrated. It skips the same ids as Vars
// and fails silently.
func Script(key string, widths Widths) string {
	return fmt.Sprintf(`(function(){try{var stored=localStorage.getItem(%s);if(!stored)return;var state=JSON.parse(stored);var sidebars=(state&&state.sidebars)||{};Object.keys(sidebars).forEach(function(id){if(!/%s/.test(id))return;var width=sidebars[id].open?%s:%s;document.documentElement.style.setProperty('--sidebar-'+id+'-width',width);});}catch(e){}})();`,
		jsString(key), idPattern, jsString(widths.Expanded), jsString(widths.Collapsed))
}

// jsString quotes s as a JavaScript string literal. json.Marshal escapes
// < and > so the result is safe inside a script tag.
func jsString(s string) string {
	data, err := json.Marshal(s)
	if err != nil {
		return `""`
	}
	return string(data)
}

// Columns returns the terminal width of every sidebar in st
func Columns(st domain.State, expanded, collapsed int) map[string]int {
	out := make(map[string]int, len(st.Sidebars))
	for id, sb := range st.Sidebars {
		if sb.Open {
			out[id] = expanded
		} else {
			out[id] = collapsed
		}
	}
	return out
}
