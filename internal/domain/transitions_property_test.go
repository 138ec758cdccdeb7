package domain

import (
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
)

var (
	propertyIDs       = []string{"main", "tools", "files"}
	propertyShortcuts = []string{"", "mod+b", "mod+t", "cmd+b"}
)

// applyOp decodes n into one transition over a small id/shortcut universe so
// random sequences collide often.
func applyOp(st State, registered map[string]bool, n int) State {
	id := propertyIDs[(n/7)%len(propertyIDs)]
	shortcut := propertyShortcuts[(n/21)%len(propertyShortcuts)]

	switch n % 7 {
	case 0:
		registered[id] = true
		return Register(st, id, SidebarOptions{KeyboardShortcut: shortcut})
	case 1:
		delete(registered, id)
		return Unregister(st, id)
	case 2:
		return Toggle(st, id, n%2 == 0)
	case 3:
		return SetKeyboardShortcut(st, id, shortcut)
	case 4:
		return SetVariant(st, id, Variants[n%len(Variants)])
	case 5:
		return ToggleByShortcut(st, shortcut, false)
	default:
		delete(registered, id)
		return ClearSidebar(st, id)
	}
}

// indexConsistent checks both directions of the shortcut index invariant
func indexConsistent(st State) bool {
	for id, sb := range st.Sidebars {
		if sb.ID != id {
			return false
		}
		if sb.KeyboardShortcut != "" && st.KeyboardShortcuts[sb.KeyboardShortcut] != id {
			return false
		}
	}
	for shortcut, id := range st.KeyboardShortcuts {
		sb, ok := st.Sidebars[id]
		if !ok || sb.KeyboardShortcut != shortcut {
			return false
		}
	}
	return true
}

func TestTransitionProperties(t *testing.T) {
	properties := gopter.NewProperties(nil)
	ops := gen.SliceOf(gen.IntRange(0, 10_000))

	// Property: sidebars holds exactly the currently registered ids
	properties.Property("registered set tracks register/unregister", prop.ForAll(
		func(seq []int) bool {
			st := NewState()
			registered := make(map[string]bool)
			for _, n := range seq {
				st = applyOp(st, registered, n)
			}
			if len(st.Sidebars) != len(registered) {
				return false
			}
			for id := range registered {
				if _, ok := st.Sidebars[id]; !ok {
					return false
				}
			}
			return true
		},
		ops,
	))

	// Property: the inverse index never holds stale or duplicate entries
	properties.Property("shortcut index stays consistent", prop.ForAll(
		func(seq []int) bool {
			st := NewState()
			registered := make(map[string]bool)
			for _, n := range seq {
				st = applyOp(st, registered, n)
				if !indexConsistent(st) {
					return false
				}
			}
			return true
		},
		ops,
	))

	// Property: toggling twice restores the record
	properties.Property("toggle is an involution", prop.ForAll(
		func(seq []int, mobile bool) bool {
			st := Register(NewState(), "main", SidebarOptions{})
			registered := map[string]bool{"main": true}
			for _, n := range seq {
				st = applyOp(st, registered, n)
			}
			before, ok := st.Get("main")
			if !ok {
				return true
			}
			after := Toggle(Toggle(st, "main", mobile), "main", mobile)
			return after.Sidebars["main"] == before
		},
		ops,
		gen.Bool(),
	))

	// Property: operations on unknown ids return the input untouched
	properties.Property("unknown ids are no-ops", prop.ForAll(
		func(seq []int, mobile bool) bool {
			st := NewState()
			registered := make(map[string]bool)
			for _, n := range seq {
				st = applyOp(st, registered, n)
			}
			const ghost = "nonexistent"
			results := []State{
				Toggle(st, ghost, mobile),
				SetOpen(st, ghost, mobile, mobile),
				SetVariant(st, ghost, VariantFloating),
				SetKeyboardShortcut(st, ghost, "mod+b"),
				SetActiveItem(st, ghost, "item"),
				Unregister(st, ghost),
			}
			for _, r := range results {
				if len(r.Sidebars) != len(st.Sidebars) || len(r.KeyboardShortcuts) != len(st.KeyboardShortcuts) {
					return false
				}
				for id, sb := range st.Sidebars {
					if r.Sidebars[id] != sb {
						return false
					}
				}
			}
			return true
		},
		ops,
		gen.Bool(),
	))

	properties.TestingRun(t)
}
