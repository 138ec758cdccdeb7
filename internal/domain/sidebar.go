package domain

import (
	"fmt"
	"sort"
	"strings"
)

// Variant is the visual treatment of a sidebar
type Variant string

const (
	VariantDefault  Variant = "default"
	VariantFloating Variant = "floating"
	VariantInset    Variant = "inset"
)

// Variants lists all variants in cycling order
var Variants = []Variant{VariantDefault, VariantFloating, VariantInset}

// ParseVariant converts a string into a Variant.
// An empty string maps to VariantDefault.
func ParseVariant(s string) (Variant, error) {
	switch v := Variant(strings.ToLower(strings.TrimSpace(s))); v {
	case "":
		return VariantDefault, nil
	case VariantDefault, VariantFloating, VariantInset:
		return v, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrInvalidVariant, s)
	}
}

// Next returns the variant that follows v in cycling order
func (v Variant) Next() Variant {
	for i, candidate := range Variants {
		if candidate == v {
			return Variants[(i+1)%len(Variants)]
		}
	}
	return VariantDefault
}

// Side is the edge of the layout a sidebar is attached to
type Side string

const (
	SideLeft  Side = "left"
	SideRight Side = "right"
)

// ParseSide converts a string into a Side.
// An empty string maps to SideLeft.
func ParseSide(s string) (Side, error) {
	switch side := Side(strings.ToLower(strings.TrimSpace(s))); side {
	case "":
		return SideLeft, nil
	case SideLeft, SideRight:
		return side, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrInvalidSide, s)
	}
}

// Sidebar is the persisted and runtime state of one sidebar instance
type Sidebar struct {
	ActiveItem       string
	ID               string
	KeyboardShortcut string
	Open             bool
	OpenMobile       bool
	Side             Side
	Variant          Variant
}

// IsOpen reports the open flag relevant for the given layout mode
func (s Sidebar) IsOpen(isMobile bool) bool {
	if isMobile {
		return s.OpenMobile
	}
	return s.Open
}

// SidebarOptions is the partial record supplied when registering a sidebar.
// Nil pointers and empty strings fall back to the registration defaults.
type SidebarOptions struct {
	ActiveItem       string
	KeyboardShortcut string
	Open             *bool
	OpenMobile       *bool
	Side             Side
	Variant          Variant
}

// newSidebar builds a record from the defaults merged with opts
func newSidebar(id string, opts SidebarOptions) Sidebar {
	sb := Sidebar{
		ActiveItem:       opts.ActiveItem,
		ID:               id,
		KeyboardShortcut: NormalizeShortcut(opts.KeyboardShortcut),
		Open:             true,
		OpenMobile:       false,
		Side:             SideLeft,
		Variant:          VariantDefault,
	}
	if opts.Open != nil {
		sb.Open = *opts.Open
	}
	if opts.OpenMobile != nil {
		sb.OpenMobile = *opts.OpenMobile
	}
	if opts.Side != "" {
		sb.Side = opts.Side
	}
	if opts.Variant != "" {
		sb.Variant = opts.Variant
	}
	return sb
}

// State is the full store snapshot: every registered sidebar plus the inverse
// shortcut index. A State is treated as immutable; transitions return copies.
type State struct {
	KeyboardShortcuts map[string]string
	Sidebars          map[string]Sidebar
}

// NewState returns an empty state with initialized maps
func NewState() State {
	return State{
		KeyboardShortcuts: make(map[string]string),
		Sidebars:          make(map[string]Sidebar),
	}
}

// Get returns the sidebar with the given id
func (s State) Get(id string) (Sidebar, bool) {
	sb, ok := s.Sidebars[id]
	return sb, ok
}

// Owner returns the id of the sidebar bound to shortcut
func (s State) Owner(shortcut string) (string, bool) {
	id, ok := s.KeyboardShortcuts[NormalizeShortcut(shortcut)]
	return id, ok
}

// IDs returns the registered sidebar ids sorted alphabetically
func (s State) IDs() []string {
	ids := make([]string, 0, len(s.Sidebars))
	for id := range s.Sidebars {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// List returns the registered sidebars sorted by id
func (s State) List() []Sidebar {
	ids := s.IDs()
	out := make([]Sidebar, len(ids))
	for i, id := range ids {
		out[i] = s.Sidebars[id]
	}
	return out
}

// clone copies both maps so the receiver is left untouched
func (s State) clone() State {
	next := State{
		KeyboardShortcuts: make(map[string]string, len(s.KeyboardShortcuts)),
		Sidebars:          make(map[string]Sidebar, len(s.Sidebars)),
	}
	for k, v := range s.KeyboardShortcuts {
		next.KeyboardShortcuts[k] = v
	}
	for k, v := range s.Sidebars {
		next.Sidebars[k] = v
	}
	return next
}
