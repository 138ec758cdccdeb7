package domain

// State transitions. Every function here is pure: it never mutates its input
// and returns the input unchanged when the target sidebar does not exist.

// Register inserts a sidebar built from the defaults merged with opts.
// When the shortcut is already owned by another sidebar, that sidebar loses it.
func Register(s State, id string, opts SidebarOptions) State {
	next := s.clone()
	sb := newSidebar(id, opts)

	if existing, ok := next.Sidebars[id]; ok {
		unbind(next, existing)
	}
	next.Sidebars[id] = sb
	bind(next, sb)

	return next
}

// Unregister removes a sidebar and its shortcut binding
func Unregister(s State, id string) State {
	existing, ok := s.Sidebars[id]
	if !ok {
		return s
	}

	next := s.clone()
	unbind(next, existing)
	delete(next.Sidebars, id)
	return next
}

// ClearSidebar removes the persisted state of one sidebar.
// It has the same removal semantics as Unregister.
func ClearSidebar(s State, id string) State {
	return Unregister(s, id)
}

// Toggle flips OpenMobile when isMobile is set, Open otherwise
func Toggle(s State, id string, isMobile bool) State {
	return update(s, id, func(sb *Sidebar) {
		if isMobile {
			sb.OpenMobile = !sb.OpenMobile
		} else {
			sb.Open = !sb.Open
		}
	})
}

// SetOpen sets OpenMobile when isMobile is set, Open otherwise
func SetOpen(s State, id string, open, isMobile bool) State {
	return update(s, id, func(sb *Sidebar) {
		if isMobile {
			sb.OpenMobile = open
		} else {
			sb.Open = open
		}
	})
}

// SetVariant changes the variant of a sidebar
func SetVariant(s State, id string, variant Variant) State {
	return update(s, id, func(sb *Sidebar) {
		sb.Variant = variant
	})
}

// SetActiveItem records the application-chosen active item of a sidebar
func SetActiveItem(s State, id, item string) State {
	return update(s, id, func(sb *Sidebar) {
		sb.ActiveItem = item
	})
}

// SetKeyboardShortcut rebinds the shortcut of a sidebar. The old binding is
// removed first; an empty shortcut only removes. A previous owner of the new
// shortcut loses it.
func SetKeyboardShortcut(s State, id, shortcut string) State {
	existing, ok := s.Sidebars[id]
	if !ok {
		return s
	}

	next := s.clone()
	unbind(next, existing)
	existing.KeyboardShortcut = NormalizeShortcut(shortcut)
	next.Sidebars[id] = existing
	bind(next, existing)
	return next
}

// ToggleByShortcut toggles the sidebar bound to shortcut, if any
func ToggleByShortcut(s State, shortcut string, isMobile bool) State {
	id, ok := s.Owner(shortcut)
	if !ok {
		return s
	}
	return Toggle(s, id, isMobile)
}

// Displaced returns the sidebar that would lose shortcut if id claimed it
func Displaced(s State, id, shortcut string) (string, bool) {
	shortcut = NormalizeShortcut(shortcut)
	if shortcut == "" {
		return "", false
	}
	owner, ok := s.KeyboardShortcuts[shortcut]
	if !ok || owner == id {
		return "", false
	}
	return owner, true
}

// Reconcile repairs the inverse shortcut index against the records: entries
// pointing at missing sidebars or at sidebars bound to another shortcut are
// dropped, and records whose shortcut is missing from the index are re-added.
// It returns the repaired state and the number of fixes applied.
func Reconcile(s State) (State, int) {
	next := s.clone()
	fixes := 0

	for shortcut, id := range s.KeyboardShortcuts {
		sb, ok := s.Sidebars[id]
		if !ok || sb.KeyboardShortcut != shortcut {
			delete(next.KeyboardShortcuts, shortcut)
			fixes++
		}
	}

	// Iterate in id order so collisions resolve deterministically
	for _, id := range next.IDs() {
		sb := next.Sidebars[id]
		if sb.KeyboardShortcut == "" {
			continue
		}
		owner, ok := next.KeyboardShortcuts[sb.KeyboardShortcut]
		switch {
		case !ok:
			next.KeyboardShortcuts[sb.KeyboardShortcut] = id
			fixes++
		case owner != id:
			sb.KeyboardShortcut = ""
			next.Sidebars[id] = sb
			fixes++
		}
	}

	if fixes == 0 {
		return s, 0
	}
	return next, fixes
}

// update applies fn to a copy of the sidebar with the given id
func update(s State, id string, fn func(*Sidebar)) State {
	sb, ok := s.Sidebars[id]
	if !ok {
		return s
	}

	next := s.clone()
	fn(&sb)
	next.Sidebars[id] = sb
	return next
}

// unbind removes the index entry owned by sb. next must be a private copy.
func unbind(next State, sb Sidebar) {
	if sb.KeyboardShortcut == "" {
		return
	}
	if owner, ok := next.KeyboardShortcuts[sb.KeyboardShortcut]; ok && owner == sb.ID {
		delete(next.KeyboardShortcuts, sb.KeyboardShortcut)
	}
}

// bind adds the index entry for sb, taking the shortcut away from any
// previous owner. next must be a private copy.
func bind(next State, sb Sidebar) {
	if sb.KeyboardShortcut == "" {
		return
	}
	if owner, ok := next.KeyboardShortcuts[sb.KeyboardShortcut]; ok && owner != sb.ID {
		if prev, exists := next.Sidebars[owner]; exists {
			prev.KeyboardShortcut = ""
			next.Sidebars[owner] = prev
		}
	}
	next.KeyboardShortcuts[sb.KeyboardShortcut] = sb.ID
}
