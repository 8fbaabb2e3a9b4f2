package internal

import (
	"encoding/json"
	"sync"

	"go.uber.org/zap"

	"github.com/tushar-indygen/leadform"
)

// PreferencesStore holds per-role dashboard view preferences and persists
// them through the same StatePersistence used for session state. Standard
// users pick between list and kanban; admins additionally get the stats
// view.
type PreferencesStore struct {
	mu          sync.Mutex
	persistence StatePersistence
	name        string
	prefs       map[leadform.Role]leadform.RolePreferences
}

// NewPreferencesStore creates a preferences store persisted under name.
// Previously saved preferences are loaded eagerly; corrupt or missing
// snapshots fall back to defaults.
func NewPreferencesStore(persistence StatePersistence, name string) *PreferencesStore {
	p := &PreferencesStore{
		persistence: persistence,
		name:        name,
		prefs:       make(map[leadform.Role]leadform.RolePreferences),
	}
	p.load()
	return p
}

func defaultPreferences() leadform.RolePreferences {
	return leadform.RolePreferences{
		DefaultView:   leadform.ViewList,
		KanbanEnabled: true,
		ListEnabled:   true,
	}
}

func (p *PreferencesStore) load() {
	if p.persistence == nil {
		return
	}
	data, err := p.persistence.Load(p.name)
	if err != nil {
		zap.S().Warnw("failed to load preferences, using defaults", "name", p.name, "error", err)
		return
	}
	if data == nil {
		return
	}
	var snapshot map[leadform.Role]leadform.RolePreferences
	if err := json.Unmarshal(data, &snapshot); err != nil {
		zap.S().Warnw("discarding corrupt preferences snapshot", "name", p.name, "error", err)
		return
	}
	p.prefs = snapshot
}

func (p *PreferencesStore) saveLocked() {
	if p.persistence == nil {
		return
	}
	data, err := json.Marshal(p.prefs)
	if err != nil {
		zap.S().Warnw("failed to encode preferences", "name", p.name, "error", err)
		return
	}
	if err := p.persistence.Save(p.name, data); err != nil {
		zap.S().Warnw("failed to persist preferences", "name", p.name, "error", err)
	}
}

// Get returns the preferences for a role, falling back to defaults when
// the role has none saved.
func (p *PreferencesStore) Get(role leadform.Role) leadform.RolePreferences {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.getLocked(role)
}

func (p *PreferencesStore) getLocked(role leadform.Role) leadform.RolePreferences {
	if prefs, ok := p.prefs[role]; ok {
		return prefs
	}
	return defaultPreferences()
}

// SetDefaultView selects the view shown when the dashboard opens. The view
// must be enabled for the role, and the stats view is admin only.
func (p *PreferencesStore) SetDefaultView(role leadform.Role, view leadform.ViewKind) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	prefs := p.getLocked(role)
	switch view {
	case leadform.ViewList:
		if !prefs.ListEnabled {
			return leadform.NewValidationError("view_disabled", "list view is disabled for this role")
		}
	case leadform.ViewKanban:
		if !prefs.KanbanEnabled {
			return leadform.NewValidationError("view_disabled", "kanban view is disabled for this role")
		}
	case leadform.ViewStats:
		if role != leadform.RoleAdmin {
			return leadform.NewValidationError("view_forbidden", "stats view requires the admin role")
		}
	default:
		return leadform.NewValidationError("unknown_view", "unknown view kind").WithDetail("view", string(view))
	}
	prefs.DefaultView = view
	p.prefs[role] = prefs
	p.saveLocked()
	return nil
}

// SetKanbanEnabled toggles the kanban view. A standard user cannot disable
// both kanban and list; disabling the current default view reassigns the
// default (admins fall back to stats, users to the remaining view).
func (p *PreferencesStore) SetKanbanEnabled(role leadform.Role, enabled bool) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	prefs := p.getLocked(role)
	if !enabled && !prefs.ListEnabled && role != leadform.RoleAdmin {
		return leadform.NewValidationError("all_views_disabled", "cannot disable both list and kanban views")
	}
	prefs.KanbanEnabled = enabled
	if !enabled && prefs.DefaultView == leadform.ViewKanban {
		prefs.DefaultView = p.fallbackView(role, prefs)
	}
	p.prefs[role] = prefs
	p.saveLocked()
	return nil
}

// SetListEnabled toggles the list view with the same invariants as
// SetKanbanEnabled.
func (p *PreferencesStore) SetListEnabled(role leadform.Role, enabled bool) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	prefs := p.getLocked(role)
	if !enabled && !prefs.KanbanEnabled && role != leadform.RoleAdmin {
		return leadform.NewValidationError("all_views_disabled", "cannot disable both list and kanban views")
	}
	prefs.ListEnabled = enabled
	if !enabled && prefs.DefaultView == leadform.ViewList {
		prefs.DefaultView = p.fallbackView(role, prefs)
	}
	p.prefs[role] = prefs
	p.saveLocked()
	return nil
}

// fallbackView picks the default view after the current default was
// disabled. Admins always land on stats regardless of which board views
// remain enabled.
func (p *PreferencesStore) fallbackView(role leadform.Role, prefs leadform.RolePreferences) leadform.ViewKind {
	switch {
	case role == leadform.RoleAdmin:
		return leadform.ViewStats
	case prefs.ListEnabled:
		return leadform.ViewList
	case prefs.KanbanEnabled:
		return leadform.ViewKanban
	default:
		// unreachable for users: the both-disabled state is rejected
		return leadform.ViewList
	}
}
