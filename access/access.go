/*
access.go - Roles and capability checks

PURPOSE:
  One pure table answering "may this role do this action". Handlers call
  CanPerform with the role from the authenticated session; there is no
  ambient current-user state anywhere below the HTTP layer.

ROLE MODEL:
  admin    - everything
  counter  - billing desk: admissions, discharge, override, counter
             entries, and corrections to any department's entries
  lab, xray, pharma - add charges for their own department
  viewer   - read-only dashboards

  Every authenticated user may view the dashboard and change their own
  password.
*/
package access

import "time"

// =============================================================================
// ROLES
// =============================================================================

type Role string

const (
	RoleAdmin   Role = "admin"
	RoleCounter Role = "counter"
	RoleLab     Role = "lab"
	RoleXray    Role = "xray"
	RolePharma  Role = "pharma"
	RoleViewer  Role = "viewer"
)

// ParseRole validates a stored role value.
func ParseRole(s string) (Role, bool) {
	switch Role(s) {
	case RoleAdmin, RoleCounter, RoleLab, RoleXray, RolePharma, RoleViewer:
		return Role(s), true
	}
	return "", false
}

// =============================================================================
// ACTIONS
// =============================================================================

type Action string

const (
	ActionViewDashboard  Action = "view_dashboard"
	ActionChangePassword Action = "change_password"

	ActionCreateAdmission Action = "create_admission"
	ActionEditAdmission   Action = "edit_admission"
	ActionDischarge       Action = "discharge"
	ActionSetOverride     Action = "set_override"

	ActionAddLabEntry     Action = "add_lab_entry"
	ActionAddPharmaEntry  Action = "add_pharma_entry"
	ActionAddXrayEntry    Action = "add_xray_entry"
	ActionAddCounterEntry Action = "add_counter_entry"
	ActionEditEntry       Action = "edit_entry"

	ActionViewLabSection     Action = "view_lab_section"
	ActionViewPharmaSection  Action = "view_pharma_section"
	ActionViewXraySection    Action = "view_xray_section"
	ActionViewCounterSection Action = "view_counter_section"

	ActionRecordPayment Action = "record_payment"
	ActionManageData    Action = "manage_data"
)

// =============================================================================
// CAPABILITY TABLE
// =============================================================================

// CanPerform reports whether the role is allowed to take the action.
// Admin passes every check; unknown actions are denied for everyone
// else.
func CanPerform(role Role, action Action) bool {
	if role == RoleAdmin {
		return true
	}
	switch action {
	case ActionViewDashboard, ActionChangePassword:
		return true
	case ActionCreateAdmission:
		return role != RoleViewer
	case ActionEditAdmission, ActionDischarge, ActionSetOverride:
		return role == RoleCounter
	case ActionAddLabEntry:
		return role == RoleLab
	case ActionAddPharmaEntry:
		return role == RolePharma
	case ActionAddXrayEntry:
		return role == RoleXray
	case ActionAddCounterEntry, ActionEditEntry:
		return role == RoleCounter
	case ActionViewLabSection:
		return role == RoleCounter || role == RoleViewer || role == RoleLab
	case ActionViewPharmaSection:
		return role == RoleCounter || role == RoleViewer || role == RolePharma
	case ActionViewXraySection:
		return role == RoleCounter || role == RoleViewer || role == RoleXray
	case ActionViewCounterSection:
		return role == RoleCounter || role == RoleViewer
	case ActionRecordPayment, ActionManageData:
		return false
	}
	return false
}

// EntryAddAction maps a department name to its add-entry action so the
// HTTP layer does not hand-roll the switch. ok is false for unknown
// departments.
func EntryAddAction(dept string) (Action, bool) {
	switch dept {
	case "lab":
		return ActionAddLabEntry, true
	case "pharma":
		return ActionAddPharmaEntry, true
	case "xray":
		return ActionAddXrayEntry, true
	case "counter":
		return ActionAddCounterEntry, true
	}
	return "", false
}

// =============================================================================
// SESSIONS
// =============================================================================

// Session is the authenticated identity attached to a request after
// token lookup. It is a plain value; handlers carry it explicitly.
type Session struct {
	Token     string
	UserID    int64
	UserName  string
	Role      Role
	ExpiresAt time.Time
}

// Expired reports whether the session has passed its expiry.
func (s Session) Expired(now time.Time) bool {
	return now.After(s.ExpiresAt)
}
