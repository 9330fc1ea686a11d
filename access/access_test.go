package access_test

import (
	"testing"
	"time"

	"github.com/zohmingaRalte/muhcs-billtrack/access"
)

func TestCanPerform_AdminCanDoEverything(t *testing.T) {
	actions := []access.Action{
		access.ActionViewDashboard,
		access.ActionCreateAdmission,
		access.ActionDischarge,
		access.ActionSetOverride,
		access.ActionAddLabEntry,
		access.ActionAddCounterEntry,
		access.ActionEditEntry,
		access.ActionRecordPayment,
		access.ActionManageData,
	}
	for _, a := range actions {
		if !access.CanPerform(access.RoleAdmin, a) {
			t.Errorf("admin must be allowed %s", a)
		}
	}
}

func TestCanPerform_DepartmentRolesAddOwnEntriesOnly(t *testing.T) {
	// GIVEN: The three department roles
	// WHEN: Checking add-entry actions
	// THEN: Each role may add only its own department's entries

	cases := []struct {
		role    access.Role
		own     access.Action
		foreign access.Action
	}{
		{access.RoleLab, access.ActionAddLabEntry, access.ActionAddPharmaEntry},
		{access.RolePharma, access.ActionAddPharmaEntry, access.ActionAddXrayEntry},
		{access.RoleXray, access.ActionAddXrayEntry, access.ActionAddLabEntry},
	}
	for _, tc := range cases {
		if !access.CanPerform(tc.role, tc.own) {
			t.Errorf("%s must be allowed %s", tc.role, tc.own)
		}
		if access.CanPerform(tc.role, tc.foreign) {
			t.Errorf("%s must not be allowed %s", tc.role, tc.foreign)
		}
		if access.CanPerform(tc.role, access.ActionEditEntry) {
			t.Errorf("%s must not edit or delete entries", tc.role)
		}
	}
}

func TestCanPerform_CounterRunsTheBillingDesk(t *testing.T) {
	allowed := []access.Action{
		access.ActionCreateAdmission,
		access.ActionEditAdmission,
		access.ActionDischarge,
		access.ActionSetOverride,
		access.ActionAddCounterEntry,
		access.ActionEditEntry,
		access.ActionViewLabSection,
		access.ActionViewCounterSection,
	}
	for _, a := range allowed {
		if !access.CanPerform(access.RoleCounter, a) {
			t.Errorf("counter must be allowed %s", a)
		}
	}
	if access.CanPerform(access.RoleCounter, access.ActionRecordPayment) {
		t.Errorf("counter must not record payments")
	}
	if access.CanPerform(access.RoleCounter, access.ActionAddLabEntry) {
		t.Errorf("counter must not add lab entries")
	}
}

func TestCanPerform_ViewerIsReadOnly(t *testing.T) {
	if !access.CanPerform(access.RoleViewer, access.ActionViewDashboard) {
		t.Errorf("viewer must see the dashboard")
	}
	if !access.CanPerform(access.RoleViewer, access.ActionViewCounterSection) {
		t.Errorf("viewer must see the counter section")
	}
	denied := []access.Action{
		access.ActionCreateAdmission,
		access.ActionDischarge,
		access.ActionAddLabEntry,
		access.ActionEditEntry,
		access.ActionRecordPayment,
	}
	for _, a := range denied {
		if access.CanPerform(access.RoleViewer, a) {
			t.Errorf("viewer must not be allowed %s", a)
		}
	}
}

func TestCanPerform_EveryoneChangesOwnPassword(t *testing.T) {
	roles := []access.Role{
		access.RoleAdmin, access.RoleCounter, access.RoleLab,
		access.RoleXray, access.RolePharma, access.RoleViewer,
	}
	for _, r := range roles {
		if !access.CanPerform(r, access.ActionChangePassword) {
			t.Errorf("%s must be allowed to change their own password", r)
		}
	}
}

func TestCanPerform_UnknownActionDenied(t *testing.T) {
	if access.CanPerform(access.RoleCounter, access.Action("drop_tables")) {
		t.Errorf("unknown actions must be denied")
	}
}

func TestEntryAddAction_MapsDepartments(t *testing.T) {
	for dept, want := range map[string]access.Action{
		"lab":     access.ActionAddLabEntry,
		"pharma":  access.ActionAddPharmaEntry,
		"xray":    access.ActionAddXrayEntry,
		"counter": access.ActionAddCounterEntry,
	} {
		got, ok := access.EntryAddAction(dept)
		if !ok || got != want {
			t.Errorf("expected %s -> %s, got %s (ok=%v)", dept, want, got, ok)
		}
	}
	if _, ok := access.EntryAddAction("morgue"); ok {
		t.Errorf("unknown department must not map to an action")
	}
}

func TestParseRole(t *testing.T) {
	if _, ok := access.ParseRole("counter"); !ok {
		t.Errorf("counter must parse")
	}
	if _, ok := access.ParseRole("superuser"); ok {
		t.Errorf("superuser must not parse")
	}
}

func TestSession_Expired(t *testing.T) {
	now := time.Date(2024, time.June, 1, 12, 0, 0, 0, time.UTC)
	s := access.Session{ExpiresAt: now.Add(time.Hour)}

	if s.Expired(now) {
		t.Errorf("session must be live before expiry")
	}
	if !s.Expired(now.Add(2 * time.Hour)) {
		t.Errorf("session must expire after its deadline")
	}
}
