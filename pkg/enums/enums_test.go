package enums

import "testing"

func TestParseStaffRole(t *testing.T) {
	role, err := ParseStaffRole("mama")
	if err != nil || role != StaffRoleMama {
		t.Fatalf("expected mama, got %q err=%v", role, err)
	}
	if !role.IsMama() {
		t.Fatal("mama should be privileged")
	}
	if StaffRoleBartender.IsMama() {
		t.Fatal("bartender must not be privileged")
	}
	if _, err := ParseStaffRole("owner"); err == nil {
		t.Fatal("expected unknown role to be rejected")
	}
}

func TestPostTypeRequiresTitle(t *testing.T) {
	for _, pt := range PostTypes() {
		want := pt == PostTypeEvent
		if pt.RequiresTitle() != want {
			t.Fatalf("post type %s RequiresTitle=%v", pt, pt.RequiresTitle())
		}
	}
	if _, err := ParsePostType("news"); err == nil {
		t.Fatal("expected unknown post type to be rejected")
	}
}

func TestNotificationTypesRoundTrip(t *testing.T) {
	for _, nt := range NotificationTypes() {
		parsed, err := ParseNotificationType(string(nt))
		if err != nil || parsed != nt {
			t.Fatalf("expected %s to parse, got %s err=%v", nt, parsed, err)
		}
	}
	if NotificationType("promo").IsValid() {
		t.Fatal("unexpected valid type")
	}
}

func TestBottleChangeAndPortal(t *testing.T) {
	if len(BottleChangeTypes()) != 3 {
		t.Fatalf("expected three change types")
	}
	if _, err := ParseBottleChangeType("drain"); err == nil {
		t.Fatal("expected unknown change type to be rejected")
	}
	if _, err := ParsePortal("admin"); err == nil {
		t.Fatal("expected unknown portal to be rejected")
	}
	if _, err := ParseAmigoStatus("blocked"); err == nil {
		t.Fatal("expected unknown amigo status to be rejected")
	}
}
