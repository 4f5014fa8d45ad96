package org

import "testing"

func TestCanManage(t *testing.T) {
	o := Organization{
		ID:   "org-1",
		Name: "Demo",
		Members: []Member{
			{Name: "Alice", Email: "alice@x.com", AccessLevel: AccessOwner},
			{Name: "Bob", Email: "bob@x.com", AccessLevel: AccessGuest},
		},
	}

	cases := []struct {
		email string
		want  bool
	}{
		{"alice@x.com", true},
		{"bob@x.com", false},
		{"carol@x.com", false},
		{"", false},
	}
	for _, c := range cases {
		if got := CanManage(o, c.email); got != c.want {
			t.Fatalf("CanManage(%q)=%v, want %v", c.email, got, c.want)
		}
	}
}

func TestCanManageDuplicateMembership(t *testing.T) {
	// A user invited into an organization they already own keeps owner
	// rights only if no guest entry shadows them; a guest entry anywhere in
	// the list forces read-only access.
	o := Organization{
		Members: []Member{
			{Email: "alice@x.com", AccessLevel: AccessOwner},
			{Email: "alice@x.com", AccessLevel: AccessGuest},
		},
	}
	if CanManage(o, "alice@x.com") {
		t.Fatalf("expected guest entry to force read-only access")
	}
}
