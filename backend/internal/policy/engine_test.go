package policy

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	admin    = &Principal{ID: 9, Email: "admin@example.com", Role: RoleAdmin}
	owner    = &Principal{ID: 5, Email: "owner@example.com", Role: RoleMember}
	stranger = &Principal{ID: 7, Email: "other@example.com", Role: RoleMember}

	ownedKinds = []ResourceKind{KindEvent, KindProject, KindForumThread, KindForumReply}
)

func TestAuthorize_Anonymous(t *testing.T) {
	for _, kind := range []ResourceKind{KindEvent, KindProject, KindForumCategory, KindForumThread, KindForumReply} {
		t.Run(string(kind)+" reads are public", func(t *testing.T) {
			assert.True(t, Authorize(nil, ActionRead, NewTarget(kind, 5)).Allowed)
			assert.True(t, Authorize(nil, ActionList, Target{Kind: kind}).Allowed)
		})
	}

	mutations := []Action{ActionCreate, ActionUpdate, ActionDelete, ActionAddMember, ActionRemoveMember, ActionUpdateRole}
	for _, kind := range append(ownedKinds, KindForumCategory, KindUser, KindAuditLog) {
		for _, action := range mutations {
			t.Run(string(action)+" "+string(kind)+" requires authentication", func(t *testing.T) {
				d := Authorize(nil, action, NewTarget(kind, 5))
				assert.False(t, d.Allowed)
				assert.True(t, d.Unauthenticated)
				assert.Equal(t, ReasonAuthRequired, d.Reason)
			})
		}
	}

	t.Run("user profiles are not public", func(t *testing.T) {
		d := Authorize(nil, ActionRead, NewTarget(KindUser, 5))
		assert.False(t, d.Allowed)
		assert.True(t, d.Unauthenticated)
	})
}

func TestAuthorize_CreateOwnedResources(t *testing.T) {
	for _, kind := range ownedKinds {
		for _, p := range []*Principal{admin, owner, stranger} {
			assert.True(t, Authorize(p, ActionCreate, Target{Kind: kind}).Allowed, "%s by %d", kind, p.ID)
		}
	}
}

func TestAuthorize_UpdateDeleteOwnership(t *testing.T) {
	for _, kind := range ownedKinds {
		for _, action := range []Action{ActionUpdate, ActionDelete} {
			target := NewTarget(kind, owner.ID)
			name := string(action) + " " + string(kind)

			t.Run(name+" admin", func(t *testing.T) {
				assert.True(t, Authorize(admin, action, target).Allowed)
			})
			t.Run(name+" owner", func(t *testing.T) {
				assert.True(t, Authorize(owner, action, target).Allowed)
			})
			t.Run(name+" non-owner member", func(t *testing.T) {
				d := Authorize(stranger, action, target)
				assert.False(t, d.Allowed)
				assert.False(t, d.Unauthenticated)
				assert.Equal(t, ReasonNotOwner, d.Reason)
			})
		}
	}
}

func TestAuthorize_AdminAllowedRegardlessOfOwner(t *testing.T) {
	for _, kind := range ownedKinds {
		for _, ownerID := range []int64{0, 1, 5, 7, 9, 1 << 40} {
			assert.True(t, Authorize(admin, ActionUpdate, NewTarget(kind, ownerID)).Allowed)
			assert.True(t, Authorize(admin, ActionDelete, NewTarget(kind, ownerID)).Allowed)
		}
	}
}

func TestAuthorize_ForumCategory(t *testing.T) {
	for _, action := range []Action{ActionCreate, ActionUpdate, ActionDelete} {
		t.Run(string(action), func(t *testing.T) {
			assert.True(t, Authorize(admin, action, Target{Kind: KindForumCategory}).Allowed)

			for _, p := range []*Principal{owner, stranger} {
				d := Authorize(p, action, Target{Kind: KindForumCategory})
				assert.False(t, d.Allowed)
				assert.Equal(t, ReasonAdminRequired, d.Reason)
			}
		})
	}

	t.Run("members may read", func(t *testing.T) {
		assert.True(t, Authorize(stranger, ActionRead, Target{Kind: KindForumCategory}).Allowed)
	})
}

func TestAuthorize_ProjectMembership(t *testing.T) {
	project := Target{Kind: KindProject, OwnerID: owner.ID}

	t.Run("add member", func(t *testing.T) {
		assert.True(t, Authorize(owner, ActionAddMember, project).Allowed)
		assert.True(t, Authorize(admin, ActionAddMember, project).Allowed)

		d := Authorize(stranger, ActionAddMember, project)
		assert.False(t, d.Allowed)
		assert.Equal(t, ReasonNotOwner, d.Reason)
	})

	t.Run("remove member", func(t *testing.T) {
		removeOther := project
		removeOther.SubjectUserID = 42

		assert.True(t, Authorize(owner, ActionRemoveMember, removeOther).Allowed)
		assert.True(t, Authorize(admin, ActionRemoveMember, removeOther).Allowed)

		d := Authorize(stranger, ActionRemoveMember, removeOther)
		assert.False(t, d.Allowed)
		assert.Equal(t, ReasonNotOwnerOrSelf, d.Reason)
	})

	t.Run("member may remove themself", func(t *testing.T) {
		self := project
		self.SubjectUserID = stranger.ID
		assert.True(t, Authorize(stranger, ActionRemoveMember, self).Allowed)
	})

	t.Run("membership actions only apply to projects", func(t *testing.T) {
		d := Authorize(admin, ActionAddMember, NewTarget(KindEvent, owner.ID))
		assert.False(t, d.Allowed)
		assert.Equal(t, ReasonUnsupported, d.Reason)
	})
}

func TestAuthorize_Users(t *testing.T) {
	account := NewTarget(KindUser, owner.ID)

	t.Run("self or admin may update and delete", func(t *testing.T) {
		for _, action := range []Action{ActionUpdate, ActionDelete} {
			assert.True(t, Authorize(owner, action, account).Allowed)
			assert.True(t, Authorize(admin, action, account).Allowed)

			d := Authorize(stranger, action, account)
			assert.False(t, d.Allowed)
			assert.Equal(t, ReasonNotAccountOwner, d.Reason)
		}
	})

	t.Run("role changes are admin only, including on self", func(t *testing.T) {
		assert.True(t, Authorize(admin, ActionUpdateRole, account).Allowed)
		assert.True(t, Authorize(admin, ActionUpdateRole, NewTarget(KindUser, admin.ID)).Allowed)

		for _, p := range []*Principal{owner, stranger} {
			d := Authorize(p, ActionUpdateRole, NewTarget(KindUser, p.ID))
			assert.False(t, d.Allowed)
			assert.Equal(t, ReasonAdminRequired, d.Reason)
		}
	})

	t.Run("listing is admin only", func(t *testing.T) {
		assert.True(t, Authorize(admin, ActionList, Target{Kind: KindUser}).Allowed)
		assert.False(t, Authorize(owner, ActionList, Target{Kind: KindUser}).Allowed)
	})

	t.Run("any authenticated principal may read a profile", func(t *testing.T) {
		assert.True(t, Authorize(stranger, ActionRead, account).Allowed)
	})
}

func TestAuthorize_AuditTrail(t *testing.T) {
	assert.True(t, Authorize(admin, ActionList, Target{Kind: KindAuditLog}).Allowed)

	d := Authorize(owner, ActionList, Target{Kind: KindAuditLog})
	assert.False(t, d.Allowed)
	assert.Equal(t, ReasonAdminRequired, d.Reason)

	d = Authorize(nil, ActionList, Target{Kind: KindAuditLog})
	assert.True(t, d.Unauthenticated)

	assert.Equal(t, ReasonUnsupported, Authorize(admin, ActionDelete, Target{Kind: KindAuditLog}).Reason)
}

func TestAuthorize_UnsupportedCombinations(t *testing.T) {
	tests := []struct {
		name   string
		action Action
		target Target
	}{
		{"update role on event", ActionUpdateRole, NewTarget(KindEvent, admin.ID)},
		{"add member to category", ActionAddMember, Target{Kind: KindForumCategory}},
		{"create user", ActionCreate, Target{Kind: KindUser}},
		{"unknown kind", ActionRead, Target{Kind: "invoice"}},
		{"unknown action", Action("archive"), NewTarget(KindEvent, admin.ID)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := Authorize(admin, tt.action, tt.target)
			assert.False(t, d.Allowed)
			assert.Equal(t, ReasonUnsupported, d.Reason)
		})
	}
}

func TestAuthorize_Deterministic(t *testing.T) {
	target := NewTarget(KindProject, owner.ID)
	first := Authorize(stranger, ActionDelete, target)
	for i := 0; i < 100; i++ {
		assert.Equal(t, first, Authorize(stranger, ActionDelete, target))
	}
}

func TestParseRole(t *testing.T) {
	r, err := ParseRole("admin")
	require.NoError(t, err)
	assert.Equal(t, RoleAdmin, r)

	r, err = ParseRole("member")
	require.NoError(t, err)
	assert.Equal(t, RoleMember, r)

	_, err = ParseRole("superuser")
	assert.Error(t, err)

	assert.False(t, Role("").Valid())
	assert.False(t, (*Principal)(nil).IsAdmin())
}
