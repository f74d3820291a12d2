package policy

func allow() Decision {
	return Decision{Allowed: true}
}

func deny(reason string) Decision {
	return Decision{Reason: reason}
}

// Authorize evaluates the authorization rules in precedence order; the first
// matching rule decides.
func Authorize(p *Principal, action Action, target Target) Decision {
	if p == nil {
		if isPublicRead(action, target.Kind) {
			return allow()
		}
		return Decision{Reason: ReasonAuthRequired, Unauthenticated: true}
	}

	switch target.Kind {
	case KindEvent, KindProject, KindForumThread, KindForumReply:
		return authorizeOwned(p, action, target)
	case KindForumCategory:
		return authorizeCategory(p, action)
	case KindUser:
		return authorizeUser(p, action, target)
	case KindAuditLog:
		if action == ActionRead || action == ActionList {
			return adminOnly(p)
		}
	}
	return deny(ReasonUnsupported)
}

func isPublicRead(action Action, kind ResourceKind) bool {
	if action != ActionRead && action != ActionList {
		return false
	}
	switch kind {
	case KindEvent, KindProject, KindForumCategory, KindForumThread, KindForumReply:
		return true
	}
	return false
}

func authorizeOwned(p *Principal, action Action, target Target) Decision {
	switch action {
	case ActionRead, ActionList, ActionCreate:
		return allow()
	case ActionUpdate, ActionDelete:
		return ownerOrAdmin(p, target)
	case ActionAddMember:
		if target.Kind != KindProject {
			return deny(ReasonUnsupported)
		}
		return ownerOrAdmin(p, target)
	case ActionRemoveMember:
		if target.Kind != KindProject {
			return deny(ReasonUnsupported)
		}
		if p.IsAdmin() || p.ID == target.OwnerID || p.ID == target.SubjectUserID {
			return allow()
		}
		return deny(ReasonNotOwnerOrSelf)
	}
	return deny(ReasonUnsupported)
}

func authorizeCategory(p *Principal, action Action) Decision {
	switch action {
	case ActionRead, ActionList:
		return allow()
	case ActionCreate, ActionUpdate, ActionDelete:
		return adminOnly(p)
	}
	return deny(ReasonUnsupported)
}

func authorizeUser(p *Principal, action Action, target Target) Decision {
	switch action {
	case ActionRead:
		// any authenticated caller may view a single profile
		return allow()
	case ActionList, ActionUpdateRole:
		return adminOnly(p)
	case ActionUpdate, ActionDelete:
		if p.IsAdmin() || p.ID == target.OwnerID {
			return allow()
		}
		return deny(ReasonNotAccountOwner)
	}
	return deny(ReasonUnsupported)
}

func ownerOrAdmin(p *Principal, target Target) Decision {
	if p.IsAdmin() || p.ID == target.OwnerID {
		return allow()
	}
	return deny(ReasonNotOwner)
}

func adminOnly(p *Principal) Decision {
	if p.IsAdmin() {
		return allow()
	}
	return deny(ReasonAdminRequired)
}
