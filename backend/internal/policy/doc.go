// Package policy decides whether a principal may perform an action on a
// resource of the association hub.
//
// The decision combines two inputs:
//   - the principal's role (admin or member)
//   - ownership of the target, i.e. whether the principal created it
//
// Authorize is pure. Callers resolve the target first (so a missing resource
// surfaces as not found before any permission check) and translate a denied
// Decision into an unauthenticated or forbidden response.
package policy
