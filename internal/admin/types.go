package admin

import "parlor.chat/internal/store"

// The domain record types are declared in internal/store so that store can
// reference them without importing this package; they are aliased here so
// the admin API keeps its original names.

// Plan enumerates the subscription tiers a license can grant.
type Plan = store.Plan

const (
	PlanFree    = store.PlanFree
	PlanClassic = store.PlanClassic
	PlanPro     = store.PlanPro
)

// ValidPlan reports whether p is one of the known tiers.
func ValidPlan(p Plan) bool {
	switch p {
	case PlanFree, PlanClassic, PlanPro:
		return true
	}
	return false
}

// User is a chat account record. It is created by the sign-up flow and the
// admin flag is toggled out of band; this surface only reads it.
type User = store.User

// UserSummary is the fixed projection returned by the user listing. Extra
// fields on the stored record never leak through it.
type UserSummary = store.UserSummary

// Ban records a user ban. Records are append-only: there is no unban or
// update path on this surface.
type Ban = store.Ban

// IPBan records an address-level ban with the same lifecycle as Ban.
type IPBan = store.IPBan

// License is a redeemable code granting a plan for a bounded validity
// period. Created unused; redemption sets the usage fields.
type License = store.License
