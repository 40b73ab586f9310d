package store

import "time"

// Plan enumerates the subscription tiers a license can grant.
type Plan string

const (
	PlanFree    Plan = "Free"
	PlanClassic Plan = "Classic"
	PlanPro     Plan = "Pro"
)

// User is a chat account record. It is created by the sign-up flow and the
// admin flag is toggled out of band; this surface only reads it.
type User struct {
	UID         string    `json:"uid" firestore:"-"`
	Email       string    `json:"email" firestore:"email"`
	DisplayName string    `json:"displayName" firestore:"displayName"`
	IsAdmin     bool      `json:"isAdmin" firestore:"isAdmin"`
	Plan        Plan      `json:"plan" firestore:"plan"`
	CreatedAt   time.Time `json:"createdAt" firestore:"createdAt"`
}

// UserSummary is the fixed projection returned by the user listing. Extra
// fields on the stored record never leak through it.
type UserSummary struct {
	UID         string    `json:"uid"`
	Email       string    `json:"email"`
	DisplayName string    `json:"displayName"`
	IsAdmin     bool      `json:"isAdmin"`
	Plan        Plan      `json:"plan"`
	CreatedAt   time.Time `json:"createdAt"`
}

// Summary projects the listing fields out of a full record.
func (u User) Summary() UserSummary {
	return UserSummary{
		UID:         u.UID,
		Email:       u.Email,
		DisplayName: u.DisplayName,
		IsAdmin:     u.IsAdmin,
		Plan:        u.Plan,
		CreatedAt:   u.CreatedAt,
	}
}

// Ban records a user ban. Records are append-only: there is no unban or
// update path on this surface.
type Ban struct {
	ID       string    `json:"id" firestore:"-"`
	UserID   string    `json:"userId" firestore:"userId"`
	Reason   string    `json:"reason" firestore:"reason"`
	BannedBy string    `json:"bannedBy" firestore:"bannedBy"`
	BannedAt time.Time `json:"bannedAt" firestore:"bannedAt"`
	// Duration is in seconds; ExpiresAt = BannedAt + Duration*1000ms.
	Duration  int64     `json:"duration" firestore:"duration"`
	ExpiresAt time.Time `json:"expiresAt" firestore:"expiresAt"`
}

// IPBan records an address-level ban with the same lifecycle as Ban.
type IPBan struct {
	ID        string    `json:"id" firestore:"-"`
	IP        string    `json:"ip" firestore:"ip"`
	Reason    string    `json:"reason" firestore:"reason"`
	BannedBy  string    `json:"bannedBy" firestore:"bannedBy"`
	BannedAt  time.Time `json:"bannedAt" firestore:"bannedAt"`
	Duration  int64     `json:"duration" firestore:"duration"`
	ExpiresAt time.Time `json:"expiresAt" firestore:"expiresAt"`
}

// License is a redeemable code granting a plan for a bounded validity
// period. Created unused; redemption sets the usage fields.
type License struct {
	Key          string     `json:"key" firestore:"-"`
	Plan         Plan       `json:"plan" firestore:"plan"`
	ValidityDays int        `json:"validityDays" firestore:"validityDays"`
	CreatedBy    string     `json:"createdBy" firestore:"createdBy"`
	CreatedAt    time.Time  `json:"createdAt" firestore:"createdAt"`
	Used         bool       `json:"used" firestore:"used"`
	UsedBy       *string    `json:"usedBy" firestore:"usedBy"`
	UsedAt       *time.Time `json:"usedAt" firestore:"usedAt"`
}
