package httpapi

import (
	"context"

	"parlor.chat/internal/audit"
	"parlor.chat/internal/identity"
	"parlor.chat/internal/obs"
)

// audit records an operator action and fans it out to live event
// subscribers. Failures are swallowed; auditing never blocks a response.
func (a *API) audit(ctx context.Context, actorUID, event string, fields map[string]any) {
	if actorUID != "" {
		ctx = identity.ContextWithIdentity(ctx, identity.Identity{UID: actorUID})
	}
	entry, err := audit.LogEvent(ctx, event, fields)
	if err != nil {
		return
	}
	if a.events != nil {
		a.events.Publish(entry)
	}
}

func (a *API) observe(op string, err error) {
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	obs.ObserveAdminOp(op, outcome)
}
