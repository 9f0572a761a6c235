// Package authz holds the single capability check every core operation
// evaluates before mutating or reading anything: (action, actor, target
// estate) -> allow/deny.
package authz

import "github.com/condovia/api-estates/internal/apperr"

type Action string

const (
	ManageEstates  Action = "manage estates"
	ManageFees     Action = "manage fees"
	RecordPayments Action = "record payments"
	ViewReports    Action = "view reports"
)

// capabilities maps a role onto the actions it may perform. Estate scoping
// is intentionally coarse for now: a role grants the action on every estate
// the deployment serves, since the caller is assumed pre-authorized for the
// tenant.
var capabilities = map[string]map[Action]bool{
	"manager": {
		ManageEstates:  true,
		ManageFees:     true,
		RecordPayments: true,
		ViewReports:    true,
	},
	"staff": {
		RecordPayments: true,
		ViewReports:    true,
	},
	"resident": {
		ViewReports: true,
	},
}

// Can returns nil when the actor's role grants the action on the target
// estate, apperr.PermissionDenied otherwise.
func Can(action Action, role string, estateID uint) error {
	if capabilities[role][action] {
		return nil
	}
	return apperr.Denied(string(action))
}
