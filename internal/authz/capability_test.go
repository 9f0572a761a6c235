package authz

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/condovia/api-estates/internal/apperr"
)

func TestCan(t *testing.T) {
	cases := []struct {
		role    string
		action  Action
		allowed bool
	}{
		{"manager", ManageFees, true},
		{"manager", RecordPayments, true},
		{"staff", RecordPayments, true},
		{"staff", ManageFees, false},
		{"staff", ViewReports, true},
		{"resident", ViewReports, true},
		{"resident", RecordPayments, false},
		{"resident", ManageEstates, false},
		{"", ViewReports, false},
		{"unknown-role", ManageFees, false},
	}
	for _, tc := range cases {
		err := Can(tc.action, tc.role, 1)
		if tc.allowed {
			assert.NoError(t, err, "%s should be allowed to %s", tc.role, tc.action)
		} else {
			var pe *apperr.PermissionDenied
			require.ErrorAs(t, err, &pe, "%s should be denied %s", tc.role, tc.action)
		}
	}
}
