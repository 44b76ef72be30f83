package policy

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"notaria-digital/internal/core/domain"
)

var (
	admin    = domain.Identity{UserID: "u-admin", Role: domain.RoleAdmin}
	employee = domain.Identity{UserID: "u-emp", Role: domain.RoleEmployee}
	owner    = domain.Identity{UserID: "u-owner", Role: domain.RoleClient}
	stranger = domain.Identity{UserID: "u-other", Role: domain.RoleClient}
)

func TestAllowed(t *testing.T) {
	tests := []struct {
		name    string
		op      Operation
		caller  domain.Identity
		ownerID string
		want    bool
	}{
		// Only clients create requests
		{"client creates request", OpCreateRequest, owner, "u-owner", true},
		{"employee cannot create request", OpCreateRequest, employee, "u-emp", false},
		{"admin cannot create request", OpCreateRequest, admin, "u-admin", false},

		// Review transitions are staff-only
		{"employee approves", OpApprove, employee, "u-owner", true},
		{"admin approves", OpApprove, admin, "u-owner", true},
		{"owner cannot approve own request", OpApprove, owner, "u-owner", false},
		{"employee rejects", OpReject, employee, "u-owner", true},
		{"client cannot reject", OpReject, stranger, "u-owner", false},
		{"employee validates pdf", OpValidatePDF, employee, "u-owner", true},
		{"owner cannot validate pdf", OpValidatePDF, owner, "u-owner", false},

		// Payment: staff or the owning client
		{"owner pays", OpInitiatePayment, owner, "u-owner", true},
		{"stranger cannot pay", OpInitiatePayment, stranger, "u-owner", false},
		{"employee pays on behalf", OpInitiatePayment, employee, "u-owner", true},

		// Reads
		{"owner fetches own request", OpFetchOne, owner, "u-owner", true},
		{"stranger cannot fetch request", OpFetchOne, stranger, "u-owner", false},
		{"employee fetches any request", OpFetchOne, employee, "u-owner", true},
		{"client lists own requests", OpFetchOwned, owner, "u-owner", true},
		{"employee has no owned listing", OpFetchOwned, employee, "u-emp", false},
		{"employee lists all", OpFetchAll, employee, "", true},
		{"admin lists all", OpFetchAll, admin, "", true},
		{"client cannot list all", OpFetchAll, owner, "", false},

		// Certificate: staff or the owning client
		{"owner downloads certificate", OpIssueCertificate, owner, "u-owner", true},
		{"stranger cannot download certificate", OpIssueCertificate, stranger, "u-owner", false},
		{"admin downloads certificate", OpIssueCertificate, admin, "u-owner", true},

		// User management is admin-only
		{"admin lists users", OpListUsers, admin, "", true},
		{"employee cannot list users", OpListUsers, employee, "", false},
		{"admin creates users", OpCreateUser, admin, "", true},
		{"employee cannot create users", OpCreateUser, employee, "", false},
		{"client cannot create users", OpCreateUser, owner, "", false},

		// Unknown operations are denied
		{"unknown operation denied", Operation("request.delete"), admin, "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Allowed(tt.op, tt.caller, tt.ownerID))
		})
	}
}
