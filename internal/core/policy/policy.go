// Package policy holds the pure role-based access decision for every
// lifecycle operation. It has no dependencies besides the domain types and
// is enforced inside the services, never only at the transport layer.
package policy

import "notaria-digital/internal/core/domain"

// Operation identifies a role-gated service operation
type Operation string

const (
	OpCreateRequest    Operation = "request.create"
	OpApprove          Operation = "request.approve"
	OpReject           Operation = "request.reject"
	OpInitiatePayment  Operation = "request.pay"
	OpConfirmPayment   Operation = "request.pay.confirm"
	OpValidatePDF      Operation = "request.validate_pdf"
	OpFetchOne         Operation = "request.fetch"
	OpFetchOwned       Operation = "request.fetch_owned"
	OpFetchAll         Operation = "request.fetch_all"
	OpIssueCertificate Operation = "request.certificate"
	OpListUsers        Operation = "user.list"
	OpCreateUser       Operation = "user.create"
)

// Allowed decides whether the caller may perform op against a resource
// owned by ownerID. ADMIN is allowed everything EMPLOYEE is allowed.
// For operations that are not tied to a single request, ownerID is "".
func Allowed(op Operation, caller domain.Identity, ownerID string) bool {
	staff := caller.Role.IsStaff()

	switch op {
	case OpCreateRequest:
		return caller.Role == domain.RoleClient

	case OpApprove, OpReject, OpValidatePDF, OpFetchAll:
		return staff

	case OpInitiatePayment, OpFetchOne, OpIssueCertificate:
		if staff {
			return true
		}
		return caller.Role == domain.RoleClient && caller.UserID == ownerID

	case OpFetchOwned:
		return caller.Role == domain.RoleClient && caller.UserID == ownerID

	case OpListUsers, OpCreateUser:
		return caller.Role == domain.RoleAdmin
	}

	return false
}
