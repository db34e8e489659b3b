// Package policy decides who may change which record.
//
// Administrators may edit everything. Residents may edit only records that
// implement models.Owned and whose owner is the resident. Records that carry
// no owner are administrator-only.
package policy

import "vizinho-http-service/internal/domain/models"

// CanEdit reports whether user may modify entity
func CanEdit(user *models.User, entity interface{}) bool {
	if user == nil {
		return false
	}
	if user.IsAdmin() {
		return true
	}
	owned, ok := entity.(models.Owned)
	if !ok || user.ID == 0 {
		return false
	}
	return owned.OwnedBy() == user.ID
}

// CanEditReport narrows CanEdit: residents lose edit rights once the report is closed
func CanEditReport(user *models.User, report *models.Report) bool {
	if user.IsAdmin() {
		return true
	}
	return !report.IsClosed() && CanEdit(user, report)
}

// CanView reports whether user may read entity; same rule as CanEdit
func CanView(user *models.User, entity interface{}) bool {
	return CanEdit(user, entity)
}

// CanPay allows only the owner of a pending fine; administrators get no override
func CanPay(user *models.User, fine *models.Fine) bool {
	if user == nil || user.ID == 0 {
		return false
	}
	return fine.OwnerID == user.ID && fine.IsPending()
}
