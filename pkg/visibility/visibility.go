package visibility

import (
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/pyy-alt/ppg-admin-sub000/pkg/db/models"
	"github.com/pyy-alt/ppg-admin-sub000/pkg/enums"
	pkgerrors "github.com/pyy-alt/ppg-admin-sub000/pkg/errors"
)

// Viewer is the identity supplied by the auth layer for every request.
type Viewer struct {
	PersonID       uuid.UUID
	OrganizationID uuid.UUID
	Role           enums.PersonRole
}

// Validate rejects incomplete identities before any lookup happens.
func (v Viewer) Validate() error {
	if v.PersonID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeUnauthorized, "person identity missing")
	}
	if !v.Role.IsValid() {
		return pkgerrors.New(pkgerrors.CodeForbidden, "role not recognized")
	}
	if scopedToOrganization(v.Role) && v.OrganizationID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeForbidden, "organization context missing")
	}
	return nil
}

// EnsureRepairOrderVisible enforces ownership: shops see their own repair
// orders, dealerships those they fulfill, everyone else sees all of them.
func EnsureRepairOrderVisible(viewer Viewer, ro *models.RepairOrder) error {
	if ro == nil {
		return pkgerrors.New(pkgerrors.CodeNotFound, "repair order not found")
	}
	switch viewer.Role {
	case enums.PersonRoleShop:
		if ro.ShopID != viewer.OrganizationID {
			return pkgerrors.New(pkgerrors.CodeForbidden, "repair order belongs to another shop")
		}
	case enums.PersonRoleDealership:
		if ro.DealershipID != viewer.OrganizationID {
			return pkgerrors.New(pkgerrors.CodeForbidden, "repair order is fulfilled by another dealership")
		}
	case enums.PersonRoleCsr, enums.PersonRoleFieldStaff, enums.PersonRoleProgramAdministrator:
	default:
		return pkgerrors.New(pkgerrors.CodeForbidden, "role not recognized")
	}
	return nil
}

// ScopeRepairOrders narrows a repair_orders query to the rows the viewer may see.
func ScopeRepairOrders(viewer Viewer) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		switch viewer.Role {
		case enums.PersonRoleShop:
			return db.Where("repair_orders.shop_id = ?", viewer.OrganizationID)
		case enums.PersonRoleDealership:
			return db.Where("repair_orders.dealership_id = ?", viewer.OrganizationID)
		case enums.PersonRoleCsr, enums.PersonRoleFieldStaff, enums.PersonRoleProgramAdministrator:
			return db
		default:
			return db.Where("1 = 0")
		}
	}
}

func scopedToOrganization(role enums.PersonRole) bool {
	return role == enums.PersonRoleShop || role == enums.PersonRoleDealership
}
