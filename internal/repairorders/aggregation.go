package repairorders

import (
	"github.com/google/uuid"

	"github.com/pyy-alt/ppg-admin-sub000/internal/permissions"
	"github.com/pyy-alt/ppg-admin-sub000/internal/timeline"
	"github.com/pyy-alt/ppg-admin-sub000/pkg/db/models"
	"github.com/pyy-alt/ppg-admin-sub000/pkg/enums"
)

// Aggregation is the repair order level view computed from its parts orders.
type Aggregation struct {
	CanCompleteRepair   bool               `json:"can_complete_repair"`
	CanCreateSupplement bool               `json:"can_create_supplement"`
	IsEditable          bool               `json:"is_editable"`
	IsAlternateDealer   bool               `json:"is_alternate_dealer"`
	HasAlert            bool               `json:"has_alert"`
	Alerts              map[uuid.UUID]bool `json:"alerts"`
}

// Alerts flags each parts order that needs the role's attention.
func Alerts(role enums.PersonRole, orders []models.PartsOrder) map[uuid.UUID]bool {
	out := make(map[uuid.UUID]bool, len(orders))
	for _, po := range orders {
		out[po.ID] = timeline.HasAlert(role, po.Status)
	}
	return out
}

// CanCompleteRepair reports whether repair-complete may be offered to role.
// A closed repair order can not be completed again.
func CanCompleteRepair(role enums.PersonRole, ro models.RepairOrder, orders []models.PartsOrder) bool {
	if ro.IsClosed() {
		return false
	}
	return permissions.CanCompleteRepair(role, orders)
}

// IsEditable reports whether the repair order itself may still change. It is
// frozen once closed or once every parts order reached repair completed.
func IsEditable(ro models.RepairOrder, orders []models.PartsOrder) bool {
	if ro.IsClosed() {
		return false
	}
	if len(orders) == 0 {
		return true
	}
	for _, po := range orders {
		if po.Status != enums.PartsOrderStatusRepairCompleted {
			return true
		}
	}
	return false
}

// Aggregate computes the full repair order view for role.
func Aggregate(role enums.PersonRole, ro models.RepairOrder, orders []models.PartsOrder) Aggregation {
	alerts := Alerts(role, orders)
	hasAlert := false
	for _, flagged := range alerts {
		if flagged {
			hasAlert = true
			break
		}
	}
	return Aggregation{
		CanCompleteRepair:   CanCompleteRepair(role, ro, orders),
		CanCreateSupplement: !ro.IsClosed() && permissions.CanCreateSupplement(role, orders),
		IsEditable:          IsEditable(ro, orders),
		IsAlternateDealer:   ro.IsAlternateDealer(),
		HasAlert:            hasAlert,
		Alerts:              alerts,
	}
}
