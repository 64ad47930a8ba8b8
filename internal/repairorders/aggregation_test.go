package repairorders

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"github.com/pyy-alt/ppg-admin-sub000/pkg/db/models"
	"github.com/pyy-alt/ppg-admin-sub000/pkg/enums"
)

func partsOrders(statuses ...enums.PartsOrderStatus) []models.PartsOrder {
	out := make([]models.PartsOrder, 0, len(statuses))
	for i, status := range statuses {
		out = append(out, models.PartsOrder{ID: uuid.New(), PartsOrderNumber: i, Status: status})
	}
	return out
}

func TestRepairCompleteRejectedUntilEverySiblingSettles(t *testing.T) {
	ro := models.RepairOrder{ID: uuid.New()}

	settled := partsOrders(enums.PartsOrderStatusShopReceived, enums.PartsOrderStatusCsrRejected)
	assert.True(t, CanCompleteRepair(enums.PersonRoleShop, ro, settled))

	pending := partsOrders(enums.PartsOrderStatusShopReceived, enums.PartsOrderStatusDealershipShipped)
	assert.False(t, CanCompleteRepair(enums.PersonRoleShop, ro, pending))
	assert.False(t, CanCompleteRepair(enums.PersonRoleCsr, ro, settled))

	closed := time.Now()
	ro.DateClosed = &closed
	assert.False(t, CanCompleteRepair(enums.PersonRoleShop, ro, settled))
}

func TestIsEditable(t *testing.T) {
	ro := models.RepairOrder{ID: uuid.New()}
	assert.True(t, IsEditable(ro, partsOrders(enums.PartsOrderStatusCsrReview)))
	assert.True(t, IsEditable(ro, partsOrders(enums.PartsOrderStatusRepairCompleted, enums.PartsOrderStatusShopReceived)))
	assert.False(t, IsEditable(ro, partsOrders(enums.PartsOrderStatusRepairCompleted, enums.PartsOrderStatusRepairCompleted)))

	closed := time.Now()
	ro.DateClosed = &closed
	assert.False(t, IsEditable(ro, partsOrders(enums.PartsOrderStatusCsrReview)))
}

func TestAggregate(t *testing.T) {
	sponsor := uuid.New()
	ro := models.RepairOrder{
		ID:           uuid.New(),
		DealershipID: uuid.New(),
		Shop:         &models.Organization{SponsorDealershipID: &sponsor},
	}
	orders := partsOrders(enums.PartsOrderStatusCsrReview, enums.PartsOrderStatusDealershipShipped)

	asShop := Aggregate(enums.PersonRoleShop, ro, orders)
	assert.True(t, asShop.IsAlternateDealer)
	assert.True(t, asShop.HasAlert)
	assert.False(t, asShop.Alerts[orders[0].ID])
	assert.True(t, asShop.Alerts[orders[1].ID])
	assert.False(t, asShop.CanCompleteRepair)
	assert.True(t, asShop.CanCreateSupplement)
	assert.True(t, asShop.IsEditable)

	asAdmin := Aggregate(enums.PersonRoleProgramAdministrator, ro, orders)
	assert.False(t, asAdmin.HasAlert)
	assert.False(t, asAdmin.CanCreateSupplement)

	ro.DealershipID = sponsor
	assert.False(t, Aggregate(enums.PersonRoleShop, ro, orders).IsAlternateDealer)
}
