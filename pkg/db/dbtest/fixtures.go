package dbtest

import (
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/pyy-alt/ppg-admin-sub000/pkg/db/models"
	"github.com/pyy-alt/ppg-admin-sub000/pkg/enums"
	"github.com/pyy-alt/ppg-admin-sub000/pkg/types"
)

// CreateOrganization inserts an organization of the given type.
func CreateOrganization(t *testing.T, conn *gorm.DB, orgType enums.OrganizationType, sponsor *uuid.UUID) models.Organization {
	t.Helper()
	org := models.Organization{
		Name:                fmt.Sprintf("%s %s", orgType, uuid.NewString()[:8]),
		Type:                orgType,
		SponsorDealershipID: sponsor,
	}
	require.NoError(t, conn.Create(&org).Error)
	return org
}

// CreatePerson inserts a person with the given role in org. A nil org is
// allowed for program-wide roles.
func CreatePerson(t *testing.T, conn *gorm.DB, orgID *uuid.UUID, role enums.PersonRole) models.Person {
	t.Helper()
	suffix := uuid.NewString()[:8]
	person := models.Person{
		OrganizationID: orgID,
		FirstName:      string(role),
		LastName:       suffix,
		Email:          fmt.Sprintf("%s-%s@example.com", role, suffix),
		Role:           role,
	}
	require.NoError(t, conn.Create(&person).Error)
	return person
}

// CreateRepairOrder inserts an open repair order between shop and dealership.
func CreateRepairOrder(t *testing.T, conn *gorm.DB, shopID, dealershipID, createdBy uuid.UUID) models.RepairOrder {
	t.Helper()
	ro := models.RepairOrder{
		ShopID:            shopID,
		DealershipID:      dealershipID,
		RoNumber:          "RO-" + uuid.NewString()[:6],
		Vin:               "1HGCM82633A004352",
		Make:              "Honda",
		Year:              2021,
		Model:             "Accord",
		Customer:          "Jordan Smith",
		CreatedByPersonID: createdBy,
	}
	require.NoError(t, conn.Omit(clause.Associations).Create(&ro).Error)
	return ro
}

// CreatePartsOrder inserts a parts order in the given state.
func CreatePartsOrder(t *testing.T, conn *gorm.DB, repairOrderID uuid.UUID, number int, stage enums.PartsOrderStage, status enums.PartsOrderStatus) models.PartsOrder {
	t.Helper()
	submitted := time.Now().UTC().Add(-time.Hour)
	order := models.PartsOrder{
		RepairOrderID:    repairOrderID,
		PartsOrderNumber: number,
		Stage:            stage,
		Status:           status,
		Parts:            types.PartNumbers{"04711-TBA-A00"},
		DateSubmitted:    &submitted,
		Version:          1,
	}
	require.NoError(t, conn.Omit(clause.Associations).Create(&order).Error)
	return order
}
