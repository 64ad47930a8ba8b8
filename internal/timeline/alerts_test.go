package timeline

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/pyy-alt/ppg-admin-sub000/pkg/enums"
)

func TestHasAlertByRole(t *testing.T) {
	cases := []struct {
		role   enums.PersonRole
		status enums.PartsOrderStatus
		want   bool
	}{
		{enums.PersonRoleShop, enums.PartsOrderStatusCsrRejected, true},
		{enums.PersonRoleShop, enums.PartsOrderStatusDealershipShipped, true},
		{enums.PersonRoleShop, enums.PartsOrderStatusShopReceived, true},
		{enums.PersonRoleShop, enums.PartsOrderStatusCsrReview, false},
		{enums.PersonRoleDealership, enums.PartsOrderStatusDealershipProcessing, true},
		{enums.PersonRoleDealership, enums.PartsOrderStatusDealershipShipped, false},
		{enums.PersonRoleCsr, enums.PartsOrderStatusCsrReview, true},
		{enums.PersonRoleCsr, enums.PartsOrderStatusCsrRejected, false},
		{enums.PersonRoleFieldStaff, enums.PartsOrderStatusCsrReview, false},
		{enums.PersonRoleProgramAdministrator, enums.PartsOrderStatusDealershipProcessing, false},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, HasAlert(tc.role, tc.status), "%s/%s", tc.role, tc.status)
	}
}
