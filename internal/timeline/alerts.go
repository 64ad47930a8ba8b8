package timeline

import "github.com/pyy-alt/ppg-admin-sub000/pkg/enums"

// alertStatuses lists, per role, the statuses that need that role's attention.
var alertStatuses = map[enums.PersonRole][]enums.PartsOrderStatus{
	enums.PersonRoleShop: {
		enums.PartsOrderStatusCsrRejected,
		enums.PartsOrderStatusDealershipShipped,
		enums.PartsOrderStatusShopReceived,
	},
	enums.PersonRoleDealership: {
		enums.PartsOrderStatusDealershipProcessing,
	},
	enums.PersonRoleCsr: {
		enums.PartsOrderStatusCsrReview,
	},
}

// HasAlert reports whether a parts order in status needs the role's attention.
func HasAlert(role enums.PersonRole, status enums.PartsOrderStatus) bool {
	for _, candidate := range alertStatuses[role] {
		if candidate == status {
			return true
		}
	}
	return false
}
