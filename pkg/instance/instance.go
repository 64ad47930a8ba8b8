package instance

import "github.com/pyy-alt/ppg-admin-sub000/pkg/env"

// GetID returns the process instance identifier used in startup logs.
// PPG_INSTANCE_ID wins over HOSTNAME; fallback is used when neither is set.
func GetID(fallback string) string {
	return env.Get("PPG_INSTANCE_ID", env.Get("HOSTNAME", fallback))
}
