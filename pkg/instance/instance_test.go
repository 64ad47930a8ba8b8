package instance

import "testing"

func TestGetIDPrefersExplicitInstance(t *testing.T) {
	t.Setenv("HOSTNAME", "pod-abc")
	t.Setenv("PPG_INSTANCE_ID", "api-1")
	if got := GetID("local"); got != "api-1" {
		t.Fatalf("expected api-1 got %s", got)
	}
}

func TestGetIDFallsBack(t *testing.T) {
	t.Setenv("HOSTNAME", "")
	t.Setenv("PPG_INSTANCE_ID", "")
	if got := GetID("local"); got != "local" {
		t.Fatalf("expected local got %s", got)
	}
}
