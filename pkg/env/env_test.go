package env

import "testing"

func TestGetTrimsAndFallsBack(t *testing.T) {
	t.Setenv("PPG_ENV_TEST", "  value ")
	if got := Get("PPG_ENV_TEST", "fallback"); got != "value" {
		t.Fatalf("expected trimmed value got %q", got)
	}

	t.Setenv("PPG_ENV_TEST", "   ")
	if got := Get("PPG_ENV_TEST", "fallback"); got != "fallback" {
		t.Fatalf("expected fallback for blank value got %q", got)
	}
}
