package testing

import (
	"testing"
)

func TestUnitDefault(t *testing.T) {
	t.Setenv("ARBOR_UNIT_TESTS_ONLY", "")
	t.Setenv("ARBOR_RUN_INTEGRATION_TESTS", "")

	if !Unit() {
		t.Error("Unit() = false with no environment overrides, want true")
	}
	if Integration() {
		t.Error("Integration() = true with no environment overrides, want false")
	}
}

func TestUnitOnlyOverride(t *testing.T) {
	t.Setenv("ARBOR_UNIT_TESTS_ONLY", "true")
	t.Setenv("ARBOR_RUN_INTEGRATION_TESTS", "true")

	if !Unit() {
		t.Error("Unit() = false, want true when ARBOR_UNIT_TESTS_ONLY=true")
	}
}

func TestIntegrationEnabled(t *testing.T) {
	t.Setenv("ARBOR_UNIT_TESTS_ONLY", "")
	t.Setenv("ARBOR_RUN_INTEGRATION_TESTS", "true")

	if Unit() {
		t.Error("Unit() = true, want false when ARBOR_RUN_INTEGRATION_TESTS=true")
	}
	if !Integration() {
		t.Error("Integration() = false, want true")
	}
}

func TestIntegrationDisabled(t *testing.T) {
	t.Setenv("ARBOR_UNIT_TESTS_ONLY", "")
	t.Setenv("ARBOR_RUN_INTEGRATION_TESTS", "false")

	if !Unit() {
		t.Error("Unit() = false, want true when ARBOR_RUN_INTEGRATION_TESTS=false")
	}
}
