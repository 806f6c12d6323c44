// Package testing gates tests that need external services, such as a
// running NATS server.
package testing

import (
	"os"
	"testing"
)

// Unit returns true when running in unit test mode. Unit tests must be
// fast and must not require external services.
func Unit() bool {
	if os.Getenv("ARBOR_UNIT_TESTS_ONLY") == "true" {
		return true
	}
	if os.Getenv("ARBOR_RUN_INTEGRATION_TESTS") == "true" {
		return false
	}
	if os.Getenv("ARBOR_RUN_INTEGRATION_TESTS") == "false" {
		return true
	}
	if testing.Short() {
		return true
	}
	return true
}

// Integration returns true when integration tests are enabled.
func Integration() bool {
	return !Unit()
}

// SkipIfUnit skips the test unless integration tests are enabled.
func SkipIfUnit(t *testing.T, message ...string) {
	if Unit() {
		msg := "Skipping integration test in unit mode"
		if len(message) > 0 {
			msg = message[0]
		}
		t.Skip(msg)
	}
}

// SkipIfIntegration skips the test when integration tests are enabled.
func SkipIfIntegration(t *testing.T, message ...string) {
	if Integration() {
		msg := "Skipping unit-only test in integration mode"
		if len(message) > 0 {
			msg = message[0]
		}
		t.Skip(msg)
	}
}
