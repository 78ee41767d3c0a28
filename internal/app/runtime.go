package app

import (
	"os"
	"strconv"
)

// TestModeEnv names the variable that disables the global request limiter.
const TestModeEnv = "KICKZONE_TEST_MODE"

// InTestMode reports whether KICKZONE_TEST_MODE holds a true value.
func InTestMode() bool {
	on, err := strconv.ParseBool(os.Getenv(TestModeEnv))
	return err == nil && on
}
