package testing

import "os"

// Importing this package switches the console into test mode, which turns off
// the global request limiter so handler suites can issue many requests.
func init() {
	_ = os.Setenv("KICKZONE_TEST_MODE", "1")
}
