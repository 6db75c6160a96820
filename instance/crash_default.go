//go:build !qmldebug

package instance

import "time"

// DefaultCrashThreshold is the minimum time between two renderer crashes
// for the second one to be restarted automatically.
const DefaultCrashThreshold = 5000 * time.Millisecond
