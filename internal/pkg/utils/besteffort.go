package utils

import "log"

// BestEffort runs a step whose outcome must not affect the caller's
// response. Failures are logged and reported as a skipped result so call
// sites read as "this step may fail without consequence".
func BestEffort(label string, fn func() error) bool {
	if err := fn(); err != nil {
		log.Printf("best-effort step %q failed: %v", label, err)
		return false
	}
	return true
}
