//go:build !linux

package mcp9600

import "time"

// setAdapterTimeout is a no-op; only linux exposes the adapter timeout.
func setAdapterTimeout(bus int, d time.Duration) error {
	return nil
}
