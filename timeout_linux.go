//go:build linux

package mcp9600

import (
	"fmt"
	"time"

	"golang.org/x/sys/unix"
)

// I2C_TIMEOUT from linux/i2c-dev.h. The value is in units of 10ms and
// applies to the whole adapter.
const ioctlTimeout = 0x702

// setAdapterTimeout sets the transaction timeout of /dev/i2c-<bus>.
func setAdapterTimeout(bus int, d time.Duration) error {
	fd, err := unix.Open(fmt.Sprintf("/dev/i2c-%d", bus), unix.O_RDWR|unix.O_CLOEXEC, 0)
	if err != nil {
		return err
	}
	defer unix.Close(fd)
	ticks := int((d + 10*time.Millisecond - 1) / (10 * time.Millisecond))
	return unix.IoctlSetInt(fd, ioctlTimeout, ticks)
}
