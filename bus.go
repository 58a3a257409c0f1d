package mcp9600

import (
	"fmt"
	"strconv"
	"time"

	"periph.io/x/conn/v3/i2c"
	"periph.io/x/conn/v3/i2c/i2creg"
)

// Opener acquires an I²C bus session by interface name.
type Opener func(name string) (i2c.BusCloser, error)

// Timeouter is implemented by buses that accept a per-transaction timeout.
type Timeouter interface {
	SetTimeout(d time.Duration) error
}

// CountingBus is implemented by buses that report how many bytes a
// transaction moved, write and read phases combined.
//
// Buses that only implement i2c.Bus are credited with every byte when Tx
// succeeds.
type CountingBus interface {
	i2c.Bus
	TxCount(addr uint16, w, r []byte) (int, error)
}

// openBus acquires the session and applies the speed and timeout policy.
// The session is released if any step fails.
func openBus(name string, opts *Opts) (i2c.BusCloser, error) {
	open := opts.Opener
	if open == nil {
		open = i2creg.Open
	}
	b, err := open(name)
	if err != nil {
		return nil, openError(fmt.Sprintf("open %q", name), err)
	}
	if opts.Speed != 0 {
		if err := b.SetSpeed(opts.Speed); err != nil {
			_ = b.Close()
			return nil, openError("set bus speed", err)
		}
	}
	if err := setTimeout(b, name, opts); err != nil {
		_ = b.Close()
		return nil, openError("set timeout", err)
	}
	return b, nil
}

// adapterTimeout applies a timeout to a numbered host adapter.
var adapterTimeout = setAdapterTimeout

// setTimeout prefers the bus's own Timeouter. The host adapter fallback is
// only used for buses that came from i2creg, since a custom Opener's bus has
// no relation to the registry numbering.
func setTimeout(b i2c.Bus, name string, opts *Opts) error {
	d := opts.Timeout
	if d <= 0 {
		return nil
	}
	if t, ok := b.(Timeouter); ok {
		return t.SetTimeout(d)
	}
	if opts.Opener != nil {
		return nil
	}
	n := busNumber(name)
	if n < 0 {
		return nil
	}
	return adapterTimeout(n, d)
}

// busNumber resolves a registry name to the host bus number, or -1 when the
// bus has none.
func busNumber(name string) int {
	refs := i2creg.All()
	if name == "" {
		n := -1
		for _, r := range refs {
			if r.Number >= 0 && (n < 0 || r.Number < n) {
				n = r.Number
			}
		}
		return n
	}
	for _, r := range refs {
		if r.Number < 0 {
			continue
		}
		if r.Name == name || strconv.Itoa(r.Number) == name {
			return r.Number
		}
		for _, a := range r.Aliases {
			if a == name {
				return r.Number
			}
		}
	}
	return -1
}

// tx runs one combined transaction and returns the number of bytes moved.
func (d *Dev) tx(w, r []byte) (int, error) {
	if d.d.Bus == nil {
		return 0, errNotOpen
	}
	if c, ok := d.d.Bus.(CountingBus); ok {
		return c.TxCount(d.d.Addr, w, r)
	}
	if err := d.d.Tx(w, r); err != nil {
		return 0, err
	}
	return len(w) + len(r), nil
}

func checkTransferSize(op string, expected, actual int, err error) error {
	switch {
	case err == errNotOpen:
		return &IOError{Op: op, Kind: ErrOpen, Err: err}
	case err != nil:
		return &IOError{Op: op, Kind: ErrTransport, Err: err}
	case actual != expected:
		return &IOError{Op: op, Kind: ErrShortTransfer, Err: fmt.Errorf("transferred %d bytes; expected %d", actual, expected)}
	}
	return nil
}

// readReg writes the register address then reads len(b) bytes in a single
// transaction.
func (d *Dev) readReg(reg uint8, b []byte) error {
	n, err := d.tx([]byte{reg}, b)
	return checkTransferSize(fmt.Sprintf("read register 0x%02x", reg), 1+len(b), n, err)
}

func (d *Dev) write8(reg, value uint8) error {
	n, err := d.tx([]byte{reg, value}, nil)
	return checkTransferSize(fmt.Sprintf("write register 0x%02x", reg), 2, n, err)
}

func (d *Dev) read8(reg uint8) (uint8, error) {
	var b [1]byte
	if err := d.readReg(reg, b[:]); err != nil {
		return Sentinel8, d.absorb(err)
	}
	return b[0], nil
}

func (d *Dev) read16(reg uint8) (uint16, error) {
	var b [2]byte
	if err := d.readReg(reg, b[:]); err != nil {
		return Sentinel16, d.absorb(err)
	}
	return uint16(b[0])<<8 | uint16(b[1]), nil
}

// absorb applies the read policy to a failed read.
func (d *Dev) absorb(err error) error {
	if d.opts.ReadPolicy == ReadStrict {
		return err
	}
	d.logf("%v; returning sentinel", err)
	return nil
}

// updateReg rewrites the bits selected by mask, keeping the rest of the
// register. The read is always strict so a sentinel is never written back.
func (d *Dev) updateReg(reg, mask, bits uint8) error {
	var b [1]byte
	if err := d.readReg(reg, b[:]); err != nil {
		return err
	}
	return d.write8(reg, b[0]&^mask|bits&mask)
}
