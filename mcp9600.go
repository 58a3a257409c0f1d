// Package mcp9600 drives the Microchip MCP9600 thermocouple EMF to
// temperature converter over I²C.
//
// Datasheet
//
//	http://ww1.microchip.com/downloads/en/DeviceDoc/MCP9600-Family-Data-Sheet-20005426E.pdf
package mcp9600

import (
	"errors"
	"fmt"
	"io"
	"log"
	"sync"
	"time"

	"periph.io/x/conn/v3"
	"periph.io/x/conn/v3/i2c"
	"periph.io/x/conn/v3/physic"
)

// ReadPolicy selects what register reads do when the bus fails.
type ReadPolicy int

const (
	// ReadSentinel logs the failure and returns 0xFF (8-bit) or 0x0000
	// (16-bit) with a nil error.
	ReadSentinel ReadPolicy = iota
	// ReadStrict returns the failure as an *IOError.
	ReadStrict
)

// Opts holds various configuration options for the sensor
type Opts struct {
	// Speed is applied when Open acquires the bus. Zero leaves the bus speed
	// alone. Buses passed to NewI2C are never reconfigured.
	Speed physic.Frequency
	// Timeout is applied when Open acquires the bus. Zero leaves it alone.
	Timeout    time.Duration
	ReadPolicy ReadPolicy
	// Logger receives diagnostics for absorbed read failures. Defaults to
	// log.Default().
	Logger *log.Logger
	// Opener acquires the bus session in Open. Defaults to i2creg.Open.
	Opener Opener
}

func DefaultOptions() *Opts {
	return &Opts{
		Speed:   StandardSpeed,
		Timeout: DefaultTimeout,
	}
}

// Dev is a handle to one MCP9600 at a fixed address.
type Dev struct {
	d    i2c.Dev
	name string
	opts Opts
	// closer is set when Dev acquired the bus itself and must release it.
	closer io.Closer

	mu   sync.Mutex
	stop chan struct{}
	wg   sync.WaitGroup
}

// New returns a handle for the device at addr on the named bus. No I/O is
// done until Open is called.
func New(name string, addr uint16, opts *Opts) *Dev {
	if opts == nil {
		opts = DefaultOptions()
	}
	return &Dev{d: i2c.Dev{Addr: addr}, name: name, opts: *opts}
}

// NewI2C returns a handle for the device at addr on a bus already opened by
// the caller. The bus is used as is: Open does not change its speed or
// timeout and Close does not close it.
func NewI2C(b i2c.Bus, addr uint16, opts *Opts) (*Dev, error) {
	if b == nil {
		return nil, errors.New("mcp9600: nil bus")
	}
	if opts == nil {
		opts = DefaultOptions()
	}
	return &Dev{d: i2c.Dev{Bus: b, Addr: addr}, name: b.String(), opts: *opts}, nil
}

// Open acquires the bus session and applies the configured speed and
// timeout. It must succeed before any register operation.
func (d *Dev) Open() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.d.Bus != nil {
		return nil
	}
	b, err := openBus(d.name, &d.opts)
	if err != nil {
		return err
	}
	d.d.Bus = b
	d.closer = b
	return nil
}

// Close stops continuous sensing and releases the bus session if Dev owns
// it. It is safe to call more than once.
func (d *Dev) Close() error {
	if err := d.Halt(); err != nil {
		return err
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.closer == nil {
		return nil
	}
	err := d.closer.Close()
	d.closer = nil
	d.d.Bus = nil
	if err != nil {
		return openError("close", err)
	}
	return nil
}

func (d *Dev) String() string {
	return fmt.Sprintf("mcp9600{%s}", &d.d)
}

// ReadRegister8 reads one byte from reg.
func (d *Dev) ReadRegister8(reg uint8) (uint8, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.read8(reg)
}

// ReadRegister16 reads a big-endian word from reg.
func (d *Dev) ReadRegister16(reg uint8) (uint16, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.read16(reg)
}

// WriteRegister8 writes value to reg. Writes are never absorbed by the read
// policy.
func (d *Dev) WriteRegister8(reg, value uint8) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.write8(reg, value)
}

// SetThermocoupleType changes the thermocouple type, keeping the filter
// coefficient.
func (d *Dev) SetThermocoupleType(t ThermocoupleType) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.updateReg(regSensorConfig, sensorTypeMask, uint8(t)<<sensorTypeShift)
}

func (d *Dev) ThermocoupleType() (ThermocoupleType, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	v, err := d.read8(regSensorConfig)
	return ThermocoupleType((v & sensorTypeMask) >> sensorTypeShift), err
}

// SetFilterCoefficient sets the on-chip filter strength, 0 (off) to 7.
// Only the low 3 bits of c are used.
func (d *Dev) SetFilterCoefficient(c uint8) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.updateReg(regSensorConfig, sensorFilterMask, c)
}

func (d *Dev) FilterCoefficient() (uint8, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	v, err := d.read8(regSensorConfig)
	return v & sensorFilterMask, err
}

// SetADCResolution changes the ADC resolution, keeping the other device
// configuration bits.
func (d *Dev) SetADCResolution(r ADCResolution) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.updateReg(regDeviceConfig, deviceResMask, uint8(r)<<deviceResShift)
}

func (d *Dev) ADCResolution() (ADCResolution, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	v, err := d.read8(regDeviceConfig)
	return ADCResolution((v & deviceResMask) >> deviceResShift), err
}

// Temperature returns the hot-junction temperature in °C.
func (d *Dev) Temperature() (float64, error) {
	return d.celsius(regHotJunction)
}

// ColdJunction returns the cold-junction (die) temperature in °C.
func (d *Dev) ColdJunction() (float64, error) {
	return d.celsius(regColdJunction)
}

// TemperatureDelta returns the hot minus cold junction difference in °C.
func (d *Dev) TemperatureDelta() (float64, error) {
	return d.celsius(regTempDelta)
}

// HotJunction returns the hot-junction temperature. Bus failures are always
// returned, whatever the read policy.
func (d *Dev) HotJunction() (physic.Temperature, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.hotJunction()
}

// DeviceID returns the device ID (0x40 for the MCP9600) and silicon
// revision.
func (d *Dev) DeviceID() (id, revision uint8, err error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	v, err := d.read16(regDeviceID)
	return uint8(v >> 8), uint8(v), err
}

func (d *Dev) Status() (Status, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	v, err := d.read8(regStatus)
	return Status(v), err
}

func (d *Dev) celsius(reg uint8) (float64, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	v, err := d.read16(reg)
	return float64(int16(v)) * tempLSB, err
}

func (d *Dev) hotJunction() (physic.Temperature, error) {
	var b [2]byte
	if err := d.readReg(regHotJunction, b[:]); err != nil {
		return 0, err
	}
	v := int16(uint16(b[0])<<8 | uint16(b[1]))
	return physic.ZeroCelsius + physic.Temperature(v)*tempResolution, nil
}

// Sense reads the hot-junction temperature into e. Implements
// physic.SenseEnv.
func (d *Dev) Sense(e *physic.Env) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.stop != nil {
		return errors.New("mcp9600: already sensing continuously")
	}
	return d.sense(e)
}

func (d *Dev) sense(e *physic.Env) error {
	t, err := d.hotJunction()
	if err != nil {
		return err
	}
	e.Temperature = t
	return nil
}

// SenseContinuous returns measurements on a continuous basis.
//
// The interval is raised to the conversion time of the current ADC
// resolution. The application must call Halt() to stop the sensing when done
// and close the channel. A failed read stops the sensing and closes the
// channel; Sense can be used again right away.
func (d *Dev) SenseContinuous(interval time.Duration) (<-chan physic.Env, error) {
	// Don't send anything to the device when restarting.
	if err := d.Halt(); err != nil {
		return nil, err
	}

	d.mu.Lock()
	defer d.mu.Unlock()
	var cfg [1]byte
	if err := d.readReg(regDeviceConfig, cfg[:]); err != nil {
		return nil, err
	}
	res := ADCResolution((cfg[0] & deviceResMask) >> deviceResShift)
	if ct := res.ConversionTime(); interval < ct {
		interval = ct
	}

	sensing := make(chan physic.Env)
	stop := make(chan struct{})
	d.stop = stop
	d.wg.Add(1)
	go func() {
		defer d.wg.Done()
		defer close(sensing)
		d.sensingContinuous(interval, sensing, stop)
	}()
	return sensing, nil
}

func (d *Dev) sensingContinuous(interval time.Duration, sensing chan<- physic.Env, stop <-chan struct{}) {
	t := time.NewTicker(interval)
	defer t.Stop()

	for {
		e := physic.Env{}
		d.mu.Lock()
		err := d.sense(&e)
		d.mu.Unlock()
		if err != nil {
			d.logf("mcp9600: continuous sensing stopped: %v", err)
			d.mu.Lock()
			if d.stop == stop {
				d.stop = nil
			}
			d.mu.Unlock()
			return
		}
		select {
		case sensing <- e:
		case <-stop:
			return
		}
		select {
		case <-stop:
			return
		case <-t.C:
		}
	}
}

// Precision reports the 0.0625°C LSB of the temperature registers.
func (d *Dev) Precision(e *physic.Env) {
	e.Temperature = tempResolution
	e.Pressure = 0
	e.Humidity = 0
}

// Halt stops continuous sensing started by SenseContinuous. The chip keeps
// converting; use Close to release the bus.
func (d *Dev) Halt() error {
	d.mu.Lock()
	stop := d.stop
	d.stop = nil
	d.mu.Unlock()
	if stop != nil {
		close(stop)
		d.wg.Wait()
	}
	return nil
}

func (d *Dev) logf(format string, v ...interface{}) {
	l := d.opts.Logger
	if l == nil {
		l = log.Default()
	}
	l.Printf(format, v...)
}

var _ conn.Resource = &Dev{}
var _ physic.SenseEnv = &Dev{}
