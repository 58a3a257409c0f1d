package mcp9600

import (
	"fmt"
	"time"

	"periph.io/x/conn/v3/physic"
)

// DefaultAddress is the factory I²C address of the MCP9600.
const DefaultAddress uint16 = 0x67

// ThermocoupleType selects the transfer function the chip applies to the
// thermocouple EMF.
type ThermocoupleType uint8

const (
	TypeK ThermocoupleType = iota
	TypeJ
	TypeT
	TypeN
	TypeS
	TypeE
	TypeB
	TypeR
)

func (t ThermocoupleType) String() string {
	if t > TypeR {
		return fmt.Sprintf("ThermocoupleType(%d)", uint8(t))
	}
	return string("KJTNSEBR"[t]) + "-type"
}

// ADCResolution is the conversion width of the chip's delta-sigma ADC.
type ADCResolution uint8

const (
	Resolution18Bit ADCResolution = iota
	Resolution16Bit
	Resolution14Bit
	Resolution12Bit
)

// Bits returns the number of ADC bits.
func (r ADCResolution) Bits() int {
	return 18 - 2*int(r&0x03)
}

// ConversionTime is the typical hot-junction conversion time at this
// resolution.
func (r ADCResolution) ConversionTime() time.Duration {
	switch r {
	case Resolution16Bit:
		return 80 * time.Millisecond
	case Resolution14Bit:
		return 20 * time.Millisecond
	case Resolution12Bit:
		return 5 * time.Millisecond
	}
	return 320 * time.Millisecond
}

func (r ADCResolution) String() string {
	if r > Resolution12Bit {
		return fmt.Sprintf("ADCResolution(%d)", uint8(r))
	}
	return fmt.Sprintf("%d-bit", r.Bits())
}

// Register addresses. See section 5 of the datasheet.
const (
	regHotJunction  uint8 = 0x00
	regTempDelta    uint8 = 0x01
	regColdJunction uint8 = 0x02
	regRawADC       uint8 = 0x03
	regStatus       uint8 = 0x04
	regSensorConfig uint8 = 0x05
	regDeviceConfig uint8 = 0x06
	regAlert1Config uint8 = 0x08
	regAlert2Config uint8 = 0x09
	regAlert3Config uint8 = 0x0A
	regAlert4Config uint8 = 0x0B
	regAlert1Hyst   uint8 = 0x0C
	regAlert2Hyst   uint8 = 0x0D
	regAlert3Hyst   uint8 = 0x0E
	regAlert4Hyst   uint8 = 0x0F
	regAlert1Limit  uint8 = 0x10
	regAlert2Limit  uint8 = 0x11
	regAlert3Limit  uint8 = 0x12
	regAlert4Limit  uint8 = 0x13
	regDeviceID     uint8 = 0x20
)

// Sensor configuration register: type in bits 6-4, filter in bits 2-0.
const (
	sensorTypeShift        = 4
	sensorTypeMask   uint8 = 0x70
	sensorFilterMask uint8 = 0x07
)

// Device configuration register: ADC resolution in bits 6-5.
const (
	deviceResShift       = 5
	deviceResMask  uint8 = 0x60
)

// Status is the content of the status register.
type Status uint8

const (
	StatusBurstComplete Status = 0x80
	StatusTempUpdate    Status = 0x40
	StatusInputRange    Status = 0x10
	StatusAlert4        Status = 0x08
	StatusAlert3        Status = 0x04
	StatusAlert2        Status = 0x02
	StatusAlert1        Status = 0x01
)

// Values returned by reads that fail under ReadSentinel.
const (
	Sentinel8  uint8  = 0xFF
	Sentinel16 uint16 = 0x0000
)

const (
	// StandardSpeed is the I²C standard mode clock.
	StandardSpeed = 100 * physic.KiloHertz
	// DefaultTimeout is applied to the bus session on Open.
	DefaultTimeout = 100 * time.Millisecond

	// One LSB of the temperature registers.
	tempResolution physic.Temperature = 62_500 * physic.MicroKelvin
	tempLSB        float64            = 0.0625
)
