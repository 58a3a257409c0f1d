package main

import (
	"testing"

	"github.com/mikesmitty/mcp9600"
	"periph.io/x/conn/v3/i2c/i2ctest"
	"periph.io/x/conn/v3/physic"
)

func TestConfigure(t *testing.T) {
	const addr = mcp9600.DefaultAddress
	pb := &i2ctest.Playback{
		Ops: []i2ctest.IO{
			// Type J, keeping filter 2.
			{Addr: addr, W: []byte{0x05}, R: []byte{0x02}},
			{Addr: addr, W: []byte{0x05, 0x12}},
			// Filter 7.
			{Addr: addr, W: []byte{0x05}, R: []byte{0x12}},
			{Addr: addr, W: []byte{0x05, 0x17}},
			// 16-bit ADC.
			{Addr: addr, W: []byte{0x06}, R: []byte{0x00}},
			{Addr: addr, W: []byte{0x06, 0x20}},
		},
		DontPanic: true,
	}
	dev, err := mcp9600.NewI2C(pb, addr, nil)
	if err != nil {
		t.Fatal(err)
	}
	if err := configure(dev, "j", 7, 16); err != nil {
		t.Fatal(err)
	}
	if err := pb.Close(); err != nil {
		t.Fatal(err)
	}

	for _, bad := range []struct {
		tcType       string
		filter, bits int
	}{
		{"X", -1, 0},
		{"KJ", -1, 0},
		{"", 8, 0},
		{"", -1, 15},
		{"", -1, 20},
	} {
		if err := configure(dev, bad.tcType, bad.filter, bad.bits); err == nil {
			t.Errorf("configure(%q, %d, %d) succeeded", bad.tcType, bad.filter, bad.bits)
		}
	}
}

func TestHeat(t *testing.T) {
	if c := heat(physic.ZeroCelsius - 10*physic.Celsius); c.B != 255 || c.R != 0 {
		t.Errorf("cold = %#v", c)
	}
	if c := heat(physic.ZeroCelsius + 150*physic.Celsius); c.R != 255 || c.B != 0 {
		t.Errorf("hot = %#v", c)
	}
}
