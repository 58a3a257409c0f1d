package mcp9600_test

import (
	"fmt"
	"log"

	"github.com/mikesmitty/mcp9600"
	"periph.io/x/host/v3"
)

func Example() {
	// Make sure periph is initialized.
	if _, err := host.Init(); err != nil {
		log.Fatal(err)
	}

	// Open the first available I²C bus at standard speed with a 100ms timeout.
	dev := mcp9600.New("", mcp9600.DefaultAddress, nil)
	if err := dev.Open(); err != nil {
		log.Fatal(err)
	}
	defer dev.Close()

	if err := dev.SetThermocoupleType(mcp9600.TypeK); err != nil {
		log.Fatal(err)
	}
	if err := dev.SetFilterCoefficient(4); err != nil {
		log.Fatal(err)
	}

	c, err := dev.Temperature()
	if err != nil {
		log.Fatal(err)
	}
	fmt.Printf("%.2f°C\n", c)
}
