package main

import (
	"flag"
	"fmt"
	"image/color"
	"io"
	"log"
	"os"
	"strings"
	"time"

	"github.com/maruel/ansi256"
	"github.com/mattn/go-colorable"
	"github.com/mattn/go-isatty"
	"github.com/mikesmitty/mcp9600"
	"periph.io/x/conn/v3/i2c"
	"periph.io/x/conn/v3/physic"
	"periph.io/x/host/v3"
)

func main() {
	addr := i2c.Addr(mcp9600.DefaultAddress)
	bus := flag.String("bus", "", "Name of the bus")
	flag.Var(&addr, "addr", "I²C address of the device")
	tcType := flag.String("type", "", "Thermocouple type (K, J, T, N, S, E, B or R)")
	filter := flag.Int("filter", -1, "Filter coefficient, 0 (off) to 7")
	resolution := flag.Int("resolution", 0, "ADC resolution in bits (12, 14, 16 or 18)")
	interval := flag.Duration("interval", time.Second, "Time between readings")
	strict := flag.Bool("strict", false, "Report failed reads instead of printing sentinel values")
	useColor := flag.Bool("color", true, "Show a heat colored block when stdout is a terminal")
	flag.Parse()

	_, err := host.Init()
	if err != nil {
		log.Fatal(err)
	}

	opts := mcp9600.DefaultOptions()
	if *strict {
		opts.ReadPolicy = mcp9600.ReadStrict
	}
	dev := mcp9600.New(*bus, uint16(addr), opts)
	if err := dev.Open(); err != nil {
		log.Fatal(err)
	}
	defer dev.Close()

	if err := configure(dev, *tcType, *filter, *resolution); err != nil {
		dev.Close()
		log.Fatal(err)
	}

	var out io.Writer = os.Stdout
	colored := *useColor && isatty.IsTerminal(os.Stdout.Fd())
	if colored {
		out = colorable.NewColorableStdout()
	}

	ticker := time.NewTicker(*interval)
	defer ticker.Stop()

	for {
		t, err := dev.HotJunction()
		if err != nil {
			log.Print(err)
		} else {
			block := ""
			if colored {
				block = ansi256.Default.Block(heat(t)) + "\033[0m "
			}
			fmt.Fprintf(out, "%sTemperature: %.2f°C %.2f°F\n", block, t.Celsius(), t.Fahrenheit())
		}
		<-ticker.C
	}
}

func configure(dev *mcp9600.Dev, tcType string, filter, resolution int) error {
	if tcType != "" {
		i := strings.Index("KJTNSEBR", strings.ToUpper(tcType))
		if len(tcType) != 1 || i < 0 {
			return fmt.Errorf("invalid thermocouple type %q", tcType)
		}
		if err := dev.SetThermocoupleType(mcp9600.ThermocoupleType(i)); err != nil {
			return err
		}
	}
	if filter >= 0 {
		if filter > 7 {
			return fmt.Errorf("invalid filter coefficient %d", filter)
		}
		if err := dev.SetFilterCoefficient(uint8(filter)); err != nil {
			return err
		}
	}
	if resolution != 0 {
		if resolution < 12 || resolution > 18 || resolution%2 != 0 {
			return fmt.Errorf("invalid ADC resolution %d", resolution)
		}
		if err := dev.SetADCResolution(mcp9600.ADCResolution((18 - resolution) / 2)); err != nil {
			return err
		}
	}
	return nil
}

// heat maps 0°C to blue and 100°C to red.
func heat(t physic.Temperature) color.NRGBA {
	f := t.Celsius() / 100
	if f < 0 {
		f = 0
	} else if f > 1 {
		f = 1
	}
	return color.NRGBA{R: uint8(255 * f), B: uint8(255 * (1 - f)), A: 255}
}
