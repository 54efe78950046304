// Command oled-bounce drives a bouncing-bars demo on an attached panel. It is
// a smoke test for both transports: run it bare for I²C or with -spi and the
// DC/CS pin names for 4-wire SPI.
package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	log "github.com/sirupsen/logrus"
	"periph.io/x/conn/v3/gpio/gpioreg"
	"periph.io/x/host/v3"

	"github.com/glowdot/oled"
	"github.com/glowdot/oled/draw"
	"github.com/glowdot/oled/pixel"
)

func main() {
	useSPIFlag := flag.Bool("spi", false, "Use SPI instead of I²C")
	spiBusFlag := flag.Int("spi-bus", 0, "SPI bus")
	spiDeviceFlag := flag.Int("spi-dev", 0, "SPI device")
	dcPinFlag := flag.String("dc", "GPIO24", "Data/Command GPIO pin (DC)")
	csPinFlag := flag.String("cs", "GPIO8", "Chip select GPIO pin (CS)")
	i2cDeviceFlag := flag.Int("i2c-dev", oled.DefaultI2CConfig.Device, "I²C device number (default: use first available)")
	i2cAddrFlag := flag.Uint("i2c-addr", uint(oled.DefaultI2CConfig.Addr), "I²C device address")
	heightFlag := flag.Int("height", 64, "Panel height in pixels (32 or 64)")
	externalVCCFlag := flag.Bool("external-vcc", false, "Panel is driven by an external VCC supply")
	verboseFlag := flag.Bool("verbose", false, "Enable debug logging")
	flag.Parse()

	log.SetFormatter(&log.TextFormatter{FullTimestamp: true})
	if *verboseFlag {
		log.SetLevel(log.DebugLevel)
	}

	if _, err := host.Init(); err != nil {
		fatal(nil, err)
	}

	var (
		c   oled.Conn
		err error
	)
	if *useSPIFlag {
		c, err = oled.OpenSPI(&oled.SPIConfig{
			Bus:    *spiBusFlag,
			Device: *spiDeviceFlag,
			DC:     gpioreg.ByName(*dcPinFlag),
			CS:     gpioreg.ByName(*csPinFlag),
		})
	} else {
		c, err = oled.OpenI2C(&oled.I2CConfig{
			Device: *i2cDeviceFlag,
			Addr:   uint16(*i2cAddrFlag),
		})
	}
	if err != nil {
		fatal(nil, err)
	}

	d := oled.New(c, &oled.Config{
		Height:      *heightFlag,
		ExternalVCC: *externalVCCFlag,
	})
	log.WithField("display", d.String()).Info("display opened")

	if err = d.PowerOn(); err != nil {
		fatal(d, err)
	}
	if err = d.Init(); err != nil {
		fatal(d, err)
	}

	if err = bounce(d); err != nil {
		fatal(d, err)
	}
}

// bounce animates a vertical and a horizontal bar ricocheting off the panel
// edges, with the four corners lit as fixed markers.
func bounce(d *oled.Device) error {
	var (
		bounds = d.Bounds()
		x, y   = bounds.Dx() / 2, bounds.Dy() / 2
		dx, dy = 2, 1
		ticker = time.NewTicker(100 * time.Millisecond)
	)
	defer ticker.Stop()

	for range ticker.C {
		draw.VerticalLine(d.Frame(), x, bounds.Min.Y, bounds.Dy(), pixel.Off)
		draw.HorizontalLine(d.Frame(), bounds.Min.X, y, bounds.Dx(), pixel.Off)

		x += dx
		if x <= bounds.Min.X || x >= bounds.Max.X-1 {
			dx = -dx
			x += 2 * dx
		}
		y += dy
		if y <= bounds.Min.Y || y >= bounds.Max.Y-1 {
			dy = -dy
			y += 2 * dy
		}

		draw.VerticalLine(d.Frame(), x, bounds.Min.Y, bounds.Dy(), pixel.On)
		draw.HorizontalLine(d.Frame(), bounds.Min.X, y, bounds.Dx(), pixel.On)

		for _, p := range [][2]int{
			{bounds.Min.X, bounds.Min.Y},
			{bounds.Max.X - 1, bounds.Min.Y},
			{bounds.Min.X, bounds.Max.Y - 1},
			{bounds.Max.X - 1, bounds.Max.Y - 1},
		} {
			if err := d.SetPixel(p[0], p[1], true); err != nil {
				return err
			}
		}

		if err := d.Refresh(); err != nil {
			return err
		}
	}
	return nil
}

func fatal(d *oled.Device, err error) {
	log.WithError(err).Error("fatal")
	if d != nil {
		if offErr := d.Close(); offErr != nil {
			log.WithError(offErr).Warn("shutdown failed")
		}
	}
	fmt.Fprintln(os.Stderr, "fatal:", err)
	os.Exit(1)
}
