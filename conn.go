package oled

import (
	"errors"
	"fmt"
	"time"

	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/i2c"

	"github.com/glowdot/oled/conn"
)

// Conn errors.
var (
	ErrDCPin = errors.New("oled: data/command (DC) GPIO pin is invalid")
	ErrCSPin = errors.New("oled: chip-select (CS) GPIO pin is invalid")
)

// Control bytes. Every I²C transaction carries one of these as its first
// payload byte to select whether command or display data follows; bit 7 low
// means no continuation.
const (
	ctrlCommand = 0x00
	ctrlData    = 0x40
)

// Conn is a write-only connection to the display controller.
type Conn interface {
	String() string

	// Close the connection.
	Close() error

	// Command transmits one command byte.
	Command(byte) error

	// Data transmits one burst of display data.
	Data(...byte) error
}

// SPI is a Conn with a chip-select line. The line is only driven during
// power sequencing; data and command framing is done with the DC line.
type SPI interface {
	Conn

	// ChipSelect drives the chip-select line.
	ChipSelect(gpio.Level) error
}

// I2CConfig describes the I²C bus configuration.
type I2CConfig struct {
	// Device is the I²C bus number, use -1 for the first available bus.
	Device int

	// Addr is the 7-bit device address.
	Addr uint16
}

// DefaultI2CConfig matches the common module strapping. Boards usually
// expose the address as 0x78 or 0x7A on the silk screen, which is the 7-bit
// address 0x3C or 0x3D shifted left by one.
var DefaultI2CConfig = I2CConfig{
	Device: -1,
	Addr:   0x3C,
}

type i2cConn struct {
	*conn.I2C
	cbuf [2]byte
}

// OpenI2C opens an I²C connection to the display.
func OpenI2C(config *I2CConfig) (Conn, error) {
	if config == nil {
		config = new(I2CConfig)
		*config = DefaultI2CConfig
	}
	if config.Addr == 0 {
		config.Addr = DefaultI2CConfig.Addr
	}

	c, err := conn.OpenI2C(config.Device, config.Addr)
	if err != nil {
		return nil, err
	}

	return newI2CConn(c), nil
}

// NewI2C wraps an already opened bus, such as an i2ctest recorder.
func NewI2C(bus i2c.Bus, addr uint16) Conn {
	if addr == 0 {
		addr = DefaultI2CConfig.Addr
	}
	return newI2CConn(conn.NewI2C(bus, addr))
}

func newI2CConn(c *conn.I2C) *i2cConn {
	return &i2cConn{
		I2C:  c,
		cbuf: [2]byte{ctrlCommand, 0},
	}
}

func (c *i2cConn) Command(cmnd byte) (err error) {
	c.cbuf[1] = cmnd
	_, err = c.I2C.Write(c.cbuf[:])
	return
}

func (c *i2cConn) Data(data ...byte) (err error) {
	_, err = c.I2C.Write(append([]byte{ctrlData}, data...))
	return
}

// SPIConfig describes the SPI bus configuration.
type SPIConfig struct {
	Bus    int
	Device int

	// DC is the data/command select line.
	DC gpio.PinOut

	// CS is the chip-select line.
	CS gpio.PinOut
}

// spiSpeedHz is the fixed clock rate of the serial interface.
const spiSpeedHz = 1_000_000

// spiResetDelay is how long chip-select is held high during the reset
// gesture at open.
const spiResetDelay = 100 * time.Millisecond

// spiPort is the lower half of the serial connection, implemented by
// [conn.SPI].
type spiPort interface {
	String() string
	Close() error
	Write([]byte) (int, error)
	SetMode(conn.SPIMode) error
	SetMaxSpeed(int) error
}

type spiConn struct {
	port    spiPort
	dc      gpio.PinOut
	cs      gpio.PinOut
	dcLevel gpio.Level
}

// OpenSPI opens a 4-wire SPI connection to the display. The clock runs at a
// fixed 1MHz with CPOL=1/CPHA=0 framing. Chip-select is pulsed once as a
// reset gesture before first use.
func OpenSPI(config *SPIConfig) (Conn, error) {
	if config == nil || config.DC == nil || config.DC == gpio.INVALID {
		return nil, ErrDCPin
	}
	if config.CS == nil || config.CS == gpio.INVALID {
		return nil, ErrCSPin
	}

	port, err := conn.OpenSPI(config.Bus, config.Device)
	if err != nil {
		return nil, err
	}

	return newSPIConn(port, config.DC, config.CS)
}

func newSPIConn(port spiPort, dc, cs gpio.PinOut) (*spiConn, error) {
	if err := port.SetMode(conn.SPIMode2); err != nil {
		_ = port.Close()
		return nil, err
	}
	if err := port.SetMaxSpeed(spiSpeedHz); err != nil {
		_ = port.Close()
		return nil, err
	}

	c := &spiConn{
		port:    port,
		dc:      dc,
		cs:      cs,
		dcLevel: gpio.Low,
	}
	if err := dc.Out(gpio.Low); err != nil {
		_ = port.Close()
		return nil, err
	}

	// Reset gesture: wake the controller with a chip-select pulse.
	if err := cs.Out(gpio.High); err != nil {
		_ = port.Close()
		return nil, err
	}
	time.Sleep(spiResetDelay)
	if err := cs.Out(gpio.Low); err != nil {
		_ = port.Close()
		return nil, err
	}

	return c, nil
}

func (c *spiConn) String() string {
	return fmt.Sprintf("SPI bus %s", c.port)
}

func (c *spiConn) Close() error {
	return c.port.Close()
}

func (c *spiConn) ChipSelect(level gpio.Level) error {
	return c.cs.Out(level)
}

func (c *spiConn) updateDC(level gpio.Level) error {
	if c.dcLevel != level {
		if err := c.dc.Out(level); err != nil {
			return err
		}
		c.dcLevel = level
	}
	return nil
}

func (c *spiConn) Command(cmnd byte) (err error) {
	if err = c.updateDC(gpio.Low); err != nil {
		return
	}
	_, err = c.port.Write([]byte{cmnd})
	return
}

func (c *spiConn) Data(data ...byte) (err error) {
	if len(data) == 0 {
		return
	}
	if err = c.updateDC(gpio.High); err != nil {
		return
	}
	_, err = c.port.Write(data)
	return
}
