package conn

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"periph.io/x/conn/v3"
	"periph.io/x/conn/v3/i2c"
	"periph.io/x/conn/v3/i2c/i2creg"
)

// ErrTimeout is returned when the device does not acknowledge a transaction
// within writeTimeout.
var ErrTimeout = errors.New("conn: I²C transaction timed out")

// writeTimeout bounds every I²C transaction. A variable so tests can lower
// it.
var writeTimeout = 5 * time.Second

// I2C is an addressed-bus connection to a single device.
type I2C struct {
	bus  i2c.Bus
	conn conn.Conn
}

// OpenI2C opens the numbered I²C bus and addresses the device on it. A
// negative bus number selects the first available bus.
func OpenI2C(device int, addr uint16) (*I2C, error) {
	var (
		bus i2c.BusCloser
		err error
	)
	if device < 0 {
		bus, err = i2creg.Open("")
	} else {
		bus, err = i2creg.Open(strconv.Itoa(device))
	}
	if err != nil {
		return nil, err
	}
	return NewI2C(bus, addr), nil
}

// NewI2C addresses a device on an already opened bus.
func NewI2C(bus i2c.Bus, addr uint16) *I2C {
	return &I2C{
		bus:  bus,
		conn: &i2c.Dev{Bus: bus, Addr: addr},
	}
}

func (c *I2C) String() string {
	return fmt.Sprintf("I²C bus %s", c.bus)
}

func (c *I2C) Close() error {
	if bus, ok := c.bus.(i2c.BusCloser); ok {
		return bus.Close()
	}
	return nil
}

// Write sends p to the device in a single addressed transaction. It fails
// with ErrTimeout when the transaction does not complete in time; the kernel
// transaction is not cancelled and runs to completion on the bus.
func (c *I2C) Write(p []byte) (int, error) {
	done := make(chan error, 1)
	go func() {
		done <- c.conn.Tx(p, nil)
	}()

	t := time.NewTimer(writeTimeout)
	defer t.Stop()
	select {
	case err := <-done:
		if err != nil {
			return 0, err
		}
		return len(p), nil
	case <-t.C:
		return 0, ErrTimeout
	}
}
