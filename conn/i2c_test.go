package conn

import (
	"errors"
	"testing"
	"time"

	"periph.io/x/conn/v3/i2c/i2ctest"
	"periph.io/x/conn/v3/physic"
)

func TestI2CWrite(t *testing.T) {
	rec := &i2ctest.Record{}
	c := NewI2C(rec, 0x3C)

	n, err := c.Write([]byte{0x00, 0xAE})
	if err != nil {
		t.Fatal(err)
	}
	if n != 2 {
		t.Errorf("Write returned %d, expected 2", n)
	}

	if len(rec.Ops) != 1 {
		t.Fatalf("recorded %d transactions, expected 1", len(rec.Ops))
	}
	op := rec.Ops[0]
	if op.Addr != 0x3C {
		t.Errorf("transaction addressed %#02x, expected 0x3C", op.Addr)
	}
	if len(op.W) != 2 || op.W[0] != 0x00 || op.W[1] != 0xAE {
		t.Errorf("transaction wrote %#v, expected [0x00 0xAE]", op.W)
	}
}

// stuckBus blocks every transaction until unblocked.
type stuckBus struct {
	unblock chan struct{}
}

func (b *stuckBus) String() string                    { return "stuck" }
func (b *stuckBus) SetSpeed(physic.Frequency) error   { return nil }
func (b *stuckBus) Tx(addr uint16, w, r []byte) error { <-b.unblock; return nil }

func TestI2CWriteTimeout(t *testing.T) {
	defer func(d time.Duration) { writeTimeout = d }(writeTimeout)
	writeTimeout = 10 * time.Millisecond

	bus := &stuckBus{unblock: make(chan struct{})}
	defer close(bus.unblock)

	c := NewI2C(bus, 0x3C)
	if _, err := c.Write([]byte{0x00, 0xAE}); !errors.Is(err, ErrTimeout) {
		t.Fatalf("Write returned %v, expected ErrTimeout", err)
	}
}

func TestI2CClose(t *testing.T) {
	// A bus without a Close method is accepted and closes as a no-op.
	c := NewI2C(&i2ctest.Record{}, 0x3C)
	if err := c.Close(); err != nil {
		t.Fatal(err)
	}
}
