// Package oled drives SSD1306/SH1106 class monochrome OLED controllers over
// I²C or 4-wire SPI.
//
// The driver keeps a page-packed frame buffer in memory; pixel writes only
// touch the buffer and Refresh streams it to the panel in full. All calls
// are synchronous and the package does no internal locking: callers must
// serialize pixel mutation and refreshes themselves.
package oled

import (
	"errors"
	"fmt"
	"os"

	log "github.com/sirupsen/logrus"
)

func init() {
	if os.Getenv("OLED_DEBUG") != "" {
		log.SetLevel(log.DebugLevel)
	}
}

// ErrInvalidState is wrapped by every [StateError].
var ErrInvalidState = errors.New("oled: operation not permitted in current state")

// State is the controller power and initialization state.
type State uint8

// Controller states. The panel only responds to drawing commands once the
// mandatory initialization sequence has run.
const (
	StateUninitialized State = iota
	StatePoweredOn
	StateInitialized
	StateActive
	StateInverted
	StatePoweredOff
)

func (s State) String() string {
	switch s {
	case StateUninitialized:
		return "uninitialized"
	case StatePoweredOn:
		return "powered on"
	case StateInitialized:
		return "initialized"
	case StateActive:
		return "active"
	case StateInverted:
		return "inverted"
	case StatePoweredOff:
		return "powered off"
	default:
		return fmt.Sprintf("state(%d)", uint8(s))
	}
}

// lit reports whether the panel is being driven from the frame buffer,
// meaning refresh and display commands are accepted.
func (s State) lit() bool {
	return s == StateInitialized || s == StateActive || s == StateInverted
}

// StateError reports an operation invoked outside its required state.
type StateError struct {
	Op    string
	State State
}

func (e *StateError) Error() string {
	return fmt.Sprintf("oled: %s not permitted while %s", e.Op, e.State)
}

func (e *StateError) Unwrap() error { return ErrInvalidState }

// Config is the display configuration.
type Config struct {
	// Height of the panel in pixels, 32 or 64. Any other value is treated
	// as 64.
	Height int

	// ExternalVCC selects an external panel supply. When false the internal
	// charge pump generates the drive voltage.
	ExternalVCC bool
}
