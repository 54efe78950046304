package oled

import (
	"fmt"
	"image"
	"time"

	log "github.com/sirupsen/logrus"
	"periph.io/x/conn/v3/gpio"

	"github.com/glowdot/oled/pixel"
)

const (
	// columns is the fixed width of the controller RAM.
	columns = 128

	// burstSize is the I²C data payload per transaction. The controller
	// auto-increments the column address between bursts within a page, so a
	// 128 byte page row goes out as 8 bursts.
	burstSize = 16

	// powerDelay is the settle time between chip-select edges during power
	// sequencing.
	powerDelay = 10 * time.Millisecond

	// defaultContrast is the segment drive level set by Init.
	defaultContrast = 0x7F
)

// Device is an exclusive handle to one display controller. It owns its frame
// buffer and its connection; neither may be shared between devices.
type Device struct {
	c     Conn
	cs    SPI // nil on addressed buses
	frame *pixel.Frame
	state State

	height      int
	externalVCC bool
}

// New returns a device handle in the uninitialized state. No bus traffic
// happens until PowerOn and Init are called.
func New(c Conn, config *Config) *Device {
	if config == nil {
		config = new(Config)
	}
	height := 64
	if config.Height == 32 {
		height = 32
	}

	d := &Device{
		c:           c,
		frame:       pixel.NewFrame(columns, height),
		state:       StateUninitialized,
		height:      height,
		externalVCC: config.ExternalVCC,
	}

	// The transport variant is fixed here and never re-inspected: a serial
	// connection streams the frame in bulk, an addressed bus pages it out.
	if s, ok := c.(SPI); ok {
		d.cs = s
	}

	return d
}

func (d *Device) String() string {
	return fmt.Sprintf("SSD1106 OLED %dx%d on %s", columns, d.height, d.c)
}

// State returns the current controller state.
func (d *Device) State() State {
	return d.state
}

// Frame returns the device frame buffer.
func (d *Device) Frame() *pixel.Frame {
	return d.frame
}

// Bounds is the display bounding box.
func (d *Device) Bounds() image.Rectangle {
	return d.frame.Bounds()
}

// SetPixel sets or clears one pixel in the frame buffer. The panel is not
// updated until Refresh.
func (d *Device) SetPixel(x, y int, on bool) error {
	return d.frame.SetPixel(x, y, on)
}

// Pixel reports the frame buffer state at (x, y).
func (d *Device) Pixel(x, y int) (bool, error) {
	return d.frame.Pixel(x, y)
}

// Clear resets the frame buffer. The panel is not updated until Refresh.
func (d *Device) Clear() {
	d.frame.Clear()
}

func (d *Device) setState(s State) {
	log.WithFields(log.Fields{
		"from": d.state.String(),
		"to":   s.String(),
	}).Debug("oled: state transition")
	d.state = s
}

func (d *Device) command(cmnd command) error {
	return d.c.Command(byte(cmnd))
}

// commands sends each byte as its own command transaction. The controller
// state machine consumes opcodes and their argument bytes one at a time.
func (d *Device) commands(seq ...byte) (err error) {
	for _, b := range seq {
		if err = d.c.Command(b); err != nil {
			return
		}
	}
	return
}

// PowerOn performs the controller power sequencing: on SPI the chip-select
// line is pulsed, on I²C the bus only needs a settle delay.
func (d *Device) PowerOn() error {
	if d.state != StateUninitialized && d.state != StatePoweredOff {
		return &StateError{Op: "power on", State: d.state}
	}

	if d.cs != nil {
		if err := d.cs.ChipSelect(gpio.High); err != nil {
			return err
		}
		time.Sleep(powerDelay)
		if err := d.cs.ChipSelect(gpio.Low); err != nil {
			return err
		}
		time.Sleep(powerDelay)
	} else {
		time.Sleep(powerDelay)
	}

	d.setState(StatePoweredOn)
	return nil
}

// Init runs the mandatory initialization sequence and leaves the panel lit
// with a cleared frame. The command ordering is required by the controller;
// reordering yields undefined panel behaviour.
func (d *Device) Init() error {
	if d.state != StatePoweredOn {
		return &StateError{Op: "init", State: d.state}
	}

	var (
		multiplex  byte = 0x3F
		comPins    byte = 0x12
		chargePump byte = 0x14
		precharge  byte = 0xF1
	)
	if d.height == 32 {
		multiplex, comPins = 0x1F, 0x02
	}
	if d.externalVCC {
		chargePump, precharge = 0x10, 0x22
	}

	if err := d.commands(
		byte(setDisplayOff),
		byte(setMemoryMode),
		byte(setHighColumn), 0xB0, 0xC8,
		byte(setLowColumn), 0x10, 0x40,
		byte(setContrast), defaultContrast,
		byte(setSegmentRemap),
		byte(setNormalDisplay),
		byte(setMultiplexRatio), multiplex,
		byte(setDisplayAllOnResume),
		byte(setDisplayOffset), 0x00,
		byte(setDisplayClockDiv), 0xF0,
		byte(setPrecharge), precharge,
		byte(setComPins), comPins,
		byte(setVComDetect), 0x20,
		byte(setChargePump), chargePump,
		byte(setDisplayOn),
	); err != nil {
		return err
	}
	d.setState(StateInitialized)

	d.frame.Clear()
	if err := d.Refresh(); err != nil {
		return err
	}

	d.setState(StateActive)
	return nil
}

// Refresh streams the full frame buffer to the controller. There is no
// partial-failure recovery: a failed refresh leaves the panel partially
// drawn, the next call retransmits the complete frame.
func (d *Device) Refresh() error {
	if !d.state.lit() {
		return &StateError{Op: "refresh", State: d.state}
	}

	buf := d.frame.Bytes()
	log.WithField("bytes", len(buf)).Debug("oled: refresh")

	if d.cs != nil {
		// Serial transport: the whole frame in one data burst.
		return d.c.Data(buf...)
	}

	// Addressed bus: select each page, then stream its row in 16 byte
	// bursts. The burst size is a bus capacity constraint, do not coalesce.
	for page := 0; page < d.frame.Pages(); page++ {
		if err := d.commands(
			byte(setPageStart)|byte(page),
			byte(setLowColumn)|0x02,
			byte(setHighColumn),
		); err != nil {
			return err
		}
		row := buf[page*columns : (page+1)*columns]
		for off := 0; off < len(row); off += burstSize {
			if err := d.c.Data(row[off : off+burstSize]...); err != nil {
				return err
			}
		}
	}
	return nil
}

// Invert toggles inverted video, lit pixels showing dark and vice versa. The
// frame buffer is unaffected.
func (d *Device) Invert(invert bool) error {
	if d.state != StateActive && d.state != StateInverted {
		return &StateError{Op: "invert", State: d.state}
	}

	cmnd := setNormalDisplay
	if invert {
		cmnd = setInvertDisplay
	}
	if err := d.command(cmnd); err != nil {
		return err
	}

	if invert {
		d.setState(StateInverted)
	} else {
		d.setState(StateActive)
	}
	return nil
}

// SetContrast adjusts the segment drive level. The byte is forwarded to the
// controller unmodified.
func (d *Device) SetContrast(level byte) error {
	if d.state != StateActive && d.state != StateInverted {
		return &StateError{Op: "set contrast", State: d.state}
	}
	return d.commands(byte(setContrast), level)
}

// ScrollHorizontal starts continuous hardware scrolling of the pages
// startPage through endPage, inclusive.
func (d *Device) ScrollHorizontal(right bool, startPage, endPage byte) error {
	if d.state != StateActive && d.state != StateInverted {
		return &StateError{Op: "scroll", State: d.state}
	}
	if startPage > endPage || int(endPage) >= d.frame.Pages() {
		return fmt.Errorf("oled: invalid scroll page range %d..%d", startPage, endPage)
	}

	cmnd := scrollLeft
	if right {
		cmnd = scrollRight
	}
	return d.commands(
		byte(cmnd),
		0x00, // dummy
		startPage,
		0x00, // frame interval
		endPage,
		0x00, // dummy
		0xFF, // dummy
		byte(activateScroll),
	)
}

// StopScroll stops any running scroll. Scrolling shifts the controller RAM,
// so refresh the frame afterwards.
func (d *Device) StopScroll() error {
	if d.state != StateActive && d.state != StateInverted {
		return &StateError{Op: "stop scroll", State: d.state}
	}
	return d.command(deactivateScroll)
}

// PowerOff blanks the panel. The device accepts no drawing commands until
// PowerOn and Init run again.
func (d *Device) PowerOff() error {
	if !d.state.lit() {
		return &StateError{Op: "power off", State: d.state}
	}
	if err := d.command(setDisplayOff); err != nil {
		return err
	}
	d.setState(StatePoweredOff)
	return nil
}

// Close powers the display off when it is still lit and closes the
// connection.
func (d *Device) Close() error {
	if d.state.lit() {
		if err := d.PowerOff(); err != nil {
			_ = d.c.Close()
			return err
		}
	}
	return d.c.Close()
}
