// Copyright 2024 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package uc8151

import (
	"bytes"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/GermanBionicSystems/epaper/bitmap"
	"github.com/jonboulle/clockwork"
	"periph.io/x/conn/v3"
	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/physic"
	"periph.io/x/conn/v3/spi"
	"periph.io/x/host/v3/rpi"
)

// Commands
const (
	panelSetting                 byte = 0x00
	powerSetting                 byte = 0x01
	powerOff                     byte = 0x02
	powerOffSequenceSetting      byte = 0x03
	powerOn                      byte = 0x04
	powerOnMeasure               byte = 0x05
	boosterSoftStart             byte = 0x06
	deepSleep                    byte = 0x07
	dataStartTransmission1       byte = 0x10
	dataStop                     byte = 0x11
	displayRefresh               byte = 0x12
	dataStartTransmission2       byte = 0x13
	pllControl                   byte = 0x30
	temperatureSensorCommand     byte = 0x40
	temperatureSensorCalibration byte = 0x41
	temperatureSensorWrite       byte = 0x42
	temperatureSensorRead        byte = 0x43
	vcomAndDataIntervalSetting   byte = 0x50
	lowPowerDetection            byte = 0x51
	tconSetting                  byte = 0x60
	tconResolution               byte = 0x61
	sourceAndGateStartSetting    byte = 0x62
	getStatus                    byte = 0x71
	autoMeasureVcom              byte = 0x80
	vcomValue                    byte = 0x81
	vcmDCSettingRegister         byte = 0x82
	partialWindow                byte = 0x90
	partialIn                    byte = 0x91
	partialOut                   byte = 0x92
	programMode                  byte = 0xA0
	activeProgramming            byte = 0xA1
	readOTP                      byte = 0xA2
	powerSaving                  byte = 0xE3
)

// deepSleepCheck is the key byte required by the deep sleep command.
const deepSleepCheck byte = 0xA5

// scanInOut is the last partial window byte: gates scan both inside and
// outside of the window.
const scanInOut byte = 0x01

var (
	// ErrBusyTimeout is returned when the panel stays busy for longer than
	// Opts.BusyTimeout.
	ErrBusyTimeout = errors.New("uc8151: busy timeout")
	// ErrNotInitialized is returned when drawing before Init.
	ErrNotInitialized = errors.New("uc8151: not initialized")
	// ErrSleeping is returned when drawing after Sleep without Init.
	ErrSleeping = errors.New("uc8151: sleeping")
	// ErrRegion is returned for a region outside of the panel or a buffer too
	// short for it.
	ErrRegion = errors.New("uc8151: invalid region")
)

// Opts defines the panel configuration and timings.
//
// Zero timings are replaced by the values of PHAT.
type Opts struct {
	// Width and Height are the panel size in pixels. Height is the length
	// of a column and must be a multiple of 8.
	Width  int
	Height int

	// Booster is the booster soft start parameters.
	Booster [3]byte
	// Power is the power setting parameters.
	Power [5]byte
	// PanelSetting selects resolution, color mode, LUT source and scan
	// direction.
	PanelSetting byte
	// VcomDataInterval is the VCOM and data interval setting.
	VcomDataInterval byte

	// Speed is the SPI clock.
	Speed physic.Frequency
	// BusyPoll is the busy line polling interval.
	BusyPoll time.Duration
	// BusyTimeout bounds every wait on the busy line.
	BusyTimeout time.Duration
	// RefreshSettle is the delay between the refresh command and the first
	// busy poll.
	RefreshSettle time.Duration
	// PartialSettle is the delay before leaving partial mode.
	PartialSettle time.Duration
	// ResetPulse is the duration of each phase of the reset pulse.
	ResetPulse time.Duration

	// Clock is used for all delays; nil selects the real clock.
	Clock clockwork.Clock
	// Logger receives diagnostics; nil selects log.Default().
	Logger *log.Logger
}

// PHAT is the 296x128 panel of the Badger 2040 and its Raspberry Pi HAT
// counterpart.
var PHAT = Opts{
	Width:  296,
	Height: 128,

	Booster: [3]byte{0x17, 0x17, 0x17},
	Power:   [5]byte{0x03, 0x00, 0x2B, 0x2B, 0x09},
	// 128x296, black and white, booster on, no soft reset, LUT from OTP,
	// shift right, scan down.
	PanelSetting:     0b10010111,
	VcomDataInterval: 0x9C,

	Speed:         12 * physic.MegaHertz,
	BusyPoll:      2 * time.Millisecond,
	BusyTimeout:   30 * time.Second,
	RefreshSettle: 100 * time.Millisecond,
	PartialSettle: 2 * time.Millisecond,
	ResetPulse:    10 * time.Millisecond,
}

// State is the power state of the panel as tracked by the driver.
type State int

const (
	// Uninitialized is the state before the first Init.
	Uninitialized State = iota
	// Active accepts drawing and refreshes.
	Active
	// Sleeping is deep sleep; only Init leaves it.
	Sleeping
)

func (s State) String() string {
	switch s {
	case Uninitialized:
		return "Uninitialized"
	case Active:
		return "Active"
	case Sleeping:
		return "Sleeping"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// Dev is a handle to a UC8151 panel.
type Dev struct {
	c         conn.Conn
	maxTxSize int

	dc   gpio.PinOut
	cs   gpio.PinOut
	rst  gpio.PinOut
	busy gpio.PinIn

	opts  Opts
	clock clockwork.Clock
	state State

	// frame mirrors the panel memory as written through this Dev.
	frame *bitmap.Frame
}

// New returns a handle to a panel on p. cs may be nil when the SPI port
// drives chip select itself.
//
// The control lines are configured but the panel is not touched: call Init
// before drawing.
func New(p spi.Port, dc, cs, rst gpio.PinOut, busy gpio.PinIn, opts *Opts) (*Dev, error) {
	o := withDefaults(opts)
	if o.Width <= 0 || o.Height <= 0 || o.Height%8 != 0 {
		return nil, fmt.Errorf("uc8151: invalid panel size %dx%d", o.Width, o.Height)
	}
	c, err := p.Connect(o.Speed, spi.Mode0, 8)
	if err != nil {
		return nil, fmt.Errorf("uc8151: failed to connect over spi: %w", err)
	}

	// Get the maxTxSize from the conn if it implements the conn.Limits
	// interface, otherwise use 4096 bytes.
	maxTxSize := 0
	if limits, ok := c.(conn.Limits); ok {
		maxTxSize = limits.MaxTxSize()
	}
	if maxTxSize == 0 {
		maxTxSize = 4096
	}

	frame, err := bitmap.NewFrame(o.Width, o.Height)
	if err != nil {
		return nil, err
	}
	d := &Dev{
		c:         c,
		maxTxSize: maxTxSize,
		dc:        dc,
		cs:        cs,
		rst:       rst,
		busy:      busy,
		opts:      o,
		clock:     o.Clock,
		frame:     frame,
	}

	eh := errorHandler{d: d}
	eh.csOut(gpio.High)
	eh.rstOut(gpio.High)
	if eh.err == nil {
		// The busy line is active low.
		eh.err = d.busy.In(gpio.PullUp, gpio.NoEdge)
	}
	if eh.err != nil {
		return nil, fmt.Errorf("uc8151: failed to configure pins: %w", eh.err)
	}
	return d, nil
}

// NewPHAT returns a handle to a panel wired like the Inky pHAT header: DC on
// GPIO22, RESET on GPIO27, BUSY on GPIO17 and chip select on CE0.
func NewPHAT(p spi.Port, opts *Opts) (*Dev, error) {
	return New(p, rpi.P1_15, rpi.P1_24, rpi.P1_13, rpi.P1_11, opts)
}

func withDefaults(opts *Opts) Opts {
	if opts == nil {
		opts = &PHAT
	}
	o := *opts
	if o.Speed == 0 {
		o.Speed = PHAT.Speed
	}
	if o.BusyPoll <= 0 {
		o.BusyPoll = PHAT.BusyPoll
	}
	if o.BusyTimeout <= 0 {
		o.BusyTimeout = PHAT.BusyTimeout
	}
	if o.RefreshSettle <= 0 {
		o.RefreshSettle = PHAT.RefreshSettle
	}
	if o.PartialSettle <= 0 {
		o.PartialSettle = PHAT.PartialSettle
	}
	if o.ResetPulse <= 0 {
		o.ResetPulse = PHAT.ResetPulse
	}
	if o.Clock == nil {
		o.Clock = clockwork.NewRealClock()
	}
	if o.Logger == nil {
		o.Logger = log.Default()
	}
	return o
}

// String returns a string containing configuration information.
func (d *Dev) String() string {
	return fmt.Sprintf("uc8151.Dev{%s, %s, Width: %d, Height: %d, %s}", d.c, d.dc, d.opts.Width, d.opts.Height, d.state)
}

// State returns the panel state as tracked by the driver.
func (d *Dev) State() State {
	return d.state
}

// Init resets the panel, powers it on and configures it. It must be called
// before drawing and again after Sleep.
func (d *Dev) Init() error {
	eh := errorHandler{d: d}
	d.reset(&eh)
	initDisplay(&eh, &d.opts)
	if eh.err != nil {
		d.opts.Logger.Printf("uc8151: init: %v", eh.err)
		return eh.err
	}
	d.state = Active
	return nil
}

// Reset pulses the reset line. The panel needs Init afterwards.
func (d *Dev) Reset() error {
	eh := errorHandler{d: d}
	d.reset(&eh)
	if eh.err == nil {
		d.state = Uninitialized
	}
	return eh.err
}

func (d *Dev) reset(eh *errorHandler) {
	eh.rstOut(gpio.Low)
	eh.sleep(d.opts.ResetPulse)
	eh.rstOut(gpio.High)
	eh.sleep(d.opts.ResetPulse)
}

// DrawRegion writes width x height pixels to the panel memory with their
// top-left corner at (x, y). height must be a multiple of 8; the rows
// covered are rounded out to multiples of 8. The panel is not refreshed.
//
// Its signature matches render.BlitFunc.
func (d *Dev) DrawRegion(pix []byte, width, height, x, y int) error {
	if pix == nil {
		return bitmap.ErrInvalidBuffer
	}
	if err := d.checkRegion(width, height, x, y); err != nil {
		return err
	}
	n := width * height / 8
	if len(pix) < n {
		return fmt.Errorf("%w: %d bytes for %dx%d", ErrRegion, len(pix), width, height)
	}
	src, err := bitmap.Wrap(pix[:n], width, height)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrRegion, err)
	}
	if err := d.ready(); err != nil {
		return err
	}
	eh := errorHandler{d: d}
	writeRegion(&eh, &d.opts, window(x, y, width, height), src.Pix)
	if eh.err != nil {
		return eh.err
	}
	d.frame.Blit(src, x, y&^7)
	return nil
}

// FillRegion fills the rectangle from (x1, y1) included to (x2, y2) excluded
// with the byte value c, bitmap.Blank being white. The panel is not
// refreshed.
func (d *Dev) FillRegion(x1, y1, x2, y2 int, c byte) error {
	w, h := x2-x1, y2-y1
	if err := d.checkRegion(w, h, x1, y1); err != nil {
		return err
	}
	src, err := bitmap.Wrap(bytes.Repeat([]byte{c}, w*h/8), w, h)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrRegion, err)
	}
	if err := d.ready(); err != nil {
		return err
	}
	eh := errorHandler{d: d}
	writeRegion(&eh, &d.opts, window(x1, y1, w, h), src.Pix)
	if eh.err != nil {
		return eh.err
	}
	d.frame.Blit(src, x1, y1&^7)
	return nil
}

// Clear fills the whole panel memory with white. The panel is not refreshed.
func (d *Dev) Clear() error {
	if err := d.ready(); err != nil {
		return err
	}
	eh := errorHandler{d: d}
	eh.sendCommand(dataStartTransmission2, bytes.Repeat([]byte{bitmap.Blank}, bitmap.Len(d.opts.Width, d.opts.Height))...)
	if eh.err != nil {
		return eh.err
	}
	d.frame.Fill(false)
	return nil
}

// Update writes a whole frame of Width*Height/8 bytes to the panel memory.
// The panel is not refreshed.
func (d *Dev) Update(frame []byte) error {
	if n := bitmap.Len(d.opts.Width, d.opts.Height); len(frame) != n {
		return fmt.Errorf("%w: frame is %d bytes, want %d", ErrRegion, len(frame), n)
	}
	if err := d.ready(); err != nil {
		return err
	}
	eh := errorHandler{d: d}
	eh.sendCommand(dataStartTransmission2, frame...)
	if eh.err != nil {
		return eh.err
	}
	copy(d.frame.Pix, frame)
	return nil
}

// Refresh shows the panel memory and waits for the panel to be done.
func (d *Dev) Refresh() error {
	if err := d.ready(); err != nil {
		return err
	}
	eh := errorHandler{d: d}
	refresh(&eh, &d.opts)
	if eh.err != nil {
		d.opts.Logger.Printf("uc8151: refresh: %v", eh.err)
	}
	return eh.err
}

// Sleep powers the panel off and puts it into deep sleep. Init wakes it up.
func (d *Dev) Sleep() error {
	if err := d.ready(); err != nil {
		return err
	}
	eh := errorHandler{d: d}
	powerDown(&eh)
	if eh.err != nil {
		d.opts.Logger.Printf("uc8151: sleep: %v", eh.err)
		return eh.err
	}
	d.state = Sleeping
	return nil
}

func (d *Dev) ready() error {
	switch d.state {
	case Active:
		return nil
	case Sleeping:
		return ErrSleeping
	default:
		return ErrNotInitialized
	}
}

func (d *Dev) checkRegion(width, height, x, y int) error {
	if width <= 0 || height <= 0 || height%8 != 0 || x < 0 || y < 0 || x+width > d.opts.Width || y+height > d.opts.Height {
		return fmt.Errorf("%w: %dx%d at (%d, %d) on a %dx%d panel", ErrRegion, width, height, x, y, d.opts.Width, d.opts.Height)
	}
	return nil
}

// waitUntilIdle polls the active low busy line until it is released or
// BusyTimeout elapsed.
func (d *Dev) waitUntilIdle() error {
	deadline := d.clock.Now().Add(d.opts.BusyTimeout)
	for d.busy.Read() == gpio.Low {
		if !d.clock.Now().Before(deadline) {
			return fmt.Errorf("%w after %s", ErrBusyTimeout, d.opts.BusyTimeout)
		}
		d.clock.Sleep(d.opts.BusyPoll)
	}
	return nil
}
