// Copyright 2024 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package uc8151

import (
	"time"

	"periph.io/x/conn/v3/gpio"
)

// errorHandler is a wrapper for error management. After the first error
// every call is a no-op.
type errorHandler struct {
	d   *Dev
	err error
}

func (eh *errorHandler) rstOut(l gpio.Level) {
	if eh.err != nil {
		return
	}
	eh.err = eh.d.rst.Out(l)
}

func (eh *errorHandler) dcOut(l gpio.Level) {
	if eh.err != nil {
		return
	}
	eh.err = eh.d.dc.Out(l)
}

func (eh *errorHandler) csOut(l gpio.Level) {
	if eh.err != nil || eh.d.cs == nil {
		return
	}
	eh.err = eh.d.cs.Out(l)
}

// cTx writes w in chunks of at most maxTxSize bytes.
func (eh *errorHandler) cTx(w []byte) {
	for len(w) > 0 && eh.err == nil {
		n := len(w)
		if n > eh.d.maxTxSize {
			n = eh.d.maxTxSize
		}
		eh.err = eh.d.c.Tx(w[:n], nil)
		w = w[n:]
	}
}

// sendCommand sends one transaction: the opcode with DC low, then the
// parameters, if any, with DC high, all within a single chip select frame.
func (eh *errorHandler) sendCommand(cmd byte, data ...byte) {
	if eh.err != nil {
		return
	}
	eh.csOut(gpio.Low)
	eh.dcOut(gpio.Low)
	eh.cTx([]byte{cmd})
	if len(data) != 0 {
		eh.dcOut(gpio.High)
		eh.cTx(data)
	}
	if eh.err != nil {
		// Release the bus even though the transaction failed.
		if eh.d.cs != nil {
			_ = eh.d.cs.Out(gpio.High)
		}
		return
	}
	eh.csOut(gpio.High)
}

func (eh *errorHandler) waitUntilIdle() {
	if eh.err != nil {
		return
	}
	eh.err = eh.d.waitUntilIdle()
}

func (eh *errorHandler) sleep(d time.Duration) {
	if eh.err != nil {
		return
	}
	eh.d.clock.Sleep(d)
}
