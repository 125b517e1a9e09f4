// Copyright 2024 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package uc8151

import "time"

type controller interface {
	sendCommand(cmd byte, data ...byte)
	waitUntilIdle()
	sleep(time.Duration)
}

func initDisplay(ctrl controller, opts *Opts) {
	ctrl.sendCommand(boosterSoftStart, opts.Booster[:]...)
	ctrl.sendCommand(powerSetting, opts.Power[:]...)
	ctrl.sendCommand(powerOn)
	ctrl.waitUntilIdle()

	ctrl.sendCommand(panelSetting, opts.PanelSetting)
	ctrl.sendCommand(tconSetting, 0x22)
	ctrl.sendCommand(vcomAndDataIntervalSetting, opts.VcomDataInterval)
	ctrl.sendCommand(tconSetting, 0x01)
}

// window returns the partial window parameters for width x height pixels at
// (x, y): the first and last row, rounded out to whole bytes, then the first
// and last column as 9 bit values split over two bytes each.
func window(x, y, width, height int) []byte {
	xEnd := x + width - 1
	return []byte{
		byte(y &^ 7),
		byte((y + height - 1) | 7),
		byte(x >> 8),
		byte(x),
		byte(xEnd >> 8),
		byte(xEnd),
		scanInOut,
	}
}

func writeRegion(ctrl controller, opts *Opts, win, data []byte) {
	ctrl.sendCommand(partialIn)
	ctrl.sendCommand(partialWindow, win...)
	ctrl.sendCommand(dataStartTransmission2, data...)
	ctrl.sleep(opts.PartialSettle)
	ctrl.sendCommand(partialOut)
}

func refresh(ctrl controller, opts *Opts) {
	ctrl.sendCommand(displayRefresh)
	ctrl.sleep(opts.RefreshSettle)
	ctrl.waitUntilIdle()
}

func powerDown(ctrl controller) {
	ctrl.sendCommand(powerOff)
	ctrl.waitUntilIdle()
	ctrl.sendCommand(deepSleep, deepSleepCheck)
}
