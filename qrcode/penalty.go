// Copyright 2024 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package qrcode

// Penalty weights of ISO/IEC 18004 section 7.8.3.
const (
	penaltyN1 = 3
	penaltyN2 = 3
	penaltyN3 = 40
	penaltyN4 = 10
)

// Penalty returns the mask evaluation score of g. Lower is better.
func Penalty(g *Grid) int {
	n := g.Size()
	score := 0

	// Runs of five or more same colored modules, and finder-like patterns.
	for i := 0; i < n; i++ {
		score += linePenalty(n, func(j int) bool { return g.Module(j, i) })
		score += linePenalty(n, func(j int) bool { return g.Module(i, j) })
	}

	// 2x2 blocks of one color.
	for y := 0; y < n-1; y++ {
		for x := 0; x < n-1; x++ {
			c := g.Module(x, y)
			if c == g.Module(x+1, y) && c == g.Module(x, y+1) && c == g.Module(x+1, y+1) {
				score += penaltyN2
			}
		}
	}

	// Balance of dark modules, in 5% steps away from 50%.
	dark := 0
	for y := 0; y < n; y++ {
		for x := 0; x < n; x++ {
			if g.Module(x, y) {
				dark++
			}
		}
	}
	total := n * n
	diff := dark*20 - total*10
	if diff < 0 {
		diff = -diff
	}
	k := (diff+total-1)/total - 1
	if k > 0 {
		score += k * penaltyN4
	}
	return score
}

var (
	finderLeft  = [11]bool{true, false, true, true, true, false, true, false, false, false, false}
	finderRight = [11]bool{false, false, false, false, true, false, true, true, true, false, true}
)

// linePenalty scores one row or column of n modules. Modules outside the
// symbol count as light.
func linePenalty(n int, at func(int) bool) int {
	score := 0
	run := 1
	for j := 1; j <= n; j++ {
		if j < n && at(j) == at(j-1) {
			run++
			continue
		}
		if run >= 5 {
			score += penaltyN1 + run - 5
		}
		run = 1
	}
	get := func(j int) bool {
		if j < 0 || j >= n {
			return false
		}
		return at(j)
	}
	for j := -4; j+11 <= n+4; j++ {
		l, r := true, true
		for k := 0; k < 11; k++ {
			v := get(j + k)
			l = l && v == finderLeft[k]
			r = r && v == finderRight[k]
		}
		if l {
			score += penaltyN3
		}
		if r {
			score += penaltyN3
		}
	}
	return score
}
