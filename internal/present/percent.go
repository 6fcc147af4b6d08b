// Package present turns scored teams into brand-facing output: percent
// match labels, price estimates, and generated analysis and campaigns.
package present

import "math"

// PercentMatch maps a raw similarity score onto a 0-100 display scale.
// Raw scores land roughly in [-1, 1]; anything outside clamps.
func PercentMatch(score float64) int {
	pct := (score + 1) / 2 * 100
	pct = math.Round(pct)
	if pct < 0 {
		return 0
	}
	if pct > 100 {
		return 100
	}
	return int(pct)
}
