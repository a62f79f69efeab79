// Package motorlink implements the Unix-domain datagram links to the motor
// controller: outgoing quantized heading and stop bytes, and incoming
// turn-by-turn route bytes from the path planner.
package motorlink

// Reserved stop byte codes, sent in place of a quantized heading value.
// Both are outside the 0..127 range QuantizeHeading produces, so the
// receiver can tell a stop code from a heading unambiguously.
const (
	StopCodeIntermediate byte = 0xFF
	StopCodeFinal        byte = 0xFE
)

// QuantizeHeading maps a heading in degrees to a 7-bit integer (0..127),
// clamping to [cfg.HeadingMinDeg, cfg.HeadingMaxDeg] first (§ heading
// quantization).
func QuantizeHeading(headingDeg, minDeg, maxDeg float64) byte {
	clamped := headingDeg
	if clamped < minDeg {
		clamped = minDeg
	}
	if clamped > maxDeg {
		clamped = maxDeg
	}
	norm := (clamped - minDeg) / (maxDeg - minDeg)
	q := int(norm*127 + 0.5)
	return byte(q) & 0x7F
}
