package cbor

import "math"

// IEEE 754 binary16 layout:
//
//	1   11111   1111111111
//	^   --^--   -----^----
//	sign  |          |_______ significand
//	      |
//	      -- exponent
const (
	float16SignMask        uint16 = 0x8000
	float16ExpShift               = 10
	float16ShiftedExpMask  uint16 = 0x1f
	float16SignificandMask uint16 = 0x3ff
	float16ExpBias                = 15

	float32ExpShift = 23
	float32ExpBias  = 127
	float32QNaNMask = 0x400000

	// float32DenormalMagic is 0.5 as float32 bits. Adding a binary16
	// subnormal significand to its mantissa and subtracting 0.5 again
	// yields significand * 2^-24.
	float32DenormalMagic uint32 = 126 << float32ExpShift
)

var float32DenormalFloat = math.Float32frombits(float32DenormalMagic)

// float16BitsToFloat32 expands IEEE 754 binary16 bits to float32. Zeros
// keep their sign, subnormals are normalized, infinities are preserved and
// NaNs are quieted.
func float16BitsToFloat32(h uint16) float32 {
	s := uint32(h&float16SignMask) << 16
	e := (h >> float16ExpShift) & float16ShiftedExpMask
	m := uint32(h & float16SignificandMask)

	var outE, outM uint32
	if e == 0 {
		if m != 0 {
			o := math.Float32frombits(float32DenormalMagic+m) - float32DenormalFloat
			if s != 0 {
				return -o
			}
			return o
		}
	} else {
		outM = m << (float32ExpShift - float16ExpShift)
		if e == float16ShiftedExpMask {
			outE = 0xff
			if outM != 0 {
				outM |= float32QNaNMask
			}
		} else {
			outE = uint32(int(e) - float16ExpBias + float32ExpBias)
		}
	}
	return math.Float32frombits(s | outE<<float32ExpShift | outM)
}
