package pixconv

import "math"

// IEEE 754-2008 binary16 conversion. Widening is exact; narrowing uses
// round-to-nearest-even with no clamping, so values outside the binary16
// range overflow to infinity.

// Float16Bits converts a float32 to its binary16 bit pattern.
func Float16Bits(f float32) uint16 {
	bits := math.Float32bits(f)
	sign := uint16((bits >> 16) & 0x8000)
	exp := int((bits >> 23) & 0xff)
	mant := bits & 0x7fffff

	switch exp {
	case 0xff:
		// Infinity and NaN. Preserve NaN payloads where possible.
		if mant == 0 {
			return sign | 0x7c00
		}
		mant >>= 13
		if mant == 0 {
			mant = 1
		}
		return sign | 0x7c00 | uint16(mant)
	case 0:
		if mant == 0 {
			return sign
		}
	}

	expHalf := exp - 127 + 15
	if expHalf >= 0x1f {
		return sign | 0x7c00
	}
	mant32 := mant
	if expHalf <= 0 {
		// Subnormal half.
		if expHalf < -10 {
			return sign
		}
		mant32 |= 0x800000
		shift := uint(1 - expHalf)
		// Fold the shifted-out bits into a sticky bit so exact ties are
		// still distinguished from values just above them.
		var sticky uint32
		if mant32&(1<<shift-1) != 0 {
			sticky = 1
		}
		mant32 = mant32>>shift | sticky
		mant32 += 0x0fff + (mant32>>13)&1
		return sign | uint16(mant32>>13)
	}

	mant32 += 0x0fff + (mant32>>13)&1
	if mant32&0x00800000 != 0 {
		mant32 = 0
		expHalf++
		if expHalf >= 0x1f {
			return sign | 0x7c00
		}
	}
	return sign | uint16(expHalf<<10) | uint16(mant32>>13)
}

// Float16From expands a binary16 bit pattern into a float32.
func Float16From(h uint16) float32 {
	sign := uint32(h>>15) << 31
	exp := int((h >> 10) & 0x1f)
	mant := uint32(h & 0x3ff)

	switch exp {
	case 0:
		if mant == 0 {
			return math.Float32frombits(sign)
		}
		// Subnormal: renormalize.
		exp = -14
		for mant&0x400 == 0 {
			mant <<= 1
			exp--
		}
		mant &= 0x3ff
		return math.Float32frombits(sign | uint32(exp+127)<<23 | mant<<13)
	case 0x1f:
		bits := sign | 0x7f800000 | mant<<13
		if mant != 0 {
			bits |= 1
		}
		return math.Float32frombits(bits)
	}

	return math.Float32frombits(sign | uint32(exp-15+127)<<23 | mant<<13)
}
