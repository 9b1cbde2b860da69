package processing

// RepeatSigned widens value by replicating its high bits into the low
// bits it doesn't have, rather than zero-padding: value | ((value >>
// shift) & mask). Zero-padding would under-fill the target range (a
// 16-bit maximum of 0x7FFF becomes 0x7FFF0000, not 0x7FFFFFFF);
// replication comes much closer (0x7FFF becomes 0x7FFF7FFF with shift
// 16 and mask 0xFFFF), and an all-ones pattern fills the low bits
// completely.
func RepeatSigned(value int32, shift int, mask int32) int32 {
	return value | ((value >> uint(shift)) & mask)
}

// ShiftAndRepeatSigned left-shifts value by preShift first, then applies
// RepeatSigned — used to unpack and extend a packed format in one step.
func ShiftAndRepeatSigned(preShift int, value int32, shift int, mask int32) int32 {
	value <<= uint(preShift)
	return value | ((value >> uint(shift)) & mask)
}

// TripleSigned widens value by replicating its high bits twice instead
// of once.
func TripleSigned(value int32, shift int, mask int32) int32 {
	shifted := (value >> uint(shift)) & mask
	return value | shifted | (shifted >> uint(shift))
}

// ShiftAndTripleSigned is the pre-shifted variant of TripleSigned.
func ShiftAndTripleSigned(preShift int, value int32, shift int, mask int32) int32 {
	value <<= uint(preShift)
	shifted := (value >> uint(shift)) & mask
	return value | shifted | (shifted >> uint(shift))
}

// RepeatSignedx4 is the 4-wide batched form of RepeatSigned.
func RepeatSignedx4(values [4]int32, shift int, mask int32) [4]int32 {
	var results [4]int32
	for i, v := range values {
		results[i] = RepeatSigned(v, shift, mask)
	}
	return results
}

// ShiftAndRepeatSignedx4 is the 4-wide batched form of ShiftAndRepeatSigned.
func ShiftAndRepeatSignedx4(preShift int, values [4]int32, shift int, mask int32) [4]int32 {
	var results [4]int32
	for i, v := range values {
		results[i] = ShiftAndRepeatSigned(preShift, v, shift, mask)
	}
	return results
}

// TripleSignedx4 is the 4-wide batched form of TripleSigned.
func TripleSignedx4(values [4]int32, shift int, mask int32) [4]int32 {
	var results [4]int32
	for i, v := range values {
		results[i] = TripleSigned(v, shift, mask)
	}
	return results
}

// ShiftAndTripleSignedx4 is the 4-wide batched form of ShiftAndTripleSigned.
func ShiftAndTripleSignedx4(preShift int, values [4]int32, shift int, mask int32) [4]int32 {
	var results [4]int32
	for i, v := range values {
		results[i] = ShiftAndTripleSigned(preShift, v, shift, mask)
	}
	return results
}

// RepeatWidths computes the (shift, mask) pair to pass to RepeatSigned
// or TripleSigned in order to widen a value whose validBits meaningful
// bits are already top-aligned (occupying bits [31:32-validBits], the
// rest zero or sign-extended) by repeating the top bits into the next
// block of the same width. Codec readers call this once per (native
// bit depth, target width) pair they decode, rather than recomputing
// the shift/mask arithmetic inline at each call site.
func RepeatWidths(validBits int) (shift int, mask int32) {
	if validBits <= 0 || validBits >= 32 {
		return 0, 0
	}
	maskWidth := validBits
	if remaining := 32 - validBits; remaining < maskWidth {
		maskWidth = remaining
	}
	offset := 32 - validBits - maskWidth
	return validBits, (int32(1)<<uint(maskWidth) - 1) << uint(offset)
}

// ExtendLeftAlignedBits widens value, whose validBits meaningful bits
// already occupy the top of the word ([31:32-validBits], low bits
// zero), by tiling that bit pattern down across the remaining low
// bits — the same replication RepeatSigned performs for one
// doubling, generalized to however many repeats it takes to reach 32
// bits for an arbitrary native bit depth (8, 20, 24, ...) a codec
// reader encounters. Used instead of chaining RepeatSigned/TripleSigned
// by hand whenever validBits doesn't evenly fit either primitive's
// single or double repeat.
func ExtendLeftAlignedBits(value int32, validBits int) int32 {
	if validBits <= 0 || validBits >= 32 {
		return value
	}
	result := uint32(value)
	pattern := uint32(value)
	for shift := validBits; shift < 32; shift += validBits {
		result |= pattern >> uint(shift)
	}
	return int32(result)
}
