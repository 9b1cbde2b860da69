package processing

// DivideInt32ToFloat32 reconstructs a float sample from a signed 32-bit
// integer by dividing through the supplied quotient, usually
// QuantizeFactor(bits) for the bit width the integer was quantized at.
func DivideInt32ToFloat32(value int32, quotient float32) float32 {
	return float32(value) / quotient
}

// DivideInt32ToFloat64 is the float64-quotient variant.
func DivideInt32ToFloat64(value int32, quotient float64) float64 {
	return float64(value) / quotient
}

// DivideInt32ToFloat32x4 is the 4-wide batched form of DivideInt32ToFloat32.
func DivideInt32ToFloat32x4(values [4]int32, quotient float32) [4]float32 {
	var results [4]float32
	for i, v := range values {
		results[i] = DivideInt32ToFloat32(v, quotient)
	}
	return results
}

// DivideInt32ToFloat32x4WithFloat64Quotient divides float32-precision
// results through a float64 quotient internally, matching the source's
// mixed-precision overload.
func DivideInt32ToFloat32x4WithFloat64Quotient(values [4]int32, quotient float64) [4]float32 {
	var results [4]float32
	for i, v := range values {
		results[i] = float32(float64(v) / quotient)
	}
	return results
}

// DivideInt32ToFloat64x4 is the all-float64 4-wide batched variant.
func DivideInt32ToFloat64x4(values [4]int32, quotient float64) [4]float64 {
	var results [4]float64
	for i, v := range values {
		results[i] = DivideInt32ToFloat64(v, quotient)
	}
	return results
}

// ShiftAndDivideInt32ToFloat32x4 right-shifts each packed value before
// dividing, for formats where the valid bits occupy the high bits of a
// 32-bit word.
func ShiftAndDivideInt32ToFloat32x4(values [4]int32, shift int, quotient float32) [4]float32 {
	var results [4]float32
	for i, v := range values {
		results[i] = float32(v>>uint(shift)) / quotient
	}
	return results
}

// ShiftAndDivideInt32ToFloat32x4WithFloat64Quotient is the mixed
// precision shift-then-divide variant.
func ShiftAndDivideInt32ToFloat32x4WithFloat64Quotient(values [4]int32, shift int, quotient float64) [4]float32 {
	var results [4]float32
	for i, v := range values {
		results[i] = float32(float64(v>>uint(shift)) / quotient)
	}
	return results
}

// ShiftAndDivideInt32ToFloat64x4 is the all-float64 shift-then-divide variant.
func ShiftAndDivideInt32ToFloat64x4(values [4]int32, shift int, quotient float64) [4]float64 {
	var results [4]float64
	for i, v := range values {
		results[i] = float64(v>>uint(shift)) / quotient
	}
	return results
}
