// Package processing provides the numeric sample-conversion kernels
// shared by every codec reader: rounding, quantization, reconstruction,
// and bit-pattern extension. Each family exposes a scalar entry point
// and a 4-wide batched entry point that produce bit-identical results,
// grounded on Nuclex.Audio.Native's Processing/{Rounding,Normalization,
// BitExtension}.h.
package processing

import "math"

// NearestInt32 rounds value to the nearest int32, ties away from zero —
// the same rounding mode as a hardware convert-with-rounding
// instruction on the dominant CPU family.
func NearestInt32(value float32) int32 {
	return int32(float64(value) + math.Copysign(0.5, float64(value)))
}

// NearestInt32Float64 is the float64 input variant of NearestInt32.
func NearestInt32Float64(value float64) int32 {
	return int32(value + math.Copysign(0.5, value))
}

// NearestInt32x4 is the 4-wide batched form of NearestInt32.
func NearestInt32x4(values [4]float32) [4]int32 {
	var results [4]int32
	for i, v := range values {
		results[i] = NearestInt32(v)
	}
	return results
}

// NearestInt32x4Float64 is the 4-wide batched form of NearestInt32Float64.
func NearestInt32x4Float64(values [4]float64) [4]int32 {
	var results [4]int32
	for i, v := range values {
		results[i] = NearestInt32Float64(v)
	}
	return results
}

// MultiplyToNearestInt32x4 multiplies each value by factor, then rounds
// to the nearest int32 with the same tie-breaking as NearestInt32.
func MultiplyToNearestInt32x4(values [4]float32, factor float32) [4]int32 {
	var results [4]int32
	for i, v := range values {
		results[i] = int32(float64(v*factor) + math.Copysign(0.5, float64(v)))
	}
	return results
}

// MultiplyToNearestInt32x4Float64Factor multiplies each float32 value by
// a float64 factor before rounding, preserving precision the same way
// the C++ source's double-factor overload does.
func MultiplyToNearestInt32x4Float64Factor(values [4]float32, factor float64) [4]int32 {
	var results [4]int32
	for i, v := range values {
		results[i] = int32(float64(v)*factor + math.Copysign(0.5, float64(v)))
	}
	return results
}

// MultiplyToNearestInt32x4Float64 is the all-float64 variant: float64
// values, float64 factor.
func MultiplyToNearestInt32x4Float64(values [4]float64, factor float64) [4]int32 {
	var results [4]int32
	for i, v := range values {
		results[i] = int32(v*factor + math.Copysign(0.5, v))
	}
	return results
}
