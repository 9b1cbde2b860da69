package processing

import "testing"

func TestRepeatSigned(t *testing.T) {
	got := RepeatSigned(0x12300000, 12, 0x000FFF00)
	if got != 0x12312300 {
		t.Fatalf("got %#08x, want 0x12312300", uint32(got))
	}
}

func TestRepeatSignedNegative(t *testing.T) {
	got := RepeatSigned(s32(0x84200000), 12, 0x000FFF00)
	want := s32(0x84284200)
	if got != want {
		t.Fatalf("got %#08x, want %#08x", uint32(got), uint32(want))
	}
}

func TestTripleSigned(t *testing.T) {
	got := TripleSigned(0x12300000, 12, 0x000FFF00)
	if got != 0x12312312 {
		t.Fatalf("got %#08x, want 0x12312312", uint32(got))
	}
}

func TestTripleSignedNegative(t *testing.T) {
	got := TripleSigned(s32(0x84200000), 12, 0x000FFF00)
	want := s32(0x84284284)
	if got != want {
		t.Fatalf("got %#08x, want %#08x", uint32(got), uint32(want))
	}
}

func TestRepeatSignedx4(t *testing.T) {
	input := [4]int32{0x12300000, 0x23400000, 0x34500000, 0x45600000}
	want := [4]int32{0x12312300, 0x23423400, 0x34534500, 0x45645600}
	got := RepeatSignedx4(input, 12, 0x000FFF00)
	if got != want {
		t.Fatalf("got %#08x, want %#08x", got, want)
	}
}

func TestTripleSignedx4(t *testing.T) {
	input := [4]int32{0x12300000, 0x23400000, 0x34500000, 0x45600000}
	want := [4]int32{0x12312312, 0x23423423, 0x34534534, 0x45645645}
	got := TripleSignedx4(input, 12, 0x000FFF00)
	if got != want {
		t.Fatalf("got %#08x, want %#08x", got, want)
	}
}

// Sign-bit preservation: widening must never flip the sign of the
// original value (spec.md §8 invariant).
func TestRepeatSignedPreservesSign(t *testing.T) {
	positive := RepeatSigned(0x7F000000, 8, 0x00FFFF00)
	if positive < 0 {
		t.Fatalf("positive input produced negative result: %#08x", uint32(positive))
	}
	negative := RepeatSigned(s32(0x80000000), 8, 0x00FFFF00)
	if negative >= 0 {
		t.Fatalf("negative input produced non-negative result: %#08x", uint32(negative))
	}
}

// All-ones bit patterns repeat to an all-ones result: the one case
// where replication genuinely "fills completely" rather than merely
// approximating it, since every repeated copy is itself all ones.
func TestRepeatSignedAllOnesFillsCompletely(t *testing.T) {
	shift, mask := RepeatWidths(16)
	got := RepeatSigned(int32(-1)&^0x0000FFFF, shift, mask)
	if got != -1 {
		t.Fatalf("got %#08x, want 0xFFFFFFFF", uint32(got))
	}
}

func TestExtendLeftAlignedBitsFillsCompletely(t *testing.T) {
	// 8 meaningful bits at the top (0x7F000000) tiled down should
	// produce 0x7F7F7F7F, not the single-repeat 0x7F7F0000 RepeatSigned
	// alone would leave.
	got := ExtendLeftAlignedBits(0x7F000000, 8)
	if got != 0x7F7F7F7F {
		t.Fatalf("got %#08x, want 0x7f7f7f7f", uint32(got))
	}
}

func TestExtendLeftAlignedBitsSixteenBitMatchesRepeatSigned(t *testing.T) {
	// For a validBits that evenly halves 32, tiling and a single
	// RepeatSigned application must agree.
	shift, mask := RepeatWidths(16)
	viaRepeat := RepeatSigned(0x12340000, shift, mask)
	viaExtend := ExtendLeftAlignedBits(0x12340000, 16)
	if viaRepeat != viaExtend {
		t.Fatalf("RepeatSigned = %#08x, ExtendLeftAlignedBits = %#08x", uint32(viaRepeat), uint32(viaExtend))
	}
}

func TestRepeatWidths(t *testing.T) {
	shift, mask := RepeatWidths(12)
	if shift != 12 || mask != 0x000FFF00 {
		t.Fatalf("got shift=%d mask=%#08x, want shift=12 mask=0x000fff00", shift, uint32(mask))
	}
}

// s32 reinterprets a 32-bit pattern as int32, so negative test values
// can be written in hex.
func s32(bits uint32) int32 { return int32(bits) }
