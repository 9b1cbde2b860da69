package channel

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestLayoutForCodecChannelCountVorbisTable(t *testing.T) {
	cases := []struct {
		channelCount int
		want         []Placement
	}{
		{1, []Placement{FrontCenter}},
		{2, []Placement{FrontLeft, FrontRight}},
		{6, []Placement{FrontLeft, FrontCenter, FrontRight, BackLeft, BackRight, LowFrequency}},
	}
	for _, c := range cases {
		got, ok := LayoutForCodecChannelCount(FamilyVorbis, c.channelCount)
		if !ok {
			t.Fatalf("channelCount=%d: expected a prescribed order", c.channelCount)
		}
		if diff := cmp.Diff(c.want, got); diff != "" {
			t.Errorf("channelCount=%d: layout mismatch (-want +got):\n%s", c.channelCount, diff)
		}
	}
}

func TestLayoutForCodecChannelCountUnprescribed(t *testing.T) {
	if _, ok := LayoutForCodecChannelCount(FamilyVorbis, 9); ok {
		t.Fatal("expected no prescribed order for 9 channels")
	}
}

func TestGuessWaveformLayoutKnownCounts(t *testing.T) {
	want := []Placement{FrontLeft, FrontRight, FrontCenter, LowFrequency, BackLeft, BackRight}
	got := GuessWaveformLayout(6)
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("6-channel guess mismatch (-want +got):\n%s", diff)
	}
}

func TestGuessWaveformLayoutUnknownCountFillsUnknown(t *testing.T) {
	got := GuessWaveformLayout(7)
	want := []Placement{Unknown, Unknown, Unknown, Unknown, Unknown, Unknown, Unknown}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("7-channel guess mismatch (-want +got):\n%s", diff)
	}
}

func TestLayoutFromMaskMatchesStereo(t *testing.T) {
	got := LayoutFromMask(Stereo, 2)
	want := []Placement{FrontLeft, FrontRight}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("stereo mask layout mismatch (-want +got):\n%s", diff)
	}
}
