package game

import (
	"encoding/binary"
	"testing"

	"github.com/decker502/dustreveal/pkg/config"
)

func TestSynthesizePop(t *testing.T) {
	pcm := SynthesizePop(48000, 520, 0.1)

	if len(pcm) != 4800*4 {
		t.Fatalf("len = %d, want %d", len(pcm), 4800*4)
	}

	// 左右声道相同
	for i := 0; i < len(pcm); i += 4 {
		l := binary.LittleEndian.Uint16(pcm[i:])
		r := binary.LittleEndian.Uint16(pcm[i+2:])
		if l != r {
			t.Fatalf("frame %d: left %d != right %d", i/4, l, r)
		}
	}

	// 尾部振幅明显小于头部
	peak := func(frames []byte) int {
		m := 0
		for i := 0; i < len(frames); i += 4 {
			v := int(int16(binary.LittleEndian.Uint16(frames[i:])))
			if v < 0 {
				v = -v
			}
			if v > m {
				m = v
			}
		}
		return m
	}
	head := peak(pcm[:400*4])
	tail := peak(pcm[len(pcm)-400*4:])
	if tail*4 > head {
		t.Errorf("tail peak %d not decayed relative to head peak %d", tail, head)
	}
}

func TestSynthesizePopInvalid(t *testing.T) {
	if pcm := SynthesizePop(0, 520, 1); pcm != nil {
		t.Errorf("expected nil for zero sample rate, got %d bytes", len(pcm))
	}
	if pcm := SynthesizePop(48000, 520, 0); pcm != nil {
		t.Errorf("expected nil for zero duration, got %d bytes", len(pcm))
	}
}

func TestAudioManagerWithoutContext(t *testing.T) {
	am := NewAudioManager(nil, config.SoundConfig{Enabled: true, Volume: 1})
	if am.PlayPop() {
		t.Error("PlayPop without audio context should be a no-op")
	}
	am.SetSoundEnabled(false)
	if am.SoundEnabled() {
		t.Error("SoundEnabled should be false after SetSoundEnabled(false)")
	}
	if am.PlayPop() {
		t.Error("PlayPop with sound disabled should be a no-op")
	}
}
