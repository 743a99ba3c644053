package hw

import "testing"

const samplesPerFrame = AudioSampleRate / 60

func TestBuzzerSilence(t *testing.T) {
	bz := NewBuzzer()

	n := bz.synth(false)
	if n != samplesPerFrame {
		t.Fatalf("synth returned %d samples, want %d", n, samplesPerFrame)
	}
	for i := range n * 2 {
		if bz.outbuf[i] != 0 {
			t.Fatalf("sample %d = %d, want silence", i, bz.outbuf[i])
		}
	}
}

func TestBuzzerTone(t *testing.T) {
	bz := NewBuzzer()

	n := bz.synth(true)
	if n != samplesPerFrame {
		t.Fatalf("synth returned %d samples, want %d", n, samplesPerFrame)
	}

	// Left and right channels carry the same voice.
	for i := 0; i < n*2; i += 2 {
		if bz.outbuf[i] != bz.outbuf[i+1] {
			t.Fatalf("sample pair %d: left %d right %d", i/2, bz.outbuf[i], bz.outbuf[i+1])
		}
	}

	// The wave must reach a sizeable amplitude.
	peak := int16(0)
	for i := 0; i < n*2; i += 2 {
		if s := bz.outbuf[i]; s > peak {
			peak = s
		}
	}
	if peak < buzzerAmplitude/2 {
		t.Errorf("peak amplitude %d, want at least %d", peak, buzzerAmplitude/2)
	}

	// Count the wave alternations to check the pitch. A 441Hz square flips
	// levels about 14.7 times per frame.
	flips, level := 0, 0
	for i := 0; i < n*2; i += 2 {
		s := bz.outbuf[i]
		switch {
		case s > buzzerAmplitude/3 && level <= 0:
			level = 1
			flips++
		case s < -buzzerAmplitude/3 && level >= 0:
			level = -1
			flips++
		}
	}
	if flips < 12 || flips > 18 {
		t.Errorf("wave flipped %d times in one frame, want around 15", flips)
	}
}

func TestBuzzerToneOffDecaysToSilence(t *testing.T) {
	bz := NewBuzzer()

	bz.synth(true)
	bz.synth(true)

	var last int16
	for range 3 {
		n := bz.synth(false)
		last = 0
		for i := 0; i < n*2; i += 2 {
			if s := bz.outbuf[i]; s > last || -s > last {
				last = max(s, -s)
			}
		}
	}
	if last > 100 {
		t.Errorf("still %d of residual amplitude after 3 silent frames", last)
	}
}

func TestBuzzerReset(t *testing.T) {
	bz := NewBuzzer()
	bz.synth(true)
	bz.Reset()

	n := bz.synth(false)
	for i := range n * 2 {
		if bz.outbuf[i] != 0 {
			t.Fatalf("sample %d = %d after reset, want silence", i, bz.outbuf[i])
		}
	}
}
