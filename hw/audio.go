package hw

import (
	"unsafe"

	"github.com/arl/blip"
	"github.com/veandco/go-sdl2/sdl"

	"chiptor/emu/log"
)

const (
	AudioFormat     = sdl.AUDIO_S16LSB
	AudioChannels   = 2
	AudioSampleRate = 44100
	AudioBufferSize = 1024
)

// The buzzer synthesizes its square wave on a clock chosen so that both the
// output sample period (40 clocks) and the tone half-period divide it evenly.
const (
	buzzerClockRate  = 1_764_000
	buzzerFrameTicks = buzzerClockRate / 60

	// 441Hz square wave.
	buzzerHalfPeriod = 2000
	buzzerAmplitude  = 6000

	maxBuzzerSamples = 1024
)

// A Buzzer generates the single fixed-pitch tone of the sound timer. The
// band-limited synthesis buffer removes the aliasing a naive square wave
// generator would produce.
type Buzzer struct {
	buf    *blip.Buffer
	outbuf [2 * maxBuzzerSamples]int16 // interleaved stereo

	level     int16 // current wave level, 0 when silent
	untilFlip int   // clocks left before the wave flips, carried across frames
}

func NewBuzzer() *Buzzer {
	bz := &Buzzer{
		buf: blip.NewBuffer(maxBuzzerSamples),
	}
	bz.buf.SetRates(buzzerClockRate, AudioSampleRate)
	return bz
}

func (bz *Buzzer) Reset() {
	bz.buf.Clear()
	bz.level = 0
	bz.untilFlip = 0
}

// EndFrame closes the current 1/60th of a second of synthesis, with the tone
// active or not, and queues the generated samples to the audio device.
func (bz *Buzzer) EndFrame(tone bool) {
	n := bz.synth(tone)
	if audioDeviceID == 0 || n == 0 {
		return
	}

	out := bz.outbuf[:n*2]
	buf := unsafe.Slice((*byte)(unsafe.Pointer(&out[0])), len(out)*2)
	cpy := make([]byte, len(buf))
	copy(cpy, buf)

	if err := sdl.QueueAudio(audioDeviceID, cpy); err != nil {
		log.ModSound.DebugZ("failed to queue audio buffer").Error("err", err).End()
	}
}

// synth adds one frame worth of square wave deltas (or of silence) to the
// synthesis buffer and reads the resulting samples into outbuf, interleaved
// for the stereo device. It returns the number of sample pairs.
func (bz *Buzzer) synth(tone bool) int {
	if tone {
		if bz.level == 0 {
			bz.level = buzzerAmplitude
			bz.buf.AddDelta(0, int32(bz.level))
			bz.untilFlip = buzzerHalfPeriod
		}
		t := bz.untilFlip
		for ; t < buzzerFrameTicks; t += buzzerHalfPeriod {
			bz.level = -bz.level
			bz.buf.AddDelta(uint64(t), 2*int32(bz.level))
		}
		bz.untilFlip = t - buzzerFrameTicks
	} else {
		if bz.level != 0 {
			bz.buf.AddDelta(0, int32(-bz.level))
			bz.level = 0
		}
		bz.untilFlip = 0
	}

	bz.buf.EndFrame(buzzerFrameTicks)

	n := bz.buf.ReadSamples(bz.outbuf[:], maxBuzzerSamples, blip.Stereo)

	// Single voice: duplicate the left channel onto the right one.
	for i := 0; i < n*2; i += 2 {
		bz.outbuf[i+1] = bz.outbuf[i]
	}
	return n
}
