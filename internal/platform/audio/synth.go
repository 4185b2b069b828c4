package audio

import (
	"math"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/effects"

	"github.com/vovakirdan/tui-tetris/internal/engine"
)

// Wave is an oscillator shape.
type Wave int

const (
	WaveSine Wave = iota
	WaveSquare
	WaveSaw
)

// oscillator produces a fixed-length tone.
type oscillator struct {
	freq     float64
	phase    float64
	wave     Wave
	rate     beep.SampleRate
	duration int
	position int
}

// NewOscillator creates a tone of freq Hz lasting duration.
// A zero frequency produces silence.
func NewOscillator(freq float64, duration time.Duration, wave Wave, rate beep.SampleRate) beep.Streamer {
	return &oscillator{
		freq:     freq,
		wave:     wave,
		rate:     rate,
		duration: rate.N(duration),
	}
}

func (o *oscillator) Stream(samples [][2]float64) (n int, ok bool) {
	for i := range samples {
		if o.position >= o.duration {
			return i, i > 0
		}
		v := waveAt(o.wave, o.phase)
		if o.freq == 0 {
			v = 0
		}
		samples[i][0] = v
		samples[i][1] = v

		o.phase += o.freq / float64(o.rate)
		o.phase -= math.Floor(o.phase)
		o.position++
	}
	return len(samples), true
}

func (o *oscillator) Err() error { return nil }

func waveAt(w Wave, phase float64) float64 {
	switch w {
	case WaveSquare:
		if phase < 0.5 {
			return 1
		}
		return -1
	case WaveSaw:
		return 2*phase - 1
	default:
		return math.Sin(2 * math.Pi * phase)
	}
}

// fade ramps the first and last samples of a stream of known length so
// notes do not click.
type fade struct {
	streamer beep.Streamer
	position int
	total    int
	edge     int
}

func newFade(s beep.Streamer, duration, edge time.Duration, rate beep.SampleRate) beep.Streamer {
	return &fade{streamer: s, total: rate.N(duration), edge: rate.N(edge)}
}

func (f *fade) Stream(samples [][2]float64) (n int, ok bool) {
	n, ok = f.streamer.Stream(samples)
	for i := 0; i < n; i++ {
		vol := 1.0
		if f.edge > 0 {
			if f.position < f.edge {
				vol = float64(f.position) / float64(f.edge)
			}
			if left := f.total - f.position; left < f.edge {
				vol = math.Max(float64(left)/float64(f.edge), 0)
			}
		}
		samples[i][0] *= vol
		samples[i][1] *= vol
		f.position++
	}
	return n, ok
}

func (f *fade) Err() error { return f.streamer.Err() }

// newVolume scales s linearly by vol. Zero or less is silent.
func newVolume(s beep.Streamer, vol float64) beep.Streamer {
	if vol <= 0 {
		return &effects.Volume{Streamer: s, Base: 2, Volume: 0, Silent: true}
	}
	return &effects.Volume{Streamer: s, Base: 2, Volume: math.Log2(vol)}
}

// Note is a pitch held for a number of beats. Freq 0 is a rest.
type Note struct {
	Freq  float64
	Beats float64
}

// Pitches used by the effects and the theme.
const (
	rest   = 0
	noteA2 = 110.00
	noteA3 = 220.00
	noteE4 = 329.63
	noteA4 = 440.00
	noteB4 = 493.88
	noteC5 = 523.25
	noteD5 = 587.33
	noteE5 = 659.25
	noteF5 = 698.46
	noteG5 = 783.99
	noteA5 = 880.00
	noteC6 = 1046.50
)

// theme is the Korobeiniki melody, one beat per quarter note.
var theme = []Note{
	{noteE5, 1}, {noteB4, 0.5}, {noteC5, 0.5}, {noteD5, 1}, {noteC5, 0.5}, {noteB4, 0.5},
	{noteA4, 1}, {noteA4, 0.5}, {noteC5, 0.5}, {noteE5, 1}, {noteD5, 0.5}, {noteC5, 0.5},
	{noteB4, 1.5}, {noteC5, 0.5}, {noteD5, 1}, {noteE5, 1},
	{noteC5, 1}, {noteA4, 1}, {noteA4, 1}, {rest, 1},
	{rest, 0.5}, {noteD5, 1}, {noteF5, 0.5}, {noteA5, 1}, {noteG5, 0.5}, {noteF5, 0.5},
	{noteE5, 1.5}, {noteC5, 0.5}, {noteE5, 1}, {noteD5, 0.5}, {noteC5, 0.5},
	{noteB4, 1}, {noteB4, 0.5}, {noteC5, 0.5}, {noteD5, 1}, {noteE5, 1},
	{noteC5, 1}, {noteA4, 1}, {noteA4, 1}, {rest, 1},
}

// melody plays notes in a loop forever.
type melody struct {
	notes   []Note
	beat    time.Duration
	wave    Wave
	rate    beep.SampleRate
	index   int
	current beep.Streamer
}

// NewMelody returns an endless streamer repeating notes at the given beat length.
func NewMelody(notes []Note, beat time.Duration, wave Wave, rate beep.SampleRate) beep.Streamer {
	return &melody{notes: notes, beat: beat, wave: wave, rate: rate}
}

func (m *melody) Stream(samples [][2]float64) (n int, ok bool) {
	if len(m.notes) == 0 {
		return 0, false
	}
	for n < len(samples) {
		if m.current == nil {
			note := m.notes[m.index]
			m.index = (m.index + 1) % len(m.notes)
			d := time.Duration(note.Beats * float64(m.beat))
			m.current = newFade(NewOscillator(note.Freq, d, m.wave, m.rate), d, 5*time.Millisecond, m.rate)
		}
		got, more := m.current.Stream(samples[n:])
		n += got
		if !more || got == 0 {
			m.current = nil
		}
	}
	return n, true
}

func (m *melody) Err() error { return nil }

// tones builds a sequence of equally long notes.
func tones(wave Wave, each time.Duration, rate beep.SampleRate, freqs ...float64) beep.Streamer {
	parts := make([]beep.Streamer, len(freqs))
	for i, f := range freqs {
		parts[i] = newFade(NewOscillator(f, each, wave, rate), each, 4*time.Millisecond, rate)
	}
	return beep.Seq(parts...)
}

// Effect builds the streamer for a sound effect. after, if set, runs on the
// audio goroutine once the effect has finished.
func Effect(s engine.Sound, vol float64, rate beep.SampleRate, after func()) beep.Streamer {
	var fx beep.Streamer
	switch s {
	case engine.SoundMerge:
		fx = tones(WaveSquare, 60*time.Millisecond, rate, noteA2)
	case engine.SoundRowRemoved:
		fx = tones(WaveSine, 70*time.Millisecond, rate, noteE5, noteA5)
	case engine.SoundLevelUp:
		fx = tones(WaveSquare, 110*time.Millisecond, rate, noteC5, noteE5, noteG5, noteC6)
	case engine.SoundGameOver:
		fx = tones(WaveSaw, 200*time.Millisecond, rate, noteA4, noteE4, noteA3, noteA2)
	case engine.SoundSelect:
		fx = beep.Take(rate.N(80*time.Millisecond), NewOscillator(noteC6, time.Second, WaveSine, rate))
	default:
		return nil
	}
	fx = newVolume(fx, vol)
	if after != nil {
		fx = beep.Seq(fx, beep.Callback(after))
	}
	return fx
}
