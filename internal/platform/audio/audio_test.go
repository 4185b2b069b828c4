package audio

import (
	"testing"
	"time"

	"github.com/gopxl/beep"

	"github.com/vovakirdan/tui-tetris/internal/engine"
)

const testRate = beep.SampleRate(8000)

// drain streams s to the end and returns the number of samples, giving up
// after limit samples.
func drain(t *testing.T, s beep.Streamer, limit int) (int, [][2]float64) {
	t.Helper()
	var out [][2]float64
	buf := make([][2]float64, 256)
	for len(out) < limit {
		n, ok := s.Stream(buf)
		out = append(out, buf[:n]...)
		if !ok {
			return len(out), out
		}
	}
	return len(out), out
}

func inRange(t *testing.T, samples [][2]float64) {
	t.Helper()
	for i, s := range samples {
		if s[0] < -1 || s[0] > 1 || s[1] < -1 || s[1] > 1 {
			t.Fatalf("sample %d out of range: %v", i, s)
		}
	}
}

func TestOscillatorLength(t *testing.T) {
	for _, w := range []Wave{WaveSine, WaveSquare, WaveSaw} {
		osc := NewOscillator(440, 100*time.Millisecond, w, testRate)
		n, samples := drain(t, osc, 10000)
		if n != testRate.N(100*time.Millisecond) {
			t.Errorf("wave %d streamed %d samples, expected %d", w, n, testRate.N(100*time.Millisecond))
		}
		inRange(t, samples)
		if osc.Err() != nil {
			t.Errorf("Err() = %v", osc.Err())
		}
	}
}

func TestOscillatorSquareValues(t *testing.T) {
	_, samples := drain(t, NewOscillator(220, 50*time.Millisecond, WaveSquare, testRate), 10000)
	for i, s := range samples {
		if s[0] != 1 && s[0] != -1 {
			t.Fatalf("square sample %d = %f, expected ±1", i, s[0])
		}
	}
}

func TestRestIsSilent(t *testing.T) {
	_, samples := drain(t, NewOscillator(0, 50*time.Millisecond, WaveSine, testRate), 10000)
	for i, s := range samples {
		if s[0] != 0 || s[1] != 0 {
			t.Fatalf("rest sample %d = %v, expected silence", i, s)
		}
	}
}

func TestMelodyNeverEnds(t *testing.T) {
	m := NewMelody(theme, 50*time.Millisecond, WaveSquare, testRate)

	// Several passes over the whole theme.
	limit := testRate.N(40 * time.Second)
	n, samples := drain(t, m, limit)
	if n < limit {
		t.Fatalf("melody ended after %d samples", n)
	}
	inRange(t, samples)
}

func TestEmptyMelodyEnds(t *testing.T) {
	m := NewMelody(nil, time.Second, WaveSine, testRate)
	if n, ok := m.Stream(make([][2]float64, 16)); n != 0 || ok {
		t.Errorf("Stream() = %d, %v, expected 0, false", n, ok)
	}
}

func TestEffects(t *testing.T) {
	tests := []struct {
		sound engine.Sound
		dur   time.Duration
	}{
		{engine.SoundMerge, 60 * time.Millisecond},
		{engine.SoundRowRemoved, 140 * time.Millisecond},
		{engine.SoundLevelUp, 440 * time.Millisecond},
		{engine.SoundGameOver, 800 * time.Millisecond},
		{engine.SoundSelect, 80 * time.Millisecond},
	}

	for _, tt := range tests {
		t.Run(tt.sound.String(), func(t *testing.T) {
			fx := Effect(tt.sound, 0.5, testRate, nil)
			if fx == nil {
				t.Fatal("Effect() = nil")
			}
			n, samples := drain(t, fx, testRate.N(5*time.Second))
			if want := testRate.N(tt.dur); n != want {
				t.Errorf("streamed %d samples, expected %d", n, want)
			}
			inRange(t, samples)
		})
	}
}

func TestUnknownEffect(t *testing.T) {
	if fx := Effect(engine.Sound(99), 1, testRate, nil); fx != nil {
		t.Error("Effect(99) != nil")
	}
}

func TestEffectCallbackRunsAtEnd(t *testing.T) {
	music := &beep.Ctrl{Streamer: beep.Silence(-1), Paused: true}
	fx := Effect(engine.SoundLevelUp, 0.5, testRate, func() { music.Paused = false })

	buf := make([][2]float64, testRate.N(100*time.Millisecond))
	fx.Stream(buf)
	if !music.Paused {
		t.Fatal("callback ran before the jingle finished")
	}
	drain(t, fx, testRate.N(5*time.Second))
	if music.Paused {
		t.Error("callback did not resume the music")
	}
}

func TestSilentEffectVolume(t *testing.T) {
	_, samples := drain(t, Effect(engine.SoundMerge, 0, testRate, nil), 10000)
	for i, s := range samples {
		if s[0] != 0 {
			t.Fatalf("sample %d = %f at zero volume", i, s[0])
		}
	}
}

func TestBoardWithoutSpeaker(t *testing.T) {
	b := New(0.2, 0.1, nil)

	// Nothing is initialized, every call must be a harmless no-op.
	b.PlayMusic()
	b.Play(engine.SoundLevelUp)
	b.PauseMusic()
	b.ResumeMusic()
	b.StopMusic()
	b.Close()

	if b.music != nil {
		t.Error("music started without a speaker")
	}
}
