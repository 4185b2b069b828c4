// Package audio plays synthesized sound effects and the background theme
// through the system speaker.
package audio

import (
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gopxl/beep"
	"github.com/gopxl/beep/speaker"

	"github.com/vovakirdan/tui-tetris/internal/engine"
)

const (
	// SampleRate is the output rate of every stream.
	SampleRate = beep.SampleRate(44100)

	themeBeat = 300 * time.Millisecond
)

// Board implements engine.SoundBoard on top of a beep mixer. Until Init
// succeeds every method is a no-op, so a machine without audio still plays.
type Board struct {
	mu          sync.Mutex
	musicVolume float64
	fxVolume    float64
	logger      *log.Logger

	mixer       *beep.Mixer
	music       *beep.Ctrl
	initialized bool
}

var _ engine.SoundBoard = (*Board)(nil)

// New creates a sound board. Volumes are linear in [0, 1].
func New(musicVolume, effectVolume float64, logger *log.Logger) *Board {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Board{
		musicVolume: musicVolume,
		fxVolume:    effectVolume,
		logger:      logger,
		mixer:       &beep.Mixer{},
	}
}

// Init opens the speaker and starts the mixer.
func (b *Board) Init() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.initialized {
		return nil
	}
	if err := speaker.Init(SampleRate, SampleRate.N(100*time.Millisecond)); err != nil {
		return fmt.Errorf("audio: init speaker: %w", err)
	}
	// Endless silence keeps the mixer on the speaker while nothing plays.
	b.mixer.Add(beep.Silence(-1))
	speaker.Play(b.mixer)
	b.initialized = true
	b.logger.Debug("speaker ready", "rate", int(SampleRate))
	return nil
}

// Play starts a sound effect. The level up jingle resumes paused music
// when it ends.
func (b *Board) Play(s engine.Sound) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if !b.initialized {
		return
	}

	var after func()
	if s == engine.SoundLevelUp && b.music != nil {
		ctrl := b.music
		// Runs on the speaker goroutine with the speaker lock held.
		after = func() { ctrl.Paused = false }
	}
	fx := Effect(s, b.fxVolume, SampleRate, after)
	if fx == nil {
		return
	}
	speaker.Lock()
	b.mixer.Add(fx)
	speaker.Unlock()
}

// PlayMusic starts the theme from the beginning.
func (b *Board) PlayMusic() {
	b.mu.Lock()
	defer b.mu.Unlock()

	if !b.initialized {
		return
	}
	speaker.Lock()
	if b.music != nil {
		b.music.Streamer = nil
	}
	b.music = &beep.Ctrl{Streamer: newVolume(NewMelody(theme, themeBeat, WaveSquare, SampleRate), b.musicVolume)}
	b.mixer.Add(b.music)
	speaker.Unlock()
}

// PauseMusic pauses the theme.
func (b *Board) PauseMusic() {
	b.setPaused(true)
}

// ResumeMusic resumes a paused theme.
func (b *Board) ResumeMusic() {
	b.setPaused(false)
}

func (b *Board) setPaused(paused bool) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if !b.initialized || b.music == nil {
		return
	}
	speaker.Lock()
	b.music.Paused = paused
	speaker.Unlock()
}

// StopMusic stops the theme. A nil streamer makes the mixer drop it.
func (b *Board) StopMusic() {
	b.mu.Lock()
	defer b.mu.Unlock()

	if !b.initialized || b.music == nil {
		return
	}
	speaker.Lock()
	b.music.Streamer = nil
	speaker.Unlock()
	b.music = nil
}

// Close stops every sound and releases the speaker.
func (b *Board) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()

	if !b.initialized {
		return
	}
	speaker.Clear()
	speaker.Close()
	b.music = nil
	b.initialized = false
}
