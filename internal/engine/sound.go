package engine

// Sound names a short sound effect.
type Sound int

const (
	SoundMerge Sound = iota
	SoundRowRemoved
	SoundLevelUp
	SoundGameOver
	SoundSelect
)

func (s Sound) String() string {
	switch s {
	case SoundMerge:
		return "merge"
	case SoundRowRemoved:
		return "row-removed"
	case SoundLevelUp:
		return "level-up"
	case SoundGameOver:
		return "game-over"
	case SoundSelect:
		return "select"
	default:
		return "unknown"
	}
}

// SoundBoard plays effects and the background music. Implementations must
// never fail loudly: audio problems must not stop the game.
type SoundBoard interface {
	Play(s Sound)
	PlayMusic()
	PauseMusic()
	ResumeMusic()
	StopMusic()
}

// Silent is a SoundBoard that plays nothing.
type Silent struct{}

func (Silent) Play(Sound)   {}
func (Silent) PlayMusic()   {}
func (Silent) PauseMusic()  {}
func (Silent) ResumeMusic() {}
func (Silent) StopMusic()   {}
