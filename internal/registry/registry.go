// Package registry provides a global registry for scene factories.
// Scenes register themselves in init() functions, allowing the platform
// to build the scene graph without hardcoded dependencies.
package registry

import (
	"fmt"
	"io"
	"sort"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/vovakirdan/tui-tetris/internal/config"
	"github.com/vovakirdan/tui-tetris/internal/core"
	"github.com/vovakirdan/tui-tetris/internal/engine"
)

// Deps are the shared collaborators handed to every scene factory.
type Deps struct {
	Bus        *engine.Bus
	Logger     *log.Logger
	Sounds     engine.SoundBoard
	Runtime    core.RuntimeConfig
	Config     config.TetrisConfig
	BlocksPath string // Custom blocks file, empty for the search order
}

// withDefaults fills nil collaborators with inert ones.
func (d Deps) withDefaults() Deps {
	if d.Sounds == nil {
		d.Sounds = engine.Silent{}
	}
	if d.Logger == nil {
		d.Logger = log.New(io.Discard)
	}
	return d
}

// SceneInfo contains metadata about a registered scene.
type SceneInfo struct {
	Name  string
	Title string
	Entry bool // Entered first when the host starts
}

// Factory creates a new instance of a scene.
type Factory func(d Deps) engine.Stage

type entry struct {
	info    SceneInfo
	factory Factory
}

var (
	scenes = make(map[string]entry)
	mu     sync.RWMutex
)

// Register adds a scene factory to the registry.
// Typically called from a scene's init() function.
// Panics if a scene with the same name is already registered.
func Register(info SceneInfo, f Factory) {
	mu.Lock()
	defer mu.Unlock()

	if _, exists := scenes[info.Name]; exists {
		panic(fmt.Sprintf("registry: scene %q already registered", info.Name))
	}
	scenes[info.Name] = entry{info: info, factory: f}
}

// List returns information about all registered scenes, sorted by name.
func List() []SceneInfo {
	mu.RLock()
	defer mu.RUnlock()

	result := make([]SceneInfo, 0, len(scenes))
	for _, e := range scenes {
		result = append(result, e.info)
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].Name < result[j].Name
	})

	return result
}

// Create instantiates a new scene by its name.
// Returns an error wrapping engine.ErrUnknownScene if the name is not registered.
func Create(name string, d Deps) (engine.Stage, error) {
	mu.RLock()
	e, ok := scenes[name]
	mu.RUnlock()

	if !ok {
		return nil, fmt.Errorf("registry: %w: %q", engine.ErrUnknownScene, name)
	}
	return e.factory(d.withDefaults()), nil
}

// Exists checks if a scene with the given name is registered.
func Exists(name string) bool {
	mu.RLock()
	defer mu.RUnlock()

	_, ok := scenes[name]
	return ok
}

// Populate creates every registered scene and adds it to host.
func Populate(host *engine.Host, d Deps) error {
	for _, info := range List() {
		st, err := Create(info.Name, d)
		if err != nil {
			return err
		}
		if err := host.Add(st, info.Entry); err != nil {
			return fmt.Errorf("registry: %w", err)
		}
	}
	return nil
}
