package engine_test

import (
	"image"
	"image/color"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vovakirdan/tui-tetris/internal/core"
	"github.com/vovakirdan/tui-tetris/internal/engine"
)

func TestAnimatedSpritePublishesOnWrap(t *testing.T) {
	bus := engine.NewBus(nil)
	scene := engine.NewScene("main", bus)
	var completed []*engine.AnimatedSprite
	rec := &recorder{}
	engine.Subscribe(bus, func(_ any, msg engine.AnimationCompleted) {
		rec.add("done")
		completed = append(completed, msg.Sprite)
	})

	frames := []engine.Texture{
		engine.NewTextTexture("on", core.ColorRed),
		engine.NewTextTexture("  ", core.ColorRed),
	}
	anim := engine.NewAnimatedSprite(scene, frames, 100*time.Millisecond, 0, 0)

	require.NoError(t, anim.Update(engine.Frame{Delta: 100 * time.Millisecond}))
	assert.Equal(t, 1, anim.FrameIndex())
	bus.Wait()
	assert.Empty(t, rec.snapshot())

	require.NoError(t, anim.Update(engine.Frame{Delta: 100 * time.Millisecond}))
	assert.Equal(t, 0, anim.FrameIndex())
	bus.Wait()
	assert.Equal(t, []string{"done"}, rec.snapshot())
	assert.Same(t, anim, completed[0])

	anim.Stop()
	require.NoError(t, anim.Update(engine.Frame{Delta: time.Second}))
	assert.Equal(t, 0, anim.FrameIndex())
}

func TestSpriteBoundary(t *testing.T) {
	viewport := core.NewRect(0, 0, 20, 10)

	tests := []struct {
		name string
		x, y float64
		want engine.Boundary
	}{
		{"inside", 5, 5, engine.BoundaryNone},
		{"left edge", 0, 5, engine.BoundaryLeft},
		{"bottom right corner", 18, 8, engine.BoundaryRight | engine.BoundaryBottom},
		{"past the top", 5, -3, engine.BoundaryTop},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			bus := engine.NewBus(nil)
			var got engine.Boundary
			hits := 0
			engine.Subscribe(bus, func(sender any, msg engine.BoundaryReached) {
				hits++
				got = msg.Boundary
			})

			s := engine.NewSprite(engine.NewScene("main", bus), engine.NewSolidTexture(2, 2, '#', core.ColorRed), tt.x, tt.y)
			require.NoError(t, s.Update(engine.Frame{Viewport: viewport}))
			bus.Wait()

			if tt.want == engine.BoundaryNone {
				assert.Equal(t, 0, hits)
				return
			}
			assert.Equal(t, 1, hits)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestSpriteSenderIsTheSprite(t *testing.T) {
	bus := engine.NewBus(nil)
	var sender any
	engine.Subscribe(bus, func(s any, _ engine.BoundaryReached) { sender = s })

	s := engine.NewSprite(engine.NewScene("main", bus), engine.NewSolidTexture(1, 1, '#', core.ColorRed), 0, 0)
	require.NoError(t, s.Update(engine.Frame{Viewport: core.NewRect(0, 0, 5, 5)}))
	bus.Wait()

	assert.Same(t, s, sender)
}

func TestTextValue(t *testing.T) {
	txt := engine.NewText("Level: 1", core.ColorWhite, 2, 3)
	assert.False(t, txt.Collidable())
	assert.Equal(t, 8, txt.Width())

	txt.SetValue("Level: 10")
	assert.Equal(t, "Level: 10", txt.Value())
	assert.Equal(t, 9, txt.Width())

	screen := core.NewScreen(12, 4)
	txt.Draw(engine.Frame{}, screen)
	assert.Equal(t, "  Level: 10 ", screen.Row(3))
}

func TestFpsServicePublishesSamples(t *testing.T) {
	bus := engine.NewBus(nil)
	scene := engine.NewScene("main", bus)
	var fps []float64
	engine.Subscribe(bus, func(_ any, msg engine.FpsSample) { fps = append(fps, msg.FPS) })

	svc := engine.NewFpsService(scene, time.Second)
	for i := 0; i < 30; i++ {
		require.NoError(t, svc.Update(engine.Frame{Delta: 100 * time.Millisecond}))
		bus.Wait()
	}

	assert.Equal(t, []float64{10, 10, 10}, fps)
}

func TestTextures(t *testing.T) {
	mask := engine.NewMaskTexture([]string{"#.", " #", "#"}, core.ColorRed)
	assert.Equal(t, 2, mask.Width())
	assert.Equal(t, 3, mask.Height())
	assert.Equal(t, uint8(0xff), mask.Alpha(0, 0))
	assert.Equal(t, uint8(0), mask.Alpha(0, 1))
	assert.Equal(t, uint8(0), mask.Alpha(1, 2), "short rows are padded with transparent cells")
	assert.Equal(t, uint8(0), mask.Alpha(-1, 0))

	img := image.NewNRGBA(image.Rect(10, 10, 12, 11))
	img.Set(11, 10, color.NRGBA{R: 255, A: 255})
	tex := engine.NewImageTexture(img)
	assert.Equal(t, 2, tex.Width())
	assert.Equal(t, 1, tex.Height())
	assert.Equal(t, uint8(0), tex.Alpha(0, 0))
	assert.Equal(t, uint8(0xff), tex.Alpha(1, 0))

	screen := core.NewScreen(3, 3)
	screen.FillRect(screen.Bounds(), '.', core.ColorDefault)
	engine.Blit(screen, mask, 1, 0)
	assert.Equal(t, ".#.", screen.Row(0))
	assert.Equal(t, "..#", screen.Row(1))
	assert.Equal(t, ".#.", screen.Row(2))
	assert.Equal(t, core.ColorRed, screen.GetCell(1, 0).Fg)
}
