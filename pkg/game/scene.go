package game

import (
	"github.com/hajimehoshi/ebiten/v2"
)

// Scene represents a simulated scene driven by the host frame loop.
// Each scene has its own fixed-step simulation, per-frame update and rendering logic.
type Scene interface {
	// Name returns the scene identifier used by SceneManager.LoadScene.
	Name() string

	// FixedUpdate advances the simulation by one fixed step.
	// step is the current fixed-step interval in scaled seconds.
	FixedUpdate(step float64)

	// Update runs once per frame with the scaled time since the last frame.
	Update(deltaTime float64)

	// Draw renders the scene to the provided screen.
	Draw(screen *ebiten.Image)
}
