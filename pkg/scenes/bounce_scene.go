// Package scenes 提供演示用的模拟场景
//
// 场景只在 FixedUpdate 中推进物理，因此时间缩放通过固定步长直接影响模拟速度。
package scenes

import (
	"fmt"
	"image/color"
	"sort"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/vector"

	"github.com/decker502/timescale/pkg/config"
	"github.com/decker502/timescale/pkg/game"
)

// Body 场景中的一个圆形物体
type Body struct {
	X, Y   float64 // 圆心位置（世界坐标）
	VX, VY float64 // 速度（像素/秒）
	Radius float64
	Color  color.RGBA
}

// layout 场景布局参数
type layout struct {
	gravity     float64
	restitution float64 // 碰墙后的速度保留比例
	bodies      []Body
}

var layouts = map[string]func() layout{
	"lab":   labLayout,
	"arena": arenaLayout,
}

// SceneNames 返回内置场景名称（按字母排序）
func SceneNames() []string {
	names := make([]string, 0, len(layouts))
	for name := range layouts {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// BounceScene 弹球演示场景
type BounceScene struct {
	name   string
	layout layout
	bodies []Body

	minX, minY, maxX, maxY float64

	simTime   float64 // 已模拟时间（缩放后秒数）
	frameTime float64 // 逐帧累积的缩放时间
}

// NewBounceScene 按名称创建场景，未知名称返回 nil
func NewBounceScene(name string) *BounceScene {
	build, ok := layouts[name]
	if !ok {
		return nil
	}
	l := build()
	s := &BounceScene{
		name:   name,
		layout: l,
		bodies: make([]Body, len(l.bodies)),
	}
	copy(s.bodies, l.bodies)
	s.minX, s.minY, s.maxX, s.maxY = config.GetWorldBounds()
	return s
}

// Factory 返回供 SceneManager 使用的场景工厂
func Factory() game.SceneFactory {
	return func(name string) game.Scene {
		if s := NewBounceScene(name); s != nil {
			return s
		}
		return nil
	}
}

// Name 场景名称
func (s *BounceScene) Name() string {
	return s.name
}

// FixedUpdate 以固定步长推进物理（半隐式欧拉）
func (s *BounceScene) FixedUpdate(step float64) {
	if step <= 0 {
		return
	}
	for i := range s.bodies {
		b := &s.bodies[i]
		b.VY += s.layout.gravity * step
		b.X += b.VX * step
		b.Y += b.VY * step
		s.bounce(b)
	}
	s.simTime += step
}

// Update 记录逐帧缩放时间（只用于显示）
func (s *BounceScene) Update(deltaTime float64) {
	s.frameTime += deltaTime
}

// Draw 绘制场景
func (s *BounceScene) Draw(screen *ebiten.Image) {
	vector.DrawFilledRect(
		screen,
		float32(s.minX),
		float32(s.minY),
		float32(s.maxX-s.minX),
		float32(s.maxY-s.minY),
		color.RGBA{24, 28, 36, 255},
		false,
	)
	vector.StrokeRect(
		screen,
		float32(s.minX),
		float32(s.minY),
		float32(s.maxX-s.minX),
		float32(s.maxY-s.minY),
		2,
		color.RGBA{90, 100, 120, 255},
		false,
	)

	for _, b := range s.bodies {
		vector.DrawFilledCircle(screen, float32(b.X), float32(b.Y), float32(b.Radius), b.Color, true)
	}

	ebitenutil.DebugPrintAt(screen,
		fmt.Sprintf("%s  sim %.2fs", s.name, s.simTime),
		int(s.minX)+8, int(s.maxY)-20)
}

// Bodies 返回物体快照（供非 ebiten 宿主绘制）
func (s *BounceScene) Bodies() []Body {
	out := make([]Body, len(s.bodies))
	copy(out, s.bodies)
	return out
}

// Bounds 返回世界边界
func (s *BounceScene) Bounds() (minX, minY, maxX, maxY float64) {
	return s.minX, s.minY, s.maxX, s.maxY
}

// SimTime 返回已模拟的时间
func (s *BounceScene) SimTime() float64 {
	return s.simTime
}

// FrameTime 返回逐帧累积的缩放时间
func (s *BounceScene) FrameTime() float64 {
	return s.frameTime
}

// bounce 处理与边界的碰撞
func (s *BounceScene) bounce(b *Body) {
	e := s.layout.restitution
	if b.X-b.Radius < s.minX {
		b.X = s.minX + b.Radius
		b.VX = -b.VX * e
	} else if b.X+b.Radius > s.maxX {
		b.X = s.maxX - b.Radius
		b.VX = -b.VX * e
	}
	if b.Y-b.Radius < s.minY {
		b.Y = s.minY + b.Radius
		b.VY = -b.VY * e
	} else if b.Y+b.Radius > s.maxY {
		b.Y = s.maxY - b.Radius
		b.VY = -b.VY * e
	}
}

func labLayout() layout {
	colors := []color.RGBA{
		{230, 90, 80, 255},
		{240, 180, 60, 255},
		{110, 200, 120, 255},
		{80, 160, 230, 255},
		{180, 110, 220, 255},
	}
	bodies := make([]Body, len(colors))
	for i, c := range colors {
		bodies[i] = Body{
			X:      120 + float64(i)*140,
			Y:      config.HUDHeight + 40 + float64(i)*30,
			VX:     60 - float64(i)*30,
			Radius: 18,
			Color:  c,
		}
	}
	return layout{gravity: config.WorldGravity, restitution: 0.92, bodies: bodies}
}

func arenaLayout() layout {
	bodies := make([]Body, 12)
	for i := range bodies {
		row, col := i/4, i%4
		bodies[i] = Body{
			X:      150 + float64(col)*160,
			Y:      config.HUDHeight + 80 + float64(row)*120,
			VX:     float64(90 + 25*i),
			VY:     float64(140 - 20*i),
			Radius: 10,
			Color:  color.RGBA{uint8(60 + 15*i), 200, uint8(240 - 12*i), 255},
		}
	}
	return layout{gravity: 0, restitution: 1, bodies: bodies}
}
