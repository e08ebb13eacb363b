package scenes

import (
	"math"
	"testing"
)

// TestNewBounceScene 测试内置场景创建
func TestNewBounceScene(t *testing.T) {
	for _, name := range SceneNames() {
		s := NewBounceScene(name)
		if s == nil {
			t.Fatalf("NewBounceScene(%q) returned nil", name)
		}
		if s.Name() != name {
			t.Errorf("Name: got %q, want %q", s.Name(), name)
		}
		if len(s.Bodies()) == 0 {
			t.Errorf("%s: no bodies", name)
		}
	}

	if NewBounceScene("void") != nil {
		t.Error("NewBounceScene(void) should return nil")
	}
	if Factory()("void") != nil {
		t.Error("Factory()(void) should return a nil Scene interface")
	}
}

// TestBounceSceneStaysInBounds 长时间模拟后物体仍在边界内
func TestBounceSceneStaysInBounds(t *testing.T) {
	for _, name := range SceneNames() {
		t.Run(name, func(t *testing.T) {
			s := NewBounceScene(name)
			minX, minY, maxX, maxY := s.Bounds()
			for i := 0; i < 5000; i++ {
				s.FixedUpdate(0.02)
			}
			for i, b := range s.Bodies() {
				if b.X-b.Radius < minX-1e-9 || b.X+b.Radius > maxX+1e-9 ||
					b.Y-b.Radius < minY-1e-9 || b.Y+b.Radius > maxY+1e-9 {
					t.Errorf("body %d out of bounds: (%v, %v)", i, b.X, b.Y)
				}
			}
			if math.Abs(s.SimTime()-100) > 1e-6 {
				t.Errorf("SimTime: got %v, want 100", s.SimTime())
			}
		})
	}
}

// TestBounceSceneZeroStep 步长为 0（暂停）时物体不动
func TestBounceSceneZeroStep(t *testing.T) {
	s := NewBounceScene("lab")
	before := s.Bodies()
	for i := 0; i < 10; i++ {
		s.FixedUpdate(0)
	}
	after := s.Bodies()
	for i := range before {
		if before[i] != after[i] {
			t.Errorf("body %d moved while paused", i)
		}
	}
	if s.SimTime() != 0 {
		t.Errorf("SimTime: got %v, want 0", s.SimTime())
	}
}

// TestBounceSceneStepScaling 两倍步长的一步与两个单步在无碰撞时位置相同
func TestBounceSceneStepScaling(t *testing.T) {
	a := NewBounceScene("arena")
	b := NewBounceScene("arena")

	a.FixedUpdate(0.01)
	a.FixedUpdate(0.01)
	b.FixedUpdate(0.02)

	ba, bb := a.Bodies(), b.Bodies()
	for i := range ba {
		if math.Abs(ba[i].X-bb[i].X) > 1e-9 || math.Abs(ba[i].Y-bb[i].Y) > 1e-9 {
			t.Errorf("body %d: two half steps (%v,%v) != one full step (%v,%v)",
				i, ba[i].X, ba[i].Y, bb[i].X, bb[i].Y)
		}
	}
}

// TestBounceSceneUpdate 逐帧时间只用于显示，不推进物理
func TestBounceSceneUpdate(t *testing.T) {
	s := NewBounceScene("lab")
	before := s.Bodies()
	s.Update(0.5)
	s.Update(0.25)
	if s.FrameTime() != 0.75 {
		t.Errorf("FrameTime: got %v, want 0.75", s.FrameTime())
	}
	if s.Bodies()[0] != before[0] {
		t.Error("Update should not move bodies")
	}
}

// TestSceneNames 场景名与布局表一致且有序
func TestSceneNames(t *testing.T) {
	names := SceneNames()
	if len(names) != len(layouts) {
		t.Fatalf("SceneNames: got %v, want %d names", names, len(layouts))
	}
	if names[0] != "arena" || names[1] != "lab" {
		t.Errorf("SceneNames: got %v, want [arena lab]", names)
	}
}
