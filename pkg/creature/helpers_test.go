package creature

import (
	"image"
	"math"
	"os"
	"testing"

	"github.com/decker502/creatures/pkg/config"
	"github.com/decker502/creatures/pkg/types"
)

const testConfigPath = "../../data/creatures.yaml"

// loadProfile 从仓库配置加载指定生物的 Profile
func loadProfile(t *testing.T, key string) *Profile {
	t.Helper()
	data, err := os.ReadFile(testConfigPath)
	if err != nil {
		t.Fatalf("Failed to read %s: %v", testConfigPath, err)
	}
	cfg, err := config.ParseCreatureConfig(data)
	if err != nil {
		t.Fatalf("Failed to parse creature config: %v", err)
	}
	def, err := cfg.GetCreature(key)
	if err != nil {
		t.Fatalf("GetCreature(%q): %v", key, err)
	}
	p, err := NewProfile(key, *def)
	if err != nil {
		t.Fatalf("NewProfile(%q): %v", key, err)
	}
	return p
}

// newTestCreature 在配置的出生点创建生物，不带任何帧
func newTestCreature(t *testing.T, key string, audio types.AudioSink) *Creature {
	t.Helper()
	p := loadProfile(t, key)
	return New(p, p.Spawn, nil, audio)
}

// fakeInput 可编程的输入源
type fakeInput struct {
	held    map[types.Control]bool
	pressed map[types.Control]bool
}

func newFakeInput() *fakeInput {
	return &fakeInput{
		held:    make(map[types.Control]bool),
		pressed: make(map[types.Control]bool),
	}
}

func (f *fakeInput) IsHeld(c types.Control) bool     { return f.held[c] }
func (f *fakeInput) WasPressed(c types.Control) bool { return f.pressed[c] }

// press 模拟本帧按下（边沿触发）
func (f *fakeInput) press(c types.Control) *fakeInput {
	f.pressed[c] = true
	return f
}

func (f *fakeInput) hold(c types.Control) *fakeInput {
	f.held[c] = true
	return f
}

// recordingAudio 记录所有音效请求
type recordingAudio struct {
	calls    []string
	released []string
}

func (a *recordingAudio) Play(id string) { a.calls = append(a.calls, "play "+id) }
func (a *recordingAudio) Stop(id string) { a.calls = append(a.calls, "stop "+id) }
func (a *recordingAudio) SetPitch(id string, factor float64) {
	a.calls = append(a.calls, "pitch "+id)
}
func (a *recordingAudio) Release(id string) { a.released = append(a.released, id) }

func (a *recordingAudio) count(call string) int {
	n := 0
	for _, c := range a.calls {
		if c == call {
			n++
		}
	}
	return n
}

// drawCall 一次绘制请求
type drawCall struct {
	img  types.Image
	src  image.Rectangle
	dst  types.Rect
	flip bool
}

type recordingRenderer struct {
	draws []drawCall
}

func (r *recordingRenderer) DrawFrame(img types.Image, src image.Rectangle, dst types.Rect, flip bool) {
	r.draws = append(r.draws, drawCall{img: img, src: src, dst: dst, flip: flip})
}

// fakeImage 只有尺寸的图像，记录释放次数
type fakeImage struct {
	w, h        int
	deallocated int
}

func (f *fakeImage) Bounds() image.Rectangle { return image.Rect(0, 0, f.w, f.h) }
func (f *fakeImage) Deallocate()             { f.deallocated++ }

// tick 按游戏循环顺序执行一个逻辑帧
func tick(c *Creature, in types.Input, dt float64) {
	c.Move(in)
	c.UpdateAnimation(dt)
	c.ApplyVelocity(dt)
}

func approx(a, b float64) bool {
	return math.Abs(a-b) < 1e-6
}
