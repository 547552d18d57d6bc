package game

import (
	"testing"

	"github.com/hajimehoshi/ebiten/v2"
)

type countingScene struct {
	name    string
	updates int
	elapsed float64
}

func (s *countingScene) Update(deltaTime float64) {
	s.updates++
	s.elapsed += deltaTime
}

func (s *countingScene) Draw(*ebiten.Image) {}
func (s *countingScene) Name() string       { return s.name }

// TestSceneManager_SwitchTo 测试只有当前场景会被更新
func TestSceneManager_SwitchTo(t *testing.T) {
	sm := NewSceneManager()
	if sm.GetCurrentScene() != nil {
		t.Fatal("new manager should have no scene")
	}
	sm.Update(0.1)

	start := &countingScene{name: "start"}
	arena := &countingScene{name: "arena"}

	sm.SwitchTo(start)
	sm.Update(0.1)
	sm.SwitchTo(arena)
	sm.Update(0.25)
	sm.Update(0.25)

	if sm.GetCurrentScene() != arena {
		t.Error("current scene should be arena")
	}
	if start.updates != 1 {
		t.Errorf("start updates: got %d, want 1", start.updates)
	}
	if arena.updates != 2 || arena.elapsed != 0.5 {
		t.Errorf("arena: got %d updates / %.2fs, want 2 / 0.50s", arena.updates, arena.elapsed)
	}
}

func TestSceneName(t *testing.T) {
	if got := sceneName(&countingScene{name: "arena"}); got != "arena" {
		t.Errorf("sceneName: got %q, want arena", got)
	}
	if got := sceneName(nil); got != "<nil>" {
		t.Errorf("sceneName(nil): got %q", got)
	}
}
