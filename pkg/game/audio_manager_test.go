package game

import (
	"path/filepath"
	"testing"
)

func newTestAudioManager(t *testing.T) (*AudioManager, string) {
	t.Helper()

	path := filepath.Join(t.TempDir(), "walk.wav")
	createTestWAV(t, path, 44100, 441)

	am := NewAudioManager(NewResourceManager(nil), nil)
	if err := am.LoadSound("demon.walk", path); err != nil {
		t.Fatalf("LoadSound failed: %v", err)
	}
	return am, path
}

// TestAudioManager_LoadAndRelease 测试注册与释放音效
func TestAudioManager_LoadAndRelease(t *testing.T) {
	am, _ := newTestAudioManager(t)

	if !am.HasSound("demon.walk") {
		t.Fatal("sound should be registered after LoadSound")
	}
	if got := am.Pitch("demon.walk"); got != 1 {
		t.Errorf("initial pitch: got %v, want 1", got)
	}

	am.Release("demon.walk")
	if am.HasSound("demon.walk") {
		t.Error("sound should be gone after Release")
	}
	am.Release("demon.walk")
}

// TestAudioManager_LoadSoundMissingFile 测试加载不存在的音频文件
func TestAudioManager_LoadSoundMissingFile(t *testing.T) {
	am := NewAudioManager(NewResourceManager(nil), nil)

	if err := am.LoadSound("goblin.hurt", filepath.Join(t.TempDir(), "missing.wav")); err == nil {
		t.Error("expected error for missing file")
	}
	if am.HasSound("goblin.hurt") {
		t.Error("failed sound should not be registered")
	}
}

// TestAudioManager_UnknownSoundIgnored 测试未注册音效的请求被忽略且只报告一次
func TestAudioManager_UnknownSoundIgnored(t *testing.T) {
	am := NewAudioManager(NewResourceManager(nil), nil)

	am.Play("werewolf.run")
	am.Stop("werewolf.run")
	am.SetPitch("werewolf.run", 2)
	am.SetLooping("werewolf.run", true)

	if !am.warned["werewolf.run"] {
		t.Error("missing sound should be recorded as warned")
	}
	if len(am.warned) != 1 {
		t.Errorf("warned ids: got %d, want 1", len(am.warned))
	}
	if am.IsPlaying("werewolf.run") {
		t.Error("unknown sound cannot be playing")
	}
}

// TestAudioManager_SilentWithoutContext 测试无音频上下文时播放请求不生效
func TestAudioManager_SilentWithoutContext(t *testing.T) {
	am, _ := newTestAudioManager(t)

	am.Play("demon.walk")
	if am.IsPlaying("demon.walk") {
		t.Error("nothing should play without an audio context")
	}
	am.Stop("demon.walk")
}

// TestAudioManager_SetPitch 测试音调设置
func TestAudioManager_SetPitch(t *testing.T) {
	am, _ := newTestAudioManager(t)

	am.SetPitch("demon.walk", 1.4)
	if got := am.Pitch("demon.walk"); got != 1.4 {
		t.Errorf("pitch: got %v, want 1.4", got)
	}

	am.SetPitch("demon.walk", 0)
	if got := am.Pitch("demon.walk"); got != 1 {
		t.Errorf("pitch after non-positive factor: got %v, want 1", got)
	}
}

// TestAudioManager_Volume 测试无设置管理器时的音量调整
func TestAudioManager_Volume(t *testing.T) {
	am, _ := newTestAudioManager(t)

	if got := am.GetSoundVolume(); got != 0.8 {
		t.Errorf("default volume: got %v, want 0.8", got)
	}
	if got := am.AdjustSoundVolume(0.5); got != 1 {
		t.Errorf("adjusted volume: got %v, want 1", got)
	}
	if got := am.AdjustSoundVolume(-0.3); got != 0.7 {
		t.Errorf("lowered volume: got %v, want 0.7", got)
	}
}

// TestAudioManager_Close 测试关闭后释放全部音效
func TestAudioManager_Close(t *testing.T) {
	am, path := newTestAudioManager(t)
	if err := am.LoadSound("demon.hurt", path); err != nil {
		t.Fatalf("LoadSound failed: %v", err)
	}

	am.Close()
	if am.HasSound("demon.walk") || am.HasSound("demon.hurt") {
		t.Error("Close should release every sound")
	}
}

// TestSourceRate 测试变调采样率换算
func TestSourceRate(t *testing.T) {
	tests := []struct {
		native int
		pitch  float64
		want   int
	}{
		{44100, 1, 44100},
		{44100, 2, 88200},
		{22050, 1.4, 30870},
		{48000, 0, 48000},
	}

	for _, tt := range tests {
		if got := sourceRate(tt.native, tt.pitch); got != tt.want {
			t.Errorf("sourceRate(%d, %v): got %d, want %d", tt.native, tt.pitch, got, tt.want)
		}
	}
}

// TestResampledLength 测试重采样后长度
func TestResampledLength(t *testing.T) {
	clip := &SoundClip{PCM: make([]byte, 1000*bytesPerFrame), SampleRate: 24000}

	if got := resampledLength(clip, 1, 48000); got != 2000*bytesPerFrame {
		t.Errorf("upsampled length: got %d, want %d", got, 2000*bytesPerFrame)
	}
	if got := resampledLength(clip, 2, 48000); got != 1000*bytesPerFrame {
		t.Errorf("pitched length: got %d, want %d", got, 1000*bytesPerFrame)
	}
}

// TestAudioManager_LoadMusic 测试加载背景音乐
func TestAudioManager_LoadMusic(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "theme.wav")
	createTestWAV(t, path, 44100, 4410)

	am := NewAudioManager(NewResourceManager(nil), nil)
	if am.HasMusic() {
		t.Fatal("no music should be loaded initially")
	}
	if err := am.LoadMusic(path, 0.5); err != nil {
		t.Fatalf("LoadMusic failed: %v", err)
	}
	if !am.HasMusic() {
		t.Error("music should be loaded")
	}

	if err := am.LoadMusic(filepath.Join(dir, "missing.mp3"), 0.5); err == nil {
		t.Error("expected error for missing music file")
	}
	unsupported := filepath.Join(dir, "theme.mid")
	createTestWAV(t, unsupported, 44100, 10)
	if err := am.LoadMusic(unsupported, 0.5); err == nil {
		t.Error("expected error for unsupported format")
	}
	if !am.HasMusic() {
		t.Error("a failed load should keep the previous track")
	}

	am.Close()
	if am.HasMusic() {
		t.Error("Close should drop the music track")
	}
}

// TestAudioManager_ToggleMusic 测试 M 键开关音乐并同步到设置
func TestAudioManager_ToggleMusic(t *testing.T) {
	path := filepath.Join(t.TempDir(), "theme.wav")
	createTestWAV(t, path, 44100, 4410)

	sm := NewSettingsManager(nil)
	am := NewAudioManager(NewResourceManager(nil), sm)
	if err := am.LoadMusic(path, 0.5); err != nil {
		t.Fatalf("LoadMusic failed: %v", err)
	}

	if am.PlayMusic() {
		t.Error("nothing should play without an audio context")
	}
	if !am.IsMusicEnabled() {
		t.Fatal("music should be enabled by default")
	}

	if am.ToggleMusic() {
		t.Error("first toggle should disable music")
	}
	if sm.GetSettings().MusicEnabled {
		t.Error("MusicEnabled setting should follow the toggle")
	}
	if am.PlayMusic() || am.IsMusicPlaying() {
		t.Error("disabled music must not play")
	}

	if !am.ToggleMusic() || !sm.GetSettings().MusicEnabled {
		t.Error("second toggle should enable music again")
	}
	am.StopMusic()
}

// TestAudioManager_MusicVolume 测试音乐音量调整与持久化设置同步
func TestAudioManager_MusicVolume(t *testing.T) {
	am := NewAudioManager(NewResourceManager(nil), nil)
	if got := am.GetMusicVolume(); got != 0.7 {
		t.Errorf("default music volume: got %v, want 0.7", got)
	}
	if got := am.AdjustMusicVolume(0.5); got != 1 {
		t.Errorf("raised music volume: got %v, want 1", got)
	}

	sm := NewSettingsManager(nil)
	withSettings := NewAudioManager(NewResourceManager(nil), sm)
	if got := withSettings.AdjustMusicVolume(-0.2); got != 0.5 {
		t.Errorf("lowered music volume: got %v, want 0.5", got)
	}
	if sm.GetSettings().MusicVolume != 0.5 {
		t.Errorf("MusicVolume setting: got %v, want 0.5", sm.GetSettings().MusicVolume)
	}
	if sm.GetSettings().SoundVolume != 0.8 {
		t.Error("music volume changes must not touch the sound volume")
	}
}

// TestResampledSize 测试任意长度的重采样换算
func TestResampledSize(t *testing.T) {
	if got := resampledSize(4000, 44100, 44100); got != 4000 {
		t.Errorf("same rate: got %d, want 4000", got)
	}
	if got := resampledSize(1000*bytesPerFrame, 24000, 48000); got != 2000*bytesPerFrame {
		t.Errorf("upsampled: got %d, want %d", got, 2000*bytesPerFrame)
	}
	if got := resampledSize(1001, 48000, 48000); got != 1000 {
		t.Errorf("unaligned size should be frame aligned: got %d, want 1000", got)
	}
}
