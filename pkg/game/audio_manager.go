package game

import (
	"bytes"
	"fmt"
	"io"
	"math"

	"github.com/hajimehoshi/ebiten/v2/audio"
	"github.com/sirupsen/logrus"
)

// bytesPerFrame 16 位立体声每个采样帧的字节数
const bytesPerFrame = 4

// soundEntry 已注册音效
type soundEntry struct {
	clip   *SoundClip
	pitch  float64
	loop   bool
	player *audio.Player
}

// musicTrack 背景音乐（循环播放）
type musicTrack struct {
	path   string
	gain   float64 // 曲目自身的音量系数，与音乐音量相乘
	stream MusicStream
	player *audio.Player
}

// AudioManager 音频管理器
// 职责：
//   - 按音效ID注册、播放、停止与释放生物音效
//   - 通过重采样实现变调（SetPitch）
//   - 循环播放背景音乐，支持暂停/恢复（ToggleMusic）
//   - 实现音量控制（从 SettingsManager 读取设置）
//
// AudioManager 实现 types.AudioSink 与 creature.SoundReleaser。
// audioContext 为 nil 时所有播放请求都被忽略（无声模式）。
type AudioManager struct {
	resourceManager *ResourceManager       // 资源管理器（用于解码音频）
	settingsManager *SettingsManager       // 设置管理器（可为 nil）
	audioContext    *audio.Context         // 全局音频上下文（可为 nil）
	sounds          map[string]*soundEntry // 音效ID -> 音效
	warned          map[string]bool        // 已报告缺失的音效ID
	volume          float64                // 没有 SettingsManager 时使用的音量
	music           *musicTrack            // 背景音乐（可为 nil）
	musicActive     bool                   // 当前场景是否需要音乐
	musicVolume     float64                // 没有 SettingsManager 时使用的音乐音量
	musicEnabled    bool                   // 没有 SettingsManager 时使用的音乐开关
	log             *logrus.Entry
}

// NewAudioManager 创建新的音频管理器
//
// 参数：
//   - rm: ResourceManager 实例（音频上下文取自 rm.AudioContext()）
//   - sm: SettingsManager 实例（用于读取音量设置，可为 nil）
func NewAudioManager(rm *ResourceManager, sm *SettingsManager) *AudioManager {
	return &AudioManager{
		resourceManager: rm,
		settingsManager: sm,
		audioContext:    rm.AudioContext(),
		sounds:          make(map[string]*soundEntry),
		warned:          make(map[string]bool),
		volume:          DefaultSettings().SoundVolume,
		musicVolume:     DefaultSettings().MusicVolume,
		musicEnabled:    DefaultSettings().MusicEnabled,
		log:             logrus.WithField("component", "AudioManager"),
	}
}

// LoadSound 解码音频文件并以 soundID 注册
// 实现 entities.SoundLoader
func (am *AudioManager) LoadSound(soundID, path string) error {
	clip, err := am.resourceManager.LoadSoundClip(path)
	if err != nil {
		return fmt.Errorf("load sound %s: %w", soundID, err)
	}
	if old, exists := am.sounds[soundID]; exists {
		am.closePlayer(old)
	}
	am.sounds[soundID] = &soundEntry{clip: clip, pitch: 1}
	am.log.WithFields(logrus.Fields{"id": soundID, "path": path}).Debug("Sound loaded")
	return nil
}

// HasSound 音效是否已注册
func (am *AudioManager) HasSound(soundID string) bool {
	_, exists := am.sounds[soundID]
	return exists
}

// SetLooping 设置音效是否循环播放（如行走音效）
func (am *AudioManager) SetLooping(soundID string, loop bool) {
	entry := am.lookup(soundID)
	if entry == nil || entry.loop == loop {
		return
	}
	entry.loop = loop
	am.closePlayer(entry)
}

// Play 从头播放音效
func (am *AudioManager) Play(soundID string) {
	if am.settingsManager != nil && !am.settingsManager.GetSettings().SoundEnabled {
		return
	}
	entry := am.lookup(soundID)
	if entry == nil || am.audioContext == nil {
		return
	}

	player, err := am.playerFor(entry)
	if err != nil {
		am.log.WithError(err).WithField("id", soundID).Warn("Failed to create player")
		return
	}
	player.SetVolume(am.getSoundVolume())
	if err := player.Rewind(); err != nil {
		am.log.WithError(err).WithField("id", soundID).Warn("Failed to rewind sound")
	}
	player.Play()
}

// Stop 停止音效
func (am *AudioManager) Stop(soundID string) {
	entry := am.lookup(soundID)
	if entry == nil || entry.player == nil {
		return
	}
	entry.player.Pause()
}

// IsPlaying 音效是否正在播放
func (am *AudioManager) IsPlaying(soundID string) bool {
	entry, exists := am.sounds[soundID]
	return exists && entry.player != nil && entry.player.IsPlaying()
}

// SetPitch 设置音效音调倍率（1 为原调）
// 正在播放的音效以新音调从头重新播放
func (am *AudioManager) SetPitch(soundID string, factor float64) {
	entry := am.lookup(soundID)
	if entry == nil {
		return
	}
	if factor <= 0 {
		factor = 1
	}
	if entry.pitch == factor {
		return
	}

	wasPlaying := entry.player != nil && entry.player.IsPlaying()
	entry.pitch = factor
	am.closePlayer(entry)
	if wasPlaying {
		am.Play(soundID)
	}
}

// Pitch 返回音效当前音调倍率，未注册时返回 0
func (am *AudioManager) Pitch(soundID string) float64 {
	if entry, exists := am.sounds[soundID]; exists {
		return entry.pitch
	}
	return 0
}

// Release 释放音效
// 实现 creature.SoundReleaser，生物销毁时调用
func (am *AudioManager) Release(soundID string) {
	entry, exists := am.sounds[soundID]
	if !exists {
		return
	}
	am.closePlayer(entry)
	delete(am.sounds, soundID)
}

// SetSoundVolume 设置音效音量并立即应用到所有播放器
//
// 参数：
//   - volume: 音量值 (0.0 ~ 1.0)
func (am *AudioManager) SetSoundVolume(volume float64) {
	volume = clampVolume(volume)
	if am.settingsManager != nil {
		am.settingsManager.SetSoundVolume(volume)
	}
	am.volume = volume
	am.applyVolume(volume)
}

// AdjustSoundVolume 按增量调整音效音量，返回调整后的音量
func (am *AudioManager) AdjustSoundVolume(delta float64) float64 {
	am.SetSoundVolume(am.getSoundVolume() + delta)
	return am.getSoundVolume()
}

// GetSoundVolume 获取当前音效音量
func (am *AudioManager) GetSoundVolume() float64 {
	return am.getSoundVolume()
}

// LoadMusic 加载背景音乐，替换之前的曲目
//
// 参数：
//   - path: 音乐文件路径
//   - gain: 曲目音量系数（<= 0 按 1 处理），实际音量 = gain * 音乐音量
func (am *AudioManager) LoadMusic(path string, gain float64) error {
	stream, err := am.resourceManager.LoadMusicStream(path)
	if err != nil {
		return fmt.Errorf("load music: %w", err)
	}
	if gain <= 0 || gain > 1 {
		gain = 1
	}

	am.closeMusic()
	am.music = &musicTrack{path: path, gain: gain, stream: stream}
	am.log.WithFields(logrus.Fields{"path": path, "gain": gain}).Debug("Music loaded")
	return nil
}

// HasMusic 是否已加载背景音乐
func (am *AudioManager) HasMusic() bool {
	return am.music != nil
}

// PlayMusic 开始（或继续）播放背景音乐
// 音乐被关闭（ToggleMusic）时只记录播放意图，重新打开后自动播放
//
// 返回：
//   - bool: 是否真正开始播放
func (am *AudioManager) PlayMusic() bool {
	am.musicActive = true
	return am.resumeMusic()
}

// StopMusic 停止背景音乐并回到开头
func (am *AudioManager) StopMusic() {
	am.musicActive = false
	if am.music == nil || am.music.player == nil {
		return
	}
	am.music.player.Pause()
	if err := am.music.player.Rewind(); err != nil {
		am.log.WithError(err).Debug("Failed to rewind music")
	}
}

// ToggleMusic 切换音乐开关：关闭时暂停，打开时从暂停处继续
//
// 返回：
//   - bool: 切换后音乐是否开启
func (am *AudioManager) ToggleMusic() bool {
	enabled := !am.IsMusicEnabled()
	if am.settingsManager != nil {
		am.settingsManager.SetMusicEnabled(enabled)
	}
	am.musicEnabled = enabled

	if enabled {
		am.resumeMusic()
	} else if am.music != nil && am.music.player != nil {
		am.music.player.Pause()
	}
	am.log.WithField("enabled", enabled).Debug("Music toggled")
	return enabled
}

// IsMusicEnabled 音乐开关是否打开
func (am *AudioManager) IsMusicEnabled() bool {
	if am.settingsManager != nil {
		return am.settingsManager.GetSettings().MusicEnabled
	}
	return am.musicEnabled
}

// IsMusicPlaying 背景音乐是否正在播放
func (am *AudioManager) IsMusicPlaying() bool {
	return am.music != nil && am.music.player != nil && am.music.player.IsPlaying()
}

// SetMusicVolume 设置音乐音量并立即应用
//
// 参数：
//   - volume: 音量值 (0.0 ~ 1.0)
func (am *AudioManager) SetMusicVolume(volume float64) {
	volume = clampVolume(volume)
	if am.settingsManager != nil {
		am.settingsManager.SetMusicVolume(volume)
	}
	am.musicVolume = volume
	if am.music != nil && am.music.player != nil {
		am.music.player.SetVolume(am.music.gain * volume)
	}
}

// AdjustMusicVolume 按增量调整音乐音量，返回调整后的音量
func (am *AudioManager) AdjustMusicVolume(delta float64) float64 {
	am.SetMusicVolume(am.GetMusicVolume() + delta)
	return am.GetMusicVolume()
}

// GetMusicVolume 获取当前音乐音量
func (am *AudioManager) GetMusicVolume() float64 {
	if am.settingsManager != nil {
		return am.settingsManager.GetSettings().MusicVolume
	}
	return am.musicVolume
}

// Close 释放所有音效与背景音乐
func (am *AudioManager) Close() {
	for id := range am.sounds {
		am.Release(id)
	}
	am.closeMusic()
	am.music = nil
	am.musicActive = false
}

func (am *AudioManager) resumeMusic() bool {
	if !am.musicActive || !am.IsMusicEnabled() || am.music == nil || am.audioContext == nil {
		return false
	}

	if am.music.player == nil {
		player, err := am.audioContext.NewPlayer(am.musicSource())
		if err != nil {
			am.log.WithError(err).WithField("path", am.music.path).Warn("Failed to create music player")
			return false
		}
		am.music.player = player
	}
	am.music.player.SetVolume(am.music.gain * am.GetMusicVolume())
	am.music.player.Play()
	return true
}

// musicSource 把曲目重采样到输出采样率并无限循环
func (am *AudioManager) musicSource() io.Reader {
	stream := am.music.stream
	outRate := am.audioContext.SampleRate()
	if stream.SampleRate() == outRate {
		return audio.NewInfiniteLoop(stream, stream.Length())
	}
	resampled := audio.Resample(stream, stream.Length(), stream.SampleRate(), outRate)
	return audio.NewInfiniteLoop(resampled, resampledSize(stream.Length(), stream.SampleRate(), outRate))
}

func (am *AudioManager) closeMusic() {
	if am.music == nil || am.music.player == nil {
		return
	}
	am.music.player.Pause()
	if err := am.music.player.Close(); err != nil {
		am.log.WithError(err).Debug("Failed to close music player")
	}
	am.music.player = nil
}

func (am *AudioManager) applyVolume(volume float64) {
	for _, entry := range am.sounds {
		if entry.player != nil {
			entry.player.SetVolume(volume)
		}
	}
}

// lookup 查找音效，缺失的ID只报告一次
func (am *AudioManager) lookup(soundID string) *soundEntry {
	entry, exists := am.sounds[soundID]
	if !exists {
		if !am.warned[soundID] {
			am.warned[soundID] = true
			am.log.WithField("id", soundID).Warn("Sound not found, ignoring")
		}
		return nil
	}
	return entry
}

// playerFor 获取或创建播放器
func (am *AudioManager) playerFor(entry *soundEntry) (*audio.Player, error) {
	if entry.player != nil {
		return entry.player, nil
	}

	stream := resampledStream(entry.clip, entry.pitch, am.audioContext.SampleRate())
	var src io.Reader = stream
	if entry.loop {
		src = audio.NewInfiniteLoop(stream, resampledLength(entry.clip, entry.pitch, am.audioContext.SampleRate()))
	}

	player, err := am.audioContext.NewPlayer(src)
	if err != nil {
		return nil, err
	}
	entry.player = player
	return player, nil
}

func (am *AudioManager) closePlayer(entry *soundEntry) {
	if entry.player == nil {
		return
	}
	entry.player.Pause()
	if err := entry.player.Close(); err != nil {
		am.log.WithError(err).Debug("Failed to close player")
	}
	entry.player = nil
}

// getSoundVolume 获取音效音量设置
func (am *AudioManager) getSoundVolume() float64 {
	if am.settingsManager != nil {
		return am.settingsManager.GetSettings().SoundVolume
	}
	return am.volume
}

// sourceRate 变调后的声明采样率
// 声明更高的采样率再重采样到输出采样率，播放更快、音调更高
func sourceRate(nativeRate int, pitch float64) int {
	if pitch <= 0 {
		pitch = 1
	}
	return int(math.Round(float64(nativeRate) * pitch))
}

// resampledLength 重采样后的字节长度（按采样帧对齐）
func resampledLength(clip *SoundClip, pitch float64, outRate int) int64 {
	return resampledSize(int64(len(clip.PCM)), sourceRate(clip.SampleRate, pitch), outRate)
}

// resampledSize 把 size 字节的 fromRate 数据重采样到 toRate 后的字节长度
func resampledSize(size int64, fromRate, toRate int) int64 {
	frames := size / bytesPerFrame
	if fromRate == toRate {
		return frames * bytesPerFrame
	}
	return frames * int64(toRate) / int64(fromRate) * bytesPerFrame
}

func resampledStream(clip *SoundClip, pitch float64, outRate int) io.ReadSeeker {
	src := bytes.NewReader(clip.PCM)
	from := sourceRate(clip.SampleRate, pitch)
	if from == outRate {
		return src
	}
	return audio.Resample(src, int64(len(clip.PCM)), from, outRate)
}
