// Package app 实现 ebiten.Game：开始界面、竞技场与全局按键
package app

import (
	"fmt"
	"image/color"
	"strings"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/audio"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/quasilyte/gdata/v2"
	"github.com/sirupsen/logrus"

	"github.com/decker502/creatures/pkg/config"
	"github.com/decker502/creatures/pkg/ecs"
	"github.com/decker502/creatures/pkg/entities"
	"github.com/decker502/creatures/pkg/game"
	"github.com/decker502/creatures/pkg/scenes"
	"github.com/decker502/creatures/pkg/types"
)

// volumeStep =/- 每次调整的音量
const volumeStep = 0.1

// Config 定义应用启动配置
type Config struct {
	Creatures    *config.CreatureConfig
	AudioContext *audio.Context // nil 表示无声
	GData        *gdata.Manager // nil 表示设置不持久化
	// StrictAssets 为 true 时任何状态缺少贴图都导致启动失败
	StrictAssets bool
	// SkipStart 为 true 时跳过开始界面直接进入竞技场
	SkipStart bool
}

// App 游戏主结构，实现 ebiten.Game
//
// 顶层状态见 GameState：开始界面点击 PLAY 进入竞技场并开始播放背景音乐，
// 点击 EXIT 后下一次 Update 返回 ebiten.Termination。
type App struct {
	entityManager *ecs.EntityManager
	settings      *game.SettingsManager
	resources     *game.ResourceManager
	audio         *game.AudioManager

	sceneManager *game.SceneManager
	startScene   *scenes.StartScene
	arenaScene   *scenes.ArenaScene
	state        GameState

	controlHelp []string
	deltaTime   float64

	pendingWindowSizeReset   bool // 延迟设置窗口大小标志
	windowSizeResetCountdown int  // 延迟帧数
	log                      *logrus.Entry
}

// NewApp 创建 App 并生成配置中的全部生物
//
// 调用此函数前，应先调用 embedded.Init() 初始化嵌入数据。
func NewApp(cfg Config) (*App, error) {
	if cfg.Creatures == nil {
		return nil, fmt.Errorf("creature config cannot be nil")
	}

	settings := game.NewSettingsManager(cfg.GData)
	resources := game.NewResourceManager(cfg.AudioContext)
	audioManager := game.NewAudioManager(resources, settings)
	em := ecs.NewEntityManager()

	a := &App{
		entityManager: em,
		settings:      settings,
		resources:     resources,
		audio:         audioManager,
		sceneManager:  game.NewSceneManager(),
		arenaScene:    scenes.NewArenaScene(em),
		deltaTime:     1.0 / float64(config.TicksPerSecond),
		log:           logrus.WithField("component", "App"),
	}
	a.startScene = scenes.NewStartScene(strings.ToUpper(config.GameWindowTitle), a.EnterArena, a.RequestExit)

	_, err := entities.NewAllCreatureEntities(em, cfg.Creatures, entities.CreatureOptions{
		Frames:        resources,
		Sounds:        audioManager,
		Audio:         audioManager,
		InputFactory:  keyboardInput,
		RequireAssets: cfg.StrictAssets,
	})
	if err != nil {
		a.Close()
		return nil, err
	}

	if music := cfg.Creatures.MusicPath(); music != "" {
		if err := audioManager.LoadMusic(music, cfg.Creatures.Music.Volume); err != nil {
			a.log.WithError(err).Warn("Background music unavailable")
		}
	}

	a.controlHelp = ControlHelp(cfg.Creatures)
	s := settings.GetSettings()
	hud := a.arenaScene.HUD()
	hud.ShowHUD = s.ShowHUD
	hud.ShowDebug = s.ShowDebug
	a.refreshFooter()

	if cfg.SkipStart {
		a.EnterArena()
	} else {
		a.sceneManager.SwitchTo(a.startScene)
	}

	a.log.WithFields(logrus.Fields{
		"creatures": em.EntityCount(),
		"state":     a.state,
	}).Info("App ready")
	return a, nil
}

func keyboardInput(controls map[types.Control]string) (types.Input, error) {
	return game.NewKeyboardInput(controls)
}

// EntityManager 返回实体管理器
func (a *App) EntityManager() *ecs.EntityManager {
	return a.entityManager
}

// Settings 返回设置管理器
func (a *App) Settings() *game.SettingsManager {
	return a.settings
}

// State 返回当前顶层状态
func (a *App) State() GameState {
	return a.state
}

// CurrentScene 返回当前激活的场景
func (a *App) CurrentScene() game.Scene {
	return a.sceneManager.GetCurrentScene()
}

// EnterArena 切换到竞技场并开始播放背景音乐
func (a *App) EnterArena() {
	if a.state == GameStateExit {
		return
	}
	a.state = GameStateArena
	a.sceneManager.SwitchTo(a.arenaScene)
	a.audio.PlayMusic()
	a.log.Info("Entered arena")
}

// RequestExit 请求退出游戏，下一次 Update 返回 ebiten.Termination
func (a *App) RequestExit() {
	a.state = GameStateExit
	a.audio.StopMusic()
	a.log.Info("Exit requested")
}

// Update 更新游戏逻辑
// 每个 tick 调用一次（通常每秒 60 次）
func (a *App) Update() error {
	// 退出全屏后需要等待几帧才能正确设置窗口大小
	if a.pendingWindowSizeReset {
		a.windowSizeResetCountdown--
		if a.windowSizeResetCountdown <= 0 {
			ebiten.SetWindowSize(config.GameWindowWidth, config.GameWindowHeight)
			a.pendingWindowSizeReset = false
		}
	}

	if a.state == GameStateExit {
		return ebiten.Termination
	}

	a.handleGlobalKeys()
	a.sceneManager.Update(a.deltaTime)

	if a.state == GameStateExit {
		return ebiten.Termination
	}
	return nil
}

// Step 推进竞技场一个逻辑 tick（不经过场景切换与全局按键）
func (a *App) Step(deltaTime float64) {
	a.arenaScene.Step(deltaTime)
}

// Draw 绘制当前场景
func (a *App) Draw(screen *ebiten.Image) {
	a.sceneManager.Draw(screen)
}

// DrawFinalScreen 实现 FinalScreenDrawer 接口
// 全屏时左右两边填充黑色
func (a *App) DrawFinalScreen(screen ebiten.FinalScreen, offscreen *ebiten.Image, geoM ebiten.GeoM) {
	screen.Fill(color.Black)
	op := &ebiten.DrawImageOptions{}
	op.GeoM = geoM
	op.Filter = ebiten.FilterNearest
	screen.DrawImage(offscreen, op)
}

// Layout 返回固定的逻辑屏幕尺寸
// 此尺寸独立于实际窗口大小，Ebitengine 会自动处理缩放
func (a *App) Layout(outsideWidth, outsideHeight int) (int, int) {
	return config.GameWindowWidth, config.GameWindowHeight
}

// Close 销毁全部生物、释放音频并保存设置
func (a *App) Close() {
	a.entityManager.DestroyAll()
	a.audio.Close()
	if err := a.settings.Save(); err != nil {
		a.log.WithError(err).Warn("Failed to save settings")
	}
}

// handleGlobalKeys 处理全局按键
//   - 任意场景：=/- 音量、F11 全屏
//   - 竞技场：F1 调试层、F2 HUD、M 音乐开关
func (a *App) handleGlobalKeys() {
	changed := false

	if a.state == GameStateArena {
		if inpututil.IsKeyJustPressed(ebiten.KeyF1) {
			a.ToggleDebug()
			changed = true
		}
		if inpututil.IsKeyJustPressed(ebiten.KeyF2) {
			a.ToggleHUD()
			changed = true
		}
		if inpututil.IsKeyJustPressed(ebiten.KeyM) {
			a.ToggleMusic()
			changed = true
		}
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyEqual) || inpututil.IsKeyJustPressed(ebiten.KeyNumpadAdd) {
		a.AdjustVolume(volumeStep)
		changed = true
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyMinus) || inpututil.IsKeyJustPressed(ebiten.KeyNumpadSubtract) {
		a.AdjustVolume(-volumeStep)
		changed = true
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyF11) {
		a.toggleFullscreen()
		changed = true
	}

	if changed {
		if err := a.settings.Save(); err != nil {
			a.log.WithError(err).Warn("Failed to save settings")
		}
	}
}

func (a *App) toggleFullscreen() {
	if ebiten.IsFullscreen() {
		ebiten.SetFullscreen(false)
		if ebiten.IsWindowMaximized() || ebiten.IsWindowMinimized() {
			ebiten.RestoreWindow()
		}
		a.pendingWindowSizeReset = true
		a.windowSizeResetCountdown = 3
		a.settings.SetFullscreen(false)
		return
	}
	ebiten.SetFullscreen(true)
	a.settings.SetFullscreen(true)
}

// ToggleDebug 切换调试层
func (a *App) ToggleDebug() {
	hud := a.arenaScene.HUD()
	hud.ShowDebug = !hud.ShowDebug
	a.settings.SetShowDebug(hud.ShowDebug)
}

// ToggleHUD 切换 HUD
func (a *App) ToggleHUD() {
	hud := a.arenaScene.HUD()
	hud.ShowHUD = !hud.ShowHUD
	a.settings.SetShowHUD(hud.ShowHUD)
}

// ToggleMusic 暂停/恢复背景音乐，返回切换后音乐是否开启
func (a *App) ToggleMusic() bool {
	enabled := a.audio.ToggleMusic()
	a.refreshFooter()
	return enabled
}

// AdjustVolume 同时调整音效与音乐音量并刷新 HUD，返回新的音效音量
func (a *App) AdjustVolume(delta float64) float64 {
	volume := a.audio.AdjustSoundVolume(delta)
	music := a.audio.AdjustMusicVolume(delta)
	a.refreshFooter()
	a.log.WithFields(logrus.Fields{"sound": volume, "music": music}).Debug("Volume changed")
	return volume
}

func (a *App) refreshFooter() {
	musicState := "off"
	if a.audio.IsMusicEnabled() {
		musicState = "on"
	}
	footer := append([]string{""}, a.controlHelp...)
	a.arenaScene.HUD().Footer = append(footer,
		fmt.Sprintf("Sound %.0f%%  Music %.0f%% (%s)   F1 debug  F2 HUD  =/- volume  M music  F11 fullscreen",
			a.audio.GetSoundVolume()*100, a.audio.GetMusicVolume()*100, musicState))
}

// ControlHelp 每个生物一行按键说明，控制按固定顺序列出
func ControlHelp(cfg *config.CreatureConfig) []string {
	lines := make([]string, 0, len(cfg.Creatures))
	for _, key := range cfg.Keys() {
		def := cfg.Creatures[key]
		var b strings.Builder
		b.WriteString(def.Name)
		b.WriteString(":")
		for _, c := range types.AllControls() {
			if k, ok := def.Controls[c.String()]; ok {
				fmt.Fprintf(&b, " %s=%s", c, k)
			}
		}
		lines = append(lines, b.String())
	}
	return lines
}
