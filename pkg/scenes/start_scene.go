// Package scenes 包含游戏的各个场景：开始界面与竞技场
package scenes

import (
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"github.com/sirupsen/logrus"
	"golang.org/x/image/font/basicfont"

	"github.com/decker502/creatures/pkg/config"
	"github.com/decker502/creatures/pkg/game"
)

var _ game.Scene = (*StartScene)(nil)

// 开始界面布局
const (
	buttonWidth  = 160
	buttonHeight = 50
	playButtonY  = 250
	exitButtonY  = 320
	titleY       = 100
	titleScale   = 4
)

var (
	startBackground   = color.RGBA{R: 0, G: 121, B: 241, A: 255}
	buttonColor       = color.RGBA{R: 130, G: 130, B: 130, A: 255}
	buttonHoverColor  = color.RGBA{R: 200, G: 200, B: 200, A: 255}
	buttonLabelColor  = color.Black
	startTitleColor   = color.White
	startFooterColor  = color.RGBA{R: 220, G: 230, B: 255, A: 255}
	startFooterMargin = 24.0
)

// MenuButton 开始界面按钮
type MenuButton struct {
	Label         string
	X, Y          float64
	Width, Height float64
	OnClick       func()
}

// Contains 点是否落在按钮内（含边界）
func (b MenuButton) Contains(x, y float64) bool {
	return isPointInRect(x, y, b.X, b.Y, b.Width, b.Height)
}

// StartScene 开始界面：标题与 PLAY / EXIT 两个按钮
//
// 鼠标悬停高亮按钮，左键单击触发；Enter 等同 PLAY，Escape 等同 EXIT。
type StartScene struct {
	title   string
	footer  string
	buttons []MenuButton
	hovered int // 悬停的按钮下标，-1 表示没有
	face    *text.GoXFace
	log     *logrus.Entry
}

// NewStartScene 创建开始界面
//
// 参数：
//   - title: 标题文字
//   - onPlay: 点击 PLAY 时调用（进入竞技场）
//   - onExit: 点击 EXIT 时调用（退出游戏）
func NewStartScene(title string, onPlay, onExit func()) *StartScene {
	x := float64(config.GameWindowWidth-buttonWidth) / 2
	return &StartScene{
		title:  title,
		footer: "Enter: play   Esc: exit   F11: fullscreen",
		buttons: []MenuButton{
			{Label: "PLAY", X: x, Y: playButtonY, Width: buttonWidth, Height: buttonHeight, OnClick: onPlay},
			{Label: "EXIT", X: x, Y: exitButtonY, Width: buttonWidth, Height: buttonHeight, OnClick: onExit},
		},
		hovered: -1,
		face:    text.NewGoXFace(basicfont.Face7x13),
		log:     logrus.WithField("component", "StartScene"),
	}
}

// Name 场景名称
func (s *StartScene) Name() string { return "start" }

// Buttons 返回按钮列表（PLAY 在前）
func (s *StartScene) Buttons() []MenuButton {
	return s.buttons
}

// Hovered 返回悬停按钮的文字，没有悬停时为空
func (s *StartScene) Hovered() string {
	if s.hovered < 0 {
		return ""
	}
	return s.buttons[s.hovered].Label
}

// Update 处理鼠标与快捷键
func (s *StartScene) Update(deltaTime float64) {
	x, y := ebiten.CursorPosition()
	s.HandlePointer(float64(x), float64(y), inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft))

	switch {
	case inpututil.IsKeyJustPressed(ebiten.KeyEnter) || inpututil.IsKeyJustPressed(ebiten.KeyNumpadEnter):
		s.activate(0)
	case inpututil.IsKeyJustPressed(ebiten.KeyEscape):
		s.activate(1)
	}
}

// HandlePointer 根据指针位置更新悬停状态，clicked 为 true 时触发悬停的按钮
// 同一时刻只有一个按钮可以悬停
func (s *StartScene) HandlePointer(x, y float64, clicked bool) {
	s.hovered = -1
	for i, b := range s.buttons {
		if b.Contains(x, y) {
			s.hovered = i
			break
		}
	}
	if clicked && s.hovered >= 0 {
		s.activate(s.hovered)
	}
}

func (s *StartScene) activate(i int) {
	if i < 0 || i >= len(s.buttons) {
		return
	}
	b := s.buttons[i]
	s.log.WithField("button", b.Label).Info("Menu button clicked")
	if b.OnClick != nil {
		b.OnClick()
	}
}

// Draw 绘制背景、标题与按钮
func (s *StartScene) Draw(screen *ebiten.Image) {
	screen.Fill(startBackground)

	titleWidth, _ := text.Measure(s.title, s.face, 0)
	op := &text.DrawOptions{}
	op.GeoM.Scale(titleScale, titleScale)
	op.GeoM.Translate((float64(config.GameWindowWidth)-titleWidth*titleScale)/2, titleY)
	op.ColorScale.ScaleWithColor(startTitleColor)
	text.Draw(screen, s.title, s.face, op)

	for i, b := range s.buttons {
		clr := buttonColor
		if i == s.hovered {
			clr = buttonHoverColor
		}
		vector.DrawFilledRect(screen, float32(b.X), float32(b.Y), float32(b.Width), float32(b.Height), clr, false)

		w, h := text.Measure(b.Label, s.face, 0)
		label := &text.DrawOptions{}
		label.GeoM.Scale(2, 2)
		label.GeoM.Translate(b.X+(b.Width-w*2)/2, b.Y+(b.Height-h*2)/2)
		label.ColorScale.ScaleWithColor(buttonLabelColor)
		text.Draw(screen, b.Label, s.face, label)
	}

	fw, _ := text.Measure(s.footer, s.face, 0)
	footer := &text.DrawOptions{}
	footer.GeoM.Translate((float64(config.GameWindowWidth)-fw)/2, float64(config.GameWindowHeight)-startFooterMargin)
	footer.ColorScale.ScaleWithColor(startFooterColor)
	text.Draw(screen, s.footer, s.face, footer)
}

// isPointInRect 点 (px, py) 是否在矩形内（含边界）
func isPointInRect(px, py, x, y, w, h float64) bool {
	return px >= x && px <= x+w && py >= y && py <= y+h
}
