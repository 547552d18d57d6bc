package types

import "image"

// Input 输入查询接口
// 游戏循环每帧提供一次快照：按住（电平触发）与刚按下（边沿触发）
type Input interface {
	IsHeld(c Control) bool
	WasPressed(c Control) bool
}

// AudioSink 音效请求接口，调用方不关心播放结果
type AudioSink interface {
	Play(soundID string)
	Stop(soundID string)
	SetPitch(soundID string, factor float64)
}

// Image 帧图像的最小抽象，*ebiten.Image 与 image.Image 均满足
type Image interface {
	Bounds() image.Rectangle
}

// Renderer 绘制请求接口
// src 为源图像中的子矩形，dst 为屏幕目标矩形，flip 表示水平翻转
type Renderer interface {
	DrawFrame(img Image, src image.Rectangle, dst Rect, flip bool)
}

// NopAudio 丢弃所有音效请求（无声模式或测试）
type NopAudio struct{}

func (NopAudio) Play(string)              {}
func (NopAudio) Stop(string)              {}
func (NopAudio) SetPitch(string, float64) {}
