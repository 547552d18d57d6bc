package config

// 游戏窗口配置
const (
	// GameWindowWidth 游戏逻辑屏幕宽度
	GameWindowWidth = 1280
	// GameWindowHeight 游戏逻辑屏幕高度
	GameWindowHeight = 720
	// GameWindowTitle 窗口标题
	GameWindowTitle = "Creatures"
	// TicksPerSecond 逻辑帧率，deltaTime = 1 / TicksPerSecond
	TicksPerSecond = 60
)
