package app

// GameState 游戏的顶层状态：开始界面 -> 竞技场 -> 退出
type GameState int

const (
	// GameStateStart 开始界面（PLAY / EXIT）
	GameStateStart GameState = iota
	// GameStateArena 竞技场，生物在这里运行
	GameStateArena
	// GameStateExit 请求退出，下一次 Update 返回 ebiten.Termination
	GameStateExit
)

func (s GameState) String() string {
	switch s {
	case GameStateStart:
		return "start"
	case GameStateArena:
		return "arena"
	case GameStateExit:
		return "exit"
	default:
		return "unknown"
	}
}
