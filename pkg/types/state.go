package types

// State 生物的行为状态
// 使用字符串是为了直接作为状态机（looplab/fsm）的状态名，并与 YAML 动画表的键保持一致
type State string

const (
	StateIdle        State = "idle"
	StateWalk        State = "walk"
	StateRun         State = "run"
	StateJump        State = "jump"
	StateHurt        State = "hurt"
	StateDead        State = "dead"
	StateAttack      State = "attack"       // 恶魔：劈砍
	StateAttackClub  State = "attack_club"  // 哥布林：棍击
	StateAttackStomp State = "attack_stomp" // 哥布林：践踏
	StateAttackAOE   State = "attack_aoe"   // 哥布林：范围法术
	StateAttackSwipe State = "attack_swipe" // 狼人：挥爪
	StateAttackRun   State = "attack_run"   // 狼人：冲刺攻击
)

var knownStates = map[State]bool{
	StateIdle: true, StateWalk: true, StateRun: true, StateJump: true,
	StateHurt: true, StateDead: true, StateAttack: true,
	StateAttackClub: true, StateAttackStomp: true, StateAttackAOE: true,
	StateAttackSwipe: true, StateAttackRun: true,
}

// IsKnown 判断状态名是否合法
func (s State) IsKnown() bool {
	return knownStates[s]
}

// IsAttack 判断是否为攻击类状态
func (s State) IsAttack() bool {
	switch s {
	case StateAttack, StateAttackClub, StateAttackStomp, StateAttackAOE, StateAttackSwipe, StateAttackRun:
		return true
	}
	return false
}
