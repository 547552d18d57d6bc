package creature

import (
	"math"
	"reflect"
	"testing"

	"gopkg.in/yaml.v3"

	"github.com/decker502/creatures/pkg/types"
)

const dt = 1.0 / 60.0

// TestNew_InitialState 测试新建生物处于待机、满血、可攻击
func TestNew_InitialState(t *testing.T) {
	for _, key := range []string{"demon", "goblin", "werewolf"} {
		t.Run(key, func(t *testing.T) {
			c := newTestCreature(t, key, nil)

			if c.State() != types.StateIdle {
				t.Errorf("State: got %s, want idle", c.State())
			}
			if c.Health() != 100 {
				t.Errorf("Health: got %d, want 100", c.Health())
			}
			if !c.HasFinishedAttack() {
				t.Error("HasFinishedAttack should be true initially")
			}
			if c.IsDead() {
				t.Error("new creature should not be dead")
			}
			if !c.Body().Grounded {
				t.Error("creature should spawn grounded")
			}
		})
	}
}

// TestTakeDamage_HurtThenDead 测试连续受伤九次后第十次死亡
func TestTakeDamage_HurtThenDead(t *testing.T) {
	for _, key := range []string{"demon", "werewolf"} {
		t.Run(key, func(t *testing.T) {
			c := newTestCreature(t, key, nil)

			for i := 1; i <= 9; i++ {
				c.TakeDamage(10)
				if c.State() != types.StateHurt {
					t.Fatalf("after hit %d: state got %s, want hurt", i, c.State())
				}
				if want := 100 - 10*i; c.Health() != want {
					t.Fatalf("after hit %d: health got %d, want %d", i, c.Health(), want)
				}
			}

			c.TakeDamage(10)
			if c.State() != types.StateDead {
				t.Errorf("State: got %s, want dead", c.State())
			}
			if c.Health() != 0 || !c.IsDead() {
				t.Errorf("Health/IsDead: got %d/%v, want 0/true", c.Health(), c.IsDead())
			}
		})
	}
}

// TestTakeDamage_IdempotentAfterDeath 测试死亡后伤害不再产生任何变化
func TestTakeDamage_IdempotentAfterDeath(t *testing.T) {
	for _, key := range []string{"demon", "goblin", "werewolf"} {
		t.Run(key, func(t *testing.T) {
			audio := &recordingAudio{}
			c := newTestCreature(t, key, audio)

			c.TakeDamage(250)
			if c.Health() != 0 {
				t.Fatalf("Health: got %d, want 0 (clamped)", c.Health())
			}
			before := c.Snapshot()
			calls := len(audio.calls)

			for i := 0; i < 5; i++ {
				c.TakeDamage(10)
			}
			if !reflect.DeepEqual(before, c.Snapshot()) {
				t.Error("snapshot changed after damaging a dead creature")
			}
			if len(audio.calls) != calls {
				t.Errorf("audio requests after death: got %d, want %d", len(audio.calls), calls)
			}

			// 死亡状态是终止状态
			for i := 0; i < 100; i++ {
				tick(c, newFakeInput().hold(types.ControlRight).press(types.ControlAttack1), dt)
			}
			if c.State() != types.StateDead {
				t.Errorf("State after ticking: got %s, want dead", c.State())
			}
		})
	}
}

// TestTakeDamage_DeathSounds 测试死亡音效
func TestTakeDamage_DeathSounds(t *testing.T) {
	audio := &recordingAudio{}
	c := newTestCreature(t, "demon", audio)

	c.TakeDamage(100)

	for _, id := range []string{"play demon.death", "play demon.explosion"} {
		if audio.count(id) != 1 {
			t.Errorf("%s: got %d calls, want 1 (calls: %v)", id, audio.count(id), audio.calls)
		}
	}
	if audio.count("play demon.hurt") != 0 {
		t.Error("lethal damage should not play the hurt sound")
	}
}

// TestTakeDamage_DemonSilencesWalk 测试恶魔受伤时停止脚步声
func TestTakeDamage_DemonSilencesWalk(t *testing.T) {
	audio := &recordingAudio{}
	c := newTestCreature(t, "demon", audio)

	c.Move(newFakeInput().hold(types.ControlRight))
	if audio.count("play demon.walk") != 1 || audio.count("pitch demon.walk") != 1 {
		t.Fatalf("walking should start the walk sound with pitch, calls: %v", audio.calls)
	}

	c.TakeDamage(10)
	if audio.count("stop demon.walk") != 1 {
		t.Errorf("hurt should stop the walk sound, calls: %v", audio.calls)
	}
	if audio.count("play demon.hurt") != 1 {
		t.Errorf("hurt sound: got %d plays, want 1", audio.count("play demon.hurt"))
	}
	if c.walkSoundPlaying {
		t.Error("walkSoundPlaying should be cleared")
	}
}

// TestGoblin_NoHurtState 测试哥布林的非致命伤害只扣血
func TestGoblin_NoHurtState(t *testing.T) {
	audio := &recordingAudio{}
	c := newTestCreature(t, "goblin", audio)

	c.TakeDamage(30)
	if c.State() != types.StateIdle {
		t.Errorf("State: got %s, want idle", c.State())
	}
	if c.Health() != 70 {
		t.Errorf("Health: got %d, want 70", c.Health())
	}
	if len(audio.calls) != 0 {
		t.Errorf("non-lethal goblin damage should be silent, got %v", audio.calls)
	}
	if c.machine.Can(eventHurt) {
		t.Error("goblin state machine should not have a hurt event")
	}
}

// TestGoblin_DebugDamageKills 测试哥布林调试键直接致死
func TestGoblin_DebugDamageKills(t *testing.T) {
	c := newTestCreature(t, "goblin", nil)
	c.TakeDamage(40)

	c.Move(newFakeInput().press(types.ControlDebugDamage))

	if !c.IsDead() || c.State() != types.StateDead {
		t.Errorf("State: got %s (dead=%v), want dead", c.State(), c.IsDead())
	}
}

// TestGoblin_ClubAttackReturnsToIdle 测试棍击在 1 秒内回到待机
func TestGoblin_ClubAttackReturnsToIdle(t *testing.T) {
	audio := &recordingAudio{}
	c := newTestCreature(t, "goblin", audio)

	c.Move(newFakeInput().press(types.ControlAttack1))
	if c.State() != types.StateAttackClub {
		t.Fatalf("State: got %s, want attack_club", c.State())
	}
	if c.HasFinishedAttack() {
		t.Fatal("HasFinishedAttack should be false while attacking")
	}
	if c.CurrentAnimation().CurrentFrame != 0 {
		t.Errorf("attack should start at frame 0, got %d", c.CurrentAnimation().CurrentFrame)
	}
	if audio.count("play goblin.attack") != 1 {
		t.Errorf("attack sound: got %d plays, want 1", audio.count("play goblin.attack"))
	}

	for i := 0; i < 4; i++ {
		c.UpdateAnimation(0.1)
		c.ApplyVelocity(0.1)
	}
	if c.State() != types.StateAttackClub {
		t.Fatalf("after 0.4s: state got %s, want attack_club", c.State())
	}

	for i := 0; i < 6; i++ {
		c.UpdateAnimation(0.1)
		c.ApplyVelocity(0.1)
	}
	if c.State() != types.StateIdle {
		t.Errorf("after 1.0s: state got %s, want idle", c.State())
	}
	if !c.HasFinishedAttack() {
		t.Error("HasFinishedAttack should be true after the attack completes")
	}
}

// TestGoblin_PositionFrozenWhileAttacking 测试哥布林攻击期间不更新位置，攻击结束后恢复
func TestGoblin_PositionFrozenWhileAttacking(t *testing.T) {
	c := newTestCreature(t, "goblin", nil)
	c.Move(newFakeInput().press(types.ControlAttack1))
	if c.State() != types.StateAttackClub {
		t.Fatalf("State: got %s, want attack_club", c.State())
	}

	// 攻击中注入非零速度
	snap := c.Snapshot()
	snap.Velocity = types.Vector2{X: 180}
	if err := c.Restore(snap); err != nil {
		t.Fatalf("Restore failed: %v", err)
	}

	startX := c.Body().Rect.X
	c.ApplyVelocity(0.1)
	if got := c.Body().Rect.X; got != startX {
		t.Errorf("X during attack: got %.2f, want %.2f", got, startX)
	}

	for i := 0; i < 10 && !c.HasFinishedAttack(); i++ {
		c.UpdateAnimation(0.1)
	}
	if !c.HasFinishedAttack() {
		t.Fatal("attack should have finished")
	}
	c.ApplyVelocity(0.1)
	if got := c.Body().Rect.X; !approx(got, startX+18) {
		t.Errorf("X after attack: got %.2f, want %.2f", got, startX+18)
	}
}

// TestAttack_RejectedWhileBusy 测试攻击进行中不能发起新攻击
func TestAttack_RejectedWhileBusy(t *testing.T) {
	tests := []struct {
		key    string
		first  types.Control
		second types.Control
		want   types.State
	}{
		{"demon", types.ControlAttack1, types.ControlAttack1, types.StateAttack},
		{"goblin", types.ControlAttack1, types.ControlAttack3, types.StateAttackClub},
		{"werewolf", types.ControlAttack1, types.ControlAttack2, types.StateAttackSwipe},
	}

	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			audio := &recordingAudio{}
			c := newTestCreature(t, tt.key, audio)

			tick(c, newFakeInput().press(tt.first), dt)
			if c.State() != tt.want {
				t.Fatalf("State: got %s, want %s", c.State(), tt.want)
			}
			plays := len(audio.calls)

			c.Move(newFakeInput().press(tt.second))
			if c.State() != tt.want {
				t.Errorf("second attack changed state to %s", c.State())
			}
			if len(audio.calls) != plays {
				t.Errorf("rejected attack should not play a sound, calls: %v", audio.calls)
			}
		})
	}
}

// TestAttack_OneAttackPerTick 测试同一帧按下多个攻击键只触发第一个
func TestAttack_OneAttackPerTick(t *testing.T) {
	c := newTestCreature(t, "goblin", nil)

	c.Move(newFakeInput().press(types.ControlAttack2).press(types.ControlAttack3))

	if c.State() != types.StateAttackStomp {
		t.Errorf("State: got %s, want attack_stomp", c.State())
	}
	if c.CurrentAnimation().CurrentFrame != 5 {
		t.Errorf("stomp should start at frame 5, got %d", c.CurrentAnimation().CurrentFrame)
	}
}

// TestDemon_WalkAndIdle 测试方向键按住时行走，松开后回到待机
func TestDemon_WalkAndIdle(t *testing.T) {
	audio := &recordingAudio{}
	c := newTestCreature(t, "demon", audio)
	startX := c.Body().Rect.X

	in := newFakeInput().hold(types.ControlRight)
	for i := 0; i < 60; i++ {
		tick(c, in, dt)
	}
	if c.State() != types.StateWalk {
		t.Fatalf("State: got %s, want walk", c.State())
	}
	if got := c.Body().Rect.X - startX; math.Abs(got-100) > 1e-6 {
		t.Errorf("distance after 1s: got %.4f, want 100", got)
	}
	if c.Body().Facing != types.FacingRight {
		t.Errorf("Facing: got %s, want right", c.Body().Facing)
	}
	if audio.count("play demon.walk") != 1 {
		t.Errorf("walk sound should start once, got %d", audio.count("play demon.walk"))
	}

	tick(c, newFakeInput(), dt)
	if c.State() != types.StateIdle {
		t.Errorf("State after release: got %s, want idle", c.State())
	}
	if audio.count("stop demon.walk") != 1 {
		t.Errorf("walk sound should stop on release, calls: %v", audio.calls)
	}
	if c.Body().Velocity.X != 0 {
		t.Errorf("Velocity.X: got %.1f, want 0", c.Body().Velocity.X)
	}
}

// TestDemon_HurtFreezesButPollsDamage 测试恶魔受伤期间冻结移动但仍响应伤害键
func TestDemon_HurtFreezesButPollsDamage(t *testing.T) {
	c := newTestCreature(t, "demon", nil)
	c.TakeDamage(10)
	x := c.Body().Rect.X

	in := newFakeInput().hold(types.ControlLeft).press(types.ControlDebugDamage)
	c.Move(in)
	c.ApplyVelocity(dt)

	if c.Body().Rect.X != x {
		t.Errorf("X moved while hurt: got %.2f, want %.2f", c.Body().Rect.X, x)
	}
	if c.Health() != 80 {
		t.Errorf("Health: got %d, want 80", c.Health())
	}
	if c.State() != types.StateHurt {
		t.Errorf("State: got %s, want hurt", c.State())
	}
}

// TestHurt_ReturnsToIdle 测试受伤动画播放完毕后回到待机
func TestHurt_ReturnsToIdle(t *testing.T) {
	p := loadProfile(t, "demon")
	hurt := FrameSequence{&fakeImage{w: 10, h: 10}, &fakeImage{w: 10, h: 10}, &fakeImage{w: 10, h: 10}}
	c := New(p, p.Spawn, map[types.State]FrameSet{types.StateHurt: hurt}, nil)

	if last := c.Animation(types.StateHurt).LastFrame; last != 2 {
		t.Fatalf("hurt LastFrame: got %d, want 2 (derived from frame count)", last)
	}

	c.TakeDamage(10)
	for i := 0; i < 2; i++ {
		c.UpdateAnimation(0.1)
	}
	if c.State() != types.StateHurt {
		t.Fatalf("State after 0.2s: got %s, want hurt", c.State())
	}
	c.UpdateAnimation(0.1)
	if c.State() != types.StateIdle {
		t.Errorf("State after 0.3s: got %s, want idle", c.State())
	}
}

// TestWerewolf_JumpAndLand 测试狼人跳跃与着地
func TestWerewolf_JumpAndLand(t *testing.T) {
	c := newTestCreature(t, "werewolf", nil)

	c.Move(newFakeInput().press(types.ControlJump))
	body := c.Body()
	if body.Velocity.Y != -400 {
		t.Errorf("Velocity.Y: got %.1f, want -400", body.Velocity.Y)
	}
	if c.State() != types.StateJump {
		t.Errorf("State: got %s, want jump", c.State())
	}
	if body.Grounded {
		t.Error("Grounded should be false after jumping")
	}

	// 空中不能再次起跳
	c.ApplyVelocity(dt)
	vy := c.Body().Velocity.Y
	c.Move(newFakeInput().press(types.ControlJump))
	if c.Body().Velocity.Y != vy {
		t.Errorf("double jump changed Velocity.Y: got %.2f, want %.2f", c.Body().Velocity.Y, vy)
	}

	landed := false
	peak := c.Body().Rect.Y
	for i := 0; i < 120; i++ {
		tick(c, newFakeInput(), dt)
		if y := c.Body().Rect.Y; y < peak {
			peak = y
		}
		if c.Body().Grounded {
			landed = true
			break
		}
	}

	if !landed {
		t.Fatal("werewolf never landed")
	}
	body = c.Body()
	if body.Rect.Y != 400 || body.Velocity.Y != 0 {
		t.Errorf("after landing: y=%.2f vy=%.2f, want 400/0", body.Rect.Y, body.Velocity.Y)
	}
	if c.State() != types.StateIdle {
		t.Errorf("State after landing: got %s, want idle", c.State())
	}
	// v²/(2g) = 400²/1600 = 100
	if rise := 400 - peak; rise < 90 || rise > 101 {
		t.Errorf("jump height: got %.2f, want about 100", rise)
	}
}

// TestWerewolf_IgnoresInputWhileHurt 测试狼人受伤期间不处理输入
func TestWerewolf_IgnoresInputWhileHurt(t *testing.T) {
	c := newTestCreature(t, "werewolf", nil)
	c.TakeDamage(10)

	c.Move(newFakeInput().hold(types.ControlRight).press(types.ControlJump).press(types.ControlDebugDamage))

	if c.State() != types.StateHurt {
		t.Errorf("State: got %s, want hurt", c.State())
	}
	if c.Body().Velocity != (types.Vector2{}) {
		t.Errorf("Velocity: got %+v, want zero", c.Body().Velocity)
	}
	if c.Health() != 90 {
		t.Errorf("Health: got %d, want 90", c.Health())
	}
}

// TestWerewolf_KeepsIntegratingWhileHurt 测试狼人受伤期间仍积分水平速度
func TestWerewolf_KeepsIntegratingWhileHurt(t *testing.T) {
	c := newTestCreature(t, "werewolf", nil)
	c.TakeDamage(10)
	if c.State() != types.StateHurt {
		t.Fatalf("State: got %s, want hurt", c.State())
	}

	snap := c.Snapshot()
	snap.Velocity = types.Vector2{X: 300}
	if err := c.Restore(snap); err != nil {
		t.Fatalf("Restore failed: %v", err)
	}

	startX := c.Body().Rect.X
	c.ApplyVelocity(0.1)

	body := c.Body()
	if !approx(body.Rect.X, startX+30) {
		t.Errorf("X while hurt: got %.2f, want %.2f", body.Rect.X, startX+30)
	}
	if body.Rect.Y != 400 || !body.Grounded {
		t.Errorf("should stay on the ground: y=%.2f grounded=%v", body.Rect.Y, body.Grounded)
	}
	if c.State() != types.StateHurt {
		t.Errorf("State: got %s, want hurt", c.State())
	}
}

// TestRepeatingAnimation_NeverFinishes 测试循环动画不会结束攻击也不会越界
func TestRepeatingAnimation_NeverFinishes(t *testing.T) {
	c := newTestCreature(t, "werewolf", nil)
	anim := c.CurrentAnimation()

	for i := 0; i < 1000; i++ {
		tick(c, newFakeInput(), dt)
		if anim.CurrentFrame < anim.FirstFrame || anim.CurrentFrame > anim.LastFrame {
			t.Fatalf("tick %d: frame %d outside [%d, %d]", i, anim.CurrentFrame, anim.FirstFrame, anim.LastFrame)
		}
		if anim.Finished {
			t.Fatalf("tick %d: repeating animation reported finished", i)
		}
	}
	if c.State() != types.StateIdle {
		t.Errorf("State: got %s, want idle", c.State())
	}
}

// TestDraw 测试绘制请求：精灵表切帧、缩放与翻转
func TestDraw(t *testing.T) {
	p := loadProfile(t, "goblin")
	sheet := &fakeImage{w: 700, h: 50}
	c := New(p, p.Spawn, map[types.State]FrameSet{
		types.StateIdle: SpriteSheet{Image: sheet, Frames: 7},
	}, nil)

	r := &recordingRenderer{}
	c.Animation(types.StateIdle).CurrentFrame = 3
	c.Draw(r)

	if len(r.draws) != 1 {
		t.Fatalf("draw calls: got %d, want 1", len(r.draws))
	}
	d := r.draws[0]
	if d.src.Min.X != 300 || d.src.Dx() != 100 || d.src.Dy() != 50 {
		t.Errorf("src: got %v, want x=300 w=100 h=50", d.src)
	}
	if d.dst.W != 128 || d.dst.H != 128 {
		t.Errorf("dst size: got %.0fx%.0f, want 128x128", d.dst.W, d.dst.H)
	}
	if d.flip {
		t.Error("goblin facing its native direction should not be flipped")
	}

	c.Move(newFakeInput().hold(types.ControlLeft))
	c.Move(newFakeInput())
	c.Draw(r)
	if !r.draws[len(r.draws)-1].flip {
		t.Error("goblin facing left should be flipped")
	}
}

// TestDraw_ClampsToAvailableFrames 测试实际帧数不足时使用最后一个可用帧
func TestDraw_ClampsToAvailableFrames(t *testing.T) {
	p := loadProfile(t, "goblin")
	sheet := &fakeImage{w: 300, h: 50}
	c := New(p, p.Spawn, map[types.State]FrameSet{
		types.StateIdle: SpriteSheet{Image: sheet, Frames: 3},
	}, nil)

	r := &recordingRenderer{}
	c.Animation(types.StateIdle).CurrentFrame = 6
	c.Draw(r)

	if len(r.draws) != 1 {
		t.Fatalf("draw calls: got %d, want 1", len(r.draws))
	}
	if got := r.draws[0].src.Min.X; got != 200 {
		t.Errorf("src.Min.X: got %d, want 200 (last available frame)", got)
	}

	// 没有任何帧的状态不绘制
	c.TakeDamage(100)
	c.Draw(r)
	if len(r.draws) != 1 {
		t.Errorf("state without frames should not draw, got %d calls", len(r.draws))
	}
}

// TestSnapshot_RoundTrip 测试快照恢复后轨迹与不中断运行一致
func TestSnapshot_RoundTrip(t *testing.T) {
	script := func(i int) types.Input {
		in := newFakeInput()
		switch {
		case i < 30:
			in.hold(types.ControlRight)
		case i == 35:
			in.press(types.ControlJump)
		case i > 40 && i < 60:
			in.hold(types.ControlLeft)
		case i == 80:
			in.press(types.ControlAttack2)
		case i == 100:
			in.press(types.ControlDebugDamage)
		}
		return in
	}

	for _, key := range []string{"demon", "goblin", "werewolf"} {
		t.Run(key, func(t *testing.T) {
			a := newTestCreature(t, key, nil)
			for i := 0; i < 38; i++ {
				tick(a, script(i), dt)
			}

			data, err := yaml.Marshal(a.Snapshot())
			if err != nil {
				t.Fatalf("yaml.Marshal: %v", err)
			}
			var snap Snapshot
			if err := yaml.Unmarshal(data, &snap); err != nil {
				t.Fatalf("yaml.Unmarshal: %v", err)
			}

			b := newTestCreature(t, key, nil)
			if err := b.Restore(snap); err != nil {
				t.Fatalf("Restore: %v", err)
			}

			for i := 38; i < 150; i++ {
				tick(a, script(i), dt)
				tick(b, script(i), dt)
				if !reflect.DeepEqual(a.Snapshot(), b.Snapshot()) {
					t.Fatalf("tick %d: trajectories diverged\n got: %+v\nwant: %+v", i, b.Snapshot(), a.Snapshot())
				}
			}
		})
	}
}

// TestRestore_Rejects 测试非法快照
func TestRestore_Rejects(t *testing.T) {
	c := newTestCreature(t, "goblin", nil)
	good := c.Snapshot()

	wrongCreature := good
	wrongCreature.Creature = "demon"
	if err := c.Restore(wrongCreature); err == nil {
		t.Error("Expected error for snapshot of another creature")
	}

	missingState := good
	missingState.State = types.StateHurt
	if err := c.Restore(missingState); err == nil {
		t.Error("Expected error for a state the goblin does not have")
	}

	contradiction := good
	contradiction.Dead = true
	if err := c.Restore(contradiction); err == nil {
		t.Error("Expected error for dead flag outside the dead state")
	}
}

// TestClose_ReleasesResources 测试释放帧图像与音效
func TestClose_ReleasesResources(t *testing.T) {
	p := loadProfile(t, "goblin")
	shared := &fakeImage{w: 1000, h: 50}
	idle := &fakeImage{w: 700, h: 50}
	audio := &recordingAudio{}
	c := New(p, p.Spawn, map[types.State]FrameSet{
		types.StateAttackClub:  SpriteSheet{Image: shared, Frames: 10},
		types.StateAttackStomp: SpriteSheet{Image: shared, Frames: 10},
		types.StateIdle:        SpriteSheet{Image: idle, Frames: 7},
	}, audio)

	c.Move(newFakeInput().hold(types.ControlRight))
	c.Close()

	if shared.deallocated != 1 {
		t.Errorf("shared sheet deallocated %d times, want 1", shared.deallocated)
	}
	if idle.deallocated != 1 {
		t.Errorf("idle sheet deallocated %d times, want 1", idle.deallocated)
	}
	if audio.count("stop goblin.walk") != 1 {
		t.Errorf("Close should stop the walk sound, calls: %v", audio.calls)
	}
	if len(audio.released) != len(p.Sounds) {
		t.Errorf("released sounds: got %v, want %d", audio.released, len(p.Sounds))
	}

	// 释放后绘制不再产生请求
	r := &recordingRenderer{}
	c.Draw(r)
	if len(r.draws) != 0 {
		t.Errorf("draw after Close: got %d calls, want 0", len(r.draws))
	}
}
