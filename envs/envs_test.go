package envs

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zeu5/minebot/core"
)

func newObtainDiamond(t *testing.T) *VoxelEnv {
	t.Helper()
	env := NewVoxelEnv(ObtainDiamondID, &ObtainDiamondTask{Steps: 50}, DefaultWorldConfig())
	_, err := env.Reset()
	require.NoError(t, err)
	return env
}

// placeAhead puts b directly north of the agent.
func placeAhead(env *VoxelEnv, b Block) {
	env.facing = 0
	env.world.Set(env.pos.Add(directions[0]), b)
}

func TestGenerateWorldIsDeterministic(t *testing.T) {
	cfg := DefaultWorldConfig()
	a := GenerateWorld(cfg)
	b := GenerateWorld(cfg)
	assert.Equal(t, a.blocks, b.blocks)
	assert.Equal(t, a.Spawn, b.Spawn)

	cfg.Seed = 42
	c := GenerateWorld(cfg)
	assert.NotEqual(t, a.blocks, c.blocks)

	assert.Positive(t, a.Count(Log))
	assert.Equal(t, cfg.Width*cfg.Depth, a.Count(Bedrock))
}

func TestResetReplaysTheSameWorld(t *testing.T) {
	env := newObtainDiamond(t)
	first, err := env.Reset()
	require.NoError(t, err)
	_, err = env.Step(ActionAttackDown)
	require.NoError(t, err)
	second, err := env.Reset()
	require.NoError(t, err)
	assert.Equal(t, first, second)
	assert.Len(t, first, env.Spec().ObservationSize)
}

func TestStepBeforeResetFails(t *testing.T) {
	env := NewVoxelEnv(ObtainDiamondID, &ObtainDiamondTask{Steps: 5}, DefaultWorldConfig())
	_, err := env.Step(ActionNorth)
	assert.ErrorIs(t, err, ErrNotReset)

	_, err = env.Reset()
	require.NoError(t, err)
	_, err = env.Step(numActions)
	assert.Error(t, err)

	require.NoError(t, env.Close())
	_, err = env.Step(ActionNorth)
	assert.ErrorIs(t, err, ErrClosed)
	_, err = env.Reset()
	assert.ErrorIs(t, err, ErrClosed)
}

func TestMiningRequiresTools(t *testing.T) {
	env := newObtainDiamond(t)

	placeAhead(env, Stone)
	res, err := env.Step(ActionAttack)
	require.NoError(t, err)
	assert.Equal(t, "need_tool:stone", res.Info["event"])
	assert.Zero(t, env.Inventory()[ItemCobblestone])

	env.inventory[ItemWoodenPickaxe] = 1
	res, err = env.Step(ActionAttack)
	require.NoError(t, err)
	assert.Equal(t, "mined:stone", res.Info["event"])
	assert.Equal(t, 1, env.Inventory()[ItemCobblestone])
	assert.Equal(t, 16.0, res.Reward)

	placeAhead(env, IronOre)
	res, err = env.Step(ActionAttack)
	require.NoError(t, err)
	assert.Equal(t, "need_tool:iron_ore", res.Info["event"])
}

func TestObtainDiamondMilestonesPayOnce(t *testing.T) {
	env := newObtainDiamond(t)

	for i, want := range []float64{1, 0, 0} {
		placeAhead(env, Log)
		res, err := env.Step(ActionAttack)
		require.NoError(t, err)
		assert.Equal(t, want, res.Reward, "log %d", i)
	}
	assert.Equal(t, 3, env.Inventory()[ItemLog])

	for i, want := range []float64{2, 0, 0} {
		res, err := env.Step(ActionCraftPlanks)
		require.NoError(t, err)
		assert.Equal(t, want, res.Reward, "planks %d", i)
	}
	assert.Equal(t, 12, env.Inventory()[ItemPlanks])

	res, err := env.Step(ActionCraftWoodenPickaxe)
	require.NoError(t, err)
	assert.Equal(t, "need_station:wooden_pickaxe", res.Info["event"])

	res, err = env.Step(ActionCraftTable)
	require.NoError(t, err)
	assert.Equal(t, 4.0, res.Reward)
	res, err = env.Step(ActionCraftStick)
	require.NoError(t, err)
	assert.Equal(t, 4.0, res.Reward)
	res, err = env.Step(ActionCraftWoodenPickaxe)
	require.NoError(t, err)
	assert.Equal(t, 8.0, res.Reward)
	assert.False(t, res.Done)
	assert.Equal(t, 3, env.Inventory()[ItemPlanks])
	assert.Equal(t, 2, env.Inventory()[ItemStick])
}

func TestObtainDiamondEndsOnDiamond(t *testing.T) {
	env := newObtainDiamond(t)
	env.inventory[ItemIronPickaxe] = 1
	placeAhead(env, DiamondOre)

	res, err := env.Step(ActionAttack)
	require.NoError(t, err)
	assert.Equal(t, 1024.0, res.Reward)
	assert.True(t, res.Done)
}

func TestSmeltingNeedsFurnace(t *testing.T) {
	env := newObtainDiamond(t)
	env.inventory[ItemIronOre] = 1
	env.inventory[ItemCoal] = 1

	res, err := env.Step(ActionSmeltIron)
	require.NoError(t, err)
	assert.Equal(t, "need_station:iron_ingot", res.Info["event"])

	env.inventory[ItemFurnace] = 1
	res, err = env.Step(ActionSmeltIron)
	require.NoError(t, err)
	assert.Equal(t, 128.0, res.Reward)
	assert.Equal(t, 1, env.Inventory()[ItemIronIngot])
	assert.Zero(t, env.Inventory()[ItemIronOre])
}

func TestEpisodeEndsAtStepLimit(t *testing.T) {
	env := NewVoxelEnv(ObtainDiamondID, &ObtainDiamondTask{Steps: 3}, DefaultWorldConfig())
	_, err := env.Reset()
	require.NoError(t, err)
	for i := 0; i < 2; i++ {
		res, err := env.Step(ActionAttackDown)
		require.NoError(t, err)
		assert.False(t, res.Done)
	}
	res, err := env.Step(ActionAttackDown)
	require.NoError(t, err)
	assert.True(t, res.Done)
}

func TestTreechopCountsLogs(t *testing.T) {
	env := NewVoxelEnv(TreechopID, &TreechopTask{Steps: 20, Target: 2}, DefaultWorldConfig())
	_, err := env.Reset()
	require.NoError(t, err)

	placeAhead(env, Log)
	res, err := env.Step(ActionAttack)
	require.NoError(t, err)
	assert.Equal(t, 1.0, res.Reward)
	assert.False(t, res.Done)

	placeAhead(env, Log)
	res, err = env.Step(ActionAttack)
	require.NoError(t, err)
	assert.Equal(t, 1.0, res.Reward)
	assert.True(t, res.Done)
}

func TestNavigateRewardsReachingGoal(t *testing.T) {
	task := &NavigateTask{Steps: 20, Bonus: 100}
	env := NewVoxelEnv(NavigateID, task, DefaultWorldConfig())
	_, err := env.Reset()
	require.NoError(t, err)

	goal := env.World().GoalAt
	assert.Equal(t, Goal, env.World().Get(goal))

	action, from := ActionEast, Vec3{goal.X - 1, goal.Y, goal.Z}
	if goal.X == 0 {
		action, from = ActionWest, Vec3{goal.X + 1, goal.Y, goal.Z}
	}
	env.world.Set(from, Air)
	env.world.Set(from.Add(Vec3{0, 1, 0}), Air)
	env.pos = from
	task.Reset(env)

	res, err := env.Step(action)
	require.NoError(t, err)
	assert.Equal(t, "goal", res.Info["event"])
	assert.Equal(t, 101.0, res.Reward)
	assert.True(t, res.Done)
}

func TestGoalPlacedInSmallWorld(t *testing.T) {
	cfg := DefaultWorldConfig()
	cfg.Width, cfg.Depth = 4, 4
	cfg.Trees = 1
	env := NewVoxelEnv(NavigateID, &NavigateTask{Steps: 10, Bonus: 100}, cfg)

	_, err := env.Reset()
	require.NoError(t, err)
	w := env.World()
	assert.Equal(t, 1, w.Count(Goal))
	assert.Equal(t, Goal, w.Get(w.GoalAt))
	assert.NotEqual(t, w.Spawn, w.GoalAt)
	assert.Equal(t, 4.0, horizontalDistance(w.GoalAt, w.Spawn))
	assert.Equal(t, Vec3{0, cfg.SurfaceY + 1, 0}, w.GoalAt)
}

func TestRenderWritesFrame(t *testing.T) {
	env := newObtainDiamond(t)
	var buf bytes.Buffer
	require.NoError(t, env.Render(&buf))
	assert.Contains(t, buf.String(), "@")
	assert.Contains(t, buf.String(), "inventory: empty")
	assert.NotContains(t, buf.String(), "\x1b[")

	env.inventory[ItemLog] = 3
	env.Colors = true
	buf.Reset()
	require.NoError(t, env.Render(&buf))
	assert.Contains(t, buf.String(), "log=3")
	assert.Contains(t, buf.String(), "\x1b[")
}

func TestRegistry(t *testing.T) {
	r := NewRegistry(Options{Seed: 3})
	assert.Equal(t, []string{CartPoleLiteID, NavigateID, ObtainDiamondID, TreechopID}, r.IDs())

	_, err := r.NewEnvironment("Nope-v0", "", 25565)
	assert.ErrorIs(t, err, ErrUnknownEnvironment)

	for _, id := range r.IDs() {
		env, err := r.NewEnvironment(id, "example.org", 1)
		require.NoError(t, err, id)
		obs, err := env.Reset()
		require.NoError(t, err, id)
		assert.Len(t, obs, env.Spec().ObservationSize, id)
		require.NoError(t, env.Close())
	}

	env, err := Make(ObtainDiamondID, "", 25565)
	require.NoError(t, err)
	assert.Equal(t, int(numActions), env.Spec().ActionCount)
}

func TestCartPoleLite(t *testing.T) {
	env := NewCartPoleLiteEnv(7, 10)
	first, err := env.Reset()
	require.NoError(t, err)
	again, err := env.Reset()
	require.NoError(t, err)
	assert.Equal(t, first, again)

	steps := 0
	for {
		res, err := env.Step(core.Action(2))
		require.NoError(t, err)
		steps++
		assert.GreaterOrEqual(t, res.Reward, 0.0)
		assert.LessOrEqual(t, res.Reward, 1.0)
		if res.Done {
			break
		}
	}
	assert.LessOrEqual(t, steps, 10)

	_, err = env.Step(core.Action(3))
	assert.Error(t, err)

	var buf bytes.Buffer
	require.NoError(t, env.Render(&buf))
	assert.Contains(t, buf.String(), "#")

	require.NoError(t, env.Close())
	_, err = env.Reset()
	assert.ErrorIs(t, err, ErrClosed)
}

func TestCartPoleLitePhysics(t *testing.T) {
	x, v, r := cartPoleLiteStep(0, 0, 5)
	assert.InDelta(t, 0.0125, x, 1e-12)
	assert.InDelta(t, 0.125, v, 1e-12)
	assert.InDelta(t, 1-0.0125/2, r, 1e-12)

	_, _, r = cartPoleLiteStep(4, 0, 0)
	assert.Zero(t, r)
}
