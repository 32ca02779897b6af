package envs

// ObtainDiamondTask pays each milestone of the tool chain once per episode and
// ends when a diamond is collected.
type ObtainDiamondTask struct {
	Steps int

	rewarded [numItems]bool
}

var obtainDiamondRewards = map[Item]float64{
	ItemLog:           1,
	ItemPlanks:        2,
	ItemStick:         4,
	ItemCraftingTable: 4,
	ItemWoodenPickaxe: 8,
	ItemCobblestone:   16,
	ItemFurnace:       32,
	ItemStonePickaxe:  32,
	ItemIronOre:       64,
	ItemIronIngot:     128,
	ItemIronPickaxe:   256,
	ItemDiamond:       1024,
}

func (t *ObtainDiamondTask) Name() string { return "obtain_diamond" }

func (t *ObtainDiamondTask) MaxSteps() int { return t.Steps }

func (t *ObtainDiamondTask) WorldConfig(base WorldConfig) WorldConfig {
	return base
}

func (t *ObtainDiamondTask) Reset(_ *VoxelEnv) {
	t.rewarded = [numItems]bool{}
}

func (t *ObtainDiamondTask) Reward(env *VoxelEnv, gained Inventory) (float64, bool) {
	reward := 0.0
	for item, n := range gained {
		if n == 0 || t.rewarded[item] {
			continue
		}
		if r, ok := obtainDiamondRewards[Item(item)]; ok {
			reward += r
			t.rewarded[item] = true
		}
	}
	return reward, env.Inventory()[ItemDiamond] > 0
}

// TreechopTask pays one per log and ends once Target logs are held.
type TreechopTask struct {
	Steps  int
	Target int
}

func (t *TreechopTask) Name() string { return "treechop" }

func (t *TreechopTask) MaxSteps() int { return t.Steps }

func (t *TreechopTask) WorldConfig(base WorldConfig) WorldConfig {
	base.Trees = base.Trees * 2
	return base
}

func (t *TreechopTask) Reset(_ *VoxelEnv) {}

func (t *TreechopTask) Reward(env *VoxelEnv, gained Inventory) (float64, bool) {
	return float64(gained[ItemLog]), env.Inventory()[ItemLog] >= t.Target
}

// NavigateTask pays the reduction in distance to the goal block each step and
// a bonus on reaching it.
type NavigateTask struct {
	Steps int
	Bonus float64

	lastDistance float64
}

func (t *NavigateTask) Name() string { return "navigate" }

func (t *NavigateTask) MaxSteps() int { return t.Steps }

func (t *NavigateTask) WorldConfig(base WorldConfig) WorldConfig {
	base.GoalBlock = true
	return base
}

func (t *NavigateTask) Reset(env *VoxelEnv) {
	t.lastDistance = horizontalDistance(env.Position(), env.World().GoalAt)
}

func (t *NavigateTask) Reward(env *VoxelEnv, _ Inventory) (float64, bool) {
	d := horizontalDistance(env.Position(), env.World().GoalAt)
	reward := t.lastDistance - d
	t.lastDistance = d
	if d == 0 {
		return reward + t.Bonus, true
	}
	return reward, false
}
