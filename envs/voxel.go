package envs

import (
	"fmt"
	"io"
	"math"

	"github.com/zeu5/minebot/core"
)

type Item int

const (
	ItemLog Item = iota
	ItemPlanks
	ItemStick
	ItemCraftingTable
	ItemWoodenPickaxe
	ItemCobblestone
	ItemCoal
	ItemFurnace
	ItemStonePickaxe
	ItemIronOre
	ItemIronIngot
	ItemIronPickaxe
	ItemDiamond
	numItems
)

var itemNames = [numItems]string{
	"log", "planks", "stick", "crafting_table", "wooden_pickaxe", "cobblestone",
	"coal", "furnace", "stone_pickaxe", "iron_ore", "iron_ingot", "iron_pickaxe", "diamond",
}

func (i Item) String() string {
	if i < 0 || i >= numItems {
		return "unknown"
	}
	return itemNames[i]
}

type Inventory [numItems]int

const (
	ActionNorth core.Action = iota
	ActionSouth
	ActionEast
	ActionWest
	ActionAttack
	ActionAttackDown
	ActionCraftPlanks
	ActionCraftStick
	ActionCraftTable
	ActionCraftWoodenPickaxe
	ActionCraftStonePickaxe
	ActionCraftFurnace
	ActionSmeltIron
	ActionCraftIronPickaxe
	numActions
)

// Task scores an episode in the voxel world.
type Task interface {
	Name() string
	MaxSteps() int
	WorldConfig(base WorldConfig) WorldConfig
	Reset(env *VoxelEnv)
	// Reward is called after every step with the items gained during that step.
	Reward(env *VoxelEnv, gained Inventory) (float64, bool)
}

// VoxelEnv is a small Minecraft-like world: the agent walks, mines with the
// right tools, crafts up the tool chain and is scored by its Task.
type VoxelEnv struct {
	// Colors enables ANSI colors in Render.
	Colors bool

	id   string
	task Task
	cfg  WorldConfig

	world     *World
	pos       Vec3
	facing    int
	inventory Inventory
	t         int
	total     float64
	lastEvent string
	closed    bool
}

var _ core.Environment = &VoxelEnv{}

func NewVoxelEnv(id string, task Task, cfg WorldConfig) *VoxelEnv {
	return &VoxelEnv{
		id:   id,
		task: task,
		cfg:  task.WorldConfig(cfg),
	}
}

// 27 neighbourhood cells, 3 position features, 4 facing flags, inventory counts
// and 2 goal-direction features.
const voxelObservationSize = 27 + 3 + 4 + int(numItems) + 2

func (e *VoxelEnv) Spec() core.EnvSpec {
	return core.EnvSpec{
		ObservationSize: voxelObservationSize,
		ActionCount:     int(numActions),
		MaxEpisodeSteps: e.task.MaxSteps(),
	}
}

func (e *VoxelEnv) Reset() (core.Observation, error) {
	if e.closed {
		return nil, ErrClosed
	}
	e.world = GenerateWorld(e.cfg)
	e.pos = e.world.Spawn
	e.fall()
	e.facing = 0
	e.inventory = Inventory{}
	e.t = 0
	e.total = 0
	e.lastEvent = "reset"
	e.task.Reset(e)
	return e.observe(), nil
}

func (e *VoxelEnv) Step(a core.Action) (core.StepResult, error) {
	if e.closed {
		return core.StepResult{}, ErrClosed
	}
	if e.world == nil {
		return core.StepResult{}, ErrNotReset
	}
	if a < 0 || a >= numActions {
		return core.StepResult{}, fmt.Errorf("action %d out of range [0, %d)", a, numActions)
	}
	before := e.inventory
	e.apply(a)
	e.t++

	var gained Inventory
	for i := range gained {
		if d := e.inventory[i] - before[i]; d > 0 {
			gained[i] = d
		}
	}
	reward, done := e.task.Reward(e, gained)
	if e.t >= e.task.MaxSteps() {
		done = true
	}
	e.total += reward
	return core.StepResult{
		Observation: e.observe(),
		Reward:      reward,
		Done:        done,
		Info: map[string]interface{}{
			"step":     e.t,
			"event":    e.lastEvent,
			"position": e.pos,
		},
	}, nil
}

func (e *VoxelEnv) Close() error {
	e.closed = true
	return nil
}

func (e *VoxelEnv) Render(w io.Writer) error {
	if e.world == nil {
		return ErrNotReset
	}
	return renderVoxel(w, e)
}

func (e *VoxelEnv) Inventory() Inventory {
	return e.inventory
}

func (e *VoxelEnv) Position() Vec3 {
	return e.pos
}

func (e *VoxelEnv) World() *World {
	return e.world
}

func (e *VoxelEnv) apply(a core.Action) {
	switch a {
	case ActionNorth, ActionSouth, ActionEast, ActionWest:
		e.facing = int(a)
		e.move(directions[e.facing])
	case ActionAttack:
		front := e.pos.Add(directions[e.facing])
		if e.world.Get(front) == Air {
			front = front.Add(Vec3{0, -1, 0})
		}
		e.mine(front)
	case ActionAttackDown:
		e.mine(e.pos.Add(Vec3{0, -1, 0}))
		e.fall()
	case ActionCraftPlanks:
		e.craft("planks", nil, Inventory{ItemLog: 1}, ItemPlanks, 4)
	case ActionCraftStick:
		e.craft("stick", nil, Inventory{ItemPlanks: 2}, ItemStick, 4)
	case ActionCraftTable:
		e.craft("crafting_table", nil, Inventory{ItemPlanks: 4}, ItemCraftingTable, 1)
	case ActionCraftWoodenPickaxe:
		e.craft("wooden_pickaxe", []Item{ItemCraftingTable}, Inventory{ItemPlanks: 3, ItemStick: 2}, ItemWoodenPickaxe, 1)
	case ActionCraftStonePickaxe:
		e.craft("stone_pickaxe", []Item{ItemCraftingTable}, Inventory{ItemCobblestone: 3, ItemStick: 2}, ItemStonePickaxe, 1)
	case ActionCraftFurnace:
		e.craft("furnace", []Item{ItemCraftingTable}, Inventory{ItemCobblestone: 8}, ItemFurnace, 1)
	case ActionSmeltIron:
		e.craft("iron_ingot", []Item{ItemFurnace}, Inventory{ItemIronOre: 1, ItemCoal: 1}, ItemIronIngot, 1)
	case ActionCraftIronPickaxe:
		e.craft("iron_pickaxe", []Item{ItemCraftingTable}, Inventory{ItemIronIngot: 3, ItemStick: 2}, ItemIronPickaxe, 1)
	}
}

// move walks one block, stepping up a single block when the way is blocked
// and the space above is free.
func (e *VoxelEnv) move(d Vec3) {
	target := e.pos.Add(d)
	switch {
	case !e.world.Get(target).Solid():
		e.pos = target
		e.lastEvent = "move"
	case !e.world.Get(target.Add(Vec3{0, 1, 0})).Solid() && !e.world.Get(e.pos.Add(Vec3{0, 1, 0})).Solid():
		e.pos = target.Add(Vec3{0, 1, 0})
		e.lastEvent = "climb"
	default:
		e.lastEvent = "blocked"
		return
	}
	if e.world.Get(e.pos) == Goal {
		e.lastEvent = "goal"
	}
	e.fall()
}

func (e *VoxelEnv) fall() {
	for e.pos.Y > 0 && !e.world.Get(e.pos.Add(Vec3{0, -1, 0})).Solid() {
		e.pos = e.pos.Add(Vec3{0, -1, 0})
	}
}

// harvest lists what mining a block yields and the pickaxe it needs.
func harvest(b Block) (Item, []Item, bool) {
	switch b {
	case Log:
		return ItemLog, nil, true
	case Dirt, Grass, Leaves:
		return -1, nil, true
	case Stone:
		return ItemCobblestone, []Item{ItemWoodenPickaxe, ItemStonePickaxe, ItemIronPickaxe}, true
	case CoalOre:
		return ItemCoal, []Item{ItemWoodenPickaxe, ItemStonePickaxe, ItemIronPickaxe}, true
	case IronOre:
		return ItemIronOre, []Item{ItemStonePickaxe, ItemIronPickaxe}, true
	case DiamondOre:
		return ItemDiamond, []Item{ItemIronPickaxe}, true
	default:
		return -1, nil, false
	}
}

func (e *VoxelEnv) mine(p Vec3) {
	block := e.world.Get(p)
	item, tools, ok := harvest(block)
	if !ok || block == Air {
		e.lastEvent = "swing"
		return
	}
	if len(tools) > 0 && !e.hasAny(tools) {
		e.lastEvent = "need_tool:" + block.String()
		return
	}
	e.world.Set(p, Air)
	if item >= 0 {
		e.inventory[item]++
	}
	e.lastEvent = "mined:" + block.String()
}

func (e *VoxelEnv) hasAny(items []Item) bool {
	for _, it := range items {
		if e.inventory[it] > 0 {
			return true
		}
	}
	return false
}

// craft consumes cost and adds count of out. Stations are checked in the
// inventory; placing them in the world is not modelled.
func (e *VoxelEnv) craft(name string, stations []Item, cost Inventory, out Item, count int) {
	for _, s := range stations {
		if e.inventory[s] == 0 {
			e.lastEvent = "need_station:" + name
			return
		}
	}
	for i, c := range cost {
		if e.inventory[i] < c {
			e.lastEvent = "missing_items:" + name
			return
		}
	}
	for i, c := range cost {
		e.inventory[i] -= c
	}
	e.inventory[out] += count
	e.lastEvent = "crafted:" + name
}

func (e *VoxelEnv) observe() core.Observation {
	obs := make(core.Observation, 0, voxelObservationSize)
	for dx := -1; dx <= 1; dx++ {
		for dy := -1; dy <= 1; dy++ {
			for dz := -1; dz <= 1; dz++ {
				b := e.world.Get(e.pos.Add(Vec3{dx, dy, dz}))
				obs = append(obs, float64(b)/float64(numBlocks-1))
			}
		}
	}
	obs = append(obs,
		float64(e.pos.X)/float64(e.cfg.Width-1),
		float64(e.pos.Y)/float64(e.cfg.Height-1),
		float64(e.pos.Z)/float64(e.cfg.Depth-1),
	)
	for i := 0; i < 4; i++ {
		if i == e.facing {
			obs = append(obs, 1)
		} else {
			obs = append(obs, 0)
		}
	}
	for _, c := range e.inventory {
		obs = append(obs, math.Min(float64(c), 64)/64)
	}
	if e.cfg.GoalBlock {
		obs = append(obs,
			float64(e.world.GoalAt.X-e.pos.X)/float64(e.cfg.Width),
			float64(e.world.GoalAt.Z-e.pos.Z)/float64(e.cfg.Depth),
		)
	} else {
		obs = append(obs, 0, 0)
	}
	return obs
}
