package envs

import "math/rand"

type Block uint8

const (
	Air Block = iota
	Dirt
	Grass
	Stone
	Log
	Leaves
	CoalOre
	IronOre
	DiamondOre
	Bedrock
	Goal
	numBlocks
)

func (b Block) Solid() bool {
	return b != Air && b != Leaves && b != Goal
}

func (b Block) String() string {
	switch b {
	case Air:
		return "air"
	case Dirt:
		return "dirt"
	case Grass:
		return "grass"
	case Stone:
		return "stone"
	case Log:
		return "log"
	case Leaves:
		return "leaves"
	case CoalOre:
		return "coal_ore"
	case IronOre:
		return "iron_ore"
	case DiamondOre:
		return "diamond_ore"
	case Bedrock:
		return "bedrock"
	case Goal:
		return "goal"
	default:
		return "unknown"
	}
}

// Vec3 is a block position; Y grows upward.
type Vec3 struct {
	X, Y, Z int
}

func (v Vec3) Add(o Vec3) Vec3 {
	return Vec3{v.X + o.X, v.Y + o.Y, v.Z + o.Z}
}

type WorldConfig struct {
	Width  int
	Height int
	Depth  int
	Seed   int64

	Trees       int
	CoalVeins   int
	IronVeins   int
	Diamonds    int
	SurfaceY    int
	GoalBlock   bool
	GoalMinDist int
}

func DefaultWorldConfig() WorldConfig {
	return WorldConfig{
		Width:       16,
		Height:      10,
		Depth:       16,
		Seed:        1,
		Trees:       6,
		CoalVeins:   6,
		IronVeins:   4,
		Diamonds:    2,
		SurfaceY:    5,
		GoalMinDist: 6,
	}
}

// World is a dense voxel grid indexed [x][y][z].
type World struct {
	cfg    WorldConfig
	blocks []Block
	Spawn  Vec3
	GoalAt Vec3
}

// GenerateWorld lays out bedrock, stone with ore veins, dirt and grass, then
// plants trees. The same config always yields the same world.
func GenerateWorld(cfg WorldConfig) *World {
	r := rand.New(rand.NewSource(cfg.Seed))
	w := &World{
		cfg:    cfg,
		blocks: make([]Block, cfg.Width*cfg.Height*cfg.Depth),
	}
	for x := 0; x < cfg.Width; x++ {
		for z := 0; z < cfg.Depth; z++ {
			w.Set(Vec3{x, 0, z}, Bedrock)
			for y := 1; y < cfg.SurfaceY-1; y++ {
				w.Set(Vec3{x, y, z}, Stone)
			}
			w.Set(Vec3{x, cfg.SurfaceY - 1, z}, Dirt)
			w.Set(Vec3{x, cfg.SurfaceY, z}, Grass)
		}
	}

	vein := func(block Block, minY, maxY, size int) {
		p := Vec3{r.Intn(cfg.Width), minY + r.Intn(maxY-minY+1), r.Intn(cfg.Depth)}
		for i := 0; i < size; i++ {
			if w.Get(p) == Stone {
				w.Set(p, block)
			}
			p = p.Add(directions[r.Intn(len(directions))])
			if p.Y < minY || p.Y > maxY || !w.InBounds(p) {
				return
			}
		}
	}
	for i := 0; i < cfg.CoalVeins; i++ {
		vein(CoalOre, 2, cfg.SurfaceY-2, 4)
	}
	for i := 0; i < cfg.IronVeins; i++ {
		vein(IronOre, 1, cfg.SurfaceY-3, 3)
	}
	for i := 0; i < cfg.Diamonds; i++ {
		vein(DiamondOre, 1, 1, 1)
	}

	center := Vec3{cfg.Width / 2, cfg.SurfaceY + 1, cfg.Depth / 2}
	for i := 0; i < cfg.Trees; i++ {
		x, z := 1+r.Intn(cfg.Width-2), 1+r.Intn(cfg.Depth-2)
		if x == center.X && z == center.Z {
			continue
		}
		w.plantTree(Vec3{x, cfg.SurfaceY + 1, z})
	}
	w.Spawn = center

	if cfg.GoalBlock {
		w.placeGoal(r, center)
	}
	return w
}

// placeGoal tries random surface cells at least GoalMinDist away from center
// and falls back to the farthest free surface cell when none is found.
func (w *World) placeGoal(r *rand.Rand, center Vec3) {
	const attempts = 256
	y := w.cfg.SurfaceY + 1
	for i := 0; i < attempts; i++ {
		g := Vec3{r.Intn(w.cfg.Width), y, r.Intn(w.cfg.Depth)}
		if g != center && horizontalDistance(g, center) >= float64(w.cfg.GoalMinDist) && w.Get(g) == Air {
			w.Set(g, Goal)
			w.GoalAt = g
			return
		}
	}

	best, found := Vec3{}, false
	for x := 0; x < w.cfg.Width; x++ {
		for z := 0; z < w.cfg.Depth; z++ {
			g := Vec3{x, y, z}
			if g == center || w.Get(g) != Air {
				continue
			}
			if !found || horizontalDistance(g, center) > horizontalDistance(best, center) {
				best, found = g, true
			}
		}
	}
	if !found {
		best = Vec3{0, y, 0}
	}
	w.Set(best, Goal)
	w.GoalAt = best
}

func (w *World) plantTree(base Vec3) {
	trunk := 3
	for i := 0; i < trunk; i++ {
		p := base.Add(Vec3{0, i, 0})
		if w.InBounds(p) {
			w.Set(p, Log)
		}
	}
	top := base.Add(Vec3{0, trunk, 0})
	for _, d := range append([]Vec3{{0, 0, 0}}, directions[:4]...) {
		p := top.Add(d)
		if w.InBounds(p) && w.Get(p) == Air {
			w.Set(p, Leaves)
		}
	}
}

func (w *World) InBounds(p Vec3) bool {
	return p.X >= 0 && p.X < w.cfg.Width &&
		p.Y >= 0 && p.Y < w.cfg.Height &&
		p.Z >= 0 && p.Z < w.cfg.Depth
}

// Get returns Bedrock outside the world so that edges act as walls.
func (w *World) Get(p Vec3) Block {
	if !w.InBounds(p) {
		return Bedrock
	}
	return w.blocks[w.index(p)]
}

func (w *World) Set(p Vec3, b Block) {
	if w.InBounds(p) {
		w.blocks[w.index(p)] = b
	}
}

func (w *World) index(p Vec3) int {
	return (p.X*w.cfg.Height+p.Y)*w.cfg.Depth + p.Z
}

// Surface is the y of the highest solid block in the column, or -1.
func (w *World) Surface(x, z int) int {
	for y := w.cfg.Height - 1; y >= 0; y-- {
		if w.Get(Vec3{x, y, z}).Solid() {
			return y
		}
	}
	return -1
}

func (w *World) Count(b Block) int {
	n := 0
	for _, v := range w.blocks {
		if v == b {
			n++
		}
	}
	return n
}

// directions holds the four horizontal moves (north, south, east, west) then down and up.
var directions = []Vec3{
	{0, 0, -1},
	{0, 0, 1},
	{1, 0, 0},
	{-1, 0, 0},
	{0, -1, 0},
	{0, 1, 0},
}

func horizontalDistance(a, b Vec3) float64 {
	dx := float64(a.X - b.X)
	dz := float64(a.Z - b.Z)
	if dx < 0 {
		dx = -dx
	}
	if dz < 0 {
		dz = -dz
	}
	return dx + dz
}
