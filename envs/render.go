package envs

import (
	"fmt"
	"io"
	"strings"

	"github.com/logrusorgru/aurora"
)

var blockGlyphs = map[Block]string{
	Air:        " ",
	Dirt:       ".",
	Grass:      ",",
	Stone:      "#",
	Log:        "T",
	Leaves:     "*",
	CoalOre:    "c",
	IronOre:    "i",
	DiamondOre: "D",
	Bedrock:    "=",
	Goal:       "G",
}

func colorBlock(au aurora.Aurora, b Block) aurora.Value {
	g := blockGlyphs[b]
	switch b {
	case Grass, Leaves:
		return au.Green(g)
	case Log:
		return au.Yellow(g)
	case Stone, Bedrock:
		return au.Gray(12, g)
	case CoalOre:
		return au.Black(g)
	case IronOre:
		return au.Red(g)
	case DiamondOre:
		return au.Cyan(g)
	case Goal:
		return au.Magenta(g)
	default:
		return au.Reset(g)
	}
}

// topBlock is the highest non-air block of a column.
func (w *World) topBlock(x, z int) Block {
	for y := w.cfg.Height - 1; y >= 0; y-- {
		if b := w.Get(Vec3{x, y, z}); b != Air {
			return b
		}
	}
	return Air
}

// renderVoxel draws a top-down frame of the world with the agent as '@'
// followed by a status line and the non-empty inventory.
func renderVoxel(w io.Writer, e *VoxelEnv) error {
	au := aurora.NewAurora(e.Colors)
	var b strings.Builder
	for z := 0; z < e.cfg.Depth; z++ {
		for x := 0; x < e.cfg.Width; x++ {
			if x == e.pos.X && z == e.pos.Z {
				b.WriteString(au.Bold(au.BrightWhite("@")).String())
				continue
			}
			b.WriteString(colorBlock(au, e.world.topBlock(x, z)).String())
		}
		b.WriteByte('\n')
	}
	fmt.Fprintf(&b, "%s t=%d pos=(%d,%d,%d) reward=%.1f event=%s\n",
		au.Bold(e.id), e.t, e.pos.X, e.pos.Y, e.pos.Z, e.total, e.lastEvent)

	items := make([]string, 0, numItems)
	for i, c := range e.inventory {
		if c > 0 {
			items = append(items, fmt.Sprintf("%s=%d", Item(i), c))
		}
	}
	if len(items) == 0 {
		items = append(items, "empty")
	}
	fmt.Fprintf(&b, "inventory: %s\n", strings.Join(items, " "))

	_, err := io.WriteString(w, b.String())
	return err
}
