package common

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zeu5/minebot/util"
)

func TestDefaultFlags(t *testing.T) {
	f := DefaultFlags()
	assert.Equal(t, 1000, f.Timesteps)
	assert.Equal(t, "ppo_minerl", f.ModelPath)
	assert.Equal(t, "MineRLObtainDiamond-v0", f.EnvID)
	assert.Equal(t, "", f.Host)
	assert.Equal(t, 25565, f.Port)
	assert.Equal(t, ModeRun, f.Mode())
	assert.NoError(t, f.Validate())
}

func TestModes(t *testing.T) {
	f := DefaultFlags()
	f.Train = true
	assert.Equal(t, ModeTrain, f.Mode())

	f.Eval = true
	assert.ErrorIs(t, f.Validate(), ErrConflictingModes)

	f.Train = false
	assert.Equal(t, ModeRun, f.Mode())
	assert.NoError(t, f.Validate())
}

func TestRecord(t *testing.T) {
	f := DefaultFlags()
	f.SavePath = filepath.Join(t.TempDir(), "results")
	f.Timesteps = 42
	require.NoError(t, f.Record())

	loaded := &Flags{}
	require.NoError(t, util.LoadJson(filepath.Join(f.SavePath, "flags.json"), loaded))
	assert.Equal(t, f, loaded)
}
