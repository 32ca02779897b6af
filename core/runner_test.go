package core

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEvaluateSumsOneEpisode(t *testing.T) {
	env := &walkEnv{length: 4}
	agent := &fakeAgent{action: 1}

	reward, err := Evaluate(context.Background(), agent, env)
	require.NoError(t, err)
	assert.Equal(t, 4.0, reward)
	assert.Equal(t, 4, env.pos)
	assert.Zero(t, agent.learned)
}

func TestEvaluateIsRepeatable(t *testing.T) {
	env := &walkEnv{length: 3}
	agent := &fakeAgent{action: 0}

	first, err := Evaluate(context.Background(), agent, env)
	require.NoError(t, err)
	second, err := Evaluate(context.Background(), agent, env)
	require.NoError(t, err)
	assert.Equal(t, first, second)
	assert.Equal(t, -3.0, first)
}

func TestEvaluateStopsOnCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := Evaluate(ctx, &fakeAgent{}, &walkEnv{length: 3})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestRunRendersEveryStep(t *testing.T) {
	env := &walkEnv{length: 5}
	agents := &fakeAgents{loaded: map[string]*fakeAgent{"ppo_minerl": {action: 1}}}
	buf := new(bytes.Buffer)

	result, err := Run(context.Background(), env, agents, &RunConfig{ModelPath: "ppo_minerl", Writer: buf})
	require.NoError(t, err)

	assert.Equal(t, 5, result.Steps)
	assert.Equal(t, 5.0, result.Reward)
	assert.Equal(t, 5, result.Trace.Len())
	last, ok := result.Trace.Last()
	require.True(t, ok)
	assert.True(t, last.Done)
	assert.Equal(t, 4, last.Index)
	assert.Equal(t, result.Reward, last.Return)
	assert.Equal(t, result.Reward, result.Trace.TotalReward())
	assert.Equal(t, 5, strings.Count(buf.String(), "pos="))
	assert.Equal(t, 1, env.closed)
	assert.Zero(t, agents.loaded["ppo_minerl"].learned)
}

func TestRunMissingCheckpoint(t *testing.T) {
	env := &walkEnv{length: 2}
	_, err := Run(context.Background(), env, &fakeAgents{}, &RunConfig{ModelPath: "nope"})
	assert.Error(t, err)
	assert.Zero(t, env.closed)
}

func TestTraceJSON(t *testing.T) {
	trace := NewTrace()
	_, ok := trace.Last()
	assert.False(t, ok)

	obs := Observation{1, 2}
	trace.Record(Step{Observation: obs, Action: 1, Reward: 2, Info: map[string]interface{}{"event": "move"}})
	trace.Record(Step{Observation: Observation{3, 4}, Action: 4, Reward: -0.5, Done: true, Info: map[string]interface{}{"event": "mined:log"}})
	obs[0] = 9

	bs, err := json.Marshal(trace)
	require.NoError(t, err)
	assert.Contains(t, string(bs), `"final_event":"mined:log"`)

	restored := NewTrace()
	require.NoError(t, json.Unmarshal(bs, restored))
	steps := restored.Steps()
	require.Len(t, steps, 2)
	assert.Equal(t, Observation{1, 2}, steps[0].Observation)
	assert.Equal(t, 1.5, steps[1].Return)
	assert.Equal(t, "mined:log", steps[1].Event())
	assert.Equal(t, 1.5, restored.TotalReward())
}
