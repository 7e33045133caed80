package app

import (
	"testing"

	"github.com/specialistvlad/releaseplan/internal/search"
	tu "github.com/specialistvlad/releaseplan/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReplayPlan(t *testing.T) {
	t.Parallel()
	g := tu.ReferenceGraph(t)

	plan := search.Solo(g, 30)
	opened, total, err := replayPlan(g, 30, plan.Steps)
	require.NoError(t, err)
	assert.Equal(t, tu.ReferenceSolo, total)
	assert.Equal(t, len(plan.Steps), opened.Len())
}

func TestReplayPlan_Rejects(t *testing.T) {
	t.Parallel()
	g := tu.ReferenceGraph(t)

	testCases := []struct {
		name    string
		steps   []search.Step
		errText string
	}{
		{name: "unknown node", steps: []search.Step{{Node: "ZZ", Minute: 2}}, errText: "not a rate-positive node"},
		{name: "rate-zero node", steps: []search.Step{{Node: "AA", Minute: 1}}, errText: "not a rate-positive node"},
		{name: "twice", steps: []search.Step{{Node: "DD", Minute: 2}, {Node: "DD", Minute: 4}}, errText: "twice"},
		{name: "minutes go back", steps: []search.Step{{Node: "DD", Minute: 5}, {Node: "BB", Minute: 3}}, errText: "outside"},
		{name: "past budget", steps: []search.Step{{Node: "DD", Minute: 30}}, errText: "outside"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			_, _, err := replayPlan(g, 30, tc.steps)
			assert.ErrorContains(t, err, tc.errText)
		})
	}
}
