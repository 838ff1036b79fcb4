package progression

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/noah-isme/sinau-go-api/internal/models"
)

func twoModules() []models.Module {
	return []models.Module{
		{ID: 10, Position: 0},
		{ID: 20, Position: 1},
	}
}

func TestFirstModuleNeverLocked(t *testing.T) {
	modules := twoModules()

	require.False(t, IsLocked(0, modules, nil, DefaultPassThreshold))
	require.False(t, IsLocked(0, modules, map[uint]ModuleOutcome{}, DefaultPassThreshold))
	require.False(t, IsLocked(0, nil, nil, DefaultPassThreshold))
}

func TestGateThresholdBoundary(t *testing.T) {
	modules := twoModules()

	cases := []struct {
		name    string
		outcome ModuleOutcome
		locked  bool
	}{
		{"score at threshold unlocks", ModuleOutcome{Score: 70, Passed: true}, false},
		{"score below threshold locks", ModuleOutcome{Score: 69, Passed: true}, true},
		{"passed flag alone is not enough", ModuleOutcome{Score: 50, Passed: true}, true},
		{"high score without passed flag locks", ModuleOutcome{Score: 95, Passed: false}, true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			outcomes := map[uint]ModuleOutcome{modules[0].ID: tc.outcome}
			require.Equal(t, tc.locked, IsLocked(1, modules, outcomes, DefaultPassThreshold))
		})
	}
}

func TestGateLockedWithoutOutcome(t *testing.T) {
	modules := twoModules()

	require.True(t, IsLocked(1, modules, nil, DefaultPassThreshold))
	require.True(t, IsLocked(1, modules, map[uint]ModuleOutcome{}, DefaultPassThreshold))
}

func TestGateOutOfRangeIndexLocked(t *testing.T) {
	modules := twoModules()

	require.True(t, IsLocked(2, modules, nil, DefaultPassThreshold))
	require.True(t, IsLocked(5, modules, nil, DefaultPassThreshold))
}
