package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDeriveStatusScenario(t *testing.T) {
	milestones := []Milestone{{Description: "build well", Percentage: 50, Status: MilestonePending}}

	assert.Equal(t, CampaignActive, DeriveStatus(40, 100, milestones))
	assert.Equal(t, CampaignFunded, DeriveStatus(100, 100, milestones))

	milestones[0].Status = MilestoneReleased
	assert.Equal(t, CampaignCompleted, DeriveStatus(100, 100, milestones))
}

func TestDeriveStatusZeroTargetNeverReached(t *testing.T) {
	released := []Milestone{{Percentage: 100, Status: MilestoneReleased}}
	assert.Equal(t, CampaignActive, DeriveStatus(0, 0, released))
	assert.Equal(t, CampaignActive, DeriveStatus(500, 0, released))
	assert.False(t, GoalReached(10, 0))
}

func TestDeriveStatusCompletedRequiresMilestones(t *testing.T) {
	assert.Equal(t, CampaignFunded, DeriveStatus(100, 100, nil))
}

func TestDeriveStatusCompletedOnlyWhenAllReleased(t *testing.T) {
	statuses := []MilestoneStatus{MilestonePending, MilestoneRequested, MilestoneReleased}
	for _, a := range statuses {
		for _, b := range statuses {
			ms := []Milestone{{Percentage: 60, Status: a}, {Percentage: 40, Status: b}}
			for _, donated := range []uint64{0, 99, 100, 150} {
				got := DeriveStatus(donated, 100, ms)
				if got == CampaignCompleted {
					assert.True(t, donated >= 100)
					assert.Equal(t, MilestoneReleased, a)
					assert.Equal(t, MilestoneReleased, b)
				}
			}
		}
	}
}

func TestMilestoneStatusTransitions(t *testing.T) {
	assert.True(t, MilestonePending.CanTransitionTo(MilestoneRequested))
	assert.True(t, MilestoneRequested.CanTransitionTo(MilestoneReleased))
	assert.False(t, MilestonePending.CanTransitionTo(MilestoneReleased))
	assert.False(t, MilestoneReleased.CanTransitionTo(MilestoneRequested))
	assert.False(t, MilestoneReleased.CanTransitionTo(MilestoneStatus(3)))
	assert.Equal(t, "Requested", MilestoneRequested.String())
}

func TestMilestoneTotalAndAmount(t *testing.T) {
	c := Campaign{
		TargetAmount: 1_000_000_001,
		Milestones: []Milestone{
			{Percentage: 30, Status: MilestoneRequested},
			{Percentage: 70},
		},
	}
	assert.Equal(t, 100, MilestoneTotal(c.Milestones))
	assert.Equal(t, uint64(300_000_000), c.MilestoneAmount(0))
	assert.Equal(t, uint64(700_000_000), c.MilestoneAmount(1))
	assert.Equal(t, uint64(0), c.MilestoneAmount(2))
	assert.Equal(t, []int{0}, c.RequestedMilestones())
}

func TestParseActivityFilter(t *testing.T) {
	f, ok := ParseActivityFilter("")
	assert.True(t, ok)
	assert.Equal(t, ActivityAll, f)

	f, ok = ParseActivityFilter("donations")
	assert.True(t, ok)
	assert.Equal(t, ActivityDonations, f)

	_, ok = ParseActivityFilter("votes")
	assert.False(t, ok)
}
