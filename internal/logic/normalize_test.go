package logic

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xyrille1/SuiCare/internal/ledger"
	"github.com/xyrille1/SuiCare/internal/model"
)

func directObject(id string, fields map[string]interface{}) ledger.ObjectResponse {
	raw, _ := json.Marshal(fields)
	return ledger.ObjectResponse{Data: &ledger.ObjectData{
		ObjectID: id,
		Content:  &ledger.ParsedContent{DataType: "moveObject", Fields: raw},
	}}
}

func TestNormalizeWrappedCampaign(t *testing.T) {
	fx := campaignFixture{
		id: "0xc1", target: 100, donated: 40, released: 0,
		milestones: []model.Milestone{{Description: "Dig", Percentage: 50, Status: model.MilestonePending}},
	}

	c, err := NormalizeCampaign(dynamicFieldObject("0xf1", fx.fields()))
	require.NoError(t, err)
	assert.Equal(t, "0xc1", c.ID)
	assert.Equal(t, "Clean water", c.Title)
	assert.Equal(t, uint64(100), c.TargetAmount)
	assert.Equal(t, uint64(40), c.DonatedAmount)
	assert.Equal(t, uint64(40), c.EscrowBalance)
	assert.Equal(t, testAdmin, c.Admin)
	require.Len(t, c.Milestones, 1)
	assert.Equal(t, 50, c.Milestones[0].Percentage)
	assert.Equal(t, model.CampaignActive, c.Status)
}

func TestNormalizeDirectFields(t *testing.T) {
	fx := campaignFixture{id: "0xc2", target: 100, donated: 100}
	c, err := NormalizeCampaign(directObject("0xc2", fx.fields()))
	require.NoError(t, err)
	assert.Equal(t, "0xc2", c.ID)
	assert.Equal(t, model.CampaignFunded, c.Status)
}

func TestNormalizeEscrowShapes(t *testing.T) {
	cases := map[string]interface{}{
		"string":       "30",
		"number":       30,
		"value":        map[string]interface{}{"value": "30"},
		"fields.value": map[string]interface{}{"fields": map[string]interface{}{"value": "30"}},
	}
	for name, escrow := range cases {
		t.Run(name, func(t *testing.T) {
			f := campaignFixture{id: "0xc3", target: 100, donated: 50, released: 20}.fields()
			f["escrow"] = escrow
			c, err := NormalizeCampaign(dynamicFieldObject("0xf3", f))
			require.NoError(t, err)
			assert.Equal(t, uint64(30), c.EscrowBalance)
		})
	}
}

func TestNormalizeTotalReleasedOptional(t *testing.T) {
	f := campaignFixture{id: "0xc4", target: 100, donated: 10}.fields()
	delete(f, "total_released")
	c, err := NormalizeCampaign(dynamicFieldObject("0xf4", f))
	require.NoError(t, err)
	assert.Zero(t, c.TotalReleased)
}

func TestNormalizeMalformed(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(map[string]interface{})
	}{
		{"missing target_amount", func(f map[string]interface{}) { delete(f, "target_amount") }},
		{"numeric target_amount", func(f map[string]interface{}) { f["target_amount"] = 100 }},
		{"missing escrow", func(f map[string]interface{}) { delete(f, "escrow") }},
		{"missing admin", func(f map[string]interface{}) { delete(f, "admin") }},
		{"missing id", func(f map[string]interface{}) { delete(f, "id") }},
		{"milestones not array", func(f map[string]interface{}) { f["milestones"] = "none" }},
		{"milestone status string", func(f map[string]interface{}) {
			f["milestones"] = []interface{}{map[string]interface{}{"fields": map[string]interface{}{
				"description": "x", "percentage": "50", "status": "1"}}}
		}},
		{"milestone percentage number", func(f map[string]interface{}) {
			f["milestones"] = []interface{}{map[string]interface{}{"fields": map[string]interface{}{
				"description": "x", "percentage": 50, "status": 0}}}
		}},
		{"milestone status unknown", func(f map[string]interface{}) {
			f["milestones"] = []interface{}{map[string]interface{}{"fields": map[string]interface{}{
				"description": "x", "percentage": "50", "status": 7}}}
		}},
		{"escrow mismatch", func(f map[string]interface{}) { f["escrow"] = "1" }},
		{"released exceeds donated", func(f map[string]interface{}) {
			f["total_released"] = "90"
			f["escrow"] = "0"
		}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			f := campaignFixture{id: "0xc5", target: 100, donated: 40, milestones: []model.Milestone{{Description: "a", Percentage: 100}}}.fields()
			tc.mutate(f)
			_, err := NormalizeCampaign(dynamicFieldObject("0xf5", f))
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrMalformedObject))
		})
	}
}

func TestNormalizeRejectsNonMoveObject(t *testing.T) {
	obj := dynamicFieldObject("0xf6", campaignFixture{id: "0xc6", target: 1}.fields())
	obj.Data.Content.DataType = "package"
	_, err := NormalizeCampaign(obj)

	var malformed *MalformedObjectError
	require.True(t, errors.As(err, &malformed))
	assert.Equal(t, "0xf6", malformed.ObjectID)
}

func TestNormalizeMissingData(t *testing.T) {
	_, err := NormalizeCampaign(ledger.ObjectResponse{Error: &ledger.ObjectError{Code: "deleted", ObjectID: "0xgone"}})
	assert.True(t, errors.Is(err, ErrMalformedObject))
	assert.Contains(t, err.Error(), "0xgone")
}

func TestNormalizeIsDeterministic(t *testing.T) {
	obj := dynamicFieldObject("0xf7", campaignFixture{
		id: "0xc7", target: 100, donated: 100, released: 100,
		milestones: []model.Milestone{{Description: "all", Percentage: 100, Status: model.MilestoneReleased}},
	}.fields())

	first, err := NormalizeCampaign(obj)
	require.NoError(t, err)
	second, err := NormalizeCampaign(obj)
	require.NoError(t, err)
	assert.Equal(t, first, second)
	assert.Equal(t, model.CampaignCompleted, first.Status)
}

func TestCheckMilestones(t *testing.T) {
	assert.NoError(t, CheckMilestones([]model.Milestone{{Percentage: 40}, {Percentage: 60}}))

	err := CheckMilestones([]model.Milestone{{Percentage: 40}, {Percentage: 50}})
	var cfgErr *MilestoneConfigurationError
	require.True(t, errors.As(err, &cfgErr))
	assert.Equal(t, 90, cfgErr.Total)
	assert.True(t, errors.Is(err, ErrMilestoneConfiguration))

	assert.Error(t, CheckMilestones(nil))
}
