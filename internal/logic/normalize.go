package logic

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/xyrille1/SuiCare/internal/ledger"
	"github.com/xyrille1/SuiCare/internal/model"
)

type rawFields map[string]json.RawMessage

type rawMilestone struct {
	Fields *struct {
		Description *string         `json:"description"`
		Percentage  *string         `json:"percentage"`
		Status      json.RawMessage `json:"status"`
	} `json:"fields"`
}

// NormalizeCampaign 校验链上对象并转换为 Campaign
// 不符合结构的对象返回 *MalformedObjectError
func NormalizeCampaign(obj ledger.ObjectResponse) (*model.Campaign, error) {
	objectID := objectIDOf(obj)
	malformed := func(format string, args ...interface{}) error {
		return &MalformedObjectError{ObjectID: objectID, Reason: fmt.Sprintf(format, args...)}
	}

	if obj.Data == nil {
		return nil, malformed("object data unavailable")
	}
	if obj.Data.Content == nil || obj.Data.Content.DataType != "moveObject" {
		return nil, malformed("expected moveObject content")
	}

	fields, err := campaignFields(obj.Data.Content.Fields)
	if err != nil {
		return nil, malformed("%v", err)
	}

	var id struct {
		ID *string `json:"id"`
	}
	if raw, ok := fields["id"]; !ok || json.Unmarshal(raw, &id) != nil || id.ID == nil {
		return nil, malformed("missing id.id")
	}
	objectID = *id.ID

	strs := make(map[string]string, 6)
	for _, key := range []string{"name", "description", "target_amount", "donated_amount", "recipient", "admin"} {
		s, err := stringField(fields, key)
		if err != nil {
			return nil, malformed("%v", err)
		}
		strs[key] = s
	}

	target, err := strconv.ParseUint(strs["target_amount"], 10, 64)
	if err != nil {
		return nil, malformed("target_amount: %v", err)
	}
	donated, err := strconv.ParseUint(strs["donated_amount"], 10, 64)
	if err != nil {
		return nil, malformed("donated_amount: %v", err)
	}

	var released uint64
	if raw, ok := fields["total_released"]; ok && !isNull(raw) {
		released, err = parseAmount(raw)
		if err != nil {
			return nil, malformed("total_released: %v", err)
		}
	}

	rawEscrow, ok := fields["escrow"]
	if !ok || isNull(rawEscrow) {
		return nil, malformed("missing escrow")
	}
	escrow, err := parseEscrow(rawEscrow)
	if err != nil {
		return nil, malformed("escrow: %v", err)
	}

	if released > donated {
		return nil, malformed("total_released %d exceeds donated_amount %d", released, donated)
	}
	if escrow != donated-released {
		return nil, malformed("escrow %d does not equal donated %d minus released %d", escrow, donated, released)
	}

	milestones, err := parseMilestones(fields["milestones"])
	if err != nil {
		return nil, malformed("%v", err)
	}

	return &model.Campaign{
		ID:            objectID,
		Title:         strs["name"],
		Description:   strs["description"],
		TargetAmount:  target,
		DonatedAmount: donated,
		TotalReleased: released,
		EscrowBalance: escrow,
		Admin:         strs["admin"],
		Recipient:     strs["recipient"],
		Milestones:    milestones,
		Status:        model.DeriveStatus(donated, target, milestones),
	}, nil
}

// CheckMilestones 里程碑百分比之和不为100时返回 *MilestoneConfigurationError
func CheckMilestones(milestones []model.Milestone) error {
	if total := model.MilestoneTotal(milestones); total != 100 {
		return &MilestoneConfigurationError{Total: total}
	}
	return nil
}

func objectIDOf(obj ledger.ObjectResponse) string {
	switch {
	case obj.Data != nil:
		return obj.Data.ObjectID
	case obj.Error != nil:
		return obj.Error.ObjectID
	default:
		return "unknown"
	}
}

// campaignFields 动态字段对象的实际字段位于 fields.value.fields
func campaignFields(raw json.RawMessage) (rawFields, error) {
	var outer rawFields
	if err := json.Unmarshal(raw, &outer); err != nil || outer == nil {
		return nil, fmt.Errorf("content fields are not an object")
	}

	value, ok := outer["value"]
	if !ok {
		return outer, nil
	}
	var wrapped struct {
		Fields rawFields `json:"fields"`
	}
	if err := json.Unmarshal(value, &wrapped); err != nil || wrapped.Fields == nil {
		return nil, fmt.Errorf("dynamic field value has no fields")
	}
	return wrapped.Fields, nil
}

func stringField(fields rawFields, key string) (string, error) {
	raw, ok := fields[key]
	if !ok {
		return "", fmt.Errorf("missing %s", key)
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return "", fmt.Errorf("%s is not a string", key)
	}
	return s, nil
}

func isNull(raw json.RawMessage) bool {
	return bytes.Equal(bytes.TrimSpace(raw), []byte("null"))
}

// parseAmount 接受十进制字符串或JSON整数
func parseAmount(raw json.RawMessage) (uint64, error) {
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return strconv.ParseUint(s, 10, 64)
	}
	var n json.Number
	if err := json.Unmarshal(raw, &n); err != nil {
		return 0, fmt.Errorf("not a number")
	}
	return strconv.ParseUint(n.String(), 10, 64)
}

// parseEscrow 托管余额可能是数字、字符串、{value} 或 {fields:{value}}
func parseEscrow(raw json.RawMessage) (uint64, error) {
	if v, err := parseAmount(raw); err == nil {
		return v, nil
	}

	var obj struct {
		Value  json.RawMessage `json:"value"`
		Fields *struct {
			Value json.RawMessage `json:"value"`
		} `json:"fields"`
	}
	if err := json.Unmarshal(raw, &obj); err != nil {
		return 0, fmt.Errorf("unsupported escrow shape")
	}
	switch {
	case obj.Value != nil:
		return parseAmount(obj.Value)
	case obj.Fields != nil && obj.Fields.Value != nil:
		return parseAmount(obj.Fields.Value)
	default:
		return 0, fmt.Errorf("unsupported escrow shape")
	}
}

func parseMilestones(raw json.RawMessage) ([]model.Milestone, error) {
	if raw == nil || isNull(raw) {
		return nil, fmt.Errorf("missing milestones")
	}
	var items []rawMilestone
	if err := json.Unmarshal(raw, &items); err != nil {
		return nil, fmt.Errorf("milestones is not an array")
	}

	milestones := make([]model.Milestone, 0, len(items))
	for i, item := range items {
		f := item.Fields
		if f == nil || f.Description == nil || f.Percentage == nil || f.Status == nil || isNull(f.Status) {
			return nil, fmt.Errorf("milestone %d: invalid structure", i)
		}
		pct, err := strconv.Atoi(*f.Percentage)
		if err != nil || pct < 1 || pct > 100 {
			return nil, fmt.Errorf("milestone %d: invalid percentage %q", i, *f.Percentage)
		}
		var st int
		if err := json.Unmarshal(f.Status, &st); err != nil || !model.MilestoneStatus(st).Valid() {
			return nil, fmt.Errorf("milestone %d: invalid status %s", i, string(f.Status))
		}
		status := model.MilestoneStatus(st)
		milestones = append(milestones, model.Milestone{
			Description: *f.Description,
			Percentage:  pct,
			Status:      status,
		})
	}
	return milestones, nil
}
