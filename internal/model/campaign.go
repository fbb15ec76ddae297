package model

// MistPerSui 1 SUI = 10^9 MIST
const MistPerSui uint64 = 1_000_000_000

// Campaign 链上众筹活动的规范化投影
type Campaign struct {
	ID            string         `json:"id"`
	Title         string         `json:"title"`
	Description   string         `json:"description"`
	TargetAmount  uint64         `json:"targetAmount"`  // MIST
	DonatedAmount uint64         `json:"donatedAmount"` // MIST
	TotalReleased uint64         `json:"totalReleased"` // MIST
	EscrowBalance uint64         `json:"escrowBalance"` // MIST
	Admin         string         `json:"admin"`
	Recipient     string         `json:"recipient"`
	Milestones    []Milestone    `json:"milestones"`
	Status        CampaignStatus `json:"status"`
}

// Milestone 里程碑
type Milestone struct {
	Description string          `json:"description"`
	Percentage  int             `json:"percentage"`
	Status      MilestoneStatus `json:"status"`
}

// MilestoneStatus 里程碑状态，只能单向推进
type MilestoneStatus int

const (
	MilestonePending   MilestoneStatus = 0 // 待申请
	MilestoneRequested MilestoneStatus = 1 // 已申请释放
	MilestoneReleased  MilestoneStatus = 2 // 已释放
)

func (s MilestoneStatus) String() string {
	switch s {
	case MilestoneRequested:
		return "Requested"
	case MilestoneReleased:
		return "Released"
	default:
		return "Pending"
	}
}

// Valid 是否为已知状态
func (s MilestoneStatus) Valid() bool {
	return s >= MilestonePending && s <= MilestoneReleased
}

// CanTransitionTo 状态迁移只允许 Pending → Requested → Released
func (s MilestoneStatus) CanTransitionTo(next MilestoneStatus) bool {
	return next == s+1 && next.Valid()
}

// CampaignStatus 派生状态，不持久化
type CampaignStatus string

const (
	CampaignActive    CampaignStatus = "Active"    // 未达目标
	CampaignFunded    CampaignStatus = "Funded"    // 已达目标，里程碑未全部释放
	CampaignCompleted CampaignStatus = "Completed" // 已达目标且里程碑全部释放
)

// GoalReached 目标金额为0或未设置时视为永远未达成
func GoalReached(donated, target uint64) bool {
	return target > 0 && donated >= target
}

// DeriveStatus 根据捐赠额、目标额和里程碑派生活动状态
func DeriveStatus(donated, target uint64, milestones []Milestone) CampaignStatus {
	if !GoalReached(donated, target) {
		return CampaignActive
	}
	if len(milestones) == 0 {
		return CampaignFunded
	}
	for _, m := range milestones {
		if m.Status != MilestoneReleased {
			return CampaignFunded
		}
	}
	return CampaignCompleted
}

// MilestoneTotal 里程碑百分比之和
func MilestoneTotal(milestones []Milestone) int {
	total := 0
	for _, m := range milestones {
		total += m.Percentage
	}
	return total
}

// GoalReached 活动是否已达成目标
func (c Campaign) GoalReached() bool {
	return GoalReached(c.DonatedAmount, c.TargetAmount)
}

// MilestoneAmount 里程碑对应的释放金额（MIST）
func (c Campaign) MilestoneAmount(index int) uint64 {
	if index < 0 || index >= len(c.Milestones) {
		return 0
	}
	p := uint64(c.Milestones[index].Percentage)
	return c.TargetAmount/100*p + c.TargetAmount%100*p/100
}

// RequestedMilestones 返回处于已申请状态的里程碑下标
func (c Campaign) RequestedMilestones() []int {
	var idx []int
	for i, m := range c.Milestones {
		if m.Status == MilestoneRequested {
			idx = append(idx, i)
		}
	}
	return idx
}
