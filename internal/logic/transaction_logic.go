package logic

import (
	"context"
	"errors"
	"strings"
	"sync/atomic"

	"github.com/xyrille1/SuiCare/internal/ledger"
	"github.com/xyrille1/SuiCare/internal/logger"
	"github.com/xyrille1/SuiCare/internal/metrics"
	"github.com/xyrille1/SuiCare/internal/model"
	"github.com/xyrille1/SuiCare/internal/wallet"
)

// TransactionLedger 构建与模拟交易所需的链上能力
type TransactionLedger interface {
	BuildTransaction(ctx context.Context, tx *ledger.Transaction) (string, error)
	SplitPayments(ctx context.Context, owner string, amounts []uint64, gasBudget uint64) (string, error)
	DryRun(ctx context.Context, txBytes string) (*ledger.DryRunResult, error)
}

// TransactionConfig 交易分发配置
type TransactionConfig struct {
	PackageID    string
	Module       string
	RegistryID   string
	AdminAddress string
	GasBudget    uint64
}

// CampaignInput 创建/更新活动的参数，Goal 以 SUI 为单位
type CampaignInput struct {
	Title            string
	Description      string
	Goal             string
	RecipientAddress string
}

// MilestoneInput 新增里程碑参数
type MilestoneInput struct {
	Description string
	Percentage  int
}

// TxResult 交易结果
type TxResult struct {
	Digest string `json:"digest"`
}

// TransactionLogic 交易分发：本地前置校验 → 构建 → 模拟 → 签名提交 → 刷新快照
type TransactionLogic struct {
	ledger    TransactionLedger
	wallet    wallet.Wallet
	campaigns *CampaignLogic
	cfg       TransactionConfig

	pending atomic.Bool
}

// NewTransactionLogic 创建交易分发
func NewTransactionLogic(l TransactionLedger, w wallet.Wallet, campaigns *CampaignLogic, cfg TransactionConfig) *TransactionLogic {
	if w == nil {
		w = wallet.Disconnected{}
	}
	return &TransactionLogic{
		ledger:    l,
		wallet:    w,
		campaigns: campaigns,
		cfg:       cfg,
	}
}

// Pending 是否有交易正在进行
func (t *TransactionLogic) Pending() bool {
	return t.pending.Load()
}

// Account 当前钱包地址
func (t *TransactionLogic) Account() string {
	return t.wallet.Address()
}

// IsAdmin 当前钱包是否为配置的管理员
func (t *TransactionLogic) IsAdmin() bool {
	return ledger.SameAddress(t.wallet.Address(), t.cfg.AdminAddress)
}

// CreateCampaign 创建活动
func (t *TransactionLogic) CreateCampaign(ctx context.Context, in CampaignInput) (*TxResult, error) {
	sender, err := t.sender()
	if err != nil {
		return nil, err
	}
	goal, err := validateCampaignInput(in)
	if err != nil {
		return nil, err
	}

	return t.dispatch(ctx, "create_campaign", sender, t.call("create_campaign",
		ledger.Object(t.cfg.RegistryID),
		ledger.Pure(strings.TrimSpace(in.Title)),
		ledger.Pure(strings.TrimSpace(in.Description)),
		ledger.PureU64(goal),
		ledger.Pure(ledger.NormalizeAddress(in.RecipientAddress)),
	))
}

// UpdateCampaign 更新活动，仅管理员
func (t *TransactionLogic) UpdateCampaign(ctx context.Context, campaignID string, in CampaignInput) (*TxResult, error) {
	sender, err := t.adminSender(campaignID)
	if err != nil {
		return nil, err
	}
	if !ledger.ValidAddress(campaignID) {
		return nil, invalidf("campaign id %q is not a valid object id", campaignID)
	}
	goal, err := validateCampaignInput(in)
	if err != nil {
		return nil, err
	}

	return t.dispatch(ctx, "update_campaign", sender, t.call("update_campaign",
		ledger.Object(t.cfg.RegistryID),
		ledger.Pure(campaignID),
		ledger.Pure(strings.TrimSpace(in.Title)),
		ledger.Pure(strings.TrimSpace(in.Description)),
		ledger.PureU64(goal),
		ledger.Pure(ledger.NormalizeAddress(in.RecipientAddress)),
	))
}

// DeleteCampaign 先退款再删除，两步在同一笔交易中完成，仅管理员
func (t *TransactionLogic) DeleteCampaign(ctx context.Context, campaignID string) (*TxResult, error) {
	sender, err := t.adminSender(campaignID)
	if err != nil {
		return nil, err
	}
	if !ledger.ValidAddress(campaignID) {
		return nil, invalidf("campaign id %q is not a valid object id", campaignID)
	}

	registry := ledger.Object(t.cfg.RegistryID)
	return t.dispatch(ctx, "delete_campaign", sender,
		t.call("emergency_refund", registry, ledger.Pure(campaignID)),
		t.call("delete_campaign", registry, ledger.Pure(campaignID)),
	)
}

// Donate 向活动捐赠，amount 以 SUI 为单位
func (t *TransactionLogic) Donate(ctx context.Context, campaignID, amount string) (*TxResult, error) {
	sender, err := t.sender()
	if err != nil {
		return nil, err
	}
	if !ledger.ValidAddress(campaignID) {
		return nil, invalidf("campaign id %q is not a valid object id", campaignID)
	}
	if campaign, ok := t.campaigns.GetCampaign(campaignID); ok && campaign.GoalReached() {
		return nil, ErrGoalAlreadyReached
	}
	mist, err := SuiToMist(amount)
	if err != nil {
		return nil, err
	}

	return t.dispatch(ctx, "donate", sender, t.call("donate",
		ledger.Object(t.cfg.RegistryID),
		ledger.Pure(campaignID),
		ledger.Payment(mist),
	))
}

// AddMilestone 新增里程碑，仅管理员
func (t *TransactionLogic) AddMilestone(ctx context.Context, campaignID string, in MilestoneInput) (*TxResult, error) {
	sender, err := t.adminSender(campaignID)
	if err != nil {
		return nil, err
	}
	if !ledger.ValidAddress(campaignID) {
		return nil, invalidf("campaign id %q is not a valid object id", campaignID)
	}
	if strings.TrimSpace(in.Description) == "" {
		return nil, invalidf("milestone description is required")
	}
	if in.Percentage < 1 || in.Percentage > 100 {
		return nil, invalidf("milestone percentage must be between 1 and 100")
	}
	if campaign, ok := t.campaigns.GetCampaign(campaignID); ok {
		if total := model.MilestoneTotal(campaign.Milestones) + in.Percentage; total > 100 {
			return nil, invalidf("milestone percentages would total %d%%", total)
		}
	}

	return t.dispatch(ctx, "add_milestone", sender, t.call("add_milestone",
		ledger.Object(t.cfg.RegistryID),
		ledger.Pure(campaignID),
		ledger.Pure(strings.TrimSpace(in.Description)),
		ledger.PureU64(uint64(in.Percentage)),
	))
}

// RequestRelease 申请释放里程碑资金
func (t *TransactionLogic) RequestRelease(ctx context.Context, campaignID string, index int) (*TxResult, error) {
	sender, err := t.sender()
	if err != nil {
		return nil, err
	}
	if err := t.checkMilestone(campaignID, index, model.MilestoneRequested); err != nil {
		return nil, err
	}

	return t.dispatch(ctx, "request_release", sender, t.call("request_release",
		ledger.Object(t.cfg.RegistryID),
		ledger.Pure(campaignID),
		ledger.PureU64(uint64(index)),
	))
}

// VerifyAndRelease 审核并释放里程碑资金，仅管理员
func (t *TransactionLogic) VerifyAndRelease(ctx context.Context, campaignID string, index int) (*TxResult, error) {
	sender, err := t.adminSender(campaignID)
	if err != nil {
		return nil, err
	}
	if err := t.checkMilestone(campaignID, index, model.MilestoneReleased); err != nil {
		return nil, err
	}

	return t.dispatch(ctx, "verify_and_release", sender, t.call("verify_and_release",
		ledger.Object(t.cfg.RegistryID),
		ledger.Pure(campaignID),
		ledger.PureU64(uint64(index)),
	))
}

func (t *TransactionLogic) sender() (string, error) {
	addr := t.wallet.Address()
	if addr == "" {
		return "", ErrUnauthenticated
	}
	return addr, nil
}

// adminSender 当前账户须为配置的管理员，且活动已缓存时须为该活动的管理员
func (t *TransactionLogic) adminSender(campaignID string) (string, error) {
	sender, err := t.sender()
	if err != nil {
		return "", err
	}
	if !ledger.SameAddress(sender, t.cfg.AdminAddress) {
		return "", ErrUnauthorized
	}
	if campaign, ok := t.campaigns.GetCampaign(campaignID); ok && !ledger.SameAddress(sender, campaign.Admin) {
		return "", ErrUnauthorized
	}
	return sender, nil
}

func (t *TransactionLogic) checkMilestone(campaignID string, index int, next model.MilestoneStatus) error {
	if !ledger.ValidAddress(campaignID) {
		return invalidf("campaign id %q is not a valid object id", campaignID)
	}
	if index < 0 {
		return invalidf("milestone index must not be negative")
	}
	campaign, ok := t.campaigns.GetCampaign(campaignID)
	if !ok {
		return nil
	}
	if index >= len(campaign.Milestones) {
		return invalidf("milestone index %d out of range (%d milestones)", index, len(campaign.Milestones))
	}
	if current := campaign.Milestones[index].Status; !current.CanTransitionTo(next) {
		return invalidf("milestone %d is %s and cannot become %s", index, current, next)
	}
	return nil
}

func (t *TransactionLogic) call(function string, args ...ledger.Argument) ledger.MoveCall {
	return ledger.MoveCall{
		Package:   t.cfg.PackageID,
		Module:    t.cfg.Module,
		Function:  function,
		Arguments: args,
	}
}

// dispatch 构建（必要时先拆分支付币）→ 模拟 → 签名提交 → 刷新
// 模拟失败时不会提交，提交失败时不修改快照
func (t *TransactionLogic) dispatch(ctx context.Context, op, sender string, calls ...ledger.MoveCall) (*TxResult, error) {
	if !t.pending.CompareAndSwap(false, true) {
		return nil, ErrMutationPending
	}
	defer t.pending.Store(false)

	tx := &ledger.Transaction{Sender: sender, GasBudget: t.cfg.GasBudget, Calls: calls}
	txBytes, err := t.build(ctx, op, tx)
	if err != nil {
		return nil, err
	}

	resp, err := t.simulateAndSubmit(ctx, op, txBytes)
	if err != nil {
		return nil, err
	}

	metrics.Transactions.WithLabelValues(op, "success").Inc()
	logger.Info("Transaction %s succeeded: %s", op, resp.Digest)

	if err := t.campaigns.Refresh(ctx); err != nil {
		logger.Warn("Refresh after %s failed: %v", op, err)
	}
	return &TxResult{Digest: resp.Digest}, nil
}

// build 构建交易；没有金额相等的支付币时先拆分出来再构建一次
func (t *TransactionLogic) build(ctx context.Context, op string, tx *ledger.Transaction) (string, error) {
	txBytes, err := t.ledger.BuildTransaction(ctx, tx)
	if errors.Is(err, ledger.ErrNoExactCoin) {
		if err := t.splitPayments(ctx, op, tx); err != nil {
			return "", err
		}
		txBytes, err = t.ledger.BuildTransaction(ctx, tx)
	}
	if err != nil {
		metrics.Transactions.WithLabelValues(op, "build_error").Inc()
		if errors.Is(err, ledger.ErrNoGasCoin) {
			return "", invalidf("%v", err)
		}
		return "", &SubmissionError{Op: op, Cause: err}
	}
	return txBytes, nil
}

// splitPayments 拆分交易与主交易走同样的模拟与提交流程
func (t *TransactionLogic) splitPayments(ctx context.Context, op string, tx *ledger.Transaction) error {
	splitOp := op + "_split"
	splitBytes, err := t.ledger.SplitPayments(ctx, tx.Sender, tx.Payments(), tx.GasBudget)
	if err != nil {
		metrics.Transactions.WithLabelValues(splitOp, "build_error").Inc()
		if errors.Is(err, ledger.ErrInsufficientBalance) {
			return invalidf("%v", err)
		}
		return &SubmissionError{Op: splitOp, Cause: err}
	}

	resp, err := t.simulateAndSubmit(ctx, splitOp, splitBytes)
	if err != nil {
		return err
	}
	metrics.Transactions.WithLabelValues(splitOp, "success").Inc()
	logger.Info("Split payment coins for %s: %s", op, resp.Digest)
	return nil
}

func (t *TransactionLogic) simulateAndSubmit(ctx context.Context, op, txBytes string) (*ledger.TransactionResponse, error) {
	dry, err := t.ledger.DryRun(ctx, txBytes)
	if err != nil {
		metrics.Transactions.WithLabelValues(op, "simulation_failed").Inc()
		return nil, &SimulationError{Message: err.Error()}
	}
	if !dry.Success() {
		metrics.Transactions.WithLabelValues(op, "simulation_failed").Inc()
		logger.Warn("Dry run of %s rejected: %s", op, dry.FailureMessage())
		return nil, &SimulationError{Message: dry.FailureMessage()}
	}

	resp, err := t.wallet.SignAndSubmit(ctx, txBytes)
	if err != nil {
		metrics.Transactions.WithLabelValues(op, "submission_failed").Inc()
		logger.Error("Failed to submit %s: %v", op, err)
		return nil, &SubmissionError{Op: op, Cause: err}
	}
	return resp, nil
}

func validateCampaignInput(in CampaignInput) (uint64, error) {
	if strings.TrimSpace(in.Title) == "" {
		return 0, invalidf("title is required")
	}
	if strings.TrimSpace(in.Description) == "" {
		return 0, invalidf("description is required")
	}
	if !ledger.ValidAddress(in.RecipientAddress) {
		return 0, invalidf("recipient %q is not a valid Sui address", in.RecipientAddress)
	}
	goal, err := SuiToMist(in.Goal)
	if err != nil {
		return 0, err
	}
	return goal, nil
}
