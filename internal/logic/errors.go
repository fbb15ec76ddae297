package logic

import (
	"errors"
	"fmt"
)

var (
	ErrRegistryNotFound       = errors.New("campaign registry not found")
	ErrMalformedObject        = errors.New("malformed campaign object")
	ErrUnauthenticated        = errors.New("wallet not connected")
	ErrUnauthorized           = errors.New("only the admin can perform this operation")
	ErrGoalAlreadyReached     = errors.New("campaign goal already reached")
	ErrSimulationFailed       = errors.New("transaction simulation failed")
	ErrSubmissionFailed       = errors.New("transaction submission failed")
	ErrMilestoneConfiguration = errors.New("milestone percentages must total 100")
	ErrMutationPending        = errors.New("another transaction is pending")
	ErrCampaignNotFound       = errors.New("campaign not found")
	ErrInvalidInput           = errors.New("invalid input")
)

// RegistryNotFoundError 注册表对象在当前网络上不存在
type RegistryNotFoundError struct {
	Network  string
	ObjectID string
}

func (e *RegistryNotFoundError) Error() string {
	return fmt.Sprintf("campaign registry %s not found on %s; check SUI_CAMPAIGNS_ID and SUI_NETWORK", e.ObjectID, e.Network)
}

func (e *RegistryNotFoundError) Is(target error) bool {
	return target == ErrRegistryNotFound
}

// MalformedObjectError 对象不符合 Campaign 结构
type MalformedObjectError struct {
	ObjectID string
	Reason   string
}

func (e *MalformedObjectError) Error() string {
	return fmt.Sprintf("malformed campaign object %s: %s", e.ObjectID, e.Reason)
}

func (e *MalformedObjectError) Is(target error) bool {
	return target == ErrMalformedObject
}

// SimulationError 模拟执行失败，携带链上返回的原因
type SimulationError struct {
	Message string
}

func (e *SimulationError) Error() string {
	return "transaction simulation failed: " + e.Message
}

func (e *SimulationError) Is(target error) bool {
	return target == ErrSimulationFailed
}

// SubmissionError 签名或提交失败
type SubmissionError struct {
	Op    string
	Cause error
}

func (e *SubmissionError) Error() string {
	return fmt.Sprintf("%s: transaction submission failed: %v", e.Op, e.Cause)
}

func (e *SubmissionError) Is(target error) bool {
	return target == ErrSubmissionFailed
}

func (e *SubmissionError) Unwrap() error {
	return e.Cause
}

// MilestoneConfigurationError 里程碑百分比之和不为100，仅用于展示
type MilestoneConfigurationError struct {
	Total int
}

func (e *MilestoneConfigurationError) Error() string {
	return fmt.Sprintf("milestone percentages total %d%%, expected 100%%", e.Total)
}

func (e *MilestoneConfigurationError) Is(target error) bool {
	return target == ErrMilestoneConfiguration
}

// invalidf 构造参数校验错误
func invalidf(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrInvalidInput, fmt.Sprintf(format, args...))
}
