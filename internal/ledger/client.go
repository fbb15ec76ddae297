package ledger

import (
	"context"
	"errors"
	"fmt"
	"math/bits"
	"sort"
	"strconv"

	"github.com/ethereum/go-ethereum/rpc"
	"github.com/xyrille1/SuiCare/internal/logger"
)

const (
	// 单次 sui_multiGetObjects 允许的最大对象数
	maxObjectsPerCall = 50
	// 动态字段与事件分页大小
	defaultPageSize = 50

	suiCoinType = "0x2::sui::SUI"
)

var (
	// ErrNoExactCoin 账户中没有与支付金额完全相等的币对象
	ErrNoExactCoin = errors.New("no coin object matches the payment amount")
	// ErrNoGasCoin 支付之外没有足以支付 gas 的币对象
	ErrNoGasCoin = errors.New("no coin left to pay gas")
	// ErrInsufficientBalance 账户余额不足以拆分出支付金额
	ErrInsufficientBalance = errors.New("insufficient SUI balance")
)

// Client 链上RPC能力接口
type Client interface {
	GetObject(ctx context.Context, id string) (*ObjectResponse, error)
	MultiGetObjects(ctx context.Context, ids []string) ([]ObjectResponse, error)
	GetDynamicFields(ctx context.Context, parentID string, cursor *string) (*DynamicFieldPage, error)
	QueryEvents(ctx context.Context, filter EventFilter, cursor *EventID, limit int) (*EventPage, error)
	BuildTransaction(ctx context.Context, tx *Transaction) (string, error)
	SplitPayments(ctx context.Context, owner string, amounts []uint64, gasBudget uint64) (string, error)
	DryRun(ctx context.Context, txBytes string) (*DryRunResult, error)
	ExecuteTransaction(ctx context.Context, txBytes string, signatures []string) (*TransactionResponse, error)
}

// RPCClient 基于 JSON-RPC 2.0 的 Sui 全节点客户端
type RPCClient struct {
	rpc      *rpc.Client
	endpoint string
}

var _ Client = (*RPCClient)(nil)

// Dial 连接全节点
func Dial(ctx context.Context, endpoint string) (*RPCClient, error) {
	if endpoint == "" {
		return nil, fmt.Errorf("no RPC URL configured")
	}

	logger.Info("Creating Sui client connection (RPC: %s)", endpoint)
	c, err := rpc.DialContext(ctx, endpoint)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to sui fullnode: %w", err)
	}

	return &RPCClient{rpc: c, endpoint: endpoint}, nil
}

// Endpoint 当前连接的RPC地址
func (c *RPCClient) Endpoint() string {
	return c.endpoint
}

// Close 关闭连接
func (c *RPCClient) Close() {
	c.rpc.Close()
}

func contentOptions() ObjectDataOptions {
	return ObjectDataOptions{ShowType: true, ShowContent: true, ShowDisplay: true}
}

// GetObject 获取单个对象
func (c *RPCClient) GetObject(ctx context.Context, id string) (*ObjectResponse, error) {
	var resp ObjectResponse
	if err := c.rpc.CallContext(ctx, &resp, "sui_getObject", id, contentOptions()); err != nil {
		return nil, fmt.Errorf("sui_getObject %s: %w", id, err)
	}
	return &resp, nil
}

// MultiGetObjects 批量获取对象，所有分片在一次批量请求中发出
func (c *RPCClient) MultiGetObjects(ctx context.Context, ids []string) ([]ObjectResponse, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	chunks := (len(ids) + maxObjectsPerCall - 1) / maxObjectsPerCall
	results := make([][]ObjectResponse, chunks)
	batch := make([]rpc.BatchElem, chunks)
	for i := range batch {
		start := i * maxObjectsPerCall
		end := start + maxObjectsPerCall
		if end > len(ids) {
			end = len(ids)
		}
		batch[i] = rpc.BatchElem{
			Method: "sui_multiGetObjects",
			Args:   []interface{}{ids[start:end], contentOptions()},
			Result: &results[i],
		}
	}

	if err := c.rpc.BatchCallContext(ctx, batch); err != nil {
		return nil, fmt.Errorf("sui_multiGetObjects batch: %w", err)
	}

	out := make([]ObjectResponse, 0, len(ids))
	for i, elem := range batch {
		if elem.Error != nil {
			return nil, fmt.Errorf("sui_multiGetObjects chunk %d: %w", i, elem.Error)
		}
		out = append(out, results[i]...)
	}
	return out, nil
}

// GetDynamicFields 获取父对象的一页动态字段
func (c *RPCClient) GetDynamicFields(ctx context.Context, parentID string, cursor *string) (*DynamicFieldPage, error) {
	var page DynamicFieldPage
	if err := c.rpc.CallContext(ctx, &page, "suix_getDynamicFields", parentID, cursor, defaultPageSize); err != nil {
		return nil, fmt.Errorf("suix_getDynamicFields %s: %w", parentID, err)
	}
	return &page, nil
}

// QueryEvents 按条件分页查询事件（升序）
func (c *RPCClient) QueryEvents(ctx context.Context, filter EventFilter, cursor *EventID, limit int) (*EventPage, error) {
	if limit <= 0 {
		limit = defaultPageSize
	}
	var page EventPage
	if err := c.rpc.CallContext(ctx, &page, "suix_queryEvents", filter, cursor, limit, false); err != nil {
		return nil, fmt.Errorf("suix_queryEvents: %w", err)
	}
	return &page, nil
}

// DryRun 模拟执行交易
func (c *RPCClient) DryRun(ctx context.Context, txBytes string) (*DryRunResult, error) {
	var res DryRunResult
	if err := c.rpc.CallContext(ctx, &res, "sui_dryRunTransactionBlock", txBytes); err != nil {
		return nil, fmt.Errorf("sui_dryRunTransactionBlock: %w", err)
	}
	return &res, nil
}

// ExecuteTransaction 提交已签名交易并等待本地执行
func (c *RPCClient) ExecuteTransaction(ctx context.Context, txBytes string, signatures []string) (*TransactionResponse, error) {
	opts := map[string]bool{"showEffects": true, "showEvents": true}

	var res TransactionResponse
	if err := c.rpc.CallContext(ctx, &res, "sui_executeTransactionBlock", txBytes, signatures, opts, "WaitForLocalExecution"); err != nil {
		return nil, fmt.Errorf("sui_executeTransactionBlock: %w", err)
	}
	return &res, nil
}

// GetCoins 获取账户的一页 SUI 币对象
func (c *RPCClient) GetCoins(ctx context.Context, owner string, cursor *string) (*CoinPage, error) {
	var page CoinPage
	if err := c.rpc.CallContext(ctx, &page, "suix_getCoins", owner, suiCoinType, cursor, defaultPageSize); err != nil {
		return nil, fmt.Errorf("suix_getCoins %s: %w", owner, err)
	}
	return &page, nil
}

// BuildTransaction 由全节点构建交易字节（base64）
func (c *RPCClient) BuildTransaction(ctx context.Context, tx *Transaction) (string, error) {
	if tx.Sender == "" {
		return "", fmt.Errorf("transaction has no sender")
	}
	if len(tx.Calls) == 0 {
		return "", fmt.Errorf("transaction has no move calls")
	}

	var (
		coins   map[uint64][]string
		gasCoin *string
	)
	if payments := tx.Payments(); len(payments) > 0 {
		all, err := c.allCoins(ctx, tx.Sender)
		if err != nil {
			return "", err
		}
		var used map[string]bool
		coins, used, err = selectPaymentCoins(all, payments)
		if err != nil {
			return "", err
		}
		id, ok := selectGasCoin(all, used, tx.GasBudget)
		if !ok {
			return "", fmt.Errorf("%w: need an unreserved coin of at least %d MIST", ErrNoGasCoin, tx.GasBudget)
		}
		gasCoin = &id
	}

	params := make([]map[string]interface{}, 0, len(tx.Calls))
	for _, call := range tx.Calls {
		args := make([]interface{}, 0, len(call.Arguments))
		for _, a := range call.Arguments {
			switch a.Kind {
			case ArgCoin:
				ids := coins[a.Amount]
				args = append(args, ids[0])
				coins[a.Amount] = ids[1:]
			default:
				args = append(args, a.Value)
			}
		}
		typeArgs := call.TypeArguments
		if typeArgs == nil {
			typeArgs = []string{}
		}
		params = append(params, map[string]interface{}{
			"moveCallRequestParams": map[string]interface{}{
				"packageObjectId": call.Package,
				"module":          call.Module,
				"function":        call.Function,
				"typeArguments":   typeArgs,
				"arguments":       args,
			},
		})
	}

	var built TransactionBlockBytes
	err := c.rpc.CallContext(ctx, &built, "unsafe_batchTransaction",
		tx.Sender, params, gasCoin, strconv.FormatUint(tx.GasBudget, 10))
	if err != nil {
		return "", fmt.Errorf("unsafe_batchTransaction: %w", err)
	}
	if built.TxBytes == "" {
		return "", fmt.Errorf("unsafe_batchTransaction returned no transaction bytes")
	}
	return built.TxBytes, nil
}

// SplitPayments 构建一笔转给自己的 paySui 交易，为每笔支付拆出金额完全相等的币对象
// 输入币额外保留两份 gas 预算：一份支付本次拆分，一份留给随后的交易
func (c *RPCClient) SplitPayments(ctx context.Context, owner string, amounts []uint64, gasBudget uint64) (string, error) {
	if owner == "" {
		return "", fmt.Errorf("split has no owner")
	}
	if len(amounts) == 0 {
		return "", fmt.Errorf("split has no amounts")
	}

	need, ok := sumMist(append(append([]uint64{}, amounts...), gasBudget, gasBudget))
	if !ok {
		return "", fmt.Errorf("%w: payment total overflows", ErrInsufficientBalance)
	}

	all, err := c.allCoins(ctx, owner)
	if err != nil {
		return "", err
	}
	inputs, err := selectSplitCoins(all, need)
	if err != nil {
		return "", err
	}

	recipients := make([]string, 0, len(amounts))
	values := make([]string, 0, len(amounts))
	for _, a := range amounts {
		recipients = append(recipients, owner)
		values = append(values, strconv.FormatUint(a, 10))
	}

	var built TransactionBlockBytes
	err = c.rpc.CallContext(ctx, &built, "unsafe_paySui",
		owner, inputs, recipients, values, strconv.FormatUint(gasBudget, 10))
	if err != nil {
		return "", fmt.Errorf("unsafe_paySui: %w", err)
	}
	if built.TxBytes == "" {
		return "", fmt.Errorf("unsafe_paySui returned no transaction bytes")
	}
	return built.TxBytes, nil
}

func sumMist(values []uint64) (uint64, bool) {
	var total uint64
	for _, v := range values {
		var carry uint64
		total, carry = bits.Add64(total, v, 0)
		if carry != 0 {
			return 0, false
		}
	}
	return total, true
}

// selectSplitCoins 按余额从大到小选币，直到总额不少于 need
func selectSplitCoins(coins []Coin, need uint64) ([]string, error) {
	type balanced struct {
		id  string
		bal uint64
	}
	sorted := make([]balanced, 0, len(coins))
	for _, coin := range coins {
		bal, err := strconv.ParseUint(coin.Balance, 10, 64)
		if err != nil || bal == 0 {
			continue
		}
		sorted = append(sorted, balanced{id: coin.CoinObjectID, bal: bal})
	}
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].bal > sorted[j].bal })

	var (
		ids   []string
		total uint64
	)
	for _, b := range sorted {
		ids = append(ids, b.id)
		total += b.bal
		if total >= need {
			return ids, nil
		}
	}
	return nil, fmt.Errorf("%w: have %d MIST, need %d", ErrInsufficientBalance, total, need)
}

func (c *RPCClient) allCoins(ctx context.Context, owner string) ([]Coin, error) {
	var (
		all    []Coin
		cursor *string
	)
	for {
		page, err := c.GetCoins(ctx, owner, cursor)
		if err != nil {
			return nil, err
		}
		all = append(all, page.Data...)
		if !page.HasNextPage || page.NextCursor == nil {
			return all, nil
		}
		cursor = page.NextCursor
	}
}

// selectPaymentCoins 为每笔支付挑选余额完全相等的币对象
func selectPaymentCoins(coins []Coin, payments []uint64) (map[uint64][]string, map[string]bool, error) {
	used := make(map[string]bool)
	picked := make(map[uint64][]string)

	for _, amount := range payments {
		found := false
		for _, coin := range coins {
			if used[coin.CoinObjectID] {
				continue
			}
			bal, err := strconv.ParseUint(coin.Balance, 10, 64)
			if err != nil || bal != amount {
				continue
			}
			used[coin.CoinObjectID] = true
			picked[amount] = append(picked[amount], coin.CoinObjectID)
			found = true
			break
		}
		if !found {
			return nil, nil, fmt.Errorf("%w: %d MIST", ErrNoExactCoin, amount)
		}
	}
	return picked, used, nil
}

// selectGasCoin 选择余额最大且未被支付占用的币作为 gas
func selectGasCoin(coins []Coin, used map[string]bool, budget uint64) (string, bool) {
	var (
		best    string
		bestBal uint64
	)
	for _, coin := range coins {
		if used[coin.CoinObjectID] {
			continue
		}
		bal, err := strconv.ParseUint(coin.Balance, 10, 64)
		if err != nil || bal < budget {
			continue
		}
		if best == "" || bal > bestBal {
			best, bestBal = coin.CoinObjectID, bal
		}
	}
	return best, best != ""
}
