package ledger

import (
	"fmt"
	"strconv"
)

// ArgKind Move 调用参数类型
type ArgKind int

const (
	ArgPure   ArgKind = iota // 纯值（字符串、地址、u64）
	ArgObject                // 链上对象ID
	ArgCoin                  // 指定金额的 SUI 币，构建时解析为币对象
)

// Argument Move 调用参数
type Argument struct {
	Kind   ArgKind
	Value  string
	Amount uint64
}

// Pure 纯值参数
func Pure(v string) Argument {
	return Argument{Kind: ArgPure, Value: v}
}

// PureU64 u64 参数，按 Sui JSON 约定编码为十进制字符串
func PureU64(v uint64) Argument {
	return Argument{Kind: ArgPure, Value: strconv.FormatUint(v, 10)}
}

// Object 对象参数
func Object(id string) Argument {
	return Argument{Kind: ArgObject, Value: id}
}

// Payment 支付参数
func Payment(amount uint64) Argument {
	return Argument{Kind: ArgCoin, Amount: amount}
}

// MoveCall 单个 Move 调用
type MoveCall struct {
	Package       string
	Module        string
	Function      string
	TypeArguments []string
	Arguments     []Argument
}

// Target 调用目标 <package>::<module>::<function>
func (c MoveCall) Target() string {
	return fmt.Sprintf("%s::%s::%s", c.Package, c.Module, c.Function)
}

// Transaction 待构建的交易，按顺序执行多个 Move 调用
type Transaction struct {
	Sender    string
	GasBudget uint64
	Calls     []MoveCall
}

// Payments 交易中所有支付参数的金额
func (t *Transaction) Payments() []uint64 {
	var amounts []uint64
	for _, c := range t.Calls {
		for _, a := range c.Arguments {
			if a.Kind == ArgCoin {
				amounts = append(amounts, a.Amount)
			}
		}
	}
	return amounts
}
