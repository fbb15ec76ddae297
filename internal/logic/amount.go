package logic

import (
	"math"
	"math/big"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/xyrille1/SuiCare/internal/model"
)

const suiDecimals = 9

var maxMist = mistDecimal(math.MaxUint64)

func mistDecimal(v uint64) decimal.Decimal {
	return decimal.NewFromBigInt(new(big.Int).SetUint64(v), 0)
}

// SuiToMist 将以 SUI 为单位的十进制字符串精确转换为 MIST
func SuiToMist(amount string) (uint64, error) {
	amount = strings.TrimSpace(amount)
	if amount == "" {
		return 0, invalidf("amount is required")
	}
	d, err := decimal.NewFromString(amount)
	if err != nil {
		return 0, invalidf("amount %q is not a decimal number", amount)
	}
	if !d.IsPositive() {
		return 0, invalidf("amount must be greater than 0")
	}
	if !d.Equal(d.Truncate(suiDecimals)) {
		return 0, invalidf("amount %q has more than %d decimal places", amount, suiDecimals)
	}

	mist := d.Shift(suiDecimals)
	if mist.GreaterThan(maxMist) {
		return 0, invalidf("amount %q is too large", amount)
	}
	return mist.BigInt().Uint64(), nil
}

// MistToSui 格式化 MIST 为 SUI 字符串
func MistToSui(mist uint64) string {
	return mistDecimal(mist).Shift(-suiDecimals).String()
}

// MistToWholeSui 向下取整的 SUI 数量
func MistToWholeSui(mist uint64) uint64 {
	return mist / model.MistPerSui
}
