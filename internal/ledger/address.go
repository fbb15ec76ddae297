package ledger

import (
	"regexp"
	"strings"
)

var addressPattern = regexp.MustCompile(`^0[xX][0-9a-fA-F]{1,64}$`)

// ValidAddress 是否为合法的 Sui 地址/对象ID
func ValidAddress(addr string) bool {
	return addressPattern.MatchString(strings.TrimSpace(addr))
}

// NormalizeAddress 转为小写并左侧补零到32字节
func NormalizeAddress(addr string) string {
	addr = strings.ToLower(strings.TrimSpace(addr))
	if !ValidAddress(addr) {
		return addr
	}
	hex := addr[2:]
	if len(hex) < 64 {
		hex = strings.Repeat("0", 64-len(hex)) + hex
	}
	return "0x" + hex
}

// SameAddress 大小写不敏感地比较两个地址
func SameAddress(a, b string) bool {
	if a == "" || b == "" {
		return false
	}
	return NormalizeAddress(a) == NormalizeAddress(b)
}
