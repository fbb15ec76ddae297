package config

import (
	"fmt"
	"strings"
)

// Network Sui 网络
type Network string

const (
	NetworkMainnet  Network = "mainnet"
	NetworkTestnet  Network = "testnet"
	NetworkDevnet   Network = "devnet"
	NetworkLocalnet Network = "localnet"
)

// ParseNetwork 解析网络名称
func ParseNetwork(name string) (Network, error) {
	switch n := Network(strings.ToLower(strings.TrimSpace(name))); n {
	case NetworkMainnet, NetworkTestnet, NetworkDevnet, NetworkLocalnet:
		return n, nil
	case "":
		return NetworkTestnet, nil
	default:
		return "", fmt.Errorf("unsupported network %q, supported networks: mainnet, testnet, devnet, localnet", name)
	}
}

// FullnodeURL 返回网络默认的全节点地址
func (n Network) FullnodeURL() string {
	if n == NetworkLocalnet {
		return "http://127.0.0.1:9000"
	}
	return fmt.Sprintf("https://fullnode.%s.sui.io:443", n)
}

// RPCEndpoint 返回实际使用的RPC地址
func (c SuiConfig) RPCEndpoint() string {
	if c.RpcUrl != "" {
		return c.RpcUrl
	}
	n, err := ParseNetwork(c.Network)
	if err != nil {
		n = NetworkTestnet
	}
	return n.FullnodeURL()
}

// NetworkName 返回规范化的网络名称
func (c SuiConfig) NetworkName() string {
	n, err := ParseNetwork(c.Network)
	if err != nil {
		return c.Network
	}
	return string(n)
}
