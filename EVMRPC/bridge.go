package EVMRPC

import (
	"context"
	"fmt"
	"math/big"
	"strings"

	"bridgerelay/config"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	ethtypes "github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/ethclient"
)

// bridge contract surface used by the relay: two cumulative counters
// keyed by (owner, counterpart chain id), the relay confirmation write,
// and the release call
const BridgeABI = `[
{"inputs":[{"internalType":"address","name":"owner","type":"address"},{"internalType":"uint256","name":"chainId","type":"uint256"}],"name":"tokensSent","outputs":[{"internalType":"uint256","name":"","type":"uint256"}],"stateMutability":"view","type":"function"},
{"inputs":[{"internalType":"address","name":"owner","type":"address"},{"internalType":"uint256","name":"chainId","type":"uint256"}],"name":"tokensReceived","outputs":[{"internalType":"uint256","name":"","type":"uint256"}],"stateMutability":"view","type":"function"},
{"inputs":[{"internalType":"address","name":"owner","type":"address"},{"internalType":"uint256","name":"chainId","type":"uint256"}],"name":"writeTransaction","outputs":[],"stateMutability":"nonpayable","type":"function"},
{"inputs":[{"internalType":"address","name":"owner","type":"address"},{"internalType":"uint256","name":"chainId","type":"uint256"},{"internalType":"uint256","name":"amount","type":"uint256"},{"internalType":"uint256","name":"fee","type":"uint256"}],"name":"receiveTokens","outputs":[],"stateMutability":"nonpayable","type":"function"}
]`

var bridgeContractABI abi.ABI

func init() {
	parsed, err := abi.JSON(strings.NewReader(BridgeABI))
	if err != nil {
		panic(fmt.Sprintf("cannot parse bridge contract ABI: %s", err))
	}
	bridgeContractABI = parsed
}

// Chain is the accessor for one network's bridge contract. All calls fail
// over across the network's RPC list.
type Chain struct {
	Network string
}

func NewChain(network string) (*Chain, error) {
	if _, ok := config.Config.Networks[network]; !ok {
		return nil, fmt.Errorf("unknown network '%s'", network)
	}
	return &Chain{Network: network}, nil
}

func (c *Chain) contractAddress() common.Address {
	return common.HexToAddress(config.Config.Networks[c.Network].ContractAddress)
}

func (c *Chain) boundContract(client *ethclient.Client) *bind.BoundContract {
	return bind.NewBoundContract(c.contractAddress(), bridgeContractABI, client, client, client)
}

func (c *Chain) callUint(ctx context.Context, method string, args ...interface{}) (*big.Int, error) {
	return WithClient(c.Network, func(client *ethclient.Client) (*big.Int, error) {
		var out []interface{}
		err := c.boundContract(client).Call(&bind.CallOpts{Context: ctx}, &out, method, args...)
		if err != nil {
			return nil, err
		}
		return *abi.ConvertType(out[0], new(*big.Int)).(**big.Int), nil
	})
}

func (c *Chain) TokensSent(ctx context.Context, owner common.Address, counterpartChainID *big.Int) (*big.Int, error) {
	return c.callUint(ctx, "tokensSent", owner, counterpartChainID)
}

func (c *Chain) TokensReceived(ctx context.Context, owner common.Address, counterpartChainID *big.Int) (*big.Int, error) {
	return c.callUint(ctx, "tokensReceived", owner, counterpartChainID)
}

func (c *Chain) SuggestGasPrice(ctx context.Context) (*big.Int, error) {
	return WithClient(c.Network, func(client *ethclient.Client) (*big.Int, error) {
		return client.SuggestGasPrice(ctx)
	})
}

func (c *Chain) BlockNumber(ctx context.Context) (uint64, error) {
	return WithClient(c.Network, func(client *ethclient.Client) (uint64, error) {
		return client.BlockNumber(ctx)
	})
}

func (c *Chain) PendingNonceAt(ctx context.Context, account common.Address) (uint64, error) {
	return WithClient(c.Network, func(client *ethclient.Client) (uint64, error) {
		return client.PendingNonceAt(ctx, account)
	})
}

func (c *Chain) estimate(ctx context.Context, from common.Address, method string, args ...interface{}) (uint64, error) {
	data, err := bridgeContractABI.Pack(method, args...)
	if err != nil {
		return 0, err
	}
	to := c.contractAddress()
	return WithClient(c.Network, func(client *ethclient.Client) (uint64, error) {
		return client.EstimateGas(ctx, ethereum.CallMsg{
			From: from,
			To:   &to,
			Data: data,
		})
	})
}

func (c *Chain) EstimateReceiveGas(ctx context.Context, from, owner common.Address, counterpartChainID, amount, fee *big.Int) (uint64, error) {
	return c.estimate(ctx, from, "receiveTokens", owner, counterpartChainID, amount, fee)
}

func (c *Chain) EstimateWriteGas(ctx context.Context, from, owner common.Address, counterpartChainID *big.Int) (uint64, error) {
	return c.estimate(ctx, from, "writeTransaction", owner, counterpartChainID)
}

func (c *Chain) transact(opts *bind.TransactOpts, method string, args ...interface{}) (*ethtypes.Transaction, error) {
	return WithClient(c.Network, func(client *ethclient.Client) (*ethtypes.Transaction, error) {
		return c.boundContract(client).Transact(opts, method, args...)
	})
}

func (c *Chain) SubmitReceive(opts *bind.TransactOpts, owner common.Address, counterpartChainID, amount, fee *big.Int) (*ethtypes.Transaction, error) {
	return c.transact(opts, "receiveTokens", owner, counterpartChainID, amount, fee)
}

func (c *Chain) SubmitWrite(opts *bind.TransactOpts, owner common.Address, counterpartChainID *big.Int) (*ethtypes.Transaction, error) {
	return c.transact(opts, "writeTransaction", owner, counterpartChainID)
}

func (c *Chain) TransactionReceipt(ctx context.Context, txHash common.Hash) (*ethtypes.Receipt, error) {
	return WithClient(c.Network, func(client *ethclient.Client) (*ethtypes.Receipt, error) {
		return client.TransactionReceipt(ctx, txHash)
	})
}
