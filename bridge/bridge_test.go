package bridge

import (
	"context"
	"fmt"
	"math/big"

	"bridgerelay/config"

	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	ethtypes "github.com/ethereum/go-ethereum/core/types"
)

func initTestConfig() {
	config.Config.Networks = map[string]config.NetworkConfig{
		"ethereum": {ChainID: 1},
		"bsc":      {ChainID: 56},
	}
	config.Config.Submit.GasPriceMarginPercent = config.DEFAULT_GAS_PRICE_MARGIN
	config.Config.Submit.GasLimitFallback = config.DEFAULT_GAS_LIMIT
	config.Config.Submit.ReceiptPollSec = 1
	config.Config.Submit.ReceiptWaitSec = 2
}

type readCall struct {
	op            string
	owner         common.Address
	counterpartID *big.Int
}

type submission struct {
	method        string
	owner         common.Address
	counterpartID *big.Int
	amount        *big.Int
	fee           *big.Int
	gasLimit      uint64
	gasPrice      *big.Int
	nonce         uint64
}

type fakeChain struct {
	sent     *big.Int
	received *big.Int
	readErr  error
	reads    []readCall

	gasPrice    *big.Int
	nonce       uint64
	estimateGas uint64
	estimateErr error
	submitErr   error

	receiptStatus  uint64
	receiptGasUsed uint64
	receiptErr     error

	submissions []submission
}

func (f *fakeChain) TokensSent(ctx context.Context, owner common.Address, counterpartChainID *big.Int) (*big.Int, error) {
	f.reads = append(f.reads, readCall{op: "tokensSent", owner: owner, counterpartID: counterpartChainID})
	if f.readErr != nil {
		return nil, f.readErr
	}
	return big.NewInt(0).Set(f.sent), nil
}

func (f *fakeChain) TokensReceived(ctx context.Context, owner common.Address, counterpartChainID *big.Int) (*big.Int, error) {
	f.reads = append(f.reads, readCall{op: "tokensReceived", owner: owner, counterpartID: counterpartChainID})
	if f.readErr != nil {
		return nil, f.readErr
	}
	return big.NewInt(0).Set(f.received), nil
}

func (f *fakeChain) SuggestGasPrice(ctx context.Context) (*big.Int, error) {
	return big.NewInt(0).Set(f.gasPrice), nil
}

func (f *fakeChain) PendingNonceAt(ctx context.Context, account common.Address) (uint64, error) {
	return f.nonce, nil
}

func (f *fakeChain) EstimateReceiveGas(ctx context.Context, from, owner common.Address, counterpartChainID, amount, fee *big.Int) (uint64, error) {
	if f.estimateErr != nil {
		return 0, f.estimateErr
	}
	return f.estimateGas, nil
}

func (f *fakeChain) EstimateWriteGas(ctx context.Context, from, owner common.Address, counterpartChainID *big.Int) (uint64, error) {
	if f.estimateErr != nil {
		return 0, f.estimateErr
	}
	return f.estimateGas, nil
}

func (f *fakeChain) submit(method string, opts *bind.TransactOpts, owner common.Address, counterpartChainID, amount, fee *big.Int) (*ethtypes.Transaction, error) {
	if f.submitErr != nil {
		return nil, f.submitErr
	}
	f.submissions = append(f.submissions, submission{
		method:        method,
		owner:         owner,
		counterpartID: counterpartChainID,
		amount:        amount,
		fee:           fee,
		gasLimit:      opts.GasLimit,
		gasPrice:      opts.GasPrice,
		nonce:         opts.Nonce.Uint64(),
	})
	contract := common.HexToAddress("0x8A3e14a8f21fE03E7967C262cAb7c67B0cB54F5d")
	return ethtypes.NewTx(&ethtypes.LegacyTx{
		Nonce:    opts.Nonce.Uint64(),
		To:       &contract,
		Value:    big.NewInt(0),
		Gas:      opts.GasLimit,
		GasPrice: opts.GasPrice,
	}), nil
}

func (f *fakeChain) SubmitReceive(opts *bind.TransactOpts, owner common.Address, counterpartChainID, amount, fee *big.Int) (*ethtypes.Transaction, error) {
	return f.submit("receiveTokens", opts, owner, counterpartChainID, amount, fee)
}

func (f *fakeChain) SubmitWrite(opts *bind.TransactOpts, owner common.Address, counterpartChainID *big.Int) (*ethtypes.Transaction, error) {
	return f.submit("writeTransaction", opts, owner, counterpartChainID, nil, nil)
}

func (f *fakeChain) TransactionReceipt(ctx context.Context, txHash common.Hash) (*ethtypes.Receipt, error) {
	if f.receiptErr != nil {
		return nil, f.receiptErr
	}
	return &ethtypes.Receipt{
		Status:  f.receiptStatus,
		GasUsed: f.receiptGasUsed,
		TxHash:  txHash,
	}, nil
}

func resolverFor(fakes map[string]*fakeChain) Resolver {
	return func(network string) (Chain, error) {
		c, ok := fakes[network]
		if !ok {
			return nil, fmt.Errorf("unknown network '%s'", network)
		}
		return c, nil
	}
}

type fakeFeeStore struct {
	quotes map[string]*big.Int
}

func newFakeFeeStore() *fakeFeeStore {
	return &fakeFeeStore{quotes: map[string]*big.Int{}}
}

func (f *fakeFeeStore) GetFeeQuote(network string) (*big.Int, error) {
	if q, ok := f.quotes[network]; ok {
		return big.NewInt(0).Set(q), nil
	}
	return big.NewInt(0), nil
}

func (f *fakeFeeStore) SetFeeQuote(network string, fee *big.Int) error {
	f.quotes[network] = big.NewInt(0).Set(fee)
	return nil
}
