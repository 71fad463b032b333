package EVMRPC

import (
	"fmt"
	"log"
	"strconv"
	"strings"

	"bridgerelay/config"

	"github.com/ybbus/jsonrpc"
)

// Probe asks every configured RPC endpoint for its chain ID over raw
// JSON-RPC and compares it against the network config. A mismatched
// endpoint would silently feed reads from the wrong chain into the
// reconciler, so refusing to start is cheaper than debugging that later.
func Probe() error {
	for network, nc := range config.Config.Networks {
		for _, url := range nc.RPCList {
			chainID, err := endpointChainID(url)
			if err != nil {
				// a dead endpoint is tolerated, WithClient fails over
				log.Printf("Cannot probe %s endpoint %s: %s", network, url, err.Error())
				continue
			}
			if chainID != uint64(nc.ChainID) {
				return fmt.Errorf("endpoint %s reports chain id %d, config for '%s' says %d", url, chainID, network, nc.ChainID)
			}
			log.Printf("Endpoint %s ok for %s (chain id %d)", url, network, chainID)
		}
	}
	return nil
}

func endpointChainID(url string) (uint64, error) {
	response, err := jsonrpc.NewClient(url).Call("eth_chainId")
	if err != nil {
		return 0, err
	}
	if response.Error != nil {
		return 0, fmt.Errorf("eth_chainId: %s", response.Error.Message)
	}

	hex, err := response.GetString()
	if err != nil {
		return 0, err
	}
	return strconv.ParseUint(strings.TrimPrefix(hex, "0x"), 16, 64)
}
