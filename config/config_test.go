package config

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestGetNetworkID(t *testing.T) {
	Config = Configuration{}
	Config.Networks = map[string]NetworkConfig{
		"ethereum": {ChainID: 1},
		"bsc":      {ChainID: 56},
	}

	id, err := GetNetworkID("bsc")
	require.NoError(t, err)
	require.Equal(t, 56, id)

	id, err = GetNetworkID("ethereum")
	require.NoError(t, err)
	require.Equal(t, 1, id)

	_, err = GetNetworkID("dogecoin")
	require.Error(t, err)
	require.Contains(t, err.Error(), "dogecoin")
}

func TestCounterpartNetwork(t *testing.T) {
	Config = Configuration{}
	Config.Networks = map[string]NetworkConfig{
		"ethereum": {ChainID: 1},
		"bsc":      {ChainID: 56},
	}

	counterpart, err := CounterpartNetwork("bsc")
	require.NoError(t, err)
	require.Equal(t, "ethereum", counterpart)

	counterpart, err = CounterpartNetwork("ethereum")
	require.NoError(t, err)
	require.Equal(t, "bsc", counterpart)

	_, err = CounterpartNetwork("dogecoin")
	require.Error(t, err)

	// with more than two networks the counterpart is ambiguous
	Config.Networks["polygon"] = NetworkConfig{ChainID: 137}
	_, err = CounterpartNetwork("bsc")
	require.Error(t, err)
}

func TestInitDefaults(t *testing.T) {
	Config = Configuration{}
	InitDefaults()

	require.Equal(t, DefaultNetworks, Config.Networks)
	require.EqualValues(t, DEFAULT_GAS_PRICE_MARGIN, Config.Submit.GasPriceMarginPercent)
	require.EqualValues(t, DEFAULT_GAS_LIMIT, Config.Submit.GasLimitFallback)
	require.Equal(t, DEFAULT_RECEIPT_POLL_SEC, Config.Submit.ReceiptPollSec)
	require.Equal(t, DEFAULT_RECEIPT_WAIT_SEC, Config.Submit.ReceiptWaitSec)
	require.Equal(t, DEFAULT_RETRY_DELAY_SEC, Config.Relay.RetryDelaySec)
	require.Equal(t, DEFAULT_MAX_ATTEMPTS, Config.Relay.MaxAttempts)
	require.Equal(t, 8080, Config.Server.Port)
}

func TestInitDefaultsKeepsExplicitValues(t *testing.T) {
	Config = Configuration{}
	Config.Submit.GasPriceMarginPercent = 150
	Config.Networks = map[string]NetworkConfig{"ethereum": {ChainID: 1}}
	InitDefaults()

	require.EqualValues(t, 150, Config.Submit.GasPriceMarginPercent)
	require.Len(t, Config.Networks, 1)
}
