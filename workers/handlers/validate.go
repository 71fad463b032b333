package handlers

import (
	"errors"

	"bridgerelay/config"

	ethav "github.com/KOREAN139/ethereum-address-validator"
	"github.com/ethereum/go-ethereum/common"
)

// boundary validation, rejected before any chain interaction

func validAddress(address string) error {
	if address == "" {
		return errors.New("no address provided")
	}
	return ethav.Validate(common.HexToAddress(address).Hex())
}

func validNetwork(network string) error {
	if network == "" {
		return errors.New("no network provided")
	}
	_, err := config.GetNetworkID(network)
	return err
}
