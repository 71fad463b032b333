package config

import (
	"fmt"
	"os"

	"github.com/kelseyhightower/envconfig"
	yaml "gopkg.in/yaml.v2"
)

// reading config error is fatal, and exits main thread
func processError(err error) {
	fmt.Println(err)
	os.Exit(2)
}

func readFile(cfg *Configuration) {
	f, err := os.Open("config.yml")
	if err != nil {
		processError(err)
	}
	defer f.Close()

	decoder := yaml.NewDecoder(f)
	err = decoder.Decode(cfg)
	if err != nil {
		processError(err)
	}
}

func readEnv(cfg *Configuration) {
	err := envconfig.Process("", cfg)
	if err != nil {
		processError(err)
	}
}

func applyDefaults(cfg *Configuration) {
	if len(cfg.Networks) == 0 {
		cfg.Networks = DefaultNetworks
	}
	if cfg.Submit.GasPriceMarginPercent == 0 {
		cfg.Submit.GasPriceMarginPercent = DEFAULT_GAS_PRICE_MARGIN
	}
	if cfg.Submit.GasLimitFallback == 0 {
		cfg.Submit.GasLimitFallback = DEFAULT_GAS_LIMIT
	}
	if cfg.Submit.ReceiptPollSec == 0 {
		cfg.Submit.ReceiptPollSec = DEFAULT_RECEIPT_POLL_SEC
	}
	if cfg.Submit.ReceiptWaitSec == 0 {
		cfg.Submit.ReceiptWaitSec = DEFAULT_RECEIPT_WAIT_SEC
	}
	if cfg.Relay.RetryDelaySec == 0 {
		cfg.Relay.RetryDelaySec = DEFAULT_RETRY_DELAY_SEC
	}
	if cfg.Relay.MaxAttempts == 0 {
		cfg.Relay.MaxAttempts = DEFAULT_MAX_ATTEMPTS
	}
	if cfg.Server.Port == 0 {
		cfg.Server.Port = 8080
	}
}

func Init() {
	readFile(&Config)
	readEnv(&Config)
	applyDefaults(&Config)
}

// InitDefaults fills in the tunables without touching config.yml. Used by
// tests that need a populated network table.
func InitDefaults() {
	applyDefaults(&Config)
}
