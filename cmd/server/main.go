package main

import (
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"bridgerelay/EVMRPC"
	"bridgerelay/bridge"
	"bridgerelay/config"
	"bridgerelay/redis"
	"bridgerelay/secret"
	"bridgerelay/workers"
	"bridgerelay/workers/handlers"

	"github.com/ethereum/go-ethereum/crypto"
)

func main() {
	log.Print("Starting token bridge relay")

	f, err := os.OpenFile(fmt.Sprintf("logs/log_%s.txt", time.Now().Format("2006-01-02")), os.O_RDWR|os.O_CREATE|os.O_APPEND, 0666)
	if err != nil {
		log.Fatalf("error opening log file for writing: %v", err)
	}
	defer f.Close()

	log.SetOutput(f)

	config.Init()

	// connect to Redis, without persistence do not continue
	redis.Init()

	// refuse to start against an endpoint serving the wrong chain
	if err := EVMRPC.Probe(); err != nil {
		log.Fatalf("RPC endpoint probe failed: %v", err)
	}

	store := redis.Store{}
	chains := func(network string) (bridge.Chain, error) {
		return EVMRPC.NewChain(network)
	}
	submitter := bridge.NewSubmitter(nil, chains, store)

	loadKey := func(blob string) error {
		keyHex, err := secret.Decrypt(blob, config.Config.Secret.Password)
		if err != nil {
			return err
		}
		key, err := crypto.HexToECDSA(strings.TrimPrefix(keyHex, "0x"))
		if err != nil {
			return fmt.Errorf("decrypted secret is not a valid private key: %s", err.Error())
		}
		submitter.SetKey(key)
		return nil
	}

	blob, err := redis.GetSecretMessage()
	if err != nil {
		log.Fatalf("Cannot read stored secret message: %v", err)
	}
	if blob == "" {
		// the blob arrives via /WriteSecretMessage; until then the server
		// only serves reads
		log.Print("No secret message stored yet, chain writes disabled until one is delivered")
	} else if err := loadKey(blob); err != nil {
		// wrong password or tampered blob, nothing useful can run
		log.Fatalf("Cannot load signing key: %v", err)
	} else {
		log.Print("Signing key loaded")
	}

	handlers.Init(submitter, chains, store, store, loadKey)

	// API serving HTTP server is the main worker thread
	workers.Worker_HTTP()
}
