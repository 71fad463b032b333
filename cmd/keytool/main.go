// Operator tool: run offline to pack the relay signing key into the
// encrypted blob delivered via /WriteSecretMessage. Decrypt mode exists to
// verify a blob against a password before delivering it.
package main

import (
	"flag"
	"fmt"
	"os"
	"strings"

	"bridgerelay/secret"

	"github.com/ethereum/go-ethereum/crypto"
)

func main() {
	keyHex := flag.String("key", "", "relay signing key as hex (encrypt mode)")
	blob := flag.String("blob", "", "packed blob to decrypt (decrypt mode)")
	password := flag.String("password", "", "encryption password (defaults to SECRET_PASSWORD env)")
	flag.Parse()

	pass := *password
	if pass == "" {
		pass = os.Getenv("SECRET_PASSWORD")
	}
	if pass == "" {
		fail("no password: use -password or set SECRET_PASSWORD")
	}

	switch {
	case *keyHex != "":
		// reject a malformed key before it gets sealed and delivered
		if _, err := crypto.HexToECDSA(strings.TrimPrefix(*keyHex, "0x")); err != nil {
			fail(fmt.Sprintf("not a valid private key: %s", err.Error()))
		}
		packed, err := secret.Encrypt(*keyHex, pass)
		if err != nil {
			fail(err.Error())
		}
		fmt.Println(packed)
	case *blob != "":
		plaintext, err := secret.Decrypt(*blob, pass)
		if err != nil {
			fail(err.Error())
		}
		fmt.Println(plaintext)
	default:
		fail("use -key to encrypt or -blob to decrypt")
	}
}

func fail(msg string) {
	fmt.Fprintln(os.Stderr, msg)
	os.Exit(2)
}
