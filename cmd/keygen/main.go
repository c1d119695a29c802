// Command keygen prints a fresh 64-character hexadecimal master key.
// This is the only supported way to mint a key for VAULT_MASTER_KEY.
package main

import (
	"fmt"
	"log"

	"github.com/avolkov/credvault/internal/common"
	"github.com/avolkov/credvault/internal/cryptox"
)

func main() {
	key, err := common.MakeRandHexString(cryptox.MasterKeySize)
	if err != nil {
		log.Fatalf("keygen: %v", err)
	}
	fmt.Println(key)
}
