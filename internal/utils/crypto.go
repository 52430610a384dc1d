// internal/utils/crypto.go
package utils

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"math/big"
	"strings"
	"time"
)

func GenerateRandomString(length int) (string, error) {
	const charset = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
	b := make([]byte, length)

	for i := range b {
		n, err := rand.Int(rand.Reader, big.NewInt(int64(len(charset))))
		if err != nil {
			return "", err
		}
		b[i] = charset[n.Int64()]
	}

	return string(b), nil
}

// GenerateTrackingNumber returns a shipment tracking number of the
// form AGT-20240115-XXXXXXXX.
func GenerateTrackingNumber() (string, error) {
	random, err := GenerateRandomString(8)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("AGT-%s-%s", time.Now().Format("20060102"), strings.ToUpper(random)), nil
}

// GenerateBatchCode returns a product batch code of the form
// BATCH-XXXXXXXXXXXX.
func GenerateBatchCode() (string, error) {
	random, err := GenerateRandomString(12)
	if err != nil {
		return "", err
	}
	return "BATCH-" + strings.ToUpper(random), nil
}

func HashString(input string) string {
	hasher := sha256.New()
	hasher.Write([]byte(input))
	return hex.EncodeToString(hasher.Sum(nil))
}

// ChainHash links a ledger entry to its predecessor: the hex sha256 of
// the previous hash concatenated with the entry payload. An empty
// previous hash starts a new chain.
func ChainHash(previousHash, payload string) string {
	return HashString(previousHash + "|" + payload)
}
