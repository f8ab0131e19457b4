package chain

import (
	"crypto/sha256"
	"encoding/hex"
	"strconv"
)

// Fingerprint computes the display hash of a block. It links blocks visually;
// it is not a tamper-proof commitment.
func Fingerprint(index int, prevHash, timestamp, data string) string {
	sum := sha256.Sum256([]byte(strconv.Itoa(index) + prevHash + timestamp + data))
	return hex.EncodeToString(sum[:])
}
