package rtshim

import (
	"encoding/hex"

	"github.com/zeebo/blake3"
)

// digestKey is the 32-byte BLAKE3 key for map digests: the ASCII
// domain name, zero-padded.  Changing it invalidates every digest.
var digestKey = [32]byte{
	'r', 't', 's', 'h', 'i', 'm', '.', 'k', 'e', 'y', 'e', 'd', 'm', 'a', 'p', 0,
	0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0,
}

// Digest returns a content identifier for m:
//
//	"kmap1:" + hex_lower(BLAKE3-keyed(SNAPSHOT))
//
// Maps with equal contents have equal digests.  Maps holding Ref values
// cannot be digested (ERR_TYPE).
func Digest[V Value](m *KeyedMap[V]) (string, error) {
	snap, err := EncodeSnapshot(m)
	if err != nil {
		return "", err
	}
	return digestPrefix + blake3hex(snap), nil
}

// DigestSnapshot validates pre-built snapshot bytes and returns their
// digest without re-encoding.
func DigestSnapshot(data []byte, limits Limits) (string, error) {
	if err := validateSnapshot(data, limits); err != nil {
		return "", err
	}
	return digestPrefix + blake3hex(data), nil
}

func blake3hex(data []byte) string {
	h, err := blake3.NewKeyed(digestKey[:])
	if err != nil {
		// Only a key of the wrong length fails, and digestKey is fixed.
		panic("rtshim: blake3 keyed hasher: " + err.Error())
	}
	h.Write(data)
	return hex.EncodeToString(h.Sum(nil))
}
