package ledger

import (
	"crypto/sha256"
	"encoding/binary"
	"encoding/hex"
)

// Link computes the hash binding an entry to its predecessor. The digest is
// SHA-256 over a length-prefixed encoding of (timestamp, payload, prevHash):
// the timestamp as 8 big-endian bytes, then each variable field preceded by
// its uvarint length. Length prefixes keep field boundaries unambiguous, so
// no payload can collide with a different (payload, prevHash) split.
//
// The encoding is fixed; independent implementations must reproduce it
// byte-for-byte to verify the chain.
func Link(timestamp int64, payload []byte, prevHash string) string {
	h := sha256.New()

	var ts [8]byte
	binary.BigEndian.PutUint64(ts[:], uint64(timestamp))
	h.Write(ts[:])

	var n [binary.MaxVarintLen64]byte
	h.Write(n[:binary.PutUvarint(n[:], uint64(len(payload)))])
	h.Write(payload)
	h.Write(n[:binary.PutUvarint(n[:], uint64(len(prevHash)))])
	h.Write([]byte(prevHash))

	return hex.EncodeToString(h.Sum(nil))
}
