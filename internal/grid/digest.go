package grid

import (
	"encoding/binary"
	"encoding/hex"

	"golang.org/x/crypto/blake2b"
)

// Digest returns a hex BLAKE2b-256 fingerprint of the dimensions and every
// label. Equal grids produce equal digests.
func (g *Grid) Digest() string {
	h, _ := blake2b.New256(nil) // only fails for oversized keys
	var hdr [16]byte
	binary.BigEndian.PutUint64(hdr[0:8], uint64(g.rows))
	binary.BigEndian.PutUint64(hdr[8:16], uint64(g.cols))
	h.Write(hdr[:])
	var n [4]byte
	for _, label := range g.cells {
		binary.BigEndian.PutUint32(n[:], uint32(len(label)))
		h.Write(n[:])
		h.Write([]byte(label))
	}
	return hex.EncodeToString(h.Sum(nil))
}
