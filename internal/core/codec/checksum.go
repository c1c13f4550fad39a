package codec

import (
	"github.com/cespare/xxhash/v2"
)

// Checksum hashes the compact JSON form of an envelope. Encoding is
// deterministic, so equal graphs give equal checksums regardless of the
// format they were read from.
func Checksum(envelope any) (uint64, error) {
	data, err := JSON.Marshal(envelope)
	if err != nil {
		return 0, err
	}
	return xxhash.Sum64(data), nil
}

// Sum hashes raw envelope bytes.
func Sum(data []byte) uint64 {
	return xxhash.Sum64(data)
}
