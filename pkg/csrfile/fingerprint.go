package csrfile

import (
	"encoding/hex"

	"golang.org/x/crypto/blake2b"

	"github.com/csrmap/csrmap-go/pkg/regmap"
)

// Fingerprint returns the BLAKE2b-256 digest of the flattened register map
// in CBOR encoding, as lowercase hex. Two maps have the same fingerprint
// exactly when every attribute and every ordering matches, whatever
// format they were read from.
func Fingerprint(m *regmap.RegisterMap) (string, error) {
	data, err := Encode(m, FormatCBOR)
	if err != nil {
		return "", err
	}
	sum := blake2b.Sum256(data)
	return hex.EncodeToString(sum[:]), nil
}
