package hashing

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"

	"github.com/google/uuid"

	"github.com/mmrzaf/colgen/internal/domain"
)

// sessionNamespace scopes session IDs derived from config hashes.
var sessionNamespace = uuid.MustParse("6f1c2a4e-3b7d-5c9e-8a21-0d4f6b8e2c17")

// HashSampleConfig fingerprints a resolved sample configuration. The order
// of not-null overrides does not matter.
func HashSampleConfig(cfg domain.SampleConfig) (string, error) {
	cfg.NotNullColumns = sortedUnique(cfg.NotNullColumns)
	b, err := json.Marshal(cfg)
	if err != nil {
		return "", err
	}

	sum := sha256.Sum256(b)
	return hex.EncodeToString(sum[:]), nil
}

// SessionID derives a stable name-based UUID from a config hash, so the same
// configuration always reports the same session.
func SessionID(configHash string) string {
	return uuid.NewSHA1(sessionNamespace, []byte(configHash)).String()
}
