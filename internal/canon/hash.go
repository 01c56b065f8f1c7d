package canon

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
)

// Domain prefixes for content-addressed identity.
// Version suffix enables future algorithm migration.
const (
	DomainJournal = "critterkeep/journal/v1"
	DomainState   = "critterkeep/state/v1"
)

// HashWithDomain computes SHA-256 with domain separation:
// SHA256(domain + 0x00 + part0 + 0x00 + part1 ...).
func HashWithDomain(domain string, parts ...[]byte) string {
	h := sha256.New()
	h.Write([]byte(domain))
	for _, p := range parts {
		h.Write([]byte{0x00})
		h.Write(p)
	}
	return hex.EncodeToString(h.Sum(nil))
}

// EntryID computes the content-addressed id of a journal entry.
//
// The request id is intentionally excluded: it correlates a call with the
// host's logs, it is not part of what happened. A replay that issues fresh
// request ids therefore reproduces identical entry ids.
func EntryID(seq int64, op, caller string, at int64, args, result []byte) (string, error) {
	header, err := Marshal(map[string]any{
		"seq":    seq,
		"op":     op,
		"caller": caller,
		"at":     at,
	})
	if err != nil {
		return "", fmt.Errorf("entry id: %w", err)
	}
	return HashWithDomain(DomainJournal, header, args, result), nil
}
