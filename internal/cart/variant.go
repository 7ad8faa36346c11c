package cart

import (
	"crypto/sha256"
	"encoding/hex"
	"sort"
	"strings"

	"gemkart/internal/model"
)

// VariantHash derives the variant discriminator for an "add separate" line
// from its option selection. The cart uniqueness key is (user, product,
// variant hash); the primary line uses the empty string, so a second line
// for the same product can only exist under a distinct option selection.
func VariantHash(options model.Options) string {
	if len(options) == 0 {
		return ""
	}

	keys := make([]string, 0, len(options))
	for k := range options {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var b strings.Builder
	for _, k := range keys {
		b.WriteString(k)
		b.WriteByte(0x1f)
		b.WriteString(options[k])
		b.WriteByte(0x1e)
	}

	sum := sha256.Sum256([]byte(b.String()))
	return hex.EncodeToString(sum[:8])
}
