package field

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Signer is one participant in the ordered signing sequence. SignerID is
// derived deterministically from Name so the identifier is stable and
// predictable on both sides of the wire.
type Signer struct {
	Name     string `json:"name"`
	SignerID string `json:"signerId"`
	Order    int    `json:"order"`
}

var (
	slugNonAlnum = regexp.MustCompile(`[^a-z0-9]+`)
	slugTrim     = regexp.MustCompile(`^-+|-+$`)
)

// Slugify converts a display name to a URL-safe signer identifier, e.g.
// "Jean Dupont" becomes "jean-dupont". Accented characters are decomposed
// and their combining marks stripped before lowercasing.
func Slugify(name string) string {
	if strings.TrimSpace(name) == "" {
		return ""
	}
	strip := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	normalized, _, err := transform.String(strip, name)
	if err != nil {
		normalized = name
	}
	s := strings.ToLower(normalized)
	s = slugNonAlnum.ReplaceAllString(s, "-")
	return slugTrim.ReplaceAllString(s, "")
}

// NewSigner builds a signer with a derived identifier and a 1-based order.
func NewSigner(name string, order int) Signer {
	return Signer{Name: name, SignerID: Slugify(name), Order: order}
}

// IndexOf returns the 0-based position of signerID in the ordered signer
// list, or -1 if the identifier is empty or unknown. This is the only
// sanctioned way to obtain a field's SignerIndex.
func IndexOf(signers []Signer, signerID string) int {
	if signerID == "" {
		return -1
	}
	for i, s := range signers {
		if s.SignerID == signerID {
			return i
		}
	}
	return -1
}
