package field

import (
	"fmt"
	"regexp"
	"strconv"

	"github.com/google/uuid"
)

// UnassignedNamePart is the signer segment used in field names minted while
// no signer is selected.
const UnassignedNamePart = "unassigned"

var groupSuffix = regexp.MustCompile(`^group(\d+)$`)

// MintName produces a unique field name of the form
// {type}_{signerId}_{uuid}. A random identifier is used instead of a
// timestamp so that rapid same-millisecond creations cannot collide.
func MintName(t Type, signerID string) string {
	part := signerID
	if part == "" {
		part = UnassignedNamePart
	}
	return fmt.Sprintf("%s_%s_%s", t, part, uuid.NewString())
}

// NextGroupName synthesizes the next unused radio group name of the form
// groupN, where N is the highest existing numeric suffix plus one, or 1 when
// no group exists yet. Group names not matching the groupN pattern are
// ignored for numbering but still count as existing groups.
func NextGroupName(existing []string) string {
	max := 0
	for _, name := range existing {
		m := groupSuffix.FindStringSubmatch(name)
		if m == nil {
			continue
		}
		if n, err := strconv.Atoi(m[1]); err == nil && n > max {
			max = n
		}
	}
	return fmt.Sprintf("group%d", max+1)
}
