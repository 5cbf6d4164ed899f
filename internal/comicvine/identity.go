package comicvine

import (
	"errors"
	"strings"
)

// ErrMissingIdentity reports an entry that carries neither a canonical issue
// id nor a (volume id, issue number) pair. This is a data fault in the
// upstream feed, not a transient condition.
var ErrMissingIdentity = errors.New("entry has no issue id and no volume id / issue number pair")

// keySeparator joins the composite key halves. Keys written with it persist
// in the durable cache, so it must never change.
const keySeparator = "|"

// Identity identifies a single comic issue for catalog lookup and cache
// correlation. Exactly one of the two shapes is populated: a canonical issue
// id, or a volume id plus issue number.
type Identity struct {
	issueID     string
	volumeID    string
	issueNumber string
}

// IssueIdentity builds an identity from a canonical issue id.
func IssueIdentity(issueID string) Identity {
	return Identity{issueID: strings.TrimSpace(issueID)}
}

// VolumeIdentity builds a composite identity from a volume id and issue number.
func VolumeIdentity(volumeID, issueNumber string) Identity {
	return Identity{
		volumeID:    strings.TrimSpace(volumeID),
		issueNumber: strings.TrimSpace(issueNumber),
	}
}

// ResolveIdentity normalizes the identity fields an entry may carry. The
// canonical issue id wins when present; otherwise both composite parts are
// required.
func ResolveIdentity(issueID, volumeID, issueNumber string) (Identity, error) {
	if id := strings.TrimSpace(issueID); id != "" {
		return IssueIdentity(id), nil
	}
	volumeID = strings.TrimSpace(volumeID)
	issueNumber = strings.TrimSpace(issueNumber)
	if volumeID == "" || issueNumber == "" {
		return Identity{}, ErrMissingIdentity
	}
	return VolumeIdentity(volumeID, issueNumber), nil
}

// Key returns the stable cache key: the issue id itself, or the composite
// "<volume>|<issue number>" form.
func (id Identity) Key() string {
	if id.issueID != "" {
		return id.issueID
	}
	return id.volumeID + keySeparator + id.issueNumber
}

// IsZero reports whether the identity is unpopulated.
func (id Identity) IsZero() bool {
	return id.issueID == "" && id.volumeID == "" && id.issueNumber == ""
}
