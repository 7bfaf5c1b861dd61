package wishlist

import "strings"

// Priority is stored as an integer 1-4 in the provider.
type Priority int

const (
	PriorityLow Priority = iota + 1
	PriorityMedium
	PriorityHigh
	PriorityUrgent
)

// ParsePriority coerces a stored value into the closed set. Out-of-range
// values fall back to MEDIUM rather than failing, tolerating legacy rows.
func ParsePriority(v int) Priority {
	p := Priority(v)
	if p < PriorityLow || p > PriorityUrgent {
		return PriorityMedium
	}
	return p
}

func (p Priority) Int() int { return int(p) }

func (p Priority) IsValid() bool {
	return p >= PriorityLow && p <= PriorityUrgent
}

type Visibility string

const (
	VisibilityLink    Visibility = "link"
	VisibilityPrivate Visibility = "private"
)

// ParseVisibility normalizes case-insensitively and defaults to LINK for
// absent or unrecognized values.
func ParseVisibility(s string) Visibility {
	switch Visibility(strings.ToLower(strings.TrimSpace(s))) {
	case VisibilityPrivate:
		return VisibilityPrivate
	default:
		return VisibilityLink
	}
}

func (v Visibility) String() string { return string(v) }

func (v Visibility) IsValid() bool {
	switch v {
	case VisibilityLink, VisibilityPrivate:
		return true
	default:
		return false
	}
}

type Participation string

const (
	ParticipationAnyone     Participation = "anyone"
	ParticipationRegistered Participation = "registered"
	ParticipationContacts   Participation = "contacts"
)

// ParseParticipation normalizes case-insensitively and defaults to ANYONE
// for absent or unrecognized values.
func ParseParticipation(s string) Participation {
	switch Participation(strings.ToLower(strings.TrimSpace(s))) {
	case ParticipationRegistered:
		return ParticipationRegistered
	case ParticipationContacts:
		return ParticipationContacts
	default:
		return ParticipationAnyone
	}
}

func (p Participation) String() string { return string(p) }

func (p Participation) IsValid() bool {
	switch p {
	case ParticipationAnyone, ParticipationRegistered, ParticipationContacts:
		return true
	default:
		return false
	}
}

// RequiresAccount reports whether guests are excluded from reserving.
// CONTACTS implies a registered account; the contact-graph check itself
// lives with the provider's access rules.
func (p Participation) RequiresAccount() bool {
	return p == ParticipationRegistered || p == ParticipationContacts
}
