package model

type EntryType string

const (
	EntryMemory    EntryType = "memory"
	EntryMilestone EntryType = "milestone"
)

type Side string

const (
	SideLeft  Side = "left"
	SideRight Side = "right"
)

const (
	DefaultMemoryTitle    = "Memory"
	DefaultMilestoneTitle = "Milestone"
)

// Entry is one timeline record. The JSON layout matches the persisted "timelineData" blob.
type Entry struct {
	ID    string    `json:"id"`
	Type  EntryType `json:"type"`
	Title string    `json:"title"`

	// Date is an ISO calendar date (YYYY-MM-DD) or empty.
	Date string `json:"date,omitempty"`

	// Memory-only fields.
	Note     string `json:"note,omitempty"`
	Image    string `json:"image,omitempty"` // data URL
	Position Side   `json:"position,omitempty"`
}

func (e Entry) IsMemory() bool { return e.Type != EntryMilestone }

func (e Entry) IsMilestone() bool { return e.Type == EntryMilestone }

// EffectiveSide returns the visual side of a memory; an unset position renders on the left.
func (e Entry) EffectiveSide() Side {
	if e.Position == SideRight {
		return SideRight
	}
	return SideLeft
}

// Flipped returns the opposite side.
func (s Side) Flipped() Side {
	if s == SideRight {
		return SideLeft
	}
	return SideRight
}

func DefaultTitle(t EntryType) string {
	if t == EntryMilestone {
		return DefaultMilestoneTitle
	}
	return DefaultMemoryTitle
}

func ValidType(t EntryType) bool {
	return t == EntryMemory || t == EntryMilestone
}
