package schema

import "strings"

// Status is a lifecycle category of a tracked game.
type Status string

// All statuses, in declaration order.
const (
	BacklogStatus    Status = "backlog" // default
	PlayingStatus    Status = "playing"
	OccasionalStatus Status = "occasional"
	StoryClearStatus Status = "story_clear"
	FullClearStatus  Status = "full_clear"
	DroppedStatus    Status = "dropped"
	WishlistStatus   Status = "wishlist"
)

// DefaultStatus is used when a record carries an empty or unknown status.
const DefaultStatus = BacklogStatus

// StatusDefinition is the static metadata attached to a Status.
type StatusDefinition struct {
	Value                Status `json:"value"`
	Label                string `json:"label"`
	RequiresPurchaseDate bool   `json:"requires_purchase_date"`
	Group                Group  `json:"group"`
	EmptyCopy            string `json:"empty_copy"`
	Started              bool   `json:"-"` // play has begun for games in this status
}

// statusTable is the registry. Order matters: it is the bucket order
// used for output and for dominance tie-breaks.
var statusTable = []StatusDefinition{
	{BacklogStatus, "Backlog", true, OwnedGroup, "No games waiting in the backlog.", false},
	{PlayingStatus, "Playing", true, OwnedGroup, "Nothing in progress right now.", true},
	{OccasionalStatus, "Occasional", true, OwnedGroup, "No games on occasional rotation.", true},
	{StoryClearStatus, "Story clear", true, OwnedGroup, "No story clears recorded yet.", true},
	{FullClearStatus, "Full clear", true, OwnedGroup, "No full clears recorded yet.", true},
	{DroppedStatus, "Dropped", true, OwnedGroup, "No dropped games.", true},
	{WishlistStatus, "Wishlist", false, WishlistGroup, "The wishlist is empty.", false},
}

var statusIndex = func() map[Status]int {
	idx := make(map[Status]int, len(statusTable))
	for i, def := range statusTable {
		idx[def.Value] = i
	}
	return idx
}()

// AllStatuses returns every status in declaration order.
func AllStatuses() []Status {
	out := make([]Status, len(statusTable))
	for i, def := range statusTable {
		out[i] = def.Value
	}
	return out
}

// StatusDefinitions returns a copy of the registry in declaration order.
func StatusDefinitions() []StatusDefinition {
	out := make([]StatusDefinition, len(statusTable))
	copy(out, statusTable)
	return out
}

// LookupStatus finds the definition for a raw status value, ignoring case
// and surrounding whitespace. The boolean is false for unknown values.
func LookupStatus(value string) (StatusDefinition, bool) {
	i, ok := statusIndex[Status(strings.ToLower(strings.TrimSpace(value)))]
	if !ok {
		return StatusDefinition{}, false
	}
	return statusTable[i], true
}

// NormalizeStatus coerces a raw value into a known Status, falling back to DefaultStatus.
func NormalizeStatus(value string) Status {
	if def, ok := LookupStatus(value); ok {
		return def.Value
	}
	return DefaultStatus
}

// DefinitionOf returns the definition for s, or the default bucket's definition.
func DefinitionOf(s Status) StatusDefinition {
	def, _ := LookupStatus(string(s))
	if def.Value == "" {
		def = statusTable[statusIndex[DefaultStatus]]
	}
	return def
}

// RequiresPurchase reports whether games in this status count toward owned aggregates.
func RequiresPurchase(value string) bool {
	return DefinitionOf(Status(value)).RequiresPurchaseDate
}

// StatusOrder returns the declaration position of s; unknown statuses sort with the default.
func StatusOrder(s Status) int {
	return statusIndex[NormalizeStatus(string(s))]
}
