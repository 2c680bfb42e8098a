package domain

// Every record carries the same identifier pair: ID is the canonical opaque
// identifier and NativeID mirrors the backend's own field (`_id`). The storage
// layer keeps the two equal so callers can use either.

// Location is a named place optionally attached to a memory.
type Location struct {
	Name    string   `json:"name"`
	Address string   `json:"address,omitempty"`
	Lat     *float64 `json:"lat,omitempty"`
	Lng     *float64 `json:"lng,omitempty"`
}

// DateRange bounds a multi-day memory such as a trip.
type DateRange struct {
	Start string `json:"start,omitempty"`
	End   string `json:"end,omitempty"`
}

// Memory is a recorded moment: a date, a milestone, a story or a travel entry.
type Memory struct {
	ID        string     `json:"id,omitempty"`
	NativeID  string     `json:"_id,omitempty"`
	Type      string     `json:"type" validate:"required,oneof=date milestone story travel"`
	Content   string     `json:"content" validate:"required"`
	Date      string     `json:"date" validate:"required"`
	DateRange *DateRange `json:"dateRange,omitempty"`
	StartDate string     `json:"startDate,omitempty"`
	EndDate   string     `json:"endDate,omitempty"`
	Location  map[string]interface{} `json:"location,omitempty"`
	Locations []Location `json:"locations,omitempty"`
	Photos    []string   `json:"photos,omitempty"`
	Tags      []string   `json:"tags,omitempty"`
	CreatedAt string     `json:"createdAt,omitempty"`
	UpdatedAt string     `json:"updatedAt,omitempty"`
}

// Anniversary is a named date the couple celebrates every year.
type Anniversary struct {
	ID          string `json:"id,omitempty"`
	NativeID    string `json:"_id,omitempty"`
	Name        string `json:"name" validate:"required"`
	Date        string `json:"date" validate:"required"`
	Description string `json:"description,omitempty"`
	CreatedAt   string `json:"createdAt,omitempty"`
	UpdatedAt   string `json:"updatedAt,omitempty"`
}

// Message is a note left for the partner, tagged with the writer's mood.
type Message struct {
	ID           string `json:"id,omitempty"`
	NativeID     string `json:"_id,omitempty"`
	Content      string `json:"content" validate:"required"`
	Mood         string `json:"mood" validate:"required"`
	VoiceMessage string `json:"voiceMessage,omitempty"`
	CreatedAt    string `json:"createdAt,omitempty"`
	UpdatedAt    string `json:"updatedAt,omitempty"`
}

// Wish is a shared wishlist entry.
type Wish struct {
	ID        string `json:"id,omitempty"`
	NativeID  string `json:"_id,omitempty"`
	Text      string `json:"text" validate:"required"`
	Content   string `json:"content,omitempty"`
	Completed bool   `json:"completed"`
	CreatedAt string `json:"createdAt,omitempty"`
	UpdatedAt string `json:"updatedAt,omitempty"`
}

// Mood is a daily check-in. One entry per calendar day is intended; the
// client enforces the dedup, neither backend does.
type Mood struct {
	ID        string `json:"id,omitempty"`
	NativeID  string `json:"_id,omitempty"`
	Mood      string `json:"mood" validate:"required"`
	Note      string `json:"note,omitempty"`
	Date      string `json:"date" validate:"required"`
	CreatedAt string `json:"createdAt,omitempty"`
	UpdatedAt string `json:"updatedAt,omitempty"`
}

// User is an account for the couple. The password hash never leaves the
// server.
type User struct {
	ID        string `json:"id,omitempty"`
	NativeID  string `json:"_id,omitempty"`
	Username  string `json:"username" validate:"required"`
	Password  string `json:"-"`
	IsCouple  bool   `json:"isCouple"`
	CreatedAt string `json:"createdAt,omitempty"`
	UpdatedAt string `json:"updatedAt,omitempty"`
}
