package models

import "time"

// Role identifies which side of the call spoke a transcript entry.
type Role string

const (
	RoleCaller Role = "caller"
	RoleAgent  Role = "agent"
)

// CallStatus tracks the lifecycle of a call session.
// Transitions only ever move forward: active -> finalizing -> closed.
type CallStatus string

const (
	CallActive     CallStatus = "active"
	CallFinalizing CallStatus = "finalizing"
	CallClosed     CallStatus = "closed"
)

// TranscriptEntry is a single utterance in a call, in arrival order.
type TranscriptEntry struct {
	Role Role      `bson:"role" json:"role"`
	Text string    `bson:"text" json:"text"`
	Time time.Time `bson:"time" json:"time"`
}

// RenterProfile is the structured caller data mined from the conversation.
// Every field is independently optional; merge semantics are fill-missing,
// never retract (see call.Session.MergeProfile).
type RenterProfile struct {
	Name            string   `bson:"name,omitempty" json:"name,omitempty"`
	Phone           string   `bson:"phone,omitempty" json:"phone,omitempty"`
	Email           string   `bson:"email,omitempty" json:"email,omitempty"`
	RentalDates     string   `bson:"rentalDates,omitempty" json:"rental_dates,omitempty"`
	Location        string   `bson:"location,omitempty" json:"location,omitempty"`
	BudgetRange     string   `bson:"budgetRange,omitempty" json:"budget_range,omitempty"`
	CarPreferences  []string `bson:"carPreferences,omitempty" json:"car_preferences,omitempty"`
	AdditionalNotes []string `bson:"additionalNotes,omitempty" json:"additional_notes,omitempty"`
}

// IsEmpty reports whether no field of the profile has been populated yet.
func (p RenterProfile) IsEmpty() bool {
	return p.Name == "" && p.Phone == "" && p.Email == "" &&
		p.RentalDates == "" && p.Location == "" && p.BudgetRange == "" &&
		len(p.CarPreferences) == 0 && len(p.AdditionalNotes) == 0
}

// CallRecord is the durable artifact produced when a call is finalized.
type CallRecord struct {
	ID           string            `bson:"id" json:"id"`
	CallSID      string            `bson:"callSid" json:"call_sid"`
	CallerNumber string            `bson:"callerNumber" json:"caller_number"`
	StartedAt    time.Time         `bson:"startedAt" json:"started_at"`
	EndedAt      time.Time         `bson:"endedAt" json:"ended_at"`
	Transcript   []TranscriptEntry `bson:"transcript" json:"transcript"`
	Intents      []string          `bson:"intents" json:"intents"`
	Questions    []string          `bson:"questions" json:"questions"`
	Profile      RenterProfile     `bson:"profile" json:"renter_profile"`
	Status       CallStatus        `bson:"status" json:"status"`
	CreatedAt    time.Time         `bson:"createdAt" json:"created_at"`
	UpdatedAt    time.Time         `bson:"updatedAt" json:"updated_at"`
}
