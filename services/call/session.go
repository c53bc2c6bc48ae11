// File: call/session.go
package call

import (
	"strings"
	"sync"
	"time"

	"grotto/models"
)

// Session is the live state of one phone call. The conversation loop and the
// extraction loop share a single Session: the conversation loop is the only
// writer of the transcript, the extraction loop the only writer of intents,
// questions and profile. Every accessor takes the session mutex, so each
// append or merge is atomic on its own; no lock is ever held across a
// collaborator call.
type Session struct {
	mu sync.Mutex

	callSID      string
	callerNumber string
	startedAt    time.Time
	endedAt      time.Time
	status       models.CallStatus

	transcript []models.TranscriptEntry

	intents      []string
	intentSeen   map[string]struct{}
	questions    []string
	questionSeen map[string]struct{}
	profile      models.RenterProfile
}

func newSession(callSID, callerNumber string) *Session {
	return &Session{
		callSID:      callSID,
		callerNumber: callerNumber,
		startedAt:    time.Now(),
		status:       models.CallActive,
		intentSeen:   make(map[string]struct{}),
		questionSeen: make(map[string]struct{}),
	}
}

func (s *Session) CallSID() string      { return s.callSID }
func (s *Session) CallerNumber() string { return s.callerNumber }

// Status returns the current lifecycle state.
func (s *Session) Status() models.CallStatus {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.status
}

// AppendTurn records one utterance with a server-assigned timestamp.
func (s *Session) AppendTurn(role models.Role, text string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.transcript = append(s.transcript, models.TranscriptEntry{
		Role: role,
		Text: text,
		Time: time.Now(),
	})
}

// TurnCount returns how many utterances have been recorded so far.
func (s *Session) TurnCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.transcript)
}

// SnapshotText renders the transcript so far as role-prefixed lines.
// The render happens under the session lock, so the snapshot is a consistent
// point-in-time view: it never shows a later turn while omitting an earlier one.
func (s *Session) SnapshotText() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	var sb strings.Builder
	for i, entry := range s.transcript {
		if i > 0 {
			sb.WriteByte('\n')
		}
		sb.WriteString(string(entry.Role))
		sb.WriteString(": ")
		sb.WriteString(entry.Text)
	}
	return sb.String()
}

// LastTurns returns a copy of the most recent n transcript entries, used to
// bound the context window handed to the reply generator.
func (s *Session) LastTurns(n int) []models.TranscriptEntry {
	s.mu.Lock()
	defer s.mu.Unlock()
	start := len(s.transcript) - n
	if start < 0 {
		start = 0
	}
	out := make([]models.TranscriptEntry, len(s.transcript)-start)
	copy(out, s.transcript[start:])
	return out
}

// AddIntent records an intent label if it has not been seen on this call yet.
func (s *Session) AddIntent(label string) {
	if label == "" {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.intentSeen[label]; ok {
		return
	}
	s.intentSeen[label] = struct{}{}
	s.intents = append(s.intents, label)
}

// AddQuestions appends questions, deduplicated by exact text, preserving
// first-seen order.
func (s *Session) AddQuestions(questions []string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, q := range questions {
		if q == "" {
			continue
		}
		if _, ok := s.questionSeen[q]; ok {
			continue
		}
		s.questionSeen[q] = struct{}{}
		s.questions = append(s.questions, q)
	}
}

// MergeProfile applies the fill-missing-never-retract rule field by field:
// a field is set only if it is currently unset, and an already-set field is
// never overwritten with an empty value. List fields are unioned in
// first-seen order.
func (s *Session) MergeProfile(p models.RenterProfile) {
	s.mu.Lock()
	defer s.mu.Unlock()
	fillString(&s.profile.Name, p.Name)
	fillString(&s.profile.Phone, p.Phone)
	fillString(&s.profile.Email, p.Email)
	fillString(&s.profile.RentalDates, p.RentalDates)
	fillString(&s.profile.Location, p.Location)
	fillString(&s.profile.BudgetRange, p.BudgetRange)
	s.profile.CarPreferences = unionStrings(s.profile.CarPreferences, p.CarPreferences)
	s.profile.AdditionalNotes = unionStrings(s.profile.AdditionalNotes, p.AdditionalNotes)
}

// Profile returns a copy of the merged profile so far.
func (s *Session) Profile() models.RenterProfile {
	s.mu.Lock()
	defer s.mu.Unlock()
	return copyProfile(s.profile)
}

// Intents returns a copy of the distinct intent labels in first-seen order.
func (s *Session) Intents() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.intents...)
}

// Questions returns a copy of the deduplicated questions in first-seen order.
func (s *Session) Questions() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.questions...)
}

// markFinalizing moves the session to finalizing. It is a no-op if the call
// already left the active state.
func (s *Session) markFinalizing() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.status == models.CallActive {
		s.status = models.CallFinalizing
	}
}

// markClosed stamps the end time and moves the session to closed.
func (s *Session) markClosed() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.status == models.CallClosed {
		return
	}
	s.endedAt = time.Now()
	s.status = models.CallClosed
}

// Record snapshots the session into the durable record shape.
func (s *Session) Record() models.CallRecord {
	s.mu.Lock()
	defer s.mu.Unlock()
	transcript := make([]models.TranscriptEntry, len(s.transcript))
	copy(transcript, s.transcript)
	return models.CallRecord{
		CallSID:      s.callSID,
		CallerNumber: s.callerNumber,
		StartedAt:    s.startedAt,
		EndedAt:      s.endedAt,
		Transcript:   transcript,
		Intents:      append([]string(nil), s.intents...),
		Questions:    append([]string(nil), s.questions...),
		Profile:      copyProfile(s.profile),
		Status:       s.status,
	}
}

func fillString(dst *string, v string) {
	if *dst == "" && v != "" {
		*dst = v
	}
}

func unionStrings(existing, incoming []string) []string {
	if len(incoming) == 0 {
		return existing
	}
	seen := make(map[string]struct{}, len(existing))
	for _, v := range existing {
		seen[v] = struct{}{}
	}
	for _, v := range incoming {
		if v == "" {
			continue
		}
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		existing = append(existing, v)
	}
	return existing
}

func copyProfile(p models.RenterProfile) models.RenterProfile {
	out := p
	out.CarPreferences = append([]string(nil), p.CarPreferences...)
	out.AdditionalNotes = append([]string(nil), p.AdditionalNotes...)
	return out
}
