package call

import (
	"fmt"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"grotto/models"
)

func TestSnapshotTextReflectsTurnsInOrder(t *testing.T) {
	sess := newSession("CA1", "+15551234567")
	sess.AppendTurn(models.RoleCaller, "Hello, I need a car")
	sess.AppendTurn(models.RoleAgent, "I can help you with that")
	sess.AppendTurn(models.RoleCaller, "Something cheap please")

	snapshot := sess.SnapshotText()
	lines := strings.Split(snapshot, "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "caller: Hello, I need a car", lines[0])
	assert.Equal(t, "agent: I can help you with that", lines[1])
	assert.Equal(t, "caller: Something cheap please", lines[2])
}

// Snapshots taken while another goroutine appends must never show a later
// turn while omitting an earlier one.
func TestSnapshotTextNeverTears(t *testing.T) {
	sess := newSession("CA1", "")
	const total = 500

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		for i := 0; i < total; i++ {
			sess.AppendTurn(models.RoleCaller, fmt.Sprintf("turn-%d", i))
		}
	}()

	for i := 0; i < 200; i++ {
		snapshot := sess.SnapshotText()
		if snapshot == "" {
			continue
		}
		for j, line := range strings.Split(snapshot, "\n") {
			require.Equal(t, fmt.Sprintf("caller: turn-%d", j), line,
				"snapshot observed turns out of order")
		}
	}
	wg.Wait()

	lines := strings.Split(sess.SnapshotText(), "\n")
	assert.Len(t, lines, total)
}

func TestLastTurnsBoundsWindow(t *testing.T) {
	sess := newSession("CA1", "")
	for i := 0; i < 8; i++ {
		sess.AppendTurn(models.RoleCaller, fmt.Sprintf("turn-%d", i))
	}

	window := sess.LastTurns(5)
	require.Len(t, window, 5)
	assert.Equal(t, "turn-3", window[0].Text)
	assert.Equal(t, "turn-7", window[4].Text)

	assert.Len(t, sess.LastTurns(100), 8)
}

func TestMergeProfileFillsMissingNeverRetracts(t *testing.T) {
	sess := newSession("CA1", "")

	sess.MergeProfile(models.RenterProfile{Name: "Alice", CarPreferences: []string{"suv"}})
	// An empty value must not clear an already-set field.
	sess.MergeProfile(models.RenterProfile{Name: "", Location: "Denver"})
	// A conflicting later value must not overwrite the first one.
	sess.MergeProfile(models.RenterProfile{Name: "Bob", CarPreferences: []string{"suv", "van"}})

	profile := sess.Profile()
	assert.Equal(t, "Alice", profile.Name)
	assert.Equal(t, "Denver", profile.Location)
	assert.Equal(t, []string{"suv", "van"}, profile.CarPreferences)
}

func TestMergeProfileIdempotent(t *testing.T) {
	sess := newSession("CA1", "")
	p := models.RenterProfile{Name: "Alice", Email: "alice@example.com", CarPreferences: []string{"economy"}}

	sess.MergeProfile(p)
	once := sess.Profile()
	sess.MergeProfile(p)
	twice := sess.Profile()

	assert.Equal(t, once, twice)
}

func TestAddQuestionsDeduplicatesPreservingOrder(t *testing.T) {
	sess := newSession("CA1", "")
	sess.AddQuestions([]string{"A", "B"})
	sess.AddQuestions([]string{"B", "C"})

	assert.Equal(t, []string{"A", "B", "C"}, sess.Questions())
}

func TestAddIntentIsASet(t *testing.T) {
	sess := newSession("CA1", "")
	sess.AddIntent("pricing_inquiry")
	sess.AddIntent("availability_check")
	sess.AddIntent("pricing_inquiry")
	sess.AddIntent("")

	assert.Equal(t, []string{"pricing_inquiry", "availability_check"}, sess.Intents())
}

func TestStatusOnlyMovesForward(t *testing.T) {
	sess := newSession("CA1", "")
	assert.Equal(t, models.CallActive, sess.Status())

	sess.markFinalizing()
	assert.Equal(t, models.CallFinalizing, sess.Status())

	// finalizing cannot fall back to active
	sess.markFinalizing()
	assert.Equal(t, models.CallFinalizing, sess.Status())

	sess.markClosed()
	assert.Equal(t, models.CallClosed, sess.Status())
	require.False(t, sess.Record().EndedAt.IsZero())

	endedAt := sess.Record().EndedAt
	sess.markClosed()
	assert.Equal(t, endedAt, sess.Record().EndedAt, "closing twice must not restamp endedAt")
}

func TestRecordSnapshotsSession(t *testing.T) {
	sess := newSession("CA9", "+15550001111")
	sess.AppendTurn(models.RoleCaller, "hi")
	sess.AddIntent("general_inquiry")
	sess.AddQuestions([]string{"Do you have vans?"})
	sess.MergeProfile(models.RenterProfile{Name: "Carol"})
	sess.markFinalizing()
	sess.markClosed()

	record := sess.Record()
	assert.Equal(t, "CA9", record.CallSID)
	assert.Equal(t, "+15550001111", record.CallerNumber)
	assert.Equal(t, models.CallClosed, record.Status)
	require.Len(t, record.Transcript, 1)
	assert.Equal(t, []string{"general_inquiry"}, record.Intents)
	assert.Equal(t, []string{"Do you have vans?"}, record.Questions)
	assert.Equal(t, "Carol", record.Profile.Name)
}
