package journal

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/decentpay/escrowkit/internal/chain/soroban"
	ekerr "github.com/decentpay/escrowkit/pkg/errors"
)

func openTestJournal(t *testing.T) *Journal {
	t.Helper()
	j, err := Open(filepath.Join(t.TempDir(), "journal"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = j.Close() })
	return j
}

func TestRecordAndGet(t *testing.T) {
	t.Parallel()

	j := openTestJournal(t)

	err := j.Record(Entry{
		Hash:     "abc123",
		Method:   "approve_milestone",
		Source:   "GA7Q...",
		Sequence: 42,
		Status:   soroban.StatusPending,
	})
	require.NoError(t, err)

	entry, err := j.Get("abc123")
	require.NoError(t, err)
	assert.Equal(t, "approve_milestone", entry.Method)
	assert.Equal(t, soroban.StatusPending, entry.Status)
	assert.False(t, entry.SubmittedAt.IsZero())
}

func TestGetMissing(t *testing.T) {
	t.Parallel()

	j := openTestJournal(t)
	_, err := j.Get("missing")
	require.ErrorIs(t, err, ekerr.ErrTransactionNotFound)
}

func TestRecordRequiresHash(t *testing.T) {
	t.Parallel()

	j := openTestJournal(t)
	require.Error(t, j.Record(Entry{Method: "create_escrow"}))
}

func TestUpdateOverwrites(t *testing.T) {
	t.Parallel()

	j := openTestJournal(t)
	require.NoError(t, j.Record(Entry{Hash: "abc", Status: soroban.StatusPending}))
	require.NoError(t, j.Record(Entry{Hash: "abc", Status: soroban.StatusSuccess, Attempts: 3}))

	entry, err := j.Get("abc")
	require.NoError(t, err)
	assert.Equal(t, soroban.StatusSuccess, entry.Status)
	assert.Equal(t, 3, entry.Attempts)
}

func TestUnresolvedListsAmbiguousOutcomes(t *testing.T) {
	t.Parallel()

	j := openTestJournal(t)
	require.NoError(t, j.Record(Entry{Hash: "a", Status: soroban.StatusSuccess}))
	require.NoError(t, j.Record(Entry{Hash: "b", Status: soroban.StatusPending}))
	require.NoError(t, j.Record(Entry{Hash: "c", Status: soroban.StatusUnknown}))
	require.NoError(t, j.Record(Entry{Hash: "d", Status: soroban.StatusError}))

	unresolved, err := j.Unresolved()
	require.NoError(t, err)
	require.Len(t, unresolved, 2)

	hashes := []string{unresolved[0].Hash, unresolved[1].Hash}
	assert.ElementsMatch(t, []string{"b", "c"}, hashes)
}

func TestClosedJournal(t *testing.T) {
	t.Parallel()

	j := openTestJournal(t)
	require.NoError(t, j.Close())

	require.ErrorIs(t, j.Record(Entry{Hash: "x"}), ekerr.ErrJournalClosed)
	_, err := j.Get("x")
	require.ErrorIs(t, err, ekerr.ErrJournalClosed)
	_, err = j.Unresolved()
	require.ErrorIs(t, err, ekerr.ErrJournalClosed)
}
