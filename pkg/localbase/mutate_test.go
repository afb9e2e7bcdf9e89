package localbase

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/rewardmaths/localbase/pkg/types"
)

func TestInsertUpserts(t *testing.T) {
	c := newTestClient(t)

	_, err := c.From(types.TableGameSessions).Insert(
		types.Record{"session_id": "s1", "user_id": "u1", "started_at": "a"})
	require.NoError(t, err)

	_, err = c.From(types.TableGameSessions).Insert(
		types.Record{"session_id": "s1", "user_id": "u2", "started_at": "a"})
	require.NoError(t, err)

	rows, err := c.From(types.TableGameSessions).Select().Execute()
	require.NoError(t, err)
	require.Len(t, rows, 1)
	require.Equal(t, "u2", rows[0].String("user_id"))
}

func TestInsertAddOnlyRejectsCollision(t *testing.T) {
	c := newTestClient(t)

	_, err := c.From(types.TableProfiles).Insert(
		types.Record{"id": "u1", "username": "tom", "email": "tom@x"})
	require.NoError(t, err)

	_, err = c.From(types.TableProfiles).Insert(
		types.Record{"id": "u1", "username": "other", "email": "o@x"})
	require.True(t, types.IsKind(err, types.KindConstraint), "got %v", err)
}

func TestInsertAssignsAutoIncrementIDs(t *testing.T) {
	c := newTestClient(t)

	recs, err := c.From(types.TableQuestionAttempts).Insert(
		types.Record{"session_id": "s1", "user_id": "u1", "is_correct": true},
		types.Record{"session_id": "s1", "user_id": "u1", "is_correct": false},
	)
	require.NoError(t, err)
	require.Len(t, recs, 2)
	require.True(t, recs[0].Has("id"))
	require.True(t, recs[1].Has("id"))
	require.Greater(t, recs[1].Int("id"), recs[0].Int("id"))
}

func TestInsertIntoViewFails(t *testing.T) {
	c := newTestClient(t)

	_, err := c.From(ViewUserStats).Insert(types.Record{"id": "x"})
	require.True(t, types.IsKind(err, types.KindUnknownOperation), "got %v", err)
}

func TestUpdateMergesPatch(t *testing.T) {
	c := newTestClient(t)

	_, err := c.From(types.TableGameSessions).Insert(
		types.Record{"session_id": "s1", "user_id": "u1", "started_at": "x", "a": 0, "b": 2})
	require.NoError(t, err)

	before, err := c.From(types.TableGameSessions).Update(types.Record{"a": 1}).
		Eq("session_id", "s1").
		Execute()
	require.NoError(t, err)

	// Pre-update rows come back.
	require.Len(t, before, 1)
	require.Equal(t, 0, before[0].Int("a"))

	after, err := c.From(types.TableGameSessions).Select().Eq("session_id", "s1").One()
	require.NoError(t, err)
	require.Equal(t, 1, after.Int("a"))
	require.Equal(t, 2, after.Int("b"), "untouched field must survive")
	require.Equal(t, c.timestamp(), after.String("updated_at"))
}

func TestUpdateMatchesMultipleRows(t *testing.T) {
	c := newTestClient(t)

	_, err := c.From(types.TableGameSessions).Insert(
		types.Record{"session_id": "s1", "user_id": "u1", "started_at": "a"},
		types.Record{"session_id": "s2", "user_id": "u1", "started_at": "b"},
		types.Record{"session_id": "s3", "user_id": "u2", "started_at": "c"},
	)
	require.NoError(t, err)

	before, err := c.From(types.TableGameSessions).Update(types.Record{"flagged": true}).
		Eq("user_id", "u1").
		Execute()
	require.NoError(t, err)
	require.Len(t, before, 2)

	rows, err := c.From(types.TableGameSessions).Select().Eq("flagged", true).Execute()
	require.NoError(t, err)
	require.Len(t, rows, 2)
}

func TestUpdateNoMatchIsSilent(t *testing.T) {
	c := newTestClient(t)

	before, err := c.From(types.TableGameSessions).Update(types.Record{"a": 1}).
		Eq("session_id", "nope").
		Execute()
	require.NoError(t, err)
	require.Empty(t, before)
}

func TestUpdateViewFails(t *testing.T) {
	c := newTestClient(t)

	_, err := c.From(ViewUserStats).Update(types.Record{"a": 1}).Execute()
	require.True(t, types.IsKind(err, types.KindUnknownOperation), "got %v", err)
}

func TestDeleteFiltered(t *testing.T) {
	c := newTestClient(t)

	_, err := c.From(types.TableGameSessions).Insert(
		types.Record{"session_id": "s1", "user_id": "u1", "started_at": "a"},
		types.Record{"session_id": "s2", "user_id": "u1", "started_at": "b"},
		types.Record{"session_id": "s3", "user_id": "u2", "started_at": "c"},
	)
	require.NoError(t, err)

	err = c.From(types.TableGameSessions).Delete().Eq("user_id", "u1").Execute()
	require.NoError(t, err)

	rows, err := c.From(types.TableGameSessions).Select().Execute()
	require.NoError(t, err)
	require.Len(t, rows, 1)
	require.Equal(t, "s3", rows[0].String("session_id"))
}

func TestDeleteUnfilteredRemovesAll(t *testing.T) {
	c := newTestClient(t)
	_, err := c.From(types.TableGameSessions).Insert(
		types.Record{"session_id": "s1", "user_id": "u1", "started_at": "a"},
		types.Record{"session_id": "s2", "user_id": "u2", "started_at": "b"},
	)
	require.NoError(t, err)

	err = c.From(types.TableGameSessions).Delete().Execute()
	require.NoError(t, err)

	rows, err := c.From(types.TableGameSessions).Select().Execute()
	require.NoError(t, err)
	require.Empty(t, rows)
}

func TestDeleteViewFails(t *testing.T) {
	c := newTestClient(t)

	err := c.From(ViewDailyPerformance).Delete().Execute()
	require.True(t, types.IsKind(err, types.KindUnknownOperation), "got %v", err)
}
