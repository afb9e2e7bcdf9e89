package localbase

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/rewardmaths/localbase/pkg/types"
)

func seedViewFixture(t *testing.T, c *Client) {
	t.Helper()

	_, err := c.From(types.TableProfiles).Insert(
		types.Record{"id": "admin", "username": "admin", "email": "admin@x", "is_admin": true, "current_level": 1},
		types.Record{"id": "u-tom", "username": "tom", "display_name": "Tom", "email": "tom@x", "current_level": 5, "avatar_emoji": "🦖"},
		types.Record{"id": "u-eliza", "username": "eliza", "display_name": "Eliza", "email": "eliza@x", "current_level": 2},
	)
	require.NoError(t, err)

	_, err = c.From(types.TableGameSessions).Insert(
		// Two finalized sessions for tom, one of them without a response time.
		types.Record{
			"session_id": "s1", "user_id": "u-tom", "level_number": 5,
			"started_at": "2026-08-01T10:00:00Z", "completed_at": "2026-08-01T10:05:00Z",
			"total_questions": 20, "correct_answers": 19,
			"average_response_time_ms": 3000,
		},
		types.Record{
			"session_id": "s2", "user_id": "u-tom", "level_number": 5,
			"started_at": "2026-08-01T11:00:00Z", "completed_at": "2026-08-01T11:05:00Z",
			"total_questions": 20, "correct_answers": 19,
		},
		// Unfinalized session: invisible to every view.
		types.Record{
			"session_id": "s3", "user_id": "u-tom", "level_number": 5,
			"started_at": "2026-08-02T10:00:00Z",
		},
		// Session with no matching profile.
		types.Record{
			"session_id": "s4", "user_id": "u-ghost", "level_number": 1,
			"started_at": "2026-08-03T10:00:00Z", "completed_at": "2026-08-03T10:01:00Z",
			"total_questions": 5, "correct_answers": 5,
		},
	)
	require.NoError(t, err)

	attempts := make([]types.Record, 0, 40)
	for i := 0; i < 40; i++ {
		attempts = append(attempts, types.Record{
			"session_id": "s1", "user_id": "u-tom", "is_correct": i < 38,
		})
	}
	_, err = c.From(types.TableQuestionAttempts).Insert(attempts...)
	require.NoError(t, err)
}

func TestPerformanceAnalysis(t *testing.T) {
	c := newTestClient(t)
	seedViewFixture(t, c)

	rows, err := c.From(ViewPerformanceAnalysis).Select().Execute()
	require.NoError(t, err)

	// s3 is unfinalized, s4 has no profile; only tom's two survive,
	// newest first.
	require.Len(t, rows, 2)
	require.Equal(t, "s2", rows[0].String("session_id"))
	require.Equal(t, "s1", rows[1].String("session_id"))

	first := rows[1]
	require.Equal(t, "tom", first.String("username"))
	require.Equal(t, "Tom", first.String("display_name"))
	require.Equal(t, float64(95), first.Float("accuracy_percentage"))
	require.Equal(t, 3000, first.Int("average_response_time_ms"))
}

func TestPerformanceAnalysisCallerFilter(t *testing.T) {
	c := newTestClient(t)
	seedViewFixture(t, c)

	rows, err := c.From(ViewPerformanceAnalysis).Select().
		Eq("session_id", "s1").
		Execute()
	require.NoError(t, err)
	require.Len(t, rows, 1)
	// Filtering restricts output rows; derived fields stay intact.
	require.Equal(t, float64(95), rows[0].Float("accuracy_percentage"))
}

func TestUserStats(t *testing.T) {
	c := newTestClient(t)
	seedViewFixture(t, c)

	rows, err := c.From(ViewUserStats).Select().Execute()
	require.NoError(t, err)

	// Admin excluded; eliza before tom by username.
	require.Len(t, rows, 2)
	require.Equal(t, "eliza", rows[0].String("username"))
	require.Equal(t, "tom", rows[1].String("username"))

	tom := rows[1]
	require.Equal(t, float64(2), tom.Float("total_sessions"), "only finalized sessions count")
	require.Equal(t, float64(40), tom.Float("total_questions_answered"))
	require.Equal(t, float64(38), tom.Float("total_correct"))
	require.Equal(t, float64(95), tom.Float("overall_accuracy"))

	eliza := rows[0]
	require.Equal(t, float64(0), eliza.Float("total_sessions"))
	require.Equal(t, float64(0), eliza.Float("overall_accuracy"), "no attempts means zero, not NaN")
}

func TestDailyPerformance(t *testing.T) {
	c := newTestClient(t)
	seedViewFixture(t, c)

	rows, err := c.From(ViewDailyPerformance).Select().
		Eq("user_id", "u-tom").
		Execute()
	require.NoError(t, err)

	// Both finalized sessions fall on 2026-08-01; the unfinalized one on
	// 08-02 contributes nothing.
	require.Len(t, rows, 1)
	day := rows[0]
	require.Equal(t, "2026-08-01", day.String("play_date"))
	require.Equal(t, "tom", day.String("username"))
	require.Equal(t, float64(2), day.Float("sessions_count"))
	require.Equal(t, float64(40), day.Float("total_questions"))
	require.Equal(t, float64(38), day.Float("total_correct"))
	require.Equal(t, float64(95), day.Float("accuracy_percentage"))
	// Only s1 carries a response time; the mean covers non-null values only.
	require.Equal(t, float64(3000), day.Float("average_response_time_ms"))
}

func TestDailyPerformanceDanglingProfile(t *testing.T) {
	c := newTestClient(t)
	seedViewFixture(t, c)

	rows, err := c.From(ViewDailyPerformance).Select().
		Eq("user_id", "u-ghost").
		Execute()
	require.NoError(t, err)
	require.Len(t, rows, 1)
	require.Equal(t, "Unknown", rows[0].String("username"))
}

func TestDailyPerformanceSortsDayDescending(t *testing.T) {
	c := newTestClient(t)

	_, err := c.From(types.TableProfiles).Insert(
		types.Record{"id": "u1", "username": "tom", "email": "t@x"})
	require.NoError(t, err)

	for i, day := range []string{"2026-08-01", "2026-08-03", "2026-08-02"} {
		_, err = c.From(types.TableGameSessions).Insert(types.Record{
			"session_id": fmt.Sprintf("s%d", i), "user_id": "u1",
			"started_at": day + "T10:00:00Z", "completed_at": day + "T10:05:00Z",
			"total_questions": 10, "correct_answers": 10,
		})
		require.NoError(t, err)
	}

	rows, err := c.From(ViewDailyPerformance).Select().Execute()
	require.NoError(t, err)
	require.Len(t, rows, 3)
	require.Equal(t, "2026-08-03", rows[0].String("play_date"))
	require.Equal(t, "2026-08-01", rows[2].String("play_date"))
}

func TestViewsRecomputeOnEveryRead(t *testing.T) {
	c := newTestClient(t)
	seedViewFixture(t, c)

	rows, err := c.From(ViewUserStats).Select().Eq("username", "tom").Execute()
	require.NoError(t, err)
	require.Equal(t, float64(2), rows[0].Float("total_sessions"))

	// A new finalized session is visible on the next read.
	_, err = c.From(types.TableGameSessions).Insert(types.Record{
		"session_id": "s5", "user_id": "u-tom",
		"started_at": "2026-08-05T10:00:00Z", "completed_at": "2026-08-05T10:05:00Z",
		"total_questions": 10, "correct_answers": 10,
	})
	require.NoError(t, err)

	rows, err = c.From(ViewUserStats).Select().Eq("username", "tom").Execute()
	require.NoError(t, err)
	require.Equal(t, float64(3), rows[0].Float("total_sessions"))
}

func TestUnknownViewName(t *testing.T) {
	c := newTestClient(t)

	_, err := c.views.run("weekly_performance")
	require.True(t, types.IsKind(err, types.KindUnknownOperation), "got %v", err)
}
