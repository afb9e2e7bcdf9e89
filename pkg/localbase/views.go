package localbase

import (
	"math"
	"sort"
	"strings"

	"github.com/rewardmaths/localbase/pkg/types"
)

// viewEngine derives the read-only virtual tables from base tables at query
// time. Nothing is materialized or cached, so a view can never be stale:
// consistency with the base tables is recomputation, not maintenance.
type viewEngine struct {
	store Store
}

// run computes the named view over the current base-table contents.
func (v *viewEngine) run(name string) ([]types.Record, error) {
	switch name {
	case ViewPerformanceAnalysis:
		return v.performanceAnalysis()
	case ViewUserStats:
		return v.userStats()
	case ViewDailyPerformance:
		return v.dailyPerformance()
	default:
		return nil, types.UnknownOperation("unknown view %q", name)
	}
}

// accuracy is round(100*correct/total), or 0 when nothing was asked.
func accuracy(correct, total float64) float64 {
	if total <= 0 {
		return 0
	}
	return math.Round(correct / total * 100)
}

// finalized reports whether a game session has been completed.
func finalized(session types.Record) bool {
	return session.Has("completed_at")
}

// profilesByID loads the profile table into a lookup map.
func (v *viewEngine) profilesByID() (map[string]types.Record, error) {
	profiles, err := v.store.GetAll(types.TableProfiles)
	if err != nil {
		return nil, err
	}
	byID := make(map[string]types.Record, len(profiles))
	for _, p := range profiles {
		byID[p.String("id")] = p
	}
	return byID, nil
}

// performanceAnalysis joins finalized game sessions with their profiles and
// derives per-session accuracy. Sorted by start time descending.
func (v *viewEngine) performanceAnalysis() ([]types.Record, error) {
	sessions, err := v.store.GetAll(types.TableGameSessions)
	if err != nil {
		return nil, err
	}
	byID, err := v.profilesByID()
	if err != nil {
		return nil, err
	}

	rows := []types.Record{}
	for _, s := range sessions {
		if !finalized(s) {
			continue
		}
		profile, ok := byID[s.String("user_id")]
		if !ok {
			// Inner join: sessions without a profile drop out.
			continue
		}
		total := s.Float("total_questions")
		correct := s.Float("correct_answers")
		rows = append(rows, types.Record{
			"session_id":               s["session_id"],
			"user_id":                  s["user_id"],
			"username":                 profile["username"],
			"display_name":             displayName(profile),
			"level_number":             s["level_number"],
			"started_at":               s["started_at"],
			"completed_at":             s["completed_at"],
			"total_questions":          total,
			"correct_answers":          correct,
			"accuracy_percentage":      accuracy(correct, total),
			"average_response_time_ms": s["average_response_time_ms"],
			"level_changed":            s.Bool("level_changed"),
			"new_level":                s["new_level"],
			"change_reason":            s["change_reason"],
		})
	}

	sort.Slice(rows, func(i, j int) bool {
		return rows[i].String("started_at") > rows[j].String("started_at")
	})
	return rows, nil
}

// userStats aggregates finalized-session and attempt counts per profile.
// Administrator profiles are excluded. Sorted by username ascending,
// case-insensitive and locale-naive.
func (v *viewEngine) userStats() ([]types.Record, error) {
	profiles, err := v.store.GetAll(types.TableProfiles)
	if err != nil {
		return nil, err
	}
	sessions, err := v.store.GetAll(types.TableGameSessions)
	if err != nil {
		return nil, err
	}
	attempts, err := v.store.GetAll(types.TableQuestionAttempts)
	if err != nil {
		return nil, err
	}

	sessionCount := map[string]float64{}
	for _, s := range sessions {
		if finalized(s) {
			sessionCount[s.String("user_id")]++
		}
	}
	attemptCount := map[string]float64{}
	correctCount := map[string]float64{}
	for _, a := range attempts {
		uid := a.String("user_id")
		attemptCount[uid]++
		if a.Bool("is_correct") {
			correctCount[uid]++
		}
	}

	rows := []types.Record{}
	for _, p := range profiles {
		if p.Bool("is_admin") {
			continue
		}
		id := p.String("id")
		total := attemptCount[id]
		correct := correctCount[id]
		rows = append(rows, types.Record{
			"id":                       p["id"],
			"username":                 p["username"],
			"display_name":             displayName(p),
			"current_level":            p["current_level"],
			"total_sessions":           sessionCount[id],
			"total_questions_answered": total,
			"total_correct":            correct,
			"overall_accuracy":         accuracy(correct, total),
			"is_admin":                 p.Bool("is_admin"),
			"avatar_emoji":             p["avatar_emoji"],
		})
	}

	sort.Slice(rows, func(i, j int) bool {
		return strings.ToLower(rows[i].String("username")) <
			strings.ToLower(rows[j].String("username"))
	})
	return rows, nil
}

// dailyPerformance groups finalized sessions by user and calendar day of
// the start time. The average response time is the mean of only the
// non-null per-session averages contributing to the day. Sorted by day
// descending.
func (v *viewEngine) dailyPerformance() ([]types.Record, error) {
	sessions, err := v.store.GetAll(types.TableGameSessions)
	if err != nil {
		return nil, err
	}
	byID, err := v.profilesByID()
	if err != nil {
		return nil, err
	}

	type bucket struct {
		userID        string
		day           string
		sessions      float64
		questions     float64
		correct       float64
		responseSum   float64
		responseCount float64
	}
	buckets := map[string]*bucket{}

	for _, s := range sessions {
		if !finalized(s) {
			continue
		}
		day := calendarDay(s.String("started_at"))
		uid := s.String("user_id")
		key := uid + "_" + day
		b := buckets[key]
		if b == nil {
			b = &bucket{userID: uid, day: day}
			buckets[key] = b
		}
		b.sessions++
		b.questions += s.Float("total_questions")
		b.correct += s.Float("correct_answers")
		if s.Has("average_response_time_ms") {
			b.responseSum += s.Float("average_response_time_ms")
			b.responseCount++
		}
	}

	rows := []types.Record{}
	for _, b := range buckets {
		profile := byID[b.userID]
		var avgResponse any
		if b.responseCount > 0 {
			avgResponse = math.Round(b.responseSum / b.responseCount)
		}
		rows = append(rows, types.Record{
			"user_id":                  b.userID,
			"username":                 usernameOf(profile),
			"display_name":             displayName(profile),
			"play_date":                b.day,
			"sessions_count":           b.sessions,
			"total_questions":          b.questions,
			"total_correct":            b.correct,
			"accuracy_percentage":      accuracy(b.correct, b.questions),
			"average_response_time_ms": avgResponse,
		})
	}

	sort.Slice(rows, func(i, j int) bool {
		return rows[i].String("play_date") > rows[j].String("play_date")
	})
	return rows, nil
}

// calendarDay extracts YYYY-MM-DD from an RFC3339 stamp.
func calendarDay(stamp string) string {
	if i := strings.IndexByte(stamp, 'T'); i >= 0 {
		return stamp[:i]
	}
	return stamp
}

// usernameOf tolerates a dangling user id; the daily rollup keeps the
// bucket even when the owning profile has been deleted.
func usernameOf(profile types.Record) string {
	if profile == nil || !profile.Has("username") {
		return "Unknown"
	}
	return profile.String("username")
}

// displayName prefers the profile's display name, falling back to username.
func displayName(profile types.Record) string {
	if profile == nil {
		return ""
	}
	if profile.Has("display_name") {
		return profile.String("display_name")
	}
	return profile.String("username")
}
