package localbase

import "github.com/rewardmaths/localbase/pkg/types"

// Procedure names accepted by RPC.
const (
	ProcUpdateUserProgress  = "update_user_progress"
	ProcCompleteGameSession = "complete_game_session"
)

// RPC dispatches a named multi-field procedure. Each procedure reads its
// target row, applies every field change as one logical unit, and writes it
// back. An unrecognized name is an unknown-operation error, never a panic;
// callers may treat any RPC failure as non-fatal and fall back to the
// equivalent explicit update sequence, which produces the same end state
// field for field.
func (c *Client) RPC(name string, params types.Record) error {
	switch name {
	case ProcUpdateUserProgress:
		return c.updateUserProgress(params)
	case ProcCompleteGameSession:
		return c.completeGameSession(params)
	default:
		return types.UnknownOperation("unknown procedure %q", name)
	}
}

// updateUserProgress commits a new level and both streak counters to a
// profile. A missing profile is a no-op, not an error.
func (c *Client) updateUserProgress(params types.Record) error {
	profile, err := c.store.Get(types.TableProfiles, params["p_user_id"])
	if err != nil {
		if types.IsKind(err, types.KindNotFound) {
			return nil
		}
		return err
	}

	profile["current_level"] = params["p_new_level"]
	profile["high_score_streak"] = params["p_high_streak"]
	profile["low_score_streak"] = params["p_low_streak"]
	profile[types.FieldUpdatedAt] = c.timestamp()
	return c.store.Put(types.TableProfiles, profile)
}

// completeGameSession finalizes a session's summary fields. Sessions are
// finalized once and never reopened; a missing session is a no-op.
func (c *Client) completeGameSession(params types.Record) error {
	session, err := c.store.Get(types.TableGameSessions, params["p_session_id"])
	if err != nil {
		if types.IsKind(err, types.KindNotFound) {
			return nil
		}
		return err
	}

	session["completed_at"] = c.timestamp()
	session["correct_answers"] = params["p_correct_answers"]
	session["total_questions"] = params["p_total_questions"]
	session["average_response_time_ms"] = params["p_avg_response_time"]
	session["level_changed"] = params["p_level_changed"]
	session["new_level"] = params["p_new_level"]
	session["change_reason"] = params["p_change_reason"]
	return c.store.Put(types.TableGameSessions, session)
}
