package entity

type MissionRecurrence string

const (
	MissionOneTime  MissionRecurrence = "one_time"
	MissionInfinite MissionRecurrence = "infinite"
)

// Mission is an immutable catalog definition of a claimable action.
type Mission struct {
	ActionID   string            `json:"action_id"`
	Title      string            `json:"title"`
	Reward     float64           `json:"reward"`
	XP         int               `json:"xp"`
	Recurrence MissionRecurrence `json:"recurrence"`
}

// Repeatable reports whether the mission can be completed and claimed again
// after a payout.
func (m Mission) Repeatable() bool {
	return m.Recurrence == MissionInfinite
}
