package wallet

import (
	"context"
	"fmt"

	"market_sim/internal/domain"
	"market_sim/internal/domain/entity"
	"market_sim/pkg/errcodes"
)

// CheckMission marks an action as completed. Completion is idempotent: a
// one-time mission completes at most once, an infinite mission re-arms only
// after its previous completion has been claimed.
func (s *Service) CheckMission(ctx context.Context, userID, actionID string) error {
	mission, err := s.catalog.Mission(actionID)
	if err != nil {
		return err
	}

	return s.ledger.Update(ctx, userID, func(w *entity.Wallet) error {
		completed := w.CompletedMissions[actionID]
		claimed := w.ClaimedMissions[actionID]

		if !mission.Repeatable() && completed > 0 {
			return nil
		}
		if completed > claimed {
			// Previous completion not claimed yet.
			return nil
		}

		w.CompletedMissions[actionID] = completed + 1
		touch(w)

		return nil
	})
}

// ClaimReward pays out a completed mission: reward credit, XP bump and the
// reward transaction record commit together. One-time missions pay out once;
// infinite missions pay out once per completion.
func (s *Service) ClaimReward(ctx context.Context, userID, actionID string) error {
	mission, err := s.catalog.Mission(actionID)
	if err != nil {
		return err
	}

	return s.ledger.Update(ctx, userID, func(w *entity.Wallet) error {
		completed := w.CompletedMissions[actionID]
		claimed := w.ClaimedMissions[actionID]

		if completed == 0 {
			return domain.NewError(errcodes.MissionNotCompleted, "mission not completed: "+actionID)
		}
		if completed <= claimed {
			return domain.NewError(errcodes.MissionAlreadyClaimed, "mission already claimed: "+actionID)
		}

		w.ClaimedMissions[actionID] = claimed + 1
		w.Credit(mission.Reward)
		w.XP += mission.XP
		w.Append(newTx(entity.TxReward, mission.Reward, fmt.Sprintf("mission reward: %s", mission.Title)))

		touch(w)

		return nil
	})
}
