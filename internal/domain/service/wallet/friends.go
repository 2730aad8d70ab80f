package wallet

import (
	"context"

	"market_sim/internal/domain"
	"market_sim/internal/domain/entity"
	"market_sim/pkg/errcodes"
)

// SendFriendRequest records a pending edge on both sides in one commit.
// Duplicate pending requests between the same ordered pair are rejected.
func (s *Service) SendFriendRequest(ctx context.Context, fromID, toID string) error {
	if fromID == toID {
		return domain.NewError(errcodes.SelfReference, "cannot befriend yourself")
	}

	return s.ledger.UpdatePair(ctx, fromID, toID, func(from, to *entity.Wallet) error {
		if from.IsFriend(toID) {
			return domain.NewError(errcodes.AlreadyConnected, "already friends with "+toID)
		}
		if from.HasOutgoing(toID) {
			return domain.NewError(errcodes.AlreadyPending, "request to "+toID+" already pending")
		}
		if from.HasIncoming(toID) {
			// The other side asked first; accepting is the way forward.
			return domain.NewError(errcodes.AlreadyPending, toID+" already sent you a request")
		}

		from.Outgoing = append(from.Outgoing, toID)
		to.Incoming = append(to.Incoming, fromID)

		touch(from, to)

		return nil
	})
}

// RespondToFriendRequest resolves a pending request. Acceptance is the only
// path that creates the symmetric accepted edge, and it does so on both
// wallets in the same commit.
func (s *Service) RespondToFriendRequest(ctx context.Context, userID, requesterID string, accept bool) error {
	if userID == requesterID {
		return domain.NewError(errcodes.SelfReference, "cannot respond to yourself")
	}

	return s.ledger.UpdatePair(ctx, userID, requesterID, func(user, requester *entity.Wallet) error {
		if !user.HasIncoming(requesterID) {
			return domain.NewError(errcodes.RequestNotFound, "no pending request from "+requesterID)
		}

		user.Incoming = remove(user.Incoming, requesterID)
		requester.Outgoing = remove(requester.Outgoing, userID)

		if accept {
			user.Friends = append(user.Friends, requesterID)
			requester.Friends = append(requester.Friends, userID)
		}

		touch(user, requester)

		return nil
	})
}

func remove(ids []string, id string) []string {
	out := ids[:0]
	for _, v := range ids {
		if v != id {
			out = append(out, v)
		}
	}
	return out
}
