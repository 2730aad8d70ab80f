package tasks

import (
	"context"
	"fmt"

	"github.com/hibiken/asynq"
	jsoniter "github.com/json-iterator/go"

	"market_sim/internal/domain/service/mining"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary //nolint:gochecknoglobals // skip

// TypeAccrue is the asynq task pattern for one user's yield tick.
const TypeAccrue = "mining:accrue"

type accruePayload struct {
	UserID string `json:"user_id"`
}

func NewAccrueTask(userID string) (*asynq.Task, error) {
	payload, err := json.Marshal(accruePayload{UserID: userID})
	if err != nil {
		return nil, fmt.Errorf("marshal accrue payload: %w", err)
	}

	return asynq.NewTask(TypeAccrue, payload), nil
}

// Handler processes background tasks against the domain services.
type Handler struct {
	mining *mining.Service
}

func NewHandler(miningService *mining.Service) *Handler {
	return &Handler{mining: miningService}
}

func (h *Handler) HandleAccrue(ctx context.Context, task *asynq.Task) error {
	var payload accruePayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		return fmt.Errorf("unmarshal accrue payload: %w", err)
	}

	accrued, err := h.mining.Accrue(ctx, payload.UserID)
	if err != nil {
		return fmt.Errorf("accrue %s: %w", payload.UserID, err)
	}

	if accrued > 0 {
		logger(ctx).Debug("yield accrued", "user_id", payload.UserID, "amount", accrued)
	}

	return nil
}
