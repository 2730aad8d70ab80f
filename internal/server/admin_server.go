package server

import (
	"context"
	"fmt"
	"net/http"

	"market_sim/pkg/httpx/reply"
	"market_sim/pkg/rest"
)

// agentController is the pool lifecycle as the admin surface sees it.
type agentController interface {
	Start(ctx context.Context) error
	Stop()
	IsRunning() bool
	Size() int
}

type AdminServer struct {
	agents agentController

	// baseCtx ties spawned pools to the application lifetime, not to the
	// request that started them.
	baseCtx context.Context
}

func NewAdminServer(baseCtx context.Context, agents agentController) AdminServer {
	return AdminServer{
		agents:  agents,
		baseCtx: baseCtx,
	}
}

func (s AdminServer) postV1Agents(w http.ResponseWriter, r *http.Request) error {
	if err := s.agents.Start(s.baseCtx); err != nil {
		return classify(fmt.Errorf("agents.Start: %w", err))
	}

	reply.JSON(r.Context(), w, http.StatusOK, rest.AgentPoolStatus{
		Running: true,
		Size:    s.agents.Size(),
	})

	return nil
}

func (s AdminServer) deleteV1Agents(w http.ResponseWriter, r *http.Request) error {
	s.agents.Stop()

	reply.JSON(r.Context(), w, http.StatusOK, rest.AgentPoolStatus{
		Running: false,
		Size:    s.agents.Size(),
	})

	return nil
}

func (s AdminServer) getV1Agents(w http.ResponseWriter, r *http.Request) error {
	reply.JSON(r.Context(), w, http.StatusOK, rest.AgentPoolStatus{
		Running: s.agents.IsRunning(),
		Size:    s.agents.Size(),
	})

	return nil
}
