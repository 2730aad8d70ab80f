package persistence

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"

	"market_sim/internal/domain"
	"market_sim/internal/domain/entity"
	"market_sim/pkg/errcodes"
)

// MissionRepository reads immutable mission definitions from the catalog
// database.
type MissionRepository struct {
	db *sqlx.DB
}

func NewMissionRepository(db *sqlx.DB) *MissionRepository {
	return &MissionRepository{db: db}
}

func (r *MissionRepository) GetByActionID(ctx context.Context, actionID string) (*entity.Mission, error) {
	query := `
		SELECT action_id, title, reward, xp, recurrence
		FROM missions
		WHERE action_id = $1`

	var schema missionSchema
	if err := r.db.GetContext(ctx, &schema, query, actionID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.NewError(errcodes.MissionNotFound, "mission not found")
		}
		return nil, domain.WrapError(err, errcodes.InternalServerError, "failed to get mission")
	}

	mission := schema.toDomain()

	return &mission, nil
}

func (r *MissionRepository) List(ctx context.Context) ([]entity.Mission, error) {
	query := `
		SELECT action_id, title, reward, xp, recurrence
		FROM missions
		ORDER BY action_id`

	var schemas []missionSchema
	if err := r.db.SelectContext(ctx, &schemas, query); err != nil {
		return nil, domain.WrapError(err, errcodes.InternalServerError, "failed to list missions")
	}

	missions := make([]entity.Mission, 0, len(schemas))
	for _, s := range schemas {
		missions = append(missions, s.toDomain())
	}

	return missions, nil
}
