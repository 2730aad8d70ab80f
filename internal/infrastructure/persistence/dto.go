package persistence

import (
	"database/sql"

	"market_sim/internal/domain/entity"
)

// productSchema maps one row of the products catalog table.
type productSchema struct {
	ID        string          `db:"id"`
	Name      string          `db:"name"`
	Category  string          `db:"category"`
	Rarity    string          `db:"rarity"`
	BasePrice float64         `db:"base_price"`
	MaxStock  int             `db:"max_stock"`
	YieldRate sql.NullFloat64 `db:"yield_rate"`
}

func (s *productSchema) toDomain() entity.Product {
	return entity.Product{
		ID:        s.ID,
		Name:      s.Name,
		Category:  s.Category,
		Rarity:    s.Rarity,
		BasePrice: s.BasePrice,
		MaxStock:  s.MaxStock,
		YieldRate: s.YieldRate.Float64,
	}
}

// missionSchema maps one row of the missions catalog table.
type missionSchema struct {
	ActionID   string  `db:"action_id"`
	Title      string  `db:"title"`
	Reward     float64 `db:"reward"`
	XP         int     `db:"xp"`
	Recurrence string  `db:"recurrence"`
}

func (s *missionSchema) toDomain() entity.Mission {
	return entity.Mission{
		ActionID:   s.ActionID,
		Title:      s.Title,
		Reward:     s.Reward,
		XP:         s.XP,
		Recurrence: entity.MissionRecurrence(s.Recurrence),
	}
}
