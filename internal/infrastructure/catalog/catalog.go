package catalog

import (
	"market_sim/internal/domain"
	"market_sim/internal/domain/entity"
	"market_sim/pkg/errcodes"
)

// Catalog is the immutable set of product and mission definitions, loaded
// once at startup from the catalog provider. It is safe for concurrent reads
// and never mutated afterwards.
type Catalog struct {
	products   map[string]entity.Product
	productIDs []string
	missions   map[string]entity.Mission
	missionIDs []string
}

func New(products []entity.Product, missions []entity.Mission) *Catalog {
	c := &Catalog{
		products: make(map[string]entity.Product, len(products)),
		missions: make(map[string]entity.Mission, len(missions)),
	}

	for _, p := range products {
		c.products[p.ID] = p
		c.productIDs = append(c.productIDs, p.ID)
	}

	for _, m := range missions {
		c.missions[m.ActionID] = m
		c.missionIDs = append(c.missionIDs, m.ActionID)
	}

	return c
}

func (c *Catalog) Product(id string) (entity.Product, error) {
	product, ok := c.products[id]
	if !ok {
		return entity.Product{}, domain.NewError(errcodes.ProductNotFound, "product not found: "+id)
	}

	return product, nil
}

func (c *Catalog) Products() []entity.Product {
	products := make([]entity.Product, 0, len(c.productIDs))
	for _, id := range c.productIDs {
		products = append(products, c.products[id])
	}

	return products
}

// YieldProducts returns the subset that earns passive yield.
func (c *Catalog) YieldProducts() []entity.Product {
	var products []entity.Product
	for _, id := range c.productIDs {
		if p := c.products[id]; p.Yields() {
			products = append(products, p)
		}
	}

	return products
}

func (c *Catalog) Mission(actionID string) (entity.Mission, error) {
	mission, ok := c.missions[actionID]
	if !ok {
		return entity.Mission{}, domain.NewError(errcodes.MissionNotFound, "mission not found: "+actionID)
	}

	return mission, nil
}

func (c *Catalog) Missions() []entity.Mission {
	missions := make([]entity.Mission, 0, len(c.missionIDs))
	for _, id := range c.missionIDs {
		missions = append(missions, c.missions[id])
	}

	return missions
}

func (c *Catalog) Size() int {
	return len(c.productIDs)
}
