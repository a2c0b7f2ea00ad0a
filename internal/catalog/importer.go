package catalog

import (
	"context"

	"github.com/mroshb/value_matcher/internal/models"
	"github.com/mroshb/value_matcher/internal/services"
	"github.com/mroshb/value_matcher/pkg/logger"
)

type CommunityCreator interface {
	CreateCommunity(ctx context.Context, creatorID uint, in services.CreateCommunityInput) (*models.Community, error)
}

type EventCreator interface {
	CreateEvent(ctx context.Context, creatorID uint, in services.CreateEventInput) (*models.Event, error)
}

// Summary counts what an import did.
type Summary struct {
	Communities int
	Events      int
	Failed      int
}

// Importer creates catalog rows through the services so they get the same
// sanitizing and validation as API requests.
type Importer struct {
	communities CommunityCreator
	events      EventCreator
}

func NewImporter(communities CommunityCreator, events EventCreator) *Importer {
	return &Importer{communities: communities, events: events}
}

// Import creates every parsed row on behalf of creatorID. A failing row is
// logged and counted; a cancelled context stops the import.
func (im *Importer) Import(ctx context.Context, cat *Catalog, creatorID uint) (Summary, error) {
	var sum Summary

	for i, in := range cat.Communities {
		if err := ctx.Err(); err != nil {
			return sum, err
		}
		c, err := im.communities.CreateCommunity(ctx, creatorID, in)
		if err != nil {
			sum.Failed++
			logger.Warn("Failed to import community", "index", i, "name", in.Name, "error", err)
			continue
		}
		sum.Communities++
		logger.Debug("Imported community", "id", c.ID, "name", c.Name)
	}

	for i, in := range cat.Events {
		if err := ctx.Err(); err != nil {
			return sum, err
		}
		e, err := im.events.CreateEvent(ctx, creatorID, in)
		if err != nil {
			sum.Failed++
			logger.Warn("Failed to import event", "index", i, "name", in.Name, "error", err)
			continue
		}
		sum.Events++
		logger.Debug("Imported event", "id", e.ID, "name", e.Name)
	}

	return sum, nil
}
