package services

import (
	"context"
	"math"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/marsad11223/product-explorer-api/internal/apperr"
	"github.com/marsad11223/product-explorer-api/internal/models"
)

// InteractionService records user-interaction events under the merge policy:
// repeated events with the same (sessionId, interactionType, productId,
// searchQuery) tuple collapse into one record with an incremented count.
// The merge is a single atomic upsert so concurrent writers to the same
// tuple never lose an increment.
type InteractionService struct {
	col     *mongo.Collection
	timeout time.Duration
}

func NewInteractionService(col *mongo.Collection, timeout time.Duration) *InteractionService {
	return &InteractionService{col: col, timeout: timeout}
}

// Record validates and persists one interaction. timeSpend is only
// consulted for time_spend events, where it accumulates across merges.
func (s *InteractionService) Record(
	ctx context.Context,
	sessionID string,
	interactionType models.InteractionType,
	productID string,
	searchQuery string,
	timeSpend float64,
) (*models.Interaction, error) {
	if sessionID == "" {
		return nil, apperr.InvalidArgument("session ID is required")
	}
	if !interactionType.Valid() {
		return nil, apperr.InvalidArgument("invalid interaction type")
	}
	if interactionType == models.InteractionTimeSpend && (math.IsNaN(timeSpend) || timeSpend < 0) {
		return nil, apperr.InvalidArgument("time spent must be a non-negative number")
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	filter := bson.M{
		"sessionId":       sessionID,
		"interactionType": interactionType,
		"productId":       productID,
		"searchQuery":     searchQuery,
	}

	inc := bson.M{"count": 1}
	if interactionType == models.InteractionTimeSpend {
		inc["time_spend"] = timeSpend
	}
	update := bson.M{
		"$inc": inc,
		"$set": bson.M{"timestamp": time.Now().UTC()},
	}

	opts := options.FindOneAndUpdate().
		SetUpsert(true).
		SetReturnDocument(options.After)

	var interaction models.Interaction
	if err := s.col.FindOneAndUpdate(ctx, filter, update, opts).Decode(&interaction); err != nil {
		return nil, apperr.Internal("failed to record interaction", err)
	}
	return &interaction, nil
}

func (s *InteractionService) RecordSearch(ctx context.Context, sessionID, searchQuery string) (*models.Interaction, error) {
	return s.Record(ctx, sessionID, models.InteractionSearch, "", searchQuery, 0)
}

func (s *InteractionService) RecordView(ctx context.Context, sessionID, productID string) (*models.Interaction, error) {
	return s.Record(ctx, sessionID, models.InteractionView, productID, "", 0)
}

func (s *InteractionService) RecordClick(ctx context.Context, sessionID, productID string) (*models.Interaction, error) {
	return s.Record(ctx, sessionID, models.InteractionClick, productID, "", 0)
}

func (s *InteractionService) RecordTimeSpent(ctx context.Context, sessionID, productID string, timeSpend float64) (*models.Interaction, error) {
	return s.Record(ctx, sessionID, models.InteractionTimeSpend, productID, "", timeSpend)
}
