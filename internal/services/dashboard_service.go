package services

import (
	"context"
	"sort"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/marsad11223/product-explorer-api/internal/apperr"
	"github.com/marsad11223/product-explorer-api/internal/database"
	"github.com/marsad11223/product-explorer-api/internal/dto"
	"github.com/marsad11223/product-explorer-api/internal/models"
)

// DashboardService computes the three analytics reports on demand against
// the interaction store. It never writes. All occurrence sums are weighted
// by the merge-policy count field.
type DashboardService struct {
	interactions *mongo.Collection
	timeout      time.Duration
}

func NewDashboardService(interactions *mongo.Collection, timeout time.Duration) *DashboardService {
	return &DashboardService{interactions: interactions, timeout: timeout}
}

type trendRow struct {
	// Index of the one-hour bucket within the window, 0 = oldest.
	BucketIndex float64 `bson:"_id"`
	Searches    int64   `bson:"searches"`
	Views       int64   `bson:"views"`
	Clicks      int64   `bson:"clicks"`
	TimeSpend   float64 `bson:"time_spend"`
}

// GetInteractionTrends buckets the last lastHours hours of interactions
// into contiguous one-hour windows over [now-lastHours, now). Every bucket
// is emitted, zero-filled when quiet. Each event lands in the bucket whose
// boundaries contain its timestamp.
func (s *DashboardService) GetInteractionTrends(ctx context.Context, lastHours int) ([]dto.InteractionTrend, error) {
	if lastHours <= 0 {
		return []dto.InteractionTrend{}, nil
	}

	end := time.Now().UTC()
	start := end.Add(-time.Duration(lastHours) * time.Hour)

	pipeline := []bson.M{
		{"$match": bson.M{
			"timestamp": bson.M{"$gte": start, "$lt": end},
		}},
		{"$group": bson.M{
			"_id": bson.M{"$floor": bson.M{"$divide": []interface{}{
				bson.M{"$subtract": []interface{}{"$timestamp", start}},
				int64(time.Hour / time.Millisecond),
			}}},
			"searches":   typeWeightSum(models.InteractionSearch),
			"views":      typeWeightSum(models.InteractionView),
			"clicks":     typeWeightSum(models.InteractionClick),
			"time_spend": timeSpendSum(),
		}},
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	cursor, err := s.interactions.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, apperr.Internal("failed to aggregate interaction trends", err)
	}
	defer cursor.Close(ctx)

	var rows []trendRow
	if err := cursor.All(ctx, &rows); err != nil {
		return nil, apperr.Internal("failed to decode interaction trends", err)
	}

	return fillTrendBuckets(trendBoundaries(start, lastHours), rows), nil
}

// typeWeightSum builds a conditional count-weighted sum for one
// interaction type.
func typeWeightSum(t models.InteractionType) bson.M {
	return bson.M{"$sum": bson.M{"$cond": []interface{}{
		bson.M{"$eq": []interface{}{"$interactionType", t}},
		"$count",
		0,
	}}}
}

func timeSpendSum() bson.M {
	return bson.M{"$sum": bson.M{"$cond": []interface{}{
		bson.M{"$eq": []interface{}{"$interactionType", models.InteractionTimeSpend}},
		"$time_spend",
		0,
	}}}
}

// trendBoundaries returns hours+1 boundary instants partitioning
// [start, start+hours*1h) into one-hour buckets.
func trendBoundaries(start time.Time, hours int) []time.Time {
	boundaries := make([]time.Time, hours+1)
	for i := range boundaries {
		boundaries[i] = start.Add(time.Duration(i) * time.Hour)
	}
	return boundaries
}

// fillTrendBuckets merges grouped rows onto the precomputed buckets and
// zero-fills the rest. Rows indexed outside the window are dropped.
// Output is sorted ascending by hour-of-day.
func fillTrendBuckets(boundaries []time.Time, rows []trendRow) []dto.InteractionTrend {
	out := make([]dto.InteractionTrend, len(boundaries)-1)
	for i := range out {
		out[i].Hour = boundaries[i].UTC().Hour()
	}

	for _, row := range rows {
		idx := int(row.BucketIndex)
		if idx < 0 || idx >= len(out) {
			continue
		}
		out[idx].Searches += row.Searches
		out[idx].Views += row.Views
		out[idx].Clicks += row.Clicks
		out[idx].TimeSpend += row.TimeSpend
	}

	sort.SliceStable(out, func(i, j int) bool { return out[i].Hour < out[j].Hour })
	return out
}

type searchGroup struct {
	Query             string `bson:"_id"`
	TotalInteractions int64  `bson:"totalInteractions"`
}

type productGroup struct {
	Name              string  `bson:"name"`
	TotalInteractions int64   `bson:"totalInteractions"`
	TotalClicks       int64   `bson:"totalClicks"`
	TotalTimeSpent    float64 `bson:"totalTimeSpent"`
}

// GetMostInteractedProducts ranks search queries and products by
// interaction volume. Product rows are enriched with the catalog title via
// a left-outer lookup; groups whose productId does not resolve (including
// malformed ids) keep their counts under the "Unknown Product" placeholder.
func (s *DashboardService) GetMostInteractedProducts(ctx context.Context) (*dto.MostInteractedProductsResponse, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	searchPipeline := []bson.M{
		{"$match": bson.M{"interactionType": models.InteractionSearch}},
		{"$group": bson.M{
			"_id":               "$searchQuery",
			"totalInteractions": bson.M{"$sum": "$count"},
		}},
		{"$sort": bson.M{"totalInteractions": -1}},
	}

	cursor, err := s.interactions.Aggregate(ctx, searchPipeline)
	if err != nil {
		return nil, apperr.Internal("failed to aggregate search interactions", err)
	}
	var searches []searchGroup
	if err := cursor.All(ctx, &searches); err != nil {
		return nil, apperr.Internal("failed to decode search interactions", err)
	}

	productPipeline := []bson.M{
		{"$match": bson.M{"interactionType": bson.M{"$in": []models.InteractionType{
			models.InteractionClick,
			models.InteractionView,
			models.InteractionTimeSpend,
		}}}},
		{"$group": bson.M{
			"_id":               "$productId",
			"totalInteractions": bson.M{"$sum": "$count"},
			"totalClicks": bson.M{"$sum": bson.M{"$cond": []interface{}{
				bson.M{"$eq": []interface{}{"$interactionType", models.InteractionClick}},
				"$count",
				0,
			}}},
			"totalTimeSpent": timeSpendSum(),
		}},
		{"$addFields": bson.M{
			// Malformed ids convert to null and miss the lookup instead of
			// failing the query.
			"productObjectId": bson.M{"$convert": bson.M{
				"input":   "$_id",
				"to":      "objectId",
				"onError": nil,
				"onNull":  nil,
			}},
		}},
		{"$lookup": bson.M{
			"from":         database.ProductsCollection,
			"localField":   "productObjectId",
			"foreignField": "_id",
			"as":           "productDetails",
		}},
		{"$unwind": bson.M{
			"path":                       "$productDetails",
			"preserveNullAndEmptyArrays": true,
		}},
		{"$project": bson.M{
			"_id":               0,
			"name":              bson.M{"$ifNull": []interface{}{"$productDetails.title", "Unknown Product"}},
			"totalInteractions": 1,
			"totalClicks":       1,
			"totalTimeSpent":    1,
		}},
		{"$sort": bson.M{"totalInteractions": -1}},
	}

	cursor, err = s.interactions.Aggregate(ctx, productPipeline)
	if err != nil {
		return nil, apperr.Internal("failed to aggregate product interactions", err)
	}
	var products []productGroup
	if err := cursor.All(ctx, &products); err != nil {
		return nil, apperr.Internal("failed to decode product interactions", err)
	}

	return formatMostInteracted(searches, products), nil
}

func formatMostInteracted(searches []searchGroup, products []productGroup) *dto.MostInteractedProductsResponse {
	resp := &dto.MostInteractedProductsResponse{
		Searches: []dto.InteractionSeries{},
		Products: []dto.InteractionSeries{},
	}
	for _, s := range searches {
		resp.Searches = append(resp.Searches, dto.InteractionSeries{
			Name: s.Query,
			Data: []dto.InteractionDatum{
				{X: "Total Interactions", Y: float64(s.TotalInteractions)},
			},
		})
	}
	for _, p := range products {
		resp.Products = append(resp.Products, dto.InteractionSeries{
			Name: p.Name,
			Data: []dto.InteractionDatum{
				{X: "Total Interactions", Y: float64(p.TotalInteractions)},
				{X: "Total Clicks", Y: float64(p.TotalClicks)},
				{X: "Total Time Spent (sec)", Y: p.TotalTimeSpent},
			},
		})
	}
	return resp
}

type funnelFacets struct {
	Searches []struct {
		TotalInteractions int64 `bson:"totalInteractions"`
	} `bson:"searches"`
	Views []struct {
		TotalInteractions int64 `bson:"totalInteractions"`
	} `bson:"views"`
	Clicks []struct {
		TotalInteractions int64 `bson:"totalInteractions"`
	} `bson:"clicks"`
	TimeSpent []struct {
		TotalTimeSpent float64 `bson:"totalTimeSpent"`
	} `bson:"timeSpent"`
}

// GetConversionFunnel totals searches, views, clicks and engagement time in
// four independent facet branches. Empty branches come back as 0; time is
// reported in whole minutes.
func (s *DashboardService) GetConversionFunnel(ctx context.Context) (*dto.ConversionFunnel, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	pipeline := []bson.M{
		{"$facet": bson.M{
			"searches": []bson.M{
				{"$match": bson.M{"interactionType": models.InteractionSearch}},
				{"$group": bson.M{"_id": nil, "totalInteractions": bson.M{"$sum": "$count"}}},
			},
			"views": []bson.M{
				{"$match": bson.M{"interactionType": models.InteractionView}},
				{"$group": bson.M{"_id": nil, "totalInteractions": bson.M{"$sum": "$count"}}},
			},
			"clicks": []bson.M{
				{"$match": bson.M{"interactionType": models.InteractionClick}},
				{"$group": bson.M{"_id": nil, "totalInteractions": bson.M{"$sum": "$count"}}},
			},
			"timeSpent": []bson.M{
				{"$match": bson.M{"interactionType": models.InteractionTimeSpend}},
				{"$group": bson.M{"_id": nil, "totalTimeSpent": bson.M{"$sum": "$time_spend"}}},
			},
		}},
	}

	cursor, err := s.interactions.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, apperr.Internal("failed to aggregate conversion funnel", err)
	}
	defer cursor.Close(ctx)

	var results []funnelFacets
	if err := cursor.All(ctx, &results); err != nil {
		return nil, apperr.Internal("failed to decode conversion funnel", err)
	}
	if len(results) == 0 {
		return &dto.ConversionFunnel{}, nil
	}
	return shapeFunnel(results[0]), nil
}

func shapeFunnel(f funnelFacets) *dto.ConversionFunnel {
	out := &dto.ConversionFunnel{}
	if len(f.Searches) > 0 {
		out.Searches = f.Searches[0].TotalInteractions
	}
	if len(f.Views) > 0 {
		out.Views = f.Views[0].TotalInteractions
	}
	if len(f.Clicks) > 0 {
		out.Clicks = f.Clicks[0].TotalInteractions
	}
	if len(f.TimeSpent) > 0 {
		// seconds to whole minutes
		out.TotalTimeSpent = int64(f.TimeSpent[0].TotalTimeSpent / 60)
	}
	return out
}
