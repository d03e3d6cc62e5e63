package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/integration/mtest"

	"github.com/marsad11223/product-explorer-api/internal/dto"
)

func TestTrendBoundaries(t *testing.T) {
	start := time.Date(2024, 5, 1, 7, 0, 0, 0, time.UTC)

	boundaries := trendBoundaries(start, 3)
	require.Len(t, boundaries, 4)
	assert.Equal(t, start, boundaries[0])
	assert.Equal(t, start.Add(3*time.Hour), boundaries[3])
	for i := 1; i < len(boundaries); i++ {
		assert.Equal(t, time.Hour, boundaries[i].Sub(boundaries[i-1]))
	}
}

func TestFillTrendBuckets(t *testing.T) {
	start := time.Date(2024, 5, 1, 7, 30, 0, 0, time.UTC)
	boundaries := trendBoundaries(start, 3)

	t.Run("zero_fills_quiet_buckets", func(t *testing.T) {
		out := fillTrendBuckets(boundaries, nil)
		require.Len(t, out, 3)
		assert.Equal(t, []dto.InteractionTrend{
			{Hour: 7}, {Hour: 8}, {Hour: 9},
		}, out)
	})

	t.Run("event_ninety_minutes_back_lands_in_middle_bucket", func(t *testing.T) {
		// Window is [now-3h, now); an event at now-90min has offset 90min,
		// which is bucket index 1 of 3.
		out := fillTrendBuckets(boundaries, []trendRow{
			{BucketIndex: 1, Clicks: 1, Searches: 2, TimeSpend: 45},
		})
		require.Len(t, out, 3)
		assert.Equal(t, dto.InteractionTrend{Hour: 7}, out[0])
		assert.Equal(t, dto.InteractionTrend{Hour: 8, Searches: 2, Clicks: 1, TimeSpend: 45}, out[1])
		assert.Equal(t, dto.InteractionTrend{Hour: 9}, out[2])
	})

	t.Run("drops_rows_outside_the_window", func(t *testing.T) {
		out := fillTrendBuckets(boundaries, []trendRow{
			{BucketIndex: -1, Views: 4},
			{BucketIndex: 3, Views: 4},
		})
		for _, bucket := range out {
			assert.Zero(t, bucket.Views)
		}
	})

	t.Run("sorts_ascending_by_hour_of_day", func(t *testing.T) {
		lateStart := time.Date(2024, 5, 1, 22, 0, 0, 0, time.UTC)
		out := fillTrendBuckets(trendBoundaries(lateStart, 4), nil)
		require.Len(t, out, 4)
		assert.Equal(t, []int{0, 1, 22, 23}, []int{out[0].Hour, out[1].Hour, out[2].Hour, out[3].Hour})
	})
}

func TestShapeFunnel(t *testing.T) {
	t.Run("defaults_to_zero_on_empty_store", func(t *testing.T) {
		funnel := shapeFunnel(funnelFacets{})
		assert.Equal(t, &dto.ConversionFunnel{}, funnel)
	})

	t.Run("floors_seconds_to_whole_minutes", func(t *testing.T) {
		f := funnelFacets{}
		f.TimeSpent = append(f.TimeSpent, struct {
			TotalTimeSpent float64 `bson:"totalTimeSpent"`
		}{TotalTimeSpent: 45})
		assert.Equal(t, int64(0), shapeFunnel(f).TotalTimeSpent)

		f.TimeSpent[0].TotalTimeSpent = 125
		assert.Equal(t, int64(2), shapeFunnel(f).TotalTimeSpent)
	})

	t.Run("copies_branch_totals", func(t *testing.T) {
		f := funnelFacets{}
		f.Searches = append(f.Searches, struct {
			TotalInteractions int64 `bson:"totalInteractions"`
		}{TotalInteractions: 2})
		f.Clicks = append(f.Clicks, struct {
			TotalInteractions int64 `bson:"totalInteractions"`
		}{TotalInteractions: 1})

		funnel := shapeFunnel(f)
		assert.Equal(t, int64(2), funnel.Searches)
		assert.Equal(t, int64(0), funnel.Views)
		assert.Equal(t, int64(1), funnel.Clicks)
	})
}

func TestFormatMostInteracted(t *testing.T) {
	resp := formatMostInteracted(
		[]searchGroup{{Query: "red shoes", TotalInteractions: 4}},
		[]productGroup{{Name: "Unknown Product", TotalInteractions: 5, TotalClicks: 2, TotalTimeSpent: 45}},
	)

	require.Len(t, resp.Searches, 1)
	assert.Equal(t, "red shoes", resp.Searches[0].Name)
	assert.Equal(t, []dto.InteractionDatum{{X: "Total Interactions", Y: 4}}, resp.Searches[0].Data)

	require.Len(t, resp.Products, 1)
	assert.Equal(t, "Unknown Product", resp.Products[0].Name)
	assert.Equal(t, []dto.InteractionDatum{
		{X: "Total Interactions", Y: 5},
		{X: "Total Clicks", Y: 2},
		{X: "Total Time Spent (sec)", Y: 45},
	}, resp.Products[0].Data)
}

func TestDashboardQueries(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("funnel_returns_zeros_on_empty_store", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateCursorResponse(0, "test.userinteractions", mtest.FirstBatch, bson.D{
			{Key: "searches", Value: bson.A{}},
			{Key: "views", Value: bson.A{}},
			{Key: "clicks", Value: bson.A{}},
			{Key: "timeSpent", Value: bson.A{}},
		}))

		svc := NewDashboardService(mt.Coll, time.Second)
		funnel, err := svc.GetConversionFunnel(context.Background())
		require.NoError(mt, err)
		assert.Equal(mt, &dto.ConversionFunnel{}, funnel)
	})

	mt.Run("funnel_weights_totals_by_count", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateCursorResponse(0, "test.userinteractions", mtest.FirstBatch, bson.D{
			{Key: "searches", Value: bson.A{bson.D{{Key: "totalInteractions", Value: int64(2)}}}},
			{Key: "views", Value: bson.A{}},
			{Key: "clicks", Value: bson.A{bson.D{{Key: "totalInteractions", Value: int64(1)}}}},
			{Key: "timeSpent", Value: bson.A{bson.D{{Key: "totalTimeSpent", Value: 45.0}}}},
		}))

		svc := NewDashboardService(mt.Coll, time.Second)
		funnel, err := svc.GetConversionFunnel(context.Background())
		require.NoError(mt, err)
		assert.Equal(mt, &dto.ConversionFunnel{Searches: 2, Views: 0, Clicks: 1, TotalTimeSpent: 0}, funnel)
	})

	mt.Run("trends_zero_fill_all_requested_buckets", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateCursorResponse(0, "test.userinteractions", mtest.FirstBatch, bson.D{
			{Key: "_id", Value: 1.0},
			{Key: "searches", Value: int64(2)},
			{Key: "views", Value: int64(0)},
			{Key: "clicks", Value: int64(1)},
			{Key: "time_spend", Value: 45.0},
		}))

		svc := NewDashboardService(mt.Coll, time.Second)
		trends, err := svc.GetInteractionTrends(context.Background(), 3)
		require.NoError(mt, err)
		require.Len(mt, trends, 3)

		var total dto.InteractionTrend
		for _, bucket := range trends {
			total.Searches += bucket.Searches
			total.Views += bucket.Views
			total.Clicks += bucket.Clicks
			total.TimeSpend += bucket.TimeSpend
		}
		assert.Equal(mt, int64(2), total.Searches)
		assert.Equal(mt, int64(1), total.Clicks)
		assert.Equal(mt, 45.0, total.TimeSpend)
	})

	mt.Run("trends_with_zero_window_skip_the_store", func(mt *mtest.T) {
		svc := NewDashboardService(mt.Coll, time.Second)
		trends, err := svc.GetInteractionTrends(context.Background(), 0)
		require.NoError(mt, err)
		assert.Empty(mt, trends)
	})

	mt.Run("leaderboard_preserves_unknown_products", func(mt *mtest.T) {
		searches := mtest.CreateCursorResponse(0, "test.userinteractions", mtest.FirstBatch, bson.D{
			{Key: "_id", Value: "red shoes"},
			{Key: "totalInteractions", Value: int64(2)},
		})
		products := mtest.CreateCursorResponse(0, "test.userinteractions", mtest.FirstBatch, bson.D{
			{Key: "name", Value: "Unknown Product"},
			{Key: "totalInteractions", Value: int64(5)},
			{Key: "totalClicks", Value: int64(2)},
			{Key: "totalTimeSpent", Value: 45.0},
		})
		mt.AddMockResponses(searches, products)

		svc := NewDashboardService(mt.Coll, time.Second)
		report, err := svc.GetMostInteractedProducts(context.Background())
		require.NoError(mt, err)
		require.Len(mt, report.Searches, 1)
		assert.Equal(mt, "red shoes", report.Searches[0].Name)
		require.Len(mt, report.Products, 1)
		assert.Equal(mt, "Unknown Product", report.Products[0].Name)
		assert.Equal(mt, 5.0, report.Products[0].Data[0].Y)
	})
}
