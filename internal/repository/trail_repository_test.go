package repository

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/jengzang/trails-backend-go/internal/analysis"
	"github.com/jengzang/trails-backend-go/internal/database"
	"github.com/jengzang/trails-backend-go/internal/models"
)

func newTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := database.Open(database.Config{Path: filepath.Join(t.TempDir(), "trails.db")}, zap.NewNop())
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

// analysed builds a stored-form trail from a climb along a meridian
func analysed(name string, elevations ...float64) (*models.TrailDetail, []analysis.GeoPoint) {
	coords := make([]analysis.Coordinate, len(elevations))
	for i, e := range elevations {
		coords[i] = analysis.Coordinate{Longitude: -122, Latitude: 45 + float64(i)*0.001, Elevation: e}
	}
	report := analysis.Analyze(name, coords, analysis.Options{})
	m := report.Metrics

	detail := &models.TrailDetail{
		Trail: models.Trail{
			Name:              name,
			LocationLat:       45,
			LocationLon:       -122,
			LengthKm:          m.LengthKm,
			ElevationGain:     m.ElevationGain,
			ElevationLoss:     m.ElevationLoss,
			MinElevation:      m.MinElevation,
			MaxElevation:      m.MaxElevation,
			ElevationVariance: m.ElevationVariance,
			AvgSlope:          m.AvgSlope,
			MaxSlope:          m.MaxSlope,
			SourcePath:        name + ".geojson",
		},
		Difficulty: &report.Difficulty,
	}
	for _, s := range report.Segments {
		detail.Segments = append(detail.Segments, models.TrailSegment{SegmentSummary: s})
	}
	return detail, report.Points()
}

func TestTrailRepository_SaveAndLoad(t *testing.T) {
	ctx := context.Background()
	repo := NewTrailRepository(newTestDB(t))

	detail, points := analysed("Eagle Peak", 100, 120, 150, 140, 180, 200, 260, 250)
	require.NoError(t, repo.Save(ctx, detail, points))
	assert.NotZero(t, detail.ID)

	trail, err := repo.GetByName(ctx, "Eagle Peak")
	require.NoError(t, err)
	assert.Equal(t, detail.ID, trail.ID)
	assert.Equal(t, detail.LengthKm, trail.LengthKm)
	assert.Equal(t, len(points), trail.PointCount)
	assert.Equal(t, "Eagle Peak.geojson", trail.SourcePath)
	assert.False(t, trail.CreatedAt.IsZero())

	segments, err := repo.GetSegments(ctx, trail.ID)
	require.NoError(t, err)
	require.Len(t, segments, len(detail.Segments))
	assert.Equal(t, detail.Segments[0].SegmentSummary, segments[0].SegmentSummary)

	stored, err := repo.GetPoints(ctx, trail.ID)
	require.NoError(t, err)
	assert.Equal(t, points, stored)

	difficulty, err := repo.GetDifficulty(ctx, trail.ID)
	require.NoError(t, err)
	require.NotNil(t, difficulty)
	assert.Equal(t, *detail.Difficulty, *difficulty)
	assert.False(t, difficulty.Accessibility.IsKnown())
	assert.False(t, difficulty.WeatherVulnerability.IsKnown())
}

func TestTrailRepository_UniqueName(t *testing.T) {
	ctx := context.Background()
	repo := NewTrailRepository(newTestDB(t))

	detail, points := analysed("Loop", 10, 20)
	require.NoError(t, repo.Save(ctx, detail, points))

	again, points := analysed("Loop", 10, 20)
	assert.ErrorIs(t, repo.Save(ctx, again, points), ErrDuplicate)

	exists, err := repo.ExistsByName(ctx, "Loop")
	require.NoError(t, err)
	assert.True(t, exists)
}

func TestTrailRepository_ExistsBySource(t *testing.T) {
	ctx := context.Background()
	repo := NewTrailRepository(newTestDB(t))

	detail, points := analysed("Loop", 10, 20)
	require.NoError(t, repo.Save(ctx, detail, points))

	exists, err := repo.ExistsBySource(ctx, "Loop.geojson")
	require.NoError(t, err)
	assert.True(t, exists)

	exists, err = repo.ExistsBySource(ctx, "Other.geojson")
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestTrailRepository_List(t *testing.T) {
	ctx := context.Background()
	repo := NewTrailRepository(newTestDB(t))

	for _, name := range []string{"Cedar Ridge", "Alder Loop", "Birch Ridge"} {
		detail, points := analysed(name, 100, 150)
		require.NoError(t, repo.Save(ctx, detail, points))
	}
	unrated, points := analysed("Dune Path", 5, 5)
	unrated.Difficulty = nil
	unrated.Geohash = "c210pb4"
	require.NoError(t, repo.Save(ctx, unrated, points))

	all, total, err := repo.List(ctx, models.TrailFilter{Page: 1, PageSize: 10})
	require.NoError(t, err)
	assert.EqualValues(t, 4, total)
	require.Len(t, all, 4)
	assert.Equal(t, "Alder Loop", all[0].Name)
	assert.Equal(t, "4", all[0].Difficulty)
	require.NotNil(t, all[0].DifficultyRating)
	assert.Equal(t, 4, *all[0].DifficultyRating)
	assert.Equal(t, "Unknown", all[3].Difficulty)
	assert.Nil(t, all[3].DifficultyRating)

	ridges, total, err := repo.List(ctx, models.TrailFilter{Name: "Ridge", Page: 1, PageSize: 10})
	require.NoError(t, err)
	assert.EqualValues(t, 2, total)
	assert.Len(t, ridges, 2)

	page, total, err := repo.List(ctx, models.TrailFilter{Page: 2, PageSize: 3})
	require.NoError(t, err)
	assert.EqualValues(t, 4, total)
	require.Len(t, page, 1)
	assert.Equal(t, "Dune Path", page[0].Name)

	hard, _, err := repo.List(ctx, models.TrailFilter{MinDifficulty: 5, Page: 1, PageSize: 10})
	require.NoError(t, err)
	assert.Empty(t, hard)

	near, total, err := repo.List(ctx, models.TrailFilter{Near: "c21", Page: 1, PageSize: 10})
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
	require.Len(t, near, 1)
	assert.Equal(t, "Dune Path", near[0].Name)
	assert.Equal(t, "c210pb4", near[0].Geohash)
}

func TestTrailRepository_DeleteCascades(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	repo := NewTrailRepository(db)

	detail, points := analysed("Loop", 10, 20, 30)
	require.NoError(t, repo.Save(ctx, detail, points))
	require.NoError(t, repo.DeleteByName(ctx, "Loop"))

	_, err := repo.GetByName(ctx, "Loop")
	assert.ErrorIs(t, err, ErrNotFound)

	for _, table := range []string{"trail_points", "trail_segments", "difficulty_ratings"} {
		var n int
		require.NoError(t, db.QueryRow("SELECT COUNT(*) FROM "+table).Scan(&n))
		assert.Zero(t, n, table)
	}

	assert.ErrorIs(t, repo.DeleteByName(ctx, "Loop"), ErrNotFound)
}

func TestTrailRepository_GetDifficultyMissing(t *testing.T) {
	repo := NewTrailRepository(newTestDB(t))
	d, err := repo.GetDifficulty(context.Background(), 42)
	require.NoError(t, err)
	assert.Nil(t, d)
}
