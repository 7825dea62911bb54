package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jengzang/trails-backend-go/internal/analysis"
	"github.com/jengzang/trails-backend-go/internal/database"
	"github.com/jengzang/trails-backend-go/internal/models"
)

// Repository errors
var (
	ErrNotFound  = errors.New("not found")
	ErrDuplicate = errors.New("duplicate")
)

// TrailRepository handles database operations for trails
type TrailRepository struct {
	db *sql.DB
}

// NewTrailRepository creates a new trail repository
func NewTrailRepository(db *sql.DB) *TrailRepository {
	return &TrailRepository{db: db}
}

const trailColumns = `
	t.id, t.name, COALESCE(t.location_lat, 0), COALESCE(t.location_lon, 0), COALESCE(t.geohash, ''),
	t.length_km, t.elevation_gain, t.elevation_loss, t.min_elevation, t.max_elevation,
	t.elevation_variance, t.avg_slope, t.max_slope, t.point_count,
	COALESCE(t.source_path, ''), COALESCE(t.polyline, ''), t.created_at
`

func scanTrail(row interface{ Scan(...any) error }, trail *models.Trail) error {
	return row.Scan(
		&trail.ID,
		&trail.Name,
		&trail.LocationLat,
		&trail.LocationLon,
		&trail.Geohash,
		&trail.LengthKm,
		&trail.ElevationGain,
		&trail.ElevationLoss,
		&trail.MinElevation,
		&trail.MaxElevation,
		&trail.ElevationVariance,
		&trail.AvgSlope,
		&trail.MaxSlope,
		&trail.PointCount,
		&trail.SourcePath,
		&trail.Polyline,
		&trail.CreatedAt,
	)
}

// Save stores a trail with its points, segments and rating in one transaction.
// detail.ID and the segment IDs are filled in on success.
func (r *TrailRepository) Save(ctx context.Context, detail *models.TrailDetail, points []analysis.GeoPoint) error {
	return database.Transaction(ctx, r.db, func(tx *sql.Tx) error {
		t := &detail.Trail
		result, err := tx.ExecContext(ctx, `
			INSERT INTO trails (
				name, location_lat, location_lon, geohash, length_km, elevation_gain, elevation_loss,
				min_elevation, max_elevation, elevation_variance, avg_slope, max_slope,
				point_count, source_path, polyline
			) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		`,
			t.Name, t.LocationLat, t.LocationLon, nullString(t.Geohash), t.LengthKm, t.ElevationGain, t.ElevationLoss,
			t.MinElevation, t.MaxElevation, t.ElevationVariance, t.AvgSlope, t.MaxSlope,
			len(points), nullString(t.SourcePath), nullString(t.Polyline),
		)
		if database.IsUniqueViolation(err) {
			return fmt.Errorf("trail %q: %w", t.Name, ErrDuplicate)
		}
		if err != nil {
			return fmt.Errorf("failed to insert trail: %w", err)
		}

		id, err := result.LastInsertId()
		if err != nil {
			return fmt.Errorf("failed to get last insert id: %w", err)
		}
		t.ID = id
		t.PointCount = len(points)

		if err := insertPoints(ctx, tx, id, points); err != nil {
			return err
		}
		if err := insertSegments(ctx, tx, id, detail.Segments); err != nil {
			return err
		}
		if detail.Difficulty != nil {
			if err := insertDifficulty(ctx, tx, id, detail.Difficulty); err != nil {
				return err
			}
		}
		return nil
	})
}

func insertPoints(ctx context.Context, tx *sql.Tx, trailID int64, points []analysis.GeoPoint) error {
	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO trail_points (trail_id, seq, latitude, longitude, elevation, distance_m)
		VALUES (?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare point insert: %w", err)
	}
	defer stmt.Close()

	for i, p := range points {
		if _, err := stmt.ExecContext(ctx, trailID, i, p.Latitude(), p.Longitude(), p.Elevation(), p.DistanceFromStart()); err != nil {
			return fmt.Errorf("failed to insert point %d: %w", i, err)
		}
	}
	return nil
}

func insertSegments(ctx context.Context, tx *sql.Tx, trailID int64, segments []models.TrailSegment) error {
	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO trail_segments (
			trail_id, segment_order, start_index, end_index, start_lat, start_lon, end_lat, end_lon,
			length_km, elevation_gain, elevation_loss, avg_slope, max_slope, terrain_type
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare segment insert: %w", err)
	}
	defer stmt.Close()

	for i := range segments {
		s := &segments[i]
		result, err := stmt.ExecContext(ctx,
			trailID, s.Order, s.StartIndex, s.EndIndex, s.Start.Lat, s.Start.Lon, s.End.Lat, s.End.Lon,
			s.LengthKm, s.ElevationGain, s.ElevationLoss, s.AvgSlope, s.MaxSlope, string(s.TerrainType),
		)
		if err != nil {
			return fmt.Errorf("failed to insert segment %d: %w", s.Order, err)
		}
		if s.ID, err = result.LastInsertId(); err != nil {
			return fmt.Errorf("failed to get last insert id: %w", err)
		}
		s.TrailID = trailID
	}
	return nil
}

func insertDifficulty(ctx context.Context, tx *sql.Tx, trailID int64, d *analysis.Difficulty) error {
	_, err := tx.ExecContext(ctx, `
		INSERT INTO difficulty_ratings (
			trail_id, cardio_intensity, technical_difficulty, accessibility,
			weather_vulnerability, overall_difficulty
		) VALUES (?, ?, ?, ?, ?, ?)
	`,
		trailID, d.CardioIntensity, d.TechnicalDifficulty, ratingToNull(d.Accessibility),
		ratingToNull(d.WeatherVulnerability), d.OverallDifficulty,
	)
	if err != nil {
		return fmt.Errorf("failed to insert difficulty rating: %w", err)
	}
	return nil
}

// List returns trail summaries matching filter, ordered by name, and the total match count
func (r *TrailRepository) List(ctx context.Context, filter models.TrailFilter) ([]models.TrailSummary, int64, error) {
	where := " WHERE 1=1"
	args := []interface{}{}

	if filter.Name != "" {
		where += " AND t.name LIKE ?"
		args = append(args, "%"+filter.Name+"%")
	}
	if filter.MinDifficulty > 0 {
		where += " AND d.overall_difficulty >= ?"
		args = append(args, filter.MinDifficulty)
	}
	if filter.MaxDifficulty > 0 {
		where += " AND d.overall_difficulty <= ?"
		args = append(args, filter.MaxDifficulty)
	}
	if filter.Near != "" {
		where += " AND t.geohash LIKE ?"
		args = append(args, filter.Near+"%")
	}

	from := " FROM trails t LEFT JOIN difficulty_ratings d ON t.id = d.trail_id"

	var total int64
	if err := r.db.QueryRowContext(ctx, "SELECT COUNT(*)"+from+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count trails: %w", err)
	}

	query := `
		SELECT t.name, COALESCE(t.location_lat, 0), COALESCE(t.location_lon, 0), COALESCE(t.geohash, ''), t.length_km,
			   d.overall_difficulty, d.cardio_intensity, d.technical_difficulty
	` + from + where + " ORDER BY t.name LIMIT ? OFFSET ?"
	args = append(args, filter.PageSize, (filter.Page-1)*filter.PageSize)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list trails: %w", err)
	}
	defer rows.Close()

	trails := []models.TrailSummary{}
	for rows.Next() {
		var s models.TrailSummary
		var overall, cardio, technical sql.NullInt64
		if err := rows.Scan(&s.Name, &s.LocationLat, &s.LocationLon, &s.Geohash, &s.LengthKm, &overall, &cardio, &technical); err != nil {
			return nil, 0, fmt.Errorf("failed to scan trail summary: %w", err)
		}

		s.DifficultyRating = intPtr(overall)
		s.CardioIntensity = intPtr(cardio)
		s.TechnicalDifficulty = intPtr(technical)
		s.Difficulty = "Unknown"
		if overall.Valid {
			s.Difficulty = fmt.Sprintf("%d", overall.Int64)
		}
		trails = append(trails, s)
	}

	return trails, total, rows.Err()
}

// GetByName returns the trail called name, or ErrNotFound
func (r *TrailRepository) GetByName(ctx context.Context, name string) (*models.Trail, error) {
	trail := &models.Trail{}
	err := scanTrail(r.db.QueryRowContext(ctx, "SELECT "+trailColumns+" FROM trails t WHERE t.name = ?", name), trail)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("trail %q: %w", name, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get trail: %w", err)
	}
	return trail, nil
}

// ExistsByName reports whether a trail called name is stored
func (r *TrailRepository) ExistsByName(ctx context.Context, name string) (bool, error) {
	var exists bool
	err := r.db.QueryRowContext(ctx, "SELECT EXISTS(SELECT 1 FROM trails WHERE name = ?)", name).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check trail name: %w", err)
	}
	return exists, nil
}

// ExistsBySource reports whether a trail was imported from the given source file
func (r *TrailRepository) ExistsBySource(ctx context.Context, sourcePath string) (bool, error) {
	var exists bool
	err := r.db.QueryRowContext(ctx, "SELECT EXISTS(SELECT 1 FROM trails WHERE source_path = ?)", sourcePath).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check trail source: %w", err)
	}
	return exists, nil
}

// GetSegments returns the segments of a trail in order
func (r *TrailRepository) GetSegments(ctx context.Context, trailID int64) ([]models.TrailSegment, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, trail_id, segment_order, start_index, end_index, start_lat, start_lon, end_lat, end_lon,
			   length_km, elevation_gain, elevation_loss, avg_slope, max_slope, terrain_type
		FROM trail_segments
		WHERE trail_id = ?
		ORDER BY segment_order
	`, trailID)
	if err != nil {
		return nil, fmt.Errorf("failed to query segments: %w", err)
	}
	defer rows.Close()

	segments := []models.TrailSegment{}
	for rows.Next() {
		var s models.TrailSegment
		var terrain string
		if err := rows.Scan(
			&s.ID, &s.TrailID, &s.Order, &s.StartIndex, &s.EndIndex,
			&s.Start.Lat, &s.Start.Lon, &s.End.Lat, &s.End.Lon,
			&s.LengthKm, &s.ElevationGain, &s.ElevationLoss, &s.AvgSlope, &s.MaxSlope, &terrain,
		); err != nil {
			return nil, fmt.Errorf("failed to scan segment: %w", err)
		}
		s.TerrainType = analysis.TerrainType(terrain)
		segments = append(segments, s)
	}

	return segments, rows.Err()
}

// GetDifficulty returns the rating of a trail, or nil when it has none
func (r *TrailRepository) GetDifficulty(ctx context.Context, trailID int64) (*analysis.Difficulty, error) {
	var d analysis.Difficulty
	var accessibility, weather sql.NullInt64
	err := r.db.QueryRowContext(ctx, `
		SELECT cardio_intensity, technical_difficulty, accessibility, weather_vulnerability, overall_difficulty
		FROM difficulty_ratings
		WHERE trail_id = ?
	`, trailID).Scan(&d.CardioIntensity, &d.TechnicalDifficulty, &accessibility, &weather, &d.OverallDifficulty)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get difficulty rating: %w", err)
	}

	d.Accessibility = ratingFromNull(accessibility)
	d.WeatherVulnerability = ratingFromNull(weather)
	return &d, nil
}

// GetPoints returns the stored point sequence of a trail
func (r *TrailRepository) GetPoints(ctx context.Context, trailID int64) ([]analysis.GeoPoint, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT latitude, longitude, elevation, distance_m
		FROM trail_points
		WHERE trail_id = ?
		ORDER BY seq
	`, trailID)
	if err != nil {
		return nil, fmt.Errorf("failed to query points: %w", err)
	}
	defer rows.Close()

	var points []analysis.GeoPoint
	for rows.Next() {
		var lat, lon, ele, dist float64
		if err := rows.Scan(&lat, &lon, &ele, &dist); err != nil {
			return nil, fmt.Errorf("failed to scan point: %w", err)
		}
		points = append(points, analysis.NewGeoPoint(lat, lon, ele, dist))
	}

	return points, rows.Err()
}

// DeleteByName removes a trail; points, segments and rating go with it.
// Returns ErrNotFound when no trail matched.
func (r *TrailRepository) DeleteByName(ctx context.Context, name string) error {
	result, err := r.db.ExecContext(ctx, "DELETE FROM trails WHERE name = ?", name)
	if err != nil {
		return fmt.Errorf("failed to delete trail: %w", err)
	}

	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("trail %q: %w", name, ErrNotFound)
	}
	return nil
}

func ratingToNull(r analysis.Rating) sql.NullInt64 {
	v, ok := r.Int()
	return sql.NullInt64{Int64: int64(v), Valid: ok}
}

func ratingFromNull(n sql.NullInt64) analysis.Rating {
	if !n.Valid {
		return analysis.Unknown
	}
	return analysis.Known(int(n.Int64))
}

func intPtr(n sql.NullInt64) *int {
	if !n.Valid {
		return nil
	}
	v := int(n.Int64)
	return &v
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
