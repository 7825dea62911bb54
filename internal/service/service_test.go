package service

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/jengzang/trails-backend-go/internal/analysis"
	"github.com/jengzang/trails-backend-go/internal/database"
	"github.com/jengzang/trails-backend-go/internal/repository"
)

type fixture struct {
	db     *sql.DB
	trails *TrailService
	jobs   *ImportService
}

func newFixture(t *testing.T, workers int) *fixture {
	t.Helper()

	db, err := database.Open(database.Config{Path: filepath.Join(t.TempDir(), "trails.db")}, zap.NewNop())
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	trailRepo := repository.NewTrailRepository(db)
	trails := NewTrailService(trailRepo, analysis.Options{}, zap.NewNop())
	jobs := NewImportService(trails, trailRepo, repository.NewImportJobRepository(db), workers, zap.NewNop())

	return &fixture{db: db, trails: trails, jobs: jobs}
}

// lineString renders a GeoJSON FeatureCollection climbing north from (45, -122)
func lineString(name string, elevations ...float64) string {
	positions := make([]string, len(elevations))
	for i, e := range elevations {
		positions[i] = fmt.Sprintf("[-122, %.4f, %g]", 45+float64(i)*0.001, e)
	}

	props := "{}"
	if name != "" {
		props = fmt.Sprintf(`{"name": %q}`, name)
	}

	return fmt.Sprintf(`{"type": "FeatureCollection", "features": [{"type": "Feature", "properties": %s, "geometry": {"type": "LineString", "coordinates": [%s]}}]}`,
		props, strings.Join(positions, ", "))
}

func writeFile(t *testing.T, dir, name, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
}
