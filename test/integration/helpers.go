//go:build integration
// +build integration

package integration

import (
	"context"
	"fmt"
	"path/filepath"
	"runtime"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/Reesemix123/the-coach-hub-sub011/internal/api"
	"github.com/Reesemix123/the-coach-hub-sub011/internal/db"
	"github.com/Reesemix123/the-coach-hub-sub011/internal/ledger"
	"github.com/Reesemix123/the-coach-hub-sub011/internal/models"
	"github.com/Reesemix123/the-coach-hub-sub011/internal/signedurl"
	"github.com/Reesemix123/the-coach-hub-sub011/internal/timeline"
)

// setupTestDB creates an in-memory test database with migrations applied
func setupTestDB(t *testing.T) (*db.DB, *db.Repositories, func()) {
	t.Helper()

	database, err := db.New(":memory:")
	require.NoError(t, err, "Failed to create in-memory database")

	sqlDB, err := database.GetSQLDB()
	require.NoError(t, err, "Failed to get SQL DB")

	// Resolve the migrations directory relative to this file so tests work
	// regardless of working directory
	_, filename, _, ok := runtime.Caller(0)
	require.True(t, ok, "Failed to get current file path")

	testDir := filepath.Dir(filename)                     // test/integration
	rootDir := filepath.Dir(filepath.Dir(testDir))        // repo root
	migrationsPath := "file://" + filepath.Join(rootDir, "migrations")

	err = db.RunMigrations(sqlDB, migrationsPath)
	require.NoError(t, err, "Failed to run migrations")

	repos := db.NewRepositories(database)

	cleanup := func() {
		database.Close()
	}

	return database, repos, cleanup
}

// stubIssuer signs URLs without a real object store
type stubIssuer struct {
	err error
}

func (s *stubIssuer) SignURL(_ context.Context, mediaRef string, _ time.Duration) (string, time.Time, error) {
	if s.err != nil {
		return "", time.Time{}, s.err
	}
	return "https://media.test/" + mediaRef + "?sig=stub", time.Now().UTC(), nil
}

// setupTestRouter creates a test Gin router with all routes configured
func setupTestRouter(database *db.DB, repos *db.Repositories, issuer signedurl.Issuer) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(gin.Recovery())

	if issuer == nil {
		issuer = &stubIssuer{}
	}

	timelineService := timeline.NewService(repos, models.MaxLanes)
	ledgerService := ledger.NewService(repos)
	urlManager := signedurl.NewManager(issuer, time.Hour, 15*time.Minute)

	apiGroup := router.Group("/api/v1")
	api.SetupHealthRoutes(apiGroup, database)
	api.SetupTimelineRoutes(apiGroup, timelineService, urlManager)
	api.SetupSelectionRoutes(apiGroup, ledgerService)

	return router
}

// createTestClip appends a clip through the service layer and returns it
func createTestClip(t *testing.T, repos *db.Repositories, gameID uuid.UUID, lane int, positionMs, durationMs int64) *models.TimelineClip {
	t.Helper()

	svc := timeline.NewService(repos, models.MaxLanes)
	mediaRef := fmt.Sprintf("film/%s.mp4", uuid.New().String()[:8])
	clip, err := svc.AppendClip(context.Background(), gameID, timeline.AppendClipParams{
		Lane:           lane,
		MediaRef:       mediaRef,
		LanePositionMs: positionMs,
		DurationMs:     durationMs,
	})
	require.NoError(t, err, "Failed to create test clip")

	return clip
}
