package database

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/kamilpajak/designlens/internal/catalog"
	"github.com/kamilpajak/designlens/pkg/models"
)

// testDB starts a throwaway postgres container, runs migrations, and
// returns a connected DB. Skips when no container runtime is available.
func testDB(t *testing.T) *DB {
	t.Helper()
	ctx := context.Background()

	ctr, err := tcpostgres.Run(ctx, "postgres:16-alpine",
		tcpostgres.WithDatabase("designlens_test"),
		tcpostgres.WithUsername("test"),
		tcpostgres.WithPassword("test"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second),
		),
	)
	if err != nil {
		t.Skipf("could not start postgres container: %v", err)
	}
	t.Cleanup(func() { _ = testcontainers.TerminateContainer(ctr) })

	dbURL, err := ctr.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	require.NoError(t, Migrate(dbURL))

	db, err := New(ctx, dbURL)
	require.NoError(t, err)
	t.Cleanup(db.Close)

	return db
}

func sampleDocument() *models.Document {
	return &models.Document{
		URL:        "https://example.com",
		Categories: catalog.Categories(),
		Results: []models.CategoryResult{
			{CategoryID: "typography", Status: models.StatusOK, Payload: json.RawMessage(`"Inter"`)},
		},
	}
}

func TestAnalysisCRUD(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()

	stored, err := db.CreateAnalysis(ctx, sampleDocument())
	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, stored.ID)
	assert.Equal(t, "https://example.com", stored.URL)
	assert.False(t, stored.Incomplete)
	assert.Contains(t, string(stored.Document), `"typography"`)

	found, err := db.GetAnalysisByID(ctx, stored.ID)
	require.NoError(t, err)
	require.NotNil(t, found)
	assert.Equal(t, stored.ID, found.ID)

	latest, err := db.LatestAnalysisByURL(ctx, "https://example.com")
	require.NoError(t, err)
	require.NotNil(t, latest)
	assert.Equal(t, stored.ID, latest.ID)

	list, err := db.ListAnalyses(ctx, 10, 0)
	require.NoError(t, err)
	assert.NotEmpty(t, list)

	require.NoError(t, db.DeleteAnalysis(ctx, stored.ID))
	gone, err := db.GetAnalysisByID(ctx, stored.ID)
	require.NoError(t, err)
	assert.Nil(t, gone)
}

func TestMigrationsRoundTrip(t *testing.T) {
	ctx := context.Background()

	ctr, err := tcpostgres.Run(ctx, "postgres:16-alpine",
		tcpostgres.WithDatabase("designlens_test"),
		tcpostgres.WithUsername("test"),
		tcpostgres.WithPassword("test"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second),
		),
	)
	if err != nil {
		t.Skipf("could not start postgres container: %v", err)
	}
	t.Cleanup(func() { _ = testcontainers.TerminateContainer(ctr) })

	dbURL, err := ctr.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	require.NoError(t, Migrate(dbURL))
	require.NoError(t, Migrate(dbURL)) // re-running is a no-op
	require.NoError(t, MigrateDown(dbURL))
	require.NoError(t, Migrate(dbURL))
}

func TestAnalysisMissingIsNil(t *testing.T) {
	db := testDB(t)

	found, err := db.GetAnalysisByID(context.Background(), uuid.New())
	require.NoError(t, err)
	assert.Nil(t, found)
}

func TestVariationReportCRUD(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()

	analysis, err := db.CreateAnalysis(ctx, sampleDocument())
	require.NoError(t, err)

	report := &models.RegenerationReport{
		State: models.StateExhausted,
		Attempts: []models.Attempt{
			{Index: 1, Prompt: "hero layout", Verdict: models.QualityVerdict{Rating: models.RatingPoor, RegenerationNeeded: true}},
		},
		BestEffort: true,
	}

	stored, err := db.CreateVariationReport(ctx, analysis.ID, ReportKindPattern, "hero-first", report)
	require.NoError(t, err)
	assert.Equal(t, models.StateExhausted, stored.State)
	assert.True(t, stored.BestEffort)
	assert.Equal(t, "hero-first", stored.Label)

	found, err := db.GetVariationReportByID(ctx, stored.ID)
	require.NoError(t, err)
	require.NotNil(t, found)
	assert.Equal(t, stored.ID, found.ID)

	list, err := db.ListVariationReports(ctx, analysis.ID)
	require.NoError(t, err)
	require.Len(t, list, 1)

	// Cascade delete with the parent analysis.
	require.NoError(t, db.DeleteAnalysis(ctx, analysis.ID))
	orphan, err := db.GetVariationReportByID(ctx, stored.ID)
	require.NoError(t, err)
	assert.Nil(t, orphan)
}
