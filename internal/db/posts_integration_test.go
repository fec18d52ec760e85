//go:build integration

package db

import (
	"context"
	"os"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/forum-insights/internal/types"
)

func getTestDB(t *testing.T) *DB {
	t.Helper()

	dsn := os.Getenv("TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("TEST_DATABASE_URL not set, skipping integration test")
	}

	ctx := context.Background()
	db, err := Connect(ctx, dsn)
	require.NoError(t, err, "failed to connect to test database")
	require.NoError(t, db.EnsureSchema(ctx))

	_, _ = db.pool.Exec(ctx, "DELETE FROM posts WHERE url LIKE '%test.example.com%'")

	return db
}

func testRecord(url string) *types.PostRecord {
	return &types.PostRecord{
		Title:    "Payment failed after update",
		Content:  "My payment fails every time since the update.",
		Author:   "alice",
		URL:      url,
		Excerpt:  "My payment fails every time since the update.",
		Category: "billing",
		Thread: types.ThreadData{
			TotalReplies:     2,
			SolutionPosition: -1,
			Participants:     []string{"alice", "bob"},
		},
	}
}

func TestIntegration_SavePost_Upsert(t *testing.T) {
	db := getTestDB(t)
	defer db.Close()
	ctx := context.Background()

	runID, err := db.CreateRun(ctx, []string{"billing"})
	require.NoError(t, err)

	url := "https://test.example.com/threads/" + uuid.New().String()
	record := testRecord(url)

	id1, err := db.SavePost(ctx, runID, record)
	require.NoError(t, err)

	record.Title = "Payment failed after update (edited)"
	id2, err := db.SavePost(ctx, runID, record)
	require.NoError(t, err)
	assert.Equal(t, id1, id2, "re-saving the same URL must update, not insert")

	stored, err := db.GetPostByURL(ctx, url)
	require.NoError(t, err)
	require.NotNil(t, stored)
	assert.Equal(t, "Payment failed after update (edited)", stored.Title)
	assert.Equal(t, 2, stored.Thread.TotalReplies)
	assert.Equal(t, []string{"alice", "bob"}, stored.Thread.Participants)

	require.NoError(t, db.CompleteRun(ctx, runID, RunStatusCompleted, 1))
	run, err := db.GetRun(ctx, runID)
	require.NoError(t, err)
	require.NotNil(t, run)
	assert.Equal(t, RunStatusCompleted, run.Status)
	assert.Equal(t, 1, run.PostCount)
	assert.NotNil(t, run.CompletedAt)
}

func TestIntegration_SavePosts_Batch(t *testing.T) {
	db := getTestDB(t)
	defer db.Close()
	ctx := context.Background()

	runID, err := db.CreateRun(ctx, []string{"billing"})
	require.NoError(t, err)

	records := make([]types.PostRecord, 10)
	for i := range records {
		records[i] = *testRecord("https://test.example.com/threads/" + uuid.New().String())
	}

	stored, err := db.SavePosts(ctx, runID, records)
	require.NoError(t, err)
	assert.Equal(t, len(records), stored)
}

func TestIntegration_Analysis_RoundTrip(t *testing.T) {
	db := getTestDB(t)
	defer db.Close()
	ctx := context.Background()

	runID, err := db.CreateRun(ctx, []string{"billing"})
	require.NoError(t, err)

	url := "https://test.example.com/threads/" + uuid.New().String()
	postID, err := db.SavePost(ctx, runID, testRecord(url))
	require.NoError(t, err)

	pending, err := db.ListUnanalyzedPosts(ctx, 100)
	require.NoError(t, err)
	found := false
	for _, p := range pending {
		if p.ID == postID {
			found = true
		}
	}
	assert.True(t, found, "freshly stored post must be pending analysis")

	require.NoError(t, db.SaveAnalysis(ctx, postID, "negative", 0.2, []string{"billing", "refund"}))

	stored, err := db.GetPostByURL(ctx, url)
	require.NoError(t, err)
	require.NotNil(t, stored)
	require.NotNil(t, stored.SentimentLabel)
	assert.Equal(t, "negative", *stored.SentimentLabel)
	assert.Equal(t, []string{"billing", "refund"}, stored.Keywords)
	assert.NotNil(t, stored.AnalyzedAt)
}

func TestIntegration_GetPostByURL_Unknown(t *testing.T) {
	db := getTestDB(t)
	defer db.Close()

	stored, err := db.GetPostByURL(context.Background(), "https://test.example.com/threads/does-not-exist/")
	require.NoError(t, err)
	assert.Nil(t, stored)
}
