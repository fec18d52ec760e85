package db

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jonathan/forum-insights/internal/types"
	"golang.org/x/sync/errgroup"
)

// saveConcurrency bounds parallel inserts in SavePosts.
const saveConcurrency = 4

// SavePost upserts a scraped post keyed on its URL and returns the row ID.
// Re-scraping an already known post refreshes its content.
func (db *DB) SavePost(ctx context.Context, runID uuid.UUID, record *types.PostRecord) (uuid.UUID, error) {
	threadJSON, err := json.Marshal(record.Thread)
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to marshal thread data: %w", err)
	}

	var id uuid.UUID
	err = db.pool.QueryRow(ctx,
		`INSERT INTO posts (run_id, url, title, content, html_content, author, excerpt, category, posted_at, thread)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		 ON CONFLICT (url) DO UPDATE SET
			run_id = $1, title = $3, content = $4, html_content = $5, author = $6,
			excerpt = $7, category = $8, posted_at = $9, thread = $10, updated_at = NOW()
		 RETURNING id`,
		runID, record.URL, record.Title, record.Content, record.HTMLContent,
		record.Author, record.Excerpt, record.Category, record.Date, threadJSON,
	).Scan(&id)
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to save post %s: %w", record.URL, err)
	}
	return id, nil
}

// SavePosts persists a batch of records with bounded concurrency and returns
// how many were stored. Individual failures are collected into the returned
// error; successfully stored rows stay stored.
func (db *DB) SavePosts(ctx context.Context, runID uuid.UUID, records []types.PostRecord) (int, error) {
	var stored atomic.Int64

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(saveConcurrency)
	for i := range records {
		record := &records[i]
		g.Go(func() error {
			if _, err := db.SavePost(gctx, runID, record); err != nil {
				return err
			}
			stored.Add(1)
			return nil
		})
	}
	err := g.Wait()
	return int(stored.Load()), err
}

// GetPostByURL retrieves a stored post by URL, or nil if unknown.
func (db *DB) GetPostByURL(ctx context.Context, url string) (*StoredPost, error) {
	row := db.pool.QueryRow(ctx, selectPostColumns+` FROM posts WHERE url = $1`, url)
	post, err := scanPost(row)
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get post: %w", err)
	}
	return post, nil
}

// ListRecentPosts returns the most recently stored posts, optionally filtered
// by category.
func (db *DB) ListRecentPosts(ctx context.Context, category string, limit int) ([]StoredPost, error) {
	if limit <= 0 {
		limit = 50
	}

	query := selectPostColumns + ` FROM posts`
	args := []any{}
	if category != "" {
		query += ` WHERE category = $1`
		args = append(args, category)
	}
	query += fmt.Sprintf(` ORDER BY created_at DESC LIMIT %d`, limit)

	rows, err := db.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list posts: %w", err)
	}
	defer rows.Close()

	var posts []StoredPost
	for rows.Next() {
		post, err := scanPost(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan post: %w", err)
		}
		posts = append(posts, *post)
	}
	return posts, rows.Err()
}

// ListUnanalyzedPosts returns stored posts that have no sentiment analysis yet.
func (db *DB) ListUnanalyzedPosts(ctx context.Context, limit int) ([]StoredPost, error) {
	if limit <= 0 {
		limit = 50
	}

	rows, err := db.pool.Query(ctx,
		selectPostColumns+` FROM posts WHERE analyzed_at IS NULL ORDER BY created_at DESC LIMIT $1`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list unanalyzed posts: %w", err)
	}
	defer rows.Close()

	var posts []StoredPost
	for rows.Next() {
		post, err := scanPost(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan post: %w", err)
		}
		posts = append(posts, *post)
	}
	return posts, rows.Err()
}

// SaveAnalysis records sentiment results for a stored post.
func (db *DB) SaveAnalysis(ctx context.Context, postID uuid.UUID, label string, score float64, keywords []string) error {
	_, err := db.pool.Exec(ctx,
		`UPDATE posts
		 SET sentiment_label = $1, sentiment_score = $2, keywords = $3, analyzed_at = $4, updated_at = NOW()
		 WHERE id = $5`,
		label, score, keywords, time.Now().UTC(), postID,
	)
	if err != nil {
		return fmt.Errorf("failed to save analysis: %w", err)
	}
	return nil
}

const selectPostColumns = `SELECT id, run_id, url, title, content, html_content, author, excerpt,
	category, posted_at, thread, sentiment_label, sentiment_score, keywords,
	analyzed_at, created_at, updated_at`

func scanPost(row pgx.Row) (*StoredPost, error) {
	var post StoredPost
	var threadJSON []byte
	err := row.Scan(&post.ID, &post.RunID, &post.URL, &post.Title, &post.Content,
		&post.HTMLContent, &post.Author, &post.Excerpt, &post.Category, &post.PostedAt,
		&threadJSON, &post.SentimentLabel, &post.SentimentScore, &post.Keywords,
		&post.AnalyzedAt, &post.CreatedAt, &post.UpdatedAt)
	if err != nil {
		return nil, err
	}
	if threadJSON != nil {
		_ = json.Unmarshal(threadJSON, &post.Thread)
	}
	return &post, nil
}

func isNoRows(err error) bool {
	return errors.Is(err, pgx.ErrNoRows)
}
