package repository

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/go-pkgz/lgr"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/umputun/recipescope/pkg/domain"
)

// ErrNotFound is returned when an operation needs an existing entry
var ErrNotFound = errors.New("recipe not found")

// RecipeRepository stores parsed recipes by cache key. Entries are immutable from the caller's
// point of view: a repeated Put for the same key replaces the row (last write wins), user edits
// go into a fork with a new key.
type RecipeRepository struct {
	db *sqlx.DB
}

// Stats is a summary of the store content
type Stats struct {
	Total    int `db:"total" json:"total"`
	Forks    int `db:"forks" json:"forks"`
	Embedded int `db:"embedded" json:"embedded"`
}

// recipeSQL is the database row of a recipe entry
type recipeSQL struct {
	Key            string         `db:"cache_key"`
	Recipe         recipeDataSQL  `db:"recipe_data"`
	SourceType     string         `db:"source_type"`
	Embedding      embeddingSQL   `db:"embedding"`
	ParentKey      sql.NullString `db:"parent_key"`
	IsUserModified bool           `db:"is_user_modified"`
	CreatedAt      time.Time      `db:"created_at"`
	UpdatedAt      time.Time      `db:"updated_at"`
}

// recipeDataSQL stores CombinedRecipe as a JSON column
type recipeDataSQL domain.CombinedRecipe

// Value implements driver.Valuer for database storage
func (r recipeDataSQL) Value() (driver.Value, error) {
	data, err := json.Marshal(domain.CombinedRecipe(r))
	if err != nil {
		return nil, fmt.Errorf("marshal recipe: %w", err)
	}
	return string(data), nil
}

// Scan implements sql.Scanner for database retrieval
func (r *recipeDataSQL) Scan(value interface{}) error {
	data, err := columnBytes(value)
	if err != nil || data == nil {
		return err
	}
	var rec domain.CombinedRecipe
	if err := json.Unmarshal(data, &rec); err != nil {
		return fmt.Errorf("unmarshal recipe: %w", err)
	}
	*r = recipeDataSQL(rec)
	return nil
}

// embeddingSQL stores a vector as a JSON array, nil maps to NULL
type embeddingSQL []float32

// Value implements driver.Valuer for database storage
func (e embeddingSQL) Value() (driver.Value, error) {
	if len(e) == 0 {
		return nil, nil
	}
	data, err := json.Marshal([]float32(e))
	if err != nil {
		return nil, fmt.Errorf("marshal embedding: %w", err)
	}
	return string(data), nil
}

// Scan implements sql.Scanner for database retrieval
func (e *embeddingSQL) Scan(value interface{}) error {
	data, err := columnBytes(value)
	if err != nil || data == nil {
		*e = nil
		return err
	}
	var vec []float32
	if err := json.Unmarshal(data, &vec); err != nil {
		return fmt.Errorf("unmarshal embedding: %w", err)
	}
	*e = vec
	return nil
}

func columnBytes(value interface{}) ([]byte, error) {
	switch v := value.(type) {
	case nil:
		return nil, nil
	case []byte:
		return v, nil
	case string:
		return []byte(v), nil
	default:
		return nil, fmt.Errorf("unsupported column type %T", value)
	}
}

// NewRecipeRepository creates a recipe repository
func NewRecipeRepository(db *sqlx.DB) *RecipeRepository {
	return &RecipeRepository{db: db}
}

// Get returns the entry for key, or nil without error if there is none
func (r *RecipeRepository) Get(ctx context.Context, key string) (*domain.CacheEntry, error) {
	var row recipeSQL
	err := r.db.GetContext(ctx, &row, `SELECT * FROM recipes WHERE cache_key = ?`, key)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get recipe %s: %w", key, err)
	}
	return row.toDomain(), nil
}

// Put stores a parsed recipe under key. An existing parsed entry is replaced and its
// embedding dropped, user-modified entries are never overwritten.
func (r *RecipeRepository) Put(ctx context.Context, key string, recipe *domain.CombinedRecipe, sourceType domain.InputType) error {
	if recipe == nil {
		return errors.New("nil recipe")
	}
	return withLockRetry(ctx, func() error {
		var existing struct {
			UserModified bool `db:"is_user_modified"`
		}
		err := r.db.GetContext(ctx, &existing, `SELECT is_user_modified FROM recipes WHERE cache_key = ?`, key)
		switch {
		case errors.Is(err, sql.ErrNoRows):
		case err != nil:
			return fmt.Errorf("check recipe %s: %w", key, err)
		case existing.UserModified:
			lgr.Printf("[WARN] refusing to overwrite user-modified recipe %s", key)
			return nil
		default:
			lgr.Printf("[INFO] recipe %s already stored, replacing it", key)
		}

		query := `
			INSERT INTO recipes (cache_key, recipe_data, source_type)
			VALUES (?, ?, ?)
			ON CONFLICT(cache_key) DO UPDATE SET
				recipe_data = excluded.recipe_data,
				source_type = excluded.source_type,
				embedding = NULL,
				updated_at = CURRENT_TIMESTAMP
			WHERE recipes.is_user_modified = 0
		`
		if _, err := r.db.ExecContext(ctx, query, key, recipeDataSQL(*recipe), string(sourceType)); err != nil {
			return fmt.Errorf("put recipe %s: %w", key, err)
		}
		return nil
	})
}

// SetEmbedding attaches an embedding to a parsed entry. Forks are never embedded.
func (r *RecipeRepository) SetEmbedding(ctx context.Context, key string, embedding []float32) error {
	return withLockRetry(ctx, func() error {
		res, err := r.db.ExecContext(ctx,
			`UPDATE recipes SET embedding = ? WHERE cache_key = ? AND is_user_modified = 0`,
			embeddingSQL(embedding), key)
		if err != nil {
			return fmt.Errorf("set embedding for %s: %w", key, err)
		}
		if n, err := res.RowsAffected(); err == nil && n == 0 {
			return fmt.Errorf("set embedding for %s: %w", key, ErrNotFound)
		}
		return nil
	})
}

// Fork stores an edited copy of the entry under parentKey with a new key.
// The fork is marked user-modified, keeps the parent's source type and has no embedding.
func (r *RecipeRepository) Fork(ctx context.Context, parentKey string, recipe *domain.CombinedRecipe) (*domain.CacheEntry, error) {
	if recipe == nil {
		return nil, errors.New("nil recipe")
	}
	parent, err := r.Get(ctx, parentKey)
	if err != nil {
		return nil, err
	}
	if parent == nil {
		return nil, fmt.Errorf("fork %s: %w", parentKey, ErrNotFound)
	}

	key := uuid.NewString()
	err = withLockRetry(ctx, func() error {
		_, e := r.db.ExecContext(ctx, `
			INSERT INTO recipes (cache_key, recipe_data, source_type, parent_key, is_user_modified)
			VALUES (?, ?, ?, ?, 1)`,
			key, recipeDataSQL(*recipe), string(parent.SourceType), parentKey)
		if e != nil {
			return fmt.Errorf("insert fork of %s: %w", parentKey, e)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	lgr.Printf("[DEBUG] forked recipe %s into %s", parentKey, key)
	return r.Get(ctx, key)
}

// Forks lists entries forked from parentKey, oldest first
func (r *RecipeRepository) Forks(ctx context.Context, parentKey string) ([]*domain.CacheEntry, error) {
	var rows []recipeSQL
	err := r.db.SelectContext(ctx, &rows,
		`SELECT * FROM recipes WHERE parent_key = ? ORDER BY created_at, rowid`, parentKey)
	if err != nil {
		return nil, fmt.Errorf("get forks of %s: %w", parentKey, err)
	}
	res := make([]*domain.CacheEntry, 0, len(rows))
	for i := range rows {
		res = append(res, rows[i].toDomain())
	}
	return res, nil
}

// MissingEmbeddings lists parsed entries that have no embedding yet, oldest first
func (r *RecipeRepository) MissingEmbeddings(ctx context.Context, limit int) ([]*domain.CacheEntry, error) {
	if limit <= 0 {
		limit = 50
	}
	var rows []recipeSQL
	err := r.db.SelectContext(ctx, &rows,
		`SELECT * FROM recipes WHERE embedding IS NULL AND is_user_modified = 0 ORDER BY created_at, rowid LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("select recipes without embedding: %w", err)
	}
	res := make([]*domain.CacheEntry, 0, len(rows))
	for i := range rows {
		res = append(res, rows[i].toDomain())
	}
	return res, nil
}

// SimilaritySearch returns parsed entries whose embedding has cosine similarity to vec of at
// least threshold, best first. User-modified entries never match.
func (r *RecipeRepository) SimilaritySearch(ctx context.Context, vec []float32, threshold float64, limit int) ([]domain.SimilarEntry, error) {
	if len(vec) == 0 {
		return nil, errors.New("empty query vector")
	}
	if limit <= 0 {
		limit = 1
	}

	var rows []recipeSQL
	err := r.db.SelectContext(ctx, &rows,
		`SELECT * FROM recipes WHERE embedding IS NOT NULL AND is_user_modified = 0`)
	if err != nil {
		return nil, fmt.Errorf("select embedded recipes: %w", err)
	}

	var res []domain.SimilarEntry
	for i := range rows {
		sim, ok := cosine(vec, rows[i].Embedding)
		if !ok || sim < threshold {
			continue
		}
		res = append(res, domain.SimilarEntry{Entry: rows[i].toDomain(), Similarity: sim})
	}
	sort.SliceStable(res, func(i, j int) bool { return res[i].Similarity > res[j].Similarity })
	if len(res) > limit {
		res = res[:limit]
	}
	return res, nil
}

// Stats returns entry counts
func (r *RecipeRepository) Stats(ctx context.Context) (Stats, error) {
	var st Stats
	err := r.db.GetContext(ctx, &st, `
		SELECT COUNT(*) AS total,
			COALESCE(SUM(CASE WHEN is_user_modified = 1 THEN 1 ELSE 0 END), 0) AS forks,
			COALESCE(SUM(CASE WHEN embedding IS NOT NULL THEN 1 ELSE 0 END), 0) AS embedded
		FROM recipes`)
	if err != nil {
		return Stats{}, fmt.Errorf("get stats: %w", err)
	}
	return st, nil
}

// cosine returns cosine similarity, false for vectors of different size or zero length
func cosine(a, b []float32) (float64, bool) {
	if len(a) == 0 || len(a) != len(b) {
		return 0, false
	}
	var dot, na, nb float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		na += float64(a[i]) * float64(a[i])
		nb += float64(b[i]) * float64(b[i])
	}
	if na == 0 || nb == 0 {
		return 0, false
	}
	return dot / (math.Sqrt(na) * math.Sqrt(nb)), true
}

func (s *recipeSQL) toDomain() *domain.CacheEntry {
	return &domain.CacheEntry{
		Key:            s.Key,
		Recipe:         domain.CombinedRecipe(s.Recipe),
		SourceType:     domain.InputType(s.SourceType),
		Embedding:      []float32(s.Embedding),
		ParentKey:      s.ParentKey.String,
		IsUserModified: s.IsUserModified,
		CreatedAt:      s.CreatedAt,
	}
}
