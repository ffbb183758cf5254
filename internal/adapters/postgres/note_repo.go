package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"notekeep/internal/domain/entities"
	"notekeep/internal/ports/repositories"
	"notekeep/pkg/logger"
)

// noteColumns - колонки заметки вместе с именем категории из LEFT JOIN.
const noteColumns = `
        n.id, n.user_id, n.category_id, COALESCE(c.name, ''),
        n.title, n.content, n.is_pinned, n.created_at, n.updated_at`

// NoteRepository реализует интерфейс repositories.NoteRepository для работы с Postgres.
type NoteRepository struct {
	pool PgxPoolInterface
}

// NewNoteRepository создает новый экземпляр репозитория заметок.
func NewNoteRepository(pool PgxPoolInterface) repositories.NoteRepository {
	return &NoteRepository{pool: pool}
}

// Create создает новую заметку.
func (r *NoteRepository) Create(ctx context.Context, note *entities.Note) (*entities.Note, error) {
	log := logger.Log(ctx).With(zap.String("repository", "note"), zap.String("method", "Create"))

	query := `
        INSERT INTO notes (user_id, category_id, title, content, is_pinned)
        VALUES ($1, $2, $3, $4, $5)
        RETURNING id
    `

	var noteID string
	err := r.pool.QueryRow(ctx, query,
		note.UserID,
		note.CategoryID,
		note.Title,
		note.Content,
		note.IsPinned,
	).Scan(&noteID)

	if err != nil {
		log.Error(ctx, "error creating note", zap.Error(err))
		return nil, fmt.Errorf("error creating note: %w", err)
	}

	return r.GetByID(ctx, noteID, note.UserID)
}

// GetByID находит заметку пользователя по ID.
func (r *NoteRepository) GetByID(ctx context.Context, noteID, userID string) (*entities.Note, error) {
	log := logger.Log(ctx).With(zap.String("repository", "note"), zap.String("method", "GetByID"))

	query := `
        SELECT` + noteColumns + `
        FROM notes n
        LEFT JOIN categories c ON c.id = n.category_id
        WHERE n.id = $1 AND n.user_id = $2
    `

	note, err := scanNote(r.pool.QueryRow(ctx, query, noteID, userID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			log.Debug(ctx, "note not found", zap.String("noteID", noteID))
			return nil, entities.ErrNoteNotFound
		}
		log.Error(ctx, "error finding note by id", zap.Error(err))
		return nil, fmt.Errorf("error querying note by id: %w", err)
	}

	return note, nil
}

// List возвращает страницу заметок пользователя и общее число строк,
// удовлетворяющих фильтру.
func (r *NoteRepository) List(ctx context.Context, userID string, filter *repositories.NoteFilter, limit, offset int) ([]*entities.Note, int, error) {
	log := logger.Log(ctx).With(zap.String("repository", "note"), zap.String("method", "List"))

	if filter == nil {
		filter = &repositories.NoteFilter{}
	}

	where, args := buildNoteFilter(userID, filter)

	countQuery := `
        SELECT COUNT(*)
        FROM notes n
        WHERE ` + where

	var total int
	if err := r.pool.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		log.Error(ctx, "error counting notes", zap.Error(err))
		return nil, 0, fmt.Errorf("error counting notes: %w", err)
	}

	query := `
        SELECT` + noteColumns + `
        FROM notes n
        LEFT JOIN categories c ON c.id = n.category_id
        WHERE ` + where + `
        ORDER BY ` + noteOrderClause(filter.Ordering) + `
        LIMIT $` + fmt.Sprint(len(args)+1) + ` OFFSET $` + fmt.Sprint(len(args)+2)

	args = append(args, limit, offset)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		log.Error(ctx, "error querying notes", zap.Error(err))
		return nil, 0, fmt.Errorf("error querying notes: %w", err)
	}
	defer rows.Close()

	var notes []*entities.Note
	for rows.Next() {
		note, err := scanNote(rows)
		if err != nil {
			log.Error(ctx, "error scanning note row", zap.Error(err))
			return nil, 0, fmt.Errorf("error scanning note row: %w", err)
		}
		notes = append(notes, note)
	}

	if err = rows.Err(); err != nil {
		log.Error(ctx, "error iterating note rows", zap.Error(err))
		return nil, 0, fmt.Errorf("error iterating note rows: %w", err)
	}

	return notes, total, nil
}

// Update обновляет заметку пользователя.
func (r *NoteRepository) Update(ctx context.Context, note *entities.Note) (*entities.Note, error) {
	log := logger.Log(ctx).With(zap.String("repository", "note"), zap.String("method", "Update"))

	query := `
        UPDATE notes
        SET category_id = $3, title = $4, content = $5, is_pinned = $6, updated_at = $7
        WHERE id = $1 AND user_id = $2
    `

	result, err := r.pool.Exec(ctx, query,
		note.ID,
		note.UserID,
		note.CategoryID,
		note.Title,
		note.Content,
		note.IsPinned,
		time.Now().UTC(),
	)

	if err != nil {
		log.Error(ctx, "error updating note", zap.Error(err))
		return nil, fmt.Errorf("error updating note: %w", err)
	}

	if result.RowsAffected() == 0 {
		log.Debug(ctx, "note not found for update", zap.String("noteID", note.ID))
		return nil, entities.ErrNoteNotFound
	}

	return r.GetByID(ctx, note.ID, note.UserID)
}

// Delete удаляет заметку пользователя.
func (r *NoteRepository) Delete(ctx context.Context, noteID, userID string) error {
	log := logger.Log(ctx).With(zap.String("repository", "note"), zap.String("method", "Delete"))

	query := `
        DELETE FROM notes
        WHERE id = $1 AND user_id = $2
    `

	result, err := r.pool.Exec(ctx, query, noteID, userID)
	if err != nil {
		log.Error(ctx, "error deleting note", zap.Error(err))
		return fmt.Errorf("error deleting note: %w", err)
	}

	if result.RowsAffected() == 0 {
		log.Debug(ctx, "note not found for deletion", zap.String("noteID", noteID))
		return entities.ErrNoteNotFound
	}

	return nil
}

// SetPinned изменяет флаг закрепления заметки.
func (r *NoteRepository) SetPinned(ctx context.Context, noteID, userID string, pinned bool) error {
	log := logger.Log(ctx).With(zap.String("repository", "note"), zap.String("method", "SetPinned"))

	query := `
        UPDATE notes
        SET is_pinned = $3, updated_at = $4
        WHERE id = $1 AND user_id = $2
    `

	result, err := r.pool.Exec(ctx, query, noteID, userID, pinned, time.Now().UTC())
	if err != nil {
		log.Error(ctx, "error setting pin state", zap.Error(err))
		return fmt.Errorf("error setting pin state: %w", err)
	}

	if result.RowsAffected() == 0 {
		log.Debug(ctx, "note not found for pinning", zap.String("noteID", noteID))
		return entities.ErrNoteNotFound
	}

	return nil
}

// SetCategory перемещает заметку в категорию. Nil categoryID отвязывает заметку.
func (r *NoteRepository) SetCategory(ctx context.Context, noteID, userID string, categoryID *string) error {
	log := logger.Log(ctx).With(zap.String("repository", "note"), zap.String("method", "SetCategory"))

	query := `
        UPDATE notes
        SET category_id = $3, updated_at = $4
        WHERE id = $1 AND user_id = $2
    `

	result, err := r.pool.Exec(ctx, query, noteID, userID, categoryID, time.Now().UTC())
	if err != nil {
		log.Error(ctx, "error setting note category", zap.Error(err))
		return fmt.Errorf("error setting note category: %w", err)
	}

	if result.RowsAffected() == 0 {
		log.Debug(ctx, "note not found for category change", zap.String("noteID", noteID))
		return entities.ErrNoteNotFound
	}

	return nil
}

// DetachCategory отвязывает все заметки пользователя от категории.
// Возвращает количество затронутых строк.
func (r *NoteRepository) DetachCategory(ctx context.Context, categoryID, userID string) (int64, error) {
	log := logger.Log(ctx).With(zap.String("repository", "note"), zap.String("method", "DetachCategory"))

	query := `
        UPDATE notes
        SET category_id = NULL, updated_at = $3
        WHERE category_id = $1 AND user_id = $2
    `

	result, err := r.pool.Exec(ctx, query, categoryID, userID, time.Now().UTC())
	if err != nil {
		log.Error(ctx, "error detaching notes from category", zap.Error(err))
		return 0, fmt.Errorf("error detaching notes from category: %w", err)
	}

	detached := result.RowsAffected()
	log.Info(ctx, "notes detached from category", zap.Int64("count", detached))
	return detached, nil
}

// Stats возвращает агрегаты по заметкам и категориям пользователя.
func (r *NoteRepository) Stats(ctx context.Context, userID string, recentSince time.Time) (*repositories.NoteStats, error) {
	log := logger.Log(ctx).With(zap.String("repository", "note"), zap.String("method", "Stats"))

	query := `
        SELECT
            COUNT(*),
            COUNT(*) FILTER (WHERE is_pinned),
            COUNT(*) FILTER (WHERE category_id IS NOT NULL),
            COUNT(*) FILTER (WHERE created_at >= $2),
            (SELECT COUNT(*) FROM categories WHERE user_id = $1)
        FROM notes
        WHERE user_id = $1
    `

	var stats repositories.NoteStats
	err := r.pool.QueryRow(ctx, query, userID, recentSince).Scan(
		&stats.TotalNotes,
		&stats.PinnedNotes,
		&stats.CategorizedNotes,
		&stats.RecentNotes,
		&stats.TotalCategories,
	)

	if err != nil {
		log.Error(ctx, "error querying note stats", zap.Error(err))
		return nil, fmt.Errorf("error querying note stats: %w", err)
	}

	return &stats, nil
}

// scanNote читает одну строку заметки вместе с именем категории.
func scanNote(row pgx.Row) (*entities.Note, error) {
	var note entities.Note
	err := row.Scan(
		&note.ID,
		&note.UserID,
		&note.CategoryID,
		&note.CategoryName,
		&note.Title,
		&note.Content,
		&note.IsPinned,
		&note.CreatedAt,
		&note.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &note, nil
}

// buildNoteFilter собирает условие WHERE и аргументы запроса для фильтра.
func buildNoteFilter(userID string, filter *repositories.NoteFilter) (string, []interface{}) {
	conditions := []string{"n.user_id = $1"}
	args := []interface{}{userID}

	if filter.Search != "" {
		args = append(args, "%"+filter.Search+"%")
		idx := fmt.Sprint(len(args))
		conditions = append(conditions, "(n.title ILIKE $"+idx+" OR n.content ILIKE $"+idx+")")
	}
	if filter.CategoryID != nil {
		args = append(args, *filter.CategoryID)
		conditions = append(conditions, "n.category_id = $"+fmt.Sprint(len(args)))
	}
	if filter.IsPinned != nil {
		args = append(args, *filter.IsPinned)
		conditions = append(conditions, "n.is_pinned = $"+fmt.Sprint(len(args)))
	}
	if filter.CreatedAfter != nil {
		args = append(args, *filter.CreatedAfter)
		conditions = append(conditions, "n.created_at >= $"+fmt.Sprint(len(args)))
	}

	return strings.Join(conditions, " AND "), args
}

// noteOrderClause переводит поле сортировки в выражение ORDER BY.
// Пустое поле дает порядок по умолчанию: закрепленные заметки первыми,
// затем по убыванию даты обновления.
func noteOrderClause(ordering string) string {
	if ordering == "" {
		return "n.is_pinned DESC, n.updated_at DESC"
	}

	direction := "ASC"
	field := ordering
	if strings.HasPrefix(ordering, "-") {
		direction = "DESC"
		field = ordering[1:]
	}

	switch field {
	case "created_at", "updated_at", "title", "is_pinned":
		return "n." + field + " " + direction + ", n.id"
	default:
		return "n.is_pinned DESC, n.updated_at DESC"
	}
}
