// Package repository содержит хранилища ресурса пользователей: PostgreSQL и in-memory.
package repository

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"

	"github.com/mmeshcher/atelier/internal/model"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

var (
	// ErrUserNotFound возвращается, если пользователь не найден.
	ErrUserNotFound = errors.New("user not found")
	// ErrEmailTaken возвращается, если email уже занят другим пользователем.
	ErrEmailTaken = errors.New("email already taken")
)

// PostgresRepository предоставляет доступ к пользователям в PostgreSQL.
type PostgresRepository struct {
	pool   *pgxpool.Pool
	delays []time.Duration
}

// NewPostgresRepository создаёт новый репозиторий и инициализирует схему БД через миграции.
func NewPostgresRepository(dsn string) (*PostgresRepository, error) {
	cfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("parse pool config: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("create pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	r := &PostgresRepository{
		pool:   pool,
		delays: []time.Duration{1 * time.Second, 3 * time.Second, 5 * time.Second},
	}

	if err := r.runMigrations(ctx); err != nil {
		pool.Close()
		return nil, err
	}

	return r, nil
}

func (r *PostgresRepository) runMigrations(ctx context.Context) error {
	db := stdlib.OpenDBFromPool(r.pool)
	defer db.Close()

	goose.SetBaseFS(migrationsFS)

	if err := goose.SetDialect("postgres"); err != nil {
		return fmt.Errorf("set dialect: %w", err)
	}

	if err := goose.UpContext(ctx, db, "migrations"); err != nil {
		return fmt.Errorf("run migrations: %w", err)
	}

	return nil
}

// withRetry повторяет fn при временных ошибках: конфликтах сериализации, дедлоках и обрывах соединения.
func withRetry(ctx context.Context, delays []time.Duration, fn func() error) error {
	var err error

	for i := 0; i <= len(delays); i++ {
		err = fn()
		if err == nil || !isRetryable(err) || i == len(delays) {
			return err
		}

		timer := time.NewTimer(delays[i])
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}
	}
	return err
}

func isRetryable(err error) bool {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == pgerrcode.SerializationFailure || pgErr.Code == pgerrcode.DeadlockDetected
	}

	return isConnectionError(err)
}

func isConnectionError(err error) bool {
	msg := err.Error()
	return strings.Contains(msg, "connection refused") ||
		strings.Contains(msg, "broken pipe") ||
		strings.Contains(msg, "connection reset by peer")
}

// Close закрывает пул соединений с БД.
func (r *PostgresRepository) Close() error {
	r.pool.Close()
	return nil
}

// ListUsers возвращает пользователей, подходящих под фильтр, упорядоченных по идентификатору.
func (r *PostgresRepository) ListUsers(ctx context.Context, filter model.UserFilter) ([]model.User, error) {
	query := `SELECT id, name, email, age FROM users`
	var (
		conds []string
		args  []any
	)
	if filter.Name != "" {
		args = append(args, "%"+escapeLike(filter.Name)+"%")
		conds = append(conds, fmt.Sprintf(`name ILIKE $%d ESCAPE '\'`, len(args)))
	}
	if filter.Age != 0 {
		args = append(args, filter.Age)
		conds = append(conds, fmt.Sprintf("age = $%d", len(args)))
	}
	if len(conds) > 0 {
		query += " WHERE " + strings.Join(conds, " AND ")
	}
	query += " ORDER BY id"

	var users []model.User
	err := withRetry(ctx, r.delays, func() error {
		rows, err := r.pool.Query(ctx, query, args...)
		if err != nil {
			return fmt.Errorf("select users: %w", err)
		}

		users, err = pgx.CollectRows(rows, scanUser)
		if err != nil {
			return fmt.Errorf("scan users: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return users, nil
}

// GetUser возвращает пользователя по идентификатору.
func (r *PostgresRepository) GetUser(ctx context.Context, id int64) (*model.User, error) {
	var u model.User
	err := withRetry(ctx, r.delays, func() error {
		rows, err := r.pool.Query(ctx, `SELECT id, name, email, age FROM users WHERE id = $1`, id)
		if err != nil {
			return fmt.Errorf("select user: %w", err)
		}

		u, err = pgx.CollectExactlyOneRow(rows, scanUser)
		return err
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("get user: %w", err)
	}

	return &u, nil
}

// CreateUser сохраняет нового пользователя и возвращает его с назначенным идентификатором.
func (r *PostgresRepository) CreateUser(ctx context.Context, u model.User) (*model.User, error) {
	err := r.pool.QueryRow(ctx,
		`INSERT INTO users (name, email, age) VALUES ($1, $2, $3) RETURNING id`,
		u.Name, u.Email, nullableAge(u.Age),
	).Scan(&u.ID)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, fmt.Errorf("%w: %s", ErrEmailTaken, u.Email)
		}
		return nil, fmt.Errorf("create user: %w", err)
	}
	return &u, nil
}

// UpdateUser заменяет данные пользователя с указанным идентификатором.
func (r *PostgresRepository) UpdateUser(ctx context.Context, id int64, u model.User) (*model.User, error) {
	cmdTag, err := r.pool.Exec(ctx,
		`UPDATE users SET name = $2, email = $3, age = $4 WHERE id = $1`,
		id, u.Name, u.Email, nullableAge(u.Age),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, fmt.Errorf("%w: %s", ErrEmailTaken, u.Email)
		}
		return nil, fmt.Errorf("update user: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return nil, ErrUserNotFound
	}

	u.ID = id
	return &u, nil
}

// DeleteUser удаляет пользователя.
func (r *PostgresRepository) DeleteUser(ctx context.Context, id int64) error {
	cmdTag, err := r.pool.Exec(ctx, `DELETE FROM users WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete user: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return ErrUserNotFound
	}
	return nil
}

func scanUser(row pgx.CollectableRow) (model.User, error) {
	var (
		u   model.User
		age *int32
	)
	if err := row.Scan(&u.ID, &u.Name, &u.Email, &age); err != nil {
		return model.User{}, err
	}
	if age != nil {
		u.Age = int(*age)
	}
	return u, nil
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// escapeLike экранирует спецсимволы LIKE, чтобы фильтр искал подстроку буквально.
func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}

func nullableAge(age int) *int32 {
	if age == 0 {
		return nil
	}
	v := int32(age)
	return &v
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation
}
