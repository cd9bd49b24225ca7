package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/alexanderramin/avance/internal/db"
	"github.com/alexanderramin/avance/internal/domain"
)

// SQLiteActivityRepo implements ActivityRepo using a SQLite database.
type SQLiteActivityRepo struct {
	db db.DBTX
}

func NewSQLiteActivityRepo(conn db.DBTX) *SQLiteActivityRepo {
	return &SQLiteActivityRepo{db: conn}
}

const activityColumns = `id, project_id, parent_id, name, kind, start_date, end_date,
	approved, progress_pct, comment, order_index`

func (r *SQLiteActivityRepo) Create(ctx context.Context, a *domain.Activity) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO activities (`+activityColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		a.ID,
		a.ProjectID,
		nullableString(a.ParentID),
		a.Name,
		string(a.Kind),
		domain.FormatDate(a.StartDate),
		domain.FormatDate(a.EndDate),
		boolToInt(a.Approved),
		a.ProgressPct,
		a.Comment,
		a.Order,
	)
	if err != nil {
		return fmt.Errorf("inserting activity: %w", err)
	}
	return nil
}

func (r *SQLiteActivityRepo) GetByID(ctx context.Context, id string) (*domain.Activity, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+activityColumns+` FROM activities WHERE id = ?`, id)
	a, err := scanActivity(row)
	if err != nil {
		return nil, notFoundOr(err, "activity", id)
	}
	return a, nil
}

// ListByProject returns the project's activities in stored display order.
func (r *SQLiteActivityRepo) ListByProject(ctx context.Context, projectID string) ([]*domain.Activity, error) {
	return r.list(ctx, `SELECT `+activityColumns+` FROM activities
		WHERE project_id = ? ORDER BY order_index, start_date, id`, projectID)
}

func (r *SQLiteActivityRepo) ListChildren(ctx context.Context, parentID string) ([]*domain.Activity, error) {
	return r.list(ctx, `SELECT `+activityColumns+` FROM activities
		WHERE parent_id = ? ORDER BY order_index, start_date, id`, parentID)
}

func (r *SQLiteActivityRepo) list(ctx context.Context, query string, args ...any) ([]*domain.Activity, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing activities: %w", err)
	}
	defer rows.Close()

	var out []*domain.Activity
	for rows.Next() {
		a, err := scanActivity(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning activity row: %w", err)
		}
		out = append(out, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating activities: %w", err)
	}
	return out, nil
}

func (r *SQLiteActivityRepo) Update(ctx context.Context, a *domain.Activity) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE activities SET project_id = ?, parent_id = ?, name = ?, kind = ?, start_date = ?, end_date = ?,
			approved = ?, progress_pct = ?, comment = ?, order_index = ?
		WHERE id = ?`,
		a.ProjectID,
		nullableString(a.ParentID),
		a.Name,
		string(a.Kind),
		domain.FormatDate(a.StartDate),
		domain.FormatDate(a.EndDate),
		boolToInt(a.Approved),
		a.ProgressPct,
		a.Comment,
		a.Order,
		a.ID,
	)
	if err != nil {
		return fmt.Errorf("updating activity: %w", err)
	}
	return expectAffected(res, "activity", a.ID)
}

func (r *SQLiteActivityRepo) SetOrders(ctx context.Context, orders map[string]int) error {
	for id, order := range orders {
		res, err := r.db.ExecContext(ctx, `UPDATE activities SET order_index = ? WHERE id = ?`, order, id)
		if err != nil {
			return fmt.Errorf("updating activity order: %w", err)
		}
		if err := expectAffected(res, "activity", id); err != nil {
			return err
		}
	}
	return nil
}

// MaxOrder returns the highest order_index in the project, 0 when it has no
// activities.
func (r *SQLiteActivityRepo) MaxOrder(ctx context.Context, projectID string) (int, error) {
	var maxOrder int
	err := r.db.QueryRowContext(ctx,
		`SELECT COALESCE(MAX(order_index), 0) FROM activities WHERE project_id = ?`, projectID).Scan(&maxOrder)
	if err != nil {
		return 0, fmt.Errorf("reading max activity order: %w", err)
	}
	return maxOrder, nil
}

// Delete removes the activity. Its children stay, detached from any parent.
func (r *SQLiteActivityRepo) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM activities WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting activity: %w", err)
	}
	return expectAffected(res, "activity", id)
}

func scanActivity(s scanner) (*domain.Activity, error) {
	var a domain.Activity
	var parent sql.NullString
	var kind, start, end string
	var approved int

	if err := s.Scan(
		&a.ID, &a.ProjectID, &parent, &a.Name, &kind,
		&start, &end, &approved, &a.ProgressPct, &a.Comment, &a.Order,
	); err != nil {
		return nil, err
	}

	a.ParentID = stringPtr(parent)
	a.Kind = domain.ActivityKind(kind)
	a.Approved = intToBool(approved)

	var err error
	if a.StartDate, err = parseDate("start_date", start); err != nil {
		return nil, err
	}
	if a.EndDate, err = parseDate("end_date", end); err != nil {
		return nil, err
	}
	return &a, nil
}
