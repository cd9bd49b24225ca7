package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/alexanderramin/avance/internal/db"
	"github.com/alexanderramin/avance/internal/domain"
)

// SQLiteProjectRepo implements ProjectRepo using a SQLite database.
type SQLiteProjectRepo struct {
	db db.DBTX
}

func NewSQLiteProjectRepo(conn db.DBTX) *SQLiteProjectRepo {
	return &SQLiteProjectRepo{db: conn}
}

const projectColumns = `id, name, responsible, macro_project_id`

func (r *SQLiteProjectRepo) Create(ctx context.Context, p *domain.Project) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO projects (`+projectColumns+`) VALUES (?, ?, ?, ?)`,
		p.ID, p.Name, p.Responsible, nullableString(p.MacroProjectID))
	if err != nil {
		return fmt.Errorf("inserting project: %w", err)
	}
	return nil
}

func (r *SQLiteProjectRepo) GetByID(ctx context.Context, id string) (*domain.Project, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+projectColumns+` FROM projects WHERE id = ?`, id)
	p, err := scanProject(row)
	if err != nil {
		return nil, notFoundOr(err, "project", id)
	}
	return p, nil
}

func (r *SQLiteProjectRepo) List(ctx context.Context, filter ProjectFilter) ([]*domain.Project, error) {
	query := `SELECT ` + projectColumns + ` FROM projects`
	var args []any
	if filter.MacroProjectID != nil {
		query += ` WHERE macro_project_id = ?`
		args = append(args, *filter.MacroProjectID)
	}
	query += ` ORDER BY name COLLATE NOCASE, id`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing projects: %w", err)
	}
	defer rows.Close()

	var projects []*domain.Project
	for rows.Next() {
		p, err := scanProject(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning project row: %w", err)
		}
		projects = append(projects, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating projects: %w", err)
	}
	return projects, nil
}

func (r *SQLiteProjectRepo) Update(ctx context.Context, p *domain.Project) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE projects SET name = ?, responsible = ?, macro_project_id = ? WHERE id = ?`,
		p.Name, p.Responsible, nullableString(p.MacroProjectID), p.ID)
	if err != nil {
		return fmt.Errorf("updating project: %w", err)
	}
	return expectAffected(res, "project", p.ID)
}

// Delete removes the project and, through the foreign key, all its activities.
func (r *SQLiteProjectRepo) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM projects WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting project: %w", err)
	}
	return expectAffected(res, "project", id)
}

func scanProject(s scanner) (*domain.Project, error) {
	var p domain.Project
	var macro sql.NullString
	if err := s.Scan(&p.ID, &p.Name, &p.Responsible, &macro); err != nil {
		return nil, err
	}
	p.MacroProjectID = stringPtr(macro)
	return &p, nil
}
