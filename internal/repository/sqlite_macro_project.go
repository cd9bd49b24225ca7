package repository

import (
	"context"
	"fmt"

	"github.com/alexanderramin/avance/internal/db"
	"github.com/alexanderramin/avance/internal/domain"
)

// SQLiteMacroProjectRepo implements MacroProjectRepo using a SQLite database.
type SQLiteMacroProjectRepo struct {
	db db.DBTX
}

func NewSQLiteMacroProjectRepo(conn db.DBTX) *SQLiteMacroProjectRepo {
	return &SQLiteMacroProjectRepo{db: conn}
}

func (r *SQLiteMacroProjectRepo) Create(ctx context.Context, m *domain.MacroProject) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO macro_projects (id, name, description) VALUES (?, ?, ?)`,
		m.ID, m.Name, m.Description)
	if err != nil {
		return fmt.Errorf("inserting macro-project: %w", err)
	}
	return nil
}

func (r *SQLiteMacroProjectRepo) GetByID(ctx context.Context, id string) (*domain.MacroProject, error) {
	row := r.db.QueryRowContext(ctx, `SELECT id, name, description FROM macro_projects WHERE id = ?`, id)
	var m domain.MacroProject
	if err := row.Scan(&m.ID, &m.Name, &m.Description); err != nil {
		return nil, notFoundOr(err, "macro-project", id)
	}
	return &m, nil
}

func (r *SQLiteMacroProjectRepo) List(ctx context.Context) ([]*domain.MacroProject, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT id, name, description FROM macro_projects ORDER BY name COLLATE NOCASE, id`)
	if err != nil {
		return nil, fmt.Errorf("listing macro-projects: %w", err)
	}
	defer rows.Close()

	var out []*domain.MacroProject
	for rows.Next() {
		var m domain.MacroProject
		if err := rows.Scan(&m.ID, &m.Name, &m.Description); err != nil {
			return nil, fmt.Errorf("scanning macro-project row: %w", err)
		}
		out = append(out, &m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating macro-projects: %w", err)
	}
	return out, nil
}

func (r *SQLiteMacroProjectRepo) Update(ctx context.Context, m *domain.MacroProject) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE macro_projects SET name = ?, description = ? WHERE id = ?`,
		m.Name, m.Description, m.ID)
	if err != nil {
		return fmt.Errorf("updating macro-project: %w", err)
	}
	return expectAffected(res, "macro-project", m.ID)
}

// Delete removes the macro-project; its projects keep existing unassigned.
func (r *SQLiteMacroProjectRepo) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM macro_projects WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting macro-project: %w", err)
	}
	return expectAffected(res, "macro-project", id)
}
