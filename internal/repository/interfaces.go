package repository

import (
	"context"

	"github.com/alexanderramin/avance/internal/domain"
)

type MacroProjectRepo interface {
	Create(ctx context.Context, m *domain.MacroProject) error
	GetByID(ctx context.Context, id string) (*domain.MacroProject, error)
	List(ctx context.Context) ([]*domain.MacroProject, error)
	Update(ctx context.Context, m *domain.MacroProject) error
	Delete(ctx context.Context, id string) error
}

// ProjectFilter narrows List. A nil MacroProjectID lists every project.
type ProjectFilter struct {
	MacroProjectID *string
}

type ProjectRepo interface {
	Create(ctx context.Context, p *domain.Project) error
	GetByID(ctx context.Context, id string) (*domain.Project, error)
	List(ctx context.Context, filter ProjectFilter) ([]*domain.Project, error)
	Update(ctx context.Context, p *domain.Project) error
	Delete(ctx context.Context, id string) error
}

type ActivityRepo interface {
	Create(ctx context.Context, a *domain.Activity) error
	GetByID(ctx context.Context, id string) (*domain.Activity, error)
	ListByProject(ctx context.Context, projectID string) ([]*domain.Activity, error)
	ListChildren(ctx context.Context, parentID string) ([]*domain.Activity, error)
	Update(ctx context.Context, a *domain.Activity) error
	// SetOrders writes order_index for each activity ID in the map.
	SetOrders(ctx context.Context, orders map[string]int) error
	MaxOrder(ctx context.Context, projectID string) (int, error)
	Delete(ctx context.Context, id string) error
}
