package app

import (
	"github.com/alexanderramin/avance/internal/domain"
	"github.com/alexanderramin/avance/internal/replication"
)

// CopyRequest copies ActivityIDs of SourceProjectID into DestProjectID.
// With one ID the subtree of that activity is copied; with several the
// selection is reduced to its roots first.
type CopyRequest struct {
	SourceProjectID string
	ActivityIDs     []string
	DestProjectID   string
	Options         replication.Options
}

type CopyResult struct {
	Copies []*domain.Activity
	// Mapping is source activity ID -> new activity ID.
	Mapping map[string]string
}
