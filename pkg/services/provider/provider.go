package provider

import (
	"context"
	"time"

	"github.com/finops-tools/cloudopt/pkg/models/domain"
)

// Provider is the capability surface a cloud platform adapter exposes to the
// rest of the system. Callers select an adapter explicitly through the
// registry; nothing downstream inspects the adapter's concrete type.
type Provider interface {
	// Name returns the platform identifier, e.g. "aws".
	Name() string
	// GetCostData fetches a normalized cost and inventory snapshot for the
	// period. Implementations surface fetch failures as typed errors rather
	// than letting partial data through silently.
	GetCostData(ctx context.Context, start, end time.Time) (domain.CostData, error)
	// StopResource stops (AWS), deallocates (Azure) or suspends (GCP) a
	// resource by its provider-unique ID.
	StopResource(ctx context.Context, resourceID string) error
	// TerminateResource permanently removes a resource by ID.
	TerminateResource(ctx context.Context, resourceID string) error
}

// StorageLifecycler is an optional capability for adapters whose platform
// supports moving storage to a cheaper access tier.
type StorageLifecycler interface {
	// MoveStorageTier transitions the storage resource to the named tier.
	MoveStorageTier(ctx context.Context, resourceID, targetTier string) error
}
