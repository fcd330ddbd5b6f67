// Package adapter provides the capability set every backing-service adapter implements.
package adapter

import (
	"context"
	"fmt"

	"github.com/EricMurray-e-m-dev/infra-manager/internal/models"
)

// Reporter produces a live status report for one backing service.
// Each call opens its own connection and closes it before returning.
type Reporter interface {
	// Name is the service key used in URLs, e.g. "postgres".
	Name() string
	FetchReport(ctx context.Context) (any, error)
}

// Deleter removes a named top-level resource (database, bucket) from its service.
type Deleter interface {
	Reporter
	// Collection is the URL segment for what DeleteTarget removes, e.g. "databases".
	Collection() string
	DeleteTarget(ctx context.Context, name string) (*models.OperationResult, error)
}

// Dropped is the result every successful DeleteTarget returns.
func Dropped(resource, name string) *models.OperationResult {
	return &models.OperationResult{
		Status:  models.StatusSuccess,
		Message: fmt.Sprintf("%s %s dropped successfully", resource, name),
	}
}
