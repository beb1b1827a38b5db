package dbctx

import (
	"context"

	"gorm.io/gorm"
)

// Context bundles a request context with an optional GORM transaction. A nil Tx means
// the repo runs against its own handle.
type Context struct {
	Ctx context.Context
	Tx  *gorm.DB
}
