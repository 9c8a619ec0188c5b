package service

import (
	"context"
	"errors"

	"github.com/rs/zerolog/log"
)

// deleteWithPrecheck looks the row up before deleting it. A lookup that
// completes without finding the row returns notFound. A lookup that fails is
// logged and the delete call decides the outcome.
func deleteWithPrecheck(ctx context.Context, entity string, id int64, notFound error,
	lookup func(context.Context, int64) error, remove func(context.Context, int64) error) error {
	if err := lookup(ctx, id); err != nil {
		if errors.Is(err, notFound) {
			return notFound
		}
		log.Warn().
			Err(err).
			Str("entity", entity).
			Int64("id", id).
			Msg("Existence check failed, proceeding with delete")
	}
	return remove(ctx, id)
}
