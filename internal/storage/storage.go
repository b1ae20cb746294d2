// Package storage provides access to the durable booking collection.
//
// Collections are opened by URL through gocloud.dev/docstore, so the same code
// runs against DynamoDB in production and an in-memory collection in tests:
//
//	dynamodb://bookings?partition_key=id
//	mem://bookings/id
package storage

import (
	"context"
	"fmt"

	"gocloud.dev/docstore"

	// Register docstore drivers
	_ "gocloud.dev/docstore/awsdynamodb/v2"
	_ "gocloud.dev/docstore/memdocstore"
)

// OpenCollection opens the docstore collection identified by the given URL.
// The collection must use "id" as its key field; repositories derive the
// document key from the booking's composite (event_id, booking_id) pair.
func OpenCollection(ctx context.Context, collectionURL string) (*docstore.Collection, error) {
	coll, err := docstore.OpenCollection(ctx, collectionURL)
	if err != nil {
		return nil, fmt.Errorf("failed to open collection %q: %w", collectionURL, err)
	}
	return coll, nil
}
