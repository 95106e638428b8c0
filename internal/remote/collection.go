package remote

import (
	"context"
	"errors"
	"net/http"

	"github.com/haventide/wellspring/internal/models"
)

// Collection exposes one content kind's endpoints with typed records.
// The reconciler works through this; the outbox drainer uses the raw
// client calls instead.
type Collection[T models.Record] struct {
	client *Client
	path   string
}

func NewCollection[T models.Record](client *Client, kind models.Kind) *Collection[T] {
	return &Collection[T]{client: client, path: collectionPath(kind)}
}

// List fetches every record of this kind owned by the authenticated
// user.
func (collection *Collection[T]) List(ctx context.Context) ([]T, error) {
	records := make([]T, 0)
	if err := collection.client.do(ctx, http.MethodGet, collection.path, nil, &records); err != nil {
		return nil, err
	}
	return records, nil
}

func (collection *Collection[T]) Create(ctx context.Context, record T) error {
	return collection.client.do(ctx, http.MethodPost, collection.path, record, nil)
}

func (collection *Collection[T]) Update(ctx context.Context, record T) error {
	return collection.client.do(ctx, http.MethodPut, collection.path+"/"+record.RecordID(), record, nil)
}

// Delete treats an already-absent remote record as deleted.
func (collection *Collection[T]) Delete(ctx context.Context, id string) error {
	err := collection.client.do(ctx, http.MethodDelete, collection.path+"/"+id, nil, nil)
	if errors.Is(err, ErrNotFound) {
		return nil
	}
	return err
}
