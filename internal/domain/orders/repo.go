package orders

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"cloud.google.com/go/firestore"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// SnapshotIterator yields the full result of the orders query every time it changes.
type SnapshotIterator interface {
	Next() ([]OrdersDoc, error)
	Stop()
}

// IDIterator yields the sorted document IDs every time the collection changes.
type IDIterator interface {
	Next() ([]string, error)
	Stop()
}

type Repo struct {
	fs         *firestore.Client
	collection string
}

func NewRepo(fs *firestore.Client, collection string) *Repo {
	if collection == "" {
		collection = "taobaoOrders"
	}
	return &Repo{fs: fs, collection: collection}
}

func (r *Repo) Collection() string { return r.collection }

func (r *Repo) col() *firestore.CollectionRef {
	return r.fs.Collection(r.collection)
}

// query selects the whole collection, or only the document owned by userID.
func (r *Repo) query(userID string) firestore.Query {
	if userID == "" {
		return r.col().Query
	}
	return r.col().Where(firestore.DocumentID, "==", r.col().Doc(userID))
}

func (r *Repo) List(ctx context.Context, userID string) ([]OrdersDoc, error) {
	if r.fs == nil {
		return nil, errors.New("firestore client is nil")
	}
	docs, err := r.query(userID).Documents(ctx).GetAll()
	if err != nil {
		return nil, err
	}
	return decodeDocs(docs)
}

func (r *Repo) UserIDs(ctx context.Context) ([]string, error) {
	if r.fs == nil {
		return nil, errors.New("firestore client is nil")
	}
	refs, err := r.col().DocumentRefs(ctx).GetAll()
	if err != nil {
		return nil, err
	}
	ids := make([]string, 0, len(refs))
	for _, ref := range refs {
		ids = append(ids, ref.ID)
	}
	sort.Strings(ids)
	return ids, nil
}

func (r *Repo) WatchOrders(ctx context.Context, userID string) (SnapshotIterator, error) {
	if r.fs == nil {
		return nil, errors.New("firestore client is nil")
	}
	return &orderSnapshots{it: r.query(userID).Snapshots(ctx)}, nil
}

func (r *Repo) WatchUserIDs(ctx context.Context) (IDIterator, error) {
	if r.fs == nil {
		return nil, errors.New("firestore client is nil")
	}
	return &idSnapshots{it: r.col().Snapshots(ctx)}, nil
}

// UpdateOrders rewrites the orders array of userID's document inside a
// transaction. fn receives the stored entries as maps so fields this
// package does not model are written back unchanged. fn may run more than
// once when the transaction is retried.
func (r *Repo) UpdateOrders(ctx context.Context, userID string, fn func([]map[string]any) ([]map[string]any, error)) error {
	if r.fs == nil {
		return errors.New("firestore client is nil")
	}
	ref := r.col().Doc(userID)

	return r.fs.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		snap, err := tx.Get(ref)
		if err != nil {
			if status.Code(err) == codes.NotFound {
				return ErrDocNotFound
			}
			return err
		}

		entries, err := rawOrders(snap.Data()["orders"])
		if err != nil {
			return fmt.Errorf("%s/%s: %w", r.collection, userID, err)
		}

		updated, err := fn(entries)
		if err != nil {
			return err
		}
		return tx.Update(ref, []firestore.Update{{Path: "orders", Value: updated}})
	})
}

func rawOrders(v any) ([]map[string]any, error) {
	if v == nil {
		return []map[string]any{}, nil
	}
	arr, ok := v.([]any)
	if !ok {
		return nil, fmt.Errorf("orders is %T, want array", v)
	}
	out := make([]map[string]any, len(arr))
	for i, e := range arr {
		m, ok := e.(map[string]any)
		if !ok {
			return nil, fmt.Errorf("orders[%d] is %T, want map", i, e)
		}
		out[i] = m
	}
	return out, nil
}

func decodeDocs(docs []*firestore.DocumentSnapshot) ([]OrdersDoc, error) {
	out := make([]OrdersDoc, 0, len(docs))
	for _, doc := range docs {
		var raw struct {
			Orders []Order `firestore:"orders"`
		}
		if err := doc.DataTo(&raw); err != nil {
			return nil, fmt.Errorf("decode %s: %w", doc.Ref.ID, err)
		}
		if raw.Orders == nil {
			raw.Orders = []Order{}
		}
		out = append(out, OrdersDoc{UserID: doc.Ref.ID, Orders: raw.Orders})
	}
	return out, nil
}

type orderSnapshots struct {
	it *firestore.QuerySnapshotIterator
}

func (s *orderSnapshots) Next() ([]OrdersDoc, error) {
	snap, err := s.it.Next()
	if err != nil {
		return nil, err
	}
	docs, err := snap.Documents.GetAll()
	if err != nil {
		return nil, err
	}
	return decodeDocs(docs)
}

func (s *orderSnapshots) Stop() { s.it.Stop() }

type idSnapshots struct {
	it *firestore.QuerySnapshotIterator
}

func (s *idSnapshots) Next() ([]string, error) {
	snap, err := s.it.Next()
	if err != nil {
		return nil, err
	}
	docs, err := snap.Documents.GetAll()
	if err != nil {
		return nil, err
	}
	ids := make([]string, 0, len(docs))
	for _, d := range docs {
		ids = append(ids, d.Ref.ID)
	}
	sort.Strings(ids)
	return ids, nil
}

func (s *idSnapshots) Stop() { s.it.Stop() }
