package orders

import (
	"context"
	"encoding/json"
	"fmt"
	"path"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"taobao-orders/backend/internal/authctx"
	"taobao-orders/backend/internal/utils"
)

// ObjectStore is where exports are written; *firebase.Bucket implements it.
// SignedGetURL returns "" without an error when signing is not configured.
type ObjectStore interface {
	Put(ctx context.Context, object, contentType string, data []byte) error
	SignedGetURL(ctx context.Context, object string, expires time.Time) (string, error)
}

type Exporter struct {
	svc     *Service
	objects ObjectStore
	prefix  string
	ttl     time.Duration
}

func NewExporter(svc *Service, objects ObjectStore, collection string, ttl time.Duration) *Exporter {
	if ttl <= 0 {
		ttl = 15 * time.Minute
	}
	return &Exporter{svc: svc, objects: objects, prefix: path.Join("exports", collection), ttl: ttl}
}

type exportFile struct {
	UserID          string    `json:"userId"`
	UserDisplayName string    `json:"userDisplayName"`
	ExportedAt      time.Time `json:"exportedAt"`
	ExportedBy      string    `json:"exportedBy"`
	Orders          []Order   `json:"orders"`
}

type ExportResult struct {
	Object    string    `json:"object"`
	URL       string    `json:"url,omitempty"`
	ExpiresAt time.Time `json:"expiresAt,omitempty"`
	Orders    int       `json:"orders"`
}

// Export writes a JSON copy of userID's orders to object storage and returns
// a signed download link. The link is omitted when signing is unavailable.
func (e *Exporter) Export(ctx context.Context, userID string) (*ExportResult, error) {
	if e == nil || e.objects == nil {
		return nil, ErrExportDisabled
	}
	caller, ok := authctx.UserFrom(ctx)
	if !ok {
		return nil, ErrUnauthorized
	}
	userID = utils.NormalizeID(userID)
	if userID == "" {
		return nil, fmt.Errorf("%w: userId is required", ErrBadRequest)
	}

	docs, err := e.svc.List(ctx, userID)
	if err != nil {
		return nil, err
	}
	if len(docs) == 0 {
		return nil, ErrDocNotFound
	}
	doc := docs[0]

	now := e.svc.opts.Now()
	body, err := json.MarshalIndent(exportFile{
		UserID:          doc.UserID,
		UserDisplayName: doc.UserDisplayName,
		ExportedAt:      now,
		ExportedBy:      caller.UID,
		Orders:          doc.Orders,
	}, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encode export: %w", err)
	}

	object := path.Join(e.prefix, userID, now.Format("20060102T150405Z")+"-"+uuid.NewString()+".json")
	if err := e.objects.Put(ctx, object, "application/json", body); err != nil {
		return nil, fmt.Errorf("store export: %w", err)
	}

	out := &ExportResult{Object: object, Orders: len(doc.Orders)}
	expires := now.Add(e.ttl)
	url, err := e.objects.SignedGetURL(ctx, object, expires)
	if err != nil {
		return nil, fmt.Errorf("sign export url: %w", err)
	}
	if url == "" {
		log.Warn().Str("object", object).Msg("export stored without signed url")
	} else {
		out.URL = url
		out.ExpiresAt = expires
	}

	log.Info().Str("userId", userID).Str("object", object).Str("by", caller.UID).Msg("orders exported")
	return out, nil
}
