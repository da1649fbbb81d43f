package firebase

import (
	"context"
	"errors"
	"fmt"
	"time"

	credentials "cloud.google.com/go/iam/credentials/apiv1"
	credentialspb "cloud.google.com/go/iam/credentials/apiv1/credentialspb"
	"cloud.google.com/go/storage"
	"github.com/rs/zerolog/log"

	"taobao-orders/backend/internal/config"
)

// Bucket writes objects to the configured Cloud Storage bucket and signs
// download URLs for them through the IAM credentials API.
type Bucket struct {
	name        string
	signerEmail string
	client      *storage.Client
	iam         *credentials.IamCredentialsClient
}

func NewBucket(ctx context.Context, cfg config.Config) (*Bucket, error) {
	if cfg.StorageBucket == "" {
		return nil, errors.New("FIREBASE_STORAGE_BUCKET is not set")
	}
	opts := ClientOptions()

	st, err := storage.NewClient(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("storage client: %w", err)
	}

	b := &Bucket{name: cfg.StorageBucket, signerEmail: cfg.SignedURLServiceAccountEmail, client: st}

	// IAM client is optional; only needed for signed URLs.
	if b.signerEmail != "" {
		iamClient, err := credentials.NewIamCredentialsClient(ctx, opts...)
		if err != nil {
			log.Warn().Err(err).Msg("iam credentials client unavailable, signed urls disabled")
		} else {
			b.iam = iamClient
		}
	}
	return b, nil
}

func (b *Bucket) Name() string { return b.name }

// Put uploads data as a single object, replacing any previous version.
func (b *Bucket) Put(ctx context.Context, object, contentType string, data []byte) error {
	w := b.client.Bucket(b.name).Object(object).NewWriter(ctx)
	w.ContentType = contentType
	if _, err := w.Write(data); err != nil {
		_ = w.Close()
		return fmt.Errorf("write %s: %w", object, err)
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("close %s: %w", object, err)
	}
	return nil
}

// SignedGetURL returns a V4 signed download URL for object, or "" when no
// signing service account is configured.
func (b *Bucket) SignedGetURL(ctx context.Context, object string, expires time.Time) (string, error) {
	if b.signerEmail == "" || b.iam == nil {
		return "", nil
	}

	opts := &storage.SignedURLOptions{
		Scheme:         storage.SigningSchemeV4,
		Method:         "GET",
		Expires:        expires,
		GoogleAccessID: b.signerEmail,
		SignBytes: func(p []byte) ([]byte, error) {
			resp, err := b.iam.SignBlob(ctx, &credentialspb.SignBlobRequest{
				Name:    fmt.Sprintf("projects/-/serviceAccounts/%s", b.signerEmail),
				Payload: p,
			})
			if err != nil {
				return nil, err
			}
			return resp.SignedBlob, nil
		},
	}

	url, err := storage.SignedURL(b.name, object, opts)
	if err != nil {
		return "", fmt.Errorf("failed to sign url (check service account + permissions): %w", err)
	}
	return url, nil
}

func (b *Bucket) Close() {
	if b == nil {
		return
	}
	if b.iam != nil {
		_ = b.iam.Close()
	}
	if b.client != nil {
		_ = b.client.Close()
	}
}
