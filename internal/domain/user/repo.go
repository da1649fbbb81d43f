package user

import (
	"context"
	"fmt"

	"cloud.google.com/go/firestore"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"taobao-orders/backend/internal/utils"
)

const maxDisplayName = 256

type Repo struct {
	fs         *firestore.Client
	collection string
}

func NewRepo(fs *firestore.Client, collection string) *Repo {
	if collection == "" {
		collection = "users"
	}
	return &Repo{fs: fs, collection: collection}
}

func (r *Repo) col() *firestore.CollectionRef {
	return r.fs.Collection(r.collection)
}

func (r *Repo) Get(ctx context.Context, uid string) (*Profile, error) {
	uid = utils.NormalizeID(uid)
	if uid == "" {
		return nil, fmt.Errorf("%w: uid is required", ErrBadRequest)
	}
	doc, err := r.col().Doc(uid).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, ErrNotFound
		}
		return nil, err
	}
	var p Profile
	if err := doc.DataTo(&p); err != nil {
		return nil, fmt.Errorf("decode user %s: %w", uid, err)
	}
	if p.UID == "" {
		p.UID = uid
	}
	return &p, nil
}

// DisplayName returns the stored display name, or "" when the user has no
// profile document or no name.
func (r *Repo) DisplayName(ctx context.Context, uid string) (string, error) {
	doc, err := r.col().Doc(uid).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return "", nil
		}
		return "", err
	}
	name, _ := doc.Data()["displayName"].(string)
	return name, nil
}

// UpsertOnLogin records a login for u. The first login also creates the
// profile with the default role; later logins only refresh identity fields
// and timestamps. created reports whether the document was new.
func (r *Repo) UpsertOnLogin(ctx context.Context, u LoginUser) (created bool, err error) {
	if utils.NormalizeID(u.UID) == "" {
		return false, fmt.Errorf("%w: uid is required", ErrBadRequest)
	}
	ref := r.col().Doc(u.UID)

	err = r.fs.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		exists := true
		if _, err := tx.Get(ref); err != nil {
			if status.Code(err) != codes.NotFound {
				return err
			}
			exists = false
		}
		created = !exists
		return tx.Set(ref, BuildLoginUpdate(u, exists), firestore.MergeAll)
	})
	if err != nil {
		return false, fmt.Errorf("upsert user %s: %w", u.UID, err)
	}
	return created, nil
}

// BuildLoginUpdate is the merge payload written on every login.
func BuildLoginUpdate(u LoginUser, exists bool) map[string]any {
	var displayName *string
	if u.DisplayName != nil {
		n := utils.TrimMax(utils.NormalizeDisplayName(*u.DisplayName), maxDisplayName)
		displayName = &n
	}

	update := map[string]any{
		"uid":         u.UID,
		"email":       nullable(u.Email),
		"displayName": nullable(displayName),
		"photoURL":    nullable(u.PhotoURL),
		"lastLoginAt": firestore.ServerTimestamp,
		"updatedAt":   firestore.ServerTimestamp,
	}
	if !exists {
		update["createdAt"] = firestore.ServerTimestamp
		update["role"] = DefaultRole
		update["isActive"] = true
	}
	return update
}

func nullable(s *string) any {
	if s == nil {
		return nil
	}
	return *s
}
