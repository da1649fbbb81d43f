package firebase

import (
	"context"
	"os"

	firebase "firebase.google.com/go/v4"
	"firebase.google.com/go/v4/auth"
	"google.golang.org/api/option"

	"taobao-orders/backend/internal/config"
)

// ClientOptions picks credentials for every Google client.
// FIREBASE_SERVICE_ACCOUNT_JSON (raw json) wins over GOOGLE_APPLICATION_CREDENTIALS
// (file path). With neither set, Application Default Credentials are used.
func ClientOptions() []option.ClientOption {
	if json := os.Getenv("FIREBASE_SERVICE_ACCOUNT_JSON"); json != "" {
		return []option.ClientOption{option.WithCredentialsJSON([]byte(json))}
	}
	if cred := os.Getenv("GOOGLE_APPLICATION_CREDENTIALS"); cred != "" {
		return []option.ClientOption{option.WithCredentialsFile(cred)}
	}
	return nil
}

func NewApp(ctx context.Context, cfg config.Config) (*firebase.App, error) {
	appCfg := &firebase.Config{
		ProjectID:     cfg.ProjectID,
		StorageBucket: cfg.StorageBucket,
	}
	return firebase.NewApp(ctx, appCfg, ClientOptions()...)
}

func NewAuthClient(ctx context.Context, app *firebase.App) (*auth.Client, error) {
	return app.Auth(ctx)
}
