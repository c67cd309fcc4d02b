package firebase

import (
	"context"
	"errors"
	"fmt"
	"os"

	firebase "firebase.google.com/go/v4"
	"firebase.google.com/go/v4/auth"
	"github.com/anonto42/engagement/backend/internal/logs"
	"google.golang.org/api/option"
)

// ErrNoCredentials is returned when no service account file is configured.
var ErrNoCredentials = errors.New("firebase: no credentials file configured")

// Options selects the service account used to verify ID tokens. ProjectID is
// optional and overrides the project named in the credentials file.
type Options struct {
	CredentialsPath string
	ProjectID       string
}

// NewAuthClient returns a Firebase auth client. It satisfies
// middleware.TokenVerifier.
func NewAuthClient(ctx context.Context, opts Options) (*auth.Client, error) {
	appConfig, clientOpts, err := appSettings(opts)
	if err != nil {
		return nil, err
	}

	app, err := firebase.NewApp(ctx, appConfig, clientOpts...)
	if err != nil {
		return nil, fmt.Errorf("firebase: create app: %w", err)
	}
	client, err := app.Auth(ctx)
	if err != nil {
		return nil, fmt.Errorf("firebase: create auth client: %w", err)
	}

	logs.LogJSON("INFO", "firebase auth client ready", map[string]interface{}{
		"project_id": opts.ProjectID,
	})
	return client, nil
}

// appSettings checks the credentials file and builds the app config. A nil
// config lets the SDK take the project from the credentials.
func appSettings(opts Options) (*firebase.Config, []option.ClientOption, error) {
	if opts.CredentialsPath == "" {
		return nil, nil, ErrNoCredentials
	}
	info, err := os.Stat(opts.CredentialsPath)
	if err != nil {
		return nil, nil, fmt.Errorf("firebase: credentials file: %w", err)
	}
	if info.IsDir() {
		return nil, nil, fmt.Errorf("firebase: credentials path %s is a directory", opts.CredentialsPath)
	}

	var appConfig *firebase.Config
	if opts.ProjectID != "" {
		appConfig = &firebase.Config{ProjectID: opts.ProjectID}
	}
	return appConfig, []option.ClientOption{option.WithCredentialsFile(opts.CredentialsPath)}, nil
}
