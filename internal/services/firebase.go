// ===============================
// internal/services/firebase.go - Centralized Firebase Service
// ===============================

package services

import (
	"context"
	"fmt"

	"gaddiyalibe/internal/config"
	"gaddiyalibe/internal/models"

	"cloud.google.com/go/firestore"
	firebase "firebase.google.com/go/v4"
	"firebase.google.com/go/v4/auth"
	"google.golang.org/api/option"
)

type FirebaseService struct {
	app        *firebase.App
	authClient *auth.Client
}

// NewFirebaseService creates and initializes a new Firebase service
func NewFirebaseService(ctx context.Context, cfg *config.Config) (*FirebaseService, error) {
	var opts []option.ClientOption
	if cfg.FirebaseCredentials != "" {
		opts = append(opts, option.WithCredentialsFile(cfg.FirebaseCredentials))
	}

	firebaseApp, err := firebase.NewApp(ctx, &firebase.Config{
		ProjectID: cfg.FirebaseProjectID,
	}, opts...)
	if err != nil {
		return nil, fmt.Errorf("initialize firebase app: %w", err)
	}

	authClient, err := firebaseApp.Auth(ctx)
	if err != nil {
		return nil, fmt.Errorf("initialize firebase auth: %w", err)
	}

	return &FirebaseService{
		app:        firebaseApp,
		authClient: authClient,
	}, nil
}

// Firestore opens a Firestore client for the project. The caller owns it.
func (fs *FirebaseService) Firestore(ctx context.Context) (*firestore.Client, error) {
	return fs.app.Firestore(ctx)
}

// VerifyIDToken verifies a Firebase ID token and returns the token claims
func (fs *FirebaseService) VerifyIDToken(ctx context.Context, idToken string) (*auth.Token, error) {
	return fs.authClient.VerifyIDToken(ctx, idToken)
}

// Authenticate verifies the token and returns the caller's identity.
func (fs *FirebaseService) Authenticate(ctx context.Context, idToken string) (*models.Identity, error) {
	token, err := fs.VerifyIDToken(ctx, idToken)
	if err != nil {
		return nil, err
	}
	return IdentityFromToken(token), nil
}

// UpdatePhotoURL points the Firebase profile at a newly uploaded picture.
func (fs *FirebaseService) UpdatePhotoURL(ctx context.Context, uid, photoURL string) error {
	_, err := fs.authClient.UpdateUser(ctx, uid, (&auth.UserToUpdate{}).PhotoURL(photoURL))
	return err
}

// IdentityFromToken reads the standard profile claims of an ID token.
func IdentityFromToken(token *auth.Token) *models.Identity {
	identity := &models.Identity{UID: token.UID}
	if name, ok := token.Claims["name"].(string); ok {
		identity.DisplayName = name
	}
	if email, ok := token.Claims["email"].(string); ok {
		identity.Email = email
	}
	if picture, ok := token.Claims["picture"].(string); ok {
		identity.PhotoURL = picture
	}
	return identity
}
