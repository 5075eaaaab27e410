package utils

import (
	"context"
	"fmt"
	"log"
	"os"
	"sync"

	firebase "firebase.google.com/go/v4"
	"firebase.google.com/go/v4/messaging"
	"google.golang.org/api/option"
)

var (
	firebaseApp    *firebase.App
	firebaseClient *messaging.Client
	firebaseOnce   sync.Once
	initErr        error
)

// InitFirebase initializes the Firebase Admin SDK and FCM client once.
// Missing credentials disable push notifications instead of failing boot.
func InitFirebase() error {
	firebaseOnce.Do(func() {
		ctx := context.Background()

		credentialsPath := os.Getenv("GOOGLE_APPLICATION_CREDENTIALS")
		if credentialsPath == "" {
			credentialsPath = os.Getenv("FCM_CREDENTIALS_PATH")
		}
		if credentialsPath == "" {
			credentialsPath = "./serviceAccountKey.json"
		}

		projectID := os.Getenv("FCM_PROJECT_ID")

		if _, err := os.Stat(credentialsPath); os.IsNotExist(err) {
			initErr = fmt.Errorf("firebase credentials file not found: %s", credentialsPath)
			return
		}

		opt := option.WithCredentialsFile(credentialsPath)
		app, err := firebase.NewApp(ctx, &firebase.Config{ProjectID: projectID}, opt)
		if err != nil {
			initErr = fmt.Errorf("firebase app initialization failed: %w", err)
			return
		}

		fcmClient, err := app.Messaging(ctx)
		if err != nil {
			firebaseApp = app
			initErr = fmt.Errorf("FCM client initialization failed: %w", err)
			return
		}

		firebaseApp = app
		firebaseClient = fcmClient
		log.Println("✅ Firebase and FCM initialized")
	})

	return initErr
}

// GetFCMClient returns the FCM client, or nil when push is disabled.
func GetFCMClient() *messaging.Client {
	return firebaseClient
}

// IsFCMEnabled checks if FCM is available
func IsFCMEnabled() bool {
	return firebaseClient != nil
}
