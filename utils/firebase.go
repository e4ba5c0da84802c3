package utils

import (
	"context"
	"log"

	firebase "firebase.google.com/go/v4"
	"firebase.google.com/go/v4/messaging"
)

// FCMClient is the global Firebase Cloud Messaging client.
var FCMClient *messaging.Client

// FirebaseInit initializes the Firebase app and messaging client using
// application default credentials (GOOGLE_APPLICATION_CREDENTIALS).
func FirebaseInit() {
	ctx := context.Background()
	app, err := firebase.NewApp(ctx, nil)
	if err != nil {
		log.Printf("WARNING: failed to initialize firebase app, push notifications disabled: %v", err)
		return
	}
	client, err := app.Messaging(ctx)
	if err != nil {
		log.Printf("WARNING: failed to initialize FCM client, push notifications disabled: %v", err)
		return
	}
	FCMClient = client
}
