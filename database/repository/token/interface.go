// File: database/repository/token/interface.go
package tokenRepo

import (
	"context"
	"errors"
	"time"

	"fuelq/database"
	"fuelq/models"

	"go.mongodb.org/mongo-driver/mongo"
)

// ErrNoMatch is returned by conditional (compare-and-swap) updates whose
// precondition did not hold; the caller re-reads to classify the failure.
var ErrNoMatch = errors.New("no token matched the update condition")

// ErrValidTokenExists is returned when an insert loses the race for a
// booking's single valid token: the partial unique index on booking_id over
// valid tokens rejected the document.
var ErrValidTokenExists = errors.New("booking already has a valid token")

type TokenRepository interface {
	Insert(ctx context.Context, token *models.Token) error
	GetByID(ctx context.Context, id string) (*models.Token, error)
	GetByCode(ctx context.Context, code string) (*models.Token, error)
	GetByBookingID(ctx context.Context, bookingID string) (*models.Token, error)
	CodeExists(ctx context.Context, code string) (bool, error)
	// MarkUsed atomically transitions valid→used, guarding the expiry bound in
	// the same statement. Exactly one concurrent caller can succeed.
	MarkUsed(ctx context.Context, code string, now time.Time) (*models.Token, error)
	// MarkExpired atomically transitions valid→expired (lazy expiry).
	MarkExpired(ctx context.Context, code string) error
	// ExpireValidForBooking expires any currently-valid token of a booking
	// (cancellation cascade and reissue-invalidates-prior policy).
	ExpireValidForBooking(ctx context.Context, bookingID string) error
	// ExpireOverdue sweeps tokens whose expiry passed; returns the count.
	ExpireOverdue(ctx context.Context, now time.Time) (int64, error)
	InsertScan(ctx context.Context, scan *models.TokenScan) error
	ListScansByPump(ctx context.Context, pumpID string) ([]models.TokenScan, error)
	// WithTransaction runs fn inside a MongoDB session transaction. The ctx
	// passed to fn carries the session; repo methods invoked with it join the
	// transaction.
	WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error
	EnsureIndexes() error
}

type mongoTokenRepo struct {
	coll     *mongo.Collection
	scanColl *mongo.Collection
}

// NewMongoTokenRepo constructs a new MongoDB TokenRepository.
func NewMongoTokenRepo() TokenRepository {
	return &mongoTokenRepo{
		coll:     database.Collection("tokens"),
		scanColl: database.Collection("token_scans"),
	}
}
