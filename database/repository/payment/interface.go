// File: database/repository/payment/interface.go
package paymentRepo

import (
	"context"

	"fuelq/database"
	"fuelq/models"

	"go.mongodb.org/mongo-driver/mongo"
)

type PaymentRepository interface {
	Insert(ctx context.Context, payment *models.Payment) error
	GetByID(ctx context.Context, id string) (*models.Payment, error)
	GetByBookingID(ctx context.Context, bookingID string) ([]models.Payment, error)
	SetStatus(ctx context.Context, id, status string) error
	EnsureIndexes() error
}

type mongoPaymentRepo struct {
	coll *mongo.Collection
}

// NewMongoPaymentRepo constructs a new MongoDB PaymentRepository.
func NewMongoPaymentRepo() PaymentRepository {
	return &mongoPaymentRepo{
		coll: database.Collection("payments"),
	}
}
