package callrecordsRepo

import (
	"context"
	"errors"

	"grotto/database"
	"grotto/models"

	"go.mongodb.org/mongo-driver/mongo"
)

// ErrRecordNotFound is returned when no call record matches the given ID.
var ErrRecordNotFound = errors.New("call record not found")

type CallRecordRepository interface {
	Create(ctx context.Context, record models.CallRecord) (string, error)
	GetByID(ctx context.Context, id string) (*models.CallRecord, error)
	GetByCaller(ctx context.Context, callerNumber string) ([]models.CallRecord, error)
	DeleteByID(ctx context.Context, id string) error
}

type mongoCallRecordRepo struct {
	coll *mongo.Collection
}

// NewMongoCallRecordRepo returns a new CallRecordRepository instance using MongoDB.
func NewMongoCallRecordRepo() CallRecordRepository {
	db := database.MongoClient.Database("grotto")
	return &mongoCallRecordRepo{
		coll: db.Collection("call_records"),
	}
}
