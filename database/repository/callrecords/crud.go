package callrecordsRepo

import (
	"context"
	"time"

	"grotto/models"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Create inserts a finalized call record and returns its ID.
func (r *mongoCallRecordRepo) Create(ctx context.Context, record models.CallRecord) (string, error) {
	if record.ID == "" {
		record.ID = uuid.New().String()
	}
	record.CreatedAt = time.Now()
	record.UpdatedAt = time.Now()

	_, err := r.coll.InsertOne(ctx, record)
	if err != nil {
		return "", err
	}
	return record.ID, nil
}

// GetByID returns a call record by its ID.
func (r *mongoCallRecordRepo) GetByID(ctx context.Context, id string) (*models.CallRecord, error) {
	var record models.CallRecord
	err := r.coll.FindOne(ctx, bson.M{"id": id}).Decode(&record)
	if err != nil {
		return nil, err
	}
	return &record, nil
}

// GetByCaller fetches all records for a caller number, most recent first.
func (r *mongoCallRecordRepo) GetByCaller(ctx context.Context, callerNumber string) ([]models.CallRecord, error) {
	opts := options.Find().SetSort(bson.M{"startedAt": -1})
	cursor, err := r.coll.Find(ctx, bson.M{"callerNumber": callerNumber}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var records []models.CallRecord
	if err := cursor.All(ctx, &records); err != nil {
		return nil, err
	}
	return records, nil
}

// DeleteByID removes a call record by ID.
func (r *mongoCallRecordRepo) DeleteByID(ctx context.Context, id string) error {
	res, err := r.coll.DeleteOne(ctx, bson.M{"id": id})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return ErrRecordNotFound
	}
	return nil
}
