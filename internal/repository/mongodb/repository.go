package mongodb

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/mamadbah2/assetcapture/internal/domain/models"
)

const submissionsCollection = "submissions"

// Repository defines the audit storage of submission attempts.
type Repository interface {
	RecordSubmission(ctx context.Context, record models.SubmissionRecord) error
	ListSubmissionsByCode(ctx context.Context, code string) ([]models.SubmissionRecord, error)
}

// MongoDBRepository implements the Repository interface for MongoDB.
type MongoDBRepository struct {
	client   *mongo.Client
	dbName   string
	collName string
}

// NewMongoDBRepository creates a new MongoDB repository.
func NewMongoDBRepository(ctx context.Context, uri string, dbName string) (*MongoDBRepository, error) {
	clientOptions := options.Client().ApplyURI(uri)
	client, err := mongo.Connect(ctx, clientOptions)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to mongodb: %w", err)
	}

	// Ping the database to verify connection
	if err := client.Ping(ctx, nil); err != nil {
		return nil, fmt.Errorf("failed to ping mongodb: %w", err)
	}

	return &MongoDBRepository{
		client:   client,
		dbName:   dbName,
		collName: submissionsCollection,
	}, nil
}

// RecordSubmission saves one submission attempt.
func (r *MongoDBRepository) RecordSubmission(ctx context.Context, record models.SubmissionRecord) error {
	collection := r.client.Database(r.dbName).Collection(r.collName)
	if _, err := collection.InsertOne(ctx, record); err != nil {
		return fmt.Errorf("failed to insert submission record: %w", err)
	}
	return nil
}

// ListSubmissionsByCode returns every attempt made for a scanned code, oldest first.
func (r *MongoDBRepository) ListSubmissionsByCode(ctx context.Context, code string) ([]models.SubmissionRecord, error) {
	collection := r.client.Database(r.dbName).Collection(r.collName)
	findOptions := options.Find().SetSort(bson.D{{Key: "created_at", Value: 1}})

	cursor, err := collection.Find(ctx, bson.M{"code": code}, findOptions)
	if err != nil {
		return nil, fmt.Errorf("failed to query submissions: %w", err)
	}
	defer cursor.Close(ctx)

	var records []models.SubmissionRecord
	if err := cursor.All(ctx, &records); err != nil {
		return nil, fmt.Errorf("failed to decode submissions: %w", err)
	}
	return records, nil
}

// Close closes the MongoDB connection.
func (r *MongoDBRepository) Close(ctx context.Context) error {
	return r.client.Disconnect(ctx)
}
