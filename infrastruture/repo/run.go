package repo

import (
	"context"
	"errors"
	"fmt"
	"time"

	dmn "github.com/beka-birhanu/vinom-navigator/domain"
	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

var ErrRunNotFound = errors.New("run not found")

// RunRepo stores exploration run summaries.
type RunRepo struct {
	collection *mongo.Collection
	timeout    time.Duration
}

// NewRunRepo creates a RunRepo on the given database and collection.
func NewRunRepo(client *mongo.Client, dbName, collectionName string) *RunRepo {
	return &RunRepo{
		collection: client.Database(dbName).Collection(collectionName),
		timeout:    2 * time.Second,
	}
}

// Save upserts the run keyed by its session ID.
func (r *RunRepo) Save(ctx context.Context, run *dmn.RunRecord) error {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	opts := options.Replace().SetUpsert(true)
	if _, err := r.collection.ReplaceOne(ctx, bson.M{"_id": run.ID}, run, opts); err != nil {
		return fmt.Errorf("saving run %s: %w", run.ID, err)
	}
	return nil
}

// ByID retrieves a run by its session ID.
func (r *RunRepo) ByID(ctx context.Context, id uuid.UUID) (*dmn.RunRecord, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	var run dmn.RunRecord
	if err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&run); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrRunNotFound
		}
		return nil, fmt.Errorf("finding run %s: %w", id, err)
	}
	return &run, nil
}
