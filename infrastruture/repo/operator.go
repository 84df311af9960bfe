package repo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/beka-birhanu/vinom-navigator/identity"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

var (
	ErrOperatorNotFound = errors.New("operator not found")
	ErrNameConflict     = errors.New("operator name conflict")
)

// OperatorRepo handles the persistence of operators.
type OperatorRepo struct {
	collection *mongo.Collection
}

// NewOperatorRepo creates a new OperatorRepo with the given MongoDB client, database name, and collection name.
// Operator names are kept unique by an index created here.
func NewOperatorRepo(ctx context.Context, client *mongo.Client, dbName, collectionName string) (*OperatorRepo, error) {
	collection := client.Database(dbName).Collection(collectionName)
	_, err := collection.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "name", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		return nil, fmt.Errorf("creating operator name index: %w", err)
	}
	return &OperatorRepo{
		collection: collection,
	}, nil
}

// Save inserts or updates an operator in the repository.
func (r *OperatorRepo) Save(operator *identity.Operator) error {
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	filter := bson.M{"_id": operator.ID}
	update := bson.M{
		"$set": bson.M{
			"name":       operator.Name,
			"secretHash": operator.SecretHash,
			"updatedAt":  time.Now(),
		},
	}

	opts := options.Update().SetUpsert(true)
	_, err := r.collection.UpdateOne(ctx, filter, update, opts)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return ErrNameConflict
		}
		return fmt.Errorf("saving operator: %w", err)
	}

	return nil
}

// ByName retrieves an operator by name.
func (r *OperatorRepo) ByName(name string) (*identity.Operator, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	var operator identity.Operator
	if err := r.collection.FindOne(ctx, bson.M{"name": name}).Decode(&operator); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrOperatorNotFound
		}
		return nil, fmt.Errorf("finding operator: %w", err)
	}
	return &operator, nil
}
