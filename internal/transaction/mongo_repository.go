package transaction

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"github.com/nixfunds/finance-api/internal/database"
)

type mongoTransaction struct {
	ID          string    `bson:"_id"`
	UserID      string    `bson:"user_id"`
	Description string    `bson:"description"`
	Amount      float64   `bson:"amount"`
	Category    string    `bson:"category"`
	Type        string    `bson:"type"`
	Date        time.Time `bson:"date"`
}

// MongoRepository stores transactions as documents keyed by UUID string
type MongoRepository struct {
	coll *mongo.Collection
}

func NewMongoRepository(db *mongo.Database) *MongoRepository {
	return &MongoRepository{coll: db.Collection(database.TransactionsCollection)}
}

func (r *MongoRepository) Create(ctx context.Context, tx *Transaction) error {
	doc := toMongo(tx)
	if _, err := r.coll.InsertOne(ctx, doc); err != nil {
		return fmt.Errorf("failed to create transaction: %w", err)
	}
	return nil
}

func (r *MongoRepository) ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]Transaction, error) {
	cur, err := r.coll.Find(ctx, bson.M{"user_id": ownerID.String()})
	if err != nil {
		return nil, fmt.Errorf("failed to list transactions: %w", err)
	}

	var docs []mongoTransaction
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("failed to decode transactions: %w", err)
	}

	out := make([]Transaction, 0, len(docs))
	for _, d := range docs {
		tx, err := d.toModel()
		if err != nil {
			return nil, err
		}
		out = append(out, *tx)
	}
	return out, nil
}

func (r *MongoRepository) Update(ctx context.Context, ownerID, id uuid.UUID, f Fields) (*Transaction, error) {
	set := bson.M{
		"description": f.Description,
		"amount":      f.Amount,
		"category":    f.Category,
		"type":        string(f.Type),
	}
	if f.Date != nil {
		set["date"] = f.Date.UTC()
	}

	var doc mongoTransaction
	err := r.coll.FindOneAndUpdate(ctx,
		ownedFilter(ownerID, id),
		bson.M{"$set": set},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to update transaction: %w", err)
	}

	return doc.toModel()
}

func (r *MongoRepository) Delete(ctx context.Context, ownerID, id uuid.UUID) error {
	err := r.coll.FindOneAndDelete(ctx, ownedFilter(ownerID, id)).Err()
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return ErrNotFound
		}
		return fmt.Errorf("failed to delete transaction: %w", err)
	}
	return nil
}

func ownedFilter(ownerID, id uuid.UUID) bson.M {
	return bson.M{"_id": id.String(), "user_id": ownerID.String()}
}

func toMongo(tx *Transaction) mongoTransaction {
	return mongoTransaction{
		ID:          tx.ID.String(),
		UserID:      tx.OwnerID.String(),
		Description: tx.Description,
		Amount:      tx.Amount,
		Category:    tx.Category,
		Type:        string(tx.Type),
		Date:        tx.Date.UTC(),
	}
}

func (d mongoTransaction) toModel() (*Transaction, error) {
	id, err := uuid.Parse(d.ID)
	if err != nil {
		return nil, fmt.Errorf("corrupt transaction id %q: %w", d.ID, err)
	}
	owner, err := uuid.Parse(d.UserID)
	if err != nil {
		return nil, fmt.Errorf("corrupt owner id %q: %w", d.UserID, err)
	}
	return &Transaction{
		ID:          id,
		OwnerID:     owner,
		Description: d.Description,
		Amount:      d.Amount,
		Category:    d.Category,
		Type:        Type(d.Type),
		Date:        d.Date,
	}, nil
}
