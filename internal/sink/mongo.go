package sink

import (
	"context"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
	"go.mongodb.org/mongo-driver/v2/x/mongo/driver/connstring"
)

// MongoSink archives confirmations in a collection, one document per
// confirmed block.
type MongoSink struct {
	db   *mongo.Database
	coll string
}

func NewMongoSink(connString, collection string) (*MongoSink, error) {
	client, err := mongo.Connect(options.Client().ApplyURI(connString))
	if err != nil {
		return nil, err
	}

	dbName := "nanows"
	if cs, err := connstring.ParseAndValidate(connString); err == nil && cs.Database != "" {
		dbName = cs.Database
	}

	return &MongoSink{
		db:   client.Database(dbName),
		coll: collection,
	}, nil
}

func (s *MongoSink) Store(ctx context.Context, e *Event) error {
	_, err := s.db.Collection(s.coll).InsertOne(ctx, bson.M{
		"hash":    e.Hash,
		"account": e.Account,
		"amount":  e.Amount,
		"time":    e.Time,
		"frame":   string(e.Raw),
	})
	return err
}

func (s *MongoSink) Close() error {
	return s.db.Client().Disconnect(context.Background())
}
