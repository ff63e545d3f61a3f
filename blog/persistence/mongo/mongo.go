package mongo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

const connectTimeout = 10 * time.Second

// Connect opens a client against the given URI and verifies it with a ping.
// The returned close function releases the client.
func Connect(ctx context.Context, uri string, database string) (*mongo.Database, func(context.Context) error, error) {
	ctx, cancel := context.WithTimeout(ctx, connectTimeout)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, nil, fmt.Errorf("failed to connect to mongodb: %w", err)
	}

	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, nil, fmt.Errorf("failed to ping mongodb: %w", err)
	}

	return client.Database(database), client.Disconnect, nil
}

// optionsFindByCreation sorts a Find by creation time ascending, matching the
// insertion order the other stores return.
func optionsFindByCreation() *options.FindOptions {
	return options.Find().SetSort(bson.D{{Key: "published_at", Value: 1}})
}
