package db

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	databaseName     = "winterfell"
	UsersCollection  = "users"
	EventsCollection = "events"
)

// Connect opens and pings the Mongo deployment.
func Connect(uri string) (*mongo.Client, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, err
	}
	if err := client.Ping(ctx, nil); err != nil {
		return nil, err
	}
	return client, nil
}

// Collections returns the two document collections the application uses.
// There is no referential integrity between them; organizer and participant
// ids are weak references.
func Collections(client *mongo.Client) (users, events *mongo.Collection) {
	database := client.Database(databaseName)
	return database.Collection(UsersCollection), database.Collection(EventsCollection)
}

// EnsureIndexes creates the unique index on users.email. This is the
// store-level guarantee that two concurrent registrations with the same
// email cannot both land.
func EnsureIndexes(ctx context.Context, users *mongo.Collection) error {
	_, err := users.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "email", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	return err
}
