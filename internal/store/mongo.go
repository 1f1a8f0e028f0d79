package store

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/x/mongo/driver/connstring"

	"github.com/MKhiriev/go-task-keeper/internal/logger"
)

const (
	defaultMongoDatabase = "task_keeper"
	mongoUsersCollection = "users"
	mongoConnectTimeout  = 10 * time.Second
)

// NewConnectMongo connects to MongoDB, pings the primary and makes sure the
// unique email index exists. The database name is taken from the DSN path
// and defaults to "task_keeper".
func NewConnectMongo(ctx context.Context, dsn string, log *logger.Logger) (*MongoStore, error) {
	cs, err := connstring.ParseAndValidate(dsn)
	if err != nil {
		log.Err(err).Str("func", "NewConnectMongo").Msg("invalid mongodb connection string")
		return nil, fmt.Errorf("%w: %w", ErrUnsupportedDSN, err)
	}
	dbName := cs.Database
	if dbName == "" {
		dbName = defaultMongoDatabase
	}

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(dsn).SetConnectTimeout(mongoConnectTimeout))
	if err != nil {
		log.Err(err).Str("func", "NewConnectMongo").Msg("error connecting mongodb")
		return nil, fmt.Errorf("error connecting mongodb: %w", err)
	}

	if err = client.Ping(ctx, nil); err != nil {
		log.Err(err).Str("func", "NewConnectMongo").Msg("error connecting mongodb (ping)")
		_ = client.Disconnect(context.WithoutCancel(ctx))
		return nil, fmt.Errorf("error connecting mongodb: %w", err)
	}

	users := client.Database(dbName).Collection(mongoUsersCollection)
	if err = ensureMongoIndexes(ctx, users); err != nil {
		log.Err(err).Str("func", "NewConnectMongo").Msg("error creating indexes")
		_ = client.Disconnect(context.WithoutCancel(ctx))
		return nil, err
	}
	log.Info().Str("func", "NewConnectMongo").Str("database", dbName).Msg("connected to mongodb successfully")

	return newMongoStore(client, users, log), nil
}

func ensureMongoIndexes(ctx context.Context, users *mongo.Collection) error {
	_, err := users.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "email", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "role", Value: 1}, {Key: "created_at", Value: 1}}},
	})
	if err != nil {
		return fmt.Errorf("%w: %w", ErrDocumentOperation, err)
	}
	return nil
}
