package database

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

var (
	Client   *mongo.Client
	Database *mongo.Database
	Rdb      *redis.Client
)

// Collection names used across the service.
const (
	InteractionsCollection = "userinteractions"
	ProductsCollection     = "products"
)

func Connect(uri, databaseName string) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return err
	}

	// Ping the database
	if err := client.Ping(ctx, nil); err != nil {
		return err
	}

	Client = client
	Database = client.Database(databaseName)
	return nil
}

func InitRedis(addr string) {
	Rdb = redis.NewClient(&redis.Options{Addr: addr})
}

func GetCollection(collectionName string) *mongo.Collection {
	return Database.Collection(collectionName)
}

func GetDB() *mongo.Database {
	return Database
}

func Disconnect(ctx context.Context) error {
	if Client == nil {
		return nil
	}
	return Client.Disconnect(ctx)
}
