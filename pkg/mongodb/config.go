package mongodb

import (
	"context"
	"log"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type MongoDbConfigModel struct {
	ConnectionUrl string
	DatabaseName  string
}

type MongoDBClient struct {
	Client *mongo.Client
	Config MongoDbConfigModel
}

func InitializeDatabaseConnection(config MongoDbConfigModel) *MongoDBClient {
	clientOptions := options.Client().
		ApplyURI(config.ConnectionUrl).
		SetServerSelectionTimeout(10 * time.Second).
		SetConnectTimeout(10 * time.Second).
		SetMaxPoolSize(10).
		SetRetryWrites(true)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	mongoClient, err := mongo.Connect(ctx, clientOptions)
	if err != nil {
		log.Fatalf("MongoDB Connection Error: %v", err)
	}

	// Ping the database to verify connection
	err = mongoClient.Ping(ctx, nil)
	if err != nil {
		log.Fatalf("MongoDB Ping Error: %v", err)
	}

	log.Println("✨ Connected to MongoDB.")

	return &MongoDBClient{
		Client: mongoClient,
		Config: config,
	}
}

func (client *MongoDBClient) GetCollectionByName(collectionName string) *mongo.Collection {
	return client.Client.Database(client.Config.DatabaseName).Collection(collectionName)
}

// Ping verifies the connection is still alive, used by health checks.
func (client *MongoDBClient) Ping(ctx context.Context) error {
	return client.Client.Ping(ctx, nil)
}
