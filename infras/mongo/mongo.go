package mongo

import (
	"context"
	"plek/config"
	"time"

	"github.com/rs/zerolog/log"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type Connection struct {
	Client   *mongo.Client
	Database *mongo.Database
}

func New(config *config.Config) *Connection {
	timeout := time.Duration(config.DB.Mongo.ConnectTimeout) * time.Second

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(config.DB.Mongo.URI))
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to MongoDB")
	}

	if err := client.Ping(ctx, nil); err != nil {
		log.Fatal().Err(err).Msg("Failed to ping MongoDB")
	}

	log.Info().Str("database", config.DB.Mongo.Database).Msg("Successfully connected to MongoDB")

	return &Connection{
		Client:   client,
		Database: client.Database(config.DB.Mongo.Database),
	}
}

func (c *Connection) Collection(name string) *mongo.Collection {
	return c.Database.Collection(name)
}
