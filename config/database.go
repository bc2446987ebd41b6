package config

import (
	"etudia/utils"
	"time"

	"go.mongodb.org/mongo-driver/mongo/options"
)

type DatabaseConfig struct {
	URI             string        `yaml:"uri"`
	MaxPoolSize     uint64        `yaml:"max_pool_size"`
	MinPoolSize     uint64        `yaml:"min_pool_size"`
	MaxConnIdleTime time.Duration `yaml:"max_conn_idle_time"`
	DatabaseName    string        `yaml:"database"`
	RetryWrites     bool          `yaml:"retry_writes"`
	NotesCollection string        `yaml:"notes_collection"`
	UsersCollection string        `yaml:"users_collection"`
}

// DocumentsConfig names the collection the RAG gateway reads note text from.
// It usually points at the notes collection but may live in another database.
type DocumentsConfig struct {
	DatabaseName string `yaml:"database"`
	Collection   string `yaml:"collection"`
}

func defaultDatabaseConfig() DatabaseConfig {
	return DatabaseConfig{
		URI:             "mongodb://localhost:27017",
		MaxPoolSize:     100,
		MinPoolSize:     10,
		MaxConnIdleTime: 60 * time.Second,
		DatabaseName:    "etudia",
		RetryWrites:     true,
		NotesCollection: "coursenotes",
		UsersCollection: "users",
	}
}

// applyDatabaseEnv overrides database settings from the environment.
func applyDatabaseEnv(db *DatabaseConfig) {
	db.URI = utils.GetEnvAsString("MONGO_URI", db.URI)
	db.MaxPoolSize = utils.GetEnvAsUint64("MONGO_MAX_POOL_SIZE", db.MaxPoolSize)
	db.MinPoolSize = utils.GetEnvAsUint64("MONGO_MIN_POOL_SIZE", db.MinPoolSize)
	if secs := utils.GetEnvAsInt("MONGO_MAX_CONN_IDLE_TIME", -1); secs >= 0 {
		db.MaxConnIdleTime = time.Duration(secs) * time.Second
	}
	db.DatabaseName = utils.GetEnvAsString("MONGO_DB", db.DatabaseName)
	db.RetryWrites = utils.GetEnvAsBool("MONGO_RETRY_WRITES", db.RetryWrites)
	db.NotesCollection = utils.GetEnvAsString("NOTES_COLLECTION", db.NotesCollection)
	db.UsersCollection = utils.GetEnvAsString("USERS_COLLECTION", db.UsersCollection)
}

func applyDocumentsEnv(docs *DocumentsConfig) {
	docs.DatabaseName = utils.GetEnvAsString("MONGO_DOCUMENTS_DBNAME", docs.DatabaseName)
	docs.Collection = utils.GetEnvAsString("MONGO_DOCUMENTS_COLLECTION", docs.Collection)
}

// ClientOptions builds driver options from the pool settings.
func (db DatabaseConfig) ClientOptions() *options.ClientOptions {
	return options.Client().
		ApplyURI(db.URI).
		SetMaxPoolSize(db.MaxPoolSize).
		SetMinPoolSize(db.MinPoolSize).
		SetMaxConnIdleTime(db.MaxConnIdleTime).
		SetRetryWrites(db.RetryWrites)
}
