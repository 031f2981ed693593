package diag

import (
	"context"
	"net/url"
	"strings"
	"time"

	log "github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const claimCollection = "claim_attempts"

// ClaimAttempt is one bingo call, valid or not, kept for support and
// dispute handling. Rows age out via the TTL index on expires_at.
type ClaimAttempt struct {
	RoomID    int64     `bson:"room_id"`
	RoomCode  string    `bson:"room_code"`
	UserID    int64     `bson:"user_id"`
	CardID    int64     `bson:"card_id"`
	Pattern   string    `bson:"pattern"`
	Valid     bool      `bson:"valid"`
	Reason    string    `bson:"reason,omitempty"`
	DrawCount int       `bson:"draw_count"`
	At        time.Time `bson:"at"`
	ExpiresAt time.Time `bson:"expires_at"`
}

// Recorder writes claim diagnostics to MongoDB. A nil Recorder is a
// no-op so the engine runs without a diagnostics store.
type Recorder struct {
	db        *mongo.Database
	retention time.Duration
}

func Connect(mongoURI string, retention time.Duration) (*Recorder, context.CancelFunc, error) {
	uri, err := url.Parse(mongoURI)
	if err != nil {
		return nil, nil, err
	}
	dbName := strings.TrimPrefix(uri.Path, "/")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(mongoURI))
	if err != nil {
		cancel()
		return nil, nil, err
	}
	if err := client.Ping(ctx, nil); err != nil {
		cancel()
		return nil, nil, err
	}

	db := client.Database(dbName)
	ensureTTLIndex(db, claimCollection)

	return &Recorder{db: db, retention: retention}, cancel, nil
}

func ensureTTLIndex(db *mongo.Database, collection string) {
	indexModel := mongo.IndexModel{
		Keys:    bson.M{"expires_at": 1},
		Options: options.Index().SetExpireAfterSeconds(0), // expire at the document's own expires_at
	}
	if _, err := db.Collection(collection).Indexes().CreateOne(context.TODO(), indexModel); err != nil {
		log.Errorf("ttl index on %s: %v", collection, err)
	}
}

// RecordClaim is best-effort: a diagnostics failure never blocks the game.
func (r *Recorder) RecordClaim(ctx context.Context, a ClaimAttempt) {
	if r == nil {
		return
	}
	a.At = time.Now().UTC()
	a.ExpiresAt = a.At.Add(r.retention)
	if _, err := r.db.Collection(claimCollection).InsertOne(ctx, a); err != nil {
		log.Errorf("record claim attempt for room %s: %v", a.RoomCode, err)
	}
}
