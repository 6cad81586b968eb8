package audit

//go:generate go run go.uber.org/mock/mockgen -source=./audit.go -destination=./mocks/audit_mock.go -package=mocks

import (
	"context"
	"fmt"
	"time"

	"plek/infras/mongo"
	"plek/infras/otel"
	"plek/shared/constant"
	"plek/shared/timezone"

	"github.com/rs/zerolog/log"
)

const collectionName = "audit_logs"

// Entry is one audit record. Detail carries operation-specific context such
// as the previous status or the validation kind that rejected a request.
type Entry struct {
	Action     string         `bson:"action"`
	EntityType string         `bson:"entity_type"`
	EntityID   string         `bson:"entity_id"`
	ActorID    string         `bson:"actor_id"`
	Detail     map[string]any `bson:"detail,omitempty"`
	At         time.Time      `bson:"at"`
}

type Recorder interface {
	Record(ctx context.Context, entry Entry) error
}

type recorderImpl struct {
	conn *mongo.Connection
	otel otel.Otel
}

func New(conn *mongo.Connection, otel otel.Otel) Recorder {
	return &recorderImpl{
		conn: conn,
		otel: otel,
	}
}

func (r *recorderImpl) Record(ctx context.Context, entry Entry) error {
	ctx, scope := r.otel.NewScope(ctx, constant.OtelExternalScopeName, constant.OtelExternalScopeName+".audit.Record")
	defer scope.End()

	if entry.At.IsZero() {
		entry.At = timezone.Now()
	}

	_, err := r.conn.Collection(collectionName).InsertOne(ctx, entry)
	if err != nil {
		log.Error().Err(err).Str("action", entry.Action).Msg("failed to record audit entry")
		scope.TraceError(err)

		return fmt.Errorf("failed to record audit entry: %w", err)
	}

	return nil
}
