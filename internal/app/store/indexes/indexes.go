// internal/app/store/indexes/indexes.go
package indexes

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/opsdeck/crewbot/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
)

/*
EnsureAll is called at startup. Each collection gets a unique index on its
primary-key attribute; the calls are idempotent, so repeated startups
against an already-bootstrapped store perform no destructive action.
Problems are aggregated so every failure is visible and startup can fail
fast.

Multiple processes bootstrapping simultaneously is safe at the Mongo
layer (CreateOne with an identical spec is a no-op), but bootstrap should
still be treated as a one-time startup step rather than something run per
request.
*/
func EnsureAll(ctx context.Context, db *mongo.Database) error {
	var problems []string

	tables := []struct {
		collection string
		kind       models.EntityKind
	}{
		{"users", models.KindUser},
		{"teams", models.KindTeam},
		{"projects", models.KindProject},
	}

	for _, t := range tables {
		if err := ensureKeyIndex(ctx, db.Collection(t.collection), models.KeyAttr(t.kind)); err != nil {
			problems = append(problems, t.collection+": "+err.Error())
		}
	}

	if len(problems) > 0 {
		return errors.New(strings.Join(problems, "; "))
	}
	return nil
}

func ensureKeyIndex(ctx context.Context, coll *mongo.Collection, keyAttr string) error {
	name := "uniq_" + coll.Name() + "_" + keyAttr
	start := time.Now()

	_, err := coll.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: keyAttr, Value: 1}},
		Options: options.Index().SetUnique(true).SetName(name),
	})
	if err != nil {
		// An index with the same keys under a different name still serves;
		// reuse it rather than failing startup.
		if strings.Contains(err.Error(), "IndexOptionsConflict") {
			zap.L().Info("reusing existing key index",
				zap.String("collection", coll.Name()),
				zap.String("key", keyAttr))
			return nil
		}
		zap.L().Warn("key index ensure failed",
			zap.String("collection", coll.Name()),
			zap.String("key", keyAttr),
			zap.Error(err))
		return err
	}

	zap.L().Info("key index ensured",
		zap.String("collection", coll.Name()),
		zap.String("name", name),
		zap.String("key", keyAttr),
		zap.String("took", time.Since(start).String()))
	return nil
}
