package indexes_test

import (
	"testing"

	"github.com/opsdeck/crewbot/internal/app/store/indexes"
	"github.com/opsdeck/crewbot/internal/testutil"
	"go.mongodb.org/mongo-driver/bson"
)

func TestEnsureAllIsIdempotent(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx := testutil.TestContext(t)

	if err := indexes.EnsureAll(ctx, db); err != nil {
		t.Fatalf("first ensure: %v", err)
	}
	// Re-running against an already-bootstrapped database is a no-op.
	if err := indexes.EnsureAll(ctx, db); err != nil {
		t.Fatalf("second ensure: %v", err)
	}
}

func TestKeyIndexEnforcesUniqueness(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx := testutil.TestContext(t)

	if err := indexes.EnsureAll(ctx, db); err != nil {
		t.Fatalf("ensure: %v", err)
	}

	users := db.Collection("users")
	if _, err := users.InsertOne(ctx, bson.M{"slack_id": "U1"}); err != nil {
		t.Fatalf("first insert: %v", err)
	}
	if _, err := users.InsertOne(ctx, bson.M{"slack_id": "U1"}); err == nil {
		t.Error("duplicate slack_id insert should be rejected by the unique index")
	}
}
