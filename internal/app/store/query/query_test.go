package query_test

import (
	"reflect"
	"testing"

	"github.com/opsdeck/crewbot/internal/app/store/query"
	"github.com/opsdeck/crewbot/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
)

func TestAndEmptyScansEverything(t *testing.T) {
	got := query.And(nil)
	if !reflect.DeepEqual(got, bson.M{}) {
		t.Errorf("empty query: got %v, want empty filter", got)
	}
}

func TestAndSinglePredicate(t *testing.T) {
	got := query.And([]query.Predicate{query.Equals("name", "Ada")})
	want := bson.M{"name": bson.M{"$eq": "Ada"}}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("single equality: got %v, want %v", got, want)
	}
}

func TestAndContainment(t *testing.T) {
	got := query.And([]query.Predicate{query.Contains("members", "U1")})
	want := bson.M{"members": bson.M{"$elemMatch": bson.M{"$eq": "U1"}}}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("containment: got %v, want %v", got, want)
	}
}

func TestAndConjunction(t *testing.T) {
	got := query.And([]query.Predicate{
		query.Equals("platform", "slack"),
		query.Contains("members", "U1"),
	})
	want := bson.M{"$and": bson.A{
		bson.M{"platform": bson.M{"$eq": "slack"}},
		bson.M{"members": bson.M{"$elemMatch": bson.M{"$eq": "U1"}}},
	}}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("conjunction: got %v, want %v", got, want)
	}
}

func TestForUsesAllowList(t *testing.T) {
	cases := []struct {
		kind models.EntityKind
		attr string
		want query.Op
	}{
		{models.KindTeam, "members", query.OpContains},
		{models.KindTeam, "display_name", query.OpEquals},
		{models.KindProject, "tags", query.OpContains},
		{models.KindProject, "github_urls", query.OpContains},
		{models.KindProject, "description", query.OpEquals},
		{models.KindUser, "name", query.OpEquals},
		// Unknown attributes fall back to equality instead of failing.
		{models.KindUser, "no_such_attr", query.OpEquals},
	}
	for _, c := range cases {
		p := query.For(c.kind, c.attr, "x")
		if p.Op != c.want {
			t.Errorf("For(%s, %s): got op %v, want %v", c.kind, c.attr, p.Op, c.want)
		}
	}
}
