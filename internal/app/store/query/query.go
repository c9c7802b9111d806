// internal/app/store/query/query.go
//
// Package query builds conjunctive filters over stored entities. A query
// is a list of Predicates combined by logical AND; each predicate is
// either whole-field equality or set containment. There is no OR, no
// negation, and no pagination; the stores are a best-effort filter
// substrate, not a query planner, and result ordering is unspecified.
package query

import (
	"github.com/opsdeck/crewbot/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
)

// Op tags the meaning of a predicate.
type Op int

const (
	// OpEquals matches records whose attribute equals the value.
	OpEquals Op = iota
	// OpContains matches records whose set-valued attribute contains the
	// value.
	OpContains
)

// Predicate is one (attribute, value) filter term.
type Predicate struct {
	Attr  string
	Value string
	Op    Op
}

// Equals builds a whole-field equality predicate.
func Equals(attr, value string) Predicate {
	return Predicate{Attr: attr, Value: value, Op: OpEquals}
}

// Contains builds a set-containment predicate.
func Contains(attr, value string) Predicate {
	return Predicate{Attr: attr, Value: value, Op: OpContains}
}

// For builds the predicate appropriate for attr on the given entity kind:
// containment when attr is on the set-valued allow-list, equality
// otherwise. Attributes unknown to the allow-list deliberately fall back
// to equality rather than failing.
func For(kind models.EntityKind, attr, value string) Predicate {
	if models.IsSetAttr(kind, attr) {
		return Contains(attr, value)
	}
	return Equals(attr, value)
}

func (p Predicate) filter() bson.M {
	switch p.Op {
	case OpContains:
		return bson.M{p.Attr: bson.M{"$elemMatch": bson.M{"$eq": p.Value}}}
	default:
		return bson.M{p.Attr: bson.M{"$eq": p.Value}}
	}
}

// And combines predicates into a single filter document. An empty list
// yields the empty filter, which scans the whole collection.
func And(preds []Predicate) bson.M {
	switch len(preds) {
	case 0:
		return bson.M{}
	case 1:
		return preds[0].filter()
	}
	clauses := make(bson.A, 0, len(preds))
	for _, p := range preds {
		clauses = append(clauses, p.filter())
	}
	return bson.M{"$and": clauses}
}
