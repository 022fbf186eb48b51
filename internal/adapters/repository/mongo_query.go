package repository

import (
	"regexp"
	"strings"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/okian/resumerank/internal/domain/scoring"
)

// newestFirst orders by upload time, later inserts first on ties.
var newestFirst = bson.D{{Key: "uploaded_at", Value: -1}, {Key: "_id", Value: -1}}

// matchFilter translates q into a find filter with the same semantics as
// Query.Matches.
func matchFilter(q Query) bson.D {
	filter := bson.D{}
	if q.Owner != "" {
		filter = append(filter, bson.E{Key: "uploaded_by", Value: q.Owner})
	}

	if !q.From.IsZero() || !q.To.IsZero() {
		window := bson.D{}
		if !q.From.IsZero() {
			window = append(window, bson.E{Key: "$gte", Value: q.From})
		}
		if !q.To.IsZero() {
			window = append(window, bson.E{Key: "$lt", Value: q.To})
		}
		filter = append(filter, bson.E{Key: "uploaded_at", Value: window})
	}

	if rx := patterns(q.Skills, true); len(rx) > 0 {
		filter = append(filter, bson.E{Key: "professional_summary.skills", Value: bson.D{{Key: "$in", Value: rx}}})
	}
	if rx := patterns(q.Locations, false); len(rx) > 0 {
		filter = append(filter, bson.E{Key: "personal_information.location", Value: bson.D{{Key: "$in", Value: rx}}})
	}
	if rx := patterns(q.Degrees, false); len(rx) > 0 {
		filter = append(filter, bson.E{Key: "education.degree", Value: bson.D{{Key: "$in", Value: rx}}})
	}

	var exprs bson.A
	if len(q.Levels) > 0 {
		counts := bson.A{}
		for _, l := range q.Levels {
			for _, c := range l.Counts() {
				counts = append(counts, c)
			}
		}
		exprs = append(exprs, bson.D{{Key: "$in", Value: bson.A{size("experience"), counts}}})
	}
	if q.Score != nil {
		exprs = append(exprs,
			bson.D{{Key: "$gte", Value: bson.A{scoreExpr(), q.Score.Min}}},
			bson.D{{Key: "$lte", Value: bson.A{scoreExpr(), q.Score.Max}}},
		)
	}
	if len(exprs) > 0 {
		filter = append(filter, bson.E{Key: "$expr", Value: bson.D{{Key: "$and", Value: exprs}}})
	}
	return filter
}

// patterns builds case-insensitive regexes; exact anchors the whole value.
func patterns(values []string, exact bool) bson.A {
	out := bson.A{}
	for _, v := range values {
		v = strings.TrimSpace(v)
		if v == "" {
			continue
		}
		p := regexp.QuoteMeta(v)
		if exact {
			p = "^" + p + "$"
		}
		out = append(out, primitive.Regex{Pattern: p, Options: "i"})
	}
	return out
}

func size(field string) bson.D {
	return bson.D{{Key: "$size", Value: bson.D{{Key: "$ifNull", Value: bson.A{"$" + field, bson.A{}}}}}}
}

// scoreExpr is scoring.Suitability as an aggregation expression.
func scoreExpr() bson.D {
	term := func(field string, weight int) bson.D {
		return bson.D{{Key: "$multiply", Value: bson.A{size(field), weight}}}
	}
	return bson.D{{Key: "$min", Value: bson.A{
		scoring.MaxScore,
		bson.D{{Key: "$add", Value: bson.A{
			term("professional_summary.skills", scoring.SkillWeight),
			term("experience", scoring.ExperienceWeight),
			term("education", scoring.EducationWeight),
		}}},
	}}}
}

// scoredPipeline matches, scores and orders records, best first.
func scoredPipeline(filter bson.D, limit int) bson.A {
	pipeline := bson.A{
		bson.D{{Key: "$match", Value: filter}},
		bson.D{{Key: "$addFields", Value: bson.D{{Key: "calculated_score", Value: scoreExpr()}}}},
		bson.D{{Key: "$sort", Value: bson.D{
			{Key: "calculated_score", Value: -1},
			{Key: "uploaded_at", Value: -1},
			{Key: "_id", Value: -1},
		}}},
	}
	if limit > 0 {
		pipeline = append(pipeline, bson.D{{Key: "$limit", Value: limit}})
	}
	return pipeline
}
