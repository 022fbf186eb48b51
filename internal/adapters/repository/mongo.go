package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"github.com/okian/resumerank/internal/domain/model"
)

// MongoStore implements Store on MongoDB.
type MongoStore struct {
	client  *mongo.Client
	resumes *mongo.Collection
	users   *mongo.Collection
}

// NewMongoStore connects to uri, pings the primary and ensures indexes.
func NewMongoStore(ctx context.Context, uri string, opts ...MongoOption) (*MongoStore, error) {
	s := mongoSettings{
		database:          "resume_parser",
		resumesCollection: "resumes",
		usersCollection:   "users",
		timeout:           10 * time.Second,
	}
	for _, opt := range opts {
		opt(&s)
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("connect mongo: %w", err)
	}
	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("ping mongo: %w", err)
	}

	db := client.Database(s.database)
	store := &MongoStore{
		client:  client,
		resumes: db.Collection(s.resumesCollection),
		users:   db.Collection(s.usersCollection),
	}
	if err := store.ensureIndexes(ctx); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, err
	}
	return store, nil
}

func (s *MongoStore) ensureIndexes(ctx context.Context) error {
	_, err := s.users.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "email", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		return fmt.Errorf("create users index: %w", err)
	}
	_, err = s.resumes.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "uploaded_by", Value: 1}, {Key: "uploaded_at", Value: -1}},
	})
	if err != nil {
		return fmt.Errorf("create resumes index: %w", err)
	}
	return nil
}

func (s *MongoStore) InsertResume(ctx context.Context, r model.Resume) (id string, err error) {
	defer observe("insert_resume", time.Now(), &err)

	r.ID = ""
	res, err := s.resumes.InsertOne(ctx, r)
	if err != nil {
		return "", fmt.Errorf("insert resume: %w", err)
	}
	oid, ok := res.InsertedID.(primitive.ObjectID)
	if !ok {
		return "", fmt.Errorf("insert resume: unexpected id type %T", res.InsertedID)
	}
	return oid.Hex(), nil
}

func (s *MongoStore) FindResume(ctx context.Context, id, owner string) (r model.Resume, err error) {
	defer observe("find_resume", time.Now(), &err)

	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return model.Resume{}, fmt.Errorf("%w: %q", ErrInvalidID, id)
	}
	err = s.resumes.FindOne(ctx, bson.D{{Key: "_id", Value: oid}, {Key: "uploaded_by", Value: owner}}).Decode(&r)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return model.Resume{}, ErrNotFound
	}
	if err != nil {
		return model.Resume{}, fmt.Errorf("find resume: %w", err)
	}
	return r, nil
}

func (s *MongoStore) FindResumes(ctx context.Context, q Query) (out []model.Resume, err error) {
	ctx, done := traced(ctx, "mongodb", "find_resumes")
	defer done(&err)

	cur, err := s.resumes.Find(ctx, matchFilter(q), options.Find().SetSort(newestFirst))
	if err != nil {
		return nil, fmt.Errorf("find resumes: %w", err)
	}
	out = []model.Resume{}
	if err := cur.All(ctx, &out); err != nil {
		return nil, fmt.Errorf("decode resumes: %w", err)
	}
	return out, nil
}

func (s *MongoStore) ScoredResumes(ctx context.Context, q Query, limit int) (out []ScoredResume, total int, err error) {
	ctx, done := traced(ctx, "mongodb", "scored_resumes")
	defer done(&err)

	filter := matchFilter(q)
	n, err := s.resumes.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("count resumes: %w", err)
	}
	cur, err := s.resumes.Aggregate(ctx, scoredPipeline(filter, limit))
	if err != nil {
		return nil, 0, fmt.Errorf("aggregate resumes: %w", err)
	}
	out = []ScoredResume{}
	if err := cur.All(ctx, &out); err != nil {
		return nil, 0, fmt.Errorf("decode scored resumes: %w", err)
	}
	return out, int(n), nil
}

func (s *MongoStore) CountResumes(ctx context.Context, q Query) (n int, err error) {
	ctx, done := traced(ctx, "mongodb", "count_resumes")
	defer done(&err)

	c, err := s.resumes.CountDocuments(ctx, matchFilter(q))
	if err != nil {
		return 0, fmt.Errorf("count resumes: %w", err)
	}
	return int(c), nil
}

func (s *MongoStore) DistinctUploaders(ctx context.Context, since time.Time) (n int, err error) {
	ctx, done := traced(ctx, "mongodb", "distinct_uploaders")
	defer done(&err)

	values, err := s.resumes.Distinct(ctx, "uploaded_by", bson.D{{Key: "uploaded_at", Value: bson.D{{Key: "$gte", Value: since}}}})
	if err != nil {
		return 0, fmt.Errorf("distinct uploaders: %w", err)
	}
	for _, v := range values {
		if email, ok := v.(string); ok && email != "" {
			n++
		}
	}
	return n, nil
}

func (s *MongoStore) AttachCertificate(ctx context.Context, owner, title string, cert model.Certificate) (id string, err error) {
	defer observe("attach_certificate", time.Now(), &err)

	var newest struct {
		ID primitive.ObjectID `bson:"_id"`
	}
	err = s.resumes.FindOne(ctx,
		bson.D{{Key: "uploaded_by", Value: owner}, {Key: "projects.project_title", Value: title}},
		options.FindOne().SetSort(newestFirst).SetProjection(bson.D{{Key: "_id", Value: 1}}),
	).Decode(&newest)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return "", ErrProjectNotFound
	}
	if err != nil {
		return "", fmt.Errorf("find project: %w", err)
	}

	res, err := s.resumes.UpdateOne(ctx,
		bson.D{{Key: "_id", Value: newest.ID}, {Key: "projects.project_title", Value: title}},
		bson.D{{Key: "$set", Value: bson.D{{Key: "projects.$.certificate", Value: cert}}}},
	)
	if err != nil {
		return "", fmt.Errorf("attach certificate: %w", err)
	}
	switch {
	case res.MatchedCount == 0:
		return "", ErrProjectNotFound
	case res.ModifiedCount == 0:
		return "", ErrNotModified
	}
	return newest.ID.Hex(), nil
}

func (s *MongoStore) CreateUser(ctx context.Context, u model.User) (err error) {
	defer observe("create_user", time.Now(), &err)

	if _, err := s.users.InsertOne(ctx, u); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return ErrDuplicateEmail
		}
		return fmt.Errorf("insert user: %w", err)
	}
	return nil
}

func (s *MongoStore) FindUser(ctx context.Context, email string) (u model.User, err error) {
	defer observe("find_user", time.Now(), &err)

	err = s.users.FindOne(ctx, bson.D{{Key: "email", Value: email}}).Decode(&u)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return model.User{}, ErrNotFound
	}
	if err != nil {
		return model.User{}, fmt.Errorf("find user: %w", err)
	}
	return u, nil
}

// Ping checks the primary is reachable.
func (s *MongoStore) Ping(ctx context.Context) error {
	return s.client.Ping(ctx, readpref.Primary())
}

// Close disconnects the client.
func (s *MongoStore) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}
