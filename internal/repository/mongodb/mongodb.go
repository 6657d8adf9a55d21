package mongodb

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"placement/internal/common"
)

const (
	studentsCollection     = "students"
	recruitersCollection   = "recruiters"
	jobsCollection         = "jobs"
	applicationsCollection = "applications"
)

type Config struct {
	URI            string
	Database       string
	ConnectTimeout time.Duration
}

// Connect opens a client and waits until the deployment answers a ping.
func Connect(ctx context.Context, cfg Config) (*mongo.Client, error) {
	timeout := cfg.ConnectTimeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.URI).SetServerSelectionTimeout(timeout))
	if err != nil {
		return nil, common.NewError(common.CodeUnavailable, "failed to connect to mongodb", err)
	}
	pingCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	if err := client.Ping(pingCtx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, common.NewError(common.CodeUnavailable, "failed to ping mongodb", err)
	}
	return client, nil
}

// Store groups the document repositories over one database handle.
type Store struct {
	Students     *StudentRepository
	Recruiters   *RecruiterRepository
	Jobs         *JobRepository
	Applications *ApplicationRepository
	db           *mongo.Database
}

func NewStore(db *mongo.Database) *Store {
	return &Store{
		Students:     &StudentRepository{coll: db.Collection(studentsCollection)},
		Recruiters:   &RecruiterRepository{coll: db.Collection(recruitersCollection)},
		Jobs:         &JobRepository{coll: db.Collection(jobsCollection)},
		Applications: &ApplicationRepository{coll: db.Collection(applicationsCollection)},
		db:           db,
	}
}

// EnsureIndexes declares the unique keys: one email per profile and one
// application per (studentId, jobId).
func (s *Store) EnsureIndexes(ctx context.Context) error {
	specs := map[string][]mongo.IndexModel{
		studentsCollection: {
			{Keys: bson.D{{Key: "email", Value: 1}}, Options: emailIndexOptions()},
		},
		recruitersCollection: {
			{Keys: bson.D{{Key: "email", Value: 1}}, Options: emailIndexOptions()},
		},
		jobsCollection: {
			{Keys: bson.D{{Key: "postedBy", Value: 1}, {Key: "createdAt", Value: -1}}, Options: options.Index().SetName("posted_by_created_at")},
		},
		applicationsCollection: {
			{Keys: bson.D{{Key: "studentId", Value: 1}, {Key: "jobId", Value: 1}}, Options: options.Index().SetUnique(true).SetName("student_job_unique")},
			{Keys: bson.D{{Key: "jobId", Value: 1}, {Key: "appliedAt", Value: -1}}, Options: options.Index().SetName("job_applied_at")},
		},
	}
	for name, models := range specs {
		if _, err := s.db.Collection(name).Indexes().CreateMany(ctx, models); err != nil {
			return mapError(err, "failed to create indexes on "+name)
		}
	}
	return nil
}

// emailIndexOptions makes email uniqueness case-insensitive, matching GetByEmail.
func emailIndexOptions() *options.IndexOptions {
	return options.Index().
		SetUnique(true).
		SetName("email_unique_ci").
		SetCollation(&options.Collation{Locale: "en", Strength: 2})
}

func mapError(err error, message string) error {
	switch {
	case err == nil:
		return nil
	case mongo.IsDuplicateKeyError(err):
		return common.NewError(common.CodeConflict, message, err)
	case mongo.IsNetworkError(err), mongo.IsTimeout(err), errors.Is(err, context.DeadlineExceeded), errors.Is(err, mongo.ErrClientDisconnected):
		return common.NewError(common.CodeUnavailable, "mongodb unavailable", err)
	default:
		return common.NewError(common.CodeInternal, message, err)
	}
}

// mapWriteError is mapError for inserts and updates guarded by a unique index,
// where a duplicate key has its own message.
func mapWriteError(err error, conflict, message string) error {
	if mongo.IsDuplicateKeyError(err) {
		return common.NewError(common.CodeConflict, conflict, err)
	}
	return mapError(err, message)
}

// objectID converts a domain identifier. A value that is not a valid ObjectID
// cannot name any stored document, so it reads as not found.
func objectID(id common.ID, entity string) (primitive.ObjectID, error) {
	oid, err := primitive.ObjectIDFromHex(string(id))
	if err != nil {
		return primitive.NilObjectID, common.NewError(common.CodeNotFound, entity+" not found", err)
	}
	return oid, nil
}

// newObjectID honours a caller-supplied identifier, such as a profile keyed by
// the authenticated principal, and generates one otherwise.
func newObjectID(id common.ID) (primitive.ObjectID, error) {
	if id.IsZero() {
		return primitive.NewObjectID(), nil
	}
	oid, err := primitive.ObjectIDFromHex(string(id))
	if err != nil {
		return primitive.NilObjectID, common.NewValidationError("invalid id", map[string]string{"id": "must be a 24 character hex object id"})
	}
	return oid, nil
}

func toID(oid primitive.ObjectID) common.ID {
	return common.ID(oid.Hex())
}

func toIDs(oids []primitive.ObjectID) []common.ID {
	ids := make([]common.ID, 0, len(oids))
	for _, oid := range oids {
		ids = append(ids, toID(oid))
	}
	return ids
}

func fromIDs(ids []common.ID) []primitive.ObjectID {
	oids := make([]primitive.ObjectID, 0, len(ids))
	for _, id := range ids {
		if oid, err := primitive.ObjectIDFromHex(string(id)); err == nil {
			oids = append(oids, oid)
		}
	}
	return oids
}

func nonNil(values []string) []string {
	if values == nil {
		return []string{}
	}
	return values
}
