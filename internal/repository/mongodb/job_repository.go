package mongodb

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"placement/internal/common"
	"placement/internal/domain/job"
)

type JobRepository struct {
	coll *mongo.Collection
}

func (r *JobRepository) Create(ctx context.Context, j job.Job) (*job.Job, error) {
	oid, err := newObjectID(j.ID)
	if err != nil {
		return nil, err
	}
	postedBy, err := primitive.ObjectIDFromHex(string(j.PostedBy))
	if err != nil {
		return nil, common.NewValidationError("invalid job", map[string]string{"posted_by": "must be a 24 character hex object id"})
	}
	now := time.Now().UTC()
	doc := jobDocument{
		ID:               oid,
		Title:            j.Title,
		Description:      j.Description,
		Company:          j.Company,
		Type:             string(j.Type),
		MinCGPA:          j.MinCGPA,
		MinExperience:    j.MinExperience,
		RequiredBranches: nonNil(j.RequiredBranches),
		Location:         j.Location,
		Salary:           j.Salary,
		PostedBy:         postedBy,
		Applications:     []primitive.ObjectID{},
		CreatedAt:        now,
		UpdatedAt:        now,
	}
	if _, err := r.coll.InsertOne(ctx, doc); err != nil {
		return nil, mapError(err, "failed to create job")
	}
	return doc.domain(), nil
}

func (r *JobRepository) Update(ctx context.Context, j job.Job) (*job.Job, error) {
	oid, err := objectID(j.ID, "job")
	if err != nil {
		return nil, err
	}
	postedBy, err := objectID(j.PostedBy, "job")
	if err != nil {
		return nil, err
	}
	result, err := r.coll.UpdateOne(ctx, bson.M{"_id": oid, "postedBy": postedBy}, bson.M{"$set": bson.M{
		"title":            j.Title,
		"description":      j.Description,
		"company":          j.Company,
		"type":             string(j.Type),
		"minCgpa":          j.MinCGPA,
		"minExperience":    j.MinExperience,
		"requiredBranches": nonNil(j.RequiredBranches),
		"location":         j.Location,
		"salary":           j.Salary,
		"updatedAt":        time.Now().UTC(),
	}})
	if err != nil {
		return nil, mapError(err, "failed to update job")
	}
	if result.MatchedCount == 0 {
		return nil, common.NewError(common.CodeNotFound, "job not found", nil)
	}
	return r.GetByID(ctx, j.ID)
}

func (r *JobRepository) GetByID(ctx context.Context, id common.ID) (*job.Job, error) {
	oid, err := objectID(id, "job")
	if err != nil {
		return nil, err
	}
	var doc jobDocument
	if err := r.coll.FindOne(ctx, bson.M{"_id": oid}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, common.NewError(common.CodeNotFound, "job not found", err)
		}
		return nil, mapError(err, "failed to load job")
	}
	return doc.domain(), nil
}

func (r *JobRepository) List(ctx context.Context, filter job.Filter) ([]job.Job, error) {
	query := bson.M{}
	if filter.Type != "" {
		query["type"] = string(filter.Type)
	}
	if !filter.PostedBy.IsZero() {
		postedBy, err := primitive.ObjectIDFromHex(string(filter.PostedBy))
		if err != nil {
			return []job.Job{}, nil
		}
		query["postedBy"] = postedBy
	}
	cursor, err := r.coll.Find(ctx, query, options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}}))
	if err != nil {
		return nil, mapError(err, "failed to list jobs")
	}
	defer cursor.Close(ctx)
	items := []job.Job{}
	for cursor.Next(ctx) {
		var doc jobDocument
		if err := cursor.Decode(&doc); err != nil {
			return nil, mapError(err, "failed to decode job")
		}
		items = append(items, *doc.domain())
	}
	if err := cursor.Err(); err != nil {
		return nil, mapError(err, "failed to list jobs")
	}
	return items, nil
}

func (r *JobRepository) ListByRecruiter(ctx context.Context, recruiterID common.ID) ([]job.Job, error) {
	return r.List(ctx, job.Filter{PostedBy: recruiterID})
}

func (r *JobRepository) AddApplicationRef(ctx context.Context, jobID, applicationID common.ID) error {
	return addRef(ctx, r.coll, jobID, applicationID, "job")
}

func (r *JobRepository) SetApplicationRefs(ctx context.Context, jobID common.ID, applicationIDs []common.ID) error {
	return setRefs(ctx, r.coll, jobID, applicationIDs, "job")
}
