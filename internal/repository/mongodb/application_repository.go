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
	"placement/internal/domain/application"
)

type ApplicationRepository struct {
	coll *mongo.Collection
}

// Create relies on the student_job_unique index; a concurrent duplicate
// surfaces as a conflict.
func (r *ApplicationRepository) Create(ctx context.Context, app application.Application) (*application.Application, error) {
	oid, err := newObjectID(app.ID)
	if err != nil {
		return nil, err
	}
	studentID, err := objectID(app.StudentID, "student")
	if err != nil {
		return nil, err
	}
	jobID, err := objectID(app.JobID, "job")
	if err != nil {
		return nil, err
	}
	now := time.Now().UTC()
	appliedAt := app.AppliedAt
	if appliedAt.IsZero() {
		appliedAt = now
	}
	doc := applicationDocument{
		ID:         oid,
		StudentID:  studentID,
		JobID:      jobID,
		Status:     string(app.Status),
		ResumeLink: app.ResumeLink,
		AppliedAt:  appliedAt,
		UpdatedAt:  now,
	}
	if _, err := r.coll.InsertOne(ctx, doc); err != nil {
		return nil, mapWriteError(err, "already applied", "failed to create application")
	}
	return doc.domain(), nil
}

func (r *ApplicationRepository) GetByID(ctx context.Context, id common.ID) (*application.Application, error) {
	oid, err := objectID(id, "application")
	if err != nil {
		return nil, err
	}
	return r.findOne(ctx, bson.M{"_id": oid})
}

func (r *ApplicationRepository) FindByStudentAndJob(ctx context.Context, studentID, jobID common.ID) (*application.Application, error) {
	sid, err := objectID(studentID, "application")
	if err != nil {
		return nil, err
	}
	jid, err := objectID(jobID, "application")
	if err != nil {
		return nil, err
	}
	return r.findOne(ctx, bson.M{"studentId": sid, "jobId": jid})
}

func (r *ApplicationRepository) ListByStudent(ctx context.Context, studentID common.ID) ([]application.Application, error) {
	oid, err := primitive.ObjectIDFromHex(string(studentID))
	if err != nil {
		return []application.Application{}, nil
	}
	return r.list(ctx, bson.M{"studentId": oid})
}

func (r *ApplicationRepository) ListByJob(ctx context.Context, jobID common.ID) ([]application.Application, error) {
	oid, err := primitive.ObjectIDFromHex(string(jobID))
	if err != nil {
		return []application.Application{}, nil
	}
	return r.list(ctx, bson.M{"jobId": oid})
}

func (r *ApplicationRepository) UpdateStatus(ctx context.Context, id common.ID, status application.Status) (*application.Application, error) {
	oid, err := objectID(id, "application")
	if err != nil {
		return nil, err
	}
	var doc applicationDocument
	err = r.coll.FindOneAndUpdate(ctx,
		bson.M{"_id": oid},
		bson.M{"$set": bson.M{"status": string(status), "updatedAt": time.Now().UTC()}},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, common.NewError(common.CodeNotFound, "application not found", err)
		}
		return nil, mapError(err, "failed to update application")
	}
	return doc.domain(), nil
}

func (r *ApplicationRepository) findOne(ctx context.Context, filter bson.M) (*application.Application, error) {
	var doc applicationDocument
	if err := r.coll.FindOne(ctx, filter).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, common.NewError(common.CodeNotFound, "application not found", err)
		}
		return nil, mapError(err, "failed to load application")
	}
	return doc.domain(), nil
}

func (r *ApplicationRepository) list(ctx context.Context, filter bson.M) ([]application.Application, error) {
	cursor, err := r.coll.Find(ctx, filter, options.Find().SetSort(bson.D{{Key: "appliedAt", Value: -1}}))
	if err != nil {
		return nil, mapError(err, "failed to list applications")
	}
	defer cursor.Close(ctx)
	items := []application.Application{}
	for cursor.Next(ctx) {
		var doc applicationDocument
		if err := cursor.Decode(&doc); err != nil {
			return nil, mapError(err, "failed to decode application")
		}
		items = append(items, *doc.domain())
	}
	if err := cursor.Err(); err != nil {
		return nil, mapError(err, "failed to list applications")
	}
	return items, nil
}
