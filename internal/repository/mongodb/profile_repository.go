package mongodb

import (
	"context"
	"errors"
	"regexp"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"placement/internal/common"
	"placement/internal/domain/profile"
)

type StudentRepository struct {
	coll *mongo.Collection
}

func (r *StudentRepository) Create(ctx context.Context, s profile.Student) (*profile.Student, error) {
	oid, err := newObjectID(s.ID)
	if err != nil {
		return nil, err
	}
	now := time.Now().UTC()
	doc := studentDocument{
		ID:            oid,
		Email:         s.Email,
		Name:          s.Name,
		CGPA:          s.CGPA,
		Experience:    s.Experience,
		Branch:        s.Branch,
		YearOfPassing: s.YearOfPassing,
		Resumes:       nonNil(s.Resumes),
		Applications:  []primitive.ObjectID{},
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if _, err := r.coll.InsertOne(ctx, doc); err != nil {
		return nil, mapWriteError(err, "student already exists", "failed to create student")
	}
	return doc.domain(), nil
}

func (r *StudentRepository) GetByID(ctx context.Context, id common.ID) (*profile.Student, error) {
	oid, err := objectID(id, "student")
	if err != nil {
		return nil, err
	}
	return r.findOne(ctx, bson.M{"_id": oid})
}

func (r *StudentRepository) GetByEmail(ctx context.Context, email string) (*profile.Student, error) {
	return r.findOne(ctx, bson.M{"email": emailPattern(email)})
}

func (r *StudentRepository) Update(ctx context.Context, s profile.Student) (*profile.Student, error) {
	oid, err := objectID(s.ID, "student")
	if err != nil {
		return nil, err
	}
	result, err := r.coll.UpdateOne(ctx, bson.M{"_id": oid}, bson.M{"$set": bson.M{
		"email":         s.Email,
		"name":          s.Name,
		"cgpa":          s.CGPA,
		"experience":    s.Experience,
		"branch":        s.Branch,
		"yearOfPassing": s.YearOfPassing,
		"resumes":       nonNil(s.Resumes),
		"updatedAt":     time.Now().UTC(),
	}})
	if err != nil {
		return nil, mapWriteError(err, "email already registered", "failed to update student")
	}
	if result.MatchedCount == 0 {
		return nil, common.NewError(common.CodeNotFound, "student not found", nil)
	}
	return r.GetByID(ctx, s.ID)
}

func (r *StudentRepository) AddApplicationRef(ctx context.Context, studentID, applicationID common.ID) error {
	return addRef(ctx, r.coll, studentID, applicationID, "student")
}

func (r *StudentRepository) SetApplicationRefs(ctx context.Context, studentID common.ID, applicationIDs []common.ID) error {
	return setRefs(ctx, r.coll, studentID, applicationIDs, "student")
}

func (r *StudentRepository) findOne(ctx context.Context, filter bson.M) (*profile.Student, error) {
	var doc studentDocument
	if err := r.coll.FindOne(ctx, filter).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, common.NewError(common.CodeNotFound, "student not found", err)
		}
		return nil, mapError(err, "failed to load student")
	}
	return doc.domain(), nil
}

type RecruiterRepository struct {
	coll *mongo.Collection
}

func (r *RecruiterRepository) Create(ctx context.Context, rec profile.Recruiter) (*profile.Recruiter, error) {
	oid, err := newObjectID(rec.ID)
	if err != nil {
		return nil, err
	}
	now := time.Now().UTC()
	doc := recruiterDocument{ID: oid, Email: rec.Email, Name: rec.Name, Company: rec.Company, CreatedAt: now, UpdatedAt: now}
	if _, err := r.coll.InsertOne(ctx, doc); err != nil {
		return nil, mapWriteError(err, "recruiter already exists", "failed to create recruiter")
	}
	return doc.domain(), nil
}

func (r *RecruiterRepository) GetByID(ctx context.Context, id common.ID) (*profile.Recruiter, error) {
	oid, err := objectID(id, "recruiter")
	if err != nil {
		return nil, err
	}
	return r.findOne(ctx, bson.M{"_id": oid})
}

func (r *RecruiterRepository) GetByEmail(ctx context.Context, email string) (*profile.Recruiter, error) {
	return r.findOne(ctx, bson.M{"email": emailPattern(email)})
}

func (r *RecruiterRepository) Update(ctx context.Context, rec profile.Recruiter) (*profile.Recruiter, error) {
	oid, err := objectID(rec.ID, "recruiter")
	if err != nil {
		return nil, err
	}
	result, err := r.coll.UpdateOne(ctx, bson.M{"_id": oid}, bson.M{"$set": bson.M{
		"email":     rec.Email,
		"name":      rec.Name,
		"company":   rec.Company,
		"updatedAt": time.Now().UTC(),
	}})
	if err != nil {
		return nil, mapWriteError(err, "email already registered", "failed to update recruiter")
	}
	if result.MatchedCount == 0 {
		return nil, common.NewError(common.CodeNotFound, "recruiter not found", nil)
	}
	return r.GetByID(ctx, rec.ID)
}

func (r *RecruiterRepository) findOne(ctx context.Context, filter bson.M) (*profile.Recruiter, error) {
	var doc recruiterDocument
	if err := r.coll.FindOne(ctx, filter).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, common.NewError(common.CodeNotFound, "recruiter not found", err)
		}
		return nil, mapError(err, "failed to load recruiter")
	}
	return doc.domain(), nil
}

func emailPattern(email string) primitive.Regex {
	return primitive.Regex{Pattern: "^" + regexp.QuoteMeta(email) + "$", Options: "i"}
}

func addRef(ctx context.Context, coll *mongo.Collection, ownerID, applicationID common.ID, entity string) error {
	oid, err := objectID(ownerID, entity)
	if err != nil {
		return err
	}
	ref, err := objectID(applicationID, "application")
	if err != nil {
		return err
	}
	result, err := coll.UpdateOne(ctx, bson.M{"_id": oid}, bson.M{
		"$addToSet": bson.M{"applications": ref},
		"$set":      bson.M{"updatedAt": time.Now().UTC()},
	})
	if err != nil {
		return mapError(err, "failed to add application reference")
	}
	if result.MatchedCount == 0 {
		return common.NewError(common.CodeNotFound, entity+" not found", nil)
	}
	return nil
}

func setRefs(ctx context.Context, coll *mongo.Collection, ownerID common.ID, applicationIDs []common.ID, entity string) error {
	oid, err := objectID(ownerID, entity)
	if err != nil {
		return err
	}
	result, err := coll.UpdateOne(ctx, bson.M{"_id": oid}, bson.M{"$set": bson.M{"applications": fromIDs(applicationIDs)}})
	if err != nil {
		return mapError(err, "failed to set application references")
	}
	if result.MatchedCount == 0 {
		return common.NewError(common.CodeNotFound, entity+" not found", nil)
	}
	return nil
}
