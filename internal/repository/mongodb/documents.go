package mongodb

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"placement/internal/domain/application"
	"placement/internal/domain/job"
	"placement/internal/domain/profile"
)

type studentDocument struct {
	ID            primitive.ObjectID   `bson:"_id"`
	Email         string               `bson:"email"`
	Name          string               `bson:"name"`
	CGPA          float64              `bson:"cgpa"`
	Experience    int                  `bson:"experience"`
	Branch        string               `bson:"branch"`
	YearOfPassing int                  `bson:"yearOfPassing"`
	Resumes       []string             `bson:"resumes"`
	Applications  []primitive.ObjectID `bson:"applications"`
	CreatedAt     time.Time            `bson:"createdAt"`
	UpdatedAt     time.Time            `bson:"updatedAt"`
}

func (d studentDocument) domain() *profile.Student {
	return &profile.Student{
		ID:             toID(d.ID),
		Email:          d.Email,
		Name:           d.Name,
		CGPA:           d.CGPA,
		Experience:     d.Experience,
		Branch:         d.Branch,
		YearOfPassing:  d.YearOfPassing,
		Resumes:        nonNil(d.Resumes),
		ApplicationIDs: toIDs(d.Applications),
		CreatedAt:      d.CreatedAt,
		UpdatedAt:      d.UpdatedAt,
	}
}

type recruiterDocument struct {
	ID        primitive.ObjectID `bson:"_id"`
	Email     string             `bson:"email"`
	Name      string             `bson:"name"`
	Company   string             `bson:"company"`
	CreatedAt time.Time          `bson:"createdAt"`
	UpdatedAt time.Time          `bson:"updatedAt"`
}

func (d recruiterDocument) domain() *profile.Recruiter {
	return &profile.Recruiter{
		ID:        toID(d.ID),
		Email:     d.Email,
		Name:      d.Name,
		Company:   d.Company,
		CreatedAt: d.CreatedAt,
		UpdatedAt: d.UpdatedAt,
	}
}

type jobDocument struct {
	ID               primitive.ObjectID   `bson:"_id"`
	Title            string               `bson:"title"`
	Description      string               `bson:"description"`
	Company          string               `bson:"company"`
	Type             string               `bson:"type"`
	MinCGPA          float64              `bson:"minCgpa"`
	MinExperience    int                  `bson:"minExperience"`
	RequiredBranches []string             `bson:"requiredBranches"`
	Location         string               `bson:"location"`
	Salary           string               `bson:"salary,omitempty"`
	PostedBy         primitive.ObjectID   `bson:"postedBy"`
	Applications     []primitive.ObjectID `bson:"applications"`
	CreatedAt        time.Time            `bson:"createdAt"`
	UpdatedAt        time.Time            `bson:"updatedAt"`
}

func (d jobDocument) domain() *job.Job {
	return &job.Job{
		ID:               toID(d.ID),
		Title:            d.Title,
		Description:      d.Description,
		Company:          d.Company,
		Type:             job.Type(d.Type),
		MinCGPA:          d.MinCGPA,
		MinExperience:    d.MinExperience,
		RequiredBranches: nonNil(d.RequiredBranches),
		Location:         d.Location,
		Salary:           d.Salary,
		PostedBy:         toID(d.PostedBy),
		ApplicationIDs:   toIDs(d.Applications),
		CreatedAt:        d.CreatedAt,
		UpdatedAt:        d.UpdatedAt,
	}
}

type applicationDocument struct {
	ID         primitive.ObjectID `bson:"_id"`
	StudentID  primitive.ObjectID `bson:"studentId"`
	JobID      primitive.ObjectID `bson:"jobId"`
	Status     string             `bson:"status"`
	ResumeLink string             `bson:"resumeLink"`
	AppliedAt  time.Time          `bson:"appliedAt"`
	UpdatedAt  time.Time          `bson:"updatedAt"`
}

func (d applicationDocument) domain() *application.Application {
	return &application.Application{
		ID:         toID(d.ID),
		StudentID:  toID(d.StudentID),
		JobID:      toID(d.JobID),
		Status:     application.NormalizeStatus(application.Status(d.Status)),
		ResumeLink: d.ResumeLink,
		AppliedAt:  d.AppliedAt,
		UpdatedAt:  d.UpdatedAt,
	}
}
