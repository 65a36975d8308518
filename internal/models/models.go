// Package models defines the core entities shared across the recruiting platform.
package models

import "time"

// Stage is an application's position in the hiring pipeline.
type Stage string

const (
	StageNew       Stage = "NEW"
	StageInterview Stage = "INTERVIEW"
	StageOffer     Stage = "OFFER"
	StageHired     Stage = "HIRED"
	StageRejected  Stage = "REJECTED"
)

// AllStages lists every pipeline stage in board order.
var AllStages = []Stage{StageNew, StageInterview, StageOffer, StageHired, StageRejected}

// IsValidStage reports whether s is a known pipeline stage.
func IsValidStage(s string) bool {
	switch Stage(s) {
	case StageNew, StageInterview, StageOffer, StageHired, StageRejected:
		return true
	}
	return false
}

// JobStatus controls visibility of a posting on the public board.
type JobStatus string

const (
	JobStatusOpen   JobStatus = "OPEN"
	JobStatusClosed JobStatus = "CLOSED"
)

// Role identifies the account type.
type Role string

const (
	RoleCandidate Role = "CANDIDATE"
	RoleAdmin     Role = "ADMIN"
)

// WorkModel values accepted on job postings.
const (
	WorkModelOnSite = "ON_SITE"
	WorkModelHybrid = "HYBRID"
	WorkModelRemote = "REMOTE"
)

// ContractType values accepted on job postings.
const (
	ContractTypeCLT        = "CLT"
	ContractTypePJ         = "PJ"
	ContractTypeInternship = "INTERNSHIP"
	ContractTypeTemporary  = "TEMPORARY"
)

// ScreeningQuestion is a custom question attached to a job posting.
type ScreeningQuestion struct {
	Question string `json:"question"`
	Required bool   `json:"required"`
}

// Job is a posting on the board.
type Job struct {
	ID                 string              `json:"id"`
	Title              string              `json:"title"`
	Description        string              `json:"description"`
	Location           string              `json:"location"`
	SalaryRange        string              `json:"salaryRange,omitempty"`
	WorkModel          string              `json:"workModel"`
	ContractType       string              `json:"contractType"`
	CategoryID         string              `json:"categoryId,omitempty"`
	CategoryName       string              `json:"categoryName,omitempty"`
	Requirements       []string            `json:"requirements,omitempty"`
	ScreeningQuestions []ScreeningQuestion `json:"screeningQuestions,omitempty"`
	Status             JobStatus           `json:"status"`
	CreatedAt          time.Time           `json:"createdAt"`
	UpdatedAt          time.Time           `json:"updatedAt"`
}

// Category groups job postings.
type Category struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Profile is a candidate's account data.
type Profile struct {
	ID                  string    `json:"id"`
	Email               string    `json:"email"`
	Role                Role      `json:"role"`
	FullName            string    `json:"fullName"`
	Phone               string    `json:"phone,omitempty"`
	LinkedInURL         string    `json:"linkedinUrl,omitempty"`
	ZipCode             string    `json:"zipCode,omitempty"`
	Address             string    `json:"address,omitempty"`
	AddressNumber       string    `json:"addressNumber,omitempty"`
	Neighborhood        string    `json:"neighborhood,omitempty"`
	City                string    `json:"city,omitempty"`
	State               string    `json:"state,omitempty"`
	EducationLevel      string    `json:"educationLevel,omitempty"`
	Institution         string    `json:"institution,omitempty"`
	Course              string    `json:"course,omitempty"`
	EducationEndDate    string    `json:"educationEndDate,omitempty"`
	ProfessionalSummary string    `json:"professionalSummary,omitempty"`
	JobInterests        []string  `json:"jobInterests,omitempty"`
	ResumeKey           string    `json:"resumeKey,omitempty"`
	CreatedAt           time.Time `json:"createdAt"`
	UpdatedAt           time.Time `json:"updatedAt"`
}

// Application links a candidate to a job posting.
type Application struct {
	ID             string            `json:"id"`
	JobID          string            `json:"jobId"`
	CandidateID    string            `json:"candidateId"`
	Stage          Stage             `json:"stage"`
	Answers        map[string]string `json:"answers,omitempty"`
	CandidateName  string            `json:"candidateName,omitempty"`
	CandidateEmail string            `json:"candidateEmail,omitempty"`
	JobTitle       string            `json:"jobTitle,omitempty"`
	CreatedAt      time.Time         `json:"createdAt"`
	UpdatedAt      time.Time         `json:"updatedAt"`
}
