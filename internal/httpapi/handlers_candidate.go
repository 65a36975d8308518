package httpapi

import (
	"net/http"
	"regexp"

	"github.com/gin-gonic/gin"
	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"

	apperrors "recruiting-platform/internal/common/errors"
)

var cepDigits = regexp.MustCompile(`^\d{8}$`)

// profileRequest is the editable slice of a candidate account.
type profileRequest struct {
	FullName            string   `json:"fullName"`
	Phone               string   `json:"phone"`
	LinkedInURL         string   `json:"linkedinUrl"`
	ZipCode             string   `json:"zipCode"`
	Address             string   `json:"address"`
	AddressNumber       string   `json:"addressNumber"`
	Neighborhood        string   `json:"neighborhood"`
	City                string   `json:"city"`
	State               string   `json:"state"`
	EducationLevel      string   `json:"educationLevel"`
	Institution         string   `json:"institution"`
	Course              string   `json:"course"`
	EducationEndDate    string   `json:"educationEndDate"`
	ProfessionalSummary string   `json:"professionalSummary"`
	JobInterests        []string `json:"jobInterests"`
}

func (r profileRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.FullName, validation.Required, validation.Length(2, 200)),
		validation.Field(&r.LinkedInURL, is.URL),
		validation.Field(&r.State, validation.Length(0, 2)),
		validation.Field(&r.ZipCode, validation.Match(cepDigits)),
	)
}

func (s *Server) handleGetProfile(c *gin.Context) {
	session := currentSession(c)
	profile, err := s.profiles.GetByID(c.Request.Context(), session.ProfileID)
	if err != nil {
		s.errors.Respond(c, err)
		return
	}
	c.JSON(http.StatusOK, profile)
}

func (s *Server) handleUpdateProfile(c *gin.Context) {
	session := currentSession(c)

	var req profileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.errors.Respond(c, apperrors.NewProfileValidationFailedError("invalid request body"))
		return
	}
	if err := req.Validate(); err != nil {
		s.errors.Respond(c, apperrors.NewProfileValidationFailedError(err.Error()))
		return
	}

	profile, err := s.profiles.GetByID(c.Request.Context(), session.ProfileID)
	if err != nil {
		s.errors.Respond(c, err)
		return
	}

	profile.FullName = req.FullName
	profile.Phone = req.Phone
	profile.LinkedInURL = req.LinkedInURL
	profile.ZipCode = req.ZipCode
	profile.Address = req.Address
	profile.AddressNumber = req.AddressNumber
	profile.Neighborhood = req.Neighborhood
	profile.City = req.City
	profile.State = req.State
	profile.EducationLevel = req.EducationLevel
	profile.Institution = req.Institution
	profile.Course = req.Course
	profile.EducationEndDate = req.EducationEndDate
	profile.ProfessionalSummary = req.ProfessionalSummary
	profile.JobInterests = req.JobInterests

	if err := s.profiles.Update(c.Request.Context(), profile); err != nil {
		s.errors.Respond(c, err)
		return
	}
	c.JSON(http.StatusOK, profile)
}

func (s *Server) handleUploadResume(c *gin.Context) {
	session := currentSession(c)

	file, header, err := c.Request.FormFile("resume")
	if err != nil {
		s.errors.Respond(c, apperrors.NewInvalidResumeTypeError("missing resume file"))
		return
	}
	defer file.Close()

	key, err := s.resumes.Upload(c.Request.Context(), session.ProfileID,
		header.Header.Get("Content-Type"), file)
	if err != nil {
		s.errors.Respond(c, err)
		return
	}

	if err := s.profiles.SetResumeKey(c.Request.Context(), session.ProfileID, key); err != nil {
		s.errors.Respond(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"resumeKey": key})
}

func (s *Server) handleResumeURL(c *gin.Context) {
	session := currentSession(c)

	profile, err := s.profiles.GetByID(c.Request.Context(), session.ProfileID)
	if err != nil {
		s.errors.Respond(c, err)
		return
	}

	url, err := s.resumes.DownloadURL(c.Request.Context(), profile.ResumeKey)
	if err != nil {
		s.errors.Respond(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"url": url})
}

func (s *Server) handleDeleteResume(c *gin.Context) {
	session := currentSession(c)

	profile, err := s.profiles.GetByID(c.Request.Context(), session.ProfileID)
	if err != nil {
		s.errors.Respond(c, err)
		return
	}
	if profile.ResumeKey == "" {
		c.Status(http.StatusNoContent)
		return
	}

	if err := s.resumes.Delete(c.Request.Context(), profile.ResumeKey); err != nil {
		s.errors.Respond(c, err)
		return
	}
	if err := s.profiles.SetResumeKey(c.Request.Context(), session.ProfileID, ""); err != nil {
		s.errors.Respond(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

type applyRequest struct {
	Answers map[string]string `json:"answers"`
}

func (s *Server) handleApply(c *gin.Context) {
	session := currentSession(c)

	var req applyRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			s.errors.Respond(c, apperrors.NewAnswersValidationFailedError("invalid request body"))
			return
		}
	}

	app, err := s.applications.Apply(c.Request.Context(), session.ProfileID, c.Param("id"), req.Answers)
	if err != nil {
		s.errors.Respond(c, err)
		return
	}
	c.JSON(http.StatusCreated, app)
}

func (s *Server) handleMyApplications(c *gin.Context) {
	session := currentSession(c)

	apps, err := s.applications.ListForCandidate(c.Request.Context(), session.ProfileID)
	if err != nil {
		s.errors.Respond(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"applications": apps})
}
