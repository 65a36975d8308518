package postgres

import (
	"context"
	"database/sql"
	stderrors "errors"
	"strings"

	"github.com/lib/pq"

	"recruiting-platform/internal/common/database"
	apperrors "recruiting-platform/internal/common/errors"
	"recruiting-platform/internal/common/logger"
	"recruiting-platform/internal/models"
)

// ProfileStore persists candidate and admin accounts.
type ProfileStore struct {
	client *database.PostgresClient
	logger logger.Logger
}

// NewProfileStore creates a profile store on the given client.
func NewProfileStore(client *database.PostgresClient, log logger.Logger) *ProfileStore {
	return &ProfileStore{client: client, logger: log}
}

const profileColumns = `id, email, role, full_name, phone, linkedin_url, zip_code, address,
	address_number, neighborhood, city, state, education_level, institution, course,
	education_end_date, professional_summary, job_interests, resume_key, created_at, updated_at`

// Create inserts a new account with its password hash.
func (s *ProfileStore) Create(ctx context.Context, profile *models.Profile, passwordHash string) error {
	query := `
		INSERT INTO profiles (id, email, password_hash, role, full_name, job_interests, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, NOW(), NOW())`

	_, err := s.client.Exec(ctx, query, profile.ID, profile.Email, passwordHash,
		string(profile.Role), profile.FullName, pq.Array(profile.JobInterests))
	if err != nil {
		var pqErr *pq.Error
		if stderrors.As(err, &pqErr) && string(pqErr.Code) == uniqueViolation {
			return apperrors.NewProfileValidationFailedError("email already registered")
		}
		return apperrors.NewQueryExecutionFailedError("insert_profile", err)
	}

	s.logger.WithFields(map[string]interface{}{"profileId": profile.ID}).Info("Profile created")
	return nil
}

// GetByID loads an account by id.
func (s *ProfileStore) GetByID(ctx context.Context, id string) (*models.Profile, error) {
	row := s.client.QueryRow(ctx, `SELECT `+profileColumns+` FROM profiles WHERE id = $1`, id)
	profile, err := scanProfile(row)
	if err != nil {
		if stderrors.Is(err, sql.ErrNoRows) {
			return nil, apperrors.NewProfileNotFoundError(id)
		}
		return nil, apperrors.NewQueryExecutionFailedError("get_profile", err)
	}
	return profile, nil
}

// GetCredentials loads the id, role and password hash for a login attempt.
func (s *ProfileStore) GetCredentials(ctx context.Context, email string) (id string, role models.Role, passwordHash string, err error) {
	row := s.client.QueryRow(ctx, `SELECT id, role, password_hash FROM profiles WHERE email = $1`, email)
	if scanErr := row.Scan(&id, &role, &passwordHash); scanErr != nil {
		if stderrors.Is(scanErr, sql.ErrNoRows) {
			return "", "", "", apperrors.NewAuthenticationFailedError("unknown email")
		}
		return "", "", "", apperrors.NewQueryExecutionFailedError("get_credentials", scanErr)
	}
	return id, role, passwordHash, nil
}

// Update rewrites an account's editable fields.
func (s *ProfileStore) Update(ctx context.Context, profile *models.Profile) error {
	query := `
		UPDATE profiles SET full_name = $1, phone = $2, linkedin_url = $3, zip_code = $4,
			address = $5, address_number = $6, neighborhood = $7, city = $8, state = $9,
			education_level = $10, institution = $11, course = $12, education_end_date = $13,
			professional_summary = $14, job_interests = $15, updated_at = NOW()
		WHERE id = $16`

	result, err := s.client.Exec(ctx, query, profile.FullName, profile.Phone, profile.LinkedInURL,
		profile.ZipCode, profile.Address, profile.AddressNumber, profile.Neighborhood,
		profile.City, profile.State, profile.EducationLevel, profile.Institution,
		profile.Course, profile.EducationEndDate, profile.ProfessionalSummary,
		pq.Array(profile.JobInterests), profile.ID)
	if err != nil {
		return apperrors.NewQueryExecutionFailedError("update_profile", err)
	}
	if affected, err := result.RowsAffected(); err == nil && affected == 0 {
		return apperrors.NewProfileNotFoundError(profile.ID)
	}
	return nil
}

// SetResumeKey records the object storage key of the uploaded resume.
func (s *ProfileStore) SetResumeKey(ctx context.Context, id, key string) error {
	result, err := s.client.Exec(ctx,
		`UPDATE profiles SET resume_key = $1, updated_at = NOW() WHERE id = $2`, key, id)
	if err != nil {
		return apperrors.NewQueryExecutionFailedError("set_resume_key", err)
	}
	if affected, err := result.RowsAffected(); err == nil && affected == 0 {
		return apperrors.NewProfileNotFoundError(id)
	}
	return nil
}

// SearchTalents filters candidate accounts by name, email or interests.
func (s *ProfileStore) SearchTalents(ctx context.Context, term string) ([]*models.Profile, error) {
	query := `SELECT ` + profileColumns + ` FROM profiles WHERE role = 'CANDIDATE'`
	var args []interface{}

	term = strings.TrimSpace(term)
	if term != "" {
		query += ` AND (full_name ILIKE $1 OR email ILIKE $1
			OR EXISTS (SELECT 1 FROM unnest(job_interests) AS i WHERE i ILIKE $1))`
		args = append(args, "%"+term+"%")
	}
	query += ` ORDER BY full_name ASC`

	rows, err := s.client.Query(ctx, query, args...)
	if err != nil {
		return nil, apperrors.NewQueryExecutionFailedError("search_talents", err)
	}
	defer rows.Close()

	var profiles []*models.Profile
	for rows.Next() {
		profile, err := scanProfile(rows)
		if err != nil {
			return nil, apperrors.NewQueryExecutionFailedError("scan_profile", err)
		}
		profiles = append(profiles, profile)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewQueryExecutionFailedError("iterate_profiles", err)
	}
	return profiles, nil
}

func scanProfile(row rowScanner) (*models.Profile, error) {
	var p models.Profile
	var phone, linkedin, zip, address, number, neighborhood, city, state sql.NullString
	var eduLevel, institution, course, eduEnd, summary, resumeKey sql.NullString

	err := row.Scan(&p.ID, &p.Email, &p.Role, &p.FullName, &phone, &linkedin, &zip, &address,
		&number, &neighborhood, &city, &state, &eduLevel, &institution, &course,
		&eduEnd, &summary, pq.Array(&p.JobInterests), &resumeKey, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, err
	}

	p.Phone = phone.String
	p.LinkedInURL = linkedin.String
	p.ZipCode = zip.String
	p.Address = address.String
	p.AddressNumber = number.String
	p.Neighborhood = neighborhood.String
	p.City = city.String
	p.State = state.String
	p.EducationLevel = eduLevel.String
	p.Institution = institution.String
	p.Course = course.String
	p.EducationEndDate = eduEnd.String
	p.ProfessionalSummary = summary.String
	p.ResumeKey = resumeKey.String
	return &p, nil
}
