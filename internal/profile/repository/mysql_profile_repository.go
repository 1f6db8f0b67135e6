package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	cryptoService "github.com/legacykeep/user-service/internal/crypto/service"
	"github.com/legacykeep/user-service/internal/database"
	apperrors "github.com/legacykeep/user-service/internal/errors"
	"github.com/legacykeep/user-service/internal/profile/domain"
)

// MySQLProfileRepository handles profile persistence for MySQL.
type MySQLProfileRepository struct {
	db            *sql.DB
	cipher        cryptoService.FieldCipher
	fingerprinter cryptoService.Fingerprinter
}

// NewMySQLProfileRepository creates a new MySQLProfileRepository.
func NewMySQLProfileRepository(
	db *sql.DB,
	cipher cryptoService.FieldCipher,
	fingerprinter cryptoService.Fingerprinter,
) *MySQLProfileRepository {
	return &MySQLProfileRepository{
		db:            db,
		cipher:        cipher,
		fingerprinter: fingerprinter,
	}
}

// Create inserts a new profile and populates the generated id.
func (r *MySQLProfileRepository) Create(ctx context.Context, profile *domain.UserProfile) error {
	querier := database.GetTx(ctx, r.db)

	query := `INSERT INTO user_profiles (user_id, first_name, first_name_hash, last_name, last_name_hash,
			  phone_number, phone_number_hash, display_name, bio, date_of_birth, address_line1, address_line2,
			  city, state, country, postal_code, timezone, language, profile_picture_url, is_public,
			  created_at, updated_at)
			  VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

	result, err := querier.ExecContext(ctx, query, r.writeArgs(profile)...)
	if err != nil {
		// Check for unique constraint violation (duplicate user_id)
		if isMySQLUniqueViolation(err) {
			return domain.ErrProfileAlreadyExists
		}
		return apperrors.Wrap(err, "failed to create profile")
	}

	id, err := result.LastInsertId()
	if err != nil {
		return apperrors.Wrap(err, "failed to create profile")
	}
	profile.ID = id
	return nil
}

// GetByUserID retrieves a non-deleted profile by the owning user id.
func (r *MySQLProfileRepository) GetByUserID(ctx context.Context, userID int64) (*domain.UserProfile, error) {
	querier := database.GetTx(ctx, r.db)

	query := `SELECT ` + profileColumns + `
			  FROM user_profiles WHERE user_id = ? AND deleted_at IS NULL`

	return r.scanProfile(querier.QueryRowContext(ctx, query, userID))
}

// GetByID retrieves a non-deleted profile by its primary key.
func (r *MySQLProfileRepository) GetByID(ctx context.Context, id int64) (*domain.UserProfile, error) {
	querier := database.GetTx(ctx, r.db)

	query := `SELECT ` + profileColumns + `
			  FROM user_profiles WHERE id = ? AND deleted_at IS NULL`

	return r.scanProfile(querier.QueryRowContext(ctx, query, id))
}

// Update overwrites every mutable column, recomputing ciphertext and
// fingerprints from the in-memory plaintext.
func (r *MySQLProfileRepository) Update(ctx context.Context, profile *domain.UserProfile) error {
	querier := database.GetTx(ctx, r.db)

	query := `UPDATE user_profiles SET first_name = ?, first_name_hash = ?, last_name = ?, last_name_hash = ?,
			  phone_number = ?, phone_number_hash = ?, display_name = ?, bio = ?, date_of_birth = ?,
			  address_line1 = ?, address_line2 = ?, city = ?, state = ?, country = ?, postal_code = ?,
			  timezone = ?, language = ?, profile_picture_url = ?, is_public = ?, updated_at = ?
			  WHERE id = ? AND deleted_at IS NULL`

	result, err := querier.ExecContext(ctx, query,
		nullString(r.cipher.Encrypt(profile.FirstName)),
		nullString(r.fingerprinter.Fingerprint(profile.FirstName)),
		nullString(r.cipher.Encrypt(profile.LastName)),
		nullString(r.fingerprinter.Fingerprint(profile.LastName)),
		nullString(r.cipher.Encrypt(profile.PhoneNumber)),
		nullString(r.fingerprinter.Fingerprint(profile.PhoneNumber)),
		nullString(profile.DisplayName),
		nullString(profile.Bio),
		nullTime(profile.DateOfBirth),
		nullString(profile.AddressLine1),
		nullString(profile.AddressLine2),
		nullString(profile.City),
		nullString(profile.State),
		nullString(profile.Country),
		nullString(profile.PostalCode),
		profile.Timezone,
		profile.Language,
		nullString(profile.ProfilePictureURL),
		profile.IsPublic,
		profile.UpdatedAt,
		profile.ID,
	)
	if err != nil {
		return apperrors.Wrap(err, "failed to update profile")
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return apperrors.Wrap(err, "failed to update profile")
	}
	if affected == 0 {
		return domain.ErrProfileNotFound
	}
	return nil
}

// SoftDelete marks the user's profile as deleted without removing the row.
func (r *MySQLProfileRepository) SoftDelete(ctx context.Context, userID int64, deletedAt time.Time) error {
	querier := database.GetTx(ctx, r.db)

	query := `UPDATE user_profiles SET deleted_at = ?, updated_at = ?
			  WHERE user_id = ? AND deleted_at IS NULL`

	result, err := querier.ExecContext(ctx, query, deletedAt, deletedAt, userID)
	if err != nil {
		return apperrors.Wrap(err, "failed to delete profile")
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return apperrors.Wrap(err, "failed to delete profile")
	}
	if affected == 0 {
		return domain.ErrProfileNotFound
	}
	return nil
}

// ListPublic returns non-deleted public profiles ordered by creation time.
func (r *MySQLProfileRepository) ListPublic(
	ctx context.Context,
	offset, limit int,
) ([]*domain.UserProfile, error) {
	querier := database.GetTx(ctx, r.db)

	query := `SELECT ` + profileColumns + `
			  FROM user_profiles
			  WHERE is_public = TRUE AND deleted_at IS NULL
			  ORDER BY created_at DESC
			  LIMIT ? OFFSET ?`

	rows, err := querier.QueryContext(ctx, query, limit, offset)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to list public profiles")
	}
	defer rows.Close() //nolint:errcheck

	var profiles []*domain.UserProfile
	for rows.Next() {
		profile, err := r.scanProfile(rows)
		if err != nil {
			return nil, err
		}
		profiles = append(profiles, profile)
	}

	if err := rows.Err(); err != nil {
		return nil, apperrors.Wrap(err, "failed to list public profiles")
	}

	return profiles, nil
}

// FindByPhoneNumber performs an exact-match lookup through the phone number
// fingerprint column; the stored ciphertext is never consulted for matching.
func (r *MySQLProfileRepository) FindByPhoneNumber(
	ctx context.Context,
	phoneNumber string,
) (*domain.UserProfile, error) {
	querier := database.GetTx(ctx, r.db)

	fingerprint := r.fingerprinter.Fingerprint(phoneNumber)
	if fingerprint == "" {
		return nil, domain.ErrProfileNotFound
	}

	query := `SELECT ` + profileColumns + `
			  FROM user_profiles WHERE phone_number_hash = ? AND deleted_at IS NULL`

	return r.scanProfile(querier.QueryRowContext(ctx, query, fingerprint))
}

func (r *MySQLProfileRepository) writeArgs(profile *domain.UserProfile) []any {
	return []any{
		profile.UserID,
		nullString(r.cipher.Encrypt(profile.FirstName)),
		nullString(r.fingerprinter.Fingerprint(profile.FirstName)),
		nullString(r.cipher.Encrypt(profile.LastName)),
		nullString(r.fingerprinter.Fingerprint(profile.LastName)),
		nullString(r.cipher.Encrypt(profile.PhoneNumber)),
		nullString(r.fingerprinter.Fingerprint(profile.PhoneNumber)),
		nullString(profile.DisplayName),
		nullString(profile.Bio),
		nullTime(profile.DateOfBirth),
		nullString(profile.AddressLine1),
		nullString(profile.AddressLine2),
		nullString(profile.City),
		nullString(profile.State),
		nullString(profile.Country),
		nullString(profile.PostalCode),
		profile.Timezone,
		profile.Language,
		nullString(profile.ProfilePictureURL),
		profile.IsPublic,
		profile.CreatedAt,
		profile.UpdatedAt,
	}
}

// scanProfile reads one row and decrypts the protected fields.
func (r *MySQLProfileRepository) scanProfile(row rowScanner) (*domain.UserProfile, error) {
	var profile domain.UserProfile
	var firstName, lastName, phoneNumber sql.NullString
	var displayName, bio, addressLine1, addressLine2 sql.NullString
	var city, state, country, postalCode, pictureURL sql.NullString
	var dateOfBirth, deletedAt sql.NullTime

	err := row.Scan(
		&profile.ID, &profile.UserID, &firstName, &lastName, &phoneNumber,
		&displayName, &bio, &dateOfBirth, &addressLine1, &addressLine2,
		&city, &state, &country, &postalCode,
		&profile.Timezone, &profile.Language, &pictureURL, &profile.IsPublic,
		&profile.CreatedAt, &profile.UpdatedAt, &deletedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrProfileNotFound
		}
		return nil, apperrors.Wrap(err, "failed to scan profile")
	}

	profile.FirstName = r.cipher.Decrypt(firstName.String)
	profile.LastName = r.cipher.Decrypt(lastName.String)
	profile.PhoneNumber = r.cipher.Decrypt(phoneNumber.String)
	profile.DisplayName = displayName.String
	profile.Bio = bio.String
	profile.AddressLine1 = addressLine1.String
	profile.AddressLine2 = addressLine2.String
	profile.City = city.String
	profile.State = state.String
	profile.Country = country.String
	profile.PostalCode = postalCode.String
	profile.ProfilePictureURL = pictureURL.String

	if dateOfBirth.Valid {
		dob := dateOfBirth.Time
		profile.DateOfBirth = &dob
	}
	if deletedAt.Valid {
		deleted := deletedAt.Time
		profile.DeletedAt = &deleted
	}

	return &profile, nil
}

// isMySQLUniqueViolation checks if the error is a MySQL unique constraint violation.
func isMySQLUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	errMsg := strings.ToLower(err.Error())
	// MySQL: "Error 1062: Duplicate entry"
	return strings.Contains(errMsg, "duplicate entry") || strings.Contains(errMsg, "error 1062")
}
