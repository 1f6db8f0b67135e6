// Package repository provides data persistence implementations for profile entities.
//
// Sensitive columns (first_name, last_name, phone_number) are encrypted on
// every write and decrypted on every read, so the rest of the application only
// ever sees plaintext. Each protected column is paired with a fingerprint
// column recomputed from plaintext on write; equality lookups go through the
// fingerprint column and never decrypt rows.
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

// profileColumns is the column list shared by every SELECT in this package.
const profileColumns = `id, user_id, first_name, last_name, phone_number, display_name, bio,
		date_of_birth, address_line1, address_line2, city, state, country, postal_code,
		timezone, language, profile_picture_url, is_public, created_at, updated_at, deleted_at`

// PostgreSQLProfileRepository handles profile persistence for PostgreSQL.
type PostgreSQLProfileRepository struct {
	db            *sql.DB
	cipher        cryptoService.FieldCipher
	fingerprinter cryptoService.Fingerprinter
}

// NewPostgreSQLProfileRepository creates a new PostgreSQLProfileRepository.
func NewPostgreSQLProfileRepository(
	db *sql.DB,
	cipher cryptoService.FieldCipher,
	fingerprinter cryptoService.Fingerprinter,
) *PostgreSQLProfileRepository {
	return &PostgreSQLProfileRepository{
		db:            db,
		cipher:        cipher,
		fingerprinter: fingerprinter,
	}
}

// Create inserts a new profile and populates the generated id.
func (r *PostgreSQLProfileRepository) Create(ctx context.Context, profile *domain.UserProfile) error {
	querier := database.GetTx(ctx, r.db)

	query := `INSERT INTO user_profiles (user_id, first_name, first_name_hash, last_name, last_name_hash,
			  phone_number, phone_number_hash, display_name, bio, date_of_birth, address_line1, address_line2,
			  city, state, country, postal_code, timezone, language, profile_picture_url, is_public,
			  created_at, updated_at)
			  VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20, $21, $22)
			  RETURNING id`

	err := querier.QueryRowContext(ctx, query, r.writeArgs(profile)...).Scan(&profile.ID)
	if err != nil {
		// Check for unique constraint violation (duplicate user_id)
		if isPostgreSQLUniqueViolation(err) {
			return domain.ErrProfileAlreadyExists
		}
		return apperrors.Wrap(err, "failed to create profile")
	}
	return nil
}

// GetByUserID retrieves a non-deleted profile by the owning user id.
func (r *PostgreSQLProfileRepository) GetByUserID(ctx context.Context, userID int64) (*domain.UserProfile, error) {
	querier := database.GetTx(ctx, r.db)

	query := `SELECT ` + profileColumns + `
			  FROM user_profiles WHERE user_id = $1 AND deleted_at IS NULL`

	return r.scanProfile(querier.QueryRowContext(ctx, query, userID))
}

// GetByID retrieves a non-deleted profile by its primary key.
func (r *PostgreSQLProfileRepository) GetByID(ctx context.Context, id int64) (*domain.UserProfile, error) {
	querier := database.GetTx(ctx, r.db)

	query := `SELECT ` + profileColumns + `
			  FROM user_profiles WHERE id = $1 AND deleted_at IS NULL`

	return r.scanProfile(querier.QueryRowContext(ctx, query, id))
}

// Update overwrites every mutable column, recomputing ciphertext and
// fingerprints from the in-memory plaintext.
func (r *PostgreSQLProfileRepository) Update(ctx context.Context, profile *domain.UserProfile) error {
	querier := database.GetTx(ctx, r.db)

	query := `UPDATE user_profiles SET first_name = $1, first_name_hash = $2, last_name = $3, last_name_hash = $4,
			  phone_number = $5, phone_number_hash = $6, display_name = $7, bio = $8, date_of_birth = $9,
			  address_line1 = $10, address_line2 = $11, city = $12, state = $13, country = $14, postal_code = $15,
			  timezone = $16, language = $17, profile_picture_url = $18, is_public = $19, updated_at = $20
			  WHERE id = $21 AND deleted_at IS NULL`

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
func (r *PostgreSQLProfileRepository) SoftDelete(ctx context.Context, userID int64, deletedAt time.Time) error {
	querier := database.GetTx(ctx, r.db)

	query := `UPDATE user_profiles SET deleted_at = $1, updated_at = $1
			  WHERE user_id = $2 AND deleted_at IS NULL`

	result, err := querier.ExecContext(ctx, query, deletedAt, userID)
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
func (r *PostgreSQLProfileRepository) ListPublic(
	ctx context.Context,
	offset, limit int,
) ([]*domain.UserProfile, error) {
	querier := database.GetTx(ctx, r.db)

	query := `SELECT ` + profileColumns + `
			  FROM user_profiles
			  WHERE is_public = TRUE AND deleted_at IS NULL
			  ORDER BY created_at DESC
			  OFFSET $1 LIMIT $2`

	rows, err := querier.QueryContext(ctx, query, offset, limit)
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
func (r *PostgreSQLProfileRepository) FindByPhoneNumber(
	ctx context.Context,
	phoneNumber string,
) (*domain.UserProfile, error) {
	querier := database.GetTx(ctx, r.db)

	fingerprint := r.fingerprinter.Fingerprint(phoneNumber)
	if fingerprint == "" {
		return nil, domain.ErrProfileNotFound
	}

	query := `SELECT ` + profileColumns + `
			  FROM user_profiles WHERE phone_number_hash = $1 AND deleted_at IS NULL`

	return r.scanProfile(querier.QueryRowContext(ctx, query, fingerprint))
}

// writeArgs builds the full INSERT argument list, encrypting protected fields
// and recomputing their fingerprints from plaintext.
func (r *PostgreSQLProfileRepository) writeArgs(profile *domain.UserProfile) []any {
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

// rowScanner abstracts *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

// scanProfile reads one row and decrypts the protected fields.
func (r *PostgreSQLProfileRepository) scanProfile(row rowScanner) (*domain.UserProfile, error) {
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

// nullString converts "" to a SQL NULL.
func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

// nullTime converts a nil pointer to a SQL NULL.
func nullTime(t *time.Time) sql.NullTime {
	if t == nil {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: *t, Valid: true}
}

// isPostgreSQLUniqueViolation checks if the error is a PostgreSQL unique constraint violation.
func isPostgreSQLUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	errMsg := strings.ToLower(err.Error())
	// PostgreSQL: "duplicate key value violates unique constraint" or "pq: duplicate key"
	return strings.Contains(errMsg, "duplicate key") || strings.Contains(errMsg, "unique constraint")
}
