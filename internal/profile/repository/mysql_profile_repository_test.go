package repository

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	cryptoService "github.com/legacykeep/user-service/internal/crypto/service"
	"github.com/legacykeep/user-service/internal/profile/domain"
)

func newMySQLRepoWithMock(t *testing.T) (*MySQLProfileRepository, sqlmock.Sqlmock, cryptoService.FieldCipher) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() }) //nolint:errcheck

	cipher, fingerprinter := newTestCrypto(t)
	return NewMySQLProfileRepository(db, cipher, fingerprinter), mock, cipher
}

func TestMySQLProfileRepository_Create(t *testing.T) {
	t.Run("Success_PopulatesGeneratedID", func(t *testing.T) {
		repo, mock, _ := newMySQLRepoWithMock(t)
		profile := testProfile()

		mock.ExpectExec("INSERT INTO user_profiles").
			WillReturnResult(sqlmock.NewResult(7, 1))

		err := repo.Create(context.Background(), profile)
		require.NoError(t, err)
		assert.Equal(t, int64(7), profile.ID)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Error_DuplicateUserID", func(t *testing.T) {
		repo, mock, _ := newMySQLRepoWithMock(t)
		profile := testProfile()

		mock.ExpectExec("INSERT INTO user_profiles").
			WillReturnError(errors.New("Error 1062: Duplicate entry '42' for key 'idx_user_profiles_user_id'"))

		err := repo.Create(context.Background(), profile)
		assert.ErrorIs(t, err, domain.ErrProfileAlreadyExists)
	})
}

func TestMySQLProfileRepository_GetByUserID(t *testing.T) {
	t.Run("Success_DecryptsProtectedFields", func(t *testing.T) {
		repo, mock, cipher := newMySQLRepoWithMock(t)
		stored := testProfile()
		stored.ID = 7

		mock.ExpectQuery("SELECT (.+) FROM user_profiles WHERE user_id").
			WithArgs(int64(42)).
			WillReturnRows(profileRows(cipher, stored))

		profile, err := repo.GetByUserID(context.Background(), 42)
		require.NoError(t, err)
		assert.Equal(t, "John", profile.FirstName)
		assert.Equal(t, "+15551234567", profile.PhoneNumber)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Error_NotFound", func(t *testing.T) {
		repo, mock, _ := newMySQLRepoWithMock(t)

		mock.ExpectQuery("SELECT (.+) FROM user_profiles WHERE user_id").
			WithArgs(int64(99)).
			WillReturnError(sql.ErrNoRows)

		profile, err := repo.GetByUserID(context.Background(), 99)
		assert.Nil(t, profile)
		assert.ErrorIs(t, err, domain.ErrProfileNotFound)
	})
}

func TestMySQLProfileRepository_Update(t *testing.T) {
	repo, mock, _ := newMySQLRepoWithMock(t)
	profile := testProfile()
	profile.ID = 99

	mock.ExpectExec("UPDATE user_profiles SET first_name").
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.Update(context.Background(), profile)
	assert.ErrorIs(t, err, domain.ErrProfileNotFound)
}

func TestMySQLProfileRepository_FindByPhoneNumber(t *testing.T) {
	repo, mock, cipher := newMySQLRepoWithMock(t)
	fingerprinter := cryptoService.NewFingerprinter()
	stored := testProfile()
	stored.ID = 7

	mock.ExpectQuery("SELECT (.+) FROM user_profiles WHERE phone_number_hash").
		WithArgs(fingerprinter.Fingerprint("+15551234567")).
		WillReturnRows(profileRows(cipher, stored))

	profile, err := repo.FindByPhoneNumber(context.Background(), "+15551234567")
	require.NoError(t, err)
	assert.Equal(t, int64(7), profile.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}
