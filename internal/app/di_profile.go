package app

import (
	"fmt"

	profileRepository "github.com/legacykeep/user-service/internal/profile/repository"
	profileUsecase "github.com/legacykeep/user-service/internal/profile/usecase"
)

// ProfileRepository returns the profile repository instance.
func (c *Container) ProfileRepository() (profileUsecase.ProfileRepository, error) {
	var err error
	c.profileRepoInit.Do(func() {
		c.profileRepo, err = c.initProfileRepository()
		if err != nil {
			c.initErrors["profileRepo"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["profileRepo"]; exists {
		return nil, storedErr
	}
	return c.profileRepo, nil
}

// ProfileUseCase returns the profile use case instance.
func (c *Container) ProfileUseCase() (profileUsecase.ProfileUseCase, error) {
	var err error
	c.profileUseCaseInit.Do(func() {
		c.profileUseCase, err = c.initProfileUseCase()
		if err != nil {
			c.initErrors["profileUseCase"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["profileUseCase"]; exists {
		return nil, storedErr
	}
	return c.profileUseCase, nil
}

// initProfileRepository creates the profile repository instance.
func (c *Container) initProfileRepository() (profileUsecase.ProfileRepository, error) {
	db, err := c.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database for profile repository: %w", err)
	}

	fieldCipher, err := c.FieldCipher()
	if err != nil {
		return nil, fmt.Errorf("failed to get field cipher for profile repository: %w", err)
	}

	fingerprinter, err := c.Fingerprinter()
	if err != nil {
		return nil, fmt.Errorf("failed to get fingerprinter for profile repository: %w", err)
	}

	// Select the appropriate repository based on the database driver
	switch c.config.DBDriver {
	case "mysql":
		return profileRepository.NewMySQLProfileRepository(db, fieldCipher, fingerprinter), nil
	case "postgres":
		return profileRepository.NewPostgreSQLProfileRepository(db, fieldCipher, fingerprinter), nil
	default:
		return nil, fmt.Errorf("unsupported database driver: %s", c.config.DBDriver)
	}
}

// initProfileUseCase creates the profile use case with all its dependencies.
func (c *Container) initProfileUseCase() (profileUsecase.ProfileUseCase, error) {
	txManager, err := c.TxManager()
	if err != nil {
		return nil, fmt.Errorf("failed to get tx manager for profile use case: %w", err)
	}

	profileRepo, err := c.ProfileRepository()
	if err != nil {
		return nil, fmt.Errorf("failed to get profile repository for profile use case: %w", err)
	}

	outboxRepo, err := c.OutboxRepository()
	if err != nil {
		return nil, fmt.Errorf("failed to get outbox repository for profile use case: %w", err)
	}

	businessMetrics, err := c.BusinessMetrics()
	if err != nil {
		return nil, fmt.Errorf("failed to get business metrics for profile use case: %w", err)
	}

	useCase := profileUsecase.NewProfileUseCase(txManager, profileRepo, outboxRepo)

	return profileUsecase.NewProfileUseCaseWithMetrics(useCase, businessMetrics), nil
}
