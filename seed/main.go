// Command seed creates an admin account and, optionally, demo providers with a week of slots.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"strings"
	"time"

	"slotwise/config"
	"slotwise/database"
	"slotwise/database/repository"
	availabilityRepo "slotwise/database/repository/availability"
	providerRepo "slotwise/database/repository/provider"
	userRepoPkg "slotwise/database/repository/user"
	"slotwise/models"
	"slotwise/utils"

	randomdata "github.com/Pallinder/go-randomdata"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

var services = []string{"Haircut", "Massage", "Dental check-up", "Physiotherapy", "Tutoring", "Personal training"}

func main() {
	adminUsername := flag.String("admin-username", "admin", "username of the admin account")
	adminEmail := flag.String("admin-email", "admin@slotwise.local", "email of the admin account")
	adminPassword := flag.String("admin-password", "", "password of the admin account (required)")
	providers := flag.Int("providers", 0, "number of demo providers to create")
	flag.Parse()

	config.LoadConfig()
	utils.InitializeLogger()
	logger := utils.GetLogger()
	defer logger.Sync()

	if *adminPassword == "" {
		logger.Fatal("seed: -admin-password is required")
	}

	database.InitDB()
	defer database.Close(context.Background())
	db := database.DB()
	users := userRepoPkg.NewMongoUserRepo(db)
	profiles := providerRepo.NewMongoProviderRepo(db)
	slots := availabilityRepo.NewMongoAvailabilityRepo(db)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	if err := createUser(ctx, users, *adminUsername, *adminEmail, *adminPassword, models.RoleAdmin); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			logger.Info("seed: admin already exists", zap.String("username", *adminUsername))
		} else {
			logger.Fatal("seed: creating admin", zap.Error(err))
		}
	} else {
		logger.Info("seed: admin created", zap.String("username", *adminUsername))
	}

	for i := 0; i < *providers; i++ {
		if err := seedProvider(ctx, users, profiles, slots, *adminPassword); err != nil {
			logger.Fatal("seed: creating demo provider", zap.Int("index", i), zap.Error(err))
		}
	}
	logger.Info("seed: done", zap.Int("providers", *providers))
}

func createUser(ctx context.Context, repo userRepoPkg.UserRepository, username, email, password string, role models.Role) error {
	hash, err := utils.HashPassword(password)
	if err != nil {
		return err
	}
	return repo.Create(ctx, &models.User{
		ID:           uuid.New().String(),
		Username:     username,
		Email:        strings.ToLower(email),
		Role:         role,
		PasswordHash: hash,
	})
}

// seedProvider creates a PROVIDER user, a filled-in profile and hourly slots from 9 to 17 for the next 7 days.
func seedProvider(ctx context.Context, users userRepoPkg.UserRepository, profiles providerRepo.ProviderRepository,
	slots availabilityRepo.AvailabilityRepository, password string) error {

	username := fmt.Sprintf("%s%d", strings.ToLower(randomdata.SillyName()), randomdata.Number(100, 9999))
	if err := createUser(ctx, users, username, username+"@example.com", password, models.RoleProvider); err != nil {
		return err
	}
	owner, err := users.GetByUsername(ctx, username)
	if err != nil {
		return err
	}

	profile := &models.Provider{
		ID:          uuid.New().String(),
		UserID:      owner.ID,
		Username:    owner.Username,
		ServiceName: services[randomdata.Number(0, len(services))],
		Description: randomdata.Paragraph(),
		PhoneNumber: randomdata.PhoneNumber(),
		Address:     randomdata.Address(),
		City:        randomdata.City(),
		State:       randomdata.State(randomdata.Large),
		ZipCode:     randomdata.PostalCode("US"),
		Country:     "United States",
	}
	profile.ProfileCompleted = profile.IsComplete()
	if err := profiles.Create(ctx, profile); err != nil {
		return err
	}

	day := time.Now().UTC().Truncate(24*time.Hour).AddDate(0, 0, 1)
	var week []models.Availability
	for d := 0; d < 7; d++ {
		for hour := 9; hour < 17; hour++ {
			week = append(week, models.Availability{
				ProviderID:      profile.ID,
				AvailableDate:   day.AddDate(0, 0, d).Add(time.Duration(hour) * time.Hour),
				DurationMinutes: 60,
			})
		}
	}
	_, err = slots.CreateMany(ctx, week)
	return err
}
