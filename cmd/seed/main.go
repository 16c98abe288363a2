package main

import (
	"log"
	"os"

	"proctoflex-be/internal/entity"
	"proctoflex-be/internal/model"
	"proctoflex-be/pkg/database"

	"github.com/fatih/color"
	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type seedAccount struct {
	Email    string
	Username string
	FullName string
	Password string
	Role     entity.UserRole
}

var accounts = []seedAccount{
	{Email: "admin@proctoflex.local", Username: "admin", FullName: "System Administrator", Password: "admin12345", Role: entity.UserRoleAdmin},
	{Email: "instructor@proctoflex.local", Username: "instructor", FullName: "Default Instructor", Password: "instructor12345", Role: entity.UserRoleInstructor},
	{Email: "student@proctoflex.local", Username: "student", FullName: "Demo Student", Password: "student12345", Role: entity.UserRoleStudent},
}

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("Info: No .env file found, using system env")
	}

	dsn := os.Getenv("DB_CONNECTION_STRING")
	if dsn == "" {
		color.Red("Error: DB_CONNECTION_STRING is not set")
		os.Exit(1)
	}

	db, err := database.NewGormDBFromDSN(dsn)
	if err != nil {
		color.Red("Error: Failed to connect to database: %v", err)
		os.Exit(1)
	}

	color.Cyan("🚀 Seeding default accounts")

	for _, acc := range accounts {
		if err := seedUser(db, acc); err != nil {
			color.Red("Failed to seed %s: %v", acc.Email, err)
			continue
		}
		color.Green("Seeded %-12s %s", acc.Role, acc.Email)
	}

	color.Cyan("Done")
}

func seedUser(db *gorm.DB, acc seedAccount) error {
	var existing model.User
	err := db.Where("email = ?", acc.Email).First(&existing).Error
	if err == nil {
		color.Yellow("Skipping %s (already exists)", acc.Email)
		return nil
	}
	if err != gorm.ErrRecordNotFound {
		return err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(acc.Password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	user := &model.User{
		Id:           uuid.New(),
		Email:        acc.Email,
		Username:     acc.Username,
		FullName:     acc.FullName,
		PasswordHash: string(hash),
		Role:         string(acc.Role),
		IsActive:     true,
	}
	return db.Create(user).Error
}
