package bootstrap

import (
	"log"

	"github.com/ehub-dev/learning-hub/internal/model"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

func Migrate(db *gorm.DB) error {
	// The enrollment relation is an explicit model so repositories can work
	// on the join rows directly.
	if err := db.SetupJoinTable(&model.Course{}, "Students", &model.CourseStudent{}); err != nil {
		return err
	}

	return db.AutoMigrate(
		&model.Group{},
		&model.User{},
		&model.AuthToken{},
		&model.Course{},
		&model.CourseStudent{},
	)
}

func SeedGroups(db *gorm.DB) error {
	defaultGroups := []model.Group{
		{Name: model.GroupMentor},
		{Name: model.GroupStudent},
	}

	for _, group := range defaultGroups {
		var count int64
		if err := db.Model(&model.Group{}).
			Where("name = ?", group.Name).
			Count(&count).Error; err != nil {
			return err
		}

		if count == 0 {
			if err := db.Create(&group).Error; err != nil {
				return err
			}
		}
	}

	return nil
}

// SeedAdminUser creates a development superuser. Not for production.
func SeedAdminUser(db *gorm.DB) error {
	var count int64
	if err := db.Model(&model.User{}).
		Where("username = ?", "admin").
		Count(&count).Error; err != nil {
		return err
	}

	if count > 0 {
		log.Println("Admin user already exists, skipping seed")
		return nil
	}

	password := "admin123"
	hashedPasswordBytes, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	email := "admin@ehub.local"
	adminUser := model.User{
		Username:     "admin",
		Email:        &email,
		PasswordHash: string(hashedPasswordBytes),
		IsSuperuser:  true,
	}

	if err := db.Create(&adminUser).Error; err != nil {
		return err
	}

	log.Println("Admin user seeded successfully")
	log.Println("   Username: admin")
	log.Println("   Password: admin123")

	return nil
}

// SeedTestUsers creates a development mentor and student, both with the
// password "password123". Not for production.
func SeedTestUsers(db *gorm.DB) error {
	accounts := []struct {
		username string
		group    string
	}{
		{"mentor1", model.GroupMentor},
		{"student1", model.GroupStudent},
	}

	for _, account := range accounts {
		var count int64
		if err := db.Model(&model.User{}).
			Where("username = ?", account.username).
			Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			continue
		}

		hashedPasswordBytes, err := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.DefaultCost)
		if err != nil {
			return err
		}

		user := model.User{
			Username:     account.username,
			PasswordHash: string(hashedPasswordBytes),
		}
		if err := db.Create(&user).Error; err != nil {
			return err
		}

		var group model.Group
		if err := db.Where("name = ?", account.group).First(&group).Error; err != nil {
			return err
		}
		if err := db.Model(&user).Association("Groups").Append(&group); err != nil {
			return err
		}

		log.Printf("Test user seeded: %s (%s)", account.username, account.group)
	}

	return nil
}
