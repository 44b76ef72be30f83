package config

import (
	"log"

	"gorm.io/gorm"

	"notaria-digital/internal/adapters/persistence/models"
	"notaria-digital/internal/core/domain"
	"notaria-digital/internal/pkg/password"
)

// Seeder handles database seeding
type Seeder struct {
	db *gorm.DB
}

// NewSeeder creates a new seeder instance
func NewSeeder(db *gorm.DB) *Seeder {
	return &Seeder{db: db}
}

// Run executes all seeders
func (s *Seeder) Run(dev bool) error {
	log.Println("🌱 Running database seeders...")

	if err := s.seedAdminUser(); err != nil {
		log.Printf("⚠️ Admin seeder skipped: %v", err)
	}

	if dev {
		if err := s.seedEmployeeUser(); err != nil {
			log.Printf("⚠️ Employee seeder skipped: %v", err)
		}
	}

	log.Println("✅ Database seeding completed")
	return nil
}

// seedAdminUser seeds the bootstrap admin user. Staff accounts are created
// by this admin afterwards; registration always produces CLIENT users.
func (s *Seeder) seedAdminUser() error {
	var count int64
	s.db.Model(&models.User{}).Where("role = ?", string(domain.RoleAdmin)).Count(&count)
	if count > 0 {
		return nil // Admin already exists
	}

	hashedPassword, err := password.Hash("admin123456")
	if err != nil {
		return err
	}

	admin := &models.User{
		Email:    "admin@notaria.test",
		Password: hashedPassword,
		Name:     "Administrador",
		Role:     string(domain.RoleAdmin),
	}

	if err := s.db.Create(admin).Error; err != nil {
		return err
	}

	log.Printf("🌱 Seeded admin user: %s", admin.Email)
	return nil
}

// seedEmployeeUser seeds a development-only employee account
func (s *Seeder) seedEmployeeUser() error {
	var count int64
	s.db.Model(&models.User{}).Where("role = ?", string(domain.RoleEmployee)).Count(&count)
	if count > 0 {
		return nil
	}

	hashedPassword, err := password.Hash("empleado123")
	if err != nil {
		return err
	}

	employee := &models.User{
		Email:    "empleado@notaria.test",
		Password: hashedPassword,
		Name:     "Empleado de Mesa",
		Role:     string(domain.RoleEmployee),
	}

	if err := s.db.Create(employee).Error; err != nil {
		return err
	}

	log.Printf("🌱 Seeded employee user: %s", employee.Email)
	return nil
}
