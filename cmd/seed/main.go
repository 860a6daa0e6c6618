package main

import (
	"os"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"go-user-admin-api/internal/core/config"
	"go-user-admin-api/internal/core/database"
	"go-user-admin-api/internal/core/logger"
	"go-user-admin-api/internal/domain"
	"go-user-admin-api/internal/repo"
	"go-user-admin-api/pkg/utils"
)

// 首个 admin 账号引导。幂等：已存在就什么都不做
func main() {
	_ = godotenv.Load()
	cfg := config.Load(os.Getenv("CONFIG_PATH"))
	log, cleanup := logger.New(cfg.Log.Level, cfg.Log.JSON)
	defer cleanup()

	username := cfg.Seed.Username
	if username == "" {
		username = "admin"
	}
	password := cfg.Seed.Password
	if password == "" {
		password = "admin"
	}
	name := cfg.Seed.Name
	if name == "" {
		name = "Admin User"
	}

	db, err := database.NewGorm(database.Opts{
		Driver:   cfg.DB.Driver,
		DSN:      cfg.DB.DSN,
		LogLevel: cfg.DB.LogLevel,
	})
	if err != nil {
		log.Fatal("db open", zap.Error(err))
	}
	if err := db.AutoMigrate(&domain.User{}); err != nil {
		log.Fatal("automigrate failed", zap.Error(err))
	}

	users := repo.NewUserRepo(db)
	existing, err := users.FindByUsername(username)
	if err != nil {
		log.Fatal("find admin failed", zap.Error(err))
	}
	if existing != nil {
		log.Info("admin already present", zap.String("username", username))
		return
	}

	u := &domain.User{
		Name:     &name,
		Username: &username,
		Password: utils.HashPassword(password),
		Level:    domain.LevelAdmin,
		Active:   true,
	}
	if err := users.Create(u); err != nil {
		log.Fatal("create admin failed", zap.Error(err))
	}
	log.Info("admin created", zap.String("username", username), zap.Uint("id", u.ID))
}
