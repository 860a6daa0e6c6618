package testutil

import (
	"path/filepath"
	"testing"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"go-user-admin-api/internal/domain"
	"go-user-admin-api/pkg/utils"
)

// OpenDB 每个测试一个独立的 sqlite 文件库，结束随 TempDir 清理
func OpenDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := filepath.Join(t.TempDir(), "test.db")
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := db.AutoMigrate(&domain.User{}); err != nil {
		t.Fatalf("automigrate: %v", err)
	}
	return db
}

// SeedUser 直接落库一个用户，密码按正常流程 bcrypt
func SeedUser(t *testing.T, db *gorm.DB, username, password string, level domain.Level, active bool) *domain.User {
	t.Helper()
	name := username + " name"
	u := &domain.User{
		Name:     &name,
		Username: &username,
		Password: utils.HashPassword(password),
		Level:    level,
		Active:   active,
	}
	if err := db.Create(u).Error; err != nil {
		t.Fatalf("seed user %s: %v", username, err)
	}
	return u
}
