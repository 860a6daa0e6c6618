package domain

import (
	"errors"
	"fmt"
)

// Level 封闭枚举，只有三个取值；新增 case 必须同时改 ParseLevel 和 RolesFor
type Level string

const (
	LevelBasic    Level = "basic"
	LevelAdvanced Level = "advanced"
	LevelAdmin    Level = "admin"
)

const (
	RoleUser     = "ROLE_USER"
	RoleAdvanced = "ROLE_ADVANCED"
	RoleAdmin    = "ROLE_ADMIN"
)

var ErrInvalidLevel = errors.New("invalid level")

func ParseLevel(s string) (Level, error) {
	switch Level(s) {
	case LevelBasic, LevelAdvanced, LevelAdmin:
		return Level(s), nil
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidLevel, s)
}

// RolesFor 由 level 推导角色列表，顺序固定、无重复。
// 未知值是数据完整性问题，必须报错而不是默认成 basic
func RolesFor(l Level) ([]string, error) {
	switch l {
	case LevelAdmin:
		return []string{RoleAdmin, RoleUser}, nil
	case LevelAdvanced:
		return []string{RoleAdvanced, RoleUser}, nil
	case LevelBasic:
		return []string{RoleUser}, nil
	}
	return nil, fmt.Errorf("%w: %q", ErrInvalidLevel, l)
}
