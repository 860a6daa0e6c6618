package domain

import (
	"errors"
	"fmt"
	"unicode/utf8"
)

const (
	MaxNameLen     = 100
	MaxUsernameLen = 100
	MaxPasswordLen = 255
)

var (
	ErrNotFound      = errors.New("user not found")
	ErrForbidden     = errors.New("access denied")
	ErrUsernameTaken = errors.New("username already taken")
	ErrAuthFailed    = errors.New("authentication failed")
)

// User 用户实体。Password 永远是 bcrypt 哈希，json:"-" 保证不外泄
type User struct {
	ID       uint    `gorm:"primaryKey" json:"id"`
	Name     *string `gorm:"size:100" json:"name"`
	Username *string `gorm:"uniqueIndex;size:100" json:"username"`
	Password string  `gorm:"size:255" json:"-"`
	Level    Level   `gorm:"size:16;not null" json:"level"`
	Active   bool    `gorm:"not null;default:false" json:"active"`
}

func (User) TableName() string { return "users" }

func (u *User) IsAdmin() bool { return u.Level == LevelAdmin }

// UsernameOrEmpty JWT sub 用；username 可空但能登录的用户必有
func (u *User) UsernameOrEmpty() string {
	if u.Username == nil {
		return ""
	}
	return *u.Username
}

// ValidationError 字段级校验失败，汇总后整体返回
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed: %v", e.Fields)
}

// Validate 对完整候选状态做校验；必须在所有字段应用之后、Save 之前调用
func Validate(u *User) error {
	fields := map[string]string{}
	// 长度按字符数算，不是字节数，多字节名字不能被误杀
	if u.Name != nil && utf8.RuneCountInString(*u.Name) > MaxNameLen {
		fields["name"] = fmt.Sprintf("must be at most %d characters", MaxNameLen)
	}
	if u.Username != nil && utf8.RuneCountInString(*u.Username) > MaxUsernameLen {
		fields["username"] = fmt.Sprintf("must be at most %d characters", MaxUsernameLen)
	}
	if utf8.RuneCountInString(u.Password) > MaxPasswordLen {
		fields["password"] = fmt.Sprintf("must be at most %d characters", MaxPasswordLen)
	}
	if _, err := ParseLevel(string(u.Level)); err != nil {
		fields["level"] = "invalid level"
	}
	if len(fields) > 0 {
		return &ValidationError{Fields: fields}
	}
	return nil
}

type ListFilter struct {
	Q      string // name/username 模糊搜
	Limit  int    // 0 = 不限制
	Offset int
}

// UserRepository 凭据存储。查不到返回 (nil, nil)；
// username 唯一冲突返回 ErrUsernameTaken，绝不静默覆盖
type UserRepository interface {
	Create(u *User) error
	FindByID(id uint) (*User, error)
	FindByUsername(username string) (*User, error)
	List(f ListFilter) ([]User, error)
	Save(u *User) error
	Delete(id uint) error
}
