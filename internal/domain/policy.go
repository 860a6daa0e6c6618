package domain

// UserPatch 部分更新的增量。nil = 请求里没带这个字段。
// PasswordHash 由 transport 层先哈希好再传进来，这里不碰明文
type UserPatch struct {
	Name         *string
	Username     *string
	PasswordHash *string
	Level        *string
	Active       *bool
}

// CanUpdate 外层闸门：admin 可以改任何人，其他人只能改自己
func CanUpdate(actor, target *User) bool {
	return actor.IsAdmin() || actor.ID == target.ID
}

// ApplyUserPatch 把增量按 actor 的权限应用到 target 上：
//   - name/username：admin 或本人可改
//   - level/active：仅 admin；非 admin 带了就静默丢弃，不算错误
//   - password：过了外层闸门就能改
//
// 先组装完整候选状态再整体校验，校验失败时调用方不得提交。
// admin 给出非法 level 返回 ErrInvalidLevel，整个更新作废
func ApplyUserPatch(actor, target *User, p UserPatch) error {
	if !CanUpdate(actor, target) {
		return ErrForbidden
	}

	if p.Name != nil {
		target.Name = p.Name
	}
	if p.Username != nil {
		target.Username = p.Username
	}

	if actor.IsAdmin() {
		if p.Level != nil {
			lvl, err := ParseLevel(*p.Level)
			if err != nil {
				return err
			}
			target.Level = lvl
		}
		if p.Active != nil {
			target.Active = *p.Active
		}
	}

	if p.PasswordHash != nil {
		target.Password = *p.PasswordHash
	}

	return Validate(target)
}
