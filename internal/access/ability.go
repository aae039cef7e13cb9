// Package access 回答“某个角色能否对某类资源做某个动作”。
// 纯函数，无全局状态；每次请求按当事人角色现算。
package access

type Action string

const (
	ActionManage Action = "manage" // 包含 read/update/delete
	ActionRead   Action = "read"
	ActionUpdate Action = "update"
	ActionDelete Action = "delete"
)

type Subject string

const SubjectUser Subject = "User"

type Role string

const (
	RoleAdmin Role = "admin"
	RoleUser  Role = "user"
)

// ParseRole 把自由字符串收敛成封闭角色集。
// 未知角色一律落到非 admin 分支：没有被认可的角色绝不能拿到删除权限。
func ParseRole(s string) Role {
	if s == string(RoleAdmin) {
		return RoleAdmin
	}
	return RoleUser
}

type Ability struct {
	role Role
}

func AbilityFor(role Role) Ability { return Ability{role: role} }

func (a Ability) Can(act Action, sub Subject) bool {
	if sub != SubjectUser {
		return false
	}
	if a.role == RoleAdmin {
		// manage 覆盖全部动作
		return true
	}
	switch act {
	case ActionRead, ActionUpdate:
		return true
	default: // delete / manage 默认拒绝
		return false
	}
}
