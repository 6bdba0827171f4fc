package user

type Role string

const RoleStaff Role = "Staff"
const RoleManager Role = "Manager"
const RoleAdmin Role = "Admin"

type User struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email,omitempty"`
	Role     Role   `json:"role"`
}

func (r Role) Valid() bool {
	switch r {
	case RoleStaff, RoleManager, RoleAdmin:
		return true
	}
	return false
}

// CanManage gates approve/deny/edit/delete in the UI. The backend enforces
// the real permission.
func (r Role) CanManage() bool {
	return r == RoleManager || r == RoleAdmin
}

func (r Role) CanCreateTasks() bool {
	return r.CanManage()
}
