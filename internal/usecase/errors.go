package usecase

import "errors"

var (
	// ErrPermissionExists indicates a permission for the action/resource pair already exists.
	ErrPermissionExists = errors.New("permission already exists for action and resource")
	// ErrPermissionNotFound indicates the referenced permission does not exist.
	ErrPermissionNotFound = errors.New("permission not found")
	// ErrRoleExists indicates a role with the provided name already exists.
	ErrRoleExists = errors.New("role already exists")
	// ErrRoleNotFound indicates the referenced role does not exist.
	ErrRoleNotFound = errors.New("role not found")
	// ErrUserNotFound indicates the referenced user does not exist.
	ErrUserNotFound = errors.New("user not found")
	// ErrSystemRoleProtected indicates an attempt to deactivate or delete a system role.
	ErrSystemRoleProtected = errors.New("system roles cannot be deactivated or deleted")
	// ErrRoleHasUsers indicates an attempt to delete a role that still has assigned users.
	ErrRoleHasUsers = errors.New("role has assigned users")
	// ErrInvalidAction indicates the action is not part of the known enumeration.
	ErrInvalidAction = errors.New("invalid action")
	// ErrInvalidResource indicates the resource is not part of the known enumeration.
	ErrInvalidResource = errors.New("invalid resource")
	// ErrInvalidRoleType indicates the role type is not part of the known enumeration.
	ErrInvalidRoleType = errors.New("invalid role type")
	// ErrInvalidRoleScope indicates the role scope is not part of the known enumeration.
	ErrInvalidRoleScope = errors.New("invalid role scope")
	// ErrInvalidOperation indicates an unknown permission-set or bulk operation.
	ErrInvalidOperation = errors.New("invalid operation")
)
