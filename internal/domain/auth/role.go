package auth

import "errors"

// ErrUnknownRole 角色不在 traffer/manager/admin 之內。
var ErrUnknownRole = errors.New("unknown role")

// RoleViews 每個角色對應一個方法；新增角色時所有實作都必須補上對應方法。
type RoleViews[T any] interface {
	Traffer() (T, error)
	Manager() (T, error)
	Admin() (T, error)
}

// Dispatch 依角色選擇畫面，是唯一的角色分派點。
func Dispatch[T any](role Role, views RoleViews[T]) (T, error) {
	switch role {
	case RoleTraffer:
		return views.Traffer()
	case RoleManager:
		return views.Manager()
	case RoleAdmin:
		return views.Admin()
	default:
		var zero T
		return zero, ErrUnknownRole
	}
}
