package metrics

import "errors"

// UnknownName 是無法解析擁有者名稱時的顯示值。
const UnknownName = "Unknown"

// OwnerRef 紀錄資料的擁有者，於資料載入時統一解析一次。
type OwnerRef struct {
	ID    string `json:"id"`
	Name  string `json:"name,omitempty"`
	Email string `json:"email,omitempty"`
}

// DisplayName 回傳可顯示的名稱。
func (o OwnerRef) DisplayName() string {
	if o.Name != "" {
		return o.Name
	}
	return UnknownName
}

// ErrNotFound 查無資料或不屬於該擁有者。
var ErrNotFound = errors.New("not found")
