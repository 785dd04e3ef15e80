// Package action 將上游或網路錯誤包裝成與使用者動作對應的訊息。
package action

import (
	"errors"

	"affiliate-dashboard/internal/domain/validation"
)

// Error 某個動作失敗；Message 可直接顯示給使用者。
type Error struct {
	Message string
	Err     error
}

func (e *Error) Error() string {
	return e.Message + ": " + e.Err.Error()
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Failed 包裝錯誤；nil 與檢查錯誤原樣回傳。
func Failed(message string, err error) error {
	if err == nil {
		return nil
	}
	if _, ok := validation.As(err); ok {
		return err
	}
	var existing *Error
	if errors.As(err, &existing) {
		return err
	}
	return &Error{Message: message, Err: err}
}

// Message 取出動作訊息。
func Message(err error) (string, bool) {
	var aerr *Error
	if errors.As(err, &aerr) {
		return aerr.Message, true
	}
	return "", false
}
