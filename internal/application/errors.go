package application

import "errors"

var (
	ErrEmptySelection = errors.New("確定する座席が選択されていません")
	ErrCommitFailed   = errors.New("注文の確定に失敗しました")
)
