package event

import "errors"

var ErrEventNotFound = errors.New("イベントが見つかりません")
