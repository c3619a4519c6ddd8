package venue

import "errors"

// Venue ドメインのエラー定義
var (
	ErrVenueNotFound = errors.New("会場が見つかりません")
	ErrDuplicateRow  = errors.New("列IDが重複しています")
	ErrDuplicateSeat = errors.New("座席IDが重複しています")
)
