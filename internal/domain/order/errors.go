package order

import "errors"

// Order ドメインのエラー定義
var (
	ErrOrderNotFound      = errors.New("注文が見つかりません")
	ErrCustomerIDRequired = errors.New("顧客IDは必須です")
	ErrEventIDRequired    = errors.New("イベントIDは必須です")
	ErrSeatsRequired      = errors.New("座席は1つ以上必要です")
	ErrDuplicateSeat      = errors.New("同じ座席が重複しています")
	ErrSeatAlreadyTaken   = errors.New("座席は既に他の注文で確保されています")
)
