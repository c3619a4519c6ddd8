package allocation

import "errors"

// Allocation のエラー定義
var (
	ErrInvalidRequest = errors.New("座席数と最大列数は1以上である必要があります")
	ErrUnsatisfiable  = errors.New("指定の条件で座席を確保できません")

	// ErrInvariantViolation は正しいロジックでは発生しない内部不整合を表す
	ErrInvariantViolation = errors.New("座席割り当ての不変条件違反")
)
