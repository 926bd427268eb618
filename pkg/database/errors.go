package database

import "errors"

// -----------------------------------------------------------------------------
// Builder Hataları
// -----------------------------------------------------------------------------
// Tüm hatalar deterministik input doğrulama hatalarıdır; retry anlamsızdır.
// Çağıran taraf errors.Is ile hata tipini ayırt edebilir:
//
//	if errors.Is(err, database.ErrInvalidOrderDirection) { ... }
// -----------------------------------------------------------------------------

var (
	ErrInvalidOrderDirection     = errors.New("invalid order direction")
	ErrInvalidOrderField         = errors.New("invalid order field")
	ErrInvalidGroupField         = errors.New("invalid group field")
	ErrInvalidJoinType           = errors.New("invalid join type")
	ErrInvalidLockMode           = errors.New("invalid lock mode")
	ErrInvalidQueryOption        = errors.New("invalid query option")
	ErrInvalidIntervalSpecifier  = errors.New("invalid interval specifier")
	ErrInvalidNumericArgument    = errors.New("invalid numeric argument")
	ErrUnknownMutationExpression = errors.New("unknown mutation expression")

	ErrInvalidBetweenRange       = errors.New("between requires exactly 2 values")
	ErrUnsupportedConditionValue = errors.New("unsupported condition value")
	ErrSubQueryNotBuilt          = errors.New("subquery has no rendered statement")
	ErrNotSubQuery               = errors.New("builder is not a subquery")
	ErrUnknownJoin               = errors.New("join condition refers to no join")

	// ErrEmptyStatement, nil Statement çalıştırılmak istendiğinde döner
	// (örn: alt sorgu builder'ında no-op Update sonucu).
	ErrEmptyStatement = errors.New("empty statement")
)
