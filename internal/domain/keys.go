package domain

type CtxKey string

const (
	KeyUserID      CtxKey = "UserID"
	KeyUserEmail   CtxKey = "Email"
	KeyTokenID     CtxKey = "TokenID"
	KeyTokenExpiry CtxKey = "TokenExpiry"
	KeyLocale      CtxKey = "Locale"
)
