package service

import "errors"

// 就诊券相关错误
var (
	ErrVoucherInvalid       = errors.New("voucher input invalid")
	ErrVoucherNotFound      = errors.New("voucher not found")
	ErrVoucherUsed          = errors.New("voucher already used")
	ErrVoucherExpired       = errors.New("voucher expired")
	ErrVoucherCancelled     = errors.New("voucher cancelled")
	ErrVoucherWrongProvider = errors.New("voucher belongs to another provider")
	ErrVoucherCreateFailed  = errors.New("voucher create failed")
)

// 名录相关错误
var (
	ErrAffiliateNotFound = errors.New("affiliate not found")
	ErrProviderNotFound  = errors.New("provider not found")
)

// 操作员相关错误
var (
	ErrActorNotFound    = errors.New("actor not found")
	ErrActorDisabled    = errors.New("actor disabled")
	ErrActorNotProvider = errors.New("actor has no provider profile")
	ErrTokenInvalid     = errors.New("token invalid")
)
