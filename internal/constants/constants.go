package constants

// 就诊券状态常量（仅持久化状态，过期为派生状态）
const (
	VoucherStatusValid     = "valid"
	VoucherStatusUsed      = "used"
	VoucherStatusCancelled = "cancelled"
)

// 验券结果常量
const (
	ScanResultValid     = "valid"
	ScanResultUsed      = "used"
	ScanResultExpired   = "expired"
	ScanResultCancelled = "cancelled"
	ScanResultNotFound  = "not_found"
)

// 角色常量（封闭集合，未知角色一律拒绝）
const (
	RoleAdmin     = "admin"
	RoleRecepcion = "recepcion"
	RolePrestador = "prestador"
)

// 支持的角色顺序
var SupportedRoles = []string{RoleAdmin, RoleRecepcion, RolePrestador}

// 券码生成常量
const (
	VoucherCodePrefix      = "BA"
	VoucherCodeDigits      = 8
	VoucherCodeMaxAttempts = 10
)

// 就诊券默认有效期（天）
const (
	VoucherDefaultValidityDays = 7
)

// 参保人 / 服务机构状态常量
const (
	DirectoryStatusActive   = "active"
	DirectoryStatusInactive = "inactive"
)

// 队列常量
const (
	QueueDefault       = "default"
	TaskUnresolvedScan = "voucher:unresolved_scan"
)

// 缓存默认配置常量
const (
	RedisPrefixDefault = "bono"
)
