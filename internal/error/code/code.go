package code

// HTTP状态码.
const (
	// StatusOK - 200: 成功.
	StatusOK = 200
	// StatusBadRequest - 400: 请求参数错误.
	StatusBadRequest = 400
	// StatusUnauthorized - 401: 未授权.
	StatusUnauthorized = 401
	// StatusForbidden - 403: 禁止访问.
	StatusForbidden = 403
	// StatusNotFound - 404: 资源不存在.
	StatusNotFound = 404
	// StatusInternalServerError - 500: 服务器内部错误.
	StatusInternalServerError = 500
	// StatusTooManyRequests - 429: 请求过多.
	StatusTooManyRequests = 429
)

// 通用错误码 (100xxx).
const (
	// ErrSuccess - 200: 成功.
	ErrSuccess int = iota + 100000
	// ErrUnknown - 500: 未知错误.
	ErrUnknown
	// ErrBind - 400: 请求参数绑定错误.
	ErrBind
	// ErrValidation - 400: 请求参数验证错误.
	ErrValidation
	// ErrTokenInvalid - 401: 令牌无效.
	ErrTokenInvalid
	// ErrTooManyRequests - 429: 请求频率过高.
	ErrTooManyRequests
)

// 用户相关错误码 (101xxx).
const (
	// ErrUserNotFound - 404: 用户不存在.
	ErrUserNotFound int = iota + 101000
	// ErrUserAlreadyExist - 400: 用户已存在.
	ErrUserAlreadyExist
	// ErrUserPasswordIncorrect - 401: 用户密码错误.
	ErrUserPasswordIncorrect
)

// 报警条件相关错误码 (102xxx).
const (
	// ErrConditionInvalid - 400: 报警条件配置无效.
	ErrConditionInvalid int = iota + 102000
	// ErrConditionNotFound - 404: 报警条件不存在.
	ErrConditionNotFound
)

// SOS相关错误码 (103xxx).
const (
	// ErrSOSLocationRequired - 400: 缺少位置信息.
	ErrSOSLocationRequired int = iota + 103000
	// ErrSOSRecordFailed - 500: SOS事件记录失败.
	ErrSOSRecordFailed
)

// 保险库相关错误码 (104xxx).
const (
	// ErrMediaNotFound - 404: 媒体记录不存在.
	ErrMediaNotFound int = iota + 104000
	// ErrVaultPasswordIncorrect - 401: 访问口令错误.
	ErrVaultPasswordIncorrect
	// ErrVaultForbidden - 403: 无权访问该媒体记录.
	ErrVaultForbidden
	// ErrVaultStorage - 500: 媒体存储或解密失败.
	ErrVaultStorage
)

// 数据库相关错误码 (105xxx).
const (
	// ErrDatabase - 500: 数据库错误.
	ErrDatabase int = iota + 105000
	// ErrRecordNotFound - 404: 记录不存在.
	ErrRecordNotFound
)
