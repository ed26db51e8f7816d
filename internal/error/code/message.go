package code

// 错误码消息映射
var codeMessageMap = map[int]string{
	// 通用错误码
	ErrSuccess:         "成功",
	ErrUnknown:         "未知错误",
	ErrBind:            "请求参数绑定错误",
	ErrValidation:      "请求参数验证错误",
	ErrTokenInvalid:    "无效的认证令牌",
	ErrTooManyRequests: "请求频率过高",

	// 用户相关错误码
	ErrUserNotFound:          "用户不存在",
	ErrUserAlreadyExist:      "用户已存在",
	ErrUserPasswordIncorrect: "用户名或密码错误",

	// 报警条件相关错误码
	ErrConditionInvalid:  "报警条件配置无效",
	ErrConditionNotFound: "报警条件不存在",

	// SOS相关错误码
	ErrSOSLocationRequired: "缺少位置信息",
	ErrSOSRecordFailed:     "SOS事件记录失败",

	// 保险库相关错误码
	ErrMediaNotFound:          "媒体记录不存在",
	ErrVaultPasswordIncorrect: "访问口令错误",
	ErrVaultForbidden:         "无权访问该媒体记录",
	ErrVaultStorage:           "媒体存储或解密失败",

	// 数据库相关错误码
	ErrDatabase:       "数据库错误",
	ErrRecordNotFound: "记录不存在",
}

// 错误码HTTP状态码映射
var codeStatusMap = map[int]int{
	// 通用错误码
	ErrSuccess:         StatusOK,
	ErrUnknown:         StatusInternalServerError,
	ErrBind:            StatusBadRequest,
	ErrValidation:      StatusBadRequest,
	ErrTokenInvalid:    StatusUnauthorized,
	ErrTooManyRequests: StatusTooManyRequests,

	// 用户相关错误码
	ErrUserNotFound:          StatusNotFound,
	ErrUserAlreadyExist:      StatusBadRequest,
	ErrUserPasswordIncorrect: StatusUnauthorized,

	// 报警条件相关错误码
	ErrConditionInvalid:  StatusBadRequest,
	ErrConditionNotFound: StatusNotFound,

	// SOS相关错误码
	ErrSOSLocationRequired: StatusBadRequest,
	ErrSOSRecordFailed:     StatusInternalServerError,

	// 保险库相关错误码
	ErrMediaNotFound:          StatusNotFound,
	ErrVaultPasswordIncorrect: StatusUnauthorized,
	ErrVaultForbidden:         StatusForbidden,
	ErrVaultStorage:           StatusInternalServerError,

	// 数据库相关错误码
	ErrDatabase:       StatusInternalServerError,
	ErrRecordNotFound: StatusNotFound,
}

// GetMessage 获取错误码对应的消息
func GetMessage(code int) string {
	if msg, ok := codeMessageMap[code]; ok {
		return msg
	}
	return "未知错误"
}

// GetStatus 获取错误码对应的HTTP状态码
func GetStatus(code int) int {
	if status, ok := codeStatusMap[code]; ok {
		return status
	}
	return StatusInternalServerError
}
