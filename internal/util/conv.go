package util

import (
	"strconv"
	"strings"
)

// ParseUintParam 解析路径/查询参数中的正整数 ID
func ParseUintParam(s string) (uint, error) {
	id, err := strconv.ParseUint(s, 10, 32)
	if err != nil || id == 0 {
		return 0, Validationf("invalid id %q", s)
	}
	return uint(id), nil
}

// StripPassword 去掉密码两侧误带的空白与引号，哈希与校验两侧都需调用
func StripPassword(s string) string {
	return strings.Trim(s, "\" \t\r\n")
}
