package errors

import "fmt"

// 数据源相关错误，提取失败对整个同步是致命的

func DBFileNotFound(path, pattern string, cause error) *AppError {
	return New(ErrTypeNotFound, fmt.Sprintf("db file not found %s: %s", path, pattern), cause).WithStack()
}

func DBConnectFailed(path string, cause error) *AppError {
	return New(ErrTypeDatabase, fmt.Sprintf("db connect failed: %s", path), cause).WithStack()
}

func CountFailed(table string, cause error) *AppError {
	return New(ErrTypeDatabase, fmt.Sprintf("count failed: %s", table), cause).WithStack()
}

func QueryFailed(query string, cause error) *AppError {
	return New(ErrTypeDatabase, fmt.Sprintf("query failed: %s", query), cause).WithStack()
}

func ScanRowFailed(cause error) *AppError {
	return New(ErrTypeDatabase, "scan row failed", cause).WithStack()
}

func DBCloseFailed(cause error) *AppError {
	return New(ErrTypeDatabase, "db close failed", cause).WithStack()
}

// 推送相关错误，只记录日志，不会中断同步

func PushFailed(url string, cause error) *AppError {
	return New(ErrTypePush, fmt.Sprintf("push failed: %s", url), cause).WithStack()
}

func PushStatus(url string, code int) *AppError {
	return New(ErrTypePush, fmt.Sprintf("push failed: %s, status code: %d", url, code), nil)
}

// 配置相关错误

func ConfigMissing(field string) *AppError {
	return New(ErrTypeConfig, fmt.Sprintf("missing configuration: %s", field), nil).WithStack()
}

func ConfigInvalid(field string, cause error) *AppError {
	return New(ErrTypeConfig, fmt.Sprintf("invalid configuration: %s", field), cause).WithStack()
}
