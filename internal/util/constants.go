package util

const DateFormat = "2006-01-02"

const (
	StorageLocal = "local"
	StorageMinio = "minio"
	StorageOSS   = "oss"
)

// gin 上下文中保存当前用户的键
const ContextUserKey = "user"

const MimeCSV = "text/csv"
