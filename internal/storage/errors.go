package storage

import (
	"errors"
	"strings"

	"github.com/minio/minio-go/v7"
)

// ErrAccessDenied 表示凭据或 Bucket 策略拒绝了写入，重试没有意义。
var ErrAccessDenied = errors.New("object storage access denied")

// errorCode 返回 S3 错误码；错误被代理包装成纯文本时返回空串。
func errorCode(err error) string {
	var resp minio.ErrorResponse
	if errors.As(err, &resp) {
		return strings.TrimSpace(resp.Code)
	}
	return ""
}

func errorMentions(err error, phrases ...string) bool {
	lower := strings.ToLower(err.Error())
	for _, p := range phrases {
		if strings.Contains(lower, p) {
			return true
		}
	}
	return false
}

// IsNoSuchBucket 判断 Bucket 是否不存在。
func IsNoSuchBucket(err error) bool {
	if err == nil {
		return false
	}
	if code := errorCode(err); code != "" {
		return strings.EqualFold(code, "NoSuchBucket")
	}
	return errorMentions(err, "nosuchbucket", "specified bucket does not exist")
}

// IsAccessDenied 判断写入是否被拒绝。
func IsAccessDenied(err error) bool {
	if err == nil {
		return false
	}
	if code := errorCode(err); code != "" {
		return strings.EqualFold(code, "AccessDenied") || strings.EqualFold(code, "InvalidAccessKeyId") ||
			strings.EqualFold(code, "SignatureDoesNotMatch")
	}
	return errorMentions(err, "access denied")
}
