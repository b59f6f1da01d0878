package respond

import (
	"regexp"
)

var (
	// データベース・Redis の URL 内パスワード
	urlPasswordPattern = regexp.MustCompile(`://([^:/@]*):([^@]+)@`)

	// key=value 形式の DSN（password=xxx）
	kvPasswordPattern = regexp.MustCompile(`(?i)(password=)[^\s&]+`)
)

// SanitizeError は機密情報をマスクしたエラーメッセージを返す
func SanitizeError(err error) string {
	if err == nil {
		return ""
	}

	msg := err.Error()
	msg = urlPasswordPattern.ReplaceAllString(msg, "://$1:****@")
	msg = kvPasswordPattern.ReplaceAllString(msg, "${1}****")
	return msg
}
