package sqlite

import (
	"fmt"
	"time"

	"articles-api/internal/domain/entity"
)

// 読み取り時に受け付けるレイアウト（ドライバが time.Time に変換しない場合）
var timestampLayouts = []string{
	entity.TimestampLayout,
	"2006-01-02 15:04:05.999999999-07:00",
	time.RFC3339Nano,
}

// nullTimestamp scans a nullable DATETIME column. The driver may hand back
// either a time.Time or the stored text.
type nullTimestamp struct {
	Time *time.Time
}

func (n *nullTimestamp) Scan(value any) error {
	switch v := value.(type) {
	case nil:
		n.Time = nil
		return nil
	case time.Time:
		n.Time = entity.NormalizeTime(&v)
		return nil
	case string:
		return n.parse(v)
	case []byte:
		return n.parse(string(v))
	default:
		return fmt.Errorf("nullTimestamp: unsupported type %T", value)
	}
}

func (n *nullTimestamp) parse(s string) error {
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			n.Time = entity.NormalizeTime(&t)
			return nil
		}
	}
	return fmt.Errorf("nullTimestamp: cannot parse %q", s)
}
