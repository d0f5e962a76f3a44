package models

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
)

// JSONB 业务数据文档类型，字符串键到任意标量值的映射
type JSONB map[string]interface{}

// Scan 实现 Scanner 接口
func (j *JSONB) Scan(value interface{}) error {
	if value == nil {
		*j = nil
		return nil
	}

	var bytes []byte
	switch v := value.(type) {
	case []byte:
		bytes = v
	case string:
		bytes = []byte(v)
	default:
		return errors.New("类型断言失败: 不是 []byte 或 string")
	}
	return json.Unmarshal(bytes, j)
}

// Value 实现 Valuer 接口
func (j JSONB) Value() (driver.Value, error) {
	if j == nil {
		return json.Marshal(JSONB{})
	}
	return json.Marshal(j)
}
