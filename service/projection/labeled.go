/*
 * @module service/projection/labeled
 * @description 有序标签文档，保持字段映射的迭代顺序输出JSON
 * @architecture 值对象 - 投影输出载体
 * @documentReference dev_docs/model.md
 * @stateFlow 字段映射迭代顺序 -> 标签键值插入 -> 按插入顺序序列化
 * @rules JSON输出顺序与插入顺序一致，重复键覆盖值但保留首次插入的位置
 * @dependencies encoding/json
 * @refs service/projection/projector.go
 */

package projection

import (
	"bytes"
	"encoding/json"
)

// LabeledRecord 按插入顺序序列化的标签文档
type LabeledRecord struct {
	keys   []string
	values map[string]interface{}
}

// NewLabeledRecord 创建空的标签文档
func NewLabeledRecord() *LabeledRecord {
	return &LabeledRecord{values: make(map[string]interface{})}
}

// Set 写入一个标签键值对，重复键覆盖值并保留原位置
func (r *LabeledRecord) Set(key string, value interface{}) {
	if _, ok := r.values[key]; !ok {
		r.keys = append(r.keys, key)
	}
	r.values[key] = value
}

// Get 按标签读取值
func (r *LabeledRecord) Get(key string) (interface{}, bool) {
	v, ok := r.values[key]
	return v, ok
}

// Keys 返回插入顺序的标签列表
func (r *LabeledRecord) Keys() []string {
	out := make([]string, len(r.keys))
	copy(out, r.keys)
	return out
}

// Len 返回键值对数量
func (r *LabeledRecord) Len() int {
	return len(r.keys)
}

// MarshalJSON 按插入顺序输出JSON对象
func (r *LabeledRecord) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, key := range r.keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		k, err := json.Marshal(key)
		if err != nil {
			return nil, err
		}
		buf.Write(k)
		buf.WriteByte(':')
		v, err := json.Marshal(r.values[key])
		if err != nil {
			return nil, err
		}
		buf.Write(v)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}
