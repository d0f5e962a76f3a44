/*
 * @module service/projection/projector
 * @description 投影引擎：把业务记录按字段映射转换为带标签的响应文档
 * @architecture 转换器模式 - 元数据驱动的数据投影
 * @documentReference dev_docs/model.md
 * @stateFlow 字段映射迭代 -> 取值/缺省回填 -> 标签改名 -> 有序输出
 * @rules 列表路径严格按映射白名单输出，缺失键回填 "N/A"；详情路径额外透出原始文档
 * @dependencies github.com/spf13/cast
 * @refs service/projection/resolver.go
 */

package projection

import (
	"github.com/Nekopanti/crm-project/service/models"
	"github.com/spf13/cast"
)

// MissingValue 列表投影中业务数据缺失键的占位值
const MissingValue = "N/A"

// convenienceKeys 详情路径固定透出的常用字段
var convenienceKeys = []string{"account_name", "hospital", "department", "phone"}

// ProjectRecord 把单条记录投影为标签文档：
// 按映射顺序输出 标签->值，缺失键回填占位值，末尾追加 id
func ProjectRecord(record *models.Account, fm *FieldMap) *LabeledRecord {
	out := NewLabeledRecord()
	for _, key := range fm.Keys() {
		label, _ := fm.Label(key)
		value, ok := record.Data[key]
		if !ok {
			value = MissingValue
		}
		out.Set(label, value)
	}
	out.Set("id", record.ID)
	return out
}

// ProjectList 批量列表投影
func ProjectList(records []models.Account, fm *FieldMap) []*LabeledRecord {
	out := make([]*LabeledRecord, 0, len(records))
	for i := range records {
		out = append(out, ProjectRecord(&records[i], fm))
	}
	return out
}

// Detail 详情投影结果
type Detail struct {
	// PageLayout 按详情布局改名后的标签文档，缺失键回填空串
	PageLayout *LabeledRecord `json:"page_layout"`
	// FilteredData 固定常用字段子集
	FilteredData map[string]string `json:"filtered_data"`
	// AccountData 常用字段子集与原始文档的并集，未声明的键原样保留。
	// 与列表路径的白名单行为不对称，属于有意保留的产品决策
	AccountData map[string]interface{} `json:"account_data"`
}

// ProjectDetail 把单条记录投影为详情文档
func ProjectDetail(record *models.Account, fm *FieldMap) *Detail {
	layout := NewLabeledRecord()
	for _, key := range fm.Keys() {
		label, _ := fm.Label(key)
		value, ok := record.Data[key]
		if !ok {
			value = ""
		}
		layout.Set(label, value)
	}

	filtered := make(map[string]string, len(convenienceKeys))
	for _, key := range convenienceKeys {
		filtered[key] = cast.ToString(record.Data[key])
	}

	full := make(map[string]interface{}, len(record.Data)+len(convenienceKeys))
	for key, value := range filtered {
		full[key] = value
	}
	for key, value := range record.Data {
		full[key] = value
	}

	return &Detail{
		PageLayout:   layout,
		FilteredData: filtered,
		AccountData:  full,
	}
}
