/*
 * @module service/projection/sort
 * @description 动态排序白名单：把用户传入的排序参数收敛为安全的SQL排序子句
 * @architecture 分层架构 - 查询构造
 * @documentReference dev_docs/model.md
 * @stateFlow 参数校验 -> 静默回退 -> 按方言生成排序子句
 * @rules 排序字段只能来自固定白名单，非法输入回退默认值而不报错；子句只拼接白名单内的标识符
 * @dependencies 无
 * @refs service/account/service.go
 */

package projection

import "fmt"

const (
	// DefaultSortField 非法排序字段的回退值
	DefaultSortField = "account_name"
	// SortAsc 升序
	SortAsc = "asc"
	// SortDesc 降序
	SortDesc = "desc"
)

// sortableFields 允许参与排序的业务键白名单
var sortableFields = map[string]bool{
	"account_name": true,
	"department":   true,
	"hospital":     true,
}

// SortSpec 规范化后的排序条件
type SortSpec struct {
	Field string
	Order string
}

// NormalizeSort 校验排序参数，非法值静默回退默认排序。
// 白名单校验同时挡住用户可控参数的SQL注入
func NormalizeSort(field, order string) SortSpec {
	if !sortableFields[field] {
		field = DefaultSortField
	}
	if order != SortAsc && order != SortDesc {
		order = SortAsc
	}
	return SortSpec{Field: field, Order: order}
}

// Clause 按数据库方言生成 data 文档内键的排序子句。
// Field 已过白名单，拼接是安全的
func (s SortSpec) Clause(dialect string) string {
	if dialect == "postgres" {
		return fmt.Sprintf("data ->> '%s' %s", s.Field, s.Order)
	}
	return fmt.Sprintf("json_extract(data, '$.%s') %s", s.Field, s.Order)
}

// SearchClause 按方言生成 account_name 前缀匹配条件，值用占位符绑定
func SearchClause(dialect string) string {
	if dialect == "postgres" {
		return "data ->> 'account_name' LIKE ?"
	}
	return "json_extract(data, '$.account_name') LIKE ?"
}
