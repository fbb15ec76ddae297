package ledger

import "encoding/json"

// ObjectDataOptions 对象查询选项
type ObjectDataOptions struct {
	ShowType    bool `json:"showType,omitempty"`
	ShowContent bool `json:"showContent,omitempty"`
	ShowOwner   bool `json:"showOwner,omitempty"`
	ShowDisplay bool `json:"showDisplay,omitempty"`
}

// ObjectResponse sui_getObject 返回
type ObjectResponse struct {
	Data  *ObjectData  `json:"data,omitempty"`
	Error *ObjectError `json:"error,omitempty"`
}

// ObjectError 对象查询错误
type ObjectError struct {
	Code     string `json:"code"`
	ObjectID string `json:"object_id,omitempty"`
}

// NotExists 对象是否不存在
func (e *ObjectError) NotExists() bool {
	return e != nil && e.Code == "notExists"
}

// ObjectData 对象数据
type ObjectData struct {
	ObjectID string         `json:"objectId"`
	Version  string         `json:"version"`
	Digest   string         `json:"digest"`
	Type     string         `json:"type,omitempty"`
	Content  *ParsedContent `json:"content,omitempty"`
}

// ParsedContent 对象内容，Fields 保持原始JSON由上层校验
type ParsedContent struct {
	DataType string          `json:"dataType"`
	Type     string          `json:"type,omitempty"`
	Fields   json.RawMessage `json:"fields,omitempty"`
}

// DynamicFieldName 动态字段名
type DynamicFieldName struct {
	Type  string          `json:"type"`
	Value json.RawMessage `json:"value"`
}

// DynamicFieldInfo 动态字段
type DynamicFieldInfo struct {
	Name       DynamicFieldName `json:"name"`
	ObjectType string           `json:"objectType"`
	ObjectID   string           `json:"objectId"`
	Type       string           `json:"type"`
	Version    json.Number      `json:"version"`
	Digest     string           `json:"digest"`
}

// DynamicFieldPage 动态字段分页
type DynamicFieldPage struct {
	Data        []DynamicFieldInfo `json:"data"`
	NextCursor  *string            `json:"nextCursor"`
	HasNextPage bool               `json:"hasNextPage"`
}

// EventID 事件ID，同时作为分页游标
type EventID struct {
	TxDigest string `json:"txDigest"`
	EventSeq string `json:"eventSeq"`
}

// Event 链上事件
type Event struct {
	ID                EventID         `json:"id"`
	PackageID         string          `json:"packageId"`
	TransactionModule string          `json:"transactionModule"`
	Sender            string          `json:"sender"`
	Type              string          `json:"type"`
	ParsedJSON        json.RawMessage `json:"parsedJson,omitempty"`
	TimestampMs       string          `json:"timestampMs,omitempty"`
}

// EventPage 事件分页
type EventPage struct {
	Data        []Event  `json:"data"`
	NextCursor  *EventID `json:"nextCursor"`
	HasNextPage bool     `json:"hasNextPage"`
}

// EventFilter 事件过滤条件
type EventFilter struct {
	MoveModule *MoveModuleFilter `json:"MoveModule,omitempty"`
}

// MoveModuleFilter 按模块过滤
type MoveModuleFilter struct {
	Package string `json:"package"`
	Module  string `json:"module"`
}

// ExecutionStatus 交易执行状态
type ExecutionStatus struct {
	Status string `json:"status"`
	Error  string `json:"error,omitempty"`
}

// TransactionEffects 交易效果
type TransactionEffects struct {
	Status ExecutionStatus `json:"status"`
}

// DryRunResult sui_dryRunTransactionBlock 返回
type DryRunResult struct {
	Effects TransactionEffects `json:"effects"`
}

// Success 模拟执行是否成功
func (r *DryRunResult) Success() bool {
	return r != nil && r.Effects.Status.Status == "success"
}

// FailureMessage 模拟失败时的错误信息
func (r *DryRunResult) FailureMessage() string {
	if r == nil || r.Effects.Status.Error == "" {
		return "Dry run failed"
	}
	return r.Effects.Status.Error
}

// TransactionResponse sui_executeTransactionBlock 返回
type TransactionResponse struct {
	Digest  string              `json:"digest"`
	Effects *TransactionEffects `json:"effects,omitempty"`
}

// Failed 交易是否已上链但执行失败
func (r *TransactionResponse) Failed() bool {
	return r.Effects != nil && r.Effects.Status.Status != "" && r.Effects.Status.Status != "success"
}

// Coin 账户持有的币对象
type Coin struct {
	CoinType     string `json:"coinType"`
	CoinObjectID string `json:"coinObjectId"`
	Version      string `json:"version"`
	Digest       string `json:"digest"`
	Balance      string `json:"balance"`
}

// CoinPage 币对象分页
type CoinPage struct {
	Data        []Coin  `json:"data"`
	NextCursor  *string `json:"nextCursor"`
	HasNextPage bool    `json:"hasNextPage"`
}

// TransactionBlockBytes unsafe_* 构建接口返回
type TransactionBlockBytes struct {
	TxBytes string `json:"txBytes"`
}
