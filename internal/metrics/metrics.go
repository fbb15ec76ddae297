package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// CampaignRefreshes 活动快照刷新次数，按结果分类
var CampaignRefreshes = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: "suicare",
	Subsystem: "campaigns",
	Name:      "refresh_total",
	Help:      "Campaign snapshot refreshes by result",
}, []string{"result"})

// CampaignRefreshDuration 刷新耗时
var CampaignRefreshDuration = promauto.NewHistogram(prometheus.HistogramOpts{
	Namespace: "suicare",
	Subsystem: "campaigns",
	Name:      "refresh_duration_seconds",
	Help:      "Duration of a full campaign fetch",
	Buckets:   prometheus.DefBuckets,
})

// CampaignsCached 当前快照中的活动数
var CampaignsCached = promauto.NewGauge(prometheus.GaugeOpts{
	Namespace: "suicare",
	Subsystem: "campaigns",
	Name:      "cached",
	Help:      "Number of campaigns in the current snapshot",
})

// MalformedObjects 被跳过的异常对象
var MalformedObjects = promauto.NewCounter(prometheus.CounterOpts{
	Namespace: "suicare",
	Subsystem: "campaigns",
	Name:      "malformed_objects_total",
	Help:      "Registry children skipped because they failed schema validation",
})

// Transactions 交易分发结果
var Transactions = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: "suicare",
	Subsystem: "dispatcher",
	Name:      "transactions_total",
	Help:      "Dispatched transactions by operation and outcome",
}, []string{"op", "outcome"})

// ActivityEventsIndexed 已索引的链上事件
var ActivityEventsIndexed = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: "suicare",
	Subsystem: "activity",
	Name:      "events_indexed_total",
	Help:      "On-chain events persisted by the activity indexer",
}, []string{"filter"})

// SuggestionFallbacks AI 建议回退次数
var SuggestionFallbacks = promauto.NewCounter(prometheus.CounterOpts{
	Namespace: "suicare",
	Subsystem: "suggestions",
	Name:      "fallback_total",
	Help:      "Donation suggestions served from the static fallback",
})
