package errcode

// 错误码约定：
// - 0：无错误
// - 4xxx：可恢复/告警类（流程继续，结果仍可用）
// - 5xxx：系统错误（需要中断流程）
const (
	OK              = 0
	InvalidInput    = 4000
	ResourceMissing = 4004
	UnitOverflow    = 4101
	StoreCorrupt    = 4201
	SystemError     = 5000
	SurfaceNotReady = 5001
	SinkDenied      = 5003
)

// Warning 描述一次处理中产生的非致命问题。
type Warning struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Page    int    `json:"page,omitempty"`
}
