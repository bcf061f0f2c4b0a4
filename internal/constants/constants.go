package constants

// 包裹状态常量
const (
	PackageStatusPending      = "pending"
	PackageStatusInTransit    = "in-transit"
	PackageStatusDelivered    = "delivered"
	PackageStatusNotDelivered = "not-delivered"
)

// PackageStatuses 允许的包裹状态（按流转顺序）
var PackageStatuses = []string{
	PackageStatusPending,
	PackageStatusInTransit,
	PackageStatusDelivered,
	PackageStatusNotDelivered,
}

// 附件类型常量
const (
	AttachmentKindIDProof = "id_proof"
	AttachmentKindImage   = "image"
)

// 附件 MIME 类型
const (
	ContentTypeJPEG = "image/jpeg"
	ContentTypePNG  = "image/png"
	ContentTypeGIF  = "image/gif"
	ContentTypeWEBP = "image/webp"
	ContentTypePDF  = "application/pdf"
)

// 附件与导入大小上限
const (
	AttachmentMaxSize int64 = 5 * 1024 * 1024
	ImportMaxSize     int64 = 10 * 1024 * 1024
)

// 包裹状态事件来源
const (
	PackageEventSourceCreate     = "create"
	PackageEventSourceReplace    = "replace"
	PackageEventSourcePatch      = "patch"
	PackageEventSourceBulkAdd    = "bulk_add"
	PackageEventSourceBulkUpdate = "bulk_update"
	PackageEventSourceImport     = "import"
)

// 记录写入来源（指标标签）
const (
	WriteSourceAPI     = "api"
	WriteSourceBulkAdd = "bulk_add"
	WriteSourceImport  = "import"
)

// 队列相关常量
const (
	QueueDefault = "default"

	TaskPackageStatusEvent = "package:status_event"
)

// 默认追踪号分配重试次数
const DefaultTrackingAllocationAttempts = 3
