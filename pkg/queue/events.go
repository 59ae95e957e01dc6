package queue

import "github.com/ThreeDotsLabs/watermill/message"

// -------------------------- 基于业务封装 events --------------------------

// PublishFileStored 发布 tv.file.stored 事件。
// 文件字节写入存储且记录入库后调用，通知下游流程（统计、预热等）。
// 可通过可选项 opts 注入 TraceID、Producer 等头部信息。
func PublishFileStored(pub message.Publisher, payload FileStoredPayload, opts ...func(*EventHeader)) error {
	msg, err := NewWatermillMessage(TopicFileStored, payload, opts...)
	if err != nil {
		return err
	}

	return pub.Publish(TopicFileStored, msg)
}

// ParseFileStored 将 Watermill 消息解析为强类型 Envelope（FileStoredPayload）。
func ParseFileStored(msg *message.Message) (Message[FileStoredPayload], error) {
	return ParseWatermillMessage[FileStoredPayload](msg)
}

// PublishFileDeleted 发布 tv.file.deleted 事件。
func PublishFileDeleted(pub message.Publisher, payload FileDeletedPayload, opts ...func(*EventHeader)) error {
	msg, err := NewWatermillMessage(TopicFileDeleted, payload, opts...)
	if err != nil {
		return err
	}

	return pub.Publish(TopicFileDeleted, msg)
}

// ParseFileDeleted 将 Watermill 消息解析为强类型 Envelope（FileDeletedPayload）。
func ParseFileDeleted(msg *message.Message) (Message[FileDeletedPayload], error) {
	return ParseWatermillMessage[FileDeletedPayload](msg)
}

// PublishAnalysisRequested 发布 tv.analysis.requested 事件。
func PublishAnalysisRequested(pub message.Publisher, payload AnalysisRequestedPayload, opts ...func(*EventHeader)) error {
	msg, err := NewWatermillMessage(TopicAnalysisRequested, payload, opts...)
	if err != nil {
		return err
	}

	return pub.Publish(TopicAnalysisRequested, msg)
}

// ParseAnalysisRequested 将 Watermill 消息解析为强类型 Envelope（AnalysisRequestedPayload）。
func ParseAnalysisRequested(msg *message.Message) (Message[AnalysisRequestedPayload], error) {
	return ParseWatermillMessage[AnalysisRequestedPayload](msg)
}

// PublishAnalysisCompleted 发布 tv.analysis.completed 事件。
func PublishAnalysisCompleted(pub message.Publisher, payload AnalysisCompletedPayload, opts ...func(*EventHeader)) error {
	msg, err := NewWatermillMessage(TopicAnalysisCompleted, payload, opts...)
	if err != nil {
		return err
	}

	return pub.Publish(TopicAnalysisCompleted, msg)
}

// ParseAnalysisCompleted 将 Watermill 消息解析为强类型 Envelope（AnalysisCompletedPayload）。
func ParseAnalysisCompleted(msg *message.Message) (Message[AnalysisCompletedPayload], error) {
	return ParseWatermillMessage[AnalysisCompletedPayload](msg)
}

// PublishAnalysisFailed 发布 tv.analysis.failed 事件。
func PublishAnalysisFailed(pub message.Publisher, payload AnalysisFailedPayload, opts ...func(*EventHeader)) error {
	msg, err := NewWatermillMessage(TopicAnalysisFailed, payload, opts...)
	if err != nil {
		return err
	}

	return pub.Publish(TopicAnalysisFailed, msg)
}

// ParseAnalysisFailed 将 Watermill 消息解析为强类型 Envelope（AnalysisFailedPayload）。
func ParseAnalysisFailed(msg *message.Message) (Message[AnalysisFailedPayload], error) {
	return ParseWatermillMessage[AnalysisFailedPayload](msg)
}

// PublishFileUpdated 发布 tv.file.updated 事件。
func PublishFileUpdated(pub message.Publisher, payload FileUpdatedPayload, opts ...func(*EventHeader)) error {
	msg, err := NewWatermillMessage(TopicFileUpdated, payload, opts...)
	if err != nil {
		return err
	}

	return pub.Publish(TopicFileUpdated, msg)
}

// ParseFileUpdated 将 Watermill 消息解析为强类型 Envelope（FileUpdatedPayload）。
func ParseFileUpdated(msg *message.Message) (Message[FileUpdatedPayload], error) {
	return ParseWatermillMessage[FileUpdatedPayload](msg)
}

// PublishFilePurged 发布 tv.file.purged 事件。
func PublishFilePurged(pub message.Publisher, payload FilePurgedPayload, opts ...func(*EventHeader)) error {
	msg, err := NewWatermillMessage(TopicFilePurged, payload, opts...)
	if err != nil {
		return err
	}

	return pub.Publish(TopicFilePurged, msg)
}

// PublishFileAccessed 发布 tv.file.accessed 事件。
func PublishFileAccessed(pub message.Publisher, payload FileAccessedPayload, opts ...func(*EventHeader)) error {
	msg, err := NewWatermillMessage(TopicFileAccessed, payload, opts...)
	if err != nil {
		return err
	}

	return pub.Publish(TopicFileAccessed, msg)
}

// PublishUserRegistered 发布 tv.user.registered 事件。
func PublishUserRegistered(pub message.Publisher, payload UserRegisteredPayload, opts ...func(*EventHeader)) error {
	msg, err := NewWatermillMessage(TopicUserRegistered, payload, opts...)
	if err != nil {
		return err
	}

	return pub.Publish(TopicUserRegistered, msg)
}

// PublishStorageQuotaExceeded 发布 tv.storage.quota.exceeded 事件。
func PublishStorageQuotaExceeded(pub message.Publisher, payload StorageQuotaExceededPayload, opts ...func(*EventHeader)) error {
	msg, err := NewWatermillMessage(TopicStorageQuotaExceeded, payload, opts...)
	if err != nil {
		return err
	}

	return pub.Publish(TopicStorageQuotaExceeded, msg)
}
