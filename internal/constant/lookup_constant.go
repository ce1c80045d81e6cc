package constant

// Topic for completed-lookup messages on the in-process bus.
const LookupCompletedTopic = "lookup.completed"

// How long an uploaded image stays on disk before the periodic cleanup
// collects it.
const UploadRetentionHours = 1
