package queue

// Topics for dataset lifecycle events. Consumers outside the core (search
// indexers, cache warmers, the publishing UI) subscribe to these.
const (
	TopicDatasetCreated = "gv.dataset.created"
	TopicDatasetUpdated = "gv.dataset.updated"
	TopicDatasetDeleted = "gv.dataset.deleted"
)
