package service

import (
	"context"

	"github.com/yeisme/geovault/pkg/internal/model"
	nlog "github.com/yeisme/geovault/pkg/log"
	"github.com/yeisme/geovault/pkg/metrics"
	"github.com/yeisme/geovault/pkg/queue"
)

// topicForAction maps audit actions to bus topics.
func topicForAction(action string) string {
	switch action {
	case model.ActionCreated:
		return queue.TopicDatasetCreated
	case model.ActionArchived:
		return queue.TopicDatasetDeleted
	default:
		return queue.TopicDatasetUpdated
	}
}

// publishDatasetEvent notifies downstream consumers of a mutation and bumps
// the mutation counter. Publishing is best-effort: a bus failure is logged
// and never fails the catalog operation.
func (s *DatasetService) publishDatasetEvent(_ context.Context, d *model.Dataset, action, actor, comment string) {
	metrics.DatasetMutations.WithLabelValues(action).Inc()

	if s.bus == nil {
		return
	}

	payload := queue.DatasetEventPayload{
		Dataset: queue.DatasetRef{
			ID:        d.ID,
			Name:      d.Name,
			ContentID: d.ContentID,
			Version:   d.Version,
		},
		Action:  action,
		Actor:   actor,
		Comment: comment,
	}

	topic := topicForAction(action)

	msg, err := queue.NewWatermillMessage(topic, payload)
	if err != nil {
		nlog.Logger().Warn().Err(err).Str("topic", topic).Msg("failed to encode dataset event")

		return
	}

	if err := s.bus.Publish(topic, msg); err != nil {
		nlog.Logger().Warn().Err(err).Str("topic", topic).Msg("failed to publish dataset event")
	}
}
