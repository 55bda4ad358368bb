package constants

import (
	"fmt"
)

// NSQ topics the workers read from.
const (
	TopicDelete         = "apt_delete_topic"
	TopicFetch          = "apt_fetch_topic"
	TopicFileRestore    = "apt_file_restore_topic"
	TopicFixity         = "apt_fixity_topic"
	TopicGlacierRestore = "apt_glacier_restore_init_topic"
	TopicRecord         = "apt_record_topic"
	TopicRestore        = "apt_restore_topic"
	TopicStore          = "apt_store_topic"
)

// Stage describes a point at which a WorkItem may be requeued,
// and the topic that picks it up from there.
type Stage struct {
	Action   string
	Name     string
	Order    int64
	NSQTopic string
}

// IngestStages are the ingest stages an operator may requeue to.
// Later stages of ingest re-derive their state from these.
var IngestStages = []Stage{
	{
		Action:   ActionIngest,
		Name:     StageFetch,
		Order:    1,
		NSQTopic: TopicFetch,
	},
	{
		Action:   ActionIngest,
		Name:     StageStore,
		Order:    2,
		NSQTopic: TopicStore,
	},
	{
		Action:   ActionIngest,
		Name:     StageRecord,
		Order:    3,
		NSQTopic: TopicRecord,
	},
}

// otherStages maps non-ingest actions to the single stage they
// restart from.
var otherStages = map[string]Stage{
	ActionDelete: {
		Action:   ActionDelete,
		Name:     StageRequested,
		Order:    1,
		NSQTopic: TopicDelete,
	},
	ActionFixityCheck: {
		Action:   ActionFixityCheck,
		Name:     StageRequested,
		Order:    1,
		NSQTopic: TopicFixity,
	},
	ActionGlacierRestore: {
		Action:   ActionGlacierRestore,
		Name:     StageRequested,
		Order:    1,
		NSQTopic: TopicGlacierRestore,
	},
	ActionRestoreFile: {
		Action:   ActionRestoreFile,
		Name:     StageRequested,
		Order:    1,
		NSQTopic: TopicFileRestore,
	},
	ActionRestoreObject: {
		Action:   ActionRestoreObject,
		Name:     StageRequested,
		Order:    1,
		NSQTopic: TopicRestore,
	},
}

// RequeueStages returns the stages a WorkItem with the given action
// may be requeued to. Ingest has a choice of stages. Everything else
// restarts from Requested. Unknown actions have none.
func RequeueStages(action string) []Stage {
	if action == ActionIngest {
		return IngestStages
	}
	if stage, ok := otherStages[action]; ok {
		return []Stage{stage}
	}
	return nil
}

// RequeueStageFor returns the Stage for action and stageName. For
// non-ingest actions, stageName may be empty or Requested.
func RequeueStageFor(action, stageName string) (Stage, error) {
	if action == ActionIngest {
		for _, stage := range IngestStages {
			if stage.Name == stageName {
				return stage, nil
			}
		}
		return Stage{}, fmt.Errorf("'%s' is not a valid requeue stage for %s", stageName, action)
	}
	stage, ok := otherStages[action]
	if !ok {
		return Stage{}, fmt.Errorf("Action '%s' cannot be requeued", action)
	}
	if stageName != "" && stageName != stage.Name {
		return Stage{}, fmt.Errorf("'%s' is not a valid requeue stage for %s", stageName, action)
	}
	return stage, nil
}

// TopicFor returns the NSQ topic for the specified action and stage.
func TopicFor(action, stageName string) (string, error) {
	stage, err := RequeueStageFor(action, stageName)
	if err != nil {
		return "", err
	}
	return stage.NSQTopic, nil
}
