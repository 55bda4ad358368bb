package constants_test

import (
	"testing"

	"github.com/APTrust/pharos/constants"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type Item struct {
	Action   string
	Stage    string
	Expected string
}

var items = []Item{
	Item{
		Action:   constants.ActionIngest,
		Stage:    constants.StageFetch,
		Expected: constants.TopicFetch,
	},
	Item{
		Action:   constants.ActionIngest,
		Stage:    constants.StageStore,
		Expected: constants.TopicStore,
	},
	Item{
		Action:   constants.ActionIngest,
		Stage:    constants.StageRecord,
		Expected: constants.TopicRecord,
	},
	Item{
		Action:   constants.ActionRestoreObject,
		Stage:    "",
		Expected: constants.TopicRestore,
	},
	Item{
		Action:   constants.ActionRestoreFile,
		Stage:    constants.StageRequested,
		Expected: constants.TopicFileRestore,
	},
	Item{
		Action:   constants.ActionGlacierRestore,
		Stage:    "",
		Expected: constants.TopicGlacierRestore,
	},
	Item{
		Action:   constants.ActionDelete,
		Stage:    "",
		Expected: constants.TopicDelete,
	},
	Item{
		Action:   constants.ActionFixityCheck,
		Stage:    "",
		Expected: constants.TopicFixity,
	},
}

func TestTopicFor(t *testing.T) {
	for _, item := range items {
		topic, err := constants.TopicFor(item.Action, item.Stage)
		require.Nil(t, err, item.Action)
		assert.Equal(t, item.Expected, topic, item.Action)
	}
}

func TestTopicForInvalid(t *testing.T) {
	_, err := constants.TopicFor(constants.ActionIngest, "INVALID")
	assert.NotNil(t, err)

	_, err = constants.TopicFor(constants.ActionIngest, "")
	assert.NotNil(t, err)

	_, err = constants.TopicFor(constants.ActionRestoreObject, constants.StageStore)
	assert.NotNil(t, err)

	_, err = constants.TopicFor("Juggle", "")
	assert.NotNil(t, err)
}

func TestRequeueStages(t *testing.T) {
	stages := constants.RequeueStages(constants.ActionIngest)
	require.Len(t, stages, 3)
	assert.Equal(t, constants.StageFetch, stages[0].Name)
	assert.Equal(t, constants.StageStore, stages[1].Name)
	assert.Equal(t, constants.StageRecord, stages[2].Name)

	stages = constants.RequeueStages(constants.ActionRestoreObject)
	require.Len(t, stages, 1)
	assert.Equal(t, constants.StageRequested, stages[0].Name)

	assert.Empty(t, constants.RequeueStages("Juggle"))
}
