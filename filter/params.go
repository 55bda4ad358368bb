package filter

import (
	"net/url"
	"strings"
	"time"

	"github.com/APTrust/pharos/constants"
	"github.com/APTrust/pharos/util"
)

// Params holds the filters, search and sort parsed from a query
// string. A value that can't be parsed, or isn't one of the allowed
// values, is None, as if it weren't there.
type Params struct {
	Access            Option[string]
	EventType         Option[string]
	FileAssociation   Option[int64]
	FileFormat        Option[string]
	Institution       Option[int64]
	InstitutionType   Option[string]
	ItemAction        Option[string]
	NeedsAdminReview  Option[bool]
	Node              Option[string]
	ObjectAssociation Option[int64]
	Outcome           Option[string]
	Queued            Option[bool]
	RemoteNode        Option[bool]
	Retry             Option[bool]
	Reviewed          Option[bool]
	Stage             Option[string]
	State             Option[string]
	Status            Option[string]
	UpdatedAfter      Option[time.Time]
	UpdatedBefore     Option[time.Time]
	Query             Option[string]
	SearchField       Option[string]
	Sort              Option[string]
}

// ParseParams reads recognized filter parameters from values.
//
// State defaults to active. Use state=all to see both active and
// deleted records. Queued takes is_queued or is_not_queued.
func ParseParams(values url.Values) Params {
	return Params{
		Access:            oneOf(values, constants.ParamAccess, constants.AccessLevels),
		EventType:         text(values, constants.ParamEventType),
		FileAssociation:   id(values, constants.ParamFileAssociation),
		FileFormat:        text(values, constants.ParamFileFormat),
		Institution:       id(values, constants.ParamInstitution),
		InstitutionType:   oneOf(values, constants.ParamType, constants.InstTypes),
		ItemAction:        oneOf(values, constants.ParamItemAction, constants.Actions),
		NeedsAdminReview:  boolean(values, constants.ParamNeedsAdminReview),
		Node:              text(values, constants.ParamNode),
		ObjectAssociation: id(values, constants.ParamObjectAssociation),
		Outcome:           text(values, constants.ParamOutcome),
		Queued:            queued(values),
		RemoteNode:        boolean(values, constants.ParamRemoteNode),
		Retry:             boolean(values, constants.ParamRetry),
		Reviewed:          boolean(values, constants.ParamReviewed),
		Stage:             oneOf(values, constants.ParamStage, constants.Stages),
		State:             state(values),
		Status:            oneOf(values, constants.ParamStatus, constants.Statuses),
		UpdatedAfter:      date(values, constants.ParamUpdatedAfter),
		UpdatedBefore:     date(values, constants.ParamUpdatedBefore),
		Query:             text(values, constants.ParamQ),
		SearchField:       text(values, constants.ParamSearchField),
		Sort:              oneOf(values, constants.ParamSort, []string{constants.SortDate, constants.SortName, constants.SortInst}),
	}
}

func text(values url.Values, name string) Option[string] {
	value := strings.TrimSpace(values.Get(name))
	if value == "" {
		return None[string]()
	}
	return Some(value)
}

func oneOf(values url.Values, name string, allowed []string) Option[string] {
	value := strings.TrimSpace(values.Get(name))
	if !util.StringListContains(allowed, value) {
		return None[string]()
	}
	return Some(value)
}

func id(values url.Values, name string) Option[int64] {
	value, ok := util.ParseInt64(values.Get(name))
	if !ok || value < 1 {
		return None[int64]()
	}
	return Some(value)
}

func boolean(values url.Values, name string) Option[bool] {
	value, ok := util.ParseBool(values.Get(name))
	if !ok {
		return None[bool]()
	}
	return Some(value)
}

func queued(values url.Values) Option[bool] {
	switch strings.TrimSpace(values.Get(constants.ParamQueued)) {
	case constants.QueuedYes:
		return Some(true)
	case constants.QueuedNo:
		return Some(false)
	}
	return None[bool]()
}

// Missing or unrecognized state means active only.
func state(values url.Values) Option[string] {
	switch strings.TrimSpace(values.Get(constants.ParamState)) {
	case constants.StateAll:
		return None[string]()
	case constants.StateDeleted:
		return Some(constants.StateDeleted)
	}
	return Some(constants.StateActive)
}

var dateFormats = []string{
	time.RFC3339,
	"2006-01-02",
}

func date(values url.Values, name string) Option[time.Time] {
	value := strings.TrimSpace(values.Get(name))
	for _, format := range dateFormats {
		if t, err := time.Parse(format, value); err == nil {
			return Some(t.UTC())
		}
	}
	return None[time.Time]()
}
