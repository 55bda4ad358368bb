package filter_test

import (
	"net/url"
	"testing"
	"time"

	"github.com/APTrust/pharos/constants"
	"github.com/APTrust/pharos/filter"
	"github.com/stretchr/testify/assert"
)

func TestOption(t *testing.T) {
	some := filter.Some("x")
	value, ok := some.Get()
	assert.True(t, ok)
	assert.Equal(t, "x", value)
	assert.True(t, some.IsSome())
	assert.Equal(t, "x", some.OrElse("y"))

	none := filter.None[string]()
	_, ok = none.Get()
	assert.False(t, ok)
	assert.False(t, none.IsSome())
	assert.Equal(t, "y", none.OrElse("y"))

	var zero filter.Option[int64]
	assert.False(t, zero.IsSome())
}

func TestParseParamsEmpty(t *testing.T) {
	p := filter.ParseParams(url.Values{})
	assert.False(t, p.Access.IsSome())
	assert.False(t, p.Institution.IsSome())
	assert.False(t, p.Queued.IsSome())
	assert.False(t, p.Sort.IsSome())
	assert.False(t, p.Query.IsSome())
	assert.Equal(t, constants.StateActive, p.State.OrElse(""))
}

func TestParseParamsValid(t *testing.T) {
	values := url.Values{}
	values.Set("access", "consortia")
	values.Set("institution", "4")
	values.Set("item_action", "Ingest")
	values.Set("stage", "Store")
	values.Set("status", "Failed")
	values.Set("needs_admin_review", "true")
	values.Set("retry", "false")
	values.Set("remote_node", "1")
	values.Set("queued", "is_queued")
	values.Set("type", constants.InstTypeSubscription)
	values.Set("updated_after", "2024-03-01")
	values.Set("updated_before", "2024-04-01T12:00:00Z")
	values.Set("q", "  bag  ")
	values.Set("search_field", "identifier")
	values.Set("sort", "date")
	values.Set("state", "D")

	p := filter.ParseParams(values)
	assert.Equal(t, "consortia", p.Access.OrElse(""))
	assert.Equal(t, int64(4), p.Institution.OrElse(0))
	assert.Equal(t, "Ingest", p.ItemAction.OrElse(""))
	assert.Equal(t, "Store", p.Stage.OrElse(""))
	assert.Equal(t, "Failed", p.Status.OrElse(""))
	assert.True(t, p.NeedsAdminReview.OrElse(false))
	retry, ok := p.Retry.Get()
	assert.True(t, ok)
	assert.False(t, retry)
	assert.True(t, p.RemoteNode.OrElse(false))
	assert.True(t, p.Queued.OrElse(false))
	assert.Equal(t, constants.InstTypeSubscription, p.InstitutionType.OrElse(""))
	assert.Equal(t, time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC), p.UpdatedAfter.OrElse(time.Time{}))
	assert.Equal(t, time.Date(2024, 4, 1, 12, 0, 0, 0, time.UTC), p.UpdatedBefore.OrElse(time.Time{}))
	assert.Equal(t, "bag", p.Query.OrElse(""))
	assert.Equal(t, "identifier", p.SearchField.OrElse(""))
	assert.Equal(t, "date", p.Sort.OrElse(""))
	assert.Equal(t, constants.StateDeleted, p.State.OrElse(""))
}

func TestParseParamsInvalidValuesAreIgnored(t *testing.T) {
	values := url.Values{}
	values.Set("access", "everyone")
	values.Set("institution", "abc")
	values.Set("object_association", "-2")
	values.Set("item_action", "Explode")
	values.Set("stage", "Nowhere")
	values.Set("status", "success")
	values.Set("needs_admin_review", "maybe")
	values.Set("queued", "true")
	values.Set("type", "Club")
	values.Set("updated_after", "last tuesday")
	values.Set("sort", "size")

	p := filter.ParseParams(values)
	assert.False(t, p.Access.IsSome())
	assert.False(t, p.Institution.IsSome())
	assert.False(t, p.ObjectAssociation.IsSome())
	assert.False(t, p.ItemAction.IsSome())
	assert.False(t, p.Stage.IsSome())
	assert.False(t, p.Status.IsSome())
	assert.False(t, p.NeedsAdminReview.IsSome())
	assert.False(t, p.Queued.IsSome())
	assert.False(t, p.InstitutionType.IsSome())
	assert.False(t, p.UpdatedAfter.IsSome())
	assert.False(t, p.Sort.IsSome())
}

func TestParseParamsState(t *testing.T) {
	cases := map[string]filter.Option[string]{
		"":      filter.Some(constants.StateActive),
		"A":     filter.Some(constants.StateActive),
		"D":     filter.Some(constants.StateDeleted),
		"all":   filter.None[string](),
		"bogus": filter.Some(constants.StateActive),
	}
	for input, expected := range cases {
		values := url.Values{}
		values.Set("state", input)
		assert.Equal(t, expected, filter.ParseParams(values).State, input)
	}
}

func TestParseParamsQueued(t *testing.T) {
	values := url.Values{}
	values.Set("queued", "is_not_queued")
	queued, ok := filter.ParseParams(values).Queued.Get()
	assert.True(t, ok)
	assert.False(t, queued)
}
