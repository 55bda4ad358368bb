package filter

import (
	"strings"
	"time"

	"github.com/APTrust/pharos/constants"
	"gorm.io/gorm"
)

// stage narrows db by one filter. It returns db unchanged when the
// filter is absent or doesn't apply to the target.
type stage struct {
	param string
	apply func(db *gorm.DB, t Target, p Params) *gorm.DB
}

// stages run in this order, but each is an independent conjunction,
// so order doesn't change the result.
var stages = []stage{
	{constants.ParamAccess, func(db *gorm.DB, t Target, p Params) *gorm.DB {
		return Equals(db, t.Column(constants.ParamAccess), p.Access)
	}},
	{constants.ParamEventType, func(db *gorm.DB, t Target, p Params) *gorm.DB {
		return Equals(db, t.Column(constants.ParamEventType), p.EventType)
	}},
	{constants.ParamFileAssociation, func(db *gorm.DB, t Target, p Params) *gorm.DB {
		return Equals(db, t.Column(constants.ParamFileAssociation), p.FileAssociation)
	}},
	{constants.ParamFileFormat, func(db *gorm.DB, t Target, p Params) *gorm.DB {
		return Equals(db, t.Column(constants.ParamFileFormat), p.FileFormat)
	}},
	{constants.ParamInstitution, func(db *gorm.DB, t Target, p Params) *gorm.DB {
		return Equals(db, t.Column(constants.ParamInstitution), p.Institution)
	}},
	{constants.ParamItemAction, func(db *gorm.DB, t Target, p Params) *gorm.DB {
		return Equals(db, t.Column(constants.ParamItemAction), p.ItemAction)
	}},
	{constants.ParamNeedsAdminReview, func(db *gorm.DB, t Target, p Params) *gorm.DB {
		return Equals(db, t.Column(constants.ParamNeedsAdminReview), p.NeedsAdminReview)
	}},
	{constants.ParamNode, func(db *gorm.DB, t Target, p Params) *gorm.DB {
		return Equals(db, t.Column(constants.ParamNode), p.Node)
	}},
	{constants.ParamObjectAssociation, func(db *gorm.DB, t Target, p Params) *gorm.DB {
		return Equals(db, t.Column(constants.ParamObjectAssociation), p.ObjectAssociation)
	}},
	{constants.ParamOutcome, func(db *gorm.DB, t Target, p Params) *gorm.DB {
		return Equals(db, t.Column(constants.ParamOutcome), p.Outcome)
	}},
	{constants.ParamQueued, func(db *gorm.DB, t Target, p Params) *gorm.DB {
		return IsSet(db, t.Column(constants.ParamQueued), p.Queued)
	}},
	{constants.ParamRemoteNode, func(db *gorm.DB, t Target, p Params) *gorm.DB {
		return Claimed(db, t.Column(constants.ParamRemoteNode), p.RemoteNode)
	}},
	{constants.ParamRetry, func(db *gorm.DB, t Target, p Params) *gorm.DB {
		return Equals(db, t.Column(constants.ParamRetry), p.Retry)
	}},
	{constants.ParamReviewed, func(db *gorm.DB, t Target, p Params) *gorm.DB {
		return Equals(db, t.Column(constants.ParamReviewed), p.Reviewed)
	}},
	{constants.ParamStage, func(db *gorm.DB, t Target, p Params) *gorm.DB {
		return Equals(db, t.Column(constants.ParamStage), p.Stage)
	}},
	{constants.ParamState, func(db *gorm.DB, t Target, p Params) *gorm.DB {
		return Equals(db, t.Column(constants.ParamState), p.State)
	}},
	{constants.ParamStatus, func(db *gorm.DB, t Target, p Params) *gorm.DB {
		return Equals(db, t.Column(constants.ParamStatus), p.Status)
	}},
	{constants.ParamType, func(db *gorm.DB, t Target, p Params) *gorm.DB {
		return Equals(db, t.Column(constants.ParamType), p.InstitutionType)
	}},
	{constants.ParamUpdatedAfter, func(db *gorm.DB, t Target, p Params) *gorm.DB {
		return Compare(db, t.Column(constants.ParamUpdatedAfter), ">=", p.UpdatedAfter)
	}},
	{constants.ParamUpdatedBefore, func(db *gorm.DB, t Target, p Params) *gorm.DB {
		return Compare(db, t.Column(constants.ParamUpdatedBefore), "<", p.UpdatedBefore)
	}},
	{constants.ParamQ, func(db *gorm.DB, t Target, p Params) *gorm.DB {
		return Search(db, t, p.Query, p.SearchField)
	}},
}

// Equals adds column = value.
func Equals[T any](db *gorm.DB, column string, opt Option[T]) *gorm.DB {
	value, ok := opt.Get()
	if !ok || column == "" {
		return db
	}
	return db.Where(column+" = ?", value)
}

// IsSet adds column IS NOT NULL for true, IS NULL for false.
func IsSet(db *gorm.DB, column string, opt Option[bool]) *gorm.DB {
	value, ok := opt.Get()
	if !ok || column == "" {
		return db
	}
	if value {
		return db.Where(column + " IS NOT NULL")
	}
	return db.Where(column + " IS NULL")
}

// Claimed matches work items that some worker node has claimed, or
// for false, items no node has.
func Claimed(db *gorm.DB, column string, opt Option[bool]) *gorm.DB {
	value, ok := opt.Get()
	if !ok || column == "" {
		return db
	}
	if value {
		return db.Where("("+column+" IS NOT NULL AND "+column+" <> ?)", "")
	}
	return db.Where("("+column+" IS NULL OR "+column+" = ?)", "")
}

// Compare adds column <op> value for a time bound.
func Compare(db *gorm.DB, column, op string, opt Option[time.Time]) *gorm.DB {
	value, ok := opt.Get()
	if !ok || column == "" {
		return db
	}
	return db.Where(column+" "+op+" ?", value)
}

// Search matches q case-insensitively anywhere in the search field's
// column. Without a recognized search field, it matches any of the
// target's search columns.
func Search(db *gorm.DB, t Target, q Option[string], field Option[string]) *gorm.DB {
	term, ok := q.Get()
	if !ok || len(t.SearchColumns) == 0 {
		return db
	}
	pattern := "%" + escapeLike(strings.ToLower(term)) + "%"
	if name, ok := field.Get(); ok {
		if column, ok := t.SearchColumns[name]; ok {
			return db.Where("LOWER("+column+") LIKE ? ESCAPE '\\'", pattern)
		}
	}
	clauses := make([]string, 0, len(t.SearchColumns))
	args := make([]interface{}, 0, len(t.SearchColumns))
	for _, column := range sortedValues(t.SearchColumns) {
		clauses = append(clauses, "LOWER("+column+") LIKE ? ESCAPE '\\'")
		args = append(args, pattern)
	}
	return db.Where("("+strings.Join(clauses, " OR ")+")", args...)
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}
