package filter

import (
	"database/sql"
	"sort"
	"strconv"

	"github.com/APTrust/pharos/constants"
	"github.com/APTrust/pharos/models/registry"
	"gorm.io/gorm"
)

// Pipeline applies parsed filters, search and sort to a query over
// one Target, and counts facets.
type Pipeline struct {
	Target Target
	Params Params
}

func NewPipeline(target Target, params Params) *Pipeline {
	return &Pipeline{
		Target: target,
		Params: params,
	}
}

// Base adds the target's joins to a scoped query. Call it once on
// the output of policy.Scope before Filter or Facets.
func (p *Pipeline) Base(scoped *gorm.DB) *gorm.DB {
	for _, join := range p.Target.Joins {
		scoped = scoped.Joins(join)
	}
	return scoped.Session(&gorm.Session{})
}

// Filter applies every filter and search term to base.
func (p *Pipeline) Filter(base *gorm.DB) *gorm.DB {
	return p.filterExcept(base, "")
}

// filterExcept applies every filter but the one for param.
func (p *Pipeline) filterExcept(base *gorm.DB, param string) *gorm.DB {
	db := base.Session(&gorm.Session{})
	for _, s := range stages {
		if s.param != param {
			db = s.apply(db, p.Target, p.Params)
		}
	}
	return db
}

// Sort orders db by the requested sort key. Date sorts newest first.
// Name and institution sort ascending. With no recognized sort key,
// records come back in primary key order. Ties always break on the
// primary key, so pages don't overlap.
func (p *Pipeline) Sort(db *gorm.DB) *gorm.DB {
	pk := p.Target.PrimaryKey()
	key, _ := p.Params.Sort.Get()
	switch key {
	case constants.SortDate:
		if p.Target.DateColumn != "" {
			db = db.Order(p.Target.DateColumn + " DESC")
		}
	case constants.SortName:
		if p.Target.NameColumn != "" {
			db = db.Order(p.Target.NameColumn + " ASC")
		}
	case constants.SortInst:
		if column := p.Target.Column(constants.ParamInstitution); column != "" {
			db = db.Order(column + " ASC")
		}
	}
	return db.Order(pk + " ASC")
}

// FacetValue is one value of a facet and the number of records that
// have it. Label is a display name, where one is known.
type FacetValue struct {
	Value string `json:"value"`
	Label string `json:"label,omitempty"`
	Count int64  `json:"count"`
}

// Facets maps a facet's query parameter to its values.
type Facets map[string][]FacetValue

// Facets counts records by each of the target's facet columns. Each
// facet is counted with every filter applied except its own, so
// selecting a value of a facet doesn't hide the facet's other values.
func (p *Pipeline) Facets(base *gorm.DB) (Facets, error) {
	facets := make(Facets, len(p.Target.Facets))
	for _, param := range p.Target.Facets {
		column := p.Target.Column(param)
		if column == "" {
			continue
		}
		values, err := p.countBy(base, param, column)
		if err != nil {
			return nil, err
		}
		if param == constants.ParamInstitution {
			if err = labelInstitutions(base, values); err != nil {
				return nil, err
			}
		}
		facets[param] = values
	}
	return facets, nil
}

func (p *Pipeline) countBy(base *gorm.DB, param, column string) ([]FacetValue, error) {
	var rows []struct {
		Value sql.NullString
		Count int64
	}
	err := p.filterExcept(base, param).
		Select(column + " AS value, COUNT(*) AS count").
		Group(column).
		Order(column).
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	values := make([]FacetValue, 0, len(rows))
	for _, row := range rows {
		if !row.Value.Valid {
			continue
		}
		values = append(values, FacetValue{Value: row.Value.String, Count: row.Count})
	}
	return values, nil
}

// labelInstitutions sets each institution facet's label to the
// institution's name.
func labelInstitutions(base *gorm.DB, values []FacetValue) error {
	if len(values) == 0 {
		return nil
	}
	ids := make([]int64, 0, len(values))
	for _, v := range values {
		if id, err := strconv.ParseInt(v.Value, 10, 64); err == nil {
			ids = append(ids, id)
		}
	}
	var institutions []registry.Institution
	err := base.Session(&gorm.Session{NewDB: true}).
		Select("id", "name").
		Where("id IN ?", ids).
		Find(&institutions).Error
	if err != nil {
		return err
	}
	names := make(map[string]string, len(institutions))
	for _, inst := range institutions {
		names[strconv.FormatInt(inst.ID, 10)] = inst.Name
	}
	for i := range values {
		values[i].Label = names[values[i].Value]
	}
	return nil
}

func sortedValues(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for key := range m {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	values := make([]string, len(keys))
	for i, key := range keys {
		values[i] = m[key]
	}
	return values
}
