package policy_test

import (
	"testing"

	"github.com/APTrust/pharos/constants"
	"github.com/APTrust/pharos/models/registry"
	"github.com/APTrust/pharos/policy"
	"github.com/APTrust/pharos/util/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func byID[T any](t *testing.T, db *gorm.DB, id func(*T) int64) map[int64]any {
	var list []*T
	require.Nil(t, db.Find(&list).Error)
	records := make(map[int64]any, len(list))
	for _, r := range list {
		records[id(r)] = r
	}
	return records
}

// loadAll returns every record of kind, keyed by ID, plus the model
// to query kind's table with.
func loadAll(t *testing.T, db *gorm.DB, kind policy.ResourceKind) (map[int64]any, any) {
	switch kind {
	case policy.KindInstitution:
		return byID(t, db, func(r *registry.Institution) int64 { return r.ID }), &registry.Institution{}
	case policy.KindUser:
		return byID(t, db, func(r *registry.User) int64 { return r.ID }), &registry.User{}
	case policy.KindRole:
		return byID(t, db, func(r *registry.Role) int64 { return r.ID }), &registry.Role{}
	case policy.KindIntellectualObject:
		return byID(t, db, func(r *registry.IntellectualObject) int64 { return r.ID }), &registry.IntellectualObject{}
	case policy.KindGenericFile:
		return byID(t, db, func(r *registry.GenericFile) int64 { return r.ID }), &registry.GenericFile{}
	case policy.KindChecksum:
		return byID(t, db, func(r *registry.Checksum) int64 { return r.ID }), &registry.Checksum{}
	case policy.KindStorageRecord:
		return byID(t, db, func(r *registry.StorageRecord) int64 { return r.ID }), &registry.StorageRecord{}
	case policy.KindPremisEvent:
		return byID(t, db, func(r *registry.PremisEvent) int64 { return r.ID }), &registry.PremisEvent{}
	case policy.KindWorkItem:
		return byID(t, db, func(r *registry.WorkItem) int64 { return r.ID }), &registry.WorkItem{}
	case policy.KindBulkDeleteJob:
		return byID(t, db, func(r *registry.BulkDeleteJob) int64 { return r.ID }), &registry.BulkDeleteJob{}
	}
	t.Fatalf("No loader for %s", kind)
	return nil, nil
}

func scopedIDs(t *testing.T, auth *policy.Authorizer, user *registry.User, kind policy.ResourceKind, model any) map[int64]bool {
	var ids []int64
	err := auth.Scope(user, kind, model).Pluck("id", &ids).Error
	require.Nil(t, err, "%s", kind)
	set := make(map[int64]bool, len(ids))
	for _, id := range ids {
		set[id] = true
	}
	return set
}

// Every record is in a user's scope exactly when the user may show it.
func TestScopeMatchesShow(t *testing.T) {
	db := testutil.NewTestDB(t)
	f := testutil.LoadFixtures(t, db)
	auth := policy.NewAuthorizer(db)

	// An object with an access level nobody recognizes is visible
	// only to admins.
	odd := testutil.GetIntellectualObject(f.InstOne, "secret")
	odd.Identifier = "test.edu/odd"
	require.Nil(t, db.Create(odd).Error)

	for _, kind := range policy.Kinds {
		records, model := loadAll(t, db, kind)
		require.NotEmpty(t, records, "%s", kind)
		for _, user := range f.Users() {
			inScope := scopedIDs(t, auth, user, kind, model)
			for id, record := range records {
				shown := auth.Allows(user, kind, record, policy.ActionShow)
				assert.Equal(t, shown, inScope[id], "%s %d for %v", kind, id, user)
			}
		}
	}
}

func TestScopeCounts(t *testing.T) {
	db := testutil.NewTestDB(t)
	f := testutil.LoadFixtures(t, db)
	auth := policy.NewAuthorizer(db)

	count := func(user *registry.User, kind policy.ResourceKind, model any) int64 {
		var n int64
		require.Nil(t, auth.Scope(user, kind, model).Count(&n).Error)
		return n
	}

	// 6 objects: 3 per institution.
	assert.EqualValues(t, 6, count(f.Admin, policy.KindIntellectualObject, &registry.IntellectualObject{}))
	// Own consortia + institution + restricted, other's consortia.
	assert.EqualValues(t, 4, count(f.InstAdmin, policy.KindIntellectualObject, &registry.IntellectualObject{}))
	// Own consortia + institution, other's consortia.
	assert.EqualValues(t, 3, count(f.InstUser, policy.KindIntellectualObject, &registry.IntellectualObject{}))
	assert.EqualValues(t, 3, count(f.InstUser, policy.KindGenericFile, &registry.GenericFile{}))
	assert.EqualValues(t, 3, count(f.InstUser, policy.KindChecksum, &registry.Checksum{}))
	assert.EqualValues(t, 0, count(nil, policy.KindIntellectualObject, &registry.IntellectualObject{}))

	assert.EqualValues(t, 1, count(f.InstUser, policy.KindInstitution, &registry.Institution{}))
	assert.EqualValues(t, 3, count(f.Admin, policy.KindInstitution, &registry.Institution{}))
	assert.EqualValues(t, 3, count(f.InstAdmin, policy.KindWorkItem, &registry.WorkItem{}))
	assert.EqualValues(t, 0, count(f.InstUser, policy.KindBulkDeleteJob, &registry.BulkDeleteJob{}))
	assert.EqualValues(t, 1, count(f.InstAdmin, policy.KindBulkDeleteJob, &registry.BulkDeleteJob{}))
	assert.EqualValues(t, len(constants.Roles), count(f.InstAdmin, policy.KindRole, &registry.Role{}))
	assert.EqualValues(t, 0, count(f.InstUser, policy.KindRole, &registry.Role{}))
}

// Scoped queries can be filtered further without losing the scope.
func TestScopeComposes(t *testing.T) {
	db := testutil.NewTestDB(t)
	f := testutil.LoadFixtures(t, db)
	auth := policy.NewAuthorizer(db)

	var files []registry.GenericFile
	err := auth.Scope(f.OtherInstUser, policy.KindGenericFile, &registry.GenericFile{}).
		Where("generic_files.institution_id = ?", f.InstOne.ID).
		Find(&files).Error
	require.Nil(t, err)
	require.Len(t, files, 1)
	consortia := f.Object(f.InstOne, constants.AccessConsortia)
	assert.Equal(t, consortia.ID, files[0].IntellectualObjectID)
}
