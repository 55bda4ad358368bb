package testutil

import (
	"fmt"
	"testing"
	"time"

	"github.com/APTrust/pharos/constants"
	"github.com/APTrust/pharos/models/registry"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

var Bloomsday, _ = time.Parse(time.RFC3339, "1904-06-16T15:04:05Z")
var EmptyMd5 = "00000000000000000000000000000000"
var EmptySha256 = EmptyMd5 + EmptyMd5

const (
	APTrustIdentifier = "aptrust.org"
	InstOneIdentifier = "test.edu"
	InstTwoIdentifier = "example.edu"
	APIKey            = "password-for-tests"
)

// Fixtures is a small, complete registry: three institutions, a user
// of each role, one object per institution and access level, and a
// file with checksum, storage record and events under each object.
// InstTwo is a subscriber of InstOne.
type Fixtures struct {
	APTrust        *registry.Institution
	InstOne        *registry.Institution
	InstTwo        *registry.Institution
	Admin          *registry.User
	InstAdmin      *registry.User
	InstUser       *registry.User
	OtherInstAdmin *registry.User
	OtherInstUser  *registry.User
	Objects        []*registry.IntellectualObject
	Files          []*registry.GenericFile
	Checksums      []*registry.Checksum
	StorageRecords []*registry.StorageRecord
	Events         []*registry.PremisEvent
	WorkItems      []*registry.WorkItem
	BulkDeleteJobs []*registry.BulkDeleteJob
}

// Users returns every fixture user plus a role-less user and a
// nil user, for tests that must cover all principals.
func (f *Fixtures) Users() []*registry.User {
	noRole := &registry.User{ID: 9999, Email: "norole@test.edu", InstitutionID: f.InstOne.ID, Enabled: true}
	return []*registry.User{
		f.Admin,
		f.InstAdmin,
		f.InstUser,
		f.OtherInstAdmin,
		f.OtherInstUser,
		noRole,
		nil,
	}
}

// Object returns the fixture object for the institution and access.
func (f *Fixtures) Object(inst *registry.Institution, access string) *registry.IntellectualObject {
	for _, obj := range f.Objects {
		if obj.InstitutionID == inst.ID && obj.Access == access {
			return obj
		}
	}
	return nil
}

// FileOf returns the fixture file belonging to obj.
func (f *Fixtures) FileOf(obj *registry.IntellectualObject) *registry.GenericFile {
	for _, gf := range f.Files {
		if gf.IntellectualObjectID == obj.ID {
			return gf
		}
	}
	return nil
}

// LoadFixtures saves a fresh set of fixtures into db.
func LoadFixtures(t *testing.T, db *gorm.DB) *Fixtures {
	t.Helper()
	f := &Fixtures{}
	f.APTrust = mustCreate(t, db, GetInstitution(APTrustIdentifier, constants.InstTypeMember, nil))
	f.InstOne = mustCreate(t, db, GetInstitution(InstOneIdentifier, constants.InstTypeMember, nil))
	f.InstTwo = mustCreate(t, db, GetInstitution(InstTwoIdentifier, constants.InstTypeSubscription, &f.InstOne.ID))

	f.Admin = mustCreate(t, db, GetUser("admin@aptrust.org", f.APTrust.ID, constants.RoleAdmin))
	f.InstAdmin = mustCreate(t, db, GetUser("admin@test.edu", f.InstOne.ID, constants.RoleInstAdmin))
	f.InstUser = mustCreate(t, db, GetUser("user@test.edu", f.InstOne.ID, constants.RoleInstUser))
	f.OtherInstAdmin = mustCreate(t, db, GetUser("admin@example.edu", f.InstTwo.ID, constants.RoleInstAdmin))
	f.OtherInstUser = mustCreate(t, db, GetUser("user@example.edu", f.InstTwo.ID, constants.RoleInstUser))

	for _, inst := range []*registry.Institution{f.InstOne, f.InstTwo} {
		for _, access := range constants.AccessLevels {
			obj := mustCreate(t, db, GetIntellectualObject(inst, access))
			f.Objects = append(f.Objects, obj)

			gf := mustCreate(t, db, GetGenericFileForObj(obj, 1))
			f.Files = append(f.Files, gf)
			f.Checksums = append(f.Checksums, mustCreate(t, db, GetChecksum(gf, constants.AlgSha256)))
			f.StorageRecords = append(f.StorageRecords, mustCreate(t, db, GetStorageRecord(gf)))

			f.Events = append(f.Events, mustCreate(t, db, GetObjectEvent(obj, constants.EventIngestion)))
			f.Events = append(f.Events, mustCreate(t, db, GetFileEvent(gf, constants.EventFixityCheck)))

			f.WorkItems = append(f.WorkItems, mustCreate(t, db, GetWorkItem(obj, constants.ActionIngest, constants.StageCleanup, constants.StatusSuccess)))
		}
		f.BulkDeleteJobs = append(f.BulkDeleteJobs, mustCreate(t, db, &registry.BulkDeleteJob{
			InstitutionID: inst.ID,
			RequestedBy:   "admin@" + inst.Identifier,
			Note:          "Fixture bulk delete",
		}))
	}
	return f
}

func mustCreate[T any](t *testing.T, db *gorm.DB, record *T) *T {
	t.Helper()
	if err := db.Create(record).Error; err != nil {
		t.Fatalf("Cannot create %T fixture: %v", record, err)
	}
	return record
}

func GetInstitution(identifier, instType string, memberID *int64) *registry.Institution {
	return &registry.Institution{
		Identifier:          identifier,
		Name:                fmt.Sprintf("Institution %s", identifier),
		Type:                instType,
		MemberInstitutionID: memberID,
		State:               constants.StateActive,
		ReceivingBucket:     "aptrust.receiving." + identifier,
		RestoreBucket:       "aptrust.restore." + identifier,
	}
}

func GetUser(email string, institutionID int64, role string) *registry.User {
	user := &registry.User{
		Name:          email,
		Email:         email,
		InstitutionID: institutionID,
		Role:          role,
		Enabled:       true,
	}
	user.SetAPIKey(APIKey)
	return user
}

func GetIntellectualObject(inst *registry.Institution, access string) *registry.IntellectualObject {
	bagName := fmt.Sprintf("bag-%s", access)
	return &registry.IntellectualObject{
		Access:             access,
		AltIdentifier:      "AltIdentifier001",
		BagGroupIdentifier: "BagGroup001",
		BagName:            bagName,
		Description:        "Test bag from factory",
		ETag:               "86753098675309",
		Identifier:         fmt.Sprintf("%s/%s", inst.Identifier, bagName),
		InstitutionID:      inst.ID,
		State:              constants.StateActive,
		StorageOption:      constants.StorageStandard,
		Title:              fmt.Sprintf("Test Bag %s", access),
	}
}

func GetGenericFileForObj(obj *registry.IntellectualObject, suffix int) *registry.GenericFile {
	return &registry.GenericFile{
		FileFormat:           "text/plain",
		Identifier:           fmt.Sprintf("%s/data/file_%d.txt", obj.Identifier, suffix),
		InstitutionID:        obj.InstitutionID,
		IntellectualObjectID: obj.ID,
		LastFixityCheck:      Bloomsday,
		Size:                 484896,
		State:                constants.StateActive,
		StorageOption:        constants.StorageStandard,
		UUID:                 uuid.New().String(),
	}
}

func GetChecksum(gf *registry.GenericFile, alg string) *registry.Checksum {
	return &registry.Checksum{
		Algorithm:     alg,
		DateTime:      Bloomsday,
		Digest:        EmptySha256,
		GenericFileID: gf.ID,
	}
}

func GetStorageRecord(gf *registry.GenericFile) *registry.StorageRecord {
	return &registry.StorageRecord{
		GenericFileID: gf.ID,
		URL:           "https://s3.example.com/preservation/" + gf.UUID,
	}
}

func GetObjectEvent(obj *registry.IntellectualObject, eventType string) *registry.PremisEvent {
	return &registry.PremisEvent{
		Agent:                "Maxwell Smart",
		DateTime:             Bloomsday,
		Detail:               "Fake event detail",
		EventType:            eventType,
		Identifier:           uuid.New().String(),
		InstitutionID:        obj.InstitutionID,
		IntellectualObjectID: Int64Pointer(obj.ID),
		Object:               "Fake event object",
		OutcomeDetail:        "Fake outcome detail",
		OutcomeInformation:   "Fake outcome information",
		Outcome:              constants.OutcomeSuccess,
	}
}

func GetFileEvent(gf *registry.GenericFile, eventType string) *registry.PremisEvent {
	return &registry.PremisEvent{
		Agent:                "Maxwell Smart",
		DateTime:             Bloomsday,
		Detail:               "Fake event detail",
		EventType:            eventType,
		Identifier:           uuid.New().String(),
		InstitutionID:        gf.InstitutionID,
		IntellectualObjectID: Int64Pointer(gf.IntellectualObjectID),
		GenericFileID:        Int64Pointer(gf.ID),
		Object:               "Fake event object",
		OutcomeDetail:        "Fake outcome detail",
		OutcomeInformation:   "Fake outcome information",
		Outcome:              constants.OutcomeSuccess,
	}
}

func GetWorkItem(obj *registry.IntellectualObject, action, stage, status string) *registry.WorkItem {
	return &registry.WorkItem{
		Action:               action,
		BagDate:              Bloomsday,
		Bucket:               "aptrust.receiving.test.edu",
		DateProcessed:        Bloomsday,
		ETag:                 "12345678",
		InstitutionID:        obj.InstitutionID,
		IntellectualObjectID: Int64Pointer(obj.ID),
		Name:                 obj.BagName + ".tar",
		Note:                 "Fake note",
		ObjectIdentifier:     obj.Identifier,
		Outcome:              "Fake outcome",
		Size:                 8888,
		Stage:                stage,
		Status:               status,
		User:                 "user@test.edu",
	}
}
