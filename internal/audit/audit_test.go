package audit_test

import (
	"context"
	"testing"
	"time"

	"github.com/emrgen/compliance/internal/audit"
	"github.com/emrgen/compliance/internal/model"
	"github.com/emrgen/compliance/internal/store"
	"github.com/emrgen/compliance/internal/tester"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestStoreSinkRecord(t *testing.T) {
	tester.RemoveDBFile()
	tester.Setup()

	st := store.NewGormStore(tester.TestDB())
	sink := audit.NewStoreSink(st)

	versionID := uuid.New().String()
	documentID := uuid.New().String()

	sink.Record(context.TODO(), audit.Event{
		PrincipalID: uuid.New().String(),
		DocumentID:  documentID,
		VersionID:   &versionID,
		Action:      audit.ActionDownload,
		AccessLevel: "VIEWER",
	})

	var entries []model.AccessLogEntry
	assert.NoError(t, tester.TestDB().Find(&entries).Error)
	assert.Len(t, entries, 1)
	assert.Equal(t, documentID, entries[0].DocumentID)
	assert.Equal(t, "DOWNLOAD", entries[0].Action)
	assert.Equal(t, "VIEWER", entries[0].AccessLevel)
	assert.False(t, entries[0].CreatedAt.IsZero())
}

func TestDeleteAccessLogsBefore(t *testing.T) {
	tester.RemoveDBFile()
	tester.Setup()

	st := store.NewGormStore(tester.TestDB())
	sink := audit.NewStoreSink(st)

	old := time.Now().UTC().Add(-48 * time.Hour)
	sink.Record(context.TODO(), audit.Event{
		PrincipalID: uuid.New().String(),
		DocumentID:  uuid.New().String(),
		Action:      audit.ActionView,
		At:          old,
	})
	sink.Record(context.TODO(), audit.Event{
		PrincipalID: uuid.New().String(),
		DocumentID:  uuid.New().String(),
		Action:      audit.ActionView,
	})

	removed, err := st.DeleteAccessLogsBefore(context.TODO(), time.Now().UTC().Add(-24*time.Hour))
	assert.NoError(t, err)
	assert.Equal(t, int64(1), removed)

	var entries []model.AccessLogEntry
	assert.NoError(t, tester.TestDB().Find(&entries).Error)
	assert.Len(t, entries, 1)
}
