package event

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jwalitptl/hospital-api/internal/model"
)

type fakeOutboxRepo struct {
	created []*model.OutboxEvent
}

func (f *fakeOutboxRepo) Create(_ context.Context, event *model.OutboxEvent) error {
	f.created = append(f.created, event)
	return nil
}

func (f *fakeOutboxRepo) GetPendingEvents(_ context.Context, _ int) ([]*model.OutboxEvent, error) {
	return nil, nil
}

func (f *fakeOutboxRepo) MarkProcessed(_ context.Context, _ uuid.UUID) error { return nil }

func (f *fakeOutboxRepo) MarkFailed(_ context.Context, _ uuid.UUID, _ string) error { return nil }

func (f *fakeOutboxRepo) DeleteProcessedBefore(_ context.Context, _ time.Time) (int64, error) {
	return 0, nil
}

func TestEmitWritesOutboxEvent(t *testing.T) {
	repo := &fakeOutboxRepo{}
	svc := NewService(repo)

	payload := model.AssignmentEventPayload{
		OwnerID: 1,
		Results: []model.AssignmentResult{
			{MemberID: 10, Succeeded: true},
			{MemberID: 11, Succeeded: false, Reason: model.ReasonAlreadyAssigned},
		},
	}

	err := svc.Emit(context.Background(), model.EventDepartmentDoctorsAssigned, payload)
	require.NoError(t, err)

	require.Len(t, repo.created, 1)
	event := repo.created[0]
	assert.Equal(t, model.EventDepartmentDoctorsAssigned, event.EventType)

	var got model.AssignmentEventPayload
	require.NoError(t, json.Unmarshal(event.Payload, &got))
	assert.Equal(t, payload, got)
}

func TestEmitRejectsUnmarshalablePayload(t *testing.T) {
	svc := NewService(&fakeOutboxRepo{})

	err := svc.Emit(context.Background(), model.EventDepartmentDoctorsAssigned, make(chan int))
	require.Error(t, err)
}
