package audit

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"katydid-course-admin/pkg/course"
	"katydid-course-admin/pkg/form"
	"katydid-course-admin/pkg/idgen"
	"katydid-course-admin/pkg/validator"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := Open(DBConfig{Driver: DriverSQLite, DSN: dsn}, nil)
	require.NoError(t, err)
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})

	ids, err := idgen.NewSnowflake(1)
	require.NoError(t, err)

	store, err := NewStore(context.Background(), db, ids, nil)
	require.NoError(t, err)
	return store
}

func outcomeAt(uuid string, finished time.Time, err error, issued, succeeded []string) *course.Outcome {
	o := &course.Outcome{
		CourseUUID: uuid,
		Plan: &course.Plan{
			CourseUUID: uuid,
			Course:     form.Data{"seo_title": "New Title"},
			Selections: course.Selections{Instructors: []string{"i-1"}},
		},
		Issued:     issued,
		Succeeded:  succeeded,
		Err:        err,
		StartedAt:  finished.Add(-150 * time.Millisecond),
		FinishedAt: finished,
	}
	if err != nil {
		o.Error = err.Error()
	}
	return o
}

// ============================================================================
// 存储测试
// ============================================================================

func TestStore_RecordAndList(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)
	base := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)

	calls := []string{course.CallUpdateCourse, course.CallBulkInstructors}
	require.NoError(t, store.Record(ctx, outcomeAt("c-1", base, nil, calls, calls)))
	require.NoError(t, store.Record(ctx, outcomeAt("c-1", base.Add(time.Minute), errors.New("boom"), calls, calls[:1])))
	require.NoError(t, store.Record(ctx, outcomeAt("c-2", base, nil, calls, calls)))

	entries, err := store.List(ctx, "c-1", 0)
	require.NoError(t, err)
	require.Len(t, entries, 2)

	// 最新的在前
	assert.Equal(t, StatusPartial, entries[0].Status)
	assert.Equal(t, "boom", entries[0].Error)
	assert.Equal(t, []string{course.CallUpdateCourse}, entries[0].Succeeded.Names())
	assert.Equal(t, StatusSuccess, entries[1].Status)
	assert.Equal(t, int64(150), entries[1].DurationMs)
	assert.True(t, entries[1].Issued.Contain(CallBulkInstructors))
	assert.True(t, entries[0].ID.IsValid())
	assert.NotEqual(t, entries[0].ID, entries[1].ID)

	// 负载与摘要
	assert.Len(t, entries[1].Digest, 64)
	courseFields, ok := entries[1].Payload["course"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "New Title", courseFields["seo_title"])

	limited, err := store.List(ctx, "c-1", 1)
	require.NoError(t, err)
	assert.Len(t, limited, 1)

	none, err := store.List(ctx, "nobody", 10)
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestStore_RecordValidationFailure(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	vf := &course.ValidationFailedError{Result: validator.Merge(validator.Result{
		Errors: []*validator.FieldError{validator.NewFieldError("course_name", validator.ErrorLength, validator.MsgCourseNameMinLength, "ab")},
	})}
	outcome := &course.Outcome{CourseUUID: "c-1", Err: vf, Error: vf.Error(), FinishedAt: time.Now()}

	require.NoError(t, store.Record(ctx, outcome))

	entries, err := store.List(ctx, "c-1", 10)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, StatusValidationFailed, entries[0].Status)
	assert.Contains(t, entries[0].Error, "Course name must be at least 3 characters")
	assert.Empty(t, entries[0].Digest)
	assert.Equal(t, CallNone, entries[0].Issued)
}

func TestStore_RecordRequiresCourse(t *testing.T) {
	store := newTestStore(t)

	err := store.Record(context.Background(), &course.Outcome{})
	assert.ErrorIs(t, err, course.ErrMissingCourseUUID)
}

func TestOpen_UnknownDriver(t *testing.T) {
	_, err := Open(DBConfig{Driver: "oracle"}, nil)
	assert.ErrorIs(t, err, ErrUnknownDriver)
}

// ============================================================================
// 调用集合与摘要测试
// ============================================================================

func TestCallSet(t *testing.T) {
	s := NewCallSet(course.CallBulkEligibility, course.CallUpdateCourse, "unknown")

	assert.Equal(t, 2, s.Len())
	assert.Equal(t, []string{course.CallUpdateCourse, course.CallBulkEligibility}, s.Names())
	assert.True(t, s.HasAny(CallUpdatePricing, CallUpdateCourse))
	assert.False(t, s.Contain(CallUpdatePricing))

	raw, err := json.Marshal(s)
	require.NoError(t, err)
	assert.JSONEq(t, `["update_course","bulk_eligibility"]`, string(raw))

	var back CallSet
	require.NoError(t, json.Unmarshal(raw, &back))
	assert.Equal(t, s, back)

	var scanned CallSet
	require.NoError(t, scanned.Scan([]byte("6")))
	assert.Equal(t, CallUpdateCourse|CallCreateSettings, scanned)
	assert.Error(t, scanned.Scan(1.5))
}

func TestDigest(t *testing.T) {
	a, err := Digest(form.Data{"b": 1, "a": "x"})
	require.NoError(t, err)
	b, err := Digest(form.Data{"a": "x", "b": 1})
	require.NoError(t, err)
	c, err := Digest(form.Data{"a": "y", "b": 1})
	require.NoError(t, err)

	assert.Equal(t, a, b)
	assert.NotEqual(t, a, c)
	assert.Len(t, a, 64)
}
