package course

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"katydid-course-admin/pkg/api"
	"katydid-course-admin/pkg/cache"
	"katydid-course-admin/pkg/form"
)

type fakeSource struct {
	course      form.Data
	settings    form.Data
	settingsErr error
	courseErr   error
	reads       atomic.Int32
}

func (f *fakeSource) GetCourse(_ context.Context, _ string) (form.Data, error) {
	f.reads.Add(1)
	if f.courseErr != nil {
		return nil, f.courseErr
	}
	return f.course.Clone(), nil
}

func (f *fakeSource) GetCourseSettings(_ context.Context, _ string) (form.Data, error) {
	if f.settingsErr != nil {
		return nil, f.settingsErr
	}
	return f.settings.Clone(), nil
}

func TestLoader_Load(t *testing.T) {
	ctx := context.Background()
	src := &fakeSource{
		course:   form.Data{"uuid": "c-1", "course_name": "Intro to ECG", "category_id": float64(5)},
		settings: form.Data{"uuid": "s-1", "overview": "Learn ECG"},
	}
	l := NewLoader(src, cache.NewMemoryStore(), time.Minute, nil)

	state, err := l.Load(ctx, "c-1")
	require.NoError(t, err)
	assert.Equal(t, "c-1", state.UUID)
	assert.Equal(t, "Intro to ECG", state.Course["course_name"])
	require.True(t, state.HasSettings())
	assert.Equal(t, "s-1", state.Settings.UUID)

	// 第二次读取命中缓存
	cached, err := l.Load(ctx, "c-1")
	require.NoError(t, err)
	assert.Equal(t, int32(1), src.reads.Load())
	assert.Equal(t, state, cached)

	// 失效后重新读取
	require.NoError(t, l.Invalidate(ctx, "c-1"))
	_, err = l.Load(ctx, "c-1")
	require.NoError(t, err)
	assert.Equal(t, int32(2), src.reads.Load())
}

func TestLoader_SettingsNotFound(t *testing.T) {
	src := &fakeSource{
		course:      form.Data{"uuid": "c-1"},
		settingsErr: &api.APIError{StatusCode: 404},
	}
	l := NewLoader(src, nil, 0, nil)

	state, err := l.Load(context.Background(), "c-1")

	require.NoError(t, err)
	assert.Nil(t, state.Settings)
	assert.False(t, state.HasSettings())
}

func TestLoader_SettingsWithoutUUID(t *testing.T) {
	src := &fakeSource{course: form.Data{}, settings: form.Data{"overview": "x"}}

	state, err := NewLoader(src, nil, 0, nil).Load(context.Background(), "c-1")

	require.NoError(t, err)
	assert.False(t, state.HasSettings())
}

func TestLoader_Errors(t *testing.T) {
	ctx := context.Background()
	down := errors.New("backend down")

	_, err := NewLoader(&fakeSource{courseErr: down}, nil, 0, nil).Load(ctx, "c-1")
	assert.ErrorIs(t, err, down)

	_, err = NewLoader(&fakeSource{course: form.Data{}, settingsErr: down}, nil, 0, nil).Load(ctx, "c-1")
	assert.ErrorIs(t, err, down)

	_, err = NewLoader(&fakeSource{}, nil, 0, nil).Load(ctx, "")
	assert.ErrorIs(t, err, ErrMissingCourseUUID)

	// 没有缓存时失效是空操作
	assert.NoError(t, NewLoader(&fakeSource{}, nil, 0, nil).Invalidate(ctx, "c-1"))
}

func TestLoader_CorruptCacheFallsBack(t *testing.T) {
	ctx := context.Background()
	store := cache.NewMemoryStore()
	require.NoError(t, store.Set(ctx, cacheKey("c-1"), []byte("not json"), time.Minute))

	src := &fakeSource{course: form.Data{"uuid": "c-1"}, settingsErr: api.ErrNotFound}
	state, err := NewLoader(src, store, time.Minute, nil).Load(ctx, "c-1")

	require.NoError(t, err)
	assert.Equal(t, "c-1", state.UUID)
	assert.Equal(t, int32(1), src.reads.Load())
}
