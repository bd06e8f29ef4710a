package course

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"katydid-course-admin/pkg/api"
	"katydid-course-admin/pkg/cache"
	"katydid-course-admin/pkg/form"
)

// Source 读取课程快照的后端接口
type Source interface {
	GetCourse(ctx context.Context, courseUUID string) (form.Data, error)
	// GetCourseSettings 课程没有设置记录时返回 api.ErrNotFound
	GetCourseSettings(ctx context.Context, courseUUID string) (form.Data, error)
}

const cacheKeyPrefix = "course:"

// Loader 通过缓存读取课程快照，保存成功后调用 Invalidate 使缓存失效
type Loader struct {
	source Source
	cache  cache.Store
	ttl    time.Duration
	logger *zap.Logger
}

// NewLoader 创建加载器，store 为 nil 时不缓存
func NewLoader(source Source, store cache.Store, ttl time.Duration, logger *zap.Logger) *Loader {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Loader{source: source, cache: store, ttl: ttl, logger: logger}
}

func cacheKey(courseUUID string) string {
	return cacheKeyPrefix + courseUUID
}

// Load 读取课程快照，不包含关联实体的选择
func (l *Loader) Load(ctx context.Context, courseUUID string) (*State, error) {
	if courseUUID == "" {
		return nil, ErrMissingCourseUUID
	}

	if state, ok := l.fromCache(ctx, courseUUID); ok {
		return state, nil
	}

	course, err := l.source.GetCourse(ctx, courseUUID)
	if err != nil {
		return nil, fmt.Errorf("loading course %s: %w", courseUUID, err)
	}

	state := &State{UUID: courseUUID, Course: course}

	settings, err := l.source.GetCourseSettings(ctx, courseUUID)
	switch {
	case err == nil:
		state.Settings = newSettingsRecord(settings)
	case errors.Is(err, api.ErrNotFound):
		// 还没有设置记录，保存时创建
	default:
		return nil, fmt.Errorf("loading course settings %s: %w", courseUUID, err)
	}

	l.toCache(ctx, state)
	return state, nil
}

// Invalidate 使课程快照缓存失效
func (l *Loader) Invalidate(ctx context.Context, courseUUID string) error {
	if l.cache == nil {
		return nil
	}
	return l.cache.Invalidate(ctx, cacheKey(courseUUID))
}

func (l *Loader) fromCache(ctx context.Context, courseUUID string) (*State, bool) {
	if l.cache == nil {
		return nil, false
	}
	raw, err := l.cache.Get(ctx, cacheKey(courseUUID))
	if err != nil {
		if !cache.IsMiss(err) {
			l.logger.Warn("reading course cache", zap.String("course_uuid", courseUUID), zap.Error(err))
		}
		return nil, false
	}

	var state State
	if err := json.Unmarshal(raw, &state); err != nil {
		l.logger.Warn("decoding cached course", zap.String("course_uuid", courseUUID), zap.Error(err))
		return nil, false
	}
	return &state, true
}

func (l *Loader) toCache(ctx context.Context, state *State) {
	if l.cache == nil {
		return
	}
	raw, err := json.Marshal(state)
	if err != nil {
		l.logger.Warn("encoding course for cache", zap.String("course_uuid", state.UUID), zap.Error(err))
		return
	}
	if err := l.cache.Set(ctx, cacheKey(state.UUID), raw, l.ttl); err != nil {
		l.logger.Warn("writing course cache", zap.String("course_uuid", state.UUID), zap.Error(err))
	}
}
