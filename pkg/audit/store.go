// Package audit 课程保存记录：每次保存尝试（包括验证失败的）写入一条记录，按课程查询
package audit

import (
	"context"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
	"golang.org/x/crypto/blake2b"
	"gorm.io/gorm"

	"katydid-course-admin/pkg/course"
	"katydid-course-admin/pkg/form"
	"katydid-course-admin/pkg/idgen"
)

// 保存结果
const (
	StatusSuccess          = "success"
	StatusValidationFailed = "validation_failed"
	StatusPartial          = "partial"
	StatusFailed           = "failed"
)

const (
	defaultListLimit = 50
	maxListLimit     = 500
)

// Entry 一次保存尝试
type Entry struct {
	ID         idgen.ID  `gorm:"primaryKey;autoIncrement:false" json:"id"`
	CourseUUID string    `gorm:"size:64;not null;index:idx_course_save_audit,priority:1" json:"course_uuid"`
	Status     string    `gorm:"size:32;not null" json:"status"`
	Issued     CallSet   `gorm:"not null;default:0" json:"issued"`
	Succeeded  CallSet   `gorm:"not null;default:0" json:"succeeded"`
	Error      string    `gorm:"type:text" json:"error,omitempty"`
	Payload    form.Data `gorm:"type:text" json:"payload,omitempty"`
	Digest     string    `gorm:"size:64" json:"digest,omitempty"`
	DurationMs int64     `json:"duration_ms"`
	CreatedAt  time.Time `gorm:"index:idx_course_save_audit,priority:2" json:"created_at"`
}

func (Entry) TableName() string {
	return "course_save_audit"
}

// Store 保存记录的存储，实现 course.Recorder
type Store struct {
	db     *gorm.DB
	ids    idgen.Generator
	logger *zap.Logger
}

var _ course.Recorder = (*Store)(nil)

// NewStore 创建存储并迁移表结构
func NewStore(ctx context.Context, db *gorm.DB, ids idgen.Generator, logger *zap.Logger) (*Store, error) {
	if db == nil || ids == nil {
		return nil, errors.New("audit store requires a database and an id generator")
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if err := db.WithContext(ctx).AutoMigrate(&Entry{}); err != nil {
		return nil, fmt.Errorf("migrating audit table: %w", err)
	}
	return &Store{db: db, ids: ids, logger: logger}, nil
}

// Record 写入一次保存的结果
func (s *Store) Record(ctx context.Context, outcome *course.Outcome) error {
	entry, err := NewEntry(outcome)
	if err != nil {
		return err
	}
	if entry.ID, err = s.ids.NextID(); err != nil {
		return fmt.Errorf("generating audit id: %w", err)
	}
	if err := s.db.WithContext(ctx).Create(entry).Error; err != nil {
		return fmt.Errorf("writing audit entry: %w", err)
	}
	s.logger.Debug("audit entry recorded",
		zap.Stringer("id", entry.ID),
		zap.String("course_uuid", entry.CourseUUID),
		zap.String("status", entry.Status))
	return nil
}

// List 按时间倒序返回课程的保存记录，limit <= 0 时使用默认值
func (s *Store) List(ctx context.Context, courseUUID string, limit int) ([]Entry, error) {
	switch {
	case limit <= 0:
		limit = defaultListLimit
	case limit > maxListLimit:
		limit = maxListLimit
	}

	var entries []Entry
	err := s.db.WithContext(ctx).
		Where("course_uuid = ?", courseUUID).
		Order("created_at DESC").
		Order("id DESC").
		Limit(limit).
		Find(&entries).Error
	if err != nil {
		return nil, fmt.Errorf("listing audit entries: %w", err)
	}
	return entries, nil
}

// NewEntry 由保存结果构造记录（不含ID）
func NewEntry(outcome *course.Outcome) (*Entry, error) {
	if outcome == nil || outcome.CourseUUID == "" {
		return nil, course.ErrMissingCourseUUID
	}

	entry := &Entry{
		CourseUUID: outcome.CourseUUID,
		Status:     statusOf(outcome),
		Issued:     NewCallSet(outcome.Issued...),
		Succeeded:  NewCallSet(outcome.Succeeded...),
		Error:      outcome.Error,
		DurationMs: outcome.FinishedAt.Sub(outcome.StartedAt).Milliseconds(),
		CreatedAt:  outcome.FinishedAt,
	}
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now()
	}

	if outcome.Plan != nil {
		entry.Payload = payloadOf(outcome.Plan)
		digest, err := Digest(entry.Payload)
		if err != nil {
			return nil, err
		}
		entry.Digest = digest
	}
	return entry, nil
}

func statusOf(outcome *course.Outcome) string {
	switch {
	case outcome.Err == nil:
		return StatusSuccess
	case errors.Is(outcome.Err, course.ErrValidationFailed):
		return StatusValidationFailed
	case outcome.PartiallyApplied():
		return StatusPartial
	default:
		return StatusFailed
	}
}

func payloadOf(plan *course.Plan) form.Data {
	payload := form.NewData(4)
	if !plan.Course.IsEmpty() {
		payload.Set("course", plan.Course)
	}
	if !plan.Settings.IsEmpty() {
		payload.Set("settings", plan.Settings)
		if plan.SettingsUUID != "" {
			payload.Set("settings_uuid", plan.SettingsUUID)
		}
	}
	if !plan.Pricing.IsEmpty() {
		payload.Set("pricing", plan.Pricing)
	}
	if !plan.Selections.IsEmpty() {
		payload.Set("selections", plan.Selections)
	}
	return payload
}

// Digest 负载的 BLAKE2b-256 摘要（十六进制），用于比对两次保存的内容是否相同
func Digest(payload form.Data) (string, error) {
	raw, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("encoding audit payload: %w", err)
	}
	sum := blake2b.Sum256(raw)
	return hex.EncodeToString(sum[:]), nil
}
