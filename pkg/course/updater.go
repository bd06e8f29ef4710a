package course

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/go-cmp/cmp"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"katydid-course-admin/pkg/form"
	"katydid-course-admin/pkg/validator"
)

// 保存时可能发出的调用
const (
	CallUpdateCourse                     = "update_course"
	CallCreateSettings                   = "create_settings"
	CallUpdateSettings                   = "update_settings"
	CallUpdatePricing                    = "update_pricing"
	CallBulkEligibility                  = "bulk_eligibility"
	CallBulkInstructors                  = "bulk_instructors"
	CallBulkAccreditationPartners        = "bulk_accreditation_partners"
	CallBulkClinicalObservershipPartners = "bulk_clinical_observership_partners"
)

// API 保存流程依赖的后端接口
type API interface {
	UpdateCourse(ctx context.Context, courseUUID string, fields form.Data) error
	CreateCourseSettings(ctx context.Context, courseUUID string, fields form.Data) error
	UpdateCourseSettings(ctx context.Context, settingsUUID string, fields form.Data) error
	UpdateCoursePricing(ctx context.Context, courseUUID string, fields form.Data) error
	BulkCourseEligibility(ctx context.Context, courseUUID string, uuids []string) error
	BulkLinkInstructors(ctx context.Context, courseUUID string, uuids []string) error
	BulkAccreditationPartners(ctx context.Context, courseUUID string, uuids []string) error
	BulkClinicalObservershipPartners(ctx context.Context, courseUUID string, uuids []string) error
}

// Recorder 记录每一次保存尝试（包括验证失败的）
type Recorder interface {
	Record(ctx context.Context, outcome *Outcome) error
}

// Plan 一次保存需要发出的请求，由 Updater.Plan 计算，不涉及任何 I/O
type Plan struct {
	CourseUUID string `json:"course_uuid"`
	// Course 变化了的课程字段
	Course form.Data `json:"course,omitempty"`
	// Settings 设置字段，非空即视为整体变化
	Settings form.Data `json:"settings,omitempty"`
	// SettingsUUID 已有设置记录的 UUID，为空时走创建
	SettingsUUID string     `json:"settings_uuid,omitempty"`
	Pricing      form.Data  `json:"pricing,omitempty"`
	Selections   Selections `json:"selections"`
}

// Calls 按固定顺序返回需要发出的调用
func (p *Plan) Calls() []string {
	var calls []string
	if !p.Course.IsEmpty() {
		calls = append(calls, CallUpdateCourse)
	}
	if !p.Settings.IsEmpty() {
		if p.SettingsUUID != "" {
			calls = append(calls, CallUpdateSettings)
		} else {
			calls = append(calls, CallCreateSettings)
		}
	}
	if !p.Pricing.IsEmpty() {
		calls = append(calls, CallUpdatePricing)
	}
	if len(p.Selections.Eligibilities) > 0 {
		calls = append(calls, CallBulkEligibility)
	}
	if len(p.Selections.Instructors) > 0 {
		calls = append(calls, CallBulkInstructors)
	}
	if len(p.Selections.AccreditationPartners) > 0 {
		calls = append(calls, CallBulkAccreditationPartners)
	}
	if len(p.Selections.ClinicalObservershipPartners) > 0 {
		calls = append(calls, CallBulkClinicalObservershipPartners)
	}
	return calls
}

// IsEmpty 没有需要发出的调用
func (p *Plan) IsEmpty() bool {
	return len(p.Calls()) == 0
}

// Outcome 一次保存的结果
// Err 不为 nil 且 Succeeded 非空时，表示部分请求已经生效（不会回滚）
type Outcome struct {
	CourseUUID string    `json:"course_uuid"`
	Plan       *Plan     `json:"plan,omitempty"`
	Issued     []string  `json:"issued"`
	Succeeded  []string  `json:"succeeded"`
	Err        error     `json:"-"`
	Error      string    `json:"error,omitempty"`
	StartedAt  time.Time `json:"started_at"`
	FinishedAt time.Time `json:"finished_at"`
}

// PartiallyApplied 失败但已有请求成功
func (o *Outcome) PartiallyApplied() bool {
	return o.Err != nil && len(o.Succeeded) > 0
}

// Updater 课程保存流程
// 依赖全部通过构造函数注入，自身不持有可变状态，可并发使用
type Updater struct {
	api            API
	validator      *validator.Validator
	logger         *zap.Logger
	recorder       Recorder
	maxConcurrency int
	now            func() time.Time
}

// Option Updater 配置选项
type Option func(*Updater)

// WithValidator 使用自定义验证器
func WithValidator(v *validator.Validator) Option {
	return func(u *Updater) {
		if v != nil {
			u.validator = v
		}
	}
}

// WithLogger 设置日志
func WithLogger(logger *zap.Logger) Option {
	return func(u *Updater) {
		if logger != nil {
			u.logger = logger
		}
	}
}

// WithRecorder 设置保存记录器
func WithRecorder(r Recorder) Option {
	return func(u *Updater) {
		u.recorder = r
	}
}

// WithMaxConcurrency 限制一次保存内同时进行的请求数，<= 0 表示不限制
func WithMaxConcurrency(n int) Option {
	return func(u *Updater) {
		u.maxConcurrency = n
	}
}

// NewUpdater 创建保存流程
func NewUpdater(api API, opts ...Option) *Updater {
	u := &Updater{
		api:       api,
		validator: validator.Default(),
		logger:    zap.NewNop(),
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(u)
	}
	return u
}

// Plan 计算一次保存的请求计划
//
// 步骤：类型转换 → 按资源拆分 → 课程字段逐个与快照比较 → 只验证变化了的部分
// 验证使用用户输入的原始值；任一部分不通过时返回 *ValidationFailedError
func (u *Updater) Plan(original *State, data form.Data) (*Plan, error) {
	if original == nil || original.UUID == "" {
		return nil, ErrMissingCourseUUID
	}

	converted := form.ConvertToAPITypes(data)
	u.logConversions(data, converted)
	buckets := form.SeparateFields(converted)

	changed := changedFields(buckets.Course, original.Course)

	var results []validator.Result
	if !changed.IsEmpty() {
		raw := data.Pick(changed.Keys()...)
		results = append(results, u.validator.ValidateCourseSettings(raw), u.validator.ValidateSEO(raw))
	}
	if !buckets.Settings.IsEmpty() {
		results = append(results, u.validator.ValidateCourseSettings(data.Pick(buckets.Settings.Keys()...)))
	}
	if !buckets.Pricing.IsEmpty() {
		results = append(results, u.validator.ValidatePricing(data.Pick(buckets.Pricing.Keys()...)))
	}
	if result := validator.Merge(results...); !result.IsValid {
		return nil, &ValidationFailedError{Result: result}
	}

	plan := &Plan{
		CourseUUID: original.UUID,
		Course:     changed.Compact(),
		Settings:   buckets.Settings.Compact(),
		Pricing:    buckets.Pricing.Compact(),
		Selections: original.Selections,
	}
	if original.HasSettings() {
		plan.SettingsUUID = original.Settings.UUID
	}
	return plan, nil
}

// changedFields 返回值与快照不同的课程字段，快照中没有的键按 Undefined 比较
func changedFields(fields, snapshot form.Data) form.Data {
	out := form.NewData(len(fields))
	for key, value := range fields {
		prev, ok := snapshot[key]
		if !ok {
			prev = form.Undefined
		}
		if !cmp.Equal(value, prev) {
			out[key] = value
		}
	}
	return out
}

func (u *Updater) logConversions(raw, converted form.Data) {
	if !u.logger.Core().Enabled(zap.DebugLevel) {
		return
	}
	for _, key := range raw.Keys() {
		if kind := form.Classify(key, raw[key]); kind != form.KindPassthrough {
			u.logger.Debug("form value converted",
				zap.String("field", key),
				zap.Stringer("kind", kind),
				zap.Any("from", raw[key]),
				zap.Any("to", converted[key]))
		}
	}
}

// Update 验证并保存
//
// 验证严格先于任何请求；验证失败时不发出任何请求。
// 验证通过后所有请求并发发出，第一个失败的请求取消其余请求并作为结果返回，
// 已经成功的请求不会回滚，调用方应把失败的保存视为可能部分生效
func (u *Updater) Update(ctx context.Context, original *State, data form.Data) (*Outcome, error) {
	outcome := &Outcome{StartedAt: u.now()}
	if original != nil {
		outcome.CourseUUID = original.UUID
	}

	plan, err := u.Plan(original, data)
	if err != nil {
		u.finish(ctx, outcome, err)
		return outcome, err
	}
	outcome.Plan = plan

	err = u.execute(ctx, plan, outcome)
	u.finish(ctx, outcome, err)
	return outcome, err
}

func (u *Updater) execute(ctx context.Context, plan *Plan, outcome *Outcome) error {
	g, gctx := errgroup.WithContext(ctx)
	if u.maxConcurrency > 0 {
		g.SetLimit(u.maxConcurrency)
	}

	calls := plan.Calls()
	var mu sync.Mutex
	for _, name := range calls {
		name := name
		// 已经有请求失败时不再发出新的请求
		if gctx.Err() != nil {
			break
		}
		call := u.callFor(name, plan)
		outcome.Issued = append(outcome.Issued, name)

		g.Go(func() error {
			if err := call(gctx); err != nil {
				return fmt.Errorf("%s: %w", name, err)
			}
			mu.Lock()
			outcome.Succeeded = append(outcome.Succeeded, name)
			mu.Unlock()
			return nil
		})
	}

	err := g.Wait()
	if err == nil && len(outcome.Issued) < len(calls) {
		// 上层上下文在发出全部请求前被取消
		err = ctx.Err()
	}
	return err
}

func (u *Updater) callFor(name string, plan *Plan) func(context.Context) error {
	id := plan.CourseUUID
	sel := plan.Selections
	switch name {
	case CallUpdateCourse:
		return func(ctx context.Context) error { return u.api.UpdateCourse(ctx, id, plan.Course) }
	case CallCreateSettings:
		return func(ctx context.Context) error { return u.api.CreateCourseSettings(ctx, id, plan.Settings) }
	case CallUpdateSettings:
		return func(ctx context.Context) error {
			return u.api.UpdateCourseSettings(ctx, plan.SettingsUUID, plan.Settings)
		}
	case CallUpdatePricing:
		return func(ctx context.Context) error { return u.api.UpdateCoursePricing(ctx, id, plan.Pricing) }
	case CallBulkEligibility:
		return func(ctx context.Context) error { return u.api.BulkCourseEligibility(ctx, id, sel.Eligibilities) }
	case CallBulkInstructors:
		return func(ctx context.Context) error { return u.api.BulkLinkInstructors(ctx, id, sel.Instructors) }
	case CallBulkAccreditationPartners:
		return func(ctx context.Context) error {
			return u.api.BulkAccreditationPartners(ctx, id, sel.AccreditationPartners)
		}
	case CallBulkClinicalObservershipPartners:
		return func(ctx context.Context) error {
			return u.api.BulkClinicalObservershipPartners(ctx, id, sel.ClinicalObservershipPartners)
		}
	default:
		panic("course: unknown call " + name)
	}
}

func (u *Updater) finish(ctx context.Context, outcome *Outcome, err error) {
	outcome.FinishedAt = u.now()
	outcome.Err = err
	if err != nil {
		outcome.Error = err.Error()
	}

	fields := []zap.Field{
		zap.String("course_uuid", outcome.CourseUUID),
		zap.Strings("issued", outcome.Issued),
		zap.Strings("succeeded", outcome.Succeeded),
		zap.Duration("elapsed", outcome.FinishedAt.Sub(outcome.StartedAt)),
	}
	switch {
	case err == nil:
		u.logger.Info("course saved", fields...)
	case outcome.PartiallyApplied():
		u.logger.Error("course save partially applied", append(fields, zap.Error(err))...)
	default:
		u.logger.Warn("course save failed", append(fields, zap.Error(err))...)
	}

	if u.recorder == nil || outcome.CourseUUID == "" {
		return
	}
	// 请求被取消也要留下记录
	if rerr := u.recorder.Record(context.WithoutCancel(ctx), outcome); rerr != nil {
		u.logger.Error("recording course save", zap.String("course_uuid", outcome.CourseUUID), zap.Error(rerr))
	}
}
