package api

import (
	"context"
	"net/http"

	"katydid-course-admin/pkg/form"
)

// GetCourse 读取课程实体
func (c *Client) GetCourse(ctx context.Context, courseUUID string) (form.Data, error) {
	var out form.Data
	if err := c.do(ctx, http.MethodGet, pathf("/api/courses/%s", courseUUID), nil, &out, callOptions{}); err != nil {
		return nil, err
	}
	return out, nil
}

// UpdateCourse 部分更新课程实体，payload 只包含变化的字段
func (c *Client) UpdateCourse(ctx context.Context, courseUUID string, fields form.Data) error {
	return c.do(ctx, http.MethodPut, pathf("/api/courses/%s", courseUUID), fields.Compact(), nil, callOptions{})
}

// GetCourseSettings 读取课程设置，课程还没有设置时返回 ErrNotFound
func (c *Client) GetCourseSettings(ctx context.Context, courseUUID string) (form.Data, error) {
	var out form.Data
	if err := c.do(ctx, http.MethodGet, pathf("/api/course-settings/course/%s", courseUUID), nil, &out, callOptions{}); err != nil {
		return nil, err
	}
	if out.IsEmpty() {
		return nil, ErrNotFound
	}
	return out, nil
}

// CreateCourseSettings 为课程创建设置记录
func (c *Client) CreateCourseSettings(ctx context.Context, courseUUID string, fields form.Data) error {
	return c.do(ctx, http.MethodPost, pathf("/api/course-settings/course/%s", courseUUID), fields.Compact(), nil, callOptions{})
}

// UpdateCourseSettings 部分更新已有的设置记录
func (c *Client) UpdateCourseSettings(ctx context.Context, settingsUUID string, fields form.Data) error {
	return c.do(ctx, http.MethodPut, pathf("/api/course-settings/%s", settingsUUID), fields.Compact(), nil, callOptions{})
}

// UpdateCoursePricing 部分更新课程价格
func (c *Client) UpdateCoursePricing(ctx context.Context, courseUUID string, fields form.Data) error {
	return c.do(ctx, http.MethodPut, pathf("/api/course-pricing/%s", courseUUID), fields.Compact(), nil, callOptions{})
}

// ============================================================================
// 关联实体批量覆盖
// ============================================================================

type eligibilityBulk struct {
	EligibilityUUIDs []string `json:"eligibility_uuids"`
}

type instructorBulk struct {
	InstructorUUIDs []string `json:"instructor_uuids"`
}

type accreditationBulk struct {
	AccreditationPartnerUUIDs []string `json:"accreditation_partner_uuids"`
}

type clinicalObservershipBulk struct {
	ClinicalObservershipPartnerUUIDs []string `json:"clinical_observership_partner_uuids"`
}

// BulkCourseEligibility 用 uuids 覆盖课程的报名资格列表
func (c *Client) BulkCourseEligibility(ctx context.Context, courseUUID string, uuids []string) error {
	return c.do(ctx, http.MethodPut,
		pathf("/api/courses/%s/eligibility/bulk", courseUUID),
		eligibilityBulk{EligibilityUUIDs: uuids}, nil, callOptions{requireSuccess: true})
}

// BulkLinkInstructors 用 uuids 覆盖课程的讲师列表
func (c *Client) BulkLinkInstructors(ctx context.Context, courseUUID string, uuids []string) error {
	return c.do(ctx, http.MethodPut,
		pathf("/api/instructors-linking/course/%s/instructors/bulk", courseUUID),
		instructorBulk{InstructorUUIDs: uuids}, nil, callOptions{requireSuccess: true})
}

// BulkAccreditationPartners 用 uuids 覆盖课程的认证合作方
func (c *Client) BulkAccreditationPartners(ctx context.Context, courseUUID string, uuids []string) error {
	return c.do(ctx, http.MethodPut,
		pathf("/api/courses/%s/accreditation-partners/bulk", courseUUID),
		accreditationBulk{AccreditationPartnerUUIDs: uuids}, nil, callOptions{requireSuccess: true})
}

// BulkClinicalObservershipPartners 用 uuids 覆盖课程的临床见习合作方
func (c *Client) BulkClinicalObservershipPartners(ctx context.Context, courseUUID string, uuids []string) error {
	return c.do(ctx, http.MethodPut,
		pathf("/api/courses/%s/clinical-observership-partners/bulk", courseUUID),
		clinicalObservershipBulk{ClinicalObservershipPartnerUUIDs: uuids}, nil, callOptions{requireSuccess: true})
}
