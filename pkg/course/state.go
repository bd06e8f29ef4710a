// Package course 课程保存流程：类型转换、按资源拆分、变化检测、分区验证，
// 验证通过后并发调用后端接口
package course

import (
	"katydid-course-admin/pkg/form"
)

// SettingsRecord 已加载的课程设置记录
type SettingsRecord struct {
	UUID   string    `json:"uuid"`
	Fields form.Data `json:"fields"`
}

// Selections 关联实体的当前选择（UUID 列表）
type Selections struct {
	Eligibilities                []string `json:"eligibilities,omitempty"`
	Instructors                  []string `json:"instructors,omitempty"`
	AccreditationPartners        []string `json:"accreditation_partners,omitempty"`
	ClinicalObservershipPartners []string `json:"clinical_observership_partners,omitempty"`
}

// IsEmpty 没有任何选择
func (s Selections) IsEmpty() bool {
	return len(s.Eligibilities) == 0 &&
		len(s.Instructors) == 0 &&
		len(s.AccreditationPartners) == 0 &&
		len(s.ClinicalObservershipPartners) == 0
}

// State 保存前的课程快照
//
// Course 是课程实体当前的字段值，用于课程字段的变化检测；
// Settings 为 nil 表示设置记录尚未创建（保存时走创建接口）
type State struct {
	UUID       string          `json:"uuid"`
	Course     form.Data       `json:"course"`
	Settings   *SettingsRecord `json:"settings,omitempty"`
	Selections Selections      `json:"selections"`
}

// HasSettings 设置记录是否已加载
func (s *State) HasSettings() bool {
	return s.Settings != nil && s.Settings.UUID != ""
}

// newSettingsRecord 从接口返回的设置数据构造记录，没有 uuid 时视为不存在
func newSettingsRecord(data form.Data) *SettingsRecord {
	uuid, _ := data.GetString("uuid")
	if uuid == "" {
		return nil
	}
	return &SettingsRecord{UUID: uuid, Fields: data}
}
