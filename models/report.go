package models

import "time"

type ReportStatus string

const (
	ReportOpen      ReportStatus = "OPEN"
	ReportResolved  ReportStatus = "RESOLVED"
	ReportDismissed ReportStatus = "DISMISSED"
)

func (s ReportStatus) Valid() bool {
	switch s {
	case ReportOpen, ReportResolved, ReportDismissed:
		return true
	}
	return false
}

type Report struct {
	ID          int64        `json:"id,string" gorm:"column:report_id;primaryKey;autoIncrement:false"`
	CommunityID int64        `json:"community_id,string" gorm:"column:community_id;not null;index:idx_report_community_status,priority:1"`
	TargetType  TargetType   `json:"target_type" gorm:"column:target_type;size:8;not null"`
	TargetID    int64        `json:"target_id,string" gorm:"column:target_id;not null;index"`
	ReporterID  int64        `json:"reporter_id,string" gorm:"column:reporter_id;not null"`
	Reason      string       `json:"reason" gorm:"column:reason;size:1000;not null"`
	Status      ReportStatus `json:"status" gorm:"column:status;size:16;not null;index:idx_report_community_status,priority:2"`
	Priority    string       `json:"priority,omitempty" gorm:"column:priority;size:16"`
	TriageNote  string       `json:"triage_note,omitempty" gorm:"column:triage_note;size:1000"`
	ResolvedBy  *int64       `json:"resolved_by,string,omitempty" gorm:"column:resolved_by"`
	ResolvedAt  *time.Time   `json:"resolved_at,omitempty" gorm:"column:resolved_at"`
	CreateTime  time.Time    `json:"create_time" gorm:"column:create_time;autoCreateTime"`
}

func (Report) TableName() string {
	return "community_report"
}
