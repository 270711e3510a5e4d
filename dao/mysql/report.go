package mysql

import (
	"context"
	"time"

	"forumcore/logic"
	"forumcore/models"
)

func (s *Store) CreateReport(ctx context.Context, r *models.Report) error {
	return wrap("insert report", s.conn(ctx).Create(r).Error)
}

func (s *Store) GetReportByID(ctx context.Context, id int64) (*models.Report, error) {
	return first[models.Report](s.conn(ctx).Where("report_id = ?", id), "query report by id")
}

func (s *Store) HasOpenReport(ctx context.Context, reporterID int64, target models.Target) (bool, error) {
	var count int64
	err := s.conn(ctx).Model(&models.Report{}).
		Where("reporter_id = ? AND target_type = ? AND target_id = ? AND status = ?",
			reporterID, target.Type, target.ID, models.ReportOpen).
		Count(&count).Error
	if err != nil {
		return false, wrap("count open reports", err)
	}
	return count > 0, nil
}

// ListReports 新举报在前
func (s *Store) ListReports(ctx context.Context, q logic.ReportQuery) ([]*models.Report, error) {
	tx := s.conn(ctx).Where("community_id = ? AND status = ?", q.CommunityID, q.Status)
	if q.BeforeID > 0 {
		tx = tx.Where("report_id < ?", q.BeforeID)
	}
	if q.Limit > 0 {
		tx = tx.Limit(q.Limit)
	}
	list := make([]*models.Report, 0)
	if err := tx.Order("report_id DESC").Find(&list).Error; err != nil {
		return nil, wrap("query report list", err)
	}
	return list, nil
}

func (s *Store) CloseReport(ctx context.Context, id int64, status models.ReportStatus, resolverID int64, at time.Time) (bool, error) {
	res := s.conn(ctx).Model(&models.Report{}).
		Where("report_id = ? AND status = ?", id, models.ReportOpen).
		Updates(map[string]any{"status": status, "resolved_by": resolverID, "resolved_at": at})
	if res.Error != nil {
		return false, wrap("close report", res.Error)
	}
	return res.RowsAffected > 0, nil
}

func (s *Store) SetReportTriage(ctx context.Context, id int64, priority, note string) error {
	err := s.conn(ctx).Model(&models.Report{}).
		Where("report_id = ?", id).
		Updates(map[string]any{"priority": priority, "triage_note": note}).Error
	return wrap("set report triage", err)
}

// CreateModLog modlog 只追加
func (s *Store) CreateModLog(ctx context.Context, l *models.ModLog) error {
	return wrap("insert modlog", s.conn(ctx).Create(l).Error)
}

func (s *Store) ListModLogs(ctx context.Context, communityID, beforeID int64, limit int) ([]*models.ModLog, error) {
	tx := s.conn(ctx).Where("community_id = ?", communityID)
	if beforeID > 0 {
		tx = tx.Where("modlog_id < ?", beforeID)
	}
	if limit > 0 {
		tx = tx.Limit(limit)
	}
	list := make([]*models.ModLog, 0)
	if err := tx.Order("modlog_id DESC").Find(&list).Error; err != nil {
		return nil, wrap("query modlog list", err)
	}
	return list, nil
}
