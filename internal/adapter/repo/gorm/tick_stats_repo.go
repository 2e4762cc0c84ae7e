package gormrepo

import (
	"context"
	"errors"
	"fmt"

	"covidsim/internal/adapter/repo/gorm/model"
	"covidsim/internal/app/ports"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type TickStatsRepo struct {
	db *gorm.DB
}

func NewTickStatsRepo(db *gorm.DB) TickStatsRepo {
	return TickStatsRepo{db: db}
}

func (r TickStatsRepo) Append(ctx context.Context, records []ports.TickStatsRecord) error {
	if len(records) == 0 {
		return nil
	}
	rows := make([]model.TickStat, 0, len(records))
	for _, rec := range records {
		rows = append(rows, model.TickStat{
			SessionID:     rec.SessionID,
			Tick:          int32(rec.Tick),
			Healthy:       int32(rec.Healthy),
			Sick:          int32(rec.Sick),
			Dead:          int32(rec.Dead),
			AtHome:        int32(rec.AtHome),
			Walking:       int32(rec.Walking),
			GoingHome:     int32(rec.GoingHome),
			NewInfections: int32(rec.NewInfections),
			Recoveries:    int32(rec.Recoveries),
			Deaths:        int32(rec.Deaths),
			Removed:       int32(rec.Removed),
			RecordedAt:    rec.RecordedAt,
		})
	}
	err := getDBFromCtx(ctx, r.db).Create(&rows).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return fmt.Errorf("%w: %v", ports.ErrConflict, err)
	}
	return err
}

func (r TickStatsRepo) ListBySession(ctx context.Context, sessionID string, limit int) ([]ports.TickStatsRecord, error) {
	rows := []model.TickStat{}
	query := getDBFromCtx(ctx, r.db).
		Where("session_id = ?", sessionID).
		Clauses(clause.OrderBy{
			Columns: []clause.OrderByColumn{{Column: clause.Column{Name: "tick"}, Desc: true}},
		})
	if limit > 0 {
		query = query.Limit(limit)
	}
	if err := query.Find(&rows).Error; err != nil {
		return nil, err
	}

	out := make([]ports.TickStatsRecord, 0, len(rows))
	for _, row := range rows {
		out = append(out, ports.TickStatsRecord{
			SessionID:     row.SessionID,
			Tick:          int(row.Tick),
			Healthy:       int(row.Healthy),
			Sick:          int(row.Sick),
			Dead:          int(row.Dead),
			AtHome:        int(row.AtHome),
			Walking:       int(row.Walking),
			GoingHome:     int(row.GoingHome),
			NewInfections: int(row.NewInfections),
			Recoveries:    int(row.Recoveries),
			Deaths:        int(row.Deaths),
			Removed:       int(row.Removed),
			RecordedAt:    row.RecordedAt,
		})
	}
	return out, nil
}
