package model

import "time"

const TableNameTickStat = "tick_stats"

type TickStat struct {
	ID            int64     `gorm:"column:id;primaryKey;autoIncrement:true" json:"id"`
	SessionID     string    `gorm:"column:session_id;not null;uniqueIndex:tick_stats_session_tick,priority:1" json:"session_id"`
	Tick          int32     `gorm:"column:tick;not null;uniqueIndex:tick_stats_session_tick,priority:2" json:"tick"`
	Healthy       int32     `gorm:"column:healthy;not null" json:"healthy"`
	Sick          int32     `gorm:"column:sick;not null" json:"sick"`
	Dead          int32     `gorm:"column:dead;not null" json:"dead"`
	AtHome        int32     `gorm:"column:at_home;not null" json:"at_home"`
	Walking       int32     `gorm:"column:walking;not null" json:"walking"`
	GoingHome     int32     `gorm:"column:going_home;not null" json:"going_home"`
	NewInfections int32     `gorm:"column:new_infections;not null" json:"new_infections"`
	Recoveries    int32     `gorm:"column:recoveries;not null" json:"recoveries"`
	Deaths        int32     `gorm:"column:deaths;not null" json:"deaths"`
	Removed       int32     `gorm:"column:removed;not null" json:"removed"`
	RecordedAt    time.Time `gorm:"column:recorded_at;not null;default:now()" json:"recorded_at"`
}

func (*TickStat) TableName() string {
	return TableNameTickStat
}
