package model

import "time"

// StationResult is a session's aggregated score for one station. The
// (session, station) pair is unique; completing a station again upserts it.
type StationResult struct {
	UUIDBase

	SessionID uint `gorm:"index:idx_session_station,unique;type:bigint unsigned" json:"sessionId"`
	StationID uint `gorm:"index:idx_session_station,unique;type:bigint unsigned" json:"stationId"`

	Score        float64   `gorm:"default:0" json:"score"`
	Observations string    `gorm:"type:text" json:"observations"`
	EvaluatedAt  time.Time `json:"evaluatedAt"`
}

func (StationResult) TableName() string {
	return "station_results"
}
