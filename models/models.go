package models

import (
	"time"

	"gorm.io/datatypes"
)

// Session tracks one covgen server session.
type Session struct {
	ID        string    `gorm:"primaryKey;type:varchar(20)"`
	StartedAt time.Time `gorm:"autoCreateTime"`
	EndedAt   *time.Time

	// Statistics
	ParseCount    int `gorm:"default:0"`
	GenerateCount int `gorm:"default:0"`

	// Client info
	ClientInfo datatypes.JSON `gorm:"type:jsonb"`
}

// ParseRun records one coverage-report parse.
type ParseRun struct {
	ID        string `gorm:"primaryKey;type:varchar(20)"`
	SessionID string `gorm:"type:varchar(20);index"`

	// Input
	ReportPath string `gorm:"type:varchar(512);not null"`

	// Results
	TotalLineCoverage   float64 `gorm:"type:decimal(5,2)"`
	TotalBranchCoverage float64 `gorm:"type:decimal(5,2)"`
	GapCount            int     `gorm:"default:0"`

	CreatedAt  time.Time `gorm:"autoCreateTime"`
	DurationMs int64     `gorm:"default:0"`
}

// GenerationRun records one test-generation pass over a parsed report.
type GenerationRun struct {
	ID        string `gorm:"primaryKey;type:varchar(20)"`
	SessionID string `gorm:"type:varchar(20);index"`

	// Input
	ReportPath     string `gorm:"type:varchar(512);not null"`
	MaxTestsPerGap int    `gorm:"default:3"`

	// Results
	TestsGenerated int            `gorm:"default:0"`
	TestClasses    datatypes.JSON `gorm:"type:jsonb"` // distinct test class names

	CreatedAt time.Time `gorm:"autoCreateTime"`
}

// TableName customizations for cleaner names
func (Session) TableName() string       { return "sessions" }
func (ParseRun) TableName() string      { return "parse_runs" }
func (GenerationRun) TableName() string { return "generation_runs" }
