package model

// RecordRow is the SQL representation of a Record. ID orders the append log.
type RecordRow struct {
	ID        uint `gorm:"primaryKey;autoIncrement"`
	Year      int  `gorm:"not null"`
	Semester  int  `gorm:"not null"`
	M1        float64
	M2        float64
	M3        float64
	M4        float64
	M5        float64
	SGPA      string `gorm:"column:sgpa;size:8"`
	Timestamp string `gorm:"size:19"`
}

func (RecordRow) TableName() string {
	return "records"
}
