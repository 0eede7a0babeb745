package domain

// Prefecture is region master data, keyed by the JIS prefecture code.
type Prefecture struct {
	ID   int64  `gorm:"primaryKey" json:"id"`
	Name string `gorm:"index" json:"name" form:"name"`
}

func (Prefecture) TableName() string {
	return "prefectures"
}

// Municipality is region master data below prefecture level.
type Municipality struct {
	ID           int64  `gorm:"primaryKey" json:"id"`
	PrefectureID int64  `gorm:"index" json:"prefecture_id" form:"prefecture_id"`
	Name         string `gorm:"index" json:"name" form:"name"`
}

func (Municipality) TableName() string {
	return "municipalities"
}
