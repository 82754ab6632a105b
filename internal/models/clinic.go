package models

import "time"

type Clinic struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Code      string    `gorm:"size:20;uniqueIndex:idx_clinics_code;not null" json:"code"`
	Name      string    `gorm:"size:150;not null" json:"name"`
	Phone     string    `gorm:"size:20" json:"phone"`
	Address   string    `gorm:"size:255" json:"address"`
	Timezone  string    `gorm:"size:64;default:'Asia/Ho_Chi_Minh'" json:"timezone"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}
