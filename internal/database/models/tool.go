package models

// Tool is a catalog entry for an external command-line scanner.
type Tool struct {
	Base
	Name        string `gorm:"size:100;not null;uniqueIndex" json:"name"`
	Category    string `gorm:"size:100" json:"category"`
	Description string `json:"description"`
}

func (Tool) TableName() string {
	return "tools"
}
