package models

// User is the internal record of a principal known to the identity provider.
// Rows are provisioned lazily on first sight and never deleted.
type User struct {
	Base
	ExternalID   string        `gorm:"uniqueIndex;not null" json:"externalId"`
	Name         string        `json:"name"`
	Email        string        `gorm:"uniqueIndex;not null" json:"email"`
	ImageURL     string        `json:"imageUrl"`
	Accounts     []Account     `gorm:"foreignKey:UserID" json:"accounts,omitempty"`
	Transactions []Transaction `gorm:"foreignKey:UserID" json:"transactions,omitempty"`
}
