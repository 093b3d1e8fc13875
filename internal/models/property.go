package models

// Property is the narrow projection of a listing the chat core needs:
// enough to resolve which admin owns the conversation. The full listing
// CRUD lives outside this service.
type Property struct {
	ID string `gorm:"primaryKey" json:"id"`
	// Title is denormalized into email summaries.
	Title string `gorm:"type:text" json:"title"`
	// AdminID is the agent responsible for inquiries about this property.
	AdminID string `gorm:"not null;index" json:"adminId"`
	// AdminEmail receives the closed-chat summary.
	AdminEmail string `gorm:"type:text" json:"-"`
}
