package model

const defaultImagePath = "/static/profile_pics/default.jpg"

// User represents a blog author.
type User struct {
	ID           uint    `json:"id" gorm:"primaryKey"`
	Email        string  `json:"email" gorm:"uniqueIndex;size:150;not null"`
	Username     string  `json:"username" gorm:"uniqueIndex;size:100;not null"`
	PasswordHash string  `json:"-" gorm:"size:200;not null"` // Never expose in JSON
	ImageFile    *string `json:"image_file" gorm:"size:255"`

	// Relations
	Posts []Post `json:"-" gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
}

// ImagePath returns the public URL of the profile picture.
func (u *User) ImagePath() string {
	if u.ImageFile != nil && *u.ImageFile != "" {
		return "/media/profile_pics/" + *u.ImageFile
	}
	return defaultImagePath
}
