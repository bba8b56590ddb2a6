package users

import "time"

// Profile is the common profile document shared by buyers and sellers.
type Profile struct {
	FirstName      string   `json:"first_name,omitempty"`
	LastName       string   `json:"last_name,omitempty"`
	ProfilePicture string   `json:"profile_picture,omitempty"`
	Bio            string   `json:"bio,omitempty"`
	Skills         []string `json:"skills,omitempty"`
}

// SellerProfile carries the marketplace standing of a seller.
type SellerProfile struct {
	Level        int     `json:"level"`
	SuccessScore float64 `json:"success_score"`
	Rating       float64 `json:"rating"`
	ResponseRate float64 `json:"response_rate"`
	Earnings     float64 `json:"earnings"`
	IsAvailable  bool    `json:"is_available"`
}

type User struct {
	ID                 string         `json:"id"`
	Username           string         `json:"username"`
	Email              string         `json:"email"`
	UserType           string         `json:"user_type"` // seller, buyer
	Profile            Profile        `json:"profile"`
	SellerProfile      *SellerProfile `json:"seller_profile,omitempty"`
	SubscriptionStatus string         `json:"subscription_status"`
	SubscriptionID     *string        `json:"subscription_id,omitempty"`
	CreatedAt          time.Time      `json:"created_at"`
	UpdatedAt          time.Time      `json:"updated_at"`
}
