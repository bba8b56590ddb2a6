package auth

// RoleToUserType maps the public signup role to the stored user type.
// "client" registers a buyer; anything else registers a seller.
func RoleToUserType(role string) string {
	if role == "client" {
		return "buyer"
	}
	return "seller"
}

// UserTypeToRole maps the stored user type back to the public role label.
func UserTypeToRole(userType string) string {
	if userType == "buyer" {
		return "client"
	}
	return "freelancer"
}
