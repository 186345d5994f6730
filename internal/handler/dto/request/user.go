package request

type UpdateProfileRequest struct {
	DisplayName string `json:"display_name" binding:"max=100"`
	Description string `json:"description" binding:"max=1000"`
}
