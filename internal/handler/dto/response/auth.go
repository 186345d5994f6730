package response

import "labreserve/internal/usecase/queries"

type LoginResponse struct {
	AccessToken string                      `json:"access_token"`
	User        *queries.AuthorizedUserView `json:"user"`
}

type RegisterResponse struct {
	BusinessID int64  `json:"business_id"`
	Role       string `json:"role"`
}
