package response

import (
	"time"

	"labreserve/internal/usecase/queries"

	"github.com/google/uuid"
	"github.com/jinzhu/copier"
)

type ProfileResponse struct {
	ID          uuid.UUID  `json:"id"`
	Email       string     `json:"email"`
	Role        string     `json:"role"`
	StudentID   *int64     `json:"studentId,omitempty"`
	TechID      *int64     `json:"techId,omitempty"`
	DisplayName string     `json:"displayName"`
	Description string     `json:"description"`
	LastLogin   *time.Time `json:"lastLogin,omitempty"`
	CreatedAt   time.Time  `json:"createdAt"`
}

func FromProfileView(rm *queries.ProfileView) (*ProfileResponse, error) {
	var resp ProfileResponse
	if err := copier.Copy(&resp, rm); err != nil {
		return nil, err
	}
	return &resp, nil
}
