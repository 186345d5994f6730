package request

type CreateLabRequest struct {
	LabID     int64    `json:"lab_id" binding:"required,min=1"`
	Name      string   `json:"name" binding:"required"`
	TimeList  []string `json:"time_list" binding:"required,min=1"`
	SeatCount int      `json:"seat_count" binding:"required,min=1"`
}
