package response

import (
	"time"

	"labreserve/internal/usecase/queries"

	"github.com/jinzhu/copier"
)

type LabResponse struct {
	LabID     int64     `json:"labId"`
	Name      string    `json:"name"`
	TimeList  []string  `json:"timeList"`
	SeatCount int       `json:"seatCount"`
	CreatedAt time.Time `json:"createdAt"`
}

func FromLabView(rm *queries.LabView) (*LabResponse, error) {
	var resp LabResponse
	if err := copier.Copy(&resp, rm); err != nil {
		return nil, err
	}
	return &resp, nil
}

func FromLabViews(rms []*queries.LabView) ([]*LabResponse, error) {
	out := make([]*LabResponse, len(rms))
	for i, rm := range rms {
		resp, err := FromLabView(rm)
		if err != nil {
			return nil, err
		}
		out[i] = resp
	}
	return out, nil
}
