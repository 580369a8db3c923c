package dto

import "github.com/vacq/booking-service/internal/service"

// HospitalRequest is used for both create and partial update.
type HospitalRequest struct {
	Name       *string `json:"name"`
	Address    *string `json:"address"`
	District   *string `json:"district"`
	Province   *string `json:"province"`
	PostalCode *string `json:"postalcode"`
	Tel        *string `json:"tel"`
	Region     *string `json:"region"`
}

// ToInput converts the payload into the service input.
func (r HospitalRequest) ToInput() service.HospitalInput {
	return service.HospitalInput{
		Name:       r.Name,
		Address:    r.Address,
		District:   r.District,
		Province:   r.Province,
		PostalCode: r.PostalCode,
		Tel:        r.Tel,
		Region:     r.Region,
	}
}
