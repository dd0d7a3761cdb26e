package dto

import "github.com/route-planner/internal/domain"

// PointRequest - точка, выбранная на карте.
// Pointers keep an explicit 0 distinguishable from a missing field.
type PointRequest struct {
	Lat *float64 `json:"lat" validate:"required,min=-90,max=90"`
	Lng *float64 `json:"lng" validate:"required,min=-180,max=180"`
}

func (r PointRequest) ToGeoPoint() domain.GeoPoint {
	return domain.GeoPoint{Lat: *r.Lat, Lng: *r.Lng}
}

// AddressRequest - текстовый адрес.
// Blank input is rejected by the geocoder with EMPTY_ADDRESS, not here.
type AddressRequest struct {
	Address string `json:"address" validate:"max=512"`
}

// BatchAddressRequest - несколько адресов за один запрос
type BatchAddressRequest struct {
	Addresses []string `json:"addresses" validate:"required,min=1,max=25,dive,max=512"`
}
