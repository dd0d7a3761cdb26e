package dto

import "github.com/route-planner/internal/domain"

// ResolvedPointResponse - результат геокодирования адреса
type ResolvedPointResponse struct {
	Address string          `json:"address,omitempty"`
	Point   domain.GeoPoint `json:"point"`
	Label   string          `json:"label"`
}

func NewResolvedPointResponse(address string, p domain.GeoPoint) ResolvedPointResponse {
	return ResolvedPointResponse{Address: address, Point: p, Label: p.String()}
}

// BatchResolvedResponse - результаты пакетного добавления адресов
type BatchResolvedResponse struct {
	Points []ResolvedPointResponse `json:"points"`
}

// RemovedDestinationResponse - удалённая точка назначения
type RemovedDestinationResponse struct {
	Seq   uint64          `json:"seq"`
	Point domain.GeoPoint `json:"point"`
}

// RouteResponse - результат планирования; Route is nil until there is
// a source and at least one destination.
type RouteResponse struct {
	Route   *domain.RouteResult `json:"route"`
	Planned bool                `json:"planned"`
}
