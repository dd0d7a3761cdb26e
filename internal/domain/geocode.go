package domain

// GeocodeStatus - статус ответа геокодера
type GeocodeStatus string

const (
	GeocodeStatusOK          GeocodeStatus = "OK"
	GeocodeStatusZeroResults GeocodeStatus = "ZERO_RESULTS"
	GeocodeStatusError       GeocodeStatus = "ERROR"
)

// GeocodeResponse - результат прямого геокодирования
type GeocodeResponse struct {
	Status    GeocodeStatus `json:"status"`
	Location  *GeoPoint     `json:"location,omitempty"`
	PlaceName string        `json:"place_name,omitempty"`
}
