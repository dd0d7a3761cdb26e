package errors

import "net/http"

// Invalid input
var (
	ErrInvalidInput = New(
		"INVALID_INPUT",
		"Invalid input",
		http.StatusBadRequest,
	)

	ErrInvalidCoordinates = New(
		"INVALID_COORDINATES",
		"Invalid coordinates provided",
		http.StatusBadRequest,
	)

	ErrEmptyAddress = New(
		"EMPTY_ADDRESS",
		"Address must not be empty",
		http.StatusBadRequest,
	)

	ErrIndexOutOfRange = New(
		"INDEX_OUT_OF_RANGE",
		"Destination index out of range",
		http.StatusBadRequest,
	)

	ErrTooManyWaypoints = New(
		"TOO_MANY_WAYPOINTS",
		"Too many waypoints for the routing service",
		http.StatusBadRequest,
	)

	ErrInvalidRequest = New(
		"INVALID_REQUEST",
		"Invalid request parameters",
		http.StatusBadRequest,
	)
)

// Not found
var (
	ErrAddressNotFound = New(
		"ADDRESS_NOT_FOUND",
		"Address could not be resolved",
		http.StatusNotFound,
	)

	ErrRouteNotFound = New(
		"ROUTE_NOT_FOUND",
		"No route found between the given points",
		http.StatusUnprocessableEntity,
	)

	ErrSessionNotFound = New(
		"SESSION_NOT_FOUND",
		"Planning session not found",
		http.StatusNotFound,
	)
)

// Busy
var (
	ErrRoutePlanningInProgress = New(
		"ROUTE_PLANNING_IN_PROGRESS",
		"A route request is already in flight",
		http.StatusConflict,
	)

	ErrRouteDiscarded = New(
		"ROUTE_DISCARDED",
		"Locations changed while the route was being planned",
		http.StatusConflict,
	)
)

var (
	ErrExternalService = New(
		"EXTERNAL_SERVICE_ERROR",
		"External service request failed",
		http.StatusBadGateway,
	)

	ErrInternalServer = New(
		"INTERNAL_SERVER_ERROR",
		"Internal server error",
		http.StatusInternalServerError,
	)
)
