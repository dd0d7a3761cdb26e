package handler

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/route-planner/internal/pkg/errors"
	"github.com/route-planner/internal/pkg/utils"
	"github.com/route-planner/internal/pkg/validator"
	"github.com/route-planner/internal/usecase"
	"github.com/route-planner/internal/usecase/dto"
)

// SessionHandler - обработчик запросов сессий планирования маршрута
type SessionHandler struct {
	registry *usecase.SessionRegistry
	logger   *zap.Logger
}

// NewSessionHandler - создание нового SessionHandler
func NewSessionHandler(registry *usecase.SessionRegistry, logger *zap.Logger) *SessionHandler {
	return &SessionHandler{
		registry: registry,
		logger:   logger,
	}
}

// CreateSession godoc
// @Summary Создание сессии планирования
// @Description Создаёт пустую сессию: без точки отправления, без точек назначения и без маршрута
// @Tags Sessions
// @Produce json
// @Success 201 {object} utils.SuccessResponse{data=usecase.SessionView}
// @Router /api/v1/sessions [post]
func (h *SessionHandler) CreateSession(c *fiber.Ctx) error {
	session := h.registry.Create()
	return utils.SendCreated(c, session.View())
}

// GetSession godoc
// @Summary Состояние сессии
// @Description Точка отправления, точки назначения в порядке отображения и последний маршрут
// @Tags Sessions
// @Produce json
// @Param id path string true "ID сессии"
// @Success 200 {object} utils.SuccessResponse{data=usecase.SessionView}
// @Failure 400 {object} utils.ErrorResponse
// @Failure 404 {object} utils.ErrorResponse
// @Router /api/v1/sessions/{id} [get]
func (h *SessionHandler) GetSession(c *fiber.Ctx) error {
	session, err := h.session(c)
	if err != nil {
		return utils.SendError(c, err)
	}
	return utils.SendSuccess(c, session.View(), nil)
}

// DeleteSession godoc
// @Summary Удаление сессии
// @Tags Sessions
// @Param id path string true "ID сессии"
// @Success 204
// @Failure 400 {object} utils.ErrorResponse
// @Failure 404 {object} utils.ErrorResponse
// @Router /api/v1/sessions/{id} [delete]
func (h *SessionHandler) DeleteSession(c *fiber.Ctx) error {
	id, err := parseSessionID(c)
	if err != nil {
		return utils.SendError(c, err)
	}
	if err := h.registry.Delete(id); err != nil {
		return utils.SendError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// SetSource godoc
// @Summary Установка точки отправления по координатам
// @Description Заменяет точку отправления; порядок отображения точек назначения пересчитывается
// @Tags Sessions
// @Accept json
// @Produce json
// @Param id path string true "ID сессии"
// @Param request body dto.PointRequest true "Координаты"
// @Success 200 {object} utils.SuccessResponse{data=usecase.SessionView}
// @Failure 400 {object} utils.ErrorResponse
// @Failure 404 {object} utils.ErrorResponse
// @Router /api/v1/sessions/{id}/source [put]
func (h *SessionHandler) SetSource(c *fiber.Ctx) error {
	session, err := h.session(c)
	if err != nil {
		return utils.SendError(c, err)
	}

	var req dto.PointRequest
	if err := parseBody(c, &req); err != nil {
		return utils.SendError(c, err)
	}

	if err := session.SetSource(req.ToGeoPoint()); err != nil {
		return utils.SendError(c, err)
	}
	return utils.SendSuccess(c, session.View(), nil)
}

// GeocodeSource godoc
// @Summary Установка точки отправления по адресу
// @Description Геокодирует адрес и устанавливает результат как точку отправления. При ошибке состояние не меняется.
// @Tags Sessions
// @Accept json
// @Produce json
// @Param id path string true "ID сессии"
// @Param request body dto.AddressRequest true "Адрес"
// @Success 200 {object} utils.SuccessResponse{data=dto.ResolvedPointResponse}
// @Failure 400 {object} utils.ErrorResponse
// @Failure 404 {object} utils.ErrorResponse
// @Failure 502 {object} utils.ErrorResponse
// @Router /api/v1/sessions/{id}/source/geocode [post]
func (h *SessionHandler) GeocodeSource(c *fiber.Ctx) error {
	session, err := h.session(c)
	if err != nil {
		return utils.SendError(c, err)
	}

	var req dto.AddressRequest
	if err := parseBody(c, &req); err != nil {
		return utils.SendError(c, err)
	}

	p, err := session.ResolveSource(c.UserContext(), req.Address)
	if err != nil {
		return utils.SendError(c, err)
	}
	return utils.SendSuccess(c, dto.NewResolvedPointResponse(req.Address, p), nil)
}

// ListDestinations godoc
// @Summary Точки назначения в порядке отображения
// @Description Отсортированы по расстоянию до точки отправления; без неё в порядке добавления
// @Tags Sessions
// @Produce json
// @Param id path string true "ID сессии"
// @Success 200 {object} utils.SuccessResponse{data=[]usecase.DisplayDestination}
// @Failure 404 {object} utils.ErrorResponse
// @Router /api/v1/sessions/{id}/destinations [get]
func (h *SessionHandler) ListDestinations(c *fiber.Ctx) error {
	session, err := h.session(c)
	if err != nil {
		return utils.SendError(c, err)
	}
	destinations := session.Destinations()
	return utils.SendSuccess(c, destinations, &utils.Meta{Total: len(destinations)})
}

// AddDestinationAddress godoc
// @Summary Добавление точки назначения по адресу
// @Tags Sessions
// @Accept json
// @Produce json
// @Param id path string true "ID сессии"
// @Param request body dto.AddressRequest true "Адрес"
// @Success 201 {object} utils.SuccessResponse{data=dto.ResolvedPointResponse}
// @Failure 400 {object} utils.ErrorResponse
// @Failure 404 {object} utils.ErrorResponse
// @Failure 502 {object} utils.ErrorResponse
// @Router /api/v1/sessions/{id}/destinations [post]
func (h *SessionHandler) AddDestinationAddress(c *fiber.Ctx) error {
	session, err := h.session(c)
	if err != nil {
		return utils.SendError(c, err)
	}

	var req dto.AddressRequest
	if err := parseBody(c, &req); err != nil {
		return utils.SendError(c, err)
	}

	p, err := session.AddDestinationAddress(c.UserContext(), req.Address)
	if err != nil {
		return utils.SendError(c, err)
	}
	return utils.SendCreated(c, dto.NewResolvedPointResponse(req.Address, p))
}

// AddDestinationsBatch godoc
// @Summary Пакетное добавление точек назначения по адресам
// @Description Все адреса геокодируются до изменения состояния; при любой ошибке ничего не добавляется
// @Tags Sessions
// @Accept json
// @Produce json
// @Param id path string true "ID сессии"
// @Param request body dto.BatchAddressRequest true "Адреса (до 25)"
// @Success 201 {object} utils.SuccessResponse{data=dto.BatchResolvedResponse}
// @Failure 400 {object} utils.ErrorResponse
// @Failure 404 {object} utils.ErrorResponse
// @Failure 502 {object} utils.ErrorResponse
// @Router /api/v1/sessions/{id}/destinations/batch [post]
func (h *SessionHandler) AddDestinationsBatch(c *fiber.Ctx) error {
	session, err := h.session(c)
	if err != nil {
		return utils.SendError(c, err)
	}

	var req dto.BatchAddressRequest
	if err := parseBody(c, &req); err != nil {
		return utils.SendError(c, err)
	}

	points, err := session.AddDestinationAddresses(c.UserContext(), req.Addresses)
	if err != nil {
		return utils.SendError(c, err)
	}

	resp := dto.BatchResolvedResponse{Points: make([]dto.ResolvedPointResponse, len(points))}
	for i, p := range points {
		resp.Points[i] = dto.NewResolvedPointResponse(req.Addresses[i], p)
	}
	return utils.SendCreated(c, resp)
}

// AddDestinationPoint godoc
// @Summary Добавление точки назначения по координатам
// @Tags Sessions
// @Accept json
// @Produce json
// @Param id path string true "ID сессии"
// @Param request body dto.PointRequest true "Координаты"
// @Success 201 {object} utils.SuccessResponse{data=dto.ResolvedPointResponse}
// @Failure 400 {object} utils.ErrorResponse
// @Failure 404 {object} utils.ErrorResponse
// @Router /api/v1/sessions/{id}/destinations/point [post]
func (h *SessionHandler) AddDestinationPoint(c *fiber.Ctx) error {
	session, err := h.session(c)
	if err != nil {
		return utils.SendError(c, err)
	}

	var req dto.PointRequest
	if err := parseBody(c, &req); err != nil {
		return utils.SendError(c, err)
	}

	p := req.ToGeoPoint()
	if err := session.AddDestination(p); err != nil {
		return utils.SendError(c, err)
	}
	return utils.SendCreated(c, dto.NewResolvedPointResponse("", p))
}

// RemoveDestination godoc
// @Summary Удаление точки назначения
// @Description Индекс относится к текущему порядку отображения
// @Tags Sessions
// @Produce json
// @Param id path string true "ID сессии"
// @Param index path int true "Индекс в порядке отображения"
// @Success 200 {object} utils.SuccessResponse{data=dto.RemovedDestinationResponse}
// @Failure 400 {object} utils.ErrorResponse
// @Failure 404 {object} utils.ErrorResponse
// @Router /api/v1/sessions/{id}/destinations/{index} [delete]
func (h *SessionHandler) RemoveDestination(c *fiber.Ctx) error {
	session, err := h.session(c)
	if err != nil {
		return utils.SendError(c, err)
	}

	index, err := c.ParamsInt("index")
	if err != nil {
		return utils.SendError(c, errors.ErrInvalidInput.WithDetails(map[string]interface{}{
			"index": c.Params("index"),
		}))
	}

	removed, err := session.RemoveDestination(index)
	if err != nil {
		return utils.SendError(c, err)
	}
	return utils.SendSuccess(c, dto.RemovedDestinationResponse{Seq: removed.Seq, Point: removed.Point}, nil)
}

// PlanRoute godoc
// @Summary Построение оптимизированного маршрута
// @Description Круговой маршрут от точки отправления через все точки назначения. Без точки отправления или точек назначения ничего не делает.
// @Tags Sessions
// @Produce json
// @Param id path string true "ID сессии"
// @Success 200 {object} utils.SuccessResponse{data=dto.RouteResponse}
// @Failure 404 {object} utils.ErrorResponse
// @Failure 409 {object} utils.ErrorResponse
// @Failure 422 {object} utils.ErrorResponse
// @Failure 502 {object} utils.ErrorResponse
// @Router /api/v1/sessions/{id}/route [post]
func (h *SessionHandler) PlanRoute(c *fiber.Ctx) error {
	session, err := h.session(c)
	if err != nil {
		return utils.SendError(c, err)
	}

	before := session.Route()
	result, err := session.PlanRoute(c.UserContext())
	if err != nil {
		return utils.SendError(c, err)
	}

	planned := result != nil && result != before
	return utils.SendSuccess(c, dto.RouteResponse{Route: result, Planned: planned}, nil)
}

// GetRoute godoc
// @Summary Последний построенный маршрут
// @Tags Sessions
// @Produce json
// @Param id path string true "ID сессии"
// @Success 200 {object} utils.SuccessResponse{data=dto.RouteResponse}
// @Failure 404 {object} utils.ErrorResponse
// @Router /api/v1/sessions/{id}/route [get]
func (h *SessionHandler) GetRoute(c *fiber.Ctx) error {
	session, err := h.session(c)
	if err != nil {
		return utils.SendError(c, err)
	}
	return utils.SendSuccess(c, dto.RouteResponse{Route: session.Route()}, nil)
}

// ClearSession godoc
// @Summary Сброс сессии
// @Description Удаляет точку отправления, все точки назначения и маршрут
// @Tags Sessions
// @Produce json
// @Param id path string true "ID сессии"
// @Success 200 {object} utils.SuccessResponse{data=usecase.SessionView}
// @Failure 404 {object} utils.ErrorResponse
// @Router /api/v1/sessions/{id}/clear [post]
func (h *SessionHandler) ClearSession(c *fiber.Ctx) error {
	session, err := h.session(c)
	if err != nil {
		return utils.SendError(c, err)
	}
	session.Clear()
	return utils.SendSuccess(c, session.View(), nil)
}

func (h *SessionHandler) session(c *fiber.Ctx) (*usecase.PlannerSession, error) {
	id, err := parseSessionID(c)
	if err != nil {
		return nil, err
	}
	return h.registry.Get(id)
}

func parseSessionID(c *fiber.Ctx) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return uuid.Nil, errors.ErrInvalidInput.WithDetails(map[string]interface{}{
			"id": c.Params("id"),
		})
	}
	return id, nil
}

// parseBody - разбор и валидация тела запроса
func parseBody(c *fiber.Ctx, req interface{}) error {
	if err := c.BodyParser(req); err != nil {
		return errors.ErrInvalidRequest.WithCause(err)
	}
	return validator.Validate(req)
}
