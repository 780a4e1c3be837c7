package rest

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	enTranslations "github.com/go-playground/validator/v10/translations/en"

	"github.com/madnav/madnav/pkg/server"
)

type NavigationService interface {
	ShortestPathRoute(ctx context.Context, srcAddress string, srcLat, srcLon float64,
		dstAddress string, dstLat, dstLon float64, costName string) (string, []string, float64, float64, bool, error)
	SpanningForest(ctx context.Context, algorithm string, costName string) (int, float64, error)
}

type NavigationHandler struct {
	svc NavigationService
}

func NavigatorRouter(r *chi.Mux, svc NavigationService) {
	handler := &NavigationHandler{svc}

	r.Group(func(r chi.Router) {
		r.Route("/api/navigations", func(r chi.Router) {
			r.Post("/shortest-path", handler.ShortestPath)
			r.Post("/spanning-forest", handler.SpanningForest)
		})
	})
}

// Place is either a street directory address or a raw coordinate.
type Place struct {
	Address string  `json:"address"`
	Lat     float64 `json:"lat" validate:"omitempty,lt=90,gt=-90"`
	Lon     float64 `json:"lon" validate:"omitempty,lt=180,gt=-180"`
}

type ShortestPathRequest struct {
	Origin       Place  `json:"origin" validate:"required"`
	Destination  Place  `json:"destination" validate:"required"`
	CostFunction string `json:"cost_function" validate:"omitempty,oneof=shortest fastest fastest_with_lights"`
}

func (p Place) isSet() bool {
	return p.Address != "" || p.Lat != 0 || p.Lon != 0
}

func (s *ShortestPathRequest) Bind(r *http.Request) error {
	if !s.Origin.isSet() || !s.Destination.isSet() {
		return errors.New("origin and destination must carry an address or a coordinate")
	}
	return nil
}

type ShortestPathResponse struct {
	Path         string   `json:"path"`
	Instructions []string `json:"instructions"`
	DistanceKm   float64  `json:"distance_km"`
	EtaSeconds   float64  `json:"eta_seconds"`
	Found        bool     `json:"found"`
}

func (h *NavigationHandler) ShortestPath(w http.ResponseWriter, r *http.Request) {
	data := &ShortestPathRequest{}
	if err := render.Bind(r, data); err != nil {
		render.Render(w, r, ErrInvalidRequest(err))
		return
	}
	validate := validator.New()
	if err := validate.Struct(*data); err != nil {
		english := en.New()
		uni := ut.New(english, english)
		trans, _ := uni.GetTranslator("en")
		_ = enTranslations.RegisterDefaultTranslations(validate, trans)
		vv := translateError(err, trans)
		render.Render(w, r, ErrValidation(err, vv))
		return
	}

	polyline, instructions, distKm, eta, found, err := h.svc.ShortestPathRoute(r.Context(),
		data.Origin.Address, data.Origin.Lat, data.Origin.Lon,
		data.Destination.Address, data.Destination.Lat, data.Destination.Lon,
		data.CostFunction)
	if err != nil {
		render.Render(w, r, renderServiceError(err))
		return
	}

	render.Status(r, http.StatusOK)
	render.JSON(w, r, &ShortestPathResponse{
		Path:         polyline,
		Instructions: instructions,
		DistanceKm:   distKm,
		EtaSeconds:   eta,
		Found:        found,
	})
}

type SpanningForestRequest struct {
	Algorithm    string `json:"algorithm" validate:"omitempty,oneof=prim kruskal"`
	CostFunction string `json:"cost_function" validate:"omitempty,oneof=shortest fastest fastest_with_lights"`
}

func (s *SpanningForestRequest) Bind(r *http.Request) error {
	return nil
}

type SpanningForestResponse struct {
	Algorithm   string  `json:"algorithm"`
	EdgeCount   int     `json:"edge_count"`
	TotalWeight float64 `json:"total_weight"`
}

func (h *NavigationHandler) SpanningForest(w http.ResponseWriter, r *http.Request) {
	data := &SpanningForestRequest{}
	if err := render.Bind(r, data); err != nil {
		render.Render(w, r, ErrInvalidRequest(err))
		return
	}
	validate := validator.New()
	if err := validate.Struct(*data); err != nil {
		english := en.New()
		uni := ut.New(english, english)
		trans, _ := uni.GetTranslator("en")
		_ = enTranslations.RegisterDefaultTranslations(validate, trans)
		vv := translateError(err, trans)
		render.Render(w, r, ErrValidation(err, vv))
		return
	}

	algorithm := data.Algorithm
	if algorithm == "" {
		algorithm = "kruskal"
	}
	edgeCount, totalWeight, err := h.svc.SpanningForest(r.Context(), algorithm, data.CostFunction)
	if err != nil {
		render.Render(w, r, renderServiceError(err))
		return
	}

	render.Status(r, http.StatusOK)
	render.JSON(w, r, &SpanningForestResponse{
		Algorithm:   algorithm,
		EdgeCount:   edgeCount,
		TotalWeight: totalWeight,
	})
}

// ErrResponse is the error body every endpoint renders.
type ErrResponse struct {
	Err            error `json:"-"` // low-level runtime error
	HTTPStatusCode int   `json:"-"` // http response status code

	StatusText    string   `json:"status"`          // user-level status message
	ErrorText     string   `json:"error,omitempty"` // application-level error message, for debugging
	ErrValidation []string `json:"validation,omitempty"`
}

func (e *ErrResponse) Render(w http.ResponseWriter, r *http.Request) error {
	render.Status(r, e.HTTPStatusCode)
	return nil
}

func ErrInvalidRequest(err error) render.Renderer {
	return &ErrResponse{
		Err:            err,
		HTTPStatusCode: 400,
		StatusText:     "Invalid request.",
		ErrorText:      err.Error(),
	}
}

func ErrValidation(err error, errV []error) render.Renderer {
	vv := []string{}
	for _, v := range errV {
		vv = append(vv, v.Error())
	}
	return &ErrResponse{
		Err:            err,
		HTTPStatusCode: 400,
		StatusText:     "Invalid request.",
		ErrorText:      err.Error(),
		ErrValidation:  vv,
	}
}

func translateError(err error, trans ut.Translator) (errs []error) {
	if err == nil {
		return nil
	}
	validatorErrs := err.(validator.ValidationErrors)
	for _, e := range validatorErrs {
		errs = append(errs, fmt.Errorf("%s", e.Translate(trans)))
	}
	return errs
}

// renderServiceError maps the service error kind to a http status.
func renderServiceError(err error) render.Renderer {
	var svcErr *server.Error
	if errors.As(err, &svcErr) {
		switch svcErr.Kind() {
		case server.ErrBadParamInput:
			return &ErrResponse{
				Err:            err,
				HTTPStatusCode: 400,
				StatusText:     "Invalid request.",
				ErrorText:      err.Error(),
			}
		case server.ErrNotFound:
			return &ErrResponse{
				Err:            err,
				HTTPStatusCode: 404,
				StatusText:     "Not found.",
				ErrorText:      err.Error(),
			}
		}
	}
	return &ErrResponse{
		Err:            err,
		HTTPStatusCode: 500,
		StatusText:     "Internal server error.",
		ErrorText:      "internal server error",
	}
}
