package handlers

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/yasinhessnawi1/Annotate_Backend/internal/constants"
	"github.com/yasinhessnawi1/Annotate_Backend/internal/service"
	"github.com/yasinhessnawi1/Annotate_Backend/internal/utils"
)

// parseCollectionParam reads a collection id path parameter. "root"
// addresses the root collection and yields nil.
func parseCollectionParam(r *http.Request, name string) (*int64, error) {
	raw := chi.URLParam(r, name)
	if raw == constants.RootCollectionID {
		return nil, nil
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return nil, utils.NewValidationError(name, constants.MsgInvalidID)
	}
	return &id, nil
}

// eventQuery reads the view, start and archived query parameters.
func eventQuery(r *http.Request) (service.EventQuery, error) {
	start, err := utils.QueryTime(r, constants.QueryParamStart)
	if err != nil {
		return service.EventQuery{}, err
	}
	return service.EventQuery{
		View:     r.URL.Query().Get(constants.QueryParamView),
		Start:    start,
		Archived: utils.QueryBool(r, constants.QueryParamArchived, false),
	}, nil
}

// includesEvents reports whether the request asked for nested events.
func includesEvents(r *http.Request) bool {
	return r.URL.Query().Get(constants.QueryParamInclude) == constants.IncludeEvents
}
