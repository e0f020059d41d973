package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/yasinhessnawi1/Annotate_Backend/internal/constants"
	"github.com/yasinhessnawi1/Annotate_Backend/internal/popover"
	"github.com/yasinhessnawi1/Annotate_Backend/internal/utils"
)

// TableHandler serves table info popovers
type TableHandler struct {
	tableService TableServiceInterface
}

// NewTableHandler creates a new TableHandler
func NewTableHandler(tableService TableServiceInterface) *TableHandler {
	return &TableHandler{tableService: tableService}
}

// GetPopover returns the popover decision for a table. The id may be a
// numeric table id or a virtual id such as card__12.
func (h *TableHandler) GetPopover(w http.ResponseWriter, r *http.Request) {
	rawID := chi.URLParam(r, constants.ParamID)

	opts := popover.Options{
		Placement: r.URL.Query().Get(constants.QueryParamPlacement),
	}
	if raw := r.URL.Query().Get(constants.QueryParamOffset); raw != "" {
		offset, err := popover.ParseOffset(raw)
		if err != nil {
			utils.ErrorFromAppError(w, utils.NewValidationError(constants.QueryParamOffset, err.Error()))
			return
		}
		opts.Offset = offset
	}

	decision, err := h.tableService.Popover(r.Context(), rawID, opts)
	if err != nil {
		utils.ErrorFromAppError(w, utils.ParseError(err))
		return
	}

	utils.JSON(w, constants.StatusOK, decision)
}
