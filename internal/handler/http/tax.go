package http

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/alimalikali/payrollx-server/internal/domain/tax"
	"github.com/alimalikali/payrollx-server/internal/handler/http/response"
)

type TaxHandler interface {
	Preview(w http.ResponseWriter, r *http.Request)
	Brackets(w http.ResponseWriter, r *http.Request)
}

type taxHandlerImpl struct {
	taxService tax.Service
}

func NewTaxHandler(taxService tax.Service) TaxHandler {
	return &taxHandlerImpl{taxService: taxService}
}

func (h *taxHandlerImpl) Preview(w http.ResponseWriter, r *http.Request) {
	var req tax.TaxPreviewRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body", nil)
		return
	}

	result, err := h.taxService.Preview(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

func (h *taxHandlerImpl) Brackets(w http.ResponseWriter, r *http.Request) {
	isFiler := true
	if filerStr := r.URL.Query().Get("filer"); filerStr != "" {
		parsed, err := strconv.ParseBool(filerStr)
		if err != nil {
			response.BadRequest(w, "filer must be true or false", nil)
			return
		}
		isFiler = parsed
	}

	response.Success(w, h.taxService.BracketTable(r.Context(), isFiler))
}
