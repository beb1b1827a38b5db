package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/reviewloop-backend/internal/domain/survey"
	"github.com/yungbote/reviewloop-backend/internal/http/response"
	"github.com/yungbote/reviewloop-backend/internal/platform/apierr"
	"github.com/yungbote/reviewloop-backend/internal/platform/logger"
	"github.com/yungbote/reviewloop-backend/internal/services"
)

// MaxSubmissionBytes bounds a submission body.
const MaxSubmissionBytes = 64 << 10

type IntakeHandler struct {
	log    *logger.Logger
	intake services.IntakeService
}

func NewIntakeHandler(log *logger.Logger, intake services.IntakeService) *IntakeHandler {
	return &IntakeHandler{log: log.With("handler", "IntakeHandler"), intake: intake}
}

type submissionResponse struct {
	Success bool                 `json:"success"`
	Routing services.RoutingView `json:"routing"`
}

type stepCheckRequest struct {
	Answers survey.AnswerMap `json:"answers"`
}

// POST /api/public/submissions
func (h *IntakeHandler) Submit(c *gin.Context) {
	var in services.SubmissionInput
	if err := decodeBody(c, &in); err != nil {
		response.RespondAPIError(c, err)
		return
	}
	res, err := h.intake.Submit(c.Request.Context(), in)
	if err != nil {
		response.RespondAPIError(c, err)
		return
	}
	response.RespondOK(c, submissionResponse{Success: true, Routing: res.Routing})
}

// GET /api/public/surveys/:id/steps
func (h *IntakeHandler) Steps(c *gin.Context) {
	view, err := h.intake.Steps(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.RespondAPIError(c, err)
		return
	}
	response.RespondOK(c, view)
}

// POST /api/public/surveys/:id/steps/:stepId/check
func (h *IntakeHandler) CheckStep(c *gin.Context) {
	var req stepCheckRequest
	if err := decodeBody(c, &req); err != nil {
		response.RespondAPIError(c, err)
		return
	}
	if req.Answers == nil {
		req.Answers = survey.AnswerMap{}
	}
	check, err := h.intake.CheckStep(c.Request.Context(), c.Param("id"), c.Param("stepId"), req.Answers)
	if err != nil {
		response.RespondAPIError(c, err)
		return
	}
	response.RespondOK(c, check)
}

// decodeBody reads one JSON object, keeping numbers as json.Number so integral checks
// see the client's literal.
func decodeBody(c *gin.Context, dst any) error {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, MaxSubmissionBytes)
	dec := json.NewDecoder(c.Request.Body)
	dec.UseNumber()
	if err := dec.Decode(dst); err != nil {
		var tooLarge *http.MaxBytesError
		switch {
		case errors.As(err, &tooLarge):
			return apierr.InvalidPayload("request body exceeds %d bytes", MaxSubmissionBytes)
		case errors.Is(err, io.EOF):
			return apierr.InvalidPayload("request body is empty")
		default:
			return apierr.InvalidPayload("request body must be a JSON object")
		}
	}
	return nil
}
