package v1

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"smartcareer-backend/internal/delivery/http/response"
	"smartcareer-backend/internal/domain"
	"smartcareer-backend/pkg/apperror"
)

type VacancyHandler struct {
	vacancyUC domain.VacancyUsecase
}

// NewVacancyHandler registers vacancy routes on a group running optional auth.
func NewVacancyHandler(r *gin.RouterGroup, vacancyUC domain.VacancyUsecase) {
	handler := &VacancyHandler{vacancyUC: vacancyUC}

	vacancies := r.Group("/vacancies")
	{
		vacancies.GET("", handler.List)
		vacancies.GET("/:id", handler.Get)
	}
}

// List godoc
// @Summary      List vacancies
// @Description  Filters combine with AND. Vacancies without a parsable salary pass the salary_min filter. aiMatch is personalized when a valid token is sent.
// @Tags         vacancies
// @Produce      json
// @Param        remote      query     bool    false  "Remote only (true) or office only (false)"
// @Param        salary_min  query     int     false  "Minimum salary lower bound"
// @Param        search      query     string  false  "Full-text search over title, company, description and tags"
// @Param        tag         query     string  false  "Exact tag"
// @Param        location    query     string  false  "Location substring"
// @Param        limit       query     int     false  "Page size (default 20, max 100)"
// @Param        offset      query     int     false  "Page offset"
// @Success      200         {object}  response.Response{data=[]domain.Vacancy,meta=domain.PageMeta}
// @Failure      400         {object}  response.Response
// @Router       /vacancies [get]
func (h *VacancyHandler) List(c *gin.Context) {
	var filter domain.VacancyFilter

	if raw := c.Query("remote"); raw != "" {
		remote, err := strconv.ParseBool(raw)
		if err != nil {
			_ = c.Error(apperror.BadRequest("Invalid remote"))
			return
		}
		filter.Remote = &remote
	}
	if raw := c.Query("salary_min"); raw != "" {
		min, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || min < 0 {
			_ = c.Error(apperror.BadRequest("Invalid salary_min"))
			return
		}
		filter.SalaryMin = &min
	}
	filter.Search = strings.TrimSpace(c.Query("search"))
	filter.Tag = strings.TrimSpace(c.Query("tag"))
	filter.Location = strings.TrimSpace(c.Query("location"))

	limit, ok := intQuery(c, "limit", domain.DefaultPageLimit)
	if !ok {
		return
	}
	offset, ok := intQuery(c, "offset", 0)
	if !ok {
		return
	}
	filter.Page = domain.Page{Limit: limit, Offset: offset}

	list, meta, err := h.vacancyUC.ListVacancies(c.Request.Context(), currentUserID(c), filter)
	if err != nil {
		_ = c.Error(err)
		return
	}
	response.SuccessWithMeta(c, http.StatusOK, list, meta)
}

// Get godoc
// @Summary      Get vacancy
// @Tags         vacancies
// @Produce      json
// @Param        id   path      int  true  "Vacancy ID"
// @Success      200  {object}  response.Response{data=domain.Vacancy}
// @Failure      404  {object}  response.Response
// @Router       /vacancies/{id} [get]
func (h *VacancyHandler) Get(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	v, err := h.vacancyUC.GetVacancy(c.Request.Context(), currentUserID(c), id)
	if err != nil {
		_ = c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "", v)
}
