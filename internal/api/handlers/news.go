package handlers

import (
	"net/http"
	"strings"

	"github.com/ndewijer/folio/internal/api/response"
	"github.com/ndewijer/folio/internal/apperrors"
	"github.com/ndewijer/folio/internal/service"
)

// defaultHeadlines is how many headlines per symbol are returned without ?limit=.
const defaultHeadlines = 5

// NewsHandler serves headlines and AI insights.
type NewsHandler struct {
	newsService    *service.NewsService
	insightService *service.InsightService
}

// NewNewsHandler creates a new NewsHandler.
func NewNewsHandler(newsService *service.NewsService, insightService *service.InsightService) *NewsHandler {
	return &NewsHandler{
		newsService:    newsService,
		insightService: insightService,
	}
}

// News handles GET requests for recent headlines of the held symbols, or of
// ?symbol= alone. Feeds that fail are listed in the errors map.
//
// Endpoint: GET /api/news
// Response: 200 OK with model.NewsFeed
func (h *NewsHandler) News(w http.ResponseWriter, r *http.Request) {
	limit, err := intQuery(r, "limit", defaultHeadlines)
	if err != nil {
		response.RespondError(w, http.StatusBadRequest, "invalid limit", err.Error())
		return
	}
	symbol := strings.ToUpper(strings.TrimSpace(r.URL.Query().Get("symbol")))

	feed, err := h.newsService.GetNews(r.Context(), symbol, limit)
	if err != nil {
		respondServiceError(w, err, apperrors.ErrFailedToRetrieveNews.Error())
		return
	}
	response.RespondJSON(w, http.StatusOK, feed)
}

// Insight handles POST requests to generate an AI commentary.
//
// Endpoint: POST /api/insight
// Response: 200 OK with model.Insight
// Error: 400 Bad Request if no AI key is configured
func (h *NewsHandler) Insight(w http.ResponseWriter, r *http.Request) {
	insight, err := h.insightService.Generate(r.Context())
	if err != nil {
		respondServiceError(w, err, apperrors.ErrFailedToGenerateInsight.Error())
		return
	}
	response.RespondJSON(w, http.StatusOK, insight)
}
