package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"mailsift/internal/cache"
	"mailsift/internal/ingest"
	"mailsift/internal/models"
	"mailsift/internal/store"
)

const (
	defaultListLimit   = 10
	defaultSearchLimit = 20
	statsCacheTTL      = 30 * time.Second
	searchCacheTTL     = time.Minute
)

// RecentEmailsHandler returns the most recently stored emails.
func RecentEmailsHandler(st *store.Store) echo.HandlerFunc {
	return func(c echo.Context) error {
		limit := limitParam(c, defaultListLimit)
		emails := st.Recent(limit)
		return c.JSON(http.StatusOK, models.EmailListResponse{
			Count:  len(emails),
			Emails: emails,
		})
	}
}

// UnprocessedEmailsHandler returns emails awaiting analysis.
func UnprocessedEmailsHandler(st *store.Store) echo.HandlerFunc {
	return func(c echo.Context) error {
		limit := limitParam(c, defaultListLimit)
		emails := st.Unprocessed(limit)
		return c.JSON(http.StatusOK, models.EmailListResponse{
			Count:  len(emails),
			Emails: emails,
		})
	}
}

// ThreadHandler returns a conversation thread in chronological order.
func ThreadHandler(st *store.Store) echo.HandlerFunc {
	return func(c echo.Context) error {
		threadID := c.Param("id")
		if threadID == "" {
			return c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "thread id is required"})
		}
		emails := st.Thread(threadID)
		return c.JSON(http.StatusOK, models.EmailListResponse{
			Count:  len(emails),
			Emails: emails,
		})
	}
}

// SearchEmailsHandler returns emails matching a free-text term.
func SearchEmailsHandler(st *store.Store, ch *cache.Cache) echo.HandlerFunc {
	return func(c echo.Context) error {
		term := c.QueryParam("q")
		if term == "" {
			return c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "query parameter q is required"})
		}
		limit := limitParam(c, defaultSearchLimit)

		cacheKey := "search:" + strconv.Itoa(limit) + ":" + term
		if cached, ok := ch.Get(cacheKey); ok {
			return c.JSON(http.StatusOK, cached)
		}

		emails := st.Search(term, limit)
		response := models.EmailListResponse{
			Count:  len(emails),
			Emails: emails,
		}
		ch.Set(cacheKey, response, searchCacheTTL)
		return c.JSON(http.StatusOK, response)
	}
}

// StatsHandler returns collection-wide aggregates.
func StatsHandler(st *store.Store, ch *cache.Cache) echo.HandlerFunc {
	return func(c echo.Context) error {
		if cached, ok := ch.Get("stats"); ok {
			return c.JSON(http.StatusOK, cached)
		}

		stats := st.Stats()
		ch.Set("stats", stats, statsCacheTTL)
		return c.JSON(http.StatusOK, stats)
	}
}

// ImportHandler triggers an ingestion run over the configured message export
// directory. Import invalidates the cached query responses.
func ImportHandler(runner *ingest.Runner, ch *cache.Cache, logger zerolog.Logger) echo.HandlerFunc {
	return func(c echo.Context) error {
		limit := limitParam(c, 0)

		result, err := runner.Run(c.Request().Context(), limit)
		if err != nil {
			logger.Error().Err(err).Msg("Ingestion run failed")
			return c.JSON(http.StatusInternalServerError, models.ImportResponse{
				Success: false,
				Message: "Failed to ingest messages",
				Error:   err.Error(),
			})
		}

		ch.Clear()

		return c.JSON(http.StatusOK, models.ImportResponse{
			Success:    true,
			Message:    "Ingestion completed",
			Fetched:    result.Fetched,
			Stored:     result.Stored,
			Duplicates: result.Duplicates,
			Analyzed:   result.Analyzed,
			Failed:     result.Failed,
		})
	}
}

// limitParam parses the limit query parameter, falling back to def when the
// parameter is missing or not a positive integer.
func limitParam(c echo.Context, def int) int {
	raw := c.QueryParam("limit")
	if raw == "" {
		return def
	}
	limit, err := strconv.Atoi(raw)
	if err != nil || limit <= 0 {
		return def
	}
	return limit
}
