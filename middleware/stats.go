package middleware

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/seo-optimizer/contentlens/logging"
)

// saveEvery is the number of tracked analyses between statistics saves.
const saveEvery = 100

// Stats tracks visitors and analysis requests. Requests to paths under
// prefix with method POST count as analyses; the analyzed page URL is read
// from the "page_url" context key set by the handler.
func Stats(stats *logging.Statistics, prefix string, logger zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		stats.TrackVisitor(c.ClientIP())

		c.Next()

		if c.Request.Method != http.MethodPost || !strings.HasPrefix(c.Request.URL.Path, prefix) {
			return
		}

		loadTime := float64(time.Since(start).Milliseconds())
		stats.TrackAnalysis(c.GetString(PageURLKey), loadTime, c.Writer.Status() >= 400)

		if stats.TotalRequests()%saveEvery == 0 {
			go func() {
				if err := stats.Save(); err != nil {
					logger.Error().Err(err).Msg("failed to save statistics")
				}
			}()
		}
	}
}
