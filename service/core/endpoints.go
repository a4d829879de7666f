package core

import (
	"embed"
	"errors"
	"html/template"
	"net/http"
	"net/url"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	ex "stockdash/data/extensions"
	sm "stockdash/service/models"
)

//go:embed templates/*.html
var templates embed.FS

type selectionQuery struct {
	T1 string `form:"t1" binding:"omitempty,max=12"`
	T2 string `form:"t2" binding:"omitempty,max=12"`
}

// dashboardPage is what templates/dashboard.html binds to
type dashboardPage struct {
	Title      string
	State      *DashboardState
	Statistics sm.StatisticsResponse
	ChartsUrl  string
}

func GetHttpServer(sc *ServiceContext, d *Dashboard, addr string, allowOrigins []string) *http.Server {
	return &http.Server{
		Addr:           addr,
		Handler:        NewEngine(sc, d, allowOrigins),
		ReadTimeout:    10 * time.Second,
		WriteTimeout:   10 * time.Second,
		MaxHeaderBytes: 1 << 20,
	}
}

func NewEngine(sc *ServiceContext, d *Dashboard, allowOrigins []string) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()
	engine.Use(requestLogger(sc), gin.Recovery())

	engine.Use(cors.New(cors.Config{
		AllowOrigins:     allowOrigins,
		AllowMethods:     []string{"GET", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	engine.SetHTMLTemplate(template.Must(template.New("").Funcs(templateFuncs).ParseFS(templates, "templates/*.html")))

	engine.GET("/", func(c *gin.Context) { dashboard(c, d) })
	engine.GET("/charts", func(c *gin.Context) { chartsPage(c, d) })

	engine.GET("/api/ping", ping)
	engine.GET("/api/tickers", func(c *gin.Context) { tickers(c, sc, d) })
	engine.GET("/api/view", func(c *gin.Context) { view(c, d) })
	engine.GET("/api/stats", func(c *gin.Context) { stats(c, d) })

	return engine
}

func ping(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"message": "pong"})
}

func tickers(c *gin.Context, sc *ServiceContext, d *Dashboard) {
	universe := d.Universe()
	def := DefaultSelection(universe)
	res := sm.TickersResponse{
		Tickers:   universe,
		Start:     ex.FmtShort(sc.Start),
		End:       ex.FmtShort(sc.End),
		Rows:      d.Series().Len(),
		Selection: mapSelection(def, universe),
	}
	c.JSON(http.StatusOK, sm.GetServiceResponseOk(&res))
}

func view(c *gin.Context, d *Dashboard) {
	state, ok := resolveState(c, d)
	if !ok {
		return
	}

	res := MapStateToViewResponse(state)
	c.JSON(http.StatusOK, sm.GetServiceResponseOk(&res))
}

func stats(c *gin.Context, d *Dashboard) {
	state, ok := resolveState(c, d)
	if !ok {
		return
	}

	res := MapStatisticsToResponse(state.Statistics)
	c.JSON(http.StatusOK, sm.GetServiceResponseOk(&res))
}

func dashboard(c *gin.Context, d *Dashboard) {
	state, ok := resolveState(c, d)
	if !ok {
		return
	}

	c.HTML(http.StatusOK, "dashboard.html", dashboardPage{
		Title:      PageTitle,
		State:      state,
		Statistics: MapStatisticsToResponse(state.Statistics),
		ChartsUrl:  chartsUrl(state.Selection),
	})
}

func chartsPage(c *gin.Context, d *Dashboard) {
	state, ok := resolveState(c, d)
	if !ok {
		return
	}

	c.Status(http.StatusOK)
	c.Header("Content-Type", "text/html; charset=utf-8")
	if err := RenderCharts(c.Writer, state); err != nil {
		_ = c.Error(err)
	}
}

// resolveState binds t1/t2 and rebuilds the dashboard, writing a 400 on a bad selection
func resolveState(c *gin.Context, d *Dashboard) (*DashboardState, bool) {
	var q selectionQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		c.JSON(http.StatusBadRequest, sm.GetServiceResponseError(err.Error()))
		return nil, false
	}

	state, err := d.Resolve(q.T1, q.T2)
	if err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, ErrInvalidSelection) {
			status = http.StatusBadRequest
		}
		c.JSON(status, sm.GetServiceResponseError(err.Error()))
		return nil, false
	}

	return state, true
}

func chartsUrl(sel Selection) string {
	q := url.Values{}
	q.Set("t1", sel.T1)
	q.Set("t2", sel.T2)
	return "/charts?" + q.Encode()
}

func requestLogger(sc *ServiceContext) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		fields := []zap.Field{
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.String("query", c.Request.URL.RawQuery),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", time.Since(start)),
		}
		if len(c.Errors) > 0 {
			sc.Logger.Error("request failed", append(fields, zap.String("errors", c.Errors.String()))...)
			return
		}
		sc.Logger.Info("request", fields...)
	}
}

var templateFuncs = template.FuncMap{
	"fmtStat": FormatStatistic,
}
